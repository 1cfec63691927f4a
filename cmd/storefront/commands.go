package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/internal/auth"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/videos"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/angelmondragon/storefront/pkg/validation"
)

type command struct {
	name          string
	summary       string
	authenticated bool
	run           func(ctx context.Context, a *app, args []string) error
}

var commandTable = []command{
	{name: "login", summary: "sign in with email and password", run: runLogin},
	{name: "register", summary: "start an OTP registration", run: runRegister},
	{name: "verify", summary: "finish registration with the emailed code", run: runVerify},
	{name: "forgot", summary: "request a password reset code", run: runForgot},
	{name: "reset", summary: "set a new password with a reset code", run: runReset},
	{name: "change-password", summary: "change the signed-in user's password", authenticated: true, run: runChangePassword},
	{name: "logout", summary: "clear the stored session", run: runLogout},
	{name: "route", summary: "print the screen the app opens on", run: runRoute},
	{name: "whoami", summary: "print the stored profile", run: runWhoAmI},

	{name: "products", summary: "list the catalog, optionally filtered with -q", run: runProducts},
	{name: "brands", summary: "list brands", run: runBrands},
	{name: "categories", summary: "list categories", run: runCategories},
	{name: "create-product", summary: "add a catalog entry", authenticated: true, run: runCreateProduct},
	{name: "delete-product", summary: "remove a catalog entry", authenticated: true, run: runDeleteProduct},
	{name: "create-brand", summary: "add a brand", authenticated: true, run: runCreateBrand},
	{name: "create-category", summary: "add a category", authenticated: true, run: runCreateCategory},
	{name: "update-category", summary: "rename or describe a category", authenticated: true, run: runUpdateCategory},
	{name: "delete-category", summary: "remove an unused category", authenticated: true, run: runDeleteCategory},

	{name: "cart", summary: "show the cart", authenticated: true, run: runCart},
	{name: "add", summary: "add a product to the cart", authenticated: true, run: runAdd},
	{name: "remove", summary: "remove a product from the cart", authenticated: true, run: runRemove},
	{name: "order", summary: "buy a product", authenticated: true, run: runOrder},
	{name: "history", summary: "list past orders", authenticated: true, run: runHistory},
	{name: "details", summary: "list purchased lines", authenticated: true, run: runDetails},
	{name: "pay-link", summary: "create a payment link", authenticated: true, run: runPayLink},
	{name: "pay-confirm", summary: "confirm a payment code", authenticated: true, run: runPayConfirm},

	{name: "videos", summary: "list my videos", authenticated: true, run: runVideos},
	{name: "upload", summary: "upload a video", authenticated: true, run: runUpload},
	{name: "update-video", summary: "edit a video, optionally replacing the file", authenticated: true, run: runUpdateVideo},
	{name: "delete-video", summary: "delete a video", authenticated: true, run: runDeleteVideo},

	{name: "chat", summary: "ask the assistant a question", authenticated: true, run: runChat},
	{name: "scan", summary: "run the beauty scanner", authenticated: true, run: runScan},
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commandTable {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w", fs.Name(), err)
	}
	return nil
}

func pageFlags(fs *flag.FlagSet) *pagination.Params {
	p := &pagination.Params{}
	fs.IntVar(&p.Page, "page", pagination.DefaultPage, "page number")
	fs.IntVar(&p.PageSize, "page-size", pagination.DefaultPageSize, "rows per page")
	return p
}

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := a.checkInline(map[string]string{
		"email":    validation.EmailError(*email),
		"password": validation.PasswordError(*password),
	}); err != nil {
		return err
	}
	res, err := a.auth.Login(ctx, auth.LoginRequest{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "signed in as %s, navigate to %s\n", profileName(res), auth.RouteMain)
	return nil
}

func runRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("register")
	var req auth.RegisterRequest
	fs.StringVar(&req.Email, "email", "", "account email")
	fs.StringVar(&req.Name, "name", "", "display name")
	fs.StringVar(&req.Password, "password", "", "account password")
	fs.StringVar(&req.Phone, "phone", "", "phone number")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := a.checkInline(map[string]string{
		"email":    validation.EmailError(req.Email),
		"name":     validation.NameError(req.Name),
		"password": validation.PasswordError(req.Password),
	}); err != nil {
		return err
	}
	res, err := a.auth.RegisterWithOTP(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, res.Message)
	return nil
}

func runVerify(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("verify")
	var req auth.VerifyOTPRequest
	fs.StringVar(&req.Email, "email", "", "account email")
	fs.StringVar(&req.OTP, "otp", "", "6 digit code")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	res, err := a.auth.VerifyOTP(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "welcome %s, navigate to %s\n", profileName(res), auth.RouteMain)
	return nil
}

func runForgot(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("forgot")
	var req auth.ForgotPasswordRequest
	fs.StringVar(&req.Email, "email", "", "account email")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := a.checkInline(map[string]string{"email": validation.EmailError(req.Email)}); err != nil {
		return err
	}
	res, err := a.auth.ForgotPassword(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, res.Message)
	return nil
}

func runReset(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("reset")
	var req auth.NewPasswordRequest
	fs.StringVar(&req.Email, "email", "", "account email")
	fs.StringVar(&req.OTP, "otp", "", "6 digit code")
	fs.StringVar(&req.NewPassword, "password", "", "new password")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := a.checkInline(map[string]string{
		"email":    validation.EmailError(req.Email),
		"password": validation.PasswordError(req.NewPassword),
	}); err != nil {
		return err
	}
	if err := a.auth.NewPassword(ctx, req); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "password updated")
	return nil
}

func runChangePassword(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("change-password")
	var req auth.ChangePasswordRequest
	fs.StringVar(&req.CurrentPassword, "current", "", "current password")
	fs.StringVar(&req.NewPassword, "new", "", "new password")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := a.checkInline(map[string]string{"new": validation.PasswordError(req.NewPassword)}); err != nil {
		return err
	}
	if err := a.auth.ChangePassword(ctx, req); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "password changed")
	return nil
}

func runLogout(ctx context.Context, a *app, _ []string) error {
	route, err := a.gate.Logout(ctx)
	if err != nil {
		return err
	}
	a.basket.Dispatch(cart.Cleared{})
	fmt.Fprintf(a.out, "signed out, navigate to %s\n", route)
	return nil
}

func runRoute(ctx context.Context, a *app, _ []string) error {
	fmt.Fprintln(a.out, a.gate.InitialRoute(ctx))
	return nil
}

func runWhoAmI(ctx context.Context, a *app, _ []string) error {
	profile, err := a.sessions.User(ctx)
	if err != nil {
		return err
	}
	return a.printJSON(profile)
}

func runProducts(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("products")
	query := fs.String("q", "", "filter by product or brand name")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	items, err := a.catalog.ListProducts(ctx)
	if err != nil {
		return err
	}
	return a.printJSON(products.Search(items, *query))
}

func runBrands(ctx context.Context, a *app, _ []string) error {
	brands, err := a.catalog.ListBrands(ctx)
	if err != nil {
		return err
	}
	return a.printJSON(brands)
}

func runCategories(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("categories")
	page := pageFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	categories, err := a.catalog.ListCategories(ctx, *page)
	if err != nil {
		return err
	}
	return a.printJSON(categories)
}

func runCreateProduct(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("create-product")
	var input products.CreateProductInput
	var images, commission string
	fs.StringVar(&input.Name, "name", "", "product name")
	fs.StringVar(&input.Description, "description", "", "product description")
	fs.Int64Var(&input.Price, "price", 0, "price in the smallest currency unit")
	fs.IntVar(&input.StockQuantity, "stock", 0, "units in stock")
	fs.StringVar(&input.CategoryID, "category", "", "category id")
	fs.StringVar(&input.BrandID, "brand", "", "brand id")
	fs.StringVar(&images, "images", "", "comma separated image urls")
	fs.StringVar(&commission, "commission", "0", "commission rate")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	rate, err := decimal.NewFromString(commission)
	if err != nil {
		return fmt.Errorf("invalid -commission: %w", err)
	}
	input.CommissionRate = rate
	input.ImageURLs = splitList(images)

	created, err := a.catalog.CreateProduct(ctx, input)
	if err != nil {
		return err
	}
	return a.printJSON(created)
}

func runDeleteProduct(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("delete-product")
	id := fs.String("id", "", "product id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := a.catalog.DeleteProduct(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "product deleted")
	return nil
}

func runCreateBrand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("create-brand")
	var input products.CreateBrandInput
	fs.StringVar(&input.Name, "name", "", "brand name")
	fs.BoolVar(&input.IsPremium, "premium", false, "mark the brand as premium")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	brand, err := a.catalog.CreateBrand(ctx, input)
	if err != nil {
		return err
	}
	return a.printJSON(brand)
}

func categoryFlags(fs *flag.FlagSet) *products.CategoryInput {
	input := &products.CategoryInput{}
	fs.StringVar(&input.Name, "name", "", "category name")
	fs.StringVar(&input.Description, "description", "", "category description")
	return input
}

func runCreateCategory(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("create-category")
	input := categoryFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	category, err := a.catalog.CreateCategory(ctx, *input)
	if err != nil {
		return err
	}
	return a.printJSON(category)
}

func runUpdateCategory(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("update-category")
	id := fs.String("id", "", "category id")
	input := categoryFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	category, err := a.catalog.UpdateCategory(ctx, *id, *input)
	if err != nil {
		return err
	}
	return a.printJSON(category)
}

func runDeleteCategory(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("delete-category")
	id := fs.String("id", "", "category id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := a.catalog.DeleteCategory(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "category deleted")
	return nil
}

func runCart(ctx context.Context, a *app, _ []string) error {
	items, err := a.cart.Fetch(ctx)
	if err != nil {
		return err
	}
	if err := a.printJSON(items); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d line(s), %d unit(s), subtotal %d\n", len(items), a.basket.Count(), a.basket.Subtotal())
	return nil
}

// runAdd looks the product up first so the out-of-stock guard runs before the
// backend is asked.
func runAdd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("add")
	id := fs.String("product", "", "product id")
	qty := fs.Int("qty", 1, "quantity")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	items, err := a.catalog.ListProducts(ctx)
	if err != nil {
		return err
	}
	if product, ok := products.FindByID(items, strings.TrimSpace(*id)); ok {
		err = a.cart.AddProduct(ctx, product, *qty)
	} else {
		err = a.cart.Add(ctx, *id, *qty)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "added to cart")
	return nil
}

func runRemove(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("remove")
	id := fs.String("product", "", "product id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := a.cart.Remove(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "removed from cart")
	return nil
}

func runOrder(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("order")
	var req orders.PlaceRequest
	fs.StringVar(&req.ProductID, "product", "", "product id")
	fs.IntVar(&req.Quantity, "qty", 1, "quantity")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	order, err := a.orders.Place(ctx, req)
	if err != nil {
		return err
	}
	return a.printJSON(order)
}

func runHistory(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("history")
	page := pageFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	history, err := a.orders.History(ctx, *page)
	if err != nil {
		return err
	}
	return a.printJSON(history)
}

func runDetails(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("details")
	page := pageFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	details, err := a.orders.Details(ctx, *page)
	if err != nil {
		return err
	}
	return a.printJSON(details)
}

func runPayLink(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("pay-link")
	raw := fs.String("amount", "", "amount to charge")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil {
		return fmt.Errorf("invalid -amount: %w", err)
	}
	link, err := a.payments.CreateLink(ctx, amount)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, link.PaymentURL)
	return nil
}

func runPayConfirm(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("pay-confirm")
	code := fs.String("code", "", "payment code")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := a.payments.Confirm(ctx, *code); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "payment confirmed")
	return nil
}

func runVideos(ctx context.Context, a *app, _ []string) error {
	mine, err := a.videos.Mine(ctx)
	if err != nil {
		return err
	}
	return a.printJSON(mine)
}

func videoFlags(fs *flag.FlagSet) (*videos.Metadata, *string) {
	meta := &videos.Metadata{}
	fs.StringVar(&meta.Title, "title", "", "video title")
	fs.StringVar(&meta.Description, "description", "", "video description")
	return meta, fs.String("file", "", "path of the clip")
}

// openClip opens path for upload. The returned close func is never nil.
func openClip(path string) (*videos.File, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, func() {}, err
	}
	return &videos.File{
		Name:     filepath.Base(path),
		MimeType: mime.TypeByExtension(filepath.Ext(path)),
		Content:  f,
	}, func() { _ = f.Close() }, nil
}

func runUpload(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("upload")
	meta, path := videoFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if strings.TrimSpace(*path) == "" {
		return errors.New("upload: -file is required")
	}
	file, closeFile, err := openClip(*path)
	defer closeFile()
	if err != nil {
		return err
	}
	video, err := a.videos.Upload(ctx, *meta, *file)
	if err != nil {
		return err
	}
	return a.printJSON(video)
}

func runUpdateVideo(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("update-video")
	id := fs.String("id", "", "video id")
	meta, path := videoFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	var file *videos.File
	if strings.TrimSpace(*path) != "" {
		f, closeFile, err := openClip(*path)
		defer closeFile()
		if err != nil {
			return err
		}
		file = f
	}
	video, err := a.videos.Update(ctx, *id, *meta, file)
	if err != nil {
		return err
	}
	return a.printJSON(video)
}

func runDeleteVideo(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("delete-video")
	id := fs.String("id", "", "video id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := a.videos.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "video deleted")
	return nil
}

// runChat sends every positional argument as one message.
func runChat(ctx context.Context, a *app, args []string) error {
	conv, err := a.conversation()
	if err != nil {
		return err
	}
	reply, err := conv.Send(ctx, strings.Join(args, " "))
	if reply.Text != "" {
		fmt.Fprintln(a.out, reply.Text)
	}
	return err
}

func runScan(ctx context.Context, a *app, _ []string) error {
	result, err := a.scanner.Scan(ctx)
	if err != nil {
		return err
	}
	return a.printJSON(result)
}

func profileName(res *auth.LoginResponse) string {
	if res == nil || res.User == nil {
		return "user"
	}
	if res.User.Name != "" {
		return res.User.Name
	}
	return res.User.Email
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package sandbox

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/videos"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func testConfig(seed bool) config.SandboxConfig {
	return config.SandboxConfig{
		Port: "7191",
		Password: config.PasswordConfig{
			ArgonMemoryKB:    1024,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
		OTP:  config.OTPConfig{TTL: time.Minute, FixedCode: "123456"},
		Seed: seed,
	}
}

func newTestStore(t *testing.T, seed bool) (*Store, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	s, err := New(Params{Config: testConfig(seed), PublicURL: "http://sandbox.test/", Now: c.now})
	require.NoError(t, err)
	return s, c
}

func TestRegistrationFlow(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, false)

	code, err := s.Register(ctx, Registration{Email: " Ana@Example.com ", Name: "Ana", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "123456", code)

	_, err = s.VerifyRegistration(ctx, "ana@example.com", "000000")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	profile, err := s.VerifyRegistration(ctx, "ana@example.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", profile.Email)
	assert.NotEmpty(t, profile.ID)

	_, err = s.Register(ctx, Registration{Email: "ana@example.com", Name: "Ana", Password: "secret1"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	got, err := s.Authenticate(ctx, "ANA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, got.ID)

	_, err = s.Authenticate(ctx, "ana@example.com", "wrong-pass")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestExpiredOTPIsDiscarded(t *testing.T) {
	ctx := context.Background()
	s, c := newTestStore(t, false)
	_, err := s.Register(ctx, Registration{Email: "late@example.com", Name: "Late", Password: "secret1"})
	require.NoError(t, err)

	c.t = c.t.Add(2 * time.Minute)
	_, err = s.VerifyRegistration(ctx, "late@example.com", "123456")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = s.VerifyRegistration(ctx, "late@example.com", "123456")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestPasswordResetAndChange(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, true)

	_, err := s.StartPasswordReset(ctx, "nobody@example.com")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	code, err := s.StartPasswordReset(ctx, DemoEmail)
	require.NoError(t, err)
	require.NoError(t, s.ResetPassword(ctx, DemoEmail, code, "brandnew1"))

	_, err = s.Authenticate(ctx, DemoEmail, DemoPassword)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	profile, err := s.Authenticate(ctx, DemoEmail, "brandnew1")
	require.NoError(t, err)

	err = s.ChangePassword(ctx, profile.ID, "not-it", "another1")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	require.NoError(t, s.ChangePassword(ctx, profile.ID, "brandnew1", "another1"))
	_, err = s.Authenticate(ctx, DemoEmail, "another1")
	assert.NoError(t, err)
}

func TestCatalogAdministration(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, true)

	all := s.ListProducts(ctx)
	require.Len(t, all, len(seedProducts))
	assert.Equal(t, "Warm Beige Liquid Foundation", all[0].Name)

	brand, err := s.CreateBrand(ctx, products.CreateBrandInput{Name: "Nova"})
	require.NoError(t, err)
	_, err = s.CreateBrand(ctx, products.CreateBrandInput{Name: "nova"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	category, err := s.CreateCategory(ctx, products.CategoryInput{Name: "Tools"})
	require.NoError(t, err)

	created, err := s.CreateProduct(ctx, products.CreateProductInput{
		Name:           "Blending Sponge",
		Price:          50000,
		StockQuantity:  3,
		CommissionRate: decimal.RequireFromString("0.05"),
		CategoryID:     category.CategoryID,
		BrandID:        brand.BrandID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Nova", created.Brand.Name)

	_, err = s.CreateProduct(ctx, products.CreateProductInput{Name: "x", CategoryID: category.CategoryID, BrandID: "missing"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	renamed, err := s.UpdateCategory(ctx, category.CategoryID, products.CategoryInput{Name: "Brushes & Tools"})
	require.NoError(t, err)
	assert.Equal(t, "Brushes & Tools", renamed.Name)
	for _, p := range s.ListProducts(ctx) {
		if p.ProductID == created.ProductID {
			assert.Equal(t, "Brushes & Tools", p.Category.Name)
		}
	}

	err = s.DeleteCategory(ctx, category.CategoryID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	require.NoError(t, s.DeleteProduct(ctx, created.ProductID))
	require.NoError(t, s.DeleteCategory(ctx, category.CategoryID))
	assert.True(t, pkgerrors.IsCode(s.DeleteProduct(ctx, created.ProductID), pkgerrors.CodeNotFound))

	firstPage := s.ListCategories(ctx, pagination.Params{Page: 1, PageSize: 2})
	assert.Len(t, firstPage, 2)
	assert.Empty(t, s.ListCategories(ctx, pagination.Params{Page: 9, PageSize: 2}))
}

func TestCartAndOrders(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, true)
	catalog := s.ListProducts(ctx)
	mascara := findByName(t, catalog, "Volume Mascara")
	soldOut := findByName(t, catalog, "Rose Pink Blush")

	require.NoError(t, s.AddToCart(ctx, "u1", mascara.ProductID, 2))
	require.NoError(t, s.AddToCart(ctx, "u1", mascara.ProductID, 1))
	items := s.Cart(ctx, "u1")
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Empty(t, s.Cart(ctx, "u2"))

	err := s.AddToCart(ctx, "u1", soldOut.ProductID, 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	order, err := s.PlaceOrder(ctx, "u1", orders.PlaceRequest{ProductID: mascara.ProductID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "ORD-000001", order.OrderNumber)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(700000)))
	assert.True(t, order.TotalAmount.Equal(order.ItemsTotal()))
	assert.Empty(t, s.Cart(ctx, "u1"))

	after := findByName(t, s.ListProducts(ctx), "Volume Mascara")
	assert.Equal(t, mascara.StockQuantity-2, after.StockQuantity)

	_, err = s.PlaceOrder(ctx, "u1", orders.PlaceRequest{ProductID: mascara.ProductID, Quantity: 1000})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	second, err := s.PlaceOrder(ctx, "u1", orders.PlaceRequest{ProductID: mascara.ProductID, Quantity: 1})
	require.NoError(t, err)
	history := s.OrderHistory(ctx, "u1", pagination.Params{})
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)

	details := s.OrderDetails(ctx, "u1", pagination.Params{PageSize: 1})
	require.Len(t, details, 1)
	assert.Equal(t, second.ID, details[0].OrderID)
	assert.Equal(t, "Volume Mascara", details[0].Product.Name)

	assert.True(t, pkgerrors.IsCode(s.RemoveFromCart(ctx, "u1", mascara.ProductID), pkgerrors.CodeNotFound))
}

func TestPayments(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, false)

	_, err := s.CreatePaymentLink(ctx, "u1", decimal.Zero)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	link, err := s.CreatePaymentLink(ctx, "u1", decimal.NewFromInt(150000))
	require.NoError(t, err)
	require.Contains(t, link.PaymentURL, "http://sandbox.test/pay/")
	code := link.PaymentURL[len("http://sandbox.test/pay/"):]

	assert.True(t, pkgerrors.IsCode(s.ConfirmPayment(ctx, "u2", code), pkgerrors.CodeNotFound))
	require.NoError(t, s.ConfirmPayment(ctx, "u1", code))
	assert.True(t, pkgerrors.IsCode(s.ConfirmPayment(ctx, "u1", code), pkgerrors.CodeStateConflict))
}

func TestPaymentConfirmsMatchingOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, true)
	mascara := findByName(t, s.ListProducts(ctx), "Volume Mascara")

	_, err := s.PlaceOrder(ctx, "u1", orders.PlaceRequest{ProductID: mascara.ProductID, Quantity: 1})
	require.NoError(t, err)
	other, err := s.PlaceOrder(ctx, "u1", orders.PlaceRequest{ProductID: mascara.ProductID, Quantity: 2})
	require.NoError(t, err)

	link, err := s.CreatePaymentLink(ctx, "u1", other.TotalAmount)
	require.NoError(t, err)
	code := link.PaymentURL[len("http://sandbox.test/pay/"):]
	require.NoError(t, s.ConfirmPayment(ctx, "u1", code))

	history := s.OrderHistory(ctx, "u1", pagination.Params{})
	require.Len(t, history, 2)
	assert.Equal(t, enums.OrderStatusConfirmed, history[0].Status)
	assert.Equal(t, enums.OrderStatusPending, history[1].Status)
}

func TestVideos(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, false)

	_, err := s.UploadVideo(ctx, "kol", videos.Metadata{Title: "t", Description: "d"}, Upload{Name: "a.mp4", Size: 0})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = s.UploadVideo(ctx, "kol", videos.Metadata{Title: "t", Description: "d"}, Upload{Name: "a.png", MimeType: "image/png", Size: 3})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	v, err := s.UploadVideo(ctx, "kol", videos.Metadata{Title: "Look", Description: "Evening"}, Upload{Name: "look.mp4", MimeType: "video/mp4", Size: 10})
	require.NoError(t, err)
	assert.Equal(t, "http://sandbox.test/media/videos/"+v.VideoID+"/look.mp4", v.VideoURL)

	updated, err := s.UpdateVideo(ctx, "kol", v.VideoID, videos.Metadata{Title: "Look 2", Description: "Night"}, nil)
	require.NoError(t, err)
	assert.Equal(t, v.VideoURL, updated.VideoURL)
	assert.Equal(t, "Look 2", s.Videos(ctx, "kol")[0].Title)

	replaced, err := s.UpdateVideo(ctx, "kol", v.VideoID, videos.Metadata{Title: "Look 3", Description: "Night"}, &Upload{Name: "new.mp4", Size: 5})
	require.NoError(t, err)
	assert.Contains(t, replaced.VideoURL, "/new.mp4")

	_, err = s.UpdateVideo(ctx, "someone-else", v.VideoID, videos.Metadata{Title: "x", Description: "y"}, nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	require.NoError(t, s.DeleteVideo(ctx, "kol", v.VideoID))
	assert.Empty(t, s.Videos(ctx, "kol"))
}

func TestReply(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, true)

	assert.Contains(t, s.Reply(ctx, "Is the Volume Mascara available?"), "Volume Mascara is in stock")
	assert.Contains(t, s.Reply(ctx, "rose pink blush please"), "out of stock")
	assert.Contains(t, s.Reply(ctx, "Where are my orders?"), "Order History")
	assert.Contains(t, s.Reply(ctx, "hi"), "Hi there")
	assert.Contains(t, s.Reply(ctx, "highlighting tips"), "not sure")
	assert.Empty(t, s.Reply(ctx, "   "))
}

func findByName(t *testing.T, items []products.Product, name string) products.Product {
	t.Helper()
	for _, p := range items {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("product %q not found", name)
	return products.Product{}
}

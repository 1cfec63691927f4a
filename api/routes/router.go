package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/internal/sandbox"
	"github.com/angelmondragon/storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
)

// APIPrefix is where the storefront REST contract is mounted.
const APIPrefix = "/api"

// Params wires the sandbox router.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	Store    *sandbox.Store
	Registry *prometheus.Registry
}

func NewRouter(params Params) http.Handler {
	cfg := params.Config
	logg := params.Logger
	store := params.Store

	var (
		requestMetrics *metrics.RequestMetrics
		gatherer       prometheus.Gatherer = prometheus.DefaultGatherer
	)
	if params.Registry != nil {
		requestMetrics = metrics.NewRequestMetrics(params.Registry, metrics.SubsystemSandbox)
		gatherer = params.Registry
	}
	tokens := controllers.NewTokenIssuer(cfg.Sandbox.JWT)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, requestMetrics),
		middleware.CORS(cfg.Sandbox.AllowedOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "method not allowed"))
	})

	r.Get("/health/live", controllers.HealthLive(cfg))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route(APIPrefix, func(r chi.Router) {
		authenticated := middleware.Auth(cfg.Sandbox.JWT, logg)

		r.Route("/User", func(r chi.Router) {
			r.Post("/Login", controllers.Login(store, tokens, logg))
			r.Post("/registerwithotp", controllers.RegisterWithOTP(store, logg))
			r.Post("/verifyotp", controllers.VerifyOTP(store, tokens, logg))
			r.Post("/forgotpassword", controllers.ForgotPassword(store, logg))
			r.Post("/newPass", controllers.NewPassword(store, logg))
			r.With(authenticated).Post("/ChangePassword", controllers.ChangePassword(store, logg))
		})

		r.Get("/Product/GetAllProduct", controllers.ListProducts(store))
		r.Get("/Brand/GetAllBrand", controllers.ListBrands(store))
		r.Get("/Category/GetAllCategory", controllers.ListCategories(store, logg))

		r.Group(func(r chi.Router) {
			r.Use(authenticated)

			r.Post("/Product/CreateProduct", controllers.CreateProduct(store, logg))
			r.Delete("/Product/DeleteProduct/{id}", controllers.DeleteProduct(store, logg))
			r.Post("/Brand/CreateBrand", controllers.CreateBrand(store, logg))
			r.Post("/Category/CreateCategory", controllers.CreateCategory(store, logg))
			r.Put("/Category/UpdateCategoryBy/{id}", controllers.UpdateCategory(store, logg))
			r.Delete("/Category/DeleteCategoryBy/{id}", controllers.DeleteCategory(store, logg))

			r.Get("/cart", controllers.GetCart(store, logg))
			r.Post("/cart/add", controllers.AddToCart(store, logg))
			r.Delete("/cart/remove/{id}", controllers.RemoveFromCart(store, logg))

			r.Post("/Order", controllers.PlaceOrder(store, logg))
			r.Get("/Order/history", controllers.OrderHistory(store, logg))
			r.Get("/OrderDetail", controllers.OrderDetails(store, logg))

			r.Get("/KOLVideo/my-videos", controllers.MyVideos(store, logg))
			r.Post("/KOLVideo/upload", controllers.UploadVideo(store, logg))
			r.Put("/KOLVideo/update/{id}", controllers.UpdateVideo(store, logg))
			r.Delete("/KOLVideo/delete/{id}", controllers.DeleteVideo(store, logg))

			r.Post("/Payment/create-payment-link", controllers.CreatePaymentLink(store, logg))
			r.Post("/Payment/payment", controllers.ConfirmPayment(store, logg))

			r.Post("/Chat", controllers.Chat(store, logg))
		})
	})

	return r
}

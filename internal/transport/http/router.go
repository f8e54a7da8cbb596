package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/propertyhub/api/internal/application/auth"
	fileapp "github.com/propertyhub/api/internal/application/file"
	"github.com/propertyhub/api/internal/application/property"
	"github.com/propertyhub/api/internal/config"
	"github.com/propertyhub/api/internal/transport/http/handler"
	appmiddleware "github.com/propertyhub/api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)

	// Transport-level throttle on the OTP endpoints, in front of the
	// per-phone cooldown. 5 req/s with a burst of 10, per client IP.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:        deps.UserRepo,
		Sender:          deps.SMSSender,
		JWTProvider:     deps.JWTProvider,
		EnforceCooldown: cfg.IsProduction(),
		EchoOTP:         cfg.AppEnv == "development",
	})
	propertySvc := property.NewService(deps.PropertyRepo)
	fileSvc := fileapp.NewService(deps.S3Store)

	healthH := handler.NewHealthHandler()
	// Cookie max-age tracks the token expiry so the browser drops the cookie
	// when the token stops verifying.
	authH := handler.NewAuthHandler(authSvc, deps.JWTProvider.Expiry(), cfg.IsProduction())
	propertyH := handler.NewPropertyHandler(propertySvc)
	uploadH := handler.NewUploadHandler(fileSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)

		r.With(sensitiveRL.Limit).Post("/auth/send-otp", authH.SendOTP)
		r.With(sensitiveRL.Limit).Post("/auth/verify-otp", authH.VerifyOTP)
		r.Post("/auth/logout", authH.Logout)

		r.Get("/properties", propertyH.List)
		r.Get("/properties/{id}", propertyH.Get)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/auth/me", authH.Me)
			r.Put("/auth/profile", authH.UpdateProfile)

			r.Get("/properties/mine", propertyH.ListMine)
			r.Post("/properties", propertyH.Create)
			r.Post("/uploads/images", uploadH.UploadImages)
		})
	})

	return r
}

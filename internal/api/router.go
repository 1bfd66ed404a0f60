package api

import (
	"net/http"
	"time"

	"projeto_nfc/internal/api/handler"
	"projeto_nfc/internal/api/middleware"
	"projeto_nfc/internal/app/service"
	"projeto_nfc/internal/platform/logging"
	"projeto_nfc/internal/platform/session"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// PatientRouterDeps wires the patient-info API. UnlockLimiter is optional; it
// budgets unlock attempts per peer IP and per userId.
type PatientRouterDeps struct {
	RecordService *service.RecordService
	Auth          middleware.AuthChecker
	UnlockLimiter middleware.Limiter
	Log           logging.Logger
}

// AccountRouterDeps wires the account website. LoginLimiter is optional.
type AccountRouterDeps struct {
	AccountService *service.AccountService
	Sessions       session.Store
	Pages          *handler.Pages
	SecureCookies  bool
	LoginLimiter   middleware.Limiter
	Log            logging.Logger
}

func baseRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.PeerAddr) // before RealIP, for rate limiting
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	return r
}

func NewPatientRouter(deps PatientRouterDeps) http.Handler {
	r := baseRouter()

	var unlockMW []func(http.Handler) http.Handler
	if deps.UnlockLimiter != nil {
		unlockMW = append(unlockMW, middleware.RateLimit(deps.UnlockLimiter, deps.Log, handler.TooManyUnlocks))
	}

	r.Route("/api", func(api chi.Router) {
		recordHandler := handler.NewRecordHandler(deps.RecordService, deps.UnlockLimiter, deps.Log)
		recordHandler.RegisterRoutes(api, unlockMW...)

		adminHandler := handler.NewAdminHandler(deps.RecordService, deps.Auth)
		api.Route("/admin", adminHandler.RegisterRoutes)
	})

	return r
}

func NewAccountRouter(deps AccountRouterDeps) http.Handler {
	r := baseRouter()

	accountHandler := handler.NewAccountHandler(deps.AccountService, deps.Sessions, deps.Pages, deps.SecureCookies, deps.Log)

	var loginMW []func(http.Handler) http.Handler
	if deps.LoginLimiter != nil {
		loginMW = append(loginMW, middleware.RateLimit(deps.LoginLimiter, deps.Log, accountHandler.TooManyLogins))
	}

	r.Group(func(site chi.Router) {
		site.Use(middleware.LoadSession(deps.Sessions, deps.Log))
		accountHandler.RegisterRoutes(site, loginMW...)
	})

	return r
}

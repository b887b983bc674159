package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/be9expensphie/expensphie/internal/transport/httpapi/handler"
	"github.com/be9expensphie/expensphie/internal/transport/httpapi/middleware"
	"github.com/be9expensphie/expensphie/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger            *logger.Logger
	AllowedOrigins    []string
	RateLimitRPS      int
	RateLimitBurst    int
	AuthHandler       *handler.AuthHandler
	HouseholdHandler  *handler.HouseholdHandler
	ExpenseHandler    *handler.ExpenseHandler
	SettlementHandler *handler.SettlementHandler
	DashboardHandler  *handler.DashboardHandler
	HealthHandler     *handler.HealthHandler
	JWTMiddleware     func(http.Handler) http.Handler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	// Health check endpoints (no authentication required)
	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
	}

	// API routes
	r.Route("/app/v1", func(r chi.Router) {
		// Auth routes (public - no authentication required)
		if cfg.AuthHandler != nil {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
		}

		// Protected routes (require JWT authentication)
		if cfg.JWTMiddleware != nil {
			r.Group(func(r chi.Router) {
				r.Use(cfg.JWTMiddleware)

				// Household routes
				if cfg.HouseholdHandler != nil {
					r.Get("/households/my", cfg.HouseholdHandler.List)
					r.Post("/households/create", cfg.HouseholdHandler.Create)
					r.Post("/households/join", cfg.HouseholdHandler.Join)
					r.Get("/households/{householdID}/members", cfg.HouseholdHandler.Members)

					r.Get("/session/active-household", cfg.HouseholdHandler.ActiveHousehold)
					r.Put("/session/active-household", cfg.HouseholdHandler.SetActiveHousehold)
					r.Delete("/session/active-household", cfg.HouseholdHandler.ClearActiveHousehold)
				}

				// Expense routes
				if cfg.ExpenseHandler != nil {
					r.Route("/households/{householdID}/expenses", func(r chi.Router) {
						r.Post("/", cfg.ExpenseHandler.Create)
						r.Get("/", cfg.ExpenseHandler.List)
						r.Get("/{expenseID}", cfg.ExpenseHandler.Get)
						r.Put("/{expenseID}/approve", cfg.ExpenseHandler.Approve)
						r.Put("/{expenseID}/reject", cfg.ExpenseHandler.Reject)
						r.Put("/{expenseID}/rollback", cfg.ExpenseHandler.Rollback)
					})
				}

				// Settlement routes
				if cfg.SettlementHandler != nil {
					r.Route("/settlements", func(r chi.Router) {
						r.Post("/create", cfg.SettlementHandler.Create)
						r.Get("/awaiting/{memberID}/{householdID}", cfg.SettlementHandler.Awaiting)
						r.Get("/pending/{memberID}/{householdID}/current-month", cfg.SettlementHandler.CurrentMonthStats)
						r.Get("/pending/{memberID}/{householdID}/last-three-months", cfg.SettlementHandler.LastThreeMonthsStats)
						r.Put("/{settlementID}/toggle/{memberID}", cfg.SettlementHandler.Toggle)
						r.Put("/{settlementID}/cancel/{memberID}", cfg.SettlementHandler.Cancel)
						r.Put("/{settlementID}/approve/{memberID}", cfg.SettlementHandler.Approve)
						r.Put("/{settlementID}/reject/{memberID}", cfg.SettlementHandler.Reject)
						r.Get("/{memberID}/{householdID}", cfg.SettlementHandler.List)
					})
				}

				// Dashboard routes
				if cfg.DashboardHandler != nil {
					r.Get("/households/{householdID}/stats", cfg.DashboardHandler.Stats)
				}
			})
		}
	})

	return r
}

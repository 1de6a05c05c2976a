package httpserver

import (
	"net/http"
	"time"

	"finance-tracker-go/internal/config"
	"finance-tracker-go/internal/transport/httpserver/handler"
	authmw "finance-tracker-go/internal/transport/httpserver/middleware"
	"finance-tracker-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, identities authmw.Authenticator, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.AllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/register", handlers.Auth.Register)
		r.Post("/login", handlers.Auth.Login)

		auth := authmw.NewAuth(identities, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/categories", handlers.Ledger.ListCategories)
			r.Post("/categories", handlers.Ledger.CreateCategory)
			r.Get("/categories/{id}", handlers.Ledger.GetCategory)
			r.Put("/categories/{id}", handlers.Ledger.UpdateCategory)
			r.Delete("/categories/{id}", handlers.Ledger.DeleteCategory)

			r.Get("/transactions", handlers.Ledger.ListTransactions)
			r.Post("/transactions", handlers.Ledger.CreateTransaction)
			r.Get("/transactions/{id}", handlers.Ledger.GetTransaction)
			r.Put("/transactions/{id}", handlers.Ledger.UpdateTransaction)
			r.Delete("/transactions/{id}", handlers.Ledger.DeleteTransaction)

			r.Get("/reports/total", handlers.Reports.TotalByKind)
			r.Get("/reports/summary", handlers.Reports.SummaryByCategory)
		})
	})

	return r
}

package api

import (
	"taxiledger/internal/config"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes настраивает все маршруты для API.
func SetupRoutes(r *chi.Mux, cfg *config.Config, deps *ApiDependencies) {
	// --- Маршруты учета смен ---
	r.Route("/api/shift", func(r chi.Router) {
		r.Get("/current", deps.GetCurrentShift)
		r.Post("/open", deps.OpenShift)
		r.Post("/{id}/orders", deps.AddOrder)
		r.Get("/{id}/orders", deps.GetShiftOrders)
		r.Post("/{id}/close", deps.CloseShift)
	})

	r.Get("/api/fuel/suggest", deps.SuggestFuel)
	r.Get("/api/balance", deps.GetBalance)

	// --- Отчеты ---
	r.Route("/api/reports", func(r chi.Router) {
		r.Get("/months", deps.GetMonths)
		r.Get("/month/{month}", deps.GetMonthTotals)
		r.Get("/month/{month}/shifts", deps.GetMonthShifts)
		r.Get("/day/{date}", deps.GetDayOrders)
		r.Get("/day/{date}/hours", deps.GetDayHours)
	})

	// --- Административные маршруты, закрыты паролем ---
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.AdminPasswordHash, cfg.AdminPassword))

		r.Post("/import", deps.ImportFile)
		r.Get("/orders", deps.GetAllOrders)
		r.Post("/balance", deps.SetBalance)
		r.Post("/balance/rebuild", deps.RebuildBalance)
		r.Post("/recalculate", deps.Recalculate)
		r.Post("/reset", deps.ResetDatabase)
	})
}

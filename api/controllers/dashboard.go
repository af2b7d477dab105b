package controllers

import (
	"net/http"

	"github.com/prajwalbasnet/kinmel-backend/api/responses"
	"github.com/prajwalbasnet/kinmel-backend/api/validators"
	"github.com/prajwalbasnet/kinmel-backend/internal/dashboard"
	"github.com/prajwalbasnet/kinmel-backend/pkg/logger"
)

// AdminDashboardStats serves the cached storefront overview.
func AdminDashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		stats, err := svc.Stats(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// AdminSalesAnalytics serves the cached sales breakdowns. The period
// query narrows the window in days.
func AdminSalesAnalytics(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		period, err := validators.ParseQueryInt(r, "period", 0, 0, 365)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		analytics, err := svc.SalesAnalytics(ctx, period)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, analytics)
	}
}

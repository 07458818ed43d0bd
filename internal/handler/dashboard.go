package handler

import (
	"net/http"
	"strconv"

	"github.com/pdvlite/pos-engine/internal/cache"
	"github.com/pdvlite/pos-engine/internal/service"
	"github.com/pdvlite/pos-engine/pkg/response"
)

type DashboardHandler struct {
	snapshots *cache.DashboardCache
	dashboard *service.DashboardService
}

func NewDashboardHandler(snapshots *cache.DashboardCache, dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		snapshots: snapshots,
		dashboard: dashboard,
	}
}

// Snapshot handles GET /api/v1/dashboard?date=YYYY-MM-DD
func (h *DashboardHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	date, err := parseOptionalDate(r)
	if err != nil {
		response.BadRequest(w, "date must be a YYYY-MM-DD date", err)
		return
	}

	snapshot, err := h.snapshots.Snapshot(r.Context(), date)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, snapshot)
}

// RecentSales handles GET /api/v1/sales/recent?date=&limit=
func (h *DashboardHandler) RecentSales(w http.ResponseWriter, r *http.Request) {
	date, err := parseOptionalDate(r)
	if err != nil {
		response.BadRequest(w, "date must be a YYYY-MM-DD date", err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			response.BadRequest(w, "limit must be a non-negative integer", err)
			return
		}
	}

	sales, err := h.dashboard.RecentSales(r.Context(), date, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, sales)
}

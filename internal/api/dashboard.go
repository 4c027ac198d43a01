package api

import (
	"net/http"

	"github.com/erazemk/gestextintor/internal/store"
	"github.com/erazemk/gestextintor/internal/views"
)

// DashboardHandler serves the aggregate view.
type DashboardHandler struct {
	Store *store.Store
}

// Get handles GET /api/dashboard?location=&status=.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.ListExtinguishers(r.Context())
	if err != nil {
		storeError(w, "failed to build dashboard", err)
		return
	}
	q := r.URL.Query()
	jsonResponse(w, http.StatusOK, views.BuildDashboard(list, q.Get("location"), q.Get("status")))
}

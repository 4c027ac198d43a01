package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/gestextintor/internal/model"
	"github.com/erazemk/gestextintor/internal/views"
)

// Dashboard handles GET /.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	list, err := s.Store.ListExtinguishers(r.Context())
	if err != nil {
		slog.Error("failed to list extinguishers for dashboard", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	d := views.BuildDashboard(list, q.Get("location"), q.Get("status"))

	s.Templates.Render(w, "dashboard.html", &struct {
		PageData
		views.Dashboard
		Statuses []model.ExtinguisherStatus
		All      string
	}{
		PageData:  page(r, "Painel de Controlo", "dashboard"),
		Dashboard: d,
		Statuses:  model.ExtinguisherStatuses,
		All:       views.All,
	})
}

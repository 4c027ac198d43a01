package api

import (
	"net/http"

	"github.com/erazemk/gestextintor/internal/advice"
	"github.com/erazemk/gestextintor/internal/model"
	"github.com/erazemk/gestextintor/internal/store"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(s *store.Store, jwtSecret string, assistants *advice.Registry) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{Store: s, JWTSecret: jwtSecret, OnLogout: assistants.Forget}
	extHandler := &ExtinguishersHandler{Store: s}
	dashboardHandler := &DashboardHandler{Store: s}
	adviceHandler := &AdviceHandler{Assistants: assistants}

	authMW := AuthMiddleware(jwtSecret, s)
	requireTech := RequireRole(model.RoleTechnician)
	protected := func(h http.HandlerFunc) http.Handler {
		return authMW(requireTech(h))
	}

	// Public: the session gate.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/recover", authHandler.Recover)

	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Extinguishers. The export route is more specific than {id}.
	mux.Handle("GET /api/extinguishers", protected(extHandler.List))
	mux.Handle("POST /api/extinguishers", protected(extHandler.Create))
	mux.Handle("GET /api/extinguishers/export", protected(extHandler.Export))
	mux.Handle("GET /api/extinguishers/{id}", protected(extHandler.Get))
	mux.Handle("PUT /api/extinguishers/{id}", protected(extHandler.Update))
	mux.Handle("DELETE /api/extinguishers/{id}", protected(extHandler.Delete))
	mux.Handle("PUT /api/extinguishers/{id}/photo", protected(extHandler.UploadPhoto))
	mux.Handle("GET /api/extinguishers/{id}/photo", protected(extHandler.GetPhoto))

	mux.Handle("GET /api/dashboard", protected(dashboardHandler.Get))

	mux.Handle("GET /api/advice", protected(adviceHandler.Transcript))
	mux.Handle("POST /api/advice", protected(adviceHandler.Ask))

	return mux
}

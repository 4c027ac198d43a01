package web

import (
	"net/http"

	"github.com/erazemk/gestextintor/internal/advice"
	"github.com/erazemk/gestextintor/internal/store"
	webembed "github.com/erazemk/gestextintor/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(s *store.Store, jwtSecret string, assistants *advice.Registry) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	srv := &Server{
		Store:      s,
		Templates:  templates,
		JWTSecret:  jwtSecret,
		Assistants: assistants,
	}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(jwtSecret, s)
	protected := func(h http.HandlerFunc) http.Handler {
		return cookieAuth(h)
	}

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Session gate.
	mux.HandleFunc("GET /login", srv.LoginPage)
	mux.HandleFunc("POST /login", srv.LoginSubmit)
	mux.HandleFunc("GET /register", srv.RegisterPage)
	mux.HandleFunc("POST /register", srv.RegisterSubmit)
	mux.HandleFunc("GET /recovery", srv.RecoveryPage)
	mux.HandleFunc("POST /recovery", srv.RecoverySubmit)
	mux.HandleFunc("POST /logout", srv.Logout)

	// Authenticated routes.
	mux.Handle("GET /{$}", protected(srv.Dashboard))

	mux.Handle("GET /extinguishers", protected(srv.ExtinguishersPage))
	mux.Handle("POST /extinguishers", protected(srv.CreateExtinguisherSubmit))
	mux.Handle("GET /extinguishers/new", protected(srv.NewExtinguisherPage))
	mux.Handle("GET /extinguishers/export", protected(srv.ExportSubmit))
	mux.Handle("GET /extinguishers/{id}", protected(srv.EditExtinguisherPage))
	mux.Handle("POST /extinguishers/{id}", protected(srv.UpdateExtinguisherSubmit))
	mux.Handle("POST /extinguishers/{id}/delete", protected(srv.DeleteExtinguisherSubmit))
	mux.Handle("POST /extinguishers/{id}/photo", protected(srv.PhotoSubmit))
	mux.Handle("GET /extinguishers/{id}/photo", protected(srv.PhotoGet))

	mux.Handle("GET /assistant", protected(srv.AssistantPage))
	mux.Handle("POST /assistant", protected(srv.AssistantSubmit))

	return mux, nil
}

package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/gestextintor/internal/auth"
	"github.com/erazemk/gestextintor/internal/session"
	"github.com/erazemk/gestextintor/internal/store"
)

// authPageData carries the session gate screen and any disclosed password.
type authPageData struct {
	PageData
	Mode     session.Mode
	Username string
	Name     string
	Password string
}

var authTemplates = map[session.Mode]string{
	session.ModeLogin:    "login.html",
	session.ModeRegister: "register.html",
	session.ModeRecovery: "recovery.html",
}

// renderGate renders whichever screen the gate ended up on.
func (s *Server) renderGate(w http.ResponseWriter, gate *session.Gate, data authPageData) {
	data.Mode = gate.Mode()
	if data.Title == "" {
		data.Title = "GestExtintor"
	}
	s.Templates.Render(w, authTemplates[data.Mode], &data)
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.renderGate(w, session.New(s.Store), authPageData{})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	gate := session.New(s.Store)

	id, err := gate.Login(r.Context(), username, r.FormValue("password"))
	if err != nil {
		msg := "Utilizador ou palavra-passe incorretos."
		if !errors.Is(err, session.ErrInvalidCredentials) {
			slog.Error("login lookup failed", "error", err)
			msg = "Erro ao iniciar sessão."
		} else {
			slog.Warn("login failed", "username", username, "remote", r.RemoteAddr)
		}
		s.renderGate(w, gate, authPageData{PageData: PageData{Error: msg}, Username: username})
		return
	}

	token, err := auth.GenerateToken(s.JWTSecret, *id)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		s.renderGate(w, gate, authPageData{PageData: PageData{Error: "Erro ao iniciar sessão."}})
		return
	}

	setAuthCookie(w, token)
	slog.Info("user logged in", "user", id.Username, "role", id.Role)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RegisterPage handles GET /register.
func (s *Server) RegisterPage(w http.ResponseWriter, r *http.Request) {
	gate := session.New(s.Store)
	gate.SetMode(session.ModeRegister)
	s.renderGate(w, gate, authPageData{})
}

// RegisterSubmit handles POST /register. Success lands on the login screen.
func (s *Server) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	in := session.RegisterInput{
		Name:            r.FormValue("name"),
		Username:        r.FormValue("username"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirmPassword"),
	}
	gate := session.New(s.Store)
	gate.SetMode(session.ModeRegister)

	data := authPageData{Name: in.Name, Username: in.Username}
	err := gate.Register(r.Context(), in)
	switch {
	case err == nil:
		slog.Info("user registered", "user", in.Username)
		data.Success = "Conta criada com sucesso! Pode agora entrar."
		data.Name = ""
	case errors.Is(err, session.ErrPasswordMismatch):
		data.Error = "As palavras-passe não coincidem."
	case errors.Is(err, session.ErrMissingFields):
		data.Error = "Preencha todos os campos."
	case errors.Is(err, store.ErrDuplicateUsername):
		data.Error = "Este nome de utilizador já existe."
	default:
		slog.Error("registration failed", "error", err)
		data.Error = "Erro ao criar conta."
	}
	s.renderGate(w, gate, data)
}

// RecoveryPage handles GET /recovery.
func (s *Server) RecoveryPage(w http.ResponseWriter, r *http.Request) {
	gate := session.New(s.Store)
	gate.SetMode(session.ModeRecovery)
	s.renderGate(w, gate, authPageData{})
}

// RecoverySubmit handles POST /recovery. The stored password is shown on the
// login screen.
func (s *Server) RecoverySubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	gate := session.New(s.Store)
	gate.SetMode(session.ModeRecovery)

	data := authPageData{Username: username}
	password, err := gate.Recover(r.Context(), username)
	switch {
	case err == nil:
		slog.Warn("password recovered", "user", username, "remote", r.RemoteAddr)
		data.Password = password
	case errors.Is(err, session.ErrUserNotFound):
		data.Error = "Utilizador não encontrado."
	default:
		slog.Error("recovery lookup failed", "error", err)
		data.Error = "Erro ao recuperar a palavra-passe."
	}
	s.renderGate(w, gate, data)
}

// Logout handles POST /logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		if claims, err := auth.ValidateToken(s.JWTSecret, cookie.Value); err == nil {
			if err := s.Store.RevokeToken(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
				slog.Error("failed to revoke token", "error", err)
			}
			s.Assistants.Forget(claims.UserID)
			slog.Info("user logged out", "user", claims.Username)
		}
	}
	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

package web

import (
	"errors"
	"net/http"

	"github.com/erazemk/gestextintor/internal/advice"
)

type assistantPageData struct {
	PageData
	Transcript []advice.Message
	Busy       bool
}

// AssistantPage handles GET /assistant.
func (s *Server) AssistantPage(w http.ResponseWriter, r *http.Request) {
	a := s.Assistants.For(GetWebClaims(r.Context()).UserID)
	s.Templates.Render(w, "assistant.html", &assistantPageData{
		PageData:   page(r, "Assistente de Segurança", "assistant"),
		Transcript: a.Transcript(),
		Busy:       a.Busy(),
	})
}

// AssistantSubmit handles POST /assistant.
func (s *Server) AssistantSubmit(w http.ResponseWriter, r *http.Request) {
	a := s.Assistants.For(GetWebClaims(r.Context()).UserID)

	_, err := a.Ask(r.Context(), r.FormValue("question"))
	if errors.Is(err, advice.ErrBusy) {
		s.Templates.RenderStatus(w, http.StatusTooManyRequests, "assistant.html", &assistantPageData{
			PageData:   PageData{Title: "Assistente de Segurança", Active: "assistant", User: GetWebClaims(r.Context()), Error: "Aguarde pela resposta à pergunta anterior."},
			Transcript: a.Transcript(),
			Busy:       true,
		})
		return
	}
	http.Redirect(w, r, "/assistant", http.StatusSeeOther)
}

package api

import (
	"errors"
	"net/http"

	"github.com/erazemk/gestextintor/internal/advice"
)

// AdviceHandler forwards safety questions to the caller's assistant.
type AdviceHandler struct {
	Assistants *advice.Registry
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer     string           `json:"answer"`
	Transcript []advice.Message `json:"transcript"`
}

// Ask handles POST /api/advice.
func (h *AdviceHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	assistant := h.Assistants.For(GetClaims(r.Context()).UserID)
	answer, err := assistant.Ask(r.Context(), req.Question)
	switch {
	case errors.Is(err, advice.ErrEmptyQuestion):
		jsonError(w, http.StatusBadRequest, "question required")
		return
	case errors.Is(err, advice.ErrBusy):
		jsonError(w, http.StatusTooManyRequests, "a question is already being answered")
		return
	}

	jsonResponse(w, http.StatusOK, askResponse{Answer: answer, Transcript: assistant.Transcript()})
}

// Transcript handles GET /api/advice.
func (h *AdviceHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	assistant := h.Assistants.For(GetClaims(r.Context()).UserID)
	jsonResponse(w, http.StatusOK, assistant.Transcript())
}

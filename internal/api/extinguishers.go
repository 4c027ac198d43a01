package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/gestextintor/internal/editor"
	"github.com/erazemk/gestextintor/internal/export"
	"github.com/erazemk/gestextintor/internal/imaging"
	"github.com/erazemk/gestextintor/internal/model"
	"github.com/erazemk/gestextintor/internal/store"
	"github.com/erazemk/gestextintor/internal/views"
)

// ExtinguishersHandler handles extinguisher endpoints.
type ExtinguishersHandler struct {
	Store *store.Store
}

type validationResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
	Invalid []string `json:"invalid,omitempty"`
}

// visible applies the q, location and status query parameters to the list.
func (h *ExtinguishersHandler) visible(r *http.Request) ([]model.Extinguisher, error) {
	list, err := h.Store.ListExtinguishers(r.Context())
	if err != nil {
		return nil, err
	}
	q := r.URL.Query()
	list = views.Search(list, q.Get("q"))
	return views.FilterByLocationAndStatus(list, filterParam(q.Get("location")), filterParam(q.Get("status"))), nil
}

// filterParam maps an absent query filter to views.All.
func filterParam(v string) string {
	if v == "" {
		return views.All
	}
	return v
}

// List handles GET /api/extinguishers.
func (h *ExtinguishersHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.visible(r)
	if err != nil {
		storeError(w, "failed to list extinguishers", err)
		return
	}
	jsonResponse(w, http.StatusOK, list)
}

// Get handles GET /api/extinguishers/{id}.
func (h *ExtinguishersHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.Store.GetExtinguisher(r.Context(), r.PathValue("id"))
	if err != nil {
		storeError(w, "failed to get extinguisher", err)
		return
	}
	if e == nil {
		jsonError(w, http.StatusNotFound, "extinguisher not found")
		return
	}
	jsonResponse(w, http.StatusOK, e)
}

// Create handles POST /api/extinguishers. Fields left out of the body take
// the defaults of a new record.
func (h *ExtinguishersHandler) Create(w http.ResponseWriter, r *http.Request) {
	e := editor.NewExtinguisher(time.Now())
	if err := decodeJSON(r, &e); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	e.HasPhoto = false

	existing, err := h.Store.GetExtinguisher(r.Context(), e.ID)
	if err != nil {
		storeError(w, "failed to create extinguisher", err)
		return
	}
	if existing != nil {
		jsonError(w, http.StatusConflict, "extinguisher already exists")
		return
	}

	if !h.submit(w, r, e) {
		return
	}
	claims := GetClaims(r.Context())
	slog.Info("extinguisher created", "user", claims.Username, "id", e.ID, "code", e.Code)
	jsonResponse(w, http.StatusCreated, e)
}

// Update handles PUT /api/extinguishers/{id}. The body replaces the record.
func (h *ExtinguishersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.Store.GetExtinguisher(r.Context(), id)
	if err != nil {
		storeError(w, "failed to update extinguisher", err)
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "extinguisher not found")
		return
	}

	var e model.Extinguisher
	if err := decodeJSON(r, &e); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	e.ID = id
	e.HasPhoto = existing.HasPhoto

	if !h.submit(w, r, e) {
		return
	}
	claims := GetClaims(r.Context())
	slog.Info("extinguisher updated", "user", claims.Username, "id", e.ID, "code", e.Code)
	jsonResponse(w, http.StatusOK, e)
}

func (h *ExtinguishersHandler) submit(w http.ResponseWriter, r *http.Request, e model.Extinguisher) bool {
	err := editor.Submit(r.Context(), e, h.Store.SaveExtinguisher)
	var verr *editor.ValidationError
	if errors.As(err, &verr) {
		jsonResponse(w, http.StatusBadRequest, validationResponse{
			Error:   verr.Error(),
			Missing: verr.Missing,
			Invalid: verr.Invalid,
		})
		return false
	}
	if err != nil {
		storeError(w, "failed to save extinguisher", err)
		return false
	}
	return true
}

// Delete handles DELETE /api/extinguishers/{id}.
func (h *ExtinguishersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Store.DeleteExtinguisher(r.Context(), id); err != nil {
		storeError(w, "failed to delete extinguisher", err)
		return
	}
	claims := GetClaims(r.Context())
	slog.Info("extinguisher deleted", "user", claims.Username, "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/extinguishers/export.
func (h *ExtinguishersHandler) Export(w http.ResponseWriter, r *http.Request) {
	list, err := h.visible(r)
	if err != nil {
		storeError(w, "failed to export extinguishers", err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, list); errors.Is(err, export.ErrNoRecords) {
		w.WriteHeader(http.StatusNoContent)
		return
	} else if err != nil {
		slog.Error("failed to build export", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeExport(w, &buf)
}

func writeExport(w http.ResponseWriter, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

// UploadPhoto handles PUT /api/extinguishers/{id}/photo.
func (h *ExtinguishersHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	photo, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Store.SetPhoto(r.Context(), id, photo.Data, photo.MIME); err != nil {
		storeError(w, "failed to save photo", err)
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("inspection photo uploaded", "user", claims.Username, "id", id, "bytes", len(photo.Data))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo uploaded"})
}

// GetPhoto handles GET /api/extinguishers/{id}/photo.
func (h *ExtinguishersHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	writePhoto(w, r, h.Store, r.PathValue("id"))
}

func writePhoto(w http.ResponseWriter, r *http.Request, s *store.Store, id string) {
	data, mime, err := s.Photo(r.Context(), id)
	if err != nil {
		slog.Error("failed to get photo", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write photo response", "error", err)
	}
}

// storeError maps store errors to responses.
func storeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, store.ErrExtinguisherNotFound):
		jsonError(w, http.StatusNotFound, "extinguisher not found")
	case errors.Is(err, store.ErrInvalidExtinguisher):
		jsonError(w, http.StatusBadRequest, "invalid extinguisher")
	default:
		slog.Error(msg, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}

package web

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/erazemk/gestextintor/internal/editor"
	"github.com/erazemk/gestextintor/internal/export"
	"github.com/erazemk/gestextintor/internal/imaging"
	"github.com/erazemk/gestextintor/internal/model"
	"github.com/erazemk/gestextintor/internal/views"
)

type listPageData struct {
	PageData
	Query         string
	Extinguishers []model.Extinguisher
	Total         int
}

type formPageData struct {
	PageData
	Extinguisher model.Extinguisher
	IsNew        bool
	Types        []model.ExtinguisherType
	Statuses     []model.ExtinguisherStatus
	Missing      map[string]bool
}

// ExtinguishersPage handles GET /extinguishers.
func (s *Server) ExtinguishersPage(w http.ResponseWriter, r *http.Request) {
	list, err := s.Store.ListExtinguishers(r.Context())
	if err != nil {
		slog.Error("failed to list extinguishers", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	query := r.URL.Query().Get("q")
	data := listPageData{
		PageData:      page(r, "Inventário de Extintores", "extinguishers"),
		Query:         query,
		Extinguishers: views.Search(list, query),
		Total:         len(list),
	}
	switch r.URL.Query().Get("msg") {
	case "saved":
		data.Success = "Extintor guardado."
	case "deleted":
		data.Success = "Extintor eliminado."
	case "empty":
		data.Error = "Não há extintores para exportar."
	}
	s.Templates.Render(w, "extinguishers.html", &data)
}

// NewExtinguisherPage handles GET /extinguishers/new.
func (s *Server) NewExtinguisherPage(w http.ResponseWriter, r *http.Request) {
	s.renderForm(w, r, http.StatusOK, editor.NewExtinguisher(time.Now()), true, nil)
}

// EditExtinguisherPage handles GET /extinguishers/{id}.
func (s *Server) EditExtinguisherPage(w http.ResponseWriter, r *http.Request) {
	e, err := s.Store.GetExtinguisher(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get extinguisher", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if e == nil {
		http.Error(w, "extinguisher not found", http.StatusNotFound)
		return
	}
	s.renderForm(w, r, http.StatusOK, *e, false, nil)
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, status int, e model.Extinguisher, isNew bool, verr *editor.ValidationError) {
	title := "Editar Extintor"
	if isNew {
		title = "Novo Extintor"
	}
	data := formPageData{
		PageData:     page(r, title, "extinguishers"),
		Extinguisher: e,
		IsNew:        isNew,
		Types:        model.ExtinguisherTypes,
		Statuses:     model.ExtinguisherStatuses,
		Missing:      map[string]bool{},
	}
	if verr != nil {
		data.Error = "Preencha todos os campos obrigatórios."
		for _, f := range verr.Missing {
			data.Missing[f] = true
		}
		if len(verr.Invalid) > 0 {
			data.Error = "Tipo ou estado inválido."
		}
	}
	s.Templates.RenderStatus(w, status, "extinguisher_form.html", &data)
}

// extinguisherFromForm reads the form fields. Values are kept verbatim.
func extinguisherFromForm(r *http.Request) model.Extinguisher {
	return model.Extinguisher{
		ID:                r.FormValue("id"),
		Code:              r.FormValue("code"),
		Type:              model.ExtinguisherType(r.FormValue("type")),
		Capacity:          r.FormValue("capacity"),
		Location:          r.FormValue("location"),
		AssignedEquipment: r.FormValue("assignedEquipment"),
		LastMaintenance:   r.FormValue("lastMaintenance"),
		ExpiryDate:        r.FormValue("expiryDate"),
		Status:            model.ExtinguisherStatus(r.FormValue("status")),
		Notes:             r.FormValue("notes"),
	}
}

// CreateExtinguisherSubmit handles POST /extinguishers.
func (s *Server) CreateExtinguisherSubmit(w http.ResponseWriter, r *http.Request) {
	s.saveExtinguisher(w, r, extinguisherFromForm(r), true)
}

// UpdateExtinguisherSubmit handles POST /extinguishers/{id}.
func (s *Server) UpdateExtinguisherSubmit(w http.ResponseWriter, r *http.Request) {
	e := extinguisherFromForm(r)
	e.ID = r.PathValue("id")
	s.saveExtinguisher(w, r, e, false)
}

func (s *Server) saveExtinguisher(w http.ResponseWriter, r *http.Request, e model.Extinguisher, isNew bool) {
	claims := GetWebClaims(r.Context())

	err := editor.Submit(r.Context(), e, s.Store.SaveExtinguisher)
	var verr *editor.ValidationError
	if errors.As(err, &verr) {
		s.renderForm(w, r, http.StatusUnprocessableEntity, e, isNew, verr)
		return
	}
	if err != nil {
		slog.Error("failed to save extinguisher", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	slog.Info("extinguisher saved", "user", claims.Username, "id", e.ID, "code", e.Code, "new", isNew)
	http.Redirect(w, r, "/extinguishers?msg=saved", http.StatusSeeOther)
}

// DeleteExtinguisherSubmit handles POST /extinguishers/{id}/delete.
func (s *Server) DeleteExtinguisherSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id := r.PathValue("id")

	if err := s.Store.DeleteExtinguisher(r.Context(), id); err != nil {
		slog.Error("failed to delete extinguisher", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	slog.Info("extinguisher deleted", "user", claims.Username, "id", id)
	http.Redirect(w, r, "/extinguishers?msg=deleted", http.StatusSeeOther)
}

// ExportSubmit handles GET /extinguishers/export. It exports what the table
// shows for the same search.
func (s *Server) ExportSubmit(w http.ResponseWriter, r *http.Request) {
	list, err := s.Store.ListExtinguishers(r.Context())
	if err != nil {
		slog.Error("failed to list extinguishers for export", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	query := r.URL.Query().Get("q")

	var buf bytes.Buffer
	if err := export.Write(&buf, views.Search(list, query)); errors.Is(err, export.ErrNoRecords) {
		http.Redirect(w, r, "/extinguishers?msg=empty&q="+url.QueryEscape(query), http.StatusSeeOther)
		return
	} else if err != nil {
		slog.Error("failed to build export", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

// PhotoSubmit handles POST /extinguishers/{id}/photo.
func (s *Server) PhotoSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id := r.PathValue("id")

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+(1<<20))
	file, _, err := r.FormFile("photo")
	if err != nil {
		http.Redirect(w, r, "/extinguishers/"+url.PathEscape(id), http.StatusSeeOther)
		return
	}
	defer file.Close()

	photo, err := imaging.Process(file)
	if err != nil {
		slog.Warn("rejected inspection photo", "user", claims.Username, "id", id, "error", err)
		http.Error(w, "invalid photo", http.StatusBadRequest)
		return
	}
	if err := s.Store.SetPhoto(r.Context(), id, photo.Data, photo.MIME); err != nil {
		slog.Error("failed to save photo", "error", err)
		http.Error(w, "failed to save photo", http.StatusInternalServerError)
		return
	}

	slog.Info("inspection photo uploaded", "user", claims.Username, "id", id)
	http.Redirect(w, r, "/extinguishers/"+url.PathEscape(id), http.StatusSeeOther)
}

// PhotoGet handles GET /extinguishers/{id}/photo.
func (s *Server) PhotoGet(w http.ResponseWriter, r *http.Request) {
	data, mime, err := s.Store.Photo(r.Context(), r.PathValue("id"))
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

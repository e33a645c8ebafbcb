package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"unitdesk/internal/render"
	"unitdesk/internal/schema"
	"unitdesk/internal/template/model"
	"unitdesk/internal/template/repository"
	"unitdesk/internal/template/service"
	"unitdesk/middleware"
	"unitdesk/pkg/logger"
)

type TemplateHandler struct {
	Service *service.TemplateService
}

func NewTemplateHandler(service *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{Service: service}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Sugar.Errorf("Failed to encode response: %v", err)
	}
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnknownStarter):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func tenantID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, _ := r.Context().Value(middleware.TenantIDKey).(string)
	if id == "" {
		http.Error(w, "Unauthorized: missing tenant", http.StatusUnauthorized)
		return "", false
	}
	return id, true
}

func templateID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.URL.Query().Get("templateId")
	if id == "" {
		http.Error(w, "Missing templateId parameter", http.StatusBadRequest)
		return "", false
	}
	return id, true
}

func (h *TemplateHandler) GetTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}

	templates, err := h.Service.ListTemplates(r.Context(), tenant)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to list templates: %v", err)
		http.Error(w, "Failed to list templates", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (h *TemplateHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}

	var req model.CreateTemplateRequest
	// An empty body starts a blank template.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id, issues, err := h.Service.CreateTemplate(r.Context(), tenant, req)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to create template: %v", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusCreated, model.CreateTemplateResponse{TemplateID: id, Issues: issues})
}

func (h *TemplateHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}
	id, ok := templateID(w, r)
	if !ok {
		return
	}

	var req model.UpdateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	issues, err := h.Service.SaveTemplate(r.Context(), tenant, id, req.Document)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to update template %s: %v", id, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, model.UpdateTemplateResponse{TemplateID: id, Issues: issues})
}

func (h *TemplateHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}
	id, ok := templateID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteTemplate(r.Context(), tenant, id); err != nil {
		logger.Sugar.Errorf("Handler: Failed to delete template %s: %v", id, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Template deleted successfully"))
}

func (h *TemplateHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}
	id, ok := templateID(w, r)
	if !ok {
		return
	}

	if err := h.Service.SetDefault(r.Context(), tenant, id); err != nil {
		logger.Sugar.Errorf("Handler: Failed to set default template %s: %v", id, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Default template updated"))
}

func (h *TemplateHandler) GetLibrary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, schema.ComponentLibrary())
}

func (h *TemplateHandler) GetGallery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, schema.StarterGallery())
}

func (h *TemplateHandler) ValidateTemplate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var doc schema.TemplateDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	issues := schema.Validate(doc)
	writeJSON(w, http.StatusOK, model.ValidateResponse{Valid: len(issues) == 0, Issues: issues})
}

func (h *TemplateHandler) PreviewTemplate(w http.ResponseWriter, r *http.Request) {
	h.renderArtifact(w, r, h.Service.Preview)
}

func (h *TemplateHandler) PrintTemplate(w http.ResponseWriter, r *http.Request) {
	h.renderArtifact(w, r, h.Service.Print)
}

func (h *TemplateHandler) renderArtifact(w http.ResponseWriter, r *http.Request, renderFn func(context.Context, model.RenderRequest) (*render.Artifact, error)) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req model.RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	art, err := renderFn(r.Context(), req)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to render template: %v", err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", art.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(art.Body)
}

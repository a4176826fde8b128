package companyhandler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"payadmin/internal/domain/audit"
	"payadmin/internal/domain/company"
	"payadmin/internal/transport/http/api"
	"payadmin/internal/transport/http/middleware"
	"payadmin/internal/transport/http/shared"
)

type Handler struct {
	Service *company.Service
	Audit   *audit.Recorder
}

func NewHandler(service *company.Service, recorder *audit.Recorder) *Handler {
	return &Handler{Service: service, Audit: recorder}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/company", func(r chi.Router) {
		r.Get("/settings", h.handleGetSettings)
		r.Put("/settings", h.handleUpdateSettings)
		r.Get("/salary-item-templates", h.handleListTemplates)
		r.Post("/salary-item-templates", h.handleCreateTemplate)
		r.Delete("/salary-item-templates/{templateID}", h.handleDeleteTemplate)
	})
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	settings, err := h.Service.Settings(r.Context(), user.CompanyID)
	if err != nil {
		failCompany(w, r, err, "failed to load settings")
		return
	}
	api.Success(w, settings, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload company.Settings
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	before, err := h.Service.Settings(r.Context(), user.CompanyID)
	if err != nil {
		failCompany(w, r, err, "failed to load settings")
		return
	}

	settings, err := h.Service.UpdateSettings(r.Context(), user.CompanyID, payload)
	if err != nil {
		failCompany(w, r, err, "failed to update settings")
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, "company.settings.update", "company", user.CompanyID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, settings); err != nil {
		log.Printf("audit company.settings.update failed: %v", err)
	}
	api.Success(w, settings, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	templates, err := h.Service.ListTemplates(r.Context(), user.CompanyID)
	if err != nil {
		failCompany(w, r, err, "failed to list templates")
		return
	}
	api.Success(w, templates, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload company.TemplateInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	template, err := h.Service.CreateTemplate(r.Context(), user.CompanyID, payload)
	if err != nil {
		failCompany(w, r, err, "failed to create template")
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, "company.template.create", "salary_item_template", template.ID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, template); err != nil {
		log.Printf("audit company.template.create failed: %v", err)
	}
	api.Created(w, template, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	templateID := chi.URLParam(r, "templateID")

	if err := h.Service.DeleteTemplate(r.Context(), templateID); err != nil {
		failCompany(w, r, err, "failed to delete template")
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, "company.template.delete", "salary_item_template", templateID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		log.Printf("audit company.template.delete failed: %v", err)
	}
	api.Success(w, map[string]string{"id": templateID}, middleware.GetRequestID(r.Context()))
}

func failCompany(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	reqID := middleware.GetRequestID(r.Context())

	var verr *company.ValidationError
	switch {
	case errors.As(err, &verr):
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: verr.Field, Reason: verr.Reason}})
	case errors.Is(err, company.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "company not found", reqID)
	case errors.Is(err, company.ErrTemplateNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "template not found", reqID)
	case errors.Is(err, company.ErrDuplicateName):
		api.Fail(w, http.StatusConflict, "duplicate_name", "template name already exists", reqID)
	case errors.Is(err, company.ErrTemplateInUse):
		api.Fail(w, http.StatusConflict, "template_in_use", "template is assigned to employees", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "company_failed", fallback, reqID)
	}
}

package compensationhandler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"payadmin/internal/domain/audit"
	"payadmin/internal/domain/compensation"
	"payadmin/internal/transport/http/api"
	"payadmin/internal/transport/http/middleware"
	"payadmin/internal/transport/http/shared"
)

type Handler struct {
	Service *compensation.Service
	Audit   *audit.Recorder
}

func NewHandler(service *compensation.Service, recorder *audit.Recorder) *Handler {
	return &Handler{Service: service, Audit: recorder}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees/{employeeID}", func(r chi.Router) {
		r.Get("/compensation-configs", h.handleListConfigs)
		r.Post("/compensation-configs", h.handleCreateConfig)
		r.Get("/compensation-configs/default-start", h.handleDefaultStart)
		r.Get("/salary-items", h.handleListSalaryItems)
		r.Post("/salary-items", h.handleSetSalaryItem)
		r.Delete("/salary-items/{templateID}", h.handleRemoveSalaryItem)
	})
	r.Route("/compensation-configs/{configID}", func(r chi.Router) {
		r.Put("/", h.handleUpdateConfig)
		r.Delete("/", h.handleDeleteConfig)
		r.Post("/apply", h.handleApplyConfig)
	})
}

type configPayload struct {
	SalaryType    string   `json:"salaryType"`
	MonthlySalary *float64 `json:"monthlySalary"`
	DailyRate     *float64 `json:"dailyRate"`
	HourlyRate    *float64 `json:"hourlyRate"`
	ShiftRate     *float64 `json:"shiftRate"`
	EffectiveFrom string   `json:"effectiveFrom"`
	EffectiveTo   string   `json:"effectiveTo"`
	Note          string   `json:"note"`
}

func (p configPayload) toInput(w http.ResponseWriter, reqID string) (compensation.ConfigInput, bool) {
	v := shared.NewValidator()
	v.Required("effectiveFrom", p.EffectiveFrom, "is required")

	var from time.Time
	if p.EffectiveFrom != "" {
		from, _ = v.Date("effectiveFrom", p.EffectiveFrom)
	}
	var to *time.Time
	if p.EffectiveTo != "" {
		if parsed, ok := v.Date("effectiveTo", p.EffectiveTo); ok {
			to = &parsed
		}
	}
	if v.Reject(w, reqID) {
		return compensation.ConfigInput{}, false
	}

	return compensation.ConfigInput{
		SalaryType:    p.SalaryType,
		MonthlySalary: p.MonthlySalary,
		DailyRate:     p.DailyRate,
		HourlyRate:    p.HourlyRate,
		ShiftRate:     p.ShiftRate,
		EffectiveFrom: from,
		EffectiveTo:   to,
		Note:          p.Note,
	}, true
}

func (h *Handler) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	employeeID := chi.URLParam(r, "employeeID")

	views, err := h.Service.List(r.Context(), employeeID)
	if err != nil {
		failCompensation(w, r, err, "failed to list compensation configs")
		return
	}
	api.Success(w, views, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	employeeID := chi.URLParam(r, "employeeID")

	var payload configPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	input, ok := payload.toInput(w, middleware.GetRequestID(r.Context()))
	if !ok {
		return
	}

	config, err := h.Service.Create(r.Context(), employeeID, input)
	if err != nil {
		failCompensation(w, r, err, "failed to create compensation config")
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, "compensation.config.create", "compensation_config", config.ID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, config); err != nil {
		log.Printf("audit compensation.config.create failed: %v", err)
	}
	api.Created(w, config, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	configID := chi.URLParam(r, "configID")

	var payload configPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	input, ok := payload.toInput(w, middleware.GetRequestID(r.Context()))
	if !ok {
		return
	}

	config, err := h.Service.Update(r.Context(), configID, input)
	if err != nil {
		failCompensation(w, r, err, "failed to update compensation config")
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, "compensation.config.update", "compensation_config", configID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, config); err != nil {
		log.Printf("audit compensation.config.update failed: %v", err)
	}
	api.Success(w, config, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteConfig(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	configID := chi.URLParam(r, "configID")

	if err := h.Service.Delete(r.Context(), configID); err != nil {
		failCompensation(w, r, err, "failed to delete compensation config")
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, "compensation.config.delete", "compensation_config", configID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		log.Printf("audit compensation.config.delete failed: %v", err)
	}
	api.Success(w, map[string]string{"id": configID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApplyConfig(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	configID := chi.URLParam(r, "configID")

	config, err := h.Service.Apply(r.Context(), configID)
	if err != nil {
		failCompensation(w, r, err, "failed to apply compensation config")
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, "compensation.config.apply", "compensation_config", configID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, config); err != nil {
		log.Printf("audit compensation.config.apply failed: %v", err)
	}
	api.Success(w, config, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDefaultStart(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	employeeID := chi.URLParam(r, "employeeID")

	start, err := h.Service.DefaultStart(r.Context(), employeeID)
	if err != nil {
		failCompensation(w, r, err, "failed to infer default start")
		return
	}
	api.Success(w, map[string]string{"effectiveFrom": shared.FormatDate(start)}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListSalaryItems(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	employeeID := chi.URLParam(r, "employeeID")

	assignments, err := h.Service.ListSalaryItems(r.Context(), employeeID)
	if err != nil {
		failCompensation(w, r, err, "failed to list salary items")
		return
	}
	api.Success(w, assignments, middleware.GetRequestID(r.Context()))
}

type salaryItemPayload struct {
	TemplateID string   `json:"templateId"`
	Amount     *float64 `json:"amount"`
}

func (h *Handler) handleSetSalaryItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	employeeID := chi.URLParam(r, "employeeID")

	var payload salaryItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("templateId", payload.TemplateID, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	assignment, err := h.Service.SetSalaryItem(r.Context(), employeeID, payload.TemplateID, payload.Amount)
	if err != nil {
		failCompensation(w, r, err, "failed to set salary item")
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, "compensation.salary_item.set", "salary_item_assignment", assignment.ID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, assignment); err != nil {
		log.Printf("audit compensation.salary_item.set failed: %v", err)
	}
	api.Success(w, assignment, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRemoveSalaryItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	employeeID := chi.URLParam(r, "employeeID")
	templateID := chi.URLParam(r, "templateID")

	if err := h.Service.RemoveSalaryItem(r.Context(), employeeID, templateID); err != nil {
		failCompensation(w, r, err, "failed to remove salary item")
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, "compensation.salary_item.remove", "salary_item_assignment", templateID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		log.Printf("audit compensation.salary_item.remove failed: %v", err)
	}
	api.Success(w, map[string]string{"templateId": templateID}, middleware.GetRequestID(r.Context()))
}

func failCompensation(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	reqID := middleware.GetRequestID(r.Context())

	var verr *compensation.ValidationError
	switch {
	case errors.As(err, &verr):
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: verr.Field, Reason: verr.Reason}})
	case errors.Is(err, compensation.ErrOrder):
		api.Fail(w, http.StatusBadRequest, "period_order_invalid", "effective-to must be after effective-from", reqID)
	case errors.Is(err, compensation.ErrOverlap):
		api.Fail(w, http.StatusBadRequest, "period_overlap", "effective period overlaps an existing record", reqID)
	case errors.Is(err, compensation.ErrLocked):
		api.Fail(w, http.StatusConflict, "locked", "record is referenced by paid payroll and cannot change", reqID)
	case errors.Is(err, compensation.ErrNotApplicable):
		api.Fail(w, http.StatusConflict, "not_applicable", "record cannot be applied from today", reqID)
	case errors.Is(err, compensation.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "compensation config not found", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "compensation_failed", fallback, reqID)
	}
}

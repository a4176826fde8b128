package payrollhandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"payadmin/internal/domain/audit"
	"payadmin/internal/domain/payroll"
	"payadmin/internal/transport/http/api"
	"payadmin/internal/transport/http/middleware"
	"payadmin/internal/transport/http/shared"
)

type Handler struct {
	Service *payroll.Service
	Audit   *audit.Recorder
}

func NewHandler(service *payroll.Service, recorder *audit.Recorder) *Handler {
	return &Handler{Service: service, Audit: recorder}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Get("/periods", h.handleListPeriods)
		r.Post("/periods", h.handleCreatePeriod)
		r.Route("/periods/{periodID}", func(r chi.Router) {
			r.Get("/", h.handleGetPeriod)
			r.Get("/summary", h.handleSummary)
			r.Get("/items", h.handleListItems)
			r.Post("/submit", h.handleSubmit)
			r.Post("/approve", h.handleApprove)
			r.Post("/reject", h.handleReject)
			r.Post("/pay", h.handlePay)
			r.Post("/recalculate", h.handleRecalculate)
			r.Put("/work-records", h.handleSetWorkRecord)
			r.Get("/export/register", h.handleExportRegister)
		})
		r.Post("/items/{itemID}/adjust", h.handleAdjust)
		r.Get("/items/{itemID}/payslip", h.handlePayslip)
	})
}

type createPeriodPayload struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type reasonPayload struct {
	Reason string `json:"reason"`
}

type payPayload struct {
	PaymentReference string `json:"paymentReference"`
}

type adjustPayload struct {
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

type periodListResponse struct {
	Periods []payroll.Period `json:"periods"`
	Total   int              `json:"total"`
}

func (h *Handler) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	limit, offset := shared.Pagination(r)

	periods, total, err := h.Service.ListPeriods(r.Context(), user.CompanyID, limit, offset)
	if err != nil {
		failPayroll(w, r, err, "failed to list periods")
		return
	}
	if periods == nil {
		periods = []payroll.Period{}
	}
	api.Success(w, periodListResponse{Periods: periods, Total: total}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreatePeriod(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload createPeriodPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	period, err := h.Service.CreatePeriod(r.Context(), user.CompanyID, payload.Year, payload.Month)
	if err != nil {
		failPayroll(w, r, err, "failed to create period")
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, "payroll.period.create", "payroll_period", period.ID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, period); err != nil {
		log.Printf("audit payroll.period.create failed: %v", err)
	}
	api.Created(w, period, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetPeriod(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	period, err := h.Service.GetPeriod(r.Context(), chi.URLParam(r, "periodID"))
	if err != nil {
		failPayroll(w, r, err, "failed to load period")
		return
	}
	api.Success(w, period, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	summary, err := h.Service.Summary(r.Context(), chi.URLParam(r, "periodID"))
	if err != nil {
		failPayroll(w, r, err, "failed to load summary")
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	items, err := h.Service.ListItems(r.Context(), chi.URLParam(r, "periodID"))
	if err != nil {
		failPayroll(w, r, err, "failed to list items")
		return
	}
	if items == nil {
		items = []payroll.Item{}
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "payroll.period.submit", func(ctx *http.Request) (payroll.Period, error) {
		return h.Service.SubmitForReview(ctx.Context(), chi.URLParam(ctx, "periodID"))
	})
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "payroll.period.approve", func(ctx *http.Request) (payroll.Period, error) {
		return h.Service.Approve(ctx.Context(), chi.URLParam(ctx, "periodID"))
	})
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	var payload reasonPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	h.transition(w, r, "payroll.period.reject", func(ctx *http.Request) (payroll.Period, error) {
		return h.Service.Reject(ctx.Context(), chi.URLParam(ctx, "periodID"), payload.Reason)
	})
}

func (h *Handler) handlePay(w http.ResponseWriter, r *http.Request) {
	var payload payPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	h.transition(w, r, "payroll.period.pay", func(ctx *http.Request) (payroll.Period, error) {
		return h.Service.MarkAsPaid(ctx.Context(), chi.URLParam(ctx, "periodID"), payload.PaymentReference)
	})
}

func (h *Handler) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "payroll.period.recalculate", func(ctx *http.Request) (payroll.Period, error) {
		return h.Service.Recalculate(ctx.Context(), chi.URLParam(ctx, "periodID"))
	})
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, action string, fn func(*http.Request) (payroll.Period, error)) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	period, err := fn(r)
	if err != nil {
		failPayroll(w, r, err, "period operation failed")
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, action, "payroll_period", period.ID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"status": period.Status}); err != nil {
		log.Printf("audit %s failed: %v", action, err)
	}
	api.Success(w, period, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSetWorkRecord(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	periodID := chi.URLParam(r, "periodID")

	var record payroll.WorkRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("employeeId", record.EmployeeID, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	if err := h.Service.SetWorkRecord(r.Context(), periodID, record); err != nil {
		failPayroll(w, r, err, "failed to save work record")
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, "payroll.work_record.set", "payroll_period", periodID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, record); err != nil {
		log.Printf("audit payroll.work_record.set failed: %v", err)
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAdjust(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	itemID := chi.URLParam(r, "itemID")

	var payload adjustPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	item, err := h.Service.Adjust(r.Context(), itemID, payload.Amount, payload.Reason)
	if err != nil {
		failPayroll(w, r, err, "failed to adjust item")
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, "payroll.item.adjust", "payroll_item", itemID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		log.Printf("audit payroll.item.adjust failed: %v", err)
	}
	api.Success(w, item, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExportRegister(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	periodID := chi.URLParam(r, "periodID")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	var buf bytes.Buffer
	var contentType, extension string
	var err error
	switch format {
	case "csv":
		contentType, extension = "text/csv", "csv"
		err = h.Service.RegisterCSV(r.Context(), periodID, &buf)
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		extension = "xlsx"
		err = h.Service.RegisterXLSX(r.Context(), periodID, &buf)
	case "pdf":
		contentType, extension = "application/pdf", "pdf"
		err = h.Service.RegisterPDF(r.Context(), periodID, &buf)
	default:
		api.Fail(w, http.StatusBadRequest, "invalid_format", "format must be csv, xlsx or pdf", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		failPayroll(w, r, err, "failed to export register")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payroll-register-%s.%s"`, periodID, extension))
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	itemID := chi.URLParam(r, "itemID")

	var buf bytes.Buffer
	if err := h.Service.PayslipPDF(r.Context(), itemID, &buf); err != nil {
		failPayroll(w, r, err, "failed to generate payslip")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payslip-%s.pdf"`, itemID))
	_, _ = w.Write(buf.Bytes())
}

func failPayroll(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	reqID := middleware.GetRequestID(r.Context())

	var verr *payroll.ValidationError
	switch {
	case errors.As(err, &verr):
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: verr.Field, Reason: verr.Reason}})
	case errors.Is(err, payroll.ErrPeriodExists):
		api.Fail(w, http.StatusConflict, "period_exists", "period already exists for this month", reqID)
	case errors.Is(err, payroll.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", "period cannot move to the requested status", reqID)
	case errors.Is(err, payroll.ErrPeriodLocked):
		api.Fail(w, http.StatusConflict, "locked", "period is no longer editable", reqID)
	case errors.Is(err, payroll.ErrNoItems):
		api.Fail(w, http.StatusConflict, "no_items", "period has no payroll items", reqID)
	case errors.Is(err, payroll.ErrPeriodNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "period not found", reqID)
	case errors.Is(err, payroll.ErrItemNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "payroll item not found", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "payroll_failed", fallback, reqID)
	}
}

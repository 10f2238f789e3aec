package salaryhandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/domain/auth"
	"gymhub/internal/domain/clock"
	"gymhub/internal/domain/compensation"
	"gymhub/internal/domain/money"
	"gymhub/internal/domain/notifications"
	"gymhub/internal/platform/metrics"
	"gymhub/internal/transport/http/api"
	"gymhub/internal/transport/http/middleware"
	"gymhub/internal/transport/http/shared"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	Service   *compensation.Service
	Perms     middleware.PermissionStore
	Audit     shared.Auditor
	Notify    shared.Notifier
	Responses middleware.ResponseCache
}

func NewHandler(service *compensation.Service, perms middleware.PermissionStore, audit shared.Auditor, notify shared.Notifier, responses middleware.ResponseCache) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: audit, Notify: notify, Responses: responses}
}

type adjustmentRequest struct {
	Label  string       `json:"label" validate:"required,max=80"`
	Amount money.Amount `json:"amount"`
}

type salaryRequest struct {
	StaffID        string              `json:"staffId"`
	PeriodStart    clock.Date          `json:"periodStart"`
	PeriodEnd      clock.Date          `json:"periodEnd"`
	HoursWorked    *decimal.Decimal    `json:"hoursWorked"`
	UseRosterHours bool                `json:"useRosterHours"`
	FixedSalary    *money.Amount       `json:"fixedSalary"`
	Bonuses        []adjustmentRequest `json:"bonuses" validate:"max=50,dive"`
	Deductions     []adjustmentRequest `json:"deductions" validate:"max=50,dive"`
	Notes          string              `json:"notes" validate:"max=1000"`
}

func (p salaryRequest) input() compensation.SalaryInput {
	return compensation.SalaryInput{
		PeriodStart:    p.PeriodStart,
		PeriodEnd:      p.PeriodEnd,
		HoursWorked:    p.HoursWorked,
		UseRosterHours: p.UseRosterHours,
		FixedSalary:    p.FixedSalary,
		Bonuses:        adjustments(p.Bonuses),
		Deductions:     adjustments(p.Deductions),
		Notes:          p.Notes,
	}
}

func (p salaryRequest) generate() compensation.GenerateInput {
	return compensation.GenerateInput{StaffID: p.StaffID, SalaryInput: p.input()}
}

// hoursSource labels where a generated record's hours came from.
func (p salaryRequest) hoursSource() string {
	switch {
	case p.HoursWorked != nil:
		return "manual"
	case p.UseRosterHours:
		return "roster"
	}
	return "none"
}

func adjustments(in []adjustmentRequest) []compensation.Adjustment {
	out := make([]compensation.Adjustment, 0, len(in))
	for _, a := range in {
		out = append(out, compensation.Adjustment{Label: a.Label, Amount: a.Amount})
	}
	return out
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/salaries", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermSalaryRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermSalaryWrite, h.Perms), middleware.Idempotency(h.Responses)).Post("/", h.handleGenerate)
		r.With(middleware.RequirePermission(auth.PermSalaryWrite, h.Perms)).Post("/preview", h.handlePreview)
		r.With(middleware.RequirePermission(auth.PermSalaryWrite, h.Perms)).Get("/export", h.handleExport)
		r.Route("/{salaryID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermSalaryRead, h.Perms)).Get("/", h.handleGet)
			r.With(middleware.RequirePermission(auth.PermSalaryWrite, h.Perms)).Put("/", h.handleUpdate)
			r.With(middleware.RequirePermission(auth.PermSalaryWrite, h.Perms)).Delete("/", h.handleDelete)
			r.With(middleware.RequirePermission(auth.PermSalaryApprove, h.Perms)).Post("/approve", h.transition(compensation.ActionApprove))
			r.With(middleware.RequirePermission(auth.PermSalaryPay, h.Perms)).Post("/pay", h.transition(compensation.ActionPay))
			r.With(middleware.RequirePermission(auth.PermSalaryRead, h.Perms)).Get("/payslip", h.handlePayslip)
		})
	})
}

func (h *Handler) filter(r *http.Request) (compensation.Filter, error) {
	query := r.URL.Query()
	filter := compensation.Filter{
		StaffID: query.Get("staffId"),
		Search:  strings.TrimSpace(query.Get("q")),
	}
	if raw := query.Get("status"); raw != "" {
		status, ok := compensation.ParseStatus(raw)
		if !ok {
			return filter, apperr.Invalid("status", "must be one of Generated, Approved, Paid")
		}
		filter.Status = status
	}
	period, err := shared.ParseRange(r)
	if err != nil {
		return filter, err
	}
	filter.Period = period
	if user, _ := middleware.GetUser(r.Context()); !shared.Privileged(user) {
		filter.StaffID = user.SubjectID
	}
	return filter, nil
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	filter, err := h.filter(r)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	page, err := shared.ParsePagination(r, 100, 500)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	filter.Limit, filter.Offset = page.Limit, page.Offset

	records, err := h.Service.List(r.Context(), filter)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, records, requestID)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload salaryRequest
	if err := shared.Decode(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	rec, err := h.Service.Generate(r.Context(), payload.generate())
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	metrics.IncSalaryGenerated(payload.hoursSource())
	shared.Audit(r, h.Audit, "generate", "salary_record", rec.ID, nil, rec)
	api.Created(w, rec, requestID)
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload salaryRequest
	if err := shared.Decode(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	breakdown, err := h.Service.Preview(r.Context(), payload.generate())
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, breakdown, requestID)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	filter, err := h.filter(r)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	body, err := h.Service.ExportRegister(r.Context(), filter)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.File(w, xlsxContentType, "salary-register.xlsx", body)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	rec, ok := h.ownRecord(w, r)
	if !ok {
		return
	}
	api.Success(w, rec, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "salaryID")
	version, err := shared.ExpectedVersion(r)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	var payload salaryRequest
	if err := shared.Decode(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	before, err := h.Service.Get(r.Context(), id)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	rec, err := h.Service.Update(r.Context(), id, payload.input(), version)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, "update", "salary_record", id, before, rec)
	api.Success(w, rec, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	version, err := shared.ExpectedVersion(r)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	rec, err := h.Service.Delete(r.Context(), chi.URLParam(r, "salaryID"), version)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, "delete", "salary_record", rec.ID, rec, nil)
	api.Success(w, map[string]string{"id": rec.ID}, requestID)
}

func (h *Handler) transition(action compensation.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetRequestID(r.Context())
		user, _ := middleware.GetUser(r.Context())
		id := chi.URLParam(r, "salaryID")
		version, err := shared.ExpectedVersion(r)
		if err != nil {
			api.FailError(w, err, requestID)
			return
		}
		before, err := h.Service.Get(r.Context(), id)
		if err != nil {
			api.FailError(w, err, requestID)
			return
		}

		var rec compensation.SalaryRecord
		if action == compensation.ActionPay {
			rec, err = h.Service.MarkPaid(r.Context(), id, user.UserID, version)
		} else {
			rec, err = h.Service.Approve(r.Context(), id, user.UserID, version)
		}
		if err != nil {
			api.FailError(w, err, requestID)
			return
		}

		metrics.IncWorkflowDecision("salary_record", string(action))
		shared.Audit(r, h.Audit, string(action), "salary_record", id, before, rec)
		if action == compensation.ActionPay {
			shared.Notify(r, h.Notify, rec.StaffID, notifications.TypeSalaryPaid, "Salary paid",
				"Your salary for "+rec.PeriodStart.String()+" to "+rec.PeriodEnd.String()+" has been paid: "+rec.NetPay.String()+" "+h.Service.Currency+".")
		}
		api.Success(w, rec, requestID)
	}
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	rec, ok := h.ownRecord(w, r)
	if !ok {
		return
	}
	body, err := h.Service.Payslip(r.Context(), rec.ID)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.File(w, "application/pdf", "payslip-"+rec.PeriodStart.String()+".pdf", body)
}

// ownRecord loads the record in the URL; staff only ever see their own salaries.
func (h *Handler) ownRecord(w http.ResponseWriter, r *http.Request) (compensation.SalaryRecord, bool) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "salaryID")
	rec, err := h.Service.Get(r.Context(), id)
	if err == nil && !shared.Privileged(user) && rec.StaffID != user.SubjectID {
		err = apperr.NotFound("salary record", id)
	}
	if err != nil {
		api.FailError(w, err, requestID)
		return compensation.SalaryRecord{}, false
	}
	return rec, true
}

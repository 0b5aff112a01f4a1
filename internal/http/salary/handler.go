package salary

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/docket/internal/http/render"
	"github.com/MrJamesThe3rd/docket/internal/payroll"
	"github.com/MrJamesThe3rd/docket/internal/salary"
)

type Handler struct {
	svc *salary.Service
}

func NewHandler(svc *salary.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/history/{employeeID}", h.history)
	r.Post("/sync", h.sync)
	r.Post("/preview", h.preview)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

// recordRequest carries amounts as strings so "1500.50" and "" are both accepted.
type recordRequest struct {
	EmployeeID    string `json:"employee_id"`
	BasicSalary   string `json:"basic_salary"`
	Allowances    string `json:"allowances"`
	Deductions    string `json:"deductions"`
	PaymentMethod string `json:"payment_method"`
	PaymentDate   string `json:"payment_date"` // DD-MM-YYYY
}

func (req recordRequest) form() salary.Form {
	return salary.Form{
		EmployeeID:    req.EmployeeID,
		Basic:         req.BasicSalary,
		Allowances:    req.Allowances,
		Deductions:    req.Deductions,
		PaymentMethod: req.PaymentMethod,
		PaymentDate:   req.PaymentDate,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if !render.Decode(w, r, &req) {
		return
	}

	params, err := req.form().Params()
	if err != nil {
		render.Error(w, err)
		return
	}

	rec, err := h.svc.Create(r.Context(), params)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(rec))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := salary.ListFilter{Department: r.URL.Query().Get("department")}

	recs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(recs))
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	employeeID, err := uuid.Parse(chi.URLParam(r, "employeeID"))
	if err != nil {
		render.BadRequest(w, "invalid employee id")
		return
	}

	recs, err := h.svc.History(r.Context(), employeeID)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(recs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.BadRequest(w, "invalid id")
		return
	}

	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(rec))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.BadRequest(w, "invalid id")
		return
	}

	var req recordRequest
	if !render.Decode(w, r, &req) {
		return
	}

	params, err := req.form().Params()
	if err != nil {
		render.Error(w, err)
		return
	}

	rec, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(rec))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.BadRequest(w, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		render.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type syncRequest struct {
	Changed string `json:"changed"` // "monthly" or "annual"
	Value   string `json:"value"`
}

func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if !render.Decode(w, r, &req) {
		return
	}

	field, err := payroll.ParseField(req.Changed)
	if err != nil {
		render.Error(w, err)
		return
	}

	monthly, annual, err := payroll.SyncBasicSalary(field, req.Value)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, syncResponse{Monthly: amount(monthly), Annual: amount(annual)})
}

type previewRequest struct {
	BasicSalary string `json:"basic_salary"`
	Allowances  string `json:"allowances"`
	Deductions  string `json:"deductions"`
}

// preview never fails on bad input; unparseable amounts yield a zero net.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !render.Decode(w, r, &req) {
		return
	}

	net := payroll.ComputeNet(req.BasicSalary, req.Allowances, req.Deductions)

	render.JSON(w, http.StatusOK, previewResponse{Net: amount(net)})
}

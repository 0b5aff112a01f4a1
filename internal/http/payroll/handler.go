package payroll

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/docket/internal/http/render"
	"github.com/MrJamesThe3rd/docket/internal/payroll"
	"github.com/MrJamesThe3rd/docket/internal/payrun"
)

type Handler struct {
	gen *payrun.Generator
}

func NewHandler(gen *payrun.Generator) *Handler {
	return &Handler{gen: gen}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/runs", h.run)
	r.Get("/net", h.net)
}

type runRequest struct {
	Period string `json:"period"` // YYYY-MM, empty for the current month
}

type createdResponse struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	NetSalary   string `json:"net_salary"`
	PaymentDate string `json:"payment_date"`
}

type runResponse struct {
	Period  string            `json:"period"`
	Count   int               `json:"count"`
	Skipped int               `json:"skipped"`
	Created []createdResponse `json:"created"`
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if r.ContentLength != 0 && !render.Decode(w, r, &req) {
		return
	}

	var genReq payrun.Request

	if p := strings.TrimSpace(req.Period); p != "" {
		period, err := payroll.ParsePeriod(p)
		if err != nil {
			render.Error(w, err)
			return
		}

		genReq.Period = period
	}

	res, err := h.gen.Generate(r.Context(), genReq)
	if err != nil {
		render.Error(w, err)
		return
	}

	resp := runResponse{
		Period:  res.Period.String(),
		Count:   res.Count(),
		Skipped: res.Skipped,
		Created: make([]createdResponse, 0, len(res.Created)),
	}

	for _, rec := range res.Created {
		resp.Created = append(resp.Created, createdResponse{
			ID:          rec.ID.String(),
			EmployeeID:  rec.EmployeeID.String(),
			NetSalary:   rec.Net.StringFixed(2),
			PaymentDate: rec.PaymentDate.Display(),
		})
	}

	render.JSON(w, http.StatusCreated, resp)
}

// net computes a net salary from query parameters and rejects bad amounts.
func (h *Handler) net(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	net, err := payroll.ParseNet(q.Get("basic_salary"), q.Get("allowances"), q.Get("deductions"))
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]string{"net": net.StringFixed(2)})
}

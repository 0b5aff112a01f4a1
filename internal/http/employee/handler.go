package employee

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/docket/internal/employee"
	"github.com/MrJamesThe3rd/docket/internal/http/render"
	"github.com/MrJamesThe3rd/docket/internal/importer"
)

type Handler struct {
	svc       *employee.Service
	importSvc *importer.Service
}

func NewHandler(svc *employee.Service, importSvc *importer.Service) *Handler {
	return &Handler{svc: svc, importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/departments", h.departments)
	r.Post("/import", h.importRoster)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type employeeRequest struct {
	Number      string `json:"employee_number"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	ContactInfo string `json:"contact_info"`
	HireDate    string `json:"hire_date"` // DD-MM-YYYY
}

func (req employeeRequest) form() employee.Form {
	return employee.Form{
		Number:      req.Number,
		Name:        req.Name,
		Department:  req.Department,
		ContactInfo: req.ContactInfo,
		HireDate:    req.HireDate,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if !render.Decode(w, r, &req) {
		return
	}

	params, err := req.form().Params()
	if err != nil {
		render.Error(w, err)
		return
	}

	e, err := h.svc.Create(r.Context(), params)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(e))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := employee.ListFilter{Department: r.URL.Query().Get("department")}

	es, err := h.svc.List(r.Context(), filter)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(es))
}

func (h *Handler) departments(w http.ResponseWriter, r *http.Request) {
	deps, err := h.svc.Departments(r.Context())
	if err != nil {
		render.Error(w, err)
		return
	}

	if deps == nil {
		deps = []string{}
	}

	render.JSON(w, http.StatusOK, deps)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.BadRequest(w, "invalid id")
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.BadRequest(w, "invalid id")
		return
	}

	var req employeeRequest
	if !render.Decode(w, r, &req) {
		return
	}

	params, err := req.form().Params()
	if err != nil {
		render.Error(w, err)
		return
	}

	e, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(e))
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

func (h *Handler) importRoster(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		render.BadRequest(w, "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		render.BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	res, err := h.importSvc.Import(r.Context(), file)
	if err != nil {
		render.Error(w, err)
		return
	}

	resp := importResponse{
		Charset:    res.Charset,
		Imported:   toResponseList(res.Imported),
		Duplicates: make([]string, 0, len(res.Duplicates)),
		Invalid:    make([]skippedRowResponse, 0, len(res.Invalid)),
	}

	for _, d := range res.Duplicates {
		resp.Duplicates = append(resp.Duplicates, d.Number)
	}

	for _, s := range res.Invalid {
		resp.Invalid = append(resp.Invalid, skippedRowResponse{Row: s.Row, Reason: s.Reason})
	}

	render.JSON(w, http.StatusCreated, resp)
}

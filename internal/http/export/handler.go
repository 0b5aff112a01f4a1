package export

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/docket/internal/export"
	"github.com/MrJamesThe3rd/docket/internal/http/render"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/salaries", h.salaries)
	r.Get("/documents", h.documents)
}

func (h *Handler) salaries(w http.ResponseWriter, r *http.Request) {
	wb, err := h.svc.SalariesWorkbook(r.Context())
	if err != nil {
		render.Error(w, err)
		return
	}

	send(w, wb)
}

func (h *Handler) documents(w http.ResponseWriter, r *http.Request) {
	wb, err := h.svc.DocumentsWorkbook(r.Context())
	if err != nil {
		render.Error(w, err)
		return
	}

	send(w, wb)
}

func send(w http.ResponseWriter, wb *export.Workbook) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": wb.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(wb.Data)))
	w.WriteHeader(http.StatusOK)

	_, _ = w.Write(wb.Data)
}

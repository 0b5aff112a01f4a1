package document

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/docket/internal/document"
	"github.com/MrJamesThe3rd/docket/internal/expiry"
	"github.com/MrJamesThe3rd/docket/internal/http/render"
)

// maxUploadSize bounds the multipart form held in memory for an attachment upload.
const maxUploadSize = 32 << 20

type Handler struct {
	svc *document.Service
}

func NewHandler(svc *document.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.search)
	r.Get("/categories", h.categories)
	r.Get("/alerts", h.alerts)
	r.Get("/remaining", h.remaining)

	r.Get("/attachments/{attachmentID}", h.downloadAttachment)
	r.Delete("/attachments/{attachmentID}", h.deleteAttachment)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Put("/", h.update)
		r.Delete("/", h.delete)
		r.Get("/attachments", h.listAttachments)
		r.Post("/attachments", h.uploadAttachment)
		r.Delete("/attachments", h.deleteAllAttachments)
	})
}

type documentRequest struct {
	Name       string `json:"name"`
	Number     string `json:"document_number"`
	IssueDate  string `json:"issue_date"`  // DD-MM-YYYY
	ExpiryDate string `json:"expiry_date"` // DD-MM-YYYY, optional
	Issuer     string `json:"issuer"`
	EmployeeID string `json:"employee_id"`
	Category   string `json:"category"`
	Tags       string `json:"tags"`
}

func (req documentRequest) form() document.Form {
	return document.Form{
		Name:       req.Name,
		Number:     req.Number,
		IssueDate:  req.IssueDate,
		ExpiryDate: req.ExpiryDate,
		Issuer:     req.Issuer,
		EmployeeID: req.EmployeeID,
		Category:   req.Category,
		Tags:       req.Tags,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if !render.Decode(w, r, &req) {
		return
	}

	params, err := req.form().Params()
	if err != nil {
		render.Error(w, err)
		return
	}

	d, err := h.svc.Create(r.Context(), params)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(d, h.svc.Today()))
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	status, err := expiry.ParseStatus(q.Get("status"))
	if err != nil {
		render.Error(w, err)
		return
	}

	docs, err := h.svc.Search(r.Context(), document.SearchFilter{
		Keyword:  q.Get("q"),
		Category: q.Get("category"),
		Status:   status,
	})
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(docs, h.svc.Today()))
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories(r.Context())
	if err != nil {
		render.Error(w, err)
		return
	}

	if cats == nil {
		cats = []string{}
	}

	render.JSON(w, http.StatusOK, cats)
}

func (h *Handler) alerts(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.ExpiryAlert(r.Context())
	if err != nil {
		render.Error(w, err)
		return
	}

	msg, _ := summary.Message()

	render.JSON(w, http.StatusOK, alertResponse{Summary: summary, Message: msg})
}

func (h *Handler) remaining(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Remaining(r.Context())
	if err != nil {
		render.Error(w, err)
		return
	}

	resp := make([]remainingResponse, len(items))
	for i, it := range items {
		resp[i] = remainingResponse{
			ID:         it.Document.ID,
			Name:       it.Document.Name,
			Number:     it.Document.Number,
			ExpiryDate: it.Document.ExpiryDate.Display(),
			Status:     it.Status,
			Remaining:  it.Remaining,
		}
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	d, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(d, h.svc.Today()))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req documentRequest
	if !render.Decode(w, r, &req) {
		return
	}

	params, err := req.form().Params()
	if err != nil {
		render.Error(w, err)
		return
	}

	d, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(d, h.svc.Today()))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		render.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listAttachments(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	atts, err := h.svc.Attachments(r.Context(), id)
	if err != nil {
		render.Error(w, err)
		return
	}

	resp := make([]attachmentResponse, len(atts))
	for i, a := range atts {
		resp[i] = toAttachmentResponse(a)
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) uploadAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		render.BadRequest(w, "failed to parse form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		render.BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	a, err := h.svc.AttachReader(r.Context(), id, header.Filename, file)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, toAttachmentResponse(a))
}

func (h *Handler) downloadAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "attachmentID")
	if !ok {
		return
	}

	a, err := h.svc.GetAttachment(r.Context(), id)
	if err != nil {
		render.Error(w, err)
		return
	}

	if a.ContentType != "" {
		w.Header().Set("Content-Type", a.ContentType)
	}

	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename}))

	http.ServeFile(w, r, filepath.Clean(a.Path))
}

func (h *Handler) deleteAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "attachmentID")
	if !ok {
		return
	}

	if err := h.svc.DeleteAttachment(r.Context(), id); err != nil {
		render.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteAllAttachments(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	n, err := h.svc.DeleteAttachments(r.Context(), id)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]int{"deleted": n})
}

func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		render.BadRequest(w, "invalid "+param)
		return uuid.Nil, false
	}

	return id, true
}

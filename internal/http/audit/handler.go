package audit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/docket/internal/audit"
	"github.com/MrJamesThe3rd/docket/internal/http/render"
)

// defaultLimit applies when the request names no limit.
const defaultLimit = 200

type Handler struct {
	svc *audit.Service
}

func NewHandler(svc *audit.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

type entryResponse struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := defaultLimit

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			render.BadRequest(w, "limit must be a non-negative integer")
			return
		}

		limit = n
	}

	entries, err := h.svc.List(r.Context(), audit.ListFilter{Action: q.Get("action"), Limit: limit})
	if err != nil {
		render.Error(w, err)
		return
	}

	resp := make([]entryResponse, len(entries))
	for i, e := range entries {
		resp[i] = entryResponse{ID: e.ID, Timestamp: e.Timestamp, Action: e.Action, Details: e.Details}
	}

	render.JSON(w, http.StatusOK, resp)
}

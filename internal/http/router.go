package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/docket/internal/http/audit"
	"github.com/MrJamesThe3rd/docket/internal/http/document"
	"github.com/MrJamesThe3rd/docket/internal/http/employee"
	"github.com/MrJamesThe3rd/docket/internal/http/export"
	"github.com/MrJamesThe3rd/docket/internal/http/payroll"
	"github.com/MrJamesThe3rd/docket/internal/http/salary"
)

type Handlers struct {
	Employees *employee.Handler
	Salaries  *salary.Handler
	Payroll   *payroll.Handler
	Documents *document.Handler
	Audit     *audit.Handler
	Export    *export.Handler
}

func New(h Handlers, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/employees", h.Employees.Routes)

		r.Route("/salaries", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Salaries.Routes(r)
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Payroll.Routes(r)
		})

		r.Route("/documents", h.Documents.Routes)
		r.Route("/audit", h.Audit.Routes)
		r.Route("/export", h.Export.Routes)
	})

	return router
}

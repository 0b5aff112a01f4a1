package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/docket/internal/audit"
	auditStore "github.com/MrJamesThe3rd/docket/internal/audit/store"
	"github.com/MrJamesThe3rd/docket/internal/config"
	"github.com/MrJamesThe3rd/docket/internal/database"
	"github.com/MrJamesThe3rd/docket/internal/document"
	documentStore "github.com/MrJamesThe3rd/docket/internal/document/store"
	"github.com/MrJamesThe3rd/docket/internal/employee"
	employeeStore "github.com/MrJamesThe3rd/docket/internal/employee/store"
	"github.com/MrJamesThe3rd/docket/internal/export"
	docketHttp "github.com/MrJamesThe3rd/docket/internal/http"
	auditHandler "github.com/MrJamesThe3rd/docket/internal/http/audit"
	documentHandler "github.com/MrJamesThe3rd/docket/internal/http/document"
	employeeHandler "github.com/MrJamesThe3rd/docket/internal/http/employee"
	exportHandler "github.com/MrJamesThe3rd/docket/internal/http/export"
	payrollHandler "github.com/MrJamesThe3rd/docket/internal/http/payroll"
	salaryHandler "github.com/MrJamesThe3rd/docket/internal/http/salary"
	"github.com/MrJamesThe3rd/docket/internal/importer"
	"github.com/MrJamesThe3rd/docket/internal/payrun"
	"github.com/MrJamesThe3rd/docket/internal/salary"
	salaryStore "github.com/MrJamesThe3rd/docket/internal/salary/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.EnsureSchema(ctx, db); err != nil {
		slog.Error("failed to prepare schema", "error", err)
		os.Exit(1)
	}

	auditService := audit.NewService(auditStore.New(db))

	var (
		employeeService = employee.NewService(employeeStore.New(db), auditService)
		salaryService   = salary.NewService(salaryStore.New(db), auditService)
		documentService = document.NewService(documentStore.New(db), document.NewFileStore(cfg.Storage.AttachmentsDir), auditService)
		importService   = importer.NewService(employeeService)
		generator       = payrun.NewGenerator(employeeService, salaryService, auditService)
		exportService   = export.NewService(salaryService, documentService, auditService)
	)

	router := docketHttp.New(docketHttp.Handlers{
		Employees: employeeHandler.NewHandler(employeeService, importService),
		Salaries:  salaryHandler.NewHandler(salaryService),
		Payroll:   payrollHandler.NewHandler(generator),
		Documents: documentHandler.NewHandler(documentService),
		Audit:     auditHandler.NewHandler(auditService),
		Export:    exportHandler.NewHandler(exportService),
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

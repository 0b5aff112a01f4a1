package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/docket/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/docket/internal/audit"
	auditStore "github.com/MrJamesThe3rd/docket/internal/audit/store"
	"github.com/MrJamesThe3rd/docket/internal/config"
	"github.com/MrJamesThe3rd/docket/internal/database"
	"github.com/MrJamesThe3rd/docket/internal/document"
	documentStore "github.com/MrJamesThe3rd/docket/internal/document/store"
	"github.com/MrJamesThe3rd/docket/internal/employee"
	employeeStore "github.com/MrJamesThe3rd/docket/internal/employee/store"
	"github.com/MrJamesThe3rd/docket/internal/expiry"
	"github.com/MrJamesThe3rd/docket/internal/export"
	"github.com/MrJamesThe3rd/docket/internal/importer"
	"github.com/MrJamesThe3rd/docket/internal/payrun"
	"github.com/MrJamesThe3rd/docket/internal/salary"
	salaryStore "github.com/MrJamesThe3rd/docket/internal/salary/store"
)

type model struct {
	appName   string
	exportDir string

	employeeService *employee.Service
	salaryService   *salary.Service
	documentService *document.Service
	auditService    *audit.Service
	importService   *importer.Service
	exportService   *export.Service
	generator       *payrun.Generator

	currentView View
	alert       expiry.Summary
	alertErr    error

	employeesView view.EmployeesModel
	importView    view.RosterImportModel
	salariesView  view.SalariesModel
	payrunView    view.PayrunModel
	documentsView view.DocumentsModel
	auditView     view.AuditModel
	exportView    view.ExportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewEmployees View = 1
	ViewImport    View = 2
	ViewSalaries  View = 3
	ViewPayrun    View = 4
	ViewDocuments View = 5
	ViewAudit     View = 6
	ViewExport    View = 7
)

func initialModel() model {
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

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	if err := database.EnsureSchema(ctx, db); err != nil {
		slog.Error("failed to prepare schema", "error", err)
		os.Exit(1)
	}

	auditSvc := audit.NewService(auditStore.New(db))
	employeeSvc := employee.NewService(employeeStore.New(db), auditSvc)
	salarySvc := salary.NewService(salaryStore.New(db), auditSvc)
	documentSvc := document.NewService(documentStore.New(db), document.NewFileStore(cfg.Storage.AttachmentsDir), auditSvc)

	return model{
		appName:         cfg.App.Name,
		exportDir:       cfg.Storage.ExportDir,
		employeeService: employeeSvc,
		salaryService:   salarySvc,
		documentService: documentSvc,
		auditService:    auditSvc,
		importService:   importer.NewService(employeeSvc),
		exportService:   export.NewService(salarySvc, documentSvc, auditSvc),
		generator:       payrun.NewGenerator(employeeSvc, salarySvc, auditSvc),
		currentView:     ViewMenu,
	}
}

type alertMsg struct {
	summary expiry.Summary
	err     error
}

func (m model) loadAlertCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := view.DbCtx()
		defer cancel()

		s, err := m.documentService.ExpiryAlert(ctx)

		return alertMsg{summary: s, err: err}
	}
}

func (m model) Init() tea.Cmd {
	return m.loadAlertCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewEmployees
				m.employeesView = view.NewEmployeesModel(m.employeeService)

				return m, m.employeesView.Init()
			case "2":
				m.currentView = ViewImport
				m.importView = view.NewRosterImportModel(m.importService)

				return m, m.importView.Init()
			case "3":
				m.currentView = ViewSalaries
				m.salariesView = view.NewSalariesModel(m.salaryService, m.employeeService)

				return m, m.salariesView.Init()
			case "4":
				m.currentView = ViewPayrun
				m.payrunView = view.NewPayrunModel(m.generator)

				return m, m.payrunView.Init()
			case "5":
				m.currentView = ViewDocuments
				m.documentsView = view.NewDocumentsModel(m.documentService, m.employeeService)

				return m, m.documentsView.Init()
			case "6":
				m.currentView = ViewAudit
				m.auditView = view.NewAuditModel(m.auditService)

				return m, m.auditView.Init()
			case "7":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService, m.exportDir)

				return m, m.exportView.Init()
			}
		}
	case alertMsg:
		m.alert = msg.summary
		m.alertErr = msg.err

		return m, nil
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, m.loadAlertCmd()
	}

	switch m.currentView {
	case ViewEmployees:
		var newModel tea.Model
		newModel, cmd = m.employeesView.Update(msg)
		m.employeesView = newModel.(view.EmployeesModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.RosterImportModel)
	case ViewSalaries:
		var newModel tea.Model
		newModel, cmd = m.salariesView.Update(msg)
		m.salariesView = newModel.(view.SalariesModel)
	case ViewPayrun:
		var newModel tea.Model
		newModel, cmd = m.payrunView.Update(msg)
		m.payrunView = newModel.(view.PayrunModel)
	case ViewDocuments:
		var newModel tea.Model
		newModel, cmd = m.documentsView.Update(msg)
		m.documentsView = newModel.(view.DocumentsModel)
	case ViewAudit:
		var newModel tea.Model
		newModel, cmd = m.auditView.Update(msg)
		m.auditView = newModel.(view.AuditModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) menuView() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.appName))
	b.WriteString("\n\n")

	if m.alertErr != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("Could not check document expiry: " + m.alertErr.Error()))
		b.WriteString("\n\n")
	} else if msg, ok := m.alert.Message(); ok {
		b.WriteString(lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1).
			Render(msg))
		b.WriteString("\n\n")
	}

	b.WriteString("1. Employees\n" +
		"2. Import Employees\n" +
		"3. Salaries\n" +
		"4. Generate Monthly Salaries\n" +
		"5. Documents\n" +
		"6. Audit Log\n" +
		"7. Export to Excel\n\n" +
		"q. Quit")

	return lipgloss.NewStyle().Padding(2).Render(b.String())
}

func (m model) View() string {
	var v view.View

	switch m.currentView {
	case ViewMenu:
		return m.menuView()
	case ViewEmployees:
		v = m.employeesView
	case ViewImport:
		v = m.importView
	case ViewSalaries:
		v = m.salariesView
	case ViewPayrun:
		v = m.payrunView
	case ViewDocuments:
		v = m.documentsView
	case ViewAudit:
		v = m.auditView
	case ViewExport:
		v = m.exportView
	default:
		return "Unknown View"
	}

	title := lipgloss.NewStyle().Bold(true).Padding(1, 2, 0).Render(m.appName + " / " + v.Title())
	help := lipgloss.NewStyle().Faint(true).Padding(0, 2).Render(v.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, v.View(), help)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

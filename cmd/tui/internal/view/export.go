package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/docket/internal/export"
)

const exportTimeout = 2 * time.Minute

type exportState int

const (
	exportStateForm exportState = iota
	exportStateExporting
	exportStateResult
)

const (
	exportSalaries  = "salaries"
	exportDocuments = "documents"
)

// exportFields are the form bindings, kept on the heap so model copies share them.
type exportFields struct {
	What string
	Dir  string
}

type ExportModel struct {
	exportService *export.Service

	state      exportState
	defaultDir string
	fields     *exportFields
	form       *huh.Form
	spinner    spinner.Model

	path string
	err  error
}

func NewExportModel(svc *export.Service, dir string) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ExportModel{
		exportService: svc,
		defaultDir:    dir,
		fields:        &exportFields{What: exportSalaries, Dir: dir},
		spinner:       s,
	}
	m.form = m.buildForm()

	return m
}

func (m ExportModel) Title() string { return "Export to Excel" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case exportStateForm:
		return m.updateForm(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	dir := trimmed(m.fields.Dir)
	if dir == "" {
		dir = m.defaultDir
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(m.fields.What, dir))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.path = result.path
		m.err = result.err

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("what").
				Title("Export").
				Options(
					huh.NewOption("Salary records", exportSalaries),
					huh.NewOption("Documents", exportDocuments),
				).
				Value(&m.fields.What),

			huh.NewInput().
				Key("path").
				Title("Output Directory").
				Description("Directory will be created if it doesn't exist").
				Placeholder(m.defaultDir).
				Value(&m.fields.Dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case exportStateForm:
		return style.Render(m.form.View())

	case exportStateExporting:
		return style.Render(fmt.Sprintf("%s Writing %s workbook...", m.spinner.View(), m.fields.What))

	case exportStateResult:
		if m.err != nil {
			return style.Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
		}

		header := lipgloss.NewStyle().Bold(true).Render(successStyle("Export Complete!"))

		return style.Render(lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			"Saved to "+m.path,
		))
	}

	return ""
}

type exportResultMsg struct {
	path string
	err  error
}

func (m ExportModel) runExportCmd(what, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		var (
			path string
			err  error
		)

		switch what {
		case exportDocuments:
			path, err = m.exportService.ExportDocuments(ctx, dir)
		default:
			path, err = m.exportService.ExportSalaries(ctx, dir)
		}

		return exportResultMsg{path: path, err: err}
	}
}

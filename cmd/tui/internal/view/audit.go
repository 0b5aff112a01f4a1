package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/docket/internal/audit"
)

const auditLimit = 500

// auditFilters are the action prefixes the log can be narrowed to. Empty means all.
var auditFilters = []string{"", "employee.", "salary.", "payroll.", "document.", "export."}

type AuditModel struct {
	service *audit.Service

	table     table.Model
	entries   []*audit.Entry
	filterIdx int

	loading bool
	err     error
}

func NewAuditModel(svc *audit.Service) AuditModel {
	t := newTable([]table.Column{
		{Title: "When", Width: 17},
		{Title: "Action", Width: 20},
		{Title: "Details", Width: 70},
	})

	return AuditModel{
		service: svc,
		table:   t,
		loading: true,
	}
}

func (m AuditModel) Title() string { return "Audit Log" }

func (m AuditModel) ShortHelp() string {
	return "Esc: back | f: action filter | r: refresh"
}

func (m AuditModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m AuditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadAuditMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.entries = msg.entries
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "f":
			m.filterIdx = cycle(m.filterIdx, len(auditFilters))
			m.loading = true

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m AuditModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading audit log...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	action := "All"
	if a := auditFilters[m.filterIdx]; a != "" {
		action = a + "*"
	}

	header := fmt.Sprintf("Filter: [f] Action: %s | %d entr(ies), newest first", activeStyle(action), len(m.entries))

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
	))
}

func (m *AuditModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.entries))
	for _, e := range m.entries {
		rows = append(rows, table.Row{
			e.Timestamp.Local().Format("02-01-2006 15:04"),
			e.Action,
			e.Details,
		})
	}

	m.table.SetRows(rows)
}

type loadAuditMsg struct {
	entries []*audit.Entry
	err     error
}

func (m AuditModel) loadCmd() tea.Cmd {
	filter := audit.ListFilter{Action: auditFilters[m.filterIdx], Limit: auditLimit}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		es, err := m.service.List(ctx, filter)

		return loadAuditMsg{entries: es, err: err}
	}
}

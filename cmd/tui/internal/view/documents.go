package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/docket/internal/document"
	"github.com/MrJamesThe3rd/docket/internal/employee"
	"github.com/MrJamesThe3rd/docket/internal/expiry"
)

type documentState int

const (
	documentStateBrowse documentState = iota
	documentStateSearch
	documentStateEdit
	documentStateConfirmDelete
	documentStateRemaining
	documentStateAttachments
)

// statusFilters is the order the status filter cycles through. Empty means all.
var statusFilters = []expiry.Status{"", expiry.StatusValid, expiry.StatusNearExpiry, expiry.StatusExpired}

// noEmployee is the select value for documents that belong to the organization.
const noEmployee = ""

type DocumentsModel struct {
	service   *document.Service
	employees *employee.Service

	state     documentState
	table     table.Model
	remaining table.Model
	search    textinput.Model
	docs      []*document.Document
	items     []document.RemainingItem
	staff     []*employee.Employee
	form      *huh.Form
	editing   *document.Document

	categories  []string
	categoryIdx int
	statusIdx   int
	keyword     string

	attachments AttachmentsModel

	loading bool
	err     error
	status  string

	fields  *document.Form
	confirm *bool
}

func NewDocumentsModel(svc *document.Service, employees *employee.Service) DocumentsModel {
	t := newTable([]table.Column{
		{Title: "Number", Width: 12},
		{Title: "Name", Width: 24},
		{Title: "Category", Width: 14},
		{Title: "Issuer", Width: 16},
		{Title: "Issued", Width: 11},
		{Title: "Expires", Width: 11},
		{Title: "Status", Width: 12},
		{Title: "Employee", Width: 18},
	})

	rem := newTable([]table.Column{
		{Title: "Number", Width: 12},
		{Title: "Name", Width: 24},
		{Title: "Expires", Width: 11},
		{Title: "Status", Width: 12},
		{Title: "Remaining", Width: 26},
	})

	ti := textinput.New()
	ti.Placeholder = "name, number, issuer, category or tag"
	ti.Prompt = "Search: "
	ti.Width = 40

	return DocumentsModel{
		service:   svc,
		employees: employees,
		table:     t,
		remaining: rem,
		search:    ti,
		loading:   true,
		fields:    &document.Form{},
		confirm:   new(bool),
	}
}

func (m DocumentsModel) Title() string { return "Documents" }

func (m DocumentsModel) ShortHelp() string {
	switch m.state {
	case documentStateSearch:
		return "Enter: apply | Esc: clear"
	case documentStateEdit:
		return "Navigate form | Esc: cancel"
	case documentStateConfirmDelete:
		return "Confirm deletion | Esc: cancel"
	case documentStateRemaining:
		return "Esc: back to documents"
	case documentStateAttachments:
		return m.attachments.ShortHelp()
	}

	return "Esc: back | /: search | s: status | c: category | a: add | e: edit | x: delete | m: remaining | Enter: attachments"
}

func (m DocumentsModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.loadCategoriesCmd(), m.loadStaffCmd())
}

func (m DocumentsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDocumentsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.docs = msg.docs
		m.refreshTable()

		return m, nil

	case loadCategoriesMsg:
		if msg.err == nil {
			m.categories = msg.categories
		}

		return m, nil

	case loadStaffMsg:
		if msg.err == nil {
			m.staff = msg.employees
		}

		return m, nil

	case loadRemainingMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.items = msg.items
		m.refreshRemaining()

		return m, nil

	case documentSavedMsg:
		m.state = documentStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = errorStyle(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}

		m.status = successStyle(msg.status)

		return m, tea.Batch(m.loadCmd(), m.loadCategoriesCmd())

	case attachmentsClosedMsg:
		m.state = documentStateBrowse
		m.table.Focus()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		m.remaining.SetHeight(msg.Height - 10)
	}

	switch m.state {
	case documentStateBrowse:
		return m.updateBrowse(msg)
	case documentStateSearch:
		return m.updateSearch(msg)
	case documentStateEdit, documentStateConfirmDelete:
		return m.updateForm(msg)
	case documentStateRemaining:
		return m.updateRemaining(msg)
	case documentStateAttachments:
		var cmd tea.Cmd
		m.attachments, cmd = m.attachments.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m DocumentsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "/":
			m.state = documentStateSearch
			m.search.SetValue(m.keyword)
			m.table.Blur()

			return m, m.search.Focus()
		case "s":
			m.statusIdx = cycle(m.statusIdx, len(statusFilters))
			m.loading = true

			return m, m.loadCmd()
		case "c":
			m.categoryIdx = cycle(m.categoryIdx, len(m.categories)+1)
			m.loading = true

			return m, m.loadCmd()
		case "a":
			return m.enterEdit(nil)
		case "e":
			if d := m.selected(); d != nil {
				return m.enterEdit(d)
			}

			return m, nil
		case "x":
			return m.enterConfirmDelete()
		case "m":
			m.state = documentStateRemaining
			m.loading = true
			m.table.Blur()
			m.remaining.Focus()

			return m, m.loadRemainingCmd()
		case "enter":
			d := m.selected()
			if d == nil {
				return m, nil
			}

			m.state = documentStateAttachments
			m.attachments = NewAttachmentsModel(m.service, d)
			m.table.Blur()

			return m, m.attachments.Init()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DocumentsModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.search.SetValue("")
			m.keyword = ""
		case tea.KeyEnter:
			m.keyword = trimmed(m.search.Value())
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)

			return m, cmd
		}

		m.search.Blur()
		m.state = documentStateBrowse
		m.table.Focus()
		m.loading = true

		return m, m.loadCmd()
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	return m, cmd
}

func (m DocumentsModel) updateRemaining(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = documentStateBrowse
		m.remaining.Blur()
		m.table.Focus()

		return m, nil
	}

	var cmd tea.Cmd
	m.remaining, cmd = m.remaining.Update(msg)

	return m, cmd
}

func (m DocumentsModel) selected() *document.Document {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.docs) {
		return nil
	}

	return m.docs[idx]
}

func (m DocumentsModel) enterEdit(d *document.Document) (tea.Model, tea.Cmd) {
	m.editing = d
	*m.fields = document.Form{}

	if d != nil {
		*m.fields = document.FormFrom(d)
	}

	employeeOpts := make([]huh.Option[string], 0, len(m.staff)+1)
	employeeOpts = append(employeeOpts, huh.NewOption("None (organization)", noEmployee))

	for _, e := range m.staff {
		employeeOpts = append(employeeOpts, huh.NewOption(fmt.Sprintf("%s (%s)", e.Name, e.Number), e.ID.String()))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.fields.Name).
				Validate(notBlank("name")),

			huh.NewInput().
				Key("number").
				Title("Document Number").
				Value(&m.fields.Number).
				Validate(notBlank("document number")),

			huh.NewInput().
				Key("issuer").
				Title("Issuer").
				Value(&m.fields.Issuer).
				Validate(notBlank("issuer")),

			huh.NewInput().
				Key("issue_date").
				Title("Issue Date").
				Placeholder("DD-MM-YYYY").
				Value(&m.fields.IssueDate).
				Validate(validDisplayDate(false)),

			huh.NewInput().
				Key("expiry_date").
				Title("Expiry Date (optional)").
				Placeholder("DD-MM-YYYY").
				Value(&m.fields.ExpiryDate).
				Validate(validDisplayDate(true)),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("employee").
				Title("Employee").
				Options(employeeOpts...).
				Value(&m.fields.EmployeeID),

			huh.NewInput().
				Key("category").
				Title("Category").
				Suggestions(m.categories).
				Value(&m.fields.Category),

			huh.NewInput().
				Key("tags").
				Title("Tags").
				Placeholder("comma separated").
				Value(&m.fields.Tags),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = documentStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m DocumentsModel) enterConfirmDelete() (tea.Model, tea.Cmd) {
	d := m.selected()
	if d == nil {
		return m, nil
	}

	m.editing = d
	*m.confirm = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s (%s)?", d.Name, d.Number)).
				Description("Its attachments are deleted too.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(m.confirm),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = documentStateConfirmDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m DocumentsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = documentStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == documentStateConfirmDelete {
		if !*m.confirm {
			m.state = documentStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}

		return m, m.deleteCmd(m.editing)
	}

	return m, m.saveCmd()
}

func (m DocumentsModel) category() string {
	if m.categoryIdx == 0 || m.categoryIdx > len(m.categories) {
		return ""
	}

	return m.categories[m.categoryIdx-1]
}

func (m DocumentsModel) statusFilter() expiry.Status {
	return statusFilters[m.statusIdx%len(statusFilters)]
}

func (m DocumentsModel) View() string {
	switch m.state {
	case documentStateAttachments:
		return m.attachments.View()
	case documentStateRemaining:
		return m.viewRemaining()
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading documents...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(m.filterLine()),
		boxed(m.table.View()),
	)

	if m.form != nil {
		title := "Add Document"

		switch {
		case m.state == documentStateConfirmDelete:
			title = "Delete Document"
		case m.editing != nil:
			title = "Edit Document"
		}

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel(title, m.form.View()))
	}

	if m.status != "" {
		content = m.status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m DocumentsModel) filterLine() string {
	status := "All"
	if s := m.statusFilter(); s != "" {
		status = s.Label()
	}

	category := "All"
	if c := m.category(); c != "" {
		category = c
	}

	keyword := m.keyword
	if m.state == documentStateSearch {
		keyword = m.search.View()
	} else if keyword == "" {
		keyword = "-"
	} else {
		keyword = activeStyle(keyword)
	}

	return fmt.Sprintf("[s] Status: %s | [c] Category: %s | [/] %s | %d document(s)",
		activeStyle(status), activeStyle(category), keyword, len(m.docs))
}

func (m DocumentsModel) viewRemaining() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("Remaining validity as of %s | %d document(s) with an expiry date",
		m.service.Today().Display(), len(m.items))

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.remaining.View()),
	))
}

func (m *DocumentsModel) refreshTable() {
	today := m.service.Today()

	rows := make([]table.Row, 0, len(m.docs))
	for _, d := range m.docs {
		rows = append(rows, table.Row{
			d.Number,
			d.Name,
			d.Category,
			d.Issuer,
			d.IssueDate.Display(),
			FormatDate(d.ExpiryDate),
			d.Status(today).Label(),
			d.EmployeeName,
		})
	}

	m.table.SetRows(rows)
}

func (m *DocumentsModel) refreshRemaining() {
	rows := make([]table.Row, 0, len(m.items))
	for _, it := range m.items {
		rows = append(rows, table.Row{
			it.Document.Number,
			it.Document.Name,
			FormatDate(it.Document.ExpiryDate),
			it.Status.Label(),
			it.Remaining,
		})
	}

	m.remaining.SetRows(rows)
}

// Messages

type loadDocumentsMsg struct {
	docs []*document.Document
	err  error
}

type loadCategoriesMsg struct {
	categories []string
	err        error
}

type loadRemainingMsg struct {
	items []document.RemainingItem
	err   error
}

type documentSavedMsg struct {
	status string
	err    error
}

func (m DocumentsModel) loadCmd() tea.Cmd {
	filter := document.SearchFilter{
		Keyword:  m.keyword,
		Category: m.category(),
		Status:   m.statusFilter(),
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		docs, err := m.service.Search(ctx, filter)

		return loadDocumentsMsg{docs: docs, err: err}
	}
}

func (m DocumentsModel) loadCategoriesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cats, err := m.service.Categories(ctx)

		return loadCategoriesMsg{categories: cats, err: err}
	}
}

func (m DocumentsModel) loadStaffCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		es, err := m.employees.List(ctx, employee.ListFilter{})

		return loadStaffMsg{employees: es, err: err}
	}
}

func (m DocumentsModel) loadRemainingCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		items, err := m.service.Remaining(ctx)

		return loadRemainingMsg{items: items, err: err}
	}
}

func (m DocumentsModel) saveCmd() tea.Cmd {
	form := *m.fields
	editing := m.editing

	return func() tea.Msg {
		params, err := form.Params()
		if err != nil {
			return documentSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if editing == nil {
			d, err := m.service.Create(ctx, params)
			if err != nil {
				return documentSavedMsg{err: err}
			}

			return documentSavedMsg{status: fmt.Sprintf("Added %s.", d.Name)}
		}

		d, err := m.service.Update(ctx, editing.ID, params)
		if err != nil {
			return documentSavedMsg{err: err}
		}

		return documentSavedMsg{status: fmt.Sprintf("Updated %s.", d.Name)}
	}
}

func (m DocumentsModel) deleteCmd(d *document.Document) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.service.Delete(ctx, d.ID); err != nil {
			return documentSavedMsg{err: err}
		}

		return documentSavedMsg{status: fmt.Sprintf("Deleted %s.", d.Name)}
	}
}

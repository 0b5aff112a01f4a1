package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/docket/internal/employee"
)

type employeeState int

const (
	employeeStateBrowse employeeState = iota
	employeeStateEdit
	employeeStateConfirmDelete
)

type EmployeesModel struct {
	service *employee.Service

	state     employeeState
	table     table.Model
	employees []*employee.Employee
	form      *huh.Form
	editing   *employee.Employee // nil while adding

	departments []string
	deptIdx     int // 0 is "All"

	loading bool
	err     error
	status  string

	// Form bindings live on the heap so huh keeps writing to the same fields
	// after the model is copied.
	fields  *employee.Form
	confirm *bool
}

func NewEmployeesModel(svc *employee.Service) EmployeesModel {
	t := newTable([]table.Column{
		{Title: "Number", Width: 10},
		{Title: "Name", Width: 28},
		{Title: "Department", Width: 18},
		{Title: "Contact", Width: 24},
		{Title: "Hire Date", Width: 12},
	})

	return EmployeesModel{
		service: svc,
		table:   t,
		loading: true,
		fields:  &employee.Form{},
		confirm: new(bool),
	}
}

func (m EmployeesModel) Title() string { return "Employees" }

func (m EmployeesModel) ShortHelp() string {
	switch m.state {
	case employeeStateEdit:
		return "Navigate form | Esc: cancel"
	case employeeStateConfirmDelete:
		return "Confirm deletion | Esc: cancel"
	}

	return "Esc: back | a: add | e: edit | x: delete | d: department filter | r: refresh"
}

func (m EmployeesModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.loadDepartmentsCmd())
}

func (m EmployeesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadEmployeesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.employees = msg.employees
		m.refreshTable()

		return m, nil

	case loadDepartmentsMsg:
		if msg.err == nil {
			m.departments = msg.departments
		}

		return m, nil

	case employeeSavedMsg:
		m.state = employeeStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = errorStyle(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}

		m.status = successStyle(msg.status)

		return m, tea.Batch(m.loadCmd(), m.loadDepartmentsCmd())

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case employeeStateBrowse:
		return m.updateBrowse(msg)
	case employeeStateEdit, employeeStateConfirmDelete:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m EmployeesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			return m.enterEdit(nil)
		case "e":
			if e := m.selected(); e != nil {
				return m.enterEdit(e)
			}

			return m, nil
		case "x":
			return m.enterConfirmDelete()
		case "d":
			m.deptIdx = cycle(m.deptIdx, len(m.departments)+1)
			m.loading = true

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m EmployeesModel) selected() *employee.Employee {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.employees) {
		return nil
	}

	return m.employees[idx]
}

func (m EmployeesModel) enterEdit(e *employee.Employee) (tea.Model, tea.Cmd) {
	m.editing = e
	*m.fields = employee.Form{}

	if e != nil {
		*m.fields = employee.FormFrom(e)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("number").
				Title("Employee Number").
				Value(&m.fields.Number).
				Validate(notBlank("employee number")),

			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.fields.Name).
				Validate(notBlank("name")),

			huh.NewInput().
				Key("department").
				Title("Department").
				Value(&m.fields.Department),

			huh.NewInput().
				Key("contact").
				Title("Contact Info").
				Value(&m.fields.ContactInfo),

			huh.NewInput().
				Key("hire_date").
				Title("Hire Date").
				Placeholder("DD-MM-YYYY").
				Value(&m.fields.HireDate).
				Validate(validDisplayDate(false)),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = employeeStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m EmployeesModel) enterConfirmDelete() (tea.Model, tea.Cmd) {
	e := m.selected()
	if e == nil {
		return m, nil
	}

	m.editing = e
	*m.confirm = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s (%s)?", e.Name, e.Number)).
				Description("Their salary records are deleted too. Linked documents are kept.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(m.confirm),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = employeeStateConfirmDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m EmployeesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = employeeStateBrowse
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

	if m.state == employeeStateConfirmDelete {
		if !*m.confirm {
			m.state = employeeStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}

		return m, m.deleteCmd(m.editing)
	}

	return m, m.saveCmd()
}

func (m EmployeesModel) department() string {
	if m.deptIdx == 0 || m.deptIdx > len(m.departments) {
		return ""
	}

	return m.departments[m.deptIdx-1]
}

func (m EmployeesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading employees...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	dept := "All"
	if d := m.department(); d != "" {
		dept = d
	}

	header := fmt.Sprintf("Filter: [d] Department: %s | %d employee(s)", activeStyle(dept), len(m.employees))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
	)

	if m.form != nil {
		title := "Add Employee"

		switch {
		case m.state == employeeStateConfirmDelete:
			title = "Delete Employee"
		case m.editing != nil:
			title = "Edit Employee"
		}

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel(title, m.form.View()))
	}

	if m.status != "" {
		content = m.status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *EmployeesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.employees))
	for _, e := range m.employees {
		rows = append(rows, table.Row{
			e.Number,
			e.Name,
			e.Department,
			e.ContactInfo,
			e.HireDate.Display(),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadEmployeesMsg struct {
	employees []*employee.Employee
	err       error
}

type loadDepartmentsMsg struct {
	departments []string
	err         error
}

type employeeSavedMsg struct {
	status string
	err    error
}

func (m EmployeesModel) loadCmd() tea.Cmd {
	filter := employee.ListFilter{Department: m.department()}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		es, err := m.service.List(ctx, filter)

		return loadEmployeesMsg{employees: es, err: err}
	}
}

func (m EmployeesModel) loadDepartmentsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		deps, err := m.service.Departments(ctx)

		return loadDepartmentsMsg{departments: deps, err: err}
	}
}

func (m EmployeesModel) saveCmd() tea.Cmd {
	form := *m.fields
	editing := m.editing

	return func() tea.Msg {
		params, err := form.Params()
		if err != nil {
			return employeeSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if editing == nil {
			e, err := m.service.Create(ctx, params)
			if err != nil {
				return employeeSavedMsg{err: err}
			}

			return employeeSavedMsg{status: fmt.Sprintf("Added %s.", e.Name)}
		}

		e, err := m.service.Update(ctx, editing.ID, params)
		if err != nil {
			return employeeSavedMsg{err: err}
		}

		return employeeSavedMsg{status: fmt.Sprintf("Updated %s.", e.Name)}
	}
}

func (m EmployeesModel) deleteCmd(e *employee.Employee) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.service.Delete(ctx, e.ID); err != nil {
			return employeeSavedMsg{err: err}
		}

		return employeeSavedMsg{status: fmt.Sprintf("Deleted %s.", e.Name)}
	}
}

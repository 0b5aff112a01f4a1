package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/docket/internal/datefmt"
	"github.com/MrJamesThe3rd/docket/internal/employee"
	"github.com/MrJamesThe3rd/docket/internal/payroll"
	"github.com/MrJamesThe3rd/docket/internal/salary"
)

type salaryState int

const (
	salaryStateBrowse salaryState = iota
	salaryStateEdit
	salaryStateConfirmDelete
)

// salaryFields backs the salary form. BasicIn is the figure the user typed,
// read as monthly or annual depending on BasicAs.
type salaryFields struct {
	salary.Form
	BasicAs string
	BasicIn string
}

// monthly resolves the typed basic salary to a monthly figure.
func (f *salaryFields) monthly() (string, error) {
	if trimmed(f.BasicIn) == "" {
		return "", nil
	}

	field, err := payroll.ParseField(f.BasicAs)
	if err != nil {
		return "", err
	}

	monthly, _, err := payroll.SyncBasicSalary(field, f.BasicIn)
	if err != nil {
		return "", err
	}

	return monthly.String(), nil
}

func (f *salaryFields) basicSummary() string {
	field, err := payroll.ParseField(f.BasicAs)
	if err != nil {
		return ""
	}

	monthly, annual, err := payroll.SyncBasicSalary(field, f.BasicIn)
	if err != nil {
		return errorStyle(err.Error())
	}

	return fmt.Sprintf("Monthly %s / Annual %s", FormatAmount(monthly), FormatAmount(annual))
}

func (f *salaryFields) netSummary() string {
	basic, err := f.monthly()
	if err != nil {
		basic = ""
	}

	return "Net salary: " + FormatAmount(payroll.ComputeNet(basic, f.Allowances, f.Deductions))
}

type SalariesModel struct {
	service   *salary.Service
	employees *employee.Service

	state   salaryState
	table   table.Model
	records []*salary.Record
	staff   []*employee.Employee
	form    *huh.Form
	editing *salary.Record

	departments []string
	deptIdx     int
	historyOf   *employee.Employee // set while showing one employee's history

	loading bool
	err     error
	status  string

	fields  *salaryFields
	confirm *bool
}

func NewSalariesModel(svc *salary.Service, employees *employee.Service) SalariesModel {
	t := newTable([]table.Column{
		{Title: "Employee", Width: 22},
		{Title: "Department", Width: 14},
		{Title: "Basic", Width: 11},
		{Title: "Annual", Width: 12},
		{Title: "Allow.", Width: 10},
		{Title: "Deduct.", Width: 10},
		{Title: "Net", Width: 11},
		{Title: "Method", Width: 14},
		{Title: "Paid", Width: 11},
	})

	return SalariesModel{
		service:   svc,
		employees: employees,
		table:     t,
		loading:   true,
		fields:    &salaryFields{},
		confirm:   new(bool),
	}
}

func (m SalariesModel) Title() string { return "Salaries" }

func (m SalariesModel) ShortHelp() string {
	switch m.state {
	case salaryStateEdit:
		return "Navigate form | Esc: cancel"
	case salaryStateConfirmDelete:
		return "Confirm deletion | Esc: cancel"
	}

	return "Esc: back | a: add | e: edit | x: delete | h: history | d: department filter | r: refresh"
}

func (m SalariesModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.loadStaffCmd())
}

func (m SalariesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadSalariesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.records = msg.records
		m.refreshTable()

		return m, nil

	case loadStaffMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.staff = msg.employees
		m.departments = departmentsOf(msg.employees)

		return m, nil

	case salarySavedMsg:
		m.state = salaryStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = errorStyle(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}

		m.status = successStyle(msg.status)

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case salaryStateBrowse:
		return m.updateBrowse(msg)
	case salaryStateEdit, salaryStateConfirmDelete:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m SalariesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			if m.historyOf != nil {
				m.historyOf = nil
				m.loading = true

				return m, m.loadCmd()
			}

			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			return m.enterEdit(nil)
		case "e":
			if r := m.selected(); r != nil {
				return m.enterEdit(r)
			}

			return m, nil
		case "x":
			return m.enterConfirmDelete()
		case "h":
			r := m.selected()
			if r == nil {
				return m, nil
			}

			m.historyOf = &employee.Employee{ID: r.EmployeeID, Name: r.EmployeeName}
			m.loading = true

			return m, m.loadCmd()
		case "d":
			m.historyOf = nil
			m.deptIdx = cycle(m.deptIdx, len(m.departments)+1)
			m.loading = true

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m SalariesModel) selected() *salary.Record {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return nil
	}

	return m.records[idx]
}

func (m SalariesModel) enterEdit(r *salary.Record) (tea.Model, tea.Cmd) {
	if len(m.staff) == 0 {
		m.status = warnStyle("Add an employee before recording salaries.")
		return m, nil
	}

	m.editing = r

	*m.fields = salaryFields{
		Form: salary.Form{
			EmployeeID:    m.staff[0].ID.String(),
			Allowances:    "0",
			Deductions:    "0",
			PaymentMethod: string(salary.PaymentBankTransfer),
			PaymentDate:   datefmt.Today(nil).Display(),
		},
		BasicAs: payroll.FieldMonthly.String(),
	}

	if r != nil {
		m.fields.Form = salary.FormFrom(r)
		m.fields.BasicIn = m.fields.Basic
	}

	employeeOpts := make([]huh.Option[string], len(m.staff))
	for i, e := range m.staff {
		employeeOpts[i] = huh.NewOption(fmt.Sprintf("%s (%s)", e.Name, e.Number), e.ID.String())
	}

	methodOpts := make([]huh.Option[string], len(salary.PaymentMethods))
	for i, pm := range salary.PaymentMethods {
		methodOpts[i] = huh.NewOption(pm.Label(), string(pm))
	}

	f := m.fields

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Employee").
				Options(employeeOpts...).
				Value(&f.EmployeeID),

			huh.NewSelect[string]().
				Title("Basic salary entered as").
				Options(
					huh.NewOption("Monthly", payroll.FieldMonthly.String()),
					huh.NewOption("Annual", payroll.FieldAnnual.String()),
				).
				Value(&f.BasicAs),

			huh.NewInput().
				Title("Basic Salary").
				Value(&f.BasicIn).
				Validate(validAmount("basic_salary")),

			huh.NewNote().
				DescriptionFunc(f.basicSummary, f),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Allowances").
				Value(&f.Allowances).
				Validate(validAmount("allowances")),

			huh.NewInput().
				Title("Deductions").
				Value(&f.Deductions).
				Validate(validAmount("deductions")),

			huh.NewNote().
				DescriptionFunc(f.netSummary, f),

			huh.NewSelect[string]().
				Title("Payment Method").
				Options(methodOpts...).
				Value(&f.PaymentMethod),

			huh.NewInput().
				Title("Payment Date").
				Placeholder("DD-MM-YYYY").
				Value(&f.PaymentDate).
				Validate(validDisplayDate(false)),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = salaryStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m SalariesModel) enterConfirmDelete() (tea.Model, tea.Cmd) {
	r := m.selected()
	if r == nil {
		return m, nil
	}

	m.editing = r
	*m.confirm = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete the %s salary of %s?", r.PaymentDate.Display(), r.EmployeeName)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(m.confirm),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = salaryStateConfirmDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m SalariesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = salaryStateBrowse
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

	if m.state == salaryStateConfirmDelete {
		if !*m.confirm {
			m.state = salaryStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}

		return m, m.deleteCmd(m.editing)
	}

	return m, m.saveCmd()
}

func (m SalariesModel) department() string {
	if m.deptIdx == 0 || m.deptIdx > len(m.departments) {
		return ""
	}

	return m.departments[m.deptIdx-1]
}

func (m SalariesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading salaries...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	var header string

	if m.historyOf != nil {
		header = fmt.Sprintf("History of %s | Esc: all records", activeStyle(m.historyOf.Name))
	} else {
		dept := "All"
		if d := m.department(); d != "" {
			dept = d
		}

		header = fmt.Sprintf("Filter: [d] Department: %s | %d record(s)", activeStyle(dept), len(m.records))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
	)

	if m.form != nil {
		title := "Add Salary"

		switch {
		case m.state == salaryStateConfirmDelete:
			title = "Delete Salary"
		case m.editing != nil:
			title = "Edit Salary"
		}

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel(title, m.form.View()))
	}

	if m.status != "" {
		content = m.status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *SalariesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.records))
	for _, r := range m.records {
		rows = append(rows, table.Row{
			r.EmployeeName,
			r.Department,
			FormatAmount(r.Basic),
			FormatAmount(r.AnnualBasic()),
			FormatAmount(r.Allowances),
			FormatAmount(r.Deductions),
			FormatAmount(r.Net),
			r.PaymentMethod.Label(),
			r.PaymentDate.Display(),
		})
	}

	m.table.SetRows(rows)
}

func departmentsOf(es []*employee.Employee) []string {
	seen := make(map[string]bool)

	var deps []string

	for _, e := range es {
		if e.Department == "" || seen[e.Department] {
			continue
		}

		seen[e.Department] = true
		deps = append(deps, e.Department)
	}

	return deps
}

// Messages

type loadSalariesMsg struct {
	records []*salary.Record
	err     error
}

type loadStaffMsg struct {
	employees []*employee.Employee
	err       error
}

type salarySavedMsg struct {
	status string
	err    error
}

func (m SalariesModel) loadCmd() tea.Cmd {
	filter := salary.ListFilter{Department: m.department()}
	historyOf := m.historyOf

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if historyOf != nil {
			recs, err := m.service.History(ctx, historyOf.ID)
			return loadSalariesMsg{records: recs, err: err}
		}

		recs, err := m.service.List(ctx, filter)

		return loadSalariesMsg{records: recs, err: err}
	}
}

func (m SalariesModel) loadStaffCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		es, err := m.employees.List(ctx, employee.ListFilter{})

		return loadStaffMsg{employees: es, err: err}
	}
}

func (m SalariesModel) saveCmd() tea.Cmd {
	fields := *m.fields
	editing := m.editing

	return func() tea.Msg {
		basic, err := fields.monthly()
		if err != nil {
			return salarySavedMsg{err: err}
		}

		form := fields.Form
		form.Basic = basic

		params, err := form.Params()
		if err != nil {
			return salarySavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if editing == nil {
			r, err := m.service.Create(ctx, params)
			if err != nil {
				return salarySavedMsg{err: err}
			}

			return salarySavedMsg{status: fmt.Sprintf("Recorded net salary %s.", FormatAmount(r.Net))}
		}

		r, err := m.service.Update(ctx, editing.ID, params)
		if err != nil {
			return salarySavedMsg{err: err}
		}

		return salarySavedMsg{status: fmt.Sprintf("Updated salary, net %s.", FormatAmount(r.Net))}
	}
}

func (m SalariesModel) deleteCmd(r *salary.Record) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.service.Delete(ctx, r.ID); err != nil {
			return salarySavedMsg{err: err}
		}

		return salarySavedMsg{status: "Salary record deleted."}
	}
}

package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/docket/internal/payroll"
	"github.com/MrJamesThe3rd/docket/internal/payrun"
)

const payrunTimeout = 2 * time.Minute

type payrunState int

const (
	payrunStatePeriod payrunState = iota
	payrunStateConfirm
	payrunStateRunning
	payrunStateResult
)

// PayrunModel generates the monthly salary records.
type PayrunModel struct {
	generator *payrun.Generator

	state   payrunState
	picker  PeriodPicker
	period  payroll.Period
	form    *huh.Form
	confirm *bool
	spinner spinner.Model

	result *payrun.Result
	err    error
}

func NewPayrunModel(gen *payrun.Generator) PayrunModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return PayrunModel{
		generator: gen,
		picker:    NewPeriodPicker(),
		confirm:   new(bool),
		spinner:   s,
	}
}

func (m PayrunModel) Title() string { return "Generate Monthly Salaries" }

func (m PayrunModel) ShortHelp() string {
	switch m.state {
	case payrunStateRunning:
		return "Generating..."
	case payrunStateResult:
		return "Esc: back to menu"
	}

	return "Esc: back | Enter: confirm"
}

func (m PayrunModel) Init() tea.Cmd {
	return nil
}

func (m PayrunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if sel, ok := msg.(PeriodSelectedMsg); ok {
		m.period = sel.Period
		*m.confirm = true
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Generate salaries for %s?", sel.Period.Display())).
					Description("Employees who already have a record in this month are skipped.").
					Affirmative("Generate").
					Negative("Cancel").
					Value(m.confirm),
			),
		).WithWidth(50).WithShowHelp(false)
		m.state = payrunStateConfirm

		return m, m.form.Init()
	}

	switch m.state {
	case payrunStatePeriod:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd

	case payrunStateConfirm:
		return m.updateConfirm(msg)

	case payrunStateRunning:
		if res, ok := msg.(payrunResultMsg); ok {
			m.state = payrunStateResult
			m.result = res.result
			m.err = res.err

			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case payrunStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m PayrunModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = payrunStatePeriod
		m.picker.Reset()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !*m.confirm {
		m.state = payrunStatePeriod
		m.picker.Reset()

		return m, nil
	}

	m.state = payrunStateRunning
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runCmd(m.period))
}

func (m PayrunModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case payrunStatePeriod:
		return style.Render(m.picker.View())
	case payrunStateConfirm:
		return style.Render(m.form.View())
	case payrunStateRunning:
		return style.Render(fmt.Sprintf("%s Generating salaries for %s...", m.spinner.View(), m.period.Display()))
	case payrunStateResult:
		return style.Render(m.viewResult())
	}

	return ""
}

func (m PayrunModel) viewResult() string {
	var b strings.Builder

	if m.err != nil {
		b.WriteString(errorStyle(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	if m.result == nil {
		return b.String()
	}

	header := fmt.Sprintf("%d salary record(s) generated for %s.", m.result.Count(), m.result.Period.Display())
	if m.err == nil {
		header = lipgloss.NewStyle().Bold(true).Render(successStyle(header))
	}

	b.WriteString(header)

	if m.result.Skipped > 0 {
		fmt.Fprintf(&b, "\n%d employee(s) already had a record and were skipped.", m.result.Skipped)
	}

	if len(m.result.Created) > 0 {
		b.WriteString("\n\n")

		for _, r := range m.result.Created {
			fmt.Fprintf(&b, "  %-28s  net %12s  paid %s\n", r.EmployeeName, FormatAmount(r.Net), r.PaymentDate.Display())
		}
	}

	return b.String()
}

type payrunResultMsg struct {
	result *payrun.Result
	err    error
}

func (m PayrunModel) runCmd(period payroll.Period) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), payrunTimeout)
		defer cancel()

		res, err := m.generator.Generate(ctx, payrun.Request{Period: period})

		return payrunResultMsg{result: res, err: err}
	}
}

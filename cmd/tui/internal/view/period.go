package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/docket/internal/datefmt"
	"github.com/MrJamesThe3rd/docket/internal/payroll"
)

// PeriodChoice is one of the preset payroll periods offered by the picker.
type PeriodChoice int

const (
	PeriodThisMonth PeriodChoice = iota
	PeriodLastMonth
	PeriodNextMonth
	PeriodCustom
)

func (c PeriodChoice) String() string {
	switch c {
	case PeriodThisMonth:
		return "This Month"
	case PeriodLastMonth:
		return "Last Month"
	case PeriodNextMonth:
		return "Next Month"
	case PeriodCustom:
		return "Other Month"
	}

	return "Unknown"
}

func (c PeriodChoice) period(today datefmt.Date) payroll.Period {
	current := payroll.PeriodOf(today)

	switch c {
	case PeriodLastMonth:
		return current.Prev()
	case PeriodNextMonth:
		return current.Next()
	}

	return current
}

// PeriodSelectedMsg is emitted once the user has chosen a payroll month.
type PeriodSelectedMsg struct {
	Period payroll.Period
}

type periodState int

const (
	periodStateSelect periodState = iota
	periodStateCustom
)

// PeriodPicker is a reusable component for choosing a payroll month.
type PeriodPicker struct {
	state    periodState
	selected PeriodChoice
	input    textinput.Model
	now      func() time.Time

	err error
}

func NewPeriodPicker() PeriodPicker {
	ti := textinput.New()
	ti.Placeholder = "YYYY-MM"
	ti.CharLimit = 7
	ti.Width = 10
	ti.Prompt = "Month: "

	return PeriodPicker{
		state: periodStateSelect,
		input: ti,
		now:   time.Now,
	}
}

func (m PeriodPicker) Init() tea.Cmd {
	return nil
}

func (m PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case periodStateSelect:
			return m.updateSelect(keyMsg)
		case periodStateCustom:
			return m.updateCustom(keyMsg)
		}
	}

	return m, nil
}

func (m PeriodPicker) updateSelect(msg tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > PeriodThisMonth {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < PeriodCustom {
			m.selected++
		}
	case tea.KeyEnter:
		if m.selected == PeriodCustom {
			m.state = periodStateCustom
			m.input.Focus()

			return m, textinput.Blink
		}

		p := m.selected.period(datefmt.Today(m.now))

		return m, func() tea.Msg {
			return PeriodSelectedMsg{Period: p}
		}
	}

	return m, nil
}

func (m PeriodPicker) updateCustom(msg tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch msg.String() {
	case "enter":
		p, err := payroll.ParsePeriod(trimmed(m.input.Value()))
		if err != nil {
			m.err = fmt.Errorf("invalid month (YYYY-MM)")
			return m, nil
		}

		m.err = nil

		return m, func() tea.Msg {
			return PeriodSelectedMsg{Period: p}
		}

	case "esc":
		m.state = periodStateSelect
		m.err = nil
		m.input.Blur()

		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m PeriodPicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = errorStyle(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.state == periodStateCustom {
		return fmt.Sprintf("Enter Payroll Month:\n\n%s\n\n(Enter to confirm, Esc to back)%s", m.input.View(), errStr)
	}

	today := datefmt.Today(m.now)

	s := "Select Payroll Month:\n\n"
	for c := PeriodThisMonth; c <= PeriodCustom; c++ {
		cursor := " "
		if m.selected == c {
			cursor = ">"
		}

		label := c.String()
		if c != PeriodCustom {
			label = fmt.Sprintf("%s (%s)", label, c.period(today).Display())
		}

		s += fmt.Sprintf("%s %s\n", cursor, label)
	}

	s += "\n(Enter to select, Esc to back)"

	return s + errStr
}

// IsSelecting reports whether the picker shows the preset list rather than the custom input.
func (m PeriodPicker) IsSelecting() bool {
	return m.state == periodStateSelect
}

// Reset returns the picker to its initial selection state.
func (m *PeriodPicker) Reset() {
	m.state = periodStateSelect
	m.selected = PeriodThisMonth
	m.err = nil
	m.input.SetValue("")
	m.input.Blur()
}

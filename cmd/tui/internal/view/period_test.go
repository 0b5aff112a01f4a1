package view

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/docket/internal/payroll"
)

func newTestPicker() PeriodPicker {
	p := NewPeriodPicker()
	p.now = func() time.Time { return time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC) }

	return p
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestPeriodPicker_Presets(t *testing.T) {
	tests := []struct {
		name  string
		downs int
		want  payroll.Period
	}{
		{name: "ThisMonth", downs: 0, want: payroll.Period{Year: 2024, Month: time.January}},
		{name: "LastMonthCrossesYear", downs: 1, want: payroll.Period{Year: 2023, Month: time.December}},
		{name: "NextMonth", downs: 2, want: payroll.Period{Year: 2024, Month: time.February}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPicker()
			for i := 0; i < tt.downs; i++ {
				p, _ = p.Update(key(tea.KeyDown))
			}

			_, cmd := p.Update(key(tea.KeyEnter))
			require.NotNil(t, cmd)

			msg, ok := cmd().(PeriodSelectedMsg)
			require.True(t, ok)
			assert.Equal(t, tt.want, msg.Period)
		})
	}
}

func TestPeriodPicker_Custom(t *testing.T) {
	p := newTestPicker()
	for i := 0; i < 3; i++ {
		p, _ = p.Update(key(tea.KeyDown))
	}

	p, _ = p.Update(key(tea.KeyEnter))
	require.False(t, p.IsSelecting())

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2024-13")})
	p, cmd := p.Update(key(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Error(t, p.err)

	p.input.SetValue("2023-11")
	_, cmd = p.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)

	msg, ok := cmd().(PeriodSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, payroll.Period{Year: 2023, Month: time.November}, msg.Period)
}

func TestPeriodPicker_Reset(t *testing.T) {
	p := newTestPicker()
	p, _ = p.Update(key(tea.KeyDown))
	p, _ = p.Update(key(tea.KeyDown))
	p, _ = p.Update(key(tea.KeyDown))
	p, _ = p.Update(key(tea.KeyEnter))

	p.Reset()

	assert.True(t, p.IsSelecting())
	assert.Equal(t, PeriodThisMonth, p.selected)
	assert.Empty(t, p.input.Value())
}

package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/docket/internal/importer"
)

const importTimeout = 2 * time.Minute

type rosterState int

const (
	rosterStateFilePick rosterState = iota
	rosterStateImporting
	rosterStateResult
)

// RosterImportModel imports employees from a roster CSV file.
type RosterImportModel struct {
	importService *importer.Service

	state      rosterState
	filePicker filepicker.Model
	report     list.Model

	status string
	err    error
}

func NewRosterImportModel(svc *importer.Service) RosterImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.Height = 15

	return RosterImportModel{
		importService: svc,
		filePicker:    fp,
	}
}

func (m RosterImportModel) Title() string { return "Import Employees" }

func (m RosterImportModel) ShortHelp() string {
	if m.state == rosterStateResult {
		return "Esc: back | Up/Down: scroll"
	}

	return "Esc: back | Enter: select"
}

func (m RosterImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m RosterImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.state == rosterStateResult {
				m.state = rosterStateFilePick
				m.err = nil
				m.status = ""

				return m, m.filePicker.Init()
			}

			return m, Back
		}

		if m.state == rosterStateResult {
			var cmd tea.Cmd
			m.report, cmd = m.report.Update(msg)

			return m, cmd
		}

	case rosterResultMsg:
		m.state = rosterStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		res := msg.result
		m.status = fmt.Sprintf("Imported %d employee(s) from a %s file. %d already on file, %d row(s) skipped.",
			len(res.Imported), res.Charset, len(res.Duplicates), len(res.Invalid))
		m.report = newReportList(res)

		return m, nil
	}

	if m.state != rosterStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = rosterStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m RosterImportModel) View() string {
	switch m.state {
	case rosterStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select roster file to import:\n\n%s", m.filePicker.View()),
		)
	case rosterStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case rosterStateResult:
		return m.viewResult()
	}

	return ""
}

func (m RosterImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle(m.status) + "\n\n(Esc to go back)")
	}

	return style.Render(successStyle(m.status) + "\n\n" + m.report.View() + "\n(Esc to go back)")
}

type rosterResultMsg struct {
	result *importer.Result
	err    error
}

func (m RosterImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return rosterResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.importService.Import(ctx, f)
		if err != nil {
			return rosterResultMsg{err: err}
		}

		return rosterResultMsg{result: result}
	}
}

// Report list

type reportKind int

const (
	reportImported reportKind = iota
	reportDuplicate
	reportInvalid
)

type reportItem struct {
	kind reportKind
	text string
}

func (i reportItem) Title() string       { return i.text }
func (i reportItem) Description() string { return "" }
func (i reportItem) FilterValue() string { return i.text }

func newReportList(res *importer.Result) list.Model {
	var items []list.Item

	for _, e := range res.Imported {
		items = append(items, reportItem{kind: reportImported, text: fmt.Sprintf("%s  %s  %s", e.Number, e.Name, e.Department)})
	}

	for _, d := range res.Duplicates {
		items = append(items, reportItem{kind: reportDuplicate, text: fmt.Sprintf("%s  %s  already exists", d.Number, d.Name)})
	}

	for _, s := range res.Invalid {
		items = append(items, reportItem{kind: reportInvalid, text: fmt.Sprintf("row %d: %s", s.Row, s.Reason)})
	}

	l := list.New(items, reportDelegate{}, 80, 15)
	l.Title = "Import Report"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

type reportDelegate struct{}

func (d reportDelegate) Height() int                             { return 1 }
func (d reportDelegate) Spacing() int                            { return 0 }
func (d reportDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d reportDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(reportItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	var mark string

	switch item.kind {
	case reportImported:
		mark = successStyle("+")
	case reportDuplicate:
		mark = lipgloss.NewStyle().Faint(true).Render("=")
	case reportInvalid:
		mark = warnStyle("!")
	}

	fmt.Fprintf(w, "%s%s %s", cursor, mark, strings.TrimSpace(item.text))
}

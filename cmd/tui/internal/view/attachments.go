package view

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/docket/internal/document"
)

type attachmentState int

const (
	attachmentStateList attachmentState = iota
	attachmentStatePick
	attachmentStateConfirmDelete
)

// attachmentItem wraps an attachment to implement list.Item.
type attachmentItem struct {
	a *document.Attachment
}

func (i attachmentItem) Title() string {
	return fmt.Sprintf("%s  %s", i.a.UploadedAt.Format("02-01-2006 15:04"), i.a.Filename)
}

func (i attachmentItem) Description() string {
	return fmt.Sprintf("%s  %s", i.a.ContentType, i.a.Path)
}

func (i attachmentItem) FilterValue() string { return i.a.Filename }

type attachmentsClosedMsg struct{}

// AttachmentsModel manages the files linked to one document. It runs inside
// DocumentsModel and reports attachmentsClosedMsg when the user leaves it.
type AttachmentsModel struct {
	service *document.Service
	doc     *document.Document

	state      attachmentState
	list       list.Model
	filePicker filepicker.Model
	form       *huh.Form
	confirm    *bool
	deleting   *document.Attachment
	deleteAll  bool

	status string
}

func NewAttachmentsModel(svc *document.Service, doc *document.Document) AttachmentsModel {
	l := list.New([]list.Item{}, attachmentDelegate{}, 80, 16)
	l.Title = fmt.Sprintf("Attachments of %s (%s)", doc.Name, doc.Number)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.Height = 15

	return AttachmentsModel{
		service:    svc,
		doc:        doc,
		list:       l,
		filePicker: fp,
		confirm:    new(bool),
	}
}

func (m AttachmentsModel) ShortHelp() string {
	switch m.state {
	case attachmentStatePick:
		return "Esc: cancel | Enter: attach file"
	case attachmentStateConfirmDelete:
		return "Confirm deletion | Esc: cancel"
	}

	return "Esc: back to documents | a: attach file | o: open | x: delete | X: delete all"
}

func (m AttachmentsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m AttachmentsModel) Update(msg tea.Msg) (AttachmentsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loadAttachmentsMsg:
		if msg.err != nil {
			m.status = errorStyle(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}

		items := make([]list.Item, len(msg.attachments))
		for i, a := range msg.attachments {
			items[i] = attachmentItem{a: a}
		}

		m.list.SetItems(items)

		return m, nil

	case attachmentSavedMsg:
		m.state = attachmentStateList
		m.form = nil

		if msg.err != nil {
			m.status = errorStyle(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}

		m.status = successStyle(msg.status)

		return m, m.loadCmd()

	case attachmentOpenedMsg:
		if msg.err != nil {
			m.status = errorStyle(fmt.Sprintf("Could not open file: %v", msg.err))
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
	}

	switch m.state {
	case attachmentStateList:
		return m.updateList(msg)
	case attachmentStatePick:
		return m.updatePick(msg)
	case attachmentStateConfirmDelete:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m AttachmentsModel) updateList(msg tea.Msg) (AttachmentsModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, func() tea.Msg { return attachmentsClosedMsg{} }
		case "a":
			m.state = attachmentStatePick
			m.status = ""

			return m, m.filePicker.Init()
		case "o":
			selected, ok := m.list.SelectedItem().(attachmentItem)
			if !ok {
				return m, nil
			}

			m.status = ""

			return m, openCmd(selected.a.Path)
		case "x":
			selected, ok := m.list.SelectedItem().(attachmentItem)
			if !ok {
				return m, nil
			}

			m.deleting = selected.a
			m.deleteAll = false

			return m.enterConfirm(fmt.Sprintf("Delete %s?", selected.a.Filename), "The stored copy is removed as well.")
		case "X":
			if len(m.list.Items()) == 0 {
				return m, nil
			}

			m.deleting = nil
			m.deleteAll = true

			return m.enterConfirm(
				fmt.Sprintf("Delete all %d attachment(s) of %s?", len(m.list.Items()), m.doc.Name),
				"The stored copies are removed as well. The document is kept.",
			)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m AttachmentsModel) enterConfirm(title, description string) (AttachmentsModel, tea.Cmd) {
	*m.confirm = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Delete").
				Negative("Cancel").
				Value(m.confirm),
		),
	).WithWidth(45).WithShowHelp(false)
	m.state = attachmentStateConfirmDelete

	return m, m.form.Init()
}

func (m AttachmentsModel) updatePick(msg tea.Msg) (AttachmentsModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = attachmentStateList
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.status = fmt.Sprintf("Attaching %s...", path)
		return m, m.attachCmd(path)
	}

	return m, cmd
}

func (m AttachmentsModel) updateConfirm(msg tea.Msg) (AttachmentsModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = attachmentStateList
		m.form = nil

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
		m.state = attachmentStateList
		m.form = nil

		return m, nil
	}

	if m.deleteAll {
		return m, m.deleteAllCmd()
	}

	return m, m.deleteCmd(m.deleting)
}

func (m AttachmentsModel) View() string {
	var content string

	switch m.state {
	case attachmentStatePick:
		content = fmt.Sprintf("Select a file to attach to %s:\n\n%s", m.doc.Name, m.filePicker.View())
	case attachmentStateConfirmDelete:
		title := "Delete Attachment"
		if m.deleteAll {
			title = "Delete All Attachments"
		}

		content = lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), panel(title, m.form.View()))
	default:
		content = m.list.View()
	}

	if m.status != "" {
		content = m.status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type loadAttachmentsMsg struct {
	attachments []*document.Attachment
	err         error
}

type attachmentSavedMsg struct {
	status string
	err    error
}

type attachmentOpenedMsg struct {
	err error
}

func (m AttachmentsModel) loadCmd() tea.Cmd {
	id := m.doc.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		as, err := m.service.Attachments(ctx, id)

		return loadAttachmentsMsg{attachments: as, err: err}
	}
}

func (m AttachmentsModel) attachCmd(path string) tea.Cmd {
	id := m.doc.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		a, err := m.service.Attach(ctx, id, path)
		if err != nil {
			return attachmentSavedMsg{err: err}
		}

		return attachmentSavedMsg{status: fmt.Sprintf("Attached %s.", a.Filename)}
	}
}

func (m AttachmentsModel) deleteCmd(a *document.Attachment) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.service.DeleteAttachment(ctx, a.ID); err != nil {
			return attachmentSavedMsg{err: err}
		}

		return attachmentSavedMsg{status: fmt.Sprintf("Deleted %s.", a.Filename)}
	}
}

func (m AttachmentsModel) deleteAllCmd() tea.Cmd {
	id := m.doc.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		n, err := m.service.DeleteAttachments(ctx, id)
		if err != nil {
			return attachmentSavedMsg{err: err}
		}

		return attachmentSavedMsg{status: fmt.Sprintf("Deleted %d attachment(s).", n)}
	}
}

// openCmd hands path to the desktop's default application for its type.
func openCmd(path string) tea.Cmd {
	return tea.ExecProcess(openerCommand(runtime.GOOS, path), func(err error) tea.Msg {
		return attachmentOpenedMsg{err: err}
	})
}

func openerCommand(goos, path string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", path)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		return exec.Command("xdg-open", path)
	}
}

// attachmentDelegate renders items in the list.
type attachmentDelegate struct{}

func (d attachmentDelegate) Height() int                             { return 2 }
func (d attachmentDelegate) Spacing() int                            { return 0 }
func (d attachmentDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d attachmentDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(attachmentItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(i.Description()))
}

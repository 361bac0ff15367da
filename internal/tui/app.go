package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/waabox/repodeck/internal/domain"
	"github.com/waabox/repodeck/internal/workflow"
)

// RepositoryStore is the list the dashboard renders.
type RepositoryStore interface {
	Refresh(ctx context.Context) error
	Repositories() []domain.Repository
}

// Importer runs the import form submission.
type Importer interface {
	Submit(ctx context.Context, owner, name string) workflow.Outcome
	Reset()
}

// RepositoriesLoadedMsg is sent when the list has been refreshed from the backend.
// It is exported so that tests can inject it directly into AppModel.Update.
type RepositoriesLoadedMsg struct {
	Repositories []domain.Repository
	Err          error
}

// ImportFinishedMsg is sent when a form submission, including its follow-up
// refresh, has completed.
type ImportFinishedMsg struct {
	Outcome      workflow.Outcome
	Repositories []domain.Repository
}

// DeleteFinishedMsg is sent when a repository delete has completed.
type DeleteFinishedMsg struct {
	Repository domain.Repository
	Message    string
	Err        error
}

// focusArea cycles owner → name → submit → table with tab.
type focusArea int

const (
	focusOwner focusArea = iota
	focusName
	focusSubmit
	focusTable
	focusAreas
)

// AppModel is the root Bubbletea model for repodeck.
type AppModel struct {
	ctx     context.Context
	repos   RepositoryStore
	imports Importer
	remover domain.RepositoryRemover

	// Form
	inputs  [2]textinput.Model
	focus   focusArea
	status  domain.Status
	spinner spinner.Model
	// Table
	list  RepoListModel
	stats domain.Stats
	// General state
	loading       bool
	refreshErr    error
	notice        string
	noticeErr     bool
	confirmAction string
	width         int
	height        int
}

// NewAppModel creates the root application model. remover may be nil, which
// disables deleting from the table.
func NewAppModel(ctx context.Context, repos RepositoryStore, imports Importer, remover domain.RepositoryRemover, limit int) AppModel {
	var inputs [2]textinput.Model
	for i := range inputs {
		t := textinput.New()
		t.CharLimit = 100
		t.Cursor.Style = focusedStyle
		switch i {
		case 0:
			t.Placeholder = "e.g. octocat"
			t.Focus()
			t.PromptStyle = focusedStyle
			t.TextStyle = focusedStyle
		case 1:
			t.Placeholder = "e.g. hello-world"
		}
		inputs[i] = t
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return AppModel{
		ctx:     ctx,
		repos:   repos,
		imports: imports,
		remover: remover,
		inputs:  inputs,
		spinner: s,
		status:  domain.Idle(),
		list:    NewRepoListModel(nil, limit),
		loading: true,
	}
}

// WithTarget returns a model whose form is prefilled with req.
func (m AppModel) WithTarget(req domain.ImportRequest) AppModel {
	m.inputs[0].SetValue(req.Owner)
	m.inputs[1].SetValue(req.Name)
	return m
}

// Init triggers the initial list load.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.loadRepositories())
}

func (m AppModel) loadRepositories() tea.Cmd {
	return func() tea.Msg {
		err := m.repos.Refresh(m.ctx)
		return RepositoriesLoadedMsg{Repositories: m.repos.Repositories(), Err: err}
	}
}

func (m AppModel) importRepository(owner, name string) tea.Cmd {
	return func() tea.Msg {
		outcome := m.imports.Submit(m.ctx, owner, name)
		return ImportFinishedMsg{Outcome: outcome, Repositories: m.repos.Repositories()}
	}
}

func (m AppModel) deleteRepository(repo domain.Repository) tea.Cmd {
	return func() tea.Msg {
		message, err := m.remover.DeleteRepository(m.ctx, repo.ID)
		return DeleteFinishedMsg{Repository: repo, Message: message, Err: err}
	}
}

// Update handles all incoming messages and key events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		if !m.loading && !m.status.IsLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case RepositoriesLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			// The store keeps the last good list; only flag it as stale.
			m.refreshErr = msg.Err
			return m, nil
		}
		m.refreshErr = nil
		m.setRepositories(msg.Repositories)

	case ImportFinishedMsg:
		out := msg.Outcome
		m.status = out.Status
		if out.ClearForm {
			for i := range m.inputs {
				m.inputs[i].Reset()
			}
		}
		if out.Err != nil {
			return m, nil
		}
		if out.RefreshErr != nil {
			m.refreshErr = out.RefreshErr
			return m, nil
		}
		m.refreshErr = nil
		m.setRepositories(msg.Repositories)

	case DeleteFinishedMsg:
		if msg.Err != nil {
			m.notice = fmt.Sprintf("Could not delete %s: %v", msg.Repository.Name, msg.Err)
			m.noticeErr = true
			return m, nil
		}
		m.notice = msg.Message
		if m.notice == "" {
			m.notice = fmt.Sprintf("Deleted %s", msg.Repository.Name)
		}
		m.noticeErr = false
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadRepositories())

	case tea.KeyMsg:
		if m.confirmAction != "" {
			switch msg.String() {
			case "y":
				m.confirmAction = ""
				selected := m.list.Selected()
				if selected.ID == 0 {
					return m, nil
				}
				return m, m.deleteRepository(selected)
			case "ctrl+c":
				return m, tea.Quit
			default:
				m.confirmAction = ""
				return m, nil
			}
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+r":
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.loadRepositories())
		case "tab":
			cmd := m.setFocus((m.focus + 1) % focusAreas)
			return m, cmd
		case "shift+tab":
			cmd := m.setFocus((m.focus + focusAreas - 1) % focusAreas)
			return m, cmd
		}
		switch m.focus {
		case focusTable:
			return m.updateTable(msg)
		case focusSubmit:
			switch msg.String() {
			case "enter":
				return m.submit()
			case "q":
				return m, tea.Quit
			}
			return m, nil
		default:
			if msg.String() == "enter" {
				return m.submit()
			}
			return m.updateInputs(msg)
		}
	}
	return m, nil
}

func (m AppModel) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "down", "j":
		m.list = m.list.MoveDown()
	case "up", "k":
		m.list = m.list.MoveUp()
	case "d":
		if m.remover != nil && len(m.list.Repositories()) > 0 {
			m.confirmAction = "delete"
		}
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

// updateInputs forwards key presses to the focused field. Editing the form
// after a finished submission clears the result.
func (m AppModel) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.inputs[0].Value() + "\x00" + m.inputs[1].Value()
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	after := m.inputs[0].Value() + "\x00" + m.inputs[1].Value()
	if before != after && m.status.IsTerminal() {
		m.status = domain.Idle()
		m.imports.Reset()
	}
	return m, tea.Batch(cmds...)
}

// submit validates the form locally and dispatches the import. It does
// nothing while a previous submission is in flight.
func (m AppModel) submit() (tea.Model, tea.Cmd) {
	if m.status.IsLoading() {
		return m, nil
	}
	owner, name := m.inputs[0].Value(), m.inputs[1].Value()
	if _, err := domain.NewImportRequest(owner, name); err != nil {
		m.status = domain.Failure(err.Error())
		return m, nil
	}
	m.status = domain.Loading()
	return m, tea.Batch(m.spinner.Tick, m.importRepository(owner, name))
}

func (m *AppModel) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	var cmd tea.Cmd
	for i := range m.inputs {
		if focusArea(i) == f {
			cmd = m.inputs[i].Focus()
			m.inputs[i].PromptStyle = focusedStyle
			m.inputs[i].TextStyle = focusedStyle
			continue
		}
		m.inputs[i].Blur()
		m.inputs[i].PromptStyle = noStyle
		m.inputs[i].TextStyle = noStyle
	}
	return cmd
}

func (m *AppModel) setRepositories(repos []domain.Repository) {
	m.list = m.list.UpdateRepositories(repos)
	m.stats = domain.ComputeStats(repos)
}

// View renders the full TUI.
func (m AppModel) View() string {
	separator := "────────────────────────────────────────────────────────────\n"

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(" repodeck") + blurredStyle.Render("  repository tracking dashboard") + "\n")
	sb.WriteString(separator)
	sb.WriteString(m.renderStats() + "\n")
	sb.WriteString(separator)
	sb.WriteString(m.renderForm())
	sb.WriteString(separator)
	if m.refreshErr != nil {
		sb.WriteString(warningStyle.Render(fmt.Sprintf(" ⚠ Showing last loaded list, refresh failed: %v", m.refreshErr)) + "\n")
	}
	if m.notice != "" {
		style := successStyle
		if m.noticeErr {
			style = errorStyle
		}
		sb.WriteString(style.Render(" "+m.notice) + "\n")
	}
	sb.WriteString(titleStyle.Render(" Recent Repositories") + "\n")
	if m.loading && len(m.list.Repositories()) == 0 {
		sb.WriteString(" " + m.spinner.View() + " Loading repositories...\n")
	} else {
		sb.WriteString(m.list.View(m.focus == focusTable))
	}
	sb.WriteString(separator)
	sb.WriteString(m.renderFooter())
	return sb.String()
}

func (m AppModel) renderStats() string {
	box := func(label string, value int) string {
		return statStyle.Render(fmt.Sprintf("%s\n%s", blurredStyle.Render(label), titleStyle.Render(humanize.Comma(int64(value)))))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		box("Repositories", m.stats.Count),
		box("Total Stars", m.stats.TotalStars),
		box("Languages", m.stats.Languages),
	)
}

func (m AppModel) renderForm() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(" Import GitHub Repository") + "\n")
	sb.WriteString(fmt.Sprintf(" %-12s %s\n", blurredStyle.Render("Owner:"), m.inputs[0].View()))
	sb.WriteString(fmt.Sprintf(" %-12s %s\n", blurredStyle.Render("Repository:"), m.inputs[1].View()))

	button := blurredButton
	switch {
	case m.status.IsLoading():
		button = disabledButton
	case m.focus == focusSubmit:
		button = focusedButton
	}
	sb.WriteString("\n " + button + "\n")

	switch m.status.Kind {
	case domain.StatusLoading:
		sb.WriteString(" " + m.spinner.View() + " " + m.status.Message + "\n")
	case domain.StatusSuccess:
		sb.WriteString(successStyle.Render(" ✓ "+m.status.Message) + "\n")
	case domain.StatusError:
		sb.WriteString(errorStyle.Render(" ✗ "+m.status.Message) + "\n")
	}
	return sb.String()
}

func (m AppModel) renderFooter() string {
	if m.confirmAction == "delete" {
		return fmt.Sprintf(" Delete %s? [y/N] \n", m.list.Selected().Name)
	}
	if m.focus == focusTable {
		return " ↑/↓: navigate   d: delete   tab: form   ctrl+r: refresh   q: quit\n"
	}
	return " tab/shift+tab: navigate   enter: import   ctrl+r: refresh   ctrl+c: quit\n"
}

// Run starts the Bubbletea program and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, m AppModel) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/waabox/repodeck/internal/domain"
)

const descriptionWidth = 50

// RepoListModel is an immutable Bubbletea-compatible model for the repository table.
// It shows at most limit rows, in backend order.
type RepoListModel struct {
	repos  []domain.Repository
	limit  int
	cursor int
}

// NewRepoListModel creates a repository table over the first limit repositories.
func NewRepoListModel(repos []domain.Repository, limit int) RepoListModel {
	if limit > 0 && len(repos) > limit {
		repos = repos[:limit]
	}
	return RepoListModel{repos: repos, limit: limit}
}

// UpdateRepositories returns a new model with fresh rows, keeping the cursor
// on the same repository ID when it is still listed.
func (m RepoListModel) UpdateRepositories(repos []domain.Repository) RepoListModel {
	selected := m.Selected().ID
	next := NewRepoListModel(repos, m.limit)
	for i, r := range next.repos {
		if r.ID == selected {
			next.cursor = i
			break
		}
	}
	return next
}

// MoveDown returns a new model with the cursor moved down by one.
func (m RepoListModel) MoveDown() RepoListModel {
	if m.cursor < len(m.repos)-1 {
		m.cursor++
	}
	return m
}

// MoveUp returns a new model with the cursor moved up by one.
func (m RepoListModel) MoveUp() RepoListModel {
	if m.cursor > 0 {
		m.cursor--
	}
	return m
}

// Repositories returns the displayed rows.
func (m RepoListModel) Repositories() []domain.Repository {
	return m.repos
}

// SelectedIndex returns the current cursor position.
func (m RepoListModel) SelectedIndex() int {
	return m.cursor
}

// Selected returns the highlighted repository, or the zero value when the table is empty.
func (m RepoListModel) Selected() domain.Repository {
	if len(m.repos) == 0 {
		return domain.Repository{}
	}
	return m.repos[m.cursor]
}

// View renders the table. The cursor is only drawn when focused.
func (m RepoListModel) View(focused bool) string {
	if len(m.repos) == 0 {
		return " No repositories imported yet.\n"
	}
	var sb strings.Builder
	sb.WriteString(headerRowStyle.Render(fmt.Sprintf("   %-28s %-12s %10s  %s", "Repository", "Language", "Stars", "Added")))
	sb.WriteString("\n")
	for i, r := range m.repos {
		prefix := "  "
		if focused && i == m.cursor {
			prefix = "> "
		}
		sb.WriteString(fmt.Sprintf(" %s%-28s %-12s %10s  %s\n",
			prefix,
			truncate(r.Name, 28),
			truncate(FormatLanguage(r.Language), 12),
			FormatStars(r.Stars),
			FormatAdded(r.CreatedAt),
		))
		if d := FormatDescription(r.Description); d != "" {
			sb.WriteString("   " + descriptionStyle.Render(d) + "\n")
		}
	}
	return sb.String()
}

// FormatDescription cuts a description to its first 50 characters.
func FormatDescription(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= descriptionWidth {
		return s
	}
	return string(r[:descriptionWidth]) + "..."
}

// FormatLanguage returns the language, or "N/A" when it is unknown.
func FormatLanguage(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// FormatStars renders a star count with thousands separators.
func FormatStars(n int) string {
	return "⭐ " + humanize.Comma(int64(n))
}

// FormatAdded renders the date a repository was imported.
func FormatAdded(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	return t.Local().Format("2006-01-02")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

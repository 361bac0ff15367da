package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/waabox/repodeck/internal/domain"
	"github.com/waabox/repodeck/internal/tui"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	labelColor   = color.New(color.FgCyan, color.Bold)
)

func printSuccess(w io.Writer, msg string) {
	successColor.Fprintln(w, "✓ "+msg)
}

func printError(w io.Writer, err error) {
	errorColor.Fprintln(w, "✗ "+err.Error())
}

func printWarning(w io.Writer, msg string) {
	warnColor.Fprintln(w, "⚠ "+msg)
}

func printStats(w io.Writer, s domain.Stats) {
	fmt.Fprintf(w, "%s %s   %s %s   %s %s\n",
		labelColor.Sprint("Repositories:"), humanize.Comma(int64(s.Count)),
		labelColor.Sprint("Total stars:"), humanize.Comma(int64(s.TotalStars)),
		labelColor.Sprint("Languages:"), humanize.Comma(int64(s.Languages)),
	)
}

func printRepositories(w io.Writer, repos []domain.Repository) {
	if len(repos) == 0 {
		fmt.Fprintln(w, "No repositories imported yet.")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Repository", "Description", "Language", "Stars", "Added")
	for _, r := range repos {
		t.Row(
			strconv.FormatInt(r.ID, 10),
			r.Name,
			tui.FormatDescription(r.Description),
			tui.FormatLanguage(r.Language),
			tui.FormatStars(r.Stars),
			tui.FormatAdded(r.CreatedAt),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func printRepository(w io.Writer, r domain.Repository) {
	field := func(label, value string) {
		fmt.Fprintf(w, "%s %s\n", labelColor.Sprintf("%-12s", label), value)
	}
	field("Name:", r.Name)
	field("Description:", r.Description)
	field("Language:", tui.FormatLanguage(r.Language))
	field("Stars:", tui.FormatStars(r.Stars))
	if !r.CreatedAt.IsZero() {
		field("Created:", tui.FormatAdded(r.CreatedAt))
	}
}

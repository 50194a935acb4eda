package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2a3850"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)

	statusColors = map[string]lipgloss.Color{
		"public":     "#8BC34A",
		"registered": "#2196F3",
		"authorized": "#FFC107",
		"restricted": "#e53935",
		"archived":   "#9E9E9E",
	}
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func statusCell(s string) string {
	if c, ok := statusColors[s]; ok {
		return lipgloss.NewStyle().Foreground(c).Render(s)
	}
	return s
}

// RenderRecords prints the filtered record view.
func RenderRecords(w io.Writer, s *State) {
	rows := s.FilteredRecords()
	if len(rows) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No records match the current filters."))
		return
	}
	t := newTable("ID", "TITLE", "DIVISION", "YEAR", "STATUS", "PROJECT")
	for _, r := range rows {
		t.Row(r.ID, r.Title, r.Division, strconv.Itoa(r.Year), statusCell(r.Status), strings.Join(r.Project, ", "))
	}
	fmt.Fprintln(w, t.Render())
	renderSource(w, s.RecordsSource, len(rows), len(s.Records))
}

// RenderProjects prints the filtered project view.
func RenderProjects(w io.Writer, s *State) {
	rows := s.FilteredProjects()
	if len(rows) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No projects match the current filters."))
		return
	}
	t := newTable("ID", "NAME", "STATUS", "YEARS")
	for _, p := range rows {
		t.Row(p.ID, p.Name, statusCell(p.Status), years(p))
	}
	fmt.Fprintln(w, t.Render())
	renderSource(w, s.ProjectsSource, len(rows), len(s.Projects))
}

// RenderRecord prints every field of one record.
func RenderRecord(w io.Writer, r domain.Record) {
	f := RecordForm(r)
	for _, name := range RecordFields {
		if v := f[name]; v != "" {
			fmt.Fprintf(w, "%s %s\n", headerStyle.Render(fmt.Sprintf("%-15s", name)), v)
		}
	}
}

// RenderNotices prints the notices accumulated during this invocation.
func RenderNotices(w io.Writer, s *State) {
	for _, n := range s.Notices {
		if n.Error {
			fmt.Fprintln(w, errorStyle.Render(n.Text))
			continue
		}
		fmt.Fprintln(w, successStyle.Render(n.Text))
	}
	if s.ModalError != "" {
		fmt.Fprintln(w, errorStyle.Render(s.ModalError))
	}
}

func renderSource(w io.Writer, src Source, shown, total int) {
	line := fmt.Sprintf("%d of %d shown", shown, total)
	if src == SourceLocal {
		line += " (local data)"
	}
	fmt.Fprintln(w, mutedStyle.Render(line))
}

func years(p domain.Project) string {
	switch {
	case p.StartYear == nil && p.EndYear == nil:
		return ""
	case p.EndYear == nil:
		return fmt.Sprintf("%d-", *p.StartYear)
	case p.StartYear == nil:
		return fmt.Sprintf("-%d", *p.EndYear)
	}
	return fmt.Sprintf("%d-%d", *p.StartYear, *p.EndYear)
}

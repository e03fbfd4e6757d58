package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dtroode/certdash/internal/model"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00C853"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	highStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5252")).Bold(true)
	mediumStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB300"))
)

const rule = "──────────────────────────────────────────────────"

func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w, headerStyle.Render(title))
	fmt.Fprintln(w, rule)
}

func printCategories(w io.Writer, categories []model.Category) {
	for _, c := range categories {
		fmt.Fprintln(w, headerStyle.Render(c.Name))
		for _, sk := range c.Skills {
			fmt.Fprintf(w, "  %s %-4d %s\n", skillMark(sk), sk.ID, sk.Name)
		}
		fmt.Fprintln(w)
	}
}

func skillMark(sk model.Skill) string {
	if sk.Rank == nil {
		return mutedStyle.Render("[ ]")
	}
	return completedStyle.Render(fmt.Sprintf("[%d]", *sk.Rank))
}

func printProgress(w io.Writer, p model.ProgressSnapshot) {
	printHeader(w, "PROGRESS")
	fmt.Fprintf(w, "  Overall:               %s\n", completedStyle.Render(fmt.Sprintf("%d%%", *p.OverallProgress)))
	fmt.Fprintf(w, "  Completed skills:      %d/%d\n", *p.CompletedSkills, model.TotalSkills)
	fmt.Fprintf(w, "  Documented experience: %d/%d\n", *p.DocumentedExperiences, model.TotalExperiences)
	fmt.Fprintf(w, "  Supervisor approvals:  %d/%d\n", *p.SupervisorApprovals, model.TotalApprovals)
	fmt.Fprintf(w, "  Updated:               %s\n", p.LastUpdated.Format("2006-01-02 15:04"))
}

func printSearchResults(w io.Writer, query string, results []model.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintf(w, "No results for %q.\n", query)
		return
	}
	printHeader(w, fmt.Sprintf("RESULTS (%d)", len(results)))
	for _, r := range results {
		fmt.Fprintf(w, "  %-5s %s\n", strings.ToUpper(string(r.Type)), r.Title)
		fmt.Fprintf(w, "        %s\n", mutedStyle.Render(r.Description))
		fmt.Fprintf(w, "        %s\n", r.Link)
	}
}

func printSAOs(w io.Writer, saos []model.SAO) {
	if len(saos) == 0 {
		fmt.Fprintln(w, "No SAOs yet.")
		return
	}
	printHeader(w, fmt.Sprintf("SAOS (%d)", len(saos)))
	for _, s := range saos {
		fmt.Fprintf(w, "  %s  %s\n", mutedStyle.Render(s.ID.String()), headerStyle.Render(s.Title))
		for _, sk := range s.Skills {
			fmt.Fprintf(w, "      %s %s\n", completedStyle.Render("•"), sk.Name)
		}
	}
}

func printDocuments(w io.Writer, docs []model.Document) {
	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents yet.")
		return
	}
	printHeader(w, fmt.Sprintf("DOCUMENTS (%d)", len(docs)))
	for _, d := range docs {
		file := mutedStyle.Render("no file")
		if d.FileURL != nil {
			file = *d.FileURL
		}
		fmt.Fprintf(w, "  %s  %-10s %s\n", mutedStyle.Render(d.ID.String()), d.Status, d.Title)
		fmt.Fprintf(w, "      %s\n", file)
	}
}

func printDeadlines(w io.Writer, deadlines []model.Deadline) {
	if len(deadlines) == 0 {
		fmt.Fprintln(w, "No deadlines.")
		return
	}
	printHeader(w, fmt.Sprintf("DEADLINES (%d)", len(deadlines)))
	for _, d := range deadlines {
		fmt.Fprintf(w, "  %s  %s  %-8s %-10s %s\n",
			mutedStyle.Render(d.ID.String()),
			d.Date.Format("2006-01-02"),
			priorityLabel(d.Priority),
			d.Type,
			d.Title)
	}
}

func priorityLabel(p model.DeadlinePriority) string {
	switch p {
	case model.PriorityHigh:
		return highStyle.Render(string(p))
	case model.PriorityMedium:
		return mediumStyle.Render(string(p))
	default:
		return string(p)
	}
}

func printLocalDocuments(w io.Writer, docs []model.LocalDocument) {
	if len(docs) == 0 {
		fmt.Fprintln(w, "No notes on this device.")
		return
	}
	printHeader(w, fmt.Sprintf("NOTES (%d)", len(docs)))
	for _, d := range docs {
		fmt.Fprintf(w, "  %s  %-8s %-12s %s\n", mutedStyle.Render(d.ID), d.Size, d.Category, d.Name)
	}
}

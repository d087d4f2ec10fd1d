package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
	"github.com/ultrapreps/visionqa/pkg/domain/report"
	"github.com/ultrapreps/visionqa/pkg/domain/review"
)

var (
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle = lipgloss.NewStyle().Bold(true)
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func verdict(r asset.ValidationResult) string {
	switch {
	case r.RequiresRegeneration:
		return failStyle.Render("REGENERATE")
	case r.Passed:
		return passStyle.Render("PASS")
	default:
		return failStyle.Render("FAIL")
	}
}

func renderResult(w io.Writer, image string, r asset.ValidationResult) {
	source := string(r.Source)
	if r.Provider != "" {
		source += ", " + r.Provider
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", verdict(r), titleStyle.Render(image))
	_, _ = fmt.Fprintf(w, "  Score: %.2f %s\n", r.Score, mutedStyle.Render("("+source+")"))

	if len(r.Issues) > 0 {
		_, _ = fmt.Fprintln(w, "  Issues:")
		for _, issue := range r.Issues {
			_, _ = fmt.Fprintf(w, "    - %s\n", warnStyle.Render(issue))
		}
	}
	if len(r.Suggestions) > 0 {
		_, _ = fmt.Fprintln(w, "  Suggestions:")
		for _, s := range r.Suggestions {
			_, _ = fmt.Fprintf(w, "    - %s\n", s)
		}
	}
	if r.Findings != nil && len(r.Findings.Strengths) > 0 {
		_, _ = fmt.Fprintln(w, "  Strengths:")
		for _, s := range r.Findings.Strengths {
			_, _ = fmt.Fprintf(w, "    - %s\n", mutedStyle.Render(s))
		}
	}
}

func staticTable(columns []table.Column, rows []table.Row) string {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = lipgloss.NewStyle() // Disable selection style for static view
	t.SetStyles(s)
	return t.View()
}

func renderBatch(w io.Writer, rep *report.BatchReport) {
	columns := []table.Column{
		{Title: "Image", Width: 36},
		{Title: "Type", Width: 9},
		{Title: "Score", Width: 6},
		{Title: "Result", Width: 10},
		{Title: "Issues", Width: 6},
	}
	rows := make([]table.Row, 0, len(rep.Items))
	for _, item := range rep.Items {
		result := "PASS"
		switch {
		case item.RequiresRegeneration:
			result = "REGENERATE"
		case !item.Passed:
			result = "FAIL"
		}
		rows = append(rows, table.Row{
			shorten(item.Image, 36),
			string(item.AssetType),
			fmt.Sprintf("%.2f", item.Score),
			result,
			fmt.Sprintf("%d", len(item.Issues)),
		})
	}
	_, _ = fmt.Fprintln(w, staticTable(columns, rows))

	summary := fmt.Sprintf("Passed %d/%d (%.0f%%)", rep.Passed, rep.Total, rep.PassRate()*100)
	style := passStyle
	if rep.Passed < rep.Total {
		style = warnStyle
	}
	_, _ = fmt.Fprintf(w, "%s  %s\n", style.Render(summary), mutedStyle.Render("run "+rep.RunID))
	if regen := rep.Regenerate(); len(regen) > 0 {
		_, _ = fmt.Fprintf(w, "%d asset(s) need regeneration.\n", len(regen))
	}
}

func renderReviews(w io.Writer, records []*review.Record) {
	columns := []table.Column{
		{Title: "Asset", Width: 36},
		{Title: "State", Width: 18},
		{Title: "Attempts", Width: 8},
		{Title: "Score", Width: 6},
		{Title: "Updated", Width: 16},
	}
	rows := make([]table.Row, 0, len(records))
	for _, rec := range records {
		score := "-"
		if rec.Last != nil {
			score = fmt.Sprintf("%.2f", rec.Last.Score)
		}
		rows = append(rows, table.Row{
			shorten(rec.AssetID, 36),
			rec.State,
			fmt.Sprintf("%d", rec.Attempts),
			score,
			rec.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	_, _ = fmt.Fprintln(w, staticTable(columns, rows))
}

// shorten keeps the tail of long paths, where the file name is.
func shorten(s string, width int) string {
	if len(s) <= width {
		return s
	}
	base := filepath.Base(s)
	if len(base)+4 <= width {
		return ".../" + base
	}
	return "..." + s[len(s)-width+3:]
}

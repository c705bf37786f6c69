package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/gitseeker/pkg/errors"
	"github.com/matzehuels/gitseeker/pkg/project"
)

// Output formats accepted by --output.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

const maxDescriptionWidth = 60

func parseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", formatTable:
		return formatTable, nil
	case formatJSON, formatYAML:
		return f, nil
	case "yml":
		return formatYAML, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unknown output format %q (use table, json or yaml)", s)
}

// writeProjects renders projects to w in the given format.
func writeProjects(w io.Writer, projects []project.Project, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(projects)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(projects); err != nil {
			return err
		}
		return enc.Close()
	}
	_, err := fmt.Fprintln(w, projectTable(projects))
	return err
}

func projectTable(projects []project.Project) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(projects))
	for i, p := range projects {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			p.Source.Label(),
			p.FullName,
			formatCount(p.Stars),
			orDash(p.Language),
			truncate(p.Description, maxDescriptionWidth),
			formatRelativeTime(p.UpdatedAt),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Source", "Project", "Stars", "Lang", "Description", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 2:
				return StyleHighlight
			case col == 3:
				return StyleNumber
			case col == 0 || col == 6:
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// formatCount abbreviates large counts: 950, 1.2k, 3.4M.
func formatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1_000_000)) + "M"
	case n >= 1_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1_000)) + "k"
	}
	return strconv.FormatInt(n, 10)
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

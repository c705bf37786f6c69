package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/gitseeker/pkg/project"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// projectListModel - Interactive project selection
// =============================================================================

// projectListModel is the bubbletea model for picking a search result.
// Typing "/" filters the list by name, description and topics.
type projectListModel struct {
	all      []project.Project
	visible  []project.Project
	filter   textinput.Model
	filterOn bool
	cursor   int
	offset   int
	height   int

	Selected *project.Project
}

func newProjectListModel(projects []project.Project) projectListModel {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	return projectListModel{
		all:     projects,
		visible: projects,
		filter:  ti,
		height:  15,
	}
}

func (m projectListModel) Init() tea.Cmd {
	return nil
}

func (m projectListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filterOn {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "/":
			m.filterOn = true
			cmd := m.filter.Focus()
			return m, cmd
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "enter":
			if len(m.visible) == 0 {
				return m, nil
			}
			p := m.visible[m.cursor]
			m.Selected = &p
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m projectListModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.filter.SetValue("")
		m.filter.Blur()
		m.filterOn = false
		m.applyFilter()
		return m, nil
	case "enter":
		m.filter.Blur()
		m.filterOn = false
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *projectListModel) move(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.visible) {
		return
	}
	m.cursor = next
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m *projectListModel) applyFilter() {
	m.visible = filterProjects(m.all, m.filter.Value())
	m.cursor, m.offset = 0, 0
}

// filterProjects keeps projects whose name, description or topics contain
// every whitespace-separated term, case-insensitively.
func filterProjects(projects []project.Project, query string) []project.Project {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return projects
	}
	var out []project.Project
	for _, p := range projects {
		hay := strings.ToLower(p.FullName + " " + p.Description + " " + strings.Join(p.Topics, " "))
		match := true
		for _, t := range terms {
			if !strings.Contains(hay, t) {
				match = false
				break
			}
		}
		if match {
			out = append(out, p)
		}
	}
	return out
}

func (m projectListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select a project to analyze"))
	b.WriteString("\n")
	if m.filterOn || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
	} else {
		b.WriteString(listDimStyle.Render("↑/↓ navigate  / filter  ⏎ analyze  q quit"))
	}
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(StyleWarning.Render("  no matches"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.offset + m.height
	if end > len(m.visible) {
		end = len(m.visible)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		p := m.visible[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			p.FullName,
			p.Source.Label(),
			formatCount(p.Stars),
			truncate(p.Description, 48),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Project", "Source", "Stars", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			isCurrent := m.offset+row == m.cursor

			base := lipgloss.NewStyle()
			switch {
			case isCurrent && col == 1:
				return base.Foreground(colorGreen).Bold(true)
			case isCurrent:
				return base.Bold(true)
			case col == 3:
				return StyleNumber
			case col == 2 || col == 4:
				return base.Foreground(colorDim)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.visible))))
	if len(m.visible) != len(m.all) {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d shown", len(m.visible), len(m.all))))
	}

	return b.String()
}

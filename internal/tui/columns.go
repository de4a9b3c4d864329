package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/sadopc/togglreport/internal/report"
	"github.com/sadopc/togglreport/internal/store"
)

// columnsModel toggles the stored column visibility.
type columnsModel struct {
	ctx    context.Context
	store  *store.Store
	width  int
	height int

	columns []report.Column
	vis     report.Visibility
	cursor  int
}

func newColumnsModel(ctx context.Context, s *store.Store) columnsModel {
	return columnsModel{
		ctx:     ctx,
		store:   s,
		columns: report.DefaultColumns(),
		vis:     report.DefaultVisibility(),
	}
}

func (c *columnsModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c columnsModel) refresh() tea.Cmd {
	s := c.store
	return func() tea.Msg {
		vis, err := s.Visibility()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load columns: %v", err), isError: true}
		}
		return columnsChangedMsg{vis: vis}
	}
}

func (c columnsModel) update(msg tea.Msg) (columnsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case columnsChangedMsg:
		c.vis = msg.vis
		return c, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if c.cursor > 0 {
				c.cursor--
			}
		case key.Matches(msg, keys.Down):
			if c.cursor < len(c.columns)-1 {
				c.cursor++
			}
		case key.Matches(msg, keys.Toggle):
			return c, c.toggle(c.columns[c.cursor].Key)
		case key.Matches(msg, keys.Reset):
			return c, c.reset()
		}
	}
	return c, nil
}

func (c columnsModel) toggle(k string) tea.Cmd {
	s, on := c.store, !c.vis[k]
	log := zerolog.Ctx(c.ctx)
	return func() tea.Msg {
		if err := s.SetColumn(k, on); err != nil {
			return statusMsg{text: fmt.Sprintf("Save column: %v", err), isError: true}
		}
		log.Debug().Str("column", k).Bool("visible", on).Msg("column toggled")
		vis, err := s.Visibility()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load columns: %v", err), isError: true}
		}
		return columnsChangedMsg{vis: vis}
	}
}

func (c columnsModel) reset() tea.Cmd {
	s := c.store
	return func() tea.Msg {
		if err := s.ResetVisibility(); err != nil {
			return statusMsg{text: fmt.Sprintf("Reset columns: %v", err), isError: true}
		}
		return columnsChangedMsg{vis: report.DefaultVisibility()}
	}
}

func (c columnsModel) view() string {
	w := c.width - 4

	rows := []string{titleStyle.Render("Columns"), ""}
	for i, col := range c.columns {
		cursor := "  "
		style := normalItemStyle
		if i == c.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		box := "[ ]"
		if c.vis[col.Key] {
			box = successStyle.Render("[x]")
		}
		label := lipgloss.NewStyle().Width(20).Render(col.Header)
		rows = append(rows, fmt.Sprintf("%s%s %s %s", cursor, box, style.Render(label), mutedStyle.Render(col.Key)))
	}

	rows = append(rows, "")
	if c.vis.Grouped() {
		rows = append(rows, subtitleStyle.Render("Beschreibung hidden: entries are grouped by client, project and task."))
	}
	rows = append(rows, mutedStyle.Render("space: toggle  R: defaults"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

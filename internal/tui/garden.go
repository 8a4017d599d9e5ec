package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/plantr/internal/care"
	"github.com/sadopc/plantr/internal/garden"
	"github.com/sadopc/plantr/internal/store"
)

// gardenModel lists every plant with its watering status and hosts the
// detail view for the selected one.
type gardenModel struct {
	store  *store.Store
	svc    *garden.Service
	width  int
	height int
	now    time.Time

	plants  []store.Plant
	loaded  bool
	loadErr error
	cursor  int

	// Delete asks for a second press.
	confirmDelete bool

	viewingDetail bool
	detail        detailModel
}

func newGardenModel(s *store.Store, svc *garden.Service) gardenModel {
	return gardenModel{
		store:  s,
		svc:    svc,
		now:    time.Now(),
		detail: newDetailModel(s, svc),
	}
}

func (g *gardenModel) setSize(w, h int) {
	g.width = w
	g.height = h
	g.detail.setSize(w, h)
}

func (g gardenModel) selected() (store.Plant, bool) {
	if g.cursor < 0 || g.cursor >= len(g.plants) {
		return store.Plant{}, false
	}
	return g.plants[g.cursor], true
}

func (g gardenModel) update(msg tea.Msg) (gardenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case plantsMsg:
		g.loaded = true
		g.loadErr = msg.err
		if msg.err == nil {
			g.plants = msg.plants
		}
		g.now = time.Now()
		g.cursor = clamp(g.cursor, 0, max(0, len(g.plants)-1))
		return g, nil

	case tickMsg:
		g.now = time.Time(msg)
		g.detail.now = g.now
		return g, nil

	case plantMsg, eventsMsg, careRecordedMsg:
		var cmd tea.Cmd
		g.detail, cmd = g.detail.update(msg)
		if g.viewingDetail && g.detail.gone {
			g.viewingDetail = false
		}
		return g, cmd

	case tea.KeyMsg:
		if g.viewingDetail {
			if key.Matches(msg, keys.Back) {
				g.viewingDetail = false
				g.detail.close()
				return g, nil
			}
			var cmd tea.Cmd
			g.detail, cmd = g.detail.update(msg)
			return g, cmd
		}
		return g.updateList(msg)
	}
	return g, nil
}

func (g gardenModel) updateList(msg tea.KeyMsg) (gardenModel, tea.Cmd) {
	if g.confirmDelete && !key.Matches(msg, keys.Delete) {
		g.confirmDelete = false
	}

	switch {
	case key.Matches(msg, keys.Up):
		if g.cursor > 0 {
			g.cursor--
		}
	case key.Matches(msg, keys.Down):
		if g.cursor < len(g.plants)-1 {
			g.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if p, ok := g.selected(); ok {
			g.viewingDetail = true
			var cmd tea.Cmd
			g.detail, cmd = g.detail.open(p)
			return g, cmd
		}
	case key.Matches(msg, keys.New):
		return g, func() tea.Msg { return switchViewMsg{view: viewAdd} }
	case key.Matches(msg, keys.Water), key.Matches(msg, keys.Fertilize), key.Matches(msg, keys.Repot):
		if p, ok := g.selected(); ok {
			return g, recordCmd(g.svc, p.ID, actionForKey(msg))
		}
	case key.Matches(msg, keys.Delete):
		p, ok := g.selected()
		if !ok {
			return g, nil
		}
		if !g.confirmDelete {
			g.confirmDelete = true
			return g, nil
		}
		g.confirmDelete = false
		return g, deleteCmd(g.svc, p)
	}
	return g, nil
}

func actionForKey(msg tea.KeyMsg) care.Action {
	switch {
	case key.Matches(msg, keys.Fertilize):
		return care.Fertilizing
	case key.Matches(msg, keys.Repot):
		return care.Repotting
	}
	return care.Watering
}

func recordCmd(svc *garden.Service, id int64, action care.Action) tea.Cmd {
	return func() tea.Msg {
		p, err := svc.Record(id, action)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Could not record %s: %v", action, err), isError: true}
		}
		return careRecordedMsg{plant: p, action: action}
	}
}

func deleteCmd(svc *garden.Service, p store.Plant) tea.Cmd {
	return func() tea.Msg {
		if err := svc.Delete(p.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return statusMsg{text: fmt.Sprintf("Could not delete %s: %v", p.Name, err), isError: true}
		}
		return statusMsg{text: "Deleted " + p.Name}
	}
}

func (g gardenModel) view() string {
	if g.width < 20 {
		return "Terminal too small"
	}
	if g.viewingDetail {
		return g.detail.view()
	}
	return g.renderList()
}

func (g gardenModel) renderList() string {
	w := g.width - 4
	title := titleStyle.Render("My plants")

	if !g.loaded {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", mutedStyle.Render("Loading...")))
	}
	if g.loadErr != nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", errorStyle.Render("Could not load plants: "+g.loadErr.Error())))
	}
	if len(g.plants) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("No plants yet. Press n to add one.")))
	}

	var rows []string
	rows = append(rows, title, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("    %-24s %-14s %s", "Name", "Location", "Watering")))

	for i, o := range garden.Overviews(g.now, g.plants) {
		cursor := "  "
		style := normalItemStyle
		if i == g.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		watering := "no schedule"
		if o.Status != care.StatusUnknown {
			watering = care.NextText(care.Watering, o.WaterInDays)
		}
		row := fmt.Sprintf("%s%s %s %s %s",
			cursor,
			statusDot(o.Status),
			style.Render(fmt.Sprintf("%-24s", truncate(o.Plant.Name, 24))),
			mutedStyle.Render(fmt.Sprintf("%-14s", truncate(o.Plant.Location, 14))),
			statusStyle(o.Status).Render(watering),
		)
		rows = append(rows, row)
	}

	rows = append(rows, "")
	if g.confirmDelete {
		if p, ok := g.selected(); ok {
			rows = append(rows, warningStyle.Render(fmt.Sprintf("  Press d again to delete %s", p.Name)))
		}
	} else {
		rows = append(rows, mutedStyle.Render("  enter: details  w/f/r: watered/fertilized/repotted  n: new  d: delete"))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

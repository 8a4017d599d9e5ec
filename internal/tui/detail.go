package tui

import (
	"context"
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

const recentEventLimit = 8

// detailModel shows one plant with a countdown per care action. It follows
// the plant through a live subscription while open.
type detailModel struct {
	store  *store.Store
	svc    *garden.Service
	width  int
	height int
	now    time.Time

	sub    int
	ch     <-chan store.Snapshot[*store.Plant]
	cancel context.CancelFunc

	plant  store.Plant
	events []store.CareEvent
	// gone is set once the plant was deleted underneath the view.
	gone bool
}

func newDetailModel(s *store.Store, svc *garden.Service) detailModel {
	return detailModel{store: s, svc: svc, now: time.Now()}
}

func (d *detailModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d detailModel) open(p store.Plant) (detailModel, tea.Cmd) {
	d.close()
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.ch = d.store.WatchPlant(ctx, p.ID)
	d.plant = p
	d.events = nil
	d.gone = false
	d.now = time.Now()
	return d, tea.Batch(waitForPlant(d.sub, d.ch), loadEventsCmd(d.store, p.ID))
}

// close ends the subscription. Messages still in flight carry the old sub
// and are dropped.
func (d *detailModel) close() {
	if d.cancel != nil {
		d.cancel()
	}
	d.cancel = nil
	d.ch = nil
	d.sub++
}

func waitForPlant(sub int, ch <-chan store.Snapshot[*store.Plant]) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return plantMsg{sub: sub, closed: true}
		}
		return plantMsg{sub: sub, plant: snap.Value, err: snap.Err}
	}
}

func loadEventsCmd(s *store.Store, id int64) tea.Cmd {
	return func() tea.Msg {
		events, _ := s.ListCareEvents(id, recentEventLimit)
		return eventsMsg{plantID: id, events: events}
	}
}

func (d detailModel) update(msg tea.Msg) (detailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case plantMsg:
		if msg.sub != d.sub {
			return d, nil
		}
		if msg.closed || errors.Is(msg.err, store.ErrNotFound) {
			d.gone = true
			d.close()
			return d, func() tea.Msg { return statusMsg{text: d.plant.Name + " is no longer in the garden"} }
		}
		if msg.err != nil {
			return d, tea.Batch(
				waitForPlant(d.sub, d.ch),
				func() tea.Msg { return statusMsg{text: "Reload failed: " + msg.err.Error(), isError: true} },
			)
		}
		d.plant = *msg.plant
		d.now = time.Now()
		return d, tea.Batch(waitForPlant(d.sub, d.ch), loadEventsCmd(d.store, d.plant.ID))

	case eventsMsg:
		if msg.plantID == d.plant.ID {
			d.events = msg.events
		}
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Water), key.Matches(msg, keys.Fertilize), key.Matches(msg, keys.Repot):
			return d, recordCmd(d.svc, d.plant.ID, actionForKey(msg))
		}
	}
	return d, nil
}

func (d detailModel) view() string {
	w := d.width - 4
	p := d.plant

	status := garden.StatusOf(d.now, p)
	title := fmt.Sprintf("%s %s", statusDot(status), titleStyle.Render(p.Name))
	var sub []string
	if fam := p.Family(); fam != "" {
		sub = append(sub, fam)
	}
	if p.Location != "" {
		sub = append(sub, p.Location)
	}

	header := []string{title}
	if len(sub) > 0 {
		header = append(header, subtitleStyle.Render(strings.Join(sub, " · ")))
	}

	cds := garden.Countdowns(d.now, p)
	panelWidth := max(20, (w-4)/len(cds)-2)
	var panels []string
	for _, cd := range cds {
		panels = append(panels, d.renderCountdown(cd, panelWidth))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinVertical(lipgloss.Left, header...),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, panels...),
		"",
		d.renderEvents(),
		"",
		mutedStyle.Render("  w: watered  f: fertilized  r: repotted  esc: back"),
	)
	return panelStyle.Width(w).Render(content)
}

func (d detailModel) renderCountdown(cd care.Countdown, width int) string {
	title := titleStyle.Render(cd.Action.Title())

	unit, n := "day", cd.IntervalDays
	if cd.Action == care.Repotting {
		unit, n = "month", d.plant.RepottingIntervalMonths
	}
	interval := mutedStyle.Render(formatInterval(n, unit))

	if cd.IntervalDays <= 0 {
		return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, interval, "", mutedStyle.Render("No schedule")))
	}

	st := care.WateringStatus(d.now.UnixMilli(), lastActionAt(d.plant, cd.Action), cd.IntervalDays)
	lines := []string{title, interval, "", statusStyle(st).Render(cd.Next)}
	if cd.Last != "" {
		lines = append(lines, mutedStyle.Render(cd.Last))
	} else {
		lines = append(lines, mutedStyle.Render("Never recorded"))
	}
	return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (d detailModel) renderEvents() string {
	title := titleStyle.Render("Recent care")
	if len(d.events) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("  Nothing recorded yet"))
	}
	rows := []string{title}
	for _, e := range d.events {
		at := time.UnixMilli(e.At).Local().Format("Mon Jan 02 15:04")
		rows = append(rows, fmt.Sprintf("  %s  %s", mutedStyle.Render(at), e.Kind))
	}
	return strings.Join(rows, "\n")
}

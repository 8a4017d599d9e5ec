package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/plantr/internal/care"
	"github.com/sadopc/plantr/internal/garden"
	"github.com/sadopc/plantr/internal/store"
)

// agendaDays is how far ahead the agenda looks.
const agendaDays = 14

// scheduleModel charts days until watering per plant and lists the care
// due in the next two weeks.
type scheduleModel struct {
	width  int
	height int
	now    time.Time

	plants  []store.Plant
	chart   barchart.Model
	hasBars bool
}

func newScheduleModel() scheduleModel {
	return scheduleModel{
		now:   time.Now(),
		chart: barchart.New(60, 12),
	}
}

func (s *scheduleModel) setSize(w, h int) {
	s.width = w
	s.height = h
	s.buildChart()
}

func (s scheduleModel) update(msg tea.Msg) (scheduleModel, tea.Cmd) {
	switch msg := msg.(type) {
	case plantsMsg:
		if msg.err == nil {
			s.plants = msg.plants
		}
		s.now = time.Now()
		s.buildChart()
	case tickMsg:
		s.now = time.Time(msg)
		s.buildChart()
	}
	return s, nil
}

func (s *scheduleModel) buildChart() {
	chartWidth := max(20, s.width-8)
	chartHeight := 12
	if s.height > 30 {
		chartHeight = 16
	}

	s.chart = barchart.New(chartWidth, chartHeight)
	s.hasBars = false

	var bars []barchart.BarData
	for _, o := range garden.Overviews(s.now, s.plants) {
		if o.Status == care.StatusUnknown {
			continue
		}
		// Overdue plants get a stub so they still show up.
		value := float64(o.WaterInDays)
		if value < 0.5 {
			value = 0.5
		}
		bars = append(bars, barchart.BarData{
			Label: truncate(o.Plant.Name, 8),
			Values: []barchart.BarValue{{
				Name:  o.Plant.Name,
				Value: value,
				Style: statusStyle(o.Status),
			}},
		})
	}

	if len(bars) == 0 {
		return
	}
	s.hasBars = true
	s.chart.PushAll(bars)
	s.chart.Draw()
}

// agendaItem is one care action due inside the agenda window.
type agendaItem struct {
	plant     string
	lastAt    int64
	countdown care.Countdown
}

func (s scheduleModel) agenda() []agendaItem {
	var items []agendaItem
	for _, p := range s.plants {
		for _, cd := range garden.Countdowns(s.now, p) {
			if cd.IntervalDays <= 0 || cd.RemainingDays > agendaDays {
				continue
			}
			items = append(items, agendaItem{plant: p.Name, lastAt: lastActionAt(p, cd.Action), countdown: cd})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].countdown.DueAt < items[j].countdown.DueAt
	})
	return items
}

func (s scheduleModel) view() string {
	w := s.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Schedule"), "  ",
		mutedStyle.Render(fmt.Sprintf("days until watering, next %d days of care", agendaDays)),
	)

	chartView := mutedStyle.Render("  No watering schedules yet")
	if s.hasBars {
		chartView = s.chart.View()
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", s.renderLegend(), "", s.renderAgenda(w),
		),
	)
}

func (s scheduleModel) renderAgenda(w int) string {
	items := s.agenda()
	if len(items) == 0 {
		return mutedStyle.Render("  Nothing due in the next two weeks")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-14s %-22s %-12s %s", "Due", "Plant", "Action", "")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 64))))

	for _, it := range items {
		cd := it.countdown
		status := care.WateringStatus(s.now.UnixMilli(), it.lastAt, cd.IntervalDays)
		rows = append(rows, fmt.Sprintf("  %-14s %s %-20s %-12s %s",
			formatDate(cd.DueAt),
			statusDot(status),
			truncate(it.plant, 20),
			cd.Action.Title(),
			statusStyle(status).Render(cd.Next),
		))
	}
	return strings.Join(rows, "\n")
}

func (s scheduleModel) renderLegend() string {
	var items []string
	for _, st := range []care.Status{care.StatusOk, care.StatusDueSoon, care.StatusOverdue} {
		items = append(items, statusDot(st)+" "+st.String())
	}
	return "  " + strings.Join(items, "  ")
}

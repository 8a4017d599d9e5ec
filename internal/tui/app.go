// Package tui is the interactive garden: a plant list with live status,
// per-plant countdowns, the add-plant flow, a care schedule and settings.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/plantr/internal/care"
	"github.com/sadopc/plantr/internal/export"
	"github.com/sadopc/plantr/internal/garden"
	"github.com/sadopc/plantr/internal/store"
)

var exportFormats = []string{export.FormatCSV, export.FormatJSON, export.FormatTOML}

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	svc    *garden.Service
	ctx    context.Context
	cancel context.CancelFunc
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	plantsCh   <-chan store.Snapshot[[]store.Plant]
	plantCount int
	overdue    int

	garden   gardenModel
	add      addModel
	schedule scheduleModel
	settings settingsModel

	help          help.Model
	status        string
	statusIsError bool
}

func NewApp(s *store.Store, svc *garden.Service) App {
	h := help.New()
	h.ShowAll = false
	ctx, cancel := context.WithCancel(context.Background())

	return App{
		store:      s,
		svc:        svc,
		ctx:        ctx,
		cancel:     cancel,
		activeView: viewGarden,
		garden:     newGardenModel(s, svc),
		add:        newAddModel(s, svc),
		schedule:   newScheduleModel(),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		subscribePlants(a.ctx, a.store),
		a.add.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func subscribePlants(ctx context.Context, s *store.Store) tea.Cmd {
	return func() tea.Msg {
		return plantsSubMsg{ch: s.WatchPlants(ctx)}
	}
}

func waitForPlants(ch <-chan store.Snapshot[[]store.Plant]) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return plantsClosedMsg{}
		}
		return plantsMsg{plants: snap.Value, err: snap.Err}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.garden.setSize(a.width, contentHeight)
		a.add.setSize(a.width, contentHeight)
		a.schedule.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			a.cancel()
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewGarden)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewAdd)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewSchedule)
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % viewState(len(viewNames)))
		}

	case plantsSubMsg:
		a.plantsCh = msg.ch
		return a, waitForPlants(msg.ch)

	case plantsMsg:
		if msg.err == nil {
			a.plantCount, a.overdue = len(msg.plants), countOverdue(msg.plants)
		} else {
			a.setStatus("Could not load plants: "+msg.err.Error(), true)
		}
		var cmd tea.Cmd
		a.garden, cmd = a.garden.update(msg)
		cmds = append(cmds, cmd)
		a.schedule, cmd = a.schedule.update(msg)
		cmds = append(cmds, cmd)
		cmds = append(cmds, waitForPlants(a.plantsCh))
		return a, tea.Batch(cmds...)

	case plantsClosedMsg:
		return a, nil

	case tickMsg:
		cmds = append(cmds, tickCmd())
		var cmd tea.Cmd
		a.garden, cmd = a.garden.update(msg)
		cmds = append(cmds, cmd)
		a.schedule, cmd = a.schedule.update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case plantMsg, eventsMsg:
		var cmd tea.Cmd
		a.garden, cmd = a.garden.update(msg)
		return a, cmd

	case careRecordedMsg:
		a.setStatus(fmt.Sprintf("%s %s", capitalize(msg.action.Past()), msg.plant.Name), false)
		var cmd tea.Cmd
		a.garden, cmd = a.garden.update(msg)
		return a, cmd

	case switchViewMsg:
		return a.switchTo(msg.view)

	case statusMsg:
		a.setStatus(msg.text, msg.isError)
		return a, nil

	case exportDoneMsg:
		a.setStatus("Exported to "+msg.path, false)
		a.exportPicking = false
		return a, nil

	case searchDueMsg, searchResultMsg, draftSavedMsg, addSettingsMsg:
		var cmd tea.Cmd
		a.add, cmd = a.add.update(msg)
		return a, cmd

	case settingsDataMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a *App) setStatus(text string, isError bool) {
	a.status = text
	a.statusIsError = isError
}

func (a App) switchTo(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	switch v {
	case viewAdd:
		return a, a.add.refresh()
	case viewSettings:
		return a, a.settings.refresh()
	}
	return a, nil
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewGarden:
		a.garden, cmd = a.garden.update(msg)
	case viewAdd:
		a.add, cmd = a.add.update(msg)
	case viewSchedule:
		a.schedule, cmd = a.schedule.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewAdd:
		return a.add.capturing()
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func countOverdue(plants []store.Plant) int {
	n := 0
	for _, o := range garden.Overviews(time.Now(), plants) {
		if o.Status == care.StatusOverdue {
			n++
		}
	}
	return n
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewGarden:
		content = a.garden.view()
	case viewAdd:
		content = a.add.view()
	case viewSchedule:
		content = a.schedule.view()
	case viewSettings:
		content = a.settings.view()
	}

	contentHeight := max(1, a.height-lipgloss.Height(header)-lipgloss.Height(footer))

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("plantr")
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusIsError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	summary := ""
	if a.plantCount > 0 {
		summary = successStyle.Render(fmt.Sprintf(" %d plants", a.plantCount))
		if a.overdue > 0 {
			summary += errorStyle.Render(fmt.Sprintf(" · %d overdue", a.overdue))
		}
	}

	left := footerStyle.Render(helpView)
	right := summary + status

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export Format"), ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+strings.ToUpper(f)))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, exportCmd(a.svc, exportFormats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func exportCmd(svc *garden.Service, format string) tea.Cmd {
	return func() tea.Msg {
		plants, err := svc.List()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()
		now := time.Now()
		path := filepath.Join(home, fmt.Sprintf("plantr-export-%s.%s", now.Format("2006-01-02"), format))
		if err := export.Write(format, plants, now, path); err != nil {
			return statusMsg{text: fmt.Sprintf("%s error: %v", strings.ToUpper(format), err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

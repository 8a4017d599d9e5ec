package tui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/plantr/internal/garden"
	"github.com/sadopc/plantr/internal/store"
)

const searchDebounce = 400 * time.Millisecond

type addFocus int

const (
	focusQuery addFocus = iota
	focusResults
	focusForm
)

// addModel is the create-plant screen. Everything it shows comes from a
// garden.DraftState that only changes through garden.Reduce.
type addModel struct {
	store  *store.Store
	svc    *garden.Service
	width  int
	height int

	draft        garden.DraftState
	query        textinput.Model
	focus        addFocus
	resultCursor int
	searchSeq    int

	minChars  int
	locations []string

	form *huh.Form

	// Form field pointers (survive value copies)
	formName      *string
	formLocation  *string
	formWater     *string
	formFertilize *string
	formRepot     *string
}

func newAddModel(s *store.Store, svc *garden.Service) addModel {
	q := textinput.New()
	q.Placeholder = "Search the plant catalog, e.g. monstera"
	q.CharLimit = 80
	q.Focus()

	name, loc, water, fert, repot := "", "", "", "", ""
	return addModel{
		store:         s,
		svc:           svc,
		query:         q,
		minChars:      3,
		formName:      &name,
		formLocation:  &loc,
		formWater:     &water,
		formFertilize: &fert,
		formRepot:     &repot,
	}
}

func (a *addModel) setSize(w, h int) {
	a.width = w
	a.height = h
	a.query.Width = max(20, w-12)
}

type addSettingsMsg struct {
	minChars  int
	locations []string
}

// refresh reloads the settings the form depends on.
func (a addModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return addSettingsMsg{minChars: a.store.SearchMinChars(), locations: a.store.Locations()}
	}
}

// reset starts a fresh draft.
func (a addModel) reset() addModel {
	a.draft = garden.DraftState{}
	a.query.SetValue("")
	a.query.Focus()
	a.focus = focusQuery
	a.resultCursor = 0
	a.searchSeq++
	a.form = nil
	return a
}

// capturing reports whether keys should go to the screen rather than the
// global bindings.
func (a addModel) capturing() bool {
	return a.focus == focusQuery || a.focus == focusForm
}

func (a addModel) dispatch(ev garden.Event) addModel {
	a.draft = garden.Reduce(a.draft, ev)
	return a
}

func (a addModel) update(msg tea.Msg) (addModel, tea.Cmd) {
	switch msg := msg.(type) {
	case addSettingsMsg:
		a.minChars = msg.minChars
		a.locations = msg.locations
		return a, nil

	case searchDueMsg:
		if msg.seq != a.searchSeq || !garden.ShouldAutoSearch(a.draft.SearchQuery, a.minChars) {
			return a, nil
		}
		return a.startSearch()

	case searchResultMsg:
		if msg.seq != a.searchSeq {
			return a, nil
		}
		if msg.err != nil {
			a = a.dispatch(garden.SearchFailed{Err: msg.err})
		} else {
			a = a.dispatch(garden.SearchSucceeded{Results: msg.records})
		}
		a.resultCursor = 0
		return a, nil

	case draftSavedMsg:
		if msg.err != nil {
			a = a.dispatch(garden.SaveFailed{Err: msg.err})
			return a.showForm()
		}
		a = a.dispatch(garden.SaveSucceeded{Plant: *msg.plant})
		name := a.draft.Plant.Name
		a = a.reset()
		return a, tea.Batch(
			func() tea.Msg { return statusMsg{text: "Added " + name} },
			func() tea.Msg { return switchViewMsg{view: viewGarden} },
		)
	}

	switch a.focus {
	case focusForm:
		return a.updateForm(msg)
	case focusResults:
		if k, ok := msg.(tea.KeyMsg); ok {
			return a.updateResults(k)
		}
		return a, nil
	}
	return a.updateQuery(msg)
}

func (a addModel) updateQuery(msg tea.Msg) (addModel, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, keys.Back):
			return a, func() tea.Msg { return switchViewMsg{view: viewGarden} }
		case key.Matches(k, keys.Retry):
			return a.retry()
		case key.Matches(k, keys.Enter):
			if strings.TrimSpace(a.draft.SearchQuery) != "" {
				return a.startSearch()
			}
			return a.showForm()
		case key.Matches(k, keys.Tab):
			return a.showForm()
		case k.Type == tea.KeyDown:
			if len(a.draft.Results) > 0 {
				a.focus = focusResults
				a.query.Blur()
			}
			return a, nil
		}
	}

	var cmd tea.Cmd
	before := a.query.Value()
	a.query, cmd = a.query.Update(msg)
	if v := a.query.Value(); v != before {
		a = a.dispatch(garden.SearchQueryChanged{Query: v})
		a.searchSeq++
		if garden.ShouldAutoSearch(v, a.minChars) {
			seq := a.searchSeq
			return a, tea.Batch(cmd, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
				return searchDueMsg{seq: seq}
			}))
		}
	}
	return a, cmd
}

func (a addModel) updateResults(msg tea.KeyMsg) (addModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.resultCursor > 0 {
			a.resultCursor--
			return a, nil
		}
		a.focus = focusQuery
		return a, a.query.Focus()
	case key.Matches(msg, keys.Down):
		if a.resultCursor < len(a.draft.Results)-1 {
			a.resultCursor++
		}
	case key.Matches(msg, keys.Back):
		a.focus = focusQuery
		return a, a.query.Focus()
	case key.Matches(msg, keys.Enter):
		if a.resultCursor < len(a.draft.Results) {
			match := a.svc.Mapper().Map(a.draft.Results[a.resultCursor])
			a = a.dispatchAll(a.formEdits()...)
			a = a.dispatch(garden.SpeciesMatched{Plant: match})
			a.query.SetValue(a.draft.SearchQuery)
			a.searchSeq++
			return a.showForm()
		}
	}
	return a, nil
}

func (a addModel) startSearch() (addModel, tea.Cmd) {
	a.searchSeq++
	a = a.dispatch(garden.SearchStarted{})
	return a, searchCmd(a.svc, a.searchSeq, a.draft.SearchQuery)
}

func (a addModel) retry() (addModel, tea.Cmd) {
	a = a.dispatch(garden.Retry{})
	if !a.draft.Searching {
		return a, nil
	}
	a.searchSeq++
	return a, searchCmd(a.svc, a.searchSeq, a.draft.SearchQuery)
}

func searchCmd(svc *garden.Service, seq int, query string) tea.Cmd {
	return func() tea.Msg {
		records, err := svc.Search(context.Background(), query)
		return searchResultMsg{seq: seq, records: records, err: err}
	}
}

// formEdits turns the current form values into draft events.
func (a addModel) formEdits() []garden.Event {
	if a.form == nil {
		return nil
	}
	return []garden.Event{
		garden.NameChanged{Name: *a.formName},
		garden.LocationChanged{Location: *a.formLocation},
		garden.WateringChanged{Value: *a.formWater},
		garden.FertilizingChanged{Value: *a.formFertilize},
		garden.RepottingChanged{Value: *a.formRepot},
	}
}

func (a addModel) dispatchAll(evs ...garden.Event) addModel {
	for _, ev := range evs {
		a = a.dispatch(ev)
	}
	return a
}

func intField(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func (a addModel) showForm() (addModel, tea.Cmd) {
	p := a.draft.Plant
	*a.formName = p.Name
	*a.formLocation = p.Location
	*a.formWater = intField(p.WateringIntervalDays)
	*a.formFertilize = intField(p.FertilizingIntervalDays)
	*a.formRepot = intField(p.RepottingIntervalMonths)

	locOptions := []huh.Option[string]{huh.NewOption("(none)", "")}
	seen := map[string]bool{"": true}
	for _, l := range append(append([]string{}, a.locations...), p.Location) {
		if !seen[l] {
			seen[l] = true
			locOptions = append(locOptions, huh.NewOption(l, l))
		}
	}

	a.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(a.formName),
			huh.NewSelect[string]().Title("Location").Options(locOptions...).Value(a.formLocation),
			huh.NewInput().Title("Water every (days)").Value(a.formWater),
			huh.NewInput().Title("Fertilize every (days)").Value(a.formFertilize),
			huh.NewInput().Title("Repot every (months)").Value(a.formRepot),
		),
	).WithShowHelp(true).WithShowErrors(true)

	a.focus = focusForm
	a.query.Blur()
	return a, a.form.Init()
}

func (a addModel) updateForm(msg tea.Msg) (addModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			a = a.dispatchAll(a.formEdits()...)
			a.form = nil
			a.focus = focusQuery
			return a, a.query.Focus()
		}
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	if a.form.State == huh.StateCompleted {
		a = a.dispatchAll(a.formEdits()...)
		a = a.dispatch(garden.SaveRequested{})
		if !a.draft.Pending {
			return a.showForm()
		}
		return a, saveCmd(a.svc, a.draft.Plant)
	}

	return a, cmd
}

func saveCmd(svc *garden.Service, p store.Plant) tea.Cmd {
	return func() tea.Msg {
		saved, err := svc.Create(p)
		return draftSavedMsg{plant: saved, err: err}
	}
}

func (a addModel) view() string {
	w := a.width - 4
	title := titleStyle.Render("Add a plant")

	var errLine string
	if a.draft.ErrorMessage != "" {
		errLine = errorStyle.Render(a.draft.ErrorMessage)
		if a.focus != focusForm && !a.draft.Searching && len(a.draft.Results) == 0 && a.draft.SearchQuery != "" {
			errLine += mutedStyle.Render("  ctrl+r: retry")
		}
	}

	if a.focus == focusForm && a.form != nil {
		parts := []string{title, ""}
		if errLine != "" {
			parts = append(parts, errLine, "")
		}
		parts = append(parts, a.form.View())
		return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	}

	rows := []string{title, "", a.query.View(), ""}
	switch {
	case a.draft.Searching:
		rows = append(rows, mutedStyle.Render("Searching..."))
	case errLine != "":
		rows = append(rows, errLine)
	case len(a.draft.Results) > 0:
		rows = append(rows, a.renderResults()...)
	default:
		rows = append(rows, mutedStyle.Render("Type at least "+strconv.Itoa(a.minChars)+" letters to search."))
	}

	rows = append(rows, "", mutedStyle.Render("  enter: search  ↓: pick a result  tab: fill in by hand  esc: back"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (a addModel) renderResults() []string {
	mapper := a.svc.Mapper()
	var rows []string
	for i, r := range a.draft.Results {
		cursor := "  "
		style := normalItemStyle
		if a.focus == focusResults && i == a.resultCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		p := mapper.Map(r)
		detail := mutedStyle.Render(" " + p.Family())
		rows = append(rows, cursor+style.Render(p.Name)+detail)
	}
	return rows
}

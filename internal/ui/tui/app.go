package tui

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aalvaropc/wallclock/internal/domain"
)

type mode int

const (
	modeClock mode = iota
	modeConvert
	modeAddZone
)

type model struct {
	theme Theme
	deps  Deps
	log   *slog.Logger

	mode  mode
	zones []domain.ZoneID
	clock list.Model
	input textinput.Model

	now time.Time
	// pinned freezes the clock at a converted instant until reset.
	pinned *domain.Instant
	banner string
	toast  string

	workspaceRoot string
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, m.log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	zones := slices.Clone(deps.Zones)
	if len(zones) == 0 {
		zones = []domain.ZoneID{domain.UTC}
	}

	l := list.New(nil, list.NewDefaultDelegate(), 60, 20)
	l.Title = "World clock"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	in := textinput.New()
	in.CharLimit = 64

	m := model{
		theme:         DefaultTheme(),
		deps:          deps,
		log:           log,
		mode:          modeClock,
		zones:         zones,
		clock:         l,
		input:         in,
		now:           deps.Now(),
		workspaceRoot: deps.WorkspaceRoot,
	}
	if deps.Renderer != nil {
		m.refresh()
	}
	return m
}

func (m model) Init() tea.Cmd { return tick() }

// at is the instant the clock currently shows.
func (m model) at() domain.Instant {
	if m.pinned != nil {
		return *m.pinned
	}
	return domain.InstantFromTime(m.now)
}

func (m *model) refresh() {
	m.clock.SetItems(clockRows(m.deps.Renderer, m.zones, m.at()))
}

func (m model) selectedZone() (domain.ZoneID, bool) {
	it, ok := m.clock.SelectedItem().(clockItem)
	if !ok {
		return "", false
	}
	return it.zone, true
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.clock.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		if m.pinned == nil {
			m.refresh()
		}
		return m, tick()

	case initWorkspaceDoneMsg:
		if msg.err != nil {
			m.log.Error("workspace.init.failed", "root", msg.root, "err", msg.err)
			m.toast = UserMessage(msg.err)
			return m, nil
		}
		m.workspaceRoot = msg.root
		m.toast = "Workspace created at " + msg.root
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeClock {
			return m.updateInput(msg)
		}
		if m.clock.FilterState() == list.Filtering {
			break
		}
		return m.updateClock(msg)
	}

	if m.mode != modeClock {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.clock, cmd = m.clock.Update(msg)
	return m, cmd
}

func (m model) updateClock(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "c", "enter":
		zone, ok := m.selectedZone()
		if !ok {
			return m, nil
		}
		m.mode = modeConvert
		m.toast = ""
		m.input.Reset()
		m.input.Placeholder = "YYYY-MM-DDTHH:MM"
		m.input.Prompt = string(zone) + " > "
		return m, m.input.Focus()

	case "a":
		m.mode = modeAddZone
		m.toast = ""
		m.input.Reset()
		m.input.Placeholder = "Area/City"
		m.input.Prompt = "add zone > "
		return m, m.input.Focus()

	case "d", "delete":
		zone, ok := m.selectedZone()
		if !ok || len(m.zones) == 1 {
			return m, nil
		}
		m.zones = slices.DeleteFunc(m.zones, func(z domain.ZoneID) bool { return z == zone })
		m.refresh()
		m.toast = "Removed " + string(zone)
		return m, nil

	case "r", "esc":
		if m.pinned != nil {
			m.pinned = nil
			m.banner = ""
			m.refresh()
		}
		return m, nil

	case "i":
		if m.workspaceRoot != "" {
			m.toast = "Already in workspace " + m.workspaceRoot
			return m, nil
		}
		wd, err := os.Getwd()
		if err != nil {
			m.toast = UserMessage(err)
			return m, nil
		}
		return m, cmdInitWorkspace(m.deps, wd)
	}

	var cmd tea.Cmd
	m.clock, cmd = m.clock.Update(msg)
	return m, cmd
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = modeClock
		m.input.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if m.mode == modeConvert {
			m.convert(value)
		} else {
			m.addZone(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// convert pins the clock at the instant the typed reading denotes in the
// selected zone.
func (m *model) convert(value string) {
	zone, ok := m.selectedZone()
	if !ok {
		return
	}
	civil, err := domain.ParseCivil(value)
	if err != nil {
		m.toast = UserMessage(err)
		return
	}
	res, err := m.deps.Converter.Resolve(civil, zone)
	if err != nil {
		m.log.Warn("tui.convert.failed", "zone", string(zone), "civil", value, "err", err)
		m.toast = UserMessage(err)
		return
	}

	at := res.Instant
	m.pinned = &at
	m.banner = describeResolution(res)
	m.toast = ""
	m.mode = modeClock
	m.input.Blur()
	m.refresh()
}

func (m *model) addZone(value string) {
	zone := domain.ZoneID(value)
	if slices.Contains(m.zones, zone) {
		m.toast = string(zone) + " is already on the clock"
		return
	}
	if _, err := m.deps.Source.LookupOffset(zone, m.at()); err != nil {
		m.toast = UserMessage(err)
		return
	}
	m.zones = append(m.zones, zone)
	m.toast = "Added " + string(zone)
	m.mode = modeClock
	m.input.Blur()
	m.refresh()
	m.clock.Select(len(m.zones) - 1)
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)

	source := m.deps.SourceName
	if source == "" {
		source = "system"
	}
	header := m.theme.Title.Render("wallclock") + "\n" +
		m.theme.Subtitle.Render(fmt.Sprintf("civil time across zones • source: %s", source)) + "\n"

	var workspace string
	if m.workspaceRoot != "" {
		workspace = m.theme.Help.Render("Workspace: " + m.workspaceRoot)
	} else {
		workspace = m.theme.Help.Render("No workspace (press i to create one here)")
	}

	var status string
	if m.pinned != nil {
		status = m.theme.Pinned.Render(clampString(m.banner, 100)) + "\n" +
			m.theme.Help.Render("r/esc back to live time")
	} else {
		status = m.theme.Subtitle.Render("Live • " + domain.InstantFromTime(m.now).String())
	}

	body := m.theme.Card.Render(m.clock.View())

	var footer string
	switch m.mode {
	case modeConvert, modeAddZone:
		footer = m.input.View() + "\n" + m.theme.Help.Render("enter confirm • esc cancel")
	default:
		footer = m.theme.Help.Render("↑/↓ move • c convert a time • a add zone • d remove • / search • q quit")
	}
	if m.toast != "" {
		footer += "\n" + m.theme.Warn.Render(m.toast)
	}

	return wrap.Render(header + workspace + "\n\n" + status + "\n" + body + "\n" + footer)
}

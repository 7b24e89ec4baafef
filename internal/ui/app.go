package ui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	progressbar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/five82/marquee/internal/artwork"
	"github.com/five82/marquee/internal/controller"
	"github.com/five82/marquee/internal/player"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/state"
	"github.com/five82/marquee/internal/tracklist"
)

// ErrQuit is returned by Run when the user quit the kiosk.
var ErrQuit = errors.New("quit by user")

// Layout recomputes the visible track list.
type Layout interface {
	Relayout(available int) tracklist.Viewport
}

// Health reports transport health.
type Health interface {
	Current() state.Current
}

// Preferences is the preference store as seen by the kiosk.
type Preferences interface {
	IsEnabled(id string) bool
	Apply(entry string) (bool, error)
	Catalog() prefs.Catalog
}

// Options configures the UI.
type Options struct {
	Bridge *Bridge
	Layout Layout
	Health Health
	Prefs  Preferences

	// Control sends a playback command. It must not block.
	Control func(cmd player.Command)
	// OnPrefsChanged runs after a key toggled a preference.
	OnPrefsChanged func()
	// OnThemeChange runs after the theme was cycled.
	OnThemeChange func(name string)

	TickInterval time.Duration
	ThemeName    string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Collaborators
	bridge         *Bridge
	layout         Layout
	health         Health
	prefs          Preferences
	control        func(cmd player.Command)
	onPrefsChanged func()
	onThemeChange  func(name string)
	tickInterval   time.Duration

	// UI state
	keys      keyMap
	themeName string
	width     int
	height    int
	ready     bool
	showHelp  bool
	quitting  bool
	presetIdx int

	// Data state
	frame    Frame
	viewport tracklist.Viewport
	current  state.Current
	now      time.Time
}

type tickMsg time.Time

type frameMsg struct{}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	tick := opts.TickInterval
	if tick <= 0 {
		tick = 250 * time.Millisecond
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = ArtworkTheme
	}
	bridge := opts.Bridge
	if bridge == nil {
		bridge = NewBridge()
	}
	return Model{
		bridge:         bridge,
		layout:         opts.Layout,
		health:         opts.Health,
		prefs:          opts.Prefs,
		control:        opts.Control,
		onPrefsChanged: opts.OnPrefsChanged,
		onThemeChange:  opts.OnThemeChange,
		tickInterval:   tick,
		keys:           DefaultKeyMap(),
		themeName:      themeName,
		presetIdx:      -1,
		frame:          bridge.Frame(),
		now:            time.Now(),
	}
}

// Run starts the program and blocks until the user quits or ctx is done.
// It returns ErrQuit when the user quit and nil when ctx ended the program.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run ui: %w", err)
	}
	if m, ok := final.(Model); ok && m.quitting {
		return ErrQuit
	}
	return nil
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForFrame(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-changes
		return frameMsg{}
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.tickInterval),
		waitForFrame(m.bridge.Changes()),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.relayout()
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		if m.health != nil {
			m.current = m.health.Current()
		}
		m.relayout()
		return m, tickCmd(m.tickInterval)

	case frameMsg:
		m.frame = m.bridge.Frame()
		m.relayout()
		return m, waitForFrame(m.bridge.Changes())
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.frame.Flags[controller.FlagIdle] {
		return m.renderIdle()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.themeName = NextTheme(m.themeName)
		if m.onThemeChange != nil {
			m.onThemeChange(m.themeName)
		}
		return m, nil

	case key.Matches(msg, m.keys.PlayPause):
		m.send(player.CommandPlayPause)
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.send(player.CommandNext)
		return m, nil

	case key.Matches(msg, m.keys.Previous):
		m.send(player.CommandPrevious)
		return m, nil

	case key.Matches(msg, m.keys.CyclePreset):
		if m.prefs == nil {
			return m, nil
		}
		presets := m.prefs.Catalog().Presets
		if len(presets) == 0 {
			return m, nil
		}
		m.presetIdx = (m.presetIdx + 1) % len(presets)
		m.applyPref(presets[m.presetIdx].ID)
		return m, nil
	}

	for _, t := range m.keys.toggles() {
		if key.Matches(msg, t.binding) {
			m.applyPref(t.id)
			return m, nil
		}
	}
	return m, nil
}

func (m Model) send(cmd player.Command) {
	if m.control != nil {
		m.control(cmd)
	}
}

func (m Model) applyPref(entry string) {
	if m.prefs == nil {
		return
	}
	changed, err := m.prefs.Apply(entry)
	if err != nil || !changed {
		return
	}
	if m.onPrefsChanged != nil {
		m.onPrefsChanged()
	}
}

// geometry splits the screen into the artwork column and the text panel.
type geometry struct {
	thumbCols  int
	thumbRows  int
	panelWidth int
	bodyRows   int
}

const (
	headerRows = 1
	footerRows = 2
	infoRows   = 6
	minThumb   = 6
	gap        = 2

	shiftDuration = 400 * time.Millisecond
)

func (m Model) geometry() geometry {
	body := max(0, m.height-headerRows-footerRows)
	g := geometry{bodyRows: body, panelWidth: m.width}
	rows := min(body, m.width/4)
	if rows >= minThumb {
		g.thumbRows = rows
		g.thumbCols = rows * 2
		g.panelWidth = max(0, m.width-g.thumbCols-gap)
	}
	return g
}

// listLines is the number of lines left for the track list.
func (g geometry) listLines() int {
	return max(0, g.bodyRows-infoRows-1)
}

func (m *Model) relayout() {
	if m.layout == nil || !m.ready {
		return
	}
	m.viewport = m.layout.Relayout(m.geometry().listLines())
}

func (m Model) theme() Theme {
	colors := artwork.DefaultColors
	if m.frame.Asset != nil {
		colors = m.frame.Asset.Colors
	}
	t := GetTheme(m.themeName, colors)
	if t.Name == ArtworkTheme && m.frame.Asset != nil {
		// The screen sits on the rendered background, darkened for contrast.
		if c, ok := averageColor(m.frame.Asset.Background); ok {
			t.Background = hexColor(darken(c, 0.5))
		}
	}
	return t
}

func (m Model) renderMain() string {
	t := m.theme()
	styles := t.Styles()
	g := m.geometry()

	panel := m.renderInfo(styles, g.panelWidth)
	list := renderList(m.viewport, g.panelWidth, styles, m.frame.HasEffect("title-extra-muted"))
	if m.frame.Departure(m.now, shiftDuration) {
		// The previous head lingers faintly above the advanced list.
		departing := make([]string, 0, len(m.frame.Departing))
		for _, row := range m.frame.Departing {
			departing = append(departing, styles.FaintText.Render(plainRow(row, g.panelWidth)))
		}
		list = append(departing, list...)
		list = list[:min(len(list), g.listLines())]
	}
	if len(list) > 0 {
		panel = append(panel, "")
		panel = append(panel, list...)
	}
	body := strings.Join(panel, "\n")
	if g.thumbRows > 0 {
		var thumb string
		if a := m.frame.Asset; a != nil {
			var prev image.Image
			if m.frame.Previous != nil {
				prev = m.frame.Previous.Artwork
			}
			thumb = renderThumbnail(a.Artwork, prev, m.frame.Fade(m.now), g.thumbCols, g.thumbRows)
		}
		thumb = lipgloss.NewStyle().Width(g.thumbCols).Height(g.thumbRows).Render(thumb)
		body = lipgloss.JoinHorizontal(lipgloss.Top, thumb, strings.Repeat(" ", gap), body)
	}
	body = lipgloss.NewStyle().Height(g.bodyRows).MaxHeight(g.bodyRows).Render(body)

	screen := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(styles),
		body,
		m.renderFooter(t, styles),
	)
	return styles.Background.Width(m.width).Height(m.height).Render(screen)
}

func (m Model) renderHeader(styles Styles) string {
	text := m.frame.Text
	var left string
	if label := contextLabel(text[controller.FieldContextType]); label != "" || text[controller.FieldContext] != "" {
		left = styles.MutedText.Render(strings.TrimSpace(label + "  " + text[controller.FieldContext]))
	}

	var right []string
	if m.current.IsOffline() {
		right = append(right, styles.Warning.Render(fmt.Sprintf("reconnecting (%d failures)", m.current.ConsecutiveFailures)))
	}
	if d := text[controller.FieldDevice]; d != "" {
		right = append(right, styles.FaintText.Render(d))
	}
	if v := text[controller.FieldVolume]; v != "" {
		right = append(right, styles.FaintText.Render("vol "+v))
	}
	r := strings.Join(right, "  ")

	pad := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(r))
	return left + strings.Repeat(" ", pad) + r
}

func (m Model) renderInfo(styles Styles, width int) []string {
	text := m.frame.Text
	extraStyle := styles.MutedText
	if m.frame.HasEffect("title-extra-muted") {
		extraStyle = styles.FaintText
	}

	title := styles.Title.Render(fit(text[controller.FieldTitle], width))
	if extra := text[controller.FieldTitleExtra]; extra != "" {
		room := width - lipgloss.Width(title) - 1
		if room > 0 {
			title += " " + extraStyle.Render(fit(extra, room))
		}
	}

	album := text[controller.FieldAlbum]
	if year := text[controller.FieldReleaseDate]; year != "" && album != "" {
		album += " (" + year + ")"
	}

	lines := []string{
		title,
		styles.AccentText.Render(fit(text[controller.FieldArtists], width)),
		styles.MutedText.Render(fit(album, width)),
		styles.FaintText.Render(fit(text[controller.FieldDescription], width)),
		"",
		styles.FaintText.Render(fit(m.flagLine(), width)),
	}
	return lines
}

func (m Model) flagLine() string {
	var parts []string
	if m.frame.Flags[controller.FlagPaused] {
		parts = append(parts, "❚❚ paused")
	} else {
		parts = append(parts, "▶ playing")
	}
	if m.frame.Flags[controller.FlagShuffle] {
		parts = append(parts, "shuffle")
	}
	if m.frame.Flags[controller.FlagRepeat] {
		parts = append(parts, "repeat")
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderFooter(t Theme, styles Styles) string {
	label := m.frame.Text[controller.FieldTime]
	barWidth := m.width
	if label != "" {
		barWidth = max(0, m.width-runewidth.StringWidth(label)-1)
	}
	bar := progressbar.New(
		progressbar.WithSolidFill(t.Accent),
		progressbar.WithoutPercentage(),
		progressbar.WithWidth(barWidth),
	)
	line := bar.ViewAs(m.frame.Progress.Percent())
	if label != "" {
		line += " " + styles.MutedText.Render(label)
	}
	return renderBackdrop(m.frame, m.now, m.width) + "\n" + line
}

func (m Model) renderIdle() string {
	styles := m.theme().Styles()
	var content string
	if m.prefs != nil && m.prefs.IsEnabled(prefs.FullscreenClock) {
		content = lipgloss.JoinVertical(lipgloss.Center,
			styles.Clock.Render(m.now.Format("15:04")),
			styles.MutedText.Render(m.now.Format("Monday, January 2")),
		)
	} else {
		content = styles.MutedText.Render("Nothing playing")
	}
	if m.current.IsOffline() {
		content = lipgloss.JoinVertical(lipgloss.Center, content, "",
			styles.Warning.Render("reconnecting"))
	}
	return styles.Background.Render(
		lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content),
	)
}

func (m Model) renderHelp() string {
	styles := m.theme().Styles()
	var b strings.Builder
	b.WriteString(styles.Title.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, binding := range m.keys.helpBindings() {
		h := binding.Help()
		fmt.Fprintf(&b, "%s  %s\n",
			styles.AccentText.Render(runewidth.FillRight(h.Key, 10)),
			styles.Text.Render(h.Desc))
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Press any key to close"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}

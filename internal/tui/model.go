package tui

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/evanschultz/lasso/internal/app"
	"github.com/evanschultz/lasso/internal/domain"
)

// Screen rows above the grid: the header and one spacer line.
const (
	gridLeft = 1
	gridTop  = 2
)

// footerHeight covers the status line and the bordered help line.
const footerHeight = 3

// fullHelpExtra is the additional height of the expanded help.
const fullHelpExtra = 4

// detailsHeight bounds the rendered selection details pane.
const detailsHeight = 10

// maxDetailItems caps how many selected items the details pane lists.
const maxDetailItems = 8

// Service loads the catalog rendered as grid cells.
type Service interface {
	ListItems(context.Context) ([]domain.CatalogItem, error)
}

// loadedMsg carries one catalog load result.
type loadedMsg struct {
	items []domain.CatalogItem
	err   error
}

// selectionFeed collects engine notifications between renders.
type selectionFeed struct {
	values []any
	box    domain.SelectBox
}

// pointerState tracks the primary button between press and release.
type pointerState struct {
	down   bool
	origin domain.Point
	moved  bool
}

// Model is the bubbletea model for the selectable item grid.
type Model struct {
	svc        Service
	engine     *app.Engine
	layout     *app.GridLayout
	mapper     app.ModifierMapper
	engineOpts []app.EngineOption
	feed       *selectionFeed
	unsubs     []func()

	items []domain.CatalogItem
	ids   []domain.ItemID

	fitColumns  bool
	ready       bool
	width       int
	height      int
	scroll      int
	err         error
	status      string
	showDetails bool
	pointer     pointerState

	help     help.Model
	keys     keyMap
	markdown *markdownRenderer
	copyText func(string) error
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	grid := DefaultGridConfig()
	m := Model{
		svc: svc,
		layout: &app.GridLayout{
			CellWidth:  grid.CellWidth,
			CellHeight: grid.CellHeight,
			GapX:       grid.GapX,
			GapY:       grid.GapY,
			Origin:     domain.Point{X: gridLeft, Y: gridTop},
		},
		fitColumns: true,
		feed:       &selectionFeed{},
		status:     "loading...",
		help:       h,
		keys:       newKeyMap(),
		markdown:   &markdownRenderer{},
		copyText:   clipboard.WriteAll,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	m.engine = app.NewEngine(m.layout, m.mapper, m.engineOpts...)
	feed := m.feed
	m.unsubs = append(m.unsubs,
		m.engine.OnSelectionChanged(func(values []any) {
			feed.values = values
		}),
		m.engine.OnSelectBoxChanged(func(box domain.SelectBox) {
			feed.box = box
		}),
	)
	return m
}

// Engine exposes the selection engine driving the grid.
func (m Model) Engine() *app.Engine {
	return m.engine
}

// Close detaches listeners and destroys the engine.
func (m Model) Close() {
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.engine.Destroy()
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.loadItems
}

// loadItems reads the catalog.
func (m Model) loadItems() tea.Msg {
	if m.svc == nil {
		return loadedMsg{}
	}
	items, err := m.svc.ListItems(context.Background())
	return loadedMsg{items: items, err: err}
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		m.relayout()
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.items = msg.items
		m.ids = app.ReloadCatalog(m.engine, m.layout, msg.items)
		m.relayout()
		m.status = fmt.Sprintf("loaded %d items", len(msg.items))
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKeyPress(msg)

	case tea.KeyReleaseMsg:
		if code, ok := modifierCode(msg.Code); ok {
			m.engine.HandleKeyEvent(domain.KeyEvent{Code: code, Type: domain.KeyUp, Mods: keyMods(msg.Mod)})
		}
		return m, nil

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)

	case tea.MouseMotionMsg:
		return m.handleMouseMotion(msg)

	case tea.MouseReleaseMsg:
		return m.handleMouseRelease(msg)

	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)

	default:
		return m, nil
	}
}

// handleKeyPress routes one key press.
func (m Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if code, ok := modifierCode(msg.Code); ok {
		m.engine.HandleKeyEvent(domain.KeyEvent{Code: code, Type: domain.KeyDown, Mods: keyMods(msg.Mod)})
		return m, nil
	}
	if mode, ok := m.keys.modeFor(msg); ok {
		m.pointer = pointerState{}
		m.engine.SetMode(mode)
		m.status = "mode: " + mode.String()
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.clampScroll()
		return m, nil
	case key.Matches(msg, m.keys.reload):
		m.status = "reloading..."
		return m, m.loadItems
	case key.Matches(msg, m.keys.selectAll):
		m.engine.SelectAll()
		m.status = fmt.Sprintf("selected %d items", len(m.engine.SelectedIDs()))
		return m, nil
	case key.Matches(msg, m.keys.clear):
		if m.help.ShowAll {
			m.help.ShowAll = false
			m.clampScroll()
			return m, nil
		}
		m.engine.ClearSelection()
		m.status = "selection cleared"
		return m, nil
	case key.Matches(msg, m.keys.invert):
		m.engine.ToggleWhere(func(domain.Item) bool { return true })
		m.status = "selection inverted"
		return m, nil
	case key.Matches(msg, m.keys.yank):
		return m.yankSelection()
	case key.Matches(msg, m.keys.details):
		m.showDetails = !m.showDetails
		m.clampScroll()
		return m, nil
	default:
		return m, nil
	}
}

// yankSelection copies selected labels to the clipboard, one per line.
func (m Model) yankSelection() (tea.Model, tea.Cmd) {
	selected := app.CatalogValues(m.engine.SelectedValues())
	if len(selected) == 0 {
		m.status = "nothing selected"
		return m, nil
	}
	labels := make([]string, 0, len(selected))
	for _, item := range selected {
		labels = append(labels, item.Label)
	}
	if err := m.copyText(strings.Join(labels, "\n")); err != nil {
		m.status = "copy failed: " + err.Error()
		return m, nil
	}
	m.status = fmt.Sprintf("copied %d labels", len(labels))
	return m, nil
}

// handleMouseClick starts a pointer gesture.
func (m Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll {
		return m, nil
	}
	pos := m.layout.Relative(domain.Point{X: msg.X, Y: msg.Y})
	button := pointerButton(msg.Button)
	m.pointer = pointerState{down: button == domain.ButtonPrimary, origin: pos}
	m.engine.HandlePointerEvent(domain.PointerEvent{
		Kind:     domain.PointerDown,
		Position: pos,
		Button:   button,
		Mods:     keyMods(msg.Mod),
	})
	return m, nil
}

// handleMouseMotion advances an in-progress gesture.
func (m Model) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	if !m.pointer.down {
		return m, nil
	}
	pos := m.layout.Relative(domain.Point{X: msg.X, Y: msg.Y})
	if pos != m.pointer.origin {
		m.pointer.moved = true
	}
	m.engine.HandlePointerEvent(domain.PointerEvent{
		Kind:     domain.PointerMove,
		Position: pos,
		Button:   domain.ButtonPrimary,
		Mods:     keyMods(msg.Mod),
	})
	return m, nil
}

// handleMouseRelease ends a gesture. A release that never moved also
// counts as a click on the cell under the pointer.
func (m Model) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	if !m.pointer.down {
		return m, nil
	}
	pos := m.layout.Relative(domain.Point{X: msg.X, Y: msg.Y})
	mods := keyMods(msg.Mod)
	m.engine.HandlePointerEvent(domain.PointerEvent{
		Kind:     domain.PointerUp,
		Position: pos,
		Button:   domain.ButtonPrimary,
		Mods:     mods,
	})
	if !m.pointer.moved && pos == m.pointer.origin {
		m.engine.HandlePointerEvent(domain.PointerEvent{
			Kind:     domain.PointerClick,
			Position: pos,
			Button:   domain.ButtonPrimary,
			Mods:     mods,
		})
	}
	m.pointer = pointerState{}
	return m, nil
}

// handleMouseWheel scrolls the grid by one row.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll || m.pointer.down {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseWheelUp:
		m.scroll--
	case tea.MouseWheelDown:
		m.scroll++
	default:
		return m, nil
	}
	m.clampScroll()
	return m, nil
}

// relayout fits columns to the terminal and refreshes cached geometry.
func (m *Model) relayout() {
	if m.fitColumns && m.width > 0 {
		m.layout.Columns = m.layout.FitColumns(m.width - 2*gridLeft)
	}
	m.clampScroll()
}

// clampScroll keeps the scroll offset within the grid and moves the
// container origin to match.
func (m *Model) clampScroll() {
	visibleRows := m.gridViewHeight() / max(m.layout.CellHeight+m.layout.GapY, 1)
	m.scroll = clamp(m.scroll, 0, m.layout.Rows()-max(visibleRows, 1))
	m.layout.Origin = domain.Point{X: gridLeft, Y: gridTop - m.scroll*(m.layout.CellHeight+m.layout.GapY)}
	m.engine.InvalidateBoundingBoxes()
}

// gridViewHeight returns the screen rows available to the grid.
func (m Model) gridViewHeight() int {
	reserved := gridTop + footerHeight
	if m.showDetails {
		reserved += detailsHeight
	}
	if m.help.ShowAll {
		reserved += fullHelpExtra
	}
	return max(m.height-reserved, 1)
}

// View handles view.
func (m Model) View() tea.View {
	return newView(m.render())
}

// render builds the full screen content.
func (m Model) render() string {
	if m.err != nil {
		return "error: " + m.err.Error() + "\n\npress r to retry • q quit\n"
	}
	if !m.ready {
		return "loading..."
	}

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	sections := []string{m.renderHeader(accent, muted), ""}
	if len(m.items) == 0 {
		sections = append(sections, fitLines(" No items yet. Add some with `lasso items add <label>`.", m.gridViewHeight()))
	} else {
		sections = append(sections, m.renderGrid())
	}
	if m.showDetails {
		sections = append(sections, m.renderDetails(muted))
	}
	sections = append(sections, statusStyle.Render(truncate(" "+m.statusLine(), max(m.width, 1))))

	helpBubble := m.help
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))
	sections = append(sections, helpLine)

	return strings.Join(sections, "\n")
}

// newView builds a full-screen view with cell-motion mouse reporting.
func newView(content string) tea.View {
	v := tea.NewView(content)
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

// renderHeader renders the title, mode tabs and machine state.
func (m Model) renderHeader(accent, muted color.Color) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	activeTab := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(accent)
	tab := lipgloss.NewStyle().Foreground(muted)

	parts := []string{titleStyle.Render(" lasso")}
	current := m.engine.Mode()
	for idx, mode := range domain.Modes() {
		label := fmt.Sprintf(" %d %s ", idx+1, mode)
		if mode == current {
			parts = append(parts, activeTab.Render(label))
			continue
		}
		parts = append(parts, tab.Render(label))
	}
	return strings.Join(parts, " ")
}

// renderGrid composes cells and the select box on one canvas and returns
// the visible rows.
func (m Model) renderGrid() string {
	container, _ := m.layout.ContainerBox()
	width, height := container.Width(), container.Height()
	canvas := lipgloss.NewCanvas(width, height)

	cellStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	kindStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Background(lipgloss.Color("236"))
	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	selectedKind := lipgloss.NewStyle().Foreground(lipgloss.Color("189")).Background(lipgloss.Color("62"))

	for slot, id := range m.ids {
		item, ok := m.engine.Item(id)
		if !ok || slot >= len(m.items) {
			continue
		}
		entry := m.items[slot]
		label, kind := cellStyle, kindStyle
		marker := "  "
		if item.Selected {
			label, kind = selectedStyle, selectedKind
			marker = "✓ "
		}
		lines := make([]string, 0, m.layout.CellHeight)
		lines = append(lines, label.Render(padRight(marker+entry.Label, m.layout.CellWidth)))
		if m.layout.CellHeight > 1 {
			lines = append(lines, kind.Render(padRight("  "+entry.Kind, m.layout.CellWidth)))
		}
		for len(lines) < m.layout.CellHeight {
			lines = append(lines, label.Render(strings.Repeat(" ", m.layout.CellWidth)))
		}
		box := m.layout.Slot(slot)
		canvas.Compose(lipgloss.NewLayer(strings.Join(lines, "\n")).X(box.Left).Y(box.Top).Z(0))
	}

	if m.feed.box.Visible {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
		for _, edge := range selectBoxEdges(m.feed.box, width, height) {
			canvas.Compose(lipgloss.NewLayer(style.Render(edge.content)).X(edge.x).Y(edge.y).Z(10))
		}
	}

	lines := strings.Split(canvas.Render(), "\n")
	offset := clamp(m.scroll*(m.layout.CellHeight+m.layout.GapY), 0, max(len(lines)-1, 0))
	lines = lines[offset:]
	indent := strings.Repeat(" ", gridLeft)
	for idx, line := range lines {
		lines[idx] = indent + line
	}
	return fitLines(strings.Join(lines, "\n"), m.gridViewHeight())
}

// boxEdge is one outline segment placed on the grid canvas.
type boxEdge struct {
	content string
	x, y    int
}

// selectBoxEdges outlines box, clipped to a width x height canvas.
func selectBoxEdges(box domain.SelectBox, width, height int) []boxEdge {
	if width <= 0 || height <= 0 {
		return nil
	}
	rect := box.Rect()
	left, right := clamp(rect.Left, 0, width-1), clamp(rect.Right, 0, width-1)
	top, bottom := clamp(rect.Top, 0, height-1), clamp(rect.Bottom, 0, height-1)
	w, h := right-left+1, bottom-top+1

	edge := func(first, fill, last string) string {
		if w == 1 {
			return first
		}
		return first + strings.Repeat(fill, w-2) + last
	}

	if h == 1 {
		return []boxEdge{{content: edge("─", "─", "─"), x: left, y: top}}
	}
	edges := []boxEdge{
		{content: edge("┌", "─", "┐"), x: left, y: top},
		{content: edge("└", "─", "┘"), x: left, y: bottom},
	}
	if h > 2 {
		side := strings.TrimSuffix(strings.Repeat("│\n", h-2), "\n")
		edges = append(edges, boxEdge{content: side, x: left, y: top + 1})
		if w > 1 {
			edges = append(edges, boxEdge{content: side, x: right, y: top + 1})
		}
	}
	return edges
}

// renderDetails renders the selected items as markdown.
func (m Model) renderDetails(muted color.Color) string {
	md := selectionMarkdown(app.CatalogValues(m.feed.values), maxDetailItems)
	rendered := m.markdown.render(md, max(m.width-4, 0))
	return lipgloss.NewStyle().
		BorderTop(true).
		BorderForeground(muted).
		Render(fitLines(rendered, detailsHeight-1))
}

// statusLine summarizes machine state, selection and the last action.
func (m Model) statusLine() string {
	parts := []string{
		m.engine.StateString(),
		fmt.Sprintf("%d/%d selected", len(m.engine.SelectedIDs()), len(m.items)),
	}
	if mods := m.engine.Modifiers(); mods.Any() {
		parts = append(parts, "mods: "+mods.String())
	}
	if box := m.feed.box; box.Visible {
		parts = append(parts, fmt.Sprintf("box %d,%d %dx%d", box.Left, box.Top, box.Width, box.Height))
	}
	if status := strings.TrimSpace(m.status); status != "" {
		parts = append(parts, status)
	}
	return strings.Join(parts, " • ")
}

// modifierCode maps a modifier key press onto its engine key code.
func modifierCode(code rune) (string, bool) {
	switch code {
	case tea.KeyLeftShift, tea.KeyRightShift:
		return "shift", true
	case tea.KeyLeftCtrl, tea.KeyRightCtrl:
		return "ctrl", true
	case tea.KeyLeftAlt, tea.KeyRightAlt:
		return "alt", true
	case tea.KeyLeftMeta, tea.KeyRightMeta, tea.KeyLeftSuper, tea.KeyRightSuper:
		return "meta", true
	default:
		return "", false
	}
}

// keyMods converts terminal modifier bits.
func keyMods(mod tea.KeyMod) domain.KeyMods {
	return domain.KeyMods{
		Ctrl:  mod&tea.ModCtrl != 0,
		Alt:   mod&tea.ModAlt != 0,
		Shift: mod&tea.ModShift != 0,
		Meta:  mod&(tea.ModMeta|tea.ModSuper) != 0,
	}
}

// pointerButton converts a terminal mouse button.
func pointerButton(button tea.MouseButton) domain.PointerButton {
	switch button {
	case tea.MouseLeft:
		return domain.ButtonPrimary
	case tea.MouseRight:
		return domain.ButtonSecondary
	case tea.MouseMiddle:
		return domain.ButtonMiddle
	default:
		return domain.ButtonNone
	}
}

// clamp bounds v to [minV, maxV].
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines pads or truncates content to exactly maxLines lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// padRight truncates or pads s to exactly width cells.
func padRight(s string, width int) string {
	s = truncate(s, width)
	if gap := width - lipgloss.Width(s); gap > 0 {
		s += strings.Repeat(" ", gap)
	}
	return s
}

// truncate shortens s to at most max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}

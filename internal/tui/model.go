// Package tui provides the Bubble Tea splits interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"doomsplit/internal/gamelog"
	"doomsplit/internal/history"
	"doomsplit/internal/model"
	"doomsplit/internal/records"
	"doomsplit/internal/timespan"
)

const tickInterval = 50 * time.Millisecond

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	clockStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	pbMarkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	headerBorder = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("#4A4A4A"))
)

type eventMsg gamelog.Event

type eventsClosedMsg struct{}

type tickMsg time.Time

// Model implements the Bubble Tea splits UI. It is the coordinator between
// decoded game events and the record grid.
type Model struct {
	grid   *records.Grid
	store  *history.Store
	events <-chan gamelog.Event

	selection model.Selection
	chapter   *records.Chapter

	levelTable table.Model

	width  int
	height int

	running     bool
	gameRunning bool
	startedAt   time.Time
	elapsed     string
	status      string

	// pbFlash marks codes whose personal best was set this session so they
	// keep their highlight while the user switches chapters around.
	pbFlash map[string]bool
}

// NewModel constructs the splits UI model. The history store may be nil, in
// which case attempts are not logged.
func NewModel(grid *records.Grid, store *history.Store, events <-chan gamelog.Event, sel model.Selection) *Model {
	m := &Model{
		grid:      grid,
		store:     store,
		events:    events,
		selection: sel,
		status:    "Waiting for gzdoom.",
		pbFlash:   map[string]bool{},
	}
	if sel.Category == "" {
		m.selection.Category = records.Categories[0]
	}
	if sel.Difficulty == "" {
		m.selection.Difficulty = records.Difficulties[0]
	}
	if sel.Chapter == "" {
		m.selection.Chapter = records.ChapterNames[0]
	}
	m.levelTable = table.New(
		table.WithColumns(levelColumns()),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#3A3A3A"))
	m.levelTable.SetStyles(styles)
	m.reloadChapter()
	return m
}

// Selection returns the current UI state for persistence.
func (m *Model) Selection() model.Selection {
	return m.selection
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForEvent()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeTable()
		return m, nil
	case eventMsg:
		return m.handleEvent(gamelog.Event(msg))
	case eventsClosedMsg:
		return m, nil
	case tickMsg:
		if !m.running {
			return m, nil
		}
		if elapsed, err := m.chapter.Elapsed(time.Time(msg)); err == nil {
			m.elapsed = elapsed.String()
		}
		return m, m.tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	header := fmt.Sprintf("%s  %s  %s",
		titleStyle.Render(m.selection.Category),
		labelStyle.Render(m.selection.Difficulty),
		titleStyle.Render(m.selection.Chapter),
	)
	clock := labelStyle.Render("Time ") + clockStyle.Render(m.clockValue())
	b.WriteString(headerBorder.Render(header + "  " + clock))
	b.WriteString("\n")
	b.WriteString(m.levelTable.View())
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render("c/d/n select · r/R revert time/PB · x/X delete time/PB · q quit"))
	return b.String()
}

func (m *Model) clockValue() string {
	if m.elapsed == "" {
		return "--:--.--"
	}
	return m.elapsed
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "c":
		m.cycleSelection(&m.selection.Category, records.Categories)
		return m, nil
	case "d":
		m.cycleSelection(&m.selection.Difficulty, records.Difficulties)
		return m, nil
	case "n":
		m.cycleSelection(&m.selection.Chapter, records.ChapterNames)
		return m, nil
	case "r":
		m.applyRowEdit(func(t rowTimes) { t.RevertSessionTime() })
		return m, nil
	case "R":
		m.applyRowEdit(func(t rowTimes) { t.RevertPersonalBest() })
		return m, nil
	case "x":
		m.applyRowEdit(func(t rowTimes) { t.DeleteSessionTime() })
		return m, nil
	case "X":
		m.applyRowEdit(func(t rowTimes) { t.DeletePersonalBest() })
		return m, nil
	default:
		var cmd tea.Cmd
		m.levelTable, cmd = m.levelTable.Update(msg)
		return m, cmd
	}
}

// rowTimes is the slice of level/chapter behavior the edit keys need.
type rowTimes interface {
	RevertSessionTime()
	RevertPersonalBest()
	DeleteSessionTime()
	DeletePersonalBest()
}

func (m *Model) applyRowEdit(edit func(rowTimes)) {
	if m.chapter == nil || m.running {
		return
	}
	row := m.levelTable.Cursor()
	if row < 0 || row > len(m.chapter.Levels) {
		return
	}
	// The last row is the complete-chapter aggregate.
	if row == len(m.chapter.Levels) {
		edit(m.chapter)
	} else {
		edit(m.chapter.Levels[row])
	}
	m.refreshRows()
}

func (m *Model) cycleSelection(target *string, options []string) {
	if m.running {
		// Changing the selection mid-run would retarget the active timer.
		m.status = "Selection locked while a run is in progress."
		return
	}
	for i, option := range options {
		if option == *target {
			*target = options[(i+1)%len(options)]
			m.reloadChapter()
			return
		}
	}
	*target = options[0]
	m.reloadChapter()
}

func (m *Model) handleEvent(evt gamelog.Event) (tea.Model, tea.Cmd) {
	switch evt.Kind {
	case gamelog.ProcessStarted:
		m.gameRunning = true
		m.status = "gzdoom started."
		return m, m.waitForEvent()
	case gamelog.ProcessExited:
		m.gameRunning = false
		if m.running {
			m.abortRun("gzdoom exited, run aborted.")
		} else {
			m.status = "gzdoom exited."
		}
		return m, m.waitForEvent()
	case gamelog.PlayerDied:
		if m.running {
			m.abortRun("Player died, run aborted.")
		}
		return m, m.waitForEvent()
	case gamelog.LevelStarted:
		return m.handleLevelStarted(evt)
	case gamelog.LevelFinished:
		m.handleLevelFinished()
		return m, m.waitForEvent()
	default:
		return m, m.waitForEvent()
	}
}

func (m *Model) handleLevelStarted(evt gamelog.Event) (tea.Model, tea.Cmd) {
	// Snapshot the clock before any further processing.
	now := time.Now()
	chapterName, err := records.ChapterNameByCode(evt.Code)
	if err != nil {
		m.status = fmt.Sprintf("Ignoring unknown level %q.", evt.Code)
		return m, m.waitForEvent()
	}
	if chapterName != m.selection.Chapter {
		// The game moved to a different chapter; follow it.
		m.selection.Chapter = chapterName
		m.reloadChapter()
	}
	level, err := m.chapter.StartTimer(now, evt.Code)
	if err != nil {
		m.status = fmt.Sprintf("Not recording %s: %v", evt.Code, err)
		return m, m.waitForEvent()
	}
	m.running = true
	m.startedAt = now
	m.elapsed = ""
	m.status = fmt.Sprintf("New level started: %s %s", evt.Code, evt.Name)
	m.levelTable.SetCursor(level.LevelNumber - 1)
	return m, tea.Batch(m.waitForEvent(), m.tick())
}

func (m *Model) handleLevelFinished() {
	now := time.Now()
	if !m.running {
		m.status = "Level finished with no run in progress."
		return
	}
	result, err := m.chapter.StopTimer(now)
	if err != nil {
		m.status = fmt.Sprintf("Failed to stop timer: %v", err)
		m.running = false
		return
	}
	m.running = false
	if session, ok := result.Level.SessionTime(); ok {
		m.elapsed = session.String()
	}
	m.status = fmt.Sprintf("%s finished.", result.Level.Name)
	if result.LevelPB {
		m.pbFlash[result.Level.Code] = true
		m.status = fmt.Sprintf("%s finished. New personal best!", result.Level.Name)
	}
	if result.ChapterPB {
		m.pbFlash[chapterRowCode(m.chapter)] = true
	}
	m.recordAttempt(result)
	m.refreshRows()
	if result.ChapterTimed {
		m.levelTable.SetCursor(len(m.chapter.Levels))
	}
}

func (m *Model) abortRun(status string) {
	m.chapter.AbortTimer()
	m.running = false
	m.elapsed = ""
	m.status = status
}

func (m *Model) recordAttempt(result records.StopResult) {
	if m.store == nil {
		return
	}
	session, ok := result.Level.SessionTime()
	if !ok {
		return
	}
	now := time.Now()
	attempt := model.Attempt{
		Code:       result.Level.Code,
		Name:       result.Level.Name,
		Category:   m.selection.Category,
		Difficulty: m.selection.Difficulty,
		StartedAt:  m.startedAt,
		EndedAt:    now,
		DurationUS: session.Seconds()*1_000_000 + session.Micros(),
		PB:         result.LevelPB,
	}
	if _, err := m.store.InsertAttempt(context.Background(), attempt); err != nil {
		logErrf("failed to log attempt: %v\n", err)
	}
}

func (m *Model) reloadChapter() {
	chapter, err := m.grid.Chapter(m.selection.Category, m.selection.Difficulty, m.selection.Chapter)
	if err != nil {
		m.status = fmt.Sprintf("Failed to load chapter: %v", err)
		return
	}
	m.chapter = chapter
	m.refreshRows()
	m.levelTable.SetCursor(0)
	m.resizeTable()
}

func (m *Model) refreshRows() {
	if m.chapter == nil {
		return
	}
	rows := make([]table.Row, 0, len(m.chapter.Levels)+1)
	for _, level := range m.chapter.Levels {
		rows = append(rows, table.Row{
			level.Name,
			sessionCell(level),
			m.bestCell(level.Code, level),
			level.Diff(),
		})
	}
	rows = append(rows, table.Row{
		"Complete Chapter",
		sessionCell(m.chapter),
		m.bestCell(chapterRowCode(m.chapter), m.chapter),
		m.chapter.Diff(),
	})
	m.levelTable.SetRows(rows)
}

// rowValues is the read slice of level/chapter behavior the table needs.
type rowValues interface {
	SessionTime() (timespan.Span, bool)
	PersonalBest() (timespan.Span, bool)
	Diff() string
}

func sessionCell(v rowValues) string {
	session, ok := v.SessionTime()
	if !ok {
		return ""
	}
	return session.String()
}

func (m *Model) bestCell(code string, v rowValues) string {
	best, ok := v.PersonalBest()
	if !ok {
		return ""
	}
	cell := best.String()
	if m.pbFlash[code] {
		return pbMarkStyle.Render(cell + " *")
	}
	return cell
}

func chapterRowCode(c *records.Chapter) string {
	return fmt.Sprintf("chapter:%d", c.Number)
}

func levelColumns() []table.Column {
	return []table.Column{
		{Title: "Level", Width: 24},
		{Title: "Time", Width: 10},
		{Title: "PB", Width: 12},
		{Title: "Diff", Width: 10},
	}
}

func (m *Model) resizeTable() {
	if m.chapter == nil {
		return
	}
	rows := len(m.chapter.Levels) + 1
	height := rows + 1
	if m.height > 0 && height > m.height-4 {
		height = m.height - 4
	}
	if height < 3 {
		height = 3
	}
	m.levelTable.SetHeight(height)
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-m.events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(evt)
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

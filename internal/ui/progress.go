// Package ui renders batch apply progress in the terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"fixo/internal/driver"
)

const labelWidth = 11

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// row is the last known state of one planned file.
type row struct {
	path    string
	status  driver.Status
	stage   driver.Stage
	elapsed time.Duration
	err     error
}

func (r *row) finished() bool {
	return r.status == driver.StatusDone || r.status == driver.StatusError
}

// label is what the status column shows for the row.
func (r *row) label() string {
	switch r.status {
	case driver.StatusWorking:
		if s := stageVerb(r.stage); s != "" {
			return s
		}
		return "working"
	case driver.StatusDone:
		return "done"
	case driver.StatusError:
		return "error"
	}
	return "queued"
}

func (r *row) weight() float64 {
	if r.finished() {
		return 1
	}
	if r.status != driver.StatusWorking {
		return 0
	}
	// доля работы до начала стадии
	switch r.stage {
	case driver.StageParse:
		return 0.25
	case driver.StageAnnotate:
		return 0.5
	case driver.StageWrite:
		return 0.8
	}
	return 0.05
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spin    spinner.Model
	bar     progress.Model
	rows    []row
	byPath  map[string]int
	width   int
	closed  bool
	started time.Time
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model showing one row per planned
// file. It quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = activeStyle

	m := &progressModel{
		title:   title,
		events:  events,
		spin:    spin,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		rows:    make([]row, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
		started: time.Now(),
	}
	m.bar.Width = m.width - 14
	for i, f := range files {
		m.rows[i] = row{path: f, status: driver.StatusQueued}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.next())
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.record(driver.Event(msg)), m.next())
	case doneMsg:
		m.closed = true
		return m, tea.Quit
	case tea.KeyMsg:
		// Ctrl+C закрывает только UI, apply дорабатывает сам
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 20 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 14
		}
	case spinner.TickMsg:
		if !m.closed {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) record(ev driver.Event) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	r := &m.rows[i]
	r.status = ev.Status
	if ev.Status == driver.StatusQueued {
		r.stage = ""
	} else {
		r.stage = ev.Stage
	}
	if ev.Elapsed > 0 {
		r.elapsed = ev.Elapsed
	}
	if ev.Err != nil {
		r.err = ev.Err
	}
	return m.bar.SetPercent(m.fraction())
}

func (m *progressModel) fraction() float64 {
	if len(m.rows) == 0 {
		return 1
	}
	var sum float64
	for i := range m.rows {
		sum += m.rows[i].weight()
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) counts() (finished, failed int) {
	for i := range m.rows {
		if m.rows[i].finished() {
			finished++
		}
		if m.rows[i].status == driver.StatusError {
			failed++
		}
	}
	return finished, failed
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	finished, failed := m.counts()
	lead := m.spin.View()
	if m.closed {
		lead = "done:"
	}
	head := fmt.Sprintf("%s %s  %d/%d files", lead, m.title, finished, len(m.rows))
	if failed > 0 {
		head += failStyle.Render(fmt.Sprintf("  %d failed", failed))
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(head))
	b.WriteString("\n\n")

	pathWidth := max(m.width-labelWidth-14, 20)
	for i := range m.rows {
		r := &m.rows[i]
		fmt.Fprintf(&b, "  %s %s", statusStyle(r).Render(fmt.Sprintf("%-*s", labelWidth, r.label())), fit(r.path, pathWidth))
		if r.finished() && r.elapsed > 0 {
			b.WriteString(pendingStyle.Render(" " + r.elapsed.Round(time.Millisecond).String()))
		}
		b.WriteString("\n")
		if r.err != nil {
			b.WriteString(failStyle.Render("      " + fit(r.err.Error(), m.width-6)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n  ")
	if m.closed {
		b.WriteString(m.bar.ViewAs(1))
		fmt.Fprintf(&b, " %s", time.Since(m.started).Round(time.Millisecond))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func stageVerb(s driver.Stage) string {
	switch s {
	case driver.StageRead:
		return "reading"
	case driver.StageParse:
		return "parsing"
	case driver.StageAnnotate:
		return "annotating"
	case driver.StageWrite:
		return "writing"
	}
	return ""
}

func statusStyle(r *row) lipgloss.Style {
	switch r.status {
	case driver.StatusDone:
		return okStyle
	case driver.StatusError:
		return failStyle
	case driver.StatusWorking:
		return activeStyle
	}
	return pendingStyle
}

// fit shortens s to width terminal cells, keeping the tail.
func fit(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	rs := []rune(s)
	for i := range rs {
		tail := string(rs[i:])
		if runewidth.StringWidth(tail)+3 <= width {
			return "..." + tail
		}
	}
	return runewidth.Truncate(s, width, "")
}

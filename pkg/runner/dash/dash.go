// Package dash hosts the Bubble Tea dashboard: today's mood, the weekly
// heatmap and a chat line that classifies what the user writes.
package dash

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/mood/pkg/aggregate"
	"tableflip.dev/mood/pkg/app"
	"tableflip.dev/mood/pkg/inference"
	"tableflip.dev/mood/pkg/mood"
	"tableflip.dev/mood/pkg/timeutil"
)

// maxTurns bounds the conversation context sent with each message.
const maxTurns = 10

// Model is the dashboard state.
type Model struct {
	svc    *app.Service
	ctx    context.Context
	cancel context.CancelFunc
	theme  Theme

	updates     <-chan app.Update
	unsubscribe func()

	today   timeutil.Date
	current *mood.DayRecord
	stats   aggregate.Stats

	input  textinput.Model
	turns  []inference.Turn
	reply  string
	crisis bool
	busy   bool
	status string

	termWidth int
}

type subscribedMsg struct {
	ch          <-chan app.Update
	unsubscribe func()
}

type updateMsg struct {
	update app.Update
}

type updatesClosedMsg struct{}

type chatDoneMsg struct {
	text  string
	reply app.ChatReply
	err   error
}

// New creates a dashboard backed by the Service.
func New(svc *app.Service) *Model {
	ti := textinput.New()
	ti.Placeholder = "How are you feeling?"
	ti.CharLimit = 280
	ti.Focus()
	ti.Prompt = "> "

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		svc:    svc,
		ctx:    ctx,
		cancel: cancel,
		theme:  DefaultTheme(),
		input:  ti,
	}
	m.refresh()
	return m
}

func (m *Model) refresh() {
	if m.svc == nil {
		return
	}
	m.today = m.svc.Today()
	m.stats = m.svc.Stats()
	m.current = m.stats.Today
}

func (m *Model) apply(u app.Update) {
	m.today = u.Today
	m.current = u.Current
	m.stats = u.Stats
	switch u.Kind {
	case app.UpdateCleared:
		m.status = "History cleared"
	case app.UpdateReconciled:
		m.status = "Synced"
	}
}

// Init subscribes to store updates.
func (m *Model) Init() tea.Cmd {
	return startSubscribeCmd(m.svc)
}

func startSubscribeCmd(svc *app.Service) tea.Cmd {
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ch, unsubscribe := svc.Subscribe()
		return subscribedMsg{ch: ch, unsubscribe: unsubscribe}
	}
}

func (m *Model) waitForUpdate() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	ch := m.updates
	return func() tea.Msg {
		if u, ok := <-ch; ok {
			return updateMsg{update: u}
		}
		return updatesClosedMsg{}
	}
}

func (m *Model) stop() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.updates = nil
	m.cancel()
}

func (m *Model) chatCmd(text string) tea.Cmd {
	svc := m.svc
	ctx := m.ctx
	turns := append([]inference.Turn(nil), m.turns...)
	return func() tea.Msg {
		reply, err := svc.Chat(ctx, text, turns)
		return chatDoneMsg{text: text, reply: reply, err: err}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.input.SetWidth(max(msg.Width-6, 10))
	case subscribedMsg:
		m.updates = msg.ch
		m.unsubscribe = msg.unsubscribe
		if cmd := m.waitForUpdate(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case updateMsg:
		m.apply(msg.update)
		if cmd := m.waitForUpdate(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case updatesClosedMsg:
		m.updates = nil
	case chatDoneMsg:
		m.busy = false
		m.handleChatDone(msg)
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.stop()
			return m, tea.Quit
		case "enter":
			return m, m.submit()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.busy || m.svc == nil {
		return nil
	}
	m.input.SetValue("")
	m.busy = true
	m.status = "Thinking..."
	return m.chatCmd(text)
}

func (m *Model) handleChatDone(msg chatDoneMsg) {
	if msg.err != nil {
		m.status = "ERR: " + msg.err.Error()
		return
	}
	m.turns = append(m.turns, inference.Turn{Role: "user", Text: msg.text})
	if msg.reply.Reply != "" {
		m.turns = append(m.turns, inference.Turn{Role: "assistant", Text: msg.reply.Reply})
	}
	if len(m.turns) > maxTurns {
		m.turns = m.turns[len(m.turns)-maxTurns:]
	}
	m.reply = msg.reply.Reply
	m.crisis = msg.reply.Crisis
	rec := msg.reply.Record
	switch {
	case msg.reply.ServiceUnavailable:
		m.status = fmt.Sprintf("Companion unavailable, recorded %s locally", rec.Sample.Label)
	default:
		m.status = fmt.Sprintf("Recorded %s (%d) from %s", rec.Sample.Label, rec.Sample.Score, rec.Sample.Source)
	}
	// The hub may already have delivered this; the snapshot is idempotent.
	m.refresh()
}

// View renders the dashboard.
func (m *Model) View() string {
	th := m.theme
	sections := []string{
		th.Title.Render("mood") + "  " + th.Faint.Render(fmt.Sprintf("%s %s", m.today.Weekday(), m.today)),
		"",
		th.Card.Render(m.renderCurrent()),
		"",
		m.renderHeatmap(),
		m.renderStats(),
	}
	if m.crisis {
		sections = append(sections, "", th.Crisis.Render("If you are in danger, please contact local emergency services or a crisis line now."))
	}
	if m.reply != "" {
		sections = append(sections, "", th.Reply.Render(wordwrap.String(m.reply, m.wrapWidth())))
	}
	sections = append(sections, "", m.input.View())
	if m.status != "" {
		sections = append(sections, th.Status.Render(m.status))
	}
	sections = append(sections, th.Help.Render("enter: send  esc: quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) wrapWidth() int {
	if m.termWidth <= 0 {
		return 72
	}
	return max(m.termWidth-4, 20)
}

func (m *Model) renderCurrent() string {
	th := m.theme
	if m.current == nil {
		return th.Faint.Render("No mood recorded today")
	}
	rec := m.current
	label := th.BucketStyle(aggregate.BucketFor(rec.Sample.Label)).Render(rec.Sample.Label)
	return fmt.Sprintf("%s  %d  %s", label, rec.Sample.Score, th.Faint.Render(string(rec.Sample.Source)))
}

func (m *Model) renderHeatmap() string {
	th := m.theme
	byDate := make(map[timeutil.Date]aggregate.Cell, len(m.stats.Heatmap))
	for _, c := range m.stats.Heatmap {
		byDate[c.Date] = c
	}
	var days, cells []string
	first := m.today.AddDays(-(mood.HistoryDays - 1))
	for d := first; !d.After(m.today); d = d.AddDays(1) {
		style := th.Weekday
		if d == m.today {
			style = th.Today
		}
		days = append(days, style.Render(d.Weekday().String()[0:2]))
		if c, ok := byDate[d]; ok {
			cells = append(cells, th.Cell(c.Bucket, c.Intensity)+" ")
		} else {
			cells = append(cells, th.EmptyCell()+" ")
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, days...),
		lipgloss.JoinHorizontal(lipgloss.Top, cells...),
	)
}

func (m *Model) renderStats() string {
	return m.theme.Faint.Render(fmt.Sprintf("avg %.1f  streak %d  days %d/%d",
		m.stats.AverageScore, m.stats.StreakLength, m.stats.Days, mood.HistoryDays))
}

// Run launches the dashboard.
func Run(svc *app.Service) error {
	m := New(svc)
	defer m.stop()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

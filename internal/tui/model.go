package tui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/7283111011/FLK2/internal/quiz"
)

// Model drives a quiz session from the keyboard.
type Model struct {
	session      *quiz.Session
	title        string
	keys         keyMap
	help         help.Model
	progress     progress.Model
	tickInterval time.Duration
	noColor      bool

	cursor   int
	feedback string
	elapsed  string
	summary  *quiz.Summary
	quitting bool
}

type Options struct {
	Title        string
	NoColor      bool
	TickInterval time.Duration
}

func NewModel(session *quiz.Session, opts Options) Model {
	tickInterval := opts.TickInterval
	if tickInterval <= 0 {
		tickInterval = time.Second
	}
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(40))
	if opts.NoColor {
		bar = progress.New(progress.WithSolidFill("7"), progress.WithoutPercentage(), progress.WithWidth(40))
	}
	return Model{
		session:      session,
		title:        opts.Title,
		keys:         defaultKeyMap(),
		help:         help.New(),
		progress:     bar,
		tickInterval: tickInterval,
		noColor:      opts.NoColor,
		elapsed:      session.Timer().Display(),
	}
}

// Summary returns the final result once the quiz has been finished.
func (m Model) Summary() (quiz.Summary, bool) {
	if m.summary == nil {
		return quiz.Summary{}, false
	}
	return *m.summary, true
}

// tickMsg refreshes the timer display. Ticks from an older timer generation
// are dropped so a stopped or reset timer ends its chain.
type tickMsg struct {
	generation uint64
	at         time.Time
}

func (m Model) tick() tea.Cmd {
	generation := m.session.Timer().Generation()
	return tea.Tick(m.tickInterval, func(t time.Time) tea.Msg {
		return tickMsg{generation: generation, at: t}
	})
}

// Init shows the first question, which starts the timer.
func (m Model) Init() tea.Cmd {
	m.session.Start()
	if m.session.Len() == 0 {
		return nil
	}
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = typed.Width
		m.progress.Width = min(max(typed.Width-4, 10), 60)
		return m, nil
	case tickMsg:
		timer := m.session.Timer()
		if typed.generation != timer.Generation() || !timer.Running() {
			return m, nil
		}
		m.elapsed = timer.Tick()
		return m, m.tick()
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	if m.summary == nil && msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		if question, ok := m.session.Current(); ok {
			letter := quiz.NormalizeLetter(string(msg.Runes))
			for idx, option := range question.Options {
				if option.Letter == letter {
					return m.selectOption(idx), nil
				}
			}
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Restart):
		return m.restart()
	}
	if m.summary != nil || m.session.Len() == 0 {
		if key.Matches(msg, m.keys.Confirm) && m.summary == nil {
			return m.finish()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		return m.selectOption(m.cursor - 1), nil
	case key.Matches(msg, m.keys.Down):
		return m.selectOption(m.cursor + 1), nil
	case key.Matches(msg, m.keys.Confirm):
		return m.confirm()
	case key.Matches(msg, m.keys.Prev):
		return m.goTo(m.session.CurrentIndex() - 1), nil
	case key.Matches(msg, m.keys.Next):
		return m.goTo(m.session.CurrentIndex() + 1), nil
	case key.Matches(msg, m.keys.Jump):
		n, _ := strconv.Atoi(msg.String())
		return m.goTo(n - 1), nil
	case key.Matches(msg, m.keys.Flag):
		_ = m.session.ToggleFlag(m.session.CurrentIndex())
		return m, nil
	}
	return m, nil
}

// selectOption moves the cursor to idx and records that option as the
// pending choice. Answered questions keep their locked answer.
func (m Model) selectOption(idx int) Model {
	question, ok := m.session.Current()
	if !ok || len(question.Options) == 0 {
		return m
	}
	if m.session.Snapshot().Questions[m.session.CurrentIndex()].Answered {
		return m
	}
	idx = (idx + len(question.Options)) % len(question.Options)
	m.cursor = idx
	if err := m.session.SelectOption(m.session.CurrentIndex(), question.Options[idx].Letter); err == nil {
		m.feedback = ""
	}
	return m
}

func (m Model) confirm() (tea.Model, tea.Cmd) {
	index := m.session.CurrentIndex()
	snapshot := m.session.Snapshot()
	answered := snapshot.Questions[index].Answered

	if !answered && m.session.ExplicitConfirm() {
		outcome, err := m.session.SubmitAnswer(index)
		if err != nil {
			return m, nil
		}
		m.feedback = outcome.Feedback()
		return m, nil
	}

	signal := m.session.Advance()
	switch signal {
	case quiz.SignalOK:
		m.feedback = ""
		if !answered {
			m.feedback = m.previousFeedback(index)
		}
		m.cursor = m.cursorForCurrent()
		return m, nil
	case quiz.SignalFinished:
		return m.finish()
	default:
		m.feedback = signal.Message()
		return m, nil
	}
}

// previousFeedback reports the result of a question auto-submitted by a
// single-step advance.
func (m Model) previousFeedback(index int) string {
	state := m.session.Snapshot().Questions[index]
	if !state.Answered {
		return ""
	}
	question, _ := m.session.Question(index)
	outcome := quiz.Outcome{
		Signal:        quiz.SignalOK,
		Index:         index,
		Selected:      state.Selection,
		Correct:       state.Correct,
		CorrectLetter: question.CorrectLetter,
		Explanation:   question.Explanation,
	}
	return "Q" + question.Number + ": " + outcome.Feedback()
}

func (m Model) goTo(index int) Model {
	if err := m.session.GoTo(index); err != nil {
		return m
	}
	m.feedback = ""
	m.cursor = m.cursorForCurrent()
	return m
}

// cursorForCurrent places the cursor on the current question's selection.
func (m Model) cursorForCurrent() int {
	question, ok := m.session.Current()
	if !ok {
		return 0
	}
	selection := m.session.Snapshot().Questions[m.session.CurrentIndex()].Selection
	for idx, option := range question.Options {
		if option.Letter == selection {
			return idx
		}
	}
	return 0
}

func (m Model) finish() (tea.Model, tea.Cmd) {
	summary, err := m.session.Finish()
	if err != nil {
		return m, nil
	}
	m.summary = &summary
	m.elapsed = m.session.Timer().Display()
	m.feedback = ""
	return m, nil
}

func (m Model) restart() (tea.Model, tea.Cmd) {
	m.session.Restart()
	m.session.Start()
	m.summary = nil
	m.feedback = ""
	m.cursor = 0
	m.elapsed = m.session.Timer().Display()
	if m.session.Len() == 0 {
		return m, nil
	}
	return m, m.tick()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.session.Timer().Stop()
	m.quitting = true
	return m, tea.Quit
}

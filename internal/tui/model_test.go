package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/7283111011/FLK2/internal/quiz"
	"github.com/7283111011/FLK2/internal/timer"
)

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

func sampleQuestions() []quiz.Question {
	options := []quiz.Option{{Letter: "A", Text: "alpha"}, {Letter: "B", Text: "beta"}, {Letter: "C", Text: "gamma"}}
	return []quiz.Question{
		{Number: "1", Text: "First?", Options: options, CorrectLetter: "A", Explanation: "A is first."},
		{Number: "2", Text: "Second?", Options: options, CorrectLetter: "B"},
		{Number: "3", Text: "Third?", Options: options, CorrectLetter: "A"},
	}
}

func newTestModel(t *testing.T, opts ...quiz.SessionOption) (Model, *stepClock) {
	t.Helper()

	clock := &stepClock{now: time.Unix(1700000000, 0)}
	opts = append(opts, quiz.WithTimer(timer.New(timer.WithClock(clock))))
	session, err := quiz.NewSession(sampleQuestions(), opts...)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	model := NewModel(session, Options{Title: "Test quiz", NoColor: true})
	if cmd := model.Init(); cmd == nil {
		t.Fatalf("expected tick command from Init")
	}
	return model, clock
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func enter() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestLetterSelectsAndEnterConfirms(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, enter())
	if m.feedback != "Please select an answer." {
		t.Fatalf("feedback = %q", m.feedback)
	}

	m = press(t, m, runes("a"), enter())
	if m.feedback != "Correct. A is first." {
		t.Fatalf("feedback = %q", m.feedback)
	}
	if m.session.CurrentIndex() != 0 {
		t.Fatalf("confirm should not advance, index = %d", m.session.CurrentIndex())
	}

	m = press(t, m, enter())
	if m.session.CurrentIndex() != 1 || m.feedback != "" {
		t.Fatalf("expected advance to question 2, got index %d feedback %q", m.session.CurrentIndex(), m.feedback)
	}
}

func TestArrowKeysMoveSelection(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
	if got := m.session.Snapshot().Questions[0].Selection; got != "B" {
		t.Fatalf("selection = %q, want B", got)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 2 {
		t.Fatalf("cursor should wrap to 2, got %d", m.cursor)
	}
}

func TestIncorrectAnswerFeedback(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, runes("b"), enter(), enter(), runes("c"), enter())
	if m.session.CurrentIndex() != 1 {
		t.Fatalf("index = %d, want 1", m.session.CurrentIndex())
	}
	if !strings.HasPrefix(m.feedback, "Incorrect. Correct answer: B.") {
		t.Fatalf("feedback = %q", m.feedback)
	}
}

func TestNavigationKeys(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight})
	if m.session.CurrentIndex() != 2 {
		t.Fatalf("right past the end should stay on last, got %d", m.session.CurrentIndex())
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.session.CurrentIndex() != 1 {
		t.Fatalf("left = %d, want 1", m.session.CurrentIndex())
	}
	m = press(t, m, runes("1"))
	if m.session.CurrentIndex() != 0 {
		t.Fatalf("jump to 1 = %d, want 0", m.session.CurrentIndex())
	}
	m = press(t, m, runes("9"))
	if m.session.CurrentIndex() != 0 {
		t.Fatalf("out of range jump should be ignored, got %d", m.session.CurrentIndex())
	}
}

func TestFlagKey(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, runes("f"))
	if !m.session.Snapshot().Questions[0].Flagged {
		t.Fatalf("expected question 1 flagged")
	}
	m = press(t, m, runes("f"))
	if m.session.Snapshot().Questions[0].Flagged {
		t.Fatalf("expected flag toggled off")
	}
}

func TestFinishShowsSummary(t *testing.T) {
	m, clock := newTestModel(t)

	clock.now = clock.now.Add(83 * time.Second)
	m = press(t, m,
		runes("a"), enter(), enter(),
		runes("a"), enter(), enter(),
		runes("a"), enter(), enter(),
	)

	summary, ok := m.Summary()
	if !ok {
		t.Fatalf("expected finished quiz")
	}
	if summary.String() != "2/3 (67%)" {
		t.Fatalf("summary = %s", summary)
	}
	view := m.View()
	if !strings.Contains(view, "Score: 2/3 (67%)") || !strings.Contains(view, "Time: 01:23") {
		t.Fatalf("unexpected summary view:\n%s", view)
	}
}

func TestStaleTickIsDropped(t *testing.T) {
	m, clock := newTestModel(t)
	stale := m.session.Timer().Generation()

	m = press(t, m, runes("r"))
	clock.now = clock.now.Add(5 * time.Second)

	_, cmd := m.Update(tickMsg{generation: stale, at: clock.now})
	if cmd != nil {
		t.Fatalf("expected stale tick to end its chain")
	}

	next, cmd := m.Update(tickMsg{generation: m.session.Timer().Generation(), at: clock.now})
	if cmd == nil {
		t.Fatalf("expected live tick to schedule the next one")
	}
	if got := next.(Model).elapsed; got != "00:05" {
		t.Fatalf("elapsed = %q, want 00:05", got)
	}
}

func TestTickStopsAfterFinish(t *testing.T) {
	session, err := quiz.NewSession(nil)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	m := NewModel(session, Options{NoColor: true})
	m.Init()

	m = press(t, m, enter())
	if _, ok := m.Summary(); !ok {
		t.Fatalf("expected empty quiz to finish on enter")
	}
	_, cmd := m.Update(tickMsg{generation: session.Timer().Generation()})
	if cmd != nil {
		t.Fatalf("expected no tick while timer is stopped")
	}
}

func TestSingleStepEnterSubmitsAndAdvances(t *testing.T) {
	m, _ := newTestModel(t, quiz.WithExplicitConfirm(false))

	m = press(t, m, runes("a"), enter())
	if m.session.CurrentIndex() != 1 {
		t.Fatalf("index = %d, want 1", m.session.CurrentIndex())
	}
	if m.feedback != "Q1: Correct. A is first." {
		t.Fatalf("feedback = %q", m.feedback)
	}
	if m.session.Score().String() != "1/1 (100%)" {
		t.Fatalf("score = %s", m.session.Score())
	}
}

func TestRestartClearsProgress(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, runes("a"), enter(), enter(), runes("f"), runes("r"))
	snapshot := m.session.Snapshot()
	if snapshot.CurrentIndex != 0 || snapshot.Navigation.Answered != 0 || snapshot.Navigation.Flagged != 0 {
		t.Fatalf("unexpected snapshot after restart: %+v", snapshot)
	}
	if !m.session.Timer().Running() {
		t.Fatalf("expected timer running after restart")
	}
}

func TestQuitStopsTimer(t *testing.T) {
	m, _ := newTestModel(t)

	next, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if next.(Model).session.Timer().Running() {
		t.Fatalf("expected timer stopped on quit")
	}
}

func TestViewShowsQuestionAndNavigation(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, runes("f"), runes("b"))

	view := m.View()
	for _, want := range []string{"Test quiz | Question 1 of 3", "1. First?", "(•) B. beta", "[1*]", "Score: 0/0 (0%)"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/7283111011/FLK2/internal/quiz"
)

func newTestSession(t *testing.T, opts ...quiz.SessionOption) *quiz.Session {
	t.Helper()
	questions := []quiz.Question{
		{
			Number:        "1",
			Text:          "Which is the second letter?",
			Options:       []quiz.Option{{Letter: "A", Text: "alpha"}, {Letter: "B", Text: "beta"}},
			CorrectLetter: "B",
		},
		{
			Number:        "2",
			Text:          "Which is the first letter?",
			Options:       []quiz.Option{{Letter: "A", Text: "alpha"}, {Letter: "B", Text: "beta"}, {Letter: "C", Text: "gamma"}},
			CorrectLetter: "A",
			Explanation:   "Alpha comes first.",
		},
	}
	session, err := quiz.NewSession(questions, opts...)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return session
}

func play(t *testing.T, session *quiz.Session, input string) (quiz.Summary, bool, string) {
	t.Helper()
	var out bytes.Buffer
	summary, finished, err := Play(context.Background(), session, strings.NewReader(input), &out, PlainOptions{Title: "Letters"})
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	return summary, finished, out.String()
}

func assertContains(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, needle := range want {
		if !strings.Contains(output, needle) {
			t.Fatalf("output missing %q:\n%s", needle, output)
		}
	}
}

func TestPlayExplicitConfirmFlow(t *testing.T) {
	session := newTestSession(t)

	summary, finished, output := play(t, session, "b\n\n\nc\n\n\n")
	if !finished {
		t.Fatalf("expected quiz to finish:\n%s", output)
	}
	if summary.Correct != 1 || summary.Total != 2 || summary.Percentage != 50 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	assertContains(t, output,
		"Letters | Question 1 of 2",
		"Selected B. Press enter to confirm.",
		"Correct.",
		"Score: 1/1 (100%)",
		"Q2: Which is the first letter?",
		"Incorrect. Correct answer: A. Alpha comes first.",
		"Final score: 1/2 (50%)",
	)
}

func TestPlayRefusesToAdvanceUnanswered(t *testing.T) {
	session := newTestSession(t)

	_, finished, output := play(t, session, "next\n\nquit\n")
	if finished {
		t.Fatalf("quit should not finish the quiz")
	}
	assertContains(t, output, quiz.SignalMustAnswer.Message(), quiz.SignalNoSelection.Message())
	if session.CurrentIndex() != 0 {
		t.Fatalf("session moved to %d", session.CurrentIndex())
	}
}

func TestPlaySingleStepSubmitsOnAdvance(t *testing.T) {
	session := newTestSession(t, quiz.WithExplicitConfirm(false))

	summary, finished, output := play(t, session, "b\n\n\n")
	if !finished {
		t.Fatalf("expected quiz to finish:\n%s", output)
	}
	assertContains(t, output, "Selected B. Press enter to continue.", "Q1: Correct.")
	if summary.Attempted != 1 || summary.Correct != 1 || summary.Percentage != 50 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestPlayNavigationCommands(t *testing.T) {
	session := newTestSession(t)

	input := strings.Join([]string{
		"goto 2",
		"flag",
		"status",
		"goto 9",
		"prev",
		"finish",
		"",
	}, "\n")
	_, finished, output := play(t, session, input)
	if finished {
		t.Fatalf("finish away from the last question should be refused")
	}
	assertContains(t, output,
		"1 [2!]",
		"flagged 1",
		"No question 9. Choose 1-2.",
		"You can only finish from the last question.",
	)
	if session.CurrentIndex() != 0 {
		t.Fatalf("prev should return to the first question, got %d", session.CurrentIndex())
	}
}

func TestPlayRejectsUnknownLetter(t *testing.T) {
	session := newTestSession(t)

	_, _, output := play(t, session, "z\nhelp\n")
	assertContains(t, output, `Invalid input. Please enter a letter A-B or "help".`, "goto <n>")
}

func TestPlayRestartClearsAnswers(t *testing.T) {
	session := newTestSession(t)

	_, _, output := play(t, session, "a\n\nrestart\nstatus\n")
	assertContains(t, output, "Incorrect. Correct answer: B.", "Quiz restarted.", "Answered 0, unanswered 2")
	if got := session.Score(); got.Attempted != 0 {
		t.Fatalf("score not cleared: %+v", got)
	}
}

func TestPlayEmptySetFinishesImmediately(t *testing.T) {
	session, err := quiz.NewSession(nil)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	summary, finished, output := play(t, session, "")
	if !finished || summary.Total != 0 || summary.Percentage != 0 {
		t.Fatalf("unexpected result: finished=%v summary=%+v", finished, summary)
	}
	assertContains(t, output, "This question set is empty.", "Final score: 0/0 (0%)")
}

func TestPlayStopsOnCanceledContext(t *testing.T) {
	session := newTestSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, finished, err := Play(ctx, session, strings.NewReader("b\n"), &out, PlainOptions{})
	if err == nil || finished {
		t.Fatalf("expected context error, got finished=%v err=%v", finished, err)
	}
}

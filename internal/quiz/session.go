package quiz

import (
	"fmt"

	"github.com/7283111011/FLK2/internal/timer"
)

// Session is one run through a fixed question set.
//
// Each question moves from unanswered to answered exactly once per run;
// only Restart takes it back. Flags are independent of answer state.
// A Session is not safe for concurrent use.
type Session struct {
	questions []Question
	current   int
	selection []string
	answered  []bool
	correct   []bool
	flagged   []bool
	finished  bool

	explicitConfirm bool
	timer           *timer.Timer
}

type SessionOption func(*Session)

// WithExplicitConfirm selects the answer flow. With true (the default) Advance
// refuses to leave an unanswered question. With false Advance submits a
// pending selection itself and moves on even when nothing is selected.
func WithExplicitConfirm(required bool) SessionOption {
	return func(s *Session) {
		s.explicitConfirm = required
	}
}

func WithTimer(t *timer.Timer) SessionOption {
	return func(s *Session) {
		if t != nil {
			s.timer = t
		}
	}
}

// NewSession copies questions into a new session positioned on the first
// question. An empty set is allowed; its scores are all zero.
func NewSession(questions []Question, opts ...SessionOption) (*Session, error) {
	copied := make([]Question, len(questions))
	for idx, question := range questions {
		if err := checkQuestion(idx, question); err != nil {
			return nil, err
		}
		question.Options = append([]Option(nil), question.Options...)
		question.CorrectLetter = NormalizeLetter(question.CorrectLetter)
		if question.Number == "" {
			question.Number = fmt.Sprint(idx + 1)
		}
		copied[idx] = question
	}

	s := &Session{
		questions:       copied,
		explicitConfirm: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.timer == nil {
		s.timer = timer.New()
	}
	s.clear()
	return s, nil
}

func (s *Session) clear() {
	n := len(s.questions)
	s.current = 0
	s.selection = make([]string, n)
	s.answered = make([]bool, n)
	s.correct = make([]bool, n)
	s.flagged = make([]bool, n)
	s.finished = false
}

func (s *Session) Len() int { return len(s.questions) }

func (s *Session) CurrentIndex() int { return s.current }

func (s *Session) ExplicitConfirm() bool { return s.explicitConfirm }

func (s *Session) Timer() *timer.Timer { return s.timer }

func (s *Session) Finished() bool { return s.finished }

// Current returns the question on display; false for an empty set.
func (s *Session) Current() (Question, bool) {
	return s.Question(s.current)
}

func (s *Session) Question(index int) (Question, bool) {
	if index < 0 || index >= len(s.questions) {
		return Question{}, false
	}
	return s.questions[index], true
}

// Start marks the first display of a question and starts the timer.
func (s *Session) Start() {
	if len(s.questions) == 0 {
		return
	}
	s.timer.Start()
}

// SelectOption records letter as the pending choice for the current
// question. Selections on answered questions are ignored.
func (s *Session) SelectOption(index int, letter string) error {
	if err := s.checkCurrent(index); err != nil {
		return err
	}
	if s.answered[index] {
		return nil
	}

	normalized := NormalizeLetter(letter)
	if !s.questions[index].HasOption(normalized) {
		return fmt.Errorf("%w: %q", ErrUnknownOption, letter)
	}
	s.selection[index] = normalized
	return nil
}

// SubmitAnswer locks in the selection for the current question. Without a
// selection it returns SignalNoSelection and changes nothing; on an answered
// question it returns the stored result with SignalAlreadyAnswered.
func (s *Session) SubmitAnswer(index int) (Outcome, error) {
	if err := s.checkCurrent(index); err != nil {
		return Outcome{}, err
	}
	return s.submit(index), nil
}

func (s *Session) submit(index int) Outcome {
	if s.answered[index] {
		outcome := s.outcome(index)
		outcome.Signal = SignalAlreadyAnswered
		return outcome
	}
	if s.selection[index] == "" {
		return Outcome{Signal: SignalNoSelection, Index: index}
	}

	s.answered[index] = true
	s.correct[index] = s.selection[index] == s.questions[index].CorrectLetter
	return s.outcome(index)
}

func (s *Session) outcome(index int) Outcome {
	question := s.questions[index]
	return Outcome{
		Signal:        SignalOK,
		Index:         index,
		Selected:      s.selection[index],
		Correct:       s.correct[index],
		CorrectLetter: question.CorrectLetter,
		Explanation:   question.Explanation,
	}
}

// GoTo moves to any question regardless of answer state.
func (s *Session) GoTo(index int) error {
	if err := s.checkRange(index); err != nil {
		return err
	}
	s.current = index
	s.timer.Start()
	return nil
}

// Advance moves to the next question. On the last question it returns
// SignalFinished and stays put; the caller then calls Finish.
func (s *Session) Advance() Signal {
	if len(s.questions) == 0 {
		return SignalFinished
	}

	if !s.answered[s.current] {
		if s.explicitConfirm {
			return SignalMustAnswer
		}
		if s.selection[s.current] != "" {
			s.submit(s.current)
		}
	}

	if s.current == len(s.questions)-1 {
		return SignalFinished
	}
	s.current++
	s.timer.Start()
	return SignalOK
}

func (s *Session) ToggleFlag(index int) error {
	if err := s.checkRange(index); err != nil {
		return err
	}
	s.flagged[index] = !s.flagged[index]
	return nil
}

// Finish stops the timer and returns the final summary. It is only valid on
// the last question; an empty set can always be finished.
func (s *Session) Finish() (Summary, error) {
	if len(s.questions) > 0 && s.current != len(s.questions)-1 {
		return Summary{}, ErrNotAtEnd
	}
	s.timer.Stop()
	s.finished = true
	return s.summary(), nil
}

// Restart clears every answer and flag, returns to the first question and
// resets the timer. The question set is kept.
func (s *Session) Restart() {
	s.clear()
	s.timer.Reset()
}

// Score is the running scoreboard.
func (s *Session) Score() Score {
	correct, attempted := s.counts()
	return newScore(correct, attempted)
}

func (s *Session) summary() Summary {
	correct, attempted := s.counts()
	return newSummary(correct, attempted, len(s.questions))
}

func (s *Session) counts() (correct, attempted int) {
	for idx := range s.questions {
		if !s.answered[idx] {
			continue
		}
		attempted++
		if s.correct[idx] {
			correct++
		}
	}
	return correct, attempted
}

func (s *Session) checkRange(index int) error {
	if index < 0 || index >= len(s.questions) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(s.questions))
	}
	return nil
}

func (s *Session) checkCurrent(index int) error {
	if err := s.checkRange(index); err != nil {
		return err
	}
	if index != s.current {
		return fmt.Errorf("%w: %d (current %d)", ErrNotCurrentQuestion, index, s.current)
	}
	return nil
}

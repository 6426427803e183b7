package quiz

import (
	"errors"
	"fmt"
)

var (
	ErrIndexOutOfRange    = errors.New("question index out of range")
	ErrNotCurrentQuestion = errors.New("question is not the current question")
	ErrUnknownOption      = errors.New("option letter not offered by question")
	ErrNotAtEnd           = errors.New("quiz can only be finished from the last question")
)

// Signal is advisory feedback for a user action that was accepted, ignored
// or refused without being an error.
type Signal int

const (
	SignalOK Signal = iota
	SignalNoSelection
	SignalAlreadyAnswered
	SignalMustAnswer
	SignalFinished
)

func (s Signal) String() string {
	switch s {
	case SignalOK:
		return "ok"
	case SignalNoSelection:
		return "no_selection"
	case SignalAlreadyAnswered:
		return "already_answered"
	case SignalMustAnswer:
		return "must_answer"
	case SignalFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Message is the inline text a presentation layer shows for the signal.
func (s Signal) Message() string {
	switch s {
	case SignalNoSelection:
		return "Please select an answer."
	case SignalAlreadyAnswered:
		return "This question has already been answered."
	case SignalMustAnswer:
		return "Please confirm your answer before advancing."
	case SignalFinished:
		return "That was the last question."
	default:
		return ""
	}
}

func (s Signal) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Signal) UnmarshalText(text []byte) error {
	for candidate := SignalOK; candidate <= SignalFinished; candidate++ {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown signal %q", text)
}

package quiz

import "fmt"

// Outcome is the result of a submit.
type Outcome struct {
	Signal        Signal `json:"signal"`
	Index         int    `json:"index"`
	Selected      string `json:"selected,omitempty"`
	Correct       bool   `json:"correct"`
	CorrectLetter string `json:"correct_letter,omitempty"`
	Explanation   string `json:"explanation,omitempty"`
}

// Answered reports whether the outcome carries a locked-in answer.
func (o Outcome) Answered() bool {
	return o.Signal == SignalOK || o.Signal == SignalAlreadyAnswered
}

func (o Outcome) Feedback() string {
	if !o.Answered() {
		return o.Signal.Message()
	}

	explanation := ""
	if o.Explanation != "" {
		explanation = " " + o.Explanation
	}
	if o.Correct {
		return "Correct." + explanation
	}
	return fmt.Sprintf("Incorrect. Correct answer: %s.%s", o.CorrectLetter, explanation)
}

type NavStatus string

const (
	NavUnanswered NavStatus = "unanswered"
	NavCorrect    NavStatus = "correct"
	NavIncorrect  NavStatus = "incorrect"
)

type QuestionState struct {
	Index     int       `json:"index"`
	Number    string    `json:"number"`
	Selection string    `json:"selection,omitempty"`
	Answered  bool      `json:"answered"`
	Correct   bool      `json:"correct"`
	Flagged   bool      `json:"flagged"`
	Current   bool      `json:"current"`
	Status    NavStatus `json:"status"`
}

// Navigation summarizes the navigation strip.
type Navigation struct {
	Answered   int `json:"answered"`
	Unanswered int `json:"unanswered"`
	Flagged    int `json:"flagged"`
}

// Snapshot is a read-only copy of the session for rendering.
type Snapshot struct {
	CurrentIndex    int             `json:"current_index"`
	Total           int             `json:"total"`
	Questions       []QuestionState `json:"questions"`
	Score           Score           `json:"score"`
	Summary         *Summary        `json:"summary,omitempty"`
	Finished        bool            `json:"finished"`
	Elapsed         string          `json:"elapsed"`
	TimerRunning    bool            `json:"timer_running"`
	Navigation      Navigation      `json:"navigation"`
	ExplicitConfirm bool            `json:"explicit_confirm"`
}

// Snapshot does not mutate session state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		CurrentIndex:    s.current,
		Total:           len(s.questions),
		Questions:       make([]QuestionState, 0, len(s.questions)),
		Score:           s.Score(),
		Finished:        s.finished,
		Elapsed:         s.timer.Display(),
		TimerRunning:    s.timer.Running(),
		ExplicitConfirm: s.explicitConfirm,
	}

	for idx, question := range s.questions {
		state := QuestionState{
			Index:     idx,
			Number:    question.Number,
			Selection: s.selection[idx],
			Answered:  s.answered[idx],
			Correct:   s.answered[idx] && s.correct[idx],
			Flagged:   s.flagged[idx],
			Current:   idx == s.current,
			Status:    NavUnanswered,
		}
		if state.Answered {
			state.Status = NavIncorrect
			if state.Correct {
				state.Status = NavCorrect
			}
			snap.Navigation.Answered++
		} else {
			snap.Navigation.Unanswered++
		}
		if state.Flagged {
			snap.Navigation.Flagged++
		}
		snap.Questions = append(snap.Questions, state)
	}

	if s.finished {
		summary := s.summary()
		snap.Summary = &summary
	}
	return snap
}

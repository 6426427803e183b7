package quiz

import (
	"fmt"
	"strings"
)

type Option struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

// Question is one multiple-choice item. Options keep their display order.
type Question struct {
	Number        string   `json:"number"`
	Text          string   `json:"question"`
	Options       []Option `json:"options"`
	CorrectLetter string   `json:"answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// PublicQuestion is a Question without its answer key.
type PublicQuestion struct {
	Number  string   `json:"number"`
	Text    string   `json:"question"`
	Options []Option `json:"options"`
}

func (q Question) Public() PublicQuestion {
	return PublicQuestion{
		Number:  q.Number,
		Text:    q.Text,
		Options: q.Options,
	}
}

// HasOption reports whether letter is one of the question's option keys.
func (q Question) HasOption(letter string) bool {
	_, ok := q.OptionText(letter)
	return ok
}

func (q Question) OptionText(letter string) (string, bool) {
	letter = NormalizeLetter(letter)
	if letter == "" {
		return "", false
	}
	for _, option := range q.Options {
		if option.Letter == letter {
			return option.Text, true
		}
	}
	return "", false
}

// Letters returns the option keys in display order.
func (q Question) Letters() []string {
	letters := make([]string, 0, len(q.Options))
	for _, option := range q.Options {
		letters = append(letters, option.Letter)
	}
	return letters
}

// MalformedQuestionError reports a question that cannot be presented.
type MalformedQuestionError struct {
	Index  int
	Reason string
}

func (e *MalformedQuestionError) Error() string {
	return fmt.Sprintf("question %d is malformed: %s", e.Index, e.Reason)
}

func checkQuestion(index int, q Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return &MalformedQuestionError{Index: index, Reason: "question text is empty"}
	}
	if len(q.Options) == 0 {
		return &MalformedQuestionError{Index: index, Reason: "no options"}
	}

	seen := make(map[string]struct{}, len(q.Options))
	for _, option := range q.Options {
		if len([]rune(option.Letter)) != 1 || NormalizeLetter(option.Letter) != option.Letter {
			return &MalformedQuestionError{Index: index, Reason: fmt.Sprintf("invalid option letter %q", option.Letter)}
		}
		if _, dup := seen[option.Letter]; dup {
			return &MalformedQuestionError{Index: index, Reason: fmt.Sprintf("duplicate option letter %q", option.Letter)}
		}
		seen[option.Letter] = struct{}{}
	}
	return nil
}

// NormalizeLetter trims and upper-cases a single-character answer key.
// Anything longer than one character normalizes to "".
func NormalizeLetter(answer string) string {
	letter := strings.ToUpper(strings.TrimSpace(answer))
	if len([]rune(letter)) != 1 {
		return ""
	}
	return letter
}

// LetterForIndex maps 0 -> "A", 1 -> "B", ...
func LetterForIndex(index int) string {
	if index < 0 || index >= 26 {
		return ""
	}
	return string(rune('A' + index))
}

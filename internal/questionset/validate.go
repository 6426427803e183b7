package questionset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/7283111011/FLK2/internal/quiz"
)

// Issue captures a validation problem in a question set.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every issue found in a question set.
type ValidationError struct {
	Issues []Issue
}

func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("question set validation failed: %s", strings.Join(parts, "; "))
}

type issueCollector struct {
	issues []Issue
}

func (collector *issueCollector) add(field, message string) {
	collector.issues = append(collector.issues, Issue{Field: field, Message: message})
}

func (collector *issueCollector) result() error {
	if len(collector.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: collector.issues}
}

// Normalize trims a document and converts it into validated questions.
func Normalize(doc Document) ([]quiz.Question, error) {
	questions := make([]quiz.Question, 0, len(doc.Questions))
	for _, record := range doc.Questions {
		options := make([]quiz.Option, 0, len(record.Options))
		for _, option := range record.Options {
			options = append(options, quiz.Option{
				Letter: strings.ToUpper(strings.TrimSpace(option.Letter)),
				Text:   strings.TrimSpace(option.Text),
			})
		}
		questions = append(questions, quiz.Question{
			Number:        strings.TrimSpace(string(record.Number)),
			Text:          strings.TrimSpace(record.Question),
			Options:       options,
			CorrectLetter: strings.ToUpper(strings.TrimSpace(record.Answer)),
			Explanation:   strings.TrimSpace(record.Explanation),
		})
	}

	if err := Validate(questions); err != nil {
		return nil, err
	}
	for idx := range questions {
		if questions[idx].Number == "" {
			questions[idx].Number = strconv.Itoa(idx + 1)
		}
	}
	return questions, nil
}

// Validate checks that a set is non-empty and every question can be played
// and scored.
func Validate(questions []quiz.Question) error {
	collector := &issueCollector{}
	if len(questions) == 0 {
		collector.add("questions", "must include at least one entry")
	}

	for i, question := range questions {
		prefix := fmt.Sprintf("questions[%d]", i)
		if strings.TrimSpace(question.Text) == "" {
			collector.add(prefix+".question", "is required")
		}
		if len(question.Options) == 0 {
			collector.add(prefix+".options", "must include at least one entry")
		}

		seen := make(map[string]struct{}, len(question.Options))
		for j, option := range question.Options {
			field := fmt.Sprintf("%s.options[%d]", prefix, j)
			if len([]rune(option.Letter)) != 1 || quiz.NormalizeLetter(option.Letter) != option.Letter {
				collector.add(field+".letter", fmt.Sprintf("must be a single upper-case character, got %q", option.Letter))
			} else if _, dup := seen[option.Letter]; dup {
				collector.add(field+".letter", fmt.Sprintf("duplicate letter %q", option.Letter))
			}
			seen[option.Letter] = struct{}{}
			if strings.TrimSpace(option.Text) == "" {
				collector.add(field+".text", "is required")
			}
		}

		switch {
		case question.CorrectLetter == "":
			collector.add(prefix+".answer", "is required")
		case len(question.Options) > 0 && !question.HasOption(question.CorrectLetter):
			collector.add(prefix+".answer", fmt.Sprintf("unknown option %q", question.CorrectLetter))
		}
	}

	return collector.result()
}

package questionset

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/7283111011/FLK2/internal/opentdb"
	"github.com/7283111011/FLK2/internal/quiz"
)

// FromOpenTDB converts trivia payloads into a validated set. Options are
// ordered by text so the correct answer's position carries no hint.
func FromOpenTDB(raw []opentdb.RawQuestion) (Set, error) {
	questions := make([]quiz.Question, 0, len(raw))
	for idx, item := range raw {
		questions = append(questions, buildQuestion(idx, item))
	}
	if err := Validate(questions); err != nil {
		return Set{}, err
	}
	return Set{
		SetMetadata: SetMetadata{
			Title:         "Open Trivia",
			Source:        SourceOpenTDB,
			QuestionCount: len(questions),
		},
		Questions: questions,
	}, nil
}

func buildQuestion(idx int, raw opentdb.RawQuestion) quiz.Question {
	type choice struct {
		text      string
		isCorrect bool
	}

	choices := make([]choice, 0, len(raw.IncorrectAnswers)+1)
	for _, incorrect := range raw.IncorrectAnswers {
		choices = append(choices, choice{text: html.UnescapeString(incorrect)})
	}
	choices = append(choices, choice{
		text:      html.UnescapeString(raw.CorrectAnswer),
		isCorrect: true,
	})

	sort.SliceStable(choices, func(i, j int) bool {
		return strings.ToLower(choices[i].text) < strings.ToLower(choices[j].text)
	})

	question := quiz.Question{
		Number:  strconv.Itoa(idx + 1),
		Text:    html.UnescapeString(raw.Question),
		Options: make([]quiz.Option, len(choices)),
	}
	for pos, candidate := range choices {
		letter := quiz.LetterForIndex(pos)
		question.Options[pos] = quiz.Option{Letter: letter, Text: candidate.text}
		if candidate.isCorrect {
			question.CorrectLetter = letter
		}
	}

	if category := html.UnescapeString(raw.Category); category != "" {
		question.Explanation = fmt.Sprintf("Category: %s.", category)
		if raw.Difficulty != "" {
			question.Explanation = fmt.Sprintf("Category: %s (%s).", category, raw.Difficulty)
		}
	}
	return question
}

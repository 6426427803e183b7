package quiz

import (
	"errors"
	"testing"
)

func TestNormalizeLetter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim and uppercase", input: " a ", want: "A"},
		{name: "already uppercase", input: "B", want: "B"},
		{name: "empty", input: "", want: ""},
		{name: "multiple chars", input: "AB", want: ""},
		{name: "whitespace", input: "   ", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeLetter(tc.input); got != tc.want {
				t.Fatalf("NormalizeLetter(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestLetterForIndex(t *testing.T) {
	if LetterForIndex(0) != "A" || LetterForIndex(25) != "Z" {
		t.Fatalf("unexpected letters for bounds")
	}
	if LetterForIndex(26) != "" || LetterForIndex(-1) != "" {
		t.Fatalf("expected empty letter outside A-Z")
	}
}

func TestPublicHidesAnswer(t *testing.T) {
	q := Question{
		Number:        "1",
		Text:          "Q",
		Options:       []Option{{Letter: "A", Text: "x"}, {Letter: "B", Text: "y"}},
		CorrectLetter: "B",
		Explanation:   "because",
	}

	public := q.Public()
	if public.Number != "1" || public.Text != "Q" || len(public.Options) != 2 {
		t.Fatalf("unexpected public question: %+v", public)
	}
	if text, ok := q.OptionText("b"); !ok || text != "y" {
		t.Fatalf("OptionText(b) = %q, %v", text, ok)
	}
	if q.HasOption("C") {
		t.Fatalf("HasOption(C) should be false")
	}
}

func TestCheckQuestionReportsIndex(t *testing.T) {
	err := checkQuestion(4, Question{Text: "Q"})
	var malformed *MalformedQuestionError
	if !errors.As(err, &malformed) || malformed.Index != 4 {
		t.Fatalf("expected MalformedQuestionError at index 4, got %v", err)
	}
}

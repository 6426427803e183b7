package userclient

import (
	"bufio"
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/7283111011/FLK2/internal/httpapi"
	"github.com/7283111011/FLK2/internal/opentdb"
	"github.com/7283111011/FLK2/internal/questionset"
	"github.com/7283111011/FLK2/internal/quiz"
)

func TestParsePositiveLimit(t *testing.T) {
	if got, err := parsePositiveLimit([]string{"sets"}, 1, 10); err != nil || got != 10 {
		t.Fatalf("default parsePositiveLimit = (%d, %v), want (10, nil)", got, err)
	}
	if got, err := parsePositiveLimit([]string{"sets", "3"}, 1, 10); err != nil || got != 3 {
		t.Fatalf("valid parsePositiveLimit = (%d, %v), want (3, nil)", got, err)
	}
	if _, err := parsePositiveLimit([]string{"sets", "0"}, 1, 10); err == nil {
		t.Fatalf("expected validation error for non-positive limit")
	}
}

func TestPromptYesNoRetriesUntilValid(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("maybe\nyes\n"))
	var out bytes.Buffer

	ok, err := promptYesNo(reader, &out, "continue? ")
	if err != nil {
		t.Fatalf("promptYesNo returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected yes result")
	}
	if !strings.Contains(out.String(), "Please answer yes or no.") {
		t.Fatalf("expected retry hint in output, got: %s", out.String())
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fetcher := func(context.Context, int) ([]opentdb.RawQuestion, error) {
		return []opentdb.RawQuestion{{
			Category:         "General",
			Question:         "Is water wet?",
			CorrectAnswer:    "Yes",
			IncorrectAnswers: []string{"No"},
		}}, nil
	}
	service := questionset.NewService(questionset.NewMemoryRepository(), fetcher, nil)
	_, err := service.Import(context.Background(), questionset.Set{
		SetMetadata: questionset.SetMetadata{SetID: "qs_fixture", Title: "Fixture"},
		Questions: []quiz.Question{{
			Number:        "1",
			Text:          "Second letter?",
			Options:       []quiz.Option{{Letter: "A", Text: "alpha"}, {Letter: "B", Text: "beta"}},
			CorrectLetter: "B",
		}},
	})
	if err != nil {
		t.Fatalf("import fixture: %v", err)
	}

	server := httptest.NewServer(httpapi.NewRouter(httpapi.NewAPI(service, nil, nil), httpapi.RouterConfig{}))
	t.Cleanup(server.Close)
	return server
}

func runRemote(t *testing.T, serverURL, input string) string {
	t.Helper()
	var out bytes.Buffer
	err := Run(context.Background(), strings.NewReader(input), &out, Config{
		ServerURL:       serverURL,
		ExplicitConfirm: true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return out.String()
}

func assertOutput(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, needle := range want {
		if !strings.Contains(output, needle) {
			t.Fatalf("output missing %q:\n%s", needle, output)
		}
	}
}

func TestRunPlaysStoredSet(t *testing.T) {
	server := newTestServer(t)

	output := runRemote(t, server.URL, "sets\nplay qs_fixture\nb\n\n\nexit\n")
	assertOutput(t, output,
		`qs_fixture "Fixture" (1 questions`,
		"Q1: Second letter?",
		"Selected B.",
		"Correct.",
		"Score: 1/1 (100%)",
		"Final score: 1/1 (100%)",
	)
}

func TestRunReportsRefusedActions(t *testing.T) {
	server := newTestServer(t)

	output := runRemote(t, server.URL, "play qs_fixture\nnext\n\nz\nfinish\nquit\nexit\n")
	assertOutput(t, output,
		quiz.SignalMustAnswer.Message(),
		quiz.SignalNoSelection.Message(),
		"option letter not offered by question",
		"Final score: 0/1 (0%)",
	)
}

func TestRunOffersTriviaForUnknownSet(t *testing.T) {
	server := newTestServer(t)

	output := runRemote(t, server.URL, "play qs_missing\nyes\nquit\nexit\n")
	assertOutput(t, output,
		"question set not found. play a new trivia set instead?",
		"Imported qs_",
		"Q1: Is water wet?",
	)
}

func TestRunDescribesUnavailableService(t *testing.T) {
	server := httptest.NewServer(nil)
	serverURL := server.URL
	server.Close()

	output := runRemote(t, serverURL, "sets\nexit\n")
	assertOutput(t, output, "error: quiz service unavailable at "+serverURL)
}

package userclient

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/7283111011/FLK2/internal/quiz"
)

const (
	defaultServer         = "http://127.0.0.1:8080"
	defaultListLimit      = 10
	defaultTriviaAmount   = 10
	defaultHTTPTimeout    = 5 * time.Second
	defaultCleanupTimeout = 2 * time.Second
)

type Config struct {
	ServerURL       string
	ListLimit       int
	TriviaAmount    int
	ExplicitConfirm bool
	HTTPTimeout     time.Duration
}

// Run is an interactive prompt for browsing stored sets and playing them
// through sessions held by the quiz service.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	serverURL := strings.TrimSpace(cfg.ServerURL)
	if serverURL == "" {
		serverURL = defaultServer
	}

	listLimit := cfg.ListLimit
	if listLimit <= 0 {
		listLimit = defaultListLimit
	}
	triviaAmount := cfg.TriviaAmount
	if triviaAmount <= 0 {
		triviaAmount = defaultTriviaAmount
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	client := NewHTTPClient(serverURL, &http.Client{Timeout: timeout})
	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "quiz-remote\nserver=%s\n\n", serverURL)
	printHelp(out)

	for {
		fmt.Fprint(out, "\n> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		command := strings.ToLower(args[0])

		switch command {
		case "help":
			printHelp(out)
		case "exit", "quit":
			return nil
		case "sets":
			limit, parseErr := parsePositiveLimit(args, 1, listLimit)
			if parseErr != nil {
				fmt.Fprintf(out, "invalid sets limit: %v\n", parseErr)
				continue
			}
			if err := runList(ctx, out, client, limit, serverURL); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		case "trivia":
			amount, parseErr := parsePositiveLimit(args, 1, triviaAmount)
			if parseErr != nil {
				fmt.Fprintf(out, "invalid trivia amount: %v\n", parseErr)
				continue
			}
			title := ""
			if len(args) > 2 {
				title = strings.Join(args[2:], " ")
			}
			set, err := client.ImportTrivia(ctx, title, amount)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", describeClientError(err, serverURL))
				continue
			}
			fmt.Fprintf(out, "Imported %s (%d questions).\n", set.SetID, set.QuestionCount)
		case "play":
			if len(args) != 2 {
				fmt.Fprintln(out, "usage: play <set_id>")
				continue
			}
			p := &remotePlayer{
				client:          client,
				reader:          reader,
				out:             out,
				serverURL:       serverURL,
				explicitConfirm: cfg.ExplicitConfirm,
				triviaAmount:    triviaAmount,
			}
			if err := p.run(ctx, args[1]); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		default:
			fmt.Fprintln(out, "unknown command. type 'help' for usage.")
		}
	}
}

func runList(ctx context.Context, out io.Writer, client *HTTPClient, limit int, serverURL string) error {
	sets, err := client.ListSets(ctx, limit)
	if err != nil {
		return describeClientError(err, serverURL)
	}

	if len(sets) == 0 {
		fmt.Fprintln(out, "No question sets stored.")
		return nil
	}

	fmt.Fprintln(out, "Question sets:")
	for idx, item := range sets {
		fmt.Fprintf(out, "%d. %s %q (%d questions, %s, created %s)\n",
			idx+1,
			item.SetID,
			item.Title,
			item.QuestionCount,
			item.Source,
			item.CreatedAt.Format(time.RFC3339),
		)
	}
	return nil
}

type remotePlayer struct {
	client          *HTTPClient
	reader          *bufio.Reader
	out             io.Writer
	serverURL       string
	explicitConfirm bool
	triviaAmount    int

	state    sessionState
	finished bool
}

func (p *remotePlayer) run(ctx context.Context, setID string) error {
	state, err := p.client.CreateSession(ctx, setID, p.explicitConfirm)
	if err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
			return describeClientError(err, p.serverURL)
		}

		playTrivia, promptErr := promptYesNo(p.reader, p.out, "question set not found. play a new trivia set instead? (yes/no): ")
		if promptErr != nil || !playTrivia {
			return promptErr
		}
		set, err := p.client.ImportTrivia(ctx, "", p.triviaAmount)
		if err != nil {
			return describeClientError(err, p.serverURL)
		}
		fmt.Fprintf(p.out, "Imported %s (%d questions).\n", set.SetID, set.QuestionCount)
		state, err = p.client.CreateSession(ctx, set.SetID, p.explicitConfirm)
		if err != nil {
			return describeClientError(err, p.serverURL)
		}
	}
	p.state = state
	defer p.cleanup()

	fmt.Fprintf(p.out, "session_id=%s\n", state.SessionID)
	if state.Snapshot.Total == 0 {
		return p.finish(ctx)
	}
	p.printQuestion()

	for !p.finished {
		fmt.Fprint(p.out, "> ")
		line, err := p.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		quit, err := p.handle(ctx, strings.TrimSpace(line))
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
				fmt.Fprintln(p.out, apiErr.Message)
				continue
			}
			return describeClientError(err, p.serverURL)
		}
		if quit {
			return nil
		}
	}
	return nil
}

func (p *remotePlayer) handle(ctx context.Context, input string) (bool, error) {
	fields := strings.Fields(strings.ToLower(input))
	command := ""
	if len(fields) > 0 {
		command = fields[0]
	}
	index := p.state.Snapshot.CurrentIndex

	switch command {
	case "":
		if p.state.Snapshot.ExplicitConfirm && !p.answered(index) {
			return false, p.submit(ctx)
		}
		return false, p.advance(ctx)
	case "submit", "confirm":
		return false, p.submit(ctx)
	case "next":
		return false, p.advance(ctx)
	case "prev", "back":
		return false, p.goTo(ctx, index-1)
	case "goto", "go":
		if len(fields) != 2 {
			fmt.Fprintln(p.out, "usage: goto <question number>")
			return false, nil
		}
		number, err := strconv.Atoi(fields[1])
		if err != nil {
			fmt.Fprintf(p.out, "invalid question number %q\n", fields[1])
			return false, nil
		}
		return false, p.goTo(ctx, number-1)
	case "flag":
		state, err := p.client.ToggleFlag(ctx, p.state.SessionID, index)
		if err != nil {
			return false, err
		}
		p.state = state
		if state.Snapshot.Questions[index].Flagged {
			fmt.Fprintln(p.out, "Flagged for review.")
		} else {
			fmt.Fprintln(p.out, "Flag cleared.")
		}
	case "finish":
		return false, p.finish(ctx)
	case "restart":
		state, err := p.client.Restart(ctx, p.state.SessionID)
		if err != nil {
			return false, err
		}
		p.state = state
		fmt.Fprintln(p.out, "Quiz restarted.")
		p.printQuestion()
	case "quit", "exit":
		return true, nil
	case "help", "?":
		printPlayHelp(p.out)
	default:
		letter := quiz.NormalizeLetter(input)
		if letter == "" {
			fmt.Fprintln(p.out, "Invalid input. Type a letter or 'help'.")
			return false, nil
		}
		state, err := p.client.Select(ctx, p.state.SessionID, index, letter)
		if err != nil {
			return false, err
		}
		p.state = state
		fmt.Fprintf(p.out, "Selected %s.\n", letter)
	}
	return false, nil
}

func (p *remotePlayer) submit(ctx context.Context) error {
	result, err := p.client.Submit(ctx, p.state.SessionID, p.state.Snapshot.CurrentIndex)
	if err != nil {
		return err
	}
	fmt.Fprintln(p.out, result.Feedback)
	if result.Outcome.Signal == quiz.SignalOK {
		fmt.Fprintf(p.out, "Score: %s\n", result.Score)
	}
	return p.refresh(ctx)
}

func (p *remotePlayer) advance(ctx context.Context) error {
	from := p.state.Snapshot.CurrentIndex
	wasAnswered := p.answered(from)

	result, err := p.client.Advance(ctx, p.state.SessionID)
	if err != nil {
		return err
	}
	if err := p.refresh(ctx); err != nil {
		return err
	}
	if !wasAnswered && p.answered(from) {
		fmt.Fprintf(p.out, "Q%s: %s\n", p.state.Snapshot.Questions[from].Number, resultWord(p.state.Snapshot.Questions[from]))
	}

	switch result.Signal {
	case quiz.SignalOK:
		p.printQuestion()
	case quiz.SignalFinished:
		return p.finish(ctx)
	default:
		fmt.Fprintln(p.out, result.Message)
	}
	return nil
}

func (p *remotePlayer) goTo(ctx context.Context, index int) error {
	if index < 0 || index >= p.state.Snapshot.Total {
		fmt.Fprintf(p.out, "No question %d. Choose 1-%d.\n", index+1, p.state.Snapshot.Total)
		return nil
	}
	state, err := p.client.GoTo(ctx, p.state.SessionID, index)
	if err != nil {
		return err
	}
	p.state = state
	p.printQuestion()
	return nil
}

func (p *remotePlayer) finish(ctx context.Context) error {
	result, err := p.client.Finish(ctx, p.state.SessionID)
	if err != nil {
		return err
	}
	p.finished = true
	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "Final score: %s\n", result.Summary)
	fmt.Fprintf(p.out, "Time: %s\n", result.Elapsed)
	return nil
}

func (p *remotePlayer) refresh(ctx context.Context) error {
	state, err := p.client.GetSession(ctx, p.state.SessionID)
	if err != nil {
		return err
	}
	p.state = state
	return nil
}

// cleanup drops the server-side session once play ends.
func (p *remotePlayer) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultCleanupTimeout)
	defer cancel()
	_ = p.client.DeleteSession(ctx, p.state.SessionID)
}

func (p *remotePlayer) answered(index int) bool {
	questions := p.state.Snapshot.Questions
	return index >= 0 && index < len(questions) && questions[index].Answered
}

func (p *remotePlayer) printQuestion() {
	snap := p.state.Snapshot
	question := p.state.Current
	if question == nil {
		return
	}
	state := snap.Questions[snap.CurrentIndex]

	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "Question %d of %d | %s | Score: %s\n", snap.CurrentIndex+1, snap.Total, snap.Elapsed, snap.Score)
	fmt.Fprintf(p.out, "Q%s: %s\n\n", question.Number, question.Text)
	for _, option := range question.Options {
		marker := " "
		if option.Letter == state.Selection {
			marker = "*"
		}
		fmt.Fprintf(p.out, "%s %s. %s\n", marker, option.Letter, option.Text)
	}
	if state.Answered {
		fmt.Fprintf(p.out, "\nAnswered: %s\n", resultWord(state))
	}
	if state.Flagged {
		fmt.Fprintln(p.out, "Flagged for review.")
	}
	fmt.Fprintln(p.out)
}

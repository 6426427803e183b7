package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/7283111011/FLK2/internal/quiz"
)

// PlainOptions configures the line-mode runner.
type PlainOptions struct {
	Title string
}

type player struct {
	session *quiz.Session
	out     io.Writer
	title   string
}

// Play runs session as a line-oriented prompt on in and out. It returns the
// summary and true when the quiz was finished, or false when the user quit
// or the input ended first.
func Play(ctx context.Context, session *quiz.Session, in io.Reader, out io.Writer, opts PlainOptions) (quiz.Summary, bool, error) {
	p := &player{session: session, out: out, title: opts.Title}
	scanner := bufio.NewScanner(in)

	session.Start()
	if session.Len() == 0 {
		fmt.Fprintln(out, "This question set is empty.")
		return p.finish()
	}

	p.printQuestion()
	for {
		if err := ctx.Err(); err != nil {
			return quiz.Summary{}, false, err
		}
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return quiz.Summary{}, false, scanner.Err()
		}

		summary, done, quit := p.handle(strings.TrimSpace(scanner.Text()))
		if quit {
			return quiz.Summary{}, false, nil
		}
		if done {
			return summary, true, nil
		}
	}
}

func (p *player) handle(input string) (summary quiz.Summary, done, quit bool) {
	fields := strings.Fields(strings.ToLower(input))
	command := ""
	if len(fields) > 0 {
		command = fields[0]
	}

	switch command {
	case "":
		if p.session.ExplicitConfirm() && !p.currentAnswered() {
			p.submit()
			return summary, false, false
		}
		return p.advance()
	case "submit", "confirm":
		p.submit()
	case "next":
		return p.advance()
	case "prev", "back":
		p.goTo(p.session.CurrentIndex() - 1)
	case "goto", "go":
		if len(fields) != 2 {
			fmt.Fprintln(p.out, "Usage: goto <question number>")
			return summary, false, false
		}
		number, err := strconv.Atoi(fields[1])
		if err != nil {
			fmt.Fprintf(p.out, "Invalid question number %q.\n", fields[1])
			return summary, false, false
		}
		p.goTo(number - 1)
	case "flag":
		_ = p.session.ToggleFlag(p.session.CurrentIndex())
		p.printStatus()
	case "status":
		p.printStatus()
	case "restart":
		p.session.Restart()
		p.session.Start()
		fmt.Fprintln(p.out, "Quiz restarted.")
		p.printQuestion()
	case "finish":
		summary, err := p.session.Finish()
		if errors.Is(err, quiz.ErrNotAtEnd) {
			fmt.Fprintln(p.out, "You can only finish from the last question.")
			return summary, false, false
		}
		p.printSummary(summary)
		return summary, true, false
	case "quit", "exit":
		return summary, false, true
	case "help", "?":
		printHelp(p.out)
	default:
		p.selectOption(input)
	}
	return summary, false, false
}

func (p *player) selectOption(input string) {
	index := p.session.CurrentIndex()
	question, _ := p.session.Current()

	letter := quiz.NormalizeLetter(input)
	if letter == "" || !question.HasOption(letter) {
		letters := question.Letters()
		fmt.Fprintf(p.out, "Invalid input. Please enter a letter %s-%s or \"help\".\n", letters[0], letters[len(letters)-1])
		return
	}
	if p.currentAnswered() {
		fmt.Fprintln(p.out, quiz.SignalAlreadyAnswered.Message())
		return
	}
	if err := p.session.SelectOption(index, letter); err != nil {
		fmt.Fprintln(p.out, err)
		return
	}
	if p.session.ExplicitConfirm() {
		fmt.Fprintf(p.out, "Selected %s. Press enter to confirm.\n", letter)
		return
	}
	fmt.Fprintf(p.out, "Selected %s. Press enter to continue.\n", letter)
}

func (p *player) submit() {
	outcome, err := p.session.SubmitAnswer(p.session.CurrentIndex())
	if err != nil {
		fmt.Fprintln(p.out, err)
		return
	}
	fmt.Fprintln(p.out, outcome.Feedback())
	if outcome.Signal == quiz.SignalOK {
		fmt.Fprintf(p.out, "Score: %s\n", p.session.Score())
	}
}

func (p *player) advance() (summary quiz.Summary, done, quit bool) {
	from := p.session.CurrentIndex()
	wasAnswered := p.answered(from)
	signal := p.session.Advance()
	if !wasAnswered && p.answered(from) {
		p.printFeedback(from)
	}

	switch signal {
	case quiz.SignalOK:
		p.printQuestion()
	case quiz.SignalFinished:
		return p.finishFromLast()
	default:
		fmt.Fprintln(p.out, signal.Message())
	}
	return summary, false, false
}

func (p *player) finishFromLast() (quiz.Summary, bool, bool) {
	summary, err := p.session.Finish()
	if err != nil {
		fmt.Fprintln(p.out, err)
		return quiz.Summary{}, false, false
	}
	p.printSummary(summary)
	return summary, true, false
}

func (p *player) finish() (quiz.Summary, bool, error) {
	summary, err := p.session.Finish()
	if err != nil {
		return quiz.Summary{}, false, err
	}
	p.printSummary(summary)
	return summary, true, nil
}

func (p *player) goTo(index int) {
	if err := p.session.GoTo(index); err != nil {
		fmt.Fprintf(p.out, "No question %d. Choose 1-%d.\n", index+1, p.session.Len())
		return
	}
	p.printQuestion()
}

func (p *player) currentAnswered() bool {
	return p.answered(p.session.CurrentIndex())
}

func (p *player) answered(index int) bool {
	snap := p.session.Snapshot()
	return index >= 0 && index < len(snap.Questions) && snap.Questions[index].Answered
}

// printFeedback reports a submit that happened while advancing past index.
func (p *player) printFeedback(index int) {
	question, _ := p.session.Question(index)
	fmt.Fprintf(p.out, "Q%s: %s\n", question.Number, p.answeredOutcome(index).Feedback())
}

func (p *player) answeredOutcome(index int) quiz.Outcome {
	question, _ := p.session.Question(index)
	state := p.session.Snapshot().Questions[index]
	return quiz.Outcome{
		Signal:        quiz.SignalOK,
		Index:         index,
		Selected:      state.Selection,
		Correct:       state.Correct,
		CorrectLetter: question.CorrectLetter,
		Explanation:   question.Explanation,
	}
}

func (p *player) printQuestion() {
	snap := p.session.Snapshot()
	index := snap.CurrentIndex
	question, _ := p.session.Question(index)
	state := snap.Questions[index]

	fmt.Fprintln(p.out)
	header := fmt.Sprintf("Question %d of %d | %s", index+1, snap.Total, snap.Elapsed)
	if p.title != "" {
		header = p.title + " | " + header
	}
	if state.Flagged {
		header += " | flagged"
	}
	fmt.Fprintln(p.out, header)
	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "Q%s: %s\n\n", question.Number, question.Text)
	for _, option := range question.Options {
		marker := " "
		if option.Letter == state.Selection {
			marker = "*"
		}
		fmt.Fprintf(p.out, "%s %s. %s\n", marker, option.Letter, option.Text)
	}
	fmt.Fprintln(p.out)

	if state.Answered {
		fmt.Fprintln(p.out, p.answeredOutcome(index).Feedback())
	}
}

func (p *player) printStatus() {
	snap := p.session.Snapshot()
	var strip strings.Builder
	for _, state := range snap.Questions {
		mark := ""
		switch state.Status {
		case quiz.NavCorrect:
			mark = "+"
		case quiz.NavIncorrect:
			mark = "x"
		}
		if state.Flagged {
			mark += "!"
		}
		if state.Current {
			fmt.Fprintf(&strip, "[%s%s] ", state.Number, mark)
		} else {
			fmt.Fprintf(&strip, "%s%s ", state.Number, mark)
		}
	}
	fmt.Fprintln(p.out, strings.TrimSpace(strip.String()))
	fmt.Fprintf(p.out, "Answered %d, unanswered %d, flagged %d. Score: %s. Time %s.\n",
		snap.Navigation.Answered, snap.Navigation.Unanswered, snap.Navigation.Flagged, snap.Score, snap.Elapsed)
}

func (p *player) printSummary(summary quiz.Summary) {
	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "Final score: %s\n", summary)
	fmt.Fprintf(p.out, "Answered: %d of %d\n", summary.Attempted, summary.Total)
	fmt.Fprintf(p.out, "Time: %s\n", p.session.Timer().Display())
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  <letter>     select an option")
	fmt.Fprintln(out, "  enter        confirm the selection, or go to the next question")
	fmt.Fprintln(out, "  next, prev   move between questions")
	fmt.Fprintln(out, "  goto <n>     jump to question n")
	fmt.Fprintln(out, "  flag         toggle a review flag on this question")
	fmt.Fprintln(out, "  status       show progress")
	fmt.Fprintln(out, "  finish       finish from the last question")
	fmt.Fprintln(out, "  restart      clear every answer and start again")
	fmt.Fprintln(out, "  quit         leave without finishing")
}

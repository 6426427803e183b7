package userclient

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/7283111011/FLK2/internal/quiz"
)

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  help")
	fmt.Fprintln(out, "  sets [limit]")
	fmt.Fprintln(out, "  trivia [amount] [title]")
	fmt.Fprintln(out, "  play <set_id>")
	fmt.Fprintln(out, "  exit")
}

func printPlayHelp(out io.Writer) {
	fmt.Fprintln(out, "While playing:")
	fmt.Fprintln(out, "  <letter>     select an option")
	fmt.Fprintln(out, "  enter        confirm, or move to the next question")
	fmt.Fprintln(out, "  next, prev   move between questions")
	fmt.Fprintln(out, "  goto <n>     jump to question n")
	fmt.Fprintln(out, "  flag         toggle a review flag")
	fmt.Fprintln(out, "  finish       finish from the last question")
	fmt.Fprintln(out, "  restart      clear every answer")
	fmt.Fprintln(out, "  quit         leave the quiz")
}

func parsePositiveLimit(args []string, index int, defaultValue int) (int, error) {
	if len(args) <= index {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(args[index])
	if err != nil || value <= 0 {
		return 0, errors.New("must be a positive integer")
	}
	return value, nil
}

func promptYesNo(reader *bufio.Reader, out io.Writer, prompt string) (bool, error) {
	for {
		fmt.Fprint(out, prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		switch answer {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Fprintln(out, "Please answer yes or no.")
		}
	}
}

func describeClientError(err error, serverURL string) error {
	if errors.Is(err, ErrServiceUnavailable) {
		return fmt.Errorf("quiz service unavailable at %s", serverURL)
	}
	return err
}

func resultWord(state quiz.QuestionState) string {
	switch state.Status {
	case quiz.NavCorrect:
		return "correct"
	case quiz.NavIncorrect:
		return "incorrect"
	default:
		return "unanswered"
	}
}

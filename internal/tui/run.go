package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/7283111011/FLK2/internal/quiz"
)

// Run blocks until the user quits. It returns the final summary when the
// quiz was finished before quitting.
func Run(ctx context.Context, session *quiz.Session, in io.Reader, out io.Writer, opts Options) (quiz.Summary, bool, error) {
	program := tea.NewProgram(
		NewModel(session, opts),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	final, err := program.Run()
	if err != nil {
		return quiz.Summary{}, false, err
	}
	model, ok := final.(Model)
	if !ok {
		return quiz.Summary{}, false, nil
	}
	summary, finished := model.Summary()
	return summary, finished, nil
}

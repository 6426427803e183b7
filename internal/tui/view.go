package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/7283111011/FLK2/internal/quiz"
)

var (
	colorTitle     = lipgloss.Color("33")
	colorMuted     = lipgloss.Color("242")
	colorCursor    = lipgloss.Color("212")
	colorCorrect   = lipgloss.Color("42")
	colorIncorrect = lipgloss.Color("196")
	colorFlag      = lipgloss.Color("214")
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	snapshot := m.session.Snapshot()
	if m.summary != nil {
		return m.renderSummary(snapshot)
	}
	if snapshot.Total == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderHeader(snapshot),
			"This quiz has no questions.",
			m.stylize("enter finish · q quit", colorMuted),
		)
	}

	sections := []string{
		m.renderHeader(snapshot),
		m.renderQuestion(snapshot),
	}
	if m.feedback != "" {
		sections = append(sections, m.renderFeedback())
	}
	sections = append(sections,
		m.renderNavigation(snapshot),
		m.progress.ViewAs(float64(snapshot.Navigation.Answered)/float64(snapshot.Total)),
		m.stylize("Score: "+snapshot.Score.String(), colorMuted),
		m.help.View(m.keys),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(snapshot quiz.Snapshot) string {
	title := m.title
	if title == "" {
		title = "Quiz"
	}
	line := title
	if snapshot.Total > 0 {
		line += fmt.Sprintf(" | Question %d of %d", snapshot.CurrentIndex+1, snapshot.Total)
	}
	line += " | " + m.elapsed
	return m.stylize(line, colorTitle) + "\n"
}

func (m Model) renderQuestion(snapshot quiz.Snapshot) string {
	question, _ := m.session.Current()
	state := snapshot.Questions[snapshot.CurrentIndex]

	var b strings.Builder
	b.WriteString(question.Number + ". " + question.Text + "\n\n")
	for idx, option := range question.Options {
		marker := "  "
		if idx == m.cursor && !state.Answered {
			marker = m.stylize("> ", colorCursor)
		}
		check := "( )"
		if option.Letter == state.Selection {
			check = "(•)"
		}
		line := fmt.Sprintf("%s%s %s. %s", marker, check, option.Letter, option.Text)
		if state.Answered {
			switch {
			case option.Letter == question.CorrectLetter:
				line = m.stylize(line, colorCorrect)
			case option.Letter == state.Selection:
				line = m.stylize(line, colorIncorrect)
			}
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) renderFeedback() string {
	color := colorMuted
	switch {
	case strings.Contains(m.feedback, "Incorrect."):
		color = colorIncorrect
	case strings.Contains(m.feedback, "Correct."):
		color = colorCorrect
	}
	return m.stylize(m.feedback, color) + "\n"
}

// renderNavigation draws one cell per question: brackets mark the current
// one, color the result and an asterisk a flag.
func (m Model) renderNavigation(snapshot quiz.Snapshot) string {
	cells := make([]string, 0, len(snapshot.Questions))
	for _, state := range snapshot.Questions {
		label := state.Number
		if state.Flagged {
			label += "*"
		}
		if state.Current {
			label = "[" + label + "]"
		} else {
			label = " " + label + " "
		}
		switch state.Status {
		case quiz.NavCorrect:
			label = m.stylize(label, colorCorrect)
		case quiz.NavIncorrect:
			label = m.stylize(label, colorIncorrect)
		default:
			if state.Flagged {
				label = m.stylize(label, colorFlag)
			}
		}
		cells = append(cells, label)
	}
	nav := snapshot.Navigation
	counts := fmt.Sprintf("answered %d · unanswered %d · flagged %d", nav.Answered, nav.Unanswered, nav.Flagged)
	return strings.Join(cells, "") + "\n" + m.stylize(counts, colorMuted)
}

func (m Model) renderSummary(snapshot quiz.Snapshot) string {
	lines := []string{
		m.stylize("Quiz complete", colorTitle),
		"",
		fmt.Sprintf("Score: %s", m.summary.String()),
		fmt.Sprintf("Answered: %d of %d", m.summary.Attempted, m.summary.Total),
		fmt.Sprintf("Time: %s", m.elapsed),
	}
	if snapshot.Navigation.Flagged > 0 {
		flagged := make([]string, 0, snapshot.Navigation.Flagged)
		for _, state := range snapshot.Questions {
			if state.Flagged {
				flagged = append(flagged, state.Number)
			}
		}
		lines = append(lines, "Flagged: "+strings.Join(flagged, ", "))
	}
	lines = append(lines, "", m.stylize("r restart · q quit", colorMuted))
	return strings.Join(lines, "\n")
}

func (m Model) stylize(text string, color lipgloss.Color) string {
	if m.noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

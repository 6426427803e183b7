package httpapi

import (
	"time"

	"github.com/7283111011/FLK2/internal/questionset"
	"github.com/7283111011/FLK2/internal/quiz"
)

type setSummaryResponse struct {
	SetID         string    `json:"set_id"`
	Title         string    `json:"title"`
	Source        string    `json:"source"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type setsResponse struct {
	Sets []setSummaryResponse `json:"sets"`
}

// setResponse never carries correct letters; answers are checked through
// sessions.
type setResponse struct {
	setSummaryResponse
	Questions []quiz.PublicQuestion `json:"questions"`
}

type importOpenTDBRequest struct {
	Title  string `json:"title"`
	Amount int    `json:"amount"`
}

type createSessionRequest struct {
	SetID           string               `json:"set_id,omitempty"`
	Title           string               `json:"title,omitempty"`
	Questions       []questionset.Record `json:"questions,omitempty"`
	ExplicitConfirm *bool                `json:"explicit_confirm,omitempty"`
}

type indexRequest struct {
	Index *int `json:"index"`
}

type selectRequest struct {
	Index  *int   `json:"index"`
	Letter string `json:"letter"`
}

type sessionResponse struct {
	SessionID string               `json:"session_id"`
	SetID     string               `json:"set_id,omitempty"`
	Current   *quiz.PublicQuestion `json:"current,omitempty"`
	Snapshot  quiz.Snapshot        `json:"snapshot"`
}

type signalResponse struct {
	Signal  quiz.Signal `json:"signal"`
	Message string      `json:"message,omitempty"`
}

type submitResponse struct {
	Outcome  quiz.Outcome `json:"outcome"`
	Feedback string       `json:"feedback"`
	Score    quiz.Score   `json:"score"`
}

type finishResponse struct {
	Summary quiz.Summary `json:"summary"`
	Elapsed string       `json:"elapsed"`
}

type errorResponse struct {
	Error  string              `json:"error"`
	Issues []questionset.Issue `json:"issues,omitempty"`
}

func toSetSummary(meta questionset.SetMetadata) setSummaryResponse {
	return setSummaryResponse{
		SetID:         meta.SetID,
		Title:         meta.Title,
		Source:        meta.Source,
		QuestionCount: meta.QuestionCount,
		CreatedAt:     meta.CreatedAt,
	}
}

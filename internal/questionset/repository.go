package questionset

import (
	"context"
	"errors"
	"time"

	"github.com/7283111011/FLK2/internal/quiz"
)

var ErrSetNotFound = errors.New("question set not found")

const (
	SourceFile    = "file"
	SourceURL     = "url"
	SourceOpenTDB = "opentdb"
	SourceInline  = "inline"
)

type SetMetadata struct {
	SetID         string    `json:"set_id"`
	Title         string    `json:"title"`
	Source        string    `json:"source"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Set is an ordered, validated question list with its metadata.
type Set struct {
	SetMetadata
	Questions []quiz.Question `json:"questions"`
}

// Repository stores named question sets.
type Repository interface {
	SaveSet(ctx context.Context, set Set) error
	GetSet(ctx context.Context, setID string) (Set, error)
	ListSets(ctx context.Context, limit int) ([]SetMetadata, error)
	DeleteSet(ctx context.Context, setID string) error
}

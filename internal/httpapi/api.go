package httpapi

import (
	"context"

	"go.uber.org/zap"

	"github.com/7283111011/FLK2/internal/questionset"
	"github.com/7283111011/FLK2/internal/sessions"
)

// SetService is the question bank surface the API needs.
type SetService interface {
	Import(ctx context.Context, set questionset.Set) (questionset.SetMetadata, error)
	ImportOpenTDB(ctx context.Context, title string, amount int) (questionset.SetMetadata, error)
	Load(ctx context.Context, setID string) (questionset.Set, error)
	List(ctx context.Context, limit int) ([]questionset.SetMetadata, error)
	Delete(ctx context.Context, setID string) error
}

type API struct {
	sets     SetService
	sessions *sessions.Registry
	logger   *zap.Logger
}

func NewAPI(sets SetService, registry *sessions.Registry, logger *zap.Logger) *API {
	if registry == nil {
		registry = sessions.NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		sets:     sets,
		sessions: registry,
		logger:   logger,
	}
}

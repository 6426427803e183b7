package questionset

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/7283111011/FLK2/internal/opentdb"
)

type TriviaFetcher func(ctx context.Context, amount int) ([]opentdb.RawQuestion, error)

// WithDefaultAmount substitutes amount for non-positive requests.
func WithDefaultAmount(fetch TriviaFetcher, amount int) TriviaFetcher {
	return func(ctx context.Context, requested int) ([]opentdb.RawQuestion, error) {
		if requested <= 0 {
			requested = amount
		}
		return fetch(ctx, requested)
	}
}

// Service imports question sets into a repository and serves them back
// through a read-through cache.
type Service struct {
	sets    Repository
	fetcher TriviaFetcher
	logger  *zap.Logger

	mu    sync.RWMutex
	cache map[string]Set
}

func NewService(sets Repository, fetcher TriviaFetcher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sets:    sets,
		fetcher: fetcher,
		logger:  logger,
		cache:   make(map[string]Set),
	}
}

// Import stores a validated set. A blank SetID gets a generated one.
func (s *Service) Import(ctx context.Context, set Set) (SetMetadata, error) {
	if err := Validate(set.Questions); err != nil {
		return SetMetadata{}, err
	}

	set.SetID = strings.TrimSpace(set.SetID)
	if set.SetID == "" {
		set.SetID = generateSetID()
	}
	if set.Source == "" {
		set.Source = SourceInline
	}
	if set.CreatedAt.IsZero() {
		set.CreatedAt = time.Now().UTC()
	}
	set.QuestionCount = len(set.Questions)

	if err := s.sets.SaveSet(ctx, set); err != nil {
		return SetMetadata{}, err
	}
	s.setCached(set)

	s.logger.Info("question set imported",
		zap.String("set_id", set.SetID),
		zap.String("source", set.Source),
		zap.Int("questions", set.QuestionCount),
	)
	return set.SetMetadata, nil
}

// ImportOpenTDB fetches amount trivia questions and stores them as a set.
func (s *Service) ImportOpenTDB(ctx context.Context, title string, amount int) (SetMetadata, error) {
	if s.fetcher == nil {
		return SetMetadata{}, errors.New("trivia fetcher is not configured")
	}

	raw, err := s.fetcher(ctx, amount)
	if err != nil {
		return SetMetadata{}, err
	}
	set, err := FromOpenTDB(raw)
	if err != nil {
		return SetMetadata{}, err
	}
	if title = strings.TrimSpace(title); title != "" {
		set.Title = title
	}
	return s.Import(ctx, set)
}

func (s *Service) Load(ctx context.Context, setID string) (Set, error) {
	setID = strings.TrimSpace(setID)
	if setID == "" {
		return Set{}, ErrSetNotFound
	}
	if set, ok := s.getCached(setID); ok {
		return set, nil
	}

	set, err := s.sets.GetSet(ctx, setID)
	if err != nil {
		return Set{}, err
	}
	s.setCached(set)
	return set, nil
}

func (s *Service) List(ctx context.Context, limit int) ([]SetMetadata, error) {
	return s.sets.ListSets(ctx, limit)
}

func (s *Service) Delete(ctx context.Context, setID string) error {
	if err := s.sets.DeleteSet(ctx, setID); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.cache, setID)
	s.mu.Unlock()

	s.logger.Info("question set deleted", zap.String("set_id", setID))
	return nil
}

func (s *Service) getCached(setID string) (Set, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.cache[setID]
	return set, ok
}

func (s *Service) setCached(set Set) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[set.SetID] = set
}

func generateSetID() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	const length = 10

	var builder strings.Builder
	builder.Grow(len("qs_") + length)
	builder.WriteString("qs_")
	for idx := 0; idx < length; idx++ {
		builder.WriteByte(alphabet[rand.Intn(len(alphabet))])
	}
	return builder.String()
}

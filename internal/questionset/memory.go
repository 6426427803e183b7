package questionset

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// MemoryRepository keeps sets in process memory. Stored sets are lost on exit.
type MemoryRepository struct {
	mu   sync.RWMutex
	sets map[string]Set
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sets: make(map[string]Set)}
}

func (r *MemoryRepository) SaveSet(_ context.Context, set Set) error {
	if set.SetID == "" {
		return errors.New("set id is required")
	}
	set.QuestionCount = len(set.Questions)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets[set.SetID] = set
	return nil
}

func (r *MemoryRepository) GetSet(_ context.Context, setID string) (Set, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.sets[setID]
	if !ok {
		return Set{}, ErrSetNotFound
	}
	return set, nil
}

// ListSets returns set metadata, newest first.
func (r *MemoryRepository) ListSets(_ context.Context, limit int) ([]SetMetadata, error) {
	r.mu.RLock()
	sets := make([]SetMetadata, 0, len(r.sets))
	for _, set := range r.sets {
		sets = append(sets, set.SetMetadata)
	}
	r.mu.RUnlock()

	sort.Slice(sets, func(i, j int) bool {
		if !sets[i].CreatedAt.Equal(sets[j].CreatedAt) {
			return sets[i].CreatedAt.After(sets[j].CreatedAt)
		}
		return sets[i].SetID < sets[j].SetID
	})
	if limit > 0 && len(sets) > limit {
		sets = sets[:limit]
	}
	return sets, nil
}

func (r *MemoryRepository) DeleteSet(_ context.Context, setID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sets[setID]; !ok {
		return ErrSetNotFound
	}
	delete(r.sets, setID)
	return nil
}

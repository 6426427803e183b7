package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/7283111011/FLK2/internal/questionset"
	"github.com/7283111011/FLK2/internal/quiz"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
		_ = os.Remove(path)
		_ = os.Remove(path + "-journal")
	})
	return store
}

func sampleSet(id string, createdAt time.Time) questionset.Set {
	return questionset.Set{
		SetMetadata: questionset.SetMetadata{
			SetID:     id,
			Title:     "Land law",
			Source:    questionset.SourceFile,
			CreatedAt: createdAt,
		},
		Questions: []quiz.Question{
			{
				Number: "1",
				Text:   "Is an easement a legal interest?",
				Options: []quiz.Option{
					{Letter: "C", Text: "Never"},
					{Letter: "A", Text: "It can be"},
				},
				CorrectLetter: "A",
				Explanation:   "LPA 1925 s1(2).",
			},
			{
				Number: "2b",
				Text:   "Sky color?",
				Options: []quiz.Option{
					{Letter: "A", Text: "Green"},
					{Letter: "B", Text: "Blue"},
				},
				CorrectLetter: "B",
			},
		},
	}
}

func TestStoreSaveAndGetSet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	createdAt := time.Unix(1700000000, 123).UTC()
	if err := store.SaveSet(ctx, sampleSet("qs_one", createdAt)); err != nil {
		t.Fatalf("SaveSet failed: %v", err)
	}

	got, err := store.GetSet(ctx, "qs_one")
	if err != nil {
		t.Fatalf("GetSet failed: %v", err)
	}
	if got.Title != "Land law" || got.QuestionCount != 2 || !got.CreatedAt.Equal(createdAt) {
		t.Fatalf("unexpected metadata: %+v", got.SetMetadata)
	}
	if len(got.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(got.Questions))
	}
	first := got.Questions[0]
	if first.Options[0].Letter != "C" || first.CorrectLetter != "A" || first.Explanation != "LPA 1925 s1(2)." {
		t.Fatalf("unexpected first question: %+v", first)
	}
	if got.Questions[1].Number != "2b" {
		t.Fatalf("question number not kept: %q", got.Questions[1].Number)
	}
}

func TestStoreSaveSetReplacesQuestions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	set := sampleSet("qs_one", time.Now().UTC())
	if err := store.SaveSet(ctx, set); err != nil {
		t.Fatalf("SaveSet failed: %v", err)
	}
	set.Questions = set.Questions[:1]
	if err := store.SaveSet(ctx, set); err != nil {
		t.Fatalf("second SaveSet failed: %v", err)
	}

	got, err := store.GetSet(ctx, "qs_one")
	if err != nil {
		t.Fatalf("GetSet failed: %v", err)
	}
	if len(got.Questions) != 1 || got.QuestionCount != 1 {
		t.Fatalf("expected replaced set with 1 question, got %d/%d", len(got.Questions), got.QuestionCount)
	}
}

func TestStoreListSetsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Unix(1700000000, 0).UTC()
	for idx, id := range []string{"qs_old", "qs_mid", "qs_new"} {
		if err := store.SaveSet(ctx, sampleSet(id, base.Add(time.Duration(idx)*time.Minute))); err != nil {
			t.Fatalf("SaveSet(%s) failed: %v", id, err)
		}
	}

	sets, err := store.ListSets(ctx, 2)
	if err != nil {
		t.Fatalf("ListSets failed: %v", err)
	}
	if len(sets) != 2 || sets[0].SetID != "qs_new" || sets[1].SetID != "qs_mid" {
		t.Fatalf("unexpected listing: %+v", sets)
	}
}

func TestStoreDeleteSet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveSet(ctx, sampleSet("qs_one", time.Now().UTC())); err != nil {
		t.Fatalf("SaveSet failed: %v", err)
	}
	if err := store.DeleteSet(ctx, "qs_one"); err != nil {
		t.Fatalf("DeleteSet failed: %v", err)
	}
	if _, err := store.GetSet(ctx, "qs_one"); !errors.Is(err, questionset.ErrSetNotFound) {
		t.Fatalf("expected ErrSetNotFound, got %v", err)
	}
	if err := store.DeleteSet(ctx, "qs_one"); !errors.Is(err, questionset.ErrSetNotFound) {
		t.Fatalf("expected ErrSetNotFound on second delete, got %v", err)
	}
}

func TestStoreSaveSetRequiresID(t *testing.T) {
	store := newTestStore(t)
	if err := store.SaveSet(context.Background(), questionset.Set{}); err == nil {
		t.Fatalf("expected error for missing set id")
	}
}

package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/robalobadob/parasight/internal/game"
)

func newSession(t *testing.T) *game.Session {
	t.Helper()
	p := game.Paragraph{
		ID:   "p1",
		Text: "The fox jumps.",
		HiddenWords: []game.HiddenWord{
			{Word: "fox", Clues: []game.Clue{{Clue: "Sly animal", Points: 5}}},
		},
	}
	s, err := game.NewSession(p, game.Parameters{}, nil, game.WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestCreateAndWith(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	s := newSession(t)

	id, err := m.Create(ctx, s)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("id %q is not a uuid: %v", id, err)
	}

	var got *game.Session
	if err := m.With(ctx, id, func(gs *game.Session) error { got = gs; return nil }); err != nil {
		t.Fatalf("With: %v", err)
	}
	if got != s {
		t.Error("With passed a different session")
	}

	boom := errors.New("boom")
	if err := m.With(ctx, id, func(*game.Session) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("With err = %v, want boom", err)
	}
	if err := m.With(ctx, "missing", func(*game.Session) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Errorf("With(missing) err = %v", err)
	}
}

func TestReplaceAndDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	id, _ := m.Create(ctx, newSession(t))

	fresh := newSession(t)
	if err := m.Replace(ctx, id, fresh); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	m.With(ctx, id, func(gs *game.Session) error {
		if gs != fresh {
			t.Error("Replace did not swap the session")
		}
		return nil
	})

	if err := m.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := m.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v", err)
	}
	if err := m.Replace(ctx, id, fresh); !errors.Is(err, ErrNotFound) {
		t.Errorf("Replace after delete err = %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMemoryStore()
	if _, err := m.Create(ctx, newSession(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("Create err = %v", err)
	}
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	m := newMemory(func() time.Time { return now })

	old, _ := m.Create(ctx, newSession(t))
	now = now.Add(2 * time.Hour)
	recent, _ := m.Create(ctx, newSession(t))

	if n := m.Prune(ctx, now.Add(-time.Hour)); n != 1 {
		t.Fatalf("Prune removed %d, want 1", n)
	}
	if err := m.With(ctx, old, func(*game.Session) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Errorf("old session survived prune: %v", err)
	}
	if err := m.With(ctx, recent, func(*game.Session) error { return nil }); err != nil {
		t.Errorf("recent session pruned: %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d", m.Len())
	}
}

func TestWithSerializesAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	id, _ := m.Create(ctx, newSession(t))

	var wg sync.WaitGroup
	inside := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.With(ctx, id, func(gs *game.Session) error {
				inside++
				if inside != 1 {
					t.Errorf("concurrent access: %d holders", inside)
				}
				gs.SetActiveClue(0, 0)
				inside--
				return nil
			})
		}()
	}
	wg.Wait()
}

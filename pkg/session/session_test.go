package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kotomap/kotomap/pkg/catalog"
	"github.com/kotomap/kotomap/pkg/expand"
	"github.com/kotomap/kotomap/pkg/generate"
	"github.com/kotomap/kotomap/pkg/graph"
)

func newExpander(t *testing.T) *expand.Expander {
	t.Helper()
	cat := catalog.Default()
	g, err := graph.New(graph.Node{ID: cat.RootNode.ID, Label: cat.RootNode.Label, Kind: cat.RootNode.Kind})
	if err != nil {
		t.Fatal(err)
	}
	e, err := expand.New(expand.Config{Graph: g, Generator: generate.NewStubGenerator(cat), Catalog: cat})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id, err := GenerateID()
		if err != nil {
			t.Fatal(err)
		}
		if seen[id] {
			t.Fatal("duplicate session ID generated")
		}
		seen[id] = true
	}
}

func TestSessionExpiry(t *testing.T) {
	sess, err := New(newExpander(t), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if sess.IsExpired() {
		t.Error("fresh session should not be expired")
	}
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	if !sess.IsExpired() {
		t.Error("session past its expiry should report expired")
	}
	sess.Touch(time.Hour)
	if sess.IsExpired() {
		t.Error("touched session should be live again")
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess, err := New(newExpander(t), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, sess); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Expander != sess.Expander {
		t.Error("Get() returned a different expander")
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreExpiration(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess, err := New(newExpander(t), -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, sess); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrExpired) {
		t.Errorf("Get(expired) error = %v, want ErrExpired", err)
	}
	// The expired session was dropped on read.
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Get() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	live, err := New(newExpander(t), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	dead, err := New(newExpander(t), -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []*Session{live, dead} {
		if err := store.Set(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	dropped, err := store.Cleanup(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if dropped != 1 {
		t.Errorf("Cleanup() dropped %d sessions, want 1", dropped)
	}
	if store.Len() != 1 {
		t.Errorf("store has %d sessions after cleanup, want 1", store.Len())
	}
}

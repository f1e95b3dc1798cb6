package generate

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/kotomap/kotomap/pkg/cache"
	"github.com/kotomap/kotomap/pkg/catalog"
	apperrors "github.com/kotomap/kotomap/pkg/errors"
)

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain object", `{"nodes": []}`, false},
		{"fenced", "```json\n{\"nodes\": []}\n```", false},
		{"fenced no language", "```\n{\"nodes\": []}\n```", false},
		{"surrounding whitespace", "  \n{\"nodes\": []}\n  ", false},
		{"not json", "sorry, I cannot do that", true},
		{"json scalar", `42`, true},
		{"json array", `[1, 2]`, true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := DecodePayload([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("DecodePayload() should fail")
				}
				if !apperrors.Is(err, apperrors.ErrCodeInvalidPayload) {
					t.Errorf("error code = %v, want INVALID_PAYLOAD", apperrors.GetCode(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodePayload() error = %v", err)
			}
			if _, ok := payload["nodes"]; !ok {
				t.Error("decoded payload lost its nodes member")
			}
		})
	}
}

func TestRequestWireFormat(t *testing.T) {
	req := Request{
		Focus:              FocusNode{ID: "root", Label: "テクノロジー", Kind: "root", Depth: 0},
		ExistingElementIDs: []string{"root", "e1"},
	}
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["focusNode"]; !ok {
		t.Error("request missing focusNode")
	}
	if _, ok := m["existingElementIds"]; !ok {
		t.Error("request missing existingElementIds")
	}
}

func TestStubGeneratorDeterministic(t *testing.T) {
	cat := catalog.Default()
	g := NewStubGenerator(cat)
	req := Request{Focus: FocusNode{ID: "root", Label: "テクノロジー", Kind: "root"}}

	first, err := g.Expand(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := g.Expand(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Error("stub output differs between identical requests")
	}

	payload, err := DecodePayload(first)
	if err != nil {
		t.Fatalf("stub output does not decode: %v", err)
	}
	nodes, _ := payload["nodes"].([]any)
	if len(nodes) != 3 {
		t.Errorf("stub produced %d nodes, want 3", len(nodes))
	}
	edges, _ := payload["edges"].([]any)
	if len(edges) != 3 {
		t.Errorf("stub produced %d edges, want 3", len(edges))
	}
}

func TestSystemPromptListsKinds(t *testing.T) {
	cat := catalog.Default()
	prompt := systemPrompt(cat)
	for _, id := range cat.KindIDs() {
		if id == catalog.KindRoot {
			continue
		}
		if !strings.Contains(prompt, id) {
			t.Errorf("system prompt does not mention kind %q", id)
		}
	}
	if strings.Contains(prompt, "- root (") {
		t.Error("system prompt should not offer the root kind")
	}
}

// countingGenerator records how often the inner backend is invoked.
type countingGenerator struct {
	calls int
	data  []byte
	err   error
}

func (g *countingGenerator) Expand(context.Context, Request) ([]byte, error) {
	g.calls++
	return g.data, g.err
}

func TestCachedGenerator(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer fc.Close()

	inner := &countingGenerator{data: []byte(`{"nodes": []}`)}
	g := NewCachedGenerator(inner, fc, nil, "tech", "stub")
	req := Request{Focus: FocusNode{ID: "root"}, ExistingElementIDs: []string{"root"}}

	for range 2 {
		data, err := g.Expand(context.Background(), req)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != `{"nodes": []}` {
			t.Errorf("unexpected response %q", data)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner backend called %d times, want 1 (second call cached)", inner.calls)
	}

	// A different graph state misses the cache.
	req.ExistingElementIDs = []string{"root", "a"}
	if _, err := g.Expand(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("inner backend called %d times, want 2 after context change", inner.calls)
	}

	// Refresh bypasses reads.
	g.Refresh = true
	if _, err := g.Expand(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 3 {
		t.Errorf("inner backend called %d times, want 3 with refresh", inner.calls)
	}
}

func TestCachedGeneratorErrorNotCached(t *testing.T) {
	inner := &countingGenerator{err: errors.New("boom")}
	g := NewCachedGenerator(inner, cache.NewNullCache(), nil, "tech", "stub")
	req := Request{Focus: FocusNode{ID: "root"}}
	if _, err := g.Expand(context.Background(), req); err == nil {
		t.Fatal("error from inner backend should propagate")
	}
	if inner.calls != 1 {
		t.Errorf("inner backend called %d times, want 1", inner.calls)
	}
}

func TestContextHash(t *testing.T) {
	a := ContextHash([]string{"x", "y", "z"})
	b := ContextHash([]string{"z", "y", "x"})
	if a != b {
		t.Error("hash should be order independent")
	}
	c := ContextHash([]string{"x", "y"})
	if a == c {
		t.Error("different ID sets should hash differently")
	}
}

package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if c.RootNode.Kind != KindRoot {
		t.Errorf("default root kind = %q, want %q", c.RootNode.Kind, KindRoot)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Catalog)
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(c *Catalog) {},
		},
		{
			name:    "duplicate kind",
			mutate:  func(c *Catalog) { c.Kinds = append(c.Kinds, Kind{ID: "concept"}) },
			wantErr: ErrDuplicateKind,
		},
		{
			name:    "empty kind id",
			mutate:  func(c *Catalog) { c.Kinds = append(c.Kinds, Kind{Label: "x"}) },
			wantErr: ErrDuplicateKind,
		},
		{
			name:    "only root kind",
			mutate:  func(c *Catalog) { c.Kinds = c.Kinds[:1] },
			wantErr: ErrNoKinds,
		},
		{
			name:    "missing root label",
			mutate:  func(c *Catalog) { c.RootNode.Label = "" },
			wantErr: ErrInvalidRoot,
		},
		{
			name:    "root kind not in vocabulary",
			mutate:  func(c *Catalog) { c.RootNode.Kind = "ghost" },
			wantErr: ErrInvalidRoot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFallback(t *testing.T) {
	c := Default()
	if got := c.Fallback(); got != "concept" {
		t.Errorf("Fallback() = %q, want concept", got)
	}

	// Root entries are never the fallback, wherever they sit.
	c2 := &Catalog{Kinds: []Kind{{ID: "dish"}, {ID: KindRoot}}}
	if got := c2.Fallback(); got != "dish" {
		t.Errorf("Fallback() = %q, want dish", got)
	}
}

func TestExempt(t *testing.T) {
	c := Default()
	tests := []struct {
		kind string
		want bool
	}{
		{"person", true},
		{"company", true},
		{"product", true},
		{"concept", false},
		{"event", false},
		{"unknown", false},
	}
	for _, tt := range tests {
		if got := c.Exempt(tt.kind); got != tt.want {
			t.Errorf("Exempt(%q) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestRelationFor(t *testing.T) {
	c := Default()
	if got := c.RelationFor("person"); got != "関わる人物" {
		t.Errorf("RelationFor(person) = %q", got)
	}
	if got := c.RelationFor("unknown"); got != "関連" {
		t.Errorf("RelationFor(unknown) = %q, want generic relation", got)
	}
	if got := c.RelationFor(KindRoot); got != "関連" {
		t.Errorf("RelationFor(root) = %q, want generic relation", got)
	}
}

func TestKindHelpers(t *testing.T) {
	c := Default()
	if !c.Has("concept") || c.Has("ghost") {
		t.Error("Has() vocabulary membership is wrong")
	}
	ids := c.KindIDs()
	if len(ids) != 6 || ids[0] != KindRoot || ids[5] != "concept" {
		t.Errorf("KindIDs() = %v", ids)
	}
	if got := c.KindLabel("person"); got != "人物" {
		t.Errorf("KindLabel(person) = %q", got)
	}
	if got := c.KindLabel("ghost"); got != "ghost" {
		t.Errorf("KindLabel(ghost) = %q, want the ID itself", got)
	}
}

const testCatalogTOML = `
name = "food"
prompt = "日本の食文化"
relation = "関連"

[root]
id = "root"
label = "和食"
kind = "root"

[[kinds]]
id = "root"
label = "ルート"

[[kinds]]
id = "chef"
label = "料理人"
proper_noun = true
relation = "著名な料理人"

[[kinds]]
id = "dish"
label = "料理"
relation = "代表的な料理"
`

func TestParse(t *testing.T) {
	c, err := Parse(testCatalogTOML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if c.Name != "food" {
		t.Errorf("Name = %q, want food", c.Name)
	}
	if c.RootNode.Label != "和食" {
		t.Errorf("root label = %q", c.RootNode.Label)
	}
	if !c.Exempt("chef") {
		t.Error("chef should be proper-noun exempt")
	}
	if got := c.Fallback(); got != "dish" {
		t.Errorf("Fallback() = %q, want dish", got)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse(`name = "broken"`); err == nil {
		t.Error("Parse() should reject a catalog without kinds")
	}
	if _, err := Parse(`name = [`); err == nil {
		t.Error("Parse() should reject malformed TOML")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "food.toml")
	if err := os.WriteFile(path, []byte(testCatalogTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Name != "food" {
		t.Errorf("Name = %q, want food", c.Name)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

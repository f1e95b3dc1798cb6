package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNoKinds is returned by [Catalog.Validate] when the catalog defines
	// no non-root kinds. The sanitizer needs at least one kind to coerce
	// unknown kinds to.
	ErrNoKinds = errors.New("catalog must define at least one non-root kind")

	// ErrDuplicateKind is returned by [Catalog.Validate] when two kinds share
	// an ID.
	ErrDuplicateKind = errors.New("duplicate kind ID")

	// ErrInvalidRoot is returned by [Catalog.Validate] when the root node
	// descriptor is incomplete or references an unknown kind.
	ErrInvalidRoot = errors.New("invalid root node descriptor")
)

// Kind describes one entry of a domain's closed node-kind vocabulary.
type Kind struct {
	// ID is the kind identifier used on nodes (e.g. "person", "concept").
	ID string `toml:"id"`

	// Label is the human-readable kind name shown in legends and the TUI.
	Label string `toml:"label"`

	// ProperNoun marks the kind as exempt from the target-script label
	// filter: brand names, product names and person names are allowed in any
	// script.
	ProperNoun bool `toml:"proper_noun"`

	// Relation is the default relation label for synthesized edges whose
	// target node has this kind.
	Relation string `toml:"relation"`
}

// Root describes the single root node a graph session starts from.
type Root struct {
	ID    string `toml:"id"`
	Label string `toml:"label"`
	Kind  string `toml:"kind"`
}

// Catalog supplies the domain configuration the sanitizer and generator work
// against: the allowed kind vocabulary, the root node descriptor, per-kind
// default relation labels and the proper-noun exemption list.
//
// How catalogs are authored is up to the operator; [Default] provides a
// built-in domain and [Load] reads TOML catalog files.
type Catalog struct {
	// Name identifies the domain (used in cache keys and logs).
	Name string `toml:"name"`

	// Prompt is a short domain description injected into generator prompts.
	Prompt string `toml:"prompt"`

	// Relation is the generic fallback relation label used when the target
	// node's kind defines none.
	Relation string `toml:"relation"`

	// RootNode is the descriptor of the initial graph node.
	RootNode Root `toml:"root"`

	// Kinds is the ordered kind vocabulary. Order matters: the fallback kind
	// for unknown input is the last non-root entry.
	Kinds []Kind `toml:"kinds"`
}

// Validate checks catalog integrity and returns nil if valid.
func (c *Catalog) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("catalog name must not be empty")
	}
	seen := make(map[string]bool, len(c.Kinds))
	nonRoot := 0
	for _, k := range c.Kinds {
		if k.ID == "" {
			return fmt.Errorf("kind with empty ID: %w", ErrDuplicateKind)
		}
		if seen[k.ID] {
			return fmt.Errorf("kind %q: %w", k.ID, ErrDuplicateKind)
		}
		seen[k.ID] = true
		if k.ID != KindRoot {
			nonRoot++
		}
	}
	if nonRoot == 0 {
		return ErrNoKinds
	}
	if c.RootNode.ID == "" || c.RootNode.Label == "" {
		return ErrInvalidRoot
	}
	if !seen[c.RootNode.Kind] {
		return fmt.Errorf("root kind %q: %w", c.RootNode.Kind, ErrInvalidRoot)
	}
	return nil
}

// KindRoot is the reserved kind ID for the root node. It is never used as a
// coercion fallback.
const KindRoot = "root"

// Has reports whether the kind ID belongs to the catalog's vocabulary.
func (c *Catalog) Has(kind string) bool {
	for _, k := range c.Kinds {
		if k.ID == kind {
			return true
		}
	}
	return false
}

// Fallback returns the kind unknown input kinds are coerced to: the last
// non-root entry of the vocabulary. Returns "" for an invalid catalog.
func (c *Catalog) Fallback() string {
	for i := len(c.Kinds) - 1; i >= 0; i-- {
		if c.Kinds[i].ID != KindRoot {
			return c.Kinds[i].ID
		}
	}
	return ""
}

// Exempt reports whether labels of the kind are exempt from the target-script
// filter (proper-noun kinds). Unknown kinds are not exempt.
func (c *Catalog) Exempt(kind string) bool {
	for _, k := range c.Kinds {
		if k.ID == kind {
			return k.ProperNoun
		}
	}
	return false
}

// RelationFor returns the default relation label for edges targeting a node
// of the given kind, falling back to the catalog's generic relation label.
func (c *Catalog) RelationFor(kind string) string {
	for _, k := range c.Kinds {
		if k.ID == kind && k.Relation != "" {
			return k.Relation
		}
	}
	return c.Relation
}

// KindIDs returns the vocabulary's kind IDs in catalog order.
func (c *Catalog) KindIDs() []string {
	ids := make([]string, len(c.Kinds))
	for i, k := range c.Kinds {
		ids[i] = k.ID
	}
	return ids
}

// KindLabel returns the human-readable label for a kind ID, or the ID itself
// if the kind is unknown.
func (c *Catalog) KindLabel(kind string) string {
	for _, k := range c.Kinds {
		if k.ID == kind {
			return k.Label
		}
	}
	return kind
}

// Default returns the built-in domain catalog: Japanese technology culture.
// It is the domain used when no catalog file is supplied.
func Default() *Catalog {
	return &Catalog{
		Name:     "tech",
		Prompt:   "日本のテクノロジーとインターネット文化",
		Relation: "関連",
		RootNode: Root{ID: "root", Label: "テクノロジー", Kind: KindRoot},
		Kinds: []Kind{
			{ID: KindRoot, Label: "ルート"},
			{ID: "person", Label: "人物", ProperNoun: true, Relation: "関わる人物"},
			{ID: "company", Label: "企業", ProperNoun: true, Relation: "関連企業"},
			{ID: "product", Label: "製品", ProperNoun: true, Relation: "代表的な製品"},
			{ID: "event", Label: "出来事", Relation: "関連する出来事"},
			{ID: "concept", Label: "概念", Relation: "関連する概念"},
		},
	}
}

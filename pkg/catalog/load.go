package catalog

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Load reads a catalog from a TOML file and validates it.
//
// File format:
//
//	name = "food"
//	prompt = "日本の食文化"
//	relation = "関連"
//
//	[root]
//	id = "root"
//	label = "和食"
//	kind = "root"
//
//	[[kinds]]
//	id = "root"
//	label = "ルート"
//
//	[[kinds]]
//	id = "dish"
//	label = "料理"
//	relation = "代表的な料理"
func Load(path string) (*Catalog, error) {
	var c Catalog
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return &c, nil
}

// Parse decodes a catalog from TOML source and validates it.
// Useful for catalogs embedded in configuration or tests.
func Parse(data string) (*Catalog, error) {
	var c Catalog
	if _, err := toml.Decode(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

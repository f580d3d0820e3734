package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

var (
	ErrMissingID    = errors.New("catalog item without id")
	ErrBadID        = errors.New("catalog item id contains whitespace")
	ErrDuplicateID  = errors.New("duplicate catalog item id")
	ErrEmptyCatalog = errors.New("catalog source has no items")
)

type seedFile struct {
	Items []Item `yaml:"items"`
}

// LoadFile reads a YAML seed file of the form
//
//	items:
//	  - id: "1"
//	    name: Nintendo NES
//	    ...
func LoadFile(path string) ([]Item, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(raw)
}

func ParseSeed(raw []byte) ([]Item, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := Validate(f.Items); err != nil {
		return nil, err
	}
	return f.Items, nil
}

// Validate enforces the catalog key invariants on a seed set. Ids must be a
// single protocol token, otherwise GET could never address them.
func Validate(items []Item) error {
	if len(items) == 0 {
		return ErrEmptyCatalog
	}

	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		id := it.ID
		if id == "" {
			return fmt.Errorf("%w: entry %d", ErrMissingID, i)
		}
		if strings.ContainsFunc(id, unicode.IsSpace) {
			return fmt.Errorf("%w: %q", ErrBadID, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

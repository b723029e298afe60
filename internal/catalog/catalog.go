package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrMalformed reports a source table that is not shaped as locale → key → value.
var ErrMalformed = errors.New("malformed translation table")

// Entry is a single translation key with its value. The value is kept as a
// raw YAML node so scalars, pluralization groups and nested groups round-trip
// without interpretation.
type Entry struct {
	Key   string
	Value *yaml.Node
}

// Locale holds one locale's flat key table in source order.
type Locale struct {
	Name    string
	Entries []Entry
}

// Catalog is the full translation table: every locale, in source order.
type Catalog struct {
	Locales []Locale
}

// Load reads and validates a translation table from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return c, nil
}

// Parse decodes a translation table, preserving key insertion order.
// Node-level decoding is deliberate: a plain map would lose the source order
// and with it deterministic output.
func Parse(data []byte) (*Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level is not a mapping", ErrMalformed)
	}

	c := &Catalog{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		nameNode := root.Content[i]
		if nameNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: locale name at line %d is not a scalar", ErrMalformed, nameNode.Line)
		}

		loc, err := parseLocale(nameNode.Value, root.Content[i+1])
		if err != nil {
			return nil, err
		}
		c.Locales = append(c.Locales, loc)
	}

	return c, nil
}

func parseLocale(name string, node *yaml.Node) (Locale, error) {
	if node.Kind != yaml.MappingNode {
		return Locale{}, fmt.Errorf("%w: locale %q is not a mapping (line %d)", ErrMalformed, name, node.Line)
	}

	loc := Locale{Name: name}
	seen := make(map[string]bool, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		if keyNode.Kind != yaml.ScalarNode {
			return Locale{}, fmt.Errorf("%w: key in locale %q at line %d is not a scalar", ErrMalformed, name, keyNode.Line)
		}
		if seen[keyNode.Value] {
			return Locale{}, fmt.Errorf("%w: duplicate key %q in locale %q", ErrMalformed, keyNode.Value, name)
		}
		seen[keyNode.Value] = true

		loc.Entries = append(loc.Entries, Entry{
			Key:   keyNode.Value,
			Value: node.Content[i+1],
		})
	}

	return loc, nil
}

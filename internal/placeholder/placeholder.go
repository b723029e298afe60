package placeholder

import (
	"regexp"
	"sort"

	"locale-splitter/internal/catalog"

	"gopkg.in/yaml.v3"
)

// pattern matches %{name} interpolation placeholders in translation values.
var pattern = regexp.MustCompile(`%\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Extract returns the sorted, deduplicated placeholder names found in s.
func Extract(s string) []string {
	matches := pattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		set[m[1]] = struct{}{}
	}

	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ExtractNode collects placeholder names from a value node, descending into
// pluralization groups and nested groups.
func ExtractNode(n *yaml.Node) []string {
	set := make(map[string]struct{})
	collect(n, set)
	if len(set) == 0 {
		return nil
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collect(n *yaml.Node, set map[string]struct{}) {
	if n == nil {
		return
	}

	switch n.Kind {
	case yaml.ScalarNode:
		for _, m := range pattern.FindAllStringSubmatch(n.Value, -1) {
			set[m[1]] = struct{}{}
		}
	case yaml.MappingNode:
		// Values only; mapping keys are plural forms or sub-key names.
		for i := 1; i < len(n.Content); i += 2 {
			collect(n.Content[i], set)
		}
	case yaml.SequenceNode:
		for _, c := range n.Content {
			collect(c, set)
		}
	}
}

// Mismatch reports a key whose placeholder set in one locale differs from the
// reference locale's.
type Mismatch struct {
	Locale string
	Key    string
	Want   []string
	Got    []string
}

// Drift compares every locale against the reference locale and reports keys
// whose placeholder sets disagree. Keys absent from the reference locale are
// skipped: there is nothing to compare against.
func Drift(c *catalog.Catalog, reference string) []Mismatch {
	ref := make(map[string][]string)
	for _, loc := range c.Locales {
		if loc.Name != reference {
			continue
		}
		for _, e := range loc.Entries {
			ref[e.Key] = ExtractNode(e.Value)
		}
	}

	var mismatches []Mismatch
	for _, loc := range c.Locales {
		if loc.Name == reference {
			continue
		}
		for _, e := range loc.Entries {
			want, ok := ref[e.Key]
			if !ok {
				continue
			}
			got := ExtractNode(e.Value)
			if !equal(want, got) {
				mismatches = append(mismatches, Mismatch{
					Locale: loc.Name,
					Key:    e.Key,
					Want:   want,
					Got:    got,
				})
			}
		}
	}

	return mismatches
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

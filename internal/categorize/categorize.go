package categorize

import (
	"fmt"
	"strings"

	"locale-splitter/internal/catalog"
)

// FallbackModule collects every key that matches no rule.
const FallbackModule = "other"

// Rule maps a module name to the substring patterns that claim keys for it.
// Matching is case-sensitive and unanchored: pattern "email_" also claims
// "send_email_reminder".
type Rule struct {
	Module   string
	Patterns []string
}

// Ruleset is an ordered rule list. Order is a contract: the first rule with a
// matching pattern wins, so specific modules must precede broad ones.
type Ruleset []Rule

// Validate checks the structural contract of the ruleset: non-empty unique
// module names, at least one non-empty pattern per rule, and no rule claiming
// the reserved fallback module.
func (rs Ruleset) Validate() error {
	seen := make(map[string]bool, len(rs))
	for i, r := range rs {
		if r.Module == "" {
			return fmt.Errorf("rule %d: empty module name", i)
		}
		if r.Module == FallbackModule {
			return fmt.Errorf("rule %d: module name %q is reserved", i, FallbackModule)
		}
		if seen[r.Module] {
			return fmt.Errorf("rule %d: duplicate module %q", i, r.Module)
		}
		seen[r.Module] = true

		if len(r.Patterns) == 0 {
			return fmt.Errorf("rule %d (%s): no patterns", i, r.Module)
		}
		for _, p := range r.Patterns {
			if p == "" {
				return fmt.Errorf("rule %d (%s): empty pattern", i, r.Module)
			}
		}
	}
	return nil
}

// Match returns the module of the first rule with a pattern contained in key.
func (rs Ruleset) Match(key string) (string, bool) {
	for _, r := range rs {
		for _, p := range r.Patterns {
			if strings.Contains(key, p) {
				return r.Module, true
			}
		}
	}
	return "", false
}

// Bucket is one module's share of a locale's keys, in source order.
type Bucket struct {
	Module  string
	Entries []catalog.Entry
}

// Result is the categorization of a single locale. Buckets follow ruleset
// order with the fallback bucket last; empty buckets are omitted.
type Result struct {
	Locale  string
	Buckets []Bucket
}

// Categorize partitions each locale's keys into module buckets. Locales in
// the excluded set produce no result. Pure function: assignment depends only
// on the key string and the rule order, never on values or locales.
func Categorize(c *catalog.Catalog, rules Ruleset, excluded map[string]bool) []Result {
	var results []Result
	for _, loc := range c.Locales {
		if excluded[loc.Name] {
			continue
		}
		results = append(results, categorizeLocale(loc, rules))
	}
	return results
}

func categorizeLocale(loc catalog.Locale, rules Ruleset) Result {
	byModule := make(map[string][]catalog.Entry, len(rules)+1)
	for _, e := range loc.Entries {
		module, ok := rules.Match(e.Key)
		if !ok {
			module = FallbackModule
		}
		byModule[module] = append(byModule[module], e)
	}

	res := Result{Locale: loc.Name}
	for _, r := range rules {
		if entries := byModule[r.Module]; len(entries) > 0 {
			res.Buckets = append(res.Buckets, Bucket{Module: r.Module, Entries: entries})
		}
	}
	if entries := byModule[FallbackModule]; len(entries) > 0 {
		res.Buckets = append(res.Buckets, Bucket{Module: FallbackModule, Entries: entries})
	}
	return res
}

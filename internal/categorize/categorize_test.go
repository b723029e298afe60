package categorize

import (
	"testing"

	"locale-splitter/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(src))
	require.NoError(t, err)
	return c
}

func bucketKeys(b Bucket) []string {
	keys := make([]string, 0, len(b.Entries))
	for _, e := range b.Entries {
		keys = append(keys, e.Key)
	}
	return keys
}

func TestCategorize_SpecScenario(t *testing.T) {
	c := mustParse(t, `pl:
  save: Zapisz
  sign_in: Zaloguj się
  mystery_key: "X"
`)
	ruleset := Ruleset{
		{Module: "auth", Patterns: []string{"sign_in"}},
		{Module: "common", Patterns: []string{"save"}},
	}

	results := Categorize(c, ruleset, nil)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, "pl", res.Locale)
	require.Len(t, res.Buckets, 3)

	assert.Equal(t, "auth", res.Buckets[0].Module)
	assert.Equal(t, []string{"sign_in"}, bucketKeys(res.Buckets[0]))
	assert.Equal(t, "Zaloguj się", res.Buckets[0].Entries[0].Value.Value)

	assert.Equal(t, "common", res.Buckets[1].Module)
	assert.Equal(t, []string{"save"}, bucketKeys(res.Buckets[1]))

	assert.Equal(t, FallbackModule, res.Buckets[2].Module)
	assert.Equal(t, []string{"mystery_key"}, bucketKeys(res.Buckets[2]))
}

func TestCategorize_ExcludedLocale(t *testing.T) {
	c := mustParse(t, `pl:
  save: Zapisz
  sign_in: Zaloguj się
  mystery_key: "X"
`)
	ruleset := Ruleset{
		{Module: "auth", Patterns: []string{"sign_in"}},
		{Module: "common", Patterns: []string{"save"}},
	}

	results := Categorize(c, ruleset, map[string]bool{"pl": true})
	assert.Empty(t, results)
}

func TestCategorize_FirstMatchWins(t *testing.T) {
	// "email_save" matches patterns from both rules; rule order decides,
	// not pattern length or specificity.
	src := "en:\n  email_save: x\n"

	c := mustParse(t, src)
	results := Categorize(c, Ruleset{
		{Module: "emails", Patterns: []string{"email_"}},
		{Module: "common", Patterns: []string{"save"}},
	}, nil)
	require.Len(t, results[0].Buckets, 1)
	assert.Equal(t, "emails", results[0].Buckets[0].Module)

	c = mustParse(t, src)
	results = Categorize(c, Ruleset{
		{Module: "common", Patterns: []string{"save"}},
		{Module: "emails", Patterns: []string{"email_"}},
	}, nil)
	require.Len(t, results[0].Buckets, 1)
	assert.Equal(t, "common", results[0].Buckets[0].Module)
}

func TestCategorize_Completeness(t *testing.T) {
	c := mustParse(t, `en:
  sign_in: a
  sign_out: b
  email_reminder: c
  save: d
  cancel: e
  widget_title: f
  another_mystery: g
`)
	ruleset := Ruleset{
		{Module: "auth", Patterns: []string{"sign_"}},
		{Module: "emails", Patterns: []string{"email_"}},
		{Module: "common", Patterns: []string{"save", "cancel"}},
	}

	results := Categorize(c, ruleset, nil)
	require.Len(t, results, 1)

	seen := make(map[string]int)
	var total int
	for _, b := range results[0].Buckets {
		for _, e := range b.Entries {
			seen[e.Key]++
			total++
		}
	}

	assert.Equal(t, len(c.Locales[0].Entries), total)
	for _, e := range c.Locales[0].Entries {
		assert.Equal(t, 1, seen[e.Key], "key %q must land in exactly one bucket", e.Key)
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	c := mustParse(t, `en:
  sign_in: a
  email_reminder: b
  save: c
  mystery: d
`)
	ruleset := Ruleset{
		{Module: "auth", Patterns: []string{"sign_"}},
		{Module: "emails", Patterns: []string{"email_"}},
		{Module: "common", Patterns: []string{"save"}},
	}

	first := Categorize(c, ruleset, nil)
	second := Categorize(c, ruleset, nil)
	assert.Equal(t, first, second)
}

func TestCategorize_EmptyBucketsOmitted(t *testing.T) {
	c := mustParse(t, "en:\n  save: a\n")
	ruleset := Ruleset{
		{Module: "auth", Patterns: []string{"sign_in"}},
		{Module: "common", Patterns: []string{"save"}},
	}

	results := Categorize(c, ruleset, nil)
	require.Len(t, results[0].Buckets, 1)
	assert.Equal(t, "common", results[0].Buckets[0].Module)
}

func TestRuleset_Match_Unanchored(t *testing.T) {
	rs := Ruleset{{Module: "emails", Patterns: []string{"email_"}}}

	module, ok := rs.Match("send_email_reminder")
	require.True(t, ok)
	assert.Equal(t, "emails", module)

	_, ok = rs.Match("send_Email_reminder")
	assert.False(t, ok, "matching is case-sensitive")
}

func TestRuleset_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ruleset Ruleset
		wantErr bool
	}{
		{"valid", Ruleset{{Module: "auth", Patterns: []string{"sign_in"}}}, false},
		{"empty module name", Ruleset{{Module: "", Patterns: []string{"x"}}}, true},
		{"reserved module", Ruleset{{Module: FallbackModule, Patterns: []string{"x"}}}, true},
		{"duplicate module", Ruleset{
			{Module: "auth", Patterns: []string{"a"}},
			{Module: "auth", Patterns: []string{"b"}},
		}, true},
		{"no patterns", Ruleset{{Module: "auth", Patterns: nil}}, true},
		{"empty pattern", Ruleset{{Module: "auth", Patterns: []string{""}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ruleset.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

package emit

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"locale-splitter/internal/categorize"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Ext is the artifact extension the loader globs for.
const Ext = ".yml"

// Artifact describes one written module file.
type Artifact struct {
	Path   string
	Module string
	Keys   int
}

// Emitter regenerates per-module translation fragments under a destination
// root, one directory per locale.
type Emitter struct {
	root string
}

// NewEmitter creates an Emitter writing below root.
func NewEmitter(root string) *Emitter {
	return &Emitter{root: root}
}

// Emit writes every bucket of one locale to <root>/<locale>/<module>.yml,
// unconditionally overwriting existing files, and removes module files the
// current categorization no longer produces. Each artifact wraps its keys in
// a single top-level locale mapping so the loader can verify file placement.
// Write errors propagate immediately; files already written stay in place.
func (e *Emitter) Emit(res categorize.Result) ([]Artifact, error) {
	dir := filepath.Join(e.root, res.Locale)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create locale directory: %w", err)
	}

	current := make(map[string]bool, len(res.Buckets))
	artifacts := make([]Artifact, 0, len(res.Buckets))

	for _, b := range res.Buckets {
		path := filepath.Join(dir, b.Module+Ext)

		data, err := marshalBucket(res.Locale, b)
		if err != nil {
			return artifacts, err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return artifacts, fmt.Errorf("write %s: %w", path, err)
		}

		current[b.Module+Ext] = true
		artifacts = append(artifacts, Artifact{Path: path, Module: b.Module, Keys: len(b.Entries)})

		log.Info().
			Str("locale", res.Locale).
			Str("module", b.Module).
			Int("keys", len(b.Entries)).
			Msg("Module file written")
	}

	if err := e.removeStale(dir, current); err != nil {
		return artifacts, err
	}

	return artifacts, nil
}

// marshalBucket serializes { locale: { key: value, ... } } preserving the
// source key order and value nodes verbatim.
func marshalBucket(locale string, b categorize.Bucket) ([]byte, error) {
	inner := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range b.Entries {
		inner.Content = append(inner.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
			e.Value,
		)
	}

	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: locale},
		inner,
	)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encode module %s: %w", b.Module, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// removeStale deletes module files left over from a previous run so the
// locale directory holds exactly the current categorization's artifacts.
func (e *Emitter) removeStale(dir string, current map[string]bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read locale directory: %w", err)
	}

	for _, de := range entries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, Ext) || current[name] {
			continue
		}

		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove stale module file: %w", err)
		}
		log.Info().Str("file", path).Msg("Removed stale module file")
	}

	return nil
}

package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"locale-splitter/internal/catalog"
	"locale-splitter/internal/emit"

	"github.com/fsnotify/fsnotify"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Loader discovers per-module translation fragments below a root directory
// and registers them in a go-i18n bundle. The discovery contract is
// <root>/<locale>/<module>.yml with the file's single top-level key equal to
// the locale directory name.
type Loader struct {
	root       string
	defaultTag language.Tag

	mu     sync.RWMutex
	bundle *i18n.Bundle
	paths  []string
	counts map[string]int
}

// New creates a Loader for the given fragment root. An unparseable default
// locale falls back to English.
func New(root, defaultLocale string) *Loader {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		log.Warn().Str("locale", defaultLocale).Msg("Invalid default locale, falling back to English")
		tag = language.English
	}

	return &Loader{
		root:       root,
		defaultTag: tag,
	}
}

// Discover returns the lexically sorted paths of all fragments exactly two
// levels below the root.
func (l *Loader) Discover() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(l.root, "*", "*"+emit.Ext))
	if err != nil {
		return nil, fmt.Errorf("glob fragments: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Load builds a fresh bundle from the current fragments and swaps it in.
// On failure the previously loaded bundle stays active.
func (l *Loader) Load() error {
	paths, err := l.Discover()
	if err != nil {
		return err
	}

	bundle := i18n.NewBundle(l.defaultTag)
	counts := make(map[string]int)

	for _, path := range paths {
		locale := filepath.Base(filepath.Dir(path))

		frag, err := catalog.Load(path)
		if err != nil {
			return fmt.Errorf("load fragment: %w", err)
		}
		if len(frag.Locales) != 1 || frag.Locales[0].Name != locale {
			return fmt.Errorf("fragment %s: top-level key does not match locale directory %q", path, locale)
		}

		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("fragment %s: invalid locale %q: %w", path, locale, err)
		}

		msgs := flatten(frag.Locales[0].Entries)
		if err := bundle.AddMessages(tag, msgs...); err != nil {
			return fmt.Errorf("register %s: %w", path, err)
		}
		counts[locale] += len(msgs)
	}

	l.mu.Lock()
	l.bundle = bundle
	l.paths = paths
	l.counts = counts
	l.mu.Unlock()

	log.Info().Int("files", len(paths)).Str("root", l.root).Msg("Translation fragments loaded")
	return nil
}

// Paths returns the fragment paths of the last successful load, sorted.
func (l *Loader) Paths() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.paths...)
}

// Counts returns the number of registered messages per locale.
func (l *Loader) Counts() map[string]int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]int, len(l.counts))
	for k, v := range l.counts {
		out[k] = v
	}
	return out
}

// T renders the message identified by key for the given locale, falling back
// to the default locale and finally to the key itself.
func (l *Loader) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	l.mu.RLock()
	bundle := l.bundle
	l.mu.RUnlock()
	if bundle == nil {
		return key
	}

	var locales []string
	if locale != "" {
		locales = append(locales, locale)
	}
	locales = append(locales, l.defaultTag.String())

	localizer := i18n.NewLocalizer(bundle, locales...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		return key
	}
	return msg
}

// Watch reloads the bundle whenever a fragment changes, until the context is
// cancelled. A failed reload keeps the previous bundle active.
func (l *Loader) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the root and every locale directory; new locale directories are
	// added as they appear.
	if err := watcher.Add(l.root); err != nil {
		return fmt.Errorf("watch root: %w", err)
	}
	dirs, err := os.ReadDir(l.root)
	if err != nil {
		return fmt.Errorf("read root: %w", err)
	}
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		if err := watcher.Add(filepath.Join(l.root, d.Name())); err != nil {
			return fmt.Errorf("watch locale directory: %w", err)
		}
	}

	log.Info().Str("root", l.root).Msg("Watching translation fragments for changes")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						log.Error().Err(err).Str("dir", event.Name).Msg("Failed to watch new locale directory")
					}
					continue
				}
			}

			if !strings.HasSuffix(event.Name, emit.Ext) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			log.Debug().Str("event", event.Op.String()).Str("file", event.Name).Msg("Fragment changed")
			if err := l.Load(); err != nil {
				log.Error().Err(err).Msg("Reload failed, keeping previous bundle")
			}

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(werr).Msg("File watcher error")
		}
	}
}

// pluralForms are the CLDR plural categories recognized in value groups.
var pluralForms = map[string]bool{
	"zero":  true,
	"one":   true,
	"two":   true,
	"few":   true,
	"many":  true,
	"other": true,
}

// flatten converts fragment entries into go-i18n messages. Scalar values map
// directly, mappings whose keys are all plural forms become one plural
// message, and any other mapping is a group flattened with dot-joined IDs.
func flatten(entries []catalog.Entry) []*i18n.Message {
	var msgs []*i18n.Message
	for _, e := range entries {
		msgs = appendMessages(msgs, e.Key, e.Value)
	}
	return msgs
}

func appendMessages(msgs []*i18n.Message, id string, n *yaml.Node) []*i18n.Message {
	switch n.Kind {
	case yaml.ScalarNode:
		return append(msgs, &i18n.Message{ID: id, Other: n.Value})

	case yaml.MappingNode:
		if m, ok := pluralMessage(id, n); ok {
			return append(msgs, m)
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			msgs = appendMessages(msgs, id+"."+n.Content[i].Value, n.Content[i+1])
		}
		return msgs

	default:
		log.Warn().Str("key", id).Msg("Skipping value with unsupported shape")
		return msgs
	}
}

func pluralMessage(id string, n *yaml.Node) (*i18n.Message, bool) {
	if len(n.Content) == 0 {
		return nil, false
	}

	msg := &i18n.Message{ID: id}
	for i := 0; i+1 < len(n.Content); i += 2 {
		form, val := n.Content[i], n.Content[i+1]
		if val.Kind != yaml.ScalarNode || !pluralForms[form.Value] {
			return nil, false
		}

		switch form.Value {
		case "zero":
			msg.Zero = val.Value
		case "one":
			msg.One = val.Value
		case "two":
			msg.Two = val.Value
		case "few":
			msg.Few = val.Value
		case "many":
			msg.Many = val.Value
		case "other":
			msg.Other = val.Value
		}
	}
	return msg, true
}

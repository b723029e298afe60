package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"locale-splitter/internal/catalog"
	"locale-splitter/internal/categorize"
	"locale-splitter/internal/config"
	"locale-splitter/internal/emit"
	"locale-splitter/internal/loader"
	"locale-splitter/internal/placeholder"
	"locale-splitter/internal/rules"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:   "locale-splitter",
		Short: "Split monolithic YAML translation tables into per-module fragments",
		Long: `A batch tool for web applications that keep translations in YAML.
It partitions a single locale→key→value translation table into feature-module
fragments using an ordered first-match-wins ruleset, and can load the
resulting fragments into an i18n message bundle.`,
	}

	rootCmd.AddCommand(splitCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(loadCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func splitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "split",
		Short: "Regenerate per-module fragments from the source translation table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit()
		},
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Dry-run categorization with bucket summary and placeholder drift report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck()
		},
	}
}

func loadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <fragment-root>",
		Short: "Load all fragments under a root into an i18n bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			watch, _ := cmd.Flags().GetBool("watch")
			return runLoad(args[0], watch)
		},
	}

	cmd.Flags().Bool("watch", false, "Keep running and reload the bundle when fragments change")

	return cmd
}

// runSplit handles the `split` command.
func runSplit() error {
	cfg := config.Load()

	if err := os.MkdirAll(cfg.DestRoot, 0755); err != nil {
		return fmt.Errorf("create destination root: %w", err)
	}

	// The destination is owned by a single run for its duration.
	lock := flock.New(filepath.Join(cfg.DestRoot, ".splitter.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("destination %s is locked by another run", cfg.DestRoot)
	}
	defer lock.Unlock()

	ruleset := rules.Default()
	if err := ruleset.Validate(); err != nil {
		return fmt.Errorf("validate ruleset: %w", err)
	}

	table, err := catalog.Load(cfg.SourcePath)
	if err != nil {
		return fmt.Errorf("load source table: %w", err)
	}

	log.Info().
		Str("source", cfg.SourcePath).
		Int("locales", len(table.Locales)).
		Int("excluded", len(cfg.ExcludedLocales)).
		Msg("Starting split")

	results := categorize.Categorize(table, ruleset, cfg.ExcludedLocales)

	emitter := emit.NewEmitter(cfg.DestRoot)
	var files, keys int
	for _, res := range results {
		artifacts, err := emitter.Emit(res)
		if err != nil {
			return fmt.Errorf("emit locale %s: %w", res.Locale, err)
		}
		files += len(artifacts)
		for _, a := range artifacts {
			keys += a.Keys
		}
	}

	log.Info().
		Int("locales", len(results)).
		Int("files", files).
		Int("keys", keys).
		Str("dest", cfg.DestRoot).
		Msg("Split complete")

	return nil
}

// runCheck handles the `check` command.
func runCheck() error {
	cfg := config.Load()

	ruleset := rules.Default()
	if err := ruleset.Validate(); err != nil {
		return fmt.Errorf("validate ruleset: %w", err)
	}

	table, err := catalog.Load(cfg.SourcePath)
	if err != nil {
		return fmt.Errorf("load source table: %w", err)
	}

	results := categorize.Categorize(table, ruleset, cfg.ExcludedLocales)

	for _, res := range results {
		var keys int
		for _, b := range res.Buckets {
			log.Info().
				Str("locale", res.Locale).
				Str("module", b.Module).
				Int("keys", len(b.Entries)).
				Msg("Bucket")
			keys += len(b.Entries)
		}
		log.Info().
			Str("locale", res.Locale).
			Int("keys", keys).
			Int("modules", len(res.Buckets)).
			Msg("Locale categorized")
	}

	mismatches := placeholder.Drift(table, cfg.DefaultLocale)
	for _, m := range mismatches {
		log.Warn().
			Str("locale", m.Locale).
			Str("key", m.Key).
			Strs("want", m.Want).
			Strs("got", m.Got).
			Msg("Placeholder drift")
	}
	if len(mismatches) == 0 {
		log.Info().Str("reference", cfg.DefaultLocale).Msg("No placeholder drift")
	}

	return nil
}

// runLoad handles the `load` command.
func runLoad(root string, watch bool) error {
	cfg := config.Load()

	l := loader.New(root, cfg.DefaultLocale)
	if err := l.Load(); err != nil {
		return fmt.Errorf("load fragments: %w", err)
	}

	counts := l.Counts()
	locales := make([]string, 0, len(counts))
	for locale := range counts {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	for _, locale := range locales {
		log.Info().Str("locale", locale).Int("messages", counts[locale]).Msg("Locale registered")
	}

	if !watch {
		return nil
	}

	ctx, cancel := setupContext()
	defer cancel()

	return l.Watch(ctx)
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

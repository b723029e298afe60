package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	SourcePath      string
	DestRoot        string
	DefaultLocale   string
	ExcludedLocales map[string]bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		SourcePath:      getEnv("SOURCE_PATH", "config/locales/translations.yml"),
		DestRoot:        getEnv("DEST_ROOT", "config/locales/modules"),
		DefaultLocale:   getEnv("DEFAULT_LOCALE", "en"),
		ExcludedLocales: getEnvSet("EXCLUDED_LOCALES", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvSet parses a comma-separated env value into a set.
func getEnvSet(key, fallback string) map[string]bool {
	v := os.Getenv(key)
	if v == "" {
		v = fallback
	}

	set := make(map[string]bool)
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			set[item] = true
		}
	}
	return set
}

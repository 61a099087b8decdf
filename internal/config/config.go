package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the server configuration, read from the environment
type Config struct {
	Addr         string `env:"WITNESS_ADDR"         envDefault:":8080"`
	PublicURL    string `env:"WITNESS_PUBLIC_URL"   envDefault:"http://localhost:8080"`
	WordList     string `env:"WITNESS_WORDLIST"`     // empty selects the built-in list
	Instructions string `env:"WITNESS_INSTRUCTIONS"` // empty selects the built-in prompt
	ArchiveDSN   string `env:"WITNESS_ARCHIVE_DSN"`  // empty disables the archive
	MaxLobbies   int    `env:"WITNESS_MAX_LOBBIES"  envDefault:"100"`
	Mode         string `env:"WITNESS_MODE"`

	OpenAIKey     string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL"`
	OpenAIModel   string        `env:"OPENAI_MODEL"   envDefault:"gpt-4o-mini"`
	OpenAITimeout time.Duration `env:"OPENAI_TIMEOUT" envDefault:"30s"`
}

// Load reads an optional .env file and parses the environment into a Config
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if cfg.MaxLobbies < 0 {
		return nil, fmt.Errorf("WITNESS_MAX_LOBBIES must not be negative")
	}
	return &cfg, nil
}

// ParseEnv parses environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

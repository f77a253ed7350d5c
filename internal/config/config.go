// Package config reads server settings from the environment, after loading
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string        `env:"LOLRAND_ADDR" envDefault:":8080"`
	DatabaseURL       string        `env:"LOLRAND_DATABASE_URL"`
	PlayersFile       string        `env:"LOLRAND_PLAYERS_FILE" envDefault:"data/league_players.json"`
	ChampionRolesFile string        `env:"LOLRAND_CHAMPION_ROLES_FILE" envDefault:"data/champion_roles.json"`
	ChampionCacheFile string        `env:"LOLRAND_CHAMPION_CACHE_FILE" envDefault:"data/champion_cache.json"`
	RiotAPIKey        string        `env:"RIOT_API_KEY"`
	LogLevel          string        `env:"LOLRAND_LOG_LEVEL" envDefault:"info"`
	Dev               bool          `env:"LOLRAND_DEV" envDefault:"false"`
	RollTimeout       time.Duration `env:"LOLRAND_ROLL_TIMEOUT" envDefault:"10s"`
}

// Load reads the given .env files (".env" when none are named) and then
// parses the environment. Missing .env files are ignored; variables already
// set in the environment win over file values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.RollTimeout <= 0 {
		return Config{}, fmt.Errorf("LOLRAND_ROLL_TIMEOUT must be positive, got %s", cfg.RollTimeout)
	}
	return cfg, nil
}

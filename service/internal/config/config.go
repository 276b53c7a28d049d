// Package config reads the service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment variable names.
const (
	EnvListenAddr     = "MACAU_LISTEN_ADDR"
	EnvTurnTimeout    = "MACAU_TURN_TIMEOUT"
	EnvCardsPerPlayer = "MACAU_CARDS_PER_PLAYER"
	EnvDecks          = "MACAU_DECKS"
	EnvRedisAddr      = "MACAU_REDIS_ADDR"
	EnvLogLevel       = "MACAU_LOG_LEVEL"
)

// Config holds the settings of a macau server process.
type Config struct {
	ListenAddr     string
	TurnTimeout    time.Duration // 0 disables the human turn timer
	CardsPerPlayer int
	Decks          int    // 0 derives the count from players and hand size
	RedisAddr      string // empty disables the Redis publisher
	LogLevel       logrus.Level
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		ListenAddr:     ":8080",
		TurnTimeout:    60 * time.Second,
		CardsPerPlayer: 5,
		LogLevel:       logrus.InfoLevel,
	}
}

// Load reads the given dotenv files (".env" when none are named) into the
// process environment and then parses it. Missing files are not an error.
// Variables already set in the environment win over the files.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading env file: %w", err)
	}
	return FromEnv()
}

// FromEnv parses the MACAU_* variables over Default.
func FromEnv() (Config, error) {
	cfg := Default()
	if v, ok := os.LookupEnv(EnvListenAddr); ok && v != "" {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv(EnvTurnTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("%s: invalid duration %q", EnvTurnTimeout, v)
		}
		cfg.TurnTimeout = d
	}
	var err error
	if cfg.CardsPerPlayer, err = intVar(EnvCardsPerPlayer, cfg.CardsPerPlayer, 1); err != nil {
		return Config{}, err
	}
	if cfg.Decks, err = intVar(EnvDecks, cfg.Decks, 0); err != nil {
		return Config{}, err
	}
	cfg.RedisAddr = os.Getenv(EnvRedisAddr)
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		lvl, err := logrus.ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

func intVar(name string, def, min int) (int, error) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min {
		return 0, fmt.Errorf("%s: want an integer >= %d, got %q", name, min, v)
	}
	return n, nil
}

// NewLogger returns a logrus logger writing text at the configured level.
func (c Config) NewLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(c.LogLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

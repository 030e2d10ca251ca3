package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	ModeServe = "serve"
	ModePlay  = "play"

	OpponentBot   = "bot"
	OpponentHuman = "human"

	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string  `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Mode     string  `yaml:"mode" env:"MODE" env-default:"serve"`
	Redis    Redis   `yaml:"redis"`
	Storage  Storage `yaml:"storage"`
	Bot      Bot     `yaml:"bot"`
	Play     Play    `yaml:"play"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Storage selects a backend per repository.
type Storage struct {
	Games      string `yaml:"games" env:"STORAGE_GAMES" env-default:"memory"`
	History    string `yaml:"history" env:"STORAGE_HISTORY" env-default:"memory"`
	SQLitePath string `yaml:"sqlite-path" env:"STORAGE_SQLITE_PATH" env-default:"tictactoe.db"`
}

type Bot struct {
	Difficulty string `yaml:"difficulty" env:"BOT_DIFFICULTY" env-default:"hard"`
	// Seed fixes the easy-tier random source; 0 seeds from the clock.
	Seed uint64 `yaml:"seed" env:"BOT_SEED" env-default:"0"`
}

// Play configures the console match. HumanMark is the first human's seat; the other
// seat goes to the bot or, with a human opponent, to OpponentName. ResumeID continues
// a stored game instead of starting a new one.
type Play struct {
	HumanMark    string `yaml:"human-mark" env:"PLAY_HUMAN_MARK" env-default:"X"`
	HumanName    string `yaml:"human-name" env:"PLAY_HUMAN_NAME" env-default:"Player"`
	Opponent     string `yaml:"opponent" env:"PLAY_OPPONENT" env-default:"bot"`
	OpponentName string `yaml:"opponent-name" env:"PLAY_OPPONENT_NAME" env-default:"Player 2"`
	ResumeID     string `yaml:"resume-id" env:"PLAY_RESUME_ID"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func (that *Config) validate() error {
	if that.Mode != ModeServe && that.Mode != ModePlay {
		return fmt.Errorf("unknown mode %q", that.Mode)
	}

	if that.Play.Opponent != OpponentBot && that.Play.Opponent != OpponentHuman {
		return fmt.Errorf("unknown opponent %q", that.Play.Opponent)
	}

	if that.Storage.Games != StorageMemory && that.Storage.Games != StorageRedis {
		return fmt.Errorf("unknown games storage %q", that.Storage.Games)
	}

	switch that.Storage.History {
	case StorageMemory, StorageRedis, StorageSQLite:
	default:
		return fmt.Errorf("unknown history storage %q", that.Storage.History)
	}

	return nil
}

// NeedsRedis reports whether any repository is backed by Redis.
func (that *Storage) NeedsRedis() bool {
	return that.Games == StorageRedis || that.History == StorageRedis
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
)

const (
	ModePlay     = "play"
	ModeSimulate = "simulate"
)

type Config struct {
	LogLevel string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Mode     string   `yaml:"mode" env:"MODE" env-default:"play"`
	Game     Game     `yaml:"game"`
	Simulate Simulate `yaml:"simulate"`
	Redis    Redis    `yaml:"redis"`
}

type Game struct {
	GridSize      int           `yaml:"grid-size" env:"GAME_GRID_SIZE" env-default:"3"`
	OpponentDelay time.Duration `yaml:"opponent-delay" env:"GAME_OPPONENT_DELAY" env-default:"500ms"`
	Level         string        `yaml:"level" env:"GAME_LEVEL" env-default:"minimax"`
	Seed          int64         `yaml:"seed" env:"GAME_SEED" env-default:"0"`
}

type Simulate struct {
	Games      int    `yaml:"games" env:"SIMULATE_GAMES" env-default:"100"`
	HumanLevel string `yaml:"human-level" env:"SIMULATE_HUMAN_LEVEL" env-default:"random"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Channel string `yaml:"channel" env:"REDIS_CHANNEL" env-default:"tictactoe:events"`
}

// MustLoad - load configuration from the config file, or from the environment when the file is missing.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config: %w", err))
	}

	return config
}

// Load - reads config.yml when present, otherwise the environment, and validates it.
func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate - checks mode, grid size and that both levels can play on that grid.
func (that *Config) Validate() error {
	if that.Mode != ModePlay && that.Mode != ModeSimulate {
		return fmt.Errorf("%w: %q", apperror.ErrUnknownMode, that.Mode)
	}

	if that.Game.GridSize < entity.MinGridSize {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidGridSize, that.Game.GridSize)
	}

	level, err := service.ParseLevel(that.Game.Level)
	if err != nil {
		return fmt.Errorf("game level: %w", err)
	}

	if err = service.CheckGridSize(level, that.Game.GridSize); err != nil {
		return fmt.Errorf("game level: %w", err)
	}

	humanLevel, err := service.ParseLevel(that.Simulate.HumanLevel)
	if err != nil {
		return fmt.Errorf("simulate human level: %w", err)
	}

	if err = service.CheckGridSize(humanLevel, that.Game.GridSize); err != nil {
		return fmt.Errorf("simulate human level: %w", err)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

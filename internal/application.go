package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/transport/console"
	"github.com/rocketscienceinc/tictactoe-engine/internal/transport/redis"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

// RunApp - runs the application in the configured mode.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	switch conf.Mode {
	case config.ModePlay:
		return runPlay(ctx, logger, conf, os.Stdin, os.Stdout)
	case config.ModeSimulate:
		return runSimulate(logger, conf)
	default:
		return fmt.Errorf("%w: %q", apperror.ErrUnknownMode, conf.Mode)
	}
}

func runPlay(ctx context.Context, logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	log := logger.With("component", "app", "mode", config.ModePlay)

	level, err := service.ParseLevel(conf.Game.Level)
	if err != nil {
		return fmt.Errorf("invalid game level: %w", err)
	}

	// engine faults happen on the timer goroutine; they end the session and surface from RunApp
	ctx, stop := context.WithCancelCause(ctx)
	defer stop(nil)

	engine, err := usecase.NewEngine(logger,
		usecase.WithGridSize(conf.Game.GridSize),
		usecase.WithOpponentDelay(conf.Game.OpponentDelay),
		usecase.WithRand(service.NewRand(conf.Game.Seed)),
		usecase.WithFaultHandler(stop),
	)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	if conf.Redis.Enabled {
		client, err := redis.Connect(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis: %w", err)
		}

		defer func() {
			if err := client.Close(); err != nil {
				log.Error("could not close redis client", "error", err)
			}
		}()

		engine.Subscribe(redis.NewPublisher(logger, client, conf.Redis.Channel, engine))
		log.Info("Publishing game events", "channel", conf.Redis.Channel)
	}

	presenter := console.NewPresenter(logger, engine, in, out, level)
	engine.Subscribe(presenter)

	if err = presenter.Run(ctx); err != nil {
		return fmt.Errorf("console session failed: %w", err)
	}

	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		return fmt.Errorf("engine fault: %w", cause)
	}

	return nil
}

func runSimulate(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app", "mode", config.ModeSimulate)

	humanLevel, err := service.ParseLevel(conf.Simulate.HumanLevel)
	if err != nil {
		return fmt.Errorf("invalid human level: %w", err)
	}

	computerLevel, err := service.ParseLevel(conf.Game.Level)
	if err != nil {
		return fmt.Errorf("invalid game level: %w", err)
	}

	rng := service.NewRand(conf.Game.Seed)

	var tally usecase.Tally
	for game := range conf.Simulate.Games {
		human, err := service.NewStrategy(humanLevel, rng)
		if err != nil {
			return fmt.Errorf("failed to create human strategy: %w", err)
		}

		computer, err := service.NewStrategy(computerLevel, rng)
		if err != nil {
			return fmt.Errorf("failed to create computer strategy: %w", err)
		}

		match, err := usecase.PlayMatch(conf.Game.GridSize, human, computer)
		if err != nil {
			return fmt.Errorf("match %d failed: %w", game, err)
		}

		tally.Add(match.Result)
		log.Debug("match finished", "game", game, "result", match.Result.String(), "moves", len(match.Moves))
	}

	log.Info("Simulation finished",
		"human", humanLevel,
		"computer", computerLevel,
		"games", tally.Total(),
		"humanWins", tally.HumanWins,
		"computerWins", tally.ComputerWins,
		"draws", tally.Draws,
	)

	return nil
}

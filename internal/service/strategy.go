package service

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Strategy picks the computer's next move. Implementations must not mutate the board.
type Strategy interface {
	SelectMove(board *entity.Board, self, opponent entity.Player) (entity.Move, error)
}

type Level string

// MaxMinimaxGridSize - the largest grid an exhaustive search finishes on.
const MaxMinimaxGridSize = entity.DefaultGridSize

const (
	LevelRandom    Level = "random"
	LevelHeuristic Level = "heuristic"
	LevelMinimax   Level = "minimax"
)

func Levels() []Level {
	return []Level{LevelRandom, LevelHeuristic, LevelMinimax}
}

// ParseLevel - parses a level name, ignoring case and surrounding spaces.
func ParseLevel(value string) (Level, error) {
	level := Level(strings.ToLower(strings.TrimSpace(value)))
	switch level {
	case LevelRandom, LevelHeuristic, LevelMinimax:
		return level, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownLevel, value)
	}
}

// CheckGridSize - reports whether level can play on a size by size grid.
func CheckGridSize(level Level, size int) error {
	if level == LevelMinimax && size > MaxMinimaxGridSize {
		return fmt.Errorf("%w: %s plays up to %dx%d, got %dx%d",
			apperror.ErrInvalidGridSize, level, MaxMinimaxGridSize, MaxMinimaxGridSize, size, size)
	}

	return nil
}

// NewStrategy - builds the strategy for a level. A nil rng gets a time seeded source.
func NewStrategy(level Level, rng *rand.Rand) (Strategy, error) {
	if rng == nil {
		rng = NewRand(0)
	}

	switch level {
	case LevelRandom:
		return NewRandomBot(rng), nil
	case LevelHeuristic:
		return NewHeuristicBot(rng), nil
	case LevelMinimax:
		return NewMinimaxBot(), nil
	default:
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownLevel, level)
	}
}

// NewRand returns a source seeded with seed, or with the clock when seed is zero.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return rand.New(rand.NewSource(seed)) //nolint: gosec // game randomness
}

// playableMoves guards the strategy contract: a decided or full board means
// the caller's state machine is broken.
func playableMoves(board *entity.Board) ([]entity.Move, error) {
	if winner, ok := board.Winner(); ok {
		return nil, fmt.Errorf("%w: %s owns a line", apperror.ErrBoardDecided, winner)
	}

	moves := board.AvailableMoves()
	if len(moves) == 0 {
		return nil, apperror.ErrNoAvailableMoves
	}

	return moves, nil
}

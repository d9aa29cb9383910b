package usecase

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayMatch(t *testing.T) {
	t.Run("Minimax never loses", func(t *testing.T) {
		for _, level := range []service.Level{service.LevelRandom, service.LevelHeuristic} {
			var tally Tally

			for seed := int64(1); seed <= 50; seed++ {
				// Given: a seeded human strategy against minimax
				human, err := service.NewStrategy(level, service.NewRand(seed))
				require.NoError(t, err)

				// When: they play a full game
				match, err := PlayMatch(entity.DefaultGridSize, human, service.NewMinimaxBot())
				require.NoError(t, err)

				tally.Add(match.Result)
			}

			// Then: the human side never won
			assert.Zero(t, tally.HumanWins, string(level))
			assert.Equal(t, 50, tally.Total())
		}
	})

	t.Run("Records moves in order, human first", func(t *testing.T) {
		match, err := PlayMatch(entity.DefaultGridSize, firstFreeBot{}, firstFreeBot{})

		require.NoError(t, err)
		// X: 0 2 4 6 -> the anti diagonal completes on move seven
		assert.Equal(t, entity.Win(entity.Human), match.Result)
		assert.Len(t, match.Moves, 7)
		assert.Equal(t, entity.Move{X: 0, Y: 0}, match.Moves[0])
		assert.Equal(t, entity.Move{X: 0, Y: 1}, match.Moves[1])
	})

	t.Run("Strategy errors are returned", func(t *testing.T) {
		_, err := PlayMatch(entity.DefaultGridSize, failingBot{}, firstFreeBot{})

		require.ErrorIs(t, err, errBrokenStrategy)
	})

	t.Run("Invalid grid size", func(t *testing.T) {
		_, err := PlayMatch(1, firstFreeBot{}, firstFreeBot{})

		require.ErrorIs(t, err, apperror.ErrInvalidGridSize)
	})
}

func TestTally(t *testing.T) {
	var tally Tally

	tally.Add(entity.Win(entity.Human))
	tally.Add(entity.Win(entity.Computer))
	tally.Add(entity.Win(entity.Computer))
	tally.Add(entity.Draw())
	tally.Add(entity.InProgress())

	assert.Equal(t, Tally{HumanWins: 1, ComputerWins: 2, Draws: 1}, tally)
	assert.Equal(t, 4, tally.Total())
}

package service

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const winScore = 10

// MinimaxBot searches the whole game tree. Wins score 10-depth and losses
// depth-10, so it prefers quick wins and slow losses. It never loses.
type MinimaxBot struct {
	lastNodes atomic.Int64
}

func NewMinimaxBot() *MinimaxBot {
	return &MinimaxBot{}
}

func (that *MinimaxBot) SelectMove(board *entity.Board, self, opponent entity.Player) (entity.Move, error) {
	if err := CheckGridSize(LevelMinimax, board.Size()); err != nil {
		return entity.Move{}, err
	}

	moves, err := playableMoves(board)
	if err != nil {
		return entity.Move{}, err
	}

	s := &search{self: self, opponent: opponent}

	best := moves[0]
	bestScore := math.MinInt
	for _, move := range moves {
		child := board.Clone()
		if err = child.Place(move, self); err != nil {
			return entity.Move{}, fmt.Errorf("failed to probe move %s: %w", move, err)
		}

		// strict comparison keeps the first move on ties
		if score := s.score(child, 1, false); score > bestScore {
			best, bestScore = move, score
		}
	}

	that.lastNodes.Store(s.nodes)

	return best, nil
}

// Nodes returns the number of positions visited by the last search.
func (that *MinimaxBot) Nodes() int64 {
	return that.lastNodes.Load()
}

type search struct {
	self     entity.Player
	opponent entity.Player
	nodes    int64
}

func (that *search) score(board *entity.Board, depth int, maximizing bool) int {
	that.nodes++

	if winner, ok := board.Winner(); ok {
		if winner == that.self {
			return winScore - depth
		}
		return depth - winScore
	}

	moves := board.AvailableMoves()
	if len(moves) == 0 {
		return 0
	}

	player, best := that.opponent, math.MaxInt
	if maximizing {
		player, best = that.self, math.MinInt
	}

	for _, move := range moves {
		child := board.Clone()
		if err := child.Place(move, player); err != nil {
			continue
		}

		value := that.score(child, depth+1, !maximizing)
		if maximizing {
			best = max(best, value)
		} else {
			best = min(best, value)
		}
	}

	return best
}

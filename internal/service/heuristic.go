package service

import (
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// heuristicBot plays the first rule that applies: win, block, center, random.
type heuristicBot struct {
	rng *rand.Rand
}

func NewHeuristicBot(rng *rand.Rand) Strategy {
	return &heuristicBot{rng: rng}
}

func (that *heuristicBot) SelectMove(board *entity.Board, self, opponent entity.Player) (entity.Move, error) {
	moves, err := playableMoves(board)
	if err != nil {
		return entity.Move{}, err
	}

	if move, ok := completingMove(board, moves, self); ok {
		return move, nil
	}

	// occupy the opponent's winning cell ourselves
	if move, ok := completingMove(board, moves, opponent); ok {
		return move, nil
	}

	if center, ok := centerOf(board); ok && board.IsLegal(center) {
		return center, nil
	}

	return moves[that.rng.Intn(len(moves))], nil
}

// completingMove returns the first move, in row-major order, that would give
// the player a complete line.
func completingMove(board *entity.Board, moves []entity.Move, player entity.Player) (entity.Move, bool) {
	for _, move := range moves {
		probe := board.Clone()
		if err := probe.Place(move, player); err != nil {
			continue
		}

		if probe.HasLine(player) {
			return move, true
		}
	}

	return entity.Move{}, false
}

// centerOf is only defined for odd grid sizes.
func centerOf(board *entity.Board) (entity.Move, bool) {
	size := board.Size()
	if size%2 == 0 {
		return entity.Move{}, false
	}

	return entity.Move{X: size / 2, Y: size / 2}, true
}

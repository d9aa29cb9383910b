package service

import (
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type randomBot struct {
	rng *rand.Rand
}

func NewRandomBot(rng *rand.Rand) Strategy {
	return &randomBot{rng: rng}
}

func (that *randomBot) SelectMove(board *entity.Board, _, _ entity.Player) (entity.Move, error) {
	moves, err := playableMoves(board)
	if err != nil {
		return entity.Move{}, err
	}

	return moves[that.rng.Intn(len(moves))], nil
}

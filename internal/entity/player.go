package entity

// Player is one side of the game. The human always plays X and moves first.
type Player string

const (
	Human    Player = "human"
	Computer Player = "computer"

	NoPlayer Player = ""
)

func (that Player) Opponent() Player {
	switch that {
	case Human:
		return Computer
	case Computer:
		return Human
	default:
		return NoPlayer
	}
}

// Mark returns the cell value the player leaves on the board.
func (that Player) Mark() Cell {
	switch that {
	case Human:
		return MarkX
	case Computer:
		return MarkO
	default:
		return Empty
	}
}

func (that Player) IsValid() bool {
	return that == Human || that == Computer
}

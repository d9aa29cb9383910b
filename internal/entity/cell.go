package entity

// Cell is the state of one grid position: Empty or a player's mark.
type Cell uint8

const (
	Empty Cell = iota
	MarkX
	MarkO
)

// Player returns the owner of the mark, false for an empty cell.
func (that Cell) Player() (Player, bool) {
	switch that {
	case MarkX:
		return Human, true
	case MarkO:
		return Computer, true
	default:
		return NoPlayer, false
	}
}

func (that Cell) String() string {
	switch that {
	case MarkX:
		return "X"
	case MarkO:
		return "O"
	default:
		return "."
	}
}

func parseCell(r rune) (Cell, bool) {
	switch r {
	case 'X', 'x':
		return MarkX, true
	case 'O', 'o':
		return MarkO, true
	case '.', '_', '-':
		return Empty, true
	default:
		return Empty, false
	}
}

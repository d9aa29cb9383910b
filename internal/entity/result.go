package entity

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWin        Status = "win"
	StatusDraw       Status = "draw"
)

// GameResult is always derived from a board, see Evaluate.
type GameResult struct {
	Status Status `json:"status"`
	Winner Player `json:"winner,omitempty"`
}

func InProgress() GameResult {
	return GameResult{Status: StatusInProgress}
}

func Win(player Player) GameResult {
	return GameResult{Status: StatusWin, Winner: player}
}

func Draw() GameResult {
	return GameResult{Status: StatusDraw}
}

func (that GameResult) IsTerminal() bool {
	return that.Status == StatusWin || that.Status == StatusDraw
}

func (that GameResult) String() string {
	if that.Status == StatusWin {
		return "win(" + string(that.Winner) + ")"
	}

	return string(that.Status)
}

// Evaluate computes the result of the board: a completed line wins,
// otherwise a full board is a draw.
func Evaluate(board *Board) GameResult {
	if winner, ok := board.Winner(); ok {
		return Win(winner)
	}

	if board.IsFull() {
		return Draw()
	}

	return InProgress()
}

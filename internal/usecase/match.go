package usecase

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
)

// MatchResult records a headless game between two strategies.
type MatchResult struct {
	Result entity.GameResult `json:"result"`
	Moves  []entity.Move     `json:"moves"`
}

// PlayMatch - plays a full game with no delay; the human side moves first.
func PlayMatch(size int, human, computer service.Strategy) (MatchResult, error) {
	board, err := entity.NewBoard(size)
	if err != nil {
		return MatchResult{}, fmt.Errorf("failed to create board: %w", err)
	}

	match := MatchResult{Result: entity.InProgress()}
	player := entity.Human

	for {
		if match.Result = entity.Evaluate(board); match.Result.IsTerminal() {
			return match, nil
		}

		strategy := human
		if player == entity.Computer {
			strategy = computer
		}

		move, err := strategy.SelectMove(board.Clone(), player, player.Opponent())
		if err != nil {
			return match, fmt.Errorf("failed to select move for %s: %w", player, err)
		}

		if err = board.Place(move, player); err != nil {
			return match, fmt.Errorf("failed to place move for %s: %w", player, err)
		}

		match.Moves = append(match.Moves, move)
		player = player.Opponent()
	}
}

// Tally counts match outcomes.
type Tally struct {
	HumanWins    int `json:"human_wins"`
	ComputerWins int `json:"computer_wins"`
	Draws        int `json:"draws"`
}

func (that *Tally) Add(result entity.GameResult) {
	switch {
	case result.Status == entity.StatusDraw:
		that.Draws++
	case result.Status == entity.StatusWin && result.Winner == entity.Human:
		that.HumanWins++
	case result.Status == entity.StatusWin && result.Winner == entity.Computer:
		that.ComputerWins++
	}
}

func (that Tally) Total() int {
	return that.HumanWins + that.ComputerWins + that.Draws
}

package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

const (
	commandNew   = "new"
	commandBoard = "board"
	commandHelp  = "help"
	commandQuit  = "quit"
	commandExit  = "exit"
)

const helpText = `commands:
  x y          place your mark at row x, column y
  new [level]  start a new game (random, heuristic, minimax)
  board        show the board
  quit         leave
`

type gameEngine interface {
	StartGame(level service.Level) error
	SubmitMove(x, y int) bool
	Snapshot() [][]entity.Cell
	State() usecase.GameState
	GameID() string
}

// Presenter plays the human side from a line based terminal.
// It listens to the engine and renders the board whenever the turn changes.
type Presenter struct {
	logger *slog.Logger
	engine gameEngine
	in     io.Reader
	level  service.Level

	outMu sync.Mutex
	out   io.Writer
}

// NewPresenter - creates a presenter; subscribe it to the engine before Run.
func NewPresenter(logger *slog.Logger, engine gameEngine, in io.Reader, out io.Writer, level service.Level) *Presenter {
	return &Presenter{
		logger: logger.With("component", "console"),
		engine: engine,
		in:     in,
		out:    out,
		level:  level,
	}
}

// Run - starts a game and reads commands until quit, end of input or ctx is done.
func (that *Presenter) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")

	that.printf("%s", helpText)

	if err := that.engine.StartGame(that.level); err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(that.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				readErr <- nil
				return
			}
		}

		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info("console closed", "reason", ctx.Err())
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}

				log.Info("input closed")
				return nil
			}

			if !that.Handle(line) {
				return nil
			}
		}
	}
}

// Handle - executes one input line and reports whether the session goes on.
func (that *Presenter) Handle(line string) bool {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return true
	}

	switch fields[0] {
	case commandQuit, commandExit:
		that.printf("bye\n")
		return false
	case commandHelp:
		that.printf("%s", helpText)
	case commandBoard:
		that.printf("%s", Render(that.engine.Snapshot()))
	case commandNew:
		that.startGame(fields[1:])
	default:
		that.submitMove(fields)
	}

	return true
}

func (that *Presenter) startGame(args []string) {
	level := that.level

	if len(args) > 0 {
		parsed, err := service.ParseLevel(args[0])
		if err != nil {
			that.printf("unknown level %q, choose one of %s\n", args[0], levelNames())
			return
		}
		level = parsed
	}

	if err := that.engine.StartGame(level); err != nil {
		that.logger.Error("failed to start game", "method", "startGame", "error", err)
		that.printf("could not start a game: %v\n", err)
		return
	}

	that.level = level
}

func (that *Presenter) submitMove(fields []string) {
	if len(fields) != 2 {
		that.printf("unknown command, type %q\n", commandHelp)
		return
	}

	x, errX := strconv.Atoi(fields[0])
	y, errY := strconv.Atoi(fields[1])
	if err := errors.Join(errX, errY); err != nil {
		that.printf("coordinates must be numbers, e.g. \"1 1\"\n")
		return
	}

	if that.engine.SubmitMove(x, y) {
		return
	}

	that.printf("%s\n", rejection(that.engine.State(), x, y))
}

func (that *Presenter) OnGameStarted(gameID string) {
	that.printf("new game %s\n", gameID)
}

func (that *Presenter) OnTurnChanged(gameID string, player entity.Player) {
	if that.stale(gameID) {
		return
	}

	if player == entity.Computer {
		that.printf("computer is thinking...\n")
		return
	}

	that.printf("%syour move (x y): \n", Render(that.engine.Snapshot()))
}

func (that *Presenter) OnGameOver(gameID string, result entity.GameResult) {
	if that.stale(gameID) {
		return
	}

	that.printf("%s%s\ntype %q to play again\n", Render(that.engine.Snapshot()), outcome(result), commandNew)
}

// stale reports events from a game that was restarted before they were delivered.
// The computer's last move is announced from the timer goroutine and can lose that race.
func (that *Presenter) stale(gameID string) bool {
	if current := that.engine.GameID(); gameID != current {
		that.logger.Debug("stale event dropped", "gameID", gameID, "current", current)
		return true
	}

	return false
}

func (that *Presenter) printf(format string, args ...any) {
	that.outMu.Lock()
	defer that.outMu.Unlock()

	if _, err := fmt.Fprintf(that.out, format, args...); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}

// Render draws the grid with row and column numbers.
func Render(grid [][]entity.Cell) string {
	var sb strings.Builder

	sb.WriteString(" ")
	for y := range grid {
		fmt.Fprintf(&sb, " %d", y)
	}
	sb.WriteString("\n")

	for x, row := range grid {
		fmt.Fprintf(&sb, "%d", x)
		for _, cell := range row {
			sb.WriteString(" ")
			sb.WriteString(cell.String())
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func rejection(state usecase.GameState, x, y int) string {
	size := len(state.Board)

	switch {
	case !state.Started:
		return fmt.Sprintf("no game running, type %q", commandNew)
	case state.Result.IsTerminal():
		return fmt.Sprintf("the game is over, type %q", commandNew)
	case state.Turn != entity.Human:
		return "wait for the computer"
	case x < 0 || y < 0 || x >= size || y >= size:
		return fmt.Sprintf("(%d, %d) is off the board", x, y)
	default:
		return fmt.Sprintf("(%d, %d) is taken", x, y)
	}
}

func outcome(result entity.GameResult) string {
	switch {
	case result.Status == entity.StatusDraw:
		return "draw"
	case result.Winner == entity.Human:
		return "you win!"
	default:
		return "computer wins"
	}
}

func levelNames() string {
	levels := service.Levels()
	names := make([]string, len(levels))
	for i, level := range levels {
		names[i] = string(level)
	}

	return strings.Join(names, ", ")
}

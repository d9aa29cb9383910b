package usecase

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
)

const DefaultOpponentDelay = 500 * time.Millisecond

// nodeCounter is implemented by searching strategies.
type nodeCounter interface {
	Nodes() int64
}

type StrategyFactory func(level service.Level, rng *rand.Rand) (service.Strategy, error)

// GameState is a read-only view of the engine.
type GameState struct {
	GameID  string            `json:"game_id"`
	Level   service.Level     `json:"level"`
	Board   [][]entity.Cell   `json:"board"`
	Turn    entity.Player     `json:"turn"`
	Result  entity.GameResult `json:"result"`
	Started bool              `json:"started"`
}

// Engine runs one human versus computer game at a time.
//
// The human always moves first. After each accepted human move the computer
// answers from a scheduled task; restarting the game cancels that task and
// bumps the generation, so a task that already fired drops its move.
type Engine struct {
	logger *slog.Logger

	gridSize      int
	opponentDelay time.Duration
	scheduler     Scheduler
	rng           *rand.Rand
	newGameID     func() string
	newStrategy   StrategyFactory
	onFault       func(error)

	listeners registry

	// serializes strategy calls, they share rng
	searchMu sync.Mutex

	mu         sync.Mutex
	board      *entity.Board
	turn       entity.Player
	result     entity.GameResult
	started    bool
	closed     bool
	level      service.Level
	strategy   service.Strategy
	gameID     string
	generation uint64
	pending    Task
}

type Option func(*Engine)

func WithGridSize(size int) Option {
	return func(that *Engine) { that.gridSize = size }
}

func WithOpponentDelay(delay time.Duration) Option {
	return func(that *Engine) { that.opponentDelay = delay }
}

func WithScheduler(scheduler Scheduler) Option {
	return func(that *Engine) { that.scheduler = scheduler }
}

func WithRand(rng *rand.Rand) Option {
	return func(that *Engine) { that.rng = rng }
}

func WithGameIDGenerator(fn func() string) Option {
	return func(that *Engine) { that.newGameID = fn }
}

// WithFaultHandler - receives invariant violations raised on the opponent goroutine.
// The game stays on the computer's turn afterwards. Without a handler the engine panics.
func WithFaultHandler(fn func(error)) Option {
	return func(that *Engine) { that.onFault = fn }
}

func panicOnFault(err error) {
	panic(err)
}

func WithStrategyFactory(factory StrategyFactory) Option {
	return func(that *Engine) { that.newStrategy = factory }
}

// NewEngine - creates an engine with an empty board and no game started.
func NewEngine(logger *slog.Logger, opts ...Option) (*Engine, error) {
	engine := &Engine{
		logger:        logger.With("component", "engine"),
		gridSize:      entity.DefaultGridSize,
		opponentDelay: DefaultOpponentDelay,
		scheduler:     NewTimerScheduler(),
		newGameID:     pkg.GenerateGameID,
		newStrategy:   service.NewStrategy,
		onFault:       panicOnFault,
	}

	for _, opt := range opts {
		opt(engine)
	}

	if engine.rng == nil {
		engine.rng = service.NewRand(0)
	}

	board, err := entity.NewBoard(engine.gridSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}
	engine.board = board

	return engine, nil
}

// Subscribe registers a listener. The returned func detaches it and is safe to call twice.
func (that *Engine) Subscribe(listener Listener) func() {
	return that.listeners.add(listener)
}

// StartGame - resets everything and starts a new game against the given level.
// It is valid in any state, including mid-game with an opponent move pending.
func (that *Engine) StartGame(level service.Level) error {
	log := that.logger.With("method", "StartGame")

	if err := service.CheckGridSize(level, that.gridSize); err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	strategy, err := that.newStrategy(level, that.rng)
	if err != nil {
		return fmt.Errorf("failed to create strategy: %w", err)
	}

	that.mu.Lock()
	if that.closed {
		that.mu.Unlock()
		return apperror.ErrEngineClosed
	}

	that.cancelPendingLocked()
	that.generation++
	that.board.Reset()
	that.turn = entity.Human
	that.result = entity.InProgress()
	that.started = true
	that.level = level
	that.strategy = strategy
	that.gameID = that.newGameID()
	gameID := that.gameID
	that.mu.Unlock()

	log.Info("game started", "gameID", gameID, "level", level)

	that.notify(gameStarted(gameID), turnChanged(gameID, entity.Human))

	return nil
}

// SubmitMove - plays the human's mark at (x, y). Moves out of turn, on occupied
// or out of range cells, or outside a running game are ignored and return false.
func (that *Engine) SubmitMove(x, y int) bool {
	log := that.logger.With("method", "SubmitMove")
	move := entity.Move{X: x, Y: y}

	that.mu.Lock()
	if err := that.applyLocked(move, entity.Human); err != nil {
		that.mu.Unlock()
		log.Debug("move ignored", "move", move.String(), "error", err)
		return false
	}

	gameID, generation, result := that.gameID, that.generation, that.result

	var events []event
	if result.IsTerminal() {
		events = append(events, gameOver(gameID, result))
	} else {
		that.turn = entity.Computer
		events = append(events, turnChanged(gameID, entity.Computer))
	}
	that.mu.Unlock()

	log.Debug("human moved", "gameID", gameID, "move", move.String())
	if result.IsTerminal() {
		log.Info("game over", "gameID", gameID, "result", result.String())
	}

	that.notify(events...)

	if !result.IsTerminal() {
		that.scheduleOpponent(generation)
	}

	return true
}

// Snapshot returns a copy of the grid indexed as [x][y].
func (that *Engine) Snapshot() [][]entity.Cell {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.board.Snapshot()
}

// Board returns a clone of the live board.
func (that *Engine) Board() *entity.Board {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.board.Clone()
}

func (that *Engine) State() GameState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return GameState{
		GameID:  that.gameID,
		Level:   that.level,
		Board:   that.board.Snapshot(),
		Turn:    that.turn,
		Result:  that.result,
		Started: that.started,
	}
}

func (that *Engine) Turn() entity.Player {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.turn
}

func (that *Engine) Result() entity.GameResult {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.result
}

func (that *Engine) GameID() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.gameID
}

// Close cancels a pending opponent move and detaches every listener.
func (that *Engine) Close() {
	that.mu.Lock()
	that.cancelPendingLocked()
	that.generation++
	that.closed = true
	that.started = false
	that.mu.Unlock()

	that.listeners.clear()
}

// applyLocked validates and places a move for the player whose turn it is,
// then recomputes the result.
func (that *Engine) applyLocked(move entity.Move, player entity.Player) error {
	switch {
	case !that.started:
		return apperror.ErrGameIsNotStarted
	case that.result.IsTerminal():
		return apperror.ErrGameFinished
	case that.turn != player:
		return apperror.ErrNotYourTurn
	}

	if err := that.board.Place(move, player); err != nil {
		return fmt.Errorf("failed to place mark: %w", err)
	}

	that.result = entity.Evaluate(that.board)

	return nil
}

func (that *Engine) scheduleOpponent(generation uint64) {
	that.mu.Lock()
	defer that.mu.Unlock()

	// a new game started while listeners were being notified
	if generation != that.generation {
		return
	}

	that.pending = that.scheduler.AfterFunc(that.opponentDelay, func() {
		that.playOpponent(generation)
	})
}

func (that *Engine) playOpponent(generation uint64) {
	log := that.logger.With("method", "playOpponent")

	that.mu.Lock()
	if generation != that.generation || that.turn != entity.Computer || that.result.IsTerminal() {
		that.mu.Unlock()
		log.Debug("stale opponent move dropped", "generation", generation)
		return
	}

	that.pending = nil
	board, strategy, gameID := that.board.Clone(), that.strategy, that.gameID
	that.mu.Unlock()

	started := time.Now()

	that.searchMu.Lock()
	move, err := strategy.SelectMove(board, entity.Computer, entity.Human)
	that.searchMu.Unlock()
	if err != nil {
		log.Error("opponent strategy failed", "gameID", gameID, "error", err)
		that.onFault(fmt.Errorf("opponent strategy failed on game %s: %w", gameID, err))
		return
	}

	that.mu.Lock()
	if generation != that.generation {
		that.mu.Unlock()
		log.Debug("game restarted during search, move dropped", "gameID", gameID)
		return
	}

	if err = that.applyLocked(move, entity.Computer); err != nil {
		that.mu.Unlock()
		log.Error("opponent strategy picked an illegal move", "gameID", gameID, "move", move.String(), "error", err)
		that.onFault(fmt.Errorf("opponent strategy picked an illegal move on game %s: %w", gameID, err))
		return
	}

	result := that.result

	var events []event
	if result.IsTerminal() {
		events = append(events, gameOver(gameID, result))
	} else {
		that.turn = entity.Human
		events = append(events, turnChanged(gameID, entity.Human))
	}
	that.mu.Unlock()

	attrs := []any{"gameID", gameID, "move", move.String(), "took", time.Since(started)}
	if counter, ok := strategy.(nodeCounter); ok {
		attrs = append(attrs, "nodes", counter.Nodes())
	}
	log.Debug("computer moved", attrs...)
	if result.IsTerminal() {
		log.Info("game over", "gameID", gameID, "result", result.String())
	}

	that.notify(events...)
}

func (that *Engine) cancelPendingLocked() {
	if that.pending != nil {
		that.pending.Stop()
		that.pending = nil
	}
}

func (that *Engine) notify(events ...event) {
	listeners := that.listeners.snapshot()
	for _, ev := range events {
		for _, listener := range listeners {
			ev(listener)
		}
	}
}

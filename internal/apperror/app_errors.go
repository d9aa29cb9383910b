package apperror

import "errors"

// Illegal move class. The engine swallows these: stray input is expected.
var (
	ErrIllegalMove      = errors.New("illegal move")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrOutOfRange       = errors.New("cell is out of range")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
)

// Invariant violations. Seeing one of these means the state machine is broken.
var (
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrBoardDecided     = errors.New("board already has a winner")
)

var (
	ErrEngineClosed    = errors.New("engine is closed")
	ErrInvalidGridSize = errors.New("invalid grid size")
	ErrUnknownLevel    = errors.New("unknown strategy level")
	ErrUnknownMode     = errors.New("unknown mode")
)

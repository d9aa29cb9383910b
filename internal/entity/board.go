package entity

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const (
	DefaultGridSize = 3
	MinGridSize     = 3
)

// Move addresses a cell: X is the row, Y the column.
type Move struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (that Move) String() string {
	return fmt.Sprintf("(%d, %d)", that.X, that.Y)
}

// Board is a square grid of cells stored row-major.
// Boards handed to strategies are clones, so search never touches the live game.
type Board struct {
	size  int
	cells []Cell
	lines [][]int
}

var (
	linesMu    sync.Mutex
	linesCache = map[int][][]int{}
)

// NewBoard - creates an empty size by size board.
func NewBoard(size int) (*Board, error) {
	if size < MinGridSize {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidGridSize, size)
	}

	return &Board{
		size:  size,
		cells: make([]Cell, size*size),
		lines: WinLines(size),
	}, nil
}

// NewBoardFromRows builds a board from rows such as "X.O". Spaces are ignored.
func NewBoardFromRows(rows ...string) (*Board, error) {
	board, err := NewBoard(len(rows))
	if err != nil {
		return nil, err
	}

	for x, row := range rows {
		row = strings.ReplaceAll(row, " ", "")
		if len([]rune(row)) != board.size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", apperror.ErrInvalidGridSize, x, len(row), board.size)
		}

		for y, r := range []rune(row) {
			cell, ok := parseCell(r)
			if !ok {
				return nil, fmt.Errorf("unknown cell %q at (%d, %d)", r, x, y)
			}
			board.cells[x*board.size+y] = cell
		}
	}

	return board, nil
}

// WinLines lists the cell indexes of every row, column and both diagonals.
func WinLines(size int) [][]int {
	linesMu.Lock()
	defer linesMu.Unlock()

	if lines, ok := linesCache[size]; ok {
		return lines
	}

	lines := make([][]int, 0, 2*size+2)
	for x := 0; x < size; x++ {
		row := make([]int, size)
		for y := range row {
			row[y] = x*size + y
		}
		lines = append(lines, row)
	}

	for y := 0; y < size; y++ {
		col := make([]int, size)
		for x := range col {
			col[x] = x*size + y
		}
		lines = append(lines, col)
	}

	diag := make([]int, size)
	anti := make([]int, size)
	for i := 0; i < size; i++ {
		diag[i] = i*size + i
		anti[i] = i*size + (size - 1 - i)
	}
	lines = append(lines, diag, anti)

	linesCache[size] = lines

	return lines
}

func (that *Board) Size() int {
	return that.size
}

func (that *Board) Reset() {
	for i := range that.cells {
		that.cells[i] = Empty
	}
}

func (that *Board) InRange(move Move) bool {
	return move.X >= 0 && move.X < that.size && move.Y >= 0 && move.Y < that.size
}

func (that *Board) IsLegal(move Move) bool {
	return that.InRange(move) && that.cells[that.index(move)] == Empty
}

// At returns Empty for coordinates outside the grid.
func (that *Board) At(x, y int) Cell {
	move := Move{X: x, Y: y}
	if !that.InRange(move) {
		return Empty
	}

	return that.cells[that.index(move)]
}

func (that *Board) Place(move Move, player Player) error {
	if !player.IsValid() {
		return fmt.Errorf("%w: unknown player %q", apperror.ErrIllegalMove, player)
	}

	if !that.InRange(move) {
		return fmt.Errorf("%w: %w %s", apperror.ErrIllegalMove, apperror.ErrOutOfRange, move)
	}

	idx := that.index(move)
	if that.cells[idx] != Empty {
		return fmt.Errorf("%w: %w %s", apperror.ErrIllegalMove, apperror.ErrCellOccupied, move)
	}

	that.cells[idx] = player.Mark()

	return nil
}

func (that *Board) IsFull() bool {
	for _, cell := range that.cells {
		if cell == Empty {
			return false
		}
	}

	return true
}

func (that *Board) Occupied() int {
	count := 0
	for _, cell := range that.cells {
		if cell != Empty {
			count++
		}
	}

	return count
}

// Winner reports the owner of the first completed line.
// Alternating turns make a second owner impossible on a legal board.
func (that *Board) Winner() (Player, bool) {
	for _, line := range that.lines {
		first := that.cells[line[0]]
		if first == Empty {
			continue
		}

		complete := true
		for _, idx := range line[1:] {
			if that.cells[idx] != first {
				complete = false
				break
			}
		}

		if complete {
			return first.Player()
		}
	}

	return NoPlayer, false
}

// HasLine reports whether the player owns a complete line.
func (that *Board) HasLine(player Player) bool {
	mark := player.Mark()
	if mark == Empty {
		return false
	}

	for _, line := range that.lines {
		complete := true
		for _, idx := range line {
			if that.cells[idx] != mark {
				complete = false
				break
			}
		}

		if complete {
			return true
		}
	}

	return false
}

func (that *Board) AvailableMoves() []Move {
	moves := make([]Move, 0, len(that.cells))
	for i, cell := range that.cells {
		if cell == Empty {
			moves = append(moves, Move{X: i / that.size, Y: i % that.size})
		}
	}

	return moves
}

func (that *Board) Clone() *Board {
	cells := make([]Cell, len(that.cells))
	copy(cells, that.cells)

	return &Board{
		size:  that.size,
		cells: cells,
		lines: that.lines,
	}
}

// Snapshot returns a copy of the grid indexed as [x][y].
func (that *Board) Snapshot() [][]Cell {
	grid := make([][]Cell, that.size)
	for x := range grid {
		grid[x] = make([]Cell, that.size)
		copy(grid[x], that.cells[x*that.size:(x+1)*that.size])
	}

	return grid
}

func (that *Board) String() string {
	var sb strings.Builder
	for x := 0; x < that.size; x++ {
		if x > 0 {
			sb.WriteByte('\n')
		}
		for y := 0; y < that.size; y++ {
			if y > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(that.cells[x*that.size+y].String())
		}
	}

	return sb.String()
}

func (that *Board) index(move Move) int {
	return move.X*that.size + move.Y
}

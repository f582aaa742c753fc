// Package game defines the board types for four-in-a-row.
//
// The board is a square grid where pieces drop into columns and stack in the
// lowest free row. It is designed to be cheaply clonable so that every
// search branch can work on its own snapshot.
package game

import (
	"errors"
	"fmt"
	"strings"
)

// WinLength is the number of aligned pieces that wins the game.
const WinLength = 4

// MinSize is the smallest board on which a line of WinLength fits.
const MinSize = WinLength

var (
	ErrInvalidSize     = errors.New("invalid board size")
	ErrBadRow          = errors.New("malformed board row")
	ErrFloatingPiece   = errors.New("piece above an empty cell")
	ErrColumnFull      = errors.New("column is full")
	ErrColumnOutOfGrid = errors.New("column out of range")
)

// Cell is the occupant of a board square.
// Red and Yellow are encoded as +1 and -1 so that the opponent of a side is
// its negation.
type Cell int8

const (
	Empty  Cell = 0
	Red    Cell = 1
	Yellow Cell = -1
)

// Opponent returns the other side. Empty stays Empty.
func (c Cell) Opponent() Cell { return -c }

// Valid reports whether c is a playing side.
func (c Cell) Valid() bool { return c == Red || c == Yellow }

// Symbol is the single-character text form used by String and ParseBoard.
func (c Cell) Symbol() byte {
	switch c {
	case Red:
		return 'X'
	case Yellow:
		return 'O'
	default:
		return '.'
	}
}

func (c Cell) String() string {
	switch c {
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	default:
		return "empty"
	}
}

// Board is an N x N grid. Row 0 is the bottom row.
type Board struct {
	size    int
	cells   []Cell // row-major
	heights []int  // filled cells per column
}

// NewBoard returns an empty size x size board.
func NewBoard(size int) (*Board, error) {
	if size < MinSize {
		return nil, fmt.Errorf("%w: %d (min %d)", ErrInvalidSize, size, MinSize)
	}
	return &Board{
		size:    size,
		cells:   make([]Cell, size*size),
		heights: make([]int, size),
	}, nil
}

// Size is the grid dimension N.
func (b *Board) Size() int { return b.size }

// Occupant returns the piece at (row, col). Out-of-range squares are Empty.
func (b *Board) Occupant(row, col int) Cell {
	if row < 0 || row >= b.size || col < 0 || col >= b.size {
		return Empty
	}
	return b.cells[row*b.size+col]
}

// HasSpace reports whether col accepts another piece.
func (b *Board) HasSpace(col int) bool {
	return col >= 0 && col < b.size && b.heights[col] < b.size
}

// AnyMovePossible reports whether at least one column has space.
func (b *Board) AnyMovePossible() bool {
	for col := 0; col < b.size; col++ {
		if b.heights[col] < b.size {
			return true
		}
	}
	return false
}

// Drop places a piece for side in the lowest empty row of col and returns
// that row. It returns -1 and leaves the board untouched when the column is
// full or out of range; callers are expected to check HasSpace first.
func (b *Board) Drop(col int, side Cell) int {
	if !b.HasSpace(col) {
		return -1
	}
	row := b.heights[col]
	b.cells[row*b.size+col] = side
	b.heights[col]++
	return row
}

// Height is the number of pieces stacked in col.
func (b *Board) Height(col int) int {
	if col < 0 || col >= b.size {
		return 0
	}
	return b.heights[col]
}

// TopPiece returns the topmost piece of col, or Empty if the column is empty.
func (b *Board) TopPiece(col int) Cell {
	h := b.Height(col)
	if h == 0 {
		return Empty
	}
	return b.cells[(h-1)*b.size+col]
}

// Filled is the total number of pieces on the board.
func (b *Board) Filled() int {
	n := 0
	for _, h := range b.heights {
		n += h
	}
	return n
}

var lineDirections = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// CompletesFour reports whether the topmost piece of col belongs to side and
// is part of a line of at least WinLength pieces of side.
func (b *Board) CompletesFour(col int, side Cell) bool {
	if !side.Valid() {
		return false
	}
	row := b.Height(col) - 1
	if row < 0 || b.cells[row*b.size+col] != side {
		return false
	}
	for _, d := range lineDirections {
		n := 1 + b.run(row, col, d[0], d[1], side) + b.run(row, col, -d[0], -d[1], side)
		if n >= WinLength {
			return true
		}
	}
	return false
}

// run counts consecutive pieces of side starting next to (row, col) in the
// (dr, dc) direction.
func (b *Board) run(row, col, dr, dc int, side Cell) int {
	n := 0
	for r, c := row+dr, col+dc; b.Occupant(r, c) == side; r, c = r+dr, c+dc {
		n++
	}
	return n
}

// Clone performs a deep copy of the board.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	out := &Board{
		size:    b.size,
		cells:   make([]Cell, len(b.cells)),
		heights: make([]int, len(b.heights)),
	}
	copy(out.cells, b.cells)
	copy(out.heights, b.heights)
	return out
}

// Equal reports whether both boards have the same size and pieces.
func (b *Board) Equal(o *Board) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.size != o.size {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Rows renders the board top row first, one string per row.
func (b *Board) Rows() []string {
	rows := make([]string, b.size)
	line := make([]byte, b.size)
	for r := b.size - 1; r >= 0; r-- {
		for c := 0; c < b.size; c++ {
			line[c] = b.cells[r*b.size+c].Symbol()
		}
		rows[b.size-1-r] = string(line)
	}
	return rows
}

func (b *Board) String() string {
	return strings.Join(b.Rows(), "\n") + "\n"
}

// ParseBoard builds a board from rows given top row first, using the symbols
// of Cell.Symbol. The grid must be square and every piece must rest on
// another piece or on the bottom row.
func ParseBoard(rows ...string) (*Board, error) {
	b, err := NewBoard(len(rows))
	if err != nil {
		return nil, err
	}
	for i, line := range rows {
		line = strings.TrimSpace(line)
		if len(line) != b.size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrBadRow, i, len(line), b.size)
		}
		r := b.size - 1 - i
		for c := 0; c < b.size; c++ {
			var cell Cell
			switch line[c] {
			case 'X', 'x':
				cell = Red
			case 'O', 'o':
				cell = Yellow
			case '.', '-', '_':
				cell = Empty
			default:
				return nil, fmt.Errorf("%w: row %d has symbol %q", ErrBadRow, i, line[c])
			}
			b.cells[r*b.size+c] = cell
		}
	}
	for c := 0; c < b.size; c++ {
		h := 0
		for h < b.size && b.cells[h*b.size+c] != Empty {
			h++
		}
		for r := h; r < b.size; r++ {
			if b.cells[r*b.size+c] != Empty {
				return nil, fmt.Errorf("%w: column %d row %d", ErrFloatingPiece, c, r)
			}
		}
		b.heights[c] = h
	}
	return b, nil
}

// MustParseBoard is ParseBoard for fixtures known to be valid.
func MustParseBoard(rows ...string) *Board {
	b, err := ParseBoard(rows...)
	if err != nil {
		panic(err)
	}
	return b
}

// ToMove returns the side to move assuming Red moved first.
func (b *Board) ToMove() Cell {
	red, yellow := 0, 0
	for _, c := range b.cells {
		switch c {
		case Red:
			red++
		case Yellow:
			yellow++
		}
	}
	if red > yellow {
		return Yellow
	}
	return Red
}

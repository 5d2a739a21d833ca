// Package engine implements the 2048 grid rules: sliding, pairwise merging,
// random tile spawning and terminal-state detection.
//
// It has no dependencies beyond the standard library and performs no I/O.
// An Engine is not safe for concurrent use; callers must serialize access.
package engine

import (
	"fmt"
	"strings"
)

// DefaultSize is the conventional board dimension.
const DefaultSize = 4

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists every move direction.
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection parses a direction name as produced by String.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "up", "u":
		return DirUp, nil
	case "down", "d":
		return DirDown, nil
	case "left", "l":
		return DirLeft, nil
	case "right", "r":
		return DirRight, nil
	}
	return 0, fmt.Errorf("engine: unknown direction %q", s)
}

// Position is a board coordinate.
type Position struct {
	Row int
	Col int
}

// Board is a square grid of tile values; 0 means empty.
// Indexed as board[row][col].
type Board [][]int

// NewBoard returns an empty size x size board.
func NewBoard(size int) Board {
	b := make(Board, size)
	for r := range b {
		b[r] = make([]int, size)
	}
	return b
}

// Size returns the board dimension.
func (b Board) Size() int {
	return len(b)
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	c := make(Board, len(b))
	for r := range b {
		c[r] = append([]int(nil), b[r]...)
	}
	return c
}

// Equal reports whether both boards have identical shape and values.
func (b Board) Equal(other Board) bool {
	if len(b) != len(other) {
		return false
	}
	for r := range b {
		if len(b[r]) != len(other[r]) {
			return false
		}
		for c := range b[r] {
			if b[r][c] != other[r][c] {
				return false
			}
		}
	}
	return true
}

// Sum returns the total of all tile values.
func (b Board) Sum() int {
	total := 0
	for r := range b {
		for _, v := range b[r] {
			total += v
		}
	}
	return total
}

// EmptyCells returns the positions of all empty cells in row-major order.
func (b Board) EmptyCells() []Position {
	var cells []Position
	for r := range b {
		for c, v := range b[r] {
			if v == 0 {
				cells = append(cells, Position{Row: r, Col: c})
			}
		}
	}
	return cells
}

// HasEmptyCell returns true if there's at least one empty cell.
func (b Board) HasEmptyCell() bool {
	for r := range b {
		for _, v := range b[r] {
			if v == 0 {
				return true
			}
		}
	}
	return false
}

// HasPossibleMerge returns true if any adjacent tiles hold equal values.
func (b Board) HasPossibleMerge() bool {
	n := len(b)
	for r := range n {
		for c := range n {
			val := b[r][c]
			if val == 0 {
				continue
			}
			if c < n-1 && b[r][c+1] == val {
				return true
			}
			if r < n-1 && b[r+1][c] == val {
				return true
			}
		}
	}
	return false
}

// MaxTile returns the maximum tile value on the board.
func (b Board) MaxTile() int {
	maxVal := 0
	for r := range b {
		for _, v := range b[r] {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	return maxVal
}

// String renders the board as rows of right-aligned numbers, '.' for empty.
func (b Board) String() string {
	var sb strings.Builder
	for r := range b {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c, v := range b[r] {
			if c > 0 {
				sb.WriteByte(' ')
			}
			if v == 0 {
				sb.WriteString(fmt.Sprintf("%5s", "."))
			} else {
				sb.WriteString(fmt.Sprintf("%5d", v))
			}
		}
	}
	return sb.String()
}

// Validate checks that the board is size x size and that every non-empty
// value is a power of two >= 2.
func (b Board) Validate(size int) error {
	if len(b) != size {
		return &ValidationError{Field: "grid", Reason: fmt.Sprintf("has %d rows, want %d", len(b), size)}
	}
	for r := range b {
		if len(b[r]) != size {
			return &ValidationError{Field: "grid", Reason: fmt.Sprintf("row %d has %d cells, want %d", r, len(b[r]), size)}
		}
		for c, v := range b[r] {
			if v == 0 {
				continue
			}
			if !IsTileValue(v) {
				return &ValidationError{Field: "grid", Reason: fmt.Sprintf("cell (%d,%d) holds %d, not a power of two >= 2", r, c, v)}
			}
		}
	}
	return nil
}

// IsTileValue reports whether v is a legal non-empty tile value.
func IsTileValue(v int) bool {
	return v >= 2 && v&(v-1) == 0
}

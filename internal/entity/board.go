package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
)

const (
	DefaultBoardSize = 3
	MinBoardSize     = 3
	MaxBoardSize     = 9
)

// Board is an N×N grid addressed by positions 1..N*N in row-major order.
type Board struct {
	size  int
	cells []Marker
	lines [][]int
}

func NewBoard(size int) (*Board, error) {
	if size < MinBoardSize || size > MaxBoardSize {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidBoardSize, size)
	}

	return &Board{
		size:  size,
		cells: make([]Marker, size*size),
		lines: buildWinningLines(size),
	}, nil
}

// buildWinningLines returns rows top to bottom, columns left to right,
// then the main diagonal and the anti-diagonal.
func buildWinningLines(size int) [][]int {
	lines := make([][]int, 0, 2*size+2)

	for row := 0; row < size; row++ {
		line := make([]int, size)
		for col := 0; col < size; col++ {
			line[col] = row*size + col + 1
		}
		lines = append(lines, line)
	}

	for col := 0; col < size; col++ {
		line := make([]int, size)
		for row := 0; row < size; row++ {
			line[row] = row*size + col + 1
		}
		lines = append(lines, line)
	}

	diagonal := make([]int, size)
	antiDiagonal := make([]int, size)
	for i := 0; i < size; i++ {
		diagonal[i] = i*size + i + 1
		antiDiagonal[i] = i*size + (size - 1 - i) + 1
	}

	return append(lines, diagonal, antiDiagonal)
}

func (that *Board) Size() int {
	return that.size
}

func (that *Board) TotalPositions() int {
	return len(that.cells)
}

func (that *Board) ValidPosition(position int) bool {
	return position >= 1 && position <= len(that.cells)
}

// Place marks a position. A marked position stays marked until Reset.
func (that *Board) Place(position int, marker Marker) error {
	if !that.ValidPosition(position) {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidPosition, position)
	}

	if !marker.Valid() {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidMarker, marker)
	}

	if that.cells[position-1] != MarkerNone {
		return fmt.Errorf("%w: %d", apperror.ErrPositionOccupied, position)
	}

	that.cells[position-1] = marker

	return nil
}

func (that *Board) MarkerAt(position int) (Marker, error) {
	if !that.ValidPosition(position) {
		return MarkerNone, fmt.Errorf("%w: %d", apperror.ErrInvalidPosition, position)
	}

	return that.cells[position-1], nil
}

func (that *Board) UnmarkedPositions() []int {
	positions := make([]int, 0, len(that.cells))
	for i, cell := range that.cells {
		if cell == MarkerNone {
			positions = append(positions, i+1)
		}
	}

	return positions
}

func (that *Board) MarkedPositions() []int {
	positions := make([]int, 0, len(that.cells))
	for i, cell := range that.cells {
		if cell != MarkerNone {
			positions = append(positions, i+1)
		}
	}

	return positions
}

func (that *Board) IsUnmarked(position int) bool {
	return that.ValidPosition(position) && that.cells[position-1] == MarkerNone
}

func (that *Board) IsFull() bool {
	return len(that.UnmarkedPositions()) == 0
}

// Winner returns the marker of the first uniformly marked line. Lines are
// scanned rows first, then columns, then diagonals; more than one complete
// line only happens on boards that could not arise from alternating play,
// and in that case the first one in scan order wins.
func (that *Board) Winner() (Marker, bool) {
	line, ok := that.completeLine()
	if !ok {
		return MarkerNone, false
	}

	return that.cells[line[0]-1], true
}

// WinningLine returns the positions of the line reported by Winner.
func (that *Board) WinningLine() ([]int, bool) {
	line, ok := that.completeLine()
	if !ok {
		return nil, false
	}

	return append([]int(nil), line...), true
}

func (that *Board) completeLine() ([]int, bool) {
	for _, line := range that.lines {
		first := that.cells[line[0]-1]
		if first == MarkerNone {
			continue
		}

		complete := true
		for _, position := range line[1:] {
			if that.cells[position-1] != first {
				complete = false
				break
			}
		}

		if complete {
			return line, true
		}
	}

	return nil, false
}

// Center returns the middle position; boards with an even size have none.
func (that *Board) Center() (int, bool) {
	if that.size%2 == 0 {
		return 0, false
	}

	return (len(that.cells) + 1) / 2, true
}

// Lines returns a copy of the winning lines in scan order.
func (that *Board) Lines() [][]int {
	lines := make([][]int, len(that.lines))
	for i, line := range that.lines {
		lines[i] = append([]int(nil), line...)
	}

	return lines
}

// CountInLine reports how many positions of a line hold marker and which
// positions are still empty.
func (that *Board) CountInLine(line []int, marker Marker) (int, []int) {
	count := 0
	var empty []int

	for _, position := range line {
		switch that.cells[position-1] {
		case marker:
			count++
		case MarkerNone:
			empty = append(empty, position)
		}
	}

	return count, empty
}

// Cells returns a snapshot of the grid, index 0 holding position 1.
func (that *Board) Cells() []Marker {
	return append([]Marker(nil), that.cells...)
}

func (that *Board) Reset() {
	for i := range that.cells {
		that.cells[i] = MarkerNone
	}
}

// Clone returns an independent copy that shares nothing with the receiver.
func (that *Board) Clone() *Board {
	return &Board{
		size:  that.size,
		cells: that.Cells(),
		lines: that.Lines(),
	}
}

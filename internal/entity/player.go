package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
)

// SideID identifies one of the two parties of a match.
type SideID int

const (
	SideA SideID = iota + 1
	SideB
)

func (that SideID) String() string {
	switch that {
	case SideA:
		return "side-a"
	case SideB:
		return "side-b"
	default:
		return fmt.Sprintf("side(%d)", int(that))
	}
}

func (that SideID) Valid() bool {
	return that == SideA || that == SideB
}

func (that SideID) Opponent() SideID {
	if that == SideA {
		return SideB
	}
	return SideA
}

// Marker is the value a side leaves on a claimed position.
type Marker string

const (
	MarkerNone Marker = ""
	MarkerX    Marker = "X"
	MarkerO    Marker = "O"
)

func (that Marker) Valid() bool {
	return that == MarkerX || that == MarkerO
}

func (that Marker) Opposite() Marker {
	switch that {
	case MarkerX:
		return MarkerO
	case MarkerO:
		return MarkerX
	default:
		return MarkerNone
	}
}

// Side holds everything the engine needs to know about a party, except how it moves.
type Side struct {
	ID     SideID `json:"id"`
	Marker Marker `json:"marker"`
	Name   string `json:"name"`
}

// AssignMarkers gives side A the chosen marker and side B the other one.
func AssignMarkers(a, b *Side, chosen Marker) error {
	if !chosen.Valid() {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidMarker, chosen)
	}

	a.Marker = chosen
	b.Marker = chosen.Opposite()

	return nil
}

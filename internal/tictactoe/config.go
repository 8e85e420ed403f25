package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-match/internal/entity"
)

// FirstMoveRule decides which side opens the first round of a match.
type FirstMoveRule string

const (
	FirstMoveSideA    FirstMoveRule = "fixed-a"
	FirstMoveSideB    FirstMoveRule = "fixed-b"
	FirstMoveRandom   FirstMoveRule = "random"
	FirstMoveExternal FirstMoveRule = "external"
)

// RoundStartPolicy decides which side opens the rounds after the first.
type RoundStartPolicy string

const (
	// RoundStartFixed gives every round to the side that opened the match.
	RoundStartFixed RoundStartPolicy = "fixed"
	// RoundStartAlternate switches the opening side each round.
	RoundStartAlternate RoundStartPolicy = "alternate"
)

type MatchConfig struct {
	BoardSize    int
	WinThreshold int
	FirstMove    FirstMoveRule
	RoundStart   RoundStartPolicy
}

func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		BoardSize:    entity.DefaultBoardSize,
		WinThreshold: entity.DefaultWinThreshold,
		FirstMove:    FirstMoveSideA,
		RoundStart:   RoundStartFixed,
	}
}

func (that MatchConfig) Validate() error {
	if that.BoardSize < entity.MinBoardSize || that.BoardSize > entity.MaxBoardSize {
		return fmt.Errorf("%w: board size %d", apperror.ErrInvalidConfig, that.BoardSize)
	}

	if that.WinThreshold < 1 {
		return fmt.Errorf("%w: win threshold %d", apperror.ErrInvalidConfig, that.WinThreshold)
	}

	switch that.FirstMove {
	case FirstMoveSideA, FirstMoveSideB, FirstMoveRandom, FirstMoveExternal:
	default:
		return fmt.Errorf("%w: first move rule %q", apperror.ErrInvalidConfig, that.FirstMove)
	}

	switch that.RoundStart {
	case RoundStartFixed, RoundStartAlternate:
	default:
		return fmt.Errorf("%w: round start policy %q", apperror.ErrInvalidConfig, that.RoundStart)
	}

	return nil
}

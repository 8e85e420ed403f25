package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
)

const DefaultWinThreshold = 3

// ScoreBoard counts round wins for the two registered sides of a match.
type ScoreBoard struct {
	order  [2]SideID
	scores map[SideID]int
}

func NewScoreBoard(first, second SideID) *ScoreBoard {
	return &ScoreBoard{
		order: [2]SideID{first, second},
		scores: map[SideID]int{
			first:  0,
			second: 0,
		},
	}
}

func (that *ScoreBoard) RecordWin(side SideID) error {
	if _, ok := that.scores[side]; !ok {
		return fmt.Errorf("%w: %s", apperror.ErrUnknownSide, side)
	}

	that.scores[side]++

	return nil
}

func (that *ScoreBoard) Score(side SideID) int {
	return that.scores[side]
}

func (that *ScoreBoard) HasMatchWinner(threshold int) bool {
	_, ok := that.MatchWinner(threshold)
	return ok
}

// MatchWinner returns the side whose count reached threshold.
func (that *ScoreBoard) MatchWinner(threshold int) (SideID, bool) {
	for _, side := range that.order {
		if that.scores[side] == threshold {
			return side, true
		}
	}

	return 0, false
}

func (that *ScoreBoard) Snapshot() map[SideID]int {
	snapshot := make(map[SideID]int, len(that.scores))
	for side, score := range that.scores {
		snapshot[side] = score
	}

	return snapshot
}

func (that *ScoreBoard) Reset() {
	for side := range that.scores {
		that.scores[side] = 0
	}
}

package strategy

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-match/internal/entity"
)

// Heuristic picks a move by a fixed priority cascade: center, completing
// its own line, blocking the opponent's line, then a random free position.
// It does not search the game tree.
type Heuristic struct {
	rng     *rand.Rand
	persona Persona
}

func NewHeuristic(rng *rand.Rand, persona Persona) *Heuristic {
	return &Heuristic{
		rng:     rng,
		persona: persona,
	}
}

func (that *Heuristic) Persona() Persona {
	return that.persona
}

func (that *Heuristic) ChooseMove(_ context.Context, board *entity.Board, self, opponent entity.Side) (int, error) {
	unmarked := board.UnmarkedPositions()
	if len(unmarked) == 0 {
		return 0, apperror.ErrNoLegalMove
	}

	if center, ok := board.Center(); ok && board.IsUnmarked(center) {
		return center, nil
	}

	if position, ok := FindLineCompletion(board, self.Marker); ok {
		return position, nil
	}

	if position, ok := FindLineCompletion(board, opponent.Marker); ok {
		return position, nil
	}

	return that.fallback(unmarked), nil
}

// FindLineCompletion returns the free position of the first line (in board
// scan order) where marker holds every other position.
func FindLineCompletion(board *entity.Board, marker entity.Marker) (int, bool) {
	for _, line := range board.Lines() {
		count, empty := board.CountInLine(line, marker)
		if count == len(line)-1 && len(empty) == 1 {
			return empty[0], true
		}
	}

	return 0, false
}

func (that *Heuristic) fallback(unmarked []int) int {
	preferred := make([]int, 0, len(that.persona.Preference))
	for _, position := range that.persona.Preference {
		if contains(unmarked, position) {
			preferred = append(preferred, position)
		}
	}

	if len(preferred) > 0 {
		return preferred[that.rng.Intn(len(preferred))]
	}

	return unmarked[that.rng.Intn(len(unmarked))]
}

func (that *Heuristic) String() string {
	return fmt.Sprintf("heuristic(%s)", that.persona.Name)
}

func contains(positions []int, position int) bool {
	for _, candidate := range positions {
		if candidate == position {
			return true
		}
	}

	return false
}

package strategy

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-match/internal/entity"
)

var (
	sideX = entity.Side{ID: entity.SideA, Marker: entity.MarkerX, Name: "Human"}
	sideO = entity.Side{ID: entity.SideB, Marker: entity.MarkerO, Name: "WALL-E"}
)

func newBoard(t *testing.T, size int, xs, os []int) *entity.Board {
	t.Helper()

	board, err := entity.NewBoard(size)
	require.NoError(t, err)

	for _, position := range xs {
		require.NoError(t, board.Place(position, entity.MarkerX))
	}

	for _, position := range os {
		require.NoError(t, board.Place(position, entity.MarkerO))
	}

	return board
}

func newHeuristic(seed int64) *Heuristic {
	return NewHeuristic(rand.New(rand.NewSource(seed)), Persona{Name: "test"})
}

func TestHeuristic_ChooseMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Takes the center when it is free", func(t *testing.T) {
		// Given: X holds a corner and O could block nothing yet
		board := newBoard(t, 3, []int{1}, nil)

		// When: O chooses a move
		position, err := newHeuristic(1).ChooseMove(ctx, board, sideO, sideX)

		// Then: the center is taken
		require.NoError(t, err)
		assert.Equal(t, 5, position)
	})

	t.Run("Center has priority over a winning move", func(t *testing.T) {
		// Given: O holds 7 and 8 but the center is still free
		board := newBoard(t, 3, []int{1, 2}, []int{7, 8})

		// When: O chooses a move
		position, err := newHeuristic(1).ChooseMove(ctx, board, sideO, sideX)

		// Then: the center rule fires first
		require.NoError(t, err)
		assert.Equal(t, 5, position)
	})

	t.Run("Blocks the opponent when it has no winning move", func(t *testing.T) {
		// Given: X holds 1 and 2, O holds the center and nothing else
		// X X .
		// . O .
		// . . .
		board := newBoard(t, 3, []int{1, 2}, []int{5})

		// When: O chooses a move
		position, err := newHeuristic(1).ChooseMove(ctx, board, sideO, sideX)

		// Then: O blocks the top row
		require.NoError(t, err)
		assert.Equal(t, 3, position)
	})

	t.Run("Blocking is deterministic", func(t *testing.T) {
		board := newBoard(t, 3, []int{1, 4}, []int{5})

		for seed := int64(0); seed < 50; seed++ {
			position, err := newHeuristic(seed).ChooseMove(ctx, board, sideO, sideX)
			require.NoError(t, err)
			require.Equal(t, 7, position)
		}
	})

	t.Run("Falls back to a free position", func(t *testing.T) {
		// Given: a board with no center, offense or defense available
		// X O X
		// . O .
		// . X .
		board := newBoard(t, 3, []int{1, 3, 8}, []int{2, 5})

		for seed := int64(0); seed < 50; seed++ {
			// When: X chooses a move
			position, err := newHeuristic(seed).ChooseMove(ctx, board, sideX, sideO)

			// Then: it is one of the free positions
			require.NoError(t, err)
			require.Contains(t, []int{4, 6, 7, 9}, position)
		}
	})

	t.Run("Fails on a full board", func(t *testing.T) {
		board := newBoard(t, 3, []int{1, 3, 4, 8, 9}, []int{2, 5, 6, 7})

		_, err := newHeuristic(1).ChooseMove(ctx, board, sideO, sideX)

		require.ErrorIs(t, err, apperror.ErrNoLegalMove)
	})

	t.Run("Even sized boards skip the center rule", func(t *testing.T) {
		// Given: a 4x4 board where X holds three of the top row
		board := newBoard(t, 4, []int{1, 2, 3}, []int{6})

		// When: O chooses a move
		position, err := newHeuristic(1).ChooseMove(ctx, board, sideO, sideX)

		// Then: O blocks position 4
		require.NoError(t, err)
		assert.Equal(t, 4, position)
	})
}

func TestHeuristic_CompletesOwnLine(t *testing.T) {
	ctx := context.Background()

	// Given: O holds two of the anti-diagonal and X has no open threat
	// X X O
	// . O .
	// . . .
	board := newBoard(t, 3, []int{1, 2}, []int{3, 5})

	for seed := int64(0); seed < 20; seed++ {
		// When: O chooses a move
		position, err := newHeuristic(seed).ChooseMove(ctx, board, sideO, sideX)

		// Then: O wins on 7 every time
		require.NoError(t, err)
		require.Equal(t, 7, position)
	}
}

func TestHeuristic_OffenseBeforeDefense(t *testing.T) {
	ctx := context.Background()

	// Given: both sides have an open two-in-a-line
	// X X .
	// O O .
	// X . .
	board := newBoard(t, 3, []int{1, 2, 7}, []int{4, 5})

	// When: O chooses a move
	position, err := newHeuristic(1).ChooseMove(ctx, board, sideO, sideX)

	// Then: O completes its own row instead of blocking X on 3
	require.NoError(t, err)
	assert.Equal(t, 6, position)
}

func TestHeuristic_NeverPicksOccupiedPosition(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(99))

	for game := 0; game < 300; game++ {
		board, err := entity.NewBoard(3)
		require.NoError(t, err)

		x := newHeuristic(int64(game))
		o := NewHeuristic(rng, RandomPersona(rng))
		self, opponent := sideX, sideO
		players := map[entity.SideID]*Heuristic{entity.SideA: x, entity.SideB: o}

		for !board.IsFull() {
			if _, won := board.Winner(); won {
				break
			}

			position, err := players[self.ID].ChooseMove(ctx, board, self, opponent)
			require.NoError(t, err)
			require.True(t, board.IsUnmarked(position), "position %d is occupied", position)
			require.NoError(t, board.Place(position, self.Marker))

			self, opponent = opponent, self
		}
	}
}

func TestHeuristic_PersonaPreference(t *testing.T) {
	ctx := context.Background()

	t.Run("Fallback picks among preferred free positions", func(t *testing.T) {
		// Given: a persona preferring corners and a board with no rule to apply
		board := newBoard(t, 3, []int{1, 3, 8}, []int{2, 5})
		persona := Persona{Name: "corners", Preference: []int{1, 3, 7, 9}}

		for seed := int64(0); seed < 30; seed++ {
			// When: the persona chooses a move
			position, err := NewHeuristic(rand.New(rand.NewSource(seed)), persona).ChooseMove(ctx, board, sideX, sideO)

			// Then: only the free corners are picked
			require.NoError(t, err)
			require.Contains(t, []int{7, 9}, position)
		}
	})

	t.Run("Preference never overrides blocking", func(t *testing.T) {
		board := newBoard(t, 3, []int{1, 2}, []int{5})
		persona := Persona{Name: "edges", Preference: []int{4, 6, 8}}

		position, err := NewHeuristic(rand.New(rand.NewSource(1)), persona).ChooseMove(ctx, board, sideO, sideX)

		require.NoError(t, err)
		assert.Equal(t, 3, position)
	})
}

func TestHeuristic_BuiltInPersonasFallBackUniformly(t *testing.T) {
	ctx := context.Background()

	for _, size := range []int{3, 5} {
		// Given: a board where only the center is taken, so no rule applies
		board, err := entity.NewBoard(size)
		require.NoError(t, err)
		center, _ := board.Center()
		require.NoError(t, board.Place(center, entity.MarkerO))
		free := board.UnmarkedPositions()

		for _, persona := range Personas {
			assert.Empty(t, persona.Preference, persona.Name)

			heuristic := NewHeuristic(rand.New(rand.NewSource(42)), persona)
			picked := make(map[int]int)

			// When: the persona falls back many times
			for i := 0; i < 2000; i++ {
				position, err := heuristic.ChooseMove(ctx, board, sideX, sideO)
				require.NoError(t, err)
				picked[position]++
			}

			// Then: every free position gets chosen
			assert.Len(t, picked, len(free), "%s on %dx%d", persona.Name, size, size)
		}
	}
}

func TestRandomPersona(t *testing.T) {
	t.Run("Skips taken names", func(t *testing.T) {
		rng := rand.New(rand.NewSource(5))

		for i := 0; i < 100; i++ {
			persona := RandomPersona(rng, "wall-e", "Bender")
			assert.NotEqual(t, "WALL-E", persona.Name)
			assert.NotEqual(t, "Bender", persona.Name)
		}
	})

	t.Run("Falls back to all personas when every name is taken", func(t *testing.T) {
		taken := make([]string, 0, len(Personas))
		for _, persona := range Personas {
			taken = append(taken, persona.Name)
		}

		persona := RandomPersona(rand.New(rand.NewSource(1)), taken...)

		assert.Contains(t, Personas, persona)
	})
}

func TestPersona_ValidFor(t *testing.T) {
	persona := Persona{Name: "corners", Preference: []int{1, 3, 7, 9}}

	require.NoError(t, persona.ValidFor(3))

	persona.Preference = []int{1, 25}
	require.NoError(t, persona.ValidFor(5))
	require.ErrorIs(t, persona.ValidFor(4), apperror.ErrInvalidConfig)

	persona.Preference = []int{0}
	require.ErrorIs(t, persona.ValidFor(3), apperror.ErrInvalidConfig)
}

func TestPersonaByName(t *testing.T) {
	persona, err := PersonaByName("bender")
	require.NoError(t, err)
	assert.Equal(t, "Bender", persona.Name)

	_, err = PersonaByName("HAL 9000")
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

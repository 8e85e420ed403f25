package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-match/internal/entity"
	"github.com/rocketscienceinc/tictactoe-match/internal/tictactoe"
)

var (
	errRedisDown  = errors.New("redis down")
	errInputGone  = errors.New("input gone")
	errNoPosition = errors.New("no position")
)

type scriptedStrategy struct {
	positions []int
}

func (that *scriptedStrategy) ChooseMove(_ context.Context, _ *entity.Board, _, _ entity.Side) (int, error) {
	if len(that.positions) == 0 {
		return 0, errNoPosition
	}

	position := that.positions[0]
	that.positions = that.positions[1:]

	return position, nil
}

type mockRenderer struct {
	mock.Mock
}

func newMockRenderer() *mockRenderer {
	renderer := &mockRenderer{}
	renderer.On("RenderWelcome", mock.Anything, mock.Anything).Return()
	renderer.On("RenderBoard", mock.Anything, mock.Anything).Return()
	renderer.On("RenderRound", mock.Anything, mock.Anything).Return()
	renderer.On("RenderScore", mock.Anything, mock.Anything).Return()
	renderer.On("RenderGrandWinner", mock.Anything).Return()
	renderer.On("RenderPlayAgain").Return()
	renderer.On("RenderGoodbye").Return()

	return renderer
}

func (that *mockRenderer) RenderWelcome(sides [2]entity.Side, threshold int) {
	that.Called(sides, threshold)
}

func (that *mockRenderer) RenderBoard(board *entity.Board, sides [2]entity.Side) {
	that.Called(board, sides)
}

func (that *mockRenderer) RenderRound(result entity.RoundResult, sides [2]entity.Side) {
	that.Called(result, sides)
}

func (that *mockRenderer) RenderScore(scores map[entity.SideID]int, sides [2]entity.Side) {
	that.Called(scores, sides)
}

func (that *mockRenderer) RenderGrandWinner(winner entity.Side) {
	that.Called(winner)
}

func (that *mockRenderer) RenderPlayAgain() {
	that.Called()
}

func (that *mockRenderer) RenderGoodbye() {
	that.Called()
}

type mockContinuation struct {
	mock.Mock
}

func (that *mockContinuation) PlayAgain(ctx context.Context) (bool, error) {
	args := that.Called(ctx)
	return args.Bool(0), args.Error(1)
}

type mockMatchRepo struct {
	mock.Mock
}

func (that *mockMatchRepo) CreateOrUpdate(ctx context.Context, match *entity.MatchRecord) error {
	args := that.Called(ctx, match)
	return args.Error(0)
}

type mockPlayerRepo struct {
	mock.Mock
}

func (that *mockPlayerRepo) RecordMatch(ctx context.Context, match *entity.MatchRecord) error {
	args := that.Called(ctx, match)
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// newTestEngine builds a 3x3 engine where side A always starts.
func newTestEngine(t *testing.T, threshold int, movesA, movesB []int) *tictactoe.MatchEngine {
	t.Helper()

	config := tictactoe.MatchConfig{
		BoardSize:    3,
		WinThreshold: threshold,
		FirstMove:    tictactoe.FirstMoveSideA,
		RoundStart:   tictactoe.RoundStartFixed,
	}

	players := [2]tictactoe.Player{
		{
			Side:     entity.Side{ID: entity.SideA, Marker: entity.MarkerX, Name: "Ann"},
			Strategy: &scriptedStrategy{positions: movesA},
		},
		{
			Side:     entity.Side{ID: entity.SideB, Marker: entity.MarkerO, Name: "Bender"},
			Strategy: &scriptedStrategy{positions: movesB},
		},
	}

	engine, err := tictactoe.NewMatchEngine(newTestLogger(), config, players, nil)
	require.NoError(t, err)

	return engine
}

func TestMatchSession_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("Plays a match to its grand winner and saves it", func(t *testing.T) {
		// Given: a one-round match where Ann takes the top row
		engine := newTestEngine(t, 1, []int{1, 2, 3}, []int{4, 5})
		renderer := newMockRenderer()

		continuation := &mockContinuation{}
		continuation.On("PlayAgain", mock.Anything).Return(false, nil).Once()

		matchRepo := &mockMatchRepo{}
		matchRepo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.MatchRecord")).Return(nil)

		var recorded *entity.MatchRecord
		playerRepo := &mockPlayerRepo{}
		playerRepo.On("RecordMatch", mock.Anything, mock.AnythingOfType("*entity.MatchRecord")).
			Run(func(args mock.Arguments) {
				recorded = args.Get(1).(*entity.MatchRecord)
			}).
			Return(nil).
			Once()

		session := NewMatchSession(newTestLogger(), engine, renderer, continuation, matchRepo, playerRepo)

		// When: the session runs
		err := session.Run(ctx)

		// Then: the board is drawn before each of the five moves and once at the end
		require.NoError(t, err)
		renderer.AssertNumberOfCalls(t, "RenderBoard", 6)
		renderer.AssertCalled(t, "RenderGrandWinner", engine.Sides()[0])
		renderer.AssertCalled(t, "RenderGoodbye")
		renderer.AssertNotCalled(t, "RenderPlayAgain")

		// Then: the match is saved on start and on finish only
		matchRepo.AssertNumberOfCalls(t, "CreateOrUpdate", 2)
		continuation.AssertExpectations(t)
		playerRepo.AssertExpectations(t)

		require.NotNil(t, recorded)
		assert.True(t, recorded.IsFinished())
		assert.Equal(t, entity.SideA, *recorded.GrandWinner)
		assert.Equal(t, map[entity.SideID]int{entity.SideA: 1, entity.SideB: 0}, recorded.Scores)
		require.Len(t, recorded.Rounds, 1)
		assert.Len(t, recorded.Rounds[0].Moves, 5)
	})

	t.Run("Stops after a round when the player declines", func(t *testing.T) {
		// Given: a best-of-three where the first round is tied
		// X X O
		// O O X
		// X O X
		engine := newTestEngine(t, 2, []int{1, 2, 6, 7, 9}, []int{3, 4, 5, 8})
		renderer := newMockRenderer()

		continuation := &mockContinuation{}
		continuation.On("PlayAgain", mock.Anything).Return(false, nil).Once()

		var statuses []string
		matchRepo := &mockMatchRepo{}
		matchRepo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.MatchRecord")).
			Run(func(args mock.Arguments) {
				statuses = append(statuses, args.Get(1).(*entity.MatchRecord).Status)
			}).
			Return(nil)

		playerRepo := &mockPlayerRepo{}

		session := NewMatchSession(newTestLogger(), engine, renderer, continuation, matchRepo, playerRepo)

		// When: the session runs
		err := session.Run(ctx)

		// Then: the tied round is rendered and no player stats are recorded
		require.NoError(t, err)
		renderer.AssertCalled(t, "RenderRound", mock.MatchedBy(func(result entity.RoundResult) bool {
			return result.Tie && result.Round == 1
		}), mock.Anything)
		renderer.AssertNotCalled(t, "RenderGrandWinner", mock.Anything)

		// Then: the unfinished match is stored as abandoned, not left ongoing
		assert.Equal(t, []string{entity.StatusOngoing, entity.StatusOngoing, entity.StatusAbandoned}, statuses)
		playerRepo.AssertNotCalled(t, "RecordMatch", mock.Anything, mock.Anything)
		assert.Equal(t, entity.AwaitingSetup, engine.State())
	})

	t.Run("Continues rounds and starts a new match after a grand winner", func(t *testing.T) {
		// Given: Ann wins every round of one-round matches
		engine := newTestEngine(t, 1, []int{1, 2, 3, 1, 2, 3}, []int{4, 5, 4, 5})
		renderer := newMockRenderer()

		continuation := &mockContinuation{}
		continuation.On("PlayAgain", mock.Anything).Return(true, nil).Once()
		continuation.On("PlayAgain", mock.Anything).Return(false, nil).Once()

		var matchIDs []string
		matchRepo := &mockMatchRepo{}
		matchRepo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.MatchRecord")).
			Run(func(args mock.Arguments) {
				matchIDs = append(matchIDs, args.Get(1).(*entity.MatchRecord).ID)
			}).
			Return(nil)

		playerRepo := &mockPlayerRepo{}
		playerRepo.On("RecordMatch", mock.Anything, mock.AnythingOfType("*entity.MatchRecord")).Return(nil).Twice()

		session := NewMatchSession(newTestLogger(), engine, renderer, continuation, matchRepo, playerRepo)

		// When: the player says yes once, then no
		err := session.Run(ctx)

		// Then: two matches were played and persisted under different IDs
		require.NoError(t, err)
		renderer.AssertNumberOfCalls(t, "RenderWelcome", 1)
		renderer.AssertNumberOfCalls(t, "RenderPlayAgain", 1)
		renderer.AssertNumberOfCalls(t, "RenderGrandWinner", 2)
		playerRepo.AssertExpectations(t)
		require.Len(t, matchIDs, 4)
		assert.Equal(t, matchIDs[0], matchIDs[1])
		assert.Equal(t, matchIDs[2], matchIDs[3])
		assert.NotEqual(t, matchIDs[0], matchIDs[2])
	})

	t.Run("Works without repositories", func(t *testing.T) {
		engine := newTestEngine(t, 1, []int{1, 2, 3}, []int{4, 5})
		renderer := newMockRenderer()

		continuation := &mockContinuation{}
		continuation.On("PlayAgain", mock.Anything).Return(false, nil).Once()

		session := NewMatchSession(newTestLogger(), engine, renderer, continuation, nil, nil)

		require.NoError(t, session.Run(ctx))
		assert.Equal(t, entity.MatchComplete, engine.State())
	})

	t.Run("Storage failures do not interrupt play", func(t *testing.T) {
		// Given: repositories that always fail
		engine := newTestEngine(t, 1, []int{1, 2, 3}, []int{4, 5})
		renderer := newMockRenderer()

		continuation := &mockContinuation{}
		continuation.On("PlayAgain", mock.Anything).Return(false, nil).Once()

		matchRepo := &mockMatchRepo{}
		matchRepo.On("CreateOrUpdate", mock.Anything, mock.Anything).Return(errRedisDown)

		playerRepo := &mockPlayerRepo{}
		playerRepo.On("RecordMatch", mock.Anything, mock.Anything).Return(errRedisDown).Once()

		session := NewMatchSession(newTestLogger(), engine, renderer, continuation, matchRepo, playerRepo)

		// When: the session runs
		err := session.Run(ctx)

		// Then: the match still completes
		require.NoError(t, err)
		renderer.AssertCalled(t, "RenderGrandWinner", mock.Anything)
	})

	t.Run("Returns continuation errors", func(t *testing.T) {
		engine := newTestEngine(t, 2, []int{1, 2, 3}, []int{4, 5})
		renderer := newMockRenderer()

		continuation := &mockContinuation{}
		continuation.On("PlayAgain", mock.Anything).Return(false, errInputGone).Once()

		session := NewMatchSession(newTestLogger(), engine, renderer, continuation, nil, nil)

		err := session.Run(ctx)

		require.ErrorIs(t, err, errInputGone)
		renderer.AssertNotCalled(t, "RenderGoodbye")
	})

	t.Run("Returns strategy errors", func(t *testing.T) {
		// Given: side B runs out of moves mid-round
		engine := newTestEngine(t, 1, []int{1, 2, 3}, []int{4})
		renderer := newMockRenderer()
		continuation := &mockContinuation{}

		session := NewMatchSession(newTestLogger(), engine, renderer, continuation, nil, nil)

		// When: the session runs
		err := session.Run(ctx)

		// Then: the error is returned and nothing else is asked
		require.ErrorIs(t, err, errNoPosition)
		continuation.AssertNotCalled(t, "PlayAgain", mock.Anything)
	})
}

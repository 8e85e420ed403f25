package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-match/internal/entity"
	"github.com/rocketscienceinc/tictactoe-match/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-match/internal/tictactoe"
)

type matchEngine interface {
	StartMatch(ctx context.Context) error
	AdvanceTurn(ctx context.Context) (entity.MatchState, error)
	State() entity.MatchState
	Board() *entity.Board
	ScoreBoard() map[entity.SideID]int
	LastRound() (entity.RoundResult, bool)
	GrandWinner() (entity.Side, bool)
	Sides() [2]entity.Side
	Config() tictactoe.MatchConfig
}

type renderer interface {
	RenderWelcome(sides [2]entity.Side, threshold int)
	RenderBoard(board *entity.Board, sides [2]entity.Side)
	RenderRound(result entity.RoundResult, sides [2]entity.Side)
	RenderScore(scores map[entity.SideID]int, sides [2]entity.Side)
	RenderGrandWinner(winner entity.Side)
	RenderPlayAgain()
	RenderGoodbye()
}

type continuation interface {
	PlayAgain(ctx context.Context) (bool, error)
}

type matchRepo interface {
	CreateOrUpdate(ctx context.Context, match *entity.MatchRecord) error
}

type playerRepo interface {
	RecordMatch(ctx context.Context, match *entity.MatchRecord) error
}

// MatchSession drives an engine for a person at a terminal: it renders
// every turn, asks whether to go on after each round and starts a new
// match when the previous one has a grand winner. Repositories are optional.
type MatchSession struct {
	logger       *slog.Logger
	engine       matchEngine
	renderer     renderer
	continuation continuation
	matchRepo    matchRepo
	playerRepo   playerRepo
}

func NewMatchSession(
	logger *slog.Logger,
	engine matchEngine,
	renderer renderer,
	continuation continuation,
	matchRepo matchRepo,
	playerRepo playerRepo,
) *MatchSession {
	return &MatchSession{
		logger: logger.With("component", "match-session"),

		engine:       engine,
		renderer:     renderer,
		continuation: continuation,
		matchRepo:    matchRepo,
		playerRepo:   playerRepo,
	}
}

// Run plays until the person declines to continue.
func (that *MatchSession) Run(ctx context.Context) error {
	sides := that.engine.Sides()

	that.renderer.RenderWelcome(sides, that.engine.Config().WinThreshold)

	for {
		record, err := that.startMatch(ctx)
		if err != nil {
			return err
		}

		for that.engine.State() != entity.MatchComplete {
			if err = that.playRound(ctx, record); err != nil {
				return err
			}

			again, askErr := that.continuation.PlayAgain(ctx)
			if askErr != nil {
				return fmt.Errorf("failed to ask for another round: %w", askErr)
			}

			if !again {
				if record.IsOngoing() {
					record.Abandon()
					that.saveMatch(ctx, record)
				}

				that.renderer.RenderGoodbye()
				return nil
			}

			that.renderer.RenderPlayAgain()
		}
	}
}

func (that *MatchSession) startMatch(ctx context.Context) (*entity.MatchRecord, error) {
	if err := that.engine.StartMatch(ctx); err != nil {
		return nil, fmt.Errorf("failed to start match: %w", err)
	}

	sides := that.engine.Sides()
	config := that.engine.Config()
	now := time.Now().UTC()

	record := &entity.MatchRecord{
		ID:        pkg.GenerateMatchID(),
		Sides:     sides[:],
		BoardSize: config.BoardSize,
		Threshold: config.WinThreshold,
		Scores:    that.engine.ScoreBoard(),
		Rounds:    []entity.RoundResult{},
		Status:    entity.StatusOngoing,
		CreatedAt: now,
		UpdatedAt: now,
	}

	that.saveMatch(ctx, record)

	return record, nil
}

// playRound steps the engine through one round, drawing the board before
// every move and once more when the round ends.
func (that *MatchSession) playRound(ctx context.Context, record *entity.MatchRecord) error {
	sides := that.engine.Sides()

	if that.engine.State() == entity.AwaitingSetup {
		if _, err := that.engine.AdvanceTurn(ctx); err != nil {
			return fmt.Errorf("failed to set up round: %w", err)
		}
	}

	for that.engine.State() == entity.RoundInProgress {
		that.renderer.RenderBoard(that.engine.Board(), sides)

		if _, err := that.engine.AdvanceTurn(ctx); err != nil {
			return fmt.Errorf("failed to play turn: %w", err)
		}
	}

	that.renderer.RenderBoard(that.engine.Board(), sides)

	if _, err := that.engine.AdvanceTurn(ctx); err != nil {
		return fmt.Errorf("failed to complete round: %w", err)
	}

	result, ok := that.engine.LastRound()
	if !ok {
		return fmt.Errorf("%w: round finished without a result", apperror.ErrInvalidState)
	}

	scores := that.engine.ScoreBoard()
	that.renderer.RenderRound(result, sides)
	that.renderer.RenderScore(scores, sides)

	record.AddRound(result, scores)

	winner, finished := that.engine.GrandWinner()
	if !finished {
		that.saveMatch(ctx, record)
		return nil
	}

	that.renderer.RenderGrandWinner(winner)

	record.Finish(winner.ID)
	that.saveMatch(ctx, record)
	that.recordPlayers(ctx, record)

	return nil
}

// saveMatch never interrupts play; storage problems are only logged.
func (that *MatchSession) saveMatch(ctx context.Context, record *entity.MatchRecord) {
	if that.matchRepo == nil {
		return
	}

	if err := that.matchRepo.CreateOrUpdate(ctx, record); err != nil {
		that.logger.Error("failed to save match", "method", "saveMatch", "match_id", record.ID, "error", err)
	}
}

func (that *MatchSession) recordPlayers(ctx context.Context, record *entity.MatchRecord) {
	if that.playerRepo == nil {
		return
	}

	if err := that.playerRepo.RecordMatch(ctx, record); err != nil {
		that.logger.Error("failed to record player stats", "method", "recordPlayers", "match_id", record.ID, "error", err)
	}
}

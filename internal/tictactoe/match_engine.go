package tictactoe

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-match/internal/entity"
)

// MoveStrategy selects a position for self. The board handed over is a copy.
type MoveStrategy interface {
	ChooseMove(ctx context.Context, board *entity.Board, self, opponent entity.Side) (int, error)
}

// FirstSideChooser lets an outside party pick the opening side.
type FirstSideChooser interface {
	ChooseFirstSide(ctx context.Context, sides [2]entity.Side) (entity.SideID, error)
}

type Option func(engine *MatchEngine)

func WithRand(rng *rand.Rand) Option {
	return func(engine *MatchEngine) {
		engine.rng = rng
	}
}

func WithFirstSideChooser(chooser FirstSideChooser) Option {
	return func(engine *MatchEngine) {
		engine.chooser = chooser
	}
}

// Player binds a side to the strategy that moves for it.
type Player struct {
	Side     entity.Side
	Strategy MoveStrategy
}

// MatchEngine runs a best-of-N match. It is not safe for concurrent use;
// the driver calls it from a single goroutine.
type MatchEngine struct {
	logger  *slog.Logger
	config  MatchConfig
	rng     *rand.Rand
	chooser FirstSideChooser

	players map[entity.SideID]Player
	board   *entity.Board
	scores  *entity.ScoreBoard

	state        entity.MatchState
	round        int
	turn         int
	matchStarter entity.SideID
	roundStarter entity.SideID
	active       entity.SideID
	moves        []entity.Move
	roundWinner  *entity.SideID
	lastRound    *entity.RoundResult
	grandWinner  *entity.SideID
}

// NewMatchEngine validates the configuration and the two players. The
// scoreboard is owned by the engine from here on; nil creates a new one.
func NewMatchEngine(logger *slog.Logger, config MatchConfig, players [2]Player, scores *entity.ScoreBoard, opts ...Option) (*MatchEngine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := validatePlayers(players); err != nil {
		return nil, err
	}

	board, err := entity.NewBoard(config.BoardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	if scores == nil {
		scores = entity.NewScoreBoard(entity.SideA, entity.SideB)
	}

	if err = validateScoreBoard(scores); err != nil {
		return nil, err
	}

	engine := &MatchEngine{
		logger: logger.With("component", "match-engine"),
		config: config,
		players: map[entity.SideID]Player{
			players[0].Side.ID: players[0],
			players[1].Side.ID: players[1],
		},
		board:  board,
		scores: scores,
		state:  entity.AwaitingSetup,
	}

	for _, opt := range opts {
		opt(engine)
	}

	if engine.rng == nil {
		engine.rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // game randomness
	}

	if config.FirstMove == FirstMoveExternal && engine.chooser == nil {
		return nil, fmt.Errorf("%w: external first move rule without a chooser", apperror.ErrInvalidConfig)
	}

	return engine, nil
}

func validatePlayers(players [2]Player) error {
	if players[0].Side.ID != entity.SideA || players[1].Side.ID != entity.SideB {
		return fmt.Errorf("%w: players must be side A then side B", apperror.ErrInvalidConfig)
	}

	for _, player := range players {
		if !player.Side.Marker.Valid() {
			return fmt.Errorf("%w: %s has marker %q", apperror.ErrInvalidConfig, player.Side.ID, player.Side.Marker)
		}

		if player.Strategy == nil {
			return fmt.Errorf("%w: %s has no strategy", apperror.ErrInvalidConfig, player.Side.ID)
		}
	}

	if players[0].Side.Marker == players[1].Side.Marker {
		return fmt.Errorf("%w: both sides use marker %q", apperror.ErrInvalidConfig, players[0].Side.Marker)
	}

	return nil
}

// validateScoreBoard requires exactly sides A and B to be registered.
func validateScoreBoard(scores *entity.ScoreBoard) error {
	snapshot := scores.Snapshot()

	_, hasA := snapshot[entity.SideA]
	_, hasB := snapshot[entity.SideB]
	if len(snapshot) != 2 || !hasA || !hasB {
		return fmt.Errorf("%w: scoreboard must track side A and side B", apperror.ErrInvalidConfig)
	}

	return nil
}

// StartMatch begins a match on a fresh engine or a brand-new one after
// MatchComplete. Scores are cleared and the first round is set up.
func (that *MatchEngine) StartMatch(ctx context.Context) error {
	fresh := that.state == entity.AwaitingSetup && that.round == 0
	if !fresh && that.state != entity.MatchComplete {
		return fmt.Errorf("%w: cannot start a match in state %s", apperror.ErrInvalidState, that.state)
	}

	starter, err := that.resolveFirstSide(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve first side: %w", err)
	}

	that.scores.Reset()
	that.round = 0
	that.lastRound = nil
	that.grandWinner = nil
	that.matchStarter = starter

	that.logger.Info("match started",
		"first", that.players[starter].Side.Name,
		"board_size", that.config.BoardSize,
		"win_threshold", that.config.WinThreshold,
	)

	that.setupRound()

	return nil
}

func (that *MatchEngine) resolveFirstSide(ctx context.Context) (entity.SideID, error) {
	switch that.config.FirstMove {
	case FirstMoveSideB:
		return entity.SideB, nil
	case FirstMoveRandom:
		if that.rng.Intn(2) == 0 {
			return entity.SideA, nil
		}
		return entity.SideB, nil
	case FirstMoveExternal:
		side, err := that.chooser.ChooseFirstSide(ctx, that.Sides())
		if err != nil {
			return 0, err
		}
		if !side.Valid() {
			return 0, fmt.Errorf("%w: %s", apperror.ErrUnknownSide, side)
		}
		return side, nil
	default:
		return entity.SideA, nil
	}
}

func (that *MatchEngine) setupRound() {
	that.round++
	that.turn = 0
	that.moves = nil
	that.roundWinner = nil
	that.board.Reset()

	switch {
	case that.round == 1, that.config.RoundStart == RoundStartFixed:
		that.roundStarter = that.matchStarter
	default:
		that.roundStarter = that.roundStarter.Opponent()
	}

	that.active = that.roundStarter
	that.state = entity.RoundInProgress

	that.logger.Debug("round set up", "round", that.round, "first", that.players[that.active].Side.Name)
}

// AdvanceTurn performs exactly one state transition and returns the new state.
func (that *MatchEngine) AdvanceTurn(ctx context.Context) (entity.MatchState, error) {
	switch that.state {
	case entity.AwaitingSetup:
		if that.round == 0 {
			return that.state, fmt.Errorf("%w: match not started", apperror.ErrInvalidState)
		}
		that.setupRound()
	case entity.RoundInProgress:
		if err := that.makeTurn(ctx); err != nil {
			return that.state, err
		}
	case entity.RoundComplete:
		if err := that.completeRound(); err != nil {
			return that.state, err
		}
	case entity.MatchComplete:
		return that.state, apperror.ErrMatchComplete
	}

	return that.state, nil
}

// makeTurn asks the active side for a move and applies it.
func (that *MatchEngine) makeTurn(ctx context.Context) error {
	player := that.players[that.active]
	opponent := that.players[that.active.Opponent()]

	position, err := player.Strategy.ChooseMove(ctx, that.board.Clone(), player.Side, opponent.Side)
	if err != nil {
		return fmt.Errorf("%s failed to choose a move: %w", player.Side.Name, err)
	}

	if err = that.board.Place(position, player.Side.Marker); err != nil {
		return fmt.Errorf("%s chose an illegal move: %w", player.Side.Name, err)
	}

	that.turn++
	that.moves = append(that.moves, entity.Move{
		Round:    that.round,
		Turn:     that.turn,
		Side:     player.Side.ID,
		Position: position,
	})

	that.logger.Debug("move placed", "round", that.round, "turn", that.turn, "side", player.Side.Name, "position", position)

	that.updateRoundStatus()

	return nil
}

func (that *MatchEngine) updateRoundStatus() {
	if marker, ok := that.board.Winner(); ok {
		winner := that.sideByMarker(marker)
		that.roundWinner = &winner
		that.state = entity.RoundComplete
		return
	}

	if that.board.IsFull() {
		that.state = entity.RoundComplete
		return
	}

	that.active = that.active.Opponent()
}

func (that *MatchEngine) sideByMarker(marker entity.Marker) entity.SideID {
	if that.players[entity.SideA].Side.Marker == marker {
		return entity.SideA
	}
	return entity.SideB
}

// completeRound scores the finished round and decides whether the match is over.
func (that *MatchEngine) completeRound() error {
	if that.roundWinner != nil {
		if err := that.scores.RecordWin(*that.roundWinner); err != nil {
			return fmt.Errorf("failed to record win: %w", err)
		}
	}

	result := entity.RoundResult{
		Round:  that.round,
		Winner: that.roundWinner,
		Tie:    that.roundWinner == nil,
		Moves:  append([]entity.Move(nil), that.moves...),
	}
	that.lastRound = &result

	log := that.logger.With("round", that.round)
	if result.Tie {
		log.Info("round tied")
	} else {
		log.Info("round won", "winner", that.players[*result.Winner].Side.Name)
	}

	if winner, ok := that.scores.MatchWinner(that.config.WinThreshold); ok {
		that.grandWinner = &winner
		that.state = entity.MatchComplete
		log.Info("match complete", "grand_winner", that.players[winner].Side.Name)
		return nil
	}

	that.state = entity.AwaitingSetup

	return nil
}

// PlayRoundToCompletion steps the engine until the current round has been
// scored and returns its result.
func (that *MatchEngine) PlayRoundToCompletion(ctx context.Context) (entity.RoundResult, error) {
	switch {
	case that.state == entity.MatchComplete:
		return entity.RoundResult{}, apperror.ErrMatchComplete
	case that.state == entity.AwaitingSetup && that.round == 0:
		return entity.RoundResult{}, fmt.Errorf("%w: match not started", apperror.ErrInvalidState)
	}

	if that.state == entity.AwaitingSetup {
		that.setupRound()
	}

	for that.state == entity.RoundInProgress {
		if _, err := that.AdvanceTurn(ctx); err != nil {
			return entity.RoundResult{}, err
		}
	}

	if _, err := that.AdvanceTurn(ctx); err != nil {
		return entity.RoundResult{}, err
	}

	return *that.lastRound, nil
}

// PlayMatchToCompletion starts the match if needed and plays every
// remaining round.
func (that *MatchEngine) PlayMatchToCompletion(ctx context.Context) ([]entity.RoundResult, error) {
	if that.state == entity.AwaitingSetup && that.round == 0 {
		if err := that.StartMatch(ctx); err != nil {
			return nil, err
		}
	}

	var results []entity.RoundResult
	for that.state != entity.MatchComplete {
		result, err := that.PlayRoundToCompletion(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	return results, nil
}

func (that *MatchEngine) State() entity.MatchState {
	return that.state
}

// Board returns a copy of the current grid for renderers.
func (that *MatchEngine) Board() *entity.Board {
	return that.board.Clone()
}

func (that *MatchEngine) ScoreBoard() map[entity.SideID]int {
	return that.scores.Snapshot()
}

func (that *MatchEngine) Round() int {
	return that.round
}

func (that *MatchEngine) ActiveSide() entity.Side {
	return that.players[that.active].Side
}

func (that *MatchEngine) Moves() []entity.Move {
	return append([]entity.Move(nil), that.moves...)
}

func (that *MatchEngine) LastRound() (entity.RoundResult, bool) {
	if that.lastRound == nil {
		return entity.RoundResult{}, false
	}

	return *that.lastRound, true
}

func (that *MatchEngine) GrandWinner() (entity.Side, bool) {
	if that.grandWinner == nil {
		return entity.Side{}, false
	}

	return that.players[*that.grandWinner].Side, true
}

func (that *MatchEngine) Sides() [2]entity.Side {
	return [2]entity.Side{that.players[entity.SideA].Side, that.players[entity.SideB].Side}
}

func (that *MatchEngine) Side(id entity.SideID) (entity.Side, error) {
	player, ok := that.players[id]
	if !ok {
		return entity.Side{}, fmt.Errorf("%w: %s", apperror.ErrUnknownSide, id)
	}

	return player.Side, nil
}

func (that *MatchEngine) Config() MatchConfig {
	return that.config
}

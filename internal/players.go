package application

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-match/internal/config"
	"github.com/rocketscienceinc/tictactoe-match/internal/entity"
	"github.com/rocketscienceinc/tictactoe-match/internal/strategy"
	"github.com/rocketscienceinc/tictactoe-match/internal/tictactoe"
)

type prompter interface {
	AskName(ctx context.Context) (string, error)
	ChooseMarker(ctx context.Context) (entity.Marker, error)
	RequestPosition(ctx context.Context, side entity.Side, legal []int) (string, error)
	Notify(message string)
}

// newRand seeds from the clock unless a fixed seed is configured.
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return rand.New(rand.NewSource(seed)) //nolint: gosec // game randomness
}

func matchConfig(conf *config.Config) tictactoe.MatchConfig {
	return tictactoe.MatchConfig{
		BoardSize:    conf.Match.BoardSize,
		WinThreshold: conf.Match.WinThreshold,
		FirstMove:    tictactoe.FirstMoveRule(conf.Match.FirstMove),
		RoundStart:   tictactoe.RoundStartPolicy(conf.Match.RoundStart),
	}
}

// buildPlayers turns the configured sides into engine players. Missing
// names of interactive sides are asked for, then the marker of side A.
func buildPlayers(ctx context.Context, conf *config.Config, prompt prompter, rng *rand.Rand) ([2]tictactoe.Player, error) {
	var players [2]tictactoe.Player

	for i, side := range []struct {
		id   entity.SideID
		conf config.Player
	}{
		{id: entity.SideA, conf: conf.Players.SideA},
		{id: entity.SideB, conf: conf.Players.SideB},
	} {
		var taken []string
		if i > 0 {
			taken = append(taken, players[0].Side.Name)
		}

		player, err := buildPlayer(ctx, side.id, side.conf, conf.Match.BoardSize, taken, prompt, rng)
		if err != nil {
			return players, fmt.Errorf("failed to build %s: %w", side.id, err)
		}

		players[i] = player
	}

	chosen := entity.Marker(strings.ToUpper(conf.Players.SideA.Marker))
	if conf.Players.SideA.Marker == config.MarkerChoose {
		marker, err := prompt.ChooseMarker(ctx)
		if err != nil {
			return players, fmt.Errorf("failed to choose marker: %w", err)
		}

		chosen = marker
	}

	if err := entity.AssignMarkers(&players[0].Side, &players[1].Side, chosen); err != nil {
		return players, fmt.Errorf("failed to assign markers: %w", err)
	}

	return players, nil
}

// buildPlayer never draws a random persona whose name is already taken.
func buildPlayer(
	ctx context.Context,
	id entity.SideID,
	conf config.Player,
	boardSize int,
	taken []string,
	prompt prompter,
	rng *rand.Rand,
) (tictactoe.Player, error) {
	side := entity.Side{ID: id, Name: conf.Name}

	switch conf.Strategy {
	case config.StrategyInteractive:
		if side.Name == "" {
			name, err := prompt.AskName(ctx)
			if err != nil {
				return tictactoe.Player{}, fmt.Errorf("failed to ask name: %w", err)
			}

			side.Name = name
		}

		return tictactoe.Player{Side: side, Strategy: strategy.NewInteractive(prompt, prompt)}, nil

	case config.StrategyHeuristic:
		persona := strategy.RandomPersona(rng, taken...)
		if conf.Persona != "" {
			var err error
			if persona, err = strategy.PersonaByName(conf.Persona); err != nil {
				return tictactoe.Player{}, err
			}
		}

		if len(conf.Preference) > 0 {
			persona.Preference = append([]int(nil), conf.Preference...)
			if err := persona.ValidFor(boardSize); err != nil {
				return tictactoe.Player{}, err
			}
		}

		if side.Name == "" {
			side.Name = persona.Name
		}

		return tictactoe.Player{Side: side, Strategy: strategy.NewHeuristic(rng, persona)}, nil

	default:
		return tictactoe.Player{}, fmt.Errorf("%w: strategy %q", apperror.ErrInvalidConfig, conf.Strategy)
	}
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-match/internal/entity"
)

var ErrPlayerNotFound = fmt.Errorf("player %w", apperror.ErrNotFound)

const (
	fieldMatchesPlayed = "matches_played"
	fieldMatchesWon    = "matches_won"
	fieldRoundsWon     = "rounds_won"
	fieldRoundsTied    = "rounds_tied"
)

// PlayerStats are lifetime tallies kept per player name across matches.
type PlayerStats struct {
	Name          string `json:"name"`
	MatchesPlayed int64  `json:"matches_played"`
	MatchesWon    int64  `json:"matches_won"`
	RoundsWon     int64  `json:"rounds_won"`
	RoundsTied    int64  `json:"rounds_tied"`
}

type PlayerRepository interface {
	RecordMatch(ctx context.Context, match *entity.MatchRecord) error
	GetByName(ctx context.Context, name string) (*PlayerStats, error)
}

type dbPlayer struct {
	client *redis.Client
}

func NewPlayerRepository(client *redis.Client) PlayerRepository {
	return &dbPlayer{
		client: client,
	}
}

func playerKey(name string) string {
	return "player:" + name
}

// RecordMatch adds a finished match to the stats of both of its sides.
func (that *dbPlayer) RecordMatch(ctx context.Context, match *entity.MatchRecord) error {
	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, side := range match.Sides {
			key := playerKey(side.Name)

			pipe.HIncrBy(ctx, key, fieldMatchesPlayed, 1)
			if match.GrandWinner != nil && *match.GrandWinner == side.ID {
				pipe.HIncrBy(ctx, key, fieldMatchesWon, 1)
			}

			var won, tied int64
			for _, round := range match.Rounds {
				switch {
				case round.Tie:
					tied++
				case round.WonBy(side.ID):
					won++
				}
			}

			pipe.HIncrBy(ctx, key, fieldRoundsWon, won)
			pipe.HIncrBy(ctx, key, fieldRoundsTied, tied)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record match for players: %w", err)
	}

	return nil
}

func (that *dbPlayer) GetByName(ctx context.Context, name string) (*PlayerStats, error) {
	values, err := that.client.HGetAll(ctx, playerKey(name)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get player by name: %w", err)
	}

	if len(values) == 0 {
		return nil, ErrPlayerNotFound
	}

	stats := &PlayerStats{Name: name}
	for field, target := range map[string]*int64{
		fieldMatchesPlayed: &stats.MatchesPlayed,
		fieldMatchesWon:    &stats.MatchesWon,
		fieldRoundsWon:     &stats.RoundsWon,
		fieldRoundsTied:    &stats.RoundsTied,
	} {
		raw, ok := values[field]
		if !ok {
			continue
		}

		if *target, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", field, err)
		}
	}

	return stats, nil
}

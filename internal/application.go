package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-match/internal/config"
	"github.com/rocketscienceinc/tictactoe-match/internal/entity"
	"github.com/rocketscienceinc/tictactoe-match/internal/repository"
	"github.com/rocketscienceinc/tictactoe-match/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-match/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-match/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-match/transport/console"
	"github.com/rocketscienceinc/tictactoe-match/transport/rest"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	rng := newRand(conf.Match.Seed)
	terminal := console.New(os.Stdin, os.Stdout, rng)

	players, err := buildPlayers(ctx, conf, terminal, rng)
	if err != nil {
		return fmt.Errorf("could not set up players: %w", err)
	}

	engine, err := tictactoe.NewMatchEngine(
		logger,
		matchConfig(conf),
		players,
		entity.NewScoreBoard(entity.SideA, entity.SideB),
		tictactoe.WithRand(rng),
		tictactoe.WithFirstSideChooser(terminal),
	)
	if err != nil {
		return fmt.Errorf("could not create match engine: %w", err)
	}

	var (
		matchRepo  repository.MatchRepository
		playerRepo repository.PlayerRepository
	)

	httpErrCh := make(chan error, 1)

	if conf.Redis.Enabled {
		redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err := redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		matchRepo = repository.NewMatchRepository(redisStorage)
		playerRepo = repository.NewPlayerRepository(redisStorage)

		// run HTTP server
		if conf.HTTPPort != "" {
			router := rest.NewRouter(rest.NewHandlers(logger, matchRepo, playerRepo))

			go func() {
				log.Info("Starting HTTP server", "port", conf.HTTPPort)
				if httpErr := rest.Start(ctx, conf.HTTPPort, router); httpErr != nil {
					log.Error("HTTP server error", "error", httpErr)
					httpErrCh <- httpErr
				}
			}()
		}
	} else if conf.HTTPPort != "" {
		log.Warn("HTTP server needs redis storage, not starting", "port", conf.HTTPPort)
	}

	session := usecase.NewMatchSession(logger, engine, terminal, terminal, matchRepo, playerRepo)

	sessionErrCh := make(chan error, 1)
	go func() {
		sessionErrCh <- session.Run(ctx)
	}()

	select {
	case err = <-sessionErrCh:
		if err == nil || errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("match session error: %w", err)
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

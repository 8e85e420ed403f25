package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-match/internal/entity"
	"github.com/rocketscienceinc/tictactoe-match/internal/repository"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)

	ListMatches(w http.ResponseWriter, r *http.Request)
	GetMatch(w http.ResponseWriter, r *http.Request)
	GetPlayer(w http.ResponseWriter, r *http.Request)
}

type matchRepo interface {
	GetByID(ctx context.Context, id string) (*entity.MatchRecord, error)
	List(ctx context.Context, limit int64) ([]*entity.MatchRecord, error)
}

type playerRepo interface {
	GetByName(ctx context.Context, name string) (*repository.PlayerStats, error)
}

type handlers struct {
	logger     *slog.Logger
	matchRepo  matchRepo
	playerRepo playerRepo
}

func NewHandlers(logger *slog.Logger, matchRepo matchRepo, playerRepo playerRepo) Handlers {
	return &handlers{
		logger:     logger.With("component", "rest"),
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
	}
}

// ListMatches returns the newest stored matches. ?limit= caps the count.
func (that *handlers) ListMatches(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultListLimit)

	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}

		limit = min(parsed, maxListLimit)
	}

	matches, err := that.matchRepo.List(r.Context(), limit)
	if err != nil {
		that.logger.Error("failed to list matches", "method", "ListMatches", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, matches)
}

func (that *handlers) GetMatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	match, err := that.matchRepo.GetByID(r.Context(), id)
	if errors.Is(err, apperror.ErrNotFound) {
		http.Error(w, "Match not found", http.StatusNotFound)
		return
	}

	if err != nil {
		that.logger.Error("failed to get match", "method", "GetMatch", "match_id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, match)
}

func (that *handlers) GetPlayer(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	stats, err := that.playerRepo.GetByName(r.Context(), name)
	if errors.Is(err, apperror.ErrNotFound) {
		http.Error(w, "Player not found", http.StatusNotFound)
		return
	}

	if err != nil {
		that.logger.Error("failed to get player", "method", "GetPlayer", "player", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, stats)
}

func (that *handlers) writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(value); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

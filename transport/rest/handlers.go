package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/bot"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type gameManager interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	ListGames(ctx context.Context) ([]*entity.Game, error)
	GetHistory(ctx context.Context, gameID string) (*entity.History, error)

	MakeTurn(ctx context.Context, gameID string, mark entity.Mark, row, col int) (*entity.Game, error)
	MakeBotTurn(ctx context.Context, gameID string, difficulty bot.Difficulty) (*entity.Game, error)

	ValidateGame(ctx context.Context, gameID string) (*entity.Game, error)
}

type moveRequest struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Player string `json:"player"`
}

type botMoveRequest struct {
	Difficulty string `json:"difficulty"`
}

type gameSummary struct {
	ID          string        `json:"id"`
	Status      entity.Status `json:"status"`
	CurrentTurn entity.Mark   `json:"current_turn"`
}

type gamesResponse struct {
	Games []gameSummary `json:"games"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger *slog.Logger
	games  gameManager

	defaultDifficulty bot.Difficulty
}

func newHandlers(logger *slog.Logger, games gameManager, defaultDifficulty bot.Difficulty) *handlers {
	return &handlers{
		logger:            logger.With("component", "rest"),
		games:             games,
		defaultDifficulty: defaultDifficulty,
	}
}

func (that *handlers) listGames(w http.ResponseWriter, r *http.Request) {
	games, err := that.games.ListGames(r.Context())
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	resp := gamesResponse{Games: make([]gameSummary, 0, len(games))}
	for _, game := range games {
		resp.Games = append(resp.Games, gameSummary{
			ID:          game.ID,
			Status:      game.Status,
			CurrentTurn: game.Turn,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (that *handlers) createGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.CreateGame(r.Context())
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, game)
}

func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *handlers) makeMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}

	mark, err := entity.ParseMark(req.Player)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	game, err := that.games.MakeTurn(r.Context(), chi.URLParam(r, "id"), mark, req.Row, req.Col)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

// makeBotMove accepts an empty body, in which case the configured difficulty is used.
func (that *handlers) makeBotMove(w http.ResponseWriter, r *http.Request) {
	var req botMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}

	difficulty := that.defaultDifficulty
	if req.Difficulty != "" {
		parsed, err := bot.ParseDifficulty(req.Difficulty)
		if err != nil {
			that.writeError(w, r, err)
			return
		}
		difficulty = parsed
	}

	game, err := that.games.MakeBotTurn(r.Context(), chi.URLParam(r, "id"), difficulty)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *handlers) getHistory(w http.ResponseWriter, r *http.Request) {
	history, err := that.games.GetHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, history)
}

func (that *handlers) validateGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.ValidateGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound), errors.Is(err, apperror.ErrHistoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidPosition),
		errors.Is(err, apperror.ErrInvalidDifficulty),
		errors.Is(err, apperror.ErrInvalidMark),
		errors.Is(err, apperror.ErrNotYourTurn):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrNoValidMoves),
		errors.Is(err, apperror.ErrHistoryMismatch):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

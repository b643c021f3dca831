package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/worldcup-api/apiserver/internal/services"
	"github.com/worldcup-api/apiserver/internal/store"
	"github.com/worldcup-api/apiserver/types"
)

const (
	msgPlayerNotFound     = "Jogador não encontrado"
	msgPlayerRequired     = "Nome, posição e seleção do jogador são obrigatórios."
	msgInvalidPosition    = "Posição inválida"
	msgUnknownTeam        = "Seleção informada não existe"
	msgInvalidPlayerID    = "ID de jogador inválido"
	msgListPlayersFailed  = "Erro ao listar jogadores"
	msgGetPlayerFailed    = "Erro ao buscar jogador"
	msgCreatePlayerFailed = "Erro ao criar jogador"
	msgUpdatePlayerFailed = "Erro ao atualizar jogador"
	msgDeletePlayerFailed = "Erro ao deletar jogador"
)

// PlayerHandler provides HTTP handlers for players.
type PlayerHandler struct {
	playerService *services.PlayerService
	logger        *slog.Logger
}

func NewPlayerHandler(playerService *services.PlayerService, logger *slog.Logger) *PlayerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlayerHandler{playerService: playerService, logger: logger}
}

// PlayerRouter registers player routes on the given router.
func PlayerRouter(r chi.Router, playerService *services.PlayerService, logger *slog.Logger) {
	handler := NewPlayerHandler(playerService, logger)

	r.Get("/", handler.ListPlayers)
	r.Post("/", handler.CreatePlayer)
	r.Route("/{playerID}", func(r chi.Router) {
		r.Get("/", handler.GetPlayer)
		r.Put("/", handler.UpdatePlayer)
		r.Delete("/", handler.DeletePlayer)
	})
}

func (h *PlayerHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.playerService.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list players", "error", err)
		writeError(w, http.StatusInternalServerError, msgListPlayersFailed)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

func (h *PlayerHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "playerID")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidPlayerID)
		return
	}

	player, err := h.playerService.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, msgGetPlayerFailed)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

func (h *PlayerHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req PlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	name := strings.TrimSpace(stringValue(req.Name))
	teamID := intValue(req.TeamID)
	if name == "" || req.Position == nil || teamID < 1 {
		writeError(w, http.StatusBadRequest, msgPlayerRequired)
		return
	}
	position, ok := types.ParsePosition(*req.Position)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidPosition)
		return
	}

	player, err := h.playerService.Create(r.Context(), types.Player{
		Name:        name,
		Position:    position,
		ShirtNumber: intValue(req.ShirtNumber),
		TeamID:      teamID,
	})
	if err != nil {
		h.fail(w, r, err, msgCreatePlayerFailed)
		return
	}
	writeJSON(w, http.StatusCreated, player)
}

func (h *PlayerHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "playerID")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidPlayerID)
		return
	}

	var req PlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	update := types.PlayerUpdate{ShirtNumber: req.ShirtNumber, TeamID: req.TeamID}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, msgPlayerRequired)
			return
		}
		update.Name = &name
	}
	if req.Position != nil {
		position, ok := types.ParsePosition(*req.Position)
		if !ok {
			writeError(w, http.StatusBadRequest, msgInvalidPosition)
			return
		}
		raw := string(position)
		update.Position = &raw
	}
	if req.TeamID != nil && *req.TeamID < 1 {
		writeError(w, http.StatusBadRequest, msgUnknownTeam)
		return
	}

	player, err := h.playerService.Update(r.Context(), id, update)
	if err != nil {
		h.fail(w, r, err, msgUpdatePlayerFailed)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

func (h *PlayerHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "playerID")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidPlayerID)
		return
	}

	player, err := h.playerService.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, msgDeletePlayerFailed)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

func (h *PlayerHandler) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, msgPlayerNotFound)
	case errors.Is(err, store.ErrReferenceMissing):
		writeError(w, http.StatusBadRequest, msgUnknownTeam)
	default:
		h.logger.ErrorContext(r.Context(), fallback, "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

// PlayerRequest is the body of player create and update requests.
type PlayerRequest struct {
	Name        *string `json:"nome"`
	Position    *string `json:"posicao"`
	ShirtNumber *int    `json:"numeroCamisa"`
	TeamID      *int    `json:"selecaoId"`
}

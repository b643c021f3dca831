package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/worldcup-api/apiserver/internal/services"
	"github.com/worldcup-api/apiserver/internal/storage"
	"github.com/worldcup-api/apiserver/internal/store"
	"github.com/worldcup-api/apiserver/types"
)

const (
	maxFlagBytes      = 5 << 20
	maxMultipartBytes = maxFlagBytes + 1<<20
	formFieldFlag     = "flag"

	msgTeamNotFound     = "Seleção não encontrada"
	msgTeamRequired     = "Nome e grupo da seleção são obrigatórios."
	msgTeamDeleted      = "Seleção deletada com sucesso"
	msgStorageDisabled  = "Armazenamento de bandeiras indisponível"
	msgFlagNotFound     = "Bandeira não encontrada"
	msgFlagInvalid      = "A bandeira deve ser uma imagem PNG, JPEG, GIF ou WEBP"
	msgFlagMissing      = "Arquivo da bandeira é obrigatório"
	msgFlagTooLarge     = "Arquivo da bandeira excede 5 MiB"
	msgInvalidTeamID    = "ID de seleção inválido"
	msgInvalidBody      = "Corpo da requisição inválido"
	msgListTeamsFailed  = "Erro ao listar seleções"
	msgGetTeamFailed    = "Erro ao buscar seleção"
	msgCreateTeamFailed = "Erro ao criar seleção"
	msgUpdateTeamFailed = "Erro ao atualizar seleção"
	msgDeleteTeamFailed = "Erro ao deletar seleção"
	msgUploadFlagFailed = "Erro ao enviar bandeira"
	msgLoadFlagFailed   = "Erro ao buscar bandeira"
)

var errUploadTooLarge = errors.New("uploaded file too large")

var flagExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// TeamHandler provides HTTP handlers for national teams.
type TeamHandler struct {
	teamService *services.TeamService
	logger      *slog.Logger
}

func NewTeamHandler(teamService *services.TeamService, logger *slog.Logger) *TeamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamHandler{teamService: teamService, logger: logger}
}

// TeamRouter registers team routes on the given router.
func TeamRouter(r chi.Router, teamService *services.TeamService, logger *slog.Logger) {
	handler := NewTeamHandler(teamService, logger)

	r.Get("/", handler.ListTeams)
	r.Post("/", handler.CreateTeam)
	r.Route("/{teamID}", func(r chi.Router) {
		r.Get("/", handler.GetTeam)
		r.Put("/", handler.UpdateTeam)
		r.Delete("/", handler.DeleteTeam)
		r.Put("/bandeira", handler.UploadFlag)
		r.Get("/bandeira", handler.GetFlag)
	})
}

func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list teams", "error", err)
		writeError(w, http.StatusInternalServerError, msgListTeamsFailed)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "teamID")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidTeamID)
		return
	}

	team, err := h.teamService.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, msgGetTeamFailed)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req TeamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	name := strings.TrimSpace(stringValue(req.Name))
	group := strings.TrimSpace(stringValue(req.Group))
	if name == "" || group == "" {
		writeError(w, http.StatusBadRequest, msgTeamRequired)
		return
	}

	team, err := h.teamService.Create(r.Context(), types.Team{
		Name:   name,
		Group:  group,
		Titles: intValue(req.Titles),
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "create team", "error", err)
		writeError(w, http.StatusInternalServerError, msgCreateTeamFailed)
		return
	}
	writeJSON(w, http.StatusCreated, team)
}

func (h *TeamHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "teamID")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidTeamID)
		return
	}

	var req TeamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	update := types.TeamUpdate{Titles: req.Titles}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, msgTeamRequired)
			return
		}
		update.Name = &name
	}
	if req.Group != nil {
		group := strings.TrimSpace(*req.Group)
		if group == "" {
			writeError(w, http.StatusBadRequest, msgTeamRequired)
			return
		}
		update.Group = &group
	}

	team, err := h.teamService.Update(r.Context(), id, update)
	if err != nil {
		h.fail(w, r, err, msgUpdateTeamFailed)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (h *TeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "teamID")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidTeamID)
		return
	}

	if err := h.teamService.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err, msgDeleteTeamFailed)
		return
	}
	writeMessage(w, http.StatusOK, msgTeamDeleted)
}

// UploadFlag stores the multipart "flag" file as the team's flag image.
func (h *TeamHandler) UploadFlag(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "teamID")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidTeamID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBytes)
	file, _, err := r.FormFile(formFieldFlag)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, msgFlagTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, msgFlagMissing)
		return
	}
	defer file.Close()

	data, err := readFileLimited(file, maxFlagBytes)
	if err != nil {
		if errors.Is(err, errUploadTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgFlagTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contentType := http.DetectContentType(data)
	ext, ok := flagExtensions[contentType]
	if !ok {
		writeError(w, http.StatusUnsupportedMediaType, msgFlagInvalid)
		return
	}

	team, err := h.teamService.SetFlag(r.Context(), id, data, contentType, ext)
	if err != nil {
		h.fail(w, r, err, msgUploadFlagFailed)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// GetFlag streams the team's flag image.
func (h *TeamHandler) GetFlag(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "teamID")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidTeamID)
		return
	}

	body, info, err := h.teamService.OpenFlag(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, msgLoadFlagFailed)
		return
	}
	defer body.Close()

	if info.ContentType != "" {
		w.Header().Set("Content-Type", info.ContentType)
	}
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.WarnContext(r.Context(), "stream flag", "team_id", id, "error", err)
	}
}

func (h *TeamHandler) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, msgTeamNotFound)
	case errors.Is(err, services.ErrStorageDisabled):
		writeError(w, http.StatusServiceUnavailable, msgStorageDisabled)
	case errors.Is(err, services.ErrNoFlag), errors.Is(err, storage.ErrObjectNotFound):
		writeError(w, http.StatusNotFound, msgFlagNotFound)
	default:
		h.logger.ErrorContext(r.Context(), fallback, "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

// TeamRequest is the body of team create and update requests.
type TeamRequest struct {
	Name   *string `json:"nome"`
	Group  *string `json:"grupo"`
	Titles *int    `json:"titulos"`
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intValue(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	commonhealth "github.com/park285/llm-kakao-bots/progression-go/internal/common/health"
	commonhttputil "github.com/park285/llm-kakao-bots/progression-go/internal/common/httputil"
	perrors "github.com/park285/llm-kakao-bots/progression-go/internal/progression/errors"
	"github.com/park285/llm-kakao-bots/progression-go/internal/progression/repository"
	psvc "github.com/park285/llm-kakao-bots/progression-go/internal/progression/service"
)

const (
	apiErrorInvalidRequest       = "INVALID_REQUEST"
	apiErrorNotFound             = "NOT_FOUND"
	apiErrorAlreadyExists        = "ALREADY_EXISTS"
	apiErrorLevelNotCompleted    = "LEVEL_NOT_COMPLETED"
	apiErrorPrizeAlreadyAssigned = "PRIZE_ALREADY_ASSIGNED"
	apiErrorInternalError        = "INTERNAL_ERROR"
)

const maxBodyBytes = 1 << 20

// Services: HTTP 라우트가 사용하는 서비스 묶음
type Services struct {
	Players  *psvc.PlayerService
	Tracker  *psvc.ProgressTracker
	Rewards  *psvc.RewardService
	Boosts   *psvc.BoostService
	Exporter *psvc.ProgressExporter
	Repo     *repository.Repository
}

// Register 는 동작을 수행한다.
func Register(mux *http.ServeMux, svcs Services, logger *slog.Logger) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		_ = commonhttputil.WriteJSON(w, http.StatusOK, commonhealth.Get())
	})

	mux.HandleFunc("POST /api/players", func(w http.ResponseWriter, r *http.Request) {
		handleRegisterPlayer(w, r, svcs.Players, logger)
	})
	mux.HandleFunc("GET /api/players/{externalId}", func(w http.ResponseWriter, r *http.Request) {
		handleGetPlayer(w, r, svcs.Players, logger)
	})
	mux.HandleFunc("DELETE /api/players/{externalId}", func(w http.ResponseWriter, r *http.Request) {
		handleDeletePlayer(w, r, svcs.Players, logger)
	})
	mux.HandleFunc("POST /api/players/{externalId}/login", func(w http.ResponseWriter, r *http.Request) {
		handleLogin(w, r, svcs.Players, logger)
	})
	mux.HandleFunc("POST /api/players/{externalId}/points", func(w http.ResponseWriter, r *http.Request) {
		handleAddPoints(w, r, svcs.Players, logger)
	})
	mux.HandleFunc("GET /api/players/{externalId}/boosts", func(w http.ResponseWriter, r *http.Request) {
		handleListBoosts(w, r, svcs.Players, svcs.Boosts, logger)
	})

	mux.HandleFunc("POST /api/progress/start", func(w http.ResponseWriter, r *http.Request) {
		handleStartLevel(w, r, svcs.Tracker, logger)
	})
	mux.HandleFunc("POST /api/progress/complete", func(w http.ResponseWriter, r *http.Request) {
		handleCompleteLevel(w, r, svcs.Tracker, logger)
	})
	mux.HandleFunc("GET /api/progress/{playerId}/{levelId}", func(w http.ResponseWriter, r *http.Request) {
		handleGetProgress(w, r, svcs.Tracker, logger)
	})

	mux.HandleFunc("POST /api/prizes/assign", func(w http.ResponseWriter, r *http.Request) {
		handleAssignPrize(w, r, svcs.Rewards, logger)
	})
	mux.HandleFunc("POST /api/boosts/grant", func(w http.ResponseWriter, r *http.Request) {
		handleGrantBoost(w, r, svcs.Boosts, logger)
	})

	mux.HandleFunc("POST /api/reports/progress", func(w http.ResponseWriter, r *http.Request) {
		handleExport(w, r, svcs.Exporter, logger)
	})
	mux.HandleFunc("GET /api/reports/progress.csv", func(w http.ResponseWriter, r *http.Request) {
		handleExportStream(w, r, svcs.Exporter, logger)
	})

	registerCatalogRoutes(mux, svcs.Repo, logger)
}

func handleRegisterPlayer(w http.ResponseWriter, r *http.Request, players *psvc.PlayerService, logger *slog.Logger) {
	var req RegisterPlayerRequest
	if err := commonhttputil.ReadJSON(r, &req, maxBodyBytes); err != nil {
		_ = commonhttputil.WriteErrorJSON(w, http.StatusBadRequest, apiErrorInvalidRequest, err.Error())
		return
	}

	player, err := players.Register(r.Context(), req.ExternalID)
	if err != nil {
		respondDomainError(w, err, "register_player_failed", logger)
		return
	}
	_ = commonhttputil.WriteJSON(w, http.StatusCreated, toPlayerResponse(player))
}

func handleGetPlayer(w http.ResponseWriter, r *http.Request, players *psvc.PlayerService, logger *slog.Logger) {
	externalID := strings.TrimSpace(r.PathValue("externalId"))
	if externalID == "" {
		_ = commonhttputil.WriteErrorJSON(w, http.StatusBadRequest, apiErrorInvalidRequest, "external id required")
		return
	}

	player, err := players.Get(r.Context(), externalID)
	if err != nil {
		respondDomainError(w, err, "get_player_failed", logger)
		return
	}
	_ = commonhttputil.WriteJSON(w, http.StatusOK, toPlayerResponse(player))
}

func handleDeletePlayer(w http.ResponseWriter, r *http.Request, players *psvc.PlayerService, logger *slog.Logger) {
	externalID := strings.TrimSpace(r.PathValue("externalId"))
	if externalID == "" {
		_ = commonhttputil.WriteErrorJSON(w, http.StatusBadRequest, apiErrorInvalidRequest, "external id required")
		return
	}

	player, err := players.Get(r.Context(), externalID)
	if err != nil {
		respondDomainError(w, err, "delete_player_failed", logger)
		return
	}
	if err := players.Delete(r.Context(), player.ID); err != nil {
		respondDomainError(w, err, "delete_player_failed", logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleLogin(w http.ResponseWriter, r *http.Request, players *psvc.PlayerService, logger *slog.Logger) {
	externalID := strings.TrimSpace(r.PathValue("externalId"))
	if externalID == "" {
		_ = commonhttputil.WriteErrorJSON(w, http.StatusBadRequest, apiErrorInvalidRequest, "external id required")
		return
	}

	result, err := players.RecordLogin(r.Context(), externalID)
	if err != nil {
		respondDomainError(w, err, "record_login_failed", logger)
		return
	}
	_ = commonhttputil.WriteJSON(w, http.StatusOK, LoginResponse{
		PlayerID:   result.PlayerID,
		FirstLogin: result.FirstLogin,
		LoggedInAt: result.LoggedInAt,
	})
}

func handleAddPoints(w http.ResponseWriter, r *http.Request, players *psvc.PlayerService, logger *slog.Logger) {
	externalID := strings.TrimSpace(r.PathValue("externalId"))
	var req AddPointsRequest
	if err := commonhttputil.ReadJSON(r, &req, maxBodyBytes); err != nil {
		_ = commonhttputil.WriteErrorJSON(w, http.StatusBadRequest, apiErrorInvalidRequest, err.Error())
		return
	}

	player, err := players.Get(r.Context(), externalID)
	if err != nil {
		respondDomainError(w, err, "add_points_failed", logger)
		return
	}
	if err := players.AddPoints(r.Context(), player.ID, req.Points); err != nil {
		respondDomainError(w, err, "add_points_failed", logger)
		return
	}

	player, err = players.Get(r.Context(), externalID)
	if err != nil {
		respondDomainError(w, err, "add_points_failed", logger)
		return
	}
	_ = commonhttputil.WriteJSON(w, http.StatusOK, toPlayerResponse(player))
}

func handleListBoosts(w http.ResponseWriter, r *http.Request, players *psvc.PlayerService, boosts *psvc.BoostService, logger *slog.Logger) {
	externalID := strings.TrimSpace(r.PathValue("externalId"))
	player, err := players.Get(r.Context(), externalID)
	if err != nil {
		respondDomainError(w, err, "list_boosts_failed", logger)
		return
	}

	now := time.Now()
	var owned []repository.PlayerBoost
	if r.URL.Query().Get("active") == "true" {
		owned, err = boosts.ListActive(r.Context(), player.ID, now)
	} else {
		owned, err = boosts.ListAll(r.Context(), player.ID)
	}
	if err != nil {
		respondDomainError(w, err, "list_boosts_failed", logger)
		return
	}

	resp := make([]BoostResponse, 0, len(owned))
	for _, b := range owned {
		resp = append(resp, BoostResponse{
			ID:         b.ID,
			BoostID:    b.BoostID,
			ObtainedAt: b.ObtainedAt,
			ExpiresAt:  b.ExpiresAt,
			Active:     psvc.IsActive(b, now),
		})
	}
	_ = commonhttputil.WriteJSON(w, http.StatusOK, resp)
}

func handleStartLevel(w http.ResponseWriter, r *http.Request, tracker *psvc.ProgressTracker, logger *slog.Logger) {
	var req StartLevelRequest
	if err := commonhttputil.ReadJSON(r, &req, maxBodyBytes); err != nil {
		_ = commonhttputil.WriteErrorJSON(w, http.StatusBadRequest, apiErrorInvalidRequest, err.Error())
		return
	}

	entity, err := tracker.StartLevel(r.Context(), req.PlayerID, req.LevelID)
	if err != nil {
		respondDomainError(w, err, "start_level_failed", logger)
		return
	}
	_ = commonhttputil.WriteJSON(w, http.StatusOK, toProgressResponse(entity))
}

func handleCompleteLevel(w http.ResponseWriter, r *http.Request, tracker *psvc.ProgressTracker, logger *slog.Logger) {
	var req CompleteLevelRequest
	if err := commonhttputil.ReadJSON(r, &req, maxBodyBytes); err != nil {
		_ = commonhttputil.WriteErrorJSON(w, http.StatusBadRequest, apiErrorInvalidRequest, err.Error())
		return
	}

	completedAt := time.Time{}
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}

	entity, err := tracker.RecordCompletion(r.Context(), req.PlayerID, req.LevelID, req.Score, completedAt)
	if err != nil {
		respondDomainError(w, err, "complete_level_failed", logger)
		return
	}
	_ = commonhttputil.WriteJSON(w, http.StatusOK, toProgressResponse(entity))
}

func handleGetProgress(w http.ResponseWriter, r *http.Request, tracker *psvc.ProgressTracker, logger *slog.Logger) {
	playerID, err := pathID(r, "playerId")
	if err != nil {
		_ = commonhttputil.WriteErrorJSON(w, http.StatusBadRequest, apiErrorInvalidRequest, err.Error())
		return
	}
	levelID, err := pathID(r, "levelId")
	if err != nil {
		_ = commonhttputil.WriteErrorJSON(w, http.StatusBadRequest, apiErrorInvalidRequest, err.Error())
		return
	}

	done, err := tracker.IsCompleted(r.Context(), playerID, levelID)
	if err != nil {
		respondDomainError(w, err, "get_progress_failed", logger)
		return
	}
	_ = commonhttputil.WriteJSON(w, http.StatusOK, ProgressResponse{
		PlayerID:    playerID,
		LevelID:     levelID,
		IsCompleted: done,
	})
}

func handleAssignPrize(w http.ResponseWriter, r *http.Request, rewards *psvc.RewardService, logger *slog.Logger) {
	var req AssignPrizeRequest
	if err := commonhttputil.ReadJSON(r, &req, maxBodyBytes); err != nil {
		_ = commonhttputil.WriteErrorJSON(w, http.StatusBadRequest, apiErrorInvalidRequest, err.Error())
		return
	}

	assigned, err := rewards.AssignPrize(r.Context(), req.PlayerID, req.LevelID, req.PrizeID)
	if err != nil {
		respondDomainError(w, err, "assign_prize_failed", logger)
		return
	}
	_ = commonhttputil.WriteJSON(w, http.StatusCreated, PrizeAssignmentResponse{
		PlayerID:   assigned.PlayerID,
		LevelID:    assigned.LevelID,
		PrizeID:    assigned.PrizeID,
		ReceivedAt: assigned.ReceivedAt,
	})
}

func handleGrantBoost(w http.ResponseWriter, r *http.Request, boosts *psvc.BoostService, logger *slog.Logger) {
	var req GrantBoostRequest
	if err := commonhttputil.ReadJSON(r, &req, maxBodyBytes); err != nil {
		_ = commonhttputil.WriteErrorJSON(w, http.StatusBadRequest, apiErrorInvalidRequest, err.Error())
		return
	}

	var duration *time.Duration
	if req.DurationSeconds != nil {
		d := time.Duration(*req.DurationSeconds) * time.Second
		duration = &d
	}

	granted, err := boosts.Grant(r.Context(), req.PlayerID, req.BoostID, duration)
	if err != nil {
		respondDomainError(w, err, "grant_boost_failed", logger)
		return
	}
	_ = commonhttputil.WriteJSON(w, http.StatusCreated, BoostResponse{
		ID:         granted.ID,
		BoostID:    granted.BoostID,
		ObtainedAt: granted.ObtainedAt,
		ExpiresAt:  granted.ExpiresAt,
		Active:     psvc.IsActive(*granted, time.Now()),
	})
}

func handleExport(w http.ResponseWriter, r *http.Request, exporter *psvc.ProgressExporter, logger *slog.Logger) {
	path, err := exporter.ExportToFile(r.Context(), "")
	if err != nil {
		respondDomainError(w, err, "export_failed", logger)
		return
	}
	_ = commonhttputil.WriteJSON(w, http.StatusOK, ExportResponse{Path: path})
}

func handleExportStream(w http.ResponseWriter, r *http.Request, exporter *psvc.ProgressExporter, logger *slog.Logger) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+psvc.DefaultExportFileName+`"`)

	// 스트리밍 도중 실패는 상태 코드를 바꿀 수 없으므로 로그만 남긴다
	if err := exporter.Export(r.Context(), w); err != nil {
		logger.Error("export_stream_failed", "err", err)
	}
}

func toPlayerResponse(p *repository.Player) PlayerResponse {
	return PlayerResponse{
		ID:           p.ID,
		ExternalID:   p.ExternalID,
		Points:       p.Points,
		FirstLoginAt: p.FirstLoginAt,
		LastLoginAt:  p.LastLoginAt,
	}
}

func toProgressResponse(pl *repository.PlayerLevel) ProgressResponse {
	return ProgressResponse{
		PlayerID:    pl.PlayerID,
		LevelID:     pl.LevelID,
		IsCompleted: pl.IsCompleted,
		Score:       pl.Score,
		CompletedAt: pl.CompletedAt,
	}
}

func pathID(r *http.Request, name string) (uint64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return id, nil
}

func respondDomainError(w http.ResponseWriter, err error, logEvent string, logger *slog.Logger) {
	var (
		validation    perrors.ValidationError
		alreadyExists perrors.PlayerAlreadyExistsError
		notCompleted  perrors.LevelNotCompletedError
		prizeDup      perrors.PrizeAlreadyAssignedError
	)

	switch {
	case errors.As(err, &validation):
		_ = commonhttputil.WriteErrorJSON(w, http.StatusBadRequest, apiErrorInvalidRequest, err.Error())
	case errors.As(err, &alreadyExists):
		_ = commonhttputil.WriteErrorJSON(w, http.StatusConflict, apiErrorAlreadyExists, err.Error())
	case errors.As(err, &notCompleted):
		_ = commonhttputil.WriteErrorJSON(w, http.StatusConflict, apiErrorLevelNotCompleted, err.Error())
	case errors.As(err, &prizeDup):
		_ = commonhttputil.WriteErrorJSON(w, http.StatusConflict, apiErrorPrizeAlreadyAssigned, err.Error())
	case perrors.IsNotFound(err):
		_ = commonhttputil.WriteErrorJSON(w, http.StatusNotFound, apiErrorNotFound, err.Error())
	default:
		logger.Error(logEvent, "err", err)
		_ = commonhttputil.WriteErrorJSON(w, http.StatusInternalServerError, apiErrorInternalError, "internal error")
	}
}

package httpapi

import (
	"log/slog"
	"net/http"

	commonhttputil "github.com/park285/llm-kakao-bots/progression-go/internal/common/httputil"
	"github.com/park285/llm-kakao-bots/progression-go/internal/progression/repository"
)

// registerCatalogRoutes: 레벨/부스트/보상 카탈로그 관리 라우트 등록
func registerCatalogRoutes(mux *http.ServeMux, repo *repository.Repository, logger *slog.Logger) {
	mux.HandleFunc("GET /api/levels", func(w http.ResponseWriter, r *http.Request) {
		levels, err := repo.ListLevels(r.Context())
		if err != nil {
			respondDomainError(w, err, "list_levels_failed", logger)
			return
		}
		resp := make([]LevelResponse, 0, len(levels))
		for _, l := range levels {
			resp = append(resp, LevelResponse{ID: l.ID, Title: l.Title, SortOrder: l.SortOrder})
		}
		_ = commonhttputil.WriteJSON(w, http.StatusOK, resp)
	})

	mux.HandleFunc("POST /api/levels", func(w http.ResponseWriter, r *http.Request) {
		var req CreateLevelRequest
		if err := commonhttputil.ReadJSON(r, &req, maxBodyBytes); err != nil {
			_ = commonhttputil.WriteErrorJSON(w, http.StatusBadRequest, apiErrorInvalidRequest, err.Error())
			return
		}
		level, err := repo.CreateLevel(r.Context(), req.Title, req.Order)
		if err != nil {
			respondDomainError(w, err, "create_level_failed", logger)
			return
		}
		_ = commonhttputil.WriteJSON(w, http.StatusCreated, LevelResponse{
			ID: level.ID, Title: level.Title, SortOrder: level.SortOrder,
		})
	})

	mux.HandleFunc("POST /api/boosts", func(w http.ResponseWriter, r *http.Request) {
		var req CreateBoostRequest
		if err := commonhttputil.ReadJSON(r, &req, maxBodyBytes); err != nil {
			_ = commonhttputil.WriteErrorJSON(w, http.StatusBadRequest, apiErrorInvalidRequest, err.Error())
			return
		}
		boost, err := repo.CreateBoost(r.Context(), req.Name, req.Description, req.Type)
		if err != nil {
			respondDomainError(w, err, "create_boost_failed", logger)
			return
		}
		_ = commonhttputil.WriteJSON(w, http.StatusCreated, map[string]any{
			"id": boost.ID, "name": boost.Name, "type": boost.BoostType,
		})
	})

	mux.HandleFunc("POST /api/prizes", func(w http.ResponseWriter, r *http.Request) {
		var req CreatePrizeRequest
		if err := commonhttputil.ReadJSON(r, &req, maxBodyBytes); err != nil {
			_ = commonhttputil.WriteErrorJSON(w, http.StatusBadRequest, apiErrorInvalidRequest, err.Error())
			return
		}
		prize, err := repo.CreatePrize(r.Context(), req.Title)
		if err != nil {
			respondDomainError(w, err, "create_prize_failed", logger)
			return
		}
		_ = commonhttputil.WriteJSON(w, http.StatusCreated, map[string]any{
			"id": prize.ID, "title": prize.Title,
		})
	})
}

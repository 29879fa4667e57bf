package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	pconfig "github.com/park285/llm-kakao-bots/progression-go/internal/progression/config"
	"github.com/park285/llm-kakao-bots/progression-go/internal/progression/repository"
	psvc "github.com/park285/llm-kakao-bots/progression-go/internal/progression/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	repo := repository.New(db)
	if err := repo.AutoMigrate(context.Background()); err != nil {
		t.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := http.NewServeMux()
	Register(mux, Services{
		Players:  psvc.NewPlayerService(repo, logger),
		Tracker:  psvc.NewProgressTracker(repo, logger),
		Rewards:  psvc.NewRewardService(repo, logger),
		Boosts:   psvc.NewBoostService(repo, nil, logger, pconfig.SweepConfig{}),
		Exporter: psvc.NewProgressExporter(repo, logger, pconfig.ExportConfig{Dir: t.TempDir()}),
		Repo:     repo,
	}, logger)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method string, url string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatal(err)
		}
	}
	return resp.StatusCode
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t)

	t.Run("Health", func(t *testing.T) {
		if code := doJSON(t, http.MethodGet, srv.URL+"/health", nil, nil); code != http.StatusOK {
			t.Fatalf("health status = %d", code)
		}
	})

	var player PlayerResponse
	t.Run("RegisterPlayer", func(t *testing.T) {
		code := doJSON(t, http.MethodPost, srv.URL+"/api/players",
			RegisterPlayerRequest{ExternalID: "kakao:api"}, &player)
		if code != http.StatusCreated {
			t.Fatalf("status = %d", code)
		}
		if player.ID == 0 {
			t.Fatal("expected assigned id")
		}

		code = doJSON(t, http.MethodPost, srv.URL+"/api/players",
			RegisterPlayerRequest{ExternalID: "kakao:api"}, nil)
		if code != http.StatusConflict {
			t.Fatalf("duplicate register status = %d", code)
		}
	})

	t.Run("Login", func(t *testing.T) {
		var login LoginResponse
		code := doJSON(t, http.MethodPost, srv.URL+"/api/players/kakao:api/login", nil, &login)
		if code != http.StatusOK || !login.FirstLogin {
			t.Fatalf("first login: status=%d firstLogin=%v", code, login.FirstLogin)
		}

		code = doJSON(t, http.MethodPost, srv.URL+"/api/players/kakao:api/login", nil, &login)
		if code != http.StatusOK || login.FirstLogin {
			t.Fatalf("second login: status=%d firstLogin=%v", code, login.FirstLogin)
		}

		if code := doJSON(t, http.MethodPost, srv.URL+"/api/players/kakao:ghost/login", nil, nil); code != http.StatusNotFound {
			t.Fatalf("unknown player login status = %d", code)
		}
	})

	var level LevelResponse
	t.Run("CreateLevel", func(t *testing.T) {
		code := doJSON(t, http.MethodPost, srv.URL+"/api/levels",
			CreateLevelRequest{Title: "Forest", Order: 1}, &level)
		if code != http.StatusCreated {
			t.Fatalf("status = %d", code)
		}
	})

	t.Run("PrizeFlow", func(t *testing.T) {
		var prize struct {
			ID uint64 `json:"id"`
		}
		code := doJSON(t, http.MethodPost, srv.URL+"/api/prizes",
			CreatePrizeRequest{Title: "Gold"}, &prize)
		if code != http.StatusCreated {
			t.Fatalf("create prize status = %d", code)
		}

		// 미완료 상태에서 지급 시도: 진행 기록 없음 -> 404
		assign := AssignPrizeRequest{PlayerID: player.ID, LevelID: level.ID, PrizeID: prize.ID}
		if code := doJSON(t, http.MethodPost, srv.URL+"/api/prizes/assign", assign, nil); code != http.StatusNotFound {
			t.Fatalf("assign without progress status = %d", code)
		}

		// 시작만 하고 완료하지 않은 상태 -> 409
		start := StartLevelRequest{PlayerID: player.ID, LevelID: level.ID}
		if code := doJSON(t, http.MethodPost, srv.URL+"/api/progress/start", start, nil); code != http.StatusOK {
			t.Fatalf("start level status = %d", code)
		}
		if code := doJSON(t, http.MethodPost, srv.URL+"/api/prizes/assign", assign, nil); code != http.StatusConflict {
			t.Fatalf("assign before completion status = %d", code)
		}

		complete := CompleteLevelRequest{PlayerID: player.ID, LevelID: level.ID, Score: 42}
		var progress ProgressResponse
		if code := doJSON(t, http.MethodPost, srv.URL+"/api/progress/complete", complete, &progress); code != http.StatusOK {
			t.Fatalf("complete level status = %d", code)
		}
		if !progress.IsCompleted || progress.Score != 42 {
			t.Fatalf("unexpected progress: %+v", progress)
		}

		if code := doJSON(t, http.MethodPost, srv.URL+"/api/prizes/assign", assign, nil); code != http.StatusCreated {
			t.Fatalf("assign after completion status = %d", code)
		}
		if code := doJSON(t, http.MethodPost, srv.URL+"/api/prizes/assign", assign, nil); code != http.StatusConflict {
			t.Fatalf("duplicate assign status = %d", code)
		}
	})

	t.Run("NegativeScoreRejected", func(t *testing.T) {
		complete := CompleteLevelRequest{PlayerID: player.ID, LevelID: level.ID, Score: -1}
		if code := doJSON(t, http.MethodPost, srv.URL+"/api/progress/complete", complete, nil); code != http.StatusBadRequest {
			t.Fatalf("status = %d", code)
		}
	})

	t.Run("GetProgress", func(t *testing.T) {
		url := fmt.Sprintf("%s/api/progress/%d/%d", srv.URL, player.ID, level.ID)
		var progress ProgressResponse
		if code := doJSON(t, http.MethodGet, url, nil, &progress); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if !progress.IsCompleted {
			t.Fatal("level must read as completed")
		}
	})

	t.Run("GrantAndListBoosts", func(t *testing.T) {
		var boost struct {
			ID uint64 `json:"id"`
		}
		code := doJSON(t, http.MethodPost, srv.URL+"/api/boosts",
			CreateBoostRequest{Name: "Shield", Type: "shield"}, &boost)
		if code != http.StatusCreated {
			t.Fatalf("create boost status = %d", code)
		}

		grant := GrantBoostRequest{PlayerID: player.ID, BoostID: boost.ID}
		var granted BoostResponse
		if code := doJSON(t, http.MethodPost, srv.URL+"/api/boosts/grant", grant, &granted); code != http.StatusCreated {
			t.Fatalf("grant status = %d", code)
		}
		if !granted.Active || granted.ExpiresAt != nil {
			t.Fatalf("permanent boost must be active without expiry: %+v", granted)
		}

		var owned []BoostResponse
		if code := doJSON(t, http.MethodGet, srv.URL+"/api/players/kakao:api/boosts?active=true", nil, &owned); code != http.StatusOK {
			t.Fatalf("list status = %d", code)
		}
		if len(owned) != 1 {
			t.Fatalf("owned = %d, want 1", len(owned))
		}
	})

	t.Run("ExportReport", func(t *testing.T) {
		var exported ExportResponse
		if code := doJSON(t, http.MethodPost, srv.URL+"/api/reports/progress", nil, &exported); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if exported.Path == "" {
			t.Fatal("export path must be returned")
		}
	})

	t.Run("ExportStream", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/reports/progress.csv")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
			t.Fatalf("content type = %q", ct)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(strings.TrimSpace(string(body)), "\n")
		if lines[0] != "Player ID,Level Title,Is Completed,Prize" {
			t.Fatalf("header = %q", lines[0])
		}
		if len(lines) != 2 {
			t.Fatalf("rows = %d, want 1 data row", len(lines)-1)
		}
	})
}

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/park285/llm-kakao-bots/progression-go/internal/common/ptr"
	perrors "github.com/park285/llm-kakao-bots/progression-go/internal/progression/errors"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	// TranslateError: 유니크 제약 위반을 gorm.ErrDuplicatedKey로 변환 (postgres와 동일 동작)
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

	repo := New(db)
	if err := repo.AutoMigrate(context.Background()); err != nil {
		t.Fatal(err)
	}
	return repo
}

func TestPlayers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		created, err := repo.CreatePlayer(ctx, "kakao:1001")
		if err != nil {
			t.Fatal(err)
		}
		if created.ID == 0 {
			t.Fatal("expected assigned id")
		}
		if created.HasLoggedIn() {
			t.Fatal("new player must not have a login timestamp")
		}

		got, err := repo.GetPlayerByExternalID(ctx, "kakao:1001")
		if err != nil {
			t.Fatal(err)
		}
		if got.ID != created.ID {
			t.Fatalf("id mismatch: %d != %d", got.ID, created.ID)
		}
	})

	t.Run("DuplicateExternalID", func(t *testing.T) {
		_, err := repo.CreatePlayer(ctx, "kakao:1001")
		var dup perrors.PlayerAlreadyExistsError
		if !errors.As(err, &dup) {
			t.Fatalf("expected PlayerAlreadyExistsError, got %v", err)
		}
	})

	t.Run("EmptyExternalID", func(t *testing.T) {
		_, err := repo.CreatePlayer(ctx, "   ")
		var verr perrors.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("FirstLoginSetOnce", func(t *testing.T) {
		player, err := repo.CreatePlayer(ctx, "kakao:login")
		if err != nil {
			t.Fatal(err)
		}

		first := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
		isFirst, err := repo.RecordLogin(ctx, player.ID, first)
		if err != nil {
			t.Fatal(err)
		}
		if !isFirst {
			t.Fatal("first login must report firstLogin=true")
		}

		second := first.Add(48 * time.Hour)
		isFirst, err = repo.RecordLogin(ctx, player.ID, second)
		if err != nil {
			t.Fatal(err)
		}
		if isFirst {
			t.Fatal("second login must report firstLogin=false")
		}

		got, err := repo.GetPlayer(ctx, player.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.FirstLoginAt == nil || !got.FirstLoginAt.Equal(first) {
			t.Fatalf("first_login_at must stay at the first login: %v", got.FirstLoginAt)
		}
		if got.LastLoginAt == nil || !got.LastLoginAt.Equal(second) {
			t.Fatalf("last_login_at must follow the latest login: %v", got.LastLoginAt)
		}
	})

	t.Run("LoginUnknownPlayer", func(t *testing.T) {
		_, err := repo.RecordLogin(ctx, 99999, time.Now())
		var notFound perrors.PlayerNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected PlayerNotFoundError, got %v", err)
		}
	})

	t.Run("AddPoints", func(t *testing.T) {
		player, err := repo.CreatePlayer(ctx, "kakao:points")
		if err != nil {
			t.Fatal(err)
		}
		if err := repo.AddPoints(ctx, player.ID, 30); err != nil {
			t.Fatal(err)
		}
		if err := repo.AddPoints(ctx, player.ID, 12); err != nil {
			t.Fatal(err)
		}

		got, err := repo.GetPlayer(ctx, player.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Points != 42 {
			t.Fatalf("points = %d, want 42", got.Points)
		}

		err = repo.AddPoints(ctx, player.ID, -1)
		var verr perrors.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError for negative delta, got %v", err)
		}
	})

	t.Run("DeletePlayerCascades", func(t *testing.T) {
		player, err := repo.CreatePlayer(ctx, "kakao:delete")
		if err != nil {
			t.Fatal(err)
		}
		level, err := repo.CreateLevel(ctx, "Cave", 1)
		if err != nil {
			t.Fatal(err)
		}
		boost, err := repo.CreateBoost(ctx, "Shield", "", "defense")
		if err != nil {
			t.Fatal(err)
		}
		prize, err := repo.CreatePrize(ctx, "Medal")
		if err != nil {
			t.Fatal(err)
		}

		now := time.Now()
		if _, err := repo.UpsertCompletion(ctx, CompletionParams{
			PlayerID: player.ID, LevelID: level.ID, Score: 10, CompletedAt: now,
		}); err != nil {
			t.Fatal(err)
		}
		if _, err := repo.GrantBoost(ctx, player.ID, boost.ID, now, nil); err != nil {
			t.Fatal(err)
		}
		if _, err := repo.AssignPrize(ctx, player.ID, level.ID, prize.ID, now); err != nil {
			t.Fatal(err)
		}

		if err := repo.DeletePlayer(ctx, player.ID); err != nil {
			t.Fatal(err)
		}

		if _, err := repo.GetPlayer(ctx, player.ID); !perrors.IsNotFound(err) {
			t.Fatalf("expected not found after delete, got %v", err)
		}
		boosts, err := repo.ListPlayerBoosts(ctx, player.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(boosts) != 0 {
			t.Fatalf("boosts must be deleted with the player, got %d", len(boosts))
		}
		prizes, err := repo.ListPlayerPrizes(ctx, player.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(prizes) != 0 {
			t.Fatalf("prizes must be deleted with the player, got %d", len(prizes))
		}
	})
}

func TestProgress(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	player, err := repo.CreatePlayer(ctx, "kakao:progress")
	if err != nil {
		t.Fatal(err)
	}
	level, err := repo.CreateLevel(ctx, "Forest", 1)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("AbsentRowIsNotCompleted", func(t *testing.T) {
		done, err := repo.IsCompleted(ctx, player.ID, level.ID)
		if err != nil {
			t.Fatal(err)
		}
		if done {
			t.Fatal("missing progress row must read as not completed")
		}
	})

	t.Run("UpsertCreatesThenUpdates", func(t *testing.T) {
		first := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		pl, err := repo.UpsertCompletion(ctx, CompletionParams{
			PlayerID: player.ID, LevelID: level.ID, Score: 50, CompletedAt: first,
		})
		if err != nil {
			t.Fatal(err)
		}
		if !pl.IsCompleted || pl.Score != 50 {
			t.Fatalf("unexpected row: %+v", pl)
		}

		second := first.Add(24 * time.Hour)
		pl, err = repo.UpsertCompletion(ctx, CompletionParams{
			PlayerID: player.ID, LevelID: level.ID, Score: 80, CompletedAt: second,
		})
		if err != nil {
			t.Fatal(err)
		}
		if pl.Score != 80 {
			t.Fatalf("score must be overwritten, got %d", pl.Score)
		}

		rows, err := repo.ListPlayerLevels(ctx, player.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 1 {
			t.Fatalf("re-completion must not create a second row, got %d", len(rows))
		}
	})

	t.Run("StartLevelKeepsCompletion", func(t *testing.T) {
		// 완료된 레벨을 다시 시작해도 완료 기록이 미완료로 되돌아가지 않는다.
		pl, err := repo.StartLevel(ctx, player.ID, level.ID)
		if err != nil {
			t.Fatal(err)
		}
		if !pl.IsCompleted || pl.Score != 80 {
			t.Fatalf("start must not reset completion: %+v", pl)
		}
	})

	t.Run("UnknownPlayerOrLevel", func(t *testing.T) {
		_, err := repo.UpsertCompletion(ctx, CompletionParams{
			PlayerID: 99999, LevelID: level.ID, CompletedAt: time.Now(),
		})
		var pnf perrors.PlayerNotFoundError
		if !errors.As(err, &pnf) {
			t.Fatalf("expected PlayerNotFoundError, got %v", err)
		}

		_, err = repo.UpsertCompletion(ctx, CompletionParams{
			PlayerID: player.ID, LevelID: 99999, CompletedAt: time.Now(),
		})
		var lnf perrors.LevelNotFoundError
		if !errors.As(err, &lnf) {
			t.Fatalf("expected LevelNotFoundError, got %v", err)
		}
	})
}

func TestAssignPrize(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now()

	player, err := repo.CreatePlayer(ctx, "kakao:reward")
	if err != nil {
		t.Fatal(err)
	}
	done, err := repo.CreateLevel(ctx, "Done", 1)
	if err != nil {
		t.Fatal(err)
	}
	pending, err := repo.CreateLevel(ctx, "Pending", 2)
	if err != nil {
		t.Fatal(err)
	}
	gold, err := repo.CreatePrize(ctx, "Gold")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := repo.UpsertCompletion(ctx, CompletionParams{
		PlayerID: player.ID, LevelID: done.ID, Score: 1, CompletedAt: now,
	}); err != nil {
		t.Fatal(err)
	}

	t.Run("NoProgressRow", func(t *testing.T) {
		_, err := repo.AssignPrize(ctx, player.ID, 99999, gold.ID, now)
		var notFound perrors.PlayerProgressNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected PlayerProgressNotFoundError, got %v", err)
		}
	})

	t.Run("NotCompleted", func(t *testing.T) {
		// 진행 기록은 있으나 미완료인 상태를 만든다.
		if _, err := repo.StartLevel(ctx, player.ID, pending.ID); err != nil {
			t.Fatal(err)
		}

		_, err := repo.AssignPrize(ctx, player.ID, pending.ID, gold.ID, now)
		var notCompleted perrors.LevelNotCompletedError
		if !errors.As(err, &notCompleted) {
			t.Fatalf("expected LevelNotCompletedError, got %v", err)
		}
	})

	t.Run("UnknownPrize", func(t *testing.T) {
		_, err := repo.AssignPrize(ctx, player.ID, done.ID, 99999, now)
		var notFound perrors.PrizeNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected PrizeNotFoundError, got %v", err)
		}
	})

	t.Run("AssignThenDuplicate", func(t *testing.T) {
		assigned, err := repo.AssignPrize(ctx, player.ID, done.ID, gold.ID, now)
		if err != nil {
			t.Fatal(err)
		}
		if assigned.PrizeID != gold.ID {
			t.Fatalf("prize id mismatch: %d", assigned.PrizeID)
		}

		_, err = repo.AssignPrize(ctx, player.ID, done.ID, gold.ID, now)
		var dup perrors.PrizeAlreadyAssignedError
		if !errors.As(err, &dup) {
			t.Fatalf("expected PrizeAlreadyAssignedError, got %v", err)
		}

		prizes, err := repo.ListPlayerPrizes(ctx, player.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(prizes) != 1 {
			t.Fatalf("duplicate assignment must not add rows, got %d", len(prizes))
		}
	})
}

func TestBoosts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	player, err := repo.CreatePlayer(ctx, "kakao:boost")
	if err != nil {
		t.Fatal(err)
	}
	boost, err := repo.CreateBoost(ctx, "Double XP", "경험치 2배", "xp")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("GrantTimedAndPermanent", func(t *testing.T) {
		timed, err := repo.GrantBoost(ctx, player.ID, boost.ID, now, ptr.Time(now.Add(time.Hour)))
		if err != nil {
			t.Fatal(err)
		}
		if timed.ExpiresAt == nil {
			t.Fatal("timed boost must carry an expiry")
		}

		permanent, err := repo.GrantBoost(ctx, player.ID, boost.ID, now, nil)
		if err != nil {
			t.Fatal(err)
		}
		if permanent.ExpiresAt != nil {
			t.Fatal("permanent boost must have NULL expiry")
		}
	})

	t.Run("GrantUnknownBoost", func(t *testing.T) {
		_, err := repo.GrantBoost(ctx, player.ID, 99999, now, nil)
		var notFound perrors.BoostNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected BoostNotFoundError, got %v", err)
		}
	})

	t.Run("PurgeKeepsPermanent", func(t *testing.T) {
		purged, err := repo.PurgeExpiredBoosts(ctx, now.Add(2*time.Hour))
		if err != nil {
			t.Fatal(err)
		}
		if purged != 1 {
			t.Fatalf("purged = %d, want 1", purged)
		}

		remaining, err := repo.ListPlayerBoosts(ctx, player.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(remaining) != 1 || remaining[0].ExpiresAt != nil {
			t.Fatalf("only the permanent boost must remain: %+v", remaining)
		}
	})
}

func TestStreamProgressReport(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now()

	player, err := repo.CreatePlayer(ctx, "kakao:report")
	if err != nil {
		t.Fatal(err)
	}
	level, err := repo.CreateLevel(ctx, "Summit", 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := repo.UpsertCompletion(ctx, CompletionParams{
		PlayerID: player.ID, LevelID: level.ID, Score: 7, CompletedAt: now,
	}); err != nil {
		t.Fatal(err)
	}
	gold, err := repo.CreatePrize(ctx, "Gold")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := repo.AssignPrize(ctx, player.ID, level.ID, gold.ID, now); err != nil {
		t.Fatal(err)
	}

	var rows []ProgressReportRow
	if err := repo.StreamProgressReport(ctx, func(row ProgressReportRow) error {
		rows = append(rows, row)
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.PlayerExternalID != "kakao:report" || row.LevelTitle != "Summit" || !row.IsCompleted {
		t.Fatalf("unexpected row: %+v", row)
	}
	if len(row.PrizeTitles) != 1 || row.PrizeTitles[0] != "Gold" {
		t.Fatalf("unexpected prize titles: %v", row.PrizeTitles)
	}
}

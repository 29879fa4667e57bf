package service

import (
	"context"
	"errors"
	"testing"
	"time"

	perrors "github.com/park285/llm-kakao-bots/progression-go/internal/progression/errors"
)

func TestRewardService(t *testing.T) {
	repo := newTestRepo(t)
	tracker := NewProgressTracker(repo, testLogger())
	rewards := NewRewardService(repo, testLogger())
	ctx := context.Background()

	player, err := repo.CreatePlayer(ctx, "kakao:reward-svc")
	if err != nil {
		t.Fatal(err)
	}
	level, err := repo.CreateLevel(ctx, "Peak", 1)
	if err != nil {
		t.Fatal(err)
	}
	prize, err := repo.CreatePrize(ctx, "Crown")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("NoProgress", func(t *testing.T) {
		_, err := rewards.AssignPrize(ctx, player.ID, level.ID, prize.ID)
		var notFound perrors.PlayerProgressNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected PlayerProgressNotFoundError, got %v", err)
		}
	})

	t.Run("AssignAfterCompletion", func(t *testing.T) {
		if _, err := tracker.RecordCompletion(ctx, player.ID, level.ID, 100, time.Now()); err != nil {
			t.Fatal(err)
		}

		assigned, err := rewards.AssignPrize(ctx, player.ID, level.ID, prize.ID)
		if err != nil {
			t.Fatal(err)
		}
		if assigned.PlayerID != player.ID || assigned.LevelID != level.ID || assigned.PrizeID != prize.ID {
			t.Fatalf("unexpected assignment: %+v", assigned)
		}
		if assigned.ReceivedAt.Hour() != 0 || assigned.ReceivedAt.Minute() != 0 {
			t.Fatalf("received_at must be a date: %v", assigned.ReceivedAt)
		}
	})

	t.Run("SecondAssignmentRejected", func(t *testing.T) {
		_, err := rewards.AssignPrize(ctx, player.ID, level.ID, prize.ID)
		var dup perrors.PrizeAlreadyAssignedError
		if !errors.As(err, &dup) {
			t.Fatalf("expected PrizeAlreadyAssignedError, got %v", err)
		}

		prizes, err := rewards.PlayerPrizes(ctx, player.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(prizes) != 1 {
			t.Fatalf("prizes = %d, want 1", len(prizes))
		}
	})
}

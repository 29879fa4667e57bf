package service

import (
	"context"
	"errors"
	"testing"

	perrors "github.com/park285/llm-kakao-bots/progression-go/internal/progression/errors"
)

func TestPlayerService(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewPlayerService(repo, testLogger())
	ctx := context.Background()

	t.Run("RegisterAndGet", func(t *testing.T) {
		player, err := svc.Register(ctx, "kakao:2001")
		if err != nil {
			t.Fatal(err)
		}

		got, err := svc.Get(ctx, "kakao:2001")
		if err != nil {
			t.Fatal(err)
		}
		if got.ID != player.ID {
			t.Fatalf("id mismatch: %d != %d", got.ID, player.ID)
		}
	})

	t.Run("DuplicateRegister", func(t *testing.T) {
		_, err := svc.Register(ctx, "kakao:2001")
		var dup perrors.PlayerAlreadyExistsError
		if !errors.As(err, &dup) {
			t.Fatalf("expected PlayerAlreadyExistsError, got %v", err)
		}
	})

	t.Run("FirstLoginThenSecond", func(t *testing.T) {
		result, err := svc.RecordLogin(ctx, "kakao:2001")
		if err != nil {
			t.Fatal(err)
		}
		if !result.FirstLogin {
			t.Fatal("first login must report FirstLogin=true")
		}

		result, err = svc.RecordLogin(ctx, "kakao:2001")
		if err != nil {
			t.Fatal(err)
		}
		if result.FirstLogin {
			t.Fatal("second login must report FirstLogin=false")
		}

		player, err := svc.Get(ctx, "kakao:2001")
		if err != nil {
			t.Fatal(err)
		}
		if player.FirstLoginAt == nil || player.LastLoginAt == nil {
			t.Fatal("login timestamps must be set")
		}
		if player.LastLoginAt.Before(*player.FirstLoginAt) {
			t.Fatal("last login must not precede first login")
		}
	})

	t.Run("LoginUnknownPlayer", func(t *testing.T) {
		_, err := svc.RecordLogin(ctx, "kakao:ghost")
		if !perrors.IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("AddPoints", func(t *testing.T) {
		player, err := svc.Get(ctx, "kakao:2001")
		if err != nil {
			t.Fatal(err)
		}
		if err := svc.AddPoints(ctx, player.ID, 5); err != nil {
			t.Fatal(err)
		}

		got, err := svc.Get(ctx, "kakao:2001")
		if err != nil {
			t.Fatal(err)
		}
		if got.Points != 5 {
			t.Fatalf("points = %d, want 5", got.Points)
		}
	})
}

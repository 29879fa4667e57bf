package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"reflect"
	"testing"
	"time"

	pconfig "github.com/park285/llm-kakao-bots/progression-go/internal/progression/config"
)

func TestProgressExporter(t *testing.T) {
	repo := newTestRepo(t)
	tracker := NewProgressTracker(repo, testLogger())
	rewards := NewRewardService(repo, testLogger())
	exporter := NewProgressExporter(repo, testLogger(), pconfig.ExportConfig{Dir: t.TempDir()})
	ctx := context.Background()

	alice, err := repo.CreatePlayer(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	bob, err := repo.CreatePlayer(ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	level, err := repo.CreateLevel(ctx, "Forest", 1)
	if err != nil {
		t.Fatal(err)
	}
	gold, err := repo.CreatePrize(ctx, "Gold")
	if err != nil {
		t.Fatal(err)
	}
	silver, err := repo.CreatePrize(ctx, "Silver")
	if err != nil {
		t.Fatal(err)
	}

	// alice는 Forest를 완료하고 보상을 받았다. bob은 미완료 기록만 있다.
	if _, err := tracker.RecordCompletion(ctx, alice.ID, level.ID, 10, time.Now()); err != nil {
		t.Fatal(err)
	}
	if _, err := rewards.AssignPrize(ctx, alice.ID, level.ID, gold.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := tracker.StartLevel(ctx, bob.ID, level.ID); err != nil {
		t.Fatal(err)
	}

	t.Run("RowsAndPrizeColumn", func(t *testing.T) {
		var buf bytes.Buffer
		if err := exporter.Export(ctx, &buf); err != nil {
			t.Fatal(err)
		}

		records, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			t.Fatal(err)
		}
		want := [][]string{
			{"Player ID", "Level Title", "Is Completed", "Prize"},
			{"alice", "Forest", "Yes", "Gold"},
			{"bob", "Forest", "No", ""},
		}
		if !reflect.DeepEqual(records, want) {
			t.Fatalf("csv mismatch:\ngot  %v\nwant %v", records, want)
		}
	})

	t.Run("PrizesJoinPerPlayer", func(t *testing.T) {
		// bob이 같은 레벨을 완료하고 Silver를 받아도 alice의 행에는 Gold만 남아야 한다.
		if _, err := tracker.RecordCompletion(ctx, bob.ID, level.ID, 5, time.Now()); err != nil {
			t.Fatal(err)
		}
		if _, err := rewards.AssignPrize(ctx, bob.ID, level.ID, silver.ID); err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		if err := exporter.Export(ctx, &buf); err != nil {
			t.Fatal(err)
		}

		records, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			t.Fatal(err)
		}
		want := [][]string{
			{"Player ID", "Level Title", "Is Completed", "Prize"},
			{"alice", "Forest", "Yes", "Gold"},
			{"bob", "Forest", "Yes", "Silver"},
		}
		if !reflect.DeepEqual(records, want) {
			t.Fatalf("csv mismatch:\ngot  %v\nwant %v", records, want)
		}
	})

	t.Run("MultiPrizeRowJoinedInOrder", func(t *testing.T) {
		// alice가 같은 완료로 Silver까지 받으면 지급 순서대로 ", "로 이어진다.
		if _, err := rewards.AssignPrize(ctx, alice.ID, level.ID, silver.ID); err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		if err := exporter.Export(ctx, &buf); err != nil {
			t.Fatal(err)
		}

		records, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			t.Fatal(err)
		}
		want := [][]string{
			{"Player ID", "Level Title", "Is Completed", "Prize"},
			{"alice", "Forest", "Yes", "Gold, Silver"},
			{"bob", "Forest", "Yes", "Silver"},
		}
		if !reflect.DeepEqual(records, want) {
			t.Fatalf("csv mismatch:\ngot  %v\nwant %v", records, want)
		}
	})

	t.Run("ExportToFile", func(t *testing.T) {
		path, err := exporter.ExportToFile(ctx, "")
		if err != nil {
			t.Fatal(err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(data) == 0 {
			t.Fatal("export file must not be empty")
		}

		entries, err := os.ReadDir(exporter.dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Fatalf("temp files must not remain, dir entries = %d", len(entries))
		}
	})
}

package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	pconfig "github.com/park285/llm-kakao-bots/progression-go/internal/progression/config"
	"github.com/park285/llm-kakao-bots/progression-go/internal/progression/repository"
)

// DefaultExportFileName 는 기본 리포트 파일 이름이다.
const DefaultExportFileName = "player_level_data.csv"

var exportHeader = []string{"Player ID", "Level Title", "Is Completed", "Prize"}

// ProgressExporter: 전체 진행 현황을 CSV 리포트로 내보낸다.
type ProgressExporter struct {
	repo   *repository.Repository
	logger *slog.Logger
	dir    string
}

// NewProgressExporter: 새로운 ProgressExporter 인스턴스를 생성합니다.
func NewProgressExporter(repo *repository.Repository, logger *slog.Logger, cfg pconfig.ExportConfig) *ProgressExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressExporter{repo: repo, logger: logger, dir: cfg.Dir}
}

// Export: 진행 현황 리포트를 CSV로 기록합니다.
// 행 순서는 진행 기록 생성 순서이고, 한 행의 보상 목록은 해당 플레이어가
// 해당 레벨에서 받은 보상만 지급 순서대로 ", "로 이어 붙입니다.
// 전체 데이터를 메모리에 올리지 않고 배치 단위로 스트리밍합니다.
func (e *ProgressExporter) Export(ctx context.Context, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header failed: %w", err)
	}

	err := e.repo.StreamProgressReport(ctx, func(row repository.ProgressReportRow) error {
		completed := "No"
		if row.IsCompleted {
			completed = "Yes"
		}
		return cw.Write([]string{
			row.PlayerExternalID,
			row.LevelTitle,
			completed,
			strings.Join(row.PrizeTitles, ", "),
		})
	})
	if err != nil {
		return err
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv failed: %w", err)
	}
	return nil
}

// ExportToFile: 리포트를 파일로 내보내고 최종 경로를 반환합니다.
// 임시 파일에 쓴 뒤 rename하므로 실패 시 반쯤 쓰인 파일이 남지 않습니다.
func (e *ProgressExporter) ExportToFile(ctx context.Context, fileName string) (string, error) {
	if fileName == "" {
		fileName = DefaultExportFileName
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir failed: %w", err)
	}

	finalPath := filepath.Join(e.dir, fileName)
	tmp, err := os.CreateTemp(e.dir, fileName+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp export file failed: %w", err)
	}
	tmpPath := tmp.Name()

	if err := e.Export(ctx, tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("close temp export file failed: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename export file failed: %w", err)
	}

	e.logger.Info("progress_exported", "path", finalPath)
	return finalPath, nil
}

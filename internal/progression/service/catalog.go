package service

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/park285/llm-kakao-bots/progression-go/internal/progression/repository"
)

// seedCatalog: 시드 카탈로그 YAML 스키마
type seedCatalog struct {
	Levels []struct {
		Title string `yaml:"title"`
		Order int    `yaml:"order"`
	} `yaml:"levels"`
	Boosts []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Type        string `yaml:"type"`
	} `yaml:"boosts"`
	Prizes []struct {
		Title string `yaml:"title"`
	} `yaml:"prizes"`
}

// ApplySeedCatalog: YAML 시드 카탈로그를 DB에 적용한다. 이미 존재하는 항목은
// 건드리지 않으므로 재기동 시 반복 호출해도 안전하다.
func ApplySeedCatalog(ctx context.Context, repo *repository.Repository, yamlContent string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	var catalog seedCatalog
	if err := yaml.Unmarshal([]byte(yamlContent), &catalog); err != nil {
		return fmt.Errorf("unmarshal seed catalog failed: %w", err)
	}

	for _, l := range catalog.Levels {
		if _, err := repo.EnsureLevel(ctx, l.Title, l.Order); err != nil {
			return fmt.Errorf("seed level %q failed: %w", l.Title, err)
		}
	}
	for _, b := range catalog.Boosts {
		if _, err := repo.EnsureBoost(ctx, b.Name, b.Description, b.Type); err != nil {
			return fmt.Errorf("seed boost %q failed: %w", b.Name, err)
		}
	}
	for _, p := range catalog.Prizes {
		if _, err := repo.EnsurePrize(ctx, p.Title); err != nil {
			return fmt.Errorf("seed prize %q failed: %w", p.Title, err)
		}
	}

	logger.Info("seed_catalog_applied",
		"levels", len(catalog.Levels), "boosts", len(catalog.Boosts), "prizes", len(catalog.Prizes))
	return nil
}

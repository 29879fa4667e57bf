//go:build wireinject

package app

import (
	"context"
	"log/slog"

	"github.com/google/wire"

	"github.com/park285/llm-kakao-bots/progression-go/internal/common/bootstrap"
	pconfig "github.com/park285/llm-kakao-bots/progression-go/internal/progression/config"
)

//go:generate go run github.com/google/wire/cmd/wire@v0.7.0
func Initialize(
	ctx context.Context,
	cfg *pconfig.Config,
	logger *slog.Logger,
) (*bootstrap.ServerApp, func(), error) {
	wire.Build(
		progressionProviderSet,
	)
	return nil, nil, nil
}

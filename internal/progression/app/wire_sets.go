//go:build wireinject

package app

import "github.com/google/wire"

var progressionProviderSet = wire.NewSet(
	newProgressionTelemetry,
	newProgressionDB,
	newProgressionRepository,
	newProgressionValkey,
	newProgressionSweepLock,
	newProgressionServices,
	newProgressionHTTPMux,
	newProgressionHTTPServer,
	newProgressionServerApp,
)

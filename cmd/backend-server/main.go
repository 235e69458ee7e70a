package main

import (
	"context"

	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/wicaksana/paket-portal/internal/backend"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, m *app.Telemetry) error {
		cfg, err := backend.LoadConfig()
		if err != nil {
			return err
		}
		return backend.Run(ctx, lg, m, cfg)
	})
}

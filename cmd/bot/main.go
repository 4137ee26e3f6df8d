package main

import (
	"context"
	"log"

	"breakout_bot/internal/modules/bootstrap"
	"breakout_bot/internal/modules/bybit_client"
	"breakout_bot/internal/modules/bybit_ws"
	configmod "breakout_bot/internal/modules/config"
	"breakout_bot/internal/modules/health"
	"breakout_bot/internal/modules/postgres"
	telegram "breakout_bot/internal/modules/telegram_bot"
	"breakout_bot/internal/runner"
	"breakout_bot/pkg/logger"
	"breakout_bot/pkg/tracing"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

func main() {
	// .env необязателен: в контейнере всё приходит через окружение
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		configmod.Module(),
		fx.Invoke(func(lc fx.Lifecycle, cfg *configmod.Config) error {
			if cfg.Jaeger.Host == "" {
				return nil
			}
			_, closeTracer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Jaeger.Host,
				Port: cfg.Jaeger.Port,
			})
			if err != nil {
				return err
			}
			lc.Append(fx.Hook{OnStop: func(context.Context) error {
				closeTracer()
				return nil
			}})
			return nil
		}),
		postgres.Module(),
		bybit_client.Module(),
		bootstrap.Module(),
		health.Module(),
		telegram.Module(),
		bybit_ws.Module(),
		runner.Module(),
	)
	app.Run()
}

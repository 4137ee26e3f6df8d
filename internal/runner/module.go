package runner

import (
	"context"

	"breakout_bot/internal/levels"
	bootstrap "breakout_bot/internal/modules/bootstrap/service"
	bybit "breakout_bot/internal/modules/bybit_client/service"
	"breakout_bot/internal/modules/config"
	"breakout_bot/internal/storage/klines"
	"breakout_bot/internal/storage/settings"
	"breakout_bot/pkg/logger"

	"go.uber.org/fx"
)

// Module собирает торговый движок и запускает его отдельной горутиной.
func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			func(buf *klines.Buffer) CandleBuffer { return buf },
			func(st *settings.Store) SettingsSource { return st },
			func(c *bootstrap.Catalog) Catalog { return c },
			func(c *bybit.Client) levels.KlineFetcher { return c },
			func(cfg *config.Config, f levels.KlineFetcher) *levels.Calculator {
				return levels.New(f, cfg.LevelRetryCooldown)
			},
			func(c *bybit.Client, catalog *bootstrap.Catalog) *Executor {
				return NewExecutor(c, catalog)
			},
			NewEngine,
		),
		fx.Invoke(func(lc fx.Lifecycle, ctx context.Context, e *Engine) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go func() {
						if err := e.Run(ctx); err != nil && ctx.Err() == nil {
							logger.Fatal("[ENGINE] остановлен: %v", err)
						}
					}()
					return nil
				},
			})
		}),
	)
}

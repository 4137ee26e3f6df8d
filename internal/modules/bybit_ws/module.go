package bybit_ws

import (
	"context"
	"errors"
	"time"

	"breakout_bot/internal/models"
	bootstrap "breakout_bot/internal/modules/bootstrap/service"
	"breakout_bot/internal/modules/bybit_ws/service"
	"breakout_bot/internal/modules/config"
	"breakout_bot/internal/storage/klines"
	"breakout_bot/internal/storage/settings"
	"breakout_bot/pkg/logger"

	"go.uber.org/fx"
)

// Module поднимает стример свечей Bybit. Старт отложенный: ждём, пока
// пользователь заведёт размер свечи через бота, затем берём каталог
// инструментов и раскатываем топики по шардам.
func Module() fx.Option {
	return fx.Module("bybit_ws",
		fx.Provide(
			func(buf *klines.Buffer) service.Sink { return buf },
			service.NewClient,
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			ctx context.Context,
			cfg *config.Config,
			c *service.Client,
			st *settings.Store,
			catalog *bootstrap.Catalog,
		) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go func() {
						interval, err := waitInterval(ctx, cfg, st)
						if err != nil {
							if !errors.Is(err, context.Canceled) {
								logger.Error("[WS] ожидание настроек: %v", err)
							}
							return
						}
						if err := catalog.Load(ctx); err != nil {
							logger.Error("[WS] каталог инструментов: %v", err)
							return
						}
						c.Start(ctx, interval, catalog.Symbols())
					}()
					return nil
				},
			})
		}),
	)
}

// waitInterval опрашивает settings_vars, пока не появится размер свечи.
func waitInterval(ctx context.Context, cfg *config.Config, st *settings.Store) (string, error) {
	t := time.NewTicker(cfg.SettingsPollWait)
	defer t.Stop()

	for {
		vars, err := st.SelectAll(ctx)
		if err != nil {
			logger.Error("[WS] settings select: %v", err)
		} else if interval := vars[models.SettingKline]; interval != "" {
			return interval, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	}
}

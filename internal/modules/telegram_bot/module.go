package telegram_bot

import (
	"context"

	"breakout_bot/internal/modules/config"
	health "breakout_bot/internal/modules/health/service"
	"breakout_bot/internal/modules/telegram_bot/service"
	"breakout_bot/internal/notify"
	"breakout_bot/internal/storage/settings"
	"breakout_bot/pkg/logger"

	"go.uber.org/fx"
)

// Module поднимает телеграм-бота. Без токена бот не стартует, а нотификации
// движка уходят в лог: так можно гонять стратегию локально без телеграма.
func Module() fx.Option {
	return fx.Module("telegram_bot",
		fx.Provide(
			func(cfg *config.Config, store *settings.Store, state *health.State) (*service.Telegram, notify.Notifier, error) {
				if cfg.Telegram.Token == "" {
					logger.Info("[TG] токен не задан, бот выключен")
					return nil, notify.NewStdout(), nil
				}
				t, err := service.NewTelegram(cfg, store, state)
				if err != nil {
					return nil, nil, err
				}
				return t, t, nil
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, ctx context.Context, t *service.Telegram, st *settings.Store) {
			lc.Append(fx.Hook{
				OnStart: func(startCtx context.Context) error {
					if err := st.CreateTable(startCtx); err != nil {
						return err
					}
					if t == nil {
						return nil
					}
					go func() {
						if err := t.Start(ctx); err != nil {
							logger.Error("[TG] остановлен: %v", err)
						}
					}()
					return nil
				},
				OnStop: func(context.Context) error {
					if t != nil {
						t.Stop()
					}
					return nil
				},
			})
		}),
	)
}

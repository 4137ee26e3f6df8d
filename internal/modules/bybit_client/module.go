package bybit_client

import (
	"breakout_bot/internal/modules/bybit_client/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("bybit_client",
		fx.Provide(
			service.NewClient,
		),
	)
}

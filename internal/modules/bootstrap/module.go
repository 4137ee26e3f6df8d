package bootstrap

import (
	"breakout_bot/internal/modules/bootstrap/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("bootstrap",
		fx.Provide(
			service.NewCatalog,
		),
	)
}

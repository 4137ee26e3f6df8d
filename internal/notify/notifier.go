package notify

import (
	"context"

	"breakout_bot/pkg/logger"
)

// Notifier — куда движок шлёт человеко-читаемые события:
// сигналы, guarded-отказы, результаты ордеров.
type Notifier interface {
	Send(ctx context.Context, format string, args ...any)
}

// Stdout — запасной нотифайер, когда телеграм не настроен.
type Stdout struct{}

func NewStdout() *Stdout { return &Stdout{} }

func (s *Stdout) Send(_ context.Context, format string, args ...any) {
	logger.Info(format, args...)
}

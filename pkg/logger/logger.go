package logger

import (
	"fmt"
	"log"

	"go.uber.org/zap"
)

var base *zap.Logger

var (
	serviceName = "breakout_bot"
)

func SetServiceName(newName string) string {
	oldName := serviceName
	serviceName = newName

	return oldName
}

// Init собирает продовый zap-логгер. Вызывается один раз из main.
func Init() error {
	l, err := zap.NewProduction(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	base = l
	return nil
}

func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}

func Info(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if base == nil {
		log.Println(msg)
		return
	}
	base.With(
		zap.String("service", serviceName),
	).Info(msg)
}

func Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if base == nil {
		log.Println(msg)
		return
	}
	base.With(
		zap.String("service", serviceName),
	).Error(msg)
}

func Fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if base == nil {
		log.Fatal(msg)
		return
	}
	base.With(
		zap.String("service", serviceName),
	).Fatal(msg)
}

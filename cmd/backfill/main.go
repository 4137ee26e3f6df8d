package main

import (
	"context"
	"fmt"
	"os"
	"time"

	bybit "breakout_bot/internal/modules/bybit_client/service"
	configmod "breakout_bot/internal/modules/config"
	"breakout_bot/internal/storage/klines"
	"breakout_bot/pkg/db"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// backfill наливает в future_klines историю с биржи: удобно прогнать
// стратегию по свежей базе, не дожидаясь живого стрима.
//
// Конфиг .backfill.yaml в рабочей директории:
//
//	dsn: postgres://...
//	interval: "60"
//	limit: 200
//	symbols: [BTCUSDT, ETHUSDT]
func main() {
	viper.SetConfigName(".backfill")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		panic(errors.Wrap(err, "read config"))
	}

	dsn := viper.GetString("dsn")
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		dsn = v
	}
	if dsn == "" {
		panic("dsn is required")
	}

	interval := viper.GetString("interval")
	if interval == "" {
		interval = "60"
	}
	limit := viper.GetInt("limit")
	if limit <= 0 {
		limit = 200
	}
	symbols := viper.GetStringSlice("symbols")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := db.NewPool(ctx, db.PoolConfig{DSN: dsn})
	if err != nil {
		panic(errors.Wrap(err, "connect postgres"))
	}
	defer pool.Close()

	buffer := klines.New(db.NewPgTxManager(pool))
	if err := buffer.CreateTable(ctx); err != nil {
		panic(errors.Wrap(err, "create table"))
	}

	// ключи не нужны, маркет-дата публичная
	client := bybit.NewClient(&configmod.Config{})

	if len(symbols) == 0 {
		symbols, _, err = client.GetLinearInstruments(ctx)
		if err != nil {
			panic(errors.Wrap(err, "load instruments"))
		}
	}

	for _, symbol := range symbols {
		candles, err := client.GetKlines(ctx, symbol, interval, limit)
		if err != nil {
			panic(errors.Wrapf(err, "klines %s", symbol))
		}
		if len(candles) > 0 {
			candles = candles[:len(candles)-1] // последний период ещё не закрыт
		}

		for _, c := range candles {
			if err := buffer.Upsert(ctx, c); err != nil {
				panic(errors.Wrapf(err, "upsert %s", symbol))
			}
		}
		fmt.Printf("%s: %d candles\n", symbol, len(candles))
	}
	fmt.Println("done")
}

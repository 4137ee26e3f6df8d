package klines

import (
	"context"
	"fmt"

	"breakout_bot/internal/models"
	"breakout_bot/pkg/db"

	"github.com/jackc/pgx/v5"
)

// Buffer — стейджинг-буфер закрытых свечей в Postgres.
// Пишут в него шарды ws-стримера (независимые соединения, возможно разные
// процессы), читает один движок через DrainAll. Дедупликация по ключу
// (symbol, interval, start_ms): последняя запись побеждает.
type Buffer struct {
	db *db.PgTxManager
}

func New(txm *db.PgTxManager) *Buffer {
	return &Buffer{db: txm}
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS future_klines (
    symbol     TEXT             NOT NULL,
    interval   TEXT             NOT NULL,
    start_ms   BIGINT           NOT NULL,
    open       DOUBLE PRECISION NOT NULL,
    high       DOUBLE PRECISION NOT NULL,
    low        DOUBLE PRECISION NOT NULL,
    close      DOUBLE PRECISION NOT NULL,
    volume     DOUBLE PRECISION NOT NULL,
    created_at TIMESTAMPTZ      NOT NULL DEFAULT now(),
    PRIMARY KEY (symbol, interval, start_ms)
)`

// CreateTable — идемпотентное создание таблицы на старте.
func (b *Buffer) CreateTable(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("klines.CreateTable: %w", err)
		}
	}()
	return b.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, createTableSQL)
		return err
	})
}

const upsertSQL = `
INSERT INTO future_klines (symbol, interval, start_ms, open, high, low, close, volume)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (symbol, interval, start_ms) DO UPDATE SET
    open   = EXCLUDED.open,
    high   = EXCLUDED.high,
    low    = EXCLUDED.low,
    close  = EXCLUDED.close,
    volume = EXCLUDED.volume`

// Upsert — идемпотентная запись свечи, last writer wins.
func (b *Buffer) Upsert(ctx context.Context, c models.Candle) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("klines.Upsert: %w", err)
		}
	}()
	return b.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, upsertSQL,
			c.Symbol, c.Interval, c.Start, c.Open, c.High, c.Low, c.Close, c.Volume)
		return err
	})
}

// один statement: выборка и удаление неразделимы
const drainSQL = `
DELETE FROM future_klines
RETURNING symbol, interval, start_ms, open, high, low, close, volume`

// DrainAll отдаёт всё содержимое буфера и очищает его одной транзакцией.
// Конкурентный Upsert либо попадает в этот drain, либо в следующий —
// потерять свечу между select и delete нельзя.
func (b *Buffer) DrainAll(ctx context.Context) (out []models.Candle, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("klines.DrainAll: %w", err)
		}
	}()

	err = b.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctxTx, drainSQL)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var c models.Candle
			if err := rows.Scan(
				&c.Symbol, &c.Interval, &c.Start,
				&c.Open, &c.High, &c.Low, &c.Close, &c.Volume,
			); err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

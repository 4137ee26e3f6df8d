package settings

import (
	"context"
	"fmt"

	"breakout_bot/pkg/db"

	"github.com/jackc/pgx/v5"
)

// Store — настройки стратегии в settings_vars: пишет телеграм-бот,
// читает движок раз в тик.
type Store struct {
	db *db.PgTxManager
}

func New(txm *db.PgTxManager) *Store {
	return &Store{db: txm}
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS settings_vars (
    name       TEXT        NOT NULL PRIMARY KEY,
    value      TEXT        NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func (s *Store) CreateTable(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("settings.CreateTable: %w", err)
		}
	}()
	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, createTableSQL)
		return err
	})
}

func (s *Store) Upsert(ctx context.Context, name, value string) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("settings.Upsert: %w", err)
		}
	}()
	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, `
INSERT INTO settings_vars (name, value) VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value`, name, value)
		return err
	})
}

// UpsertBulk — все пары одной транзакцией, чтобы движок не увидел
// наполовину заведённые настройки.
func (s *Store) UpsertBulk(ctx context.Context, vars map[string]string) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("settings.UpsertBulk: %w", err)
		}
	}()
	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		for name, value := range vars {
			if _, err := tx.Exec(ctxTx, `
INSERT INTO settings_vars (name, value) VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value`, name, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) SelectAll(ctx context.Context) (vars map[string]string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("settings.SelectAll: %w", err)
		}
	}()

	vars = make(map[string]string)
	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctxTx, `SELECT name, value FROM settings_vars`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var name, value string
			if err := rows.Scan(&name, &value); err != nil {
				return err
			}
			vars[name] = value
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return vars, nil
}

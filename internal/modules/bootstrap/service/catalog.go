package service

import (
	"context"
	"fmt"
	"sync"

	"breakout_bot/internal/models"
	bybit "breakout_bot/internal/modules/bybit_client/service"
	"breakout_bot/pkg/logger"
)

// Catalog — снапшот торгуемых USDT-перпетуалов и их точностей.
// Загружается один раз за жизнь процесса, дальше только чтение.
type Catalog struct {
	client *bybit.Client

	mu      sync.RWMutex
	symbols []string
	params  map[string]models.InstrumentParams
}

func NewCatalog(client *bybit.Client) *Catalog {
	return &Catalog{client: client}
}

// Load тянет каталог с биржи. Повторный вызов после успешной загрузки — no-op.
func (c *Catalog) Load(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.symbols != nil
	c.mu.RUnlock()
	if loaded {
		return nil
	}

	symbols, params, err := c.client.GetLinearInstruments(ctx)
	if err != nil {
		return fmt.Errorf("catalog load: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.symbols != nil {
		return nil
	}
	c.symbols = symbols
	c.params = params
	logger.Info("[CATALOG] загружено инструментов: %d", len(symbols))
	return nil
}

func (c *Catalog) Symbols() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.symbols))
	copy(out, c.symbols)
	return out
}

func (c *Catalog) Param(symbol string) (models.InstrumentParams, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.params[symbol]
	return p, ok
}

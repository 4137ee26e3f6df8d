package service

import (
	"context"
	"time"

	"breakout_bot/internal/models"
	"breakout_bot/internal/modules/config"
	health "breakout_bot/internal/modules/health/service"
	"breakout_bot/pkg/logger"

	"github.com/gorilla/websocket"
)

const wsURLLinear = "wss://stream.bybit.com/v5/public/linear"

// Sink — куда уходят закрытые свечи (стейджинг-буфер).
type Sink interface {
	Upsert(ctx context.Context, c models.Candle) error
}

// Client поднимает несколько независимых ws-соединений (шардов) и гонит
// закрытые свечи в Sink. Падение одного шарда не трогает остальные.
type Client struct {
	cfg     *config.Config
	sink    Sink
	state   *health.State
	metrics *health.Metrics

	wsDialer *websocket.Dialer

	// запись в буфер не должна тормозить read-loop шарда:
	// свечи уходят воркерам через очередь
	handoff chan models.Candle
}

func NewClient(cfg *config.Config, sink Sink, state *health.State, metrics *health.Metrics) *Client {
	return &Client{
		cfg:      cfg,
		sink:     sink,
		state:    state,
		metrics:  metrics,
		wsDialer: &websocket.Dialer{},
		handoff:  make(chan models.Candle, cfg.WSHandoffQueueMax),
	}
}

// Start раскладывает топики по шардам и запускает их. Не блокирует.
func (c *Client) Start(ctx context.Context, interval string, symbols []string) {
	if len(symbols) == 0 {
		logger.Error("[WS] пустой список инструментов — стример не запущен")
		return
	}

	topics := make([]string, 0, len(symbols))
	for _, s := range symbols {
		topics = append(topics, KlineTopic(interval, s))
	}

	groups := SplitTopics(topics, c.cfg.WSShards)
	logger.Info("[WS] старт: топиков=%d шардов=%d interval=%s", len(topics), len(groups), interval)

	for i := 0; i < c.cfg.WSHandoffWorkers; i++ {
		go c.sinkWorker(ctx)
	}

	for i, group := range groups {
		go c.runShard(ctx, i, group)
	}
}

// runShard — вечный цикл одного соединения: connect → subscribe →
// read-loop; любая ошибка = закрыть, подождать, переподключиться.
func (c *Client) runShard(ctx context.Context, id int, topics []string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		logger.Info("[WS] shard=%d connect, topics=%d", id, len(topics))
		conn, _, err := c.wsDialer.DialContext(ctx, wsURLLinear, nil)
		if err != nil {
			logger.Error("[WS] shard=%d dial error: %v", id, err)
			c.metrics.WSReconnects.Inc()
			c.sleep(ctx)
			continue
		}

		sub := map[string]any{
			"op":   "subscribe",
			"args": topics,
		}
		if err := conn.WriteJSON(sub); err != nil {
			logger.Error("[WS] shard=%d subscribe error: %v", id, err)
			_ = conn.Close()
			c.metrics.WSReconnects.Inc()
			c.sleep(ctx)
			continue
		}

		c.state.SetWSConnected(true)

		// keepalive ping — иначе Bybit рвёт соединение
		stopPing := make(chan struct{})
		go func() {
			t := time.NewTicker(c.cfg.WSHeartbeatEvery)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-stopPing:
					return
				case <-t.C:
					if err := conn.WriteJSON(map[string]string{"req_id": "100001", "op": "ping"}); err != nil {
						// heartbeat failure = потеря соединения,
						// read-loop свалится следом
						_ = conn.Close()
						return
					}
				}
			}
		}()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				logger.Error("[WS] shard=%d read error: %v", id, err)
				break
			}
			for _, candle := range parseConfirmed(msg) {
				select {
				case c.handoff <- candle:
				case <-ctx.Done():
					close(stopPing)
					_ = conn.Close()
					return
				}
			}
		}

		close(stopPing)
		_ = conn.Close()
		c.metrics.WSReconnects.Inc()

		select {
		case <-ctx.Done():
			return
		default:
			c.sleep(ctx)
		}
	}
}

func (c *Client) sinkWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case candle := <-c.handoff:
			if err := c.sink.Upsert(ctx, candle); err != nil {
				logger.Error("[WS] upsert %s %s %d: %v", candle.Symbol, candle.Interval, candle.Start, err)
				continue
			}
			c.metrics.CandlesBuffered.Inc()
		}
	}
}

func (c *Client) sleep(ctx context.Context) {
	t := time.NewTimer(c.cfg.WSReconnectPause)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"breakout_bot/internal/modules/config"

	"github.com/bytedance/sonic"
)

const (
	mainReal = "https://api.bybit.com"
	mainTest = "https://api-testnet.bybit.com"

	recvWindow = "5000"
)

// Client — REST-клиент Bybit v5. Маркет-дата всегда с боевого рынка,
// подписанные запросы (баланс, ордера) — на testnet или real по конфигу.
type Client struct {
	http *http.Client

	apiKey    string
	secretKey string

	marketURL string
	tradeURL  string
}

func NewClient(cfg *config.Config) *Client {
	tradeURL := mainReal
	if cfg.Bybit.Testnet {
		tradeURL = mainTest
	}
	return &Client{
		http:      &http.Client{Timeout: 10 * time.Second},
		apiKey:    cfg.Bybit.APIKey,
		secretKey: cfg.Bybit.SecretKey,
		marketURL: mainReal,
		tradeURL:  tradeURL,
	}
}

func (c *Client) signGet(params url.Values, ts string) string {
	// подпись по строке вида ts + apiKey + recvWindow + "k=v&k=v"
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params.Get(k))
	}
	msg := ts + c.apiKey + recvWindow + strings.Join(pairs, "&")

	h := hmac.New(sha256.New, []byte(c.secretKey))
	h.Write([]byte(msg))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Client) signPost(body string, ts string) string {
	msg := ts + c.apiKey + recvWindow + body
	h := hmac.New(sha256.New, []byte(c.secretKey))
	h.Write([]byte(msg))
	return hex.EncodeToString(h.Sum(nil))
}

// getPublic — неподписанный GET маркет-даты.
func (c *Client) getPublic(ctx context.Context, path string, params url.Values, out any) error {
	u := c.marketURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) getSigned(ctx context.Context, path string, params url.Values, out any) error {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)

	u := c.tradeURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-BAPI-API-KEY", c.apiKey)
	req.Header.Set("X-BAPI-TIMESTAMP", ts)
	req.Header.Set("X-BAPI-RECV-WINDOW", recvWindow)
	req.Header.Set("X-BAPI-SIGN", c.signGet(params, ts))
	return c.do(req, out)
}

// postSigned — подписанный POST. Все значения тела строками,
// как того ждёт Bybit.
func (c *Client) postSigned(ctx context.Context, path string, body map[string]string, out any) error {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)

	payload, err := sonic.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tradeURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-BAPI-API-KEY", c.apiKey)
	req.Header.Set("X-BAPI-TIMESTAMP", ts)
	req.Header.Set("X-BAPI-RECV-WINDOW", recvWindow)
	req.Header.Set("X-BAPI-SIGN", c.signPost(string(payload), ts))
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	rb, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(rb))
	}
	if err := sonic.Unmarshal(rb, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

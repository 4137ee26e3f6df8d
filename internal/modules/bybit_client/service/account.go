package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"breakout_bot/internal/models"
)

// WalletBalance — баланс UNIFIED-аккаунта по монете.
func (c *Client) WalletBalance(ctx context.Context, coin string) (models.WalletBalance, error) {
	params := url.Values{}
	params.Set("accountType", "UNIFIED")
	if coin != "" {
		params.Set("coin", coin)
	}

	var resp walletBalanceResponse
	if err := c.getSigned(ctx, "/v5/account/wallet-balance", params, &resp); err != nil {
		return models.WalletBalance{}, fmt.Errorf("wallet balance: %w", err)
	}
	if resp.RetMsg != "OK" || len(resp.Result.List) == 0 {
		return models.WalletBalance{}, fmt.Errorf("wallet balance: retCode=%d retMsg=%s", resp.RetCode, resp.RetMsg)
	}

	acc := resp.Result.List[0]
	total, err := strconv.ParseFloat(acc.TotalWalletBalance, 64)
	if err != nil {
		return models.WalletBalance{}, fmt.Errorf("wallet balance: bad total %q", acc.TotalWalletBalance)
	}

	var avail float64
	for _, cb := range acc.Coin {
		if coin == "" || cb.Coin == coin {
			avail, err = strconv.ParseFloat(cb.WalletBalance, 64)
			if err != nil {
				return models.WalletBalance{}, fmt.Errorf("wallet balance: bad coin balance %q", cb.WalletBalance)
			}
			break
		}
	}

	return models.WalletBalance{Total: total, Available: avail}, nil
}

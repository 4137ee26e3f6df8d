package service

import (
	"context"
	"fmt"
	"strconv"

	"breakout_bot/internal/models"
)

// OrderStatus различает успех и типы отказов биржи.
type OrderStatus int

const (
	OrderPlaced OrderStatus = iota
	OrderInsufficientFunds
	OrderRejected
)

type OrderResult struct {
	Status  OrderStatus
	OrderID string
	RetMsg  string
}

// retMsg биржи при нехватке доступного баланса
const retMsgNotEnough = "ab not enough for new order"

// PlaceMarket — рыночный ордер с прикреплёнными TP/SL.
// Отказ биржи — не ошибка транспорта: возвращается в Status/RetMsg,
// err только на сетевых/протокольных проблемах. Повторов нет.
func (c *Client) PlaceMarket(
	ctx context.Context,
	symbol string,
	side models.Side,
	qty float64,
	takeProfit float64,
	stopLoss float64,
) (OrderResult, error) {

	if side != models.SideBuy && side != models.SideSell {
		return OrderResult{}, fmt.Errorf("place order %s: bad side %q", symbol, side)
	}

	bybitSide := "Buy"
	if side == models.SideSell {
		bybitSide = "Sell"
	}

	body := map[string]string{
		"category":   "linear",
		"symbol":     symbol,
		"side":       bybitSide,
		"orderType":  "Market",
		"qty":        strconv.FormatFloat(qty, 'f', -1, 64),
		"takeProfit": strconv.FormatFloat(takeProfit, 'f', -1, 64),
		"stopLoss":   strconv.FormatFloat(stopLoss, 'f', -1, 64),
	}

	var resp placeOrderResponse
	if err := c.postSigned(ctx, "/v5/order/create", body, &resp); err != nil {
		return OrderResult{}, fmt.Errorf("place order %s: %w", symbol, err)
	}

	switch resp.RetMsg {
	case "OK":
		return OrderResult{Status: OrderPlaced, OrderID: resp.Result.OrderID, RetMsg: resp.RetMsg}, nil
	case retMsgNotEnough:
		return OrderResult{Status: OrderInsufficientFunds, RetMsg: resp.RetMsg}, nil
	default:
		return OrderResult{Status: OrderRejected, RetMsg: resp.RetMsg}, nil
	}
}

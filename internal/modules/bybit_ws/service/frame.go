package service

import (
	"strconv"

	"breakout_bot/internal/models"

	"github.com/bytedance/sonic"
)

// Кадр канала kline Bybit v5: числа приходят строками,
// confirm=true только у закрытой свечи.
type wsFrame struct {
	Topic string    `json:"topic"`
	Type  string    `json:"type"`
	Data  []wsKline `json:"data"`
}

type wsKline struct {
	Start    int64  `json:"start"`
	End      int64  `json:"end"`
	Interval string `json:"interval"`
	Open     string `json:"open"`
	Close    string `json:"close"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Volume   string `json:"volume"`
	Confirm  bool   `json:"confirm"`
}

// parseConfirmed разбирает кадр и отдаёт только закрытые свечи.
// Служебные кадры (subscribe ack, pong) и мусор молча пропускаются.
func parseConfirmed(msg []byte) []models.Candle {
	var frame wsFrame
	if err := sonic.Unmarshal(msg, &frame); err != nil {
		return nil
	}
	if frame.Topic == "" || len(frame.Data) == 0 {
		return nil
	}

	symbol := SymbolFromTopic(frame.Topic)

	out := make([]models.Candle, 0, len(frame.Data))
	for _, row := range frame.Data {
		if !row.Confirm {
			continue // ждём закрытую свечу
		}

		open, err1 := strconv.ParseFloat(row.Open, 64)
		high, err2 := strconv.ParseFloat(row.High, 64)
		low, err3 := strconv.ParseFloat(row.Low, 64)
		closep, err4 := strconv.ParseFloat(row.Close, 64)
		vol, err5 := strconv.ParseFloat(row.Volume, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			continue
		}
		if closep <= 0 {
			continue
		}

		out = append(out, models.Candle{
			Symbol:   symbol,
			Interval: row.Interval,
			Start:    row.Start,
			Open:     open,
			High:     high,
			Low:      low,
			Close:    closep,
			Volume:   vol,
		})
	}
	return out
}

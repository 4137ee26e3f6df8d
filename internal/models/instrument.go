package models

import "fmt"

// InstrumentParams — точность цены/количества инструмента.
// Забираются один раз на старте и дальше только читаются.
type InstrumentParams struct {
	Symbol      string
	QtyStep     float64 // шаг количества (qtyStep)
	PriceTick   float64 // шаг цены (tickSize)
	MinOrderQty float64
}

func (p InstrumentParams) Validate() error {
	if p.Symbol == "" {
		return fmt.Errorf("instrument: empty symbol")
	}
	if p.QtyStep <= 0 {
		return fmt.Errorf("instrument %s: qtyStep <= 0", p.Symbol)
	}
	if p.PriceTick <= 0 {
		return fmt.Errorf("instrument %s: tickSize <= 0", p.Symbol)
	}
	if p.MinOrderQty <= 0 {
		return fmt.Errorf("instrument %s: minOrderQty <= 0", p.Symbol)
	}
	return nil
}

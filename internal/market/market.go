package market

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Ticker carries the latest quote for one coin, denominated in USD.
type Ticker struct {
	Price  decimal.Decimal `json:"price"`
	Change decimal.Decimal `json:"change"` // daily change, percent, may be negative
}

// Coin wraps the ticker payload for one symbol.
type Coin struct {
	Ticker Ticker `json:"ticker"`
}

// Data maps lowercase coin symbols to their quotes. Absent entries mean "no
// price available".
type Data map[string]Coin

// PriceFor resolves the display-currency price for coin. The second return
// value is false when the coin is missing or its price is not positive.
func PriceFor(data Data, coin string, rate decimal.Decimal) (decimal.Decimal, bool) {
	entry, ok := data[strings.ToLower(coin)]
	if !ok {
		return decimal.Decimal{}, false
	}
	if !entry.Ticker.Price.IsPositive() {
		return decimal.Decimal{}, false
	}
	return entry.Ticker.Price.Mul(rate), true
}

package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"

	"portfolio-alerts/internal/market"
)

var hundred = decimal.NewFromInt(100)

// Performance is the derived result for a single coin.
type Performance struct {
	Coin      string
	Value     decimal.Decimal
	Basis     decimal.Decimal
	ReturnPct decimal.Decimal
}

// Allocation is one diversification entry.
type Allocation struct {
	Coin       string
	Value      decimal.Decimal
	Percentage decimal.Decimal
}

// Analytics aggregates portfolio-level metrics. It is recomputed on every
// call and never persisted.
type Analytics struct {
	TotalValue       decimal.Decimal
	TotalBasis       decimal.Decimal
	TotalReturn      decimal.Decimal
	ReturnPercentage decimal.Decimal
	DailyChange      decimal.Decimal
	CoinCount        int
	BestPerformer    *Performance
	WorstPerformer   *Performance
	// Diversification is sorted descending by value; percentages sum to ~100
	// whenever TotalValue is positive.
	Diversification []Allocation
	// RiskScore is a concentration-plus-under-diversification heuristic in
	// [0,100], not a statistical risk measure.
	RiskScore int
}

// Compute derives portfolio analytics from holdings and a market snapshot.
// Coins without a resolvable price are excluded from every aggregate.
func Compute(holdings Holdings, data market.Data, rate decimal.Decimal) Analytics {
	coins := make([]string, 0, len(holdings))
	for coin := range holdings {
		coins = append(coins, coin)
	}
	sort.Strings(coins)

	perf := make([]Performance, 0, len(coins))
	totalValue := decimal.Zero
	totalBasis := decimal.Zero
	weightedChange := decimal.Zero

	for _, coin := range coins {
		holding := holdings[coin]
		price, ok := market.PriceFor(data, coin, rate)
		if !ok {
			continue
		}

		value := price.Mul(holding.Hodl)
		basis := holding.CostBasis.Mul(rate).Mul(holding.Hodl)

		returnPct := decimal.Zero
		if basis.IsPositive() {
			returnPct = value.Sub(basis).Div(basis).Mul(hundred)
		}

		perf = append(perf, Performance{Coin: coin, Value: value, Basis: basis, ReturnPct: returnPct})
		totalValue = totalValue.Add(value)
		totalBasis = totalBasis.Add(basis)

		if entry, present := data[coin]; present {
			weightedChange = weightedChange.Add(value.Mul(entry.Ticker.Change).Div(hundred))
		}
	}

	analytics := Analytics{
		TotalValue:      totalValue,
		TotalBasis:      totalBasis,
		TotalReturn:     totalValue.Sub(totalBasis),
		CoinCount:       len(perf),
		Diversification: make([]Allocation, 0, len(perf)),
	}

	if totalBasis.IsPositive() {
		analytics.ReturnPercentage = analytics.TotalReturn.Div(totalBasis).Mul(hundred)
	}
	if totalValue.IsPositive() {
		analytics.DailyChange = weightedChange.Div(totalValue).Mul(hundred)
	}

	for i := range perf {
		p := perf[i]
		if analytics.BestPerformer == nil || p.ReturnPct.GreaterThan(analytics.BestPerformer.ReturnPct) {
			analytics.BestPerformer = &perf[i]
		}
		if analytics.WorstPerformer == nil || p.ReturnPct.LessThan(analytics.WorstPerformer.ReturnPct) {
			analytics.WorstPerformer = &perf[i]
		}

		pct := decimal.Zero
		if totalValue.IsPositive() {
			pct = p.Value.Div(totalValue).Mul(hundred)
		}
		analytics.Diversification = append(analytics.Diversification, Allocation{
			Coin:       p.Coin,
			Value:      p.Value,
			Percentage: pct,
		})
	}

	sort.SliceStable(analytics.Diversification, func(i, j int) bool {
		return analytics.Diversification[i].Value.GreaterThan(analytics.Diversification[j].Value)
	})

	analytics.RiskScore = riskScore(analytics.Diversification, analytics.CoinCount)
	return analytics
}

// riskScore combines the largest allocation share with a flat penalty for
// holding fewer than five coins, clamped to [0,100].
func riskScore(diversification []Allocation, coinCount int) int {
	if coinCount == 0 {
		return 0
	}

	score := diversification[0].Percentage
	if coinCount < 5 {
		score = score.Add(decimal.NewFromInt(20))
	}
	if score.GreaterThan(hundred) {
		score = hundred
	}
	return int(score.Round(0).IntPart())
}

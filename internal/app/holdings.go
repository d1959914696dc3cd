package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"portfolio-alerts/internal/portfolio"
)

// SetHolding creates or replaces one portfolio position.
func (a *App) SetHolding(ctx context.Context, coin string, hodl, costBasis float64) error {
	coin = strings.ToLower(strings.TrimSpace(coin))
	if coin == "" {
		return errors.New("--coin is required")
	}
	if hodl < 0 || costBasis < 0 {
		return errors.New("--hodl and --cost-basis must be non-negative")
	}

	backend, closeBackend, err := a.openBackend(ctx)
	if err != nil {
		return err
	}
	if closeBackend != nil {
		defer closeBackend()
	}

	_, store := a.newStores(backend)
	holdings := store.Holdings(ctx)
	holdings[coin] = portfolio.Holding{
		Hodl:      decimal.NewFromFloat(hodl),
		CostBasis: decimal.NewFromFloat(costBasis),
	}
	if err := store.SaveHoldings(ctx, holdings); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "saved %s: hodl %s, cost basis %s\n", coin, decimal.NewFromFloat(hodl), decimal.NewFromFloat(costBasis))
	return nil
}

// RemoveHolding deletes one position from the portfolio.
func (a *App) RemoveHolding(ctx context.Context, coin string) error {
	coin = strings.ToLower(strings.TrimSpace(coin))
	if coin == "" {
		return errors.New("--coin is required")
	}

	backend, closeBackend, err := a.openBackend(ctx)
	if err != nil {
		return err
	}
	if closeBackend != nil {
		defer closeBackend()
	}

	_, store := a.newStores(backend)
	holdings := store.Holdings(ctx)
	if _, ok := holdings[coin]; !ok {
		return fmt.Errorf("no holding for %s", coin)
	}
	delete(holdings, coin)
	if err := store.SaveHoldings(ctx, holdings); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "removed %s\n", coin)
	return nil
}

// ListHoldings prints the persisted portfolio positions.
func (a *App) ListHoldings(ctx context.Context) error {
	backend, closeBackend, err := a.openBackend(ctx)
	if err != nil {
		return err
	}
	if closeBackend != nil {
		defer closeBackend()
	}

	_, store := a.newStores(backend)
	holdings := store.Holdings(ctx)
	if len(holdings) == 0 {
		fmt.Fprintln(os.Stdout, "no holdings found")
		return nil
	}

	coins := make([]string, 0, len(holdings))
	for coin := range holdings {
		coins = append(coins, coin)
	}
	sort.Strings(coins)

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Coin\tHodl\tCost Basis (USD)")
	for _, coin := range coins {
		h := holdings[coin]
		fmt.Fprintf(writer, "%s\t%s\t%s\n", coin, h.Hodl.String(), h.CostBasis.StringFixed(2))
	}
	writer.Flush()
	return nil
}

// SetCurrency persists the display currency preference.
func (a *App) SetCurrency(ctx context.Context, currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return errors.New("currency is required")
	}

	backend, closeBackend, err := a.openBackend(ctx)
	if err != nil {
		return err
	}
	if closeBackend != nil {
		defer closeBackend()
	}

	_, store := a.newStores(backend)
	pref := store.Preferences(ctx)
	pref.Currency = currency
	if err := store.SavePreferences(ctx, pref); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "display currency set to %s\n", currency)
	return nil
}

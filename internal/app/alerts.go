package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"portfolio-alerts/internal/alert"
)

// AddAlert creates and persists a new price alert.
func (a *App) AddAlert(ctx context.Context, coin, typ string, target float64, currency string) error {
	parsed, err := alert.ParseType(typ)
	if err != nil {
		return err
	}

	created, err := alert.New(coin, parsed, decimal.NewFromFloat(target), currency)
	if err != nil {
		return err
	}

	backend, closeBackend, err := a.openBackend(ctx)
	if err != nil {
		return err
	}
	if closeBackend != nil {
		defer closeBackend()
	}

	store, _ := a.newStores(backend)
	if err := store.Add(ctx, created); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "created alert %s: %s\n", created.ID, created.Message)
	return nil
}

// ListAlerts prints the persisted alert list.
func (a *App) ListAlerts(ctx context.Context) error {
	backend, closeBackend, err := a.openBackend(ctx)
	if err != nil {
		return err
	}
	if closeBackend != nil {
		defer closeBackend()
	}

	store, _ := a.newStores(backend)
	alerts := store.Load(ctx)
	if len(alerts) == 0 {
		fmt.Fprintln(os.Stdout, "no alerts found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tCoin\tType\tTarget\tCurrency\tStatus\tCreated (UTC)\tTriggered (UTC)")

	for _, item := range alerts {
		triggered := ""
		if item.TriggeredAt != nil {
			triggered = item.TriggeredAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID,
			item.Coin,
			item.Type,
			item.Target.StringFixed(2),
			item.Currency,
			item.Status,
			item.CreatedAt.UTC().Format(time.RFC3339),
			triggered,
		)
	}

	writer.Flush()
	return nil
}

// DismissAlert moves an alert to dismissed.
func (a *App) DismissAlert(ctx context.Context, id string) error {
	backend, closeBackend, err := a.openBackend(ctx)
	if err != nil {
		return err
	}
	if closeBackend != nil {
		defer closeBackend()
	}

	store, _ := a.newStores(backend)
	found, err := store.Dismiss(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return errors.New("no active or triggered alert with that id")
	}

	fmt.Fprintf(os.Stdout, "dismissed alert %s\n", id)
	return nil
}

// RemoveAlert deletes an alert from the persisted list.
func (a *App) RemoveAlert(ctx context.Context, id string) error {
	backend, closeBackend, err := a.openBackend(ctx)
	if err != nil {
		return err
	}
	if closeBackend != nil {
		defer closeBackend()
	}

	store, _ := a.newStores(backend)
	found, err := store.Remove(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return errors.New("no alert with that id")
	}

	fmt.Fprintf(os.Stdout, "removed alert %s\n", id)
	return nil
}

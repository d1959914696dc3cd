package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"portfolio-alerts/internal/fetcher"
	"portfolio-alerts/internal/market"
	"portfolio-alerts/internal/service"
)

// Simulate 以给定价格执行一次评估流程，验证触发与通知链路。
func (a *App) Simulate(ctx context.Context, opts SimulateOptions) error {
	if opts.Coin == "" {
		return errors.New("--coin is required")
	}
	if opts.Price <= 0 {
		return errors.New("--price must be greater than zero")
	}

	backend, closeBackend, err := a.openBackend(ctx)
	if err != nil {
		return err
	}
	if closeBackend != nil {
		defer closeBackend()
	}

	alertStore, portfolioStore := a.newStores(backend)

	coin := strings.ToLower(opts.Coin)
	static := &fetcher.Static{
		Data: market.Data{
			coin: {Ticker: market.Ticker{Price: decimal.NewFromFloat(opts.Price)}},
		},
	}

	notifier := a.newNotifier()
	cfg := *a.Config
	if notifier != nil {
		// 模拟时强制开启通知链路。
		cfg.Alerting.Enabled = true
	}

	svc := service.New(&cfg, nil, static, static, alertStore, portfolioStore, notifier, a.Logger)

	if err := svc.EvaluateOnce(ctx, time.Now().UTC()); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "simulated evaluation for %s at %s complete; run \"alert list\" to inspect statuses\n", coin, decimal.NewFromFloat(opts.Price).StringFixed(2))
	return nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"portfolio-alerts/internal/alert"
	"portfolio-alerts/internal/alerting"
	"portfolio-alerts/internal/config"
	"portfolio-alerts/internal/fetcher"
	"portfolio-alerts/internal/portfolio"
	"portfolio-alerts/internal/scheduler"
)

// Service orchestrates fetching, alert evaluation, and notification.
type Service struct {
	scheduler  *scheduler.Scheduler
	market     fetcher.MarketFetcher
	rates      fetcher.RateFetcher
	alerts     *alert.Store
	portfolios *portfolio.Store
	evaluator  *alert.Evaluator
	notifier   alerting.Notifier
	logger     zerolog.Logger

	alertsOn bool
}

// New constructs the monitoring service.
func New(cfg *config.Config, sched *scheduler.Scheduler, market fetcher.MarketFetcher, rates fetcher.RateFetcher, alerts *alert.Store, portfolios *portfolio.Store, notifier alerting.Notifier, logger zerolog.Logger) *Service {
	return &Service{
		scheduler:  sched,
		market:     market,
		rates:      rates,
		alerts:     alerts,
		portfolios: portfolios,
		evaluator:  alert.NewEvaluator(alerts, logger),
		notifier:   notifier,
		logger:     logger.With().Str("component", "service").Logger(),
		alertsOn:   cfg.Alerting.Enabled,
	}
}

// Run begins the periodic evaluation loop.
func (s *Service) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return s.scheduler.Run(ctx, s.EvaluateOnce)
}

// EvaluateOnce 执行一次完整的告警评估流程。
func (s *Service) EvaluateOnce(ctx context.Context, bucket time.Time) error {
	alerts := s.alerts.Load(ctx)

	coins := activeCoins(alerts)
	if len(coins) == 0 {
		s.logger.Debug().Time("bucket", bucket).Msg("no active alerts; skipping evaluation")
		return nil
	}

	currency := "USD"
	rate := decimal.NewFromInt(1)
	if s.portfolios != nil {
		currency = s.portfolios.Preferences(ctx).Currency
	}
	if s.rates != nil {
		fetched, err := s.rates.FetchRate(ctx, currency)
		if err != nil {
			s.logger.Warn().Err(err).Str("currency", currency).Msg("fx rate unavailable; falling back to USD")
		} else {
			rate = fetched
		}
	}

	data, err := s.market.FetchTickers(ctx, coins)
	if err != nil {
		return fmt.Errorf("fetch tickers: %w", err)
	}

	result, err := s.evaluator.Evaluate(ctx, alerts, data, rate, func(a alert.Alert, price decimal.Decimal) {
		s.notifyTrigger(ctx, a, price, currency)
	})
	if err != nil {
		// Triggered alerts were observed even if the save failed; notification
		// already happened through the callback.
		s.logger.Error().Err(err).Time("bucket", bucket).Msg("evaluation completed with persistence failure")
		return nil
	}

	s.logger.Info().
		Time("bucket", bucket).
		Int("alerts", len(result.Updated)).
		Int("triggered", len(result.Triggered)).
		Msg("evaluation pass complete")
	return nil
}

func (s *Service) notifyTrigger(ctx context.Context, a alert.Alert, price decimal.Decimal, currency string) {
	if !s.alertsOn || s.notifier == nil {
		return
	}

	note := alerting.Notification{Alert: a, Price: price, Currency: currency}
	if err := s.notifier.Notify(ctx, note); err != nil {
		s.logger.Error().Err(err).Str("alert_id", a.ID).Msg("failed to dispatch alert notification")
	}
}

func activeCoins(alerts []alert.Alert) []string {
	seen := make(map[string]struct{}, len(alerts))
	coins := make([]string, 0, len(alerts))
	for _, a := range alerts {
		if a.Status != alert.StatusActive {
			continue
		}
		if _, ok := seen[a.Coin]; ok {
			continue
		}
		seen[a.Coin] = struct{}{}
		coins = append(coins, a.Coin)
	}
	return coins
}

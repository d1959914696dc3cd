package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"portfolio-alerts/internal/alert"
	"portfolio-alerts/internal/alerting"
	"portfolio-alerts/internal/config"
	"portfolio-alerts/internal/fetcher"
	"portfolio-alerts/internal/market"
	"portfolio-alerts/internal/portfolio"
	"portfolio-alerts/internal/storage"
)

type fakeNotifier struct {
	notes []alerting.Notification
	fail  bool
}

func (f *fakeNotifier) Notify(_ context.Context, note alerting.Notification) error {
	f.notes = append(f.notes, note)
	if f.fail {
		return context.DeadlineExceeded
	}
	return nil
}

type countingFetcher struct {
	fetcher.Static
	calls int
}

func (c *countingFetcher) FetchTickers(ctx context.Context, coins []string) (market.Data, error) {
	c.calls++
	return c.Static.FetchTickers(ctx, coins)
}

func newTestService(t *testing.T, data market.Data, notifier alerting.Notifier, enabled bool) (*Service, *alert.Store, *countingFetcher) {
	t.Helper()

	backend := storage.NewFileBackend(t.TempDir())
	logger := zerolog.Nop()
	alerts := alert.NewStore(backend, logger)
	portfolios := portfolio.NewStore(backend, logger)

	static := &countingFetcher{Static: fetcher.Static{Data: data, Rate: decimal.NewFromInt(1)}}
	cfg := &config.Config{}
	cfg.Alerting.Enabled = enabled

	svc := New(cfg, nil, static, static, alerts, portfolios, notifier, logger)
	return svc, alerts, static
}

func mustAlert(t *testing.T, store *alert.Store, coin string, typ alert.Type, target int64) alert.Alert {
	t.Helper()
	a, err := alert.New(coin, typ, decimal.NewFromInt(target), "USD")
	if err != nil {
		t.Fatalf("构造告警失败: %v", err)
	}
	if err := store.Add(context.Background(), a); err != nil {
		t.Fatalf("写入告警失败: %v", err)
	}
	return a
}

func TestEvaluateOnceTriggersAndNotifies(t *testing.T) {
	data := market.Data{
		"btc": {Ticker: market.Ticker{Price: decimal.NewFromInt(50000)}},
	}
	notifier := &fakeNotifier{}
	svc, alerts, _ := newTestService(t, data, notifier, true)

	created := mustAlert(t, alerts, "btc", alert.TypeAbove, 45000)

	if err := svc.EvaluateOnce(context.Background(), time.Now()); err != nil {
		t.Fatalf("EvaluateOnce: %v", err)
	}

	saved := alerts.Load(context.Background())
	if len(saved) != 1 {
		t.Fatalf("alerts persisted = %d, want 1", len(saved))
	}
	if saved[0].Status != alert.StatusTriggered {
		t.Fatalf("status = %s, want triggered", saved[0].Status)
	}
	if saved[0].TriggeredAt == nil {
		t.Fatal("triggeredAt must be set")
	}
	if len(notifier.notes) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifier.notes))
	}
	if notifier.notes[0].Alert.ID != created.ID {
		t.Fatalf("notified alert = %s, want %s", notifier.notes[0].Alert.ID, created.ID)
	}
	if !notifier.notes[0].Price.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("notified price = %s, want 50000", notifier.notes[0].Price)
	}
}

func TestEvaluateOnceSkipsWithoutActiveAlerts(t *testing.T) {
	notifier := &fakeNotifier{}
	svc, _, static := newTestService(t, market.Data{}, notifier, true)

	if err := svc.EvaluateOnce(context.Background(), time.Now()); err != nil {
		t.Fatalf("EvaluateOnce: %v", err)
	}
	if static.calls != 0 {
		t.Fatalf("没有活跃告警时不应请求行情, 实际请求 %d 次", static.calls)
	}
	if len(notifier.notes) != 0 {
		t.Fatalf("notifications = %d, want 0", len(notifier.notes))
	}
}

func TestEvaluateOnceAlertingDisabled(t *testing.T) {
	data := market.Data{
		"btc": {Ticker: market.Ticker{Price: decimal.NewFromInt(50000)}},
	}
	notifier := &fakeNotifier{}
	svc, alerts, _ := newTestService(t, data, notifier, false)

	mustAlert(t, alerts, "btc", alert.TypeAbove, 45000)

	if err := svc.EvaluateOnce(context.Background(), time.Now()); err != nil {
		t.Fatalf("EvaluateOnce: %v", err)
	}

	saved := alerts.Load(context.Background())
	if saved[0].Status != alert.StatusTriggered {
		t.Fatal("alert must still trigger with notifications disabled")
	}
	if len(notifier.notes) != 0 {
		t.Fatalf("notifications = %d, want 0 when disabled", len(notifier.notes))
	}
}

func TestEvaluateOnceSurvivesNotifierFailure(t *testing.T) {
	data := market.Data{
		"btc": {Ticker: market.Ticker{Price: decimal.NewFromInt(50000)}},
	}
	notifier := &fakeNotifier{fail: true}
	svc, alerts, _ := newTestService(t, data, notifier, true)

	mustAlert(t, alerts, "btc", alert.TypeAbove, 45000)

	if err := svc.EvaluateOnce(context.Background(), time.Now()); err != nil {
		t.Fatalf("通知失败不应中断评估: %v", err)
	}

	saved := alerts.Load(context.Background())
	if saved[0].Status != alert.StatusTriggered {
		t.Fatal("alert must trigger despite notifier failure")
	}
}

func TestEvaluateOnceIdempotent(t *testing.T) {
	data := market.Data{
		"btc": {Ticker: market.Ticker{Price: decimal.NewFromInt(50000)}},
	}
	notifier := &fakeNotifier{}
	svc, alerts, _ := newTestService(t, data, notifier, true)

	mustAlert(t, alerts, "btc", alert.TypeAbove, 45000)

	if err := svc.EvaluateOnce(context.Background(), time.Now()); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if err := svc.EvaluateOnce(context.Background(), time.Now()); err != nil {
		t.Fatalf("second pass: %v", err)
	}

	if len(notifier.notes) != 1 {
		t.Fatalf("notifications = %d, want 1 across repeated passes", len(notifier.notes))
	}
}

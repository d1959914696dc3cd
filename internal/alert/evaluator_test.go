package alert

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"portfolio-alerts/internal/market"
)

// memBackend is an in-memory document backend that counts writes.
type memBackend struct {
	docs   map[string][]byte
	writes int
}

func newMemBackend() *memBackend {
	return &memBackend{docs: make(map[string][]byte)}
}

func (b *memBackend) Read(_ context.Context, key string) ([]byte, bool, error) {
	body, ok := b.docs[key]
	return body, ok, nil
}

func (b *memBackend) Write(_ context.Context, key string, body []byte) error {
	b.writes++
	b.docs[key] = body
	return nil
}

func snapshot(coin string, price float64) market.Data {
	return market.Data{
		coin: {Ticker: market.Ticker{Price: decimal.NewFromFloat(price)}},
	}
}

func activeAlert(t *testing.T, coin string, typ Type, target float64) Alert {
	t.Helper()
	a, err := New(coin, typ, decimal.NewFromFloat(target), "USD")
	if err != nil {
		t.Fatalf("failed to build alert: %v", err)
	}
	return a
}

func testEvaluator(store *Store) *Evaluator {
	e := NewEvaluator(store, zerolog.Nop())
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return fixed }
	return e
}

func TestEvaluateTriggersAboveInclusive(t *testing.T) {
	backend := newMemBackend()
	store := NewStore(backend, zerolog.Nop())
	eval := testEvaluator(store)

	alerts := []Alert{activeAlert(t, "btc", TypeAbove, 50000)}

	var gotAlert Alert
	var gotPrice decimal.Decimal
	calls := 0

	result, err := eval.Evaluate(context.Background(), alerts, snapshot("btc", 50000), decimal.NewFromInt(1), func(a Alert, price decimal.Decimal) {
		calls++
		gotAlert = a
		gotPrice = price
	})
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	if len(result.Triggered) != 1 {
		t.Fatalf("price equal to target must fire, triggered=%d", len(result.Triggered))
	}
	if calls != 1 {
		t.Fatalf("callback should fire once, fired %d times", calls)
	}
	if gotAlert.Status != StatusTriggered || gotAlert.TriggeredAt == nil {
		t.Fatalf("triggered alert not marked: %+v", gotAlert)
	}
	if !gotPrice.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("callback price = %s, want 50000", gotPrice)
	}
	if backend.writes != 1 {
		t.Fatalf("changed list should persist exactly once, wrote %d times", backend.writes)
	}
}

func TestEvaluateTriggersJustAboveTarget(t *testing.T) {
	eval := testEvaluator(nil)

	alerts := []Alert{activeAlert(t, "btc", TypeAbove, 50000)}
	var observed decimal.Decimal
	result, err := eval.Evaluate(context.Background(), alerts, snapshot("btc", 50000.01), decimal.NewFromInt(1), func(_ Alert, price decimal.Decimal) {
		observed = price
	})
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	if len(result.Triggered) != 1 {
		t.Fatal("50000.01 against a 50000 above-target must fire")
	}
	if result.Triggered[0].TriggeredAt == nil {
		t.Fatal("triggeredAt must be set")
	}
	if !observed.Equal(decimal.NewFromFloat(50000.01)) {
		t.Fatalf("callback price = %s, want 50000.01", observed)
	}
}

func TestEvaluateTriggersBelowInclusive(t *testing.T) {
	eval := testEvaluator(nil)

	alerts := []Alert{activeAlert(t, "eth", TypeBelow, 2000)}
	result, err := eval.Evaluate(context.Background(), alerts, snapshot("eth", 2000), decimal.NewFromInt(1), nil)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if len(result.Triggered) != 1 {
		t.Fatal("price equal to a below-target must fire")
	}
}

func TestEvaluateAppliesExchangeRate(t *testing.T) {
	eval := testEvaluator(nil)

	// 10000 USD at rate 1.5 resolves to 15000 in the display currency.
	alerts := []Alert{activeAlert(t, "btc", TypeAbove, 15000)}
	result, err := eval.Evaluate(context.Background(), alerts, snapshot("btc", 10000), decimal.NewFromFloat(1.5), nil)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if len(result.Triggered) != 1 {
		t.Fatal("rate-scaled price should reach the target")
	}
}

func TestEvaluateSkipsUnresolvablePrices(t *testing.T) {
	backend := newMemBackend()
	store := NewStore(backend, zerolog.Nop())
	eval := testEvaluator(store)

	alerts := []Alert{
		activeAlert(t, "doge", TypeAbove, 1), // no ticker at all
		activeAlert(t, "xrp", TypeBelow, 1),  // zero price
	}
	data := market.Data{
		"xrp": {Ticker: market.Ticker{Price: decimal.Zero}},
	}

	result, err := eval.Evaluate(context.Background(), alerts, data, decimal.NewFromInt(1), nil)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	if len(result.Triggered) != 0 {
		t.Fatal("unresolvable prices must not fire")
	}
	for i, a := range result.Updated {
		if a.Status != StatusActive {
			t.Fatalf("alert %d should pass through unchanged, got %q", i, a.Status)
		}
	}
	if backend.writes != 0 {
		t.Fatalf("no change must skip the write, wrote %d times", backend.writes)
	}
}

func TestEvaluateLeavesTerminalStatusesAlone(t *testing.T) {
	eval := testEvaluator(nil)

	when := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	triggered := activeAlert(t, "btc", TypeAbove, 1)
	triggered.Status = StatusTriggered
	triggered.TriggeredAt = &when

	dismissed := activeAlert(t, "btc", TypeAbove, 1)
	dismissed.Status = StatusDismissed

	calls := 0
	result, err := eval.Evaluate(context.Background(), []Alert{triggered, dismissed}, snapshot("btc", 99999), decimal.NewFromInt(1), func(Alert, decimal.Decimal) {
		calls++
	})
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	if calls != 0 {
		t.Fatal("terminal alerts must never invoke the callback")
	}
	if got := result.Updated[0].TriggeredAt; got == nil || !got.Equal(when) {
		t.Fatalf("triggered timestamp must not be rewritten, got %v", got)
	}
	if result.Updated[1].Status != StatusDismissed {
		t.Fatal("dismissed alerts must never be re-armed")
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	backend := newMemBackend()
	store := NewStore(backend, zerolog.Nop())
	eval := testEvaluator(store)

	alerts := []Alert{activeAlert(t, "btc", TypeAbove, 100)}
	data := snapshot("btc", 150)

	calls := 0
	first, err := eval.Evaluate(context.Background(), alerts, data, decimal.NewFromInt(1), func(Alert, decimal.Decimal) { calls++ })
	if err != nil {
		t.Fatalf("first pass failed: %v", err)
	}

	second, err := eval.Evaluate(context.Background(), first.Updated, data, decimal.NewFromInt(1), func(Alert, decimal.Decimal) { calls++ })
	if err != nil {
		t.Fatalf("second pass failed: %v", err)
	}

	if calls != 1 {
		t.Fatalf("callback must fire only on the first pass, fired %d times", calls)
	}
	if len(second.Triggered) != 0 {
		t.Fatal("second pass must not re-trigger")
	}
	if !second.Updated[0].TriggeredAt.Equal(*first.Updated[0].TriggeredAt) {
		t.Fatal("second pass must not re-timestamp")
	}
	if backend.writes != 1 {
		t.Fatalf("second pass must skip the write, wrote %d times", backend.writes)
	}
}

func TestEvaluateSurvivesCallbackPanic(t *testing.T) {
	eval := testEvaluator(nil)

	alerts := []Alert{
		activeAlert(t, "btc", TypeAbove, 100),
		activeAlert(t, "eth", TypeAbove, 100),
	}
	data := market.Data{
		"btc": {Ticker: market.Ticker{Price: decimal.NewFromInt(200)}},
		"eth": {Ticker: market.Ticker{Price: decimal.NewFromInt(200)}},
	}

	calls := 0
	result, err := eval.Evaluate(context.Background(), alerts, data, decimal.NewFromInt(1), func(Alert, decimal.Decimal) {
		calls++
		panic("handler exploded")
	})
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	if len(result.Triggered) != 2 {
		t.Fatalf("a panicking handler must not abort evaluation, triggered=%d", len(result.Triggered))
	}
	if calls != 2 {
		t.Fatalf("both triggers should reach the handler, got %d", calls)
	}
}

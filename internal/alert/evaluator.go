package alert

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"portfolio-alerts/internal/market"
)

// TriggerFunc receives each newly triggered alert and the observed price.
type TriggerFunc func(a Alert, price decimal.Decimal)

// Result carries the outcome of one evaluation pass.
type Result struct {
	// Updated is the full alert list, untouched alerts included.
	Updated []Alert
	// Triggered is the subset that transitioned to triggered in this pass.
	Triggered []Alert
}

// Evaluator scans active alerts against a market snapshot and flips the ones
// whose threshold is crossed. It is idempotent: triggered and dismissed
// alerts are never re-armed or re-timestamped.
type Evaluator struct {
	store  *Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewEvaluator constructs an evaluator. The store may be nil for a dry pass
// without persistence.
func NewEvaluator(store *Store, logger zerolog.Logger) *Evaluator {
	return &Evaluator{
		store:  store,
		logger: logger.With().Str("component", "alert_evaluator").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Evaluate runs one pass over alerts. Alerts whose coin has no resolvable
// price pass through unchanged. The trigger boundary is inclusive on both
// sides: a price exactly equal to the target fires. The updated list is
// persisted only when something changed; "no change" is not an error.
func (e *Evaluator) Evaluate(ctx context.Context, alerts []Alert, data market.Data, rate decimal.Decimal, onTrigger TriggerFunc) (Result, error) {
	updated := make([]Alert, len(alerts))
	copy(updated, alerts)

	triggered := make([]Alert, 0)
	changed := false

	for i := range updated {
		a := updated[i]
		if a.Status != StatusActive {
			continue
		}

		price, ok := market.PriceFor(data, a.Coin, rate)
		if !ok {
			continue
		}

		hit := (a.Type == TypeAbove && price.GreaterThanOrEqual(a.Target)) ||
			(a.Type == TypeBelow && price.LessThanOrEqual(a.Target))
		if !hit {
			continue
		}

		when := e.now()
		a.Status = StatusTriggered
		a.TriggeredAt = &when
		updated[i] = a
		triggered = append(triggered, a)
		changed = true

		e.logger.Info().
			Str("alert_id", a.ID).
			Str("coin", a.Coin).
			Str("type", string(a.Type)).
			Str("target", a.Target.String()).
			Str("price", price.String()).
			Msg("alert triggered")

		if onTrigger != nil {
			e.dispatch(onTrigger, a, price)
		}
	}

	if changed && e.store != nil {
		if err := e.store.Save(ctx, updated); err != nil {
			// In-memory state runs ahead of persistence until the next
			// successful save.
			e.logger.Error().Err(err).Msg("failed to persist evaluated alerts")
			return Result{Updated: updated, Triggered: triggered}, err
		}
	}

	return Result{Updated: updated, Triggered: triggered}, nil
}

// dispatch invokes the callback, containing panics so one bad handler cannot
// abort evaluation of the remaining alerts.
func (e *Evaluator) dispatch(onTrigger TriggerFunc, a Alert, price decimal.Decimal) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Str("alert_id", a.ID).Msg("trigger callback panicked")
		}
	}()
	onTrigger(a, price)
}

package alert

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"portfolio-alerts/internal/storage"
)

// Store persists the full alert list as one document. Every mutation reads
// the whole list, applies the change, and rewrites the whole list; concurrent
// writers are last-write-wins.
type Store struct {
	backend storage.Backend
	logger  zerolog.Logger
}

// NewStore wires a document backend into an alert store.
func NewStore(backend storage.Backend, logger zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger.With().Str("component", "alert_store").Logger(),
	}
}

// Load returns the persisted alert list. A missing or corrupt document yields
// an empty list, never an error.
func (s *Store) Load(ctx context.Context) []Alert {
	if s == nil || s.backend == nil {
		return []Alert{}
	}

	body, found, err := s.backend.Read(ctx, storage.KeyAlerts)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read alerts document; using empty list")
		return []Alert{}
	}
	if !found || len(body) == 0 {
		return []Alert{}
	}

	var alerts []Alert
	if err := json.Unmarshal(body, &alerts); err != nil {
		s.logger.Warn().Err(err).Msg("alerts document corrupt; using empty list")
		return []Alert{}
	}
	if alerts == nil {
		alerts = []Alert{}
	}
	return alerts
}

// Save rewrites the alert document. Storage failures are reported as errors so
// callers can surface a non-fatal warning.
func (s *Store) Save(ctx context.Context, alerts []Alert) error {
	if s == nil || s.backend == nil {
		return storage.ErrNotConfigured
	}

	body, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("marshal alerts: %w", err)
	}
	if err := s.backend.Write(ctx, storage.KeyAlerts, body); err != nil {
		return fmt.Errorf("save alerts: %w", err)
	}
	return nil
}

// Add appends an alert and persists the list.
func (s *Store) Add(ctx context.Context, a Alert) error {
	alerts := s.Load(ctx)
	alerts = append(alerts, a)
	return s.Save(ctx, alerts)
}

// Dismiss moves an active or triggered alert to dismissed. The bool reports
// whether the alert was found and transitioned.
func (s *Store) Dismiss(ctx context.Context, id string) (bool, error) {
	alerts := s.Load(ctx)
	changed := false
	for i := range alerts {
		if alerts[i].ID != id {
			continue
		}
		if alerts[i].Status == StatusActive || alerts[i].Status == StatusTriggered {
			alerts[i].Status = StatusDismissed
			changed = true
		}
		break
	}
	if !changed {
		return false, nil
	}
	return true, s.Save(ctx, alerts)
}

// Remove deletes an alert from the persisted list entirely.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	alerts := s.Load(ctx)
	next := alerts[:0]
	found := false
	for _, a := range alerts {
		if a.ID == id {
			found = true
			continue
		}
		next = append(next, a)
	}
	if !found {
		return false, nil
	}
	return true, s.Save(ctx, next)
}

package portfolio

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"portfolio-alerts/internal/storage"
)

// Holding is one position: quantity held and the average cost basis price,
// both USD-denominated.
type Holding struct {
	Hodl      decimal.Decimal `json:"hodl"`
	CostBasis decimal.Decimal `json:"cost_basis"`
}

// Holdings maps lowercase coin symbols to positions.
type Holdings map[string]Holding

// Preferences is the persisted user preference document.
type Preferences struct {
	Currency string `json:"currency"`
}

// DefaultPreferences apply when no preference document exists.
func DefaultPreferences() Preferences {
	return Preferences{Currency: "USD"}
}

// Store reads and writes the holdings and preference documents.
type Store struct {
	backend storage.Backend
	logger  zerolog.Logger
}

// NewStore wires a document backend into a portfolio store.
func NewStore(backend storage.Backend, logger zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger.With().Str("component", "portfolio_store").Logger(),
	}
}

// Holdings returns the persisted holdings. Missing or corrupt documents yield
// an empty map, never an error.
func (s *Store) Holdings(ctx context.Context) Holdings {
	if s == nil || s.backend == nil {
		return Holdings{}
	}

	body, found, err := s.backend.Read(ctx, storage.KeyHoldings)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read holdings document; using empty holdings")
		return Holdings{}
	}
	if !found || len(body) == 0 {
		return Holdings{}
	}

	var holdings Holdings
	if err := json.Unmarshal(body, &holdings); err != nil {
		s.logger.Warn().Err(err).Msg("holdings document corrupt; using empty holdings")
		return Holdings{}
	}
	if holdings == nil {
		holdings = Holdings{}
	}
	return holdings
}

// SaveHoldings rewrites the holdings document.
func (s *Store) SaveHoldings(ctx context.Context, holdings Holdings) error {
	if s == nil || s.backend == nil {
		return storage.ErrNotConfigured
	}
	body, err := json.Marshal(holdings)
	if err != nil {
		return err
	}
	return s.backend.Write(ctx, storage.KeyHoldings, body)
}

// SavePreferences rewrites the preference document.
func (s *Store) SavePreferences(ctx context.Context, pref Preferences) error {
	if s == nil || s.backend == nil {
		return storage.ErrNotConfigured
	}
	if pref.Currency == "" {
		pref.Currency = "USD"
	}
	body, err := json.Marshal(pref)
	if err != nil {
		return err
	}
	return s.backend.Write(ctx, storage.KeyPreferences, body)
}

// Preferences returns persisted preferences, falling back to defaults.
func (s *Store) Preferences(ctx context.Context) Preferences {
	if s == nil || s.backend == nil {
		return DefaultPreferences()
	}

	body, found, err := s.backend.Read(ctx, storage.KeyPreferences)
	if err != nil || !found || len(body) == 0 {
		return DefaultPreferences()
	}

	var pref Preferences
	if err := json.Unmarshal(body, &pref); err != nil {
		s.logger.Warn().Err(err).Msg("preference document corrupt; using defaults")
		return DefaultPreferences()
	}
	if pref.Currency == "" {
		pref.Currency = "USD"
	}
	return pref
}

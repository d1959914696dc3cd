package alert

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidAlertInput rejects alerts that could never trigger.
var ErrInvalidAlertInput = errors.New("alert: invalid alert input")

// Type is the direction of the threshold crossing that fires an alert.
type Type string

// Canonical alert types. Stored lowercase; display code upper-cases as needed.
const (
	TypeAbove Type = "above"
	TypeBelow Type = "below"
)

// Status is the lifecycle state of an alert. Triggered and dismissed are
// terminal with respect to evaluation.
type Status string

const (
	StatusActive    Status = "active"
	StatusTriggered Status = "triggered"
	StatusDismissed Status = "dismissed"
)

// Alert is a persisted rule that fires when a coin's price crosses a
// threshold in a given direction.
type Alert struct {
	ID          string          `json:"id"`
	Coin        string          `json:"coin"` // lowercase ticker symbol
	Type        Type            `json:"type"`
	Target      decimal.Decimal `json:"target"`
	Currency    string          `json:"currency"`
	Status      Status          `json:"status"`
	Message     string          `json:"message"`
	CreatedAt   time.Time       `json:"createdAt"`
	TriggeredAt *time.Time      `json:"triggeredAt"`
}

// ParseType normalises a user-supplied direction string.
func ParseType(raw string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeAbove:
		return TypeAbove, nil
	case TypeBelow:
		return TypeBelow, nil
	default:
		return "", fmt.Errorf("%w: unknown type %q", ErrInvalidAlertInput, raw)
	}
}

// New constructs an active alert. The coin symbol is lowercased for storage
// identity; the precomputed message upper-cases it for display and is never
// recomputed on later mutation.
func New(coin string, typ Type, target decimal.Decimal, currency string) (Alert, error) {
	coin = strings.ToLower(strings.TrimSpace(coin))
	if coin == "" {
		return Alert{}, fmt.Errorf("%w: coin is required", ErrInvalidAlertInput)
	}
	if typ != TypeAbove && typ != TypeBelow {
		return Alert{}, fmt.Errorf("%w: unknown type %q", ErrInvalidAlertInput, typ)
	}
	if !target.IsPositive() {
		return Alert{}, fmt.Errorf("%w: target must be positive, got %s", ErrInvalidAlertInput, target)
	}
	if currency == "" {
		currency = "USD"
	}

	now := time.Now().UTC()
	return Alert{
		ID:        fmt.Sprintf("%s-%s-%d", coin, typ, now.UnixMilli()),
		Coin:      coin,
		Type:      typ,
		Target:    target,
		Currency:  currency,
		Status:    StatusActive,
		Message:   fmt.Sprintf("%s %s %s %s", strings.ToUpper(coin), typ, target.String(), currency),
		CreatedAt: now,
	}, nil
}

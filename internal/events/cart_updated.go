// Package events defines the envelope handed to in-process subscribers
// when the cart changes. The envelope carries identity and timing
// metadata so consumers (logging, future UI push) can correlate and
// order notifications without reaching back into the engine.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/S4ntifdz/tableside-go/internal/cart"
)

const (
	CartUpdatedEventName    = "CartUpdated"
	CartUpdatedEventVersion = 1
	cartEngineProducer      = "cart-engine"
)

type CartUpdated struct {
	EventName    string        `json:"eventName"`
	EventVersion int           `json:"eventVersion"`
	EventID      string        `json:"eventId"`
	Producer     string        `json:"producer"`
	OccurredAt   time.Time     `json:"occurredAt"`
	Cart         cart.Snapshot `json:"cart"`
}

// Options override the defaulted envelope fields, mainly for tests that
// need deterministic ids and timestamps.
type Options struct {
	EventID    string
	Producer   string
	OccurredAt time.Time
}

// BuildCartUpdated wraps a cart snapshot in a CartUpdated envelope with
// a fresh event id and UTC timestamp unless overridden.
func BuildCartUpdated(snap cart.Snapshot, opts Options) CartUpdated {
	eventID := opts.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}

	occurredAt := opts.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	producer := opts.Producer
	if producer == "" {
		producer = cartEngineProducer
	}

	return CartUpdated{
		EventName:    CartUpdatedEventName,
		EventVersion: CartUpdatedEventVersion,
		EventID:      eventID,
		Producer:     producer,
		OccurredAt:   occurredAt,
		Cart:         snap,
	}
}

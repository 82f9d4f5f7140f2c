package domain

import (
	"encoding/hex"
	"fmt"
)

// EventType represents the kind of overlay notification
type EventType string

const (
	EventTypeAdmitted EventType = "admitted"
	EventTypeSpent    EventType = "spent"
	EventTypeEvicted  EventType = "evicted"
)

// OverlayEvent is a normalized overlay notification.
// This is the format consumed from NATS by the overlay bridge.
type OverlayEvent struct {
	EventType     EventType `json:"event_type"`               // admitted, spent, evicted
	Txid          string    `json:"txid"`                     // transaction id (hex)
	OutputIndex   uint32    `json:"output_index"`             // output index within the transaction
	Topic         string    `json:"topic,omitempty"`          // overlay topic (empty for evictions)
	LockingScript string    `json:"locking_script,omitempty"` // hex encoded locking script (admitted only)
	Satoshis      uint64    `json:"satoshis,omitempty"`       // output amount (admitted only)
}

// Outpoint returns the physical identity the event refers to
func (e *OverlayEvent) Outpoint() Outpoint {
	return Outpoint{Txid: e.Txid, OutputIndex: e.OutputIndex}
}

// Validate checks the event carries the fields its type requires
func (e *OverlayEvent) Validate() error {
	if len(e.Txid) != 64 {
		return fmt.Errorf("invalid txid %q", e.Txid)
	}
	if _, err := hex.DecodeString(e.Txid); err != nil {
		return fmt.Errorf("invalid txid %q: %w", e.Txid, err)
	}

	switch e.EventType {
	case EventTypeAdmitted:
		if e.Topic == "" {
			return fmt.Errorf("admitted event without topic")
		}
		if _, err := hex.DecodeString(e.LockingScript); err != nil || e.LockingScript == "" {
			return fmt.Errorf("admitted event with invalid locking script")
		}
	case EventTypeSpent:
		if e.Topic == "" {
			return fmt.Errorf("spent event without topic")
		}
	case EventTypeEvicted:
	default:
		return fmt.Errorf("unknown event type: %s", e.EventType)
	}

	return nil
}

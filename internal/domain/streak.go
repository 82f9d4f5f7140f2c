package domain

import (
	"encoding/hex"
	"fmt"
)

const (
	// TopicStreaks is the overlay topic whose outputs carry streak tokens
	TopicStreaks = "tm_streaks"
	// ServiceStreaks is the lookup service name answering streak queries
	ServiceStreaks = "ls_streaks"

	// MaxCadenceDays is the longest spacing a streak may declare between ticks
	MaxCadenceDays uint32 = 36525
)

// StreakToken is the on-chain state carried by one unspent streak output
type StreakToken struct {
	// Count is the number of successful ticks so far
	Count uint64
	// DayStamp anchors the next tick; the next tick must equal DayStamp + CadenceDays
	DayStamp DayStamp
	// CreatorIdentityKey is the compressed secp256k1 identity key of the owner
	CreatorIdentityKey []byte
	// CreatorSignature proves creator intent and is checked at admission
	CreatorSignature []byte
	// Namespace is the caller-chosen category of the streak
	Namespace string
	// CadenceDays is the required spacing between ticks
	CadenceDays uint32
	// Terminated marks a streak closed after its grace window lapsed
	Terminated bool
}

// Key returns the logical key of the token
func (t *StreakToken) Key() LogicalKey {
	return LogicalKey{
		CreatorIdentityKey: hex.EncodeToString(t.CreatorIdentityKey),
		Namespace:          t.Namespace,
	}
}

// Clone returns a deep copy of the token
func (t *StreakToken) Clone() *StreakToken {
	c := *t
	c.CreatorIdentityKey = append([]byte(nil), t.CreatorIdentityKey...)
	c.CreatorSignature = append([]byte(nil), t.CreatorSignature...)
	return &c
}

// LogicalKey identifies one streak across its physical token history
type LogicalKey struct {
	// CreatorIdentityKey is the hex encoded identity key
	CreatorIdentityKey string
	Namespace          string
}

func (k LogicalKey) String() string {
	return k.CreatorIdentityKey + ":" + k.Namespace
}

// Outpoint is the physical identity of a streak output
type Outpoint struct {
	Txid        string `json:"txid"`
	OutputIndex uint32 `json:"outputIndex"`
}

func (o Outpoint) String() string {
	return fmt.Sprintf("%s.%d", o.Txid, o.OutputIndex)
}

package ledger

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/feral-file/ff-streaks/internal/domain"
)

// Creator signatures are produced over a fixed intent message
const (
	ProtocolSecurityLevel = 0
	ProtocolID            = "streaks"
	KeyID                 = "1"
)

// IntentData is the payload a creator signs when opening a streak
var IntentData = []byte{0x01}

// Verifier is the seam to the ledger primitives the overlay relies on
//
//go:generate mockgen -source=verifier.go -destination=../mocks/verifier.go -package=mocks -mock_names=Verifier=MockVerifier
type Verifier interface {
	// Decode parses a locking script into a streak token
	Decode(lockingScript []byte) (*domain.StreakToken, error)
	// VerifySignature checks a DER signature by identityKey over message
	VerifySignature(identityKey, message, signature []byte) (bool, error)
}

type verifier struct{}

// NewVerifier returns the secp256k1 backed verifier
func NewVerifier() Verifier {
	return &verifier{}
}

func (v *verifier) Decode(lockingScript []byte) (*domain.StreakToken, error) {
	return DecodeLockingScript(lockingScript)
}

// VerifySignature returns false without error for a malformed signature;
// an unparseable identity key is an error.
func (v *verifier) VerifySignature(identityKey, message, signature []byte) (bool, error) {
	pub, err := btcec.ParsePubKey(identityKey)
	if err != nil {
		return false, fmt.Errorf("failed to parse identity key: %w", err)
	}

	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return false, nil
	}

	return sig.Verify(chainhash.HashB(message), pub), nil
}

// IntentMessage returns the bytes a creator signs to authorize a streak
func IntentMessage() []byte {
	prefix := fmt.Sprintf("%d-%s-%s:", ProtocolSecurityLevel, ProtocolID, KeyID)
	msg := make([]byte, 0, len(prefix)+len(IntentData))
	msg = append(msg, prefix...)
	return append(msg, IntentData...)
}

// SignIntent produces a creator signature over IntentMessage with key
func SignIntent(key *btcec.PrivateKey) []byte {
	return ecdsa.Sign(key, chainhash.HashB(IntentMessage())).Serialize()
}

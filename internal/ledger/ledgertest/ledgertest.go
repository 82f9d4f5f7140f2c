// Package ledgertest builds keys, scripts and bundles for tests
package ledgertest

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-streaks/internal/domain"
	"github.com/feral-file/ff-streaks/internal/ledger"
)

// Creator holds a throwaway identity with a valid intent signature
type Creator struct {
	Key         *btcec.PrivateKey
	IdentityKey []byte
	Signature   []byte
}

func NewCreator(t testing.TB) *Creator {
	t.Helper()
	key, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return &Creator{
		Key:         key,
		IdentityKey: key.PubKey().SerializeCompressed(),
		Signature:   ledger.SignIntent(key),
	}
}

func (c *Creator) Token(namespace string, count uint64, day domain.DayStamp, cadence uint32) *domain.StreakToken {
	return &domain.StreakToken{
		Count:              count,
		DayStamp:           day,
		CreatorIdentityKey: c.IdentityKey,
		CreatorSignature:   c.Signature,
		Namespace:          namespace,
		CadenceDays:        cadence,
	}
}

func Script(t testing.TB, token *domain.StreakToken) []byte {
	t.Helper()
	script, err := ledger.EncodeLockingScript(token)
	require.NoError(t, err)
	return script
}

// Tx builds a transaction spending inputs with one output per script
func Tx(inputs []wire.OutPoint, scripts ...[]byte) *wire.MsgTx {
	tx := wire.NewMsgTx(1)
	if len(inputs) == 0 {
		// a funding input so distinct transactions hash differently
		tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, uint32(len(scripts))), nil, nil))
	}
	for i := range inputs {
		tx.AddTxIn(wire.NewTxIn(&inputs[i], nil, nil))
	}
	for _, s := range scripts {
		tx.AddTxOut(wire.NewTxOut(1, s))
	}
	return tx
}

// Spend returns the outpoint of output index of tx
func Spend(tx *wire.MsgTx, index uint32) wire.OutPoint {
	return *wire.NewOutPoint(ptr(tx.TxHash()), index)
}

func Bundle(t testing.TB, txs ...*wire.MsgTx) []byte {
	t.Helper()
	raw, err := ledger.EncodeBundle(txs...)
	require.NoError(t, err)
	return raw
}

func ptr(h chainhash.Hash) *chainhash.Hash {
	return &h
}

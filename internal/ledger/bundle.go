package ledger

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

var ErrEmptyBundle = errors.New("empty transaction bundle")

// Bundle is a subject transaction together with the ancestors it spends from.
// On the wire it is a concatenation of serialized transactions, ancestors
// first and the subject last.
type Bundle struct {
	Subject   *wire.MsgTx
	Ancestors map[chainhash.Hash]*wire.MsgTx
}

// ParseBundle decodes a serialized bundle
func ParseBundle(raw []byte) (*Bundle, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyBundle
	}

	r := bytes.NewReader(raw)
	var txs []*wire.MsgTx
	for r.Len() > 0 {
		tx := &wire.MsgTx{}
		if err := tx.DeserializeNoWitness(r); err != nil {
			return nil, fmt.Errorf("failed to decode transaction %d: %w", len(txs), err)
		}
		txs = append(txs, tx)
	}

	subject := txs[len(txs)-1]
	if len(subject.TxOut) == 0 {
		return nil, fmt.Errorf("subject transaction %s has no outputs", subject.TxHash())
	}

	ancestors := make(map[chainhash.Hash]*wire.MsgTx, len(txs)-1)
	for _, tx := range txs[:len(txs)-1] {
		ancestors[tx.TxHash()] = tx
	}

	return &Bundle{Subject: subject, Ancestors: ancestors}, nil
}

// EncodeBundle serializes txs in order; the last one is the subject
func EncodeBundle(txs ...*wire.MsgTx) ([]byte, error) {
	if len(txs) == 0 {
		return nil, ErrEmptyBundle
	}

	var buf bytes.Buffer
	for i, tx := range txs {
		if err := tx.SerializeNoWitness(&buf); err != nil {
			return nil, fmt.Errorf("failed to encode transaction %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

// Txid returns the subject transaction id in display hex
func (b *Bundle) Txid() string {
	return b.Subject.TxHash().String()
}

// SpentOutput resolves the output consumed by the subject's input at inputIndex.
// ok is false when the input does not exist or its source is not in the bundle.
func (b *Bundle) SpentOutput(inputIndex uint32) (*wire.TxOut, bool) {
	if int(inputIndex) >= len(b.Subject.TxIn) {
		return nil, false
	}

	prev := b.Subject.TxIn[inputIndex].PreviousOutPoint
	source, ok := b.Ancestors[prev.Hash]
	if !ok || int(prev.Index) >= len(source.TxOut) {
		return nil, false
	}
	return source.TxOut[prev.Index], true
}

package ledger_test

import (
	"math"
	"testing"

	"github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-streaks/internal/domain"
	"github.com/feral-file/ff-streaks/internal/ledger"
	"github.com/feral-file/ff-streaks/internal/ledger/ledgertest"
)

func TestLockingScriptRoundTrip(t *testing.T) {
	creator := ledgertest.NewCreator(t)

	tests := []struct {
		name  string
		token *domain.StreakToken
	}{
		{"genesis daily", creator.Token("meditation", 1, 20240601, 1)},
		{"small count", creator.Token("m", 16, 20240601, 7)},
		{"count needs data push", creator.Token("running", 17, 20241231, 1)},
		{"count needs sign padding", creator.Token("running", 128, 20241231, 30)},
		{"large count", creator.Token("running", 1_000_000_000, 20241231, 365)},
		{"largest cadence", creator.Token("decade", 1, 20241231, domain.MaxCadenceDays)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := ledgertest.Script(t, tt.token)

			decoded, err := ledger.DecodeLockingScript(script)
			require.NoError(t, err)
			assert.Equal(t, tt.token, decoded)
		})
	}
}

func TestDecodeLockingScript_Rejects(t *testing.T) {
	creator := ledgertest.NewCreator(t)
	valid := creator.Token("meditation", 3, 20240601, 1)

	build := func(mutate func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder) []byte {
		b := txscript.NewScriptBuilder()
		script, err := mutate(b).Script()
		require.NoError(t, err)
		return script
	}
	prefix := func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
		return b.AddData(ledger.ScriptTag).AddOp(txscript.OP_DROP).AddOp(txscript.OP_RETURN)
	}

	tests := []struct {
		name   string
		script []byte
	}{
		{"empty", nil},
		{"truncated push", []byte{txscript.OP_DATA_7, 's', 't'}},
		{"wrong tag", build(func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
			return b.AddData([]byte("streak")).AddOp(txscript.OP_DROP).AddOp(txscript.OP_RETURN).
				AddInt64(3).AddInt64(20240601).AddData(valid.CreatorIdentityKey).
				AddData(valid.CreatorSignature).AddData([]byte("meditation")).AddInt64(1)
		})},
		{"missing field", build(func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
			return prefix(b).AddInt64(3).AddInt64(20240601).AddData(valid.CreatorIdentityKey).
				AddData(valid.CreatorSignature).AddData([]byte("meditation"))
		})},
		{"zero count", build(func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
			return prefix(b).AddInt64(0).AddInt64(20240601).AddData(valid.CreatorIdentityKey).
				AddData(valid.CreatorSignature).AddData([]byte("meditation")).AddInt64(1)
		})},
		{"negative count", build(func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
			return prefix(b).AddInt64(-5).AddInt64(20240601).AddData(valid.CreatorIdentityKey).
				AddData(valid.CreatorSignature).AddData([]byte("meditation")).AddInt64(1)
		})},
		{"non-minimal count", build(func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
			return prefix(b).AddFullData([]byte{0x03, 0x00}).AddInt64(20240601).AddData(valid.CreatorIdentityKey).
				AddData(valid.CreatorSignature).AddData([]byte("meditation")).AddInt64(1)
		})},
		{"invalid day stamp", build(func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
			return prefix(b).AddInt64(3).AddInt64(20241301).AddData(valid.CreatorIdentityKey).
				AddData(valid.CreatorSignature).AddData([]byte("meditation")).AddInt64(1)
		})},
		{"short identity key", build(func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
			return prefix(b).AddInt64(3).AddInt64(20240601).AddData(valid.CreatorIdentityKey[:20]).
				AddData(valid.CreatorSignature).AddData([]byte("meditation")).AddInt64(1)
		})},
		{"empty namespace", build(func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
			return prefix(b).AddInt64(3).AddInt64(20240601).AddData(valid.CreatorIdentityKey).
				AddData(valid.CreatorSignature).AddData(nil).AddInt64(1)
		})},
		{"zero cadence", build(func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
			return prefix(b).AddInt64(3).AddInt64(20240601).AddData(valid.CreatorIdentityKey).
				AddData(valid.CreatorSignature).AddData([]byte("meditation")).AddInt64(0)
		})},
		{"cadence past the limit", build(func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
			return prefix(b).AddInt64(3).AddInt64(20240601).AddData(valid.CreatorIdentityKey).
				AddData(valid.CreatorSignature).AddData([]byte("meditation")).AddInt64(int64(domain.MaxCadenceDays) + 1)
		})},
		{"cadence wraps the day stamp", build(func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
			return prefix(b).AddInt64(3).AddInt64(20240601).AddData(valid.CreatorIdentityKey).
				AddData(valid.CreatorSignature).AddData([]byte("meditation")).AddInt64(math.MaxUint32)
		})},
		{"no successor day stamp", build(func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
			return prefix(b).AddInt64(3).AddInt64(99991231).AddData(valid.CreatorIdentityKey).
				AddData(valid.CreatorSignature).AddData([]byte("meditation")).AddInt64(1)
		})},
		{"trailing element", build(func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
			return prefix(b).AddInt64(3).AddInt64(20240601).AddData(valid.CreatorIdentityKey).
				AddData(valid.CreatorSignature).AddData([]byte("meditation")).AddInt64(1).AddInt64(1)
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.DecodeLockingScript(tt.script)
			assert.ErrorIs(t, err, domain.ErrDecode)
		})
	}
}

func TestDecodeLockingScript_IgnoresPlainOutputs(t *testing.T) {
	p2pkh := []byte{txscript.OP_DUP, txscript.OP_HASH160, txscript.OP_DATA_20}
	p2pkh = append(p2pkh, make([]byte, 20)...)
	p2pkh = append(p2pkh, txscript.OP_EQUALVERIFY, txscript.OP_CHECKSIG)

	_, err := ledger.DecodeLockingScript(p2pkh)
	assert.ErrorIs(t, err, domain.ErrDecode)
}

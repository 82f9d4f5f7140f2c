package ledger

import (
	"bytes"
	"fmt"
	"math"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"

	"github.com/feral-file/ff-streaks/internal/domain"
)

// ScriptTag is pushed at the start of every streak locking script
var ScriptTag = []byte("streaks")

// number of pushes after OP_RETURN: count, dayStamp, identityKey, signature, namespace, cadenceDays
const statePushes = 6

// maxScriptNumLen bounds integer pushes; counts and day stamps fit comfortably
const maxScriptNumLen = 8

type scriptToken struct {
	opcode byte
	data   []byte
}

// EncodeLockingScript serializes token into the streak locking script template:
//
//	<"streaks"> OP_DROP OP_RETURN <count> <dayStamp> <identityKey> <signature> <namespace> <cadenceDays>
func EncodeLockingScript(token *domain.StreakToken) ([]byte, error) {
	if token.Count > math.MaxInt64 {
		return nil, fmt.Errorf("count %d out of range", token.Count)
	}

	return txscript.NewScriptBuilder().
		AddData(ScriptTag).
		AddOp(txscript.OP_DROP).
		AddOp(txscript.OP_RETURN).
		AddInt64(int64(token.Count)).
		AddInt64(int64(token.DayStamp)).
		AddData(token.CreatorIdentityKey).
		AddData(token.CreatorSignature).
		AddData([]byte(token.Namespace)).
		AddInt64(int64(token.CadenceDays)).
		Script()
}

// DecodeLockingScript parses a streak locking script.
// Any deviation from the template is reported as domain.ErrDecode.
func DecodeLockingScript(script []byte) (*domain.StreakToken, error) {
	tokens, err := tokenize(script)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	if len(tokens) != 3+statePushes {
		return nil, fmt.Errorf("%w: expected %d script elements, got %d", domain.ErrDecode, 3+statePushes, len(tokens))
	}

	tag, ok := pushBytes(tokens[0])
	if !ok || !bytes.Equal(tag, ScriptTag) {
		return nil, fmt.Errorf("%w: missing streak tag", domain.ErrDecode)
	}
	if tokens[1].opcode != txscript.OP_DROP || tokens[2].opcode != txscript.OP_RETURN {
		return nil, fmt.Errorf("%w: unexpected script prefix", domain.ErrDecode)
	}

	state := tokens[3:]

	count, err := decodeScriptNum(state[0])
	if err != nil {
		return nil, fmt.Errorf("%w: count: %v", domain.ErrDecode, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: count must be at least 1", domain.ErrDecode)
	}

	day, err := decodeScriptNum(state[1])
	if err != nil {
		return nil, fmt.Errorf("%w: day stamp: %v", domain.ErrDecode, err)
	}
	if day > math.MaxUint32 || !domain.DayStamp(day).Valid() {
		return nil, fmt.Errorf("%w: day stamp %d is not YYYYMMDD", domain.ErrDecode, day)
	}

	identityKey, ok := pushBytes(state[2])
	if !ok || len(identityKey) != btcec.PubKeyBytesLenCompressed {
		return nil, fmt.Errorf("%w: identity key must be a compressed public key", domain.ErrDecode)
	}
	if _, err := btcec.ParsePubKey(identityKey); err != nil {
		return nil, fmt.Errorf("%w: identity key: %v", domain.ErrDecode, err)
	}

	signature, ok := pushBytes(state[3])
	if !ok || len(signature) == 0 {
		return nil, fmt.Errorf("%w: missing creator signature", domain.ErrDecode)
	}

	namespace, ok := pushBytes(state[4])
	if !ok || len(namespace) == 0 {
		return nil, fmt.Errorf("%w: missing namespace", domain.ErrDecode)
	}

	cadence, err := decodeScriptNum(state[5])
	if err != nil {
		return nil, fmt.Errorf("%w: cadence: %v", domain.ErrDecode, err)
	}
	if cadence == 0 || cadence > uint64(domain.MaxCadenceDays) {
		return nil, fmt.Errorf("%w: cadence %d out of range", domain.ErrDecode, cadence)
	}
	if _, ok := domain.DayStamp(day).Plus(uint32(cadence)); !ok {
		return nil, fmt.Errorf("%w: day stamp %d has no successor with a cadence of %d days", domain.ErrDecode, day, cadence)
	}

	return &domain.StreakToken{
		Count:              count,
		DayStamp:           domain.DayStamp(day),
		CreatorIdentityKey: identityKey,
		CreatorSignature:   signature,
		Namespace:          string(namespace),
		CadenceDays:        uint32(cadence),
	}, nil
}

func tokenize(script []byte) ([]scriptToken, error) {
	var tokens []scriptToken
	tokenizer := txscript.MakeScriptTokenizer(0, script)
	for tokenizer.Next() {
		tokens = append(tokens, scriptToken{
			opcode: tokenizer.Opcode(),
			data:   append([]byte(nil), tokenizer.Data()...),
		})
	}
	if err := tokenizer.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}

// pushBytes returns the bytes pushed by tok, undoing the small-integer
// opcodes the script builder uses for canonical single-byte pushes
func pushBytes(tok scriptToken) ([]byte, bool) {
	switch {
	case tok.opcode == txscript.OP_0:
		return []byte{}, true
	case tok.opcode >= txscript.OP_1 && tok.opcode <= txscript.OP_16:
		return []byte{tok.opcode - txscript.OP_1 + 1}, true
	case tok.opcode == txscript.OP_1NEGATE:
		return []byte{0x81}, true
	case tok.opcode >= txscript.OP_DATA_1 && tok.opcode <= txscript.OP_PUSHDATA4:
		return tok.data, true
	}
	return nil, false
}

// decodeScriptNum decodes a minimally encoded, non-negative script number
func decodeScriptNum(tok scriptToken) (uint64, error) {
	switch {
	case tok.opcode == txscript.OP_0:
		return 0, nil
	case tok.opcode >= txscript.OP_1 && tok.opcode <= txscript.OP_16:
		return uint64(tok.opcode - txscript.OP_1 + 1), nil
	case tok.opcode == txscript.OP_1NEGATE:
		return 0, fmt.Errorf("negative number")
	case tok.opcode < txscript.OP_DATA_1 || tok.opcode > txscript.OP_PUSHDATA4:
		return 0, fmt.Errorf("opcode 0x%02x is not a number push", tok.opcode)
	}

	data := tok.data
	if len(data) == 0 {
		return 0, fmt.Errorf("non-minimal number encoding")
	}
	if len(data) > maxScriptNumLen {
		return 0, fmt.Errorf("number too long (%d bytes)", len(data))
	}

	// the most significant byte may only be zero (ignoring the sign bit)
	// when the previous byte needs its high bit
	last := data[len(data)-1]
	if last&0x7f == 0 && (len(data) == 1 || data[len(data)-2]&0x80 == 0) {
		return 0, fmt.Errorf("non-minimal number encoding")
	}
	if last&0x80 != 0 {
		return 0, fmt.Errorf("negative number")
	}

	var v uint64
	for i, b := range data {
		v |= uint64(b) << (8 * uint(i))
	}
	if v <= 16 {
		return 0, fmt.Errorf("non-minimal number encoding")
	}
	return v, nil
}

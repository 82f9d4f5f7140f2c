// Package admission decides which outputs of a submitted transaction are
// admitted into the streak topic.
package admission

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-streaks/internal/adapter"
	"github.com/feral-file/ff-streaks/internal/domain"
	"github.com/feral-file/ff-streaks/internal/ledger"
	"github.com/feral-file/ff-streaks/internal/logger"
	"github.com/feral-file/ff-streaks/internal/metrics"
	"github.com/feral-file/ff-streaks/internal/streak"
)

// Options toggles the daily-cadence rules. Both only apply to streaks with a cadence of one day.
type Options struct {
	// EnforceDailyCadence requires daily ticks to be stamped with today's UTC day
	EnforceDailyCadence bool
	// EnforceSingleTickPerDay rejects a second tick for the same streak and day within one bundle
	EnforceSingleTickPerDay bool
}

// DefaultOptions enables every rule
func DefaultOptions() Options {
	return Options{
		EnforceDailyCadence:     true,
		EnforceSingleTickPerDay: true,
	}
}

// Outcome is the decision for one candidate output
type Outcome struct {
	OutputIndex uint32
	Admitted    bool
	// Reason is set when the output was not admitted
	Reason error
	// Token is nil when the output did not decode
	Token *domain.StreakToken
}

// AdmittanceInstructions tells the overlay which outputs to track and which previous coins to keep
type AdmittanceInstructions struct {
	OutputsToAdmit []uint32 `json:"outputsToAdmit"`
	CoinsToRetain  []uint32 `json:"coinsToRetain"`
}

// EvaluationError is returned when a bundle as a whole could not be evaluated
type EvaluationError struct {
	Bundle []byte
	Err    error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("failed to evaluate transaction bundle (%d bytes): %v", len(e.Bundle), e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// Policy is the streak topic manager
type Policy struct {
	verifier ledger.Verifier
	clock    adapter.Clock
	opts     Options
}

// NewPolicy creates a topic manager policy
func NewPolicy(verifier ledger.Verifier, clock adapter.Clock, opts Options) *Policy {
	return &Policy{
		verifier: verifier,
		clock:    clock,
		opts:     opts,
	}
}

// IdentifyAdmissibleOutputs parses beef and returns the outputs to admit.
// previousCoins are indices of subject inputs that spend outputs already tracked by the topic;
// they are always retained.
func (p *Policy) IdentifyAdmissibleOutputs(ctx context.Context, beef []byte, previousCoins []uint32) (*AdmittanceInstructions, error) {
	bundle, err := ledger.ParseBundle(beef)
	if err != nil {
		metrics.AdmissionBundles.WithLabelValues("failed").Inc()
		return nil, &EvaluationError{Bundle: beef, Err: err}
	}

	outcomes, err := p.Evaluate(ctx, bundle, previousCoins)
	if err != nil {
		metrics.AdmissionBundles.WithLabelValues("failed").Inc()
		return nil, &EvaluationError{Bundle: beef, Err: err}
	}

	instructions := &AdmittanceInstructions{
		OutputsToAdmit: []uint32{},
		CoinsToRetain:  append([]uint32{}, previousCoins...),
	}
	for _, o := range outcomes {
		if o.Admitted {
			instructions.OutputsToAdmit = append(instructions.OutputsToAdmit, o.OutputIndex)
		}
	}

	if len(instructions.OutputsToAdmit) == 0 {
		metrics.AdmissionBundles.WithLabelValues("empty").Inc()
		logger.WarnCtx(ctx, "No streak outputs admitted",
			zap.String("txid", bundle.Txid()),
			zap.Int("outputs", len(outcomes)))
	} else {
		metrics.AdmissionBundles.WithLabelValues("ok").Inc()
		logger.InfoCtx(ctx, "Admitted streak outputs",
			zap.String("txid", bundle.Txid()),
			zap.Uint32s("outputsToAdmit", instructions.OutputsToAdmit))
	}

	return instructions, nil
}

// Evaluate decides every output of the subject transaction in order.
// A rejected output never stops the remaining ones from being evaluated.
func (p *Policy) Evaluate(ctx context.Context, bundle *ledger.Bundle, previousCoins []uint32) ([]Outcome, error) {
	today := domain.DayStampOf(p.clock.Now())
	previous := p.previousTokens(ctx, bundle, previousCoins)
	message := ledger.IntentMessage()

	// scoped to this call so ticks from different bundles never collide
	seen := make(map[string]struct{})

	outcomes := make([]Outcome, 0, len(bundle.Subject.TxOut))
	for i, out := range bundle.Subject.TxOut {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outcome := Outcome{OutputIndex: uint32(i)}
		outcome.Token, outcome.Reason = p.evaluateOutput(out.PkScript, today, message, previous, seen)
		outcome.Admitted = outcome.Reason == nil

		if outcome.Admitted {
			metrics.AdmissionOutputs.WithLabelValues("admitted", metrics.Reason(nil)).Inc()
		} else {
			metrics.AdmissionOutputs.WithLabelValues("rejected", metrics.Reason(outcome.Reason)).Inc()
			logger.DebugCtx(ctx, "Output not admitted",
				zap.String("txid", bundle.Txid()),
				zap.Int("outputIndex", i),
				zap.Error(outcome.Reason))
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

func (p *Policy) evaluateOutput(
	script []byte,
	today domain.DayStamp,
	message []byte,
	previous map[domain.LogicalKey]*domain.StreakToken,
	seen map[string]struct{},
) (*domain.StreakToken, error) {
	token, err := p.verifier.Decode(script)
	if err != nil {
		if !errors.Is(err, domain.ErrDecode) {
			err = fmt.Errorf("%w: %v", domain.ErrDecode, err)
		}
		return nil, err
	}
	if err := streak.CheckActive(token); err != nil {
		return token, err
	}

	ok, err := p.verifier.VerifySignature(token.CreatorIdentityKey, message, token.CreatorSignature)
	if err != nil {
		return token, fmt.Errorf("%w: %v", domain.ErrAuthenticationFailed, err)
	}
	if !ok {
		return token, domain.ErrAuthenticationFailed
	}

	if prev, ok := previous[token.Key()]; ok {
		if err := streak.IsSuccessor(prev, token); err != nil {
			return token, err
		}
	}

	if token.CadenceDays != 1 {
		return token, nil
	}

	if p.opts.EnforceDailyCadence && token.DayStamp != today {
		return token, fmt.Errorf("%w: got %d, today is %d", domain.ErrStaleOrFutureTick, token.DayStamp, today)
	}

	if p.opts.EnforceSingleTickPerDay {
		tick := fmt.Sprintf("%s:%d", token.Key(), token.DayStamp)
		if _, dup := seen[tick]; dup {
			return token, domain.ErrDuplicateDailyTick
		}
		seen[tick] = struct{}{}
	}

	return token, nil
}

// previousTokens decodes the streak tokens spent by the previous coins whose
// source transactions travel in the bundle
func (p *Policy) previousTokens(ctx context.Context, bundle *ledger.Bundle, previousCoins []uint32) map[domain.LogicalKey]*domain.StreakToken {
	tokens := make(map[domain.LogicalKey]*domain.StreakToken)
	for _, idx := range previousCoins {
		out, ok := bundle.SpentOutput(idx)
		if !ok {
			continue
		}

		token, err := p.verifier.Decode(out.PkScript)
		if err != nil {
			logger.DebugCtx(ctx, "Previous coin is not a streak token",
				zap.Uint32("inputIndex", idx),
				zap.Error(err))
			continue
		}
		if _, exists := tokens[token.Key()]; !exists {
			tokens[token.Key()] = token
		}
	}
	return tokens
}

// Package lookup answers streak queries and keeps the streak index in step
// with overlay notifications.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-streaks/internal/adapter"
	"github.com/feral-file/ff-streaks/internal/domain"
	"github.com/feral-file/ff-streaks/internal/ledger"
	"github.com/feral-file/ff-streaks/internal/logger"
	"github.com/feral-file/ff-streaks/internal/metrics"
	"github.com/feral-file/ff-streaks/internal/store"
)

// AnswerTypeOutputList is the only answer type produced by the service
const AnswerTypeOutputList = "output-list"

// Question is a lookup request addressed to a lookup service
type Question struct {
	Service string          `json:"service"`
	Query   json.RawMessage `json:"query"`
}

// Answer lists the outpoints matching a question
type Answer struct {
	Type    string            `json:"type"`
	Outputs []domain.Outpoint `json:"outputs"`
}

// Service is the streak lookup service
type Service struct {
	store    store.Store
	verifier ledger.Verifier
	json     adapter.JSON
}

// NewService creates a lookup service over st
func NewService(st store.Store, verifier ledger.Verifier, jsonAdapter adapter.JSON) *Service {
	return &Service{
		store:    st,
		verifier: verifier,
		json:     jsonAdapter,
	}
}

// Lookup answers a wire question
func (s *Service) Lookup(ctx context.Context, question Question) (*Answer, error) {
	if question.Service != domain.ServiceStreaks {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedService, question.Service)
	}

	query, err := ParseQuery(question.Query)
	if err != nil {
		var unsupportedErr *UnsupportedQueryError
		if errors.As(err, &unsupportedErr) {
			if canonical, cerr := s.json.Canonicalize(unsupportedErr.Query); cerr == nil {
				unsupportedErr.Query = canonical
			}
		}
		metrics.LookupQueries.WithLabelValues("unsupported", "error").Inc()
		logger.DebugCtx(ctx, "Rejected lookup query", zap.Error(err))
		return nil, err
	}

	outputs, err := s.Find(ctx, query)
	if err != nil {
		return nil, err
	}

	return &Answer{Type: AnswerTypeOutputList, Outputs: outputs}, nil
}

// Find runs a typed query against the index
func (s *Service) Find(ctx context.Context, query Query) (outputs []domain.Outpoint, err error) {
	if query == nil {
		return nil, fmt.Errorf("%w: missing query", domain.ErrUnsupportedQuery)
	}

	started := time.Now()
	defer func() {
		metrics.ObserveLookup(query.Kind(), started, err)
	}()

	switch q := query.(type) {
	case FindAll:
		outputs, err = s.store.QueryAll(ctx)
	case FindByCreator:
		outputs, err = s.store.QueryByCreator(ctx, q.CreatorIdentityKey, q.Namespace)
	case FindTop:
		outputs, err = s.store.QueryTop(ctx, q.Namespace, q.Limit)
	case FindActiveAtAnchor:
		outputs, err = s.store.QueryActiveAt(ctx, q.AnchorValue, q.Namespace)
	case FindBrokenSince:
		outputs, err = s.store.QueryBrokenSince(ctx, q.ReferenceAnchor, q.Namespace)
	default:
		return nil, fmt.Errorf("%w: %T", domain.ErrUnsupportedQuery, query)
	}
	if err != nil {
		return nil, err
	}
	if outputs == nil {
		outputs = []domain.Outpoint{}
	}
	return outputs, nil
}

// OutputAdmittedByTopic projects a newly admitted streak output into the index.
// Outputs of other topics are ignored and a script that does not decode is logged and skipped.
// An output dated before the indexed record of the same streak never replaces it.
func (s *Service) OutputAdmittedByTopic(ctx context.Context, outpoint domain.Outpoint, topic string, lockingScript []byte, satoshis uint64) error {
	if topic != domain.TopicStreaks {
		return nil
	}

	token, err := s.verifier.Decode(lockingScript)
	if err != nil {
		logger.WarnCtx(ctx, "Skipping admitted output that is not a streak token",
			zap.String("outpoint", outpoint.String()),
			zap.Error(err))
		return nil
	}

	current, err := s.store.GetStreak(ctx, token.Key())
	if err != nil {
		return err
	}
	if current != nil && current.DayStamp > token.DayStamp {
		logger.WarnCtx(ctx, "Skipping admitted output older than the indexed streak",
			zap.String("outpoint", outpoint.String()),
			zap.String("indexed", current.Outpoint().String()),
			zap.Stringer("dayStamp", token.DayStamp),
			zap.Stringer("indexedDayStamp", current.DayStamp))
		return nil
	}

	err = s.store.UpsertStreak(ctx, store.UpsertStreakInput{
		Outpoint:      outpoint,
		LockingScript: lockingScript,
		Satoshis:      satoshis,
		Token:         token,
	})
	metrics.IndexMutations.WithLabelValues("upsert", metrics.Status(err)).Inc()
	if err != nil {
		return err
	}

	logger.InfoCtx(ctx, "Indexed streak",
		zap.String("outpoint", outpoint.String()),
		zap.String("namespace", token.Namespace),
		zap.Uint64("count", token.Count),
		zap.Stringer("dayStamp", token.DayStamp))
	return nil
}

// OutputSpent removes a spent streak output from the index
func (s *Service) OutputSpent(ctx context.Context, outpoint domain.Outpoint, topic string) error {
	if topic != domain.TopicStreaks {
		return nil
	}
	return s.remove(ctx, outpoint, "spent")
}

// OutputEvicted removes an output invalidated by a chain reorganization
func (s *Service) OutputEvicted(ctx context.Context, outpoint domain.Outpoint) error {
	return s.remove(ctx, outpoint, "evicted")
}

func (s *Service) remove(ctx context.Context, outpoint domain.Outpoint, reason string) error {
	removed, err := s.store.RemoveStreak(ctx, outpoint)
	metrics.IndexMutations.WithLabelValues("remove", metrics.Status(err)).Inc()
	if err != nil {
		return err
	}

	logger.DebugCtx(ctx, "Removed streak output",
		zap.String("outpoint", outpoint.String()),
		zap.String("reason", reason),
		zap.Bool("found", removed))
	return nil
}

package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-streaks/internal/adapter"
	"github.com/feral-file/ff-streaks/internal/domain"
	"github.com/feral-file/ff-streaks/internal/ledger"
	"github.com/feral-file/ff-streaks/internal/ledger/ledgertest"
	"github.com/feral-file/ff-streaks/internal/mocks"
	"github.com/feral-file/ff-streaks/internal/store"
	"github.com/feral-file/ff-streaks/internal/store/schema"
)

const testTxid = "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"

func newTestService(t *testing.T) (*Service, *mocks.MockStore) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	return NewService(st, ledger.NewVerifier(), adapter.NewJSON()), st
}

func question(query string) Question {
	return Question{Service: domain.ServiceStreaks, Query: json.RawMessage(query)}
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	refs := []domain.Outpoint{{Txid: testTxid, OutputIndex: 0}}

	t.Run("find all", func(t *testing.T) {
		s, st := newTestService(t)
		st.EXPECT().QueryAll(ctx).Return(refs, nil)

		answer, err := s.Lookup(ctx, question(`{"findAll":true}`))
		require.NoError(t, err)
		assert.Equal(t, AnswerTypeOutputList, answer.Type)
		assert.Equal(t, refs, answer.Outputs)
	})

	t.Run("find by creator", func(t *testing.T) {
		s, st := newTestService(t)
		ns := "meditation"
		st.EXPECT().QueryByCreator(ctx, "02ab", &ns).Return(refs, nil)

		answer, err := s.Lookup(ctx, question(`{"findByCreator":{"creatorIdentityKey":"02ab","namespace":"meditation"}}`))
		require.NoError(t, err)
		assert.Equal(t, refs, answer.Outputs)
	})

	t.Run("find top passes the raw limit", func(t *testing.T) {
		s, st := newTestService(t)
		st.EXPECT().QueryTop(ctx, (*string)(nil), 0).Return(nil, nil)

		answer, err := s.Lookup(ctx, question(`{"findTop":{}}`))
		require.NoError(t, err)
		assert.NotNil(t, answer.Outputs)
		assert.Empty(t, answer.Outputs)
	})

	t.Run("find active at anchor", func(t *testing.T) {
		s, st := newTestService(t)
		st.EXPECT().QueryActiveAt(ctx, domain.DayStamp(20240601), (*string)(nil)).Return(refs, nil)

		answer, err := s.Lookup(ctx, question(`{"findActiveAtAnchor":{"anchorValue":20240601}}`))
		require.NoError(t, err)
		assert.Equal(t, refs, answer.Outputs)
	})

	t.Run("find broken since", func(t *testing.T) {
		s, st := newTestService(t)
		st.EXPECT().QueryBrokenSince(ctx, domain.DayStamp(20240610), (*string)(nil)).Return(refs, nil)

		answer, err := s.Lookup(ctx, question(`{"findBrokenSince":{"referenceAnchor":20240610}}`))
		require.NoError(t, err)
		assert.Equal(t, refs, answer.Outputs)
	})

	t.Run("store error propagates", func(t *testing.T) {
		s, st := newTestService(t)
		dbErr := errors.New("connection refused")
		st.EXPECT().QueryAll(ctx).Return(nil, dbErr)

		_, err := s.Lookup(ctx, question(`{"findAll":true}`))
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("unsupported query is canonicalized", func(t *testing.T) {
		s, _ := newTestService(t)

		_, err := s.Lookup(ctx, question(`{ "findEverything": {"z": 1, "a": 2} }`))
		var unsupportedErr *UnsupportedQueryError
		require.ErrorAs(t, err, &unsupportedErr)
		assert.Equal(t, `{"findEverything":{"a":2,"z":1}}`, string(unsupportedErr.Query))
	})

	t.Run("other service", func(t *testing.T) {
		s, _ := newTestService(t)

		_, err := s.Lookup(ctx, Question{Service: "ls_other", Query: json.RawMessage(`{"findAll":true}`)})
		assert.ErrorIs(t, err, domain.ErrUnsupportedService)
	})
}

func TestFind_NilQuery(t *testing.T) {
	s, _ := newTestService(t)

	outputs, err := s.Find(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrUnsupportedQuery)
	assert.Nil(t, outputs)
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	outpoint := domain.Outpoint{Txid: testTxid, OutputIndex: 1}
	alice := ledgertest.NewCreator(t)
	token := alice.Token("meditation", 2, 20240602, 1)
	script := ledgertest.Script(t, token)

	t.Run("admitted output is upserted", func(t *testing.T) {
		s, st := newTestService(t)
		st.EXPECT().GetStreak(ctx, token.Key()).Return(nil, nil)
		st.EXPECT().UpsertStreak(ctx, store.UpsertStreakInput{
			Outpoint:      outpoint,
			LockingScript: script,
			Satoshis:      1,
			Token:         token,
		}).Return(nil)

		require.NoError(t, s.OutputAdmittedByTopic(ctx, outpoint, domain.TopicStreaks, script, 1))
	})

	t.Run("admitted output advancing the indexed streak is upserted", func(t *testing.T) {
		s, st := newTestService(t)
		st.EXPECT().GetStreak(ctx, token.Key()).Return(&schema.StreakRecord{
			Txid:     testTxid,
			Count:    1,
			DayStamp: 20240601,
		}, nil)
		st.EXPECT().UpsertStreak(ctx, gomock.Any()).Return(nil)

		require.NoError(t, s.OutputAdmittedByTopic(ctx, outpoint, domain.TopicStreaks, script, 1))
	})

	t.Run("admitted output older than the indexed streak is skipped", func(t *testing.T) {
		s, st := newTestService(t)
		st.EXPECT().GetStreak(ctx, token.Key()).Return(&schema.StreakRecord{
			Txid:     testTxid,
			Count:    3,
			DayStamp: 20240603,
		}, nil)

		require.NoError(t, s.OutputAdmittedByTopic(ctx, outpoint, domain.TopicStreaks, script, 1))
	})

	t.Run("lookup error propagates", func(t *testing.T) {
		s, st := newTestService(t)
		dbErr := errors.New("connection reset")
		st.EXPECT().GetStreak(ctx, token.Key()).Return(nil, dbErr)

		assert.ErrorIs(t, s.OutputAdmittedByTopic(ctx, outpoint, domain.TopicStreaks, script, 1), dbErr)
	})

	t.Run("out of range cadence is skipped without touching the index", func(t *testing.T) {
		s, _ := newTestService(t)
		huge := ledgertest.Script(t, alice.Token("meditation", 2, 20240602, math.MaxUint32))

		require.NoError(t, s.OutputAdmittedByTopic(ctx, outpoint, domain.TopicStreaks, huge, 1))
	})

	t.Run("other topic is ignored", func(t *testing.T) {
		s, _ := newTestService(t)
		require.NoError(t, s.OutputAdmittedByTopic(ctx, outpoint, "tm_other", script, 1))
		require.NoError(t, s.OutputSpent(ctx, outpoint, "tm_other"))
	})

	t.Run("undecodable script is skipped", func(t *testing.T) {
		s, _ := newTestService(t)
		require.NoError(t, s.OutputAdmittedByTopic(ctx, outpoint, domain.TopicStreaks, []byte{0x6a}, 1))
	})

	t.Run("upsert error propagates", func(t *testing.T) {
		s, st := newTestService(t)
		dbErr := errors.New("deadlock")
		st.EXPECT().GetStreak(ctx, gomock.Any()).Return(nil, nil)
		st.EXPECT().UpsertStreak(ctx, gomock.Any()).Return(dbErr)

		assert.ErrorIs(t, s.OutputAdmittedByTopic(ctx, outpoint, domain.TopicStreaks, script, 1), dbErr)
	})

	t.Run("spent output is removed", func(t *testing.T) {
		s, st := newTestService(t)
		st.EXPECT().RemoveStreak(ctx, outpoint).Return(true, nil)

		require.NoError(t, s.OutputSpent(ctx, outpoint, domain.TopicStreaks))
	})

	t.Run("evicting twice is not an error", func(t *testing.T) {
		s, st := newTestService(t)
		gomock.InOrder(
			st.EXPECT().RemoveStreak(ctx, outpoint).Return(true, nil),
			st.EXPECT().RemoveStreak(ctx, outpoint).Return(false, nil),
		)

		require.NoError(t, s.OutputEvicted(ctx, outpoint))
		require.NoError(t, s.OutputEvicted(ctx, outpoint))
	})

	t.Run("remove error propagates", func(t *testing.T) {
		s, st := newTestService(t)
		dbErr := errors.New("timeout")
		st.EXPECT().RemoveStreak(ctx, outpoint).Return(false, dbErr)

		assert.ErrorIs(t, s.OutputEvicted(ctx, outpoint), dbErr)
	})
}

func TestDocumentation(t *testing.T) {
	s, _ := newTestService(t)
	assert.NotEmpty(t, s.GetDocumentation())
	assert.Equal(t, "Streaks Lookup Service", s.GetMetaData().Name)
}

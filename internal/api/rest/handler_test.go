package rest_test

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/feral-file/ff-streaks/internal/adapter"
	"github.com/feral-file/ff-streaks/internal/admission"
	"github.com/feral-file/ff-streaks/internal/api/middleware"
	"github.com/feral-file/ff-streaks/internal/api/rest"
	apierrors "github.com/feral-file/ff-streaks/internal/api/shared/errors"
	"github.com/feral-file/ff-streaks/internal/domain"
	"github.com/feral-file/ff-streaks/internal/ledger"
	"github.com/feral-file/ff-streaks/internal/ledger/ledgertest"
	"github.com/feral-file/ff-streaks/internal/logger"
	"github.com/feral-file/ff-streaks/internal/lookup"
	"github.com/feral-file/ff-streaks/internal/mocks"
)

const (
	testAPIKey = "test-key"
	testTxid   = "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"
)

type testAPI struct {
	router *gin.Engine
	store  *mocks.MockStore
}

func setupTestAPI(t *testing.T) *testAPI {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)).AnyTimes()
	st := mocks.NewMockStore(ctrl)

	verifier := ledger.NewVerifier()
	policy := admission.NewPolicy(verifier, clock, admission.DefaultOptions())
	service := lookup.NewService(st, verifier, adapter.NewJSON())

	auth, err := middleware.NewAuthenticator(middleware.AuthConfig{APIKeys: []string{testAPIKey}})
	require.NoError(t, err)

	router := gin.New()
	rest.SetupRoutes(router, rest.NewHandler(policy, service), auth.Middleware())

	return &testAPI{router: router, store: st}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

var authorized = map[string]string{"Authorization": "ApiKey " + testAPIKey}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *apierrors.APIError {
	t.Helper()
	var resp apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestHealthCheck(t *testing.T) {
	api := setupTestAPI(t)

	w := api.do(t, http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"ff-streaks-api"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	api := setupTestAPI(t)

	w := api.do(t, http.MethodGet, "/metrics", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestSubmit(t *testing.T) {
	alice := ledgertest.NewCreator(t)
	admitted := ledgertest.Script(t, alice.Token("meditation", 1, 20240601, 1))
	stale := ledgertest.Script(t, alice.Token("running", 1, 20240530, 1))
	beef := hex.EncodeToString(ledgertest.Bundle(t, ledgertest.Tx(nil, admitted, stale)))

	t.Run("admits valid outputs", func(t *testing.T) {
		api := setupTestAPI(t)

		w := api.do(t, http.MethodPost, "/api/v1/submit", rest.SubmitRequest{
			Beef:          beef,
			PreviousCoins: []uint32{0},
		}, authorized)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"outputsToAdmit":[0],"coinsToRetain":[0]}`, w.Body.String())
	})

	t.Run("no admitted outputs is not an error", func(t *testing.T) {
		api := setupTestAPI(t)
		onlyStale := hex.EncodeToString(ledgertest.Bundle(t, ledgertest.Tx(nil, stale)))

		w := api.do(t, http.MethodPost, "/api/v1/submit", rest.SubmitRequest{Beef: onlyStale}, authorized)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"outputsToAdmit":[],"coinsToRetain":[]}`, w.Body.String())
	})

	t.Run("requires authentication", func(t *testing.T) {
		api := setupTestAPI(t)

		w := api.do(t, http.MethodPost, "/api/v1/submit", rest.SubmitRequest{Beef: beef}, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apierrors.ErrCodeUnauthorized, decodeError(t, w).Code)
	})

	t.Run("rejects unknown api key", func(t *testing.T) {
		api := setupTestAPI(t)

		w := api.do(t, http.MethodPost, "/api/v1/submit", rest.SubmitRequest{Beef: beef},
			map[string]string{"Authorization": "ApiKey nope"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing beef", func(t *testing.T) {
		api := setupTestAPI(t)

		w := api.do(t, http.MethodPost, "/api/v1/submit", `{"previousCoins":[]}`, authorized)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apierrors.ErrCodeValidationFailed, decodeError(t, w).Code)
	})

	t.Run("beef is not hex", func(t *testing.T) {
		api := setupTestAPI(t)

		w := api.do(t, http.MethodPost, "/api/v1/submit", rest.SubmitRequest{Beef: "xyz"}, authorized)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apierrors.ErrCodeValidationFailed, decodeError(t, w).Code)
	})

	t.Run("malformed bundle", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		defer logger.ReplaceForTest(zap.New(core))()
		api := setupTestAPI(t)

		w := api.do(t, http.MethodPost, "/api/v1/submit", rest.SubmitRequest{Beef: "0100"}, authorized)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apierrors.ErrCodeEvaluationFailed, decodeError(t, w).Code)

		rejected := logs.FilterMessage("Rejected transaction bundle").All()
		require.Len(t, rejected, 1)
		fields := rejected[0].ContextMap()
		assert.Equal(t, "0100", fields["bundle"])
		assert.EqualValues(t, 2, fields["bundleSize"])
	})
}

func TestLookup(t *testing.T) {
	refs := []domain.Outpoint{{Txid: testTxid, OutputIndex: 2}}

	t.Run("find top", func(t *testing.T) {
		api := setupTestAPI(t)
		ns := "meditation"
		api.store.EXPECT().QueryTop(gomock.Any(), &ns, 5).Return(refs, nil)

		w := api.do(t, http.MethodPost, "/api/v1/lookup",
			`{"service":"ls_streaks","query":{"findTop":{"namespace":"meditation","limit":5}}}`, nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"type":"output-list","outputs":[{"txid":"`+testTxid+`","outputIndex":2}]}`, w.Body.String())
	})

	t.Run("empty result is an empty list", func(t *testing.T) {
		api := setupTestAPI(t)
		api.store.EXPECT().QueryAll(gomock.Any()).Return(nil, nil)

		w := api.do(t, http.MethodPost, "/api/v1/lookup", `{"service":"ls_streaks","query":{"findAll":true}}`, nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"type":"output-list","outputs":[]}`, w.Body.String())
	})

	t.Run("unsupported query", func(t *testing.T) {
		api := setupTestAPI(t)

		w := api.do(t, http.MethodPost, "/api/v1/lookup", `{"service":"ls_streaks","query":{"findEverything":{}}}`, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		apiErr := decodeError(t, w)
		assert.Equal(t, apierrors.ErrCodeUnsupportedQuery, apiErr.Code)
		assert.Contains(t, apiErr.Details, "findEverything")
	})

	t.Run("missing query", func(t *testing.T) {
		api := setupTestAPI(t)

		w := api.do(t, http.MethodPost, "/api/v1/lookup", `{"service":"ls_streaks"}`, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apierrors.ErrCodeUnsupportedQuery, decodeError(t, w).Code)
	})

	t.Run("unsupported service", func(t *testing.T) {
		api := setupTestAPI(t)

		w := api.do(t, http.MethodPost, "/api/v1/lookup", `{"service":"ls_other","query":{"findAll":true}}`, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apierrors.ErrCodeUnsupportedService, decodeError(t, w).Code)
	})

	t.Run("store failure", func(t *testing.T) {
		api := setupTestAPI(t)
		api.store.EXPECT().QueryAll(gomock.Any()).Return(nil, assert.AnError)

		w := api.do(t, http.MethodPost, "/api/v1/lookup", `{"service":"ls_streaks","query":{"findAll":true}}`, nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		apiErr := decodeError(t, w)
		assert.Equal(t, apierrors.ErrCodeInternalError, apiErr.Code)
		assert.Empty(t, apiErr.Details)
	})
}

func TestDocumentationAndMetaData(t *testing.T) {
	api := setupTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/v1/topics/tm_streaks/docs", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
	assert.NotEmpty(t, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/v1/topics/tm_streaks/metadata", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var meta domain.MetaData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
	assert.Equal(t, "Streaks Topic Manager", meta.Name)

	w = api.do(t, http.MethodGet, "/api/v1/services/ls_streaks/docs", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "findBrokenSince")

	w = api.do(t, http.MethodGet, "/api/v1/services/ls_streaks/metadata", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
	assert.Equal(t, "Streaks Lookup Service", meta.Name)
}

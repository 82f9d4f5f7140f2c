package rest

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-streaks/internal/admission"
	apierrors "github.com/feral-file/ff-streaks/internal/api/shared/errors"
	"github.com/feral-file/ff-streaks/internal/domain"
	"github.com/feral-file/ff-streaks/internal/ledger"
	"github.com/feral-file/ff-streaks/internal/logger"
	"github.com/feral-file/ff-streaks/internal/lookup"
)

// TopicManager decides which outputs of a submitted bundle join the streaks topic
type TopicManager interface {
	IdentifyAdmissibleOutputs(ctx context.Context, beef []byte, previousCoins []uint32) (*admission.AdmittanceInstructions, error)
	GetDocumentation() string
	GetMetaData() domain.MetaData
}

// LookupService answers lookup questions
type LookupService interface {
	Lookup(ctx context.Context, question lookup.Question) (*lookup.Answer, error)
	GetDocumentation() string
	GetMetaData() domain.MetaData
}

// Handler defines the interface for REST API handlers
type Handler interface {
	// Submit evaluates a transaction bundle against the topic manager
	// POST /api/v1/submit
	Submit(c *gin.Context)

	// Lookup answers a lookup question
	// POST /api/v1/lookup
	Lookup(c *gin.Context)

	// GET /api/v1/topics/tm_streaks/docs
	TopicDocumentation(c *gin.Context)

	// GET /api/v1/topics/tm_streaks/metadata
	TopicMetaData(c *gin.Context)

	// GET /api/v1/services/ls_streaks/docs
	ServiceDocumentation(c *gin.Context)

	// GET /api/v1/services/ls_streaks/metadata
	ServiceMetaData(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// SubmitRequest carries a hex encoded transaction bundle
type SubmitRequest struct {
	Beef          string   `json:"beef" binding:"required"`
	PreviousCoins []uint32 `json:"previousCoins"`
}

// LookupRequest is the wire form of a lookup question
type LookupRequest struct {
	Service string          `json:"service" binding:"required"`
	Query   json.RawMessage `json:"query"`
}

type handler struct {
	topicManager  TopicManager
	lookupService LookupService
}

// NewHandler creates a new REST API handler
func NewHandler(topicManager TopicManager, lookupService LookupService) Handler {
	return &handler{
		topicManager:  topicManager,
		lookupService: lookupService,
	}
}

func (h *handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	beef, err := hex.DecodeString(req.Beef)
	if err != nil {
		respondValidationError(c, "beef must be hex encoded")
		return
	}

	instructions, err := h.topicManager.IdentifyAdmissibleOutputs(c.Request.Context(), beef, req.PreviousCoins)
	if err != nil {
		var evalErr *admission.EvaluationError
		if errors.As(err, &evalErr) {
			logger.WarnCtx(c.Request.Context(), "Rejected transaction bundle",
				append(bundleFields(evalErr.Bundle), zap.Error(evalErr.Err))...)
			respond(c, http.StatusBadRequest, apierrors.NewEvaluationError(evalErr.Err.Error()))
			return
		}
		respondInternalError(c, err, "Failed to evaluate transaction bundle")
		return
	}

	c.JSON(http.StatusOK, instructions)
}

// maxLoggedBundleBytes bounds the hex dump of a bundle that failed to parse
const maxLoggedBundleBytes = 512

// bundleFields identifies a rejected bundle in the logs
func bundleFields(raw []byte) []zap.Field {
	fields := []zap.Field{zap.Int("bundleSize", len(raw))}
	if bundle, err := ledger.ParseBundle(raw); err == nil {
		return append(fields, zap.String("txid", bundle.Txid()))
	}
	return append(fields, zap.String("bundle", hex.EncodeToString(raw[:min(len(raw), maxLoggedBundleBytes)])))
}

func (h *handler) Lookup(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	answer, err := h.lookupService.Lookup(c.Request.Context(), lookup.Question{
		Service: req.Service,
		Query:   req.Query,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnsupportedService):
			respond(c, http.StatusBadRequest, apierrors.NewUnsupportedServiceError(err.Error()))
		case errors.Is(err, domain.ErrUnsupportedQuery):
			respond(c, http.StatusBadRequest, apierrors.NewUnsupportedQueryError(err.Error()))
		default:
			respondInternalError(c, err, "Failed to answer lookup question", zap.String("service", req.Service))
		}
		return
	}

	c.JSON(http.StatusOK, answer)
}

func (h *handler) TopicDocumentation(c *gin.Context) {
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(h.topicManager.GetDocumentation()))
}

func (h *handler) TopicMetaData(c *gin.Context) {
	c.JSON(http.StatusOK, h.topicManager.GetMetaData())
}

func (h *handler) ServiceDocumentation(c *gin.Context) {
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(h.lookupService.GetDocumentation()))
}

func (h *handler) ServiceMetaData(c *gin.Context) {
	c.JSON(http.StatusOK, h.lookupService.GetMetaData())
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "ff-streaks-api",
	})
}

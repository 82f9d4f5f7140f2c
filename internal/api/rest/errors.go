package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-streaks/internal/api/shared/errors"
	"github.com/feral-file/ff-streaks/internal/logger"
)

func respond(c *gin.Context, status int, apiErr *errors.APIError) {
	c.JSON(status, errors.ErrorResponse{Error: apiErr})
}

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respond(c, http.StatusBadRequest, errors.NewBadRequestError(message, details...))
}

// respondValidationError responds with a validation error
func respondValidationError(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, errors.NewValidationError(message))
}

// respondInternalError logs err and responds with an internal server error
func respondInternalError(c *gin.Context, err error, message string, fields ...zap.Field) {
	logger.ErrorCtx(c.Request.Context(), err, append(fields, zap.String("path", c.Request.URL.Path))...)
	respond(c, http.StatusInternalServerError, errors.NewInternalError(message))
}

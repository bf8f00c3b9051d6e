package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/types"
)

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidDuration),
		errors.Is(err, types.ErrInvalidTagSet),
		errors.Is(err, types.ErrInvalidIngredientSet),
		errors.Is(err, types.ErrInvalidField),
		errors.Is(err, types.ErrAlreadyExists),
		errors.Is(err, types.ErrInvalidTarget),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, types.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the JSON error envelope for err. Unexpected errors
// are logged and their details are not sent to the client.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			"error", err,
			"path", c.FullPath(),
			"request_id", c.GetString(middleware.ContextRequestID),
		)
		_ = c.Error(err)
		c.AbortWithStatusJSON(status, middleware.ErrorResponse{
			Error: "internal server error",
			Code:  types.ErrorCode(err),
		})
		return
	}

	resp := middleware.ErrorResponse{Error: err.Error(), Code: types.ErrorCode(err)}
	var fieldErr *types.FieldError
	if errors.As(err, &fieldErr) {
		resp.Error = fieldErr.Message
		resp.Field = fieldErr.Field
	}
	c.AbortWithStatusJSON(status, resp)
}

// badRequest reports a malformed request body or query.
func badRequest(c *gin.Context, field, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorResponse{
		Error: message,
		Field: field,
		Code:  types.ErrorCode(types.ErrInvalidField),
	})
}

// pathID parses the :id parameter; a malformed id is reported as not found.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, middleware.ErrorResponse{
			Error: "not found",
			Code:  types.ErrorCode(types.ErrResourceNotFound),
		})
		return uuid.Nil, false
	}
	return id, true
}

// currentClaims returns the authenticated caller. Routes using it are
// behind AuthMiddleware, so a miss is answered with 401.
func currentClaims(c *gin.Context) (*types.TokenClaims, bool) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, middleware.ErrorResponse{
			Error: "authentication required",
			Code:  types.ErrorCode(types.ErrUnauthorized),
		})
		return nil, false
	}
	return claims, true
}

package dto

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/imRyuukii/LoginPage/pkg/constants"
	"github.com/imRyuukii/LoginPage/pkg/errors"
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorDTO   `json:"error,omitempty"`
	TraceID   string      `json:"trace_id,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// ErrorDTO describes a failed request.
type ErrorDTO struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SuccessResponse creates a success envelope.
func SuccessResponse(data interface{}, traceID string) *APIResponse {
	return &APIResponse{
		Success:   true,
		Data:      data,
		TraceID:   traceID,
		Timestamp: time.Now().Unix(),
	}
}

// ErrorResponse creates an error envelope. Errors that are not AppErrors
// are reported as internal errors without leaking their text.
func ErrorResponse(err error, traceID string) *APIResponse {
	errorDTO := &ErrorDTO{
		Code:    errors.ErrCodeInternal,
		Message: "Internal server error",
	}
	if appErr, ok := errors.AsAppError(err); ok {
		errorDTO.Code = appErr.Code
		errorDTO.Message = appErr.Message
		if len(appErr.Metadata) > 0 {
			errorDTO.Details = appErr.Metadata
		}
	}

	return &APIResponse{
		Success:   false,
		Error:     errorDTO,
		TraceID:   traceID,
		Timestamp: time.Now().Unix(),
	}
}

// SendSuccess writes a success envelope with the given status.
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse(data, traceID(c)))
}

// SendError writes err with its mapped HTTP status. Rate limit errors
// carrying a retry_after also set the Retry-After header.
func SendError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if appErr, ok := errors.AsAppError(err); ok && status == http.StatusTooManyRequests {
		if retryAfter, ok := appErr.Metadata["retry_after"].(int); ok {
			c.Header(constants.HeaderRetryAfter, strconv.Itoa(retryAfter))
		}
	}
	c.AbortWithStatusJSON(status, ErrorResponse(err, traceID(c)))
}

func traceID(c *gin.Context) string {
	spanCtx := trace.SpanContextFromContext(c.Request.Context())
	if !spanCtx.HasTraceID() {
		return ""
	}
	return spanCtx.TraceID().String()
}

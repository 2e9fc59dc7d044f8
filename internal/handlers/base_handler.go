package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ribbitreels/learning-service/internal/services"
	"github.com/ribbitreels/learning-service/internal/utils"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries shared handler plumbing.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.FromContext(c, h.logger).Error(msg, args...)
}

// HandleServiceError maps a service error onto an HTTP response. Only the
// service's safe message is returned; wrapped causes stay in the logs.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	var svcErr *services.ServiceError
	if !errors.As(err, &svcErr) {
		h.LogError(c, err, "Unclassified error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "an unexpected error occurred",
		})
		return
	}

	status := http.StatusInternalServerError
	switch svcErr.Kind {
	case services.KindValidation:
		status = http.StatusBadRequest
	case services.KindUnauthorized:
		status = http.StatusUnauthorized
	case services.KindForbidden:
		status = http.StatusForbidden
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindConflict:
		status = http.StatusConflict
	}

	message := svcErr.Message
	if svcErr.Kind == services.KindUnexpected {
		h.LogError(c, err, "Unexpected service error")
		message = "an unexpected error occurred"
	}

	c.JSON(status, ErrorResponse{
		Error:   string(svcErr.Kind),
		Message: message,
	})
}

// uuidParam parses a path parameter as a UUID, writing a 400 on failure.
func (h *BaseHandler) uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation",
			Message: "invalid " + name,
			Details: err.Error(),
		})
		return uuid.Nil, false
	}
	return id, true
}

// currentUserID returns the authenticated user's id from the context.
func (h *BaseHandler) currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "user not authenticated",
		})
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "invalid user identity",
		})
		return uuid.Nil, false
	}
	return id, true
}

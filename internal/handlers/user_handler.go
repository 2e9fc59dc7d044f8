package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ribbitreels/learning-service/internal/models"
	"github.com/ribbitreels/learning-service/internal/repositories"
	"github.com/ribbitreels/learning-service/internal/services"
	"github.com/ribbitreels/learning-service/internal/utils"
)

type UserHandler struct {
	BaseHandler
	identityService services.IdentityService
}

func NewUserHandler(identityService services.IdentityService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler:     NewBaseHandler(logger),
		identityService: identityService,
	}
}

// ListUsers lists users with optional filtering
func (h *UserHandler) ListUsers(c *gin.Context) {
	h.LogRequest(c, "Listing users")

	filters := h.parseUserFilters(c)

	resp, err := h.identityService.ListUsers(c.Request.Context(), filters)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: resp})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	user, err := h.identityService.GetUser(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: user})
}

// Me returns the authenticated user's own profile.
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	user, err := h.identityService.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: user})
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, err := h.identityService.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: user})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.identityService.DeleteUser(c.Request.Context(), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "user deleted"})
}

func (h *UserHandler) parseUserFilters(c *gin.Context) repositories.UserFilters {
	filters := repositories.UserFilters{
		Query: c.Query("q"),
		Limit: 20,
	}

	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset >= 0 {
		filters.Offset = offset
	}
	if roleParam := c.Query("role"); roleParam != "" {
		role := models.UserRole(roleParam)
		if role == models.RoleUser || role == models.RoleAdmin {
			filters.Role = &role
		}
	}

	return filters
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ribbitreels/learning-service/internal/services"
	"github.com/ribbitreels/learning-service/internal/utils"
)

type ProgressHandler struct {
	BaseHandler
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService, logger utils.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:     NewBaseHandler(logger),
		progressService: progressService,
	}
}

// GetProgress returns the authenticated user's progress in a branch.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	branchID, ok := h.uuidParam(c, "branch_id")
	if !ok {
		return
	}

	resp, err := h.progressService.GetProgress(c.Request.Context(), userID, branchID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: resp})
}

// UpdateProgress merges newly completed leaves into the authenticated
// user's progress.
func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	branchID, ok := h.uuidParam(c, "branch_id")
	if !ok {
		return
	}

	var req services.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.progressService.UpdateProgress(c.Request.Context(), userID, branchID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: resp})
}

// GetCompletedBranches lists branches the authenticated user has finished.
func (h *ProgressHandler) GetCompletedBranches(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	resp, err := h.progressService.GetCompletedBranches(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: resp})
}

// GetUserProgress lets an admin inspect any user's progress in a branch.
func (h *ProgressHandler) GetUserProgress(c *gin.Context) {
	userID, ok := h.uuidParam(c, "user_id")
	if !ok {
		return
	}
	branchID, ok := h.uuidParam(c, "branch_id")
	if !ok {
		return
	}

	resp, err := h.progressService.GetProgress(c.Request.Context(), userID, branchID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: resp})
}

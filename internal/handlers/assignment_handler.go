package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ribbitreels/learning-service/internal/services"
	"github.com/ribbitreels/learning-service/internal/utils"
)

type AssignmentHandler struct {
	BaseHandler
	assignmentService services.AssignmentService
}

func NewAssignmentHandler(assignmentService services.AssignmentService, logger utils.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assignmentService: assignmentService,
	}
}

// AssignBranch assigns a branch to a user. The acting admin is taken from
// the token, not from the payload.
func (h *AssignmentHandler) AssignBranch(c *gin.Context) {
	managerID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var body struct {
		UserID   uuid.UUID `json:"userId"`
		BranchID uuid.UUID `json:"branchId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.assignmentService.AssignBranch(c.Request.Context(), &services.AssignBranchRequest{
		UserID:              body.UserID,
		BranchID:            body.BranchID,
		AssignedByManagerID: managerID,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{Data: resp})
}

func (h *AssignmentHandler) UnassignBranch(c *gin.Context) {
	userID, ok := h.uuidParam(c, "user_id")
	if !ok {
		return
	}
	branchID, ok := h.uuidParam(c, "branch_id")
	if !ok {
		return
	}

	if err := h.assignmentService.UnassignBranch(c.Request.Context(), userID, branchID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "assignment removed"})
}

// ListAssignments lists all assignments, optionally filtered by user or by
// the manager who made them.
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	ctx := c.Request.Context()

	if userParam := c.Query("user_id"); userParam != "" {
		userID, err := uuid.Parse(userParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation", Message: "invalid user_id"})
			return
		}
		resp, err := h.assignmentService.GetByUser(ctx, userID)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, SuccessResponse{Data: resp})
		return
	}

	if managerParam := c.Query("manager_id"); managerParam != "" {
		managerID, err := uuid.Parse(managerParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation", Message: "invalid manager_id"})
			return
		}
		resp, err := h.assignmentService.GetByManager(ctx, managerID)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, SuccessResponse{Data: resp})
		return
	}

	resp, err := h.assignmentService.GetAll(ctx)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: resp})
}

// MyAssignments lists the authenticated user's own assignments.
func (h *AssignmentHandler) MyAssignments(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	resp, err := h.assignmentService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: resp})
}

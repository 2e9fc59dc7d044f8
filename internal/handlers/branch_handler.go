package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ribbitreels/learning-service/internal/repositories"
	"github.com/ribbitreels/learning-service/internal/services"
	"github.com/ribbitreels/learning-service/internal/utils"
)

type BranchHandler struct {
	BaseHandler
	branchService services.BranchService
	leafService   services.LeafService
	reportService services.ReportService
}

func NewBranchHandler(
	branchService services.BranchService,
	leafService services.LeafService,
	reportService services.ReportService,
	logger utils.Logger,
) *BranchHandler {
	return &BranchHandler{
		BaseHandler:   NewBaseHandler(logger),
		branchService: branchService,
		leafService:   leafService,
		reportService: reportService,
	}
}

// ===== BRANCHES =====

func (h *BranchHandler) CreateBranch(c *gin.Context) {
	var req services.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	branch, err := h.branchService.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{Data: branch})
}

func (h *BranchHandler) GetBranch(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	branch, err := h.branchService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: branch})
}

func (h *BranchHandler) UpdateBranch(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	branch, err := h.branchService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: branch})
}

func (h *BranchHandler) DeleteBranch(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.branchService.Delete(c.Request.Context(), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "branch deleted"})
}

func (h *BranchHandler) ListBranches(c *gin.Context) {
	filters := repositories.BranchFilters{
		Query:     c.Query("q"),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
		Limit:     20,
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset >= 0 {
		filters.Offset = offset
	}

	resp, err := h.branchService.List(c.Request.Context(), filters)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: resp})
}

// ===== LEAVES =====

func (h *BranchHandler) CreateLeaf(c *gin.Context) {
	branchID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateLeafRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	leaf, err := h.leafService.Create(c.Request.Context(), branchID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{Data: leaf})
}

func (h *BranchHandler) GetLeaf(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	leaf, err := h.leafService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: leaf})
}

func (h *BranchHandler) UpdateLeaf(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateLeafRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	leaf, err := h.leafService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: leaf})
}

func (h *BranchHandler) DeleteLeaf(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.leafService.Delete(c.Request.Context(), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "leaf deleted"})
}

// ===== REPORTS =====

// ExportCompletionReport streams an xlsx completion report for a branch.
func (h *BranchHandler) ExportCompletionReport(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	data, err := h.reportService.ExportBranchCompletion(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("branch-completion-%s.xlsx", id)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

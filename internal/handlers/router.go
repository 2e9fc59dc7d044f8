package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ribbitreels/learning-service/internal/auth"
	"github.com/ribbitreels/learning-service/internal/models"
	"github.com/ribbitreels/learning-service/internal/services"
	"github.com/ribbitreels/learning-service/internal/utils"
)

type HandlerManager struct {
	authHandler       *AuthHandler
	userHandler       *UserHandler
	branchHandler     *BranchHandler
	assignmentHandler *AssignmentHandler
	progressHandler   *ProgressHandler
	authMiddleware    *JWTAuthMiddleware
	serviceManager    services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	tokenParser auth.TokenParser,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:       NewAuthHandler(serviceManager.Identity(), serviceManager.Federated(), logger),
		userHandler:       NewUserHandler(serviceManager.Identity(), logger),
		branchHandler:     NewBranchHandler(serviceManager.Branch(), serviceManager.Leaf(), serviceManager.Report(), logger),
		assignmentHandler: NewAssignmentHandler(serviceManager.Assignment(), logger),
		progressHandler:   NewProgressHandler(serviceManager.Progress(), logger),
		authMiddleware:    NewJWTAuthMiddleware(tokenParser),
		serviceManager:    serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	v1 := router.Group("/api/v1")

	// Public auth routes
	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/register", hm.authHandler.Register)
		authRoutes.POST("/login", hm.authHandler.Login)
		authRoutes.POST("/google", hm.authHandler.GoogleLogin)
	}

	// Everything below requires a valid token
	authed := v1.Group("")
	authed.Use(hm.authMiddleware.AuthMiddleware())
	{
		adminOnly := hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin)

		authed.POST("/auth/register-admin", adminOnly, hm.authHandler.RegisterAdmin)

		// User administration - admins; profile lookup for everyone
		users := authed.Group("/users")
		{
			users.GET("/me", hm.userHandler.Me)
			users.GET("", adminOnly, hm.userHandler.ListUsers)
			users.GET("/:id", adminOnly, hm.userHandler.GetUser)
			users.PUT("/:id", adminOnly, hm.userHandler.UpdateUser)
			users.DELETE("/:id", adminOnly, hm.userHandler.DeleteUser)
			users.GET("/:id/progress/:branch_id", adminOnly, hm.progressHandler.GetUserProgress)
		}

		// Branch content - reads for everyone, mutations for admins
		branches := authed.Group("/branches")
		{
			branches.GET("", hm.branchHandler.ListBranches)
			branches.GET("/:id", hm.branchHandler.GetBranch)
			branches.POST("", adminOnly, hm.branchHandler.CreateBranch)
			branches.PUT("/:id", adminOnly, hm.branchHandler.UpdateBranch)
			branches.DELETE("/:id", adminOnly, hm.branchHandler.DeleteBranch)
			branches.POST("/:id/leaves", adminOnly, hm.branchHandler.CreateLeaf)
			branches.GET("/:id/completion-report", adminOnly, hm.branchHandler.ExportCompletionReport)
		}

		leaves := authed.Group("/leaves")
		{
			leaves.GET("/:id", hm.branchHandler.GetLeaf)
			leaves.PUT("/:id", adminOnly, hm.branchHandler.UpdateLeaf)
			leaves.DELETE("/:id", adminOnly, hm.branchHandler.DeleteLeaf)
		}

		// Assignments - management is admin-only, own view for everyone
		assignments := authed.Group("/assignments")
		{
			assignments.GET("/me", hm.assignmentHandler.MyAssignments)
			assignments.POST("", adminOnly, hm.assignmentHandler.AssignBranch)
			assignments.GET("", adminOnly, hm.assignmentHandler.ListAssignments)
			assignments.DELETE("/users/:user_id/branches/:branch_id", adminOnly, hm.assignmentHandler.UnassignBranch)
		}

		// Progress - always scoped to the authenticated user
		progress := authed.Group("/progress")
		{
			progress.GET("/branches/:branch_id", hm.progressHandler.GetProgress)
			progress.PUT("/branches/:branch_id", hm.progressHandler.UpdateProgress)
			progress.GET("/completed", hm.progressHandler.GetCompletedBranches)
		}
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "learning-service",
	})
}

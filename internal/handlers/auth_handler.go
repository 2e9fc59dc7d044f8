package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ribbitreels/learning-service/internal/services"
	"github.com/ribbitreels/learning-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	identityService  services.IdentityService
	federatedService services.FederatedIdentityService
}

func NewAuthHandler(
	identityService services.IdentityService,
	federatedService services.FederatedIdentityService,
	logger utils.Logger,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler:      NewBaseHandler(logger),
		identityService:  identityService,
		federatedService: federatedService,
	}
}

// Register creates a local user account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.identityService.Register(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{Data: resp})
}

// RegisterAdmin creates an admin account. Admin-gated in the router.
func (h *AuthHandler) RegisterAdmin(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.identityService.RegisterAdmin(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{Data: resp})
}

// Login authenticates local credentials and returns a signed token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.identityService.Login(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: resp})
}

// GoogleLogin exchanges a Google ID token for a local session token.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req services.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.federatedService.LoginWithGoogle(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: resp})
}

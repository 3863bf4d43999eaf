package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/horseradish/comparebot/internal/config"
	"github.com/horseradish/comparebot/internal/middleware"
	"github.com/horseradish/comparebot/internal/services"
	"github.com/horseradish/comparebot/pkg/response"
	"gorm.io/gorm"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthHandler {
	return &AuthHandler{
		authService: services.NewAuthService(db, jwtCfg),
	}
}

// Login handles client login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

// GetCurrentClient returns the authenticated client account
// GET /api/auth/me
func (h *AuthHandler) GetCurrentClient(c *gin.Context) {
	clientID := middleware.GetClientID(c)
	client, err := h.authService.GetClient(clientID)
	if err != nil {
		response.Error(c, response.NewNotFound("client not found"))
		return
	}

	response.Success(c, client)
}

// Logout handles client logout (client-side token removal)
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	response.Success(c, gin.H{"message": "logged out successfully"})
}

// SeedDemoClientIfNotExists creates the demo client account
func (h *AuthHandler) SeedDemoClientIfNotExists() error {
	return h.authService.SeedDemoClientIfNotExists()
}

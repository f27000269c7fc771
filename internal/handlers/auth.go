package handlers

import (
	"net/http"

	"salespulse/internal/auth"
	"salespulse/internal/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	log *zap.Logger
}

func NewAuthHandler(log *zap.Logger) *AuthHandler {
	return &AuthHandler{log: log}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks the credentials and returns a session token valid for eight
// hours.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	result, err := auth.Authenticate(c.Request.Context(), config.Conf.Auth.JWTSecret, req.Username, req.Password)
	if err != nil {
		h.log.Error("Failed to issue session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}
	if !result.Success {
		c.JSON(http.StatusUnauthorized, gin.H{"error": result.Error})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"token":       result.Token,
		"session":     result.Session,
		"permissions": auth.Permissions(result.Session.Role),
	})
}

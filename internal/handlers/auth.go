package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/practicehub/catalog-api/internal/constants"
	"github.com/practicehub/catalog-api/internal/dto"
	apierrors "github.com/practicehub/catalog-api/internal/errors"
	"github.com/practicehub/catalog-api/internal/middleware"
	"github.com/practicehub/catalog-api/internal/security"
	"github.com/practicehub/catalog-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService  *services.AuthService
	tokens       *security.TokenManager
	secureCookie bool
	logger       *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, tokens *security.TokenManager, secureCookie bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokens:       tokens,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

func (h *AuthHandler) setAuthCookies(c *gin.Context, userID uint64, isStaff bool) error {
	access, err := h.tokens.GenerateAccessToken(userID, isStaff)
	if err != nil {
		return err
	}
	refresh, err := h.tokens.GenerateRefreshToken(userID, isStaff)
	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.AccessCookieName, access,
		int(h.tokens.AccessTTL().Seconds()), "/", "", h.secureCookie, true)
	c.SetCookie(constants.RefreshCookieName, refresh,
		int(h.tokens.RefreshTTL().Seconds()), "/", "", h.secureCookie, true)
	return nil
}

func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.AccessCookieName, "", -1, "/", "", h.secureCookie, true)
	c.SetCookie(constants.RefreshCookieName, "", -1, "/", "", h.secureCookie, true)
}

// Register creates a new user account.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Username        string `json:"username" binding:"required"`
		Email           string `json:"email"`
		Password        string `json:"password" binding:"required"`
		PasswordConfirm string `json:"password_confirm" binding:"required"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login verifies credentials and sets the token cookies.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	if err := h.setAuthCookies(c, user.ID, user.IsStaff); err != nil {
		h.logger.Error("failed to issue tokens", zap.Error(err))
		apierrors.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Refresh rotates the token pair from the refresh cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	raw, err := c.Cookie(constants.RefreshCookieName)
	if err != nil || raw == "" {
		apierrors.Unauthorized(c, "Refresh token missing")
		return
	}

	claims, err := h.tokens.Parse(raw, security.UseRefresh)
	if err != nil {
		apierrors.Unauthorized(c, "Invalid refresh token")
		return
	}

	// Re-read the user so a staff flag change takes effect on rotation.
	user, err := h.authService.GetUser(claims.UserID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	if err := h.setAuthCookies(c, user.ID, user.IsStaff); err != nil {
		h.logger.Error("failed to issue tokens", zap.Error(err))
		apierrors.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Token refreshed"})
}

// Logout clears the token cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"detail": "Logged out"})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	actor := middleware.GetActor(c)
	if actor == nil {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(actor.ID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

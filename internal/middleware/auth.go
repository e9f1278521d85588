package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/practicehub/catalog-api/internal/constants"
	apierrors "github.com/practicehub/catalog-api/internal/errors"
	"github.com/practicehub/catalog-api/internal/policy"
	"github.com/practicehub/catalog-api/internal/security"
)

// tokenFromRequest pulls the access token from the auth cookie, falling back
// to a bearer header for non-browser clients.
func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(constants.AccessCookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func authenticate(c *gin.Context, tokens *security.TokenManager) bool {
	raw := tokenFromRequest(c)
	if raw == "" {
		return false
	}
	claims, err := tokens.Parse(raw, security.UseAccess)
	if err != nil {
		return false
	}
	c.Set(constants.ContextKeyUserID, claims.UserID)
	c.Set(constants.ContextKeyIsStaff, claims.IsStaff)
	return true
}

// RequireAuth rejects requests without a valid access token.
func RequireAuth(tokens *security.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, tokens) {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth resolves the caller's identity when a valid token is present
// but lets anonymous requests through. List endpoints use it so visibility
// filtering can widen for authenticated callers.
func OptionalAuth(tokens *security.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, tokens)
		c.Next()
	}
}

// RequireStaff rejects requests whose caller is not a staff user. Must run
// after RequireAuth.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		if !policy.CanWriteReference(actor) {
			apierrors.Forbidden(c, "Staff access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetActor returns the authenticated caller, or nil for anonymous requests.
func GetActor(c *gin.Context) *policy.Actor {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return nil
	}
	id, ok := userID.(uint64)
	if !ok {
		return nil
	}
	isStaff, _ := c.Get(constants.ContextKeyIsStaff)
	staff, _ := isStaff.(bool)
	return &policy.Actor{ID: id, IsStaff: staff}
}

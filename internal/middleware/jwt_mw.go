package middleware

import (
	"net/http"
	"strings"

	"task_manager/internal/model"
	"task_manager/internal/repository"
	"task_manager/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey    = "authUser"
	AuthRoleKey    = "authRole"
	AuthAccountKey = "authAccount"
)

// Cookies carrying the session token of each tier
const (
	UserTokenCookie  = "token"
	AdminTokenCookie = "admin_token"
)

// MsgUnauthorized is the only body any authentication failure produces
const MsgUnauthorized = "No autorizado"

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"mensaje": MsgUnauthorized})
}

// extractToken reads the token from cookieName, falling back to the
// Authorization: Bearer header. The cookie wins when both are present.
func extractToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// JWTAuthMiddleware creates a middleware for JWT authentication
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c, cookieName)
		if tokenString == "" {
			abortUnauthorized(c)
			return
		}

		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		// Set account information in context
		c.Set(AuthUserKey, claims.AccountID)
		c.Set(AuthRoleKey, claims.Role)

		c.Next()
	}
}

// SubjectMiddleware loads the token subject from repo and rejects tokens
// whose account no longer exists.
func SubjectMiddleware(repo repository.AccountRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := c.Get(AuthUserKey)
		accountID, isInt := id.(int64)
		if !ok || !isInt {
			abortUnauthorized(c)
			return
		}

		account, err := repo.FindByID(c.Request.Context(), accountID)
		if err != nil || account == nil {
			abortUnauthorized(c)
			return
		}
		c.Set(AuthAccountKey, account)
		c.Next()
	}
}

// RequireUser is the middleware chain of end user routes
func RequireUser(jwtUtil *utils.JWTUtil, store repository.Store) gin.HandlersChain {
	return gin.HandlersChain{
		JWTAuthMiddleware(jwtUtil, UserTokenCookie),
		UserMiddleware(),
		SubjectMiddleware(store.Users()),
	}
}

// RequireAdmin is the middleware chain of admin routes
func RequireAdmin(jwtUtil *utils.JWTUtil, store repository.Store) gin.HandlersChain {
	return gin.HandlersChain{
		JWTAuthMiddleware(jwtUtil, AdminTokenCookie),
		AdminMiddleware(),
		SubjectMiddleware(store.Admins()),
	}
}

// AuthAccountID returns the authenticated account ID
func AuthAccountID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(AuthUserKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// AuthAccount returns the account loaded by SubjectMiddleware
func AuthAccount(c *gin.Context) (*model.Account, bool) {
	v, ok := c.Get(AuthAccountKey)
	if !ok {
		return nil, false
	}
	account, ok := v.(*model.Account)
	return account, ok
}

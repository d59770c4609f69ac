package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tstore_backend/internal/auth"
	"tstore_backend/internal/httpx"
	"tstore_backend/internal/models"
)

const userContextKey = "currentUser"

// UserLoader resolves a token's embedded identity to a user record.
type UserLoader interface {
	ByID(ctx context.Context, id string) (*models.User, error)
}

type Auth struct {
	secret string
	users  UserLoader
}

func NewAuth(secret string, users UserLoader) *Auth {
	return &Auth{secret: secret, users: users}
}

// LoggedIn extracts the bearer token — cookie first, then Authorization
// header, then body field — verifies it and attaches the resolved user to
// the request context.
func (a *Auth) LoggedIn() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			httpx.Abort(c, httpx.NewAppError(http.StatusUnauthorized, "you are not logged in"))
			return
		}

		claims, err := auth.VerifyToken(token, a.secret)
		if err != nil {
			httpx.Abort(c, httpx.NewAppError(http.StatusUnauthorized, "token is invalid or expired"))
			return
		}

		user, err := a.users.ByID(c.Request.Context(), claims.UserID)
		if err != nil {
			httpx.Abort(c, httpx.NewAppError(http.StatusUnauthorized, "user no longer exists"))
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// Role allows the request through only when the attached user's role is in
// the allowed set.
func (a *Auth) Role(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			httpx.Abort(c, httpx.NewAppError(http.StatusUnauthorized, "you are not logged in"))
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		httpx.Abort(c, httpx.NewAppError(http.StatusPaymentRequired, "you are not allowed to access this resource"))
	}
}

// CurrentUser returns the user attached by LoggedIn, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// extractToken checks the three token locations in precedence order.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}

	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return tokenFromBody(c)
}

// tokenFromBody peeks at a JSON body for a token field, restoring the body
// for downstream handlers.
func tokenFromBody(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	bodyBytes, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	var body struct {
		Token string `json:"token"`
	}
	if json.Unmarshal(bodyBytes, &body) != nil {
		return ""
	}
	return body.Token
}

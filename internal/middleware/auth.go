package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/auth"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/store"
)

const (
	sessionKey = "session"
	userIDKey  = "userID"
)

// UserUpserter mirrors the token's profile into the users table and returns the local user.
type UserUpserter interface {
	Upsert(ctx context.Context, p store.Profile) (*models.User, error)
}

// Abort writes err as the JSON error body and stops the chain.
func Abort(c *gin.Context, err error) {
	appErr := apperr.Wrap(err)
	body := gin.H{"error": appErr.Message, "kind": appErr.Kind.String()}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	c.AbortWithStatusJSON(apperr.HTTPStatus(appErr.Kind), body)
}

// AuthMiddleware validates the Bearer token and builds the request's Session.
// The role always comes from the database so role changes apply on the next request.
func AuthMiddleware(secret []byte, users UserUpserter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Get Authorization Header ---
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			Abort(c, apperr.Unauthorized(apperr.MsgLoginRequired))
			return
		}

		// 2. --- Validate Token ---
		claims, err := auth.ValidateToken(secret, parts[1])
		if err != nil {
			Abort(c, apperr.Unauthorized("Invalid or expired token"))
			return
		}

		// 3. --- Mirror the user, read the role ---
		user, err := users.Upsert(c.Request.Context(), store.Profile{
			ExternalID: claims.Subject,
			Name:       claims.Name,
			Email:      claims.Email,
			Image:      claims.Picture,
		})
		if err != nil {
			logger.Error("user upsert failed", zap.String("subject", claims.Subject), zap.Error(err))
			Abort(c, err)
			return
		}

		// 4. --- Success ---
		c.Set(sessionKey, user.Session())
		c.Set(userIDKey, user.ID)
		c.Next()
	}
}

// SessionFrom returns the session stored by AuthMiddleware.
func SessionFrom(c *gin.Context) (models.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return models.Session{}, false
	}
	sess, ok := v.(models.Session)
	return sess, ok
}

// SetSession is used by tests and by handlers that change the caller's role.
func SetSession(c *gin.Context, sess models.Session) {
	c.Set(sessionKey, sess)
	c.Set(userIDKey, sess.UserID)
}

// RequireRole lets the request through only for the listed roles.
// It must run after AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := SessionFrom(c)
		if !ok {
			Abort(c, apperr.Unauthorized(apperr.MsgLoginRequired))
			return
		}
		for _, r := range roles {
			if sess.Role == r {
				c.Next()
				return
			}
		}
		Abort(c, apperr.Forbidden(apperr.MsgAccessDenied))
	}
}

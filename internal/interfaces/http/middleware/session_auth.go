package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/imRyuukii/LoginPage/internal/application/dto"
	"github.com/imRyuukii/LoginPage/internal/domain/models"
	"github.com/imRyuukii/LoginPage/pkg/constants"
	"github.com/imRyuukii/LoginPage/pkg/errors"
)

// SessionResolver looks up a session by id.
type SessionResolver interface {
	CurrentUser(ctx context.Context, sessionID string) (*models.Session, error)
}

// RequireSession resolves the session cookie and stores the session in the
// gin context. Requests without a live session get 401.
func RequireSession(auth SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || id == "" {
			dto.SendError(c, errors.ErrUnauthorized("Login required."))
			return
		}
		session, err := auth.CurrentUser(c.Request.Context(), id)
		if err != nil {
			dto.SendError(c, err)
			return
		}
		c.Set(string(constants.ContextKeySession), session)
		c.Next()
	}
}

// RequireAdmin must run after RequireSession.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFrom(c)
		if session == nil {
			dto.SendError(c, errors.ErrUnauthorized("Login required."))
			return
		}
		if !session.IsAdmin() {
			dto.SendError(c, errors.ErrForbidden("Administrator role required."))
			return
		}
		c.Next()
	}
}

// SessionFrom returns the session stored by RequireSession, or nil.
func SessionFrom(c *gin.Context) *models.Session {
	v, ok := c.Get(string(constants.ContextKeySession))
	if !ok {
		return nil
	}
	session, _ := v.(*models.Session)
	return session
}

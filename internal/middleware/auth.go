package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"ideahub/internal/models"
	"ideahub/internal/services"
	"ideahub/internal/utils"
)

const (
	CheckUserKey = "user"
	IdentityKey  = "identity"
	SessionKey   = "user_id"
)

// UserLoader resolves the user behind a session.
type UserLoader interface {
	Load(ctx context.Context, userID string) (*models.User, error)
}

// LoadUser retrieves user from session and sets the user and its identity
// on the context. Stale sessions (deleted or deactivated users) are cleared.
func LoadUser(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, _ := session.Get(SessionKey).(string)

		if userID != "" {
			user, err := users.Load(c.Request.Context(), userID)
			switch {
			case err == nil:
				c.Set(CheckUserKey, user)
				c.Set(IdentityKey, services.IdentityOf(user))
			case utils.IsErrorCode(err, utils.ErrNotFound), utils.IsErrorCode(err, utils.ErrForbidden):
				session.Clear()
				_ = session.Save()
			default:
				log.WithError(err).WithField("user_id", userID).Warn("failed to load session user")
			}
		}
		c.Next()
	}
}

// CurrentIdentity returns the caller, or nil for anonymous requests.
func CurrentIdentity(c *gin.Context) *services.Identity {
	if v, ok := c.Get(IdentityKey); ok {
		if id, ok := v.(*services.Identity); ok {
			return id
		}
	}
	return nil
}

// CurrentUser returns the loaded user, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CheckUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// WantsJSON reports whether the caller expects a JSON or fragment response
// rather than a full page.
func WantsJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/") ||
		c.GetHeader("HX-Request") == "true" ||
		strings.Contains(c.GetHeader("Accept"), "application/json") ||
		strings.HasPrefix(c.ContentType(), "application/json")
}

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentIdentity(c) == nil {
			abortUnauthenticated(c)
			return
		}
		c.Next()
	}
}

// AdminRequired allows only administrators through.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := CurrentIdentity(c)
		if id == nil {
			abortUnauthenticated(c)
			return
		}
		if !id.IsAdmin() {
			if WantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Admin access required"})
				return
			}
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Redirect", "/login")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	if WantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "You must be logged in"})
		return
	}
	c.Redirect(http.StatusFound, "/login")
	c.Abort()
}

package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/logger"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/session"
)

// Context keys set by LoadSession
const (
	ContextSessionKey = "session"
	ContextTokenKey   = "sessionToken"
	ContextUserIDKey  = "userID"
	ContextRoleKey    = "role"
)

// Redirect targets of the gate
const (
	LoginPath           = "/login"
	CompleteProfilePath = "/student/complete-profile"
	AdminDashboardPath  = "/admin/dashboard"
	StudentHomePath     = "/student/dashboard"
)

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge int
}

// AuthMiddleware gates routes on the server-side session
type AuthMiddleware struct {
	sessions *session.Manager
	cookie   CookieConfig
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions *session.Manager, cookie CookieConfig) *AuthMiddleware {
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = int(sessions.TTL().Seconds())
	}
	return &AuthMiddleware{sessions: sessions, cookie: cookie}
}

// Sessions returns the session manager used by the gate
func (m *AuthMiddleware) Sessions() *session.Manager {
	return m.sessions
}

// SetSessionCookie hands the session token to the browser
func (m *AuthMiddleware) SetSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, token, m.cookie.MaxAge, "/", "", m.cookie.Secure, true)
}

// ClearSessionCookie removes the session cookie
func (m *AuthMiddleware) ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, "", -1, "/", "", m.cookie.Secure, true)
}

// SessionToken returns the raw token of the request cookie
func (m *AuthMiddleware) SessionToken(c *gin.Context) string {
	token, err := c.Cookie(m.cookie.Name)
	if err != nil {
		return ""
	}
	return token
}

// LoadSession resolves the session cookie and stores the session in the
// context. Requests without a live session pass through anonymously.
func (m *AuthMiddleware) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.SessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		sess, err := m.sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, apperrors.ErrSessionNotFound) {
				m.ClearSessionCookie(c)
				c.Next()
				return
			}
			logger.Error().Err(err).Msg("Failed to resolve session")
			HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, sess)
		c.Set(ContextTokenKey, token)
		c.Set(ContextUserIDKey, sess.UserID)
		c.Set(ContextRoleKey, string(sess.Role))
		c.Next()
	}
}

// GetSession returns the session loaded by LoadSession
func GetSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(ContextSessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok && sess != nil
}

// RequireAuthenticated redirects anonymous requests to the login page
func (m *AuthMiddleware) RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetSession(c); !ok {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole redirects requests whose session lacks role to the login page
func (m *AuthMiddleware) RequireRole(role models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := GetSession(c)
		if !ok || sess.Role != role {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireCompleteProfile keeps students with an incomplete profile on the
// profile completion form and sends admins to their dashboard
func (m *AuthMiddleware) RequireCompleteProfile() gin.HandlerFunc {
	return m.completeProfileGate(false)
}

// RequireCompleteProfileOrAdmin is RequireCompleteProfile for pages shared
// with admins, who pass through unchecked
func (m *AuthMiddleware) RequireCompleteProfileOrAdmin() gin.HandlerFunc {
	return m.completeProfileGate(true)
}

func (m *AuthMiddleware) completeProfileGate(allowAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := GetSession(c)
		if !ok {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		if sess.IsAdmin() {
			if allowAdmin {
				c.Next()
				return
			}
			c.Redirect(http.StatusFound, AdminDashboardPath)
			c.Abort()
			return
		}
		if !sess.User.IsProfileComplete {
			c.Redirect(http.StatusFound, CompleteProfilePath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// HomePath returns where a user lands after login
func HomePath(role models.RoleType, profileComplete bool) string {
	switch {
	case role == models.RoleAdmin:
		return AdminDashboardPath
	case !profileComplete:
		return CompleteProfilePath
	default:
		return StudentHomePath
	}
}

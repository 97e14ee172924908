package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	// SessionCookie holds the signed session token.
	SessionCookie = "et_session"

	currentUserKey    = "currentUser"
	currentSessionKey = "currentSession"
)

// AuthMiddleware resolves the session token and, when it is valid, puts the
// user and session into the context. It never aborts; the *Required
// middlewares decide what an anonymous request may do.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		// 2) Cookie
		if tokenStr == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				tokenStr = cookie
			}
		}

		if tokenStr == "" {
			c.Next()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ID == "" {
			c.Next()
			return
		}

		var sess models.Session
		if err := db.Where("id = ? AND user_id = ?", claims.ID, claims.UserID).First(&sess).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				_ = c.Error(err)
			}
			c.Next()
			return
		}
		if !sess.Active(time.Now()) {
			c.Next()
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				_ = c.Error(err)
			}
			c.Next()
			return
		}

		c.Set(currentUserKey, &user)
		c.Set(currentSessionKey, &sess)
		c.Next()
	}
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// ClearUser drops the authenticated user from the rest of the request,
// e.g. after the account was deleted.
func ClearUser(c *gin.Context) {
	c.Set(currentUserKey, (*models.User)(nil))
	c.Set(currentSessionKey, (*models.Session)(nil))
}

// CurrentSession returns the session the request was authenticated with.
func CurrentSession(c *gin.Context) (*models.Session, bool) {
	v, ok := c.Get(currentSessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*models.Session)
	return sess, ok && sess != nil
}

// LoginRequired redirects anonymous requests to the login page.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			target := "/login/?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// APILoginRequired is LoginRequired for JSON endpoints.
func APILoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "login required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// StaffRequired lets only staff through; everybody else gets the forbidden handler.
func StaffRequired(forbidden gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.IsStaff {
			forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// APIStaffRequired is StaffRequired for JSON endpoints.
func APIStaffRequired() gin.HandlerFunc {
	return StaffRequired(func(c *gin.Context) {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "staff only")
	})
}

// SafeNext returns next if it is a local path, otherwise fallback.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}

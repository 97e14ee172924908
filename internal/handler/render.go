package handler

import (
	"net/http"

	"finance-tracker/internal/logger"
	"finance-tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

// render adds the per-request values every page needs: the current user for
// the navigation bar and the CSRF token for forms.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if user, ok := middleware.CurrentUser(c); ok {
		data["currentUser"] = user
	}
	data["csrfField"] = middleware.CSRFField
	data["csrfToken"] = middleware.CSRFToken(c)
	c.HTML(status, name, data)
}

func renderError(c *gin.Context, status int, title, message string) {
	render(c, status, "error.html", gin.H{
		"title":   title,
		"status":  status,
		"message": message,
	})
}

// NotFound is the standard response for missing and not-owned records alike.
func NotFound(c *gin.Context) {
	renderError(c, http.StatusNotFound, "Not found", "The page or record you asked for does not exist.")
}

// Forbidden is used for CSRF failures and staff-only pages.
func Forbidden(c *gin.Context) {
	renderError(c, http.StatusForbidden, "Forbidden", "You are not allowed to do that.")
}

func serverError(c *gin.Context, log *logger.Logger, msg string, err error) {
	_ = c.Error(err)
	log.Error(msg, "err", err, "path", c.Request.URL.Path)
	renderError(c, http.StatusInternalServerError, "Server error", "Something went wrong, please try again.")
}

func currentUserID(c *gin.Context) uint {
	if user, ok := middleware.CurrentUser(c); ok {
		return user.ID
	}
	return 0
}

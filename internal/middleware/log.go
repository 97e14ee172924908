package middleware

import (
	"net/http"

	"finance-tracker/internal/logger"
	"finance-tracker/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuditMiddleware records every mutating request made by a logged-in user.
// Form bodies are not stored: they may carry passwords.
func AuditMiddleware(db *gorm.DB, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			return
		}
		// logout clears the user mid-request; read it after c.Next anyway
		user, ok := CurrentUser(c)
		if !ok {
			return
		}

		userID := user.ID
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		entry := models.AuditLog{
			UserID:    &userID,
			Method:    c.Request.Method,
			Path:      truncate(path, 255),
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: truncate(c.Request.UserAgent(), 255),
		}
		if err := db.Omit("User").Create(&entry).Error; err != nil {
			log.Warn("audit log write failed", "err", err, "path", path)
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

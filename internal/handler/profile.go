package handler

import (
	"errors"
	"net/http"
	"strings"

	"finance-tracker/internal/database"
	"finance-tracker/internal/logger"
	"finance-tracker/internal/middleware"
	"finance-tracker/internal/models"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UpdateProfileForm is the profile update form.
type UpdateProfileForm struct {
	DisplayName string `form:"display_name"`
}

// ChangePasswordForm is the password change form.
type ChangePasswordForm struct {
	OldPassword     string `form:"old_password"`
	NewPassword     string `form:"new_password"`
	ConfirmPassword string `form:"confirm_password"`
}

// DeleteAccountForm asks for the password once more.
type DeleteAccountForm struct {
	Password string `form:"password"`
}

var accountNotices = map[string]string{
	"profile":  "Profile saved.",
	"password": "Password changed. Other sessions were logged out.",
}

func renderAccount(c *gin.Context, status int, extra gin.H) {
	data := gin.H{
		"title":  "Account",
		"errors": FormErrors{},
	}
	if msg, ok := accountNotices[c.Query("saved")]; ok {
		data["notice"] = msg
	}
	for k, v := range extra {
		data[k] = v
	}
	render(c, status, "account.html", data)
}

// AccountPage shows the profile, password and delete-account forms.
func AccountPage(c *gin.Context) {
	renderAccount(c, http.StatusOK, nil)
}

// UpdateProfile updates the current user's display name.
func UpdateProfile(db *gorm.DB, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var form UpdateProfileForm
		_ = c.ShouldBind(&form)
		form.DisplayName = strings.TrimSpace(form.DisplayName)
		if len(form.DisplayName) > 64 {
			renderAccount(c, http.StatusOK, gin.H{
				"errors": FormErrors{"display_name": "display name must be at most 64 characters"},
			})
			return
		}

		if err := db.Model(user).Update("display_name", form.DisplayName).Error; err != nil {
			serverError(c, log, "update profile", err)
			return
		}
		c.Redirect(http.StatusFound, "/account/?saved=profile")
	}
}

// ChangePassword changes the current user's password and revokes other sessions.
func ChangePassword(db *gorm.DB, log *logger.Logger, bcryptCost int) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var form ChangePasswordForm
		_ = c.ShouldBind(&form)

		errs := FormErrors{}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.OldPassword)); err != nil {
			errs.Add("old_password", errors.New("current password is incorrect"))
		}
		errs.Add("new_password", util.ValidatePassword(form.NewPassword))
		if form.NewPassword != form.ConfirmPassword {
			errs.Add("confirm_password", errors.New("the two passwords do not match"))
		}
		if errs.Any() {
			renderAccount(c, http.StatusOK, gin.H{"errors": errs})
			return
		}

		if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
			bcryptCost = bcrypt.DefaultCost
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(form.NewPassword), bcryptCost)
		if err != nil {
			serverError(c, log, "hash password", err)
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(user).Update("password_hash", string(hash)).Error; err != nil {
				return err
			}
			revoke := tx.Model(&models.Session{}).Where("user_id = ?", user.ID)
			if sess, ok := middleware.CurrentSession(c); ok {
				revoke = revoke.Where("id <> ?", sess.ID)
			}
			return revoke.Update("revoked", true).Error
		})
		if err != nil {
			serverError(c, log, "change password", err)
			return
		}
		log.Info("password changed", "user_id", user.ID)
		c.Redirect(http.StatusFound, "/account/?saved=password")
	}
}

// DeleteAccount removes the current user and all of their data at once.
func DeleteAccount(db *gorm.DB, log *logger.Logger, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var form DeleteAccountForm
		_ = c.ShouldBind(&form)
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
			renderAccount(c, http.StatusOK, gin.H{
				"errors": FormErrors{"password": "password is incorrect"},
			})
			return
		}

		if err := database.DeleteUser(db, user.ID); err != nil {
			serverError(c, log, "delete account", err)
			return
		}
		log.Info("account deleted", "user_id", user.ID)

		middleware.ClearUser(c)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.SessionCookie, "", -1, "/", "", secureCookies, true)
		c.Redirect(http.StatusFound, "/login/")
	}
}

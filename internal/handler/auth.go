package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"finance-tracker/internal/logger"
	"finance-tracker/internal/middleware"
	"finance-tracker/internal/models"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedLogins = 5
	lockDuration    = 10 * time.Minute
)

// AuthHandler serves login, registration and logout.
type AuthHandler struct {
	DB            *gorm.DB
	Log           *logger.Logger
	JWTSecret     string
	Issuer        string
	TokenTTL      time.Duration
	BcryptCost    int
	SecureCookies bool
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(db *gorm.DB, log *logger.Logger, jwtSecret, issuer string, ttlHours, bcryptCost int, secureCookies bool) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthHandler{
		DB:            db,
		Log:           log.WithComponent("auth"),
		JWTSecret:     jwtSecret,
		Issuer:        issuer,
		TokenTTL:      time.Duration(ttlHours) * time.Hour,
		BcryptCost:    bcryptCost,
		SecureCookies: secureCookies,
	}
}

// startSession stores a new session row and hands the signed token to the browser.
func (h *AuthHandler) startSession(c *gin.Context, user *models.User) error {
	now := time.Now()
	sess := models.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: now.Add(h.TokenTTL),
		IP:        c.ClientIP(),
	}
	if err := h.DB.Omit("User").Create(&sess).Error; err != nil {
		return err
	}
	token, err := util.GenerateToken(h.JWTSecret, h.Issuer, user.ID, sess.ID, h.TokenTTL)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.TokenTTL.Seconds()), "/", "", h.SecureCookies, true)
	return nil
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.SecureCookies, true)
}

// ---------- register ----------

type registerForm struct {
	Username        string `form:"username"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
	DisplayName     string `form:"display_name"`
}

func (h *AuthHandler) RegisterPage(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	render(c, http.StatusOK, "register.html", gin.H{
		"title":  "Register",
		"form":   registerForm{},
		"errors": FormErrors{},
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var form registerForm
	_ = c.ShouldBind(&form)
	form.Username = strings.TrimSpace(form.Username)
	form.DisplayName = strings.TrimSpace(form.DisplayName)

	errs := FormErrors{}
	errs.Add("username", util.ValidateUsername(form.Username))
	errs.Add("password", util.ValidatePassword(form.Password))
	if form.Password != form.ConfirmPassword {
		errs.Add("confirm_password", errors.New("the two passwords do not match"))
	}
	if len(form.DisplayName) > 64 {
		errs.Add("display_name", errors.New("display name must be at most 64 characters"))
	}

	if !errs.Any() {
		// unique, case-insensitive
		var count int64
		if err := h.DB.Model(&models.User{}).
			Where("LOWER(username) = LOWER(?)", form.Username).
			Count(&count).Error; err != nil {
			serverError(c, h.Log, "check username", err)
			return
		}
		if count > 0 {
			errs.Add("username", errors.New("this username is taken"))
		}
	}

	if errs.Any() {
		form.Password, form.ConfirmPassword = "", ""
		render(c, http.StatusOK, "register.html", gin.H{
			"title":  "Register",
			"form":   form,
			"errors": errs,
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), h.BcryptCost)
	if err != nil {
		serverError(c, h.Log, "hash password", err)
		return
	}

	user := models.User{
		Username:     form.Username,
		PasswordHash: string(hash),
		DisplayName:  form.DisplayName,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		serverError(c, h.Log, "create user", err)
		return
	}
	h.Log.Info("user registered", "user_id", user.ID)

	if err := h.startSession(c, &user); err != nil {
		serverError(c, h.Log, "start session", err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// ---------- login ----------

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	next := middleware.SafeNext(c.Query("next"), "/")
	if _, ok := middleware.CurrentUser(c); ok {
		c.Redirect(http.StatusFound, next)
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{
		"title": "Log in",
		"form":  loginForm{Next: next},
	})
}

func (h *AuthHandler) loginFailed(c *gin.Context, form loginForm, msg string) {
	form.Password = ""
	render(c, http.StatusOK, "login.html", gin.H{
		"title": "Log in",
		"form":  form,
		"error": msg,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	_ = c.ShouldBind(&form)
	form.Username = strings.TrimSpace(form.Username)
	form.Next = middleware.SafeNext(form.Next, "/")

	const badCredentials = "Incorrect username or password."
	if form.Username == "" || form.Password == "" {
		h.loginFailed(c, form, "Enter your username and password.")
		return
	}

	var user models.User
	if err := h.DB.Where("LOWER(username) = LOWER(?)", form.Username).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.loginFailed(c, form, badCredentials)
			return
		}
		serverError(c, h.Log, "load user", err)
		return
	}

	now := time.Now()

	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		h.loginFailed(c, form, "This account is locked, try again later.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
		// lock the account after maxFailedLogins failures in a row
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= maxFailedLogins {
			lockUntil := now.Add(lockDuration)
			user.LockedUntil = &lockUntil
			user.FailedLoginAttempts = 0
			h.Log.Warn("account locked", "user_id", user.ID, "ip", c.ClientIP())
		}
		if err := h.DB.Save(&user).Error; err != nil {
			h.Log.Warn("save failed login", "err", err)
		}
		h.loginFailed(c, form, badCredentials)
		return
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginIP = c.ClientIP()
	user.LastLoginAt = &now
	if err := h.DB.Save(&user).Error; err != nil {
		serverError(c, h.Log, "save login", err)
		return
	}

	if err := h.startSession(c, &user); err != nil {
		serverError(c, h.Log, "start session", err)
		return
	}
	h.Log.Info("user logged in", "user_id", user.ID)
	c.Redirect(http.StatusFound, form.Next)
}

// ---------- logout ----------

func (h *AuthHandler) Logout(c *gin.Context) {
	if sess, ok := middleware.CurrentSession(c); ok {
		if err := h.DB.Model(&models.Session{}).
			Where("id = ?", sess.ID).
			Update("revoked", true).Error; err != nil {
			h.Log.Warn("revoke session", "err", err)
		}
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/login/")
}

// Package handlers maps HTTP requests onto the authenticator's operations.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mwikya/authd/internal/application"
	"github.com/mwikya/authd/internal/infrastructure/postgres"
	"github.com/mwikya/authd/pkg/helpers"
	"github.com/mwikya/authd/pkg/response"
	"github.com/mwikya/authd/pkg/validation"
)

type UserHandler struct {
	Auth    *application.Authenticator
	Logger  *logrus.Logger
	Cookies *helpers.Manager
	Audit   *postgres.AuditLogger
}

func NewUserHandler(auth *application.Authenticator, logger *logrus.Logger, audit *postgres.AuditLogger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Auth: auth, Logger: logger, Audit: audit, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

// Register - POST /api/users
func (h *UserHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error(c, http.StatusConflict, "email already registered", nil)
			return
		}
		h.Logger.WithError(err).Error("register failed")
		response.Error(c, http.StatusInternalServerError, "registration failed", nil)
		return
	}
	h.Audit.Record(c.Request.Context(), u.ID, u.Email, "register", clientIP(c), c.GetHeader("User-Agent"), nil)
	response.Success(c, http.StatusCreated, gin.H{"id": u.ID, "email": u.Email}, "user created")
}

// Login - POST /api/sessions
// Unknown email and wrong password produce the same generic 401.
func (h *UserHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	ok, err := h.Auth.VerifyLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Logger.WithError(err).Error("login check failed")
		response.Error(c, http.StatusInternalServerError, "login failed", nil)
		return
	}
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	token, err := h.Auth.CreateSession(c.Request.Context(), req.Email)
	if err != nil {
		h.Logger.WithError(err).Error("session create failed")
		response.Error(c, http.StatusInternalServerError, "login failed", nil)
		return
	}
	if token == "" {
		// account disappeared between the check and the session write
		response.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	h.Cookies.SetSession(c, token)
	h.Audit.Record(c.Request.Context(), "", req.Email, "login", clientIP(c), c.GetHeader("User-Agent"), nil)
	response.Success(c, http.StatusOK, gin.H{"email": req.Email}, "logged in")
}

// Logout - DELETE /api/sessions (auth required)
func (h *UserHandler) Logout(c *gin.Context) {
	uid := c.GetString("userID")
	if err := h.Auth.DestroySession(c.Request.Context(), uid); err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("session destroy failed")
		response.Error(c, http.StatusInternalServerError, "logout failed", nil)
		return
	}
	h.Cookies.Clear(c)
	h.Audit.Record(c.Request.Context(), uid, "", "logout", clientIP(c), c.GetHeader("User-Agent"), nil)
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, "logged out")
}

// Profile - GET /api/profile (auth required)
func (h *UserHandler) Profile(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"id":    c.GetString("userID"),
		"email": c.GetString("userEmail"),
	}, "profile")
}

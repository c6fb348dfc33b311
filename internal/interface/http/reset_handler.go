package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mwikya/authd/config"
	"github.com/mwikya/authd/internal/application"
	"github.com/mwikya/authd/internal/infrastructure/postgres"
	"github.com/mwikya/authd/pkg/helpers"
	"github.com/mwikya/authd/pkg/mailer"
	tpl "github.com/mwikya/authd/pkg/mailer/templates"
	"github.com/mwikya/authd/pkg/response"
	"github.com/mwikya/authd/pkg/validation"
)

// ResetHandler drives the password reset flow: token issuance (with an
// email carrying the reset link) and the one-shot password update.
type ResetHandler struct {
	Auth   *application.Authenticator
	Logger *logrus.Logger
	Cfg    *config.Config
	Pub    *helpers.RabbitPublisher
	Audit  *postgres.AuditLogger
}

func NewResetHandler(auth *application.Authenticator, logger *logrus.Logger, cfg *config.Config, pub *helpers.RabbitPublisher, audit *postgres.AuditLogger) *ResetHandler {
	return &ResetHandler{Auth: auth, Logger: logger, Cfg: cfg, Pub: pub, Audit: audit}
}

// ResetInit - POST /api/reset_password {email}
func (h *ResetHandler) ResetInit(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	token, err := h.Auth.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, application.ErrUnknownEmail) {
			h.Audit.Record(c.Request.Context(), "", req.Email, "reset_init_unknown", clientIP(c), c.GetHeader("User-Agent"), nil)
			response.Error(c, http.StatusForbidden, "email not registered", nil)
			return
		}
		h.Logger.WithError(err).Error("reset token issue failed")
		response.Error(c, http.StatusInternalServerError, "reset failed", nil)
		return
	}

	link := h.Cfg.ResetPasswordURL + "?token=" + token
	h.enqueueResetEmail(c, req.Email, link)
	h.Audit.Record(c.Request.Context(), "", req.Email, "reset_init_issue", clientIP(c), c.GetHeader("User-Agent"), nil)
	response.Success(c, http.StatusOK, gin.H{"email": req.Email, "reset_token": token}, "reset token issued")
}

// ResetConfirm - PUT /api/reset_password {reset_token, new_password}
func (h *ResetHandler) ResetConfirm(c *gin.Context) {
	var req struct {
		Token       string `json:"reset_token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,pwd"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	if err := h.Auth.UpdatePassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, application.ErrInvalidResetToken) {
			response.Error(c, http.StatusForbidden, "invalid reset token", nil)
			return
		}
		h.Logger.WithError(err).Error("password update failed")
		response.Error(c, http.StatusInternalServerError, "password update failed", nil)
		return
	}
	h.Audit.Record(c.Request.Context(), "", "", "reset_confirm", clientIP(c), c.GetHeader("User-Agent"), map[string]any{"token": "redacted"})
	response.Success(c, http.StatusOK, gin.H{"updated": true}, "password updated")
}

func (h *ResetHandler) enqueueResetEmail(c *gin.Context, email, link string) {
	if h.Pub == nil || h.Cfg == nil || !h.Cfg.MailSendEnabled {
		return
	}
	data := tpl.ResetPasswordData{
		AppName:   h.Cfg.AppName,
		Email:     email,
		ResetURL:  link,
		Requested: time.Now().UTC(),
		IP:        clientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
	}
	job := mailer.EmailJob{
		ID:       uuid.NewString(),
		To:       email,
		Template: tpl.ResetPassword,
		Data: map[string]any{
			"AppName":   data.AppName,
			"Email":     data.Email,
			"ResetURL":  data.ResetURL,
			"Requested": data.Requested.Format(time.RFC3339),
			"IP":        data.IP,
			"UserAgent": data.UserAgent,
		},
	}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
		h.Logger.WithError(err).Warn("reset email enqueue failed")
	}
}

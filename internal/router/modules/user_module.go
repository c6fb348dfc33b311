package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/mwikya/authd/internal/application"
	handlers "github.com/mwikya/authd/internal/interface/http"
	"github.com/mwikya/authd/internal/interface/middleware"
)

// UserModule wires registration, login, and session routes.
// Public: POST /api/users, POST /api/sessions
// Protected: DELETE /api/sessions, GET /api/profile
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    *application.Authenticator
}

func NewUserModule(h *handlers.UserHandler, auth *application.Authenticator) *UserModule {
	return &UserModule{Handler: h, Auth: auth}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.POST("/users", m.Handler.Register)
	rg.POST("/sessions", m.Handler.Login)

	authed := rg.Group("/")
	authed.Use(middleware.SessionAuth(m.Auth))
	{
		authed.DELETE("/sessions", m.Handler.Logout)
		authed.GET("/profile", m.Handler.Profile)
	}
}

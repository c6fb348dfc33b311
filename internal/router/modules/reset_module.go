package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/mwikya/authd/internal/interface/http"
)

// ResetModule wires the password reset flow. Both endpoints are public:
// the reset token itself is the credential for the PUT.
type ResetModule struct {
	Handler *handlers.ResetHandler
}

func NewResetModule(h *handlers.ResetHandler) *ResetModule {
	return &ResetModule{Handler: h}
}

func (m *ResetModule) Register(rg *gin.RouterGroup) {
	rg.POST("/reset_password", m.Handler.ResetInit)
	rg.PUT("/reset_password", m.Handler.ResetConfirm)
}

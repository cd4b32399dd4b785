package consoleweb

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"hrms/internal/console"
)

const workspaceKey = "console.workspace"

// session resolves the cookie to a workspace, starting a new session when the
// cookie is missing or has expired.
func (h *Handler) session(c *gin.Context) {
	if id, err := c.Cookie(h.cookie); err == nil {
		if ws, ok := h.sessions.Get(id); ok {
			c.Set(workspaceKey, ws)
			c.Next()
			return
		}
	}
	id, ws := h.sessions.Create()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie, id, 0, "/", "", h.secure, true)
	c.Set(workspaceKey, ws)
	c.Next()
}

func workspace(c *gin.Context) *console.Workspace {
	return c.MustGet(workspaceKey).(*console.Workspace)
}

// RegisterMetrics exposes the live session count.
func RegisterMetrics(reg prometheus.Registerer, sessions *console.Sessions) {
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "hrms_console",
		Name:      "sessions_active",
		Help:      "Console sessions currently held in memory.",
	}, func() float64 { return float64(sessions.Len()) }))
}

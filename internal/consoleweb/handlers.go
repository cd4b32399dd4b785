package consoleweb

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hrms/internal/api"
	"hrms/internal/console"
	"hrms/internal/model"
)

type Options struct {
	// Cookie names the session cookie.
	Cookie string
	Secure bool
	Logger *zap.Logger
}

// Handler exposes the console screens of each browser session as JSON view state.
type Handler struct {
	sessions *console.Sessions
	cookie   string
	secure   bool
	log      *zap.Logger
}

func NewHandler(sessions *console.Sessions, opts Options) *Handler {
	if opts.Cookie == "" {
		opts.Cookie = "hrms_console"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Handler{sessions: sessions, cookie: opts.Cookie, secure: opts.Secure, log: opts.Logger}
}

type fieldEdit struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/console", h.session)

	g.GET("/view", h.view)
	g.DELETE("/notification", h.dismiss)

	g.GET("/dashboard", func(c *gin.Context) {
		s := workspace(c).ActivateDashboard()
		h.render(c, s, s.Load(c.Request.Context()))
	})
	g.POST("/dashboard/retry", onActive(h, func(ctx context.Context, s *console.DashboardController) error {
		return s.Retry(ctx)
	}))

	g.GET("/employees", func(c *gin.Context) {
		s := workspace(c).ActivateDirectory()
		h.render(c, s, s.Load(c.Request.Context()))
	})
	g.POST("/employees/retry", onActive(h, func(ctx context.Context, s *console.DirectoryController) error {
		return s.Load(ctx)
	}))
	g.POST("/employees/modal", onActive(h, func(_ context.Context, s *console.DirectoryController) error {
		return s.OpenCreate()
	}))
	g.DELETE("/employees/modal", onActive(h, func(_ context.Context, s *console.DirectoryController) error {
		s.CancelCreate()
		return nil
	}))
	g.PATCH("/employees/draft", h.editField(func(c *gin.Context, e fieldEdit) {
		onActive(h, func(_ context.Context, s *console.DirectoryController) error {
			return s.SetField(e.Field, e.Value)
		})(c)
	}))
	g.POST("/employees/draft/submit", onActive(h, func(ctx context.Context, s *console.DirectoryController) error {
		return s.Submit(ctx)
	}))
	g.POST("/employees/:id/delete-confirm", func(c *gin.Context) {
		onActive(h, func(_ context.Context, s *console.DirectoryController) error {
			return s.RequestDelete(c.Param("id"))
		})(c)
	})
	g.DELETE("/employees/delete-confirm", onActive(h, func(_ context.Context, s *console.DirectoryController) error {
		s.CancelDelete()
		return nil
	}))
	g.POST("/employees/:id/delete", func(c *gin.Context) {
		onActive(h, func(ctx context.Context, s *console.DirectoryController) error {
			return s.Remove(ctx, c.Param("id"))
		})(c)
	})
	g.GET("/employees/:id/profile", h.profile)

	g.GET("/attendance", func(c *gin.Context) {
		s := workspace(c).ActivateAttendance()
		h.render(c, s, s.Load(c.Request.Context()))
	})
	g.POST("/attendance/retry", onActive(h, func(ctx context.Context, s *console.AttendanceController) error {
		return s.Load(ctx)
	}))
	g.POST("/attendance/filter", func(c *gin.Context) {
		var r model.DateRange
		if err := c.ShouldBindJSON(&r); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": api.FormatBindingError(err)})
			return
		}
		onActive(h, func(ctx context.Context, s *console.AttendanceController) error {
			return s.ApplyFilter(ctx, r)
		})(c)
	})
	g.DELETE("/attendance/filter", onActive(h, func(ctx context.Context, s *console.AttendanceController) error {
		return s.ClearFilter(ctx)
	}))
	g.POST("/attendance/modal", onActive(h, func(_ context.Context, s *console.AttendanceController) error {
		return s.OpenMark()
	}))
	g.DELETE("/attendance/modal", onActive(h, func(_ context.Context, s *console.AttendanceController) error {
		s.CancelMark()
		return nil
	}))
	g.PATCH("/attendance/draft", h.editField(func(c *gin.Context, e fieldEdit) {
		onActive(h, func(_ context.Context, s *console.AttendanceController) error {
			return s.SetField(e.Field, e.Value)
		})(c)
	}))
	g.POST("/attendance/draft/submit", onActive(h, func(ctx context.Context, s *console.AttendanceController) error {
		return s.MarkAttendance(ctx)
	}))
}

// onActive runs fn against the workspace's active screen, which must be a T.
func onActive[T console.Screen](h *Handler, fn func(ctx context.Context, s T) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := console.ActiveAs[T](workspace(c))
		if err != nil {
			h.reject(c, err)
			return
		}
		h.render(c, s, fn(c.Request.Context(), s))
	}
}

func (h *Handler) editField(next func(*gin.Context, fieldEdit)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var e fieldEdit
		if err := c.ShouldBindJSON(&e); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": api.FormatBindingError(err)})
			return
		}
		next(c, e)
	}
}

func (h *Handler) profile(c *gin.Context) {
	var r model.DateRange
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": api.FormatBindingError(err)})
		return
	}
	s := workspace(c).ActivateProfile()
	h.render(c, s, s.Load(c.Request.Context(), c.Param("id"), r))
}

func (h *Handler) view(c *gin.Context) {
	s := workspace(c).Active()
	if s == nil {
		h.reject(c, console.ErrNotActive)
		return
	}
	h.render(c, s, nil)
}

func (h *Handler) dismiss(c *gin.Context) {
	s := workspace(c).Active()
	if s == nil {
		h.reject(c, console.ErrNotActive)
		return
	}
	s.Notifier().Dismiss()
	h.render(c, s, nil)
}

// render writes the screen's view. Store failures are already reflected in
// the view as a load error or a notification, so they still answer 200.
func (h *Handler) render(c *gin.Context, s console.Screen, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, viewOf(s))
	case errors.Is(err, console.ErrInvalidDraft):
		c.JSON(http.StatusUnprocessableEntity, viewOf(s))
	case statusOf(err) != 0:
		h.reject(c, err)
	default:
		c.JSON(http.StatusOK, viewOf(s))
	}
}

func (h *Handler) reject(c *gin.Context, err error) {
	code := statusOf(err)
	if code == 0 {
		code = http.StatusInternalServerError
		h.log.Error("console request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(code, gin.H{"detail": strings.TrimPrefix(err.Error(), "console: ")})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, console.ErrBusy),
		errors.Is(err, console.ErrNotConfirmed),
		errors.Is(err, console.ErrMarkingDisabled),
		errors.Is(err, console.ErrModalClosed),
		errors.Is(err, console.ErrNotActive),
		errors.Is(err, console.ErrClosed):
		return http.StatusConflict
	case errors.Is(err, console.ErrUnknownField), errors.Is(err, console.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, console.ErrUnknownEmployee):
		return http.StatusNotFound
	}
	return 0
}

func viewOf(s console.Screen) any {
	switch s := s.(type) {
	case *console.DashboardController:
		return s.View()
	case *console.DirectoryController:
		return s.View()
	case *console.AttendanceController:
		return s.View()
	case *console.ProfileController:
		return s.View()
	}
	return nil
}

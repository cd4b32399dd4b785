package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hrms/internal/attendance"
	"hrms/internal/model"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// Handler serves the employee, attendance and dashboard resources.
type Handler struct {
	svc *attendance.Service
	log *zap.Logger
}

func NewHandler(svc *attendance.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

// Register mounts the resource routes under /api.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.root)

	g := r.Group("/api")
	g.GET("/employees", h.listEmployees)
	g.POST("/employees", h.createEmployee)
	g.GET("/employees/:id", h.getEmployee)
	g.DELETE("/employees/:id", h.deleteEmployee)

	g.POST("/attendance", h.markAttendance)
	g.GET("/attendance", h.listAttendance)
	g.GET("/attendance/employee/:id", h.listEmployeeAttendance)
	g.GET("/attendance/stats/employee/:id", h.employeeStats)

	g.GET("/dashboard/stats", h.dashboardStats)
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to HRMS Lite API", "docs": "/docs", "version": Version})
}

// fail writes err as a {"detail"} body with the status its kind maps to.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, attendance.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": detailOf(err, "Not found")})
	case errors.Is(err, attendance.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"detail": detailOf(err, "Conflict")})
	case errors.Is(err, attendance.ErrInvalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": detailOf(err, "Invalid request")})
	default:
		h.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}

func detailOf(err error, fallback string) string {
	var ae *attendance.Error
	if errors.As(err, &ae) && ae.Detail != "" {
		return ae.Detail
	}
	return fallback
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": FormatBindingError(err)})
}

func (h *Handler) listEmployees(c *gin.Context) {
	employees, err := h.svc.ListEmployees(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

func (h *Handler) createEmployee(c *gin.Context) {
	var in model.EmployeeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, err)
		return
	}
	e, err := h.svc.CreateEmployee(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) getEmployee(c *gin.Context) {
	e, err := h.svc.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) deleteEmployee(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.DeleteEmployee(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Employee '%s' deleted successfully", id)})
}

func (h *Handler) markAttendance(c *gin.Context) {
	var in model.AttendanceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, err)
		return
	}
	rec, err := h.svc.MarkAttendance(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) bindRange(c *gin.Context) (model.DateRange, bool) {
	var r model.DateRange
	if err := c.ShouldBindQuery(&r); err != nil {
		h.badRequest(c, err)
		return r, false
	}
	return r, true
}

func (h *Handler) listAttendance(c *gin.Context) {
	r, ok := h.bindRange(c)
	if !ok {
		return
	}
	recs, err := h.svc.ListAttendance(c.Request.Context(), r)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *Handler) listEmployeeAttendance(c *gin.Context) {
	r, ok := h.bindRange(c)
	if !ok {
		return
	}
	recs, err := h.svc.ListEmployeeAttendance(c.Request.Context(), c.Param("id"), r)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *Handler) employeeStats(c *gin.Context) {
	stats, err := h.svc.EmployeeStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) dashboardStats(c *gin.Context) {
	stats, err := h.svc.DashboardStats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

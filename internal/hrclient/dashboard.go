package hrclient

import (
	"context"
	"net/http"

	"hrms/internal/model"
)

// DashboardStats fetches the aggregate snapshot for today.
func (c *Client) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	var out model.DashboardStats
	if err := c.do(ctx, "dashboard stats", http.MethodGet, "/api/dashboard/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	if out.Departments == nil {
		out.Departments = []model.DepartmentCount{}
	}
	if out.RecentAttendance == nil {
		out.RecentAttendance = []model.RecentAttendance{}
	}
	return &out, nil
}

package hrclient

import (
	"context"
	"net/http"
	"net/url"

	"hrms/internal/model"
)

func rangeQuery(r model.DateRange) url.Values {
	q := url.Values{}
	if r.StartDate != "" {
		q.Set("start_date", r.StartDate)
	}
	if r.EndDate != "" {
		q.Set("end_date", r.EndDate)
	}
	return q
}

func nonNil(recs []model.AttendanceRecord) []model.AttendanceRecord {
	if recs == nil {
		return []model.AttendanceRecord{}
	}
	return recs
}

// ListAttendance returns all records within r, newest date first.
func (c *Client) ListAttendance(ctx context.Context, r model.DateRange) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	if err := c.do(ctx, "list attendance", http.MethodGet, "/api/attendance", rangeQuery(r), nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// ListEmployeeAttendance returns one employee's records within r.
func (c *Client) ListEmployeeAttendance(ctx context.Context, employeeID string, r model.DateRange) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	path := "/api/attendance/employee/" + escape(employeeID)
	if err := c.do(ctx, "list employee attendance", http.MethodGet, path, rangeQuery(r), nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// EmployeeAttendanceStats returns present/absent totals for one employee.
func (c *Client) EmployeeAttendanceStats(ctx context.Context, employeeID string) (*model.EmployeeAttendanceStats, error) {
	var out model.EmployeeAttendanceStats
	path := "/api/attendance/stats/employee/" + escape(employeeID)
	if err := c.do(ctx, "employee attendance stats", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkAttendance records a status for an employee on a date. Marking the same
// employee and date again replaces the earlier status.
func (c *Client) MarkAttendance(ctx context.Context, in model.AttendanceInput) (*model.AttendanceRecord, error) {
	var out model.AttendanceRecord
	if err := c.do(ctx, "mark attendance", http.MethodPost, "/api/attendance", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

package hrclient

import (
	"context"
	"net/http"

	"hrms/internal/model"
)

// ListEmployees returns every employee, newest first.
func (c *Client) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	var out []model.Employee
	if err := c.do(ctx, "list employees", http.MethodGet, "/api/employees", nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Employee{}
	}
	return out, nil
}

// GetEmployee fetches one employee by its business id.
func (c *Client) GetEmployee(ctx context.Context, employeeID string) (*model.Employee, error) {
	var out model.Employee
	if err := c.do(ctx, "get employee", http.MethodGet, "/api/employees/"+escape(employeeID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEmployee adds an employee and returns the stored record.
func (c *Client) CreateEmployee(ctx context.Context, in model.EmployeeInput) (*model.Employee, error) {
	var out model.Employee
	if err := c.do(ctx, "create employee", http.MethodPost, "/api/employees", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteEmployee removes an employee and, on the store side, their attendance.
func (c *Client) DeleteEmployee(ctx context.Context, employeeID string) error {
	return c.do(ctx, "delete employee", http.MethodDelete, "/api/employees/"+escape(employeeID), nil, nil, nil)
}

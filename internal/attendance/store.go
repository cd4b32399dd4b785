package attendance

import (
	"context"
	"time"

	"hrms/internal/model"
)

// Store persists employees and their attendance marks.
// Lookups return nil, nil when the row does not exist.
type Store interface {
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	GetEmployee(ctx context.Context, employeeID string) (*model.Employee, error)
	GetEmployeeByEmail(ctx context.Context, email string) (*model.Employee, error)
	InsertEmployee(ctx context.Context, in model.EmployeeInput, createdAt time.Time) (model.Employee, error)
	// DeleteEmployee removes the employee and their attendance; false when absent.
	DeleteEmployee(ctx context.Context, employeeID string) (bool, error)

	// UpsertAttendance inserts the mark or, for an existing employee and date,
	// replaces its status and marked_at.
	UpsertAttendance(ctx context.Context, in model.AttendanceInput, markedAt time.Time) (model.AttendanceRecord, error)
	// ListAttendance returns marks in r, date desc then marked_at desc, with
	// employee_name joined. An empty employeeID lists everyone.
	ListAttendance(ctx context.Context, employeeID string, r model.DateRange) ([]model.AttendanceRecord, error)
	StatusCounts(ctx context.Context, employeeID, date string) (present, absent int, err error)

	CountEmployees(ctx context.Context) (int, error)
	DepartmentCounts(ctx context.Context) ([]model.DepartmentCount, error)
	RecentAttendance(ctx context.Context, limit int) ([]model.RecentAttendance, error)
	Ping(ctx context.Context) error
}

package console

import (
	"context"
	"time"

	"go.uber.org/zap"

	"hrms/internal/model"
)

// EmployeeStore is what the directory screen needs from the remote store.
type EmployeeStore interface {
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	CreateEmployee(ctx context.Context, in model.EmployeeInput) (*model.Employee, error)
	DeleteEmployee(ctx context.Context, employeeID string) error
}

type AttendanceStore interface {
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	ListAttendance(ctx context.Context, r model.DateRange) ([]model.AttendanceRecord, error)
	MarkAttendance(ctx context.Context, in model.AttendanceInput) (*model.AttendanceRecord, error)
}

type DashboardStore interface {
	DashboardStats(ctx context.Context) (*model.DashboardStats, error)
}

type ProfileStore interface {
	GetEmployee(ctx context.Context, employeeID string) (*model.Employee, error)
	ListEmployeeAttendance(ctx context.Context, employeeID string, r model.DateRange) ([]model.AttendanceRecord, error)
	EmployeeAttendanceStats(ctx context.Context, employeeID string) (*model.EmployeeAttendanceStats, error)
}

// Store is the full remote surface; *hrclient.Client satisfies it.
type Store interface {
	EmployeeStore
	AttendanceStore
	DashboardStore
	ProfileStore
}

// Options are shared by every screen controller.
type Options struct {
	NotifyTTL time.Duration
	Logger    *zap.Logger
	// Now supplies the clock used for default dates.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.NotifyTTL <= 0 {
		o.NotifyTTL = DefaultNotifyTTL
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

package attendance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"hrms/internal/model"
)

// RecentLimit is how many marks the dashboard lists.
const RecentLimit = 5

var validate = validator.New()

// Service applies the HR rules on top of a Store.
type Service struct {
	store Store
	now   func() time.Time
	log   *zap.Logger
}

// NewService creates a service backed by a store.
func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, now: time.Now, log: log}
}

func (s *Service) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	return s.store.ListEmployees(ctx)
}

// GetEmployee returns ErrNotFound for an unknown id.
func (s *Service) GetEmployee(ctx context.Context, employeeID string) (model.Employee, error) {
	e, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return model.Employee{}, fmt.Errorf("get employee: %w", err)
	}
	if e == nil {
		return model.Employee{}, employeeNotFound(employeeID)
	}
	return *e, nil
}

// CreateEmployee trims the input, checks it and rejects duplicate ids or emails.
func (s *Service) CreateEmployee(ctx context.Context, in model.EmployeeInput) (model.Employee, error) {
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Department = strings.TrimSpace(in.Department)

	if in.EmployeeID == "" || in.FullName == "" || in.Department == "" {
		return model.Employee{}, invalid("Field cannot be empty or whitespace")
	}
	if err := validate.Var(in.Email, "required,email"); err != nil {
		return model.Employee{}, invalid("value is not a valid email address")
	}
	if !model.IsDepartment(in.Department) {
		return model.Employee{}, invalid(fmt.Sprintf("Invalid department '%s'", in.Department))
	}

	if e, err := s.store.GetEmployee(ctx, in.EmployeeID); err != nil {
		return model.Employee{}, fmt.Errorf("create employee: %w", err)
	} else if e != nil {
		return model.Employee{}, &Error{Kind: ErrConflict, Detail: fmt.Sprintf("Employee with ID '%s' already exists", in.EmployeeID)}
	}
	if e, err := s.store.GetEmployeeByEmail(ctx, in.Email); err != nil {
		return model.Employee{}, fmt.Errorf("create employee: %w", err)
	} else if e != nil {
		return model.Employee{}, &Error{Kind: ErrConflict, Detail: fmt.Sprintf("Employee with email '%s' already exists", in.Email)}
	}

	e, err := s.store.InsertEmployee(ctx, in, s.now().UTC())
	if err != nil {
		return model.Employee{}, err
	}
	s.log.Info("employee created", zap.String("employee_id", e.EmployeeID), zap.String("department", e.Department))
	return e, nil
}

// DeleteEmployee removes an employee together with their attendance.
func (s *Service) DeleteEmployee(ctx context.Context, employeeID string) error {
	ok, err := s.store.DeleteEmployee(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if !ok {
		return employeeNotFound(employeeID)
	}
	s.log.Info("employee deleted", zap.String("employee_id", employeeID))
	return nil
}

// MarkAttendance records a mark. Marking the same employee and date again
// replaces the status and marked_at of the existing record.
func (s *Service) MarkAttendance(ctx context.Context, in model.AttendanceInput) (model.AttendanceRecord, error) {
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)
	if !model.ValidDate(in.Date) {
		return model.AttendanceRecord{}, invalid("Invalid date format. Use YYYY-MM-DD")
	}
	if !in.Status.Valid() {
		return model.AttendanceRecord{}, invalid("Status must be 'Present' or 'Absent'")
	}
	e, err := s.store.GetEmployee(ctx, in.EmployeeID)
	if err != nil {
		return model.AttendanceRecord{}, fmt.Errorf("mark attendance: %w", err)
	}
	if e == nil {
		return model.AttendanceRecord{}, employeeNotFound(in.EmployeeID)
	}
	rec, err := s.store.UpsertAttendance(ctx, in, s.now().UTC())
	if err != nil {
		return model.AttendanceRecord{}, err
	}
	rec.EmployeeName = e.FullName
	return rec, nil
}

func checkRange(r model.DateRange) error {
	if (r.StartDate != "" && !model.ValidDate(r.StartDate)) || (r.EndDate != "" && !model.ValidDate(r.EndDate)) {
		return invalid("Invalid date format. Use YYYY-MM-DD")
	}
	return nil
}

func (s *Service) ListAttendance(ctx context.Context, r model.DateRange) ([]model.AttendanceRecord, error) {
	if err := checkRange(r); err != nil {
		return nil, err
	}
	return s.store.ListAttendance(ctx, "", r)
}

// ListEmployeeAttendance returns ErrNotFound for an unknown employee.
func (s *Service) ListEmployeeAttendance(ctx context.Context, employeeID string, r model.DateRange) ([]model.AttendanceRecord, error) {
	if err := checkRange(r); err != nil {
		return nil, err
	}
	if _, err := s.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.store.ListAttendance(ctx, employeeID, r)
}

func (s *Service) EmployeeStats(ctx context.Context, employeeID string) (model.EmployeeAttendanceStats, error) {
	e, err := s.GetEmployee(ctx, employeeID)
	if err != nil {
		return model.EmployeeAttendanceStats{}, err
	}
	present, absent, err := s.store.StatusCounts(ctx, employeeID, "")
	if err != nil {
		return model.EmployeeAttendanceStats{}, fmt.Errorf("employee stats: %w", err)
	}
	return model.EmployeeAttendanceStats{
		EmployeeID:   employeeID,
		EmployeeName: e.FullName,
		TotalPresent: present,
		TotalAbsent:  absent,
		TotalRecords: present + absent,
	}, nil
}

// DashboardStats computes today's snapshot.
func (s *Service) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	today := model.Today(s.now())
	total, err := s.store.CountEmployees(ctx)
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	present, absent, err := s.store.StatusCounts(ctx, "", today)
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	depts, err := s.store.DepartmentCounts(ctx)
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	recent, err := s.store.RecentAttendance(ctx, RecentLimit)
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return model.DashboardStats{
		TotalEmployees:   total,
		PresentToday:     present,
		AbsentToday:      absent,
		UnmarkedToday:    max(total-present-absent, 0),
		Departments:      depts,
		RecentAttendance: recent,
	}, nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

package model

import "time"

// Status is the attendance mark for a day.
type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// Departments is the fixed set an employee can belong to, in display order.
var Departments = []string{
	"Engineering",
	"Human Resources",
	"Marketing",
	"Sales",
	"Finance",
	"Operations",
	"Design",
	"Product",
}

// IsDepartment reports whether name is in Departments.
func IsDepartment(name string) bool {
	for _, d := range Departments {
		if d == name {
			return true
		}
	}
	return false
}

// Employee is a directory entry. EmployeeID is assigned by the caller and never changes.
type Employee struct {
	ID         int64     `json:"id"`
	EmployeeID string    `json:"employee_id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	CreatedAt  Timestamp `json:"created_at"`
}

// EmployeeInput is the create payload; the store assigns ID and CreatedAt.
type EmployeeInput struct {
	EmployeeID string `json:"employee_id" binding:"required,max=50"`
	FullName   string `json:"full_name" binding:"required,max=100"`
	Email      string `json:"email" binding:"required,email,max=100"`
	Department string `json:"department" binding:"required,max=100"`
}

// AttendanceRecord is one employee's mark for one date.
type AttendanceRecord struct {
	ID           int64     `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name,omitempty"`
	Date         string    `json:"date"` // yyyy-MM-dd
	Status       Status    `json:"status"`
	MarkedAt     Timestamp `json:"marked_at"`
}

// AttendanceInput is the mark payload.
type AttendanceInput struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Date       string `json:"date" binding:"required,datetime=2006-01-02"`
	Status     Status `json:"status" binding:"required,oneof=Present Absent"`
}

// DepartmentCount is one row of the dashboard department breakdown.
type DepartmentCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RecentAttendance is the trimmed record shown in the dashboard activity list.
type RecentAttendance struct {
	EmployeeName string `json:"employee_name"`
	Date         string `json:"date"`
	Status       Status `json:"status"`
}

// DashboardStats is an aggregate snapshot computed by the store on every request.
type DashboardStats struct {
	TotalEmployees   int                `json:"total_employees"`
	PresentToday     int                `json:"present_today"`
	AbsentToday      int                `json:"absent_today"`
	UnmarkedToday    int                `json:"unmarked_today"`
	Departments      []DepartmentCount  `json:"departments"`
	RecentAttendance []RecentAttendance `json:"recent_attendance"`
}

// EmployeeAttendanceStats totals one employee's marks.
type EmployeeAttendanceStats struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	TotalPresent int    `json:"total_present"`
	TotalAbsent  int    `json:"total_absent"`
	TotalRecords int    `json:"total_records"`
}

// DateRange bounds an attendance query. An empty bound is open on that side.
type DateRange struct {
	StartDate string `json:"start_date,omitempty" form:"start_date"`
	EndDate   string `json:"end_date,omitempty" form:"end_date"`
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.StartDate == "" && r.EndDate == ""
}

// Contains reports whether date (yyyy-MM-dd) falls inside the range.
// ISO dates order lexically, so string comparison is enough.
func (r DateRange) Contains(date string) bool {
	if r.StartDate != "" && date < r.StartDate {
		return false
	}
	if r.EndDate != "" && date > r.EndDate {
		return false
	}
	return true
}

const DateLayout = "2006-01-02"

// ValidDate reports whether s is a calendar date in yyyy-MM-dd form.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Today formats t as a yyyy-MM-dd date in t's location.
func Today(t time.Time) string {
	return t.Format(DateLayout)
}

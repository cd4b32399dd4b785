package attendance

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"hrms/internal/model"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Repository persists employees and attendance in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

var _ Store = (*Repository)(nil)

const employeeColumns = `id, employee_id, full_name, email, department, created_at`

func scanEmployee(sc interface{ Scan(...any) error }) (model.Employee, error) {
	var e model.Employee
	err := sc.Scan(&e.ID, &e.EmployeeID, &e.FullName, &e.Email, &e.Department, &e.CreatedAt.Time)
	return e, err
}

// ListEmployees returns all employees, newest first.
func (r *Repository) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []model.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *Repository) getEmployeeBy(ctx context.Context, column, value string) (*model.Employee, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE `+column+` = $1`, value)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// GetEmployee returns a single employee by employee_id.
func (r *Repository) GetEmployee(ctx context.Context, employeeID string) (*model.Employee, error) {
	return r.getEmployeeBy(ctx, "employee_id", employeeID)
}

func (r *Repository) GetEmployeeByEmail(ctx context.Context, email string) (*model.Employee, error) {
	return r.getEmployeeBy(ctx, "email", email)
}

// InsertEmployee writes a new employee. A unique violation maps to ErrConflict.
func (r *Repository) InsertEmployee(ctx context.Context, in model.EmployeeInput, createdAt time.Time) (model.Employee, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO employees (employee_id, full_name, email, department, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+employeeColumns,
		in.EmployeeID, in.FullName, in.Email, in.Department, createdAt)
	e, err := scanEmployee(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return model.Employee{}, &Error{Kind: ErrConflict, Detail: "Employee with this ID or email already exists"}
		}
		return model.Employee{}, err
	}
	return e, nil
}

// DeleteEmployee removes an employee; attendance rows go with it via ON DELETE CASCADE.
func (r *Repository) DeleteEmployee(ctx context.Context, employeeID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE employee_id = $1`, employeeID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpsertAttendance records a mark, replacing the status of an existing one for the same day.
func (r *Repository) UpsertAttendance(ctx context.Context, in model.AttendanceInput, markedAt time.Time) (model.AttendanceRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance (employee_id, date, status, marked_at)
		VALUES ($1, $2::date, $3, $4)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			marked_at = EXCLUDED.marked_at
		RETURNING id, employee_id, to_char(date, 'YYYY-MM-DD'), status, marked_at
	`, in.EmployeeID, in.Date, string(in.Status), markedAt)
	var rec model.AttendanceRecord
	if err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.Date, &rec.Status, &rec.MarkedAt.Time); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return model.AttendanceRecord{}, employeeNotFound(in.EmployeeID)
		}
		return model.AttendanceRecord{}, err
	}
	return rec, nil
}

// ListAttendance returns marks with basic filters.
func (r *Repository) ListAttendance(ctx context.Context, employeeID string, dr model.DateRange) ([]model.AttendanceRecord, error) {
	query := `
		SELECT a.id, a.employee_id, e.full_name, to_char(a.date, 'YYYY-MM-DD'), a.status, a.marked_at
		FROM attendance a
		JOIN employees e ON e.employee_id = a.employee_id`
	args := []any{}
	clauses := []string{}
	if employeeID != "" {
		args = append(args, employeeID)
		clauses = append(clauses, "a.employee_id = $"+strconv.Itoa(len(args)))
	}
	if dr.StartDate != "" {
		args = append(args, dr.StartDate)
		clauses = append(clauses, "a.date >= $"+strconv.Itoa(len(args))+"::date")
	}
	if dr.EndDate != "" {
		args = append(args, dr.EndDate)
		clauses = append(clauses, "a.date <= $"+strconv.Itoa(len(args))+"::date")
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY a.date DESC, a.marked_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []model.AttendanceRecord{}
	for rows.Next() {
		var rec model.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Date, &rec.Status, &rec.MarkedAt.Time); err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// StatusCounts totals Present and Absent marks, optionally for one employee
// and one date.
func (r *Repository) StatusCounts(ctx context.Context, employeeID, date string) (int, int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'Present'),
			COUNT(*) FILTER (WHERE status = 'Absent')
		FROM attendance
		WHERE ($1 = '' OR employee_id = $1)
		  AND ($2 = '' OR date = NULLIF($2, '')::date)
	`, employeeID, date)
	var present, absent int
	if err := row.Scan(&present, &absent); err != nil {
		return 0, 0, err
	}
	return present, absent, nil
}

func (r *Repository) CountEmployees(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n)
	return n, err
}

// DepartmentCounts groups employees by department, largest first.
func (r *Repository) DepartmentCounts(ctx context.Context) ([]model.DepartmentCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT department, COUNT(*) FROM employees
		GROUP BY department
		ORDER BY COUNT(*) DESC, department
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []model.DepartmentCount{}
	for rows.Next() {
		var d model.DepartmentCount
		if err := rows.Scan(&d.Name, &d.Count); err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

// RecentAttendance returns the latest marks by marked_at.
func (r *Repository) RecentAttendance(ctx context.Context, limit int) ([]model.RecentAttendance, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.full_name, to_char(a.date, 'YYYY-MM-DD'), a.status
		FROM attendance a
		JOIN employees e ON e.employee_id = a.employee_id
		ORDER BY a.marked_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []model.RecentAttendance{}
	for rows.Next() {
		var ra model.RecentAttendance
		if err := rows.Scan(&ra.EmployeeName, &ra.Date, &ra.Status); err != nil {
			return nil, err
		}
		res = append(res, ra)
	}
	return res, rows.Err()
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

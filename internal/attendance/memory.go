package attendance

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"hrms/internal/model"
)

// MemoryStore keeps everything in process. It is meant for development and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	employees  []model.Employee
	attendance []model.AttendanceRecord
	nextEmpID  int64
	nextMarkID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := slices.Clone(m.employees)
	slices.SortStableFunc(out, func(a, b model.Employee) int {
		if c := b.CreatedAt.Compare(a.CreatedAt.Time); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if out == nil {
		out = []model.Employee{}
	}
	return out, nil
}

func (m *MemoryStore) find(pred func(model.Employee) bool) *model.Employee {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := slices.IndexFunc(m.employees, pred); i >= 0 {
		e := m.employees[i]
		return &e
	}
	return nil
}

func (m *MemoryStore) GetEmployee(ctx context.Context, employeeID string) (*model.Employee, error) {
	return m.find(func(e model.Employee) bool { return e.EmployeeID == employeeID }), nil
}

func (m *MemoryStore) GetEmployeeByEmail(ctx context.Context, email string) (*model.Employee, error) {
	return m.find(func(e model.Employee) bool { return e.Email == email }), nil
}

func (m *MemoryStore) InsertEmployee(ctx context.Context, in model.EmployeeInput, createdAt time.Time) (model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if e.EmployeeID == in.EmployeeID || e.Email == in.Email {
			return model.Employee{}, &Error{Kind: ErrConflict, Detail: "Employee with this ID or email already exists"}
		}
	}
	m.nextEmpID++
	e := model.Employee{
		ID:         m.nextEmpID,
		EmployeeID: in.EmployeeID,
		FullName:   in.FullName,
		Email:      in.Email,
		Department: in.Department,
		CreatedAt:  model.Timestamp{Time: createdAt.UTC()},
	}
	m.employees = append(m.employees, e)
	return e, nil
}

func (m *MemoryStore) DeleteEmployee(ctx context.Context, employeeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.employees)
	m.employees = slices.DeleteFunc(m.employees, func(e model.Employee) bool { return e.EmployeeID == employeeID })
	if len(m.employees) == before {
		return false, nil
	}
	m.attendance = slices.DeleteFunc(m.attendance, func(a model.AttendanceRecord) bool { return a.EmployeeID == employeeID })
	return true, nil
}

func (m *MemoryStore) UpsertAttendance(ctx context.Context, in model.AttendanceInput, markedAt time.Time) (model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.ContainsFunc(m.employees, func(e model.Employee) bool { return e.EmployeeID == in.EmployeeID }) {
		return model.AttendanceRecord{}, employeeNotFound(in.EmployeeID)
	}
	ts := model.Timestamp{Time: markedAt.UTC()}
	for i := range m.attendance {
		a := &m.attendance[i]
		if a.EmployeeID == in.EmployeeID && a.Date == in.Date {
			a.Status = in.Status
			a.MarkedAt = ts
			return *a, nil
		}
	}
	m.nextMarkID++
	rec := model.AttendanceRecord{
		ID:         m.nextMarkID,
		EmployeeID: in.EmployeeID,
		Date:       in.Date,
		Status:     in.Status,
		MarkedAt:   ts,
	}
	m.attendance = append(m.attendance, rec)
	return rec, nil
}

func (m *MemoryStore) nameOf(employeeID string) string {
	for _, e := range m.employees {
		if e.EmployeeID == employeeID {
			return e.FullName
		}
	}
	return ""
}

func byDateThenMarkedDesc(a, b model.AttendanceRecord) int {
	if c := cmp.Compare(b.Date, a.Date); c != 0 {
		return c
	}
	if c := b.MarkedAt.Compare(a.MarkedAt.Time); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

func (m *MemoryStore) ListAttendance(ctx context.Context, employeeID string, r model.DateRange) ([]model.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []model.AttendanceRecord{}
	for _, a := range m.attendance {
		if employeeID != "" && a.EmployeeID != employeeID {
			continue
		}
		if !r.Contains(a.Date) {
			continue
		}
		a.EmployeeName = m.nameOf(a.EmployeeID)
		out = append(out, a)
	}
	slices.SortFunc(out, byDateThenMarkedDesc)
	return out, nil
}

func (m *MemoryStore) StatusCounts(ctx context.Context, employeeID, date string) (int, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var present, absent int
	for _, a := range m.attendance {
		if employeeID != "" && a.EmployeeID != employeeID {
			continue
		}
		if date != "" && a.Date != date {
			continue
		}
		switch a.Status {
		case model.StatusPresent:
			present++
		case model.StatusAbsent:
			absent++
		}
	}
	return present, absent, nil
}

func (m *MemoryStore) CountEmployees(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.employees), nil
}

func (m *MemoryStore) DepartmentCounts(ctx context.Context) ([]model.DepartmentCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := map[string]int{}
	for _, e := range m.employees {
		counts[e.Department]++
	}
	out := make([]model.DepartmentCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, model.DepartmentCount{Name: name, Count: n})
	}
	slices.SortFunc(out, func(a, b model.DepartmentCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (m *MemoryStore) RecentAttendance(ctx context.Context, limit int) ([]model.RecentAttendance, error) {
	if limit <= 0 {
		limit = 5
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs := slices.Clone(m.attendance)
	slices.SortFunc(recs, func(a, b model.AttendanceRecord) int {
		if c := b.MarkedAt.Compare(a.MarkedAt.Time); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	out := []model.RecentAttendance{}
	for _, a := range recs {
		if len(out) == limit {
			break
		}
		out = append(out, model.RecentAttendance{
			EmployeeName: m.nameOf(a.EmployeeID),
			Date:         a.Date,
			Status:       a.Status,
		})
	}
	return out, nil
}

func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

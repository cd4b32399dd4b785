package console

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hrms/internal/hrclient"
	"hrms/internal/model"
)

// gate parks one call of an operation until released.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

func (g *gate) wait(t *testing.T) {
	t.Helper()
	select {
	case <-g.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("call never reached the store")
	}
}

func (g *gate) open() { close(g.release) }

type fakeStore struct {
	mu        sync.Mutex
	employees []model.Employee
	records   []model.AttendanceRecord
	stats     *model.DashboardStats
	calls     map[string]int
	ranges    []model.DateRange
	errs      map[string]error
	gates     map[string]*gate
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		employees: []model.Employee{},
		records:   []model.AttendanceRecord{},
		calls:     map[string]int{},
		errs:      map[string]error{},
		gates:     map[string]*gate{},
	}
}

func (f *fakeStore) hold(op string) *gate {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := &gate{entered: make(chan struct{}), release: make(chan struct{})}
	f.gates[op] = g
	return g
}

func (f *fakeStore) fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[op] = err
}

func (f *fakeStore) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// enter records the call, waits on a gate if one is set and returns the
// configured failure.
func (f *fakeStore) enter(op string) error {
	f.mu.Lock()
	f.calls[op]++
	g := f.gates[op]
	delete(f.gates, op)
	f.mu.Unlock()

	if g != nil {
		close(g.entered)
		<-g.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[op]
}

func (f *fakeStore) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	if err := f.enter("ListEmployees"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.employees), nil
}

func (f *fakeStore) CreateEmployee(ctx context.Context, in model.EmployeeInput) (*model.Employee, error) {
	if err := f.enter("CreateEmployee"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	emp := model.Employee{
		ID:         f.nextID,
		EmployeeID: in.EmployeeID,
		FullName:   in.FullName,
		Email:      in.Email,
		Department: in.Department,
	}
	f.employees = append([]model.Employee{emp}, f.employees...)
	return &emp, nil
}

func (f *fakeStore) DeleteEmployee(ctx context.Context, employeeID string) error {
	if err := f.enter("DeleteEmployee"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.employees = slices.DeleteFunc(f.employees, func(e model.Employee) bool { return e.EmployeeID == employeeID })
	return nil
}

func (f *fakeStore) ListAttendance(ctx context.Context, r model.DateRange) ([]model.AttendanceRecord, error) {
	f.mu.Lock()
	f.ranges = append(f.ranges, r)
	f.mu.Unlock()
	if err := f.enter("ListAttendance"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.AttendanceRecord
	for _, rec := range f.records {
		if r.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkAttendance(ctx context.Context, in model.AttendanceInput) (*model.AttendanceRecord, error) {
	if err := f.enter("MarkAttendance"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	rec := model.AttendanceRecord{ID: f.nextID, EmployeeID: in.EmployeeID, Date: in.Date, Status: in.Status}
	f.records = append([]model.AttendanceRecord{rec}, f.records...)
	return &rec, nil
}

func (f *fakeStore) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	if err := f.enter("DashboardStats"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s := *f.stats
	return &s, nil
}

func (f *fakeStore) GetEmployee(ctx context.Context, employeeID string) (*model.Employee, error) {
	if err := f.enter("GetEmployee"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.employees {
		if e.EmployeeID == employeeID {
			return &e, nil
		}
	}
	return nil, notFound(employeeID)
}

func (f *fakeStore) ListEmployeeAttendance(ctx context.Context, employeeID string, r model.DateRange) ([]model.AttendanceRecord, error) {
	if err := f.enter("ListEmployeeAttendance"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.AttendanceRecord
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && r.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) EmployeeAttendanceStats(ctx context.Context, employeeID string) (*model.EmployeeAttendanceStats, error) {
	if err := f.enter("EmployeeAttendanceStats"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	st := &model.EmployeeAttendanceStats{EmployeeID: employeeID}
	for _, rec := range f.records {
		if rec.EmployeeID != employeeID {
			continue
		}
		st.TotalRecords++
		if rec.Status == model.StatusPresent {
			st.TotalPresent++
		} else {
			st.TotalAbsent++
		}
	}
	return st, nil
}

func notFound(id string) error {
	return &hrclient.APIError{
		Op:         "get employee",
		StatusCode: http.StatusNotFound,
		Detail:     "Employee with ID '" + id + "' not found",
	}
}

func rejected(op, detail string) error {
	return &hrclient.APIError{Op: op, StatusCode: http.StatusBadRequest, Detail: detail}
}

func testOptions() Options {
	return Options{
		NotifyTTL: time.Minute,
		Now:       func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) },
	}
}

func seedEmployees(f *fakeStore, ids ...string) {
	for i, id := range ids {
		f.employees = append(f.employees, model.Employee{
			ID:         int64(i + 1),
			EmployeeID: id,
			FullName:   "Person " + id,
			Email:      id + "@co.com",
			Department: "Engineering",
		})
	}
}

func requireNotification(t *testing.T, n *Notifier, kind Kind, msg string) {
	t.Helper()
	got, ok := n.Current()
	require.True(t, ok, "expected a notification")
	require.Equal(t, kind, got.Kind)
	require.Equal(t, msg, got.Message)
}

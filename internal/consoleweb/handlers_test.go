package consoleweb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/internal/api"
	"hrms/internal/attendance"
	"hrms/internal/console"
	"hrms/internal/hrclient"
	"hrms/internal/model"
)

type harness struct {
	router   *gin.Engine
	sessions *console.Sessions
	store    *hrclient.Client
}

// newHarness wires the console to a real API over an in-memory store.
func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := gin.New()
	api.NewHandler(attendance.NewService(attendance.NewMemoryStore(), nil), nil).Register(backend)
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	client := hrclient.New(srv.URL)

	opts := console.Options{Now: func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }}
	sessions := console.NewSessions(func() *console.Workspace { return console.NewWorkspace(client, opts) }, nil)
	t.Cleanup(sessions.CloseAll)

	r := gin.New()
	NewHandler(sessions, Options{}).Register(r)
	return &harness{router: r, sessions: sessions, store: client}
}

func (h *harness) seed(t *testing.T, id, name string) {
	t.Helper()
	_, err := h.store.CreateEmployee(context.Background(), model.EmployeeInput{
		EmployeeID: id,
		FullName:   name,
		Email:      strings.ToLower(id) + "@co.com",
		Department: "Engineering",
	})
	require.NoError(t, err)
}

// browser keeps the session cookie between requests.
type browser struct {
	t       *testing.T
	h       http.Handler
	cookies []*http.Cookie
}

func (h *harness) browser(t *testing.T) *browser {
	return &browser{t: t, h: h.router}
}

func (b *browser) do(method, path, body string) *httptest.ResponseRecorder {
	b.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.h.ServeHTTP(w, req)
	if cs := w.Result().Cookies(); len(cs) > 0 {
		b.cookies = cs
	}
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func set(b *browser, screen, field, value string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"field": field, "value": value})
	return b.do(http.MethodPatch, "/console/"+screen+"/draft", string(body))
}

func TestDirectoryCreateFlow(t *testing.T) {
	h := newHarness(t)
	b := h.browser(t)

	w := b.do(http.MethodGet, "/console/employees", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, b.cookies, 1)
	assert.Equal(t, "hrms_console", b.cookies[0].Name)
	v := decode[console.DirectoryView](t, w)
	assert.Empty(t, v.Employees)
	assert.Equal(t, model.Departments, v.Departments)

	assert.Equal(t, http.StatusConflict, b.do(http.MethodPost, "/console/employees/draft/submit", "").Code)

	w = b.do(http.MethodPost, "/console/employees/modal", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[console.DirectoryView](t, w).Create.Open)

	w = b.do(http.MethodPost, "/console/employees/draft/submit", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	v = decode[console.DirectoryView](t, w)
	assert.Equal(t, "Employee ID is required", v.Create.Errors[console.FieldEmployeeID])
	assert.Equal(t, "Department is required", v.Create.Errors[console.FieldDepartment])

	assert.Equal(t, http.StatusBadRequest, set(b, "employees", "nickname", "JD").Code)
	assert.Equal(t, http.StatusBadRequest, b.do(http.MethodPatch, "/console/employees/draft", `{"value":"x"}`).Code)

	for field, value := range map[string]string{
		console.FieldEmployeeID: "EMP001",
		console.FieldFullName:   "Jane Doe",
		console.FieldEmail:      "jane@co.com",
		console.FieldDepartment: "Engineering",
	} {
		require.Equal(t, http.StatusOK, set(b, "employees", field, value).Code)
	}

	w = b.do(http.MethodPost, "/console/employees/draft/submit", "")
	require.Equal(t, http.StatusOK, w.Code)
	v = decode[console.DirectoryView](t, w)
	require.Len(t, v.Employees, 1)
	assert.Equal(t, "EMP001", v.Employees[0].EmployeeID)
	assert.False(t, v.Create.Open)
	require.NotNil(t, v.Notification)
	assert.Equal(t, "Employee added successfully!", v.Notification.Message)
	assert.Equal(t, console.KindSuccess, v.Notification.Kind)
}

func TestDirectoryRejectedCreateKeepsDraft(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "EMP001", "Jane Doe")
	b := h.browser(t)

	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/console/employees", "").Code)
	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/console/employees/modal", "").Code)
	set(b, "employees", console.FieldEmployeeID, "EMP001")
	set(b, "employees", console.FieldFullName, "Other")
	set(b, "employees", console.FieldEmail, "other@co.com")
	set(b, "employees", console.FieldDepartment, "Sales")

	w := b.do(http.MethodPost, "/console/employees/draft/submit", "")
	require.Equal(t, http.StatusOK, w.Code)
	v := decode[console.DirectoryView](t, w)
	require.NotNil(t, v.Notification)
	assert.Equal(t, "Employee with ID 'EMP001' already exists", v.Notification.Message)
	assert.Equal(t, console.KindError, v.Notification.Kind)
	assert.True(t, v.Create.Open)
	assert.Equal(t, "Other", v.Create.Values.FullName)

	w = b.do(http.MethodDelete, "/console/employees/modal", "")
	assert.False(t, decode[console.DirectoryView](t, w).Create.Open)
}

func TestDirectoryDeleteNeedsConfirmation(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "EMP001", "Jane Doe")
	b := h.browser(t)
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/console/employees", "").Code)

	assert.Equal(t, http.StatusConflict, b.do(http.MethodPost, "/console/employees/EMP001/delete", "").Code)
	assert.Equal(t, http.StatusNotFound, b.do(http.MethodPost, "/console/employees/EMP404/delete-confirm", "").Code)

	w := b.do(http.MethodPost, "/console/employees/EMP001/delete-confirm", "")
	require.Equal(t, http.StatusOK, w.Code)
	v := decode[console.DirectoryView](t, w)
	require.NotNil(t, v.PendingDelete)
	assert.Equal(t, "EMP001", v.PendingDelete.EmployeeID)

	w = b.do(http.MethodDelete, "/console/employees/delete-confirm", "")
	assert.Nil(t, decode[console.DirectoryView](t, w).PendingDelete)
	assert.Equal(t, http.StatusConflict, b.do(http.MethodPost, "/console/employees/EMP001/delete", "").Code)

	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/console/employees/EMP001/delete-confirm", "").Code)
	w = b.do(http.MethodPost, "/console/employees/EMP001/delete", "")
	require.Equal(t, http.StatusOK, w.Code)
	v = decode[console.DirectoryView](t, w)
	assert.Empty(t, v.Employees)
	assert.Nil(t, v.PendingDelete)
	require.NotNil(t, v.Notification)
	assert.Equal(t, "Employee deleted successfully!", v.Notification.Message)

	w = b.do(http.MethodDelete, "/console/notification", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[console.DirectoryView](t, w).Notification)
}

func TestAttendanceWithoutEmployees(t *testing.T) {
	h := newHarness(t)
	b := h.browser(t)

	w := b.do(http.MethodGet, "/console/attendance", "")
	require.Equal(t, http.StatusOK, w.Code)
	v := decode[console.AttendanceView](t, w)
	assert.False(t, v.CanMark)
	assert.Equal(t, console.EmptyEmployees, v.Empty)

	w = b.do(http.MethodPost, "/console/attendance/modal", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "marking disabled")
}

func TestAttendanceMarkAndFilter(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "EMP001", "Jane Doe")
	b := h.browser(t)

	w := b.do(http.MethodGet, "/console/attendance", "")
	require.Equal(t, http.StatusOK, w.Code)
	v := decode[console.AttendanceView](t, w)
	assert.True(t, v.CanMark)
	assert.Equal(t, console.EmptyRecords, v.Empty)

	w = b.do(http.MethodPost, "/console/attendance/modal", "")
	require.Equal(t, http.StatusOK, w.Code)
	v = decode[console.AttendanceView](t, w)
	assert.Equal(t, "2024-03-15", v.Mark.Values.Date)
	assert.Equal(t, model.StatusPresent, v.Mark.Values.Status)

	w = b.do(http.MethodPost, "/console/attendance/draft/submit", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	v = decode[console.AttendanceView](t, w)
	require.NotNil(t, v.Notification)
	assert.Equal(t, "Please fill all fields", v.Notification.Message)

	require.Equal(t, http.StatusOK, set(b, "attendance", console.FieldEmployeeID, "EMP001").Code)
	w = b.do(http.MethodPost, "/console/attendance/draft/submit", "")
	require.Equal(t, http.StatusOK, w.Code)
	v = decode[console.AttendanceView](t, w)
	require.Len(t, v.Records, 1)
	assert.Equal(t, "Jane Doe", v.Records[0].EmployeeName)
	assert.False(t, v.Mark.Open)
	require.NotNil(t, v.Notification)
	assert.Equal(t, "Attendance marked successfully!", v.Notification.Message)

	assert.Equal(t, http.StatusBadRequest, b.do(http.MethodPost, "/console/attendance/filter", `{"start_date":"yesterday"}`).Code)
	assert.Equal(t, http.StatusBadRequest, b.do(http.MethodPost, "/console/attendance/filter", `not json`).Code)

	w = b.do(http.MethodPost, "/console/attendance/filter", `{"start_date":"2024-03-16"}`)
	require.Equal(t, http.StatusOK, w.Code)
	v = decode[console.AttendanceView](t, w)
	assert.Empty(t, v.Records)
	assert.Equal(t, "2024-03-16", v.Filter.StartDate)
	assert.Equal(t, console.EmptyRecords, v.Empty)

	w = b.do(http.MethodDelete, "/console/attendance/filter", "")
	require.Equal(t, http.StatusOK, w.Code)
	v = decode[console.AttendanceView](t, w)
	assert.Len(t, v.Records, 1)
	assert.True(t, v.Filter.IsZero())
}

func TestOperationsTargetTheActiveScreen(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "EMP001", "Jane Doe")
	b := h.browser(t)

	assert.Equal(t, http.StatusConflict, b.do(http.MethodGet, "/console/view", "").Code)

	w := b.do(http.MethodGet, "/console/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)
	d := decode[console.DashboardView](t, w)
	require.NotNil(t, d.Stats)
	assert.Equal(t, 1, d.Stats.TotalEmployees)

	w = b.do(http.MethodPost, "/console/employees/modal", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "screen not active")

	w = b.do(http.MethodGet, "/console/view", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_employees":1`)

	assert.Equal(t, http.StatusOK, b.do(http.MethodPost, "/console/dashboard/retry", "").Code)
}

func TestProfile(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "EMP001", "Jane Doe")
	_, err := h.store.MarkAttendance(context.Background(), model.AttendanceInput{EmployeeID: "EMP001", Date: "2024-03-14", Status: model.StatusAbsent})
	require.NoError(t, err)
	b := h.browser(t)

	w := b.do(http.MethodGet, "/console/employees/EMP001/profile?start_date=2024-03-01", "")
	require.Equal(t, http.StatusOK, w.Code)
	v := decode[console.ProfileView](t, w)
	require.NotNil(t, v.Employee)
	assert.Equal(t, "Jane Doe", v.Employee.FullName)
	assert.Len(t, v.Records, 1)
	require.NotNil(t, v.Stats)
	assert.Equal(t, 1, v.Stats.TotalAbsent)

	assert.Equal(t, http.StatusBadRequest, b.do(http.MethodGet, "/console/employees/EMP001/profile?end_date=soon", "").Code)

	w = b.do(http.MethodGet, "/console/employees/EMP404/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Failed to load employee", decode[console.ProfileView](t, w).Error)
}

func TestSessionsAreIsolated(t *testing.T) {
	h := newHarness(t)
	reg := prometheus.NewRegistry()
	RegisterMetrics(reg, h.sessions)

	alice, bob := h.browser(t), h.browser(t)
	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/console/employees", "").Code)
	assert.Equal(t, http.StatusConflict, bob.do(http.MethodPost, "/console/employees/modal", "").Code)

	require.Len(t, alice.cookies, 1)
	require.Len(t, bob.cookies, 1)
	assert.NotEqual(t, alice.cookies[0].Value, bob.cookies[0].Value)
	assert.Equal(t, 2, h.sessions.Len())

	// a known cookie does not start another session
	require.Equal(t, http.StatusOK, alice.do(http.MethodPost, "/console/employees/modal", "").Code)
	assert.Equal(t, 2, h.sessions.Len())

	expected := `
# HELP hrms_console_sessions_active Console sessions currently held in memory.
# TYPE hrms_console_sessions_active gauge
hrms_console_sessions_active 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "hrms_console_sessions_active"))
}

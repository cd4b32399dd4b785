package console

import (
	"context"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hrms/internal/model"
)

// ProfileController is a read-only view of one employee: the record, their
// attendance in a range and their totals.
type ProfileController struct {
	screen
	store ProfileStore

	employeeID string
	filter     model.DateRange
	employee   *model.Employee
	records    []model.AttendanceRecord
	stats      *model.EmployeeAttendanceStats
}

func NewProfile(store ProfileStore, opts Options) *ProfileController {
	c := &ProfileController{store: store, records: []model.AttendanceRecord{}}
	c.init("profile", opts.withDefaults())
	return c
}

// Load fetches the three parts concurrently and applies them only together.
func (c *ProfileController) Load(ctx context.Context, employeeID string, r model.DateRange) error {
	if !validRange(r) {
		return ErrInvalidRange
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.employeeID = employeeID
	c.filter = r
	id := c.loads.begin()
	c.mu.Unlock()

	var (
		g       errgroup.Group
		emp     *model.Employee
		records []model.AttendanceRecord
		stats   *model.EmployeeAttendanceStats
	)
	g.Go(func() error {
		var err error
		emp, err = c.store.GetEmployee(ctx, employeeID)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = c.store.ListEmployeeAttendance(ctx, employeeID, r)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = c.store.EmployeeAttendanceStats(ctx, employeeID)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	latest := c.loads.end(id)
	if c.closed {
		return c.dropLate("load profile")
	}
	if !latest {
		return nil
	}
	if err != nil {
		c.loads.err = "Failed to load employee"
		c.log.Warn("load profile failed", zap.String("employee_id", employeeID), zap.Error(err))
		return err
	}
	c.employee = emp
	c.records = nonNilRecords(records)
	c.stats = stats
	c.loads.err = ""
	return nil
}

type ProfileView struct {
	LoadState
	EmployeeID   string                         `json:"employee_id"`
	Filter       model.DateRange                `json:"filter"`
	Employee     *model.Employee                `json:"employee"`
	Records      []model.AttendanceRecord       `json:"records"`
	Stats        *model.EmployeeAttendanceStats `json:"stats"`
	Notification *Notification                  `json:"notification"`
}

func (c *ProfileController) View() ProfileView {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := ProfileView{
		LoadState:    c.loads.state(),
		EmployeeID:   c.employeeID,
		Filter:       c.filter,
		Records:      slices.Clone(c.records),
		Notification: c.notes.current(),
	}
	if c.employee != nil {
		e := *c.employee
		v.Employee = &e
	}
	if c.stats != nil {
		s := *c.stats
		v.Stats = &s
	}
	return v
}

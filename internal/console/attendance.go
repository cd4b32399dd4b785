package console

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hrms/internal/hrclient"
	"hrms/internal/model"
)

const errLoadAttendance = "Failed to load data"

// EmptyState tells the view which empty prompt to show.
type EmptyState string

const (
	EmptyNone      EmptyState = ""
	EmptyEmployees EmptyState = "no_employees"
	EmptyRecords   EmptyState = "no_records"
)

// AttendanceController owns the attendance list, its date filter and the mark
// form. It keeps its own copy of the employee list for the selection control.
type AttendanceController struct {
	screen
	store AttendanceStore
	now   func() time.Time

	records   []model.AttendanceRecord
	employees []model.Employee
	filter    model.DateRange
	mark      *Modal[AttendanceDraft]
	marking   bool

	// empGen is bumped only by Load, so a filter can supersede the records
	// of an older Load but never its employees.
	empGen    uint64
	empFailed bool
}

func NewAttendance(store AttendanceStore, opts Options) *AttendanceController {
	opts = opts.withDefaults()
	c := &AttendanceController{
		store:     store,
		now:       opts.Now,
		records:   []model.AttendanceRecord{},
		employees: []model.Employee{},
	}
	c.mark = NewModal(c.defaultDraft)
	c.init("attendance", opts)
	return c
}

func (c *AttendanceController) defaultDraft() AttendanceDraft {
	return AttendanceDraft{Date: model.Today(c.now()), Status: model.StatusPresent}
}

// Load fetches the filtered records and the employees concurrently. Both calls
// run to completion; the results are applied together only if both succeed.
func (c *AttendanceController) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	id := c.loads.begin()
	c.empGen++
	empID := c.empGen
	r := c.filter
	c.mu.Unlock()

	var (
		g       errgroup.Group
		records []model.AttendanceRecord
		emps    []model.Employee
	)
	g.Go(func() error {
		var err error
		records, err = c.store.ListAttendance(ctx, r)
		return err
	})
	g.Go(func() error {
		var err error
		emps, err = c.store.ListEmployees(ctx)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	latest := c.loads.end(id)
	if c.closed {
		return c.dropLate("load attendance")
	}
	empLatest := empID == c.empGen
	if !latest && !empLatest {
		return nil
	}
	if err != nil {
		if empLatest {
			c.empFailed = true
		}
		c.loads.err = errLoadAttendance
		c.log.Warn("load attendance failed", zap.Error(err))
		return err
	}
	if empLatest {
		if emps == nil {
			emps = []model.Employee{}
		}
		c.employees = emps
		c.empFailed = false
	}
	if latest {
		c.records = nonNilRecords(records)
		c.loads.err = ""
	} else if c.loads.err == errLoadAttendance {
		c.loads.err = ""
	}
	return nil
}

// ApplyFilter stores r and re-fetches only the records. Empty bounds are open.
func (c *AttendanceController) ApplyFilter(ctx context.Context, r model.DateRange) error {
	if !validRange(r) {
		return ErrInvalidRange
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.filter = r
	id := c.loads.begin()
	c.mu.Unlock()

	records, err := c.store.ListAttendance(ctx, r)

	c.mu.Lock()
	defer c.mu.Unlock()
	latest := c.loads.end(id)
	if c.closed {
		return c.dropLate("filter attendance")
	}
	if !latest {
		return nil
	}
	if err != nil {
		c.loads.err = "Failed to filter attendance"
		c.log.Warn("filter attendance failed",
			zap.String("start_date", r.StartDate), zap.String("end_date", r.EndDate), zap.Error(err))
		return err
	}
	c.records = nonNilRecords(records)
	if c.empFailed {
		c.loads.err = errLoadAttendance
	} else {
		c.loads.err = ""
	}
	return nil
}

// ClearFilter drops both bounds and reloads everything.
func (c *AttendanceController) ClearFilter(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.filter = model.DateRange{}
	c.mu.Unlock()
	return c.Load(ctx)
}

// CanMark reports whether there is anyone to mark attendance for.
func (c *AttendanceController) CanMark() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.employees) > 0
}

func (c *AttendanceController) OpenMark() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if len(c.employees) == 0 {
		return ErrMarkingDisabled
	}
	c.mark.Open()
	return nil
}

func (c *AttendanceController) CancelMark() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mark.Close()
}

func (c *AttendanceController) SetField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	var setErr error
	if err := c.mark.Update(func(d *AttendanceDraft) { setErr = d.Set(field, value) }); err != nil {
		return err
	}
	return setErr
}

// MarkAttendance sends the draft. A draft with a missing field raises an
// error notification instead of a request.
func (c *AttendanceController) MarkAttendance(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.mark.IsOpen() {
		c.mu.Unlock()
		return ErrModalClosed
	}
	if len(c.employees) == 0 {
		c.mu.Unlock()
		return ErrMarkingDisabled
	}
	if c.marking {
		c.mu.Unlock()
		return ErrBusy
	}
	d := c.mark.Draft()
	if !d.complete() {
		c.notes.Raise("Please fill all fields", KindError)
		c.mu.Unlock()
		return ErrInvalidDraft
	}
	c.marking = true
	session := c.mark.Session()
	c.mu.Unlock()

	_, err := c.store.MarkAttendance(ctx, model.AttendanceInput{
		EmployeeID: d.EmployeeID,
		Date:       d.Date,
		Status:     d.Status,
	})

	c.mu.Lock()
	c.marking = false
	if c.closed {
		defer c.mu.Unlock()
		return c.dropLate("mark attendance")
	}
	if err != nil {
		c.notes.Raise(hrclient.DetailOr(err, "Failed to mark attendance"), KindError)
		c.log.Warn("mark attendance failed",
			zap.String("employee_id", d.EmployeeID), zap.String("date", d.Date), zap.Error(err))
		c.mu.Unlock()
		return err
	}
	c.notes.Raise("Attendance marked successfully!", KindSuccess)
	c.mark.CloseIf(session)
	c.mu.Unlock()

	_ = c.Load(ctx)
	return nil
}

// EmptyState picks the empty prompt. No employees wins over no records.
func (c *AttendanceController) EmptyState() EmptyState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.emptyState()
}

func (c *AttendanceController) emptyState() EmptyState {
	ls := c.loads.state()
	switch {
	case ls.Loading || ls.Error != "":
		return EmptyNone
	case len(c.employees) == 0:
		return EmptyEmployees
	case len(c.records) == 0:
		return EmptyRecords
	}
	return EmptyNone
}

type MarkForm struct {
	Open       bool            `json:"open"`
	Values     AttendanceDraft `json:"values"`
	Submitting bool            `json:"submitting"`
}

type AttendanceView struct {
	LoadState
	Records      []model.AttendanceRecord `json:"records"`
	Employees    []model.Employee         `json:"employees"`
	Filter       model.DateRange          `json:"filter"`
	CanMark      bool                     `json:"can_mark"`
	Empty        EmptyState               `json:"empty_state,omitempty"`
	Mark         MarkForm                 `json:"mark"`
	Notification *Notification            `json:"notification"`
}

func (c *AttendanceController) View() AttendanceView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return AttendanceView{
		LoadState: c.loads.state(),
		Records:   slices.Clone(c.records),
		Employees: slices.Clone(c.employees),
		Filter:    c.filter,
		CanMark:   len(c.employees) > 0,
		Empty:     c.emptyState(),
		Mark: MarkForm{
			Open:       c.mark.IsOpen(),
			Values:     c.mark.Draft(),
			Submitting: c.marking,
		},
		Notification: c.notes.current(),
	}
}

func validRange(r model.DateRange) bool {
	if r.StartDate != "" && !model.ValidDate(r.StartDate) {
		return false
	}
	if r.EndDate != "" && !model.ValidDate(r.EndDate) {
		return false
	}
	return true
}

func nonNilRecords(recs []model.AttendanceRecord) []model.AttendanceRecord {
	if recs == nil {
		return []model.AttendanceRecord{}
	}
	return recs
}

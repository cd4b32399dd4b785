package console

import (
	"context"
	"maps"
	"slices"

	"go.uber.org/zap"

	"hrms/internal/hrclient"
	"hrms/internal/model"
)

type employeeForm struct {
	Draft  EmployeeDraft
	Errors FieldErrors
}

func newEmployeeForm() employeeForm {
	return employeeForm{Errors: FieldErrors{}}
}

// DirectoryController owns the employee list, the create form and the delete
// confirmation.
type DirectoryController struct {
	screen
	store EmployeeStore

	employees  []model.Employee
	create     *Modal[employeeForm]
	submitting bool
	confirm    *Modal[*model.Employee]
	deleting   bool
}

func NewDirectory(store EmployeeStore, opts Options) *DirectoryController {
	opts = opts.withDefaults()
	c := &DirectoryController{
		store:     store,
		employees: []model.Employee{},
		create:    NewModal(newEmployeeForm),
		confirm:   NewModal(func() *model.Employee { return nil }),
	}
	c.init("directory", opts)
	return c
}

// Load replaces the employee list. On failure the previous list is kept and
// the screen error is set.
func (c *DirectoryController) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	id := c.loads.begin()
	c.mu.Unlock()

	emps, err := c.store.ListEmployees(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	latest := c.loads.end(id)
	if c.closed {
		return c.dropLate("load employees")
	}
	if !latest {
		return nil
	}
	if err != nil {
		c.loads.err = "Failed to load employees"
		c.log.Warn("load employees failed", zap.Error(err))
		return err
	}
	if emps == nil {
		emps = []model.Employee{}
	}
	c.employees = emps
	c.loads.err = ""
	return nil
}

func (c *DirectoryController) OpenCreate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.create.Open()
	return nil
}

// CancelCreate closes the form and discards the draft, even while a submit
// is in flight.
func (c *DirectoryController) CancelCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.create.Close()
}

// SetField edits one draft field and clears that field's error.
func (c *DirectoryController) SetField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	var setErr error
	err := c.create.Update(func(f *employeeForm) {
		if setErr = f.Draft.Set(field, value); setErr != nil {
			return
		}
		delete(f.Errors, field)
	})
	if err != nil {
		return err
	}
	return setErr
}

// Submit validates the draft and creates the employee. Invalid drafts return
// ErrInvalidDraft with the field errors placed on the form and no request
// made. A rejected create keeps the form open with the draft untouched.
func (c *DirectoryController) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.create.IsOpen() {
		c.mu.Unlock()
		return ErrModalClosed
	}
	if c.submitting {
		c.mu.Unlock()
		return ErrBusy
	}
	draft := c.create.Draft().Draft
	if errs := ValidateEmployee(draft); !errs.Valid() {
		_ = c.create.Update(func(f *employeeForm) { f.Errors = errs })
		c.mu.Unlock()
		return ErrInvalidDraft
	}
	c.submitting = true
	session := c.create.Session()
	c.mu.Unlock()

	_, err := c.store.CreateEmployee(ctx, draft.Input())

	c.mu.Lock()
	c.submitting = false
	if c.closed {
		defer c.mu.Unlock()
		return c.dropLate("create employee")
	}
	if err != nil {
		c.notes.Raise(hrclient.DetailOr(err, "Failed to add employee"), KindError)
		c.log.Warn("create employee failed", zap.String("employee_id", draft.EmployeeID), zap.Error(err))
		c.mu.Unlock()
		return err
	}
	c.notes.Raise("Employee added successfully!", KindSuccess)
	// a form reopened while the request was out keeps its input
	c.create.CloseIf(session)
	c.mu.Unlock()

	// load failures land in the screen state
	_ = c.Load(ctx)
	return nil
}

// RequestDelete holds the listed employee as the pending delete target.
func (c *DirectoryController) RequestDelete(employeeID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	i := slices.IndexFunc(c.employees, func(e model.Employee) bool { return e.EmployeeID == employeeID })
	if i < 0 {
		return ErrUnknownEmployee
	}
	emp := c.employees[i]
	c.confirm.OpenWith(&emp)
	return nil
}

func (c *DirectoryController) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirm.Close()
}

// Remove deletes the pending target. employeeID must match it.
func (c *DirectoryController) Remove(ctx context.Context, employeeID string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	target := c.confirm.Draft()
	if !c.confirm.IsOpen() || target == nil || target.EmployeeID != employeeID {
		c.mu.Unlock()
		return ErrNotConfirmed
	}
	if c.deleting {
		c.mu.Unlock()
		return ErrBusy
	}
	c.deleting = true
	session := c.confirm.Session()
	c.mu.Unlock()

	err := c.store.DeleteEmployee(ctx, employeeID)

	c.mu.Lock()
	c.deleting = false
	if c.closed {
		defer c.mu.Unlock()
		return c.dropLate("delete employee")
	}
	if err != nil {
		c.notes.Raise(hrclient.DetailOr(err, "Failed to delete employee"), KindError)
		c.log.Warn("delete employee failed", zap.String("employee_id", employeeID), zap.Error(err))
		c.mu.Unlock()
		return err
	}
	c.notes.Raise("Employee deleted successfully!", KindSuccess)
	c.confirm.CloseIf(session)
	c.mu.Unlock()

	_ = c.Load(ctx)
	return nil
}

// EmployeeForm is the view of the create modal.
type EmployeeForm struct {
	Open       bool          `json:"open"`
	Values     EmployeeDraft `json:"values"`
	Errors     FieldErrors   `json:"errors"`
	Submitting bool          `json:"submitting"`
}

type DirectoryView struct {
	LoadState
	Employees     []model.Employee `json:"employees"`
	Departments   []string         `json:"departments"`
	Create        EmployeeForm     `json:"create"`
	PendingDelete *model.Employee  `json:"pending_delete"`
	Deleting      bool             `json:"deleting"`
	Notification  *Notification    `json:"notification"`
}

// View snapshots the screen state.
func (c *DirectoryController) View() DirectoryView {
	c.mu.Lock()
	defer c.mu.Unlock()
	form := c.create.Draft()
	v := DirectoryView{
		LoadState:   c.loads.state(),
		Employees:   slices.Clone(c.employees),
		Departments: slices.Clone(model.Departments),
		Create: EmployeeForm{
			Open:       c.create.IsOpen(),
			Values:     form.Draft,
			Errors:     maps.Clone(form.Errors),
			Submitting: c.submitting,
		},
		Deleting:     c.deleting,
		Notification: c.notes.current(),
	}
	if t := c.confirm.Draft(); c.confirm.IsOpen() && t != nil {
		target := *t
		v.PendingDelete = &target
	}
	return v
}

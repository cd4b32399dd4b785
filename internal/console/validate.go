package console

import (
	"regexp"
	"strings"

	"hrms/internal/model"
)

// Draft field names, as sent by the form.
const (
	FieldEmployeeID = "employee_id"
	FieldFullName   = "full_name"
	FieldEmail      = "email"
	FieldDepartment = "department"
	FieldDate       = "date"
	FieldStatus     = "status"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// EmployeeDraft is the create-employee form input.
type EmployeeDraft struct {
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// Set assigns one field by its form name.
func (d *EmployeeDraft) Set(field, value string) error {
	switch field {
	case FieldEmployeeID:
		d.EmployeeID = value
	case FieldFullName:
		d.FullName = value
	case FieldEmail:
		d.Email = value
	case FieldDepartment:
		d.Department = value
	default:
		return ErrUnknownField
	}
	return nil
}

// Input trims the draft into the create payload.
func (d EmployeeDraft) Input() model.EmployeeInput {
	return model.EmployeeInput{
		EmployeeID: strings.TrimSpace(d.EmployeeID),
		FullName:   strings.TrimSpace(d.FullName),
		Email:      strings.TrimSpace(d.Email),
		Department: strings.TrimSpace(d.Department),
	}
}

// FieldErrors maps a field name to its message. Valid fields are absent.
type FieldErrors map[string]string

func (fe FieldErrors) Valid() bool { return len(fe) == 0 }

// ValidateEmployee checks a draft before it is sent.
func ValidateEmployee(d EmployeeDraft) FieldErrors {
	in := d.Input()
	errs := FieldErrors{}
	if in.EmployeeID == "" {
		errs[FieldEmployeeID] = "Employee ID is required"
	}
	if in.FullName == "" {
		errs[FieldFullName] = "Full name is required"
	}
	switch {
	case in.Email == "":
		errs[FieldEmail] = "Email is required"
	case !emailPattern.MatchString(in.Email):
		errs[FieldEmail] = "Invalid email format"
	}
	switch {
	case in.Department == "":
		errs[FieldDepartment] = "Department is required"
	case !model.IsDepartment(in.Department):
		errs[FieldDepartment] = "Invalid department"
	}
	return errs
}

// AttendanceDraft is the mark-attendance form input.
type AttendanceDraft struct {
	EmployeeID string       `json:"employee_id"`
	Date       string       `json:"date"`
	Status     model.Status `json:"status"`
}

func (d *AttendanceDraft) Set(field, value string) error {
	switch field {
	case FieldEmployeeID:
		d.EmployeeID = value
	case FieldDate:
		d.Date = value
	case FieldStatus:
		d.Status = model.Status(value)
	default:
		return ErrUnknownField
	}
	return nil
}

// complete reports whether every field has a value.
func (d AttendanceDraft) complete() bool {
	return strings.TrimSpace(d.EmployeeID) != "" && d.Date != "" && d.Status != ""
}

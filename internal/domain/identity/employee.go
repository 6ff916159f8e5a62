package identity

import (
	"strings"
	"time"

	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EmployeeStatus tracks whether an employee is currently on staff
type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "ACTIVE"
	EmployeeInactive EmployeeStatus = "INACTIVE"
)

// Employee is a staff record of a practice. It may be linked to a login account.
type Employee struct {
	shared.TenantAggregateRoot
	UserID     *uuid.UUID
	FirstName  string
	LastName   string
	Email      string
	FiscalCode string
	JobTitle   string
	HireDate   *time.Time
	Status     EmployeeStatus
}

// NewEmployee creates an active employee
func NewEmployee(tenantID uuid.UUID, firstName, lastName, email string) (*Employee, error) {
	firstName, lastName, err := normalizeName(firstName, lastName)
	if err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	return &Employee{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		FirstName:           firstName,
		LastName:            lastName,
		Email:               email,
		Status:              EmployeeActive,
	}, nil
}

// SetName updates first and last name
func (e *Employee) SetName(firstName, lastName string) error {
	firstName, lastName, err := normalizeName(firstName, lastName)
	if err != nil {
		return err
	}
	e.FirstName = firstName
	e.LastName = lastName
	e.touch()
	return nil
}

// SetEmail updates the contact email
func (e *Employee) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return err
	}
	e.Email = email
	e.touch()
	return nil
}

// SetFiscalCode stores the upper-cased fiscal code. Structural validation
// happens in the validators before this is called.
func (e *Employee) SetFiscalCode(code string) {
	e.FiscalCode = strings.ToUpper(strings.TrimSpace(code))
	e.touch()
}

// SetJob updates job title and hire date
func (e *Employee) SetJob(jobTitle string, hireDate *time.Time) {
	e.JobTitle = strings.TrimSpace(jobTitle)
	e.HireDate = hireDate
	e.touch()
}

// LinkUser attaches a login account
func (e *Employee) LinkUser(userID uuid.UUID) {
	e.UserID = &userID
	e.touch()
}

// Deactivate marks the employee as no longer on staff
func (e *Employee) Deactivate() error {
	if e.Status == EmployeeInactive {
		return shared.NewDomainError("INVALID_STATE", "Il dipendente è già disattivato")
	}
	e.Status = EmployeeInactive
	e.touch()
	return nil
}

// Activate puts the employee back on staff
func (e *Employee) Activate() {
	e.Status = EmployeeActive
	e.touch()
}

// IsActive reports whether the employee is on staff
func (e *Employee) IsActive() bool {
	return e.Status == EmployeeActive
}

// FullName returns "First Last"
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

func (e *Employee) touch() {
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

func normalizeName(firstName, lastName string) (string, string, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return "", "", shared.NewDomainError("INVALID_NAME", "Nome e cognome sono obbligatori")
	}
	if len(firstName) > 100 || len(lastName) > 100 {
		return "", "", shared.NewDomainError("INVALID_NAME", "Nome e cognome non possono superare 100 caratteri")
	}
	return firstName, lastName, nil
}

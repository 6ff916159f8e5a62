package identity

import (
	"time"

	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/dentalhr/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
)

// RegisterRequest signs up a new practice together with its owner
type RegisterRequest struct {
	PracticeName string `json:"practiceName" binding:"required,max=200"`
	Name         string `json:"name" binding:"required,max=200"`
	Email        string `json:"email" binding:"required,email,max=200"`
	Password     string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest contains the credentials for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest contains the refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// TenantResponse represents a practice in API responses
type TenantResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Slug               string     `json:"slug"`
	SubscriptionStatus string     `json:"subscriptionStatus"`
	TrialEndsAt        *time.Time `json:"trialEndsAt,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"currentPeriodEnd,omitempty"`
}

// RegisterResponse is returned by a successful registration
type RegisterResponse struct {
	User   UserResponse    `json:"user"`
	Tenant TenantResponse  `json:"tenant"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// MeResponse describes the caller and their practice
type MeResponse struct {
	User       UserResponse   `json:"user"`
	Tenant     TenantResponse `json:"tenant"`
	Role       string         `json:"role"`
	EmployeeID *uuid.UUID     `json:"employeeId"`
}

// ToUserResponse converts a domain user to a response
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
	}
}

// ToTenantResponse converts a domain tenant to a response
func ToTenantResponse(t *identity.Tenant) TenantResponse {
	return TenantResponse{
		ID:                 t.ID,
		Name:               t.Name,
		Slug:               t.Slug,
		SubscriptionStatus: string(t.SubscriptionStatus),
		TrialEndsAt:        t.TrialEndsAt,
		CurrentPeriodEnd:   t.CurrentPeriodEnd,
	}
}

// CreateEmployeeRequest adds a staff member. When Password is set a login
// account with the EMPLOYEE role (or Role, if given) is created as well.
type CreateEmployeeRequest struct {
	FirstName  string     `json:"firstName" binding:"required,max=100"`
	LastName   string     `json:"lastName" binding:"required,max=100"`
	Email      string     `json:"email" binding:"required,email,max=200"`
	FiscalCode string     `json:"fiscalCode" binding:"omitempty,len=16,alphanum"`
	JobTitle   string     `json:"jobTitle" binding:"max=100"`
	HireDate   *time.Time `json:"hireDate"`
	Password   string     `json:"password" binding:"omitempty,min=8,max=72"`
	Role       string     `json:"role" binding:"omitempty,oneof=ADMIN MANAGER EMPLOYEE"`
}

// UpdateEmployeeRequest is a partial employee update
type UpdateEmployeeRequest struct {
	FirstName  *string    `json:"firstName" binding:"omitempty,max=100"`
	LastName   *string    `json:"lastName" binding:"omitempty,max=100"`
	Email      *string    `json:"email" binding:"omitempty,email,max=200"`
	FiscalCode *string    `json:"fiscalCode" binding:"omitempty,len=16,alphanum"`
	JobTitle   *string    `json:"jobTitle" binding:"omitempty,max=100"`
	HireDate   *time.Time `json:"hireDate"`
}

// EmployeeListFilter represents query parameters of the employee listing
type EmployeeListFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
	Search string `form:"search" binding:"max=100"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// EmployeeResponse represents an employee in API responses
type EmployeeResponse struct {
	ID         uuid.UUID  `json:"id"`
	UserID     *uuid.UUID `json:"userId"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Email      string     `json:"email"`
	FiscalCode string     `json:"fiscalCode,omitempty"`
	JobTitle   string     `json:"jobTitle,omitempty"`
	HireDate   *time.Time `json:"hireDate,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// EmployeeListResponse is a page of employees
type EmployeeListResponse struct {
	Employees []EmployeeResponse `json:"employees"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
	Limit     int                `json:"limit"`
}

// ToEmployeeResponse converts a domain employee to a response
func ToEmployeeResponse(e *identity.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID,
		UserID:     e.UserID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		FiscalCode: e.FiscalCode,
		JobTitle:   e.JobTitle,
		HireDate:   e.HireDate,
		Status:     string(e.Status),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

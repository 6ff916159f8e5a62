package models

import (
	"time"

	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AggregateModel
	Email        string     `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	Name         string     `gorm:"type:varchar(200);not null"`
	IsActive     bool       `gorm:"not null"`
	LastLoginAt  *time.Time `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.toAggregateRoot(),
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Name:              m.Name,
		IsActive:          m.IsActive,
		LastLoginAt:       m.LastLoginAt,
	}
}

// UserModelFromDomain creates a persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		IsActive:     u.IsActive,
		LastLoginAt:  u.LastLoginAt,
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return m
}

// TenantModel is the persistence model for the Tenant domain entity.
type TenantModel struct {
	AggregateModel
	Name                 string                      `gorm:"type:varchar(200);not null"`
	Slug                 string                      `gorm:"type:varchar(200);not null;uniqueIndex"`
	VATNumber            string                      `gorm:"column:vat_number;type:varchar(20)"`
	SubscriptionStatus   identity.SubscriptionStatus `gorm:"type:varchar(20);not null;default:'TRIAL'"`
	StripeCustomerID     *string                     `gorm:"type:varchar(100);uniqueIndex"`
	StripeSubscriptionID string                      `gorm:"type:varchar(100)"`
	TrialEndsAt          *time.Time                  `gorm:"type:timestamptz"`
	CurrentPeriodEnd     *time.Time                  `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant entity.
func (m *TenantModel) ToDomain() *identity.Tenant {
	t := &identity.Tenant{
		BaseAggregateRoot:    m.toAggregateRoot(),
		Name:                 m.Name,
		Slug:                 m.Slug,
		VATNumber:            m.VATNumber,
		SubscriptionStatus:   m.SubscriptionStatus,
		StripeSubscriptionID: m.StripeSubscriptionID,
		TrialEndsAt:          m.TrialEndsAt,
		CurrentPeriodEnd:     m.CurrentPeriodEnd,
	}
	if m.StripeCustomerID != nil {
		t.StripeCustomerID = *m.StripeCustomerID
	}
	return t
}

// TenantModelFromDomain creates a persistence model from a domain Tenant entity.
// An empty customer id is stored as NULL so the unique index ignores it.
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{
		Name:                 t.Name,
		Slug:                 t.Slug,
		VATNumber:            t.VATNumber,
		SubscriptionStatus:   t.SubscriptionStatus,
		StripeSubscriptionID: t.StripeSubscriptionID,
		TrialEndsAt:          t.TrialEndsAt,
		CurrentPeriodEnd:     t.CurrentPeriodEnd,
	}
	if t.StripeCustomerID != "" {
		customerID := t.StripeCustomerID
		m.StripeCustomerID = &customerID
	}
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	return m
}

// MembershipModel is the persistence model for the Membership domain entity.
type MembershipModel struct {
	BaseModel
	TenantID uuid.UUID     `gorm:"type:uuid;not null;index"`
	UserID   uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex"`
	Role     identity.Role `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (MembershipModel) TableName() string {
	return "memberships"
}

// ToDomain converts the persistence model to a domain Membership entity.
func (m *MembershipModel) ToDomain() *identity.Membership {
	return &identity.Membership{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.TenantID,
		UserID:     m.UserID,
		Role:       m.Role,
	}
}

// MembershipModelFromDomain creates a persistence model from a domain Membership entity.
func MembershipModelFromDomain(ms *identity.Membership) *MembershipModel {
	m := &MembershipModel{
		TenantID: ms.TenantID,
		UserID:   ms.UserID,
		Role:     ms.Role,
	}
	m.FromDomainBaseEntity(ms.BaseEntity)
	return m
}

// EmployeeModel is the persistence model for the Employee domain entity.
type EmployeeModel struct {
	TenantAggregateModel
	UserID     *uuid.UUID              `gorm:"type:uuid;index"`
	FirstName  string                  `gorm:"type:varchar(100);not null"`
	LastName   string                  `gorm:"type:varchar(100);not null"`
	Email      string                  `gorm:"type:varchar(254);not null"`
	FiscalCode string                  `gorm:"type:varchar(16)"`
	JobTitle   string                  `gorm:"type:varchar(100)"`
	HireDate   *time.Time              `gorm:"type:date"`
	Status     identity.EmployeeStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the persistence model to a domain Employee entity.
func (m *EmployeeModel) ToDomain() *identity.Employee {
	e := &identity.Employee{
		UserID:     m.UserID,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Email:      m.Email,
		FiscalCode: m.FiscalCode,
		JobTitle:   m.JobTitle,
		HireDate:   m.HireDate,
		Status:     m.Status,
	}
	m.PopulateTenantAggregateRoot(&e.TenantAggregateRoot)
	return e
}

// EmployeeModelFromDomain creates a persistence model from a domain Employee entity.
func EmployeeModelFromDomain(e *identity.Employee) *EmployeeModel {
	m := &EmployeeModel{
		UserID:     e.UserID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		FiscalCode: e.FiscalCode,
		JobTitle:   e.JobTitle,
		HireDate:   e.HireDate,
		Status:     e.Status,
	}
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	return m
}

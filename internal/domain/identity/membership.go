package identity

import (
	"time"

	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Role is the permission level of a member inside a practice
type Role string

const (
	RoleOwner    Role = "OWNER"
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

// IsValid reports whether the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// CanEditContent reports whether the role may write manual content and checklists
func (r Role) CanEditContent() bool {
	return r == RoleOwner || r == RoleAdmin || r == RoleManager
}

// CanManagePeople reports whether the role may manage employees
func (r Role) CanManagePeople() bool {
	return r == RoleOwner || r == RoleAdmin
}

// Membership joins a user to exactly one practice
type Membership struct {
	shared.BaseEntity
	TenantID uuid.UUID
	UserID   uuid.UUID
	Role     Role
}

// NewMembership creates a membership with the given role
func NewMembership(tenantID, userID uuid.UUID, role Role) (*Membership, error) {
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Ruolo non valido")
	}
	return &Membership{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		UserID:     userID,
		Role:       role,
	}, nil
}

// ChangeRole assigns a new role. The owner role is never reassigned here.
func (m *Membership) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Ruolo non valido")
	}
	if m.Role == RoleOwner || role == RoleOwner {
		return shared.NewDomainError("INVALID_ROLE", "Il ruolo di titolare non può essere modificato")
	}
	m.Role = role
	m.UpdatedAt = time.Now()
	return nil
}

// Package tenant provides the GORM scope that partitions every query by practice.
//
// Usage:
//
//	db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Find(&articles)
package tenant

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope restricts a query to rows of one tenant. A zero tenant id matches
// nothing instead of everything.
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where("tenant_id = ?", tenantID)
	}
}

// ScopeTable is Scope for queries joining several tenant tables, where the
// column must be qualified.
func ScopeTable(table string, tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where(table+".tenant_id = ?", tenantID)
	}
}

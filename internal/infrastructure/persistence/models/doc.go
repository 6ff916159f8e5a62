// Package models contains GORM persistence models that map to database tables.
// Domain entities carry no ORM tags; each model converts to and from its
// entity with ToDomain / FromDomain, and repositories only ever hand
// entities back to callers.
//
// Files:
//   - base.go: shared columns (id, timestamps, version, tenant)
//   - identity.go: users, tenants, memberships, employees
//   - manual.go: categories, articles, revisions, acknowledgments
//   - checklist.go: checklists, items, executions
package models

package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database with the application schema.
// Column types follow the PostgreSQL migrations closely enough for GORM.
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	statements := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1,
			last_login_at DATETIME,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE tenants (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			vat_number TEXT,
			subscription_status TEXT NOT NULL DEFAULT 'TRIAL',
			stripe_customer_id TEXT UNIQUE,
			stripe_subscription_id TEXT,
			trial_ends_at DATETIME,
			current_period_end DATETIME,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE memberships (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			user_id TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE employees (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			created_by TEXT,
			user_id TEXT,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL,
			fiscal_code TEXT,
			job_title TEXT,
			hire_date DATE,
			status TEXT NOT NULL DEFAULT 'ACTIVE',
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE manual_categories (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			created_by TEXT,
			name TEXT NOT NULL,
			description TEXT,
			parent_id TEXT,
			path TEXT NOT NULL,
			level INTEGER NOT NULL DEFAULT 0,
			sort_order INTEGER NOT NULL DEFAULT 0,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE manual_articles (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			created_by TEXT,
			category_id TEXT NOT NULL,
			title TEXT NOT NULL,
			slug TEXT NOT NULL,
			content TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'DRAFT',
			is_template INTEGER NOT NULL DEFAULT 0,
			updated_by TEXT,
			published_at DATETIME,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			UNIQUE(tenant_id, slug)
		)`,
		`CREATE TABLE manual_revisions (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			article_id TEXT NOT NULL,
			version INTEGER NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			change_note TEXT,
			changed_by TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			UNIQUE(article_id, version)
		)`,
		`CREATE TABLE manual_acknowledgments (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			article_id TEXT NOT NULL,
			employee_id TEXT NOT NULL,
			article_version INTEGER NOT NULL,
			acknowledged_at DATETIME NOT NULL,
			signature TEXT,
			UNIQUE(article_id, employee_id)
		)`,
		`CREATE TABLE checklists (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			created_by TEXT,
			title TEXT NOT NULL,
			description TEXT,
			frequency TEXT NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1,
			category_id TEXT,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE checklist_items (
			id TEXT PRIMARY KEY,
			checklist_id TEXT NOT NULL,
			text TEXT NOT NULL,
			mandatory INTEGER NOT NULL DEFAULT 0,
			sort_order INTEGER NOT NULL
		)`,
		`CREATE TABLE checklist_executions (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			checklist_id TEXT NOT NULL,
			items TEXT NOT NULL,
			completion_rate INTEGER NOT NULL,
			notes TEXT,
			executed_by TEXT NOT NULL,
			executed_at DATETIME NOT NULL
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

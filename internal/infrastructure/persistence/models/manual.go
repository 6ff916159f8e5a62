package models

import (
	"time"

	"github.com/dentalhr/backend/internal/domain/manual"
	"github.com/google/uuid"
)

// CategoryModel is the persistence model for the manual Category entity.
type CategoryModel struct {
	TenantAggregateModel
	Name        string     `gorm:"type:varchar(100);not null"`
	Description string     `gorm:"type:text"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	Path        string     `gorm:"type:text;not null;index"`
	Level       int        `gorm:"not null;default:0"`
	SortOrder   int        `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "manual_categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *manual.Category {
	c := &manual.Category{
		Name:        m.Name,
		Description: m.Description,
		ParentID:    m.ParentID,
		Path:        m.Path,
		Level:       m.Level,
		SortOrder:   m.SortOrder,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// CategoryModelFromDomain creates a persistence model from a domain Category entity.
func CategoryModelFromDomain(c *manual.Category) *CategoryModel {
	m := &CategoryModel{
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		Path:        c.Path,
		Level:       c.Level,
		SortOrder:   c.SortOrder,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}

// ArticleModel is the persistence model for the manual Article entity.
type ArticleModel struct {
	TenantAggregateModel
	CategoryID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	Title       string               `gorm:"type:varchar(200);not null"`
	Slug        string               `gorm:"type:varchar(200);not null"`
	Content     string               `gorm:"type:text;not null"`
	Status      manual.ArticleStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	IsTemplate  bool                 `gorm:"not null;default:false"`
	UpdatedBy   *uuid.UUID           `gorm:"type:uuid"`
	PublishedAt *time.Time           `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (ArticleModel) TableName() string {
	return "manual_articles"
}

// ToDomain converts the persistence model to a domain Article entity.
func (m *ArticleModel) ToDomain() *manual.Article {
	a := &manual.Article{
		CategoryID:  m.CategoryID,
		Title:       m.Title,
		Slug:        m.Slug,
		Content:     m.Content,
		Status:      m.Status,
		IsTemplate:  m.IsTemplate,
		UpdatedBy:   m.UpdatedBy,
		PublishedAt: m.PublishedAt,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// ArticleModelFromDomain creates a persistence model from a domain Article entity.
func ArticleModelFromDomain(a *manual.Article) *ArticleModel {
	m := &ArticleModel{
		CategoryID:  a.CategoryID,
		Title:       a.Title,
		Slug:        a.Slug,
		Content:     a.Content,
		Status:      a.Status,
		IsTemplate:  a.IsTemplate,
		UpdatedBy:   a.UpdatedBy,
		PublishedAt: a.PublishedAt,
	}
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	return m
}

// RevisionModel is the persistence model for article revisions. Rows are insert-only.
type RevisionModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ArticleID  uuid.UUID `gorm:"type:uuid;not null"`
	Version    int       `gorm:"not null"`
	Title      string    `gorm:"type:varchar(200);not null"`
	Content    string    `gorm:"type:text;not null"`
	ChangeNote string    `gorm:"type:varchar(500)"`
	ChangedBy  uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RevisionModel) TableName() string {
	return "manual_revisions"
}

// ToDomain converts the persistence model to a domain Revision.
func (m *RevisionModel) ToDomain() *manual.Revision {
	return &manual.Revision{
		ID:         m.ID,
		TenantID:   m.TenantID,
		ArticleID:  m.ArticleID,
		Version:    m.Version,
		Title:      m.Title,
		Content:    m.Content,
		ChangeNote: m.ChangeNote,
		ChangedBy:  m.ChangedBy,
		CreatedAt:  m.CreatedAt,
	}
}

// RevisionModelFromDomain creates a persistence model from a domain Revision.
func RevisionModelFromDomain(r *manual.Revision) *RevisionModel {
	return &RevisionModel{
		ID:         r.ID,
		TenantID:   r.TenantID,
		ArticleID:  r.ArticleID,
		Version:    r.Version,
		Title:      r.Title,
		Content:    r.Content,
		ChangeNote: r.ChangeNote,
		ChangedBy:  r.ChangedBy,
		CreatedAt:  r.CreatedAt,
	}
}

// AcknowledgmentModel is the persistence model for read acknowledgments.
// (article_id, employee_id) is unique.
type AcknowledgmentModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ArticleID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ack_article_employee,priority:1"`
	EmployeeID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ack_article_employee,priority:2"`
	ArticleVersion int       `gorm:"not null"`
	AcknowledgedAt time.Time `gorm:"not null"`
	Signature      string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AcknowledgmentModel) TableName() string {
	return "manual_acknowledgments"
}

// ToDomain converts the persistence model to a domain Acknowledgment.
func (m *AcknowledgmentModel) ToDomain() *manual.Acknowledgment {
	return &manual.Acknowledgment{
		ID:             m.ID,
		TenantID:       m.TenantID,
		ArticleID:      m.ArticleID,
		EmployeeID:     m.EmployeeID,
		ArticleVersion: m.ArticleVersion,
		AcknowledgedAt: m.AcknowledgedAt,
		Signature:      m.Signature,
	}
}

// AcknowledgmentModelFromDomain creates a persistence model from a domain Acknowledgment.
func AcknowledgmentModelFromDomain(a *manual.Acknowledgment) *AcknowledgmentModel {
	return &AcknowledgmentModel{
		ID:             a.ID,
		TenantID:       a.TenantID,
		ArticleID:      a.ArticleID,
		EmployeeID:     a.EmployeeID,
		ArticleVersion: a.ArticleVersion,
		AcknowledgedAt: a.AcknowledgedAt,
		Signature:      a.Signature,
	}
}

// AcknowledgmentViewRow is the scan target of the acknowledgment/employee join.
type AcknowledgmentViewRow struct {
	AcknowledgmentModel
	EmployeeFirstName string
	EmployeeLastName  string
	EmployeeEmail     string
}

// ToDomain converts the joined row to a domain AcknowledgmentView.
func (r *AcknowledgmentViewRow) ToDomain() manual.AcknowledgmentView {
	return manual.AcknowledgmentView{
		Acknowledgment:    *r.AcknowledgmentModel.ToDomain(),
		EmployeeFirstName: r.EmployeeFirstName,
		EmployeeLastName:  r.EmployeeLastName,
		EmployeeEmail:     r.EmployeeEmail,
	}
}

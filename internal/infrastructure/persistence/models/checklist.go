package models

import (
	"time"

	"github.com/dentalhr/backend/internal/domain/manual"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ChecklistModel is the persistence model for the Checklist aggregate.
type ChecklistModel struct {
	TenantAggregateModel
	Title       string               `gorm:"type:varchar(200);not null"`
	Description string               `gorm:"type:text"`
	Frequency   manual.Frequency     `gorm:"type:varchar(20);not null"`
	IsActive    bool                 `gorm:"not null"`
	CategoryID  *uuid.UUID           `gorm:"type:uuid"`
	Items       []ChecklistItemModel `gorm:"foreignKey:ChecklistID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ChecklistModel) TableName() string {
	return "checklists"
}

// ToDomain converts the persistence model and its loaded items to a domain Checklist.
func (m *ChecklistModel) ToDomain() *manual.Checklist {
	c := &manual.Checklist{
		Title:       m.Title,
		Description: m.Description,
		Frequency:   m.Frequency,
		IsActive:    m.IsActive,
		CategoryID:  m.CategoryID,
		Items:       make([]manual.ChecklistItem, 0, len(m.Items)),
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	for _, item := range m.Items {
		c.Items = append(c.Items, item.ToDomain())
	}
	return c
}

// ChecklistModelFromDomain creates a persistence model from a domain Checklist, items included.
func ChecklistModelFromDomain(c *manual.Checklist) *ChecklistModel {
	m := &ChecklistModel{
		Title:       c.Title,
		Description: c.Description,
		Frequency:   c.Frequency,
		IsActive:    c.IsActive,
		CategoryID:  c.CategoryID,
		Items:       make([]ChecklistItemModel, 0, len(c.Items)),
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	for _, item := range c.Items {
		m.Items = append(m.Items, ChecklistItemModel{
			ID:          item.ID,
			ChecklistID: c.ID,
			Text:        item.Text,
			Mandatory:   item.Mandatory,
			SortOrder:   item.Order,
		})
	}
	return m
}

// ChecklistItemModel is the persistence model for a checklist item.
type ChecklistItemModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	ChecklistID uuid.UUID `gorm:"type:uuid;not null;index"`
	Text        string    `gorm:"type:varchar(500);not null"`
	Mandatory   bool      `gorm:"not null;default:false"`
	SortOrder   int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ChecklistItemModel) TableName() string {
	return "checklist_items"
}

// ToDomain converts the persistence model to a domain ChecklistItem.
func (m ChecklistItemModel) ToDomain() manual.ChecklistItem {
	return manual.ChecklistItem{
		ID:          m.ID,
		ChecklistID: m.ChecklistID,
		Text:        m.Text,
		Mandatory:   m.Mandatory,
		Order:       m.SortOrder,
	}
}

// ChecklistExecutionModel is the persistence model for a checklist run.
// Items holds the submitted item-key → checked mapping as JSON.
type ChecklistExecutionModel struct {
	ID             uuid.UUID                           `gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID                           `gorm:"type:uuid;not null;index"`
	ChecklistID    uuid.UUID                           `gorm:"type:uuid;not null;index"`
	Items          datatypes.JSONType[map[string]bool] `gorm:"type:jsonb;not null"`
	CompletionRate int                                 `gorm:"not null"`
	Notes          string                              `gorm:"type:text"`
	ExecutedBy     uuid.UUID                           `gorm:"type:uuid;not null"`
	ExecutedAt     time.Time                           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ChecklistExecutionModel) TableName() string {
	return "checklist_executions"
}

// ToDomain converts the persistence model to a domain ChecklistExecution.
func (m *ChecklistExecutionModel) ToDomain() *manual.ChecklistExecution {
	items := m.Items.Data()
	if items == nil {
		items = map[string]bool{}
	}
	return &manual.ChecklistExecution{
		ID:             m.ID,
		TenantID:       m.TenantID,
		ChecklistID:    m.ChecklistID,
		Items:          items,
		CompletionRate: m.CompletionRate,
		Notes:          m.Notes,
		ExecutedBy:     m.ExecutedBy,
		ExecutedAt:     m.ExecutedAt,
	}
}

// ChecklistExecutionModelFromDomain creates a persistence model from a domain ChecklistExecution.
func ChecklistExecutionModelFromDomain(e *manual.ChecklistExecution) *ChecklistExecutionModel {
	return &ChecklistExecutionModel{
		ID:             e.ID,
		TenantID:       e.TenantID,
		ChecklistID:    e.ChecklistID,
		Items:          datatypes.NewJSONType(e.Items),
		CompletionRate: e.CompletionRate,
		Notes:          e.Notes,
		ExecutedBy:     e.ExecutedBy,
		ExecutedAt:     e.ExecutedAt,
	}
}

package manual

import (
	"math"
	"strings"
	"time"

	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Frequency is how often a checklist is expected to be run
type Frequency string

const (
	FrequencyDaily     Frequency = "DAILY"
	FrequencyWeekly    Frequency = "WEEKLY"
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyAnnual    Frequency = "ANNUAL"
	FrequencyOnDemand  Frequency = "ON_DEMAND"
)

// IsValid reports whether the frequency is known
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyAnnual, FrequencyOnDemand:
		return true
	}
	return false
}

// MaxChecklistItems bounds a single checklist
const MaxChecklistItems = 200

// ChecklistItem is one step of a checklist; Order is its position in the list
type ChecklistItem struct {
	ID          uuid.UUID
	ChecklistID uuid.UUID
	Text        string
	Mandatory   bool
	Order       int
}

// ItemInput describes an item to create
type ItemInput struct {
	Text      string
	Mandatory bool
}

// Checklist is a reusable ordered task list
type Checklist struct {
	shared.TenantAggregateRoot
	Title       string
	Description string
	Frequency   Frequency
	IsActive    bool
	CategoryID  *uuid.UUID
	Items       []ChecklistItem
}

// NewChecklist creates an active checklist. Item order follows the input order.
func NewChecklist(tenantID, createdBy uuid.UUID, title, description string, frequency Frequency, items []ItemInput) (*Checklist, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if !frequency.IsValid() {
		return nil, shared.NewDomainError("INVALID_FREQUENCY", "Frequenza non valida")
	}

	c := &Checklist{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, createdBy),
		Title:               title,
		Description:         strings.TrimSpace(description),
		Frequency:           frequency,
		IsActive:            true,
	}
	if err := c.setItems(items); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes the header fields and replaces the item list
func (c *Checklist) Update(title, description string, frequency Frequency, items []ItemInput) error {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return err
	}
	if !frequency.IsValid() {
		return shared.NewDomainError("INVALID_FREQUENCY", "Frequenza non valida")
	}
	if err := c.setItems(items); err != nil {
		return err
	}
	c.Title = title
	c.Description = strings.TrimSpace(description)
	c.Frequency = frequency
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetCategory links the checklist to a manual category
func (c *Checklist) SetCategory(categoryID *uuid.UUID) {
	c.CategoryID = categoryID
}

// Deactivate hides the checklist from new executions
func (c *Checklist) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

func (c *Checklist) setItems(inputs []ItemInput) error {
	if len(inputs) > MaxChecklistItems {
		return shared.NewDomainError("TOO_MANY_ITEMS", "La checklist contiene troppi elementi")
	}
	items := make([]ChecklistItem, 0, len(inputs))
	for i, in := range inputs {
		text := strings.TrimSpace(in.Text)
		if text == "" {
			return shared.NewDomainError("INVALID_ITEM", "Il testo di ogni elemento è obbligatorio")
		}
		if len(text) > 500 {
			return shared.NewDomainError("INVALID_ITEM", "Il testo di un elemento non può superare 500 caratteri")
		}
		items = append(items, ChecklistItem{
			ID:          uuid.New(),
			ChecklistID: c.ID,
			Text:        text,
			Mandatory:   in.Mandatory,
			Order:       i,
		})
	}
	c.Items = items
	return nil
}

// ChecklistExecution is an immutable record of one run of a checklist
type ChecklistExecution struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	ChecklistID    uuid.UUID
	Items          map[string]bool
	CompletionRate int
	Notes          string
	ExecutedBy     uuid.UUID
	ExecutedAt     time.Time
}

// NewExecution records a run. Item keys are not checked against the
// checklist's items and mandatory items are not enforced.
func NewExecution(checklist *Checklist, items map[string]bool, notes string, executedBy uuid.UUID) (*ChecklistExecution, error) {
	if checklist == nil {
		return nil, shared.ErrNotFound
	}
	if !checklist.IsActive {
		return nil, shared.NewDomainError("CHECKLIST_INACTIVE", "La checklist è disattivata")
	}
	if items == nil {
		items = map[string]bool{}
	}
	for key := range items {
		if strings.TrimSpace(key) == "" || len(key) > 100 {
			return nil, shared.NewDomainError("INVALID_ITEM_KEY", "Identificativo elemento non valido")
		}
	}
	if len(items) > MaxChecklistItems {
		return nil, shared.NewDomainError("TOO_MANY_ITEMS", "La checklist contiene troppi elementi")
	}
	return &ChecklistExecution{
		ID:             uuid.New(),
		TenantID:       checklist.TenantID,
		ChecklistID:    checklist.ID,
		Items:          items,
		CompletionRate: CompletionRate(items),
		Notes:          strings.TrimSpace(notes),
		ExecutedBy:     executedBy,
		ExecutedAt:     time.Now(),
	}, nil
}

// CompletionRate returns round(100 × done / total), or 0 for an empty mapping
func CompletionRate(items map[string]bool) int {
	if len(items) == 0 {
		return 0
	}
	done := 0
	for _, checked := range items {
		if checked {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(items))))
}

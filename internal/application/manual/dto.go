package manual

import (
	"time"

	"github.com/dentalhr/backend/internal/domain/manual"
	"github.com/google/uuid"
)

// CreateArticleRequest represents a request to create a manual article
type CreateArticleRequest struct {
	Title      string    `json:"title" binding:"required,max=200"`
	Slug       string    `json:"slug" binding:"required,max=200"`
	Content    string    `json:"content" binding:"required"`
	CategoryID uuid.UUID `json:"categoryId" binding:"required"`
	Status     *string   `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	IsTemplate bool      `json:"isTemplate"`
}

// UpdateArticleRequest represents a partial article update. Absent fields are kept.
type UpdateArticleRequest struct {
	Title      *string    `json:"title" binding:"omitempty,max=200"`
	Content    *string    `json:"content"`
	CategoryID *uuid.UUID `json:"categoryId"`
	Status     *string    `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	IsTemplate *bool      `json:"isTemplate"`
	ChangeNote string     `json:"changeNote" binding:"max=500"`
}

// ArticleListFilter represents query parameters of the article listing
type ArticleListFilter struct {
	Status     string `form:"status" binding:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	CategoryID string `form:"categoryId" binding:"omitempty,uuid"`
	IsTemplate *bool  `form:"isTemplate"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ArticleResponse represents an article in API responses
type ArticleResponse struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenantId"`
	CategoryID  uuid.UUID  `json:"categoryId"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	Status      string     `json:"status"`
	Version     int        `json:"version"`
	IsTemplate  bool       `json:"isTemplate"`
	CreatedBy   *uuid.UUID `json:"createdBy"`
	UpdatedBy   *uuid.UUID `json:"updatedBy"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ArticleListResponse is a page of articles
type ArticleListResponse struct {
	Articles []ArticleResponse `json:"articles"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// ToArticleResponse converts a domain article to a response
func ToArticleResponse(a *manual.Article) ArticleResponse {
	return ArticleResponse{
		ID:          a.ID,
		TenantID:    a.TenantID,
		CategoryID:  a.CategoryID,
		Title:       a.Title,
		Slug:        a.Slug,
		Content:     a.Content,
		Status:      string(a.Status),
		Version:     a.Version,
		IsTemplate:  a.IsTemplate,
		CreatedBy:   a.CreatedBy,
		UpdatedBy:   a.UpdatedBy,
		PublishedAt: a.PublishedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toArticleList(articles []manual.Article, total int64, page, limit int) *ArticleListResponse {
	items := make([]ArticleResponse, len(articles))
	for i := range articles {
		items[i] = ToArticleResponse(&articles[i])
	}
	return &ArticleListResponse{Articles: items, Total: total, Page: page, Limit: limit}
}

// RevisionResponse represents an article revision
type RevisionResponse struct {
	ID         uuid.UUID `json:"id"`
	ArticleID  uuid.UUID `json:"articleId"`
	Version    int       `json:"version"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	ChangeNote string    `json:"changeNote"`
	ChangedBy  uuid.UUID `json:"changedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToRevisionResponse converts a domain revision to a response
func ToRevisionResponse(r *manual.Revision) RevisionResponse {
	return RevisionResponse{
		ID:         r.ID,
		ArticleID:  r.ArticleID,
		Version:    r.Version,
		Title:      r.Title,
		Content:    r.Content,
		ChangeNote: r.ChangeNote,
		ChangedBy:  r.ChangedBy,
		CreatedAt:  r.CreatedAt,
	}
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string     `json:"name" binding:"required,max=100"`
	Description string     `json:"description" binding:"max=2000"`
	ParentID    *uuid.UUID `json:"parentId"`
	SortOrder   int        `json:"sortOrder"`
}

// UpdateCategoryRequest represents a partial category update.
// Setting MoveToRoot detaches the category from its parent.
type UpdateCategoryRequest struct {
	Name        *string    `json:"name" binding:"omitempty,max=100"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	SortOrder   *int       `json:"sortOrder"`
	ParentID    *uuid.UUID `json:"parentId"`
	MoveToRoot  bool       `json:"moveToRoot"`
}

// CategoryResponse represents a category
type CategoryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parentId"`
	Path        string     `json:"path"`
	Level       int        `json:"level"`
	SortOrder   int        `json:"sortOrder"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CategoryTreeNode is a category with its children
type CategoryTreeNode struct {
	CategoryResponse
	Children []CategoryTreeNode `json:"children"`
}

// ToCategoryResponse converts a domain category to a response
func ToCategoryResponse(c *manual.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		Path:        c.Path,
		Level:       c.Level,
		SortOrder:   c.SortOrder,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCategoryTree(nodes []*manual.CategoryNode) []CategoryTreeNode {
	out := make([]CategoryTreeNode, len(nodes))
	for i, n := range nodes {
		out[i] = CategoryTreeNode{
			CategoryResponse: ToCategoryResponse(&n.Category),
			Children:         toCategoryTree(n.Children),
		}
	}
	return out
}

// AcknowledgeRequest represents an acknowledgment with an optional signature
type AcknowledgeRequest struct {
	Signature string `json:"signature"`
}

// AcknowledgmentResponse represents an acknowledgment
type AcknowledgmentResponse struct {
	ID             uuid.UUID      `json:"id"`
	ArticleID      uuid.UUID      `json:"articleId"`
	EmployeeID     uuid.UUID      `json:"employeeId"`
	ArticleVersion int            `json:"articleVersion"`
	AcknowledgedAt time.Time      `json:"acknowledgedAt"`
	Signature      string         `json:"signature,omitempty"`
	Employee       *EmployeeBrief `json:"employee,omitempty"`
}

// EmployeeBrief is the identity of the employee who acknowledged
type EmployeeBrief struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// ToAcknowledgmentResponse converts a domain acknowledgment to a response
func ToAcknowledgmentResponse(a *manual.Acknowledgment) AcknowledgmentResponse {
	return AcknowledgmentResponse{
		ID:             a.ID,
		ArticleID:      a.ArticleID,
		EmployeeID:     a.EmployeeID,
		ArticleVersion: a.ArticleVersion,
		AcknowledgedAt: a.AcknowledgedAt,
		Signature:      a.Signature,
	}
}

// StatsResponse summarises acknowledgment coverage
type StatsResponse struct {
	PublishedArticles  int64   `json:"publishedArticles"`
	ActiveEmployees    int64   `json:"activeEmployees"`
	Acknowledgments    int64   `json:"acknowledgments"`
	AcknowledgmentRate float64 `json:"acknowledgmentRate"`
}

// ChecklistItemRequest is one item of a checklist create or update
type ChecklistItemRequest struct {
	Text      string `json:"text" binding:"required,max=500"`
	Mandatory bool   `json:"mandatory"`
}

// CreateChecklistRequest represents a request to create a checklist
type CreateChecklistRequest struct {
	Title       string                 `json:"title" binding:"required,max=200"`
	Description string                 `json:"description" binding:"max=2000"`
	Frequency   string                 `json:"frequency" binding:"required,oneof=DAILY WEEKLY MONTHLY QUARTERLY ANNUAL ON_DEMAND"`
	CategoryID  *uuid.UUID             `json:"categoryId"`
	Items       []ChecklistItemRequest `json:"items" binding:"max=200,dive"`
}

// UpdateChecklistRequest replaces a checklist's header and items
type UpdateChecklistRequest = CreateChecklistRequest

// ChecklistListFilter represents query parameters of the checklist listing
type ChecklistListFilter struct {
	Frequency  string `form:"frequency" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY QUARTERLY ANNUAL ON_DEMAND"`
	ActiveOnly bool   `form:"activeOnly"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ChecklistItemResponse is one item of a checklist
type ChecklistItemResponse struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Mandatory bool      `json:"mandatory"`
	Order     int       `json:"order"`
}

// ChecklistResponse represents a checklist with its items
type ChecklistResponse struct {
	ID          uuid.UUID               `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Frequency   string                  `json:"frequency"`
	IsActive    bool                    `json:"isActive"`
	CategoryID  *uuid.UUID              `json:"categoryId"`
	Items       []ChecklistItemResponse `json:"items"`
	CreatedBy   *uuid.UUID              `json:"createdBy"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

// ChecklistListResponse is a page of checklists
type ChecklistListResponse struct {
	Checklists []ChecklistResponse `json:"checklists"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
}

// ToChecklistResponse converts a domain checklist to a response
func ToChecklistResponse(c *manual.Checklist) ChecklistResponse {
	items := make([]ChecklistItemResponse, len(c.Items))
	for i, it := range c.Items {
		items[i] = ChecklistItemResponse{ID: it.ID, Text: it.Text, Mandatory: it.Mandatory, Order: it.Order}
	}
	return ChecklistResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Frequency:   string(c.Frequency),
		IsActive:    c.IsActive,
		CategoryID:  c.CategoryID,
		Items:       items,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ExecuteChecklistRequest records one run. Items maps an item key to whether it was done.
type ExecuteChecklistRequest struct {
	Items map[string]bool `json:"items"`
	Notes string          `json:"notes" binding:"max=2000"`
}

// ExecutionResponse represents a checklist execution
type ExecutionResponse struct {
	ID             uuid.UUID       `json:"id"`
	ChecklistID    uuid.UUID       `json:"checklistId"`
	Items          map[string]bool `json:"items"`
	CompletionRate int             `json:"completionRate"`
	Notes          string          `json:"notes,omitempty"`
	ExecutedBy     uuid.UUID       `json:"executedBy"`
	ExecutedAt     time.Time       `json:"executedAt"`
}

// ExecutionListResponse is a page of executions
type ExecutionListResponse struct {
	Executions []ExecutionResponse `json:"executions"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
}

// ToExecutionResponse converts a domain execution to a response
func ToExecutionResponse(e *manual.ChecklistExecution) ExecutionResponse {
	return ExecutionResponse{
		ID:             e.ID,
		ChecklistID:    e.ChecklistID,
		Items:          e.Items,
		CompletionRate: e.CompletionRate,
		Notes:          e.Notes,
		ExecutedBy:     e.ExecutedBy,
		ExecutedAt:     e.ExecutedAt,
	}
}

// PageRequest carries pagination query parameters
type PageRequest struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

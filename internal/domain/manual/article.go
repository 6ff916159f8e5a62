package manual

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ArticleStatus is the publication state of an article
type ArticleStatus string

const (
	ArticleDraft     ArticleStatus = "DRAFT"
	ArticlePublished ArticleStatus = "PUBLISHED"
	ArticleArchived  ArticleStatus = "ARCHIVED"
)

// IsValid reports whether the status is known
func (s ArticleStatus) IsValid() bool {
	return s == ArticleDraft || s == ArticlePublished || s == ArticleArchived
}

// InitialRevisionNote is the change note of every version 1 revision
const InitialRevisionNote = "Creazione iniziale"

// MaxContentLength bounds article bodies (rich text as HTML or Markdown)
const MaxContentLength = 1 << 20

// MaxTitleLength is the title column width of articles, revisions and checklists, in characters
const MaxTitleLength = 200

// Article is a versioned manual document. Version starts at 1 and is bumped
// exactly once for every content change, each bump paired with a Revision.
type Article struct {
	shared.TenantAggregateRoot
	CategoryID  uuid.UUID
	Title       string
	Slug        string
	Content     string
	Status      ArticleStatus
	IsTemplate  bool
	UpdatedBy   *uuid.UUID
	PublishedAt *time.Time
}

// NewArticle creates a draft article at version 1
func NewArticle(tenantID, createdBy, categoryID uuid.UUID, title, slug, content string) (*Article, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	slug = strings.TrimSpace(slug)
	if !shared.IsValidSlug(slug) {
		return nil, shared.NewDomainError("INVALID_SLUG", "Lo slug deve contenere solo lettere minuscole, numeri e trattini")
	}
	if err := validateContent(content); err != nil {
		return nil, err
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "La categoria è obbligatoria")
	}

	article := &Article{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, createdBy),
		CategoryID:          categoryID,
		Title:               title,
		Slug:                slug,
		Content:             content,
		Status:              ArticleDraft,
	}
	article.UpdatedBy = &createdBy
	return article, nil
}

// Snapshot returns the revision describing the article at its current version
func (a *Article) Snapshot(changeNote string, changedBy uuid.UUID) *Revision {
	return &Revision{
		ID:         uuid.New(),
		TenantID:   a.TenantID,
		ArticleID:  a.ID,
		Version:    a.Version,
		Title:      a.Title,
		Content:    a.Content,
		ChangeNote: changeNote,
		ChangedBy:  changedBy,
		CreatedAt:  a.UpdatedAt,
	}
}

// ArticleChanges lists the fields of an update. Nil fields are left untouched.
type ArticleChanges struct {
	Title      *string
	Content    *string
	CategoryID *uuid.UUID
	Status     *ArticleStatus
	IsTemplate *bool
	ChangeNote string
}

// Apply mutates the article. When the content differs from the stored one the
// version is bumped and the matching revision is returned; otherwise the
// returned revision is nil.
func (a *Article) Apply(changes ArticleChanges, editor uuid.UUID) (*Revision, error) {
	if changes.Title != nil {
		title := strings.TrimSpace(*changes.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		a.Title = title
	}
	if changes.CategoryID != nil {
		if *changes.CategoryID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "La categoria è obbligatoria")
		}
		a.CategoryID = *changes.CategoryID
	}
	if changes.IsTemplate != nil {
		a.IsTemplate = *changes.IsTemplate
	}
	if changes.Status != nil {
		if err := a.transitionTo(*changes.Status); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	a.UpdatedAt = now
	a.UpdatedBy = &editor

	if changes.Content == nil || *changes.Content == a.Content {
		return nil, nil
	}
	if err := validateContent(*changes.Content); err != nil {
		return nil, err
	}
	a.Content = *changes.Content
	a.IncrementVersion()

	note := strings.TrimSpace(changes.ChangeNote)
	if note == "" {
		note = fmt.Sprintf("Aggiornamento v%d", a.Version)
	}
	return a.Snapshot(note, editor), nil
}

// Archive soft-deletes the article. Archiving twice is a no-op.
func (a *Article) Archive(editor uuid.UUID) {
	if a.Status == ArticleArchived {
		return
	}
	a.Status = ArticleArchived
	a.UpdatedAt = time.Now()
	a.UpdatedBy = &editor
}

// IsPublished returns true if the article is visible to every member
func (a *Article) IsPublished() bool {
	return a.Status == ArticlePublished
}

func (a *Article) transitionTo(next ArticleStatus) error {
	if !next.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Stato articolo non valido")
	}
	if next == a.Status {
		return nil
	}
	switch {
	case next == ArticleArchived:
	case a.Status == ArticleDraft && next == ArticlePublished:
	case a.Status == ArticlePublished && next == ArticleDraft:
	case a.Status == ArticleArchived && next == ArticleDraft:
	default:
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Impossibile passare da %s a %s", a.Status, next))
	}
	a.Status = next
	if next == ArticlePublished && a.PublishedAt == nil {
		now := time.Now()
		a.PublishedAt = &now
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Il titolo è obbligatorio")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return shared.NewDomainError("INVALID_TITLE", fmt.Sprintf("Il titolo non può superare %d caratteri", MaxTitleLength))
	}
	return nil
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return shared.NewDomainError("INVALID_CONTENT", "Il contenuto è obbligatorio")
	}
	if len(content) > MaxContentLength {
		return shared.NewDomainError("INVALID_CONTENT", "Il contenuto è troppo lungo")
	}
	return nil
}

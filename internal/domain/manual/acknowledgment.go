package manual

import (
	"math"
	"strings"
	"time"

	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxSignatureLength bounds the stored signature (typed name or a data URL of a drawn one)
const MaxSignatureLength = 200_000

// Acknowledgment records that an employee has read an article.
// There is at most one per (article, employee); acknowledging again overwrites it.
type Acknowledgment struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	ArticleID      uuid.UUID
	EmployeeID     uuid.UUID
	ArticleVersion int
	AcknowledgedAt time.Time
	Signature      string
}

// NewAcknowledgment records a read of the article's current version
func NewAcknowledgment(article *Article, employeeID uuid.UUID, signature string) (*Acknowledgment, error) {
	if article == nil {
		return nil, shared.ErrNotFound
	}
	if !article.IsPublished() {
		return nil, shared.NewDomainError("ARTICLE_NOT_PUBLISHED", "Solo gli articoli pubblicati possono essere confermati")
	}
	signature = strings.TrimSpace(signature)
	if len(signature) > MaxSignatureLength {
		return nil, shared.NewDomainError("INVALID_SIGNATURE", "La firma è troppo lunga")
	}
	return &Acknowledgment{
		ID:             uuid.New(),
		TenantID:       article.TenantID,
		ArticleID:      article.ID,
		EmployeeID:     employeeID,
		ArticleVersion: article.Version,
		AcknowledgedAt: time.Now(),
		Signature:      signature,
	}, nil
}

// AcknowledgmentView is an acknowledgment joined with the identity of the employee
type AcknowledgmentView struct {
	Acknowledgment
	EmployeeFirstName string
	EmployeeLastName  string
	EmployeeEmail     string
}

// Stats summarises acknowledgment coverage for a practice dashboard
type Stats struct {
	PublishedArticles  int64
	ActiveEmployees    int64
	Acknowledgments    int64
	AcknowledgmentRate float64
}

// NewStats computes the acknowledgment rate as
// acknowledgments / (published × active) × 100, clamped to [0, 100] and
// rounded to one decimal. Hire dates are not taken into account.
func NewStats(published, active, acknowledgments int64) Stats {
	stats := Stats{
		PublishedArticles: published,
		ActiveEmployees:   active,
		Acknowledgments:   acknowledgments,
	}
	expected := published * active
	if expected <= 0 {
		return stats
	}
	rate := float64(acknowledgments) / float64(expected) * 100
	rate = math.Max(0, math.Min(100, rate))
	stats.AcknowledgmentRate = math.Round(rate*10) / 10
	return stats
}

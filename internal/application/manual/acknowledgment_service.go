package manual

import (
	"context"

	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/dentalhr/backend/internal/domain/manual"
	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/dentalhr/backend/internal/infrastructure/logger"
	"github.com/dentalhr/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActiveEmployeeCounter counts the active staff of a practice
type ActiveEmployeeCounter interface {
	CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// AcknowledgmentService tracks which employees have read which articles
type AcknowledgmentService struct {
	articleRepo     manual.ArticleRepository
	ackRepo         manual.AcknowledgmentRepository
	employees       ActiveEmployeeCounter
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// NewAcknowledgmentService creates a new AcknowledgmentService
func NewAcknowledgmentService(
	articleRepo manual.ArticleRepository,
	ackRepo manual.AcknowledgmentRepository,
	employees ActiveEmployeeCounter,
	logger *zap.Logger,
) *AcknowledgmentService {
	return &AcknowledgmentService{
		articleRepo: articleRepo,
		ackRepo:     ackRepo,
		employees:   employees,
		logger:      logger,
	}
}

// SetBusinessMetrics sets the business metrics recorder
func (s *AcknowledgmentService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Acknowledge records that the calling employee has read the article's
// current version. Acknowledging again overwrites the previous record.
func (s *AcknowledgmentService) Acknowledge(ctx context.Context, tc identity.TenantContext, articleID uuid.UUID, req AcknowledgeRequest) (*AcknowledgmentResponse, error) {
	employeeID, err := tc.RequireEmployee()
	if err != nil {
		return nil, err
	}
	article, err := s.articleRepo.FindByIDForTenant(ctx, tc.TenantID, articleID)
	if err != nil {
		return nil, err
	}
	ack, err := manual.NewAcknowledgment(article, employeeID, req.Signature)
	if err != nil {
		return nil, err
	}
	if err := s.ackRepo.Upsert(ctx, ack); err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("Article acknowledged",
		zap.String("article_id", article.ID.String()),
		zap.Int("article_version", ack.ArticleVersion))
	s.businessMetrics.RecordAcknowledgment(ctx, tc.TenantID)

	resp := ToAcknowledgmentResponse(ack)
	return &resp, nil
}

// ListForArticle returns the acknowledgments of an article, most recent first
func (s *AcknowledgmentService) ListForArticle(ctx context.Context, tc identity.TenantContext, articleID uuid.UUID) ([]AcknowledgmentResponse, error) {
	if err := tc.RequireEditor(); err != nil {
		return nil, err
	}
	if _, err := s.articleRepo.FindByIDForTenant(ctx, tc.TenantID, articleID); err != nil {
		return nil, err
	}
	views, err := s.ackRepo.FindByArticle(ctx, tc.TenantID, articleID)
	if err != nil {
		return nil, err
	}
	out := make([]AcknowledgmentResponse, len(views))
	for i := range views {
		out[i] = ToAcknowledgmentResponse(&views[i].Acknowledgment)
		out[i].Employee = &EmployeeBrief{
			FirstName: views[i].EmployeeFirstName,
			LastName:  views[i].EmployeeLastName,
			Email:     views[i].EmployeeEmail,
		}
	}
	return out, nil
}

// Pending lists published articles the calling employee still has to acknowledge
func (s *AcknowledgmentService) Pending(ctx context.Context, tc identity.TenantContext, page PageRequest) (*ArticleListResponse, error) {
	employeeID, err := tc.RequireEmployee()
	if err != nil {
		return nil, err
	}
	filter := shared.Filter{Page: page.Page, PageSize: page.Limit}.Normalize()
	articles, total, err := s.articleRepo.FindPendingForEmployee(ctx, tc.TenantID, employeeID, filter)
	if err != nil {
		return nil, err
	}
	return toArticleList(articles, total, filter.Page, filter.PageSize), nil
}

// Stats computes the practice's acknowledgment coverage
func (s *AcknowledgmentService) Stats(ctx context.Context, tc identity.TenantContext) (*StatsResponse, error) {
	published, err := s.articleRepo.CountPublished(ctx, tc.TenantID)
	if err != nil {
		return nil, err
	}
	active, err := s.employees.CountActive(ctx, tc.TenantID)
	if err != nil {
		return nil, err
	}
	acks, err := s.ackRepo.CountForPublished(ctx, tc.TenantID)
	if err != nil {
		return nil, err
	}

	stats := manual.NewStats(published, active, acks)
	return &StatsResponse{
		PublishedArticles:  stats.PublishedArticles,
		ActiveEmployees:    stats.ActiveEmployees,
		Acknowledgments:    stats.Acknowledgments,
		AcknowledgmentRate: stats.AcknowledgmentRate,
	}, nil
}

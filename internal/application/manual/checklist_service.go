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

// ChecklistService handles checklists and their executions
type ChecklistService struct {
	checklistRepo   manual.ChecklistRepository
	executionRepo   manual.ExecutionRepository
	categoryRepo    manual.CategoryRepository
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
}

// NewChecklistService creates a new ChecklistService
func NewChecklistService(
	checklistRepo manual.ChecklistRepository,
	executionRepo manual.ExecutionRepository,
	categoryRepo manual.CategoryRepository,
	logger *zap.Logger,
) *ChecklistService {
	return &ChecklistService{
		checklistRepo: checklistRepo,
		executionRepo: executionRepo,
		categoryRepo:  categoryRepo,
		logger:        logger,
	}
}

// SetBusinessMetrics sets the business metrics recorder
func (s *ChecklistService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create creates an active checklist; items keep the order of the request
func (s *ChecklistService) Create(ctx context.Context, tc identity.TenantContext, req CreateChecklistRequest) (*ChecklistResponse, error) {
	if err := tc.RequireEditor(); err != nil {
		return nil, err
	}
	checklist, err := manual.NewChecklist(tc.TenantID, tc.UserID, req.Title, req.Description, manual.Frequency(req.Frequency), toItemInputs(req.Items))
	if err != nil {
		return nil, err
	}
	if err := s.setCategory(ctx, tc, checklist, req.CategoryID); err != nil {
		return nil, err
	}
	if err := s.checklistRepo.SaveWithItems(ctx, checklist); err != nil {
		return nil, err
	}
	resp := ToChecklistResponse(checklist)
	return &resp, nil
}

// Get returns a checklist with its items
func (s *ChecklistService) Get(ctx context.Context, tc identity.TenantContext, id uuid.UUID) (*ChecklistResponse, error) {
	checklist, err := s.checklistRepo.FindByIDForTenant(ctx, tc.TenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToChecklistResponse(checklist)
	return &resp, nil
}

// List returns a page of checklists
func (s *ChecklistService) List(ctx context.Context, tc identity.TenantContext, filter ChecklistListFilter) (*ChecklistListResponse, error) {
	domainFilter := manual.ChecklistFilter{
		Filter:     shared.Filter{Page: filter.Page, PageSize: filter.Limit}.Normalize(),
		Frequency:  manual.Frequency(filter.Frequency),
		ActiveOnly: filter.ActiveOnly,
	}
	checklists, total, err := s.checklistRepo.FindAllForTenant(ctx, tc.TenantID, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]ChecklistResponse, len(checklists))
	for i := range checklists {
		items[i] = ToChecklistResponse(&checklists[i])
	}
	return &ChecklistListResponse{
		Checklists: items,
		Total:      total,
		Page:       domainFilter.Page,
		Limit:      domainFilter.PageSize,
	}, nil
}

// Update replaces the checklist's header fields and its item list
func (s *ChecklistService) Update(ctx context.Context, tc identity.TenantContext, id uuid.UUID, req UpdateChecklistRequest) (*ChecklistResponse, error) {
	if err := tc.RequireEditor(); err != nil {
		return nil, err
	}
	checklist, err := s.checklistRepo.FindByIDForTenant(ctx, tc.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := checklist.Update(req.Title, req.Description, manual.Frequency(req.Frequency), toItemInputs(req.Items)); err != nil {
		return nil, err
	}
	if err := s.setCategory(ctx, tc, checklist, req.CategoryID); err != nil {
		return nil, err
	}
	if err := s.checklistRepo.SaveWithItems(ctx, checklist); err != nil {
		return nil, err
	}
	resp := ToChecklistResponse(checklist)
	return &resp, nil
}

// Deactivate hides a checklist from new executions; its history is kept
func (s *ChecklistService) Deactivate(ctx context.Context, tc identity.TenantContext, id uuid.UUID) error {
	if err := tc.RequireEditor(); err != nil {
		return err
	}
	checklist, err := s.checklistRepo.FindByIDForTenant(ctx, tc.TenantID, id)
	if err != nil {
		return err
	}
	if !checklist.IsActive {
		return nil
	}
	checklist.Deactivate()
	return s.checklistRepo.SaveWithItems(ctx, checklist)
}

// Execute records a run of the checklist. Item keys are free-form and
// mandatory items are not enforced; the completion rate counts checked
// entries over submitted entries.
func (s *ChecklistService) Execute(ctx context.Context, tc identity.TenantContext, id uuid.UUID, req ExecuteChecklistRequest) (*ExecutionResponse, error) {
	checklist, err := s.checklistRepo.FindByIDForTenant(ctx, tc.TenantID, id)
	if err != nil {
		return nil, err
	}
	execution, err := manual.NewExecution(checklist, req.Items, req.Notes, tc.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.executionRepo.Create(ctx, execution); err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("Checklist executed",
		zap.String("checklist_id", checklist.ID.String()),
		zap.Int("completion_rate", execution.CompletionRate))
	s.businessMetrics.RecordChecklistExecution(ctx, tc.TenantID, execution.CompletionRate)

	resp := ToExecutionResponse(execution)
	return &resp, nil
}

// ListExecutions returns a page of a checklist's executions, newest first
func (s *ChecklistService) ListExecutions(ctx context.Context, tc identity.TenantContext, id uuid.UUID, page PageRequest) (*ExecutionListResponse, error) {
	if _, err := s.checklistRepo.FindByIDForTenant(ctx, tc.TenantID, id); err != nil {
		return nil, err
	}
	filter := shared.Filter{Page: page.Page, PageSize: page.Limit}.Normalize()
	executions, total, err := s.executionRepo.FindByChecklist(ctx, tc.TenantID, id, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ExecutionResponse, len(executions))
	for i := range executions {
		items[i] = ToExecutionResponse(&executions[i])
	}
	return &ExecutionListResponse{
		Executions: items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.PageSize,
	}, nil
}

func (s *ChecklistService) setCategory(ctx context.Context, tc identity.TenantContext, checklist *manual.Checklist, categoryID *uuid.UUID) error {
	if categoryID != nil {
		if _, err := s.categoryRepo.FindByIDForTenant(ctx, tc.TenantID, *categoryID); err != nil {
			return err
		}
	}
	checklist.SetCategory(categoryID)
	return nil
}

func toItemInputs(items []ChecklistItemRequest) []manual.ItemInput {
	out := make([]manual.ItemInput, len(items))
	for i, it := range items {
		out[i] = manual.ItemInput{Text: it.Text, Mandatory: it.Mandatory}
	}
	return out
}

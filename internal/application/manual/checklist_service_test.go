package manual

import (
	"context"
	"testing"

	"github.com/dentalhr/backend/internal/domain/manual"
	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type checklistFixture struct {
	svc        *ChecklistService
	checklists *MockChecklistRepository
	executions *MockExecutionRepository
	categories *MockCategoryRepository
}

func newChecklistFixture() checklistFixture {
	f := checklistFixture{
		checklists: new(MockChecklistRepository),
		executions: new(MockExecutionRepository),
		categories: new(MockCategoryRepository),
	}
	f.svc = NewChecklistService(f.checklists, f.executions, f.categories, zap.NewNop())
	return f
}

func newTestChecklist(tenantID uuid.UUID) *manual.Checklist {
	checklist, err := manual.NewChecklist(tenantID, uuid.New(), "Apertura studio", "", manual.FrequencyDaily, []manual.ItemInput{
		{Text: "Accendere autoclave", Mandatory: true},
		{Text: "Controllare frigorifero"},
	})
	if err != nil {
		panic(err)
	}
	return checklist
}

func TestChecklistService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps item order", func(t *testing.T) {
		f := newChecklistFixture()
		tc := editorContext()
		f.checklists.On("SaveWithItems", ctx, mock.AnythingOfType("*manual.Checklist")).Return(nil)

		resp, err := f.svc.Create(ctx, tc, CreateChecklistRequest{
			Title:     "Chiusura",
			Frequency: "DAILY",
			Items: []ChecklistItemRequest{
				{Text: "Spegnere compressore", Mandatory: true},
				{Text: "Chiudere gas"},
			},
		})

		require.NoError(t, err)
		assert.True(t, resp.IsActive)
		require.Len(t, resp.Items, 2)
		assert.Equal(t, "Spegnere compressore", resp.Items[0].Text)
		assert.Less(t, resp.Items[0].Order, resp.Items[1].Order)
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newChecklistFixture()
		tc := editorContext()
		categoryID := uuid.New()
		f.categories.On("FindByIDForTenant", ctx, tc.TenantID, categoryID).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Create(ctx, tc, CreateChecklistRequest{Title: "X", Frequency: "WEEKLY", CategoryID: &categoryID})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.checklists.AssertNotCalled(t, "SaveWithItems", mock.Anything, mock.Anything)
	})

	t.Run("employee forbidden", func(t *testing.T) {
		f := newChecklistFixture()
		_, err := f.svc.Create(ctx, employeeContext(uuid.New()), CreateChecklistRequest{Title: "X", Frequency: "DAILY"})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestChecklistService_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("computes completion rate", func(t *testing.T) {
		f := newChecklistFixture()
		tc := employeeContext(uuid.New())
		checklist := newTestChecklist(tc.TenantID)

		f.checklists.On("FindByIDForTenant", ctx, tc.TenantID, checklist.ID).Return(checklist, nil)
		f.executions.On("Create", ctx, mock.MatchedBy(func(e *manual.ChecklistExecution) bool {
			return e.ExecutedBy == tc.UserID && e.ChecklistID == checklist.ID
		})).Return(nil)

		resp, err := f.svc.Execute(ctx, tc, checklist.ID, ExecuteChecklistRequest{
			Items: map[string]bool{"a": true, "b": true, "c": false},
		})

		require.NoError(t, err)
		assert.Equal(t, 67, resp.CompletionRate)
		f.executions.AssertExpectations(t)
	})

	t.Run("empty items give zero", func(t *testing.T) {
		f := newChecklistFixture()
		tc := employeeContext(uuid.New())
		checklist := newTestChecklist(tc.TenantID)

		f.checklists.On("FindByIDForTenant", ctx, tc.TenantID, checklist.ID).Return(checklist, nil)
		f.executions.On("Create", ctx, mock.Anything).Return(nil)

		resp, err := f.svc.Execute(ctx, tc, checklist.ID, ExecuteChecklistRequest{})

		require.NoError(t, err)
		assert.Equal(t, 0, resp.CompletionRate)
	})

	t.Run("inactive checklist", func(t *testing.T) {
		f := newChecklistFixture()
		tc := employeeContext(uuid.New())
		checklist := newTestChecklist(tc.TenantID)
		checklist.Deactivate()

		f.checklists.On("FindByIDForTenant", ctx, tc.TenantID, checklist.ID).Return(checklist, nil)

		_, err := f.svc.Execute(ctx, tc, checklist.ID, ExecuteChecklistRequest{Items: map[string]bool{"a": true}})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CHECKLIST_INACTIVE", domainErr.Code)
		f.executions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestChecklistService_Deactivate(t *testing.T) {
	ctx := context.Background()
	tc := editorContext()

	f := newChecklistFixture()
	checklist := newTestChecklist(tc.TenantID)
	f.checklists.On("FindByIDForTenant", ctx, tc.TenantID, checklist.ID).Return(checklist, nil)
	f.checklists.On("SaveWithItems", ctx, checklist).Return(nil).Once()

	require.NoError(t, f.svc.Deactivate(ctx, tc, checklist.ID))
	assert.False(t, checklist.IsActive)

	// second call is a no-op
	require.NoError(t, f.svc.Deactivate(ctx, tc, checklist.ID))
	f.checklists.AssertNumberOfCalls(t, "SaveWithItems", 1)
}

func TestChecklistService_ListExecutions(t *testing.T) {
	ctx := context.Background()
	tc := editorContext()
	checklist := newTestChecklist(tc.TenantID)
	execution, err := manual.NewExecution(checklist, map[string]bool{"a": true}, "", tc.UserID)
	require.NoError(t, err)

	f := newChecklistFixture()
	f.checklists.On("FindByIDForTenant", ctx, tc.TenantID, checklist.ID).Return(checklist, nil)
	f.executions.On("FindByChecklist", ctx, tc.TenantID, checklist.ID, mock.AnythingOfType("shared.Filter")).
		Return([]manual.ChecklistExecution{*execution}, int64(1), nil)

	resp, err := f.svc.ListExecutions(ctx, tc, checklist.ID, PageRequest{})

	require.NoError(t, err)
	require.Len(t, resp.Executions, 1)
	assert.Equal(t, 100, resp.Executions[0].CompletionRate)
	assert.Equal(t, 1, resp.Page)
}

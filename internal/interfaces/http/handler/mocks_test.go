package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	billingapp "github.com/dentalhr/backend/internal/application/billing"
	identityapp "github.com/dentalhr/backend/internal/application/identity"
	manualapp "github.com/dentalhr/backend/internal/application/manual"
	"github.com/dentalhr/backend/internal/application/validators"
	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/dentalhr/backend/internal/infrastructure/auth"
	"github.com/dentalhr/backend/internal/infrastructure/external"
	"github.com/dentalhr/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEditorContext() identity.TenantContext {
	employeeID := uuid.New()
	return identity.TenantContext{
		TenantID:           uuid.New(),
		UserID:             uuid.New(),
		MembershipID:       uuid.New(),
		Role:               identity.RoleAdmin,
		EmployeeID:         &employeeID,
		SubscriptionStatus: identity.SubscriptionActive,
	}
}

// newTestRouter returns an engine that injects tc (when non-nil) the way the tenant middleware does
func newTestRouter(tc *identity.TenantContext) *gin.Engine {
	router := gin.New()
	if tc != nil {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.TenantContextKey, *tc)
			c.Next()
		})
	}
	return router
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// MockArticleService is a mock implementation of ArticleService
type MockArticleService struct {
	mock.Mock
}

func (m *MockArticleService) Create(ctx context.Context, tc identity.TenantContext, req manualapp.CreateArticleRequest) (*manualapp.ArticleResponse, error) {
	args := m.Called(ctx, tc, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manualapp.ArticleResponse), args.Error(1)
}

func (m *MockArticleService) Get(ctx context.Context, tc identity.TenantContext, id uuid.UUID) (*manualapp.ArticleResponse, error) {
	args := m.Called(ctx, tc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manualapp.ArticleResponse), args.Error(1)
}

func (m *MockArticleService) GetBySlug(ctx context.Context, tc identity.TenantContext, slug string) (*manualapp.ArticleResponse, error) {
	args := m.Called(ctx, tc, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manualapp.ArticleResponse), args.Error(1)
}

func (m *MockArticleService) List(ctx context.Context, tc identity.TenantContext, filter manualapp.ArticleListFilter) (*manualapp.ArticleListResponse, error) {
	args := m.Called(ctx, tc, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manualapp.ArticleListResponse), args.Error(1)
}

func (m *MockArticleService) Search(ctx context.Context, tc identity.TenantContext, query string) (*manualapp.ArticleListResponse, error) {
	args := m.Called(ctx, tc, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manualapp.ArticleListResponse), args.Error(1)
}

func (m *MockArticleService) Update(ctx context.Context, tc identity.TenantContext, id uuid.UUID, req manualapp.UpdateArticleRequest) (*manualapp.ArticleResponse, error) {
	args := m.Called(ctx, tc, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manualapp.ArticleResponse), args.Error(1)
}

func (m *MockArticleService) Archive(ctx context.Context, tc identity.TenantContext, id uuid.UUID) error {
	args := m.Called(ctx, tc, id)
	return args.Error(0)
}

func (m *MockArticleService) ListRevisions(ctx context.Context, tc identity.TenantContext, articleID uuid.UUID) ([]manualapp.RevisionResponse, error) {
	args := m.Called(ctx, tc, articleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]manualapp.RevisionResponse), args.Error(1)
}

func (m *MockArticleService) GetRevision(ctx context.Context, tc identity.TenantContext, articleID uuid.UUID, version int) (*manualapp.RevisionResponse, error) {
	args := m.Called(ctx, tc, articleID, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manualapp.RevisionResponse), args.Error(1)
}

// MockAcknowledgmentService is a mock implementation of AcknowledgmentService
type MockAcknowledgmentService struct {
	mock.Mock
}

func (m *MockAcknowledgmentService) Acknowledge(ctx context.Context, tc identity.TenantContext, articleID uuid.UUID, req manualapp.AcknowledgeRequest) (*manualapp.AcknowledgmentResponse, error) {
	args := m.Called(ctx, tc, articleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manualapp.AcknowledgmentResponse), args.Error(1)
}

func (m *MockAcknowledgmentService) ListForArticle(ctx context.Context, tc identity.TenantContext, articleID uuid.UUID) ([]manualapp.AcknowledgmentResponse, error) {
	args := m.Called(ctx, tc, articleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]manualapp.AcknowledgmentResponse), args.Error(1)
}

func (m *MockAcknowledgmentService) Pending(ctx context.Context, tc identity.TenantContext, page manualapp.PageRequest) (*manualapp.ArticleListResponse, error) {
	args := m.Called(ctx, tc, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manualapp.ArticleListResponse), args.Error(1)
}

func (m *MockAcknowledgmentService) Stats(ctx context.Context, tc identity.TenantContext) (*manualapp.StatsResponse, error) {
	args := m.Called(ctx, tc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manualapp.StatsResponse), args.Error(1)
}

// MockCategoryService is a mock implementation of CategoryService
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) Create(ctx context.Context, tc identity.TenantContext, req manualapp.CreateCategoryRequest) (*manualapp.CategoryResponse, error) {
	args := m.Called(ctx, tc, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manualapp.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) Tree(ctx context.Context, tc identity.TenantContext) ([]manualapp.CategoryTreeNode, error) {
	args := m.Called(ctx, tc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]manualapp.CategoryTreeNode), args.Error(1)
}

func (m *MockCategoryService) Update(ctx context.Context, tc identity.TenantContext, id uuid.UUID, req manualapp.UpdateCategoryRequest) (*manualapp.CategoryResponse, error) {
	args := m.Called(ctx, tc, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manualapp.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, tc identity.TenantContext, id uuid.UUID) error {
	args := m.Called(ctx, tc, id)
	return args.Error(0)
}

// MockChecklistService is a mock implementation of ChecklistService
type MockChecklistService struct {
	mock.Mock
}

func (m *MockChecklistService) Create(ctx context.Context, tc identity.TenantContext, req manualapp.CreateChecklistRequest) (*manualapp.ChecklistResponse, error) {
	args := m.Called(ctx, tc, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manualapp.ChecklistResponse), args.Error(1)
}

func (m *MockChecklistService) Get(ctx context.Context, tc identity.TenantContext, id uuid.UUID) (*manualapp.ChecklistResponse, error) {
	args := m.Called(ctx, tc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manualapp.ChecklistResponse), args.Error(1)
}

func (m *MockChecklistService) List(ctx context.Context, tc identity.TenantContext, filter manualapp.ChecklistListFilter) (*manualapp.ChecklistListResponse, error) {
	args := m.Called(ctx, tc, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manualapp.ChecklistListResponse), args.Error(1)
}

func (m *MockChecklistService) Update(ctx context.Context, tc identity.TenantContext, id uuid.UUID, req manualapp.UpdateChecklistRequest) (*manualapp.ChecklistResponse, error) {
	args := m.Called(ctx, tc, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manualapp.ChecklistResponse), args.Error(1)
}

func (m *MockChecklistService) Deactivate(ctx context.Context, tc identity.TenantContext, id uuid.UUID) error {
	args := m.Called(ctx, tc, id)
	return args.Error(0)
}

func (m *MockChecklistService) Execute(ctx context.Context, tc identity.TenantContext, id uuid.UUID, req manualapp.ExecuteChecklistRequest) (*manualapp.ExecutionResponse, error) {
	args := m.Called(ctx, tc, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manualapp.ExecutionResponse), args.Error(1)
}

func (m *MockChecklistService) ListExecutions(ctx context.Context, tc identity.TenantContext, id uuid.UUID, page manualapp.PageRequest) (*manualapp.ExecutionListResponse, error) {
	args := m.Called(ctx, tc, id, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*manualapp.ExecutionListResponse), args.Error(1)
}

// MockEmployeeService is a mock implementation of EmployeeService
type MockEmployeeService struct {
	mock.Mock
}

func (m *MockEmployeeService) List(ctx context.Context, tc identity.TenantContext, filter identityapp.EmployeeListFilter) (*identityapp.EmployeeListResponse, error) {
	args := m.Called(ctx, tc, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.EmployeeListResponse), args.Error(1)
}

func (m *MockEmployeeService) Get(ctx context.Context, tc identity.TenantContext, id uuid.UUID) (*identityapp.EmployeeResponse, error) {
	args := m.Called(ctx, tc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.EmployeeResponse), args.Error(1)
}

func (m *MockEmployeeService) Create(ctx context.Context, tc identity.TenantContext, req identityapp.CreateEmployeeRequest) (*identityapp.EmployeeResponse, error) {
	args := m.Called(ctx, tc, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.EmployeeResponse), args.Error(1)
}

func (m *MockEmployeeService) Update(ctx context.Context, tc identity.TenantContext, id uuid.UUID, req identityapp.UpdateEmployeeRequest) (*identityapp.EmployeeResponse, error) {
	args := m.Called(ctx, tc, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.EmployeeResponse), args.Error(1)
}

func (m *MockEmployeeService) Deactivate(ctx context.Context, tc identity.TenantContext, id uuid.UUID) error {
	args := m.Called(ctx, tc, id)
	return args.Error(0)
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req identityapp.RegisterRequest) (*identityapp.RegisterResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.RegisterResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req identityapp.LoginRequest) (*auth.TokenPair, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.TokenPair), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, req identityapp.RefreshRequest) (*auth.TokenPair, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.TokenPair), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, jti string, ttl time.Duration) error {
	args := m.Called(ctx, jti, ttl)
	return args.Error(0)
}

func (m *MockAuthService) Me(ctx context.Context, tc identity.TenantContext) (*identityapp.MeResponse, error) {
	args := m.Called(ctx, tc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.MeResponse), args.Error(1)
}

// MockValidatorService is a mock implementation of ValidatorService
type MockValidatorService struct {
	mock.Mock
}

func (m *MockValidatorService) ExchangeRates(ctx context.Context, q validators.RatesQuery) (*external.RatesTable, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*external.RatesTable), args.Error(1)
}

func (m *MockValidatorService) Holidays(ctx context.Context, q validators.HolidaysQuery) ([]external.Holiday, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]external.Holiday), args.Error(1)
}

func (m *MockValidatorService) ValidateFiscalCode(req validators.FiscalCodeRequest) external.FiscalCode {
	args := m.Called(req)
	return args.Get(0).(external.FiscalCode)
}

func (m *MockValidatorService) ValidateEmail(ctx context.Context, req validators.EmailRequest) external.EmailCheck {
	args := m.Called(ctx, req)
	return args.Get(0).(external.EmailCheck)
}

// MockWebhookProcessor is a mock implementation of WebhookProcessor
type MockWebhookProcessor struct {
	mock.Mock
}

func (m *MockWebhookProcessor) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*billingapp.WebhookResult, error) {
	args := m.Called(ctx, payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingapp.WebhookResult), args.Error(1)
}

// MockPinger is a mock implementation of DatabasePinger
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

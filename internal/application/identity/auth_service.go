package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/dentalhr/backend/internal/infrastructure/auth"
	"github.com/dentalhr/backend/internal/infrastructure/billing"
	"github.com/dentalhr/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	errInvalidCredentials = shared.NewDomainError("UNAUTHORIZED", "Email o password non validi")
	errEmailTaken         = shared.NewDomainError("ALREADY_EXISTS", "Esiste già un account con questa email")
	errSessionExpired     = shared.NewDomainError("UNAUTHORIZED", "Sessione scaduta, effettua di nuovo l'accesso")
)

// CustomerCreator opens a billing customer for a new practice
type CustomerCreator interface {
	CreateCustomer(ctx context.Context, input billing.CreateCustomerInput) (string, error)
}

// AuthServiceConfig wires the collaborators of AuthService
type AuthServiceConfig struct {
	UserRepo         identity.UserRepository
	TenantRepo       identity.TenantRepository
	RegistrationRepo identity.RegistrationRepository
	JWTService       *auth.JWTService
	Blacklist        auth.TokenBlacklist
	// Customers is nil when billing is not configured
	Customers CustomerCreator
	Logger    *zap.Logger
}

// AuthService handles registration, login and session tokens
type AuthService struct {
	userRepo         identity.UserRepository
	tenantRepo       identity.TenantRepository
	registrationRepo identity.RegistrationRepository
	jwtService       *auth.JWTService
	blacklist        auth.TokenBlacklist
	customers        CustomerCreator
	logger           *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	return &AuthService{
		userRepo:         cfg.UserRepo,
		tenantRepo:       cfg.TenantRepo,
		registrationRepo: cfg.RegistrationRepo,
		jwtService:       cfg.JWTService,
		blacklist:        cfg.Blacklist,
		customers:        cfg.Customers,
		logger:           cfg.Logger,
	}
}

// Register creates a practice in trial with its owner. The billing customer
// is created first, outside the local transaction; if the local write then
// fails the customer is left behind and only logged.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	log := logger.Enrich(ctx, s.logger)

	exists, err := s.userRepo.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errEmailTaken
	}

	user, err := identity.NewUser(req.Email, req.Name, req.Password)
	if err != nil {
		return nil, err
	}
	tenant, err := identity.NewTenant(req.PracticeName)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueSlug(ctx, tenant); err != nil {
		return nil, err
	}
	membership, err := identity.NewMembership(tenant.ID, user.ID, identity.RoleOwner)
	if err != nil {
		return nil, err
	}
	firstName, lastName := splitFullName(req.Name)
	employee, err := identity.NewEmployee(tenant.ID, firstName, lastName, user.Email)
	if err != nil {
		return nil, err
	}
	employee.LinkUser(user.ID)

	if s.customers != nil {
		customerID, err := s.customers.CreateCustomer(ctx, billing.CreateCustomerInput{
			TenantID: tenant.ID,
			Name:     tenant.Name,
			Email:    user.Email,
		})
		if err != nil {
			log.Error("Failed to create billing customer", zap.String("tenant_id", tenant.ID.String()), zap.Error(err))
			return nil, shared.WrapDomainError("UPSTREAM_FAILURE", "Impossibile attivare la fatturazione, riprova più tardi", err)
		}
		tenant.SetStripeCustomerID(customerID)
	}

	reg := &identity.Registration{User: user, Tenant: tenant, Membership: membership, Employee: employee}
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		if tenant.StripeCustomerID != "" {
			log.Error("Registration failed after billing customer creation",
				zap.String("orphan_customer_id", tenant.StripeCustomerID),
				zap.Error(err))
		}
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, errEmailTaken
		}
		return nil, err
	}

	tokens, err := s.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	log.Info("Practice registered",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("user_id", user.ID.String()))

	return &RegisterResponse{
		User:   ToUserResponse(user),
		Tenant: ToTenantResponse(tenant),
		Tokens: tokens,
	}, nil
}

// Login checks the credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*auth.TokenPair, error) {
	log := logger.Enrich(ctx, s.logger)

	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("Login for unknown email")
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !user.VerifyPassword(req.Password) {
		log.Warn("Login rejected", zap.String("user_id", user.ID.String()))
		return nil, errInvalidCredentials
	}

	tokens, err := s.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// the login itself succeeded
		log.Error("Failed to record login", zap.Error(err))
	}
	log.Info("User logged in", zap.String("user_id", user.ID.String()))
	return tokens, nil
}

// Refresh rotates a refresh token into a new pair. The old refresh token is
// revoked so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.WrapDomainError("UNAUTHORIZED", "Token di aggiornamento non valido", err)
	}
	if err := s.checkNotRevoked(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.UserUUID()
	if err != nil {
		return nil, errSessionExpired
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errSessionExpired
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errSessionExpired
	}

	tokens, err := s.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		logger.Enrich(ctx, s.logger).Warn("Failed to revoke rotated refresh token", zap.Error(err))
	}
	return tokens, nil
}

// Logout revokes the access token identified by jti until it expires
func (s *AuthService) Logout(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, jti, ttl); err != nil {
		return err
	}
	logger.Enrich(ctx, s.logger).Info("User logged out")
	return nil
}

// Me describes the caller of a tenant-scoped request
func (s *AuthService) Me(ctx context.Context, tc identity.TenantContext) (*MeResponse, error) {
	user, err := s.userRepo.FindByID(ctx, tc.UserID)
	if err != nil {
		return nil, err
	}
	tenant, err := s.tenantRepo.FindByID(ctx, tc.TenantID)
	if err != nil {
		return nil, err
	}
	return &MeResponse{
		User:       ToUserResponse(user),
		Tenant:     ToTenantResponse(tenant),
		Role:       string(tc.Role),
		EmployeeID: tc.EmployeeID,
	}, nil
}

func (s *AuthService) checkNotRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return errSessionExpired
	}
	revoked, err = s.blacklist.IsUserRevoked(ctx, claims.UserID, claims.IssuedAtTime())
	if err != nil {
		return err
	}
	if revoked {
		return errSessionExpired
	}
	return nil
}

// ensureUniqueSlug suffixes the practice slug when another practice already uses it
func (s *AuthService) ensureUniqueSlug(ctx context.Context, tenant *identity.Tenant) error {
	exists, err := s.tenantRepo.ExistsBySlug(ctx, tenant.Slug)
	if err != nil {
		return err
	}
	if exists {
		tenant.Slug = tenant.Slug + "-" + strings.SplitN(uuid.NewString(), "-", 2)[0]
	}
	return nil
}

// splitFullName splits "mario de rossi" into "Mario" and "De Rossi".
// A Caser keeps state, so one is built per call.
func splitFullName(full string) (string, string) {
	parts := strings.Fields(cases.Title(language.Italian).String(strings.TrimSpace(full)))
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

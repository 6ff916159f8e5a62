package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/dentalhr/backend/internal/infrastructure/auth"
	"github.com/dentalhr/backend/internal/infrastructure/external"
	"github.com/dentalhr/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errEmployeeEmailTaken = shared.NewDomainError("ALREADY_EXISTS", "Esiste già un dipendente con questa email")

// EmployeeServiceConfig wires the collaborators of EmployeeService
type EmployeeServiceConfig struct {
	EmployeeRepo     identity.EmployeeRepository
	UserRepo         identity.UserRepository
	RegistrationRepo identity.RegistrationRepository
	Blacklist        auth.TokenBlacklist
	// SessionTTL bounds how long revoked sessions must stay blocked, the refresh token lifetime
	SessionTTL time.Duration
	Logger     *zap.Logger
}

// EmployeeService manages the staff of a practice
type EmployeeService struct {
	employeeRepo     identity.EmployeeRepository
	userRepo         identity.UserRepository
	registrationRepo identity.RegistrationRepository
	blacklist        auth.TokenBlacklist
	sessionTTL       time.Duration
	logger           *zap.Logger
	now              func() time.Time
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(cfg EmployeeServiceConfig) *EmployeeService {
	return &EmployeeService{
		employeeRepo:     cfg.EmployeeRepo,
		userRepo:         cfg.UserRepo,
		registrationRepo: cfg.RegistrationRepo,
		blacklist:        cfg.Blacklist,
		sessionTTL:       cfg.SessionTTL,
		logger:           cfg.Logger,
		now:              time.Now,
	}
}

// List returns a page of employees ordered by last name
func (s *EmployeeService) List(ctx context.Context, tc identity.TenantContext, filter EmployeeListFilter) (*EmployeeListResponse, error) {
	domainFilter := identity.EmployeeFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.Limit,
			Search:   strings.TrimSpace(filter.Search),
		}.Normalize(),
		Status: identity.EmployeeStatus(filter.Status),
	}
	employees, total, err := s.employeeRepo.FindAllForTenant(ctx, tc.TenantID, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]EmployeeResponse, len(employees))
	for i := range employees {
		items[i] = ToEmployeeResponse(&employees[i])
	}
	return &EmployeeListResponse{
		Employees: items,
		Total:     total,
		Page:      domainFilter.Page,
		Limit:     domainFilter.PageSize,
	}, nil
}

// Get returns one employee of the practice
func (s *EmployeeService) Get(ctx context.Context, tc identity.TenantContext, id uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByIDForTenant(ctx, tc.TenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(employee)
	return &resp, nil
}

// Create adds an employee. With a password, a login account and membership
// are created in the same transaction.
func (s *EmployeeService) Create(ctx context.Context, tc identity.TenantContext, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	if err := tc.RequirePeopleManager(); err != nil {
		return nil, err
	}

	employee, err := identity.NewEmployee(tc.TenantID, req.FirstName, req.LastName, req.Email)
	if err != nil {
		return nil, err
	}
	exists, err := s.employeeRepo.ExistsByEmail(ctx, tc.TenantID, employee.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errEmployeeEmailTaken
	}
	if req.FiscalCode != "" {
		if err := s.setFiscalCode(employee, req.FiscalCode); err != nil {
			return nil, err
		}
	}
	employee.SetJob(req.JobTitle, req.HireDate)

	if req.Password == "" {
		if err := s.employeeRepo.Save(ctx, employee); err != nil {
			return nil, err
		}
	} else if err := s.createAccount(ctx, tc, employee, req); err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("Employee created",
		zap.String("employee_id", employee.ID.String()),
		zap.Bool("with_account", employee.UserID != nil))

	resp := ToEmployeeResponse(employee)
	return &resp, nil
}

func (s *EmployeeService) createAccount(ctx context.Context, tc identity.TenantContext, employee *identity.Employee, req CreateEmployeeRequest) error {
	taken, err := s.userRepo.ExistsByEmail(ctx, employee.Email)
	if err != nil {
		return err
	}
	if taken {
		return errEmailTaken
	}

	role := identity.RoleEmployee
	if req.Role != "" {
		role = identity.Role(req.Role)
	}
	if role == identity.RoleOwner {
		return shared.NewDomainError("INVALID_ROLE", "Ruolo non valido")
	}

	user, err := identity.NewUser(employee.Email, employee.FullName(), req.Password)
	if err != nil {
		return err
	}
	membership, err := identity.NewMembership(tc.TenantID, user.ID, role)
	if err != nil {
		return err
	}
	employee.LinkUser(user.ID)

	if err := s.registrationRepo.CreateEmployeeAccount(ctx, user, membership, employee); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return errEmailTaken
		}
		return err
	}
	return nil
}

// Update applies a partial update to an employee
func (s *EmployeeService) Update(ctx context.Context, tc identity.TenantContext, id uuid.UUID, req UpdateEmployeeRequest) (*EmployeeResponse, error) {
	if err := tc.RequirePeopleManager(); err != nil {
		return nil, err
	}
	employee, err := s.employeeRepo.FindByIDForTenant(ctx, tc.TenantID, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil || req.LastName != nil {
		first, last := employee.FirstName, employee.LastName
		if req.FirstName != nil {
			first = *req.FirstName
		}
		if req.LastName != nil {
			last = *req.LastName
		}
		if err := employee.SetName(first, last); err != nil {
			return nil, err
		}
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != employee.Email {
			exists, err := s.employeeRepo.ExistsByEmail(ctx, tc.TenantID, email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, errEmployeeEmailTaken
			}
			if err := employee.SetEmail(email); err != nil {
				return nil, err
			}
		}
	}
	if req.FiscalCode != nil {
		if err := s.setFiscalCode(employee, *req.FiscalCode); err != nil {
			return nil, err
		}
	}
	if req.JobTitle != nil || req.HireDate != nil {
		jobTitle, hireDate := employee.JobTitle, employee.HireDate
		if req.JobTitle != nil {
			jobTitle = *req.JobTitle
		}
		if req.HireDate != nil {
			hireDate = req.HireDate
		}
		employee.SetJob(jobTitle, hireDate)
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(employee)
	return &resp, nil
}

// Deactivate takes an employee off staff. A linked login account is disabled
// and its open sessions are revoked.
func (s *EmployeeService) Deactivate(ctx context.Context, tc identity.TenantContext, id uuid.UUID) error {
	if err := tc.RequirePeopleManager(); err != nil {
		return err
	}
	employee, err := s.employeeRepo.FindByIDForTenant(ctx, tc.TenantID, id)
	if err != nil {
		return err
	}
	if employee.UserID != nil && *employee.UserID == tc.UserID {
		return shared.NewDomainError("INVALID_STATE", "Non puoi disattivare il tuo stesso account")
	}
	if err := employee.Deactivate(); err != nil {
		return err
	}
	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return err
	}

	if employee.UserID != nil {
		if err := s.disableAccount(ctx, *employee.UserID); err != nil {
			return err
		}
	}

	logger.Enrich(ctx, s.logger).Info("Employee deactivated", zap.String("employee_id", employee.ID.String()))
	return nil
}

func (s *EmployeeService) disableAccount(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	user.Deactivate()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	return s.blacklist.RevokeUser(ctx, userID.String(), s.sessionTTL)
}

func (s *EmployeeService) setFiscalCode(employee *identity.Employee, code string) error {
	if strings.TrimSpace(code) == "" {
		employee.SetFiscalCode("")
		return nil
	}
	decoded := external.DecomposeFiscalCode(code, s.now())
	if !decoded.Valid {
		return shared.NewDomainError("VALIDATION_ERROR", decoded.Error)
	}
	employee.SetFiscalCode(decoded.Code)
	return nil
}

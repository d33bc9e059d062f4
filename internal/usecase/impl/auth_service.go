// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "crm/internal/delivery/context"
	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/domain/repository"
	"crm/internal/domain/service"
	"crm/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// selfRegistrableRoles are the staff roles that may sign up without an administrator.
var selfRegistrableRoles = entity.Roles{entity.RoleFactorySales, entity.RoleInventoryManager}

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	agentRepo    repository.AgentRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	AgentRepo    repository.AgentRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		agentRepo:    params.AgentRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RegisterUser signs up a staff account. It stays PENDING until an administrator approves it.
func (srv *authService) RegisterUser(ctx context.Context, input usecase.RegisterUserInput) (*entity.User, error) {
	if !selfRegistrableRoles.Contains(input.Role) {
		return nil, validationError("只能注册厂家销售或库存管理员")
	}

	user, err := newUser(srv.hasher, input.Username, input.Password, input.Phone, input.Role, entity.StatusPending)
	if err != nil {
		return nil, err
	}

	if err := srv.userRepo.Create(ctx, user); err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("username", user.Username), slog.Any("error", err))

		return nil, translateRepoError(err)
	}

	srv.log(ctx).Info("User registered", slog.String("userId", user.ID.String()), slog.String("role", user.Role.String()))

	return user, nil
}

// RegisterAgent signs up an agent company. It stays PENDING until an administrator approves it.
func (srv *authService) RegisterAgent(ctx context.Context, input usecase.RegisterAgentInput) (*entity.Agent, error) {
	agent, err := newAgent(srv.hasher, usecase.CreateAgentInput{
		CompanyName:    input.CompanyName,
		Password:       input.Password,
		ContactPerson:  input.ContactPerson,
		Phone:          input.Phone,
		RelatedSalesID: input.RelatedSalesID,
	}, entity.StatusPending)
	if err != nil {
		return nil, err
	}

	if agent.RelatedSalesID != nil {
		if _, err := salesTarget(ctx, srv.userRepo, *agent.RelatedSalesID); err != nil {
			return nil, err
		}
	}

	if err := srv.agentRepo.Create(ctx, agent); err != nil {
		srv.log(ctx).Warn("Agent registration failed", slog.String("companyName", agent.CompanyName), slog.Any("error", err))

		return nil, translateRepoError(err)
	}

	srv.log(ctx).Info("Agent registered", slog.String("agentId", agent.ID.String()))

	return agent, nil
}

// Login checks credentials against the users or agents table and issues an access token.
// Only approved accounts receive a token.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	username := strings.TrimSpace(input.Username)
	srv.log(ctx).Debug("Starting login", slog.String("username", username), slog.String("accountType", string(input.AccountType)))

	account, err := srv.loadAccount(ctx, username, input.AccountType)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("username", username), slog.Any("error", err))

		return nil, err
	}

	// Check password outside transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, account.passwordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("username", username), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, domainerrors.ErrInvalidCredentials
	}

	switch account.status {
	case entity.StatusPending:
		return nil, domainerrors.ErrAccountPending
	case entity.StatusRejected:
		return nil, domainerrors.ErrAccountRejected.WithDetails(account.rejectReason)
	}

	token, expiresAt, err := srv.tokenService.GenerateToken(account.principal)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate token")
	}

	srv.log(ctx).Info("Logged in", slog.String("accountId", account.profile.ID.String()), slog.String("role", account.profile.Role.String()))

	return &usecase.LoginOutput{Token: token, ExpiresAt: expiresAt, Profile: account.profile}, nil
}

// loginAccount is the part of a user or agent needed to authenticate it.
type loginAccount struct {
	principal    entity.Principal
	profile      *usecase.Profile
	passwordHash string
	status       entity.ApprovalStatus
	rejectReason string
}

// loadAccount reads the account from the primary so a just-approved account can log in.
func (srv *authService) loadAccount(ctx context.Context, username string, accountType usecase.AccountType) (*loginAccount, error) {
	var account *loginAccount

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		switch accountType {
		case usecase.AccountTypeAgent:
			agent, err := repoFactory.NewAgentRepository().FindByCompanyName(ctx, username)
			if err != nil {
				return err
			}
			account = &loginAccount{principal: agent.Principal(), profile: agentProfile(agent), passwordHash: agent.PasswordHash, status: agent.Status, rejectReason: agent.RejectReason}
		default:
			user, err := repoFactory.NewUserRepository().FindByUsername(ctx, username)
			if err != nil {
				return err
			}
			account = &loginAccount{principal: user.Principal(), profile: userProfile(user), passwordHash: user.PasswordHash, status: user.Status, rejectReason: user.RejectReason}
		}

		return nil
	})
	if errors.Is(err, repository.ErrUserNotFound) || errors.Is(err, repository.ErrAgentNotFound) {
		return nil, domainerrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, translateRepoError(err)
	}

	return account, nil
}

// Me returns the current profile of the authenticated caller.
func (srv *authService) Me(ctx context.Context, principal entity.Principal) (*usecase.Profile, error) {
	if principal.IsAgent() {
		agent, err := srv.agentRepo.FindByID(ctx, principal.ID)
		if err != nil {
			return nil, translateRepoError(err)
		}

		return agentProfile(agent), nil
	}

	user, err := srv.userRepo.FindByID(ctx, principal.ID)
	if err != nil {
		return nil, translateRepoError(err)
	}

	return userProfile(user), nil
}

// ChangePassword replaces the caller's password after verifying the current one.
func (srv *authService) ChangePassword(ctx context.Context, principal entity.Principal, input usecase.ChangePasswordInput) error {
	if err := srv.hasher.ValidatePasswordStrength(input.NewPassword); err != nil {
		return err
	}

	hash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return domainerrors.ErrPasswordHashFailed
	}

	if principal.IsAgent() {
		agent, err := srv.agentRepo.FindByID(ctx, principal.ID)
		if err != nil {
			return translateRepoError(err)
		}
		if !srv.hasher.Check(input.OldPassword, agent.PasswordHash) {
			return domainerrors.ErrInvalidCredentials.WithDetails("原密码错误")
		}
		agent.PasswordHash = hash

		return translateRepoError(srv.agentRepo.Update(ctx, agent))
	}

	user, err := srv.userRepo.FindByID(ctx, principal.ID)
	if err != nil {
		return translateRepoError(err)
	}
	if !srv.hasher.Check(input.OldPassword, user.PasswordHash) {
		return domainerrors.ErrInvalidCredentials.WithDetails("原密码错误")
	}
	user.PasswordHash = hash

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return translateRepoError(err)
	}

	srv.log(ctx).Info("Password changed", slog.String("accountId", principal.ID.String()))

	return nil
}

func userProfile(user *entity.User) *usecase.Profile {
	return &usecase.Profile{
		ID:          user.ID,
		Username:    user.Username,
		Role:        user.Role,
		AccountType: usecase.AccountTypeUser,
		Phone:       user.Phone,
		Status:      user.Status,
	}
}

func agentProfile(agent *entity.Agent) *usecase.Profile {
	return &usecase.Profile{
		ID:             agent.ID,
		Username:       agent.CompanyName,
		Role:           entity.RoleAgent,
		AccountType:    usecase.AccountTypeAgent,
		Phone:          agent.Phone,
		Status:         agent.Status,
		ContactPerson:  agent.ContactPerson,
		RelatedSalesID: agent.RelatedSalesID,
	}
}

// newUser validates and hashes the credentials of a staff account.
func newUser(hasher service.PasswordHasher, username, password, phone string, role entity.Role, status entity.ApprovalStatus) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, validationError("用户名不能为空")
	}
	if !role.IsUserRole() {
		return nil, validationError("无效的用户角色")
	}
	if err := hasher.ValidatePasswordStrength(password); err != nil {
		return nil, err
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed
	}

	return &entity.User{
		Username:     username,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(phone),
		Role:         role,
		Status:       status,
	}, nil
}

// newAgent validates and hashes the credentials of an agent company.
func newAgent(hasher service.PasswordHasher, input usecase.CreateAgentInput, status entity.ApprovalStatus) (*entity.Agent, error) {
	companyName := strings.TrimSpace(input.CompanyName)
	if companyName == "" {
		return nil, validationError("公司名称不能为空")
	}
	if err := hasher.ValidatePasswordStrength(input.Password); err != nil {
		return nil, err
	}

	hash, err := hasher.Hash(input.Password)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed
	}

	return &entity.Agent{
		CompanyName:    companyName,
		PasswordHash:   hash,
		ContactPerson:  strings.TrimSpace(input.ContactPerson),
		Phone:          strings.TrimSpace(input.Phone),
		RelatedSalesID: input.RelatedSalesID,
		Status:         status,
	}, nil
}

package identity

import (
	"context"
	"fmt"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AccountService handles staff account management
type AccountService struct {
	accountRepo identity.AccountRepository
	logger      *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo identity.AccountRepository, logger *zap.Logger) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// Create creates an account with a bcrypt-hashed password
func (s *AccountService) Create(ctx context.Context, req AccountRequest) (*AccountResponse, error) {
	account, err := identity.NewAccount(req.details(), req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueUsername(ctx, account.Username, 0); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("Account created",
		zap.Int64("account_id", account.ID),
		zap.String("username", account.Username),
		zap.String("role", string(account.Role)))

	response := ToAccountResponse(account)
	return &response, nil
}

// GetByID retrieves an account by ID
func (s *AccountService) GetByID(ctx context.Context, id int64) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// Me returns the account of the authenticated caller
func (s *AccountService) Me(ctx context.Context, userID int64) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NotFoundAs(err, "Account", userID)
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// List retrieves accounts matching the filter
func (s *AccountService) List(ctx context.Context, filter AccountListFilter) ([]AccountResponse, int64, error) {
	domainFilter := filter.domainFilter()

	accounts, err := s.accountRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.accountRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses, total, nil
}

// Update replaces an account. The password hash is kept unless a new
// password is supplied.
func (s *AccountService) Update(ctx context.Context, id int64, req AccountRequest) error {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := account.Update(req.details()); err != nil {
		return err
	}
	if err := s.ensureUniqueUsername(ctx, account.Username, account.ID); err != nil {
		return err
	}
	if req.Password != "" {
		if err := account.SetPassword(req.Password); err != nil {
			return err
		}
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return err
	}

	s.logger.Info("Account updated",
		zap.Int64("account_id", account.ID),
		zap.Bool("password_changed", req.Password != ""))
	return nil
}

// Delete deletes an account
func (s *AccountService) Delete(ctx context.Context, id int64) error {
	if err := s.accountRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Account deleted", zap.Int64("account_id", id))
	return nil
}

// BootstrapAdmin creates an admin account when no account exists yet.
// It reports whether an account was created.
func (s *AccountService) BootstrapAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	count, err := s.accountRepo.Count(ctx, shared.DefaultFilter())
	if err != nil {
		return false, fmt.Errorf("count accounts: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	account, err := identity.NewAccount(identity.AccountDetails{Username: username, Role: identity.RoleAdmin}, password)
	if err != nil {
		return false, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return false, err
	}

	s.logger.Info("Bootstrap admin account created", zap.String("username", account.Username))
	return true, nil
}

func (s *AccountService) ensureUniqueUsername(ctx context.Context, username string, excludeID int64) error {
	taken, err := s.accountRepo.ExistsByUsername(ctx, username, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("username %s already exists", username))
	}
	return nil
}

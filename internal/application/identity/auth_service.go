package identity

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned for an unknown username or a wrong
// password alike
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "invalid username or password")

// AuthService handles authentication operations
type AuthService struct {
	accountRepo identity.AccountRepository
	jwtService  *auth.JWTService
	logger      *zap.Logger
	metrics     *telemetry.BusinessMetrics
	// decoy takes the password check of an unknown username
	decoy *identity.Account
}

// NewAuthService creates a new authentication service
func NewAuthService(
	accountRepo identity.AccountRepository,
	jwtService *auth.JWTService,
	logger *zap.Logger,
) *AuthService {
	decoy, err := identity.NewAccount(identity.AccountDetails{Username: "decoy", Role: identity.RoleEmployee}, "decoy-password")
	if err != nil {
		logger.Error("Failed to hash decoy password", zap.Error(err))
	}
	return &AuthService{
		accountRepo: accountRepo,
		jwtService:  jwtService,
		logger:      logger,
		decoy:       decoy,
	}
}

// SetBusinessMetrics enables counting of login attempts.
func (s *AuthService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

func (s *AuthService) recordLogin(ctx context.Context, success bool) {
	if s.metrics != nil {
		s.metrics.RecordLogin(ctx, success)
	}
}

// Login authenticates an account and issues a session token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	s.logger.Info("Login attempt", zap.String("username", req.Username))

	account, err := s.accountRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			if s.decoy != nil {
				s.decoy.VerifyPassword(req.Password)
			}
			s.logger.Warn("Account not found during login", zap.String("username", req.Username))
			s.recordLogin(ctx, false)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !account.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", req.Username))
		s.recordLogin(ctx, false)
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(auth.GenerateTokenInput{
		UserID:   account.ID,
		Username: account.Username,
		Role:     string(account.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	s.recordLogin(ctx, true)
	s.logger.Info("Account logged in successfully",
		zap.String("username", account.Username),
		zap.Int64("user_id", account.ID))

	return &LoginResponse{
		Token:      token.Token,
		Expiration: token.Expiration,
	}, nil
}

package identity

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

// MockAccountRepository is a mock implementation of identity.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id int64) (*identity.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByUsername(ctx context.Context, username string) (*identity.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Account, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.Account), args.Error(1)
}

func (m *MockAccountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *identity.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAccountRepository) ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	args := m.Called(ctx, username, excludeID)
	return args.Bool(0), args.Error(1)
}

func init() {
	identity.BcryptCost = bcrypt.MinCost
}

func newTestAccount(t *testing.T, id int64, username, password string, role identity.Role) *identity.Account {
	t.Helper()
	a, err := identity.NewAccount(identity.AccountDetails{Username: username, Role: role}, password)
	require.NoError(t, err)
	a.ID = id
	return a
}

func newAuthService(secret string) (*AuthService, *MockAccountRepository, *observer.ObservedLogs) {
	repo := new(MockAccountRepository)
	core, logs := observer.New(zap.InfoLevel)
	jwtService := auth.NewJWTService(config.JWTConfig{Secret: secret, Expiration: 24 * time.Hour, Issuer: "crm"})
	return NewAuthService(repo, jwtService, zap.New(core)), repo, logs
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	const secret = "test-secret-key-at-least-32-characters"

	t.Run("issues a token carrying the account claims", func(t *testing.T) {
		svc, repo, logs := newAuthService(secret)
		repo.On("FindByUsername", ctx, "admin").Return(newTestAccount(t, 1, "admin", "s3cret", identity.RoleAdmin), nil)

		before := time.Now()
		resp, err := svc.Login(ctx, LoginRequest{Username: "admin", Password: "s3cret"})

		require.NoError(t, err)
		require.NotEmpty(t, resp.Token)
		assert.WithinDuration(t, before.Add(24*time.Hour), resp.Expiration, 5*time.Second)

		claims, err := auth.NewJWTService(config.JWTConfig{Secret: secret}).ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, int64(1), claims.UserID)
		assert.Equal(t, "admin", claims.Username)
		assert.Equal(t, "admin", claims.Role)
		assert.Equal(t, 1, logs.FilterMessage("Account logged in successfully").Len())
	})

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		svc, repo, _ := newAuthService(secret)
		repo.On("FindByUsername", ctx, "admin").Return(newTestAccount(t, 1, "admin", "s3cret", identity.RoleAdmin), nil)
		repo.On("FindByUsername", ctx, "ghost").Return(nil, shared.ErrNotFound)

		_, wrongPassword := svc.Login(ctx, LoginRequest{Username: "admin", Password: "nope"})
		_, unknownUser := svc.Login(ctx, LoginRequest{Username: "ghost", Password: "s3cret"})

		assert.Equal(t, ErrInvalidCredentials, wrongPassword)
		assert.Equal(t, ErrInvalidCredentials, unknownUser)
		assert.EqualError(t, wrongPassword, "invalid username or password")
	})

	t.Run("unknown user costs a password comparison", func(t *testing.T) {
		previous := identity.BcryptCost
		identity.BcryptCost = bcrypt.MinCost + 4
		defer func() { identity.BcryptCost = previous }()

		svc, repo, _ := newAuthService(secret)
		require.NotNil(t, svc.decoy)
		repo.On("FindByUsername", ctx, "admin").Return(newTestAccount(t, 1, "admin", "s3cret", identity.RoleAdmin), nil)
		repo.On("FindByUsername", ctx, "ghost").Return(nil, shared.ErrNotFound)

		elapsed := func(username string) time.Duration {
			start := time.Now()
			_, err := svc.Login(ctx, LoginRequest{Username: username, Password: "wrong"})
			require.Equal(t, ErrInvalidCredentials, err)
			return time.Since(start)
		}
		wrongPassword := elapsed("admin")
		unknownUser := elapsed("ghost")

		assert.GreaterOrEqual(t, unknownUser, wrongPassword/4)
		assert.False(t, svc.decoy.VerifyPassword("wrong"))
	})

	t.Run("counts attempts by outcome", func(t *testing.T) {
		svc, repo, _ := newAuthService(secret)
		reader := sdkmetric.NewManualReader()
		bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter: telemetry.NewMeterProviderWithReader(reader, zap.NewNop()).Meter("test"),
		})
		require.NoError(t, err)
		svc.SetBusinessMetrics(bm)
		repo.On("FindByUsername", ctx, "admin").Return(newTestAccount(t, 1, "admin", "s3cret", identity.RoleAdmin), nil)
		repo.On("FindByUsername", ctx, "ghost").Return(nil, shared.ErrNotFound)

		_, _ = svc.Login(ctx, LoginRequest{Username: "admin", Password: "s3cret"})
		_, _ = svc.Login(ctx, LoginRequest{Username: "admin", Password: "nope"})
		_, _ = svc.Login(ctx, LoginRequest{Username: "ghost", Password: "nope"})

		assert.Equal(t, int64(1), counterValue(t, reader, "crm_login_attempts_total", telemetry.AttrOutcome.String(telemetry.OutcomeSuccess)))
		assert.Equal(t, int64(2), counterValue(t, reader, "crm_login_attempts_total", telemetry.AttrOutcome.String(telemetry.OutcomeFailure)))
	})

	t.Run("usernames are case sensitive", func(t *testing.T) {
		svc, repo, _ := newAuthService(secret)
		repo.On("FindByUsername", ctx, "Admin").Return(nil, shared.ErrNotFound)

		_, err := svc.Login(ctx, LoginRequest{Username: "Admin", Password: "s3cret"})

		assert.Equal(t, ErrInvalidCredentials, err)
	})

	t.Run("missing secret is an internal error", func(t *testing.T) {
		svc, repo, logs := newAuthService("")
		repo.On("FindByUsername", ctx, "admin").Return(newTestAccount(t, 1, "admin", "s3cret", identity.RoleAdmin), nil)

		_, err := svc.Login(ctx, LoginRequest{Username: "admin", Password: "s3cret"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
		assert.Equal(t, 1, logs.FilterMessage("Failed to generate token").Len())
	})
}

func TestAccountService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password", func(t *testing.T) {
		repo := new(MockAccountRepository)
		svc := NewAccountService(repo, zap.NewNop())
		repo.On("ExistsByUsername", ctx, "staff1", int64(0)).Return(false, nil)
		var saved *identity.Account
		repo.On("Save", ctx, mock.AnythingOfType("*identity.Account")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*identity.Account) }).
			Return(nil)

		resp, err := svc.Create(ctx, AccountRequest{Username: "staff1", Password: "pw123456", Role: "employee"})

		require.NoError(t, err)
		assert.Equal(t, "employee", resp.Role)
		require.NotNil(t, saved)
		assert.NotEqual(t, "pw123456", saved.PasswordHash)
		assert.True(t, saved.VerifyPassword("pw123456"))
	})

	t.Run("duplicate username", func(t *testing.T) {
		repo := new(MockAccountRepository)
		svc := NewAccountService(repo, zap.NewNop())
		repo.On("ExistsByUsername", ctx, "staff1", int64(0)).Return(true, nil)

		_, err := svc.Create(ctx, AccountRequest{Username: "staff1", Password: "pw", Role: "employee"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("password is required", func(t *testing.T) {
		svc := NewAccountService(new(MockAccountRepository), zap.NewNop())

		_, err := svc.Create(ctx, AccountRequest{Username: "staff1", Role: "employee"})

		assert.ErrorContains(t, err, "Password cannot be empty")
	})
}

func TestAccountService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps the hash without a new password", func(t *testing.T) {
		repo := new(MockAccountRepository)
		svc := NewAccountService(repo, zap.NewNop())
		account := newTestAccount(t, 2, "staff1", "old-password", identity.RoleEmployee)
		oldHash := account.PasswordHash
		repo.On("FindByID", ctx, int64(2)).Return(account, nil)
		repo.On("ExistsByUsername", ctx, "staff1", int64(2)).Return(false, nil)
		repo.On("Save", ctx, account).Return(nil)

		err := svc.Update(ctx, 2, AccountRequest{ID: 2, Username: "staff1", Role: "admin", Email: "s@example.com"})

		require.NoError(t, err)
		assert.Equal(t, oldHash, account.PasswordHash)
		assert.Equal(t, identity.RoleAdmin, account.Role)
	})

	t.Run("replaces the hash with a new password", func(t *testing.T) {
		repo := new(MockAccountRepository)
		svc := NewAccountService(repo, zap.NewNop())
		account := newTestAccount(t, 2, "staff1", "old-password", identity.RoleEmployee)
		repo.On("FindByID", ctx, int64(2)).Return(account, nil)
		repo.On("ExistsByUsername", ctx, "staff1", int64(2)).Return(false, nil)
		repo.On("Save", ctx, account).Return(nil)

		require.NoError(t, svc.Update(ctx, 2, AccountRequest{Username: "staff1", Password: "new-password", Role: "employee"}))

		assert.True(t, account.VerifyPassword("new-password"))
		assert.False(t, account.VerifyPassword("old-password"))
	})
}

func TestAccountService_Me(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, zap.NewNop())
	repo.On("FindByID", ctx, int64(3)).Return(newTestAccount(t, 3, "staff3", "pw", identity.RoleEmployee), nil)
	repo.On("FindByID", ctx, int64(4)).Return(nil, shared.ErrNotFound)

	me, err := svc.Me(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "staff3", me.Username)

	_, err = svc.Me(ctx, 4)
	assert.EqualError(t, err, "Account 4 not found")
}

func TestAccountService_BootstrapAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an admin in an empty table", func(t *testing.T) {
		repo := new(MockAccountRepository)
		svc := NewAccountService(repo, zap.NewNop())
		repo.On("Count", ctx, mock.Anything).Return(int64(0), nil)
		repo.On("Save", ctx, mock.MatchedBy(func(a *identity.Account) bool {
			return a.Username == "root" && a.IsAdmin() && a.VerifyPassword("change-me")
		})).Return(nil)

		created, err := svc.BootstrapAdmin(ctx, "root", "change-me")

		require.NoError(t, err)
		assert.True(t, created)
		repo.AssertExpectations(t)
	})

	t.Run("leaves existing accounts alone", func(t *testing.T) {
		repo := new(MockAccountRepository)
		svc := NewAccountService(repo, zap.NewNop())
		repo.On("Count", ctx, mock.Anything).Return(int64(2), nil)

		created, err := svc.BootstrapAdmin(ctx, "root", "change-me")

		require.NoError(t, err)
		assert.False(t, created)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("not configured", func(t *testing.T) {
		repo := new(MockAccountRepository)
		svc := NewAccountService(repo, zap.NewNop())

		created, err := svc.BootstrapAdmin(ctx, "", "")

		require.NoError(t, err)
		assert.False(t, created)
		repo.AssertExpectations(t)
	})
}

// counterValue sums the data points of counter name carrying attr
func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string, attr attribute.KeyValue) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				if v, ok := dp.Attributes.Value(attr.Key); ok && v == attr.Value {
					total += dp.Value
				}
			}
		}
	}
	return total
}

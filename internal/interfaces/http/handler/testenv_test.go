package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	catalogapp "github.com/crm/backend/internal/application/catalog"
	identityapp "github.com/crm/backend/internal/application/identity"
	partnerapp "github.com/crm/backend/internal/application/partner"
	reportapp "github.com/crm/backend/internal/application/report"
	tradeapp "github.com/crm/backend/internal/application/trade"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// testEnv holds real services over an in-memory SQLite database
type testEnv struct {
	db       *gorm.DB
	jwt      *auth.JWTService
	customer *partnerapp.CustomerService
	imports  *partnerapp.CustomerImportService
	contact  *partnerapp.ContactService
	order    *tradeapp.OrderService
	lineItem *tradeapp.LineItemService
	events   *tradeapp.StatusEventService
	service  *catalogapp.ServiceService
	rating   *catalogapp.RatingService
	account  *identityapp.AccountService
	auth     *identityapp.AuthService
	report   *reportapp.ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	log := zap.NewNop()
	reportCache := cache.NewInMemoryReportCache()
	require.NoError(t, cache.RegisterInvalidation(db, reportCache, log))

	customerRepo := persistence.NewGormCustomerRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	serviceRepo := persistence.NewGormServiceRepository(db)
	accountRepo := persistence.NewGormAccountRepository(db)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "handler-test-secret",
		Expiration: time.Hour,
		Issuer:     "crm-test",
	})

	return &testEnv{
		db:       db,
		jwt:      jwtService,
		customer: partnerapp.NewCustomerService(customerRepo, log),
		imports:  partnerapp.NewCustomerImportService(customerRepo, log),
		contact:  partnerapp.NewContactService(persistence.NewGormContactEventRepository(db), customerRepo, log),
		order: tradeapp.NewOrderService(orderRepo, customerRepo,
			partnerapp.NewTierService(customerRepo, orderRepo, log), log),
		lineItem: tradeapp.NewLineItemService(persistence.NewGormOrderLineItemRepository(db), orderRepo),
		events:   tradeapp.NewStatusEventService(persistence.NewGormOrderStatusEventRepository(db), orderRepo),
		service:  catalogapp.NewServiceService(serviceRepo, log),
		rating:   catalogapp.NewRatingService(persistence.NewGormServiceRatingRepository(db), serviceRepo, customerRepo, log),
		account:  identityapp.NewAccountService(accountRepo, log),
		auth:     identityapp.NewAuthService(accountRepo, jwtService, log),
		report:   reportapp.NewReportService(persistence.NewGormReportRepository(db), reportCache, time.Minute, log),
	}
}

// newTestRouter returns an engine with request IDs and an optional set of
// context values standing in for the JWT middleware
func newTestRouter(values map[string]any) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	if len(values) > 0 {
		r.Use(func(c *gin.Context) {
			for k, v := range values {
				c.Set(k, v)
			}
			c.Next()
		})
	}
	return r
}

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// errorCode returns error.code of an error envelope
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeJSON[struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}](t, w)
	require.False(t, body.Success)
	return body.Error.Code
}

package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authapp "shop-server/internal/application/auth"
	codeadmin "shop-server/internal/application/code_admin"
	productapp "shop-server/internal/application/product"
	promotionapp "shop-server/internal/application/promotion"
	redemptionapp "shop-server/internal/application/redemption"
	"shop-server/internal/domain/product"
	"shop-server/internal/domain/promotion"
	"shop-server/internal/domain/redeem_code"
	"shop-server/internal/infrastructure/config"
	otelinfra "shop-server/internal/infrastructure/observability/otel"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

// MockRedeemCodeRepository モック引き換えコードリポジトリ
type MockRedeemCodeRepository struct {
	mock.Mock
}

func (m *MockRedeemCodeRepository) FindByCode(ctx context.Context, code string) (*redeem_code.RedeemCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redeem_code.RedeemCode), args.Error(1)
}

func (m *MockRedeemCodeRepository) FindByID(ctx context.Context, id string) (*redeem_code.RedeemCode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redeem_code.RedeemCode), args.Error(1)
}

func (m *MockRedeemCodeRepository) FindByProduct(ctx context.Context, productID string) ([]*redeem_code.RedeemCode, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*redeem_code.RedeemCode), args.Error(1)
}

func (m *MockRedeemCodeRepository) FindMasterCodes(ctx context.Context) ([]*redeem_code.RedeemCode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*redeem_code.RedeemCode), args.Error(1)
}

func (m *MockRedeemCodeRepository) FindAll(ctx context.Context, filter redeem_code.CodeFilter, limit, offset int) ([]*redeem_code.RedeemCode, int, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*redeem_code.RedeemCode), args.Int(1), args.Error(2)
}

func (m *MockRedeemCodeRepository) Create(ctx context.Context, code *redeem_code.RedeemCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockRedeemCodeRepository) Update(ctx context.Context, code *redeem_code.RedeemCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockRedeemCodeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRedeemCodeRepository) IncrementUsage(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedeemCodeRepository) SaveRedemption(ctx context.Context, redemption *redeem_code.Redemption) error {
	args := m.Called(ctx, redemption)
	return args.Error(0)
}

func (m *MockRedeemCodeRepository) FindRedemptionsByCode(ctx context.Context, codeID string, limit, offset int) ([]*redeem_code.Redemption, error) {
	args := m.Called(ctx, codeID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*redeem_code.Redemption), args.Error(1)
}

// MockProductRepository モック商品リポジトリ
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, limit, offset int) ([]*product.Product, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*product.Product), args.Int(1), args.Error(2)
}

func (m *MockProductRepository) Create(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPromotionRepository モックプロモーションリポジトリ
type MockPromotionRepository struct {
	mock.Mock
}

func (m *MockPromotionRepository) FindByID(ctx context.Context, id string) (*promotion.Promotion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotion.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) FindAll(ctx context.Context, limit, offset int) ([]*promotion.Promotion, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*promotion.Promotion), args.Int(1), args.Error(2)
}

func (m *MockPromotionRepository) Create(ctx context.Context, p *promotion.Promotion) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPromotionRepository) Update(ctx context.Context, p *promotion.Promotion) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPromotionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeHealthChecker テスト用ヘルスチェッカー
type fakeHealthChecker struct {
	err error
}

func (f *fakeHealthChecker) HealthCheck() error {
	return f.err
}

// setupTestRouter テスト用のルーターをセットアップ
func setupTestRouter(t *testing.T, health HealthChecker) (*Router, *MockRedeemCodeRepository, *MockProductRepository, *MockPromotionRepository) {
	t.Helper()

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret-key-for-testing-purposes-only",
			Expiration: 24 * time.Hour,
			Issuer:     "test-issuer",
		},
		AdminAPI: config.AdminAPIConfig{
			Enabled: true,
			APIKey:  "test-api-key",
		},
	}

	tracer := noop.NewTracerProvider().Tracer("test")
	logger := otelinfra.NewLogger(tracer)
	metrics, err := otelinfra.NewMetrics("test")
	require.NoError(t, err)

	mockCodeRepo := new(MockRedeemCodeRepository)
	mockProductRepo := new(MockProductRepository)
	mockPromotionRepo := new(MockPromotionRepository)

	redemptionService := redemptionapp.NewRedemptionApplicationService(mockCodeRepo, logger, metrics)
	codeAdminService := codeadmin.NewCodeAdminApplicationService(mockCodeRepo, logger, metrics)
	productService := productapp.NewProductApplicationService(mockProductRepo, logger)
	promotionService := promotionapp.NewPromotionApplicationService(mockPromotionRepo, logger)
	authService := authapp.NewAuthApplicationService(&cfg.JWT, logger)

	router, err := NewRouter(
		cfg,
		logger,
		metrics,
		health,
		redemptionService,
		codeAdminService,
		productService,
		promotionService,
		authService,
	)
	require.NoError(t, err)
	require.NotNil(t, router)

	return router, mockCodeRepo, mockProductRepo, mockPromotionRepo
}

// issueAdminToken APIキー認証でJWTトークンを取得
func issueAdminToken(t *testing.T, router *Router) string {
	t.Helper()

	body, _ := json.Marshal(map[string]interface{}{
		"admin_id": "admin001",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-API-Key", "test-api-key")
	rec := httptest.NewRecorder()

	router.echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var tokenResp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokenResp))
	token, ok := tokenResp["token"].(string)
	require.True(t, ok)
	return token
}

func TestNewRouter(t *testing.T) {
	router, _, _, _ := setupTestRouter(t, nil)

	assert.NotNil(t, router)
	assert.NotNil(t, router.echo)
	assert.NotNil(t, router.redemptionHandler)
	assert.NotNil(t, router.codeAdminHandler)
	assert.NotNil(t, router.productHandler)
	assert.NotNil(t, router.promotionHandler)
	assert.NotNil(t, router.authHandler)
}

func TestRouter_HealthCheck(t *testing.T) {
	t.Run("正常系: ストレージが正常", func(t *testing.T) {
		router, _, _, _ := setupTestRouter(t, &fakeHealthChecker{})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()

		router.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "ok", response["status"])
	})

	t.Run("異常系: ストレージ接続エラーは503", func(t *testing.T) {
		router, _, _, _ := setupTestRouter(t, &fakeHealthChecker{err: errors.New("connection refused")})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()

		router.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var response map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "unavailable", response["status"])
	})
}

func TestRouter_AuthTokenEndpoint(t *testing.T) {
	router, _, _, _ := setupTestRouter(t, nil)

	tests := []struct {
		name           string
		apiKey         string
		requestBody    map[string]interface{}
		expectedStatus int
	}{
		{
			name:   "正常系: トークン生成成功",
			apiKey: "test-api-key",
			requestBody: map[string]interface{}{
				"admin_id": "admin001",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "異常系: APIキーなし",
			apiKey: "",
			requestBody: map[string]interface{}{
				"admin_id": "admin001",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "異常系: リクエストボディが空",
			apiKey:         "test-api-key",
			requestBody:    nil,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body []byte
			if tt.requestBody != nil {
				body, _ = json.Marshal(tt.requestBody)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewReader(body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}
			rec := httptest.NewRecorder()

			router.echo.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusOK {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
				assert.NotEmpty(t, response["token"])
			}
		})
	}
}

func TestRouter_PublicEndpoints(t *testing.T) {
	t.Run("商品一覧は認証不要", func(t *testing.T) {
		router, _, mockProductRepo, _ := setupTestRouter(t, nil)

		p, err := product.NewProduct("prod_123", "Summer Album", "Digital album", 1500, "")
		require.NoError(t, err)
		mockProductRepo.On("FindAll", mock.Anything, 50, 0).Return([]*product.Product{p}, 1, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		rec := httptest.NewRecorder()

		router.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockProductRepo.AssertExpectations(t)
	})

	t.Run("プロモーション一覧は認証不要", func(t *testing.T) {
		router, _, _, mockPromotionRepo := setupTestRouter(t, nil)

		now := time.Now()
		pr, err := promotion.NewPromotion("promo_1", "Summer Sale", "", 20, now.Add(-time.Hour), now.Add(time.Hour))
		require.NoError(t, err)
		mockPromotionRepo.On("FindAll", mock.Anything, 50, 0).Return([]*promotion.Promotion{pr}, 1, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/promotions", nil)
		rec := httptest.NewRecorder()

		router.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockPromotionRepo.AssertExpectations(t)
	})

	t.Run("コード引き換えは認証不要", func(t *testing.T) {
		router, mockCodeRepo, _, _ := setupTestRouter(t, nil)

		payload := redeem_code.NewDownloadPayload("https://cdn.example.com/album.zip", "album.zip")
		rc, err := redeem_code.NewRedeemCode("code_1", "SUMMER-2025", redeem_code.CodeKindDownload, payload, redeem_code.NewMasterScope(), 0, time.Time{}, "admin001")
		require.NoError(t, err)
		mockCodeRepo.On("FindByCode", mock.Anything, "SUMMER-2025").Return(rc, nil)
		mockCodeRepo.On("IncrementUsage", mock.Anything, "code_1").Return(true, nil)
		mockCodeRepo.On("SaveRedemption", mock.Anything, mock.Anything).Return(nil)

		body, _ := json.Marshal(map[string]interface{}{
			"code":       "SUMMER-2025",
			"product_id": "prod_123",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/codes/redeem", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		router.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockCodeRepo.AssertExpectations(t)
	})
}

func TestRouter_AdminEndpoints(t *testing.T) {
	t.Run("異常系: トークンなしは401", func(t *testing.T) {
		router, _, _, _ := setupTestRouter(t, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/codes", nil)
		rec := httptest.NewRecorder()

		router.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("正常系: トークンありでコード一覧取得", func(t *testing.T) {
		router, mockCodeRepo, _, _ := setupTestRouter(t, nil)
		token := issueAdminToken(t, router)

		mockCodeRepo.On("FindAll", mock.Anything, redeem_code.CodeFilter{}, 50, 0).Return([]*redeem_code.RedeemCode{}, 0, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/codes", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()

		router.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockCodeRepo.AssertExpectations(t)
	})
}

func TestRouter_SwaggerEndpoints(t *testing.T) {
	router, _, _, _ := setupTestRouter(t, nil)

	tests := []struct {
		name string
		path string
	}{
		{
			name: "Swagger UIエンドポイント",
			path: "/swagger/index.html",
		},
		{
			name: "ReDocエンドポイント",
			path: "/redoc",
		},
		{
			name: "OpenAPI仕様エンドポイント",
			path: "/openapi.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()

			router.echo.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code, "path: %s", tt.path)
		})
	}
}

func TestRouter_StartShutdown(t *testing.T) {
	router, _, _, _ := setupTestRouter(t, nil)

	go func() {
		err := router.Start(":0")
		_ = err
	}()

	time.Sleep(100 * time.Millisecond)

	err := router.Shutdown()
	assert.NoError(t, err)
}

func TestRouter_RouteRegistration(t *testing.T) {
	router, _, _, _ := setupTestRouter(t, nil)

	routes := router.echo.Routes()
	registered := make(map[string]bool)
	for _, route := range routes {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"GET /health",
		"POST /api/v1/auth/token",
		"POST /api/v1/codes/redeem",
		"GET /api/v1/products",
		"GET /api/v1/promotions",
		"POST /api/v1/admin/codes",
		"GET /api/v1/admin/codes/:id/redemptions",
		"GET /api/v1/admin/products/:product_id/codes",
	}
	for _, endpoint := range expected {
		assert.True(t, registered[endpoint], "エンドポイント %s が登録されていることを確認", endpoint)
	}
}

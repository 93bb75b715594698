package rest

import (
	authapp "shop-server/internal/application/auth"
	codeadmin "shop-server/internal/application/code_admin"
	productapp "shop-server/internal/application/product"
	promotionapp "shop-server/internal/application/promotion"
	redemptionapp "shop-server/internal/application/redemption"
	"shop-server/internal/infrastructure/config"
	otelinfra "shop-server/internal/infrastructure/observability/otel"
	"shop-server/internal/presentation/rest/handler"
	restmiddleware "shop-server/internal/presentation/rest/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// HealthChecker バックエンドストレージのヘルスチェックインターフェース
type HealthChecker interface {
	HealthCheck() error
}

// Router REST APIルーター
type Router struct {
	echo              *echo.Echo
	redemptionHandler *handler.RedemptionHandler
	codeAdminHandler  *handler.CodeAdminHandler
	productHandler    *handler.ProductHandler
	promotionHandler  *handler.PromotionHandler
	authHandler       *handler.AuthHandler
}

// NewRouter 新しいRouterを作成
func NewRouter(
	cfg *config.Config,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
	health HealthChecker,
	redemptionService *redemptionapp.RedemptionApplicationService,
	codeAdminService *codeadmin.CodeAdminApplicationService,
	productService *productapp.ProductApplicationService,
	promotionService *promotionapp.PromotionApplicationService,
	authService *authapp.AuthApplicationService,
) (*Router, error) {
	e := echo.New()

	// Echoのデフォルトエラーハンドラーを無効化（カスタムエラーハンドラーを使用）
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		// エラーハンドリングミドルウェアで処理される
	}

	// ミドルウェアの設定
	setupMiddleware(e, cfg, logger, metrics)

	// ハンドラーの作成
	redemptionHandler := handler.NewRedemptionHandler(redemptionService)
	codeAdminHandler := handler.NewCodeAdminHandler(codeAdminService)
	productHandler := handler.NewProductHandler(productService)
	promotionHandler := handler.NewPromotionHandler(promotionService)
	authHandler := handler.NewAuthHandler(authService)

	// ルーティングの設定
	setupRoutes(e, cfg, logger, health, redemptionHandler, codeAdminHandler, productHandler, promotionHandler, authHandler)

	// Swagger UI / ReDoc統合
	SetupSwagger(e)

	return &Router{
		echo:              e,
		redemptionHandler: redemptionHandler,
		codeAdminHandler:  codeAdminHandler,
		productHandler:    productHandler,
		promotionHandler:  promotionHandler,
		authHandler:       authHandler,
	}, nil
}

// setupMiddleware ミドルウェアを設定
func setupMiddleware(e *echo.Echo, cfg *config.Config, logger *otelinfra.Logger, metrics *otelinfra.Metrics) {
	// リカバリーミドルウェア
	e.Use(middleware.Recover())

	// CORS設定
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"}, // 本番環境では適切に設定
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-API-Key"},
	}))

	// リクエストIDの設定
	e.Use(middleware.RequestID())

	// セキュリティヘッダー
	e.Use(restmiddleware.SecurityHeadersMiddleware())

	// トレーシングミドルウェア
	e.Use(restmiddleware.TracingMiddleware())

	// ログミドルウェア
	e.Use(restmiddleware.LoggingMiddleware(logger))

	// メトリクスミドルウェア
	if metrics != nil {
		e.Use(restmiddleware.MetricsMiddleware(metrics))
	}

	// エラーハンドリングミドルウェア
	e.Use(restmiddleware.ErrorHandlerMiddleware(logger))
}

// setupRoutes ルーティングを設定
func setupRoutes(
	e *echo.Echo,
	cfg *config.Config,
	logger *otelinfra.Logger,
	health HealthChecker,
	redemptionHandler *handler.RedemptionHandler,
	codeAdminHandler *handler.CodeAdminHandler,
	productHandler *handler.ProductHandler,
	promotionHandler *handler.PromotionHandler,
	authHandler *handler.AuthHandler,
) {
	// API v1グループ
	api := e.Group("/api/v1")

	// 公開エンドポイント（認証不要）
	api.POST("/codes/redeem", redemptionHandler.RedeemCode)
	api.GET("/products", productHandler.ListProducts)
	api.GET("/products/:id", productHandler.GetProduct)
	api.GET("/promotions", promotionHandler.ListPromotions)
	api.GET("/promotions/:id", promotionHandler.GetPromotion)

	// 管理者トークン発行（APIキー認証）
	api.POST("/auth/token", authHandler.GenerateToken, restmiddleware.APIKeyMiddleware(&cfg.AdminAPI, logger))

	// 管理エンドポイント（JWT認証）
	admin := api.Group("/admin", restmiddleware.AuthMiddleware(&cfg.JWT, logger))

	admin.POST("/codes", codeAdminHandler.CreateCode)
	admin.GET("/codes", codeAdminHandler.ListCodes)
	admin.GET("/codes/master", codeAdminHandler.ListMasterCodes)
	admin.GET("/codes/:id", codeAdminHandler.GetCode)
	admin.PUT("/codes/:id", codeAdminHandler.UpdateCode)
	admin.DELETE("/codes/:id", codeAdminHandler.DeleteCode)
	admin.GET("/codes/:id/redemptions", codeAdminHandler.ListRedemptions)
	admin.GET("/products/:product_id/codes", codeAdminHandler.ListCodesByProduct)

	admin.POST("/products", productHandler.CreateProduct)
	admin.PUT("/products/:id", productHandler.UpdateProduct)
	admin.DELETE("/products/:id", productHandler.DeleteProduct)

	admin.POST("/promotions", promotionHandler.CreatePromotion)
	admin.PUT("/promotions/:id", promotionHandler.UpdatePromotion)
	admin.DELETE("/promotions/:id", promotionHandler.DeletePromotion)

	// ヘルスチェックエンドポイント（認証不要）
	e.GET("/health", func(c echo.Context) error {
		if health != nil {
			if err := health.HealthCheck(); err != nil {
				return c.JSON(503, map[string]string{"status": "unavailable"})
			}
		}
		return c.JSON(200, map[string]string{"status": "ok"})
	})
}

// Start サーバーを起動
func (r *Router) Start(address string) error {
	return r.echo.Start(address)
}

// Shutdown サーバーをシャットダウン
func (r *Router) Shutdown() error {
	return r.echo.Close()
}

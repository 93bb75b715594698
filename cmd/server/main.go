package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	authapp "shop-server/internal/application/auth"
	codeadmin "shop-server/internal/application/code_admin"
	productapp "shop-server/internal/application/product"
	promotionapp "shop-server/internal/application/promotion"
	redemptionapp "shop-server/internal/application/redemption"
	"shop-server/internal/infrastructure/config"
	otelinfra "shop-server/internal/infrastructure/observability/otel"
	"shop-server/internal/infrastructure/persistence/mysql"
	"shop-server/internal/presentation/rest"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// OpenTelemetryの初期化
	tracerShutdown, err := otelinfra.InitTracer(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown tracer: %v", err)
		}
	}()

	meterShutdown, err := otelinfra.InitMeter(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize meter: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown meter: %v", err)
		}
	}()

	// ロガーとメトリクスの初期化
	tracer := otelinfra.Tracer("shop-server")
	logger := otelinfra.NewLogger(tracer)
	metrics, err := otelinfra.NewMetrics("shop-server")
	if err != nil {
		log.Fatalf("Failed to create metrics: %v", err)
	}

	// データベース接続の初期化
	db, err := mysql.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// リポジトリの初期化
	redeemCodeRepo := mysql.NewRedeemCodeRepository(db)
	productRepo := mysql.NewProductRepository(db)
	promotionRepo := mysql.NewPromotionRepository(db)

	// アプリケーションサービスの初期化
	redemptionAppService := redemptionapp.NewRedemptionApplicationService(
		redeemCodeRepo,
		logger,
		metrics,
	)

	codeAdminAppService := codeadmin.NewCodeAdminApplicationService(
		redeemCodeRepo,
		logger,
		metrics,
	)

	productAppService := productapp.NewProductApplicationService(
		productRepo,
		logger,
	)

	promotionAppService := promotionapp.NewPromotionApplicationService(
		promotionRepo,
		logger,
	)

	authAppService := authapp.NewAuthApplicationService(&cfg.JWT, logger)

	// REST APIルーターの初期化
	router, err := rest.NewRouter(
		cfg,
		logger,
		metrics,
		db,
		redemptionAppService,
		codeAdminAppService,
		productAppService,
		promotionAppService,
		authAppService,
	)
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	// サーバーアドレスの設定
	address := fmt.Sprintf(":%d", cfg.Server.Port)

	// グレースフルシャットダウンの設定
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	// REST APIサーバーを別ゴルーチンで起動
	go func() {
		log.Printf("REST API server starting on %s", address)
		if err := router.Start(address); err != nil {
			log.Printf("REST API server error: %v", err)
		}
	}()

	// シグナルを待機
	<-quit
	log.Println("Shutting down server...")

	// グレースフルシャットダウン
	if err := router.Shutdown(); err != nil {
		log.Printf("Error shutting down REST API server: %v", err)
	}

	log.Println("Server stopped")
}

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	codeadmin "shop-server/internal/application/code_admin"
	"shop-server/internal/domain/product"
	"shop-server/internal/domain/promotion"
	"shop-server/internal/domain/redeem_code"
	otelinfra "shop-server/internal/infrastructure/observability/otel"
)

// ErrorResponse エラーレスポンス
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// ErrorHandlerMiddleware エラーハンドリングミドルウェア
func ErrorHandlerMiddleware(logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			// エラーハンドリング
			return handleError(c, err, logger)
		}
	}
}

// handleError エラーを処理して適切なHTTPレスポンスを返す
func handleError(c echo.Context, err error, logger *otelinfra.Logger) error {
	ctx := c.Request().Context()

	// ドメインエラーの判定と処理
	if errors.Is(err, redeem_code.ErrCodeNotFound) {
		logger.Warn(ctx, "Code not found", map[string]interface{}{
			"error": err.Error(),
		})
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "code_not_found",
			Message: err.Error(),
		})
	}

	if errors.Is(err, redeem_code.ErrUsageLimitReached) {
		logger.Warn(ctx, "Usage limit reached", map[string]interface{}{
			"error": err.Error(),
		})
		return c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "usage_limit_reached",
			Message: err.Error(),
		})
	}

	if errors.Is(err, redeem_code.ErrCodeInactive) {
		logger.Warn(ctx, "Code inactive", map[string]interface{}{
			"error": err.Error(),
		})
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "code_inactive",
			Message: err.Error(),
		})
	}

	if errors.Is(err, redeem_code.ErrCodeExpired) {
		logger.Warn(ctx, "Code expired", map[string]interface{}{
			"error": err.Error(),
		})
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "code_expired",
			Message: err.Error(),
		})
	}

	if errors.Is(err, redeem_code.ErrScopeMismatch) {
		logger.Warn(ctx, "Scope mismatch", map[string]interface{}{
			"error": err.Error(),
		})
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "scope_mismatch",
			Message: err.Error(),
		})
	}

	if errors.Is(err, redeem_code.ErrKindNotRedeemable) {
		logger.Warn(ctx, "Kind not redeemable", map[string]interface{}{
			"error": err.Error(),
		})
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "kind_not_redeemable",
			Message: err.Error(),
		})
	}

	if errors.Is(err, redeem_code.ErrCodeAlreadyExists) {
		logger.Warn(ctx, "Code already exists", map[string]interface{}{
			"error": err.Error(),
		})
		return c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "code_already_exists",
			Message: err.Error(),
		})
	}

	if errors.Is(err, product.ErrProductNotFound) {
		logger.Warn(ctx, "Product not found", map[string]interface{}{
			"error": err.Error(),
		})
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "product_not_found",
			Message: err.Error(),
		})
	}

	if errors.Is(err, promotion.ErrPromotionNotFound) {
		logger.Warn(ctx, "Promotion not found", map[string]interface{}{
			"error": err.Error(),
		})
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "promotion_not_found",
			Message: err.Error(),
		})
	}

	// バリデーションエラー（問題のあるフィールドを列挙して返す）
	var validationErr *codeadmin.ValidationError
	if errors.As(err, &validationErr) {
		logger.Warn(ctx, "Validation failed", map[string]interface{}{
			"fields": strings.Join(validationErr.Fields, ", "),
		})
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
			Fields:  validationErr.Fields,
		})
	}

	// EchoのHTTPエラー
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		logger.Warn(ctx, "HTTP error", map[string]interface{}{
			"status_code": httpErr.Code,
			"message":     httpErr.Message,
		})
		message := ""
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(httpErr.Code)
		}
		return c.JSON(httpErr.Code, ErrorResponse{
			Error:   http.StatusText(httpErr.Code),
			Message: message,
		})
	}

	// 予期しないエラー
	logger.Error(ctx, "Internal server error", err, map[string]interface{}{
		"path": c.Request().URL.Path,
	})
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_server_error",
		Message: "An unexpected error occurred",
	})
}

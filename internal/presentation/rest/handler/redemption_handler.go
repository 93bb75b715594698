package handler

import (
	"errors"
	"net/http"

	redemptionapp "shop-server/internal/application/redemption"
	"shop-server/internal/domain/redeem_code"

	"github.com/labstack/echo/v4"
)

// RedemptionHandler コード引き換えハンドラー
type RedemptionHandler struct {
	redemptionService *redemptionapp.RedemptionApplicationService
}

// NewRedemptionHandler 新しいRedemptionHandlerを作成
func NewRedemptionHandler(redemptionService *redemptionapp.RedemptionApplicationService) *RedemptionHandler {
	return &RedemptionHandler{
		redemptionService: redemptionService,
	}
}

// RedeemCode コード引き換えハンドラー
// @Summary コードを引き換え
// @Description 引き換えコードを検証し、受理された場合はダウンロード情報を返します
// @Tags redemption
// @Accept json
// @Produce json
// @Param request body RedeemRequest true "コード引き換えリクエスト"
// @Success 200 {object} RedeemResponse "引き換え成功"
// @Failure 400 {object} RedeemResponse "引き換え拒否"
// @Failure 404 {object} RedeemResponse "コードが存在しない"
// @Failure 409 {object} RedeemResponse "使用回数上限到達"
// @Router /codes/redeem [post]
func (h *RedemptionHandler) RedeemCode(c echo.Context) error {
	var reqBody struct {
		Code      string `json:"code"`
		ProductID string `json:"product_id"`
	}

	if err := c.Bind(&reqBody); err != nil {
		return c.JSON(http.StatusBadRequest, RedeemResponse{
			Success: false,
			Message: "invalid request body",
		})
	}

	req := &redemptionapp.RedeemRequest{
		Code:      reqBody.Code,
		ProductID: reqBody.ProductID,
	}

	resp, err := h.redemptionService.Redeem(c.Request().Context(), req)
	if err != nil {
		// 拒否はこのエンドポイント固有のレスポンス形式で返す
		status := rejectionStatus(err)
		message := err.Error()
		if status == http.StatusInternalServerError {
			message = "an unexpected error occurred"
		}
		return c.JSON(status, RedeemResponse{
			Success: false,
			Message: message,
		})
	}

	return c.JSON(http.StatusOK, RedeemResponse{
		Success:     true,
		Message:     "code redeemed successfully",
		DownloadURL: resp.DownloadURL,
		FileName:    resp.FileName,
		CodeType:    resp.CodeType,
	})
}

// rejectionStatus 拒否理由をHTTPステータスコードにマッピング
func rejectionStatus(err error) int {
	switch {
	case errors.Is(err, redeem_code.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, redeem_code.ErrUsageLimitReached):
		return http.StatusConflict
	case errors.Is(err, redeem_code.ErrCodeInactive),
		errors.Is(err, redeem_code.ErrCodeExpired),
		errors.Is(err, redeem_code.ErrScopeMismatch),
		errors.Is(err, redeem_code.ErrKindNotRedeemable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

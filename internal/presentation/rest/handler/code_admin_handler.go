package handler

import (
	"net/http"
	"strconv"
	"time"

	codeadmin "shop-server/internal/application/code_admin"

	"github.com/labstack/echo/v4"
)

// CodeAdminHandler 引き換えコード管理ハンドラー
type CodeAdminHandler struct {
	codeAdminService *codeadmin.CodeAdminApplicationService
}

// NewCodeAdminHandler 新しいCodeAdminHandlerを作成
func NewCodeAdminHandler(codeAdminService *codeadmin.CodeAdminApplicationService) *CodeAdminHandler {
	return &CodeAdminHandler{
		codeAdminService: codeAdminService,
	}
}

// CreateCode 引き換えコード作成ハンドラー
// @Summary 引き換えコードを作成
// @Description 新しい引き換えコードを作成します
// @Tags admin-codes
// @Accept json
// @Produce json
// @Param request body CreateCodeRequest true "引き換えコード作成リクエスト"
// @Success 201 {object} CodeResponse "作成成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 409 {object} ErrorResponse "コードが既に存在"
// @Security BearerAuth
// @Router /admin/codes [post]
func (h *CodeAdminHandler) CreateCode(c echo.Context) error {
	var reqBody CreateCodeRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	expiresAt, err := parseOptionalTime(reqBody.ExpiresAt)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid expires_at format")
	}

	adminID, _ := c.Get("admin_id").(string)

	req := &codeadmin.CreateCodeRequest{
		Code:            reqBody.Code,
		Kind:            reqBody.Kind,
		MasterCode:      reqBody.MasterCode,
		ProductID:       reqBody.ProductID,
		UsageLimit:      reqBody.UsageLimit,
		ExpiresAt:       expiresAt,
		CreatedBy:       adminID,
		DownloadURL:     reqBody.DownloadURL,
		FileName:        reqBody.FileName,
		PercentOff:      reqBody.PercentOff,
		UnlockProductID: reqBody.UnlockProductID,
	}

	resp, err := h.codeAdminService.CreateCode(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toCodeResponseModel(resp))
}

// GetCode 引き換えコード取得ハンドラー
// @Summary 引き換えコードを取得
// @Description IDで引き換えコードを取得します
// @Tags admin-codes
// @Produce json
// @Param id path string true "コードID"
// @Success 200 {object} CodeResponse "取得成功"
// @Failure 404 {object} ErrorResponse "コードが存在しない"
// @Security BearerAuth
// @Router /admin/codes/{id} [get]
func (h *CodeAdminHandler) GetCode(c echo.Context) error {
	resp, err := h.codeAdminService.GetCode(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCodeResponseModel(resp))
}

// ListCodes 引き換えコード一覧ハンドラー
// @Summary 引き換えコード一覧を取得
// @Description 引き換えコードの一覧をページネーション付きで取得します
// @Tags admin-codes
// @Produce json
// @Param limit query int false "取得件数（デフォルト50、最大100）"
// @Param offset query int false "オフセット"
// @Param kind query string false "種別フィルタ" Enums(download,discount,product_unlock)
// @Param active query bool false "有効フラグフィルタ"
// @Success 200 {object} ListCodesResponse "取得成功"
// @Security BearerAuth
// @Router /admin/codes [get]
func (h *CodeAdminHandler) ListCodes(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	req := &codeadmin.ListCodesRequest{
		Limit:  limit,
		Offset: offset,
		Kind:   c.QueryParam("kind"),
	}
	if activeParam := c.QueryParam("active"); activeParam != "" {
		active, err := strconv.ParseBool(activeParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid active parameter")
		}
		req.Active = &active
	}

	resp, err := h.codeAdminService.ListCodes(c.Request().Context(), req)
	if err != nil {
		return err
	}

	codes := make([]CodeResponse, 0, len(resp.Codes))
	for _, code := range resp.Codes {
		codes = append(codes, toCodeResponseModel(code))
	}

	return c.JSON(http.StatusOK, ListCodesResponse{
		Codes:  codes,
		Total:  resp.Total,
		Limit:  resp.Limit,
		Offset: resp.Offset,
	})
}

// UpdateCode 引き換えコード更新ハンドラー
// @Summary 引き換えコードを部分更新
// @Description 指定したフィールドのみを更新します。usage_countは更新できません
// @Tags admin-codes
// @Accept json
// @Produce json
// @Param id path string true "コードID"
// @Param request body UpdateCodeRequest true "引き換えコード更新リクエスト"
// @Success 200 {object} CodeResponse "更新成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 404 {object} ErrorResponse "コードが存在しない"
// @Security BearerAuth
// @Router /admin/codes/{id} [put]
func (h *CodeAdminHandler) UpdateCode(c echo.Context) error {
	var reqBody UpdateCodeRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	req := &codeadmin.UpdateCodeRequest{
		ID:              c.Param("id"),
		Code:            reqBody.Code,
		MasterCode:      reqBody.MasterCode,
		ProductID:       reqBody.ProductID,
		Active:          reqBody.Active,
		UsageLimit:      reqBody.UsageLimit,
		DownloadURL:     reqBody.DownloadURL,
		FileName:        reqBody.FileName,
		PercentOff:      reqBody.PercentOff,
		UnlockProductID: reqBody.UnlockProductID,
	}

	if reqBody.ExpiresAt != nil {
		// 空文字列は無期限へのクリアとして扱う
		expiresAt, err := parseOptionalTime(*reqBody.ExpiresAt)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid expires_at format")
		}
		req.ExpiresAt = &expiresAt
	}

	resp, err := h.codeAdminService.UpdateCode(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCodeResponseModel(resp))
}

// DeleteCode 引き換えコード削除ハンドラー
// @Summary 引き換えコードを削除
// @Description IDで引き換えコードを削除します
// @Tags admin-codes
// @Param id path string true "コードID"
// @Success 204 "削除成功"
// @Failure 404 {object} ErrorResponse "コードが存在しない"
// @Security BearerAuth
// @Router /admin/codes/{id} [delete]
func (h *CodeAdminHandler) DeleteCode(c echo.Context) error {
	if err := h.codeAdminService.DeleteCode(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMasterCodes マスターコード一覧ハンドラー
// @Summary マスターコード一覧を取得
// @Description 全商品で有効なマスターコードの一覧を取得します
// @Tags admin-codes
// @Produce json
// @Success 200 {array} CodeResponse "取得成功"
// @Security BearerAuth
// @Router /admin/codes/master [get]
func (h *CodeAdminHandler) ListMasterCodes(c echo.Context) error {
	resp, err := h.codeAdminService.ListMasterCodes(c.Request().Context())
	if err != nil {
		return err
	}

	codes := make([]CodeResponse, 0, len(resp))
	for _, code := range resp {
		codes = append(codes, toCodeResponseModel(code))
	}
	return c.JSON(http.StatusOK, codes)
}

// ListCodesByProduct 商品スコープコード一覧ハンドラー
// @Summary 商品に紐づく引き換えコード一覧を取得
// @Description 指定した商品スコープの引き換えコード一覧を取得します
// @Tags admin-codes
// @Produce json
// @Param product_id path string true "商品ID"
// @Success 200 {array} CodeResponse "取得成功"
// @Security BearerAuth
// @Router /admin/products/{product_id}/codes [get]
func (h *CodeAdminHandler) ListCodesByProduct(c echo.Context) error {
	resp, err := h.codeAdminService.ListByProduct(c.Request().Context(), c.Param("product_id"))
	if err != nil {
		return err
	}

	codes := make([]CodeResponse, 0, len(resp))
	for _, code := range resp {
		codes = append(codes, toCodeResponseModel(code))
	}
	return c.JSON(http.StatusOK, codes)
}

// ListRedemptions 引き換え履歴一覧ハンドラー
// @Summary コードの引き換え履歴を取得
// @Description 指定したコードの引き換え履歴をページネーション付きで取得します
// @Tags admin-codes
// @Produce json
// @Param id path string true "コードID"
// @Param limit query int false "取得件数（デフォルト50、最大100）"
// @Param offset query int false "オフセット"
// @Success 200 {object} ListRedemptionsResponse "取得成功"
// @Failure 404 {object} ErrorResponse "コードが存在しない"
// @Security BearerAuth
// @Router /admin/codes/{id}/redemptions [get]
func (h *CodeAdminHandler) ListRedemptions(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	resp, err := h.codeAdminService.ListRedemptions(c.Request().Context(), c.Param("id"), limit, offset)
	if err != nil {
		return err
	}

	redemptions := make([]RedemptionHistoryItem, 0, len(resp))
	for _, r := range resp {
		redemptions = append(redemptions, toRedemptionHistoryItem(r))
	}
	return c.JSON(http.StatusOK, ListRedemptionsResponse{Redemptions: redemptions})
}

// parseOptionalTime RFC3339形式の日時文字列をパース（空文字列はゼロ値）
func parseOptionalTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, value)
}

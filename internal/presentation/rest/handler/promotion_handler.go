package handler

import (
	"net/http"
	"strconv"
	"time"

	promotionapp "shop-server/internal/application/promotion"

	"github.com/labstack/echo/v4"
)

// PromotionHandler プロモーション関連ハンドラー
type PromotionHandler struct {
	promotionService *promotionapp.PromotionApplicationService
}

// NewPromotionHandler 新しいPromotionHandlerを作成
func NewPromotionHandler(promotionService *promotionapp.PromotionApplicationService) *PromotionHandler {
	return &PromotionHandler{
		promotionService: promotionService,
	}
}

// ListPromotions プロモーション一覧ハンドラー
// @Summary プロモーション一覧を取得
// @Description プロモーションの一覧をページネーション付きで取得します
// @Tags promotions
// @Produce json
// @Param limit query int false "取得件数（デフォルト50、最大100）"
// @Param offset query int false "オフセット"
// @Success 200 {object} ListPromotionsResponse "取得成功"
// @Router /promotions [get]
func (h *PromotionHandler) ListPromotions(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	resp, err := h.promotionService.ListPromotions(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}

	promotions := make([]PromotionResponse, 0, len(resp.Promotions))
	for _, p := range resp.Promotions {
		promotions = append(promotions, toPromotionResponseModel(p))
	}

	return c.JSON(http.StatusOK, ListPromotionsResponse{
		Promotions: promotions,
		Total:      resp.Total,
		Limit:      resp.Limit,
		Offset:     resp.Offset,
	})
}

// GetPromotion プロモーション取得ハンドラー
// @Summary プロモーションを取得
// @Description IDでプロモーションを取得します
// @Tags promotions
// @Produce json
// @Param id path string true "プロモーションID"
// @Success 200 {object} PromotionResponse "取得成功"
// @Failure 404 {object} ErrorResponse "プロモーションが存在しない"
// @Router /promotions/{id} [get]
func (h *PromotionHandler) GetPromotion(c echo.Context) error {
	resp, err := h.promotionService.GetPromotion(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPromotionResponseModel(resp))
}

// CreatePromotion プロモーション作成ハンドラー
// @Summary プロモーションを作成
// @Description 新しいプロモーションを作成します
// @Tags admin-promotions
// @Accept json
// @Produce json
// @Param request body CreatePromotionRequest true "プロモーション作成リクエスト"
// @Success 201 {object} PromotionResponse "作成成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Security BearerAuth
// @Router /admin/promotions [post]
func (h *PromotionHandler) CreatePromotion(c echo.Context) error {
	var reqBody CreatePromotionRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	startsAt, err := time.Parse(time.RFC3339, reqBody.StartsAt)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid starts_at format")
	}
	endsAt, err := time.Parse(time.RFC3339, reqBody.EndsAt)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid ends_at format")
	}

	resp, err := h.promotionService.CreatePromotion(c.Request().Context(), &promotionapp.CreatePromotionRequest{
		Title:       reqBody.Title,
		Description: reqBody.Description,
		PercentOff:  reqBody.PercentOff,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toPromotionResponseModel(resp))
}

// UpdatePromotion プロモーション更新ハンドラー
// @Summary プロモーションを部分更新
// @Description 指定したフィールドのみを更新します
// @Tags admin-promotions
// @Accept json
// @Produce json
// @Param id path string true "プロモーションID"
// @Param request body UpdatePromotionRequest true "プロモーション更新リクエスト"
// @Success 200 {object} PromotionResponse "更新成功"
// @Failure 404 {object} ErrorResponse "プロモーションが存在しない"
// @Security BearerAuth
// @Router /admin/promotions/{id} [put]
func (h *PromotionHandler) UpdatePromotion(c echo.Context) error {
	var reqBody UpdatePromotionRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	req := &promotionapp.UpdatePromotionRequest{
		ID:          c.Param("id"),
		Title:       reqBody.Title,
		Description: reqBody.Description,
		PercentOff:  reqBody.PercentOff,
		Active:      reqBody.Active,
	}

	if reqBody.StartsAt != nil {
		startsAt, err := time.Parse(time.RFC3339, *reqBody.StartsAt)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid starts_at format")
		}
		req.StartsAt = &startsAt
	}
	if reqBody.EndsAt != nil {
		endsAt, err := time.Parse(time.RFC3339, *reqBody.EndsAt)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid ends_at format")
		}
		req.EndsAt = &endsAt
	}

	resp, err := h.promotionService.UpdatePromotion(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toPromotionResponseModel(resp))
}

// DeletePromotion プロモーション削除ハンドラー
// @Summary プロモーションを削除
// @Description IDでプロモーションを削除します
// @Tags admin-promotions
// @Param id path string true "プロモーションID"
// @Success 204 "削除成功"
// @Failure 404 {object} ErrorResponse "プロモーションが存在しない"
// @Security BearerAuth
// @Router /admin/promotions/{id} [delete]
func (h *PromotionHandler) DeletePromotion(c echo.Context) error {
	if err := h.promotionService.DeletePromotion(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

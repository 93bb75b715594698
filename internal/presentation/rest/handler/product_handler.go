package handler

import (
	"net/http"
	"strconv"

	productapp "shop-server/internal/application/product"

	"github.com/labstack/echo/v4"
)

// ProductHandler 商品関連ハンドラー
type ProductHandler struct {
	productService *productapp.ProductApplicationService
}

// NewProductHandler 新しいProductHandlerを作成
func NewProductHandler(productService *productapp.ProductApplicationService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// ListProducts 商品一覧ハンドラー
// @Summary 商品一覧を取得
// @Description 商品の一覧をページネーション付きで取得します
// @Tags products
// @Produce json
// @Param limit query int false "取得件数（デフォルト50、最大100）"
// @Param offset query int false "オフセット"
// @Success 200 {object} ListProductsResponse "取得成功"
// @Router /products [get]
func (h *ProductHandler) ListProducts(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	resp, err := h.productService.ListProducts(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}

	products := make([]ProductResponse, 0, len(resp.Products))
	for _, p := range resp.Products {
		products = append(products, toProductResponseModel(p))
	}

	return c.JSON(http.StatusOK, ListProductsResponse{
		Products: products,
		Total:    resp.Total,
		Limit:    resp.Limit,
		Offset:   resp.Offset,
	})
}

// GetProduct 商品取得ハンドラー
// @Summary 商品を取得
// @Description IDで商品を取得します
// @Tags products
// @Produce json
// @Param id path string true "商品ID"
// @Success 200 {object} ProductResponse "取得成功"
// @Failure 404 {object} ErrorResponse "商品が存在しない"
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c echo.Context) error {
	resp, err := h.productService.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponseModel(resp))
}

// CreateProduct 商品作成ハンドラー
// @Summary 商品を作成
// @Description 新しい商品を作成します
// @Tags admin-products
// @Accept json
// @Produce json
// @Param request body CreateProductRequest true "商品作成リクエスト"
// @Success 201 {object} ProductResponse "作成成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Security BearerAuth
// @Router /admin/products [post]
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var reqBody CreateProductRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.productService.CreateProduct(c.Request().Context(), &productapp.CreateProductRequest{
		Name:        reqBody.Name,
		Description: reqBody.Description,
		PriceCents:  reqBody.PriceCents,
		ImageURL:    reqBody.ImageURL,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toProductResponseModel(resp))
}

// UpdateProduct 商品更新ハンドラー
// @Summary 商品を部分更新
// @Description 指定したフィールドのみを更新します
// @Tags admin-products
// @Accept json
// @Produce json
// @Param id path string true "商品ID"
// @Param request body UpdateProductRequest true "商品更新リクエスト"
// @Success 200 {object} ProductResponse "更新成功"
// @Failure 404 {object} ErrorResponse "商品が存在しない"
// @Security BearerAuth
// @Router /admin/products/{id} [put]
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	var reqBody UpdateProductRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.productService.UpdateProduct(c.Request().Context(), &productapp.UpdateProductRequest{
		ID:          c.Param("id"),
		Name:        reqBody.Name,
		Description: reqBody.Description,
		PriceCents:  reqBody.PriceCents,
		ImageURL:    reqBody.ImageURL,
		Active:      reqBody.Active,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toProductResponseModel(resp))
}

// DeleteProduct 商品削除ハンドラー
// @Summary 商品を削除
// @Description IDで商品を削除します
// @Tags admin-products
// @Param id path string true "商品ID"
// @Success 204 "削除成功"
// @Failure 404 {object} ErrorResponse "商品が存在しない"
// @Security BearerAuth
// @Router /admin/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	if err := h.productService.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

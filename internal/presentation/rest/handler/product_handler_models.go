package handler

import (
	"time"

	productapp "shop-server/internal/application/product"
)

// CreateProductRequest 商品作成リクエスト
// @Description 商品作成リクエスト
type CreateProductRequest struct {
	Name        string `json:"name" example:"1stアルバム"`
	Description string `json:"description,omitempty" example:"デジタル音源ダウンロード版"`
	PriceCents  int64  `json:"price_cents" example:"150000"`
	ImageURL    string `json:"image_url,omitempty" example:"https://cdn.example.com/images/album.jpg"`
}

// UpdateProductRequest 商品更新リクエスト（省略したフィールドは変更しない）
// @Description 商品更新リクエスト
type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty" example:"1stアルバム（改訂版）"`
	Description *string `json:"description,omitempty" example:"デジタル音源ダウンロード版"`
	PriceCents  *int64  `json:"price_cents,omitempty" example:"120000"`
	ImageURL    *string `json:"image_url,omitempty" example:"https://cdn.example.com/images/album-v2.jpg"`
	Active      *bool   `json:"active,omitempty" example:"true"`
}

// ProductResponse 商品レスポンス
// @Description 商品レスポンス
type ProductResponse struct {
	ID          string `json:"id" example:"prod_123"`
	Name        string `json:"name" example:"1stアルバム"`
	Description string `json:"description,omitempty" example:"デジタル音源ダウンロード版"`
	PriceCents  int64  `json:"price_cents" example:"150000"`
	ImageURL    string `json:"image_url,omitempty" example:"https://cdn.example.com/images/album.jpg"`
	Active      bool   `json:"active" example:"true"`
	CreatedAt   string `json:"created_at" example:"2025-06-01T10:00:00Z"`
	UpdatedAt   string `json:"updated_at" example:"2025-06-15T12:30:00Z"`
}

// ListProductsResponse 商品一覧レスポンス
// @Description 商品一覧レスポンス
type ListProductsResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total" example:"12"`
	Limit    int               `json:"limit" example:"50"`
	Offset   int               `json:"offset" example:"0"`
}

// toProductResponseModel アプリケーション層DTOをAPIモデルに変換
func toProductResponseModel(resp *productapp.ProductResponse) ProductResponse {
	return ProductResponse{
		ID:          resp.ID,
		Name:        resp.Name,
		Description: resp.Description,
		PriceCents:  resp.PriceCents,
		ImageURL:    resp.ImageURL,
		Active:      resp.Active,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}

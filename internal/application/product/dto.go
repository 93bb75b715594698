package product

import (
	"time"

	"shop-server/internal/domain/product"
)

// CreateProductRequest 商品作成リクエスト
type CreateProductRequest struct {
	Name        string
	Description string
	PriceCents  int64
	ImageURL    string
}

// UpdateProductRequest 商品更新リクエスト（nilのフィールドは変更しない）
type UpdateProductRequest struct {
	ID          string
	Name        *string
	Description *string
	PriceCents  *int64
	ImageURL    *string
	Active      *bool
}

// ProductResponse 商品レスポンス
type ProductResponse struct {
	ID          string
	Name        string
	Description string
	PriceCents  int64
	ImageURL    string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListProductsResponse 商品一覧レスポンス
type ListProductsResponse struct {
	Products []*ProductResponse
	Total    int
	Limit    int
	Offset   int
}

// toProductResponse エンティティをレスポンスDTOに変換
func toProductResponse(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		PriceCents:  p.PriceCents(),
		ImageURL:    p.ImageURL(),
		Active:      p.Active(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

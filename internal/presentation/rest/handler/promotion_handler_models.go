package handler

import (
	"time"

	promotionapp "shop-server/internal/application/promotion"
)

// CreatePromotionRequest プロモーション作成リクエスト
// @Description プロモーション作成リクエスト
type CreatePromotionRequest struct {
	Title       string `json:"title" example:"サマーセール"`
	Description string `json:"description,omitempty" example:"夏の大感謝セール"`
	PercentOff  int    `json:"percent_off" example:"20"`
	StartsAt    string `json:"starts_at" example:"2025-07-01T00:00:00Z"`
	EndsAt      string `json:"ends_at" example:"2025-07-31T23:59:59Z"`
}

// UpdatePromotionRequest プロモーション更新リクエスト（省略したフィールドは変更しない）
// @Description プロモーション更新リクエスト
type UpdatePromotionRequest struct {
	Title       *string `json:"title,omitempty" example:"サマーセール（延長）"`
	Description *string `json:"description,omitempty" example:"夏の大感謝セール"`
	PercentOff  *int    `json:"percent_off,omitempty" example:"30"`
	StartsAt    *string `json:"starts_at,omitempty" example:"2025-07-01T00:00:00Z"`
	EndsAt      *string `json:"ends_at,omitempty" example:"2025-08-15T23:59:59Z"`
	Active      *bool   `json:"active,omitempty" example:"true"`
}

// PromotionResponse プロモーションレスポンス
// @Description プロモーションレスポンス
type PromotionResponse struct {
	ID          string `json:"id" example:"promo_123"`
	Title       string `json:"title" example:"サマーセール"`
	Description string `json:"description,omitempty" example:"夏の大感謝セール"`
	PercentOff  int    `json:"percent_off" example:"20"`
	StartsAt    string `json:"starts_at" example:"2025-07-01T00:00:00Z"`
	EndsAt      string `json:"ends_at" example:"2025-07-31T23:59:59Z"`
	Active      bool   `json:"active" example:"true"`
	Running     bool   `json:"running" example:"true"`
	CreatedAt   string `json:"created_at" example:"2025-06-01T10:00:00Z"`
	UpdatedAt   string `json:"updated_at" example:"2025-06-15T12:30:00Z"`
}

// ListPromotionsResponse プロモーション一覧レスポンス
// @Description プロモーション一覧レスポンス
type ListPromotionsResponse struct {
	Promotions []PromotionResponse `json:"promotions"`
	Total      int                 `json:"total" example:"3"`
	Limit      int                 `json:"limit" example:"50"`
	Offset     int                 `json:"offset" example:"0"`
}

// toPromotionResponseModel アプリケーション層DTOをAPIモデルに変換
func toPromotionResponseModel(resp *promotionapp.PromotionResponse) PromotionResponse {
	return PromotionResponse{
		ID:          resp.ID,
		Title:       resp.Title,
		Description: resp.Description,
		PercentOff:  resp.PercentOff,
		StartsAt:    resp.StartsAt.Format(time.RFC3339),
		EndsAt:      resp.EndsAt.Format(time.RFC3339),
		Active:      resp.Active,
		Running:     resp.Running,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}

package promotion

import (
	"time"

	"shop-server/internal/domain/promotion"
)

// CreatePromotionRequest プロモーション作成リクエスト
type CreatePromotionRequest struct {
	Title       string
	Description string
	PercentOff  int
	StartsAt    time.Time
	EndsAt      time.Time
}

// UpdatePromotionRequest プロモーション更新リクエスト（nilのフィールドは変更しない）
type UpdatePromotionRequest struct {
	ID          string
	Title       *string
	Description *string
	PercentOff  *int
	StartsAt    *time.Time
	EndsAt      *time.Time
	Active      *bool
}

// PromotionResponse プロモーションレスポンス
type PromotionResponse struct {
	ID          string
	Title       string
	Description string
	PercentOff  int
	StartsAt    time.Time
	EndsAt      time.Time
	Active      bool
	Running     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListPromotionsResponse プロモーション一覧レスポンス
type ListPromotionsResponse struct {
	Promotions []*PromotionResponse
	Total      int
	Limit      int
	Offset     int
}

// toPromotionResponse エンティティをレスポンスDTOに変換
func toPromotionResponse(p *promotion.Promotion, now time.Time) *PromotionResponse {
	return &PromotionResponse{
		ID:          p.ID(),
		Title:       p.Title(),
		Description: p.Description(),
		PercentOff:  p.PercentOff(),
		StartsAt:    p.StartsAt(),
		EndsAt:      p.EndsAt(),
		Active:      p.Active(),
		Running:     p.IsRunning(now),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

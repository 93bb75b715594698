package promotion

import (
	"context"
)

// PromotionRepository プロモーションリポジトリインターフェース
type PromotionRepository interface {
	// FindByID IDでプロモーションを取得
	FindByID(ctx context.Context, id string) (*Promotion, error)

	// FindAll プロモーション一覧を取得
	FindAll(ctx context.Context, limit, offset int) ([]*Promotion, int, error)

	// Create プロモーションを作成
	Create(ctx context.Context, p *Promotion) error

	// Update プロモーションを更新
	Update(ctx context.Context, p *Promotion) error

	// Delete プロモーションを削除
	Delete(ctx context.Context, id string) error
}

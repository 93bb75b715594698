package product

import (
	"context"
)

// ProductRepository 商品リポジトリインターフェース
type ProductRepository interface {
	// FindByID IDで商品を取得
	FindByID(ctx context.Context, id string) (*Product, error)

	// FindAll 商品一覧を取得（総件数付き）
	FindAll(ctx context.Context, limit, offset int) ([]*Product, int, error)

	// Create 商品を作成
	Create(ctx context.Context, p *Product) error

	// Update 商品を更新
	Update(ctx context.Context, p *Product) error

	// Delete 商品を削除
	Delete(ctx context.Context, id string) error
}

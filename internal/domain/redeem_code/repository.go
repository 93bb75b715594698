package redeem_code

import (
	"context"
	"time"
)

// Redemption 引き換え履歴エンティティ
type Redemption struct {
	redemptionID string
	codeID       string
	code         string
	productID    string
	codeType     ScopeType
	redeemedAt   time.Time
}

// NewRedemption 新しいRedemptionエンティティを作成
func NewRedemption(redemptionID, codeID, code, productID string, codeType ScopeType) *Redemption {
	return &Redemption{
		redemptionID: redemptionID,
		codeID:       codeID,
		code:         code,
		productID:    productID,
		codeType:     codeType,
		redeemedAt:   time.Now(),
	}
}

// RedemptionID 引き換えIDを返す
func (r *Redemption) RedemptionID() string {
	return r.redemptionID
}

// CodeID コードIDを返す
func (r *Redemption) CodeID() string {
	return r.codeID
}

// Code コード文字列を返す
func (r *Redemption) Code() string {
	return r.code
}

// ProductID 対象商品IDを返す
func (r *Redemption) ProductID() string {
	return r.productID
}

// CodeType 引き換え時点のスコープ種別を返す
func (r *Redemption) CodeType() ScopeType {
	return r.codeType
}

// RedeemedAt 引き換え日時を返す
func (r *Redemption) RedeemedAt() time.Time {
	return r.redeemedAt
}

// SetRedeemedAt 引き換え日時を設定（リポジトリから読み込んだ際に使用）
func (r *Redemption) SetRedeemedAt(t time.Time) {
	r.redeemedAt = t
}

// CodeFilter 引き換えコード一覧の絞り込み条件
//
// ゼロ値は絞り込みなし。Activeはnilで未指定を表す。
type CodeFilter struct {
	Kind   string
	Active *bool
}

// RedeemCodeRepository 引き換えコードリポジトリインターフェース
type RedeemCodeRepository interface {
	// FindByCode 正規化済みコードで引き換えコードを取得
	FindByCode(ctx context.Context, code string) (*RedeemCode, error)

	// FindByID IDで引き換えコードを取得
	FindByID(ctx context.Context, id string) (*RedeemCode, error)

	// FindByProduct 商品スコープの引き換えコード一覧を取得
	FindByProduct(ctx context.Context, productID string) ([]*RedeemCode, error)

	// FindMasterCodes マスターコード一覧を取得
	FindMasterCodes(ctx context.Context) ([]*RedeemCode, error)

	// FindAll 引き換えコード一覧を取得（絞り込み後の総件数付き）
	FindAll(ctx context.Context, filter CodeFilter, limit, offset int) ([]*RedeemCode, int, error)

	// Create 引き換えコードを作成（コード重複時はErrCodeAlreadyExists）
	Create(ctx context.Context, code *RedeemCode) error

	// Update 引き換えコードの設定フィールドを更新（usage_countには触れない）
	Update(ctx context.Context, code *RedeemCode) error

	// Delete 引き換えコードを削除
	Delete(ctx context.Context, id string) error

	// IncrementUsage 使用回数をアトミックにインクリメントする
	// 使用上限チェックとインクリメントは他の呼び出しと不可分に行われ、
	// 上限到達により加算できなかった場合はfalseを返す
	IncrementUsage(ctx context.Context, id string) (bool, error)

	// SaveRedemption 引き換え履歴を保存
	SaveRedemption(ctx context.Context, redemption *Redemption) error

	// FindRedemptionsByCode コードIDで引き換え履歴一覧を取得
	FindRedemptionsByCode(ctx context.Context, codeID string, limit, offset int) ([]*Redemption, error)
}

package memory

import (
	"context"
	"sort"
	"sync"

	"shop-server/internal/domain/redeem_code"
)

// RedeemCodeRepository インメモリ実装のRedeemCodeRepository
//
// 全操作を単一ミューテックスで直列化することでIncrementUsageの
// アトミック性を保証する。開発・テスト用のバックエンドであり、
// MySQL実装と差し替え可能。
type RedeemCodeRepository struct {
	mu          sync.Mutex
	codes       map[string]*redeem_code.RedeemCode // id -> code
	redemptions map[string][]*redeem_code.Redemption
}

// NewRedeemCodeRepository 新しいインメモリリポジトリを作成
func NewRedeemCodeRepository() *RedeemCodeRepository {
	return &RedeemCodeRepository{
		codes:       make(map[string]*redeem_code.RedeemCode),
		redemptions: make(map[string][]*redeem_code.Redemption),
	}
}

// clone 保持中のエンティティの独立したコピーを作成（ロック保持中に呼ぶこと）
func clone(rc *redeem_code.RedeemCode) *redeem_code.RedeemCode {
	copied := redeem_code.MustNewRedeemCode(
		rc.ID(),
		rc.Code(),
		rc.Kind(),
		rc.Payload(),
		rc.Scope(),
		rc.UsageLimit(),
		rc.ExpiresAt(),
		rc.CreatedBy(),
	)
	if !rc.Active() {
		copied.SetActive(false)
	}
	copied.SetUsageCount(rc.UsageCount())
	copied.SetTimestamps(rc.CreatedAt(), rc.UpdatedAt())
	return copied
}

// FindByCode 正規化済みコードで引き換えコードを取得
func (r *RedeemCodeRepository) FindByCode(ctx context.Context, code string) (*redeem_code.RedeemCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	canonical := redeem_code.Canonicalize(code)
	for _, rc := range r.codes {
		if rc.Code() == canonical {
			return clone(rc), nil
		}
	}
	return nil, redeem_code.ErrCodeNotFound
}

// FindByID IDで引き換えコードを取得
func (r *RedeemCodeRepository) FindByID(ctx context.Context, id string) (*redeem_code.RedeemCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rc, ok := r.codes[id]
	if !ok {
		return nil, redeem_code.ErrCodeNotFound
	}
	return clone(rc), nil
}

// FindByProduct 商品スコープの引き換えコード一覧を取得
func (r *RedeemCodeRepository) FindByProduct(ctx context.Context, productID string) ([]*redeem_code.RedeemCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var codes []*redeem_code.RedeemCode
	for _, rc := range r.codes {
		if !rc.Scope().IsMaster() && rc.Scope().ProductID() == productID {
			codes = append(codes, clone(rc))
		}
	}
	sortByCreatedAtDesc(codes)
	return codes, nil
}

// FindMasterCodes マスターコード一覧を取得
func (r *RedeemCodeRepository) FindMasterCodes(ctx context.Context) ([]*redeem_code.RedeemCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var codes []*redeem_code.RedeemCode
	for _, rc := range r.codes {
		if rc.Scope().IsMaster() {
			codes = append(codes, clone(rc))
		}
	}
	sortByCreatedAtDesc(codes)
	return codes, nil
}

// FindAll 引き換えコード一覧を取得（絞り込み後の総件数付き）
//
// 絞り込みをページ切り出しより先に適用するので、totalは
// 条件に一致した件数を表す。
func (r *RedeemCodeRepository) FindAll(ctx context.Context, filter redeem_code.CodeFilter, limit, offset int) ([]*redeem_code.RedeemCode, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*redeem_code.RedeemCode, 0, len(r.codes))
	for _, rc := range r.codes {
		if filter.Kind != "" && rc.Kind().String() != filter.Kind {
			continue
		}
		if filter.Active != nil && rc.Active() != *filter.Active {
			continue
		}
		all = append(all, clone(rc))
	}
	sortByCreatedAtDesc(all)

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

// Create 引き換えコードを作成
func (r *RedeemCodeRepository) Create(ctx context.Context, code *redeem_code.RedeemCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rc := range r.codes {
		if rc.Code() == code.Code() {
			return redeem_code.ErrCodeAlreadyExists
		}
	}
	r.codes[code.ID()] = clone(code)
	return nil
}

// Update 引き換えコードの設定フィールドを更新
// usage_countは保持中の値を維持する（IncrementUsage専用）
func (r *RedeemCodeRepository) Update(ctx context.Context, code *redeem_code.RedeemCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.codes[code.ID()]
	if !ok {
		return redeem_code.ErrCodeNotFound
	}
	for id, rc := range r.codes {
		if id != code.ID() && rc.Code() == code.Code() {
			return redeem_code.ErrCodeAlreadyExists
		}
	}

	updated := clone(code)
	updated.SetUsageCount(current.UsageCount())
	r.codes[code.ID()] = updated
	return nil
}

// Delete 引き換えコードを削除
func (r *RedeemCodeRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.codes[id]; !ok {
		return redeem_code.ErrCodeNotFound
	}
	delete(r.codes, id)
	return nil
}

// IncrementUsage 使用回数をアトミックにインクリメント
// 上限チェックと加算をロック保持中に行うため、並行呼び出しでも
// usage_countがusage_limitを超えることはない
func (r *RedeemCodeRepository) IncrementUsage(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rc, ok := r.codes[id]
	if !ok {
		return false, nil
	}
	if rc.UsageExhausted() {
		return false, nil
	}
	rc.SetUsageCount(rc.UsageCount() + 1)
	return true, nil
}

// SaveRedemption 引き換え履歴を保存
func (r *RedeemCodeRepository) SaveRedemption(ctx context.Context, redemption *redeem_code.Redemption) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.redemptions[redemption.CodeID()] = append(r.redemptions[redemption.CodeID()], redemption)
	return nil
}

// FindRedemptionsByCode コードIDで引き換え履歴一覧を取得
func (r *RedeemCodeRepository) FindRedemptionsByCode(ctx context.Context, codeID string, limit, offset int) ([]*redeem_code.Redemption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.redemptions[codeID]
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	result := make([]*redeem_code.Redemption, end-offset)
	copy(result, all[offset:end])
	return result, nil
}

// sortByCreatedAtDesc 作成日時の降順でソート（同時刻はIDで安定化）
func sortByCreatedAtDesc(codes []*redeem_code.RedeemCode) {
	sort.Slice(codes, func(i, j int) bool {
		if codes[i].CreatedAt().Equal(codes[j].CreatedAt()) {
			return codes[i].ID() < codes[j].ID()
		}
		return codes[i].CreatedAt().After(codes[j].CreatedAt())
	})
}

package code_admin

import (
	"time"

	"shop-server/internal/domain/redeem_code"
)

// CreateCodeRequest 引き換えコード作成リクエスト
type CreateCodeRequest struct {
	Code       string
	Kind       string
	MasterCode bool
	ProductID  string
	UsageLimit int       // 0 = 無制限
	ExpiresAt  time.Time // ゼロ値 = 無期限
	CreatedBy  string

	// 種別ごとのペイロードフィールド
	DownloadURL     string
	FileName        string
	PercentOff      int
	UnlockProductID string
}

// UpdateCodeRequest 引き換えコード更新リクエスト（nilのフィールドは変更しない）
type UpdateCodeRequest struct {
	ID         string
	Code       *string
	MasterCode *bool
	ProductID  *string
	Active     *bool
	UsageLimit *int
	ExpiresAt  *time.Time // ゼロ値を渡すと無期限にクリア

	DownloadURL     *string
	FileName        *string
	PercentOff      *int
	UnlockProductID *string
}

// CodeResponse 引き換えコードレスポンス
type CodeResponse struct {
	ID         string
	Code       string
	Kind       string
	ScopeType  string
	ProductID  string
	Active     bool
	UsageLimit int
	UsageCount int
	ExpiresAt  time.Time
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	DownloadURL     string
	FileName        string
	PercentOff      int
	UnlockProductID string
}

// ListCodesRequest 引き換えコード一覧取得リクエスト
type ListCodesRequest struct {
	Limit  int
	Offset int
	Kind   string // optional: "download", "discount", "product_unlock"
	Active *bool  // optional
}

// ListCodesResponse 引き換えコード一覧取得レスポンス
type ListCodesResponse struct {
	Codes  []*CodeResponse
	Total  int
	Limit  int
	Offset int
}

// RedemptionResponse 引き換え履歴レスポンス
type RedemptionResponse struct {
	RedemptionID string
	CodeID       string
	Code         string
	ProductID    string
	CodeType     string
	RedeemedAt   time.Time
}

// toCodeResponse エンティティをレスポンスDTOに変換
func toCodeResponse(rc *redeem_code.RedeemCode) *CodeResponse {
	resp := &CodeResponse{
		ID:         rc.ID(),
		Code:       rc.Code(),
		Kind:       rc.Kind().String(),
		ScopeType:  string(rc.Scope().Type()),
		ProductID:  rc.Scope().ProductID(),
		Active:     rc.Active(),
		UsageLimit: rc.UsageLimit(),
		UsageCount: rc.UsageCount(),
		ExpiresAt:  rc.ExpiresAt(),
		CreatedBy:  rc.CreatedBy(),
		CreatedAt:  rc.CreatedAt(),
		UpdatedAt:  rc.UpdatedAt(),
	}

	switch p := rc.Payload().(type) {
	case redeem_code.DownloadPayload:
		resp.DownloadURL = p.DownloadURL()
		resp.FileName = p.FileName()
	case redeem_code.DiscountPayload:
		resp.PercentOff = p.PercentOff()
	case redeem_code.ProductUnlockPayload:
		resp.UnlockProductID = p.ProductID()
	}

	return resp
}

// toRedemptionResponse 引き換え履歴をレスポンスDTOに変換
func toRedemptionResponse(r *redeem_code.Redemption) *RedemptionResponse {
	return &RedemptionResponse{
		RedemptionID: r.RedemptionID(),
		CodeID:       r.CodeID(),
		Code:         r.Code(),
		ProductID:    r.ProductID(),
		CodeType:     string(r.CodeType()),
		RedeemedAt:   r.RedeemedAt(),
	}
}

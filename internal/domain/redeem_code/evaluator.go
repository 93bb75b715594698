package redeem_code

import (
	"time"
)

// RejectReason 引き換え拒否理由
type RejectReason string

const (
	ReasonNotFound          RejectReason = "not_found"           // コードが存在しない
	ReasonInactive          RejectReason = "inactive"            // 無効化されている
	ReasonExpired           RejectReason = "expired"             // 期限切れ
	ReasonUsageLimitReached RejectReason = "usage_limit_reached" // 使用上限に到達
	ReasonScopeMismatch     RejectReason = "scope_mismatch"      // 対象商品に対して無効
)

// String 文字列表現を返す
func (r RejectReason) String() string {
	return string(r)
}

// Err 拒否理由に対応するドメインエラーを返す
func (r RejectReason) Err() error {
	switch r {
	case ReasonNotFound:
		return ErrCodeNotFound
	case ReasonInactive:
		return ErrCodeInactive
	case ReasonExpired:
		return ErrCodeExpired
	case ReasonUsageLimitReached:
		return ErrUsageLimitReached
	case ReasonScopeMismatch:
		return ErrScopeMismatch
	default:
		return nil
	}
}

// Decision 引き換え可否の判定結果
type Decision struct {
	accepted bool
	reason   RejectReason
}

// Accept 受理の判定結果を作成
func Accept() Decision {
	return Decision{accepted: true}
}

// Reject 拒否の判定結果を作成
func Reject(reason RejectReason) Decision {
	return Decision{reason: reason}
}

// Accepted 受理されたかどうかを返す
func (d Decision) Accepted() bool {
	return d.accepted
}

// Reason 拒否理由を返す（受理の場合は空）
func (d Decision) Reason() RejectReason {
	return d.reason
}

// Err 判定結果に対応するドメインエラーを返す（受理の場合はnil）
func (d Decision) Err() error {
	if d.accepted {
		return nil
	}
	return d.reason.Err()
}

// Evaluate コードの引き換え可否を判定する純粋関数
//
// チェックは以下の順序で行い、最初に失敗した理由を返す。
// 期限・使用上限はコード自体の恒久的な事実であるため、
// 文脈依存のスコープチェックより先に判定する。
//
//  1. コードが存在しない → not_found
//  2. 無効化されている → inactive
//  3. 期限切れ（expiresAtちょうどは有効） → expired
//  4. 使用上限到達 → usage_limit_reached
//  5. スコープ不一致 → scope_mismatch / それ以外は受理
//
// ここでの使用回数チェックは楽観的な事前判定であり、
// 確定判定はリポジトリのIncrementUsage内で行われる。
func Evaluate(code *RedeemCode, productID string, now time.Time) Decision {
	if code == nil {
		return Reject(ReasonNotFound)
	}
	if !code.Active() {
		return Reject(ReasonInactive)
	}
	if code.HasExpiry() && now.After(code.ExpiresAt()) {
		return Reject(ReasonExpired)
	}
	if code.UsageExhausted() {
		return Reject(ReasonUsageLimitReached)
	}
	if !code.Scope().Matches(productID) {
		return Reject(ReasonScopeMismatch)
	}
	return Accept()
}

package redeem_code

import (
	"fmt"
)

// CodeKind コード種別を表す値オブジェクト
type CodeKind string

const (
	CodeKindDownload      CodeKind = "download"       // ダウンロード解放コード
	CodeKindDiscount      CodeKind = "discount"       // 割引コード（予約済み・引き換え経路では未使用）
	CodeKindProductUnlock CodeKind = "product_unlock" // 商品解放コード（予約済み・引き換え経路では未使用）
)

// NewCodeKind 新しいCodeKindを作成
func NewCodeKind(s string) (CodeKind, error) {
	switch s {
	case "download", "discount", "product_unlock":
		return CodeKind(s), nil
	default:
		return "", fmt.Errorf("invalid code kind: %s", s)
	}
}

// String 文字列表現を返す
func (ck CodeKind) String() string {
	return string(ck)
}

// Valid 有効なコード種別かどうかを返す
func (ck CodeKind) Valid() bool {
	switch ck {
	case CodeKindDownload, CodeKindDiscount, CodeKindProductUnlock:
		return true
	default:
		return false
	}
}

// Redeemable 引き換えエンドポイントで消費可能な種別かどうかを返す
func (ck CodeKind) Redeemable() bool {
	return ck == CodeKindDownload
}

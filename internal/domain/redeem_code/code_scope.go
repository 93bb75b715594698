package redeem_code

import (
	"errors"
)

// ScopeType スコープ種別
type ScopeType string

const (
	ScopeTypeMaster  ScopeType = "master"  // 全商品に対して有効
	ScopeTypeProduct ScopeType = "product" // 特定商品に対してのみ有効
)

// Scope コードの適用範囲を表す値オブジェクト
// マスターコードか商品スコープのいずれか一方のみが成立する
type Scope struct {
	master    bool
	productID string
}

// NewMasterScope マスタースコープを作成
func NewMasterScope() Scope {
	return Scope{master: true}
}

// NewProductScope 商品スコープを作成
func NewProductScope(productID string) (Scope, error) {
	if productID == "" {
		return Scope{}, errors.New("product id is required")
	}
	return Scope{productID: productID}, nil
}

// IsMaster マスタースコープかどうかを返す
func (s Scope) IsMaster() bool {
	return s.master
}

// ProductID 対象商品IDを返す（マスタースコープの場合は空文字）
func (s Scope) ProductID() string {
	return s.productID
}

// Type スコープ種別を返す
func (s Scope) Type() ScopeType {
	if s.master {
		return ScopeTypeMaster
	}
	return ScopeTypeProduct
}

// Matches 対象商品IDに対して有効かどうかを返す
func (s Scope) Matches(productID string) bool {
	if s.master {
		return true
	}
	return s.productID == productID
}

// Validate スコープの整合性を検証
func (s Scope) Validate() error {
	if s.master && s.productID != "" {
		return errors.New("scope cannot be both master and product")
	}
	if !s.master && s.productID == "" {
		return errors.New("scope requires master flag or product id")
	}
	return nil
}

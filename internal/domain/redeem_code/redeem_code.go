package redeem_code

import (
	"errors"
	"strings"
	"time"
)

// RedeemCode 引き換えコードエンティティ
type RedeemCode struct {
	id         string
	code       string
	kind       CodeKind
	payload    Payload
	scope      Scope
	active     bool
	usageLimit int // 0 = 無制限
	usageCount int
	expiresAt  time.Time // ゼロ値 = 無期限
	createdBy  string
	createdAt  time.Time
	updatedAt  time.Time
}

// Canonicalize コード文字列を正規化（トリム + 大文字化）
func Canonicalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewRedeemCode 新しいRedeemCodeエンティティを作成
func NewRedeemCode(
	id string,
	code string,
	kind CodeKind,
	payload Payload,
	scope Scope,
	usageLimit int,
	expiresAt time.Time,
	createdBy string,
) (*RedeemCode, error) {
	canonical := Canonicalize(code)
	if canonical == "" {
		return nil, errors.New("invalid code")
	}
	if id == "" {
		return nil, errors.New("invalid id")
	}
	if !kind.Valid() {
		return nil, errors.New("invalid code kind")
	}
	if usageLimit < 0 {
		return nil, errors.New("invalid usage limit")
	}
	if payload == nil {
		return nil, errors.New("payload is required")
	}
	if payload.Kind() != kind {
		return nil, errors.New("payload does not match code kind")
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	return &RedeemCode{
		id:         id,
		code:       canonical,
		kind:       kind,
		payload:    payload,
		scope:      scope,
		active:     true,
		usageLimit: usageLimit,
		usageCount: 0,
		expiresAt:  expiresAt,
		createdBy:  createdBy,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ID IDを返す
func (rc *RedeemCode) ID() string {
	return rc.id
}

// Code 正規化済みコードを返す
func (rc *RedeemCode) Code() string {
	return rc.code
}

// Kind コード種別を返す
func (rc *RedeemCode) Kind() CodeKind {
	return rc.kind
}

// Payload ペイロードを返す
func (rc *RedeemCode) Payload() Payload {
	return rc.payload
}

// Scope スコープを返す
func (rc *RedeemCode) Scope() Scope {
	return rc.scope
}

// Active 有効フラグを返す
func (rc *RedeemCode) Active() bool {
	return rc.active
}

// UsageLimit 使用上限を返す（0 = 無制限）
func (rc *RedeemCode) UsageLimit() int {
	return rc.usageLimit
}

// UsageCount 現在の使用回数を返す
func (rc *RedeemCode) UsageCount() int {
	return rc.usageCount
}

// ExpiresAt 有効期限を返す（ゼロ値 = 無期限）
func (rc *RedeemCode) ExpiresAt() time.Time {
	return rc.expiresAt
}

// CreatedBy 作成者の管理者IDを返す
func (rc *RedeemCode) CreatedBy() string {
	return rc.createdBy
}

// CreatedAt 作成日時を返す
func (rc *RedeemCode) CreatedAt() time.Time {
	return rc.createdAt
}

// UpdatedAt 更新日時を返す
func (rc *RedeemCode) UpdatedAt() time.Time {
	return rc.updatedAt
}

// HasExpiry 有効期限が設定されているかどうかを返す
func (rc *RedeemCode) HasExpiry() bool {
	return !rc.expiresAt.IsZero()
}

// UsageExhausted 使用上限に達しているかどうかを返す
func (rc *RedeemCode) UsageExhausted() bool {
	return rc.usageLimit > 0 && rc.usageCount >= rc.usageLimit
}

// Rename コード文字列を変更（正規化して設定）
func (rc *RedeemCode) Rename(code string) error {
	canonical := Canonicalize(code)
	if canonical == "" {
		return errors.New("invalid code")
	}
	rc.code = canonical
	rc.updatedAt = time.Now()
	return nil
}

// SetActive 有効フラグを設定
func (rc *RedeemCode) SetActive(active bool) {
	rc.active = active
	rc.updatedAt = time.Now()
}

// SetUsageLimit 使用上限を設定（0 = 無制限）
func (rc *RedeemCode) SetUsageLimit(limit int) error {
	if limit < 0 {
		return errors.New("invalid usage limit")
	}
	rc.usageLimit = limit
	rc.updatedAt = time.Now()
	return nil
}

// SetExpiresAt 有効期限を設定（ゼロ値 = 無期限）
func (rc *RedeemCode) SetExpiresAt(expiresAt time.Time) {
	rc.expiresAt = expiresAt
	rc.updatedAt = time.Now()
}

// SetScope スコープを設定
func (rc *RedeemCode) SetScope(scope Scope) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	rc.scope = scope
	rc.updatedAt = time.Now()
	return nil
}

// SetPayload ペイロードを設定（種別と一致している必要がある）
func (rc *RedeemCode) SetPayload(payload Payload) error {
	if payload == nil {
		return errors.New("payload is required")
	}
	if payload.Kind() != rc.kind {
		return errors.New("payload does not match code kind")
	}
	if err := payload.Validate(); err != nil {
		return err
	}
	rc.payload = payload
	rc.updatedAt = time.Now()
	return nil
}

// SetUsageCount 使用回数を設定（リポジトリから読み込んだ際に使用）
func (rc *RedeemCode) SetUsageCount(count int) {
	rc.usageCount = count
}

// SetTimestamps 作成・更新日時を設定（リポジトリから読み込んだ際に使用）
func (rc *RedeemCode) SetTimestamps(createdAt, updatedAt time.Time) {
	rc.createdAt = createdAt
	rc.updatedAt = updatedAt
}

// MustNewRedeemCode テスト用ヘルパー: NewRedeemCodeを呼び出し、エラーが発生した場合はpanicする
func MustNewRedeemCode(
	id string,
	code string,
	kind CodeKind,
	payload Payload,
	scope Scope,
	usageLimit int,
	expiresAt time.Time,
	createdBy string,
) *RedeemCode {
	rc, err := NewRedeemCode(id, code, kind, payload, scope, usageLimit, expiresAt, createdBy)
	if err != nil {
		panic(err)
	}
	return rc
}

package redeem_code

import "errors"

var (
	// ErrCodeNotFound 引き換えコードが見つからないエラー
	ErrCodeNotFound = errors.New("code not found")
	// ErrCodeInactive 引き換えコードが無効化されているエラー
	ErrCodeInactive = errors.New("code inactive")
	// ErrCodeExpired 引き換えコードが期限切れエラー
	ErrCodeExpired = errors.New("code expired")
	// ErrUsageLimitReached 引き換えコードの使用上限に達しているエラー
	ErrUsageLimitReached = errors.New("code usage limit reached")
	// ErrScopeMismatch 引き換えコードが対象商品に対して無効エラー
	ErrScopeMismatch = errors.New("code not valid for this product")
	// ErrCodeAlreadyExists 同一コードが既に存在するエラー
	ErrCodeAlreadyExists = errors.New("code already exists")
	// ErrKindNotRedeemable 引き換え経路で消費できない種別のコードエラー
	ErrKindNotRedeemable = errors.New("code kind not redeemable")
)

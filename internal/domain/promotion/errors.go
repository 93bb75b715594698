package promotion

import "errors"

var (
	// ErrPromotionNotFound プロモーションが見つからないエラー
	ErrPromotionNotFound = errors.New("promotion not found")
)

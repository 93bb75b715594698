package product

import "errors"

var (
	// ErrProductNotFound 商品が見つからないエラー
	ErrProductNotFound = errors.New("product not found")
)

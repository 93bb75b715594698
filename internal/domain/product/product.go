package product

import (
	"errors"
	"time"
)

// Product 商品エンティティ
type Product struct {
	id          string
	name        string
	description string
	priceCents  int64
	imageURL    string
	active      bool
	createdAt   time.Time
	updatedAt   time.Time
}

// NewProduct 新しいProductエンティティを作成
func NewProduct(id, name, description string, priceCents int64, imageURL string) (*Product, error) {
	if id == "" {
		return nil, errors.New("invalid id")
	}
	if name == "" {
		return nil, errors.New("name is required")
	}
	if priceCents < 0 {
		return nil, errors.New("invalid price")
	}

	now := time.Now()
	return &Product{
		id:          id,
		name:        name,
		description: description,
		priceCents:  priceCents,
		imageURL:    imageURL,
		active:      true,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ID IDを返す
func (p *Product) ID() string {
	return p.id
}

// Name 商品名を返す
func (p *Product) Name() string {
	return p.name
}

// Description 商品説明を返す
func (p *Product) Description() string {
	return p.description
}

// PriceCents 価格（セント単位）を返す
func (p *Product) PriceCents() int64 {
	return p.priceCents
}

// ImageURL 商品画像URLを返す
func (p *Product) ImageURL() string {
	return p.imageURL
}

// Active 公開フラグを返す
func (p *Product) Active() bool {
	return p.active
}

// CreatedAt 作成日時を返す
func (p *Product) CreatedAt() time.Time {
	return p.createdAt
}

// UpdatedAt 更新日時を返す
func (p *Product) UpdatedAt() time.Time {
	return p.updatedAt
}

// Rename 商品名を変更
func (p *Product) Rename(name string) error {
	if name == "" {
		return errors.New("name is required")
	}
	p.name = name
	p.updatedAt = time.Now()
	return nil
}

// SetDescription 商品説明を設定
func (p *Product) SetDescription(description string) {
	p.description = description
	p.updatedAt = time.Now()
}

// SetPriceCents 価格を設定
func (p *Product) SetPriceCents(priceCents int64) error {
	if priceCents < 0 {
		return errors.New("invalid price")
	}
	p.priceCents = priceCents
	p.updatedAt = time.Now()
	return nil
}

// SetImageURL 商品画像URLを設定
func (p *Product) SetImageURL(imageURL string) {
	p.imageURL = imageURL
	p.updatedAt = time.Now()
}

// SetActive 公開フラグを設定
func (p *Product) SetActive(active bool) {
	p.active = active
	p.updatedAt = time.Now()
}

// SetTimestamps 作成・更新日時を設定（リポジトリから読み込んだ際に使用）
func (p *Product) SetTimestamps(createdAt, updatedAt time.Time) {
	p.createdAt = createdAt
	p.updatedAt = updatedAt
}

package promotion

import (
	"errors"
	"time"
)

// Promotion プロモーションエンティティ
type Promotion struct {
	id          string
	title       string
	description string
	percentOff  int
	startsAt    time.Time
	endsAt      time.Time
	active      bool
	createdAt   time.Time
	updatedAt   time.Time
}

// NewPromotion 新しいPromotionエンティティを作成
func NewPromotion(id, title, description string, percentOff int, startsAt, endsAt time.Time) (*Promotion, error) {
	if id == "" {
		return nil, errors.New("invalid id")
	}
	if title == "" {
		return nil, errors.New("title is required")
	}
	if percentOff < 1 || percentOff > 100 {
		return nil, errors.New("percent off must be between 1 and 100")
	}
	if endsAt.Before(startsAt) {
		return nil, errors.New("ends_at must be after starts_at")
	}

	now := time.Now()
	return &Promotion{
		id:          id,
		title:       title,
		description: description,
		percentOff:  percentOff,
		startsAt:    startsAt,
		endsAt:      endsAt,
		active:      true,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ID IDを返す
func (p *Promotion) ID() string {
	return p.id
}

// Title タイトルを返す
func (p *Promotion) Title() string {
	return p.title
}

// Description 説明を返す
func (p *Promotion) Description() string {
	return p.description
}

// PercentOff 割引率を返す
func (p *Promotion) PercentOff() int {
	return p.percentOff
}

// StartsAt 開始日時を返す
func (p *Promotion) StartsAt() time.Time {
	return p.startsAt
}

// EndsAt 終了日時を返す
func (p *Promotion) EndsAt() time.Time {
	return p.endsAt
}

// Active 有効フラグを返す
func (p *Promotion) Active() bool {
	return p.active
}

// CreatedAt 作成日時を返す
func (p *Promotion) CreatedAt() time.Time {
	return p.createdAt
}

// UpdatedAt 更新日時を返す
func (p *Promotion) UpdatedAt() time.Time {
	return p.updatedAt
}

// IsRunning 指定時点で実施中かどうかを返す
func (p *Promotion) IsRunning(now time.Time) bool {
	if !p.active {
		return false
	}
	return !now.Before(p.startsAt) && !now.After(p.endsAt)
}

// SetActive 有効フラグを設定
func (p *Promotion) SetActive(active bool) {
	p.active = active
	p.updatedAt = time.Now()
}

// Retitle タイトルを変更
func (p *Promotion) Retitle(title string) error {
	if title == "" {
		return errors.New("title is required")
	}
	p.title = title
	p.updatedAt = time.Now()
	return nil
}

// SetDescription 説明を設定
func (p *Promotion) SetDescription(description string) {
	p.description = description
	p.updatedAt = time.Now()
}

// SetPercentOff 割引率を設定
func (p *Promotion) SetPercentOff(percentOff int) error {
	if percentOff < 1 || percentOff > 100 {
		return errors.New("percent off must be between 1 and 100")
	}
	p.percentOff = percentOff
	p.updatedAt = time.Now()
	return nil
}

// SetWindow 実施期間を設定
func (p *Promotion) SetWindow(startsAt, endsAt time.Time) error {
	if endsAt.Before(startsAt) {
		return errors.New("ends_at must be after starts_at")
	}
	p.startsAt = startsAt
	p.endsAt = endsAt
	p.updatedAt = time.Now()
	return nil
}

// SetTimestamps 作成・更新日時を設定（リポジトリから読み込んだ際に使用）
func (p *Promotion) SetTimestamps(createdAt, updatedAt time.Time) {
	p.createdAt = createdAt
	p.updatedAt = updatedAt
}

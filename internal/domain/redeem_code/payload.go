package redeem_code

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Payload コード種別ごとのペイロードを表すタグ付きバリアント
type Payload interface {
	// Kind 対応するコード種別を返す
	Kind() CodeKind
	// Validate ペイロードの必須フィールドを検証
	Validate() error
}

// DownloadPayload ダウンロードコードのペイロード
type DownloadPayload struct {
	downloadURL string
	fileName    string
}

// NewDownloadPayload 新しいDownloadPayloadを作成
func NewDownloadPayload(downloadURL, fileName string) DownloadPayload {
	return DownloadPayload{downloadURL: downloadURL, fileName: fileName}
}

// Kind 対応するコード種別を返す
func (p DownloadPayload) Kind() CodeKind {
	return CodeKindDownload
}

// DownloadURL ダウンロードURLを返す
func (p DownloadPayload) DownloadURL() string {
	return p.downloadURL
}

// FileName ファイル名を返す
func (p DownloadPayload) FileName() string {
	return p.fileName
}

// Validate ペイロードを検証
func (p DownloadPayload) Validate() error {
	if p.downloadURL == "" {
		return errors.New("download url is required")
	}
	if p.fileName == "" {
		return errors.New("file name is required")
	}
	return nil
}

// DiscountPayload 割引コードのペイロード（予約済み種別）
type DiscountPayload struct {
	percentOff int
}

// NewDiscountPayload 新しいDiscountPayloadを作成
func NewDiscountPayload(percentOff int) DiscountPayload {
	return DiscountPayload{percentOff: percentOff}
}

// Kind 対応するコード種別を返す
func (p DiscountPayload) Kind() CodeKind {
	return CodeKindDiscount
}

// PercentOff 割引率を返す
func (p DiscountPayload) PercentOff() int {
	return p.percentOff
}

// Validate ペイロードを検証
func (p DiscountPayload) Validate() error {
	if p.percentOff < 1 || p.percentOff > 100 {
		return errors.New("percent off must be between 1 and 100")
	}
	return nil
}

// ProductUnlockPayload 商品解放コードのペイロード（予約済み種別）
type ProductUnlockPayload struct {
	productID string
}

// NewProductUnlockPayload 新しいProductUnlockPayloadを作成
func NewProductUnlockPayload(productID string) ProductUnlockPayload {
	return ProductUnlockPayload{productID: productID}
}

// Kind 対応するコード種別を返す
func (p ProductUnlockPayload) Kind() CodeKind {
	return CodeKindProductUnlock
}

// ProductID 解放対象の商品IDを返す
func (p ProductUnlockPayload) ProductID() string {
	return p.productID
}

// Validate ペイロードを検証
func (p ProductUnlockPayload) Validate() error {
	if p.productID == "" {
		return errors.New("product id is required")
	}
	return nil
}

// payloadJSON ペイロードの永続化表現
type payloadJSON struct {
	DownloadURL string `json:"download_url,omitempty"`
	FileName    string `json:"file_name,omitempty"`
	PercentOff  int    `json:"percent_off,omitempty"`
	ProductID   string `json:"product_id,omitempty"`
}

// MarshalPayload ペイロードをJSONにシリアライズ
func MarshalPayload(p Payload) ([]byte, error) {
	if p == nil {
		return nil, errors.New("payload is required")
	}
	var pj payloadJSON
	switch v := p.(type) {
	case DownloadPayload:
		pj.DownloadURL = v.DownloadURL()
		pj.FileName = v.FileName()
	case DiscountPayload:
		pj.PercentOff = v.PercentOff()
	case ProductUnlockPayload:
		pj.ProductID = v.ProductID()
	default:
		return nil, fmt.Errorf("unsupported payload type: %T", p)
	}
	return json.Marshal(pj)
}

// UnmarshalPayload JSONからコード種別に応じたペイロードを復元
func UnmarshalPayload(kind CodeKind, data []byte) (Payload, error) {
	var pj payloadJSON
	if len(data) > 0 {
		if err := json.Unmarshal(data, &pj); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}
	switch kind {
	case CodeKindDownload:
		return NewDownloadPayload(pj.DownloadURL, pj.FileName), nil
	case CodeKindDiscount:
		return NewDiscountPayload(pj.PercentOff), nil
	case CodeKindProductUnlock:
		return NewProductUnlockPayload(pj.ProductID), nil
	default:
		return nil, fmt.Errorf("invalid code kind: %s", kind)
	}
}

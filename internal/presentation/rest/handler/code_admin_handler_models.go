package handler

import (
	"time"

	codeadmin "shop-server/internal/application/code_admin"
)

// CreateCodeRequest 引き換えコード作成リクエスト
// @Description 引き換えコード作成リクエスト
type CreateCodeRequest struct {
	Code            string `json:"code" example:"SUMMER-2025"`
	Kind            string `json:"kind" example:"download" enums:"download,discount,product_unlock"`
	MasterCode      bool   `json:"master_code" example:"false"`
	ProductID       string `json:"product_id,omitempty" example:"prod_123"`
	UsageLimit      int    `json:"usage_limit" example:"100"`
	ExpiresAt       string `json:"expires_at,omitempty" example:"2025-12-31T23:59:59Z"`
	DownloadURL     string `json:"download_url,omitempty" example:"https://cdn.example.com/files/album.zip"`
	FileName        string `json:"file_name,omitempty" example:"album.zip"`
	PercentOff      int    `json:"percent_off,omitempty" example:"20"`
	UnlockProductID string `json:"unlock_product_id,omitempty" example:"prod_456"`
}

// UpdateCodeRequest 引き換えコード更新リクエスト（省略したフィールドは変更しない）
// @Description 引き換えコード更新リクエスト
type UpdateCodeRequest struct {
	Code            *string `json:"code,omitempty" example:"WINTER-2025"`
	MasterCode      *bool   `json:"master_code,omitempty" example:"false"`
	ProductID       *string `json:"product_id,omitempty" example:"prod_123"`
	Active          *bool   `json:"active,omitempty" example:"true"`
	UsageLimit      *int    `json:"usage_limit,omitempty" example:"200"`
	ExpiresAt       *string `json:"expires_at,omitempty" example:"2026-01-31T23:59:59Z"`
	DownloadURL     *string `json:"download_url,omitempty" example:"https://cdn.example.com/files/album-v2.zip"`
	FileName        *string `json:"file_name,omitempty" example:"album-v2.zip"`
	PercentOff      *int    `json:"percent_off,omitempty" example:"30"`
	UnlockProductID *string `json:"unlock_product_id,omitempty" example:"prod_456"`
}

// CodeResponse 引き換えコードレスポンス
// @Description 引き換えコードレスポンス
type CodeResponse struct {
	ID              string `json:"id" example:"7f9c0a12-3b45-4c67-89de-0123456789ab"`
	Code            string `json:"code" example:"SUMMER-2025"`
	Kind            string `json:"kind" example:"download"`
	ScopeType       string `json:"scope_type" example:"product" enums:"master,product"`
	ProductID       string `json:"product_id,omitempty" example:"prod_123"`
	Active          bool   `json:"active" example:"true"`
	UsageLimit      int    `json:"usage_limit" example:"100"`
	UsageCount      int    `json:"usage_count" example:"42"`
	ExpiresAt       string `json:"expires_at,omitempty" example:"2025-12-31T23:59:59Z"`
	CreatedBy       string `json:"created_by,omitempty" example:"admin001"`
	CreatedAt       string `json:"created_at" example:"2025-06-01T10:00:00Z"`
	UpdatedAt       string `json:"updated_at" example:"2025-06-15T12:30:00Z"`
	DownloadURL     string `json:"download_url,omitempty" example:"https://cdn.example.com/files/album.zip"`
	FileName        string `json:"file_name,omitempty" example:"album.zip"`
	PercentOff      int    `json:"percent_off,omitempty" example:"20"`
	UnlockProductID string `json:"unlock_product_id,omitempty" example:"prod_456"`
}

// ListCodesResponse 引き換えコード一覧レスポンス
// @Description 引き換えコード一覧レスポンス
type ListCodesResponse struct {
	Codes  []CodeResponse `json:"codes"`
	Total  int            `json:"total" example:"123"`
	Limit  int            `json:"limit" example:"50"`
	Offset int            `json:"offset" example:"0"`
}

// RedemptionHistoryItem 引き換え履歴アイテム
// @Description 引き換え履歴アイテム
type RedemptionHistoryItem struct {
	RedemptionID string `json:"redemption_id" example:"b1a2c3d4-5e6f-7a8b-9c0d-e1f2a3b4c5d6"`
	CodeID       string `json:"code_id" example:"7f9c0a12-3b45-4c67-89de-0123456789ab"`
	Code         string `json:"code" example:"SUMMER-2025"`
	ProductID    string `json:"product_id,omitempty" example:"prod_123"`
	CodeType     string `json:"code_type" example:"product"`
	RedeemedAt   string `json:"redeemed_at" example:"2025-07-01T09:00:00Z"`
}

// ListRedemptionsResponse 引き換え履歴一覧レスポンス
// @Description 引き換え履歴一覧レスポンス
type ListRedemptionsResponse struct {
	Redemptions []RedemptionHistoryItem `json:"redemptions"`
}

// toCodeResponseModel アプリケーション層DTOをAPIモデルに変換
func toCodeResponseModel(resp *codeadmin.CodeResponse) CodeResponse {
	model := CodeResponse{
		ID:              resp.ID,
		Code:            resp.Code,
		Kind:            resp.Kind,
		ScopeType:       resp.ScopeType,
		ProductID:       resp.ProductID,
		Active:          resp.Active,
		UsageLimit:      resp.UsageLimit,
		UsageCount:      resp.UsageCount,
		CreatedBy:       resp.CreatedBy,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
		DownloadURL:     resp.DownloadURL,
		FileName:        resp.FileName,
		PercentOff:      resp.PercentOff,
		UnlockProductID: resp.UnlockProductID,
	}
	if !resp.ExpiresAt.IsZero() {
		model.ExpiresAt = resp.ExpiresAt.Format(time.RFC3339)
	}
	return model
}

// toRedemptionHistoryItem アプリケーション層DTOをAPIモデルに変換
func toRedemptionHistoryItem(resp *codeadmin.RedemptionResponse) RedemptionHistoryItem {
	return RedemptionHistoryItem{
		RedemptionID: resp.RedemptionID,
		CodeID:       resp.CodeID,
		Code:         resp.Code,
		ProductID:    resp.ProductID,
		CodeType:     resp.CodeType,
		RedeemedAt:   resp.RedeemedAt.Format(time.RFC3339),
	}
}

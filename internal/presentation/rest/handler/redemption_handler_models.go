package handler

// RedeemRequest コード引き換えリクエスト
// @Description コード引き換えリクエスト
type RedeemRequest struct {
	Code      string `json:"code" example:"SUMMER-2025"`
	ProductID string `json:"product_id" example:"prod_123"`
}

// RedeemResponse コード引き換えレスポンス
// @Description コード引き換えレスポンス
type RedeemResponse struct {
	Success     bool   `json:"success" example:"true"`
	Message     string `json:"message" example:"code redeemed successfully"`
	DownloadURL string `json:"download_url,omitempty" example:"https://cdn.example.com/files/album.zip"`
	FileName    string `json:"file_name,omitempty" example:"album.zip"`
	CodeType    string `json:"code_type,omitempty" example:"product" enums:"master,product"`
}

package redemption

// RedeemRequest コード引き換えリクエスト
type RedeemRequest struct {
	Code      string
	ProductID string
}

// RedeemResponse コード引き換えレスポンス
type RedeemResponse struct {
	RedemptionID string
	Code         string
	DownloadURL  string
	FileName     string
	CodeType     string // "master" | "product"
}

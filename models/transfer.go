package models

// TransferResult summarizes a completed transfer
type TransferResult struct {
	TransferID  string
	FromUserID  string
	ToUserID    string
	Amount      int64
	FromBalance int64
	ToBalance   int64
}

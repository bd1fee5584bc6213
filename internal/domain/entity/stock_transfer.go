package entity

import "time"

// StockTransfer registro inmutable de cantidad movida entre sucursales (auditoría).
type StockTransfer struct {
	ID            string
	TenantID      string
	ProductID     string
	FromBranchID  string
	ToBranchID    string
	Qty           int
	Notes         *string
	TransferredBy string
	CreatedAt     time.Time
}

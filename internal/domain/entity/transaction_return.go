package entity

import "time"

// Motivos de devolución.
const (
	ReturnReasonCustomerRequest = "CUSTOMER_REQUEST"
	ReturnReasonDefective       = "DEFECTIVE"
	ReturnReasonWrongItem       = "WRONG_ITEM"
	ReturnReasonOther           = "OTHER"
)

// ValidReturnReason indica si el motivo existe.
func ValidReturnReason(r string) bool {
	switch r {
	case ReturnReasonCustomerRequest, ReturnReasonDefective, ReturnReasonWrongItem, ReturnReasonOther:
		return true
	}
	return false
}

// TransactionReturn devolución parcial o total contra una línea de venta.
type TransactionReturn struct {
	ID                  string
	TransactionDetailID string
	Qty                 int
	Reason              string
	Notes               *string
	ReturnedBy          string
	CreatedAt           time.Time
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionResponse salida de una transacción del historial.
type TransactionResponse struct {
	ID         string           `json:"id"`
	ItemID     string           `json:"item_id"`
	Type       string           `json:"type"`
	Quantity   decimal.Decimal  `json:"quantity"` // con signo
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
	TotalPrice *decimal.Decimal `json:"total_price,omitempty"`
	Reference  string           `json:"reference,omitempty"`
	Reason     string           `json:"reason,omitempty"`
	Date       time.Time        `json:"date"`
	CreatedAt  time.Time        `json:"created_at"`
	CreatedBy  string           `json:"created_by,omitempty"`
}

// TransactionListResponse historial paginado de un artículo.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentDraftRequest borrador de ajuste tal como viaja por la API.
// Los campos numéricos nil son "sin capturar".
type AdjustmentDraftRequest struct {
	Type       string           `json:"type"`
	Quantity   *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
	TotalPrice *decimal.Decimal `json:"total_price,omitempty"`
	Reference  string           `json:"reference,omitempty"`
	Reason     string           `json:"reason,omitempty"`
	Date       *time.Time       `json:"date,omitempty"`
}

// RecalculateRequest pide al reducer recalcular el triángulo
// cantidad/unitario/total tras la edición de un campo.
type RecalculateRequest struct {
	Draft        AdjustmentDraftRequest `json:"draft"`
	EditedField  string                 `json:"edited_field"` // quantity | unit_price | total_price
	EditedValue  *decimal.Decimal       `json:"edited_value"`
	CurrentStock decimal.Decimal        `json:"current_stock"`
}

// RecalculateResponse borrador resultante tras el reducer.
type RecalculateResponse struct {
	Draft AdjustmentDraftRequest `json:"draft"`
}

// SubmitAdjustmentResponse resultado de un ajuste aplicado.
type SubmitAdjustmentResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Item        ItemResponse        `json:"item"`
}

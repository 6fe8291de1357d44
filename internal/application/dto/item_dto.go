package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un artículo.
// Stock, costo promedio y precios de compra NO se aceptan aquí:
// se construyen únicamente vía transacciones de ajuste.
type CreateItemRequest struct {
	SKU          string           `json:"sku"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Unit         string           `json:"unit"`
	CategoryID   string           `json:"category_id,omitempty"`
	SellingPrice *decimal.Decimal `json:"selling_price,omitempty"`
	ReorderPoint *decimal.Decimal `json:"reorder_point,omitempty"`
}

// UpdateItemRequest entrada para actualizar un artículo (forma completa).
// Campos nil no se tocan.
type UpdateItemRequest struct {
	Name         *string          `json:"name,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Unit         *string          `json:"unit,omitempty"`
	CategoryID   *string          `json:"category_id,omitempty"`
	SellingPrice *decimal.Decimal `json:"selling_price,omitempty"`
	ReorderPoint *decimal.Decimal `json:"reorder_point,omitempty"`
}

// UpdateReorderPointRequest forma parcial: solo el punto de reorden.
// nil (o clear=true) elimina el punto de reorden.
type UpdateReorderPointRequest struct {
	ReorderPoint *decimal.Decimal `json:"reorder_point"`
}

// BulkDeleteRequest borra varios artículos por ID.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// ItemResponse salida de un artículo, con estado de stock derivado.
type ItemResponse struct {
	ID                string           `json:"id"`
	CompanyID         string           `json:"company_id"`
	CategoryID        string           `json:"category_id,omitempty"`
	SKU               string           `json:"sku"`
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	Unit              string           `json:"unit"`
	StockQuantity     decimal.Decimal  `json:"stock_quantity"`
	ReorderPoint      *decimal.Decimal `json:"reorder_point,omitempty"`
	SellingPrice      *decimal.Decimal `json:"selling_price,omitempty"`
	AvgPurchasePrice  *decimal.Decimal `json:"avg_purchase_price,omitempty"`
	LastPurchasePrice *decimal.Decimal `json:"last_purchase_price,omitempty"`
	StockStatus       string           `json:"stock_status"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ItemListResponse lista paginada de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ItemMetricsResponse métricas derivadas de un artículo. Los campos *string
// de porcentaje van formateados a 2 decimales; nil = no disponible (N/A).
// MarkupUnbounded en true indica markup matemáticamente no acotado (∞).
type ItemMetricsResponse struct {
	ItemID          string           `json:"item_id"`
	StockStatus     string           `json:"stock_status"`
	StockValue      decimal.Decimal  `json:"stock_value"`
	ProfitPerUnit   *decimal.Decimal `json:"profit_per_unit,omitempty"`
	MarginPct       *decimal.Decimal `json:"margin_pct,omitempty"`
	MarkupPct       *decimal.Decimal `json:"markup_pct,omitempty"`
	MarkupUnbounded bool             `json:"markup_unbounded"`
	LastVsAvgPct    *decimal.Decimal `json:"last_vs_avg_pct,omitempty"`
	LastVsPrevDelta *decimal.Decimal `json:"last_vs_prev_delta,omitempty"`
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo del inventario (un SKU por empresa).
// StockQuantity nunca es negativo: solo cambia vía transacciones de ajuste.
// Los precios son opcionales (nil = desconocido); AvgPurchasePrice es promedio
// ponderado calculado en cada compra, LastPurchasePrice y PrevPurchasePrice
// guardan las dos últimas compras para comparación de tendencia.
type Item struct {
	ID                string
	CompanyID         string
	CategoryID        string // vacío si no tiene categoría
	SKU               string // código único por empresa
	Name              string
	Description       string
	Unit              string // etiqueta de unidad: "unidad", "kg", "caja"...
	StockQuantity     decimal.Decimal
	ReorderPoint      *decimal.Decimal // nil = sin punto de reorden
	SellingPrice      *decimal.Decimal
	AvgPurchasePrice  *decimal.Decimal // promedio ponderado de compras
	LastPurchasePrice *decimal.Decimal
	PrevPurchasePrice *decimal.Decimal // compra anterior a la última
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

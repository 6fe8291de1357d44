// Package metrics calcula las métricas derivadas de un artículo de inventario:
// estado de stock, valor estimado, utilidad, margen, markup y tendencia de
// precios de compra. Todas las funciones son puras y totales: nunca hacen I/O,
// nunca entran en pánico y nunca devuelven NaN/Inf — cuando falta un insumo el
// resultado es nil ("no disponible"), no un error.
package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// StockStatus clasifica el nivel de stock de un artículo.
type StockStatus string

const (
	StatusOutOfStock  StockStatus = "out_of_stock"
	StatusLowStock    StockStatus = "low_stock"
	StatusInStock     StockStatus = "in_stock"
	StatusOverStocked StockStatus = "over_stocked"
)

// DefaultOverstockFactor es el multiplicador del punto de reorden a partir del
// cual un artículo se considera sobre-stockeado. Configurable vía
// INVENTORY_OVERSTOCK_FACTOR; el umbral es solo de presentación, no una regla
// de negocio fija.
var DefaultOverstockFactor = decimal.NewFromInt(3)

// Inputs insumos del cálculo. Los precios nil significan "desconocido";
// un precio presente con valor cero es un dato válido, no un faltante.
type Inputs struct {
	StockQuantity     decimal.Decimal
	ReorderPoint      *decimal.Decimal
	SellingPrice      *decimal.Decimal
	AvgPurchasePrice  *decimal.Decimal
	LastPurchasePrice *decimal.Decimal
	PrevPurchasePrice *decimal.Decimal
	OverstockFactor   decimal.Decimal // <= 0 usa DefaultOverstockFactor
}

// Metrics resultado del cálculo. Los campos puntero en nil indican
// "no disponible" (faltó un insumo); nunca se devuelve NaN ni infinito.
// El único caso no acotado es el markup con costo promedio cero y utilidad
// positiva, señalado con MarkupUnbounded (se renderiza como ∞).
type Metrics struct {
	Status          StockStatus
	StockValue      decimal.Decimal // qty * avg; cero si avg desconocido
	ProfitPerUnit   *decimal.Decimal
	MarginPct       *decimal.Decimal
	MarkupPct       *decimal.Decimal
	MarkupUnbounded bool
	LastVsAvgPct    *decimal.Decimal
	LastVsPrevDelta *decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Calculate deriva todas las métricas de un snapshot de artículo.
// Función total: toda combinación de insumos tiene un resultado definido.
func Calculate(in Inputs) Metrics {
	m := Metrics{
		Status: Status(in.StockQuantity, in.ReorderPoint, in.OverstockFactor),
	}

	// Valor de stock: cero cuando el costo promedio es desconocido, nunca nil.
	if in.AvgPurchasePrice != nil {
		m.StockValue = in.StockQuantity.Mul(*in.AvgPurchasePrice).Round(2)
	} else {
		m.StockValue = decimal.Zero
	}

	// Utilidad por unidad: requiere ambos precios. Un resultado cero con
	// ambos precios presentes es "utilidad cero", no "desconocido".
	if in.SellingPrice != nil && in.AvgPurchasePrice != nil {
		profit := in.SellingPrice.Sub(*in.AvgPurchasePrice).Round(2)
		m.ProfitPerUnit = &profit

		// Margen: % de la utilidad sobre el precio de venta. Nunca dividir por cero.
		if !in.SellingPrice.IsZero() {
			margin := profit.Div(*in.SellingPrice).Mul(hundred).Round(2)
			m.MarginPct = &margin
		}

		// Markup: % de la utilidad sobre el costo. Costo cero con utilidad
		// positiva es matemáticamente no acotado: se señala con el flag,
		// jamás con Inf.
		if !in.AvgPurchasePrice.IsZero() {
			markup := profit.Div(*in.AvgPurchasePrice).Mul(hundred).Round(2)
			m.MarkupPct = &markup
		} else if profit.IsPositive() {
			m.MarkupUnbounded = true
		}
	}

	// Tendencia última compra vs. costo promedio.
	if in.LastPurchasePrice != nil && in.AvgPurchasePrice != nil && !in.AvgPurchasePrice.IsZero() {
		delta := in.LastPurchasePrice.Sub(*in.AvgPurchasePrice).
			Div(*in.AvgPurchasePrice).Mul(hundred).Round(2)
		m.LastVsAvgPct = &delta
	}

	// Tendencia última compra vs. compra anterior (valor absoluto, no %).
	if in.LastPurchasePrice != nil && in.PrevPurchasePrice != nil {
		delta := in.LastPurchasePrice.Sub(*in.PrevPurchasePrice).Round(2)
		m.LastVsPrevDelta = &delta
	}

	return m
}

// Status deriva el estado de stock. Usable de forma independiente por los
// listados sin calcular el resto de métricas.
// Reglas: qty <= 0 agotado; con punto de reorden definido, qty <= reorden es
// stock bajo (el límite exacto cuenta como bajo) y qty > reorden*factor es
// sobre-stock; el resto en stock.
func Status(qty decimal.Decimal, reorderPoint *decimal.Decimal, overstockFactor decimal.Decimal) StockStatus {
	if qty.LessThanOrEqual(decimal.Zero) {
		return StatusOutOfStock
	}
	if reorderPoint == nil {
		return StatusInStock
	}
	if qty.LessThanOrEqual(*reorderPoint) {
		return StatusLowStock
	}
	factor := overstockFactor
	if factor.LessThanOrEqual(decimal.Zero) {
		factor = DefaultOverstockFactor
	}
	if reorderPoint.IsPositive() && qty.GreaterThan(reorderPoint.Mul(factor)) {
		return StatusOverStocked
	}
	return StatusInStock
}

// WeightedAverageCost calcula el nuevo costo promedio ponderado tras una compra.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func WeightedAverageCost(currentQty, currentCost, inQty, inCost decimal.Decimal) decimal.Decimal {
	sum := currentQty.Add(inQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := currentQty.Mul(currentCost).Add(inQty.Mul(inCost))
	return num.Div(sum).Round(4)
}

// InputsFromItem arma los insumos del cálculo desde un artículo persistido.
func InputsFromItem(item *entity.Item, overstockFactor decimal.Decimal) Inputs {
	return Inputs{
		StockQuantity:     item.StockQuantity,
		ReorderPoint:      item.ReorderPoint,
		SellingPrice:      item.SellingPrice,
		AvgPurchasePrice:  item.AvgPurchasePrice,
		LastPurchasePrice: item.LastPurchasePrice,
		PrevPurchasePrice: item.PrevPurchasePrice,
		OverstockFactor:   overstockFactor,
	}
}

package metrics_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain/metrics"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

// ──────────────────────────────────────────────────────────────────────────────
// Estado de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestStatus_CantidadCero_EsAgotado(t *testing.T) {
	assert.Equal(t, metrics.StatusOutOfStock, metrics.Status(decimal.Zero, dp("50"), decimal.Zero))
}

func TestStatus_CantidadNegativa_EsAgotado(t *testing.T) {
	// Dato corrupto en DB: se trata igual que agotado, nunca pánico.
	assert.Equal(t, metrics.StatusOutOfStock, metrics.Status(d("-3"), dp("50"), decimal.Zero))
}

func TestStatus_IgualAlPuntoDeReorden_EsStockBajo(t *testing.T) {
	// El límite exacto cuenta como bajo: con qty == reorden ya hay que pedir.
	assert.Equal(t, metrics.StatusLowStock, metrics.Status(d("50"), dp("50"), decimal.Zero))
}

func TestStatus_DebajoDelPuntoDeReorden_EsStockBajo(t *testing.T) {
	assert.Equal(t, metrics.StatusLowStock, metrics.Status(d("10"), dp("50"), decimal.Zero))
}

func TestStatus_SinPuntoDeReorden_EsEnStock(t *testing.T) {
	// Sin umbral configurado no puede haber "bajo" ni "sobre-stock".
	assert.Equal(t, metrics.StatusInStock, metrics.Status(d("1000000"), nil, decimal.Zero))
}

func TestStatus_SobreElTriple_EsSobreStock(t *testing.T) {
	// Factor por defecto 3: reorden 50 → sobre-stock a partir de >150.
	assert.Equal(t, metrics.StatusInStock, metrics.Status(d("150"), dp("50"), decimal.Zero))
	assert.Equal(t, metrics.StatusOverStocked, metrics.Status(d("151"), dp("50"), decimal.Zero))
}

func TestStatus_FactorConfigurable(t *testing.T) {
	// Con factor 2, el umbral de sobre-stock baja a reorden*2.
	assert.Equal(t, metrics.StatusOverStocked, metrics.Status(d("101"), dp("50"), d("2")))
	assert.Equal(t, metrics.StatusInStock, metrics.Status(d("100"), dp("50"), d("2")))
}

func TestStatus_ReordenCero_NuncaSobreStock(t *testing.T) {
	// Con reorden 0 el múltiplo también es 0: cualquier qty > 0 sería
	// "sobre-stock", lo cual no tiene sentido. Queda en stock.
	assert.Equal(t, metrics.StatusInStock, metrics.Status(d("500"), dp("0"), decimal.Zero))
}

// ──────────────────────────────────────────────────────────────────────────────
// Valor de stock, utilidad, margen y markup
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculate_ValorDeStock(t *testing.T) {
	m := metrics.Calculate(metrics.Inputs{
		StockQuantity:    d("10"),
		AvgPurchasePrice: dp("5.5"),
	})
	assert.True(t, m.StockValue.Equal(d("55")), "valor = qty * costo promedio")
}

func TestCalculate_ValorDeStockSinCosto_EsCero(t *testing.T) {
	m := metrics.Calculate(metrics.Inputs{StockQuantity: d("10")})
	assert.True(t, m.StockValue.IsZero())
}

func TestCalculate_UtilidadMargenYMarkup(t *testing.T) {
	m := metrics.Calculate(metrics.Inputs{
		StockQuantity:    d("4"),
		SellingPrice:     dp("10"),
		AvgPurchasePrice: dp("6"),
	})
	require.NotNil(t, m.ProfitPerUnit)
	assert.True(t, m.ProfitPerUnit.Equal(d("4")))

	require.NotNil(t, m.MarginPct)
	assert.True(t, m.MarginPct.Equal(d("40")), "margen = utilidad/venta*100")

	require.NotNil(t, m.MarkupPct)
	assert.True(t, m.MarkupPct.Equal(d("66.67")), "markup = utilidad/costo*100, 2 decimales")
	assert.False(t, m.MarkupUnbounded)
}

func TestCalculate_SinPrecioDeVenta_UtilidadNoDisponible(t *testing.T) {
	m := metrics.Calculate(metrics.Inputs{
		StockQuantity:    d("4"),
		AvgPurchasePrice: dp("6"),
	})
	assert.Nil(t, m.ProfitPerUnit)
	assert.Nil(t, m.MarginPct)
	assert.Nil(t, m.MarkupPct)
}

func TestCalculate_PrecioDeVentaCero_MargenNoDisponible(t *testing.T) {
	// Venta en 0 es un dato válido (regalo/promoción), pero el margen
	// dividiría por cero: queda no disponible, sin pánico ni Inf.
	m := metrics.Calculate(metrics.Inputs{
		StockQuantity:    d("4"),
		SellingPrice:     dp("0"),
		AvgPurchasePrice: dp("6"),
	})
	require.NotNil(t, m.ProfitPerUnit)
	assert.True(t, m.ProfitPerUnit.Equal(d("-6")))
	assert.Nil(t, m.MarginPct)
	require.NotNil(t, m.MarkupPct)
	assert.True(t, m.MarkupPct.Equal(d("-100")))
}

func TestCalculate_CostoCeroConUtilidadPositiva_MarkupNoAcotado(t *testing.T) {
	// Artículo regalado que se vende: markup matemáticamente infinito.
	// Se señala con el flag, el campo numérico queda nil.
	m := metrics.Calculate(metrics.Inputs{
		StockQuantity:    d("5"),
		SellingPrice:     dp("10"),
		AvgPurchasePrice: dp("0"),
	})
	assert.True(t, m.StockValue.IsZero())
	require.NotNil(t, m.ProfitPerUnit)
	assert.True(t, m.ProfitPerUnit.Equal(d("10")))
	require.NotNil(t, m.MarginPct)
	assert.True(t, m.MarginPct.Equal(d("100")))
	assert.Nil(t, m.MarkupPct)
	assert.True(t, m.MarkupUnbounded)
}

func TestCalculate_CostoCeroSinUtilidad_MarkupNoDisponible(t *testing.T) {
	m := metrics.Calculate(metrics.Inputs{
		StockQuantity:    d("5"),
		SellingPrice:     dp("0"),
		AvgPurchasePrice: dp("0"),
	})
	assert.Nil(t, m.MarkupPct)
	assert.False(t, m.MarkupUnbounded, "utilidad cero no es markup infinito")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tendencia de precios de compra
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculate_UltimaCompraVsPromedio(t *testing.T) {
	m := metrics.Calculate(metrics.Inputs{
		StockQuantity:     d("1"),
		AvgPurchasePrice:  dp("100"),
		LastPurchasePrice: dp("110"),
	})
	require.NotNil(t, m.LastVsAvgPct)
	assert.True(t, m.LastVsAvgPct.Equal(d("10")), "(110-100)/100*100")
}

func TestCalculate_UltimaCompraVsAnterior_DeltaAbsoluto(t *testing.T) {
	m := metrics.Calculate(metrics.Inputs{
		StockQuantity:     d("1"),
		LastPurchasePrice: dp("110"),
		PrevPurchasePrice: dp("95.50"),
	})
	require.NotNil(t, m.LastVsPrevDelta)
	assert.True(t, m.LastVsPrevDelta.Equal(d("14.50")))
}

func TestCalculate_SinCompraAnterior_TendenciaNoDisponible(t *testing.T) {
	m := metrics.Calculate(metrics.Inputs{
		StockQuantity:     d("1"),
		LastPurchasePrice: dp("110"),
	})
	assert.Nil(t, m.LastVsPrevDelta)
	assert.Nil(t, m.LastVsAvgPct)
}

// ──────────────────────────────────────────────────────────────────────────────
// Costo promedio ponderado
// ──────────────────────────────────────────────────────────────────────────────

func TestWeightedAverageCost(t *testing.T) {
	// 10 unidades a $8 en stock + compra de 5 a $11 → (80+55)/15
	got := metrics.WeightedAverageCost(d("10"), d("8"), d("5"), d("11"))
	assert.True(t, got.Equal(d("9")), "got %s", got)
}

func TestWeightedAverageCost_StockInicialCero(t *testing.T) {
	got := metrics.WeightedAverageCost(decimal.Zero, decimal.Zero, d("4"), d("7.25"))
	assert.True(t, got.Equal(d("7.25")))
}

func TestWeightedAverageCost_SumaCero_DevuelveCero(t *testing.T) {
	assert.True(t, metrics.WeightedAverageCost(decimal.Zero, d("5"), decimal.Zero, d("9")).IsZero())
}

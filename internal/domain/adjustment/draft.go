// Package adjustment implementa el borrador de ajuste de stock: la
// reconciliación bidireccional entre cantidad, precio unitario y precio total
// durante la captura, la validación previa al envío y la sesión de formulario.
// El núcleo es un reducer puro sobre un Draft inmutable, sin I/O: la
// persistencia queda del lado del caso de uso que consume el borrador validado.
package adjustment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Field identifica el campo numérico recién editado por el usuario.
type Field string

const (
	FieldQuantity   Field = "quantity"
	FieldUnitPrice  Field = "unit_price"
	FieldTotalPrice Field = "total_price"
)

// Draft es el borrador de una transacción de ajuste durante una sesión de
// formulario. Los punteros nil representan campos aún sin capturar.
// Invariante del triángulo: total = cantidad * precio unitario; tras cada
// edición se recalcula el campo que NO fue editado directamente.
type Draft struct {
	Type       entity.TransactionType
	Quantity   *decimal.Decimal
	UnitPrice  *decimal.Decimal
	TotalPrice *decimal.Decimal
	Reference  string
	Reason     string
	Date       time.Time
}

// FieldErrors errores de validación por campo (campo → mensaje).
// Vacío significa borrador válido.
type FieldErrors map[string]string

// Has indica si hay error en el campo.
func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// ResolvedPrices devuelve precio unitario y total resolviendo el faltante a
// partir del otro cuando la cantidad lo permite. No modifica el borrador.
func (d Draft) ResolvedPrices() (unit, total *decimal.Decimal) {
	unit, total = d.UnitPrice, d.TotalPrice
	if d.Quantity == nil {
		return unit, total
	}
	if unit == nil && total != nil && !d.Quantity.IsZero() {
		u := total.Div(*d.Quantity).Round(2)
		unit = &u
	}
	if total == nil && unit != nil {
		t := d.Quantity.Mul(*unit).Round(2)
		total = &t
	}
	return unit, total
}

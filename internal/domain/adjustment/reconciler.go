package adjustment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Recalculate aplica una edición al borrador y mantiene el invariante
// total = cantidad * precio unitario, recalculando el campo que no fue editado
// con los dos valores más recientes. Reducer puro: devuelve un borrador nuevo,
// nunca muta el recibido.
//
// Reglas:
//   - editar cantidad: recalcula total desde cantidad*unitario (si hay
//     unitario; si no, el total queda sin definir). En tipos de salida la
//     cantidad se recorta al stock disponible.
//   - editar precio unitario: recalcula total desde cantidad*unitario.
//   - editar total: recalcula unitario desde total/cantidad; con cantidad
//     cero el unitario queda sin definir en vez de producir infinito.
//
// Los montos se redondean a 2 decimales en cada paso para que ediciones
// repetidas no acumulen deriva de punto flotante.
func Recalculate(d Draft, edited Field, value *decimal.Decimal, currentStock decimal.Decimal) Draft {
	next := d
	switch edited {
	case FieldQuantity:
		next.Quantity = value
		if value != nil && d.Type.IsDecrease() && value.GreaterThan(currentStock) {
			clamped := currentStock
			next.Quantity = &clamped
		}
		if next.Quantity != nil && next.UnitPrice != nil {
			total := next.Quantity.Mul(*next.UnitPrice).Round(2)
			next.TotalPrice = &total
		} else {
			next.TotalPrice = nil
		}

	case FieldUnitPrice:
		next.UnitPrice = roundMoney(value)
		if next.Quantity != nil && next.UnitPrice != nil {
			total := next.Quantity.Mul(*next.UnitPrice).Round(2)
			next.TotalPrice = &total
		} else {
			next.TotalPrice = nil
		}

	case FieldTotalPrice:
		next.TotalPrice = roundMoney(value)
		if next.TotalPrice != nil && next.Quantity != nil && !next.Quantity.IsZero() {
			unit := next.TotalPrice.Div(*next.Quantity).Round(2)
			next.UnitPrice = &unit
		} else {
			next.UnitPrice = nil
		}
	}
	return next
}

// Validate corre todas las validaciones del borrador contra el stock actual y
// devuelve los errores por campo. Se ejecutan todas antes de cualquier llamada
// de red: no hay envíos parciales. Orden: cantidad, precio, motivo, stock
// resultante.
func Validate(d Draft, currentStock decimal.Decimal) FieldErrors {
	errs := FieldErrors{}

	spec, ok := d.Type.Spec()
	if !ok {
		errs["type"] = fmt.Sprintf("tipo de transacción desconocido: %q", d.Type)
		return errs
	}

	// 1. Cantidad positiva; en salidas no puede exceder el stock disponible.
	if d.Quantity == nil || !d.Quantity.IsPositive() {
		errs["quantity"] = "la cantidad debe ser mayor que cero"
	} else if spec.Direction == entity.DirectionDecrease && d.Quantity.GreaterThan(currentStock) {
		errs["quantity"] = fmt.Sprintf("cantidad máxima disponible: %s", currentStock.String())
	}

	// 2. Tipos con precio: debe resolverse un precio no negativo
	//    (unitario o total, el faltante se deriva del otro).
	if spec.RequiresPrice {
		unit, total := d.ResolvedPrices()
		switch {
		case unit == nil && total == nil:
			errs["unit_price"] = "este tipo de transacción requiere precio unitario o total"
		case unit != nil && unit.IsNegative(), total != nil && total.IsNegative():
			errs["unit_price"] = "el precio no puede ser negativo"
		}
	}

	// 3. Correcciones y bajas exigen motivo no vacío.
	if spec.RequiresReason && strings.TrimSpace(d.Reason) == "" {
		errs["reason"] = "este tipo de transacción requiere un motivo"
	}

	// 4. Stock resultante >= 0, re-validado aunque la cantidad venga
	//    pre-recortada: el stock pudo cambiar entre la carga y el envío.
	//    Se rechaza con error fresco, nunca se re-recorta en silencio.
	if !errs.Has("quantity") && spec.Direction == entity.DirectionDecrease && d.Quantity != nil {
		if currentStock.Sub(*d.Quantity).IsNegative() {
			errs["quantity"] = fmt.Sprintf("stock insuficiente: disponible %s", currentStock.String())
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// BuildTransaction materializa el borrador validado como registro inmutable de
// historial. La cantidad queda con signo según la dirección del tipo.
// Precondición: Validate devolvió vacío; un borrador malformado aquí es un
// error de programación.
func BuildTransaction(d Draft, companyID, itemID, userID string, now time.Time) *entity.StockTransaction {
	spec, _ := d.Type.Spec()
	qty := *d.Quantity
	if spec.Direction == entity.DirectionDecrease {
		qty = qty.Neg()
	}
	unit, total := d.ResolvedPrices()

	date := d.Date
	if date.IsZero() {
		date = now
	}
	return &entity.StockTransaction{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		ItemID:     itemID,
		Type:       d.Type,
		Quantity:   qty,
		UnitPrice:  unit,
		TotalPrice: total,
		Reference:  strings.TrimSpace(d.Reference),
		Reason:     strings.TrimSpace(d.Reason),
		Date:       date,
		CreatedAt:  now,
		CreatedBy:  userID,
	}
}

func roundMoney(v *decimal.Decimal) *decimal.Decimal {
	if v == nil {
		return nil
	}
	r := v.Round(2)
	return &r
}

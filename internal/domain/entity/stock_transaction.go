package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifica el tipo de transacción de stock.
type TransactionType string

// Tipos de transacción de stock. El grupo de entrada suma stock,
// el de salida lo resta.
const (
	TypePurchase         TransactionType = "purchase"
	TypeReturn           TransactionType = "return"
	TypeCorrectionAdd    TransactionType = "correction_add"
	TypeOtherAddition    TransactionType = "other_addition"
	TypeSale             TransactionType = "sale"
	TypeDamaged          TransactionType = "damaged"
	TypeLoss             TransactionType = "loss"
	TypeExpired          TransactionType = "expired"
	TypeCorrectionRemove TransactionType = "correction_remove"
	TypeOtherRemoval     TransactionType = "other_removal"
)

// Direction indica si un tipo de transacción suma o resta stock.
type Direction int

const (
	DirectionIncrease Direction = 1
	DirectionDecrease Direction = -1
)

// TypeSpec describe las reglas de un tipo de transacción: dirección del
// movimiento, si exige precio y si exige motivo. Catálogo cerrado: un tipo
// que no aparece aquí es inválido.
type TypeSpec struct {
	Direction      Direction
	RequiresPrice  bool
	RequiresReason bool
}

// typeCatalog reemplaza lookups por string sueltos: cada tipo declara sus
// reglas de forma exhaustiva.
var typeCatalog = map[TransactionType]TypeSpec{
	TypePurchase:         {Direction: DirectionIncrease, RequiresPrice: true},
	TypeReturn:           {Direction: DirectionIncrease, RequiresPrice: true},
	TypeCorrectionAdd:    {Direction: DirectionIncrease, RequiresReason: true},
	TypeOtherAddition:    {Direction: DirectionIncrease},
	TypeSale:             {Direction: DirectionDecrease, RequiresPrice: true},
	TypeDamaged:          {Direction: DirectionDecrease, RequiresPrice: true, RequiresReason: true},
	TypeLoss:             {Direction: DirectionDecrease, RequiresPrice: true, RequiresReason: true},
	TypeExpired:          {Direction: DirectionDecrease, RequiresPrice: true, RequiresReason: true},
	TypeCorrectionRemove: {Direction: DirectionDecrease, RequiresReason: true},
	TypeOtherRemoval:     {Direction: DirectionDecrease},
}

// Spec devuelve las reglas del tipo y false si el tipo no existe en el catálogo.
func (t TransactionType) Spec() (TypeSpec, bool) {
	s, ok := typeCatalog[t]
	return s, ok
}

// Valid indica si el tipo pertenece al catálogo.
func (t TransactionType) Valid() bool {
	_, ok := typeCatalog[t]
	return ok
}

// IsDecrease indica si el tipo resta stock. Un tipo desconocido no resta.
func (t TransactionType) IsDecrease() bool {
	s, ok := typeCatalog[t]
	return ok && s.Direction == DirectionDecrease
}

// StockTransaction es un registro inmutable del historial de stock
// (append-only: nunca se modifica ni se borra).
// Quantity lleva el signo del movimiento: positivo entrada, negativo salida.
type StockTransaction struct {
	ID         string
	CompanyID  string
	ItemID     string
	Type       TransactionType
	Quantity   decimal.Decimal // con signo
	UnitPrice  *decimal.Decimal
	TotalPrice *decimal.Decimal
	Reference  string // factura, orden, remisión...
	Reason     string // obligatorio en correcciones y bajas
	Date       time.Time
	CreatedAt  time.Time
	CreatedBy  string // UserID
}

package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ItemFilter filtros del listado de artículos.
type ItemFilter struct {
	CategoryID string
	Search     string // se compara contra nombre/SKU normalizados (sin tildes)
	Limit      int
	Offset     int
}

// ItemRepository define el puerto de persistencia para Item (DIP).
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	// GetForUpdate obtiene el artículo bloqueando la fila (SELECT FOR UPDATE);
	// solo tiene sentido dentro de una transacción.
	GetForUpdate(id string) (*entity.Item, error)
	GetByCompanyAndSKU(companyID, sku string) (*entity.Item, error)
	Update(item *entity.Item) error
	// UpdateReorderPoint forma parcial de actualización: solo el punto de reorden.
	UpdateReorderPoint(id string, reorderPoint *decimal.Decimal) error
	// ApplyAdjustment actualiza los campos derivados del motor de ajustes:
	// stock y, en compras, costo promedio y últimas dos compras.
	ApplyAdjustment(item *entity.Item) error
	ListByCompany(companyID string, filter ItemFilter) ([]*entity.Item, int, error)
	Delete(id string) error
	DeleteByIDs(companyID string, ids []string) (int, error)
}

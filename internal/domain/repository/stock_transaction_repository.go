package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// TransactionFilter filtros del historial de transacciones.
type TransactionFilter struct {
	Type   entity.TransactionType // vacío = todos
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// StockTransactionRepository define el puerto del historial de stock.
// El historial es append-only: no hay Update ni Delete.
type StockTransactionRepository interface {
	Create(txn *entity.StockTransaction) error
	GetByID(id string) (*entity.StockTransaction, error)
	ListByItem(itemID string, filter TransactionFilter) ([]*entity.StockTransaction, int, error)
	// LastPurchases devuelve las últimas n compras del artículo, más reciente primero.
	LastPurchases(itemID string, n int) ([]*entity.StockTransaction, error)
}

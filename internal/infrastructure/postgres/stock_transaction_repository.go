package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

const txnColumns = `id, company_id, item_id, type, quantity, unit_price,
	total_price, reference, reason, date, created_at, created_by`

// StockTransactionRepo implementación del historial de stock sobre PostgreSQL
// (usable con pool o tx). La tabla es append-only: solo INSERT y SELECT.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

// Create persiste una transacción del historial.
func (r *StockTransactionRepo) Create(txn *entity.StockTransaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_transactions (id, company_id, item_id, type, quantity,
			unit_price, total_price, reference, reason, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		txn.ID, txn.CompanyID, txn.ItemID, string(txn.Type), txn.Quantity,
		txn.UnitPrice, txn.TotalPrice, nullStr(txn.Reference), nullStr(txn.Reason),
		txn.Date, txn.CreatedAt, nullStr(txn.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create stock transaction: %w", err)
	}
	return nil
}

// GetByID obtiene una transacción por ID; nil si no existe.
func (r *StockTransactionRepo) GetByID(id string) (*entity.StockTransaction, error) {
	query := `SELECT ` + txnColumns + ` FROM stock_transactions WHERE id = $1`
	txn, err := scanTransactionRow(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return txn, nil
}

// ListByItem lista el historial de un artículo filtrado por tipo y rango de
// fechas, más reciente primero. Limit <= 0 trae todo (exportación). Devuelve
// también el total sin paginar.
func (r *StockTransactionRepo) ListByItem(itemID string, filter repository.TransactionFilter) ([]*entity.StockTransaction, int, error) {
	where := ` FROM stock_transactions WHERE item_id = $1`
	args := []any{itemID}
	pos := 2
	if filter.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, string(filter.Type))
		pos++
	}
	if filter.From != nil {
		where += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	query := `SELECT ` + txnColumns + where + ` ORDER BY date DESC, created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, filter.Limit, filter.Offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockTransaction
	for rows.Next() {
		txn, err := scanTransactionRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, txn)
	}
	return list, total, rows.Err()
}

// LastPurchases devuelve las últimas n compras del artículo, más reciente primero.
func (r *StockTransactionRepo) LastPurchases(itemID string, n int) ([]*entity.StockTransaction, error) {
	query := `SELECT ` + txnColumns + `
		FROM stock_transactions
		WHERE item_id = $1 AND type = $2
		ORDER BY date DESC, created_at DESC LIMIT $3`
	rows, err := r.q.Query(context.Background(), query, itemID, string(entity.TypePurchase), n)
	if err != nil {
		return nil, fmt.Errorf("last purchases: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockTransaction
	for rows.Next() {
		txn, err := scanTransactionRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, txn)
	}
	return list, rows.Err()
}

func scanTransactionRow(row pgx.Row) (*entity.StockTransaction, error) {
	var t entity.StockTransaction
	var typ string
	var reference, reason, createdBy *string
	if err := row.Scan(
		&t.ID, &t.CompanyID, &t.ItemID, &typ, &t.Quantity, &t.UnitPrice,
		&t.TotalPrice, &reference, &reason, &t.Date, &t.CreatedAt, &createdBy,
	); err != nil {
		return nil, err
	}
	t.Type = entity.TransactionType(typ)
	if reference != nil {
		t.Reference = *reference
	}
	if reason != nil {
		t.Reason = *reason
	}
	if createdBy != nil {
		t.CreatedBy = *createdBy
	}
	return &t, nil
}

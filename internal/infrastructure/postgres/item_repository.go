package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/textutil"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, company_id, category_id, sku, name, description, unit,
	stock_quantity, reorder_point, selling_price, avg_purchase_price,
	last_purchase_price, prev_purchase_price, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL
// (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para artículos.
// Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un artículo nuevo. Guarda además el nombre normalizado
// (sin tildes, minúsculas) para búsqueda.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (id, company_id, category_id, sku, name, name_normalized, description, unit,
			stock_quantity, reorder_point, selling_price, avg_purchase_price,
			last_purchase_price, prev_purchase_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.CompanyID, nullStr(item.CategoryID), item.SKU, item.Name,
		textutil.NormalizeSearch(item.Name), item.Description, item.Unit,
		item.StockQuantity, item.ReorderPoint, item.SellingPrice,
		item.AvgPurchasePrice, item.LastPurchasePrice, item.PrevPurchasePrice,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID; nil si no existe.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get item")
}

// GetForUpdate obtiene el artículo bloqueando la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *ItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get item for update")
}

// GetByCompanyAndSKU obtiene un artículo por empresa y SKU.
func (r *ItemRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE company_id = $1 AND sku = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, companyID, sku), "get item by sku")
}

// Update actualiza los campos editables de un artículo. No toca stock ni
// costos: esos cambian solo vía ApplyAdjustment.
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, name_normalized = $3, description = $4, unit = $5,
			category_id = $6, selling_price = $7, reorder_point = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, textutil.NormalizeSearch(item.Name), item.Description,
		item.Unit, nullStr(item.CategoryID), item.SellingPrice, item.ReorderPoint,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// UpdateReorderPoint forma parcial: solo el punto de reorden (nil lo elimina).
func (r *ItemRepo) UpdateReorderPoint(id string, reorderPoint *decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE items SET reorder_point = $2, updated_at = now() WHERE id = $1`,
		id, reorderPoint,
	)
	if err != nil {
		return fmt.Errorf("update reorder point: %w", err)
	}
	return nil
}

// ApplyAdjustment actualiza los campos que controla el motor de ajustes:
// stock, costo promedio y últimas dos compras.
func (r *ItemRepo) ApplyAdjustment(item *entity.Item) error {
	query := `
		UPDATE items SET stock_quantity = $2, avg_purchase_price = $3,
			last_purchase_price = $4, prev_purchase_price = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.StockQuantity, item.AvgPurchasePrice,
		item.LastPurchasePrice, item.PrevPurchasePrice, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("apply adjustment: %w", err)
	}
	return nil
}

// ListByCompany lista artículos con filtro de categoría y búsqueda
// insensible a tildes sobre nombre normalizado y SKU. Devuelve también el
// total sin paginar.
func (r *ItemRepo) ListByCompany(companyID string, filter repository.ItemFilter) ([]*entity.Item, int, error) {
	where := ` FROM items WHERE company_id = $1`
	args := []any{companyID}
	pos := 2
	if filter.CategoryID != "" {
		where += fmt.Sprintf(" AND category_id = $%d", pos)
		args = append(args, filter.CategoryID)
		pos++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (name_normalized LIKE $%d OR lower(sku) LIKE $%d)", pos, pos)
		args = append(args, "%"+textutil.NormalizeSearch(filter.Search)+"%")
		pos++
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	query := `SELECT ` + itemColumns + where + ` ORDER BY name ASC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, filter.Limit, filter.Offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var list []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, item)
	}
	return list, total, rows.Err()
}

// Delete elimina un artículo por ID.
func (r *ItemRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// DeleteByIDs elimina en lote los artículos de la empresa cuyos IDs se pasen;
// devuelve cuántos borró.
func (r *ItemRepo) DeleteByIDs(companyID string, ids []string) (int, error) {
	cmd, err := r.q.Exec(context.Background(),
		`DELETE FROM items WHERE company_id = $1 AND id = ANY($2)`,
		companyID, ids,
	)
	if err != nil {
		return 0, fmt.Errorf("bulk delete items: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

func (r *ItemRepo) scanOne(row pgx.Row, op string) (*entity.Item, error) {
	item, err := scanItemRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

func scanItem(rows pgx.Rows) (*entity.Item, error) {
	item, err := scanItemRow(rows)
	if err != nil {
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return item, nil
}

func scanItemRow(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	var categoryID *string
	if err := row.Scan(
		&it.ID, &it.CompanyID, &categoryID, &it.SKU, &it.Name, &it.Description,
		&it.Unit, &it.StockQuantity, &it.ReorderPoint, &it.SellingPrice,
		&it.AvgPurchasePrice, &it.LastPurchasePrice, &it.PrevPurchasePrice,
		&it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if categoryID != nil {
		it.CategoryID = *categoryID
	}
	return &it, nil
}

func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

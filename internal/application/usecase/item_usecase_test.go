package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
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
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memItemRepo struct {
	items map[string]*entity.Item
}

func newMemItemRepo(items ...*entity.Item) *memItemRepo {
	r := &memItemRepo{items: map[string]*entity.Item{}}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *memItemRepo) Create(item *entity.Item) error { r.items[item.ID] = item; return nil }

func (r *memItemRepo) GetByID(id string) (*entity.Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *memItemRepo) GetForUpdate(id string) (*entity.Item, error) { return r.GetByID(id) }

func (r *memItemRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Item, error) {
	for _, it := range r.items {
		if it.CompanyID == companyID && it.SKU == sku {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memItemRepo) Update(item *entity.Item) error { r.items[item.ID] = item; return nil }

func (r *memItemRepo) UpdateReorderPoint(id string, reorderPoint *decimal.Decimal) error {
	if it, ok := r.items[id]; ok {
		it.ReorderPoint = reorderPoint
	}
	return nil
}

func (r *memItemRepo) ApplyAdjustment(item *entity.Item) error { r.items[item.ID] = item; return nil }

func (r *memItemRepo) ListByCompany(companyID string, filter repository.ItemFilter) ([]*entity.Item, int, error) {
	var out []*entity.Item
	for _, it := range r.items {
		if it.CompanyID != companyID {
			continue
		}
		if filter.CategoryID != "" && it.CategoryID != filter.CategoryID {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *memItemRepo) Delete(id string) error { delete(r.items, id); return nil }

func (r *memItemRepo) DeleteByIDs(companyID string, ids []string) (int, error) {
	n := 0
	for _, id := range ids {
		if it, ok := r.items[id]; ok && it.CompanyID == companyID {
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}

type memCategoryRepo struct {
	categories map[string]*entity.Category
	itemCount  map[string]int
}

func newMemCategoryRepo(cats ...*entity.Category) *memCategoryRepo {
	r := &memCategoryRepo{categories: map[string]*entity.Category{}, itemCount: map[string]int{}}
	for _, c := range cats {
		r.categories[c.ID] = c
	}
	return r
}

func (r *memCategoryRepo) Create(c *entity.Category) error { r.categories[c.ID] = c; return nil }

func (r *memCategoryRepo) GetByID(id string) (*entity.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCategoryRepo) GetByCompanyAndCode(companyID, code string) (*entity.Category, error) {
	for _, c := range r.categories {
		if c.CompanyID == companyID && c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCategoryRepo) Update(c *entity.Category) error { r.categories[c.ID] = c; return nil }

func (r *memCategoryRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.categories {
		if c.CompanyID == companyID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memCategoryRepo) CountItems(categoryID string) (int, error) {
	return r.itemCount[categoryID], nil
}

func (r *memCategoryRepo) Delete(id string) error { delete(r.categories, id); return nil }

func newItemUC(items ...*entity.Item) (*usecase.ItemUseCase, *memItemRepo, *memCategoryRepo) {
	itemRepo := newMemItemRepo(items...)
	catRepo := newMemCategoryRepo()
	return usecase.NewItemUseCase(itemRepo, catRepo, decimal.Zero), itemRepo, catRepo
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestItemCreate_IniciaSinStockNiCostos(t *testing.T) {
	uc, repo, _ := newItemUC()

	out, err := uc.Create("co-1", dto.CreateItemRequest{
		SKU:          "CEM-50",
		Name:         "Cemento gris 50kg",
		SellingPrice: dp("32000"),
	})
	require.NoError(t, err)

	assert.True(t, out.StockQuantity.IsZero())
	assert.Nil(t, out.AvgPurchasePrice, "el costo nace con la primera compra")
	assert.Equal(t, "out_of_stock", out.StockStatus)
	assert.Equal(t, "unidad", out.Unit, "unidad por defecto")

	stored := repo.items[out.ID]
	require.NotNil(t, stored)
	assert.Equal(t, "CEM-50", stored.SKU)
}

func TestItemCreate_SKUDuplicado(t *testing.T) {
	uc, _, _ := newItemUC(&entity.Item{ID: "i1", CompanyID: "co-1", SKU: "CEM-50", Name: "Cemento"})

	_, err := uc.Create("co-1", dto.CreateItemRequest{SKU: "CEM-50", Name: "Otro cemento"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestItemCreate_CategoriaDeOtraEmpresa(t *testing.T) {
	uc, _, catRepo := newItemUC()
	catRepo.Create(&entity.Category{ID: "cat-ajena", CompanyID: "co-OTRA", Name: "Aceros"})

	_, err := uc.Create("co-1", dto.CreateItemRequest{SKU: "A-1", Name: "Varilla", CategoryID: "cat-ajena"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemCreate_PrecioNegativo(t *testing.T) {
	uc, _, _ := newItemUC()
	_, err := uc.Create("co-1", dto.CreateItemRequest{SKU: "A-1", Name: "Varilla", SellingPrice: dp("-5")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Metrics
// ──────────────────────────────────────────────────────────────────────────────

func TestItemMetrics_ArticuloRegalado_MarkupNoAcotado(t *testing.T) {
	avg := decimal.Zero
	uc, _, _ := newItemUC(&entity.Item{
		ID: "i1", CompanyID: "co-1", SKU: "S", Name: "Muestra",
		StockQuantity:    d("5"),
		SellingPrice:     dp("10"),
		AvgPurchasePrice: &avg,
	})

	m, err := uc.Metrics("co-1", "i1")
	require.NoError(t, err)

	assert.True(t, m.StockValue.IsZero())
	require.NotNil(t, m.ProfitPerUnit)
	assert.True(t, m.ProfitPerUnit.Equal(d("10")))
	require.NotNil(t, m.MarginPct)
	assert.True(t, m.MarginPct.Equal(d("100")))
	assert.Nil(t, m.MarkupPct)
	assert.True(t, m.MarkupUnbounded)
}

func TestItemMetrics_DeOtraEmpresa_Forbidden(t *testing.T) {
	uc, _, _ := newItemUC(&entity.Item{ID: "i1", CompanyID: "co-1", SKU: "S", Name: "X"})
	_, err := uc.Metrics("co-OTRA", "i1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reorder point
// ──────────────────────────────────────────────────────────────────────────────

func TestItemUpdateReorderPoint_CambiaElEstado(t *testing.T) {
	uc, _, _ := newItemUC(&entity.Item{
		ID: "i1", CompanyID: "co-1", SKU: "S", Name: "X",
		StockQuantity: d("40"),
	})

	out, err := uc.UpdateReorderPoint("co-1", "i1", dto.UpdateReorderPointRequest{ReorderPoint: dp("50")})
	require.NoError(t, err)
	assert.Equal(t, "low_stock", out.StockStatus, "40 <= reorden 50")

	// Quitar el umbral (null) regresa a in_stock.
	out, err = uc.UpdateReorderPoint("co-1", "i1", dto.UpdateReorderPointRequest{ReorderPoint: nil})
	require.NoError(t, err)
	assert.Equal(t, "in_stock", out.StockStatus)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestItemBulkDelete_SoloDeLaEmpresaPropia(t *testing.T) {
	uc, repo, _ := newItemUC(
		&entity.Item{ID: "i1", CompanyID: "co-1", SKU: "A", Name: "A"},
		&entity.Item{ID: "i2", CompanyID: "co-1", SKU: "B", Name: "B"},
		&entity.Item{ID: "i3", CompanyID: "co-OTRA", SKU: "C", Name: "C"},
	)

	n, err := uc.BulkDelete("co-1", []string{"i1", "i2", "i3", "no-existe"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, repo.items, "i3", "los artículos ajenos no se tocan")
}

// ──────────────────────────────────────────────────────────────────────────────
// Category delete guard
// ──────────────────────────────────────────────────────────────────────────────

func TestCategoryDelete_ConArticulos_Rechaza(t *testing.T) {
	catRepo := newMemCategoryRepo(&entity.Category{ID: "c1", CompanyID: "co-1", Name: "Aceros"})
	catRepo.itemCount["c1"] = 3
	uc := usecase.NewCategoryUseCase(catRepo)

	err := uc.Delete("co-1", "c1")
	assert.ErrorIs(t, err, domain.ErrCategoryInUse)
	assert.Contains(t, catRepo.categories, "c1")
}

func TestCategoryDelete_Vacia_Borra(t *testing.T) {
	catRepo := newMemCategoryRepo(&entity.Category{ID: "c1", CompanyID: "co-1", Name: "Aceros"})
	uc := usecase.NewCategoryUseCase(catRepo)

	require.NoError(t, uc.Delete("co-1", "c1"))
	assert.NotContains(t, catRepo.categories, "c1")
}

package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
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

type fakeItemRepo struct {
	items map[string]*entity.Item
	// lockedStock simula la carrera entre cargar el formulario y enviarlo:
	// GetForUpdate devuelve este stock si no es nil.
	lockedStock *decimal.Decimal
}

func newFakeItemRepo(items ...*entity.Item) *fakeItemRepo {
	r := &fakeItemRepo{items: map[string]*entity.Item{}}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *fakeItemRepo) Create(item *entity.Item) error { r.items[item.ID] = item; return nil }

func (r *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *fakeItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	it, err := r.GetByID(id)
	if it != nil && r.lockedStock != nil {
		it.StockQuantity = *r.lockedStock
	}
	return it, err
}

func (r *fakeItemRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Item, error) {
	for _, it := range r.items {
		if it.CompanyID == companyID && it.SKU == sku {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeItemRepo) Update(item *entity.Item) error { r.items[item.ID] = item; return nil }

func (r *fakeItemRepo) UpdateReorderPoint(id string, reorderPoint *decimal.Decimal) error {
	if it, ok := r.items[id]; ok {
		it.ReorderPoint = reorderPoint
	}
	return nil
}

func (r *fakeItemRepo) ApplyAdjustment(item *entity.Item) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) ListByCompany(companyID string, filter repository.ItemFilter) ([]*entity.Item, int, error) {
	var out []*entity.Item
	for _, it := range r.items {
		if it.CompanyID == companyID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (r *fakeItemRepo) Delete(id string) error { delete(r.items, id); return nil }

func (r *fakeItemRepo) DeleteByIDs(companyID string, ids []string) (int, error) {
	n := 0
	for _, id := range ids {
		if it, ok := r.items[id]; ok && it.CompanyID == companyID {
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}

type fakeTxnRepo struct {
	created []*entity.StockTransaction
}

func (r *fakeTxnRepo) Create(txn *entity.StockTransaction) error {
	r.created = append(r.created, txn)
	return nil
}

func (r *fakeTxnRepo) GetByID(id string) (*entity.StockTransaction, error) {
	for _, t := range r.created {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTxnRepo) ListByItem(itemID string, filter repository.TransactionFilter) ([]*entity.StockTransaction, int, error) {
	var out []*entity.StockTransaction
	for _, t := range r.created {
		if t.ItemID == itemID {
			out = append(out, t)
		}
	}
	return out, len(out), nil
}

func (r *fakeTxnRepo) LastPurchases(itemID string, n int) ([]*entity.StockTransaction, error) {
	return nil, nil
}

// fakeTxRunner ejecuta fn directo sobre los fakes; un rollback real no hace
// falta porque los tests de rechazo verifican que no hubo escrituras.
type fakeTxRunner struct {
	itemRepo *fakeItemRepo
	txnRepo  *fakeTxnRepo
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(repository.ItemRepository, repository.StockTransactionRepository) error) error {
	return fn(r.itemRepo, r.txnRepo)
}

func testItem() *entity.Item {
	now := time.Now()
	return &entity.Item{
		ID:            "item-1",
		CompanyID:     "co-1",
		SKU:           "TALI-001",
		Name:          "Tornillo autoperforante",
		Unit:          "unidad",
		StockQuantity: d("10"),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func newTestUseCase(item *entity.Item) (*inventory.SubmitAdjustmentUseCase, *fakeItemRepo, *fakeTxnRepo, *inventory.EventBus) {
	itemRepo := newFakeItemRepo(item)
	txnRepo := &fakeTxnRepo{}
	bus := inventory.NewEventBus()
	uc := inventory.NewSubmitAdjustmentUseCase(
		&fakeTxRunner{itemRepo: itemRepo, txnRepo: txnRepo},
		itemRepo, bus, decimal.Zero,
	)
	return uc, itemRepo, txnRepo, bus
}

// ──────────────────────────────────────────────────────────────────────────────
// Submit
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_CompraActualizaStockYCostoPromedio(t *testing.T) {
	item := testItem()
	avg := d("8")
	item.AvgPurchasePrice = &avg
	last := d("8.50")
	item.LastPurchasePrice = &last

	uc, itemRepo, txnRepo, _ := newTestUseCase(item)

	out, fieldErrs, err := uc.Submit(context.Background(), "co-1", "user-1", "item-1", dto.AdjustmentDraftRequest{
		Type:      "purchase",
		Quantity:  dp("5"),
		UnitPrice: dp("11"),
		Reference: "OC-77",
	})
	require.NoError(t, err)
	require.Empty(t, fieldErrs)
	require.NotNil(t, out)

	// Stock 10 + 5, costo (10*8 + 5*11) / 15 = 9
	stored := itemRepo.items["item-1"]
	assert.True(t, stored.StockQuantity.Equal(d("15")))
	require.NotNil(t, stored.AvgPurchasePrice)
	assert.True(t, stored.AvgPurchasePrice.Equal(d("9")), "got %s", stored.AvgPurchasePrice)

	// Última compra 11, la anterior se desplazó a 8.50
	require.NotNil(t, stored.LastPurchasePrice)
	assert.True(t, stored.LastPurchasePrice.Equal(d("11")))
	require.NotNil(t, stored.PrevPurchasePrice)
	assert.True(t, stored.PrevPurchasePrice.Equal(d("8.50")))

	require.Len(t, txnRepo.created, 1)
	txn := txnRepo.created[0]
	assert.True(t, txn.Quantity.Equal(d("5")))
	require.NotNil(t, txn.TotalPrice)
	assert.True(t, txn.TotalPrice.Equal(d("55")), "total derivado del unitario")
	assert.Equal(t, "OC-77", txn.Reference)

	assert.True(t, out.Item.StockQuantity.Equal(d("15")))
	assert.Equal(t, "in_stock", out.Item.StockStatus)
}

func TestSubmit_VentaDejaCantidadNegativaEnHistorial(t *testing.T) {
	uc, itemRepo, txnRepo, _ := newTestUseCase(testItem())

	_, fieldErrs, err := uc.Submit(context.Background(), "co-1", "user-1", "item-1", dto.AdjustmentDraftRequest{
		Type:      "sale",
		Quantity:  dp("4"),
		UnitPrice: dp("15"),
	})
	require.NoError(t, err)
	require.Empty(t, fieldErrs)

	assert.True(t, itemRepo.items["item-1"].StockQuantity.Equal(d("6")))
	require.Len(t, txnRepo.created, 1)
	assert.True(t, txnRepo.created[0].Quantity.Equal(d("-4")))
}

func TestSubmit_VentaNoTocaCostoPromedio(t *testing.T) {
	item := testItem()
	avg := d("8")
	item.AvgPurchasePrice = &avg

	uc, itemRepo, _, _ := newTestUseCase(item)

	_, fieldErrs, err := uc.Submit(context.Background(), "co-1", "user-1", "item-1", dto.AdjustmentDraftRequest{
		Type:      "sale",
		Quantity:  dp("4"),
		UnitPrice: dp("15"),
	})
	require.NoError(t, err)
	require.Empty(t, fieldErrs)

	stored := itemRepo.items["item-1"]
	assert.True(t, stored.AvgPurchasePrice.Equal(d("8")), "solo las compras mueven el costo")
	assert.Nil(t, stored.LastPurchasePrice)
}

func TestSubmit_TipoDesconocido_ErrorDeCampo(t *testing.T) {
	uc, _, txnRepo, _ := newTestUseCase(testItem())

	out, fieldErrs, err := uc.Submit(context.Background(), "co-1", "user-1", "item-1", dto.AdjustmentDraftRequest{
		Type:     "teleport",
		Quantity: dp("1"),
	})
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.True(t, fieldErrs.Has("type"))
	assert.Empty(t, txnRepo.created)
}

func TestSubmit_ValidacionRechaza_SinEscrituras(t *testing.T) {
	uc, itemRepo, txnRepo, _ := newTestUseCase(testItem())

	out, fieldErrs, err := uc.Submit(context.Background(), "co-1", "user-1", "item-1", dto.AdjustmentDraftRequest{
		Type:     "correction_remove",
		Quantity: dp("50"), // excede el stock de 10 y además falta el motivo
	})
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.True(t, fieldErrs.Has("quantity"))
	assert.True(t, fieldErrs.Has("reason"))

	assert.True(t, itemRepo.items["item-1"].StockQuantity.Equal(d("10")))
	assert.Empty(t, txnRepo.created)
}

func TestSubmit_StockCambioEntreCargaYEnvio_RechazaSinRecortar(t *testing.T) {
	// La validación inicial pasa con stock 10, pero al bloquear la fila el
	// stock real es 3: se rechaza con error fresco, nunca se recorta a 3 en
	// silencio.
	uc, itemRepo, txnRepo, _ := newTestUseCase(testItem())
	stale := d("3")
	itemRepo.lockedStock = &stale

	out, fieldErrs, err := uc.Submit(context.Background(), "co-1", "user-1", "item-1", dto.AdjustmentDraftRequest{
		Type:      "sale",
		Quantity:  dp("8"),
		UnitPrice: dp("15"),
	})
	require.NoError(t, err)
	assert.Nil(t, out)
	require.True(t, fieldErrs.Has("quantity"))
	assert.Contains(t, fieldErrs["quantity"], "3", "el error reporta el disponible fresco")
	assert.Empty(t, txnRepo.created)
}

func TestSubmit_ArticuloDeOtraEmpresa_Forbidden(t *testing.T) {
	uc, _, _, _ := newTestUseCase(testItem())

	_, _, err := uc.Submit(context.Background(), "co-OTRA", "user-1", "item-1", dto.AdjustmentDraftRequest{
		Type:      "purchase",
		Quantity:  dp("1"),
		UnitPrice: dp("1"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSubmit_ArticuloInexistente_NotFound(t *testing.T) {
	uc, _, _, _ := newTestUseCase(testItem())

	_, _, err := uc.Submit(context.Background(), "co-1", "user-1", "no-existe", dto.AdjustmentDraftRequest{
		Type:      "purchase",
		Quantity:  dp("1"),
		UnitPrice: dp("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubmit_PublicaEventosDeCambio(t *testing.T) {
	uc, _, _, bus := newTestUseCase(testItem())

	var got []string
	bus.Subscribe(func(ev inventory.Event) { got = append(got, ev.Name) })

	_, fieldErrs, err := uc.Submit(context.Background(), "co-1", "user-1", "item-1", dto.AdjustmentDraftRequest{
		Type:      "purchase",
		Quantity:  dp("2"),
		UnitPrice: dp("3"),
	})
	require.NoError(t, err)
	require.Empty(t, fieldErrs)

	assert.Equal(t, []string{inventory.EventItemChanged, inventory.EventTransactionsChanged}, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recalculate (wire)
// ──────────────────────────────────────────────────────────────────────────────

func TestRecalculate_SincronizaTriangulo(t *testing.T) {
	uc, _, _, _ := newTestUseCase(testItem())

	out := uc.Recalculate(dto.RecalculateRequest{
		Draft:        dto.AdjustmentDraftRequest{Type: "purchase", Quantity: dp("10"), UnitPrice: dp("5"), TotalPrice: dp("50")},
		EditedField:  "total_price",
		EditedValue:  dp("100"),
		CurrentStock: d("10"),
	})

	require.NotNil(t, out.Draft.UnitPrice)
	assert.True(t, out.Draft.UnitPrice.Equal(d("10")))
	require.NotNil(t, out.Draft.TotalPrice)
	assert.True(t, out.Draft.TotalPrice.Equal(d("100")))
}

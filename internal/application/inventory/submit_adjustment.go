package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/adjustment"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/metrics"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// SubmitAdjustmentUseCase aplica ajustes de stock de forma transaccional:
// valida el borrador con el reconciliador, bloquea la fila del artículo
// (SELECT FOR UPDATE), re-valida contra el stock fresco, actualiza stock y
// costos y agrega la transacción al historial. Publica eventos al terminar.
type SubmitAdjustmentUseCase struct {
	txRunner        TxRunner
	itemRepo        repository.ItemRepository
	bus             *EventBus
	overstockFactor decimal.Decimal
}

// NewSubmitAdjustmentUseCase construye el caso de uso.
func NewSubmitAdjustmentUseCase(txRunner TxRunner, itemRepo repository.ItemRepository, bus *EventBus, overstockFactor decimal.Decimal) *SubmitAdjustmentUseCase {
	return &SubmitAdjustmentUseCase{txRunner: txRunner, itemRepo: itemRepo, bus: bus, overstockFactor: overstockFactor}
}

// DraftFromRequest adapta el borrador del wire al tipo de dominio.
func DraftFromRequest(in dto.AdjustmentDraftRequest) adjustment.Draft {
	d := adjustment.Draft{
		Type:       entity.TransactionType(in.Type),
		Quantity:   in.Quantity,
		UnitPrice:  in.UnitPrice,
		TotalPrice: in.TotalPrice,
		Reference:  in.Reference,
		Reason:     in.Reason,
	}
	if in.Date != nil {
		d.Date = *in.Date
	}
	return d
}

func draftToResponse(d adjustment.Draft) dto.AdjustmentDraftRequest {
	out := dto.AdjustmentDraftRequest{
		Type:       string(d.Type),
		Quantity:   d.Quantity,
		UnitPrice:  d.UnitPrice,
		TotalPrice: d.TotalPrice,
		Reference:  d.Reference,
		Reason:     d.Reason,
	}
	if !d.Date.IsZero() {
		date := d.Date
		out.Date = &date
	}
	return out
}

// Recalculate expone el reducer del triángulo cantidad/unitario/total para que
// la UI sincronice campos sin duplicar la aritmética.
func (uc *SubmitAdjustmentUseCase) Recalculate(in dto.RecalculateRequest) dto.RecalculateResponse {
	next := adjustment.Recalculate(
		DraftFromRequest(in.Draft),
		adjustment.Field(in.EditedField),
		in.EditedValue,
		in.CurrentStock,
	)
	return dto.RecalculateResponse{Draft: draftToResponse(next)}
}

// Submit valida el borrador y lo aplica. Devuelve errores por campo cuando la
// validación rechaza (el borrador del cliente queda intacto y reenviable), o
// un error de dominio/persistencia en fallas no atribuibles a un campo.
// Todas las validaciones corren antes de abrir la transacción; el stock
// resultante se re-valida dentro de ella por si cambió entre carga y envío.
func (uc *SubmitAdjustmentUseCase) Submit(
	ctx context.Context,
	companyID, userID, itemID string,
	in dto.AdjustmentDraftRequest,
) (*dto.SubmitAdjustmentResponse, adjustment.FieldErrors, error) {

	draft := DraftFromRequest(in)
	if !draft.Type.Valid() {
		return nil, adjustment.FieldErrors{"type": "tipo de transacción desconocido"}, nil
	}

	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, nil, domain.ErrForbidden
	}

	// Validación completa contra el snapshot cargado, antes de cualquier I/O
	// de escritura: sin envíos parciales.
	if errs := adjustment.Validate(draft, item.StockQuantity); len(errs) > 0 {
		return nil, errs, nil
	}

	now := time.Now()
	var created *entity.StockTransaction
	var fresh *entity.Item
	var staleErrs adjustment.FieldErrors

	err = uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		txnRepo repository.StockTransactionRepository,
	) error {
		// Bloquea la fila del artículo (SELECT FOR UPDATE) y re-valida con el
		// stock fresco: cubre la carrera entre cargar el formulario y enviar.
		// Política: rechazar con error nuevo, nunca re-recortar en silencio.
		locked, err := itemRepo.GetForUpdate(itemID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		if errs := adjustment.Validate(draft, locked.StockQuantity); len(errs) > 0 {
			staleErrs = errs
			return domain.ErrInsufficientStock
		}

		txn := adjustment.BuildTransaction(draft, companyID, itemID, userID, now)
		newQty := locked.StockQuantity.Add(txn.Quantity)
		if newQty.IsNegative() {
			staleErrs = adjustment.FieldErrors{
				"quantity": "stock insuficiente: disponible " + locked.StockQuantity.String(),
			}
			return domain.ErrInsufficientStock
		}
		locked.StockQuantity = newQty

		// Las compras actualizan el costo promedio ponderado y desplazan
		// última compra → compra anterior.
		if draft.Type == entity.TypePurchase && txn.UnitPrice != nil {
			currentCost := decimal.Zero
			if locked.AvgPurchasePrice != nil {
				currentCost = *locked.AvgPurchasePrice
			}
			newCost := metrics.WeightedAverageCost(
				locked.StockQuantity.Sub(txn.Quantity), currentCost,
				txn.Quantity, *txn.UnitPrice,
			)
			locked.PrevPurchasePrice = locked.LastPurchasePrice
			locked.LastPurchasePrice = txn.UnitPrice
			locked.AvgPurchasePrice = &newCost
		}

		locked.UpdatedAt = now
		if err := itemRepo.ApplyAdjustment(locked); err != nil {
			return err
		}
		if err := txnRepo.Create(txn); err != nil {
			return err
		}
		created = txn
		fresh = locked
		return nil
	})
	if err != nil {
		if staleErrs != nil {
			return nil, staleErrs, nil
		}
		return nil, nil, err
	}

	// Eventos explícitos de cambio: las capas que renderizan se suscriben en
	// vez de compartir un caché invalidado a mano.
	uc.bus.Publish(Event{Name: EventItemChanged, CompanyID: companyID, ItemID: itemID})
	uc.bus.Publish(Event{Name: EventTransactionsChanged, CompanyID: companyID, ItemID: itemID})

	return &dto.SubmitAdjustmentResponse{
		Transaction: ToTransactionResponse(created),
		Item:        uc.toItemResponse(fresh),
	}, nil, nil
}

func (uc *SubmitAdjustmentUseCase) toItemResponse(it *entity.Item) dto.ItemResponse {
	status := metrics.Status(it.StockQuantity, it.ReorderPoint, uc.overstockFactor)
	return dto.ItemResponse{
		ID:                it.ID,
		CompanyID:         it.CompanyID,
		CategoryID:        it.CategoryID,
		SKU:               it.SKU,
		Name:              it.Name,
		Description:       it.Description,
		Unit:              it.Unit,
		StockQuantity:     it.StockQuantity,
		ReorderPoint:      it.ReorderPoint,
		SellingPrice:      it.SellingPrice,
		AvgPurchasePrice:  it.AvgPurchasePrice,
		LastPurchasePrice: it.LastPurchasePrice,
		StockStatus:       string(status),
		CreatedAt:         it.CreatedAt,
		UpdatedAt:         it.UpdatedAt,
	}
}

// ToTransactionResponse adapta una transacción persistida al wire.
func ToTransactionResponse(t *entity.StockTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:         t.ID,
		ItemID:     t.ItemID,
		Type:       string(t.Type),
		Quantity:   t.Quantity,
		UnitPrice:  t.UnitPrice,
		TotalPrice: t.TotalPrice,
		Reference:  t.Reference,
		Reason:     t.Reason,
		Date:       t.Date,
		CreatedAt:  t.CreatedAt,
		CreatedBy:  t.CreatedBy,
	}
}

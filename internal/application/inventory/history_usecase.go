package inventory

import (
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// HistoryUseCase consulta el historial de transacciones de un artículo
// (navegación paginada y filas para exportación).
type HistoryUseCase struct {
	itemRepo    repository.ItemRepository
	txnRepo     repository.StockTransactionRepository
	companyRepo repository.CompanyRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(
	itemRepo repository.ItemRepository,
	txnRepo repository.StockTransactionRepository,
	companyRepo repository.CompanyRepository,
) *HistoryUseCase {
	return &HistoryUseCase{itemRepo: itemRepo, txnRepo: txnRepo, companyRepo: companyRepo}
}

// List devuelve el historial paginado del artículo, más reciente primero.
func (uc *HistoryUseCase) List(companyID, itemID string, filter repository.TransactionFilter) (*dto.TransactionListResponse, error) {
	if _, err := uc.ownedItem(companyID, itemID); err != nil {
		return nil, err
	}
	list, total, err := uc.txnRepo.ListByItem(itemID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, ToTransactionResponse(t))
	}
	return &dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}, nil
}

// ExportRows devuelve el artículo y todas las transacciones del filtro (sin
// paginar) para los exportadores CSV/XLSX/PDF.
func (uc *HistoryUseCase) ExportRows(companyID, itemID string, filter repository.TransactionFilter) (*entity.Item, []*entity.StockTransaction, error) {
	item, err := uc.ownedItem(companyID, itemID)
	if err != nil {
		return nil, nil, err
	}
	// Exportación completa: sin límite de página.
	filter.Limit = 0
	filter.Offset = 0
	list, _, err := uc.txnRepo.ListByItem(itemID, filter)
	if err != nil {
		return nil, nil, err
	}
	return item, list, nil
}

// ExportBundle agrega la empresa al resultado de ExportRows; el Kardex PDF
// la imprime en el encabezado.
func (uc *HistoryUseCase) ExportBundle(companyID, itemID string, filter repository.TransactionFilter) (*entity.Company, *entity.Item, []*entity.StockTransaction, error) {
	item, list, err := uc.ExportRows(companyID, itemID, filter)
	if err != nil {
		return nil, nil, nil, err
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, nil, nil, err
	}
	if company == nil {
		return nil, nil, nil, domain.ErrNotFound
	}
	return company, item, list, nil
}

func (uc *HistoryUseCase) ownedItem(companyID, itemID string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

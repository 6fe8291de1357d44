package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/metrics"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para artículos. Stock, costo promedio y
// precios de compra se manejan exclusivamente vía ajustes.
type ItemUseCase struct {
	repo            repository.ItemRepository
	categoryRepo    repository.CategoryRepository
	overstockFactor decimal.Decimal
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, categoryRepo repository.CategoryRepository, overstockFactor decimal.Decimal) *ItemUseCase {
	return &ItemUseCase{repo: repo, categoryRepo: categoryRepo, overstockFactor: overstockFactor}
}

// Create crea un artículo. Stock inicia en 0; los precios de compra se
// construyen con la primera compra.
func (uc *ItemUseCase) Create(companyID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.SellingPrice != nil && in.SellingPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.ReorderPoint != nil && in.ReorderPoint.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCompanyAndSKU(companyID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.CategoryID != "" {
		cat, err := uc.categoryRepo.GetByID(in.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil || cat.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
	}
	if in.Unit == "" {
		in.Unit = "unidad"
	}
	now := time.Now()
	item := &entity.Item{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		CategoryID:    in.CategoryID,
		SKU:           in.SKU,
		Name:          in.Name,
		Description:   in.Description,
		Unit:          in.Unit,
		StockQuantity: decimal.Zero,
		ReorderPoint:  in.ReorderPoint,
		SellingPrice:  in.SellingPrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return uc.toItemResponse(item), nil
}

// GetByID obtiene un artículo por ID, validando la empresa.
func (uc *ItemUseCase) GetByID(companyID, id string) (*dto.ItemResponse, error) {
	item, err := uc.ownedItem(companyID, id)
	if err != nil {
		return nil, err
	}
	return uc.toItemResponse(item), nil
}

// Metrics calcula las métricas derivadas del artículo para render.
// Cálculo puro y reentrante: se puede invocar en cada render sin efectos.
func (uc *ItemUseCase) Metrics(companyID, id string) (*dto.ItemMetricsResponse, error) {
	item, err := uc.ownedItem(companyID, id)
	if err != nil {
		return nil, err
	}
	m := metrics.Calculate(metrics.InputsFromItem(item, uc.overstockFactor))
	return &dto.ItemMetricsResponse{
		ItemID:          item.ID,
		StockStatus:     string(m.Status),
		StockValue:      m.StockValue,
		ProfitPerUnit:   m.ProfitPerUnit,
		MarginPct:       m.MarginPct,
		MarkupPct:       m.MarkupPct,
		MarkupUnbounded: m.MarkupUnbounded,
		LastVsAvgPct:    m.LastVsAvgPct,
		LastVsPrevDelta: m.LastVsPrevDelta,
	}, nil
}

// Update actualiza un artículo (forma completa). No toca stock ni costos.
func (uc *ItemUseCase) Update(companyID, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.ownedItem(companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.CategoryID != nil {
		if *in.CategoryID != "" {
			cat, err := uc.categoryRepo.GetByID(*in.CategoryID)
			if err != nil {
				return nil, err
			}
			if cat == nil || cat.CompanyID != companyID {
				return nil, domain.ErrNotFound
			}
		}
		item.CategoryID = *in.CategoryID
	}
	if in.SellingPrice != nil {
		if in.SellingPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.SellingPrice = in.SellingPrice
	}
	if in.ReorderPoint != nil {
		if in.ReorderPoint.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.ReorderPoint = in.ReorderPoint
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return uc.toItemResponse(item), nil
}

// UpdateReorderPoint forma parcial: solo cambia (o elimina) el punto de reorden.
func (uc *ItemUseCase) UpdateReorderPoint(companyID, id string, in dto.UpdateReorderPointRequest) (*dto.ItemResponse, error) {
	item, err := uc.ownedItem(companyID, id)
	if err != nil {
		return nil, err
	}
	if in.ReorderPoint != nil && in.ReorderPoint.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.repo.UpdateReorderPoint(item.ID, in.ReorderPoint); err != nil {
		return nil, err
	}
	item.ReorderPoint = in.ReorderPoint
	return uc.toItemResponse(item), nil
}

// List lista artículos por empresa con filtro de categoría y búsqueda
// insensible a tildes.
func (uc *ItemUseCase) List(companyID string, filter repository.ItemFilter) (*dto.ItemListResponse, error) {
	list, total, err := uc.repo.ListByCompany(companyID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *uc.toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}, nil
}

// Delete elimina un artículo por ID.
func (uc *ItemUseCase) Delete(companyID, id string) error {
	item, err := uc.ownedItem(companyID, id)
	if err != nil {
		return err
	}
	return uc.repo.Delete(item.ID)
}

// BulkDelete elimina varios artículos de la empresa; devuelve cuántos borró.
func (uc *ItemUseCase) BulkDelete(companyID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, domain.ErrInvalidInput
	}
	return uc.repo.DeleteByIDs(companyID, ids)
}

// ownedItem obtiene el artículo y verifica que pertenezca a la empresa.
func (uc *ItemUseCase) ownedItem(companyID, id string) (*entity.Item, error) {
	item, err := uc.repo.GetByID(id)
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

func (uc *ItemUseCase) toItemResponse(it *entity.Item) *dto.ItemResponse {
	status := metrics.Status(it.StockQuantity, it.ReorderPoint, uc.overstockFactor)
	return &dto.ItemResponse{
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

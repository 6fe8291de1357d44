package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// CategoryUseCase casos de uso CRUD para categorías.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create crea una categoría con código único por empresa.
func (uc *CategoryUseCase) Create(companyID string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.TrimSpace(in.Code)
	if in.Name == "" || in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCompanyAndCode(companyID, in.Code)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	cat := &entity.Category{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		Code:      in.Code,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(cat); err != nil {
		return nil, err
	}
	return toCategoryResponse(cat), nil
}

// List lista categorías de la empresa con paginación.
func (uc *CategoryUseCase) List(companyID string, limit, offset int) (*dto.CategoryListResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCategoryResponse(c))
	}
	return &dto.CategoryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Update actualiza nombre o estado de la categoría.
func (uc *CategoryUseCase) Update(companyID, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	cat, err := uc.ownedCategory(companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		cat.Name = name
	}
	if in.Status != nil {
		if *in.Status != "active" && *in.Status != "inactive" {
			return nil, domain.ErrInvalidInput
		}
		cat.Status = *in.Status
	}
	cat.UpdatedAt = time.Now()
	if err := uc.repo.Update(cat); err != nil {
		return nil, err
	}
	return toCategoryResponse(cat), nil
}

// Delete elimina una categoría sin artículos asociados.
func (uc *CategoryUseCase) Delete(companyID, id string) error {
	cat, err := uc.ownedCategory(companyID, id)
	if err != nil {
		return err
	}
	n, err := uc.repo.CountItems(cat.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrCategoryInUse
	}
	return uc.repo.Delete(cat.ID)
}

func (uc *CategoryUseCase) ownedCategory(companyID, id string) (*entity.Category, error) {
	cat, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, domain.ErrNotFound
	}
	if cat.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return cat, nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Name:      c.Name,
		Code:      c.Code,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

package catalog

import (
	"context"

	"github.com/bodegapro/movimientos-api/internal/application/dto"
	"github.com/bodegapro/movimientos-api/internal/domain"
	"github.com/bodegapro/movimientos-api/internal/domain/repository"
)

// UseCase expone el catálogo de artículos y presentaciones a la capa de
// selección. Las presentaciones con factor de conversión no positivo se
// filtran acá: nunca deben ser seleccionables.
type UseCase struct {
	repo repository.CatalogRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.CatalogRepository) *UseCase {
	return &UseCase{repo: repo}
}

// ListItems lista artículos con búsqueda y paginación.
func (uc *UseCase) ListItems(ctx context.Context, search string, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListItems(ctx, search, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, dto.ItemResponse{
			ID:            it.ID,
			Code:          it.Code,
			Description:   it.Description,
			BaseUnitLabel: it.BaseUnitLabel,
		})
	}
	return &dto.ItemListResponse{Items: items, Limit: page.Limit, Offset: page.Offset}, nil
}

// ListPresentations lista las presentaciones seleccionables de un artículo.
func (uc *UseCase) ListPresentations(ctx context.Context, itemID string) ([]dto.PresentationResponse, error) {
	item, err := uc.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.repo.ListPresentations(ctx, itemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PresentationResponse, 0, len(list))
	for _, p := range list {
		if !p.Selectable() {
			continue
		}
		out = append(out, dto.PresentationResponse{
			ID:               p.ID,
			ItemID:           p.ItemID,
			Name:             p.Name,
			UnitLabel:        p.UnitLabel,
			ConversionFactor: p.ConversionFactor,
		})
	}
	return out, nil
}

package repository

import (
	"context"

	"github.com/bodegapro/movimientos-api/internal/domain/entity"
)

// CatalogRepository define el puerto hacia el catálogo de artículos y sus
// presentaciones. Las implementaciones entregan entidades ya normalizadas al
// modelo canónico y filtradas a registros activos.
type CatalogRepository interface {
	ListItems(ctx context.Context, search string, limit, offset int) ([]*entity.Item, error)
	GetItem(ctx context.Context, id string) (*entity.Item, error)
	ListPresentations(ctx context.Context, itemID string) ([]*entity.Presentation, error)
}

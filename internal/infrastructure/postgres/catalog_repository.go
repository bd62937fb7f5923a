package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bodegapro/movimientos-api/internal/domain/entity"
	"github.com/bodegapro/movimientos-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo implementación de CatalogRepository sobre PostgreSQL (usable con
// pool o tx). Solo entrega registros activos; las presentaciones con factor no
// positivo se excluyen en la consulta.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// ListItems lista artículos activos filtrando por código o descripción.
func (r *CatalogRepo) ListItems(ctx context.Context, search string, limit, offset int) ([]*entity.Item, error) {
	query := `
		SELECT id, code, description, base_unit_label
		FROM items
		WHERE active
		  AND ($1 = '' OR code ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		ORDER BY code
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(&it.ID, &it.Code, &it.Description, &it.BaseUnitLabel); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// GetItem obtiene un artículo activo por ID; nil si no existe.
func (r *CatalogRepo) GetItem(ctx context.Context, id string) (*entity.Item, error) {
	query := `
		SELECT id, code, description, base_unit_label
		FROM items WHERE id = $1 AND active`
	var it entity.Item
	err := r.q.QueryRow(ctx, query, id).Scan(&it.ID, &it.Code, &it.Description, &it.BaseUnitLabel)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// ListPresentations lista las presentaciones activas y seleccionables de un artículo.
func (r *CatalogRepo) ListPresentations(ctx context.Context, itemID string) ([]*entity.Presentation, error) {
	query := `
		SELECT id, item_id, name, unit_label, conversion_factor
		FROM presentations
		WHERE item_id = $1 AND active AND conversion_factor > 0
		ORDER BY name`
	rows, err := r.q.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list presentations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Presentation
	for rows.Next() {
		var p entity.Presentation
		if err := rows.Scan(&p.ID, &p.ItemID, &p.Name, &p.UnitLabel, &p.ConversionFactor); err != nil {
			return nil, fmt.Errorf("scan presentation: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

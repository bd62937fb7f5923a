// Package legacy consume la API REST heredada de catálogo y existencias.
// El backend heredado responde con varias grafías alternas por campo
// (ej. Item_Nombre vs Item_Descripcion vs descripcion); este paquete es el
// único punto de normalización: todo se mapea acá al modelo canónico y el
// motor de líneas nunca ve nombres de campo alternos.
package legacy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bodegapro/movimientos-api/internal/application/catalog"
	"github.com/bodegapro/movimientos-api/internal/domain"
	"github.com/bodegapro/movimientos-api/internal/domain/entity"
	"github.com/bodegapro/movimientos-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*Client)(nil)
var _ repository.StockLookup = (*Client)(nil)

// Client adaptador sobre la API heredada. Implementa catálogo y consulta de
// existencias; el API no pagina, así que búsqueda y paginación se aplican en
// memoria con comparación sin tildes.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient construye el adaptador. baseURL sin slash final.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			// Timeout de red general; las consultas de stock imponen además el
			// context del resolver.
			Timeout: 15 * time.Second,
		},
	}
}

// ListItems lista artículos filtrando por código o descripción (sin tildes,
// sin distinguir mayúsculas) y pagina en memoria.
func (c *Client) ListItems(ctx context.Context, search string, limit, offset int) ([]*entity.Item, error) {
	var raw []map[string]json.RawMessage
	if err := c.getJSON(ctx, c.baseURL+"/items", &raw); err != nil {
		return nil, err
	}
	var all []*entity.Item
	for _, row := range raw {
		it := normalizeItem(row)
		if it.ID == "" {
			continue
		}
		if catalog.Matches(it.Code, search) || catalog.Matches(it.Description, search) {
			all = append(all, it)
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// GetItem obtiene un artículo por ID; nil si el backend responde 404.
func (c *Client) GetItem(ctx context.Context, id string) (*entity.Item, error) {
	var raw map[string]json.RawMessage
	err := c.getJSON(ctx, c.baseURL+"/items/"+url.PathEscape(id), &raw)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return normalizeItem(raw), nil
}

// ListPresentations lista las presentaciones de un artículo. Las de factor no
// positivo o ausente se descartan acá: nunca deben ser seleccionables.
func (c *Client) ListPresentations(ctx context.Context, itemID string) ([]*entity.Presentation, error) {
	var raw []map[string]json.RawMessage
	if err := c.getJSON(ctx, c.baseURL+"/items/"+url.PathEscape(itemID)+"/presentaciones", &raw); err != nil {
		return nil, err
	}
	var list []*entity.Presentation
	for _, row := range raw {
		p := normalizePresentation(row, itemID)
		if p.ID == "" || !p.Selectable() {
			continue
		}
		list = append(list, p)
	}
	return list, nil
}

// GetStock consulta la existencia de un artículo en una bodega. 404 del
// backend = sin registro de stock = domain.ErrNotFound.
func (c *Client) GetStock(ctx context.Context, warehouseID, itemID string) (*entity.StockQuantity, error) {
	q := url.Values{}
	q.Set("bodega_id", warehouseID)
	q.Set("item_id", itemID)
	var raw map[string]json.RawMessage
	if err := c.getJSON(ctx, c.baseURL+"/existencias?"+q.Encode(), &raw); err != nil {
		return nil, err
	}
	return &entity.StockQuantity{
		ItemID:      itemID,
		WarehouseID: warehouseID,
		Quantity:    firstDecimal(raw, "Existencia_Cantidad", "Stock_Cantidad", "cantidad", "stock"),
		AsOf:        time.Now(),
	}, nil
}

// getJSON lanza un GET y decodifica la respuesta. 404 retorna domain.ErrNotFound.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("legacy: armar request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("legacy: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("legacy: status %d: %s", resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("legacy: decodificar respuesta: %w", err)
	}
	return nil
}

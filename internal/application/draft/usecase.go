package draft

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bodegapro/movimientos-api/internal/application/dto"
	"github.com/bodegapro/movimientos-api/internal/domain"
	"github.com/bodegapro/movimientos-api/internal/domain/draft"
	"github.com/bodegapro/movimientos-api/internal/domain/entity"
	"github.com/bodegapro/movimientos-api/internal/domain/repository"
	"github.com/bodegapro/movimientos-api/pkg/logger"
)

// UseCase administra los borradores de movimiento en curso: registro en
// memoria por ID, líneas por artículo, resolución de stock y envío del payload
// canónico al colaborador de registro. Todo estado es explícito y vive en el
// registro del caso de uso; no hay singletons de proceso.
type UseCase struct {
	mu     sync.RWMutex
	drafts map[string]*Draft

	catalog   repository.CatalogRepository
	resolver  *StockResolver
	submitter MovementSubmitter
	log       *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	catalog repository.CatalogRepository,
	resolver *StockResolver,
	submitter MovementSubmitter,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		drafts:    make(map[string]*Draft),
		catalog:   catalog,
		resolver:  resolver,
		submitter: submitter,
		log:       log,
	}
}

// CreateDraft abre un borrador de movimiento. Las bodegas pueden fijarse
// después; sin bodega aplicable las líneas quedan con stock sin resolver.
func (u *UseCase) CreateDraft(in dto.CreateDraftRequest) (*dto.DraftResponse, error) {
	kind := entity.MovementKind(in.Kind)
	if !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	d := &Draft{
		ID:                     uuid.New().String(),
		Kind:                   kind,
		OriginWarehouseID:      in.OriginWarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		Lines:                  draft.NewCollection(),
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	u.mu.Lock()
	u.drafts[d.ID] = d
	u.mu.Unlock()

	u.log.Info().Str("draft_id", d.ID).Str("kind", in.Kind).Msg("borrador de movimiento creado")

	d.Lock()
	defer d.Unlock()
	return u.toDraftResponse(d), nil
}

// GetDraft devuelve la vista completa de un borrador.
func (u *UseCase) GetDraft(draftID string) (*dto.DraftResponse, error) {
	d, err := u.find(draftID)
	if err != nil {
		return nil, err
	}
	d.Lock()
	defer d.Unlock()
	return u.toDraftResponse(d), nil
}

// UpdateDraft modifica la cabecera. Cambiar tipo o bodega re-clasifica todas
// las líneas y re-emite la consulta de stock de cada una (la bodega
// autoritativa puede haber cambiado).
func (u *UseCase) UpdateDraft(draftID string, in dto.UpdateDraftRequest) (*dto.DraftResponse, error) {
	if in.Kind != nil && !entity.MovementKind(*in.Kind).Valid() {
		return nil, domain.ErrInvalidInput
	}
	d, err := u.find(draftID)
	if err != nil {
		return nil, err
	}

	d.Lock()
	defer d.Unlock()

	stockInputsChanged := false
	if in.Kind != nil && entity.MovementKind(*in.Kind) != d.Kind {
		d.Kind = entity.MovementKind(*in.Kind)
		stockInputsChanged = true
	}
	if in.OriginWarehouseID != nil && *in.OriginWarehouseID != d.OriginWarehouseID {
		d.OriginWarehouseID = *in.OriginWarehouseID
		stockInputsChanged = true
	}
	if in.DestinationWarehouseID != nil && *in.DestinationWarehouseID != d.DestinationWarehouseID {
		d.DestinationWarehouseID = *in.DestinationWarehouseID
		stockInputsChanged = true
	}
	if in.Reason != nil {
		d.Reason = *in.Reason
	}
	if in.Notes != nil {
		d.Notes = *in.Notes
	}
	d.UpdatedAt = time.Now()

	if stockInputsChanged {
		d.Lines.Reclassify(d.Kind)
		for _, li := range d.Lines.Lines() {
			u.resolver.Refresh(d, li)
		}
	}
	return u.toDraftResponse(d), nil
}

// AddLine agrega la línea de un artículo no presente (selección duplicada se
// rechaza) y dispara la consulta de stock inicial.
func (u *UseCase) AddLine(ctx context.Context, draftID, itemID string) (*dto.DraftResponse, error) {
	d, err := u.find(draftID)
	if err != nil {
		return nil, err
	}
	item, err := u.catalog.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	d.Lock()
	defer d.Unlock()

	li, err := d.Lines.Add(*item)
	if err != nil {
		return nil, err
	}
	li.Reclassify(d.Kind)
	u.resolver.Refresh(d, li)
	d.UpdatedAt = time.Now()
	return u.toDraftResponse(d), nil
}

// UpdateLine aplica un patch de cantidad/presentación a una línea. Cantidad
// base y cantidad en presentación son excluyentes en un mismo patch (solo uno
// puede ser la fuente de verdad).
func (u *UseCase) UpdateLine(ctx context.Context, draftID, itemID string, in dto.UpdateLineRequest) (*dto.DraftResponse, error) {
	if in.BaseQuantity != nil && in.PresentationQuantity != nil {
		return nil, domain.ErrInvalidInput
	}
	d, err := u.find(draftID)
	if err != nil {
		return nil, err
	}

	// Resolver la presentación fuera del lock (consulta al catálogo).
	var pres *entity.Presentation
	if in.PresentationID != nil && *in.PresentationID != "" {
		pres, err = u.findPresentation(ctx, itemID, *in.PresentationID)
		if err != nil {
			return nil, err
		}
	}

	d.Lock()
	defer d.Unlock()

	li, err := d.Lines.Get(itemID)
	if err != nil {
		return nil, err
	}
	if in.PresentationID != nil {
		if err := li.SetPresentation(pres); err != nil {
			return nil, err
		}
	}
	if in.BaseQuantity != nil {
		li.SetBaseQuantity(*in.BaseQuantity)
	}
	if in.PresentationQuantity != nil {
		if err := li.SetPresentationQuantity(*in.PresentationQuantity); err != nil {
			return nil, err
		}
	}
	li.Reclassify(d.Kind)
	d.UpdatedAt = time.Now()
	return u.toDraftResponse(d), nil
}

// RemoveLine elimina la línea de un artículo.
func (u *UseCase) RemoveLine(draftID, itemID string) (*dto.DraftResponse, error) {
	d, err := u.find(draftID)
	if err != nil {
		return nil, err
	}
	d.Lock()
	defer d.Unlock()
	if err := d.Lines.Remove(itemID); err != nil {
		return nil, err
	}
	d.UpdatedAt = time.Now()
	return u.toDraftResponse(d), nil
}

// RefreshStock re-emite la consulta de stock de una línea (reintento explícito
// del usuario tras una falla del colaborador).
func (u *UseCase) RefreshStock(draftID, itemID string) error {
	d, err := u.find(draftID)
	if err != nil {
		return err
	}
	d.Lock()
	defer d.Unlock()
	li, err := d.Lines.Get(itemID)
	if err != nil {
		return err
	}
	u.resolver.Refresh(d, li)
	return nil
}

// Validate corre la validación agregada del borrador.
func (u *UseCase) Validate(draftID string) (*draft.ValidationResult, error) {
	d, err := u.find(draftID)
	if err != nil {
		return nil, err
	}
	d.Lock()
	defer d.Unlock()
	res := d.Lines.Validate(d.Kind)
	return &res, nil
}

// Submit confirma el movimiento: bloquea si la validación tiene errores, arma
// el payload canónico (cantidades base sin truncar, metadatos de presentación
// opcionales) y lo entrega al servicio de registro. El borrador se destruye al
// confirmarse.
func (u *UseCase) Submit(ctx context.Context, draftID string, in dto.SubmitDraftRequest) (*dto.SubmitDraftResponse, error) {
	d, err := u.find(draftID)
	if err != nil {
		return nil, err
	}

	d.Lock()
	// Re-verificar bajo el mutex del borrador: un Submit concurrente pudo
	// confirmar y destruir este borrador mientras esperábamos el lock.
	u.mu.RLock()
	_, ok := u.drafts[draftID]
	u.mu.RUnlock()
	if !ok {
		d.Unlock()
		return nil, domain.ErrDraftNotFound
	}
	if res := d.Lines.Validate(d.Kind); !res.IsValid {
		d.Unlock()
		return nil, domain.ErrNotSubmittable
	}

	reason := in.Reason
	if reason == "" {
		reason = d.Reason
	}
	notes := in.Notes
	if notes == "" {
		notes = d.Notes
	}
	mov := &entity.Movement{
		ID:                     uuid.New().String(),
		Kind:                   d.Kind,
		OriginWarehouseID:      d.OriginWarehouseID,
		DestinationWarehouseID: d.DestinationWarehouseID,
		Reason:                 reason,
		Notes:                  notes,
		Lines:                  make([]entity.MovementLine, 0, d.Lines.Len()),
		CreatedAt:              time.Now(),
	}
	for _, li := range d.Lines.Lines() {
		line := entity.MovementLine{
			ItemID:       li.ItemID,
			BaseQuantity: li.BaseQuantity,
		}
		if li.Presentation != nil {
			id := li.Presentation.ID
			line.PresentationID = &id
			line.PresentationQuantity = li.PresentationQuantity
		}
		mov.Lines = append(mov.Lines, line)
	}

	if err := u.submitter.Submit(ctx, mov); err != nil {
		d.Unlock()
		return nil, err
	}

	// Destruir antes de soltar el mutex del borrador: así el perdedor de un
	// Submit concurrente ve el registro vacío en su re-verificación.
	u.mu.Lock()
	delete(u.drafts, draftID)
	u.mu.Unlock()
	d.Unlock()

	u.log.Info().
		Str("draft_id", draftID).
		Str("movement_id", mov.ID).
		Str("kind", string(mov.Kind)).
		Int("lines", len(mov.Lines)).
		Msg("movimiento registrado")

	return &dto.SubmitDraftResponse{MovementID: mov.ID}, nil
}

// DiscardDraft destruye un borrador (cierre o reinicio del formulario).
func (u *UseCase) DiscardDraft(draftID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.drafts[draftID]; !ok {
		return domain.ErrDraftNotFound
	}
	delete(u.drafts, draftID)
	return nil
}

// find localiza un borrador por ID sin tomar su mutex.
func (u *UseCase) find(draftID string) (*Draft, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	d, ok := u.drafts[draftID]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	return d, nil
}

// findPresentation busca una presentación del artículo en el catálogo y
// verifica que sea seleccionable.
func (u *UseCase) findPresentation(ctx context.Context, itemID, presentationID string) (*entity.Presentation, error) {
	list, err := u.catalog.ListPresentations(ctx, itemID)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		if p.ID == presentationID {
			if !p.Selectable() {
				return nil, domain.ErrInvalidFactor
			}
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

package draft_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appdraft "github.com/bodegapro/movimientos-api/internal/application/draft"
	"github.com/bodegapro/movimientos-api/internal/application/dto"
	"github.com/bodegapro/movimientos-api/internal/domain"
	"github.com/bodegapro/movimientos-api/internal/domain/entity"
	"github.com/bodegapro/movimientos-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

type fakeCatalog struct {
	items         map[string]*entity.Item
	presentations map[string][]*entity.Presentation
}

func (f *fakeCatalog) ListItems(_ context.Context, _ string, _, _ int) ([]*entity.Item, error) {
	out := make([]*entity.Item, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, it)
	}
	return out, nil
}

func (f *fakeCatalog) GetItem(_ context.Context, id string) (*entity.Item, error) {
	return f.items[id], nil
}

func (f *fakeCatalog) ListPresentations(_ context.Context, itemID string) ([]*entity.Presentation, error) {
	return f.presentations[itemID], nil
}

type stubStockLookup struct {
	mu       sync.Mutex
	quantity decimal.Decimal
	err      error
}

func (s *stubStockLookup) GetStock(_ context.Context, _, _ string) (*entity.StockQuantity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return &entity.StockQuantity{Quantity: s.quantity, AsOf: time.Now()}, nil
}

type captureSubmitter struct {
	mu        sync.Mutex
	submitted *entity.Movement
	calls     int
	err       error
	delay     time.Duration
}

func (c *captureSubmitter) Submit(_ context.Context, mov *entity.Movement) error {
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return c.err
	}
	c.submitted = mov
	return nil
}

func newTestUseCase(t *testing.T) (*appdraft.UseCase, *fakeCatalog, *stubStockLookup, *captureSubmitter) {
	t.Helper()
	catalog := &fakeCatalog{
		items: map[string]*entity.Item{
			"it-1": {ID: "it-1", Code: "HAR-001", Description: "Harina de trigo", BaseUnitLabel: "kg"},
			"it-2": {ID: "it-2", Code: "AZU-001", Description: "Azúcar refinada", BaseUnitLabel: "kg"},
		},
		presentations: map[string][]*entity.Presentation{
			"it-1": {
				{ID: "pr-1", ItemID: "it-1", Name: "Caja", UnitLabel: "caja", ConversionFactor: decimal.NewFromInt(24)},
			},
		},
	}
	lookup := &stubStockLookup{quantity: decimal.NewFromInt(100)}
	submitter := &captureSubmitter{}
	resolver := appdraft.NewStockResolver(lookup, time.Second, logger.Nop())
	uc := appdraft.NewUseCase(catalog, resolver, submitter, logger.Nop())
	return uc, catalog, lookup, submitter
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida del borrador
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateDraft_TipoInvalido(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)

	_, err := uc.CreateDraft(dto.CreateDraftRequest{Kind: "prestamo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateDraft_ArrancaVacioYNoEnviable(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)

	resp, err := uc.CreateDraft(dto.CreateDraftRequest{Kind: "entrada", DestinationWarehouseID: "bodega-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Empty(t, resp.Lines)
	assert.False(t, resp.IsSubmittable, "un borrador sin líneas no es enviable")
}

func TestGetDraft_NoExiste(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)

	_, err := uc.GetDraft("nope")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestDiscardDraft(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)
	resp, err := uc.CreateDraft(dto.CreateDraftRequest{Kind: "entrada"})
	require.NoError(t, err)

	require.NoError(t, uc.DiscardDraft(resp.ID))
	_, err = uc.GetDraft(resp.ID)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)

	assert.ErrorIs(t, uc.DiscardDraft(resp.ID), domain.ErrDraftNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Líneas
// ──────────────────────────────────────────────────────────────────────────────

func TestAddLine_ArticuloInexistente(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)
	d, err := uc.CreateDraft(dto.CreateDraftRequest{Kind: "entrada"})
	require.NoError(t, err)

	_, err = uc.AddLine(context.Background(), d.ID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddLine_RechazaDuplicado(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)
	d, err := uc.CreateDraft(dto.CreateDraftRequest{Kind: "entrada", DestinationWarehouseID: "bodega-1"})
	require.NoError(t, err)

	resp, err := uc.AddLine(context.Background(), d.ID, "it-1")
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)

	_, err = uc.AddLine(context.Background(), d.ID, "it-1")
	assert.ErrorIs(t, err, domain.ErrDuplicateItem)

	got, err := uc.GetDraft(d.ID)
	require.NoError(t, err)
	assert.Len(t, got.Lines, 1, "el duplicado no debe dejar una segunda línea")
}

func TestAddLine_ResuelveStockAsincrono(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)
	d, err := uc.CreateDraft(dto.CreateDraftRequest{Kind: "salida", OriginWarehouseID: "bodega-1"})
	require.NoError(t, err)

	_, err = uc.AddLine(context.Background(), d.ID, "it-1")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, err := uc.GetDraft(d.ID)
		return err == nil && len(got.Lines) == 1 && got.Lines[0].StockOnHand != nil
	}, time.Second, 5*time.Millisecond, "el stock de la línea debe resolverse")

	got, err := uc.GetDraft(d.ID)
	require.NoError(t, err)
	assert.True(t, got.Lines[0].StockOnHand.Equal(decimal.NewFromInt(100)))
}

func TestUpdateLine_CantidadesExcluyentes(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)
	d, err := uc.CreateDraft(dto.CreateDraftRequest{Kind: "entrada"})
	require.NoError(t, err)
	_, err = uc.AddLine(context.Background(), d.ID, "it-1")
	require.NoError(t, err)

	base := decimal.NewFromInt(5)
	pres := decimal.NewFromInt(2)
	_, err = uc.UpdateLine(context.Background(), d.ID, "it-1", dto.UpdateLineRequest{
		BaseQuantity:         &base,
		PresentationQuantity: &pres,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"solo una cantidad puede ser fuente de verdad por patch")
}

func TestUpdateLine_PresentacionDerivaBase(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)
	d, err := uc.CreateDraft(dto.CreateDraftRequest{Kind: "entrada", DestinationWarehouseID: "bodega-1"})
	require.NoError(t, err)
	_, err = uc.AddLine(context.Background(), d.ID, "it-1")
	require.NoError(t, err)

	presID := "pr-1"
	qty := decimal.NewFromInt(2)
	resp, err := uc.UpdateLine(context.Background(), d.ID, "it-1", dto.UpdateLineRequest{
		PresentationID:       &presID,
		PresentationQuantity: &qty,
	})
	require.NoError(t, err)

	line := resp.Lines[0]
	assert.True(t, line.BaseQuantity.Equal(decimal.NewFromInt(48)))
	assert.Equal(t, "48", line.BaseQuantityDisplay)
	require.NotNil(t, line.PresentationID)
	assert.Equal(t, "pr-1", *line.PresentationID)
}

func TestUpdateLine_PresentacionInexistente(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)
	d, err := uc.CreateDraft(dto.CreateDraftRequest{Kind: "entrada"})
	require.NoError(t, err)
	_, err = uc.AddLine(context.Background(), d.ID, "it-1")
	require.NoError(t, err)

	presID := "no-existe"
	_, err = uc.UpdateLine(context.Background(), d.ID, "it-1", dto.UpdateLineRequest{PresentationID: &presID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveLine(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)
	d, err := uc.CreateDraft(dto.CreateDraftRequest{Kind: "entrada"})
	require.NoError(t, err)
	_, err = uc.AddLine(context.Background(), d.ID, "it-1")
	require.NoError(t, err)

	resp, err := uc.RemoveLine(d.ID, "it-1")
	require.NoError(t, err)
	assert.Empty(t, resp.Lines)

	_, err = uc.RemoveLine(d.ID, "it-1")
	assert.ErrorIs(t, err, domain.ErrUnknownLineItem)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cambio de cabecera y re-resolución
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateDraft_CambioDeBodegaReResuelve(t *testing.T) {
	uc, _, lookup, _ := newTestUseCase(t)
	d, err := uc.CreateDraft(dto.CreateDraftRequest{Kind: "salida", OriginWarehouseID: "bodega-1"})
	require.NoError(t, err)
	_, err = uc.AddLine(context.Background(), d.ID, "it-1")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, err := uc.GetDraft(d.ID)
		return err == nil && got.Lines[0].StockOnHand != nil
	}, time.Second, 5*time.Millisecond)

	lookup.mu.Lock()
	lookup.quantity = decimal.NewFromInt(3)
	lookup.mu.Unlock()

	otra := "bodega-2"
	_, err = uc.UpdateDraft(d.ID, dto.UpdateDraftRequest{OriginWarehouseID: &otra})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, err := uc.GetDraft(d.ID)
		return err == nil && got.Lines[0].StockOnHand != nil &&
			got.Lines[0].StockOnHand.Equal(decimal.NewFromInt(3))
	}, time.Second, 5*time.Millisecond, "el cambio de bodega debe re-consultar el stock")
}

// ──────────────────────────────────────────────────────────────────────────────
// Envío
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_BloqueaBorradorInvalido(t *testing.T) {
	uc, _, _, submitter := newTestUseCase(t)
	d, err := uc.CreateDraft(dto.CreateDraftRequest{Kind: "entrada", DestinationWarehouseID: "bodega-1"})
	require.NoError(t, err)

	// Sin líneas: la validación agregada tiene errores.
	_, err = uc.Submit(context.Background(), d.ID, dto.SubmitDraftRequest{})
	assert.ErrorIs(t, err, domain.ErrNotSubmittable)
	assert.Nil(t, submitter.submitted)

	// El borrador sobrevive al intento fallido.
	_, err = uc.GetDraft(d.ID)
	assert.NoError(t, err)
}

// El payload canónico lleva cantidades base sin truncar y los metadatos de la
// presentación con la que se capturó cada línea; el borrador se destruye al
// confirmarse.
func TestSubmit_PayloadCanonicoYDestruccion(t *testing.T) {
	uc, _, _, submitter := newTestUseCase(t)
	d, err := uc.CreateDraft(dto.CreateDraftRequest{Kind: "entrada", DestinationWarehouseID: "bodega-1"})
	require.NoError(t, err)
	_, err = uc.AddLine(context.Background(), d.ID, "it-1")
	require.NoError(t, err)

	presID := "pr-1"
	qty := decimal.RequireFromString("1.23456789")
	_, err = uc.UpdateLine(context.Background(), d.ID, "it-1", dto.UpdateLineRequest{
		PresentationID:       &presID,
		PresentationQuantity: &qty,
	})
	require.NoError(t, err)

	resp, err := uc.Submit(context.Background(), d.ID, dto.SubmitDraftRequest{Reason: "compra"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.MovementID)

	submitter.mu.Lock()
	mov := submitter.submitted
	submitter.mu.Unlock()
	require.NotNil(t, mov)
	assert.Equal(t, entity.KindEntrada, mov.Kind)
	assert.Equal(t, "bodega-1", mov.DestinationWarehouseID)
	assert.Equal(t, "compra", mov.Reason)
	require.Len(t, mov.Lines, 1)

	line := mov.Lines[0]
	assert.Equal(t, "it-1", line.ItemID)
	// 1.23456789 x 24, sin redondear a 4 decimales.
	assert.True(t, line.BaseQuantity.Equal(decimal.RequireFromString("29.62962936")),
		"la cantidad base viaja sin truncar, fue %s", line.BaseQuantity)
	require.NotNil(t, line.PresentationID)
	assert.Equal(t, "pr-1", *line.PresentationID)
	require.NotNil(t, line.PresentationQuantity)
	assert.True(t, line.PresentationQuantity.Equal(qty))

	_, err = uc.GetDraft(d.ID)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound, "el borrador confirmado se destruye")
}

// Dos Submit concurrentes del mismo borrador: solo uno registra el movimiento;
// el otro encuentra el borrador ya destruido. Nunca se aplica dos veces.
func TestSubmit_ConcurrenteRegistraUnaSolaVez(t *testing.T) {
	uc, _, _, submitter := newTestUseCase(t)
	submitter.delay = 50 * time.Millisecond

	d, err := uc.CreateDraft(dto.CreateDraftRequest{Kind: "entrada", DestinationWarehouseID: "bodega-1"})
	require.NoError(t, err)
	_, err = uc.AddLine(context.Background(), d.ID, "it-1")
	require.NoError(t, err)
	base := decimal.NewFromInt(5)
	_, err = uc.UpdateLine(context.Background(), d.ID, "it-1", dto.UpdateLineRequest{BaseQuantity: &base})
	require.NoError(t, err)

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := uc.Submit(context.Background(), d.ID, dto.SubmitDraftRequest{Reason: "compra"})
			errs <- err
		}()
	}
	first, second := <-errs, <-errs

	okCount := 0
	for _, err := range []error{first, second} {
		if err == nil {
			okCount++
		} else {
			assert.ErrorIs(t, err, domain.ErrDraftNotFound,
				"el perdedor debe ver el borrador ya destruido")
		}
	}
	assert.Equal(t, 1, okCount, "exactamente un Submit debe ganar")

	submitter.mu.Lock()
	defer submitter.mu.Unlock()
	assert.Equal(t, 1, submitter.calls, "el movimiento debe registrarse una sola vez")
}

func TestSubmit_FallaDelRegistroConservaElBorrador(t *testing.T) {
	uc, _, _, submitter := newTestUseCase(t)
	submitter.err = domain.ErrInsufficientStock

	d, err := uc.CreateDraft(dto.CreateDraftRequest{Kind: "entrada", DestinationWarehouseID: "bodega-1"})
	require.NoError(t, err)
	_, err = uc.AddLine(context.Background(), d.ID, "it-1")
	require.NoError(t, err)
	base := decimal.NewFromInt(5)
	_, err = uc.UpdateLine(context.Background(), d.ID, "it-1", dto.UpdateLineRequest{BaseQuantity: &base})
	require.NoError(t, err)

	_, err = uc.Submit(context.Background(), d.ID, dto.SubmitDraftRequest{})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = uc.GetDraft(d.ID)
	assert.NoError(t, err, "el borrador debe poder corregirse y reintentarse")
}

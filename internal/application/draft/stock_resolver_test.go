package draft

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodegapro/movimientos-api/internal/domain"
	domaindraft "github.com/bodegapro/movimientos-api/internal/domain/draft"
	"github.com/bodegapro/movimientos-api/internal/domain/entity"
	"github.com/bodegapro/movimientos-api/internal/domain/movement"
	"github.com/bodegapro/movimientos-api/pkg/logger"
)

// fakeStockLookup devuelve la respuesta programada; protege con mutex porque
// el resolver consulta desde goroutines.
type fakeStockLookup struct {
	mu     sync.Mutex
	result *entity.StockQuantity
	err    error
	calls  int
}

func (f *fakeStockLookup) GetStock(_ context.Context, warehouseID, itemID string) (*entity.StockQuantity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeStockLookup) set(result *entity.StockQuantity, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result = result
	f.err = err
}

func stockQty(s string) *entity.StockQuantity {
	return &entity.StockQuantity{Quantity: decimal.RequireFromString(s), AsOf: time.Now()}
}

func newTestDraft(kind entity.MovementKind, origin, dest string) (*Draft, *domaindraft.LineItem) {
	d := &Draft{
		ID:                     "d-1",
		Kind:                   kind,
		OriginWarehouseID:      origin,
		DestinationWarehouseID: dest,
		Lines:                  domaindraft.NewCollection(),
	}
	li, _ := d.Lines.Add(entity.Item{ID: "it-1", Code: "HAR-001", BaseUnitLabel: "kg"})
	return d, li
}

// ──────────────────────────────────────────────────────────────────────────────
// Descarte de respuestas obsoletas
// ──────────────────────────────────────────────────────────────────────────────

// Dos consultas en vuelo para la misma línea: si la de secuencia 1 resuelve
// después que la de secuencia 2, su resultado se descarta y el stock de la
// línea queda con el valor de la secuencia 2.
func TestFetch_DescartaRespuestaObsoleta(t *testing.T) {
	lookup := &fakeStockLookup{}
	r := NewStockResolver(lookup, time.Second, logger.Nop())
	d, li := newTestDraft(entity.KindSalida, "bodega-1", "")

	seq1 := li.NextStockSeq()
	seq2 := li.NextStockSeq()

	// La consulta más nueva resuelve primero con stock 7.
	lookup.set(stockQty("7"), nil)
	r.fetch(d, li, "bodega-1", seq2)

	// La consulta vieja llega tarde con stock 3: debe descartarse.
	lookup.set(stockQty("3"), nil)
	r.fetch(d, li, "bodega-1", seq1)

	require.NotNil(t, li.StockOnHand)
	assert.True(t, li.StockOnHand.Equal(decimal.NewFromInt(7)),
		"debe conservarse el resultado de la secuencia más reciente, fue %s", li.StockOnHand)
	assert.False(t, li.StockStale)
}

// Quitar la bodega mientras hay una consulta en vuelo: el borrado (stock nil)
// también avanza la secuencia, así que la respuesta tardía de la bodega
// anterior se descarta y la línea queda con stock sin resolver.
func TestRefresh_QuitarBodegaInvalidaConsultasEnVuelo(t *testing.T) {
	lookup := &fakeStockLookup{}
	r := NewStockResolver(lookup, time.Second, logger.Nop())
	d, li := newTestDraft(entity.KindSalida, "bodega-1", "")

	// Consulta en vuelo contra la bodega original.
	seq1 := li.NextStockSeq()

	// El usuario quita la bodega origen antes de que resuelva.
	d.OriginWarehouseID = ""
	d.Lock()
	r.Refresh(d, li)
	d.Unlock()
	assert.Nil(t, li.StockOnHand)

	// La respuesta tardía de la bodega removida llega con stock 50.
	lookup.set(stockQty("50"), nil)
	r.fetch(d, li, "bodega-1", seq1)

	assert.Nil(t, li.StockOnHand,
		"la respuesta de una bodega que ya no aplica no debe sobreescribir el borrado")
	assert.Equal(t, movement.StatusEmpty, li.Status)
}

// Sin registro de stock (ErrNotFound) la existencia es cero, no un error.
func TestFetch_SinRegistroEsCero(t *testing.T) {
	lookup := &fakeStockLookup{err: domain.ErrNotFound}
	r := NewStockResolver(lookup, time.Second, logger.Nop())
	d, li := newTestDraft(entity.KindSalida, "bodega-1", "")
	li.SetBaseQuantity(decimal.NewFromInt(5))

	seq := li.NextStockSeq()
	r.fetch(d, li, "bodega-1", seq)

	require.NotNil(t, li.StockOnHand)
	assert.True(t, li.StockOnHand.IsZero(), "sin fila de stock la cantidad es cero")
	assert.False(t, li.StockStale)
	assert.Equal(t, movement.StatusInsufficient, li.Status,
		"salida de 5 con stock cero debe clasificar insufficient")
}

// Falla del colaborador: se conserva el valor anterior y la cifra queda
// marcada como desactualizada.
func TestFetch_FallaConservaValorAnterior(t *testing.T) {
	lookup := &fakeStockLookup{}
	r := NewStockResolver(lookup, time.Second, logger.Nop())
	d, li := newTestDraft(entity.KindSalida, "bodega-1", "")

	lookup.set(stockQty("12"), nil)
	r.fetch(d, li, "bodega-1", li.NextStockSeq())
	require.NotNil(t, li.StockOnHand)

	lookup.set(nil, errors.New("colaborador caído"))
	r.fetch(d, li, "bodega-1", li.NextStockSeq())

	require.NotNil(t, li.StockOnHand, "la falla no borra el valor anterior")
	assert.True(t, li.StockOnHand.Equal(decimal.NewFromInt(12)))
	assert.True(t, li.StockStale, "la cifra debe marcarse como desactualizada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Refresh
// ──────────────────────────────────────────────────────────────────────────────

// Sin bodega aplicable no se consulta nada: stock queda en nil y la línea se
// re-clasifica como empty (cifra desconocida).
func TestRefresh_SinBodegaNoConsulta(t *testing.T) {
	lookup := &fakeStockLookup{result: stockQty("99")}
	r := NewStockResolver(lookup, time.Second, logger.Nop())
	d, li := newTestDraft(entity.KindSalida, "", "")
	li.SetBaseQuantity(decimal.NewFromInt(5))

	d.Lock()
	r.Refresh(d, li)
	d.Unlock()

	assert.Nil(t, li.StockOnHand)
	assert.Equal(t, movement.StatusEmpty, li.Status)
	lookup.mu.Lock()
	defer lookup.mu.Unlock()
	assert.Zero(t, lookup.calls, "sin bodega no debe consultarse el colaborador")
}

// Con bodega aplicable la consulta es asíncrona y termina aplicando el stock y
// re-clasificando la línea.
func TestRefresh_ConsultaAsincrona(t *testing.T) {
	lookup := &fakeStockLookup{result: stockQty("10")}
	r := NewStockResolver(lookup, time.Second, logger.Nop())
	d, li := newTestDraft(entity.KindSalida, "bodega-1", "")
	li.SetBaseQuantity(decimal.NewFromInt(10))

	d.Lock()
	r.Refresh(d, li)
	d.Unlock()

	require.Eventually(t, func() bool {
		d.Lock()
		defer d.Unlock()
		return li.StockOnHand != nil
	}, time.Second, 5*time.Millisecond, "la consulta debe resolverse")

	d.Lock()
	defer d.Unlock()
	assert.True(t, li.StockOnHand.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, movement.StatusAtLimit, li.Status)
}

package adjustment_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain/adjustment"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Recorrido completo feliz: capturar, enviar y quedar en success.
func TestSession_FlujoCompleto(t *testing.T) {
	s := adjustment.NewSession(entity.TypePurchase, d("100"))
	assert.Equal(t, adjustment.StateEditing, s.State())

	s.Edit(adjustment.FieldQuantity, dp("10"))
	s.Edit(adjustment.FieldUnitPrice, dp("5"))
	s.SetReference("OC-1042")

	var persisted adjustment.Draft
	ok := s.Submit(func(d adjustment.Draft) error {
		persisted = d
		return nil
	})

	require.True(t, ok)
	assert.Equal(t, adjustment.StateSuccess, s.State())
	assert.Nil(t, s.FieldErrors())
	assert.NoError(t, s.LastError())
	require.NotNil(t, persisted.TotalPrice)
	assert.True(t, persisted.TotalPrice.Equal(d("50")))
	assert.Equal(t, "OC-1042", persisted.Reference)
}

// Rechazo de validación: la sesión vuelve a editing con el borrador intacto,
// el usuario corrige y reenvía con éxito.
func TestSession_RechazoCorregirYReenviar(t *testing.T) {
	s := adjustment.NewSession(entity.TypeSale, d("30"))
	s.Edit(adjustment.FieldUnitPrice, dp("4"))
	// Borrador inválido: cantidad sin capturar.

	ok := s.Submit(func(adjustment.Draft) error {
		t.Fatal("no debe llegar a persistir un borrador inválido")
		return nil
	})

	require.False(t, ok)
	assert.Equal(t, adjustment.StateEditing, s.State())
	assert.True(t, s.FieldErrors().Has("quantity"))

	// Corrige y reenvía.
	s.Edit(adjustment.FieldQuantity, dp("10"))
	ok = s.Submit(func(adjustment.Draft) error { return nil })
	require.True(t, ok)
	assert.Equal(t, adjustment.StateSuccess, s.State())
}

// Fallo externo de persistencia: el error se conserva verbatim, el borrador no
// se pierde y la sesión permite reintentar.
func TestSession_FalloDePersistencia_ConservaBorrador(t *testing.T) {
	s := adjustment.NewSession(entity.TypePurchase, d("100"))
	s.Edit(adjustment.FieldQuantity, dp("4"))
	s.Edit(adjustment.FieldUnitPrice, dp("25"))

	boom := errors.New("conexión rechazada")
	ok := s.Submit(func(adjustment.Draft) error { return boom })

	require.False(t, ok)
	assert.Equal(t, adjustment.StateEditing, s.State())
	assert.Same(t, boom, s.LastError(), "el error externo se expone tal cual")

	draft := s.Draft()
	require.NotNil(t, draft.Quantity)
	assert.True(t, draft.Quantity.Equal(d("4")), "el borrador sobrevive al fallo")

	// Reintento exitoso limpia el error.
	ok = s.Submit(func(adjustment.Draft) error { return nil })
	require.True(t, ok)
	assert.NoError(t, s.LastError())
}

// Tras success la sesión es terminal: ni ediciones ni reenvíos.
func TestSession_SuccessEsTerminal(t *testing.T) {
	s := adjustment.NewSession(entity.TypeOtherAddition, d("0"))
	s.Edit(adjustment.FieldQuantity, dp("3"))
	require.True(t, s.Submit(func(adjustment.Draft) error { return nil }))

	s.Edit(adjustment.FieldQuantity, dp("999"))
	assert.True(t, s.Draft().Quantity.Equal(d("3")), "editar tras success no tiene efecto")
	assert.False(t, s.Submit(func(adjustment.Draft) error { return nil }))
	assert.Equal(t, adjustment.StateSuccess, s.State())
}

// Las salidas se recortan al stock disponible durante la captura.
func TestSession_EditRecortaSalidasAlStock(t *testing.T) {
	s := adjustment.NewSession(entity.TypeDamaged, d("8"))
	s.Edit(adjustment.FieldQuantity, dp("20"))
	s.Edit(adjustment.FieldUnitPrice, dp("2"))
	s.SetReason("caja aplastada en bodega")

	require.NotNil(t, s.Draft().Quantity)
	assert.True(t, s.Draft().Quantity.Equal(d("8")))

	require.True(t, s.Submit(func(adjustment.Draft) error { return nil }))
}

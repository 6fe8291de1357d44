package textutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/almacen-api/pkg/textutil"
)

func TestNormalizeSearch_QuitaTildesYMayusculas(t *testing.T) {
	cases := map[string]string{
		"Canería":          "caneria",
		"TORNILLO  Ñoño":   "tornillo  nono",
		"Lámpara LED 12V":  "lampara led 12v",
		"útil":             "util",
		"sin-tildes_123":   "sin-tildes_123",
		"":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, textutil.NormalizeSearch(in), "entrada %q", in)
	}
}

func TestNormalizeSearch_BusquedaCoincideConYSinTildes(t *testing.T) {
	// La misma consulta escrita con o sin tildes normaliza igual.
	assert.Equal(t,
		textutil.NormalizeSearch("lámpara"),
		textutil.NormalizeSearch("LAMPARA"))
}

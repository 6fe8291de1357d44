// Package textutil utilidades de normalización de texto para búsqueda.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var removeDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeSearch elimina diacríticos y pasa a minúsculas, de modo que
// "Azúcar" y "azucar" coincidan en búsquedas. Ante un input no transformable
// devuelve el original en minúsculas.
func NormalizeSearch(s string) string {
	out, _, err := transform.String(removeDiacritics, strings.TrimSpace(s))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return strings.ToLower(out)
}

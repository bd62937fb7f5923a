package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer descompone a NFD, elimina marcas diacríticas y recompone.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold normaliza un texto para búsqueda: minúsculas y sin tildes/diacríticos
// ("Azúcar" -> "azucar"). Se usa en la frontera de búsqueda del catálogo; el
// motor de líneas nunca ve texto sin normalizar.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// Matches indica si el texto contiene el término buscado, ignorando
// mayúsculas y tildes. Término vacío empata con todo.
func Matches(text, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(Fold(text), Fold(term))
}

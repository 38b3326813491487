package inventory

import (
	"fmt"
	"strings"

	"github.com/jhoicas/estoque-api/internal/domain"
)

// typeTagLen caracteres tomados de cada palabra del tipo.
const typeTagLen = 3

// GenerateCode deriva el código legible de un material:
// iniciales del nombre + "-" + primeras tres letras de cada palabra del tipo + "-" + secuencia de 4 dígitos.
// La secuencia es existingCount+1. Nombre o tipo vacíos devuelven ErrValidation.
//
//	GenerateCode("Martelo Grande", "Ferramenta Manual", 3) == "MG-FERMAN-0004"
func GenerateCode(name, materialType string, existingCount int64) (string, error) {
	nameTokens := strings.Fields(name)
	typeTokens := strings.Fields(materialType)
	if len(nameTokens) == 0 || len(typeTokens) == 0 {
		return "", fmt.Errorf("%w: nombre y tipo son requeridos para generar el código", domain.ErrValidation)
	}
	if existingCount < 0 {
		return "", fmt.Errorf("%w: contador de secuencia negativo", domain.ErrValidation)
	}

	var acronym strings.Builder
	for _, t := range nameTokens {
		acronym.WriteString(prefix(t, 1))
	}
	var tag strings.Builder
	for _, t := range typeTokens {
		tag.WriteString(prefix(t, typeTagLen))
	}

	return fmt.Sprintf("%s-%s-%04d",
		strings.ToUpper(acronym.String()),
		strings.ToUpper(tag.String()),
		existingCount+1,
	), nil
}

// prefix devuelve las primeras n runas de s (s completo si es más corto).
func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

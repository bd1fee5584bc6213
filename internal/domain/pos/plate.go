package pos

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizePlate deja la placa en mayúsculas y con un solo espacio entre bloques ("b  1234 abc" → "B 1234 ABC").
// Se usa al guardar y al buscar historial de vehículo.
func NormalizePlate(plate string) string {
	fields := strings.Fields(plate)
	if len(fields) == 0 {
		return ""
	}
	// Caser no es seguro entre goroutines: uno por llamada.
	return cases.Upper(language.Indonesian).String(strings.Join(fields, " "))
}

// NormalizePlatePtr igual que NormalizePlate; nil o vacío devuelve nil.
func NormalizePlatePtr(plate *string) *string {
	if plate == nil {
		return nil
	}
	n := NormalizePlate(*plate)
	if n == "" {
		return nil
	}
	return &n
}

// Package taxid valida identificadores fiscales españoles: NIF (DNI), NIE y CIF.
package taxid

import (
	"fmt"
	"strings"
	"unicode"
)

// letras de control del NIF/NIE, indexadas por número % 23.
const nifLetters = "TRWAGMYFPDXBNJZSQVHLCKE"

// letras de control del CIF, indexadas por el dígito calculado.
const cifLetters = "JABCDEFGHI"

// Normalize pasa a mayúsculas y quita espacios, puntos y guiones: "b-12.345.678" → "B12345678".
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// Validate comprueba el formato y el carácter de control de un NIF, NIE o CIF.
func Validate(s string) error {
	id := Normalize(s)
	if len(id) != 9 {
		return fmt.Errorf("taxid: se esperaban 9 caracteres, se recibieron %d", len(id))
	}
	switch first := id[0]; {
	case first >= '0' && first <= '9':
		return validateNIF(id)
	case first == 'X' || first == 'Y' || first == 'Z':
		// NIE: X=0, Y=1, Z=2 y luego igual que el NIF.
		return validateNIF(string(rune('0'+strings.IndexByte("XYZ", first))) + id[1:])
	case strings.IndexByte("ABCDEFGHJNPQRSUVW", first) >= 0:
		return validateCIF(id)
	default:
		return fmt.Errorf("taxid: letra inicial %c no válida", first)
	}
}

// Valid atajo booleano de Validate.
func Valid(s string) bool { return Validate(s) == nil }

func validateNIF(id string) error {
	n, ok := atoi(id[:8])
	if !ok {
		return fmt.Errorf("taxid: %s debe tener 8 dígitos antes de la letra", id)
	}
	expected := nifLetters[n%23]
	if id[8] != expected {
		return fmt.Errorf("taxid: letra de control inválida: esperada %c, recibida %c", expected, id[8])
	}
	return nil
}

func validateCIF(id string) error {
	digits := id[1:8]
	if _, ok := atoi(digits); !ok {
		return fmt.Errorf("taxid: %s debe tener 7 dígitos tras la letra", id)
	}
	var sum int
	for i := 0; i < len(digits); i++ {
		d := int(digits[i] - '0')
		if i%2 == 0 {
			// posiciones impares: se dobla y se suman las cifras.
			d *= 2
			d = d/10 + d%10
		}
		sum += d
	}
	control := (10 - sum%10) % 10
	asDigit, asLetter := byte('0'+control), cifLetters[control]

	got := id[8]
	switch {
	case strings.IndexByte("KPQRSNW", id[0]) >= 0:
		if got == asLetter {
			return nil
		}
	case strings.IndexByte("ABEH", id[0]) >= 0:
		if got == asDigit {
			return nil
		}
	default:
		if got == asDigit || got == asLetter {
			return nil
		}
	}
	return fmt.Errorf("taxid: carácter de control del CIF inválido: esperado %c o %c, recibido %c", asDigit, asLetter, got)
}

func atoi(s string) (int, bool) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// Package deliverynote reglas puras del albarán: importe total y formato de numeración.
package deliverynote

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
)

// Total Σ horas*tarifa + Σ cantidad*precio. Tarifas y precios ausentes cuentan como 0.
func Total(hours []entity.WorkedHours, materials []entity.Material) decimal.Decimal {
	total := decimal.Zero
	for _, h := range hours {
		if h.HourlyRate == nil {
			continue
		}
		total = total.Add(h.Hours.Mul(*h.HourlyRate))
	}
	for _, m := range materials {
		if m.Price == nil {
			continue
		}
		total = total.Add(m.Quantity.Mul(*m.Price))
	}
	return total
}

// NumberPrefix prefijo de todos los números de albarán.
const NumberPrefix = "ALB"

// FormatNumber devuelve ALB-<año>-<secuencia con al menos 4 dígitos>.
func FormatNumber(year, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", NumberPrefix, year, seq)
}

// ParseSequence extrae la secuencia de un número ALB-<año>-NNNN del año dado.
func ParseSequence(number string, year int) (int, bool) {
	prefix := fmt.Sprintf("%s-%d-", NumberPrefix, year)
	if !strings.HasPrefix(number, prefix) {
		return 0, false
	}
	seq, err := strconv.Atoi(number[len(prefix):])
	if err != nil || seq <= 0 {
		return 0, false
	}
	return seq, true
}

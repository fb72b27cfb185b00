package deliverynote

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestTotal_HorasYMateriales(t *testing.T) {
	hours := []entity.WorkedHours{{Person: "Ana", Hours: dec("8"), HourlyRate: ptr("20")}}
	materials := []entity.Material{{Name: "Tornillos", Quantity: dec("5"), Price: ptr("10")}}

	assert.True(t, dec("210").Equal(Total(hours, materials)), "got %s", Total(hours, materials))
}

func TestTotal_TarifaAusenteCuentaCero(t *testing.T) {
	hours := []entity.WorkedHours{
		{Person: "Ana", Hours: dec("3")},
		{Person: "Luis", Hours: dec("2"), HourlyRate: ptr("30")},
	}
	materials := []entity.Material{{Name: "Cinta", Quantity: dec("7")}}

	assert.True(t, dec("60").Equal(Total(hours, materials)))
}

func TestTotal_VariasLineas(t *testing.T) {
	hours := []entity.WorkedHours{
		{Person: "Ana", Hours: dec("3"), HourlyRate: ptr("20")},
		{Person: "Luis", Hours: dec("2"), HourlyRate: ptr("30")},
	}
	materials := []entity.Material{
		{Name: "Tornillos", Quantity: dec("10"), Price: ptr("5")},
		{Name: "Cable", Quantity: dec("4"), Price: ptr("12.5")},
	}

	assert.True(t, dec("220").Equal(Total(hours, materials)))
}

func TestTotal_Vacio(t *testing.T) {
	assert.True(t, Total(nil, nil).IsZero())
}

func TestTotal_Decimales(t *testing.T) {
	hours := []entity.WorkedHours{{Hours: dec("0.1"), HourlyRate: ptr("0.2")}}
	materials := []entity.Material{{Quantity: dec("3"), Price: ptr("0.1")}}

	assert.Equal(t, "0.32", Total(hours, materials).String())
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "ALB-2026-0001", FormatNumber(2026, 1))
	assert.Equal(t, "ALB-2026-0042", FormatNumber(2026, 42))
	assert.Equal(t, "ALB-2025-12345", FormatNumber(2025, 12345))
}

func TestParseSequence(t *testing.T) {
	seq, ok := ParseSequence("ALB-2026-0042", 2026)
	assert.True(t, ok)
	assert.Equal(t, 42, seq)

	seq, ok = ParseSequence(FormatNumber(2025, 12345), 2025)
	assert.True(t, ok)
	assert.Equal(t, 12345, seq)

	for _, bad := range []string{"ALB-2025-0001", "ALB-2026-", "ALB-2026-abc", "FAC-2026-0001", "ALB-2026-0000"} {
		_, ok = ParseSequence(bad, 2026)
		assert.False(t, ok, bad)
	}
}

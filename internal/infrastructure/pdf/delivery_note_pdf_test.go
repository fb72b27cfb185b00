package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Albaranes-api/internal/application/deliverynote"
	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
)

func TestMarotoRenderer_Render(t *testing.T) {
	rate := decimal.NewFromInt(20)
	price := decimal.NewFromInt(10)
	note := &entity.DeliveryNote{
		Number:      "ALB-2026-0001",
		Date:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		WorkedHours: []entity.WorkedHours{{Person: "Ana", Hours: decimal.NewFromInt(8), HourlyRate: &rate}},
		Materials:   []entity.Material{{Name: "Cemento", Quantity: decimal.NewFromInt(5), Price: &price}},
		TotalAmount: decimal.NewFromInt(210),
		Signature:   &entity.Signature{ImageURL: "https://gw/ipfs/cid", Signer: "Cliente", Date: time.Now()},
	}
	data := deliverynote.PDFData{
		Note:    note,
		Project: &entity.Project{Name: "Reforma"},
		Client:  &entity.Client{Name: "Obras Norte", NIF: "B1"},
		Company: &entity.Company{Name: "Reformas SL", CIF: "B99"},
	}

	out, err := NewMarotoRenderer().Render(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestMarotoRenderer_SinAlbaran(t *testing.T) {
	_, err := NewMarotoRenderer().Render(context.Background(), deliverynote.PDFData{})
	assert.Error(t, err)
}

func TestMarotoRenderer_Money(t *testing.T) {
	g := NewMarotoRenderer()
	assert.Equal(t, "12.345,50 €", g.money(decimal.RequireFromString("12345.5")))
	assert.Equal(t, "0,32 €", g.money(decimal.RequireFromString("0.32")))
}

func TestIssuerName(t *testing.T) {
	assert.Equal(t, "Reformas SL", issuerName(deliverynote.PDFData{Company: &entity.Company{Name: "Reformas SL"}}))
	assert.Equal(t, "Ana López", issuerName(deliverynote.PDFData{Creator: &entity.User{FirstName: "Ana", LastName: "López"}}))
	assert.Equal(t, "Albarán", issuerName(deliverynote.PDFData{}))
}

func TestFormatAddress(t *testing.T) {
	a := entity.Address{Street: "Calle Mayor", Number: "1", Postal: "28001", City: "Madrid", Province: "Madrid"}
	assert.Equal(t, "Calle Mayor 1, 28001 Madrid, Madrid", formatAddress(a))
	assert.Equal(t, "", formatAddress(entity.Address{}))
}

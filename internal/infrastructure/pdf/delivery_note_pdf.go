// Package pdf genera el PDF de un albarán con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor (compañía o autónomo) │ N° Albarán + Fecha  │
//	│  CLIENTE: Nombre + NIF + dirección                          │
//	│  PROYECTO: Nombre + descripción                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  HORAS: Persona | Fecha | Horas | Tarifa | Importe          │
//	│  MATERIALES: Material | Cantidad | Precio | Importe         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL + Observaciones                                      │
//	│  FIRMA: Firmante + fecha + QR de la imagen                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/Albaranes-api/internal/application/deliverynote"
	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
)

var _ deliverynote.PDFRenderer = (*MarotoRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 33, Green: 64, Blue: 95}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoRenderer implementa deliverynote.PDFRenderer usando Maroto v2.
type MarotoRenderer struct {
	printer *message.Printer
}

// NewMarotoRenderer construye el generador; importes con formato es-ES.
func NewMarotoRenderer() *MarotoRenderer {
	return &MarotoRenderer{printer: message.NewPrinter(language.Spanish)}
}

// Render genera el PDF y devuelve sus bytes.
func (g *MarotoRenderer) Render(_ context.Context, data deliverynote.PDFData) ([]byte, error) {
	if data.Note == nil {
		return nil, fmt.Errorf("pdf: albarán vacío")
	}
	issuer := issuerName(data)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Albarán "+data.Note.Number, true).
		WithAuthor(issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(data.Note, issuer, data.Company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(data.Client))
	m.AddRows(projectRow(data.Project))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if len(data.Note.WorkedHours) > 0 {
		m.AddRows(sectionTitle("HORAS TRABAJADAS"))
		m.AddRows(tableHeader([]string{"Persona", "Fecha", "Horas", "Tarifa", "Importe"}, []int{4, 2, 2, 2, 2}))
		m.AddRows(g.hoursRows(data.Note.WorkedHours)...)
	}
	if len(data.Note.Materials) > 0 {
		m.AddRows(sectionTitle("MATERIALES"))
		m.AddRows(tableHeader([]string{"Material", "Cantidad", "Precio", "Importe"}, []int{6, 2, 2, 2}))
		m.AddRows(g.materialRows(data.Note.Materials)...)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalRow(data.Note.TotalAmount))
	if data.Note.Observations != "" {
		m.AddRows(row.New(14).Add(col.New(12).Add(
			text.New("Observaciones", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(data.Note.Observations, props.Text{Size: 8, Top: 6, Color: colorGray}),
		)))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(signatureRows(data.Note)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor (izq) y N° Albarán + Fecha (der).
func (g *MarotoRenderer) headerRow(n *entity.DeliveryNote, issuer string, company *entity.Company) core.Row {
	sub := ""
	if company != nil {
		sub = formatAddress(company.Address)
		if company.CIF != "" {
			sub = strings.TrimSpace("CIF: " + company.CIF + "   " + sub)
		}
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(issuer, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(sub, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("ALBARÁN", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(n.Number, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
			text.New("Fecha: "+n.Date.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

func clientRow(c *entity.Client) core.Row {
	name, details := "-", ""
	if c != nil {
		name = c.Name
		details = fmt.Sprintf("NIF: %s   |   %s", nonEmpty(c.NIF, "-"), nonEmpty(formatAddress(c.Address), "-"))
	}
	return row.New(14).Add(col.New(12).Add(
		text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
		text.New(details, props.Text{Size: 8, Top: 10, Color: colorGray}),
	))
}

func projectRow(p *entity.Project) core.Row {
	name, desc := "-", ""
	if p != nil {
		name, desc = p.Name, p.Description
	}
	return row.New(14).Add(col.New(12).Add(
		text.New("PROYECTO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
		text.New(desc, props.Text{Size: 8, Top: 10, Color: colorGray}),
	))
}

func sectionTitle(label string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 3}),
	))
}

func tableHeader(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(labels))
	for i, l := range labels {
		a := align.Right
		if i == 0 {
			a = align.Left
		}
		cols = append(cols, col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cols...)
}

func (g *MarotoRenderer) hoursRows(lines []entity.WorkedHours) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, h := range lines {
		date := "-"
		if h.Date != nil {
			date = h.Date.Format("02/01/2006")
		}
		rate, amount := "-", "-"
		if h.HourlyRate != nil {
			rate = g.money(*h.HourlyRate)
			amount = g.money(h.Hours.Mul(*h.HourlyRate))
		}
		rows = append(rows, row.New(6).Add(
			cell(4, nonEmpty(h.Person, "-"), align.Left),
			cell(2, date, align.Right),
			cell(2, g.quantity(h.Hours), align.Right),
			cell(2, rate, align.Right),
			cell(2, amount, align.Right),
		))
	}
	return rows
}

func (g *MarotoRenderer) materialRows(lines []entity.Material) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, m := range lines {
		price, amount := "-", "-"
		if m.Price != nil {
			price = g.money(*m.Price)
			amount = g.money(m.Quantity.Mul(*m.Price))
		}
		rows = append(rows, row.New(6).Add(
			cell(6, nonEmpty(m.Name, "-"), align.Left),
			cell(2, g.quantity(m.Quantity), align.Right),
			cell(2, price, align.Right),
			cell(2, amount, align.Right),
		))
	}
	return rows
}

func (g *MarotoRenderer) totalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(3).Add(text.New(g.money(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// signatureRows: bloque de firma; pendiente si el albarán no está firmado.
func signatureRows(n *entity.DeliveryNote) []core.Row {
	title := row.New(6).Add(col.New(12).Add(
		text.New("FIRMA DEL CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))
	if n.Signature == nil {
		return []core.Row{title, row.New(8).Add(col.New(12).Add(
			text.New("Pendiente de firma", props.Text{Size: 9, Top: 2, Color: colorGray}),
		))}
	}
	return []core.Row{title, row.New(40).Add(
		col.New(4).Add(code.NewQr(n.Signature.ImageURL, props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(
			text.New("Firmado por: "+n.Signature.Signer, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6, Left: 3}),
			text.New("Fecha de firma: "+n.Signature.Date.Format("02/01/2006 15:04"), props.Text{Size: 8, Top: 14, Left: 3, Color: colorGray}),
			text.New("Escanea el código QR para ver la imagen de la firma.", props.Text{Size: 7, Top: 22, Left: 3, Color: colorGray}),
		),
	)}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func cell(size int, s string, a align.Type) core.Col {
	return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

// money formatea un importe con separadores es-ES: 12345.5 -> "12.345,50 €".
func (g *MarotoRenderer) money(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return g.printer.Sprint(number.Decimal(f, number.Scale(2))) + " €"
}

func (g *MarotoRenderer) quantity(d decimal.Decimal) string {
	f, _ := d.Float64()
	return g.printer.Sprint(number.Decimal(f, number.MaxFractionDigits(2)))
}

// issuerName compañía del creador o, si trabaja como autónomo, su nombre.
func issuerName(data deliverynote.PDFData) string {
	switch {
	case data.Company != nil:
		return data.Company.Name
	case data.Creator != nil:
		return data.Creator.FullName()
	default:
		return "Albarán"
	}
}

func formatAddress(a entity.Address) string {
	parts := make([]string, 0, 4)
	if street := strings.TrimSpace(a.Street + " " + a.Number); street != "" {
		parts = append(parts, street)
	}
	if city := strings.TrimSpace(a.Postal + " " + a.City); city != "" {
		parts = append(parts, city)
	}
	if a.Province != "" {
		parts = append(parts, a.Province)
	}
	return strings.Join(parts, ", ")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

package deliverynote

import (
	"context"
	"fmt"

	"github.com/jhoicas/Albaranes-api/internal/application/dto"
	"github.com/jhoicas/Albaranes-api/internal/domain"
	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
)

// PDFFormat formato pedido para el PDF de un albarán.
type PDFFormat string

const (
	PDFFormatAuto   PDFFormat = "auto"
	PDFFormatJSON   PDFFormat = "json"
	PDFFormatBinary PDFFormat = "pdf"
)

// ParsePDFFormat valida el parámetro format; vacío equivale a auto.
func ParsePDFFormat(s string) (PDFFormat, error) {
	switch PDFFormat(s) {
	case "", PDFFormatAuto:
		return PDFFormatAuto, nil
	case PDFFormatJSON, PDFFormatBinary:
		return PDFFormat(s), nil
	default:
		return "", fmt.Errorf("%w: format debe ser json, pdf o auto", domain.ErrInvalidInput)
	}
}

// PDFResult resultado de GetPDF: exactamente uno de Info, RedirectURL o Content.
type PDFResult struct {
	Info        *dto.DeliveryNotePDFResponse
	RedirectURL string
	Content     []byte
	Filename    string
}

// GetPDF con PDF archivado devuelve sus metadatos (json) o la URL a la que redirigir (pdf).
// Sin PDF archivado devuelve un aviso (json) o lo genera al vuelo sin guardarlo (pdf).
// El formato auto lo resuelve el llamador; aquí se trata como pdf.
func (uc *UseCase) GetPDF(ctx context.Context, p scope.Principal, id string, format PDFFormat) (*PDFResult, error) {
	owner := scope.For(p)
	note, err := uc.notes.GetByID(ctx, owner, id, scope.Active)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, domain.ErrDeliveryNoteNotFound
	}

	info := &dto.DeliveryNotePDFResponse{
		ID:     note.ID,
		Number: note.Number,
		Status: note.Status,
		PDFURL: note.PDFURL,
	}
	if note.PDFURL != "" {
		if format == PDFFormatJSON {
			return &PDFResult{Info: info}, nil
		}
		return &PDFResult{RedirectURL: note.PDFURL}, nil
	}
	if format == PDFFormatJSON {
		info.Message = "el PDF aún no se ha archivado; pide format=pdf para generarlo"
		return &PDFResult{Info: info}, nil
	}

	content, err := uc.render(ctx, owner, note)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPDFGenerationFailed, err)
	}
	return &PDFResult{Content: content, Filename: pdfFilename(note)}, nil
}

// render resuelve proyecto, cliente, compañía y creador y genera el PDF.
func (uc *UseCase) render(ctx context.Context, owner scope.Owner, note *entity.DeliveryNote) ([]byte, error) {
	data := PDFData{Note: note}

	project, err := uc.projects.GetByID(ctx, owner, note.ProjectID, scope.All)
	if err != nil {
		return nil, fmt.Errorf("pdf: obtener proyecto: %w", err)
	}
	data.Project = project
	if project != nil {
		client, err := uc.clients.GetByID(ctx, owner, project.ClientID, scope.All)
		if err != nil {
			return nil, fmt.Errorf("pdf: obtener cliente: %w", err)
		}
		data.Client = client
	}
	if note.CompanyID != "" {
		company, err := uc.companies.GetByID(ctx, note.CompanyID)
		if err != nil {
			return nil, fmt.Errorf("pdf: obtener compañía: %w", err)
		}
		data.Company = company
	}
	creator, err := uc.users.GetByID(ctx, note.CreatedBy, scope.All)
	if err != nil {
		return nil, fmt.Errorf("pdf: obtener creador: %w", err)
	}
	data.Creator = creator

	content, err := uc.renderer.Render(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return content, nil
}

func pdfFilename(note *entity.DeliveryNote) string {
	return fmt.Sprintf("albaran_%s.pdf", note.Number)
}

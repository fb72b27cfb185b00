package deliverynote

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jhoicas/Albaranes-api/internal/application/dto"
	"github.com/jhoicas/Albaranes-api/internal/domain"
	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
)

// DefaultSigner firmante cuando no se indica ninguno.
const DefaultSigner = "Cliente"

// SignInput imagen de la firma y nombre del firmante.
type SignInput struct {
	Image       []byte
	Filename    string
	ContentType string
	Signer      string
}

// Sign firma un albarán activo: sube la imagen, guarda la firma y pasa a signed. Después
// genera y sube el PDF; si eso falla se registra y la firma se mantiene.
func (uc *UseCase) Sign(ctx context.Context, p scope.Principal, id string, in SignInput) (*dto.DeliveryNoteResponse, error) {
	if len(in.Image) == 0 {
		return nil, domain.ErrNoSignatureProvided
	}
	owner := scope.For(p)

	// ── 1. Cargar albarán ─────────────────────────────────────────────────────
	note, err := uc.notes.GetByID(ctx, owner, id, scope.Active)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, domain.ErrDeliveryNoteNotFound
	}
	if note.IsSigned() {
		return nil, domain.ErrAlreadySigned
	}

	// ── 2. Subir imagen de la firma ───────────────────────────────────────────
	name := fmt.Sprintf("firma_%s%s", note.Number, signatureExt(in.Filename))
	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	cid, err := uc.blobs.Put(ctx, name, contentType, in.Image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	// ── 3. Marcar como firmado ────────────────────────────────────────────────
	signer := strings.TrimSpace(in.Signer)
	if signer == "" {
		signer = DefaultSigner
	}
	sig := entity.Signature{ImageURL: uc.blobs.URL(cid), Date: uc.now(), Signer: signer}
	if err := uc.notes.MarkSigned(ctx, note.ID, sig); err != nil {
		return nil, mapNotFound(err)
	}
	note.Status = entity.DeliveryNoteSigned
	note.Signature = &sig
	note.UpdatedAt = sig.Date

	// ── 4. PDF definitivo (best effort) ───────────────────────────────────────
	url, err := uc.archivePDF(ctx, owner, note)
	if err != nil {
		uc.log.Warn().Err(err).Str("delivery_note_id", note.ID).Str("number", note.Number).
			Msg("no se pudo archivar el PDF del albarán firmado")
	} else {
		note.PDFURL = url
	}

	return uc.toResponse(ctx, owner, note)
}

// archivePDF renderiza, sube y guarda la URL del PDF de un albarán.
func (uc *UseCase) archivePDF(ctx context.Context, owner scope.Owner, note *entity.DeliveryNote) (string, error) {
	content, err := uc.render(ctx, owner, note)
	if err != nil {
		return "", err
	}
	cid, err := uc.blobs.Put(ctx, pdfFilename(note), "application/pdf", content)
	if err != nil {
		return "", fmt.Errorf("subir pdf: %w", err)
	}
	url := uc.blobs.URL(cid)
	if err := uc.notes.SetPDFURL(ctx, note.ID, url); err != nil {
		return "", fmt.Errorf("guardar pdf_url: %w", err)
	}
	return url, nil
}

func signatureExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif", ".svg":
		return ext
	default:
		return ".png"
	}
}

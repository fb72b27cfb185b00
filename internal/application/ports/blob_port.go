package ports

import "context"

// BlobStore almacena ficheros (firmas, logos, PDFs) y expone una URL pública por identificador.
type BlobStore interface {
	// Put sube el contenido y devuelve su identificador (CID en IPFS, clave en S3).
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
	// URL construye la URL pública del identificador.
	URL(id string) string
}

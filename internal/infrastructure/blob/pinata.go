// Package blob implementa ports.BlobStore sobre Pinata (IPFS) y sobre S3.
package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/jhoicas/Albaranes-api/internal/application/ports"
	"github.com/jhoicas/Albaranes-api/pkg/config"
)

var _ ports.BlobStore = (*PinataStore)(nil)

const defaultPinataAPIURL = "https://api.pinata.cloud"

// PinataStore fija ficheros en IPFS a través de la API pinFileToIPFS de Pinata.
// Usa net/http de la librería estándar; no requiere SDK.
type PinataStore struct {
	apiURL     string
	jwt        string
	apiKey     string
	apiSecret  string
	gateway    string
	httpClient *http.Client
}

// NewPinataStore construye el adaptador. Autentica con JWT si está definido; si no, con key/secret.
func NewPinataStore(cfg config.StorageConfig) *PinataStore {
	apiURL := strings.TrimRight(cfg.PinataAPIURL, "/")
	if apiURL == "" {
		apiURL = defaultPinataAPIURL
	}
	return &PinataStore{
		apiURL:     apiURL,
		jwt:        cfg.PinataJWT,
		apiKey:     cfg.PinataKey,
		apiSecret:  cfg.PinataSecret,
		gateway:    gatewayBase(cfg.PinataGateway),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type pinataResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// Put sube el fichero y devuelve su CID.
func (s *PinataStore) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(name)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("pinata: crear parte: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("pinata: escribir fichero: %w", err)
	}
	meta, _ := json.Marshal(map[string]string{"name": name})
	if err := w.WriteField("pinataMetadata", string(meta)); err != nil {
		return "", fmt.Errorf("pinata: metadata: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("pinata: cerrar multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+"/pinning/pinFileToIPFS", body)
	if err != nil {
		return "", fmt.Errorf("pinata: crear request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if s.jwt != "" {
		req.Header.Set("Authorization", "Bearer "+s.jwt)
	} else {
		req.Header.Set("pinata_api_key", s.apiKey)
		req.Header.Set("pinata_secret_api_key", s.apiSecret)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("pinata: llamada HTTP: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("pinata: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pinata: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out pinataResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("pinata: decodificar respuesta: %w", err)
	}
	if out.IpfsHash == "" {
		return "", fmt.Errorf("pinata: respuesta sin IpfsHash")
	}
	return out.IpfsHash, nil
}

// URL devuelve https://<gateway>/ipfs/<cid>.
func (s *PinataStore) URL(cid string) string {
	return s.gateway + "/ipfs/" + cid
}

// gatewayBase acepta "mi-gw.mypinata.cloud" o una URL completa.
func gatewayBase(gw string) string {
	gw = strings.TrimRight(strings.TrimSpace(gw), "/")
	if gw == "" {
		return "https://gateway.pinata.cloud"
	}
	if !strings.HasPrefix(gw, "http://") && !strings.HasPrefix(gw, "https://") {
		gw = "https://" + gw
	}
	return gw
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

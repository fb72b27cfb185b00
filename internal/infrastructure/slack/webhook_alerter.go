// Package slack implementa ports.Alerter con un Incoming Webhook de Slack.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/Albaranes-api/internal/application/ports"
)

var _ ports.Alerter = (*WebhookAlerter)(nil)

// WebhookAlerter publica alertas de texto en un canal de Slack.
// Usa net/http de la librería estándar; el webhook solo necesita un POST JSON.
type WebhookAlerter struct {
	url        string
	httpClient *http.Client
}

// NewWebhookAlerter construye el adaptador. Con url vacía Alert no hace nada.
func NewWebhookAlerter(url string) *WebhookAlerter {
	return &WebhookAlerter{url: url, httpClient: &http.Client{Timeout: 5 * time.Second}}
}

type webhookPayload struct {
	Text string `json:"text"`
}

// Alert envía el mensaje al webhook.
func (a *WebhookAlerter) Alert(ctx context.Context, message string) error {
	if a.url == "" {
		return nil
	}
	body, err := json.Marshal(webhookPayload{Text: message})
	if err != nil {
		return fmt.Errorf("slack: serializar: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("slack: llamada HTTP: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("slack: status %d: %s", resp.StatusCode, raw)
	}
	return nil
}

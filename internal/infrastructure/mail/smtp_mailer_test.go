package mail

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Albaranes-api/internal/application/ports"
	"github.com/jhoicas/Albaranes-api/pkg/logger"
)

func TestBuildMessage_TextoYHTML(t *testing.T) {
	gm := buildMessage("no-reply@albaranes.test", ports.Email{
		To: "ana@example.com", Subject: "Código", Text: "123456", HTML: "<b>123456</b>",
	})
	assert.Equal(t, []string{"no-reply@albaranes.test"}, gm.GetHeader("From"))
	assert.Equal(t, []string{"ana@example.com"}, gm.GetHeader("To"))

	var buf bytes.Buffer
	_, err := gm.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "multipart/alternative")
	assert.Contains(t, buf.String(), "text/html")
}

func TestLogMailer_Send(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "info", Output: &buf})

	err := NewLogMailer(log).Send(context.Background(), ports.Email{To: "ana@example.com", Subject: "Hola", Text: "cuerpo"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "ana@example.com")
	assert.Contains(t, buf.String(), "Hola")
}

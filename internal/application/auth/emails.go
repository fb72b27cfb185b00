package auth

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/jhoicas/Albaranes-api/internal/application/ports"
)

var emailTemplates = template.Must(template.New("emails").Parse(`
{{define "verification"}}<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
<h2>Verifica tu email</h2>
<p>Hola {{.Name}}, tu código de verificación es:</p>
<p style="font-size:28px;font-weight:bold;letter-spacing:6px">{{.Code}}</p>
<p>Caduca en 24 horas. Si no has creado una cuenta, ignora este mensaje.</p>
</div>{{end}}
{{define "reset"}}<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
<h2>Recuperar contraseña</h2>
<p>Hola {{.Name}}, usa este código para fijar una nueva contraseña:</p>
<p style="font-size:28px;font-weight:bold;letter-spacing:6px">{{.Code}}</p>
<p>Caduca en 1 hora.</p>
</div>{{end}}
{{define "invitation"}}<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
<h2>Invitación a {{.Company}}</h2>
<p>{{.Inviter}} te ha invitado a unirte a <strong>{{.Company}}</strong> con el rol {{.Role}}.</p>
<p>Acepta o rechaza la invitación desde tu cuenta.</p>
</div>{{end}}
`))

func renderEmail(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render email %s: %w", name, err)
	}
	return buf.String(), nil
}

func verificationEmail(to, name, code string) (ports.Email, error) {
	html, err := renderEmail("verification", map[string]string{"Name": name, "Code": code})
	if err != nil {
		return ports.Email{}, err
	}
	return ports.Email{
		To:      to,
		Subject: "Código de verificación",
		Text:    fmt.Sprintf("Tu código de verificación es %s", code),
		HTML:    html,
	}, nil
}

func resetEmail(to, name, code string) (ports.Email, error) {
	html, err := renderEmail("reset", map[string]string{"Name": name, "Code": code})
	if err != nil {
		return ports.Email{}, err
	}
	return ports.Email{
		To:      to,
		Subject: "Recuperación de contraseña",
		Text:    fmt.Sprintf("Tu código de recuperación es %s", code),
		HTML:    html,
	}, nil
}

func invitationEmail(to, inviter, company, role string) (ports.Email, error) {
	html, err := renderEmail("invitation", map[string]string{"Inviter": inviter, "Company": company, "Role": role})
	if err != nil {
		return ports.Email{}, err
	}
	return ports.Email{
		To:      to,
		Subject: fmt.Sprintf("Invitación a %s", company),
		Text:    fmt.Sprintf("%s te ha invitado a unirte a %s", inviter, company),
		HTML:    html,
	}, nil
}

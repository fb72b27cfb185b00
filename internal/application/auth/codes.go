package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var codeMax = big.NewInt(1_000_000)

// newCode código numérico de 6 dígitos (verificación de email y recuperación de contraseña).
func newCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeMax)
	if err != nil {
		return "", fmt.Errorf("generar código: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func sameCode(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var titleCaser = cases.Title(language.Spanish)

// normalizeName "maría  JOSÉ " -> "María José".
func normalizeName(name string) string {
	return titleCaser.String(strings.Join(strings.Fields(name), " "))
}

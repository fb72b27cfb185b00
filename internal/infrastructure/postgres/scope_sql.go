package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/Albaranes-api/internal/domain/repository"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
)

// where acumula condiciones AND con parámetros posicionales ($1, $2, ...).
type where struct {
	conds []string
	args  []any
}

// arg registra un parámetro y devuelve su placeholder.
func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *where) add(cond string) {
	w.conds = append(w.conds, cond)
}

// eq añade column = valor.
func (w *where) eq(column string, v any) {
	w.add(column + " = " + w.arg(v))
}

// owner renderiza el predicado de propiedad: created_by = usuario OR company_id = compañía.
func (w *where) owner(o scope.Owner) {
	if o.CompanyID == "" {
		w.eq("created_by", o.UserID)
		return
	}
	w.add(fmt.Sprintf("(created_by = %s OR company_id = %s)", w.arg(o.UserID), w.arg(o.CompanyID)))
}

// mode filtra por el flag deleted; All no añade condición.
func (w *where) mode(m scope.ArchiveMode) {
	switch m {
	case scope.Active:
		w.add("deleted = FALSE")
	case scope.Archived:
		w.add("deleted = TRUE")
	}
}

// sql devuelve la cláusula WHERE (vacía si no hay condiciones).
func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page devuelve LIMIT/OFFSET; Limit 0 = sin límite.
func (w *where) page(p repository.Page) string {
	var b strings.Builder
	if p.Limit > 0 {
		b.WriteString(" LIMIT " + w.arg(p.Limit))
	}
	if p.Offset > 0 {
		b.WriteString(" OFFSET " + w.arg(p.Offset))
	}
	return b.String()
}

// scoped crea un where con el predicado de propiedad y el modo de archivo.
func scoped(o scope.Owner, m scope.ArchiveMode) *where {
	w := &where{}
	w.owner(o)
	w.mode(m)
	return w
}

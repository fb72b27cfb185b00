package http

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Albaranes-api/internal/application/dto"
	"github.com/jhoicas/Albaranes-api/pkg/taxid"
)

var validate = newValidator()

// newValidator nombra los campos por su tag json (o query) en los mensajes de error.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("taxid", func(fl validator.FieldLevel) bool {
		return taxid.Valid(fl.Field().String())
	})
	return v
}

// validationError entrada rechazada antes de llegar al caso de uso.
type validationError struct {
	code    string
	message string
	fields  []dto.FieldError
}

func (e *validationError) Error() string { return e.message }

// bindJSON parsea el cuerpo JSON y lo valida.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &validationError{code: "INVALID_BODY", message: "cuerpo inválido"}
	}
	return validateStruct(out)
}

// bindQuery parsea la query string; prepare se ejecuta antes de validar (valores por defecto).
func bindQuery(c *fiber.Ctx, out any, prepare func()) error {
	if err := c.QueryParser(out); err != nil {
		return &validationError{code: "INVALID_QUERY", message: "parámetros de consulta inválidos"}
	}
	if prepare != nil {
		prepare()
	}
	return validateStruct(out)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &validationError{code: "VALIDATION", message: err.Error()}
	}
	fields := make([]dto.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, dto.FieldError{Field: fieldPath(fe), Message: fieldMessage(fe)})
	}
	return &validationError{code: "VALIDATION", message: "datos inválidos", fields: fields}
}

// fieldPath ruta del campo sin el nombre del struct raíz: worked_hours[0].hours.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "debe ser un email válido"
	case "uuid":
		return "debe ser un UUID"
	case "min":
		return "valor por debajo del mínimo " + fe.Param()
	case "max":
		return "valor por encima del máximo " + fe.Param()
	case "len":
		return "debe tener longitud " + fe.Param()
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "numeric":
		return "debe ser numérico"
	case "taxid":
		return "NIF, NIE o CIF no válido"
	default:
		return "no cumple la regla " + fe.Tag()
	}
}

package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/dentalhr/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator makes validation errors report JSON (or form) field names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

// FormatValidationErrors turns a binding error into the 400 body.
// Malformed JSON has no field details.
func FormatValidationErrors(err error) dto.Response {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return dto.NewValidationErrorResponse("Corpo della richiesta non valido", nil)
	}

	details := make([]dto.ValidationDetail, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, dto.ValidationDetail{
			Field:   e.Field(),
			Message: validationMessage(e),
		})
	}
	return dto.NewValidationErrorResponse("Dati della richiesta non validi", details)
}

func validationMessage(e validator.FieldError) string {
	isString := e.Type().Kind() == reflect.String
	switch e.Tag() {
	case "required":
		return "Campo obbligatorio"
	case "email":
		return "Formato email non valido"
	case "min":
		if isString {
			return "Deve contenere almeno " + e.Param() + " caratteri"
		}
		return "Deve essere almeno " + e.Param()
	case "max":
		if isString {
			return "Deve contenere al massimo " + e.Param() + " caratteri"
		}
		return "Deve essere al massimo " + e.Param()
	case "len":
		return "Deve contenere esattamente " + e.Param() + " caratteri"
	case "uuid":
		return "Identificativo non valido"
	case "oneof":
		return "Valori ammessi: " + e.Param()
	case "gte":
		return "Deve essere maggiore o uguale a " + e.Param()
	case "lte":
		return "Deve essere minore o uguale a " + e.Param()
	case "alphanum":
		return "Sono ammessi solo lettere e numeri"
	case "dive":
		return "Elemento non valido"
	default:
		return "Valore non valido"
	}
}

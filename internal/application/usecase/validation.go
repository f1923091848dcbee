package usecase

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jhoicas/fabric-stock-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Reportar los campos con su nombre JSON (fabricType, no FabricType).
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct valida in y traduce los errores del validador a domain.Invalid.
func validateStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Invalid(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" es requerido")
		case "oneof":
			msgs = append(msgs, fe.Field()+" debe ser uno de: "+fe.Param())
		case "uuid":
			msgs = append(msgs, fe.Field()+" debe ser un identificador válido")
		default:
			msgs = append(msgs, fe.Field()+" es inválido")
		}
	}
	return domain.Invalid(strings.Join(msgs, "; "))
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

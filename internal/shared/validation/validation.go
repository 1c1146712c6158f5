package validation

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Register teaches gin's validator about the value types used in request DTOs, so numeric tags
// such as gte=0 apply to decimal.Decimal money fields and required applies to uuid.UUID.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	RegisterOn(v)
	return nil
}

// RegisterOn installs the custom type funcs on v.
func RegisterOn(v *validator.Validate) {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	v.RegisterCustomTypeFunc(uuidValue, uuid.UUID{})
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func uuidValue(field reflect.Value) interface{} {
	if id, ok := field.Interface().(uuid.UUID); ok {
		if id == uuid.Nil {
			return ""
		}
		return id.String()
	}
	return nil
}

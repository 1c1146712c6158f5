package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type priced struct {
	Amount  decimal.Decimal `validate:"gt=0"`
	OwnerID uuid.UUID       `validate:"required"`
}

func TestCustomTypes(t *testing.T) {
	v := validator.New()
	RegisterOn(v)

	assert.NoError(t, v.Struct(priced{Amount: decimal.RequireFromString("10.50"), OwnerID: uuid.New()}))
	assert.Error(t, v.Struct(priced{Amount: decimal.Zero, OwnerID: uuid.New()}))
	assert.Error(t, v.Struct(priced{Amount: decimal.NewFromInt(1)}))
}

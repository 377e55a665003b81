package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vivare/models"
)

func TestValidateGuestInfo(t *testing.T) {
	valid := models.GuestInfo{
		FirstName: "Ana",
		LastName:  "Souza",
		Email:     "ana@example.com",
		Phone:     "11912345678",
	}
	assert.NoError(t, ValidateGuestInfo(valid))

	cases := []struct {
		name   string
		mutate func(*models.GuestInfo)
		field  string
	}{
		{"blank first name", func(g *models.GuestInfo) { g.FirstName = "  " }, "firstName"},
		{"blank last name", func(g *models.GuestInfo) { g.LastName = "" }, "lastName"},
		{"email without domain", func(g *models.GuestInfo) { g.Email = "ana@" }, "email"},
		{"email without at", func(g *models.GuestInfo) { g.Email = "ana.example.com" }, "email"},
		{"short phone", func(g *models.GuestInfo) { g.Phone = "12345" }, "phone"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := valid
			tc.mutate(&g)
			err := ValidateGuestInfo(g)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.field, validationErr.Field)
		})
	}
}

func TestIdempotencyKeysAreDeterministic(t *testing.T) {
	assert.Equal(t, HoldKey("co_1"), HoldKey("co_1"))
	assert.Equal(t, "hold:co_1", HoldKey("co_1"))
	assert.Equal(t, PaymentIntentKey("co_1"), PaymentIntentKey("co_1"))
	assert.Equal(t, "pi:co_1", PaymentIntentKey("co_1"))
}

package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registrationForm struct {
	FullName string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Credits  int    `validate:"min=0"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid struct passes", func(t *testing.T) {
		errs := ValidateStruct(registrationForm{
			FullName: "Anna Schmidt",
			Email:    "anna@example.com",
			Password: "secretpass",
			Credits:  5,
		})

		assert.Nil(t, errs)
	})

	t.Run("missing required fields", func(t *testing.T) {
		errs := ValidateStruct(registrationForm{})

		require.NotEmpty(t, errs)

		fields := make(map[string]string)
		for _, e := range errs {
			fields[e.Field] = e.Tag
		}
		assert.Equal(t, "required", fields["FullName"])
		assert.Equal(t, "required", fields["Email"])
		assert.Equal(t, "required", fields["Password"])
	})

	t.Run("bad email", func(t *testing.T) {
		errs := ValidateStruct(registrationForm{
			FullName: "Anna Schmidt",
			Email:    "not-an-email",
			Password: "secretpass",
		})

		require.Len(t, errs, 1)
		assert.Equal(t, "Email", errs[0].Field)
		assert.Contains(t, errs[0].Message, "valid email address")
	})

	t.Run("short password", func(t *testing.T) {
		errs := ValidateStruct(registrationForm{
			FullName: "Anna Schmidt",
			Email:    "anna@example.com",
			Password: "short",
		})

		require.Len(t, errs, 1)
		assert.Equal(t, "min", errs[0].Tag)
		assert.Contains(t, errs[0].Message, "at least 8")
	})

	t.Run("negative credits", func(t *testing.T) {
		errs := ValidateStruct(registrationForm{
			FullName: "Anna Schmidt",
			Email:    "anna@example.com",
			Password: "secretpass",
			Credits:  -1,
		})

		require.Len(t, errs, 1)
		assert.Equal(t, "Credits", errs[0].Field)
	})
}

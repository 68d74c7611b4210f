package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username        string `validate:"required,notblank"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

func TestValidateStruct(t *testing.T) {
	ok := signup{Username: "alice", Email: "alice@example.com", Password: "secret1", ConfirmPassword: "secret1"}
	assert.Nil(t, ValidateStruct(ok))

	missing := ok
	missing.Username = "   "
	err := ValidateStruct(missing)
	require.NotNil(t, err)
	assert.Equal(t, "All fields are required.", err.Message)
	assert.Equal(t, "is required", err.Metadata["username"])

	mismatch := ok
	mismatch.ConfirmPassword = "other12"
	err = ValidateStruct(mismatch)
	require.NotNil(t, err)
	assert.Equal(t, "Passwords do not match.", err.Message)

	short := ok
	short.Password, short.ConfirmPassword = "abc", "abc"
	err = ValidateStruct(short)
	require.NotNil(t, err)
	assert.Equal(t, "must be at least 6 characters", err.Metadata["password"])
}

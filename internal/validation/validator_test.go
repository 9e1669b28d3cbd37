package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/apperr"
)

type sample struct {
	Name     string `json:"name" validate:"required,max=5"`
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"omitempty,email"`
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	err := Struct(&sample{Name: "toolong", Username: "bad name", Email: "nope"})
	require.Error(t, err)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
	assert.Contains(t, appErr.Fields, "name")
	assert.Contains(t, appErr.Fields, "username")
	assert.Contains(t, appErr.Fields, "email")
	assert.Len(t, appErr.Fields["name"], 1)
}

func TestValidStruct(t *testing.T) {
	assert.NoError(t, Struct(&sample{Name: "ok", Username: "chef.anna+1@x"}))
}

func TestValidUsername(t *testing.T) {
	assert.True(t, ValidUsername("cook_42"))
	assert.False(t, ValidUsername("me"))
	assert.False(t, ValidUsername("ME"))
	assert.False(t, ValidUsername("with space"))
	assert.False(t, ValidUsername(""))
}

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooseIntAcceptsNumbersAndStrings(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr error
	}{
		{"number", `5`, 5, nil},
		{"string", `"12"`, 12, nil},
		{"integral float", `3.0`, 3, nil},
		{"negative", `"-4"`, -4, nil},
		{"largest int32", `"2147483647"`, 2147483647, nil},
		{"fraction", `2.5`, 0, ErrNotInteger},
		{"word", `"abc"`, 0, ErrNotInteger},
		{"empty string", `""`, 0, ErrNotInteger},
		{"above int32", `"3000000000"`, 0, ErrOutOfRange},
		{"above int32 as number", `3000000000`, 0, ErrOutOfRange},
		{"exponent above int32", `3e9`, 0, ErrOutOfRange},
		{"below int32", `"-3000000000"`, 0, ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v LooseInt
			require.NoError(t, json.Unmarshal([]byte(tt.input), &v))
			assert.True(t, v.IsSet())
			got, err := v.Int()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLooseIntNullIsUnset(t *testing.T) {
	var payload struct {
		Amount LooseInt `json:"amount"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"amount": null}`), &payload))
	assert.False(t, payload.Amount.IsSet())

	require.NoError(t, json.Unmarshal([]byte(`{}`), &payload))
	assert.False(t, payload.Amount.IsSet())
	_, err := payload.Amount.Int()
	assert.Error(t, err)
}

func TestLooseIntMarshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A LooseInt `json:"a"`
		B LooseInt `json:"b"`
	}{A: NewLooseInt("7"), B: NewLooseInt("x")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 7, "b": "x"}`, string(out))
}

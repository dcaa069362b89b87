package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductNames(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ProductNames
	}{
		{"json array string", `["Wheat","Rice"]`, ProductNames{"Wheat", "Rice"}},
		{"plain string", "Wheat", ProductNames{"Wheat"}},
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"malformed array kept verbatim", "[oops", ProductNames{"[oops"}},
		{"array with surrounding space", `  ["Cashew Nuts"]  `, ProductNames{"Cashew Nuts"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseProductNames(tt.raw))
		})
	}
}

func TestProductNamesUnmarshalJSON(t *testing.T) {
	type body struct {
		ProductName ProductNames `json:"product_name"`
	}

	t.Run("native array", func(t *testing.T) {
		var b body
		require.NoError(t, json.Unmarshal([]byte(`{"product_name":["Wheat","Rice"]}`), &b))
		assert.Equal(t, ProductNames{"Wheat", "Rice"}, b.ProductName)
	})

	t.Run("double-encoded array", func(t *testing.T) {
		var b body
		require.NoError(t, json.Unmarshal([]byte(`{"product_name":"[\"Wheat\",\"Rice\"]"}`), &b))
		assert.Equal(t, ProductNames{"Wheat", "Rice"}, b.ProductName)
	})

	t.Run("plain string", func(t *testing.T) {
		var b body
		require.NoError(t, json.Unmarshal([]byte(`{"product_name":"Wheat"}`), &b))
		assert.Equal(t, ProductNames{"Wheat"}, b.ProductName)
	})

	t.Run("rejects number", func(t *testing.T) {
		var b body
		assert.Error(t, json.Unmarshal([]byte(`{"product_name":42}`), &b))
	})
}

func TestProductNamesDisplay(t *testing.T) {
	assert.Equal(t, "Wheat, Rice", ProductNames{"Wheat", "Rice"}.Display())
	assert.Equal(t, "Wheat", ProductNames{"Wheat"}.Display())
	assert.Equal(t, "", ProductNames(nil).Display())
}

func TestProductNamesEncode(t *testing.T) {
	assert.Equal(t, `["Wheat","Rice"]`, ProductNames{"Wheat", "Rice"}.Encode())
	assert.Equal(t, "[]", ProductNames(nil).Encode())
}

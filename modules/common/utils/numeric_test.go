package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUntrustedNumber(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want float64
	}{
		{"plain number", "25", 25},
		{"float", "33.5", 33.5},
		{"quoted number", `"25"`, 25},
		{"quoted with spaces", `" 40 "`, 40},
		{"negative", "-10", -10},
		{"empty", "", 0},
		{"quoted empty", `""`, 0},
		{"null", "null", 0},
		{"garbage", "about thirty", 0},
		{"quoted garbage", `"a quarter down"`, 0},
		{"nan literal", "NaN", 0},
		{"infinity", "Inf", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseUntrustedNumber(tc.in))
		})
	}
}

// UnmarshalJSON은 어떤 입력이 와도 에러를 내지 않아야 함
func TestUntrustedNumberUnmarshal(t *testing.T) {
	type payload struct {
		Value UntrustedNumber `json:"value"`
	}

	cases := []struct {
		name string
		in   string
		want float64
	}{
		{"number", `{"value": 25}`, 25},
		{"string number", `{"value": "25"}`, 25},
		{"string garbage", `{"value": "no idea"}`, 0},
		{"null", `{"value": null}`, 0},
		{"boolean", `{"value": true}`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p payload
			require.NoError(t, json.Unmarshal([]byte(tc.in), &p))
			assert.Equal(t, tc.want, p.Value.Float64())
		})
	}
}

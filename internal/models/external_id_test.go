package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExternalID_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ExternalID
	}{
		{"number", `7`, "7"},
		{"zero", `0`, "0"},
		{"large number keeps digits", `12345678901234567890`, "12345678901234567890"},
		{"integral fraction", `7.0`, "7"},
		{"exponent", `7e0`, "7"},
		{"scaled exponent", `1.5E2`, "150"},
		{"negative zero", `-0`, "0"},
		{"negative integral", `-3.00`, "-3"},
		{"string", `"abc-1"`, "abc-1"},
		{"string is trimmed", `"  42 "`, "42"},
		{"null", `null`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ExternalID
			require.NoError(t, json.Unmarshal([]byte(tt.in), &id))
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestExternalID_UnmarshalRejectsOtherTypes(t *testing.T) {
	for _, in := range []string{`true`, `{}`, `[1]`, `7.5`, `1e-1`, `1e999999`} {
		var id ExternalID
		assert.Error(t, json.Unmarshal([]byte(in), &id), in)
	}
}

func TestExternalID_MarshalsAsString(t *testing.T) {
	out, err := json.Marshal(Collection{ID: 1, OwnerID: "0", Name: "Morning Stretches"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"userId":"0"`)

	var body struct {
		PoseID ExternalID `json:"poseId"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"poseId": 7}`), &body))
	out, err = json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"poseId":"7"}`, string(out))
}

func TestExternalID_IsZero(t *testing.T) {
	assert.True(t, ExternalID("").IsZero())
	assert.True(t, ExternalID("   ").IsZero())
	assert.False(t, ExternalID("0").IsZero())
}

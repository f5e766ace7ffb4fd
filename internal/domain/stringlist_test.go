package domain

import (
	"encoding/json/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected StringList
	}{
		{"single value", "Vintage", StringList{"Vintage"}},
		{"comma separated", "Vintage, Rustic", StringList{"Vintage", "Rustic"}},
		{"stringified array", `["Vintage", "Rustic"]`, StringList{"Vintage", "Rustic"}},
		{"single quotes", `['Cozy', 'Warm']`, StringList{"Cozy", "Warm"}},
		{"stray brackets", `Vintage], [Rustic`, StringList{"Vintage", "Rustic"}},
		{"empty elements dropped", `Vintage,, ,Rustic`, StringList{"Vintage", "Rustic"}},
		{"whitespace only", "   ", nil},
		{"empty", "", nil},
		{"casing preserved", `["Mid-Century Modern"]`, StringList{"Mid-Century Modern"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseStringList(tt.input))
		})
	}
}

func TestStringList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected StringList
	}{
		{"plain array", `["Vintage", "Rustic"]`, StringList{"Vintage", "Rustic"}},
		{"scalar string", `"Vintage"`, StringList{"Vintage"}},
		{"double-encoded array", `"[\"Vintage\", \"Rustic\"]"`, StringList{"Vintage", "Rustic"}},
		{"delimited scalar", `"Cozy, Warm"`, StringList{"Cozy", "Warm"}},
		{"mixed array", `["Vintage", 42, null]`, StringList{"Vintage", "42"}},
		{"empty array", `[]`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sl StringList
			require.NoError(t, json.Unmarshal([]byte(tt.input), &sl))
			assert.Equal(t, tt.expected, sl)
		})
	}
}

func TestStringList_UnmarshalJSON_Invalid(t *testing.T) {
	var sl StringList
	assert.Error(t, json.Unmarshal([]byte(`{"not": "a list"}`), &sl))
}

func TestStringList_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(StringList{"Vintage", "Rustic"})
	require.NoError(t, err)
	assert.JSONEq(t, `["Vintage","Rustic"]`, string(out))

	out, err = json.Marshal(StringList(nil))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(out))
}

func TestStringList_RoundTripInListing(t *testing.T) {
	// Label fields survive a marshal/unmarshal cycle even when the
	// source document carried stringified arrays.
	raw := `{"id":"lst_1","title":"Teak Sideboard","status":"active","styles":"[\"Vintage\", \"Mid-Century Modern\"]","moods":["Cozy"],"price_cents":12500}`

	var l Listing
	require.NoError(t, json.Unmarshal([]byte(raw), &l))

	assert.Equal(t, StringList{"Vintage", "Mid-Century Modern"}, l.Styles)
	assert.Equal(t, StringList{"Cozy"}, l.Moods)
	assert.Empty(t, l.Intents)
}

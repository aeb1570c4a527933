package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Price
	}{
		{"0", 0},
		{"1", 100},
		{"100.00", 10000},
		{"55.50", 5550},
		{"55.5", 5550},
		{"99999.99", 9999999},
	}

	for _, tt := range tests {
		got, err := ParsePrice(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestParsePrice_Invalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "abc", "-1.00", "1.234", "123456.00", "1,00", "1.00.00"} {
		_, err := ParsePrice(input)
		require.Error(t, err, input)
		assert.ErrorIs(t, err, ErrInvalidPrice, input)
	}
}

func TestPriceString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0.00", Price(0).String())
	assert.Equal(t, "0.05", Price(5).String())
	assert.Equal(t, "100.00", Price(10000).String())
	assert.Equal(t, "55.50", Price(5550).String())
}

func TestPriceJSON(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(Price(10000))
	require.NoError(t, err)
	assert.Equal(t, `"100.00"`, string(out))

	var fromString Price
	require.NoError(t, json.Unmarshal([]byte(`"100.00"`), &fromString))
	assert.Equal(t, Price(10000), fromString)

	var fromNumber Price
	require.NoError(t, json.Unmarshal([]byte(`100.00`), &fromNumber))
	assert.Equal(t, Price(10000), fromNumber)

	var invalid Price
	require.Error(t, json.Unmarshal([]byte(`"abc"`), &invalid))
}

func TestPriceUnmarshalText(t *testing.T) {
	t.Parallel()

	var p Price
	require.NoError(t, p.UnmarshalText([]byte("55.50")))
	assert.Equal(t, Price(5550), p)

	require.Error(t, p.UnmarshalText([]byte("-1")))
}

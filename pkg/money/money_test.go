package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDecimal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Cents
		wantErr bool
	}{
		{name: "whole dollars", input: "10000.00", want: 1000000},
		{name: "with cents", input: "10.01", want: 1001},
		{name: "zero", input: "0", want: 0},
		{name: "negative", input: "-5.25", want: -525},
		{name: "sub-cent precision rejected", input: "1.005", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.input)
			require.NoError(t, err)

			got, err := FromDecimal(d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecimalRoundTrip(t *testing.T) {
	c := Cents(1001)
	assert.Equal(t, "10.01", c.Decimal().StringFixed(2))

	back, err := FromDecimal(c.Decimal())
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name          string
		total         Cents
		n             int
		wantBase      Cents
		wantRemainder int
	}{
		{name: "even split", total: 1000, n: 4, wantBase: 250, wantRemainder: 0},
		{name: "one cent over", total: 1001, n: 3, wantBase: 333, wantRemainder: 2},
		{name: "single part", total: 999, n: 1, wantBase: 999, wantRemainder: 0},
		{name: "count equals total", total: 5, n: 5, wantBase: 1, wantRemainder: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, remainder := Split(tt.total, tt.n)
			assert.Equal(t, tt.wantBase, base)
			assert.Equal(t, tt.wantRemainder, remainder)

			// Reassemble to check nothing is lost to rounding.
			assert.Equal(t, tt.total, base*Cents(tt.n)+Cents(remainder))
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "3.35", Cents(335).String())
	assert.Equal(t, "0.00", Cents(0).String())
}

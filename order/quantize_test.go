package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantizeDeterministic(t *testing.T) {
	a, err := Quantize(0.97, 10.456, 0.01)
	require.NoError(t, err)
	b, err := Quantize(0.97, 10.456, 0.01)
	require.NoError(t, err)

	assert.Equal(t, a.USDC.String(), b.USDC.String())
	assert.Equal(t, a.Shares.String(), b.Shares.String())
}

func TestQuantizeReferenceCase(t *testing.T) {
	// price 0.97, size 10.456, tick 0.01:
	// size floors to 10.45, dollar leg 10.45*0.97 = 10.1365 exactly at 4dp
	a, err := Quantize(0.97, 10.456, 0.01)
	require.NoError(t, err)

	assert.Equal(t, "10136500", a.USDC.String())
	assert.Equal(t, "10450000", a.Shares.String())
	assert.Equal(t, "0.97", a.Price.String())
	assert.Equal(t, "10.45", a.Size.String())
}

func TestQuantizeSizeFloorsNotRounds(t *testing.T) {
	a, err := Quantize(0.50, 1.2399, 0.01)
	require.NoError(t, err)

	// 1.2399 must floor to 1.23, never round up to 1.24
	assert.Equal(t, "1.23", a.Size.String())
	assert.Equal(t, "1230000", a.Shares.String())
}

func TestQuantizePriceRoundsHalfAwayFromZero(t *testing.T) {
	a, err := Quantize(0.12345, 100, 0.0001)
	require.NoError(t, err)
	assert.Equal(t, "0.1235", a.Price.String())
}

func TestQuantizeMinimumNotional(t *testing.T) {
	// exactly $0.50 is accepted
	_, err := Quantize(0.10, 5.0, 0.01)
	assert.NoError(t, err)

	// just under is rejected before any rounding
	_, err = Quantize(0.10, 4.9999, 0.01)
	assert.ErrorIs(t, err, ErrTradeTooSmall)

	_, err = Quantize(0.05, 5.0, 0.01)
	assert.ErrorIs(t, err, ErrTradeTooSmall)
}

func TestQuantizeZeroOrNegativeSize(t *testing.T) {
	_, err := Quantize(0.97, 0, 0.01)
	assert.ErrorIs(t, err, ErrTradeTooSmall)

	// a size that floors to zero
	_, err = Quantize(60.0, 0.009, 0.01)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestQuantizeAmountRoundedToZero(t *testing.T) {
	// notional 0.005*100 = $0.50 passes the pre-check, but a 0.1 tick
	// rounds the price itself to zero
	_, err := Quantize(0.005, 100, 0.1)
	assert.ErrorIs(t, err, ErrAmountRoundedToZero)
}

func TestQuantizeTickPrecision(t *testing.T) {
	cases := []struct {
		tick  float64
		price string
	}{
		{0.1, "0.1"},
		{0.01, "0.12"},
		{0.001, "0.123"},
		{0.0001, "0.1235"},
	}
	for _, tc := range cases {
		a, err := Quantize(0.12345, 100, tc.tick)
		require.NoError(t, err)
		assert.Equal(t, tc.price, a.Price.String(), "tick %v", tc.tick)
	}
}

func TestQuantizeErrorShrinksWithFinerTicks(t *testing.T) {
	// refining the tick must never move the quantized USD leg further from
	// the raw price*size notional: each tick grid contains the coarser ones
	ticks := []float64{0.1, 0.01, 0.001, 0.0001}
	prices := []float64{0.0617, 0.123, 0.347, 0.5555, 0.678, 0.8469, 0.9123, 0.999}
	sizes := []float64{10.45, 25.5}

	for _, price := range prices {
		for _, size := range sizes {
			ideal := decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(size)).Shift(6)

			prev := decimal.Decimal{}
			for i, tick := range ticks {
				a, err := Quantize(price, size, tick)
				require.NoError(t, err, "price=%v size=%v tick=%v", price, size, tick)

				diff := ideal.Sub(decimal.NewFromBigInt(a.USDC, 0)).Abs()
				if i > 0 {
					assert.True(t, diff.LessThanOrEqual(prev),
						"error grew refining to tick %v: %s > %s (price=%v size=%v)",
						tick, diff, prev, price, size)
				}
				prev = diff
			}
		}
	}
}

func TestQuantizeCoarseTickFallsBack(t *testing.T) {
	// unknown tick sizes behave like 0.1
	a, err := Quantize(0.43, 10, 0.5)
	require.NoError(t, err)
	assert.Equal(t, "0.4", a.Price.String())
}

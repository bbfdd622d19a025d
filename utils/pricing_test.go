package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundToTick(t *testing.T) {
	assert.InDelta(t, 0.42, RoundToTick(0.421, 0.01), 1e-12)
	assert.InDelta(t, 0.43, RoundToTick(0.426, 0.01), 1e-12)
	assert.InDelta(t, 0.4, RoundToTick(0.42, 0.1), 1e-12)
	assert.InDelta(t, 0.4213, RoundToTick(0.42134, 0.0001), 1e-12)

	// degenerate tick leaves the price alone
	assert.Equal(t, 0.421, RoundToTick(0.421, 0))
}

func TestTakerFeePeaksAtMidrange(t *testing.T) {
	mid := CalculateTakerFeeUSDC(0.60, 100, 1000)
	low := CalculateTakerFeeUSDC(0.05, 100, 1000)
	high := CalculateTakerFeeUSDC(0.95, 100, 1000)

	assert.Greater(t, mid, low)
	assert.Greater(t, mid, high)
}

func TestTakerFeeZeroRate(t *testing.T) {
	assert.Zero(t, CalculateTakerFeeUSDC(0.50, 100, 0))
	assert.Zero(t, CalculateTakerFeeUSDC(0.50, 100, -5))
}

func TestTakerFeeMinimum(t *testing.T) {
	// a tiny but nonzero fee floors at 0.0001
	fee := CalculateTakerFeeUSDC(0.50, 0.01, 1000)
	if fee > 0 {
		assert.GreaterOrEqual(t, fee, 0.0001)
	}
}

func TestMakerRebate(t *testing.T) {
	// 2 bps on $50 notional
	assert.InDelta(t, 0.01, CalculateMakerRebateUSDC(0.50, 100, 2), 1e-9)
	assert.Zero(t, CalculateMakerRebateUSDC(0.50, 100, 0))
}

package utils

import "math"

// RoundToTick snaps a price onto the market's tick grid, rounding to the
// nearest tick. Float noise from the division is cleaned up by a final
// round at the tick's own precision.
func RoundToTick(price, tickSize float64) float64 {
	if tickSize <= 0 {
		return price
	}
	ticks := math.Round(price / tickSize)
	snapped := ticks * tickSize
	decimals := int(math.Ceil(-math.Log10(tickSize)))
	pow := math.Pow(10, float64(decimals))
	return math.Round(snapped*pow) / pow
}

// Taker fees on Polymarket are not a flat percentage: they peak near 50c and
// vanish toward the extremes. The table holds the USDC fee for 100 shares at
// the base rate; intermediate prices interpolate linearly.
type feePoint struct {
	price  float64
	fee100 float64
}

var feeCurve = []feePoint{
	{0.01, 0.0000},
	{0.05, 0.0030},
	{0.10, 0.0200},
	{0.15, 0.0600},
	{0.20, 0.1300},
	{0.25, 0.2200},
	{0.30, 0.3300},
	{0.35, 0.4500},
	{0.40, 0.5800},
	{0.45, 0.6900},
	{0.50, 0.7800},
	{0.55, 0.8400},
	{0.60, 0.8600},
	{0.65, 0.8400},
	{0.70, 0.7700},
	{0.75, 0.6600},
	{0.80, 0.5100},
	{0.85, 0.3500},
	{0.90, 0.1800},
	{0.95, 0.0500},
	{0.99, 0.0000},
}

func feePer100Shares(price float64) float64 {
	if price <= feeCurve[0].price {
		return feeCurve[0].fee100
	}
	last := feeCurve[len(feeCurve)-1]
	if price >= last.price {
		return last.fee100
	}
	for i := 0; i < len(feeCurve)-1; i++ {
		lo, hi := feeCurve[i], feeCurve[i+1]
		if price >= lo.price && price <= hi.price {
			t := (price - lo.price) / (hi.price - lo.price)
			return lo.fee100 + t*(hi.fee100-lo.fee100)
		}
	}
	return last.fee100
}

// CalculateTakerFeeUSDC estimates the taker fee for a fill, scaled by the
// account's fee rate. Results round to 4 decimals with a one-tenth-of-a-cent
// floor on any nonzero fee.
func CalculateTakerFeeUSDC(price, quantity float64, feeRateBps int64) float64 {
	if feeRateBps <= 0 {
		return 0
	}
	scale := float64(feeRateBps) / 1000.0
	fee := (feePer100Shares(price) * scale / 100.0) * quantity
	fee = math.Round(fee*1e4) / 1e4
	if fee > 0 && fee < 0.0001 {
		fee = 0.0001
	}
	return fee
}

// CalculateMakerRebateUSDC is the rebate paid on maker fills, a flat bps cut
// of notional.
func CalculateMakerRebateUSDC(price, quantity float64, rebateRateBps int64) float64 {
	if rebateRateBps <= 0 {
		return 0
	}
	rebate := price * quantity * (float64(rebateRateBps) / 10000.0)
	return math.Round(rebate*1e4) / 1e4
}

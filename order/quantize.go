package order

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	// USDC and outcome shares both use 6-decimal base units on Polygon.
	collateralDecimals = 6

	// Sizes are quoted in shares with at most two decimal places.
	sizeDecimals = 2

	// MinTradeValue is the smallest USD notional the exchange accepts.
	// Anything below is silently dropped server-side, so it is rejected here.
	MinTradeValue = 0.50
)

// priceDecimals maps a tick size to the number of legal decimal digits for a
// price. Unrecognized or coarser-than-0.1 ticks fall back to one decimal.
//
//	0.1    -> 1
//	0.01   -> 2
//	0.001  -> 3
//	0.0001 -> 4
func priceDecimals(tick float64) int32 {
	switch {
	case tick <= 0.0001:
		return 4
	case tick <= 0.001:
		return 3
	case tick <= 0.01:
		return 2
	default:
		return 1
	}
}

// Amounts is the result of quantizing a (price, size) pair: the tick-legal
// price, the floored size, and both legs as integer base-unit amounts.
type Amounts struct {
	Price  decimal.Decimal
	Size   decimal.Decimal
	USDC   *big.Int // dollar leg, 6-decimal base units
	Shares *big.Int // share leg, 6-decimal base units
}

// Quantize converts a real-valued price and size into exchange-legal integer
// quantities for the given tick size.
//
// The price is rounded half away from zero at the tick's precision. The size
// is always floored to two decimals, never rounded up, so the bot can not
// overspend or oversell. The dollar leg is then quantized to
// priceDecimals+2 decimal places in USD terms; the share leg is exact.
func Quantize(price, size, tick float64) (*Amounts, error) {
	p := decimal.NewFromFloat(price)
	s := decimal.NewFromFloat(size)

	// Dust check runs on the raw inputs, before any rounding. The boundary is
	// inclusive: a $0.50 notional passes.
	notional := p.Mul(s)
	if notional.LessThan(decimal.NewFromFloat(MinTradeValue)) {
		return nil, fmt.Errorf("%w: $%s (price=%v size=%v)",
			ErrTradeTooSmall, notional.StringFixed(4), price, size)
	}

	pd := priceDecimals(tick)
	amountDecimals := pd + sizeDecimals

	p = p.Round(pd)
	s = s.Truncate(sizeDecimals)
	if s.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}

	// Rounding the USD value to amountDecimals places and shifting by six is
	// the same as rounding the base-unit amount to the nearest
	// 10^(6-amountDecimals) units.
	usdc := s.Mul(p).Round(amountDecimals).Shift(collateralDecimals)
	shares := s.Shift(collateralDecimals)

	a := &Amounts{
		Price:  p,
		Size:   s,
		USDC:   usdc.BigInt(),
		Shares: shares.BigInt(),
	}

	if a.USDC.Sign() == 0 || a.Shares.Sign() == 0 {
		return nil, fmt.Errorf("%w (usdc=%s shares=%s)",
			ErrAmountRoundedToZero, a.USDC, a.Shares)
	}

	return a, nil
}

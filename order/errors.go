package order

import "errors"

// Every failure in the construction pipeline maps to one of these sentinels
// so callers can tell a skippable order apart from a broken configuration.
// None of them are retryable with identical inputs: quantization and signing
// are deterministic.
var (
	// ErrTradeTooSmall rejects orders whose USD notional is below the $0.50
	// exchange minimum, before any quantization happens.
	ErrTradeTooSmall = errors.New("trade value below exchange minimum")

	// ErrInvalidSize rejects sizes that floor to zero at two decimals.
	ErrInvalidSize = errors.New("size too small after rounding")

	// ErrAmountRoundedToZero rejects orders whose maker or taker amount
	// quantized to zero base units. Possible at coarse tick sizes even when
	// the notional pre-check passed.
	ErrAmountRoundedToZero = errors.New("order amount rounded to zero")

	// ErrTokenID rejects token ids that are not non-negative decimal strings.
	ErrTokenID = errors.New("invalid token id")

	// ErrTopologyMismatch rejects orders whose signature type contradicts the
	// maker/signer address pair. The exchange gives no useful error for this,
	// so it is caught here.
	ErrTopologyMismatch = errors.New("signature type does not match wallet topology")

	// ErrSigning wraps failures of the external signing capability.
	ErrSigning = errors.New("order signing failed")
)

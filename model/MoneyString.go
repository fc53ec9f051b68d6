package model

import (
	"fmt"
	"strings"

	"github.com/idc-chain/idcnode/errors"
)

const (
	// MoneyDecimals is the number of fractional digits of a whole coin.
	MoneyDecimals = 6

	// fixedPointUpperBound is the largest magnitude ParseFixedPoint accepts, 10^18 - 1.
	fixedPointUpperBound int64 = 1_000_000_000_000_000_000 - 1
)

// FormatMoney renders v as a decimal coin value. Trailing zeros of the fraction are trimmed
// but at least two decimals are always kept. A leading '-' marks negative values and, when plus
// is set, a leading '+' marks positive ones.
func FormatMoney(v Amount, plus bool) string {
	// uint64 so that the most negative value does not overflow
	abs := uint64(v)
	if v < 0 {
		abs = -abs
	}

	quotient := abs / uint64(COIN)
	remainder := abs % uint64(COIN)

	str := fmt.Sprintf("%d.%06d", quotient, remainder)

	trim := 0
	for i := len(str) - 1; str[i] == '0' && isDigit(str[i-2]); i-- {
		trim++
	}

	str = str[:len(str)-trim]

	switch {
	case v < 0:
		return "-" + str
	case plus && v > 0:
		return "+" + str
	default:
		return str
	}
}

// ParseMoney parses a decimal coin value into subunits. Negative values are rejected unless
// allowNegative is set. Surrounding whitespace is ignored.
func ParseMoney(s string, allowNegative bool) (Amount, error) {
	v, err := ParseFixedPoint(strings.TrimSpace(s), MoneyDecimals)
	if err != nil {
		return 0, err
	}

	if v < 0 && !allowNegative {
		return 0, errors.NewAmountParseError("negative amount %q not allowed", s)
	}

	return Amount(v), nil
}

// ParseFixedPoint parses a decimal number with an optional exponent into an integer scaled by
// 10^decimals. The grammar is -?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)? and the result must
// be representable without losing precision and have a magnitude below 10^18.
func ParseFixedPoint(val string, decimals int) (int64, error) {
	var (
		mantissa       int64
		exponent       int64
		mantissaTZeros int
		mantissaSign   bool
		exponentSign   bool
		pointOfs       int64
		ptr            int
		end            = len(val)
	)

	fail := func(reason string) (int64, error) {
		return 0, errors.NewAmountParseError("invalid fixed point value %q: %s", val, reason)
	}

	if ptr < end && val[ptr] == '-' {
		mantissaSign = true
		ptr++
	}

	if ptr >= end {
		return fail("empty")
	}

	switch {
	case val[ptr] == '0':
		// a single leading zero
		ptr++
	case val[ptr] >= '1' && val[ptr] <= '9':
		for ptr < end && isDigit(val[ptr]) {
			if !processMantissaDigit(val[ptr], &mantissa, &mantissaTZeros) {
				return fail("overflow")
			}
			ptr++
		}
	default:
		return fail("missing digit")
	}

	if ptr < end && val[ptr] == '.' {
		ptr++

		if ptr >= end || !isDigit(val[ptr]) {
			return fail("missing fraction digit")
		}

		for ptr < end && isDigit(val[ptr]) {
			if !processMantissaDigit(val[ptr], &mantissa, &mantissaTZeros) {
				return fail("overflow")
			}
			ptr++
			pointOfs++
		}
	}

	if ptr < end && (val[ptr] == 'e' || val[ptr] == 'E') {
		ptr++

		if ptr < end && val[ptr] == '+' {
			ptr++
		} else if ptr < end && val[ptr] == '-' {
			exponentSign = true
			ptr++
		}

		if ptr >= end || !isDigit(val[ptr]) {
			return fail("missing exponent digit")
		}

		for ptr < end && isDigit(val[ptr]) {
			if exponent > fixedPointUpperBound/10 {
				return fail("exponent overflow")
			}

			exponent = exponent*10 + int64(val[ptr]-'0')
			ptr++
		}
	}

	if ptr != end {
		return fail("trailing characters")
	}

	if exponentSign {
		exponent = -exponent
	}

	exponent = exponent - pointOfs + int64(mantissaTZeros)

	if mantissaSign {
		mantissa = -mantissa
	}

	exponent += int64(decimals)
	if exponent < 0 {
		return fail("more precise than the fixed scale")
	}

	if exponent >= 18 {
		return fail("too large")
	}

	for i := int64(0); i < exponent; i++ {
		if mantissa > fixedPointUpperBound/10 || mantissa < -(fixedPointUpperBound/10) {
			return fail("overflow")
		}

		mantissa *= 10
	}

	if mantissa > fixedPointUpperBound || mantissa < -fixedPointUpperBound {
		return fail("overflow")
	}

	return mantissa, nil
}

// processMantissaDigit folds ch into mantissa. Zeros are counted lazily so that trailing zeros
// of the fraction do not overflow the mantissa.
func processMantissaDigit(ch byte, mantissa *int64, tzeros *int) bool {
	if ch == '0' {
		*tzeros++
		return true
	}

	for i := 0; i <= *tzeros; i++ {
		if *mantissa > fixedPointUpperBound/10 {
			return false
		}

		*mantissa *= 10
	}

	*mantissa += int64(ch - '0')
	*tzeros = 0

	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

package num

import (
	"math/big"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

var (
	decimalChunk = U128{lo: pow10x19}

	pow10 = [chunkLen + 1]uint64{
		1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000,
		1000000000, 10000000000, 100000000000, 1000000000000,
		10000000000000, 100000000000000, 1000000000000000,
		10000000000000000, 100000000000000000, 1000000000000000000,
		10000000000000000000,
	}

	// 80 digits comfortably holds any 128-bit integer multiplied by the
	// fixed-point scale.
	decimalPrecision uint32 = 80
)

const overflowDigits = 60

// parseDecimal reads an optionally signed base-10 string into its magnitude.
// If the magnitude does not fit in 128 bits, accurate is false and mag is
// undefined; the rest of the string is still validated.
func parseDecimal(s, kind string) (mag U128, neg, accurate bool, err error) {
	orig := s
	if s == "" {
		return mag, false, false, FormatError.New("%s string is empty", kind)
	}
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if s == "" {
		return mag, false, false, FormatError.New("%s string %q invalid", kind, orig)
	}

	accurate = true
	for len(s) > 0 {
		n := len(s)
		if n > chunkLen {
			n = chunkLen
		}

		var chunk uint64
		for i := 0; i < n; i++ {
			c := s[i]
			if c < '0' || c > '9' {
				return U128{}, false, false, FormatError.New("%s string %q invalid", kind, orig)
			}
			chunk = chunk*10 + uint64(c-'0')
		}
		s = s[n:]

		if !accurate {
			continue
		}

		// mag = mag*10^n + chunk, watching for carries out of the top limb.
		p := pow10[n]
		hiHi, hiLo := mul64to128(mag.hi, p)
		loHi, loLo := mul64to128(mag.lo, p)
		hi := hiLo + loHi
		if hiHi != 0 || hi < hiLo {
			accurate = false
			continue
		}
		lo := loLo + chunk
		if lo < loLo {
			hi++
			if hi == 0 {
				accurate = false
				continue
			}
		}
		mag = U128{hi: hi, lo: lo}
	}
	return mag, neg, accurate, nil
}

func appendChunk(buf []byte, v uint64) []byte {
	var tmp [chunkLen]byte
	for i := chunkLen - 1; i >= 0; i-- {
		tmp[i] = byte('0' + v%10)
		v /= 10
	}
	return append(buf, tmp[:]...)
}

func (u U128) appendDecimal(buf []byte) []byte {
	if u.hi == 0 {
		return strconv.AppendUint(buf, u.lo, 10)
	}

	var chunks [2]uint64
	n := 0
	for u.hi != 0 {
		var r U128
		u, r = u.QuoRem(decimalChunk)
		chunks[n] = r.lo
		n++
	}

	buf = strconv.AppendUint(buf, u.lo, 10)
	for i := n - 1; i >= 0; i-- {
		buf = appendChunk(buf, chunks[i])
	}
	return buf
}

// String renders u in base 10.
func (u U128) String() string {
	if u.hi == 0 {
		return strconv.FormatUint(u.lo, 10)
	}
	return string(u.appendDecimal(make([]byte, 0, maxDigits)))
}

// String renders i in base 10 with a leading '-' for negative values.
func (i I128) String() string {
	if !i.IsNeg() {
		return i.u.String()
	}
	buf := make([]byte, 1, maxDigits+1)
	buf[0] = '-'
	return string(i.u.Neg().appendDecimal(buf))
}

func unquoteJSON(bts []byte, kind string) ([]byte, error) {
	if len(bts) > 0 && bts[0] == '"' {
		ln := len(bts)
		if ln < 2 || bts[ln-1] != '"' {
			return nil, FormatError.New("%s invalid JSON %q", kind, string(bts))
		}
		bts = bts[1 : ln-1]
	}
	return bts, nil
}

func decimalContext(rounding apd.Rounder) *apd.Context {
	ctx := apd.BaseContext.WithPrecision(decimalPrecision)
	ctx.Rounding = rounding
	return ctx
}

// integralDecimal rounds d to an integer with the given rounding mode and
// returns it as a signed big.Int. Values with more than overflowDigits
// integer digits are replaced by a same-signed value that is still out of
// range for every type in this package, so callers clamp as usual.
func integralDecimal(d *apd.Decimal, rounding apd.Rounder, kind string) (*big.Int, error) {
	if d.Form != apd.Finite {
		return nil, FormatError.New("%s decimal %s is not finite", kind, d.String())
	}
	if d.NumDigits()+int64(d.Exponent) > overflowDigits {
		b := new(big.Int).Exp(big.NewInt(10), big.NewInt(overflowDigits), nil)
		if d.Negative {
			b.Neg(b)
		}
		return b, nil
	}
	var rd apd.Decimal
	if _, err := decimalContext(rounding).Quantize(&rd, d, 0); err != nil {
		return nil, FormatError.Wrap(err)
	}
	b := rd.Coeff.MathBigInt()
	if rd.Negative {
		b.Neg(b)
	}
	return b, nil
}

func decimalFromBig(b *big.Int, exp int32) *apd.Decimal {
	var coeff apd.BigInt
	neg := b.Sign() < 0
	coeff.SetMathBigInt(new(big.Int).Abs(b))
	d := apd.NewWithBigInt(&coeff, exp)
	d.Negative = neg
	return d
}

// U128FromDecimal creates a U128 from an arbitrary-precision decimal. Any
// fractional portion is truncated towards zero. Overflow truncates to MaxU128
// and sets accurate to 'false'. Negative values store the two's complement of
// the magnitude, as U128FromString does.
func U128FromDecimal(d *apd.Decimal) (out U128, accurate bool, err error) {
	b, err := integralDecimal(d, apd.RoundDown, "u128")
	if err != nil {
		return out, false, err
	}
	neg := b.Sign() < 0
	out, accurate = U128FromBigInt(b.Abs(b))
	if neg && accurate {
		out = out.Neg()
	}
	return out, accurate, nil
}

// I128FromDecimal creates an I128 from an arbitrary-precision decimal. Any
// fractional portion is truncated towards zero. Overflow truncates to
// MaxI128/MinI128 and sets accurate to 'false'.
func I128FromDecimal(d *apd.Decimal) (out I128, accurate bool, err error) {
	b, err := integralDecimal(d, apd.RoundDown, "i128")
	if err != nil {
		return out, false, err
	}
	out, accurate = I128FromBigInt(b)
	return out, accurate, nil
}

// AsDecimal returns u as an exact apd.Decimal.
func (u U128) AsDecimal() *apd.Decimal {
	return decimalFromBig(u.AsBigInt(), 0)
}

// AsDecimal returns i as an exact apd.Decimal.
func (i I128) AsDecimal() *apd.Decimal {
	return decimalFromBig(i.AsBigInt(), 0)
}

// fixedRawToDecimal converts a raw fixed-point value to its exact decimal
// value. 1/4096 == 244140625 * 10^-12, so every raw value has a finite
// decimal expansion with at most 12 fractional digits.
func fixedRawToDecimal(raw *big.Int) *apd.Decimal {
	const fixedUnit = 244140625
	coeff := new(big.Int).Mul(raw, big.NewInt(fixedUnit))
	d := decimalFromBig(coeff, -12)
	d.Reduce(d)
	if d.Exponent > 0 || d.IsZero() {
		// Whole numbers render without an exponent; quantizing to 0 is exact.
		_, _ = decimalContext(apd.RoundDown).Quantize(d, d, 0)
	}
	return d
}

// fixedRawFromDecimal scales d by the fixed-point factor and rounds
// half-to-even onto the 1/4096 grid.
func fixedRawFromDecimal(d *apd.Decimal, kind string) (*big.Int, error) {
	if d.Form != apd.Finite {
		return nil, FormatError.New("%s decimal %s is not finite", kind, d.String())
	}
	var scaled apd.Decimal
	if _, err := decimalContext(apd.RoundHalfEven).Mul(&scaled, d, apd.New(FixedScale, 0)); err != nil {
		return nil, FormatError.Wrap(err)
	}
	return integralDecimal(&scaled, apd.RoundHalfEven, kind)
}

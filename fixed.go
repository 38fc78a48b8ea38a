package num

import (
	"math"
	"math/big"

	"github.com/cockroachdb/apd/v3"
)

// FInt is a fixed-point real number stored as raw / FixedScale in an int64.
// It has 12 fractional bits, so it represents steps of 1/4096 exactly and
// never drifts under addition.
//
// Multiplication rescales after the raw product and division rescales the
// dividend before the raw quotient; both truncate, so a*b/b is not always a.
type FInt struct {
	raw int64
}

func FIntFromRaw(raw int64) FInt { return FInt{raw: raw} }

// FIntFromInt converts the integer v to fixed point. Values beyond the
// 51-bit integer range wrap.
func FIntFromInt(v int64) FInt { return FInt{raw: v << FixedScaleBits} }

// FIntFromFloat64 rounds f to the nearest 1/4096, with ties going to the
// even step like FIntFromDecimal. NaN yields zero and values outside the
// int64 raw range clamp; both set inRange to false.
func FIntFromFloat64(f float64) (out FInt, inRange bool) {
	r := math.RoundToEven(f * FixedScale)
	if r != r {
		return out, false
	} else if r >= -minInt64Float {
		return FInt{raw: maxInt64}, false
	} else if r < minInt64Float {
		return FInt{raw: minInt64}, false
	}
	return FInt{raw: int64(r)}, true
}

// FIntFromParts builds pre + post/1000, where post is a count of thousandths.
// The fractional part is truncated onto the 1/4096 grid, so
// FIntFromParts(3, 500) is exactly 3.5 but FIntFromParts(0, 1) is 4/4096.
func FIntFromParts(pre, post int64) FInt {
	return FIntFromInt(pre).Add(FIntFromInt(post).Quo(FIntFromInt(1000)))
}

// FIntFromDecimal rounds d half-to-even onto the 1/4096 grid. Values outside
// the raw range clamp and set accurate to 'false'.
func FIntFromDecimal(d *apd.Decimal) (out FInt, accurate bool, err error) {
	b, err := fixedRawFromDecimal(d, "fint")
	if err != nil {
		return out, false, err
	}
	if !b.IsInt64() {
		if b.Sign() < 0 {
			return FInt{raw: minInt64}, false, nil
		}
		return FInt{raw: maxInt64}, false, nil
	}
	return FInt{raw: b.Int64()}, true, nil
}

func (f FInt) Raw() int64      { return f.raw }
func (f FInt) IsZero() bool    { return f.raw == 0 }
func (f FInt) AsFBig() FBig    { return FBig{raw: I128From64(f.raw)} }
func (f FInt) Add(n FInt) FInt { return FInt{raw: f.raw + n.raw} }
func (f FInt) Sub(n FInt) FInt { return FInt{raw: f.raw - n.raw} }
func (f FInt) Neg() FInt       { return FInt{raw: -f.raw} }

func (f FInt) Sign() int {
	if f.raw < 0 {
		return -1
	} else if f.raw > 0 {
		return 1
	}
	return 0
}

func (f FInt) Abs() FInt {
	if f.raw < 0 {
		return FInt{raw: -f.raw}
	}
	return f
}

// Mul returns f * n. The raw product wraps in 64 bits before the low 12 bits
// are shifted away.
func (f FInt) Mul(n FInt) FInt {
	return FInt{raw: (f.raw * n.raw) >> FixedScaleBits}
}

// Quo returns f / n, truncated towards zero. If n is zero, a DivideByZero
// panic occurs.
func (f FInt) Quo(n FInt) FInt {
	if n.raw == 0 {
		panicDivideByZero("fint")
	}
	return FInt{raw: (f.raw << FixedScaleBits) / n.raw}
}

// Rem returns the raw remainder of f / n; its sign follows f. If n is zero, a
// DivideByZero panic occurs.
func (f FInt) Rem(n FInt) FInt {
	if n.raw == 0 {
		panicDivideByZero("fint")
	}
	return FInt{raw: f.raw % n.raw}
}

func (f FInt) Lsh(n uint) FInt { return FInt{raw: f.raw << n} }
func (f FInt) Rsh(n uint) FInt { return FInt{raw: f.raw >> n} }

func (f FInt) Cmp(n FInt) int {
	if f.raw < n.raw {
		return -1
	} else if f.raw > n.raw {
		return 1
	}
	return 0
}

func (f FInt) Equal(n FInt) bool            { return f.raw == n.raw }
func (f FInt) GreaterThan(n FInt) bool      { return f.raw > n.raw }
func (f FInt) GreaterOrEqualTo(n FInt) bool { return f.raw >= n.raw }
func (f FInt) LessThan(n FInt) bool         { return f.raw < n.raw }
func (f FInt) LessOrEqualTo(n FInt) bool    { return f.raw <= n.raw }

// Int64 returns the integer part, rounded towards negative infinity.
func (f FInt) Int64() int64 { return f.raw >> FixedScaleBits }

func (f FInt) Float64() float64 { return float64(f.raw) / FixedScale }

// AsDecimal returns the exact decimal value of f.
func (f FInt) AsDecimal() *apd.Decimal {
	return fixedRawToDecimal(big.NewInt(f.raw))
}

// String renders the exact decimal value of f without trailing zeros.
func (f FInt) String() string {
	return f.AsDecimal().Text('f')
}

func (f FInt) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *FInt) UnmarshalText(bts []byte) error {
	d, err := parseFixedDecimal(bts, "fint")
	if err != nil {
		return err
	}
	v, _, err := FIntFromDecimal(d)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f FInt) MarshalJSON() ([]byte, error) {
	return []byte(`"` + f.String() + `"`), nil
}

func (f *FInt) UnmarshalJSON(bts []byte) (err error) {
	bts, err = unquoteJSON(bts, "fint")
	if err != nil {
		return err
	}
	return f.UnmarshalText(bts)
}

// FBig is a fixed-point real number stored as raw / FixedScale in an I128.
// It behaves exactly like FInt with a wider backing integer.
type FBig struct {
	raw I128
}

func FBigFromRaw(raw I128) FBig { return FBig{raw: raw} }

// FBigFromInt converts the integer v to fixed point. Values beyond the
// 115-bit integer range wrap.
func FBigFromInt(v I128) FBig { return FBig{raw: v.Lsh(FixedScaleBits)} }

func FBigFromInt64(v int64) FBig { return FBigFromInt(I128From64(v)) }

// FBigFromU128 converts the unsigned integer u to fixed point; the shifted
// bit pattern is read as two's complement.
func FBigFromU128(u U128) FBig { return FBig{raw: I128{u: u.Lsh(FixedScaleBits)}} }

// FBigFromFloat64 rounds f to the nearest 1/4096, ties to even. NaN yields
// zero and values outside the raw range clamp; both set inRange to false.
func FBigFromFloat64(f float64) (out FBig, inRange bool) {
	raw, inRange := I128FromFloat64(math.RoundToEven(f * FixedScale))
	return FBig{raw: raw}, inRange
}

// FBigFromParts builds pre + post/1000, where post is a count of thousandths.
// See FIntFromParts.
func FBigFromParts(pre, post int64) FBig {
	return FBigFromInt64(pre).Add(FBigFromInt64(post).Quo(FBigFromInt64(1000)))
}

// FBigFromDecimal rounds d half-to-even onto the 1/4096 grid. Values outside
// the raw range clamp and set accurate to 'false'.
func FBigFromDecimal(d *apd.Decimal) (out FBig, accurate bool, err error) {
	b, err := fixedRawFromDecimal(d, "fbig")
	if err != nil {
		return out, false, err
	}
	raw, accurate := I128FromBigInt(b)
	return FBig{raw: raw}, accurate, nil
}

func (f FBig) Raw() I128       { return f.raw }
func (f FBig) IsZero() bool    { return f.raw.IsZero() }
func (f FBig) Sign() int       { return f.raw.Sign() }
func (f FBig) Add(n FBig) FBig { return FBig{raw: f.raw.Add(n.raw)} }
func (f FBig) Sub(n FBig) FBig { return FBig{raw: f.raw.Sub(n.raw)} }
func (f FBig) Neg() FBig       { return FBig{raw: f.raw.Neg()} }
func (f FBig) Abs() FBig       { return FBig{raw: f.raw.Abs()} }

// Mul returns f * n. The raw product wraps in 128 bits before the low 12
// bits are shifted away.
func (f FBig) Mul(n FBig) FBig {
	return FBig{raw: f.raw.Mul(n.raw).Rsh(FixedScaleBits)}
}

// Quo returns f / n, truncated towards zero. If n is zero, a DivideByZero
// panic occurs.
func (f FBig) Quo(n FBig) FBig {
	if n.raw.IsZero() {
		panicDivideByZero("fbig")
	}
	return FBig{raw: f.raw.Lsh(FixedScaleBits).Quo(n.raw)}
}

// Rem returns the raw remainder of f / n; its sign follows f. If n is zero, a
// DivideByZero panic occurs.
func (f FBig) Rem(n FBig) FBig {
	if n.raw.IsZero() {
		panicDivideByZero("fbig")
	}
	return FBig{raw: f.raw.Rem(n.raw)}
}

func (f FBig) Lsh(n uint) FBig { return FBig{raw: f.raw.Lsh(n)} }
func (f FBig) Rsh(n uint) FBig { return FBig{raw: f.raw.Rsh(n)} }

func (f FBig) Cmp(n FBig) int               { return f.raw.Cmp(n.raw) }
func (f FBig) Equal(n FBig) bool            { return f.raw.Equal(n.raw) }
func (f FBig) GreaterThan(n FBig) bool      { return f.raw.GreaterThan(n.raw) }
func (f FBig) GreaterOrEqualTo(n FBig) bool { return f.raw.GreaterOrEqualTo(n.raw) }
func (f FBig) LessThan(n FBig) bool         { return f.raw.LessThan(n.raw) }
func (f FBig) LessOrEqualTo(n FBig) bool    { return f.raw.LessOrEqualTo(n.raw) }

// Int returns the integer part, rounded towards negative infinity.
func (f FBig) Int() I128 { return f.raw.Rsh(FixedScaleBits) }

// Int64 truncates Int() to 64 bits.
func (f FBig) Int64() int64 { return f.Int().AsInt64() }

func (f FBig) Float64() float64 { return f.raw.AsFloat64() / FixedScale }

// AsDecimal returns the exact decimal value of f.
func (f FBig) AsDecimal() *apd.Decimal {
	return fixedRawToDecimal(f.raw.AsBigInt())
}

// String renders the exact decimal value of f without trailing zeros.
func (f FBig) String() string {
	return f.AsDecimal().Text('f')
}

func (f FBig) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *FBig) UnmarshalText(bts []byte) error {
	d, err := parseFixedDecimal(bts, "fbig")
	if err != nil {
		return err
	}
	v, _, err := FBigFromDecimal(d)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f FBig) MarshalJSON() ([]byte, error) {
	return []byte(`"` + f.String() + `"`), nil
}

func (f *FBig) UnmarshalJSON(bts []byte) (err error) {
	bts, err = unquoteJSON(bts, "fbig")
	if err != nil {
		return err
	}
	return f.UnmarshalText(bts)
}

func parseFixedDecimal(bts []byte, kind string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(string(bts))
	if err != nil {
		return nil, FormatError.New("%s string %q invalid: %v", kind, string(bts), err)
	}
	return d, nil
}

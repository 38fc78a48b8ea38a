package num

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"
)

// U128 is an unsigned 128-bit integer held as two 64-bit limbs. All
// arithmetic wraps modulo 2^128.
type U128 struct {
	hi, lo uint64
}

func U128FromRaw(hi, lo uint64) U128 { return U128{hi: hi, lo: lo} }
func U128From64(v uint64) U128       { return U128{hi: 0, lo: v} }
func U128From32(v uint32) U128       { return U128{hi: 0, lo: uint64(v)} }
func U128From16(v uint16) U128       { return U128{hi: 0, lo: uint64(v)} }
func U128From8(v uint8) U128         { return U128{hi: 0, lo: uint64(v)} }

// U128FromI64 creates a U128 from an int64. Negative values are stored as
// their two's complement, so U128FromI64(-1) == MaxU128.
func U128FromI64(v int64) U128 {
	if v < 0 {
		return U128{lo: uint64(-v)}.Neg()
	}
	return U128{lo: uint64(v)}
}

// U128FromString creates a U128 from a decimal string. Overflow truncates to
// MaxU128 and sets accurate to 'false'. A leading '-' stores the two's
// complement of the magnitude.
func U128FromString(s string) (out U128, accurate bool, err error) {
	mag, neg, accurate, err := parseDecimal(s, "u128")
	if err != nil {
		return out, false, err
	}
	if !accurate {
		return MaxU128, false, nil
	}
	if neg {
		mag = mag.Neg()
	}
	return mag, true, nil
}

// U128FromBigInt creates a U128 from a big.Int. Overflow truncates to MaxU128
// and sets accurate to 'false'.
func U128FromBigInt(v *big.Int) (out U128, accurate bool) {
	if v.Sign() < 0 {
		return out, false
	}
	return u128FromWords(v.Bits())
}

// u128FromWords reads a big.Int magnitude, most significant word last. More
// than 128 bits clamps to MaxU128.
func u128FromWords(words []big.Word) (out U128, accurate bool) {
	if len(words) > wordsPerU128 {
		return MaxU128, false
	}
	for i := len(words) - 1; i >= 0; i-- {
		out = out.Lsh(bits.UintSize).Or(U128{lo: uint64(words[i])})
	}
	return out, true
}

func U128FromFloat32(f float32) (out U128, inRange bool) {
	return U128FromFloat64(float64(f))
}

// U128FromFloat64 creates a U128 from a float64. Any fractional portion
// will be truncated towards zero. Positive floats beyond MaxU128 clamp to
// MaxU128.
//
// Negative floats wrap: the result is the two's complement of the truncated
// magnitude, and inRange is false.
//
// NaN is treated as 0, inRange is set to false.
func U128FromFloat64(f float64) (out U128, inRange bool) {
	if f == 0 {
		return U128{}, true

	} else if f < 0 {
		if f <= -maxU128Float {
			return U128{}, false
		}
		out, _ = U128FromFloat64(-f)
		return out.Neg(), false

	} else if f < wrapUint64Float {
		return U128{lo: uint64(f)}, true

	} else if f < maxU128Float { // float64(MaxU128) rounds up to 1<<128
		// Both steps are exact: dividing by 2^64 only moves the exponent,
		// and f - hi*2^64 is below 2^64 while ulp(f) is at least 2^12.
		hi := math.Floor(f / wrapUint64Float)
		return U128{hi: uint64(hi), lo: uint64(f - hi*wrapUint64Float)}, true

	} else if f != f { // (f != f) == NaN
		return U128{}, false

	} else {
		return MaxU128, false
	}
}

// RandU128 generates an unsigned 128-bit random integer from an external source.
func RandU128(source RandSource) (out U128) {
	return U128{hi: source.Uint64(), lo: source.Uint64()}
}

func (u U128) IsZero() bool { return u == zeroU128 }

// Raw returns access to the U128 as a pair of uint64s. See U128FromRaw() for
// the counterpart.
func (u U128) Raw() (hi, lo uint64) { return u.hi, u.lo }

// Sign returns 0 if u is zero, otherwise 1.
func (u U128) Sign() int {
	if u == zeroU128 {
		return 0
	}
	return 1
}

func (u U128) IsEven() bool { return u.lo&1 == 0 }

func (u U128) IsPowerOfTwo() bool {
	return u != zeroU128 && u.And(u.Dec()) == zeroU128
}

func (u U128) Format(s fmt.State, c rune) {
	u.AsBigInt().Format(s, c)
}

// IntoBigInt stores u in b, reusing b's backing array where it is large
// enough.
func (u U128) IntoBigInt(b *big.Int) {
	words := b.Bits()
	if cap(words) < wordsPerU128 {
		words = make([]big.Word, wordsPerU128)
	}
	words = words[:wordsPerU128]
	for i := range words {
		words[i] = big.Word(u.lo)
		u = u.Rsh(bits.UintSize)
	}
	b.SetBits(words)
}

func (u U128) AsBigInt() (b *big.Int) {
	var v big.Int
	u.IntoBigInt(&v)
	return &v
}

func (u U128) AsBigFloat() (b *big.Float) {
	return new(big.Float).SetInt(u.AsBigInt())
}

// AsFloat64 returns hi * 2^64 + lo, rounded to the nearest float64.
func (u U128) AsFloat64() float64 {
	if u.hi == 0 {
		return float64(u.lo)
	}
	return (float64(u.hi) * wrapUint64Float) + float64(u.lo)
}

// AsI128 performs a direct cast of a U128 to an I128, which will interpret it
// as a two's complement value.
func (u U128) AsI128() I128 {
	return I128{u: u}
}

// IsI128 reports whether u can be represented in an I128.
func (u U128) IsI128() bool {
	return u.hi&signBit == 0
}

// AsUint64 truncates the U128 to fit in a uint64. Values outside the range
// will over/underflow. See IsUint64() if you want to check before you convert.
func (u U128) AsUint64() uint64 {
	return u.lo
}

// AsInt64 truncates the U128 to its low 64 bits and reinterprets them as an
// int64.
func (u U128) AsInt64() int64 {
	return int64(u.lo)
}

// IsUint64 reports whether u can be represented as a uint64.
func (u U128) IsUint64() bool {
	return u.hi == 0
}

func (u U128) Inc() (v U128) {
	v.lo = u.lo + 1
	v.hi = u.hi
	if u.lo > v.lo {
		v.hi++
	}
	return v
}

func (u U128) Dec() (v U128) {
	v.lo = u.lo - 1
	v.hi = u.hi
	if u.lo < v.lo {
		v.hi--
	}
	return v
}

func (u U128) Add(n U128) (v U128) {
	v.lo = u.lo + n.lo
	v.hi = u.hi + n.hi
	if u.lo > v.lo {
		v.hi++
	}
	return v
}

func (u U128) Add64(n uint64) (v U128) {
	v.lo = u.lo + n
	v.hi = u.hi
	if u.lo > v.lo {
		v.hi++
	}
	return v
}

func (u U128) Sub(n U128) (v U128) {
	v.lo = u.lo - n.lo
	v.hi = u.hi - n.hi
	if u.lo < v.lo {
		v.hi--
	}
	return v
}

func (u U128) Sub64(n uint64) (v U128) {
	v.lo = u.lo - n
	v.hi = u.hi
	if u.lo < v.lo {
		v.hi--
	}
	return v
}

// Neg returns the two's complement of u, i.e. 0 - u.
func (u U128) Neg() (v U128) {
	v.hi = ^u.hi
	v.lo = ^u.lo + 1
	if v.lo == 0 {
		v.hi++
	}
	return v
}

func (u U128) Cmp(n U128) int {
	if u.hi > n.hi {
		return 1
	} else if u.hi < n.hi {
		return -1
	} else if u.lo > n.lo {
		return 1
	} else if u.lo < n.lo {
		return -1
	}
	return 0
}

// CmpValue compares u against any of the integer types this package knows
// how to widen. A nil v orders below every U128. Unsupported types return an
// InvalidCast error.
func (u U128) CmpValue(v interface{}) (int, error) {
	switch v := v.(type) {
	case nil:
		return 1, nil
	case U128:
		return u.Cmp(v), nil
	case *U128:
		if v == nil {
			return 1, nil
		}
		return u.Cmp(*v), nil
	case I128:
		if v.IsNeg() {
			return 1, nil
		}
		return u.Cmp(v.u), nil
	case uint64:
		return u.Cmp(U128{lo: v}), nil
	case uint32:
		return u.Cmp(U128{lo: uint64(v)}), nil
	case uint:
		return u.Cmp(U128{lo: uint64(v)}), nil
	case int64:
		if v < 0 {
			return 1, nil
		}
		return u.Cmp(U128{lo: uint64(v)}), nil
	case int32:
		return u.CmpValue(int64(v))
	case int:
		return u.CmpValue(int64(v))
	default:
		return 0, InvalidCast.New("cannot compare u128 with %T", v)
	}
}

func (u U128) Equal(n U128) bool {
	return u.hi == n.hi && u.lo == n.lo
}

func (u U128) GreaterThan(n U128) bool {
	return u.hi > n.hi || (u.hi == n.hi && u.lo > n.lo)
}

func (u U128) GreaterOrEqualTo(n U128) bool {
	return u.hi > n.hi || (u.hi == n.hi && u.lo >= n.lo)
}

func (u U128) LessThan(n U128) bool {
	return u.hi < n.hi || (u.hi == n.hi && u.lo < n.lo)
}

func (u U128) LessOrEqualTo(n U128) bool {
	return u.hi < n.hi || (u.hi == n.hi && u.lo <= n.lo)
}

func (u U128) And(v U128) (out U128) {
	out.hi = u.hi & v.hi
	out.lo = u.lo & v.lo
	return out
}

func (u U128) AndNot(v U128) (out U128) {
	out.hi = u.hi &^ v.hi
	out.lo = u.lo &^ v.lo
	return out
}

func (u U128) Or(v U128) (out U128) {
	out.hi = u.hi | v.hi
	out.lo = u.lo | v.lo
	return out
}

func (u U128) Xor(v U128) (out U128) {
	out.hi = u.hi ^ v.hi
	out.lo = u.lo ^ v.lo
	return out
}

func (u U128) Not() (out U128) {
	out.hi = ^u.hi
	out.lo = ^u.lo
	return out
}

// Bit returns the value of the i'th bit of u. Bits outside [0, 127] are 0.
func (u U128) Bit(i int) uint {
	if i < 0 || i >= 128 {
		return 0
	}
	if i >= 64 {
		return uint((u.hi >> uint(i-64)) & 1)
	}
	return uint((u.lo >> uint(i)) & 1)
}

// SetBit returns u with its i'th bit set to b (0 or 1). It panics if i is
// outside [0, 127] or b is not 0 or 1.
func (u U128) SetBit(i int, b uint) (out U128) {
	if i < 0 || i >= 128 {
		panic(ArgumentError.New("u128 bit %d out of range", i))
	}
	out = u
	switch b {
	case 0:
		if i >= 64 {
			out.hi &^= 1 << uint(i-64)
		} else {
			out.lo &^= 1 << uint(i)
		}
	case 1:
		if i >= 64 {
			out.hi |= 1 << uint(i-64)
		} else {
			out.lo |= 1 << uint(i)
		}
	default:
		panic(ArgumentError.New("u128 bit value %d must be 0 or 1", b))
	}
	return out
}

func (u U128) BitLen() int {
	if u.hi != 0 {
		return bits.Len64(u.hi) + 64
	}
	return bits.Len64(u.lo)
}

// Lsh returns u << n. The shift count is taken modulo 128.
func (u U128) Lsh(n uint) (v U128) {
	n &= 127
	if n == 0 {
		return u
	} else if n >= 64 {
		v.hi = u.lo << (n - 64)
	} else {
		v.hi = (u.hi << n) | (u.lo >> (64 - n))
		v.lo = u.lo << n
	}
	return v
}

// Rsh returns u >> n. The shift count is taken modulo 128.
func (u U128) Rsh(n uint) (v U128) {
	n &= 127
	if n == 0 {
		return u
	} else if n >= 64 {
		v.lo = u.hi >> (n - 64)
	} else {
		v.lo = (u.lo >> n) | (u.hi << (64 - n))
		v.hi = u.hi >> n
	}
	return v
}

// Mul returns the low 128 bits of u * n.
func (u U128) Mul(n U128) (dest U128) {
	dest.hi, dest.lo = mul64to128(u.lo, n.lo)
	dest.hi += u.hi*n.lo + u.lo*n.hi
	return dest
}

func (u U128) Mul64(n uint64) (dest U128) {
	dest.hi, dest.lo = mul64to128(u.lo, n)
	dest.hi += u.hi * n
	return dest
}

// Pow returns u**e, wrapping on overflow. Pow(0) is 1.
func (u U128) Pow(e uint) U128 {
	out := U128{lo: 1}
	for e > 0 {
		if e&1 == 1 {
			out = out.Mul(u)
		}
		u = u.Mul(u)
		e >>= 1
	}
	return out
}

// Quo returns the quotient x/y for y != 0. If y == 0, a DivideByZero panic
// occurs. Quo implements truncated division (like Go); see QuoRem for more
// details.
func (u U128) Quo(by U128) (q U128) {
	q, _ = u.QuoRem(by)
	return q
}

func (u U128) Quo64(by uint64) (q U128) {
	q, _ = u.QuoRem(U128{lo: by})
	return q
}

// QuoRem returns the quotient q and remainder r for y != 0. If y == 0, a
// DivideByZero panic occurs.
//
// QuoRem implements T-division and modulus (like Go):
//
//	q = x/y      with the result truncated to zero
//	r = x - y*q
//
// Operands that both fit in 64 bits use native division; divisors that fit in
// 32 bits use single-digit long division; everything else goes through
// normalized long division on 32-bit digits.
//
func (u U128) QuoRem(by U128) (q, r U128) {
	if by.hi == 0 && by.lo == 0 {
		panicDivideByZero("u128")
	}

	if u.hi|by.hi == 0 {
		q.lo = u.lo / by.lo
		r.lo = u.lo % by.lo
		return q, r
	}

	if u.LessThan(by) {
		return q, u // it's 100% remainder
	}

	if by.hi == 0 && by.lo <= maxUint32 {
		var rd uint32
		q, rd = quoRemSmall(u, uint32(by.lo))
		return q, U128{lo: uint64(rd)}
	}

	return quoRemKnuth(u, by)
}

// Rem returns the remainder of x%y for y != 0. If y == 0, a DivideByZero
// panic occurs. Rem implements truncated modulus (like Go); see QuoRem for
// more details.
func (u U128) Rem(by U128) (r U128) {
	if by.hi == 0 && by.lo == 0 {
		panicDivideByZero("u128")
	}

	if u.hi|by.hi == 0 {
		r.lo = u.lo % by.lo
		return r
	}

	if u.LessThan(by) {
		return u
	}

	if by.hi == 0 && by.lo <= maxUint32 {
		return U128{lo: uint64(remSmall(u, uint32(by.lo)))}
	}

	return knuthDiv(u, by, nil)
}

func (u U128) Rem64(by uint64) (r U128) {
	return u.Rem(U128{lo: by})
}

func (u U128) LeadingZeros() uint {
	if u.hi == 0 {
		return uint(bits.LeadingZeros64(u.lo)) + 64
	}
	return uint(bits.LeadingZeros64(u.hi))
}

func (u U128) TrailingZeros() uint {
	if u.lo == 0 {
		return uint(bits.TrailingZeros64(u.hi)) + 64
	}
	return uint(bits.TrailingZeros64(u.lo))
}

func (u U128) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *U128) UnmarshalText(bts []byte) (err error) {
	v, _, err := U128FromString(string(bts))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

func (u U128) MarshalJSON() ([]byte, error) {
	return []byte(`"` + u.String() + `"`), nil
}

func (u *U128) UnmarshalJSON(bts []byte) (err error) {
	bts, err = unquoteJSON(bts, "u128")
	if err != nil {
		return err
	}
	v, _, err := U128FromString(string(bts))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

package num

import (
	"fmt"
	"math/big"
)

// I128 is a signed 128-bit integer. It holds a single U128 whose bit pattern
// is read as two's complement; the value is negative when bit 127 is set.
type I128 struct {
	u U128
}

var (
	minI128AsAbsU128 = U128{hi: 0x8000000000000000, lo: 0}
	maxI128AsU128    = U128{hi: 0x7FFFFFFFFFFFFFFF, lo: 0xFFFFFFFFFFFFFFFF}
)

// I128FromString creates a I128 from a decimal string. Overflow truncates to
// MaxI128/MinI128 and sets accurate to 'false'.
func I128FromString(s string) (out I128, accurate bool, err error) {
	mag, neg, accurate, err := parseDecimal(s, "i128")
	if err != nil {
		return out, false, err
	}
	if !neg {
		if !accurate || mag.GreaterThan(maxI128AsU128) {
			return MaxI128, false, nil
		}
		return I128{u: mag}, true, nil
	}
	if !accurate || mag.GreaterThan(minI128AsAbsU128) {
		return MinI128, false, nil
	}
	return I128{u: mag.Neg()}, true, nil
}

// I128FromRaw is the complement to I128.Raw(); it creates an I128 from two
// uint64s representing the hi and lo bits.
func I128FromRaw(hi, lo uint64) I128 {
	return I128{u: U128{hi: hi, lo: lo}}
}

func I128From64(v int64) I128 {
	var hi uint64
	if v < 0 {
		hi = maxUint64
	}
	return I128{u: U128{hi: hi, lo: uint64(v)}}
}

func I128From32(v int32) I128   { return I128From64(int64(v)) }
func I128From16(v int16) I128   { return I128From64(int64(v)) }
func I128From8(v int8) I128     { return I128From64(int64(v)) }
func I128FromInt(v int) I128    { return I128From64(int64(v)) }
func I128FromU64(v uint64) I128 { return I128{u: U128{lo: v}} }

// I128FromU128 reinterprets the bits of u as a two's complement value. It is
// the same as u.AsI128().
func I128FromU128(u U128) I128 { return I128{u: u} }

// I128FromBigInt creates an I128 from a big.Int. Overflow truncates to
// MaxI128/MinI128 and sets accurate to 'false'.
func I128FromBigInt(v *big.Int) (out I128, accurate bool) {
	neg := v.Sign() < 0

	u, accurate := u128FromWords(v.Bits())

	if !neg {
		if !accurate || u.GreaterThan(maxI128AsU128) {
			return MaxI128, false
		}
		return I128{u: u}, true
	}

	if !accurate || u.GreaterThan(minI128AsAbsU128) {
		return MinI128, false
	}
	return I128{u: u.Neg()}, true
}

func I128FromFloat32(f float32) (out I128, inRange bool) {
	return I128FromFloat64(float64(f))
}

// I128FromFloat64 creates a I128 from a float64.
//
// Any fractional portion will be truncated towards zero.
//
// Floats outside the bounds of a I128 are clamped to MaxI128/MinI128 and
// inRange will be set to false.
//
// NaN is treated as 0, inRange is set to false.
func I128FromFloat64(f float64) (out I128, inRange bool) {
	if f == 0 {
		return out, true

	} else if f != f { // f != f == isnan
		return out, false

	} else if f < 0 {
		if f < minI128Float {
			return MinI128, false
		}
		mag, _ := U128FromFloat64(-f)
		return I128{u: mag.Neg()}, true

	} else {
		if f >= -minI128Float { // 1 << 127 is already out of range
			return MaxI128, false
		}
		mag, _ := U128FromFloat64(f)
		return I128{u: mag}, true
	}
}

// RandI128 generates a positive signed 128-bit random integer from an external
// source.
func RandI128(source RandSource) (out I128) {
	return I128{u: U128{hi: source.Uint64() & maxInt64, lo: source.Uint64()}}
}

func (i I128) IsZero() bool { return i == zeroI128 }

// IsNeg reports whether the sign bit is set.
func (i I128) IsNeg() bool { return i.u.hi&signBit != 0 }

// Raw returns access to the I128 as a pair of uint64s. See I128FromRaw() for
// the counterpart.
func (i I128) Raw() (hi uint64, lo uint64) { return i.u.hi, i.u.lo }

func (i I128) Format(s fmt.State, c rune) {
	i.AsBigInt().Format(s, c)
}

// IntoBigInt copies this I128 into a big.Int, allowing you to retain and
// recycle memory.
func (i I128) IntoBigInt(b *big.Int) {
	if !i.IsNeg() {
		i.u.IntoBigInt(b)
		return
	}
	i.u.Neg().IntoBigInt(b)
	b.Neg(b)
}

// AsBigInt allocates a new big.Int and copies this I128 into it.
func (i I128) AsBigInt() (b *big.Int) {
	b = new(big.Int)
	i.IntoBigInt(b)
	return b
}

// AsU128 performs a direct cast of an I128 to a U128. Negative numbers
// become values > math.MaxI128.
func (i I128) AsU128() U128 {
	return i.u
}

// IsU128 reports whether i can be represented in a U128.
func (i I128) IsU128() bool {
	return !i.IsNeg()
}

func (i I128) AsBigFloat() (b *big.Float) {
	return new(big.Float).SetInt(i.AsBigInt())
}

// AsFloat64 returns the nearest float64. Negative values are converted via
// their magnitude.
func (i I128) AsFloat64() float64 {
	if i.IsNeg() {
		return -i.u.Neg().AsFloat64()
	}
	return i.u.AsFloat64()
}

// AsInt64 truncates the I128 to fit in a int64. Values outside the range will
// over/underflow. See IsInt64() if you want to check before you convert.
func (i I128) AsInt64() int64 {
	return int64(i.u.lo)
}

// IsInt64 reports whether i can be represented as a int64.
func (i I128) IsInt64() bool {
	if i.IsNeg() {
		return i.u.hi == maxUint64 && i.u.lo >= 0x8000000000000000
	}
	return i.u.hi == 0 && i.u.lo <= maxInt64
}

// AsUint64 truncates the I128 to its low 64 bits.
func (i I128) AsUint64() uint64 {
	return i.u.lo
}

func (i I128) Sign() int {
	if i == zeroI128 {
		return 0
	} else if !i.IsNeg() {
		return 1
	}
	return -1
}

// Two's complement makes signed and unsigned addition, subtraction and the
// low half of multiplication bit-identical, so these delegate to U128.

func (i I128) Inc() I128          { return I128{u: i.u.Inc()} }
func (i I128) Dec() I128          { return I128{u: i.u.Dec()} }
func (i I128) Add(n I128) I128    { return I128{u: i.u.Add(n.u)} }
func (i I128) Sub(n I128) I128    { return I128{u: i.u.Sub(n.u)} }
func (i I128) Mul(n I128) I128    { return I128{u: i.u.Mul(n.u)} }
func (i I128) And(n I128) I128    { return I128{u: i.u.And(n.u)} }
func (i I128) AndNot(n I128) I128 { return I128{u: i.u.AndNot(n.u)} }
func (i I128) Or(n I128) I128     { return I128{u: i.u.Or(n.u)} }
func (i I128) Xor(n I128) I128    { return I128{u: i.u.Xor(n.u)} }
func (i I128) Not() I128          { return I128{u: i.u.Not()} }

// Neg returns -i. Negating MinI128 yields MinI128.
func (i I128) Neg() I128 {
	return I128{u: i.u.Neg()}
}

// Abs returns |i|. Abs(MinI128) yields MinI128.
func (i I128) Abs() I128 {
	if i.IsNeg() {
		return I128{u: i.u.Neg()}
	}
	return i
}

// magnitude returns |i| as a U128; MinI128 maps to 1<<127.
func (i I128) magnitude() U128 {
	if i.IsNeg() {
		return i.u.Neg()
	}
	return i.u
}

// Lsh returns i << n. The shift count is taken modulo 128.
func (i I128) Lsh(n uint) I128 {
	return I128{u: i.u.Lsh(n)}
}

// Rsh returns i >> n, filling with the sign bit. The shift count is taken
// modulo 128.
func (i I128) Rsh(n uint) I128 {
	if !i.IsNeg() {
		return I128{u: i.u.Rsh(n)}
	}
	return I128{u: i.u.Not().Rsh(n).Not()}
}

// Pow returns i**e, wrapping on overflow. A negative exponent returns an
// ArgumentError.
func (i I128) Pow(e int) (I128, error) {
	if e < 0 {
		return I128{}, ArgumentError.New("i128 exponent %d is negative", e)
	}
	return I128{u: i.u.Pow(uint(e))}, nil
}

// Cmp compares i to n and returns:
//
//	< 0 if x <  y
//	  0 if x == y
//	> 0 if x >  y
//
// The specific value returned by Cmp is undefined, but it is guaranteed to
// satisfy the above constraints.
//
func (i I128) Cmp(n I128) int {
	if i.u == n.u {
		return 0
	} else if i.u.hi&signBit == n.u.hi&signBit {
		if i.u.GreaterThan(n.u) {
			return 1
		}
	} else if i.u.hi&signBit == 0 {
		return 1
	}
	return -1
}

// CmpValue compares i against any of the integer types this package knows
// how to widen. A nil v orders below every I128. Unsupported types return an
// InvalidCast error.
func (i I128) CmpValue(v interface{}) (int, error) {
	switch v := v.(type) {
	case nil:
		return 1, nil
	case I128:
		return i.Cmp(v), nil
	case *I128:
		if v == nil {
			return 1, nil
		}
		return i.Cmp(*v), nil
	case U128:
		if i.IsNeg() {
			return -1, nil
		}
		return i.u.Cmp(v), nil
	case int64:
		return i.Cmp(I128From64(v)), nil
	case int32:
		return i.Cmp(I128From64(int64(v))), nil
	case int:
		return i.Cmp(I128From64(int64(v))), nil
	case uint64:
		return i.Cmp(I128FromU64(v)), nil
	case uint32:
		return i.Cmp(I128FromU64(uint64(v))), nil
	case uint:
		return i.Cmp(I128FromU64(uint64(v))), nil
	default:
		return 0, InvalidCast.New("cannot compare i128 with %T", v)
	}
}

func (i I128) Equal(n I128) bool {
	return i.u == n.u
}

func (i I128) GreaterThan(n I128) bool {
	if i.u.hi&signBit == n.u.hi&signBit {
		return i.u.GreaterThan(n.u)
	}
	return i.u.hi&signBit == 0
}

func (i I128) GreaterOrEqualTo(n I128) bool {
	if i.u.hi&signBit == n.u.hi&signBit {
		return i.u.GreaterOrEqualTo(n.u)
	}
	return i.u.hi&signBit == 0
}

func (i I128) LessThan(n I128) bool {
	if i.u.hi&signBit == n.u.hi&signBit {
		return i.u.LessThan(n.u)
	}
	return i.u.hi&signBit != 0
}

func (i I128) LessOrEqualTo(n I128) bool {
	if i.u.hi&signBit == n.u.hi&signBit {
		return i.u.LessOrEqualTo(n.u)
	}
	return i.u.hi&signBit != 0
}

// QuoRem returns the quotient q and remainder r for y != 0. If y == 0, a
// DivideByZero panic occurs.
//
// QuoRem implements T-division and modulus (like Go):
//
//	q = x/y      with the result truncated to zero
//	r = x - y*q
//
// The remainder takes the sign of the dividend. I128 does not support
// big.Int.DivMod()-style Euclidean division.
//
func (i I128) QuoRem(by I128) (q, r I128) {
	if by.u.hi == 0 && by.u.lo == 0 {
		panicDivideByZero("i128")
	}
	qu, ru := i.magnitude().QuoRem(by.magnitude())
	q, r = I128{u: qu}, I128{u: ru}
	if i.IsNeg() != by.IsNeg() {
		q = q.Neg()
	}
	if i.IsNeg() {
		r = r.Neg()
	}
	return q, r
}

// Quo returns the quotient x/y for y != 0. If y == 0, a DivideByZero panic
// occurs. Quo implements truncated division (like Go); see QuoRem for more
// details.
func (i I128) Quo(by I128) (q I128) {
	q, _ = i.QuoRem(by)
	return q
}

// Rem returns the remainder of x%y for y != 0. If y == 0, a DivideByZero
// panic occurs. Rem implements truncated modulus (like Go); see QuoRem for
// more details.
func (i I128) Rem(by I128) (r I128) {
	if by.u.hi == 0 && by.u.lo == 0 {
		panicDivideByZero("i128")
	}
	r = I128{u: i.magnitude().Rem(by.magnitude())}
	if i.IsNeg() {
		r = r.Neg()
	}
	return r
}

func (i I128) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *I128) UnmarshalText(bts []byte) (err error) {
	v, _, err := I128FromString(string(bts))
	if err != nil {
		return err
	}
	*i = v
	return nil
}

func (i I128) MarshalJSON() ([]byte, error) {
	return []byte(`"` + i.String() + `"`), nil
}

func (i *I128) UnmarshalJSON(bts []byte) (err error) {
	bts, err = unquoteJSON(bts, "i128")
	if err != nil {
		return err
	}
	v, _, err := I128FromString(string(bts))
	if err != nil {
		return err
	}
	*i = v
	return nil
}

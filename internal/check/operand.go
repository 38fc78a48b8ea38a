package check

import (
	"math"
	"math/big"
	"math/rand"
)

// magnitude selects how wide a generated operand is.
type magnitude int

const (
	magSmall magnitude = iota // below 2^31
	magInt64                  // anywhere in int64
	magMega                   // a uint64 offset by MaxInt64, always above int64
	magFull                   // any 127-bit magnitude
	magCount
)

func (m magnitude) String() string {
	switch m {
	case magSmall:
		return "small"
	case magInt64:
		return "int64"
	case magMega:
		return "mega"
	case magFull:
		return "full"
	}
	return "unknown"
}

var (
	bigMaxInt64 = big.NewInt(math.MaxInt64)
	big1        = big.NewInt(1)
)

// shape describes one case: the sign of each operand and its magnitude.
// Iteration i walks the sign combos ++, +-, -+, -- fastest, then the
// magnitude of a, then of b, so every 64 iterations cover every shape.
type shape struct {
	aNeg, bNeg bool
	aMag, bMag magnitude
}

func shapeOf(i int) shape {
	combo := i % 4
	return shape{
		aNeg: combo&2 != 0,
		bNeg: combo&1 != 0,
		aMag: magnitude((i / 4) % int(magCount)),
		bMag: magnitude((i / (4 * int(magCount))) % int(magCount)),
	}
}

func (s shape) signs() string {
	sign := func(neg bool) byte {
		if neg {
			return '-'
		}
		return '+'
	}
	return string([]byte{sign(s.aNeg), sign(s.bNeg)})
}

func randOperand(rng *rand.Rand, mag magnitude, neg bool) *big.Int {
	var v *big.Int
	switch mag {
	case magSmall:
		v = big.NewInt(rng.Int63n(1 << 31))
	case magInt64:
		v = big.NewInt(rng.Int63())
	case magMega:
		v = new(big.Int).SetUint64(rng.Uint64())
		v.Add(v, bigMaxInt64)
		v.Add(v, big1)
	default:
		v = new(big.Int).SetUint64(rng.Uint64() >> 1)
		v.Lsh(v, 64)
		v.Or(v, new(big.Int).SetUint64(rng.Uint64()))
	}
	if neg {
		v.Neg(v)
	}
	return v
}

// wrapSigned reduces b into the two's complement range of a bits-wide
// integer.
func wrapSigned(b *big.Int, bits uint) *big.Int {
	mod := new(big.Int).Lsh(big1, bits)
	half := new(big.Int).Rsh(mod, 1)
	r := new(big.Int).Mod(b, mod)
	if r.Cmp(half) >= 0 {
		r.Sub(r, mod)
	}
	return r
}

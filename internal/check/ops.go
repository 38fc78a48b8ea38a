package check

import (
	"math/big"
	"strings"

	"github.com/calebcase/oops"

	num "github.com/Hengle/go-num128"
)

// checker compares one library operation against math/big for the operands
// a and b. It returns nil when they agree.
type checker func(a, b *big.Int) error

// AllOps lists every op a run can check, in the order they are reported.
var AllOps = []string{"add", "sub", "mul", "quo", "rem", "cmp", "string", "uquo", "fint", "fbig"}

var checkers = map[string]checker{
	"add":    checkAdd,
	"sub":    checkSub,
	"mul":    checkMul,
	"quo":    checkQuo,
	"rem":    checkRem,
	"cmp":    checkCmp,
	"string": checkString,
	"uquo":   checkU128QuoRem,
	"fint":   checkFInt,
	"fbig":   checkFBig,
}

func opIndex(op string) int {
	for i, o := range AllOps {
		if o == op {
			return i
		}
	}
	return -1
}

func mismatch(op string, a, b *big.Int, found, expected interface{}) error {
	return oops.New("%s(%s, %s): found %v, expected %v", op, a, b, found, expected)
}

func toI128(v *big.Int) num.I128 {
	i, _ := num.I128FromBigInt(v)
	return i
}

func expectI128(op string, a, b *big.Int, found num.I128, expected *big.Int) error {
	if found.AsBigInt().Cmp(expected) != 0 {
		return mismatch(op, a, b, found, expected)
	}
	return nil
}

func expectDivideByZero(op string, a *big.Int, fn func()) (err error) {
	defer func() {
		r := recover()
		if rerr, ok := r.(error); !ok || !num.DivideByZero.Has(rerr) {
			err = oops.New("%s(%s, 0): expected divide by zero panic, found %v", op, a, r)
		}
	}()
	fn()
	return nil
}

func checkAdd(a, b *big.Int) error {
	return expectI128("add", a, b, toI128(a).Add(toI128(b)), wrapSigned(new(big.Int).Add(a, b), 128))
}

func checkSub(a, b *big.Int) error {
	return expectI128("sub", a, b, toI128(a).Sub(toI128(b)), wrapSigned(new(big.Int).Sub(a, b), 128))
}

func checkMul(a, b *big.Int) error {
	return expectI128("mul", a, b, toI128(a).Mul(toI128(b)), wrapSigned(new(big.Int).Mul(a, b), 128))
}

func checkQuo(a, b *big.Int) error {
	x, y := toI128(a), toI128(b)
	if b.Sign() == 0 {
		return expectDivideByZero("quo", a, func() { x.Quo(y) })
	}
	// MinI128 / -1 wraps back to MinI128.
	return expectI128("quo", a, b, x.Quo(y), wrapSigned(new(big.Int).Quo(a, b), 128))
}

func checkRem(a, b *big.Int) error {
	x, y := toI128(a), toI128(b)
	if b.Sign() == 0 {
		return expectDivideByZero("rem", a, func() { x.Rem(y) })
	}
	return expectI128("rem", a, b, x.Rem(y), new(big.Int).Rem(a, b))
}

func checkCmp(a, b *big.Int) error {
	found, expected := toI128(a).Cmp(toI128(b)), a.Cmp(b)
	if found != expected {
		return mismatch("cmp", a, b, found, expected)
	}
	return nil
}

// checkString renders a and parses the result back. b is unused.
func checkString(a, b *big.Int) error {
	x := toI128(a)
	if s := x.String(); s != a.String() {
		return mismatch("string", a, b, s, a)
	}
	parsed, accurate, err := num.I128FromString(a.String())
	if err != nil {
		return oops.New("string(%s): parse failed: %v", a, err)
	}
	if !accurate || parsed != x {
		return mismatch("parse", a, b, parsed, a)
	}
	return nil
}

// checkU128QuoRem divides the magnitudes of a and b, with a shifted left
// one bit (modulo 2^128) so the dividend uses the top bit.
func checkU128QuoRem(a, b *big.Int) error {
	ba := new(big.Int).Abs(a)
	ba.Lsh(ba, 1)
	ba.And(ba, maxU128)
	bb := new(big.Int).Abs(b)
	ua, _ := num.U128FromBigInt(ba)
	ub, _ := num.U128FromBigInt(bb)
	if ub.IsZero() {
		return expectDivideByZero("uquo", ba, func() { ua.QuoRem(ub) })
	}
	q, r := ua.QuoRem(ub)
	bq, br := new(big.Int).QuoRem(ba, bb, new(big.Int))
	if q.AsBigInt().Cmp(bq) != 0 || r.AsBigInt().Cmp(br) != 0 {
		return mismatch("uquo", ba, bb, q.String()+" r "+r.String(), bq.String()+" r "+br.String())
	}
	return nil
}

// checkFInt treats the low 64 bits of each operand as a raw FInt.
func checkFInt(a, b *big.Int) error {
	return checkFixed("fint", 64, a, b, func(a, b *big.Int) fixedResults {
		x, y := num.FIntFromRaw(a.Int64()), num.FIntFromRaw(b.Int64())
		res := fixedResults{
			add:  big.NewInt(x.Add(y).Raw()),
			mul:  big.NewInt(x.Mul(y).Raw()),
			str:  x.String(),
			text: func(s string) (bool, error) {
				var f num.FInt
				err := f.UnmarshalText([]byte(s))
				return f == x, err
			},
		}
		if b.Sign() != 0 {
			res.quo = big.NewInt(x.Quo(y).Raw())
		}
		return res
	})
}

// checkFBig treats each operand as a raw FBig.
func checkFBig(a, b *big.Int) error {
	return checkFixed("fbig", 128, a, b, func(a, b *big.Int) fixedResults {
		x, y := num.FBigFromRaw(toI128(a)), num.FBigFromRaw(toI128(b))
		res := fixedResults{
			add:  x.Add(y).Raw().AsBigInt(),
			mul:  x.Mul(y).Raw().AsBigInt(),
			str:  x.String(),
			text: func(s string) (bool, error) {
				var f num.FBig
				err := f.UnmarshalText([]byte(s))
				return f == x, err
			},
		}
		if b.Sign() != 0 {
			res.quo = x.Quo(y).Raw().AsBigInt()
		}
		return res
	})
}

type fixedResults struct {
	add, mul, quo *big.Int
	str           string
	text          func(s string) (equal bool, err error)
}

func checkFixed(op string, bits uint, a, b *big.Int, eval func(a, b *big.Int) fixedResults) error {
	a, b = wrapSigned(a, bits), wrapSigned(b, bits)
	res := eval(a, b)

	if exp := wrapSigned(new(big.Int).Add(a, b), bits); res.add.Cmp(exp) != 0 {
		return mismatch(op+".add", a, b, res.add, exp)
	}

	// The raw product wraps before the scale is shifted away; big.Int's Rsh
	// floors like the arithmetic shift.
	exp := wrapSigned(new(big.Int).Mul(a, b), bits)
	exp.Rsh(exp, fixedScaleBits)
	if res.mul.Cmp(exp) != 0 {
		return mismatch(op+".mul", a, b, res.mul, exp)
	}

	if b.Sign() != 0 {
		exp := wrapSigned(new(big.Int).Lsh(a, fixedScaleBits), bits)
		exp = wrapSigned(exp.Quo(exp, b), bits)
		if res.quo.Cmp(exp) != 0 {
			return mismatch(op+".quo", a, b, res.quo, exp)
		}
	}

	if exp := fixedString(a); res.str != exp {
		return mismatch(op+".string", a, b, res.str, exp)
	}
	equal, err := res.text(res.str)
	if err != nil {
		return oops.New("%s.parse(%s): %v", op, res.str, err)
	}
	if !equal {
		return oops.New("%s.parse(%s): value changed", op, res.str)
	}
	return nil
}

const fixedScaleBits = num.FixedScaleBits

var maxU128 = num.MaxU128.AsBigInt()

// fixedString renders raw/4096 exactly, without trailing zeros.
func fixedString(raw *big.Int) string {
	s := new(big.Rat).SetFrac(raw, big.NewInt(num.FixedScale)).FloatString(fixedScaleBits)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		s = "0"
	}
	return s
}

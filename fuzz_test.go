package num

import (
	"fmt"
	"math/big"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

type fuzzOp string
type fuzzType string

// Same as passing -num.fuzziter=10000 to 'go test'.
const fuzzDefaultIterations = 10000

// Ops are picked with '-num.fuzzop=add -num.fuzzop=sub' or
// '-num.fuzzop=add,sub'. A type only runs the ops it supports.
const (
	fuzzAbs              fuzzOp = "abs"
	fuzzAdd              fuzzOp = "add"
	fuzzAnd              fuzzOp = "and"
	fuzzAndNot           fuzzOp = "andnot"
	fuzzAsFloat64        fuzzOp = "asfloat64"
	fuzzBit              fuzzOp = "bit"
	fuzzBitLen           fuzzOp = "bitlen"
	fuzzCmp              fuzzOp = "cmp"
	fuzzDec              fuzzOp = "dec"
	fuzzEqual            fuzzOp = "equal"
	fuzzFromFloat64      fuzzOp = "fromfloat64"
	fuzzGreaterOrEqualTo fuzzOp = "gte"
	fuzzGreaterThan      fuzzOp = "gt"
	fuzzInc              fuzzOp = "inc"
	fuzzLessOrEqualTo    fuzzOp = "lte"
	fuzzLessThan         fuzzOp = "lt"
	fuzzLsh              fuzzOp = "lsh"
	fuzzMul              fuzzOp = "mul"
	fuzzNeg              fuzzOp = "neg"
	fuzzNot              fuzzOp = "not"
	fuzzOr               fuzzOp = "or"
	fuzzQuo              fuzzOp = "quo"
	fuzzQuoRem           fuzzOp = "quorem"
	fuzzRem              fuzzOp = "rem"
	fuzzRsh              fuzzOp = "rsh"
	fuzzString           fuzzOp = "string"
	fuzzSetBit           fuzzOp = "setbit"
	fuzzSub              fuzzOp = "sub"
	fuzzXor              fuzzOp = "xor"
)

const (
	fuzzTypeU128 fuzzType = "u128"
	fuzzTypeI128 fuzzType = "i128"
	fuzzTypeFInt fuzzType = "fint"
	fuzzTypeFBig fuzzType = "fbig"
)

var allFuzzTypes = []fuzzType{fuzzTypeU128, fuzzTypeI128, fuzzTypeFInt, fuzzTypeFBig}

var fuzzOpSymbols = map[fuzzOp]string{
	fuzzAbs:              "|x|",
	fuzzAdd:              "+",
	fuzzAnd:              "&",
	fuzzAndNot:           "&^",
	fuzzAsFloat64:        "float64",
	fuzzBit:              "bit",
	fuzzBitLen:           "bitlen",
	fuzzCmp:              "<=>",
	fuzzDec:              "--",
	fuzzEqual:            "==",
	fuzzFromFloat64:      "fromfloat64",
	fuzzGreaterThan:      ">",
	fuzzGreaterOrEqualTo: ">=",
	fuzzInc:              "++",
	fuzzLessThan:         "<",
	fuzzLessOrEqualTo:    "<=",
	fuzzLsh:              "<<",
	fuzzMul:              "*",
	fuzzNeg:              "-",
	fuzzNot:              "^",
	fuzzOr:               "|",
	fuzzQuo:              "/",
	fuzzQuoRem:           "/%",
	fuzzRem:              "%",
	fuzzRsh:              ">>",
	fuzzSetBit:           "setbit",
	fuzzString:           "string",
	fuzzSub:              "-",
	fuzzXor:              "^",
}

var allFuzzOps = func() []fuzzOp {
	ops := make([]fuzzOp, 0, len(fuzzOpSymbols))
	for op := range fuzzOpSymbols {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}()

func (op fuzzOp) String() string {
	if sym, ok := fuzzOpSymbols[op]; ok {
		return sym
	}
	return string(op)
}

// Print renders op applied to the operands its case drew, in draw order.
func (op fuzzOp) Print(operands ...*big.Int) string {
	switch {
	case len(operands) == 0:
		return string(op)
	case op == fuzzInc || op == fuzzDec:
		return fmt.Sprintf("%d%s", operands[0], op)
	case op == fuzzNeg || op == fuzzNot:
		return fmt.Sprintf("%s%d", op, operands[0])
	case op == fuzzAbs:
		return fmt.Sprintf("|%d|", operands[0])
	case op == fuzzSetBit:
		return fmt.Sprintf("%d|(1<<%d)", operands[0], operands[1])
	case op == fuzzBit:
		return fmt.Sprintf("(%b>>%d)&1", operands[0], operands[1])
	case len(operands) == 1:
		return fmt.Sprintf("%s(%d)", op, operands[0])
	default:
		return fmt.Sprintf("%d %s %d", operands[0], op, operands[1])
	}
}

// rando draws operands with an even spread of bit lengths and records them
// so a failure can be reported.
type rando struct {
	rng      *rand.Rand
	operands []*big.Int
}

func (r *rando) Operands() []*big.Int { return r.operands }

func (r *rando) Clear() { r.operands = r.operands[:0] }

func (r *rando) keep(v *big.Int) *big.Int {
	r.operands = append(r.operands, v)
	return v
}

func (r *rando) Uintn(n int) uint {
	v := r.rng.Intn(n)
	r.keep(big.NewInt(int64(v)))
	return uint(v)
}

// bits returns a value whose bit length is uniform over [0, width]. Signed
// values are negated half the time.
func (r *rando) bits(width int, signed bool) *big.Int {
	v := new(big.Int)
	if n := r.rng.Intn(width + 1); n > 0 {
		v.Rand(r.rng, new(big.Int).Lsh(big1, uint(n-1)))
		v.SetBit(v, n-1, 1)
	}
	if signed && r.rng.Intn(2) == 1 {
		v.Neg(v)
	}
	return r.keep(v)
}

func (r *rando) BigU128() *big.Int { return r.bits(128, false) }
func (r *rando) BigI128() *big.Int { return r.bits(127, true) }
func (r *rando) BigI64() *big.Int  { return r.bits(63, true) }

// pair draws two operands. They are sometimes equal, which independent
// 128-bit draws never would be.
func (r *rando) pair(draw func() *big.Int) (a, b *big.Int) {
	a = draw()
	if r.rng.Float64() < 0.03 {
		return a, r.keep(new(big.Int).Set(a))
	}
	return a, draw()
}

func (r *rando) BigU128x2() (a, b *big.Int) { return r.pair(r.BigU128) }

type bigBinary func(z, x, y *big.Int) *big.Int

var bigBinaryOps = map[fuzzOp]bigBinary{
	fuzzAdd:    (*big.Int).Add,
	fuzzSub:    (*big.Int).Sub,
	fuzzMul:    (*big.Int).Mul,
	fuzzQuo:    (*big.Int).Quo,
	fuzzRem:    (*big.Int).Rem,
	fuzzAnd:    (*big.Int).And,
	fuzzAndNot: (*big.Int).AndNot,
	fuzzOr:     (*big.Int).Or,
	fuzzXor:    (*big.Int).Xor,
}

var bigUnaryOps = map[fuzzOp]func(z, x *big.Int) *big.Int{
	fuzzAbs: (*big.Int).Abs,
	fuzzNeg: (*big.Int).Neg,
	fuzzNot: (*big.Int).Not,
	fuzzInc: func(z, x *big.Int) *big.Int { return z.Add(x, big1) },
	fuzzDec: func(z, x *big.Int) *big.Int { return z.Sub(x, big1) },
}

var bigShiftOps = map[fuzzOp]func(z, x *big.Int, n uint) *big.Int{
	fuzzLsh: (*big.Int).Lsh,
	fuzzRsh: (*big.Int).Rsh,
}

var cmpPredicates = map[fuzzOp]func(c int) bool{
	fuzzEqual:            func(c int) bool { return c == 0 },
	fuzzGreaterThan:      func(c int) bool { return c > 0 },
	fuzzGreaterOrEqualTo: func(c int) bool { return c >= 0 },
	fuzzLessThan:         func(c int) bool { return c < 0 },
	fuzzLessOrEqualTo:    func(c int) bool { return c <= 0 },
}

// fixedBinaryOps computes the raw result of FInt and FBig arithmetic, where
// products and dividends wrap at the given width before rescaling.
func fixedBinaryOps(bits uint) map[fuzzOp]bigBinary {
	return map[fuzzOp]bigBinary{
		fuzzMul: func(z, x, y *big.Int) *big.Int {
			z.Set(wrapBigSigned(z.Mul(x, y), bits))
			return z.Rsh(z, FixedScaleBits)
		},
		fuzzQuo: func(z, x, y *big.Int) *big.Int {
			z.Set(wrapBigSigned(z.Lsh(x, FixedScaleBits), bits))
			return z.Quo(z, y)
		},
	}
}

// fixedString renders raw/4096 exactly, without trailing zeros.
func fixedString(raw *big.Int) string {
	s := new(big.Rat).SetFrac(raw, big.NewInt(FixedScale)).FloatString(FixedScaleBits)
	s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		s = "0"
	}
	return s
}

type fuzzImpl interface {
	Name() string
	Cases() map[fuzzOp]func() error
}

// fuzzNum checks one number type against big.Int. Operands are drawn as
// big.Ints, converted in, and results converted back out and compared with
// the big.Int result reduced by wrap.
type fuzzNum[T any] struct {
	name   string
	source *rando
	draw   func() *big.Int
	from   func(*big.Int) T
	to     func(T) *big.Int
	wrap   func(*big.Int) *big.Int
	width  uint

	binary map[fuzzOp]func(a, b T) T
	unary  map[fuzzOp]func(a T) T
	shift  map[fuzzOp]func(a T, n uint) T
	pred   map[fuzzOp]func(a, b T) bool
	cmp    func(a, b T) int
	quoRem func(a, b T) (T, T)

	// expect overrides bigBinaryOps.
	expect map[fuzzOp]bigBinary

	float    func(T) float64
	floatExp int // float value is raw * 2^floatExp

	fromFloat func(float64) (T, bool)
	floatTop  float64 // floats at or above this may report out of range

	format func(T) string
	render func(*big.Int) string

	extra map[fuzzOp]func() error
}

func (f *fuzzNum[T]) Name() string { return f.name }

func (f *fuzzNum[T]) Cases() map[fuzzOp]func() error {
	cases := map[fuzzOp]func() error{
		fuzzCmp:       f.cmpCase,
		fuzzAsFloat64: f.floatCase,
		fuzzString:    f.stringCase,
	}
	for op, fn := range f.binary {
		cases[op] = f.binaryCase(op, fn)
	}
	for op, fn := range f.unary {
		cases[op] = f.unaryCase(op, fn)
	}
	for op, fn := range f.shift {
		cases[op] = f.shiftCase(op, fn)
	}
	for op, fn := range f.pred {
		cases[op] = f.predCase(op, fn)
	}
	if f.quoRem != nil {
		cases[fuzzQuoRem] = f.quoRemCase
	}
	if f.fromFloat != nil {
		cases[fuzzFromFloat64] = f.fromFloatCase
	}
	for op, fn := range f.extra {
		cases[op] = fn
	}
	return cases
}

func (f *fuzzNum[T]) check(op fuzzOp, found T, expected *big.Int) error {
	if v := f.to(found); v.Cmp(expected) != 0 {
		return fmt.Errorf("%s %s: found %s, expected %s", f.name, op, v, expected)
	}
	return nil
}

func (f *fuzzNum[T]) binaryCase(op fuzzOp, fn func(a, b T) T) func() error {
	expect := f.expect[op]
	if expect == nil {
		expect = bigBinaryOps[op]
	}
	return func() error {
		a, b := f.source.pair(f.draw)
		if b.Sign() == 0 && (op == fuzzQuo || op == fuzzRem) {
			return nil
		}
		return f.check(op, fn(f.from(a), f.from(b)), f.wrap(expect(new(big.Int), a, b)))
	}
}

func (f *fuzzNum[T]) unaryCase(op fuzzOp, fn func(a T) T) func() error {
	expect := bigUnaryOps[op]
	return func() error {
		a := f.draw()
		return f.check(op, fn(f.from(a)), f.wrap(expect(new(big.Int), a)))
	}
}

func (f *fuzzNum[T]) shiftCase(op fuzzOp, fn func(a T, n uint) T) func() error {
	expect := bigShiftOps[op]
	return func() error {
		a := f.draw()
		n := f.source.Uintn(int(f.width))
		return f.check(op, fn(f.from(a), n), f.wrap(expect(new(big.Int), a, n)))
	}
}

func (f *fuzzNum[T]) predCase(op fuzzOp, fn func(a, b T) bool) func() error {
	expect := cmpPredicates[op]
	return func() error {
		a, b := f.source.pair(f.draw)
		if found, want := fn(f.from(a), f.from(b)), expect(a.Cmp(b)); found != want {
			return fmt.Errorf("%s %s: found %v, expected %v", f.name, op, found, want)
		}
		return nil
	}
}

func (f *fuzzNum[T]) cmpCase() error {
	a, b := f.source.pair(f.draw)
	if found, want := f.cmp(f.from(a), f.from(b)), a.Cmp(b); found != want {
		return fmt.Errorf("%s cmp: found %d, expected %d", f.name, found, want)
	}
	return nil
}

func (f *fuzzNum[T]) quoRemCase() error {
	a, b := f.source.pair(f.draw)
	if b.Sign() == 0 {
		return nil
	}
	q, r := f.quoRem(f.from(a), f.from(b))
	bq, br := new(big.Int).QuoRem(a, b, new(big.Int))
	if err := f.check(fuzzQuo, q, f.wrap(bq)); err != nil {
		return err
	}
	return f.check(fuzzRem, r, br)
}

func (f *fuzzNum[T]) floatCase() error {
	a := f.draw()
	exact := new(big.Float).SetInt(a)
	exact.SetMantExp(exact, f.floatExp)
	found := f.float(f.from(a))
	if e := floatError(exact, found); e.Cmp(floatEpsilon) > 0 {
		return fmt.Errorf("%s float64: found %g, expected %s, error %g", f.name, found, exact.Text('g', 40), e)
	}
	return nil
}

// fromFloatCase converts the float nearest the operand. Floats of this
// magnitude are integers, so the conversion must be exact.
func (f *fuzzNum[T]) fromFloatCase() error {
	a := f.draw()
	bf := new(big.Float).SetInt(a)
	fl, _ := bf.Float64()
	v, inRange := f.fromFloat(fl)
	if !inRange {
		if fl >= f.floatTop {
			return nil
		}
		return fmt.Errorf("%s fromfloat64(%g): reported out of range", f.name, fl)
	}
	want, _ := bf.SetFloat64(fl).Int(nil)
	return f.check(fuzzFromFloat64, v, want)
}

func (f *fuzzNum[T]) stringCase() error {
	a := f.draw()
	if found, want := f.format(f.from(a)), f.render(a); found != want {
		return fmt.Errorf("%s string: found %s, expected %s", f.name, found, want)
	}
	return nil
}

func newFuzzU128(source *rando) *fuzzNum[U128] {
	f := &fuzzNum[U128]{
		name:   "u128",
		source: source,
		draw:   source.BigU128,
		from:   accU128FromBigInt,
		to:     U128.AsBigInt,
		wrap:   func(b *big.Int) *big.Int { return wrapBigUnsigned(b, 128) },
		width:  128,
		binary: map[fuzzOp]func(a, b U128) U128{
			fuzzAdd: U128.Add, fuzzSub: U128.Sub, fuzzMul: U128.Mul,
			fuzzQuo: U128.Quo, fuzzRem: U128.Rem,
			fuzzAnd: U128.And, fuzzAndNot: U128.AndNot, fuzzOr: U128.Or, fuzzXor: U128.Xor,
		},
		unary: map[fuzzOp]func(a U128) U128{
			fuzzInc: U128.Inc, fuzzDec: U128.Dec, fuzzNeg: U128.Neg, fuzzNot: U128.Not,
		},
		shift: map[fuzzOp]func(a U128, n uint) U128{fuzzLsh: U128.Lsh, fuzzRsh: U128.Rsh},
		pred: map[fuzzOp]func(a, b U128) bool{
			fuzzEqual: U128.Equal, fuzzGreaterThan: U128.GreaterThan, fuzzGreaterOrEqualTo: U128.GreaterOrEqualTo,
			fuzzLessThan: U128.LessThan, fuzzLessOrEqualTo: U128.LessOrEqualTo,
		},
		cmp:       U128.Cmp,
		quoRem:    U128.QuoRem,
		float:     U128.AsFloat64,
		fromFloat: U128FromFloat64,
		floatTop:  maxU128Float,
		format:    U128.String,
		render:    (*big.Int).String,
	}
	f.extra = map[fuzzOp]func() error{
		fuzzBitLen: func() error {
			a := f.draw()
			if found, want := f.from(a).BitLen(), a.BitLen(); found != want {
				return fmt.Errorf("u128 bitlen: found %d, expected %d", found, want)
			}
			return nil
		},
		fuzzBit: func() error {
			a := f.draw()
			i := int(source.Uintn(128))
			if found, want := f.from(a).Bit(i), a.Bit(i); found != want {
				return fmt.Errorf("u128 bit %d: found %d, expected %d", i, found, want)
			}
			return nil
		},
		fuzzSetBit: func() error {
			a := f.draw()
			i, v := int(source.Uintn(128)), source.Uintn(2)
			return f.check(fuzzSetBit, f.from(a).SetBit(i, v), new(big.Int).SetBit(a, i, v))
		},
	}
	return f
}

func newFuzzI128(source *rando) *fuzzNum[I128] {
	return &fuzzNum[I128]{
		name:   "i128",
		source: source,
		draw:   source.BigI128,
		from:   accI128FromBigInt,
		to:     I128.AsBigInt,
		wrap:   func(b *big.Int) *big.Int { return wrapBigSigned(b, 128) },
		width:  128,
		binary: map[fuzzOp]func(a, b I128) I128{
			fuzzAdd: I128.Add, fuzzSub: I128.Sub, fuzzMul: I128.Mul,
			fuzzQuo: I128.Quo, fuzzRem: I128.Rem,
			fuzzAnd: I128.And, fuzzAndNot: I128.AndNot, fuzzOr: I128.Or, fuzzXor: I128.Xor,
		},
		unary: map[fuzzOp]func(a I128) I128{
			fuzzInc: I128.Inc, fuzzDec: I128.Dec, fuzzNeg: I128.Neg, fuzzNot: I128.Not, fuzzAbs: I128.Abs,
		},
		shift: map[fuzzOp]func(a I128, n uint) I128{fuzzLsh: I128.Lsh, fuzzRsh: I128.Rsh},
		pred: map[fuzzOp]func(a, b I128) bool{
			fuzzEqual: I128.Equal, fuzzGreaterThan: I128.GreaterThan, fuzzGreaterOrEqualTo: I128.GreaterOrEqualTo,
			fuzzLessThan: I128.LessThan, fuzzLessOrEqualTo: I128.LessOrEqualTo,
		},
		cmp:       I128.Cmp,
		quoRem:    I128.QuoRem,
		float:     I128.AsFloat64,
		fromFloat: I128FromFloat64,
		floatTop:  -minI128Float,
		format:    I128.String,
		render:    (*big.Int).String,
	}
}

// newFuzzFInt checks raw FInt values, wrapped to 64 bits wherever int64
// arithmetic wraps.
func newFuzzFInt(source *rando) *fuzzNum[FInt] {
	return &fuzzNum[FInt]{
		name:   "fint",
		source: source,
		draw:   source.BigI64,
		from:   func(b *big.Int) FInt { return FIntFromRaw(b.Int64()) },
		to:     func(f FInt) *big.Int { return big.NewInt(f.Raw()) },
		wrap:   func(b *big.Int) *big.Int { return wrapBigSigned(b, 64) },
		width:  64,
		binary: map[fuzzOp]func(a, b FInt) FInt{
			fuzzAdd: FInt.Add, fuzzSub: FInt.Sub, fuzzMul: FInt.Mul, fuzzQuo: FInt.Quo, fuzzRem: FInt.Rem,
		},
		unary: map[fuzzOp]func(a FInt) FInt{fuzzNeg: FInt.Neg, fuzzAbs: FInt.Abs},
		shift: map[fuzzOp]func(a FInt, n uint) FInt{fuzzLsh: FInt.Lsh, fuzzRsh: FInt.Rsh},
		pred: map[fuzzOp]func(a, b FInt) bool{
			fuzzEqual: FInt.Equal, fuzzGreaterThan: FInt.GreaterThan, fuzzGreaterOrEqualTo: FInt.GreaterOrEqualTo,
			fuzzLessThan: FInt.LessThan, fuzzLessOrEqualTo: FInt.LessOrEqualTo,
		},
		cmp:      FInt.Cmp,
		expect:   fixedBinaryOps(64),
		float:    FInt.Float64,
		floatExp: -FixedScaleBits,
		format:   FInt.String,
		render:   fixedString,
	}
}

func newFuzzFBig(source *rando) *fuzzNum[FBig] {
	return &fuzzNum[FBig]{
		name:   "fbig",
		source: source,
		draw:   source.BigI128,
		from:   func(b *big.Int) FBig { return FBigFromRaw(accI128FromBigInt(b)) },
		to:     func(f FBig) *big.Int { return f.Raw().AsBigInt() },
		wrap:   func(b *big.Int) *big.Int { return wrapBigSigned(b, 128) },
		width:  128,
		binary: map[fuzzOp]func(a, b FBig) FBig{
			fuzzAdd: FBig.Add, fuzzSub: FBig.Sub, fuzzMul: FBig.Mul, fuzzQuo: FBig.Quo, fuzzRem: FBig.Rem,
		},
		unary: map[fuzzOp]func(a FBig) FBig{fuzzNeg: FBig.Neg, fuzzAbs: FBig.Abs},
		shift: map[fuzzOp]func(a FBig, n uint) FBig{fuzzLsh: FBig.Lsh, fuzzRsh: FBig.Rsh},
		pred: map[fuzzOp]func(a, b FBig) bool{
			fuzzEqual: FBig.Equal, fuzzGreaterThan: FBig.GreaterThan, fuzzGreaterOrEqualTo: FBig.GreaterOrEqualTo,
			fuzzLessThan: FBig.LessThan, fuzzLessOrEqualTo: FBig.LessOrEqualTo,
		},
		cmp:      FBig.Cmp,
		expect:   fixedBinaryOps(128),
		float:    FBig.Float64,
		floatExp: -FixedScaleBits,
		format:   FBig.String,
		render:   fixedString,
	}
}

func TestFuzz(t *testing.T) {
	source := &rando{rng: globalRNG}

	var impls []fuzzImpl
	for _, ft := range fuzzTypesActive {
		switch ft {
		case fuzzTypeU128:
			impls = append(impls, newFuzzU128(source))
		case fuzzTypeI128:
			impls = append(impls, newFuzzI128(source))
		case fuzzTypeFInt:
			impls = append(impls, newFuzzFInt(source))
		case fuzzTypeFBig:
			impls = append(impls, newFuzzFBig(source))
		default:
			t.Fatalf("unknown fuzz type %q", ft)
		}
	}
	for _, op := range fuzzOpsActive {
		if _, ok := fuzzOpSymbols[op]; !ok {
			t.Fatalf("unknown fuzz op %q", op)
		}
	}

	for _, impl := range impls {
		cases := impl.Cases()
		for _, op := range fuzzOpsActive {
			fn, ok := cases[op]
			if !ok {
				continue
			}
			t.Run(impl.Name()+"/"+string(op), func(t *testing.T) {
				failures := 0
				for i := 0; i < fuzzIterations; i++ {
					source.Clear()
					if err := fn(); err != nil {
						failures++
						t.Logf("%s: %v\n%s", op.Print(source.Operands()...), err, spew.Sdump(source.Operands()))
					}
				}
				if failures > 0 {
					t.Errorf("%d/%d failed", failures, fuzzIterations)
				}
			})
		}
	}
}

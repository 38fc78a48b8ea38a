/*
Package num provides fixed-width 128-bit integers (U128 and I128) built from
64-bit and 32-bit primitives, and two fixed-point real types (FInt and FBig)
that use a 1/4096 scale to avoid floating point drift.

All four are value types; all operations return new values. Arithmetic wraps
silently on overflow, like Go's native integers. Division by zero panics with
a DivideByZero error.

Simple example:

	u1 := U128From64(math.MaxUint64)
	u2 := U128From64(math.MaxUint64)
	fmt.Println(u1.Mul(u2))
	// Output: 340282366920938463426481119284349108225

I128 stores the same 128 bits as U128 and reads them as two's complement,
so Add, Sub and Mul are shared; Quo and Rem divide magnitudes and then fix
the sign. Remainders take the sign of the dividend.

U128 and I128 can be created from a variety of sources:

	U128FromRaw(hi, lo uint64) U128
	U128From64(v uint64) U128
	U128FromI64(v int64) U128
	U128FromString(s string) (out U128, accurate bool, err error)
	U128FromBigInt(v *big.Int) (out U128, accurate bool)
	U128FromDecimal(d *apd.Decimal) (out U128, accurate bool, err error)
	U128FromFloat64(f float64) (out U128, inRange bool)

FInt wraps an int64 and FBig wraps an I128; either holds raw/4096:

	x := FIntFromParts(3, 500)   // 3.5
	y := FIntFromInt(2)
	fmt.Println(x.Mul(y))        // 7
	fmt.Println(FBigPi.String()) // 3.1416015625

All types support the following formatting and marshalling interfaces:

	- fmt.Stringer
	- json.Marshaler
	- json.Unmarshaler
	- encoding.TextMarshaler
	- encoding.TextUnmarshaler

U128 and I128 additionally implement fmt.Formatter.

*/
package num

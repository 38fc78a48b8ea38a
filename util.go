package num

type RandSource interface {
	Uint64() uint64
}

// DifferenceU128 subtracts the smaller of a and b from the larger.
func DifferenceU128(a, b U128) U128 {
	if a.GreaterThan(b) {
		return a.Sub(b)
	}
	return b.Sub(a)
}

func LargerU128(a, b U128) U128 {
	if b.GreaterThan(a) {
		return b
	}
	return a
}

func SmallerU128(a, b U128) U128 {
	if b.LessThan(a) {
		return b
	}
	return a
}

// DifferenceI128 subtracts the smaller of a and b from the larger. The result
// is the unsigned distance between them reinterpreted as an I128, so it wraps
// when the distance exceeds MaxI128.
func DifferenceI128(a, b I128) I128 {
	if a.GreaterThan(b) {
		return a.Sub(b)
	}
	return b.Sub(a)
}

func LargerI128(a, b I128) I128 {
	if b.GreaterThan(a) {
		return b
	}
	return a
}

func SmallerI128(a, b I128) I128 {
	if b.LessThan(a) {
		return b
	}
	return a
}

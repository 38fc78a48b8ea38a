package num

var abbreviations = [...]string{"K", "M", "B", "T", "Qa", "Qi", "Sx", "Sp", "Oc", "No", "Dc", "UnDc"}

var thousand = U128From64(1000)

// Abbreviate renders v for display as a whole number of its largest
// thousands unit, e.g. 12345 is "12K" and 7e15 is "7Qa". Values with a
// magnitude below 1000 are rendered in full. The largest unit, UnDc (10^36),
// has no upper bound.
func Abbreviate(v I128) string {
	mag := v.magnitude()
	if mag.LessThan(thousand) {
		return v.String()
	}

	last := len(abbreviations) - 1
	for idx := range abbreviations {
		lo := thousand.Pow(uint(idx + 1))
		if idx < last {
			hi := lo.Mul(thousand)
			if !mag.LessThan(hi) {
				continue
			}
		}
		out := mag.Quo(lo).String() + abbreviations[idx]
		if v.IsNeg() {
			out = "-" + out
		}
		return out
	}
	panic("unreachable")
}

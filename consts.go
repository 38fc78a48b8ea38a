package num

const (
	maxUint64 = 1<<64 - 1
	maxUint32 = 1<<32 - 1
	maxInt64  = 1<<63 - 1
	minInt64  = -1 << 63

	signBit = 0x8000000000000000

	minInt64Float   = float64(minInt64)      // -(1<<63)
	wrapUint64Float = float64(maxUint64) + 1 // 1 << 64

	maxU128Float = float64(340282366920938463463374607431768211455)  // rounds up to 1<<128
	minI128Float = float64(-170141183460469231731687303715884105728) // -(1<<127), exact

	// pow10x19 is the largest power of 10 that fits in a uint64; decimal
	// strings are parsed and rendered in chunks of this many digits.
	pow10x19  = 10000000000000000000
	chunkLen  = 19
	maxDigits = 39 // len(MaxU128.String())

	intSize      = 32 << (^uint(0) >> 63)
	wordsPerU128 = 128 / intSize
)

// Fixed-point scale shared by FInt and FBig. A fixed-point value is
// raw / FixedScale.
const (
	FixedScaleBits = 12
	FixedScale     = 1 << FixedScaleBits

	fixedPiRaw = 12868 // round(pi * 4096)
)

var (
	MaxI128 = I128{u: U128{hi: 0x7FFFFFFFFFFFFFFF, lo: maxUint64}}
	MinI128 = I128{u: U128{hi: signBit}}
	MaxU128 = U128{hi: maxUint64, lo: maxUint64}

	FIntOne = FInt{raw: FixedScale}
	FBigOne = FBig{raw: I128{u: U128{lo: FixedScale}}}
	FIntPi  = FInt{raw: fixedPiRaw}
	FBigPi  = FBig{raw: I128{u: U128{lo: fixedPiRaw}}}

	zeroI128 I128
	zeroU128 U128
)

// Package check cross-validates the num128 types against math/big.
//
// Each op draws random operands across every sign combination and across
// four magnitude classes, from values that fit in 31 bits to full 127-bit
// magnitudes, and compares the library's result with the big.Int result
// reduced to the same width. Ops run concurrently; a run can also time I128
// against big.Int for the arithmetic ops.
package check

import (
	"context"
	"math/big"
	"math/rand"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	num "github.com/Hengle/go-num128"
)

// Cancellation is polled once per this many iterations.
const ctxCheckInterval = 1024

// Mismatches past this many per op are counted but not logged.
const maxLoggedMismatches = 10

type Result struct {
	Op         string
	Iterations int
	Failures   int
	Elapsed    time.Duration

	// Timing is nil unless the run asked for it and the op is timed.
	Timing *Timing
}

// Timing compares the cost of Iterations applications of an op to I128
// operands with the same op on big.Int.
type Timing struct {
	Iterations int
	I128       time.Duration
	BigInt     time.Duration
}

type Report struct {
	Seed    int64
	Results []Result
}

func (r Report) Failures() (n int) {
	for _, res := range r.Results {
		n += res.Failures
	}
	return n
}

// Run checks every op cfg selects. It returns a MismatchError if any case
// disagreed with math/big, and a wrapped context error if ctx ends or
// cfg.Timeout passes first. The Report holds whatever results completed.
func Run(ctx context.Context, cfg Config, log zerolog.Logger) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rep := Report{Seed: seed}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	ops := cfg.RunOps()
	log.Info().
		Int64("seed", seed).
		Strs("ops", ops).
		Int("iterations", cfg.Iterations).
		Int("workers", cfg.Workers).
		Msg("starting cross-check")

	results := make([]Result, len(ops))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for idx, op := range ops {
		idx, op := idx, op
		g.Go(func() error {
			// Each op owns its generator, seeded by position in AllOps, so
			// a seed reproduces an op's cases whatever else runs with it.
			rng := rand.New(rand.NewSource(seed + int64(opIndex(op))))
			res, err := runOp(gctx, op, cfg, rng, log)
			results[idx] = res
			return err
		})
	}
	err := g.Wait()
	rep.Results = results
	if err != nil {
		return rep, err
	}

	if n := rep.Failures(); n > 0 {
		return rep, MismatchError.New("%d mismatches across %d ops (seed %d)", n, len(ops), seed)
	}
	log.Info().Int64("seed", seed).Int("ops", len(ops)).Msg("cross-check passed")
	return rep, nil
}

func runOp(ctx context.Context, op string, cfg Config, rng *rand.Rand, log zerolog.Logger) (res Result, err error) {
	defer Error.WrapP(&err)

	check := checkers[op]
	log = log.With().Str("op", op).Logger()
	res.Op = op

	start := time.Now()
	for i := 0; i < cfg.Iterations; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		s := shapeOf(i)
		a, b := randOperand(rng, s.aMag, s.aNeg), randOperand(rng, s.bMag, s.bNeg)
		res.Iterations++
		if merr := check(a, b); merr != nil {
			res.Failures++
			if res.Failures <= maxLoggedMismatches {
				log.Warn().
					Err(merr).
					Str("signs", s.signs()).
					Stringer("a_mag", s.aMag).
					Stringer("b_mag", s.bMag).
					Msg("mismatch")
			}
		}
	}
	res.Elapsed = time.Since(start)

	if cfg.Timing {
		if t, ok := timers[op]; ok {
			timing, err := t.run(ctx, cfg.TimingIterations, rng)
			if err != nil {
				return res, err
			}
			res.Timing = &timing
			log.Info().
				Int("iterations", timing.Iterations).
				Dur("i128", timing.I128).
				Dur("bigint", timing.BigInt).
				Msg("timed")
		}
	}

	ev := log.Info()
	if res.Failures > 0 {
		ev = log.Error()
	}
	ev.Int("iterations", res.Iterations).
		Int("failures", res.Failures).
		Dur("elapsed", res.Elapsed).
		Msg("checked")
	return res, nil
}

// timer applies one binary op to a pool of operand pairs, once with I128
// and once with big.Int.
type timer struct {
	i128   func(x, y num.I128) num.I128
	bigInt func(z, x, y *big.Int) *big.Int
}

var timers = map[string]timer{
	"add": {num.I128.Add, (*big.Int).Add},
	"sub": {num.I128.Sub, (*big.Int).Sub},
	"mul": {num.I128.Mul, (*big.Int).Mul},
	"quo": {num.I128.Quo, (*big.Int).Quo},
	"rem": {num.I128.Rem, (*big.Int).Rem},
}

const timingPool = 1024

func (t timer) run(ctx context.Context, iterations int, rng *rand.Rand) (Timing, error) {
	type pair struct {
		x, y num.I128
		a, b *big.Int
	}
	pool := make([]pair, timingPool)
	for i := range pool {
		s := shapeOf(i)
		a, b := randOperand(rng, s.aMag, s.aNeg), randOperand(rng, s.bMag, s.bNeg)
		if b.Sign() == 0 {
			b.SetInt64(1)
		}
		pool[i] = pair{x: toI128(a), y: toI128(b), a: a, b: b}
	}

	out := Timing{Iterations: iterations}

	var i128Sink num.I128
	start := time.Now()
	for i := 0; i < iterations; i++ {
		if i%(ctxCheckInterval*64) == 0 {
			if err := ctx.Err(); err != nil {
				return out, err
			}
		}
		p := &pool[i%timingPool]
		i128Sink = t.i128(p.x, p.y)
	}
	out.I128 = time.Since(start)
	runtime.KeepAlive(i128Sink)

	z := new(big.Int)
	start = time.Now()
	for i := 0; i < iterations; i++ {
		if i%(ctxCheckInterval*64) == 0 {
			if err := ctx.Err(); err != nil {
				return out, err
			}
		}
		p := &pool[i%timingPool]
		t.bigInt(z, p.a, p.b)
	}
	out.BigInt = time.Since(start)
	runtime.KeepAlive(z)

	return out, nil
}

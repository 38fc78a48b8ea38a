// Command num128check cross-validates the I128, U128, FInt and FBig
// arithmetic against math/big using random operands, optionally timing I128
// against big.Int.
//
// Flags can also be set with NUM128_* environment variables, for example
// NUM128_ITERATIONS=1000000. Explicit flags take precedence.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Hengle/go-num128/internal/check"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stderr))
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	cfg, err := check.ParseConfig(args[0], args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return check.ExitSuccess
	}

	log := newLogger(stderr, cfg.LogJSON)
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return check.ExitCode(err)
	}

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	rep, err := check.Run(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Int64("seed", rep.Seed).Msg("cross-check failed")
	}
	return check.ExitCode(err)
}

func newLogger(w io.Writer, json bool) zerolog.Logger {
	if !json {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

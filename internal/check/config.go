package check

import (
	"flag"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment variable that overrides a flag.
const EnvPrefix = "NUM128_"

// Config controls a cross-check run.
type Config struct {
	// Iterations is the number of random cases per op.
	Iterations int

	// Seed for the operand generators. Zero picks a time-based seed.
	Seed int64

	// Ops restricts the run to the named ops. Empty means AllOps.
	Ops []string

	// Timing enables the I128 against big.Int timing comparison.
	Timing           bool
	TimingIterations int

	// Workers bounds how many ops run at once.
	Workers int

	LogJSON bool
	Timeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Iterations:       100000,
		TimingIterations: 1000000,
		Workers:          runtime.GOMAXPROCS(0),
		Timeout:          5 * time.Minute,
	}
}

// ParseConfig parses args into a Config. Values for flags missing from args
// fall back to NUM128_* environment variables, then to DefaultConfig.
func ParseConfig(programName string, args []string) (Config, error) {
	cfg := DefaultConfig()

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	var ops string
	fs.IntVar(&cfg.Iterations, "iterations", cfg.Iterations, "Random cases per op")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Generator seed (0 for time-based)")
	fs.StringVar(&ops, "ops", "", "Comma separated ops to check (default all: "+strings.Join(AllOps, ",")+")")
	fs.BoolVar(&cfg.Timing, "timing", cfg.Timing, "Compare I128 and big.Int speed")
	fs.IntVar(&cfg.TimingIterations, "timing-iterations", cfg.TimingIterations, "Iterations per timed op")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Ops to check concurrently")
	fs.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "Log JSON instead of console output")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Abort the run after this long (0 for none)")

	if err := fs.Parse(args); err != nil {
		return cfg, ConfigError.Wrap(err)
	}
	if ops != "" {
		cfg.Ops = splitOps(ops)
	}

	applyEnvOverrides(&cfg, fs)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Iterations <= 0 {
		return ConfigError.New("iterations must be > 0, found %d", c.Iterations)
	}
	if c.Timing && c.TimingIterations <= 0 {
		return ConfigError.New("timing-iterations must be > 0, found %d", c.TimingIterations)
	}
	if c.Workers <= 0 {
		return ConfigError.New("workers must be > 0, found %d", c.Workers)
	}
	if c.Timeout < 0 {
		return ConfigError.New("timeout must not be negative, found %s", c.Timeout)
	}
	for _, op := range c.Ops {
		if _, ok := checkers[op]; !ok {
			return ConfigError.New("unknown op %q", op)
		}
	}
	return nil
}

// RunOps returns the ops the config selects, in AllOps order.
func (c Config) RunOps() []string {
	if len(c.Ops) == 0 {
		return AllOps
	}
	want := make(map[string]bool, len(c.Ops))
	for _, op := range c.Ops {
		want[op] = true
	}
	var out []string
	for _, op := range AllOps {
		if want[op] {
			out = append(out, op)
		}
	}
	return out
}

func splitOps(s string) []string {
	var out []string
	for _, op := range strings.Split(s, ",") {
		if op = strings.TrimSpace(op); op != "" {
			out = append(out, strings.ToLower(op))
		}
	}
	return out
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

type envOverride struct {
	envKey string
	flag   string
	apply  func(*Config, string)
}

// Unparseable values leave the field alone; Validate catches the rest.
var envOverrides = []envOverride{
	{"ITERATIONS", "iterations", func(c *Config, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Iterations = parsed
		}
	}},
	{"SEED", "seed", func(c *Config, v string) {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}},
	{"TIMING_ITERATIONS", "timing-iterations", func(c *Config, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.TimingIterations = parsed
		}
	}},
	{"WORKERS", "workers", func(c *Config, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Workers = parsed
		}
	}},
	{"TIMEOUT", "timeout", func(c *Config, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},
	{"OPS", "ops", func(c *Config, v string) {
		c.Ops = splitOps(v)
	}},
	{"TIMING", "timing", func(c *Config, v string) {
		c.Timing = parseBoolEnv(v, c.Timing)
	}},
	{"LOG_JSON", "log-json", func(c *Config, v string) {
		c.LogJSON = parseBoolEnv(v, c.LogJSON)
	}},
}

func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides gives flags precedence over the environment, and the
// environment precedence over defaults.
func applyEnvOverrides(cfg *Config, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSet(fs, o.flag) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(cfg, val)
		}
	}
}

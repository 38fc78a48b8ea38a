package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shabbyrobe/golib/assert"

	"github.com/Hengle/go-num128/internal/check"
)

func TestRun(t *testing.T) {
	tt := assert.WrapTB(t)
	var buf bytes.Buffer
	code := run(context.Background(), []string{"num128check", "-iterations", "200", "-seed", "3", "-log-json"}, &buf)
	tt.MustEqual(check.ExitSuccess, code)
	tt.MustAssert(strings.Contains(buf.String(), `"message":"cross-check passed"`), buf.String())
	tt.MustAssert(strings.Contains(buf.String(), `"op":"fbig"`), buf.String())
}

func TestRunConfigError(t *testing.T) {
	tt := assert.WrapTB(t)
	var buf bytes.Buffer
	code := run(context.Background(), []string{"num128check", "-ops", "nope", "-log-json"}, &buf)
	tt.MustEqual(check.ExitErrorConfig, code)
	tt.MustAssert(strings.Contains(buf.String(), "unknown op"), buf.String())
}

func TestRunCanceled(t *testing.T) {
	tt := assert.WrapTB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	code := run(ctx, []string{"num128check", "-iterations", "10"}, &bytes.Buffer{})
	tt.MustEqual(check.ExitErrorCanceled, code)
}

package logger

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	appctx "github.com/islamipic/api/internal/pkg/context"
)

func TestInitWithWriter_JSON(t *testing.T) {
	os.Setenv("LOG_FORMAT", "json")
	os.Setenv("LOG_LEVEL", "debug")
	t.Cleanup(func() {
		os.Unsetenv("LOG_FORMAT")
		os.Unsetenv("LOG_LEVEL")
	})

	var buf bytes.Buffer
	InitWithWriter(&buf)

	Logger.Info().Str("k", "v").Msg("hello")
	out := buf.String()
	if !strings.Contains(out, `"k":"v"`) || !strings.Contains(out, "hello") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestWithCtx_CarriesRequestID(t *testing.T) {
	os.Setenv("LOG_FORMAT", "json")
	t.Cleanup(func() { os.Unsetenv("LOG_FORMAT") })

	var buf bytes.Buffer
	InitWithWriter(&buf)

	ctx := appctx.WithRequestID(context.Background(), "req-123")
	WithCtx(ctx).Info().Msg("tagged")

	if !strings.Contains(buf.String(), "req-123") {
		t.Fatalf("expected request id in output, got: %s", buf.String())
	}

	buf.Reset()
	WithCtx(context.Background()).Warn().Msg("untagged")
	if strings.Contains(buf.String(), "request_id") {
		t.Fatalf("bare context must not carry a request id: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "untagged") {
		t.Fatalf("expected log line, got: %s", buf.String())
	}
}

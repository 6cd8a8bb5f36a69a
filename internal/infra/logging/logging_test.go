package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestWithAttachesContextFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := zerolog.New(&buf)

	ctx := WithTraceID(context.Background(), "trace-1")
	ctx = WithAccountID(ctx, "acct-1")
	ctx = WithBookingID(ctx, "bk-1")
	ctx = WithCode(ctx, "UR-AB23CD45")

	With(ctx, &base).Info().Msg("hello")

	out := buf.String()
	for _, want := range []string{
		`"trace_id":"trace-1"`,
		`"account_id":"acct-1"`,
		`"booking_id":"bk-1"`,
		`"code":"UR-AB23CD45"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line %q missing %q", out, want)
		}
	}
}

func TestWithEmptyContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := zerolog.New(&buf)
	With(context.Background(), &base).Info().Msg("plain")

	out := buf.String()
	if strings.Contains(out, "trace_id") || strings.Contains(out, "booking_id") {
		t.Fatalf("unexpected context fields in %q", out)
	}
}

func TestRedact(t *testing.T) {
	t.Parallel()

	if got := Redact("short"); got != "***" {
		t.Fatalf("Redact(short) = %q", got)
	}
	got := Redact("super-secret-api-key")
	if got != "supe...ey" {
		t.Fatalf("Redact = %q", got)
	}
	if strings.Contains(got, "secret") {
		t.Fatalf("Redact leaked the middle: %q", got)
	}
}

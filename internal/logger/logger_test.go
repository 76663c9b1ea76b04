package logger

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
)

func TestFromContextFields(t *testing.T) {
	var buf bytes.Buffer
	zl := Build(Config{Level: "debug", Component: "client"}, &buf)
	log := NewSlog(&zl)

	ctx := WithRequestID(context.Background(), "req-1234")
	ctx = WithRelease(ctx, 12)
	log.InfoContext(ctx, "query done", "rows", 2)

	out := buf.String()
	for _, want := range []string{
		`"request_id":"req-1234"`,
		`"release":12`,
		`"component":"client"`,
		`"msg":"query done"`,
		`"rows":2`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line missing %s:\n%s", want, out)
		}
	}
}

func TestFromContextSkipsUnsetFields(t *testing.T) {
	var buf bytes.Buffer
	zl := Build(Config{Level: "debug"}, &buf)
	log := NewSlog(&zl)

	log.InfoContext(context.Background(), "bare")

	out := buf.String()
	if strings.Contains(out, "request_id") || strings.Contains(out, "release") {
		t.Fatalf("unset context fields leaked into log line:\n%s", out)
	}
}

func TestWithRequestIDGenerates(t *testing.T) {
	ctx := WithRequestID(context.Background(), "")
	got, ok := ctx.Value(ctxReqIDKey).(string)
	if !ok || got == "" {
		t.Fatal("empty request id was not generated")
	}
	if !regexp.MustCompile(`^[0-9a-f]{16}$`).MatchString(got) {
		t.Fatalf("generated id %q is not 16 hex chars", got)
	}
}

func TestNewIDUnique(t *testing.T) {
	if NewID() == NewID() {
		t.Fatal("consecutive ids collided")
	}
}

func TestWithReleaseIgnoresNonPositive(t *testing.T) {
	ctx := WithRelease(context.Background(), 0)
	if ctx.Value(ctxReleaseKey) != nil {
		t.Fatal("zero release should not be stamped")
	}
}

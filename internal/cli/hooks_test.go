package cli

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/floatplace/pkg/observability"
	"github.com/matzehuels/floatplace/pkg/pipeline"
)

func newHookedCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	c := New(&buf, LogDebug)
	c.RegisterHooks()
	t.Cleanup(observability.Reset)
	return c, &buf
}

func TestRegisterHooksPipeline(t *testing.T) {
	_, buf := newHookedCLI(t)

	_, err := pipeline.NewRunner(nil, nil, nil).Execute(context.Background(), pipeline.Options{
		SceneData: []byte(testScene),
		Formats:   []string{pipeline.FormatTXT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"loaded scene", "computed", "placement=bottom", "rendered", "formats=txt", "cache miss"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestRegisterHooksHTTP(t *testing.T) {
	_, buf := newHookedCLI(t)
	hooks := observability.HTTP()

	hooks.OnResponse(context.Background(), "req-1", http.MethodPost, "/v1/position", http.StatusOK, time.Millisecond)
	if out := buf.String(); !strings.Contains(out, "request_id=req-1") || !strings.Contains(out, "status=200") {
		t.Errorf("response not logged:\n%s", out)
	}

	buf.Reset()
	hooks.OnResponse(context.Background(), "req-2", http.MethodPost, "/v1/render", http.StatusInternalServerError, time.Millisecond)
	if out := buf.String(); !strings.Contains(out, "WARN") || !strings.Contains(out, "request failed") {
		t.Errorf("server error not logged as warning:\n%s", out)
	}
}

func TestRegisterHooksResetLimit(t *testing.T) {
	_, buf := newHookedCLI(t)

	observability.Position().OnReset(context.Background(), "flip", 50, false)
	if out := buf.String(); !strings.Contains(out, "reset ignored") || !strings.Contains(out, "middleware=flip") {
		t.Errorf("ignored reset not logged:\n%s", out)
	}
}

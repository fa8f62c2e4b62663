package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsStatus(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Sweeping", func() string { return "3/12" })
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Sweeping 3/12") {
		t.Errorf("output = %q, want status line", out.String())
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after Stop")
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out syncBuffer
	s := newSpinner(ctx, &out, "Waiting", nil)
	s.Start()
	<-ctx.Done()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() = false after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Stopping", nil)
	s.Start()

	s.Stop()
	s.Stop()
	s.StopWithSuccess("done")
}

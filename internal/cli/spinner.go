package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a status line on w until stopped or until its context is
// cancelled. An optional status func is appended to the message on every
// frame, which lets long operations report their progress.
type spinner struct {
	w       io.Writer
	message string
	status  func() string

	parent   context.Context
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	stopped  chan struct{}

	mu    sync.Mutex
	width int
}

// newSpinner returns a spinner bound to ctx. It draws nothing until Start.
func newSpinner(ctx context.Context, w io.Writer, message string, status func() string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &spinner{
		w:       w,
		message: message,
		status:  status,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation in a new goroutine.
func (s *spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *spinner) draw(frame string) {
	line := s.message
	if s.status != nil {
		if st := s.status(); st != "" {
			line += " " + st
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(line))
	s.width = max(s.width, len(line)+2)
}

func (s *spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// Stop ends the animation and clears the line. It is safe to call more
// than once but only after Start.
func (s *spinner) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		<-s.stopped
	})
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line.
func (s *spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context ended before Stop.
func (s *spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

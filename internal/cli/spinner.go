package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// spinnerFrames cycle while a compile pass is in flight.
var spinnerFrames = []string{"◐", "◓", "◑", "◒"}

const spinnerInterval = 90 * time.Millisecond

// Spinner is a single-line progress indicator for long compile or cache
// operations. It renders to stderr so netlist output on stdout stays clean,
// and winds down when its parent context is cancelled.
type Spinner struct {
	message string
	out     io.Writer
	parent  context.Context
	cancel  context.CancelFunc
	ctx     context.Context
	stopped chan struct{}
	once    sync.Once
}

// newSpinner creates a spinner with the given message.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that stops when ctx is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		out:     os.Stderr,
		parent:  ctx,
		cancel:  cancel,
		ctx:     spinCtx,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation. The goroutine exits on Stop or context
// cancellation, erasing the spinner line either way.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for frame := 0; ; frame++ {
			select {
			case <-s.ctx.Done():
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				glyph := spinnerFrames[frame%len(spinnerFrames)]
				fmt.Fprintf(s.out, "\r%s %s",
					styleIconSpinner.Render(glyph), StyleDim.Render(s.message))
			}
		}
	}()
}

// Stop ends the animation and clears the line. Safe to call repeatedly.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
	})
}

// StopWithSuccess stops the spinner and prints a success line in its place.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line in its place.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context was cancelled, as opposed to
// the spinner being stopped normally.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

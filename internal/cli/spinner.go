package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerTick = 80 * time.Millisecond

// spinner animates one status line until it is stopped or its context ends.
// The message can change while it runs, e.g. from "Compiling" to "Writing".
type spinner struct {
	w      io.Writer
	parent context.Context
	cancel context.CancelFunc
	exited chan struct{}
	once   sync.Once

	mu    sync.Mutex
	msg   string
	width int
}

// startSpinner begins animating on stderr.
func startSpinner(ctx context.Context, format string, args ...any) *spinner {
	return startSpinnerTo(ctx, os.Stderr, format, args...)
}

func startSpinnerTo(ctx context.Context, w io.Writer, format string, args ...any) *spinner {
	inner, cancel := context.WithCancel(ctx)
	s := &spinner{
		w:      w,
		parent: ctx,
		cancel: cancel,
		exited: make(chan struct{}),
	}
	s.set(format, args...)
	go s.loop(inner)
	return s
}

func (s *spinner) loop(ctx context.Context) {
	defer close(s.exited)
	t := time.NewTicker(spinnerTick)
	defer t.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			s.clear()
			return
		case <-t.C:
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]), StyleDim.Render(s.msg))
			s.mu.Unlock()
		}
	}
}

// set replaces the message.
func (s *spinner) set(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msg = fmt.Sprintf(format, args...)
	s.width = max(s.width, len(s.msg))
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width+2))
}

// stop ends the animation and clears the line. Safe to call more than once.
func (s *spinner) stop() {
	s.once.Do(s.cancel)
	<-s.exited
}

// fail stops the spinner and prints msg as an error.
func (s *spinner) fail(msg string) {
	s.stop()
	printError("%s", msg)
}

// interrupted reports whether the caller's context ended the spinner.
func (s *spinner) interrupted() bool {
	return s.parent.Err() != nil
}

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// StatusLine shows a single, self-overwriting line with the elapsed time
// of an in-flight operation.
type StatusLine struct {
	mu       sync.Mutex
	writer   io.Writer
	interval time.Duration

	label   string
	started time.Time
	width   int
	done    chan struct{}
	stopped chan struct{}
}

// NewStatusLine creates a status line that writes to w.
// If w is nil, it defaults to os.Stderr.
func NewStatusLine(w io.Writer) *StatusLine {
	if w == nil {
		w = os.Stderr
	}
	return &StatusLine{
		writer:   w,
		interval: 100 * time.Millisecond,
	}
}

// Start renders label and keeps the elapsed time current until Stop.
// Starting an already running line only changes its label.
func (s *StatusLine) Start(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.label = label
	if s.done != nil {
		return
	}

	s.started = time.Now()
	s.done = make(chan struct{})
	s.stopped = make(chan struct{})
	s.render()

	go s.loop(s.done, s.stopped)
}

// Stop clears the line. It is a no-op when the line is not running.
func (s *StatusLine) Stop() {
	s.mu.Lock()
	done, stopped := s.done, s.stopped
	s.done, s.stopped = nil, nil
	s.mu.Unlock()

	if done == nil {
		return
	}
	close(done)
	<-stopped

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}

// Error stops the line and reports err in its place.
func (s *StatusLine) Error(err error) {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.writer, "✗ Error: %v\n", err)
}

func (s *StatusLine) loop(done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.render()
			s.mu.Unlock()
		}
	}
}

// render must be called with mu held.
func (s *StatusLine) render() {
	line := fmt.Sprintf("%s %.1fs", s.label, time.Since(s.started).Seconds())
	if len(line) > s.width {
		s.width = len(line)
	}
	fmt.Fprintf(s.writer, "\r%-*s", s.width, line)
}

// clear must be called with mu held.
func (s *StatusLine) clear() {
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", s.width))
	s.width = 0
}

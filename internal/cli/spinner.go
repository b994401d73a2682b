package cli

import (
	"fmt"
	"sync"
	"time"
)

// spinnerFrames are the teacher's braille-dot animation frames
// (internal/cli/formatter/spinner.go), carried over unchanged.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner is a minimal port of the teacher's formatter.Spinner, used here
// by `pipeline run` while the material pipeline runs (spec §4.5) instead
// of the teacher's LLM-explanation wait. The review loop's session-build
// wait uses the bubbletea spinner in review_cmd.go, not this one.
type spinner struct {
	mu      sync.Mutex
	message string
	stop    chan struct{}
	done    chan struct{}
}

func newSpinner(message string) *spinner {
	return &spinner{message: message, stop: make(chan struct{}), done: make(chan struct{})}
}

func (s *spinner) start() {
	go func() {
		defer close(s.done)
		i := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				fmt.Print("\r\033[K")
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Printf("\r  %s %s", stylePurple.Render(frame), styleDim.Render(s.message))
				i++
			}
		}
	}()
}

func (s *spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.stop:
		return
	default:
		close(s.stop)
	}
	<-s.done
}

// startSpinner creates, starts, and returns a spinner's stop function, the
// teacher's StartSpinner convenience wrapper.
func startSpinner(message string) func() {
	s := newSpinner(message)
	s.start()
	return s.Stop
}

package cmd

import (
	"fmt"
	"io"
	"sync"
	"time"

	"atomicgo.dev/cursor"

	"forcecursor/cli/internal/terminal"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// startInlineSpinner animates frames followed by text on one line until the
// returned stop function is called. text may change while running. The
// terminal cursor is hidden meanwhile. Outside a terminal nothing is drawn.
func startInlineSpinner(w io.Writer, text func() string, interval time.Duration) (stop func()) {
	if !terminal.IsInteractive() {
		return func() {}
	}
	cursor.Hide()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		width := 0
		for i := 0; ; i++ {
			line := fmt.Sprintf("%s %s", spinnerFrames[i%len(spinnerFrames)], text())
			if len(line) > width {
				width = len(line)
			}
			select {
			case <-done:
				fmt.Fprintf(w, "\r%*s\r", width, "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%-*s", width, line)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
			cursor.Show()
		})
	}
}

func staticText(s string) func() string { return func() string { return s } }

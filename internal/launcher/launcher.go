// Package launcher runs gzdoom and streams decoded events from its output.
package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"doomsplit/internal/gamelog"
)

// Options controls how the game process is started.
type Options struct {
	// Binary is the gzdoom executable. Args are passed through after the
	// developer-output switches the decoder depends on.
	Binary string
	Args   []string
}

// Launch starts the game and returns a channel of decoded events. The
// channel carries ProcessStarted first, then decoded line events, and is
// closed after ProcessExited. Cancelling the context kills the process.
func Launch(ctx context.Context, opts Options) (<-chan gamelog.Event, error) {
	binary := opts.Binary
	if binary == "" {
		binary = "gzdoom"
	}
	args := append([]string{"+developer", "3"}, opts.Args...)
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stderr = os.Stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open game output: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", binary, err)
	}

	events := make(chan gamelog.Event, 16)
	go pump(ctx, stdout, cmd.Wait, events)
	return events, nil
}

// pump forwards decoded events until the output stream ends, then waits for
// the process and closes the channel. Once the context is cancelled events
// are dropped instead of sent, so a reader that stopped listening cannot
// block the decoder.
func pump(ctx context.Context, r io.Reader, wait func() error, events chan<- gamelog.Event) {
	defer close(events)
	send := func(evt gamelog.Event) {
		select {
		case events <- evt:
		case <-ctx.Done():
		}
	}
	send(gamelog.Event{Kind: gamelog.ProcessStarted})
	if err := gamelog.Decode(r, send); err != nil {
		// A broken pipe just means the process went away; the exit event
		// below covers it.
		_ = err
	}
	_ = wait()
	send(gamelog.Event{Kind: gamelog.ProcessExited})
}

package feed

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

const maxLineSize = 16 << 20

// ReplayOptions configures [Replay].
type ReplayOptions struct {
	// Strict stops at the first undecodable or unsupported line. Otherwise
	// such lines are logged and skipped.
	Strict bool

	// Interval paces delivery by sleeping between messages.
	Interval time.Duration

	Logger *log.Logger
}

// ReplayStats summarizes a replay.
type ReplayStats struct {
	Delivered int
	Skipped   int
}

// Replay reads JSON-lines envelopes from r and dispatches each to c. Blank
// lines and lines starting with '#' are ignored. Replay stops when ctx is
// done and returns ctx.Err().
func Replay(ctx context.Context, r io.Reader, c Consumer, opts ReplayOptions) (ReplayStats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	var stats ReplayStats
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for sc.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 || text[0] == '#' {
			continue
		}

		err := deliverLine(text, c)
		if err != nil {
			if opts.Strict {
				return stats, fmt.Errorf("line %d: %w", line, err)
			}
			logger.Warn("skipping message", "line", line, "error", err)
			stats.Skipped++
			continue
		}
		stats.Delivered++

		if opts.Interval > 0 {
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			case <-time.After(opts.Interval):
			}
		}
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("read stream: %w", err)
	}
	return stats, nil
}

func deliverLine(text []byte, c Consumer) error {
	m, err := Decode(text)
	if err != nil {
		return err
	}
	return Dispatch(m, c)
}

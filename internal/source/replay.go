package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ayusman/gesturecue/internal/engine"
)

// maxLine bounds one JSONL record.
const maxLine = 4 << 20

// Replayer reads frames from a JSONL stream, one frame or frame array per
// line. Blank lines and lines starting with '#' are skipped.
type Replayer struct {
	// Realtime spaces frames by their timestamps instead of replaying as
	// fast as the sink accepts them.
	Realtime bool
	// Speed scales realtime pacing. Zero means 1.
	Speed float64
}

// Run replays r into sink until EOF, a sink error or ctx is done, and
// returns the number of frames delivered.
func (p Replayer) Run(ctx context.Context, r io.Reader, sink Sink) (int, error) {
	speed := p.Speed
	if speed <= 0 {
		speed = 1
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	var (
		n       int
		line    int
		started time.Time
		first   float64
	)
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 || data[0] == '#' {
			continue
		}

		frames, err := engine.DecodeFrames(data)
		if err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}

		for _, f := range frames {
			if err := ctx.Err(); err != nil {
				return n, err
			}
			if p.Realtime {
				if started.IsZero() {
					started, first = time.Now(), f.Time()
				}
				offset := time.Duration((f.Time() - first) / speed * float64(time.Second))
				if err := sleepUntil(ctx, started.Add(offset)); err != nil {
					return n, err
				}
			}
			if err := sink.Submit(f); err != nil {
				return n, fmt.Errorf("line %d: %w", line, err)
			}
			n++
		}
	}
	if err := scanner.Err(); err != nil {
		return n, err
	}
	return n, nil
}

func sleepUntil(ctx context.Context, t time.Time) error {
	d := time.Until(t)
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

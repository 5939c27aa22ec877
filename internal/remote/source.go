package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sweeney/house-guard/internal/logger"
	"github.com/sweeney/house-guard/internal/logic"
)

// queueSize bounds completed lines waiting for the control loop. When full,
// the reader goroutine stops reading and the stream backs up in the driver.
const queueSize = 32

// Source reads a command stream on its own goroutine and hands completed
// lines to the control loop through a channel.
type Source struct {
	r     io.Reader
	lines chan string
	done  chan struct{}

	mu  sync.Mutex
	err error
}

// NewSource creates a Source over r. Call Start to begin reading.
func NewSource(r io.Reader) *Source {
	return &Source{
		r:     r,
		lines: make(chan string, queueSize),
		done:  make(chan struct{}),
	}
}

// Start launches the reader goroutine. It stops at EOF, on a read error or
// when ctx is cancelled while the queue is full. A Read blocked in the
// driver only returns once the underlying stream is closed.
func (s *Source) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Source) run(ctx context.Context) {
	defer close(s.done)

	var framer Framer
	buf := make([]byte, 64)
	for {
		n, err := s.r.Read(buf)
		for _, line := range framer.Feed(buf[:n]) {
			select {
			case s.lines <- line:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) {
				s.setErr(fmt.Errorf("read command stream: %w", err))
			}
			return
		}
	}
}

func (s *Source) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Err returns the error that stopped the reader, if any.
func (s *Source) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Done is closed when the reader goroutine exits.
func (s *Source) Done() <-chan struct{} {
	return s.done
}

// Drain returns the commands completed since the last call without
// blocking. Unrecognised lines are logged and dropped.
func (s *Source) Drain(ctx context.Context) []logic.Command {
	var cmds []logic.Command
	for {
		select {
		case line := <-s.lines:
			cmd, ok := Parse(line)
			if !ok {
				logger.DebugKV(ctx, "ignoring unknown command", "line", line)
				continue
			}
			cmds = append(cmds, cmd)
		default:
			return cmds
		}
	}
}

// SPDX-FileCopyrightText: 2026 The bogotest authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// State is the lifecycle state of a [Session].
type State int

const (
	// StateCreated is the state of a new session before the guest process
	// runs.
	StateCreated State = iota
	// StateRunning is the state while the guest process is alive and the
	// console can be used.
	StateRunning
	// StateCompleted is the terminal state of a session whose guest process
	// exited on its own.
	StateCompleted
	// StateKilled is the terminal state of a session whose guest process was
	// terminated forcibly.
	StateKilled
)

// String implements [fmt.Stringer].
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateKilled:
		return "killed"
	default:
		return "invalid"
	}
}

const readBufferSize = 4096

// Session is the console of a single guest run.
//
// It owns the append-only transcript of all guest output. A single pump
// goroutine moves chunks from the output stream into a channel, so
// [Session.ReadUntil] can bound its waits with a deadline without relying on
// read timeouts of the underlying stream. All other methods must be called
// from a single goroutine. Reads and writes never overlap: a line is sent
// only between two read phases.
type Session struct {
	stdin  io.Writer
	mirror io.Writer

	chunks      chan []byte
	pump        errgroup.Group
	streamEnded bool

	transcript bytes.Buffer
	pending    []byte
	state      State
}

// NewSession creates a new [Session] reading from the given guest output
// stream and writing command lines to the given input stream.
//
// Every byte read is mirrored to the mirror writer as it is consumed. The
// mirror is a side channel for live observation, its write errors are
// ignored. It may be nil.
//
// The session starts in [StateCreated]. Call [Session.Start] once the guest
// process runs.
func NewSession(stdin io.Writer, output io.Reader, mirror io.Writer) *Session {
	s := &Session{
		stdin:  stdin,
		mirror: mirror,
		chunks: make(chan []byte, 1),
	}

	s.pump.Go(func() error {
		return s.pumpOutput(output)
	})

	return s
}

func (s *Session) pumpOutput(output io.Reader) error {
	defer close(s.chunks)

	buf := make([]byte, readBufferSize)

	for {
		n, err := output.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.chunks <- chunk
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			// A failing read means the same as a closed stream: no more
			// console output will arrive.
			return fmt.Errorf("%w: %w", ErrStreamClosed, err)
		}
	}
}

// Start marks the session as running. It is called once the guest process
// has been started.
func (s *Session) Start() {
	if s.state == StateCreated {
		s.state = StateRunning
	}
}

// State returns the current session state.
func (s *Session) State() State {
	return s.state
}

// Transcript returns the output captured so far.
func (s *Session) Transcript() string {
	return s.transcript.String()
}

// ReadUntil reads guest output until the transcript tail ends with marker,
// the timeout elapses, the stream ends, or the context is canceled.
//
// Everything read is appended to the transcript before any deadline check,
// so partial output survives a timeout. The tail check runs against the
// accumulated transcript, which detects markers split across reads. On a
// match the transcript ends exactly at the marker's last byte; any bytes
// read beyond it are kept for the next call.
//
// It returns whether the marker was found and the text appended during this
// call. A timeout and an ended stream both yield found == false, neither is
// an error.
func (s *Session) ReadUntil(
	ctx context.Context,
	marker string,
	timeout time.Duration,
) (bool, string) {
	pos := s.transcript.Len()
	m := []byte(marker)

	// Bytes read beyond the previous marker are consumed first.
	pending := s.pending
	s.pending = nil

	if s.consume(pending, m) {
		return true, s.textSince(pos)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case chunk, ok := <-s.chunks:
			if !ok {
				s.streamEnded = true
				return false, s.textSince(pos)
			}

			if s.consume(chunk, m) {
				return true, s.textSince(pos)
			}
		case <-timer.C:
			return false, s.textSince(pos)
		case <-ctx.Done():
			return false, s.textSince(pos)
		}
	}
}

// consume appends chunk to the transcript byte by byte until the transcript
// tail matches marker. On a match the remaining bytes are kept pending and
// true is returned. An empty marker never matches.
func (s *Session) consume(chunk, marker []byte) bool {
	for i := range chunk {
		s.transcript.WriteByte(chunk[i])

		if len(marker) > 0 && bytes.HasSuffix(s.transcript.Bytes(), marker) {
			s.writeMirror(chunk[:i+1])
			s.pending = append(s.pending, chunk[i+1:]...)

			return true
		}
	}

	s.writeMirror(chunk)

	return false
}

func (s *Session) writeMirror(b []byte) {
	if s.mirror == nil || len(b) == 0 {
		return
	}

	_, _ = s.mirror.Write(b)
}

func (s *Session) textSince(pos int) string {
	return string(s.transcript.Bytes()[pos:])
}

// SendLine writes the given command line followed by a newline to the guest
// input stream. It returns [ErrNotRunning] if the session is not running.
func (s *Session) SendLine(line string) error {
	if s.state != StateRunning {
		return fmt.Errorf("%w: send %q in state %s", ErrNotRunning, line, s.state)
	}

	_, err := io.WriteString(s.stdin, line+"\n")
	if err != nil {
		return fmt.Errorf("send %q: %w", line, err)
	}

	return nil
}

// Settle pauses for the given duration to let the guest start processing a
// command line. It returns early if the context is canceled.
func (s *Session) Settle(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// Finalize moves the session into the given terminal state and drains output
// that is still buffered, waiting up to grace for the stream to end. It
// returns the complete final transcript.
//
// After Finalize the transcript is the byte exact concatenation of all
// output read during the session, in arrival order.
func (s *Session) Finalize(state State, grace time.Duration) string {
	s.state = state

	s.consume(s.pending, nil)
	s.pending = nil

	timer := time.NewTimer(grace)
	defer timer.Stop()

drain:
	for !s.streamEnded {
		select {
		case chunk, ok := <-s.chunks:
			if !ok {
				s.streamEnded = true

				break drain
			}

			s.consume(chunk, nil)
		case <-timer.C:
			break drain
		}
	}

	if s.streamEnded {
		if err := s.pump.Wait(); err != nil {
			slog.Debug("Console stream ended with read error",
				slog.Any("error", err))
		}
	}

	return s.Transcript()
}

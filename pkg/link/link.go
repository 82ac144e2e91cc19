// Package link owns the serial connection to the servo controller.
// It speaks a line-oriented protocol: one newline-terminated command
// out, at most one acknowledgment line back. Everything above this
// package deals in joints and angles, never in bytes.
package link

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.bug.st/serial"

	"github.com/rufuslabs/go-rufus/internal/log"
)

// State describes the link's connection health.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateReady
	StateDegraded
)

// String returns the state name for logs and status reports.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Ack classifies the controller's reply to a command line.
type Ack int

const (
	// AckOk is a reply with the recognized success prefix.
	AckOk Ack = iota
	// AckUnknown is a present but unrecognized reply. Treated as
	// success; deployed firmware is rarely protocol-complete.
	AckUnknown
	// AckTimeout means no reply arrived in time. Also treated as
	// success: the firmware's acknowledgment is best-effort and a
	// missing ack must not block movement.
	AckTimeout
)

// ackOkPrefix marks a confirmed acknowledgment line.
const ackOkPrefix = "OK"

// readyToken is the greeting the firmware emits after reset.
const readyToken = "READY"

// Sentinel errors.
var (
	// ErrDisconnected is returned when a write fails at the I/O level.
	ErrDisconnected = errors.New("link: disconnected")

	// ErrNoDevice is returned when no serial device could be opened.
	ErrNoDevice = errors.New("link: no device")
)

// Port is the subset of a serial port the link needs. go.bug.st's
// serial.Port satisfies it; tests substitute a fake.
type Port interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	SetReadTimeout(t time.Duration) error
	Close() error
}

// Config holds connection parameters.
type Config struct {
	// PreferredPort is tried first; discovery may override it when a
	// better match is enumerated.
	PreferredPort string

	// BaudRate of the serial line.
	BaudRate int

	// HandshakeTimeout bounds the wait for the READY greeting.
	HandshakeTimeout time.Duration

	// AckTimeout bounds the wait for a per-command acknowledgment.
	AckTimeout time.Duration

	// Match selects candidate devices during discovery. Nil means
	// DefaultMatch.
	Match Matcher
}

// DefaultConfig returns the parameters the stock controller uses.
func DefaultConfig() Config {
	return Config{
		PreferredPort:    "/dev/ttyUSB0",
		BaudRate:         9600,
		HandshakeTimeout: 3 * time.Second,
		AckTimeout:       200 * time.Millisecond,
	}
}

// Link is the exclusive owner of the serial device. Writes are not
// internally serialized; the command channel holds its own mutex
// around the whole write/ack round trip.
type Link struct {
	cfg   Config
	state atomic.Int32

	mu     sync.Mutex
	port   Port
	closed bool

	// leftover bytes read past a newline boundary
	pending []byte
}

// Connect discovers and opens the serial device, then waits for the
// READY greeting. A missing greeting degrades the link but does not
// fail the connect; the firmware does not always emit one.
func Connect(cfg Config) (*Link, error) {
	if cfg.Match == nil {
		cfg.Match = DefaultMatch
	}
	name := DetectPort(cfg.PreferredPort, cfg.Match)

	mode := &serial.Mode{BaudRate: cfg.BaudRate}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrNoDevice, name, err)
	}
	log.Info("serial port opened", "port", name, "baud", cfg.BaudRate)

	return Attach(port, cfg), nil
}

// Attach wraps an already-open port and runs the READY handshake.
// Exposed so tests can drive the link over a fake port.
func Attach(port Port, cfg Config) *Link {
	l := &Link{cfg: cfg, port: port}
	l.state.Store(int32(StateConnecting))
	l.handshake()
	return l
}

// handshake waits for the firmware greeting and settles the state.
func (l *Link) handshake() {
	line, timedOut, err := l.readLine(l.cfg.HandshakeTimeout)
	switch {
	case err != nil:
		log.Warn("handshake read failed", "err", err)
		l.state.Store(int32(StateDegraded))
	case timedOut:
		log.Warn("no greeting from controller, continuing optimistically")
		l.state.Store(int32(StateDegraded))
	case strings.TrimSpace(line) == readyToken:
		log.Info("controller ready")
		l.state.Store(int32(StateReady))
	default:
		log.Warn("unexpected greeting", "line", line)
		l.state.Store(int32(StateDegraded))
	}
}

// State returns the current link state.
func (l *Link) State() State {
	return State(l.state.Load())
}

// WriteLine sends one newline-terminated command and reads the
// acknowledgment. Every outcome is observable: an Ack on any
// soft-success, ErrDisconnected on an I/O failure. The link never
// retries; retry policy belongs to the caller.
func (l *Link) WriteLine(text string) (Ack, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || l.State() == StateDisconnected {
		return 0, ErrDisconnected
	}

	if _, err := l.port.Write([]byte(text + "\n")); err != nil {
		l.state.Store(int32(StateDisconnected))
		log.Warn("serial write failed", "cmd", text, "err", err)
		return 0, fmt.Errorf("%w: write: %v", ErrDisconnected, err)
	}

	line, timedOut, err := l.readLine(l.cfg.AckTimeout)
	if err != nil {
		l.state.Store(int32(StateDisconnected))
		return 0, fmt.Errorf("%w: read ack: %v", ErrDisconnected, err)
	}
	if timedOut {
		return AckTimeout, nil
	}
	if strings.HasPrefix(strings.TrimSpace(line), ackOkPrefix) {
		return AckOk, nil
	}
	return AckUnknown, nil
}

// readLine reads up to one newline-terminated line within the given
// budget. Returns timedOut=true when no full line arrived in time;
// partial bytes are kept for the next read.
func (l *Link) readLine(budget time.Duration) (string, bool, error) {
	deadline := time.Now().Add(budget)

	for {
		if i := indexNewline(l.pending); i >= 0 {
			line := string(l.pending[:i])
			l.pending = l.pending[i+1:]
			return strings.TrimRight(line, "\r"), false, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return "", true, nil
		}
		if err := l.port.SetReadTimeout(remaining); err != nil {
			return "", false, err
		}

		buf := make([]byte, 64)
		n, err := l.port.Read(buf)
		if err != nil {
			return "", false, err
		}
		if n == 0 {
			// read timeout elapsed with nothing on the wire
			return "", true, nil
		}
		l.pending = append(l.pending, buf[:n]...)
	}
}

// indexNewline returns the index of the first '\n', or -1.
func indexNewline(b []byte) int {
	for i, c := range b {
		if c == '\n' {
			return i
		}
	}
	return -1
}

// Close releases the underlying device. Safe to call more than once.
func (l *Link) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	l.state.Store(int32(StateDisconnected))
	if l.port == nil {
		return nil
	}
	log.Info("serial port closed")
	return l.port.Close()
}

package trajectory

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrOutOfOrder = errors.New("trajectory: frame out of order")
	ErrClosed     = errors.New("trajectory: recorder closed")
)

// Recorder receives frames in increasing step order.
type Recorder interface {
	Record(f Frame) error
	Close() error
}

// MemoryRecorder keeps every frame in memory.
type MemoryRecorder struct {
	mu     sync.Mutex
	frames []Frame
	closed bool
}

func NewMemoryRecorder() *MemoryRecorder { return &MemoryRecorder{} }

func (m *MemoryRecorder) Record(f Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if n := len(m.frames); n > 0 && f.Step <= m.frames[n-1].Step {
		return errors.Wrapf(ErrOutOfOrder, "step %d after %d", f.Step, m.frames[n-1].Step)
	}
	m.frames = append(m.frames, f)
	return nil
}

func (m *MemoryRecorder) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Frames returns a copy of the recorded frames.
func (m *MemoryRecorder) Frames() []Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Frame(nil), m.frames...)
}

// Last returns the most recent frame.
func (m *MemoryRecorder) Last() (Frame, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.frames) == 0 {
		return Frame{}, false
	}
	return m.frames[len(m.frames)-1], true
}

// Multi fans every frame out to several recorders.
type Multi []Recorder

func (m Multi) Record(f Frame) error {
	for _, r := range m {
		if err := r.Record(f); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	var first error
	for _, r := range m {
		if err := r.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

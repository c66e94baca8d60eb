package cli

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// MessageArea shows one transient message at a time. After the display
// duration the message is cleared and onClear runs, which the shell uses to
// hand focus back to the prompt.
type MessageArea struct {
	mu       sync.Mutex
	out      io.Writer
	duration time.Duration
	onClear  func()

	current string
	timer   *time.Timer
	seq     uint64
}

// NewMessageArea creates a message area. onClear may be nil.
func NewMessageArea(out io.Writer, duration time.Duration, onClear func()) *MessageArea {
	return &MessageArea{out: out, duration: duration, onClear: onClear}
}

// Show prints msg and schedules it to clear, replacing any pending message
func (m *MessageArea) Show(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timer != nil {
		m.timer.Stop()
	}
	m.seq++
	seq := m.seq
	m.current = msg
	fmt.Fprintln(m.out, msg)
	m.timer = time.AfterFunc(m.duration, func() { m.expire(seq) })
}

func (m *MessageArea) expire(seq uint64) {
	m.mu.Lock()
	if seq != m.seq {
		// replaced after the timer fired
		m.mu.Unlock()
		return
	}
	m.current = ""
	m.timer = nil
	onClear := m.onClear
	m.mu.Unlock()

	if onClear != nil {
		onClear()
	}
}

// Current returns the message on display, or ""
func (m *MessageArea) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Stop cancels a pending clear without running onClear
func (m *MessageArea) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.seq++
	m.current = ""
}

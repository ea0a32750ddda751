package dbus

import (
	"sync"

	"github.com/xnotid/xnotid/internal/model"
)

// Command is a presentation-affecting request originating on the IPC
// side, carried to the presentation loop through the command queue.
type Command int

const (
	// CommandToggleCenter toggles the notification center visibility.
	CommandToggleCenter Command = iota
	// CommandToggleDoNotDisturb flips the Do Not Disturb state.
	CommandToggleDoNotDisturb
)

// String returns the command name for logging.
func (c Command) String() string {
	switch c {
	case CommandToggleCenter:
		return "toggle-center"
	case CommandToggleDoNotDisturb:
		return "toggle-dnd"
	default:
		return "unknown"
	}
}

// SignalKind discriminates outbound protocol signals.
type SignalKind int

const (
	// SignalActionInvoked requests an ActionInvoked emission.
	SignalActionInvoked SignalKind = iota
	// SignalNotificationClosed requests a NotificationClosed emission.
	SignalNotificationClosed
)

// Signal describes one outbound D-Bus signal to emit. ActionKey is used
// by ActionInvoked, Reason by NotificationClosed.
type Signal struct {
	Kind      SignalKind
	ID        uint32
	ActionKey string
	Reason    model.CloseReason
}

// CommandQueue is an unbounded FIFO carrying commands from the IPC side
// to the presentation loop. Pushes never block; the consumer drains by
// polling on its own scheduling loop.
type CommandQueue struct {
	mu    sync.Mutex
	items []Command
}

// NewCommandQueue creates an empty command queue.
func NewCommandQueue() *CommandQueue {
	return &CommandQueue{}
}

// Push appends a command. Fire-and-forget.
func (q *CommandQueue) Push(c Command) {
	q.mu.Lock()
	q.items = append(q.items, c)
	q.mu.Unlock()
}

// Drain atomically removes and returns all pending commands in FIFO
// order. An empty queue returns nil; that is not an error, just nothing
// to do this tick.
func (q *CommandQueue) Drain() []Command {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()
	return items
}

// Len reports the number of pending commands.
func (q *CommandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// SignalQueue is an unbounded FIFO carrying outbound-signal requests
// from the presentation side to the IPC task, which drains it at a
// fixed short interval and translates entries into signal emissions.
type SignalQueue struct {
	mu    sync.Mutex
	items []Signal
}

// NewSignalQueue creates an empty signal queue.
func NewSignalQueue() *SignalQueue {
	return &SignalQueue{}
}

// Push appends a signal request. Fire-and-forget.
func (q *SignalQueue) Push(s Signal) {
	q.mu.Lock()
	q.items = append(q.items, s)
	q.mu.Unlock()
}

// Drain atomically removes and returns all pending signal requests in
// FIFO order.
func (q *SignalQueue) Drain() []Signal {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()
	return items
}

// Len reports the number of pending signal requests.
func (q *SignalQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

package dbus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xnotid/xnotid/internal/model"
)

func TestCommandQueue_FIFO(t *testing.T) {
	q := NewCommandQueue()
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Drain())

	q.Push(CommandToggleCenter)
	q.Push(CommandToggleDoNotDisturb)
	q.Push(CommandToggleCenter)
	assert.Equal(t, 3, q.Len())

	got := q.Drain()
	require.Len(t, got, 3)
	assert.Equal(t, CommandToggleCenter, got[0])
	assert.Equal(t, CommandToggleDoNotDisturb, got[1])
	assert.Equal(t, CommandToggleCenter, got[2])

	// Drain empties the queue.
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Drain())
}

func TestSignalQueue_FIFO(t *testing.T) {
	q := NewSignalQueue()

	q.Push(Signal{Kind: SignalActionInvoked, ID: 1, ActionKey: "default"})
	q.Push(Signal{Kind: SignalNotificationClosed, ID: 1, Reason: model.CloseReasonDismissed})

	got := q.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, SignalActionInvoked, got[0].Kind)
	assert.Equal(t, "default", got[0].ActionKey)
	assert.Equal(t, SignalNotificationClosed, got[1].Kind)
	assert.Equal(t, model.CloseReasonDismissed, got[1].Reason)
	assert.Equal(t, 0, q.Len())
}

func TestSignalQueue_ConcurrentPush(t *testing.T) {
	q := NewSignalQueue()

	var wg sync.WaitGroup
	const producers = 8
	const perProducer = 100
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				q.Push(Signal{Kind: SignalActionInvoked, ID: uint32(j)})
			}
		}()
	}
	wg.Wait()

	assert.Len(t, q.Drain(), producers*perProducer)
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "toggle-center", CommandToggleCenter.String())
	assert.Equal(t, "toggle-dnd", CommandToggleDoNotDisturb.String())
	assert.Equal(t, "unknown", Command(42).String())
}

package lifecycle

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_BeginEnd(t *testing.T) {
	tr := New(Options{})

	assert.Equal(t, Idle, tr.State("a"))
	require.NoError(t, tr.Begin("a"))
	assert.Equal(t, Loading, tr.State("a"))

	assert.ErrorIs(t, tr.Begin("a"), ErrBusy)
	assert.NoError(t, tr.Begin("b"), "sessions are independent")
	assert.Equal(t, 2, tr.Active())

	tr.End("a")
	assert.Equal(t, Idle, tr.State("a"))
	assert.NoError(t, tr.Begin("a"))
}

func TestTracker_ExpiredMarkerFreesSession(t *testing.T) {
	tr := New(Options{TTL: 20 * time.Millisecond})

	require.NoError(t, tr.Begin("a"))
	time.Sleep(40 * time.Millisecond)

	assert.Equal(t, Idle, tr.State("a"))
	assert.NoError(t, tr.Begin("a"))
}

func TestTracker_ConcurrentBeginAdmitsOne(t *testing.T) {
	tr := New(Options{})

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tr.Begin("same") == nil {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), admitted.Load())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "unknown", State(9).String())
}

package lifecycle

import (
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
)

// State of one session's request lifecycle. Success and Error are reported to
// the renderer and then fall back to Idle.
type State int

const (
	Idle State = iota
	Loading
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

var ErrBusy = errors.New("a generation is already in progress")

const DefaultTTL = 10 * time.Minute

type Options struct {
	// TTL bounds how long a session may stay Loading if End is never called.
	TTL time.Duration
}

// Tracker holds one in-flight marker per session key. While a marker exists,
// every flow for that key is rejected.
type Tracker struct {
	inflight *cache.Cache
	ttl      time.Duration
}

func New(opts Options) *Tracker {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Tracker{
		inflight: cache.New(ttl, ttl/2),
		ttl:      ttl,
	}
}

// Begin moves key from Idle to Loading, or returns ErrBusy.
func (t *Tracker) Begin(key string) error {
	if err := t.inflight.Add(key, time.Now(), t.ttl); err != nil {
		return ErrBusy
	}
	return nil
}

// End returns key to Idle.
func (t *Tracker) End(key string) {
	t.inflight.Delete(key)
}

func (t *Tracker) State(key string) State {
	if _, ok := t.inflight.Get(key); ok {
		return Loading
	}
	return Idle
}

func (t *Tracker) Active() int {
	return t.inflight.ItemCount()
}

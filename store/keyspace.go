package store

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/mickamy/keyd/detect"
)

// Errors returned by Keyspace.Set. These surface to clients as command
// errors (a "-ERR " reply); they never leave the keyspace mutated.
var (
	ErrConflictingTTLOptions = errors.New("ERR EX and PX options at the same time are not compatible")
	ErrConflictingSetOptions = errors.New("ERR NX and XX options at the same time are not compatible")
	ErrNonPositiveExpire     = errors.New("ERR invalid expire time, must be positive")
)

// SetResult is the outcome of a successful (non-error) Set call.
type SetResult int

const (
	SetOK SetResult = iota
	SetNotSet
)

// SetOptions mirrors the raw SET command options. ExSeconds and PxMillis are
// mutually exclusive, as are NX and XX; Keyspace.Set rejects both
// conflicts without mutating state.
type SetOptions struct {
	ExSeconds *int64
	PxMillis  *int64
	NX        bool
	XX        bool
}

type entry struct {
	value    Value
	deadline time.Time // zero Time means no expiration
}

// Options configures a new Keyspace.
type Options struct {
	// HotKeyThreshold enables the hot-key detector when > 0 (see detect.New).
	HotKeyThreshold int
	HotKeyWindow    time.Duration
	HotKeyCooldown  time.Duration
	// Logger receives hot-key alerts. Defaults to log.Default() if nil.
	Logger *log.Logger
}

// Keyspace is the mapping from binary key to typed Value plus a parallel
// expiry deadline, guarded by a single lock so that the (value, deadline)
// pair is always observed or replaced as one atomic unit — never torn.
type Keyspace struct {
	mu      sync.RWMutex
	entries map[string]entry

	hot       *detect.Detector
	hotWindow time.Duration
	logger    *log.Logger
}

// New creates an empty Keyspace.
func New(opts Options) *Keyspace {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Keyspace{
		entries:   make(map[string]entry),
		hot:       detect.New(opts.HotKeyThreshold, opts.HotKeyWindow, opts.HotKeyCooldown),
		hotWindow: opts.HotKeyWindow,
		logger:    logger,
	}
}

// Set stores value under key, applying the expiration and conditional
// options atomically with respect to concurrent Get/Set on the same key.
func (k *Keyspace) Set(key []byte, value Value, opts SetOptions) (SetResult, error) {
	if opts.NX && opts.XX {
		return 0, ErrConflictingSetOptions
	}
	if opts.ExSeconds != nil && opts.PxMillis != nil {
		return 0, ErrConflictingTTLOptions
	}

	var deadline time.Time
	switch {
	case opts.ExSeconds != nil:
		if *opts.ExSeconds <= 0 {
			return 0, ErrNonPositiveExpire
		}
		deadline = time.Now().Add(time.Duration(*opts.ExSeconds) * time.Second)
	case opts.PxMillis != nil:
		if *opts.PxMillis <= 0 {
			return 0, ErrNonPositiveExpire
		}
		deadline = time.Now().Add(time.Duration(*opts.PxMillis) * time.Millisecond)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	_, exists := k.entries[string(key)]
	if opts.NX && exists {
		return SetNotSet, nil
	}
	if opts.XX && !exists {
		return SetNotSet, nil
	}

	k.entries[string(key)] = entry{value: value, deadline: deadline}
	return SetOK, nil
}

// Get returns the value stored under key. ok is false if the key is absent
// or its deadline has passed, regardless of whether the expirer has yet
// reclaimed it.
func (k *Keyspace) Get(key []byte) (Value, bool) {
	k.mu.RLock()
	e, ok := k.entries[string(key)]
	k.mu.RUnlock()
	if !ok {
		return Value{}, false
	}
	if expired(e, time.Now()) {
		return Value{}, false
	}

	if r := k.hot.Record(string(key), time.Now()); r.Alert != nil {
		k.logger.Printf("hot key detected: %q (%d reads in %s)", r.Alert.Key, r.Alert.Count, k.hotWindow)
	}

	return e.value, true
}

// Keys returns every present, non-expired key whose string form matches
// pattern. Order is unspecified.
func (k *Keyspace) Keys(pattern string) [][]byte {
	k.mu.RLock()
	defer k.mu.RUnlock()

	now := time.Now()
	fastPath := pattern == "*"

	out := make([][]byte, 0, len(k.entries))
	for key, e := range k.entries {
		if expired(e, now) {
			continue
		}
		if fastPath || matchGlob(pattern, key) {
			out = append(out, []byte(key))
		}
	}
	return out
}

// Purge removes every entry whose deadline has passed. Intended to be
// called periodically by an Expirer.
func (k *Keyspace) Purge() {
	now := time.Now()

	k.mu.Lock()
	defer k.mu.Unlock()

	for key, e := range k.entries {
		if expired(e, now) {
			delete(k.entries, key)
		}
	}
}

// Len returns the number of entries currently stored, including any not yet
// swept by the expirer.
func (k *Keyspace) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.entries)
}

// Each calls fn once per entry while holding a read lock for the whole
// iteration, so the caller observes one consistent point-in-time snapshot.
// fn must not call back into the Keyspace.
func (k *Keyspace) Each(fn func(key string, value Value, deadline time.Time)) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	for key, e := range k.entries {
		fn(key, e.value, e.deadline)
	}
}

// LoadedEntry is one record produced by a snapshot load.
type LoadedEntry struct {
	Key      string
	Value    Value
	Deadline time.Time
}

// LoadAll replaces the entire keyspace with entries in a single atomic step,
// as required before inserting a freshly loaded snapshot.
func (k *Keyspace) LoadAll(entries []LoadedEntry) {
	m := make(map[string]entry, len(entries))
	for _, e := range entries {
		m[e.Key] = entry{value: e.Value, deadline: e.Deadline}
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.entries = m
}

func expired(e entry, now time.Time) bool {
	return !e.deadline.IsZero() && now.After(e.deadline)
}

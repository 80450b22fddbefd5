// Package config holds the server's runtime parameters in a single
// explicit struct threaded through the listener, connections, and
// expirer — rather than read from ambient globals — so that every
// collaborator's dependencies are visible in its constructor signature.
package config

import (
	"fmt"
	"strconv"
	"time"
)

// Server is the mutable configuration surface exposed over CONFIG GET/SET,
// plus the startup parameters that are fixed once the process is running.
type Server struct {
	// Addr is the TCP address the listener binds, e.g. "127.0.0.1:6379".
	Addr string

	// Dir and DBFilename locate the snapshot file: filepath.Join(Dir, DBFilename).
	Dir        string
	DBFilename string

	// ExpireInterval is how often the Expirer sweeps for expired keys.
	ExpireInterval time.Duration

	// HotKeyThreshold, HotKeyWindow, and HotKeyCooldown parameterize the
	// keyspace's hot-key detector. A zero threshold disables detection.
	HotKeyThreshold int
	HotKeyWindow    time.Duration
	HotKeyCooldown  time.Duration
}

// Default returns the baseline configuration used when no flags override it.
func Default() *Server {
	return &Server{
		Addr:            "127.0.0.1:6379",
		Dir:             ".",
		DBFilename:      "dump.rdb",
		ExpireInterval:  60 * time.Second,
		HotKeyThreshold: 0,
		HotKeyWindow:    time.Second,
		HotKeyCooldown:  10 * time.Second,
	}
}

// Get returns the current string form of a runtime-settable parameter, for
// CONFIG GET. ok is false for unknown or startup-only parameter names.
func (s *Server) Get(name string) (string, bool) {
	switch name {
	case "dir":
		return s.Dir, true
	case "dbfilename":
		return s.DBFilename, true
	case "expire-interval-ms":
		return strconv.FormatInt(s.ExpireInterval.Milliseconds(), 10), true
	case "hotkey-threshold":
		return strconv.Itoa(s.HotKeyThreshold), true
	case "hotkey-window-ms":
		return strconv.FormatInt(s.HotKeyWindow.Milliseconds(), 10), true
	case "hotkey-cooldown-ms":
		return strconv.FormatInt(s.HotKeyCooldown.Milliseconds(), 10), true
	default:
		return "", false
	}
}

// Set applies a runtime-settable parameter, for CONFIG SET. Addr is fixed
// once the listener is bound and is not settable here.
func (s *Server) Set(name, value string) error {
	switch name {
	case "dir":
		s.Dir = value
	case "dbfilename":
		s.DBFilename = value
	case "expire-interval-ms":
		ms, err := strconv.ParseInt(value, 10, 64)
		if err != nil || ms <= 0 {
			return fmt.Errorf("invalid expire-interval-ms %q", value)
		}
		s.ExpireInterval = time.Duration(ms) * time.Millisecond
	case "hotkey-threshold":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid hotkey-threshold %q", value)
		}
		s.HotKeyThreshold = n
	case "hotkey-window-ms":
		ms, err := strconv.ParseInt(value, 10, 64)
		if err != nil || ms <= 0 {
			return fmt.Errorf("invalid hotkey-window-ms %q", value)
		}
		s.HotKeyWindow = time.Duration(ms) * time.Millisecond
	case "hotkey-cooldown-ms":
		ms, err := strconv.ParseInt(value, 10, 64)
		if err != nil || ms <= 0 {
			return fmt.Errorf("invalid hotkey-cooldown-ms %q", value)
		}
		s.HotKeyCooldown = time.Duration(ms) * time.Millisecond
	default:
		return fmt.Errorf("unknown parameter %q", name)
	}
	return nil
}

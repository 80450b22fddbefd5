package rdb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mickamy/keyd/store"
)

type collected struct {
	key      string
	value    store.Value
	deadline time.Time
}

// Save writes a snapshot of ks to dir/filename, replacing any existing file
// atomically (write to a temp file in the same directory, then rename).
// Expired entries are purged first so they are never persisted, and the
// remaining entries are gathered under a single read lock so the snapshot
// reflects one consistent point in time.
func Save(ks *store.Keyspace, dir, filename string) error {
	ks.Purge()

	var entries []collected
	ks.Each(func(key string, value store.Value, deadline time.Time) {
		entries = append(entries, collected{key: key, value: value, deadline: deadline})
	})

	buf, err := encode(entries)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, filename)
	tmp, err := os.CreateTemp(dir, ".tmp-"+filename+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func encode(entries []collected) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(magic)
	buf.WriteString(version)

	buf.WriteByte(opSelectDB)
	writeLength(&buf, 0)

	expiring := 0
	for _, e := range entries {
		if !e.deadline.IsZero() {
			expiring++
		}
	}
	buf.WriteByte(opResizeDB)
	writeLength(&buf, uint64(len(entries)))
	writeLength(&buf, uint64(expiring))

	now := time.Now()
	for _, e := range entries {
		if ms, ok := resolveSaveDeadline(e.deadline, now); ok {
			buf.WriteByte(opExpireMs)
			var tmp [8]byte
			binary.LittleEndian.PutUint64(tmp[:], uint64(ms))
			buf.Write(tmp[:])
		}
		if err := writeValue(&buf, e.key, e.value); err != nil {
			return nil, fmt.Errorf("rdb: key %q: %w", e.key, err)
		}
	}

	buf.WriteByte(opEOF)

	crc := checksum(buf.Bytes())
	var tail [8]byte
	binary.LittleEndian.PutUint64(tail[:], crc)
	buf.Write(tail[:])

	return buf.Bytes(), nil
}

// resolveSaveDeadline translates a monotonic deadline back into a
// wall-clock millisecond timestamp for persistence. A deadline that has
// already passed (or the zero Time, meaning no expiration) is not emitted.
func resolveSaveDeadline(deadline time.Time, now time.Time) (ms int64, ok bool) {
	if deadline.IsZero() {
		return 0, false
	}
	delta := deadline.Sub(now)
	if delta <= 0 {
		return 0, false
	}
	return now.UnixMilli() + delta.Milliseconds(), true
}

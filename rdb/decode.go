package rdb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mickamy/keyd/store"
)

// Load reads and validates a snapshot file, returning the entries it
// contains. It never mutates a Keyspace itself; the caller is expected to
// replace the keyspace wholesale (store.Keyspace.LoadAll) only after Load
// returns successfully, so a corrupt file never leaves a partial load
// applied.
func Load(path string) ([]store.LoadedEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func decode(data []byte) ([]store.LoadedEntry, error) {
	if len(data) < len(magic)+len(version)+8 {
		return nil, fmt.Errorf("rdb: file too short")
	}
	if string(data[:len(magic)]) != magic {
		return nil, fmt.Errorf("rdb: bad magic")
	}
	if string(data[len(magic):len(magic)+len(version)]) != version {
		return nil, fmt.Errorf("rdb: unsupported version %q", data[len(magic):len(magic)+len(version)])
	}

	body := data[:len(data)-8]
	wantCRC := binary.LittleEndian.Uint64(data[len(data)-8:])
	if gotCRC := checksum(body); gotCRC != wantCRC {
		return nil, fmt.Errorf("rdb: crc64 mismatch: got %x, want %x", gotCRC, wantCRC)
	}

	r := bytes.NewReader(body[len(magic)+len(version):])
	now := time.Now()

	var entries []store.LoadedEntry
	var pendingMs *int64

	for {
		opcode, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("rdb: truncated stream: %w", err)
		}

		switch opcode {
		case opEOF:
			return entries, nil

		case opAux:
			if _, err := readString(r); err != nil {
				return nil, fmt.Errorf("rdb: aux key: %w", err)
			}
			if _, err := readString(r); err != nil {
				return nil, fmt.Errorf("rdb: aux value: %w", err)
			}

		case opResizeDB:
			if _, err := readLength(r); err != nil {
				return nil, fmt.Errorf("rdb: resize hint: %w", err)
			}
			if _, err := readLength(r); err != nil {
				return nil, fmt.Errorf("rdb: resize hint: %w", err)
			}

		case opSelectDB:
			if _, err := readLength(r); err != nil {
				return nil, fmt.Errorf("rdb: db selector: %w", err)
			}

		case opExpireSec:
			var buf [4]byte
			if _, err := io.ReadFull(r, buf[:]); err != nil {
				return nil, fmt.Errorf("rdb: expire-seconds: %w", err)
			}
			ms := int64(binary.LittleEndian.Uint32(buf[:])) * 1000
			pendingMs = &ms

		case opExpireMs:
			var buf [8]byte
			if _, err := io.ReadFull(r, buf[:]); err != nil {
				return nil, fmt.Errorf("rdb: expire-millis: %w", err)
			}
			ms := int64(binary.LittleEndian.Uint64(buf[:]))
			pendingMs = &ms

		default:
			key, err := readString(r)
			if err != nil {
				return nil, fmt.Errorf("rdb: key: %w", err)
			}
			v, err := readValue(r, r, opcode)
			if err != nil {
				return nil, fmt.Errorf("rdb: value for key %q: %w", key, err)
			}

			deadline, skip := resolveLoadDeadline(pendingMs, now)
			pendingMs = nil
			if skip {
				continue
			}
			entries = append(entries, store.LoadedEntry{Key: string(key), Value: v, Deadline: deadline})
		}
	}
}

// resolveLoadDeadline translates a pending wall-clock expiry (milliseconds
// since epoch) into a monotonic deadline anchored at now. time.Time's Add
// preserves now's monotonic reading, so later comparisons against
// time.Now() use the monotonic clock even though the snapshot only ever
// stored a wall-clock timestamp. An expiry already in the past means the
// entry is skipped rather than loaded.
func resolveLoadDeadline(pendingMs *int64, now time.Time) (deadline time.Time, skip bool) {
	if pendingMs == nil {
		return time.Time{}, false
	}
	wallExpiry := time.UnixMilli(*pendingMs)
	delta := wallExpiry.Sub(now)
	if delta <= 0 {
		return time.Time{}, true
	}
	return now.Add(delta), false
}

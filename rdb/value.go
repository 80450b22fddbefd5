package rdb

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mickamy/keyd/store"
)

// readValue reads the type-specific body for opcode (key already consumed)
// and returns the decoded Value.
func readValue(r io.Reader, br byteReaderT, opcode byte) (store.Value, error) {
	switch opcode {
	case valString:
		s, err := readString(r)
		if err != nil {
			return store.Value{}, err
		}
		return store.StringValue(s), nil

	case valList, valSet:
		n, err := readLength(br)
		if err != nil {
			return store.Value{}, err
		}
		items := make([][]byte, n)
		for i := range items {
			items[i], err = readString(r)
			if err != nil {
				return store.Value{}, err
			}
		}
		if opcode == valList {
			return store.Value{Kind: store.KindList, List: items}, nil
		}
		return store.Value{Kind: store.KindSet, Set: items}, nil

	case valSortedSetZip, valHashZip, valListZip:
		payload, err := readString(r)
		if err != nil {
			return store.Value{}, err
		}
		return store.Value{Kind: store.KindZiplist, Opaque: payload, OpaqueOpcode: opcode}, nil

	case valHashZipmap:
		payload, err := readString(r)
		if err != nil {
			return store.Value{}, err
		}
		return store.Value{Kind: store.KindZipmap, Opaque: payload, OpaqueOpcode: opcode}, nil

	case valSetIntset, valSortedSetIntset:
		payload, err := readString(r)
		if err != nil {
			return store.Value{}, err
		}
		return store.Value{Kind: store.KindIntset, Opaque: payload, OpaqueOpcode: opcode}, nil

	case valListQuicklist:
		payload, err := readString(r)
		if err != nil {
			return store.Value{}, err
		}
		return store.Value{Kind: store.KindQuicklist, Opaque: payload, OpaqueOpcode: opcode}, nil

	default:
		return store.Value{}, fmt.Errorf("rdb: unknown value opcode 0x%02X", opcode)
	}
}

// writeValue appends the opcode, key, and type-specific body for v.
func writeValue(buf *bytes.Buffer, key string, v store.Value) error {
	switch v.Kind {
	case store.KindString:
		buf.WriteByte(valString)
		writeString(buf, []byte(key))
		writeString(buf, v.Str)

	case store.KindList:
		buf.WriteByte(valList)
		writeString(buf, []byte(key))
		writeLength(buf, uint64(len(v.List)))
		for _, item := range v.List {
			writeString(buf, item)
		}

	case store.KindSet:
		buf.WriteByte(valSet)
		writeString(buf, []byte(key))
		writeLength(buf, uint64(len(v.Set)))
		for _, item := range v.Set {
			writeString(buf, item)
		}

	case store.KindZiplist, store.KindZipmap, store.KindIntset, store.KindQuicklist:
		buf.WriteByte(v.OpaqueOpcode)
		writeString(buf, []byte(key))
		writeString(buf, v.Opaque)

	default:
		return fmt.Errorf("rdb: value kind %v has no snapshot encoding", v.Kind)
	}
	return nil
}

// byteReaderT is the subset of *bytes.Reader that length decoding needs.
type byteReaderT interface {
	ReadByte() (byte, error)
}

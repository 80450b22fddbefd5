package rdb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
)

// readLengthOrSpecial reads one length-encoded field per §4.4: the top two
// bits of the first byte select a 6-bit, 14-bit, 32-bit, or "special"
// encoding. Only string fields may legally be special; counts never are.
func readLengthOrSpecial(r io.ByteReader) (n uint64, special bool, specialType byte, err error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, false, 0, err
	}
	switch b >> 6 {
	case 0b00:
		return uint64(b & 0x3F), false, 0, nil
	case 0b01:
		b2, err := r.ReadByte()
		if err != nil {
			return 0, false, 0, err
		}
		return uint64(b&0x3F)<<8 | uint64(b2), false, 0, nil
	case 0b10:
		var buf [4]byte
		for i := range buf {
			c, err := r.ReadByte()
			if err != nil {
				return 0, false, 0, err
			}
			buf[i] = c
		}
		return uint64(binary.LittleEndian.Uint32(buf[:])), false, 0, nil
	default: // 0b11
		return 0, true, b & 0x3F, nil
	}
}

// readLength reads a plain count: a list/set/hash size, a resize hint, or a
// database selector. It is an error for the field to use the special
// string-only encoding.
func readLength(r io.ByteReader) (uint64, error) {
	n, special, _, err := readLengthOrSpecial(r)
	if err != nil {
		return 0, err
	}
	if special {
		return 0, fmt.Errorf("rdb: special length encoding used in count context")
	}
	return n, nil
}

// readString reads one length-encoded string field, resolving the special
// int8/int16/int32 and LZF-compressed encodings per §4.4. Integer-encoded
// strings are returned as their decimal text, matching the source's
// behavior of collapsing them back into ordinary string values on load.
func readString(r io.Reader) ([]byte, error) {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = byteReaderOf(r)
	}
	n, special, specialType, err := readLengthOrSpecial(br)
	if err != nil {
		return nil, err
	}
	if !special {
		return readFull(r, int(n))
	}

	switch specialType {
	case specialInt8:
		b, err := br.ReadByte()
		if err != nil {
			return nil, err
		}
		return strconv.AppendInt(nil, int64(int8(b)), 10), nil
	case specialInt16:
		buf, err := readFull(r, 2)
		if err != nil {
			return nil, err
		}
		v := int16(binary.LittleEndian.Uint16(buf))
		return strconv.AppendInt(nil, int64(v), 10), nil
	case specialInt32:
		buf, err := readFull(r, 4)
		if err != nil {
			return nil, err
		}
		v := int32(binary.LittleEndian.Uint32(buf))
		return strconv.AppendInt(nil, int64(v), 10), nil
	case specialLZF:
		clen, err := readLength(br)
		if err != nil {
			return nil, err
		}
		ulen, err := readLength(br)
		if err != nil {
			return nil, err
		}
		compressed, err := readFull(r, int(clen))
		if err != nil {
			return nil, err
		}
		out, err := lzfDecompress(compressed, int(ulen))
		if err != nil {
			return nil, fmt.Errorf("rdb: lzf decode: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("rdb: unknown special string encoding %d", specialType)
	}
}

func readFull(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// byteReaderOf adapts an io.Reader without ReadByte into one, for the rare
// caller that passes a bare io.Reader rather than *bytes.Reader.
func byteReaderOf(r io.Reader) io.ByteReader {
	return bufByteReader{r}
}

type bufByteReader struct{ r io.Reader }

func (b bufByteReader) ReadByte() (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(b.r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// writeLength appends the minimal plain length encoding for a count.
func writeLength(buf *bytes.Buffer, n uint64) {
	switch {
	case n < 1<<6:
		buf.WriteByte(byte(n))
	case n < 1<<14:
		buf.WriteByte(0x40 | byte(n>>8))
		buf.WriteByte(byte(n))
	default:
		buf.WriteByte(0x80)
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], uint32(n))
		buf.Write(tmp[:])
	}
}

// lzfMinLen is the shortest string writeString will attempt to compress;
// below it the two length prefixes of the LZF encoding cost more than they
// save.
const lzfMinLen = 20

// writeString appends one length-encoded string field, opportunistically
// LZF-compressing it when the compressed payload is shorter than the raw
// bytes (the extra length prefixes of the LZF form are not counted).
func writeString(buf *bytes.Buffer, data []byte) {
	if len(data) >= lzfMinLen {
		if compressed := lzfCompress(data); compressed != nil && len(compressed) < len(data) {
			buf.WriteByte(0xC0 | specialLZF)
			writeLength(buf, uint64(len(compressed)))
			writeLength(buf, uint64(len(data)))
			buf.Write(compressed)
			return
		}
	}
	writeLength(buf, uint64(len(data)))
	buf.Write(data)
}

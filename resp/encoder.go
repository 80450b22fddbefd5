package resp

import (
	"strconv"
	"strings"
)

// Encode serializes f to its wire form. It is total: every well-formed Frame
// value (as produced by this package's constructors or a prior Parse) encodes
// without error.
func Encode(f Frame) []byte {
	var b strings.Builder
	encodeInto(&b, f)
	return []byte(b.String())
}

func encodeInto(b *strings.Builder, f Frame) {
	switch f.Kind {
	case KindSimpleString:
		writeLine(b, '+', f.Text)
	case KindError:
		writeLine(b, '-', f.Text)
	case KindInteger:
		writeLine(b, ':', strconv.FormatInt(f.Int, 10))
	case KindBigNumber:
		writeLine(b, '(', f.Text)
	case KindDouble:
		writeLine(b, ',', strconv.FormatFloat(f.Float, 'g', -1, 64))
	case KindBoolean:
		if f.Bool {
			writeLine(b, '#', "t")
		} else {
			writeLine(b, '#', "f")
		}
	case KindNull:
		writeLine(b, '_', "")
	case KindBulkString:
		encodeBulkLike(b, '$', f)
	case KindBulkError:
		encodeBulkLike(b, '!', f)
	case KindVerbatimString:
		encodeVerbatimString(b, f)
	case KindArray:
		encodeSequence(b, '*', f)
	case KindSet:
		encodeSequence(b, '~', f)
	case KindPush:
		encodeSequence(b, '>', f)
	case KindMap:
		encodeMapLike(b, '%', f)
	case KindAttribute:
		encodeMapLike(b, '|', f)
	}
}

func writeLine(b *strings.Builder, t byte, text string) {
	b.WriteByte(t)
	b.WriteString(text)
	b.WriteString("\r\n")
}

func encodeBulkLike(b *strings.Builder, t byte, f Frame) {
	if f.Null {
		writeLine(b, t, "-1")
		return
	}
	b.WriteByte(t)
	b.WriteString(strconv.Itoa(len(f.Bulk)))
	b.WriteString("\r\n")
	b.Write(f.Bulk)
	b.WriteString("\r\n")
}

func encodeVerbatimString(b *strings.Builder, f Frame) {
	if f.Null {
		writeLine(b, '=', "-1")
		return
	}
	n := len(f.Subtype) + 1 + len(f.Bulk)
	b.WriteByte('=')
	b.WriteString(strconv.Itoa(n))
	b.WriteString("\r\n")
	b.WriteString(f.Subtype)
	b.WriteByte(':')
	b.Write(f.Bulk)
	b.WriteString("\r\n")
}

func encodeSequence(b *strings.Builder, t byte, f Frame) {
	if f.Null {
		writeLine(b, t, "-1")
		return
	}
	b.WriteByte(t)
	b.WriteString(strconv.Itoa(len(f.Elems)))
	b.WriteString("\r\n")
	for _, e := range f.Elems {
		encodeInto(b, e)
	}
}

func encodeMapLike(b *strings.Builder, t byte, f Frame) {
	if f.Null {
		writeLine(b, t, "-1")
		return
	}
	b.WriteByte(t)
	b.WriteString(strconv.Itoa(len(f.Pairs)))
	b.WriteString("\r\n")
	for _, p := range f.Pairs {
		encodeInto(b, p.Key)
		encodeInto(b, p.Value)
	}
}

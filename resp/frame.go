// Package resp implements the wire protocol spoken by keyd: a tagged union of
// fifteen primitive and aggregate frame types, each terminated by CRLF.
package resp

import "fmt"

// Kind identifies which variant a Frame holds.
type Kind byte

const (
	KindSimpleString Kind = iota
	KindError
	KindInteger
	KindBigNumber
	KindDouble
	KindBoolean
	KindNull
	KindBulkString
	KindBulkError
	KindVerbatimString
	KindArray
	KindSet
	KindPush
	KindMap
	KindAttribute
)

func (k Kind) String() string {
	switch k {
	case KindSimpleString:
		return "SimpleString"
	case KindError:
		return "Error"
	case KindInteger:
		return "Integer"
	case KindBigNumber:
		return "BigNumber"
	case KindDouble:
		return "Double"
	case KindBoolean:
		return "Boolean"
	case KindNull:
		return "Null"
	case KindBulkString:
		return "BulkString"
	case KindBulkError:
		return "BulkError"
	case KindVerbatimString:
		return "VerbatimString"
	case KindArray:
		return "Array"
	case KindSet:
		return "Set"
	case KindPush:
		return "Push"
	case KindMap:
		return "Map"
	case KindAttribute:
		return "Attribute"
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// tag maps a Kind to its one-byte wire prefix. Only variants with a fixed
// leading tag are present; KindNull is "_" and handled like the others.
var tag = map[Kind]byte{
	KindSimpleString:   '+',
	KindError:          '-',
	KindInteger:        ':',
	KindBigNumber:      '(',
	KindDouble:         ',',
	KindBoolean:        '#',
	KindNull:           '_',
	KindBulkString:     '$',
	KindBulkError:      '!',
	KindVerbatimString: '=',
	KindArray:          '*',
	KindSet:            '~',
	KindPush:           '>',
	KindMap:            '%',
	KindAttribute:      '|',
}

var kindByTag = func() map[byte]Kind {
	m := make(map[byte]Kind, len(tag))
	for k, t := range tag {
		m[t] = k
	}
	return m
}()

// Pair is one key/value entry of a Map or Attribute frame.
type Pair struct {
	Key   Frame
	Value Frame
}

// Frame is a single parsed or to-be-encoded protocol value. Only the fields
// relevant to Kind are meaningful; the rest are zero.
type Frame struct {
	Kind Kind

	// SimpleString, Error, BigNumber (decimal digits preserved as text).
	Text string

	// Integer.
	Int int64

	// Double.
	Float float64

	// Boolean.
	Bool bool

	// BulkString, BulkError, VerbatimString payload.
	Bulk []byte

	// VerbatimString 3-character subtype tag (e.g. "txt", "mkd").
	Subtype string

	// Null is true for the nullable forms: a BulkString/BulkError/
	// VerbatimString/Array/Set/Push/Map/Attribute encoded with length -1.
	// KindNull itself never sets this; it is already the dedicated null type.
	Null bool

	// Array, Set, Push elements.
	Elems []Frame

	// Map, Attribute entries.
	Pairs []Pair
}

// Constructors. Each returns a fully-formed Frame for its variant.

func SimpleString(s string) Frame { return Frame{Kind: KindSimpleString, Text: s} }
func Error(s string) Frame        { return Frame{Kind: KindError, Text: s} }
func Integer(i int64) Frame       { return Frame{Kind: KindInteger, Int: i} }
func BigNumber(digits string) Frame {
	return Frame{Kind: KindBigNumber, Text: digits}
}
func Double(f float64) Frame  { return Frame{Kind: KindDouble, Float: f} }
func Boolean(b bool) Frame    { return Frame{Kind: KindBoolean, Bool: b} }
func Null() Frame             { return Frame{Kind: KindNull} }

// BulkString returns a bulk string frame. A nil b encodes as the null form.
func BulkString(b []byte) Frame {
	if b == nil {
		return Frame{Kind: KindBulkString, Null: true}
	}
	return Frame{Kind: KindBulkString, Bulk: b}
}

// BulkError returns a bulk error frame. A nil b encodes as the null form.
func BulkError(b []byte) Frame {
	if b == nil {
		return Frame{Kind: KindBulkError, Null: true}
	}
	return Frame{Kind: KindBulkError, Bulk: b}
}

func VerbatimString(subtype string, data []byte) Frame {
	return Frame{Kind: KindVerbatimString, Subtype: subtype, Bulk: data}
}

// Array returns an array frame. A nil elems (as opposed to an empty,
// non-nil slice) encodes as the null form.
func Array(elems []Frame) Frame {
	if elems == nil {
		return Frame{Kind: KindArray, Null: true}
	}
	return Frame{Kind: KindArray, Elems: elems}
}

func Set(elems []Frame) Frame {
	if elems == nil {
		return Frame{Kind: KindSet, Null: true}
	}
	return Frame{Kind: KindSet, Elems: elems}
}

func Push(elems []Frame) Frame {
	if elems == nil {
		return Frame{Kind: KindPush, Null: true}
	}
	return Frame{Kind: KindPush, Elems: elems}
}

func Map(pairs []Pair) Frame {
	if pairs == nil {
		return Frame{Kind: KindMap, Null: true}
	}
	return Frame{Kind: KindMap, Pairs: pairs}
}

func Attribute(pairs []Pair) Frame {
	if pairs == nil {
		return Frame{Kind: KindAttribute, Null: true}
	}
	return Frame{Kind: KindAttribute, Pairs: pairs}
}

// Package store implements the concurrent in-memory keyspace: a mapping from
// binary key to typed Value with optional per-key expiration.
package store

// Kind identifies which variant a Value holds.
type Kind byte

const (
	KindString Kind = iota
	KindInteger
	KindFloat
	KindBoolean
	KindNull
	KindList
	KindSet
	KindSortedSet
	KindHash
	// Opaque container kinds: raw snapshot-encoded payloads passed through
	// unchanged. The server never interprets their contents; see rdb.Load.
	KindZipmap
	KindZiplist
	KindIntset
	KindQuicklist
)

// ScoredMember is one (member, score) entry of a SortedSet value.
type ScoredMember struct {
	Member []byte
	Score  float64
}

// Value is the typed value stored against a key.
type Value struct {
	Kind Kind

	Str   []byte
	Int   int64
	Float float64
	Bool  bool

	List      [][]byte
	Set       [][]byte
	SortedSet []ScoredMember
	Hash      map[string][]byte

	// Opaque holds the raw payload for Zipmap/Ziplist/Intset/Quicklist
	// values: snapshot-encoded bytes the server stores and re-emits
	// verbatim without ever decoding their internal structure.
	Opaque []byte
	// OpaqueOpcode is the literal snapshot value-type opcode the payload was
	// loaded under (e.g. a ziplist-packed hash and a ziplist-packed sorted
	// set share Kind == KindZiplist but must round-trip under different
	// opcodes). Meaningful only when Kind is one of the opaque kinds.
	OpaqueOpcode byte
}

// StringValue returns a String value.
func StringValue(b []byte) Value { return Value{Kind: KindString, Str: b} }

// IntegerValue returns an Integer value.
func IntegerValue(i int64) Value { return Value{Kind: KindInteger, Int: i} }

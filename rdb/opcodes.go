// Package rdb implements the binary on-disk snapshot format: a
// length-prefixed, CRC64-checksummed stream of opcodes describing the
// keyspace, compatible with a widely deployed RDB version 11 layout.
package rdb

const (
	magic   = "REDIS"
	version = "0011"
)

// Record opcodes.
const (
	opAux       byte = 0xFA
	opResizeDB  byte = 0xFB
	opSelectDB  byte = 0xFE
	opExpireSec byte = 0xFD
	opExpireMs  byte = 0xFC
	opEOF       byte = 0xFF
)

// Value-type opcodes. Each begins a record whose payload is a
// length-prefixed key followed by the type-specific body in §4.4.
const (
	valString          byte = 0x00
	valList            byte = 0x01
	valSet             byte = 0x02
	valSortedSetZip    byte = 0x03 // ziplist-packed
	valHashZipmap      byte = 0x04 // zipmap-packed
	valHashZip         byte = 0x09 // ziplist-packed
	valListZip         byte = 0x0A // ziplist-packed
	valSetIntset       byte = 0x0B // intset-packed
	valSortedSetIntset byte = 0x0C // intset-packed
	valListQuicklist   byte = 0x0D // quicklist-packed
)

// Special string-length encoding subtypes (top 2 bits "11").
const (
	specialInt8  byte = 0
	specialInt16 byte = 1
	specialInt32 byte = 2
	specialLZF   byte = 3
)

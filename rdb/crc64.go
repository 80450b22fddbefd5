package rdb

import "hash/crc64"

// jonesPoly is the reflected form of the Jones CRC-64 polynomial used by
// the snapshot trailer checksum.
const jonesPoly = 0x95AC9329AC4BC9B5

var jonesTable = crc64.MakeTable(jonesPoly)

// checksum computes CRC-64/Jones with a zero initial value and no final
// XOR. crc64.Update inverts the register on entry and exit, so passing
// ^0 in and inverting the result cancels both inversions.
func checksum(data []byte) uint64 {
	return ^crc64.Update(^uint64(0), jonesTable, data)
}

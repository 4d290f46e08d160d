package bin

import "encoding/binary"

func PutU16BE(dst []byte, v uint16) { binary.BigEndian.PutUint16(dst, v) }
func PutU32BE(dst []byte, v uint32) { binary.BigEndian.PutUint32(dst, v) }
func PutU64BE(dst []byte, v uint64) { binary.BigEndian.PutUint64(dst, v) }
func U16BE(src []byte) uint16       { return binary.BigEndian.Uint16(src) }
func U32BE(src []byte) uint32       { return binary.BigEndian.Uint32(src) }
func U64BE(src []byte) uint64       { return binary.BigEndian.Uint64(src) }

// Message stream IDs are the one little-endian field in the chunk format.
func PutU32LE(dst []byte, v uint32) { binary.LittleEndian.PutUint32(dst, v) }
func U32LE(src []byte) uint32       { return binary.LittleEndian.Uint32(src) }

// PutU24BE writes the low 24 bits of v. Range validation is the caller's job.
func PutU24BE(dst []byte, v uint32) {
	dst[0] = byte(v >> 16)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v)
}

func U24BE(src []byte) uint32 {
	return uint32(src[0])<<16 | uint32(src[1])<<8 | uint32(src[2])
}

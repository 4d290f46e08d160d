package chunk

import (
	"errors"
	"fmt"
	"io"
)

// HeaderType is the 2-bit fmt field of the basic header. It selects which
// message header follows and how much of the previous header the chunk
// inherits.
type HeaderType uint8

const (
	// TypeNewStream is an 11-byte header carrying every field. Required at
	// the start of a chunk stream and whenever the timestamp goes backward.
	TypeNewStream HeaderType = iota
	// TypeNewMessage is a 7-byte header; the message stream ID is inherited.
	TypeNewMessage
	// TypeSameLength is a 3-byte header carrying only a timestamp delta;
	// length, type and stream ID are inherited.
	TypeSameLength
	// TypeContinuation has no message header at all; everything is
	// inherited from the previous chunk on the same chunk stream.
	TypeContinuation
)

// Chunk stream ID bounds. IDs 0 and 1 are reserved for the 2- and 3-byte
// basic header forms; 2 is the protocol control stream.
const (
	MinChunkStreamID        = 2
	MaxChunkStreamID        = 65599
	ProtocolControlStreamID = 2
)

var (
	ErrReservedChunkStreamID = errors.New("chunk: chunk stream IDs 0 and 1 are reserved")
	ErrChunkStreamIDTooBig   = errors.New("chunk: chunk stream ID exceeds 65599")
)

func validateChunkStreamID(csid uint32) error {
	switch {
	case csid < MinChunkStreamID:
		return ErrReservedChunkStreamID
	case csid > MaxChunkStreamID:
		return ErrChunkStreamIDTooBig
	default:
		return nil
	}
}

// basicHeaderSize returns the encoded size of the basic header for csid.
func basicHeaderSize(csid uint32) int {
	switch {
	case csid <= 63:
		return 1
	case csid <= 319:
		return 2
	default:
		return 3
	}
}

// appendBasicHeader encodes fmt + chunk stream ID in the shortest form:
// csid 2-63 in one byte, 64-319 in two (csid-64 in the second byte), and
// 320-65599 in three (csid-64 as a big-endian u16).
func appendBasicHeader(dst []byte, t HeaderType, csid uint32) ([]byte, error) {
	if err := validateChunkStreamID(csid); err != nil {
		return nil, err
	}
	fmtBits := byte(t) << 6
	switch {
	case csid <= 63:
		return append(dst, fmtBits|byte(csid)), nil
	case csid <= 319:
		return append(dst, fmtBits|0, byte(csid-64)), nil
	default:
		v := csid - 64
		return append(dst, fmtBits|1, byte(v>>8), byte(v)), nil
	}
}

// readBasicHeader decodes fmt + chunk stream ID from the stream.
func readBasicHeader(r io.Reader) (HeaderType, uint32, error) {
	var first [1]byte
	if _, err := io.ReadFull(r, first[:]); err != nil {
		return 0, 0, err
	}
	t := HeaderType(first[0] >> 6)
	switch sel := uint32(first[0] & 0x3F); sel {
	case 0:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, 0, fmt.Errorf("chunk: short basic header: %w", err)
		}
		return t, uint32(b[0]) + 64, nil
	case 1:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, 0, fmt.Errorf("chunk: short basic header: %w", err)
		}
		return t, (uint32(b[0])<<8 | uint32(b[1])) + 64, nil
	default:
		return t, sel, nil
	}
}

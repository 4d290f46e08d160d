// Package message implements the message layer carried inside chunks: the
// 11-byte message header, the protocol control messages that drive the chunk
// layer itself, and user control events.
package message

import (
	"errors"
	"fmt"

	"github.com/streamforge/rtmpwire/internal/bin"
)

// Message type IDs.
const (
	TypeSetChunkSize     uint8 = 1
	TypeAbort            uint8 = 2
	TypeAcknowledgement  uint8 = 3
	TypeUserControl      uint8 = 4
	TypeWindowAckSize    uint8 = 5
	TypeSetPeerBandwidth uint8 = 6
	TypeAudio            uint8 = 8
	TypeVideo            uint8 = 9
	TypeDataAMF3         uint8 = 15
	TypeDataAMF0         uint8 = 18
	TypeSharedObjectAMF3 uint8 = 16
	TypeSharedObjectAMF0 uint8 = 19
	TypeCommandAMF3      uint8 = 17
	TypeCommandAMF0      uint8 = 20
	TypeAggregate        uint8 = 22
)

// HeaderLen is the encoded size of a message header.
const HeaderLen = 11

const maxU24 = 0xFFFFFF

var (
	ErrPayloadTooLong = errors.New("message: payload longer than 0xFFFFFF bytes")
	ErrStreamIDTooBig = errors.New("message: stream ID exceeds 0xFFFFFF")
	ErrShortHeader    = errors.New("message: short header")
	ErrBadPayloadLen  = errors.New("message: payload length does not match message type")
	ErrReservedBitSet = errors.New("message: reserved bit set in Set Chunk Size")
	ErrChunkSizeZero  = errors.New("message: chunk size must be at least 1")
	ErrUnknownControl = errors.New("message: unknown protocol control type")
	ErrUnknownEvent   = errors.New("message: unknown user control event type")
	ErrUnknownLimit   = errors.New("message: unknown bandwidth limit type")
)

// Header is the metadata preceding a message payload: type ID, 24-bit
// payload length, 32-bit timestamp and 24-bit message stream ID, all
// big-endian.
type Header struct {
	TypeID        uint8
	PayloadLength uint32
	Timestamp     uint32
	StreamID      uint32
}

func (h Header) Append(dst []byte) ([]byte, error) {
	if h.PayloadLength > maxU24 {
		return nil, ErrPayloadTooLong
	}
	if h.StreamID > maxU24 {
		return nil, ErrStreamIDTooBig
	}
	var b [HeaderLen]byte
	b[0] = h.TypeID
	bin.PutU24BE(b[1:4], h.PayloadLength)
	bin.PutU32BE(b[4:8], h.Timestamp)
	bin.PutU24BE(b[8:11], h.StreamID)
	return append(dst, b[:]...), nil
}

func DecodeHeader(src []byte) (Header, error) {
	if len(src) < HeaderLen {
		return Header{}, ErrShortHeader
	}
	return Header{
		TypeID:        src[0],
		PayloadLength: bin.U24BE(src[1:4]),
		Timestamp:     bin.U32BE(src[4:8]),
		StreamID:      bin.U24BE(src[8:11]),
	}, nil
}

func (h Header) String() string {
	return fmt.Sprintf("message(type=%d len=%d ts=%d stream=%d)", h.TypeID, h.PayloadLength, h.Timestamp, h.StreamID)
}

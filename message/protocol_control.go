package message

import "github.com/streamforge/rtmpwire/internal/bin"

// Control is a protocol control message. These are sent on chunk stream 2
// with message stream ID 0 and take effect as soon as they are received.
type Control interface {
	TypeID() uint8
	appendPayload(dst []byte) []byte
}

// SetChunkSize announces a new maximum chunk size for the sending direction.
// The value is 31 bits; the top bit of the payload is reserved and must be
// zero. The maximum SHOULD be at least 128 bytes and MUST be at least 1.
type SetChunkSize struct {
	ChunkSize uint32
}

func (SetChunkSize) TypeID() uint8 { return TypeSetChunkSize }

func (m SetChunkSize) appendPayload(dst []byte) []byte {
	var b [4]byte
	bin.PutU32BE(b[:], m.ChunkSize&0x7FFFFFFF)
	return append(dst, b[:]...)
}

// Abort tells the peer to discard a partially received message on the given
// chunk stream.
type Abort struct {
	ChunkStreamID uint32
}

func (Abort) TypeID() uint8 { return TypeAbort }

func (m Abort) appendPayload(dst []byte) []byte {
	var b [4]byte
	bin.PutU32BE(b[:], m.ChunkStreamID)
	return append(dst, b[:]...)
}

// Acknowledgement reports the total bytes received so far. One must be sent
// every time a window's worth of bytes arrives.
type Acknowledgement struct {
	SequenceNumber uint32
}

func (Acknowledgement) TypeID() uint8 { return TypeAcknowledgement }

func (m Acknowledgement) appendPayload(dst []byte) []byte {
	var b [4]byte
	bin.PutU32BE(b[:], m.SequenceNumber)
	return append(dst, b[:]...)
}

// WindowAckSize tells the peer how many bytes may be sent between
// acknowledgements.
type WindowAckSize struct {
	WindowSize uint32
}

func (WindowAckSize) TypeID() uint8 { return TypeWindowAckSize }

func (m WindowAckSize) appendPayload(dst []byte) []byte {
	var b [4]byte
	bin.PutU32BE(b[:], m.WindowSize)
	return append(dst, b[:]...)
}

// LimitType qualifies a SetPeerBandwidth request.
type LimitType uint8

const (
	// LimitHard: limit output to the indicated window.
	LimitHard LimitType = 0
	// LimitSoft: limit output to this window or the one already in effect,
	// whichever is smaller.
	LimitSoft LimitType = 1
	// LimitDynamic: treat as Hard if the previous limit was Hard, otherwise
	// ignore.
	LimitDynamic LimitType = 2
)

// SetPeerBandwidth asks the peer to cap its output bandwidth.
type SetPeerBandwidth struct {
	WindowSize uint32
	Limit      LimitType
}

func (SetPeerBandwidth) TypeID() uint8 { return TypeSetPeerBandwidth }

func (m SetPeerBandwidth) appendPayload(dst []byte) []byte {
	var b [4]byte
	bin.PutU32BE(b[:], m.WindowSize)
	return append(append(dst, b[:]...), byte(m.Limit))
}

// EncodeControl encodes a control message payload.
func EncodeControl(c Control) []byte {
	return c.appendPayload(nil)
}

// DecodeControl decodes the payload of a protocol control message with the
// given message type ID, validating payload length and reserved bits.
func DecodeControl(typeID uint8, payload []byte) (Control, error) {
	switch typeID {
	case TypeSetChunkSize:
		if len(payload) != 4 {
			return nil, ErrBadPayloadLen
		}
		v := bin.U32BE(payload)
		if v&0x80000000 != 0 {
			return nil, ErrReservedBitSet
		}
		if v == 0 {
			return nil, ErrChunkSizeZero
		}
		return SetChunkSize{ChunkSize: v}, nil
	case TypeAbort:
		if len(payload) != 4 {
			return nil, ErrBadPayloadLen
		}
		return Abort{ChunkStreamID: bin.U32BE(payload)}, nil
	case TypeAcknowledgement:
		if len(payload) != 4 {
			return nil, ErrBadPayloadLen
		}
		return Acknowledgement{SequenceNumber: bin.U32BE(payload)}, nil
	case TypeWindowAckSize:
		if len(payload) != 4 {
			return nil, ErrBadPayloadLen
		}
		return WindowAckSize{WindowSize: bin.U32BE(payload)}, nil
	case TypeSetPeerBandwidth:
		if len(payload) != 5 {
			return nil, ErrBadPayloadLen
		}
		limit := LimitType(payload[4])
		if limit > LimitDynamic {
			return nil, ErrUnknownLimit
		}
		return SetPeerBandwidth{WindowSize: bin.U32BE(payload[:4]), Limit: limit}, nil
	default:
		return nil, ErrUnknownControl
	}
}

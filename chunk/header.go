// Package chunk implements the chunk header wire format of the stream
// multiplexing layer that runs over a handshaken session.
//
// A chunk header is a 1-3 byte basic header (fmt + chunk stream ID), a
// 0/3/7/11-byte message header selected by fmt, and an optional 4-byte
// extended timestamp. Compressed header types inherit fields from the
// previous chunk on the same chunk stream, so decoding is stateful per
// chunk stream ID.
package chunk

import (
	"errors"
	"fmt"
	"io"

	"github.com/streamforge/rtmpwire/internal/bin"
)

// extendedMarker in a 24-bit timestamp field signals that the real value
// follows as a full u32.
const extendedMarker = 0xFFFFFF

// DefaultMaxChunkSize is the chunk payload limit until a Set Chunk Size
// control message changes it.
const DefaultMaxChunkSize = 128

var (
	ErrMessageTooLong = errors.New("chunk: message longer than 0xFFFFFF bytes")
	ErrNoPriorChunk   = errors.New("chunk: compressed header with no prior chunk on this chunk stream")
)

// Header is one chunk's header with inherited fields already resolved where
// decoding state allows. Which fields were actually on the wire depends on
// Type:
//
//	TypeNewStream     Timestamp (absolute), MessageLength, MessageTypeID,
//	                  MessageStreamID
//	TypeNewMessage    Timestamp (delta), MessageLength, MessageTypeID
//	TypeSameLength    Timestamp (delta)
//	TypeContinuation  nothing
type Header struct {
	Type          HeaderType
	ChunkStreamID uint32

	// Timestamp is the full 32-bit timestamp or delta; encoding inserts the
	// 0xFFFFFF marker and extended field as needed.
	Timestamp       uint32
	MessageLength   uint32
	MessageTypeID   uint8
	MessageStreamID uint32
}

// BeginStream builds a full header for a new chunk stream, or to rewind an
// existing one after a backward seek.
func BeginStream(csid, timestamp, messageLength uint32, messageTypeID uint8, messageStreamID uint32) (Header, error) {
	if err := validateChunkStreamID(csid); err != nil {
		return Header{}, err
	}
	if messageLength > extendedMarker {
		return Header{}, ErrMessageTooLong
	}
	return Header{
		Type:            TypeNewStream,
		ChunkStreamID:   csid,
		Timestamp:       timestamp,
		MessageLength:   messageLength,
		MessageTypeID:   messageTypeID,
		MessageStreamID: messageStreamID,
	}, nil
}

// BeginMessage builds a 7-byte header for a new message on an existing chunk
// stream where lengths or types vary between messages.
func BeginMessage(csid, timestampDelta, messageLength uint32, messageTypeID uint8) (Header, error) {
	if err := validateChunkStreamID(csid); err != nil {
		return Header{}, err
	}
	if messageLength > extendedMarker {
		return Header{}, ErrMessageTooLong
	}
	return Header{
		Type:          TypeNewMessage,
		ChunkStreamID: csid,
		Timestamp:     timestampDelta,
		MessageLength: messageLength,
		MessageTypeID: messageTypeID,
	}, nil
}

// BeginFixedMessage builds a 3-byte header for a new message in a stream of
// constant-length messages.
func BeginFixedMessage(csid, timestampDelta uint32) (Header, error) {
	if err := validateChunkStreamID(csid); err != nil {
		return Header{}, err
	}
	return Header{
		Type:          TypeSameLength,
		ChunkStreamID: csid,
		Timestamp:     timestampDelta,
	}, nil
}

// Continue builds a header-less continuation chunk for an in-progress
// message.
func Continue(csid uint32) (Header, error) {
	if err := validateChunkStreamID(csid); err != nil {
		return Header{}, err
	}
	return Header{Type: TypeContinuation, ChunkStreamID: csid}, nil
}

func (h Header) hasExtendedTimestamp() bool {
	return h.Type != TypeContinuation && h.Timestamp >= extendedMarker
}

// Size returns the encoded header size in bytes.
func (h Header) Size() int {
	n := basicHeaderSize(h.ChunkStreamID)
	switch h.Type {
	case TypeNewStream:
		n += 11
	case TypeNewMessage:
		n += 7
	case TypeSameLength:
		n += 3
	}
	if h.hasExtendedTimestamp() {
		n += 4
	}
	return n
}

// Append encodes the header onto dst.
func (h Header) Append(dst []byte) ([]byte, error) {
	if h.Type > TypeContinuation {
		return nil, fmt.Errorf("chunk: invalid header type %d", h.Type)
	}
	if h.MessageLength > extendedMarker {
		return nil, ErrMessageTooLong
	}
	out, err := appendBasicHeader(dst, h.Type, h.ChunkStreamID)
	if err != nil {
		return nil, err
	}

	ts := h.Timestamp
	extended := h.hasExtendedTimestamp()
	if extended {
		ts = extendedMarker
	}

	var fld [4]byte
	switch h.Type {
	case TypeNewStream:
		bin.PutU24BE(fld[:3], ts)
		out = append(out, fld[:3]...)
		bin.PutU24BE(fld[:3], h.MessageLength)
		out = append(out, fld[:3]...)
		out = append(out, h.MessageTypeID)
		bin.PutU32LE(fld[:], h.MessageStreamID)
		out = append(out, fld[:]...)
	case TypeNewMessage:
		bin.PutU24BE(fld[:3], ts)
		out = append(out, fld[:3]...)
		bin.PutU24BE(fld[:3], h.MessageLength)
		out = append(out, fld[:3]...)
		out = append(out, h.MessageTypeID)
	case TypeSameLength:
		bin.PutU24BE(fld[:3], ts)
		out = append(out, fld[:3]...)
	}
	if extended {
		bin.PutU32BE(fld[:], h.Timestamp)
		out = append(out, fld[:]...)
	}
	return out, nil
}

// ReadHeader decodes the next chunk header from r, resolving inherited
// fields against states and updating them for subsequent chunks.
func ReadHeader(r io.Reader, states *StreamStates) (Header, error) {
	t, csid, err := readBasicHeader(r)
	if err != nil {
		return Header{}, err
	}
	h := Header{Type: t, ChunkStreamID: csid}

	st, known := states.Lookup(csid)
	if t != TypeNewStream && !known {
		return Header{}, ErrNoPriorChunk
	}

	var buf [11]byte
	switch t {
	case TypeNewStream:
		if _, err := io.ReadFull(r, buf[:11]); err != nil {
			return Header{}, fmt.Errorf("chunk: short message header: %w", err)
		}
		h.Timestamp = bin.U24BE(buf[0:3])
		h.MessageLength = bin.U24BE(buf[3:6])
		h.MessageTypeID = buf[6]
		h.MessageStreamID = bin.U32LE(buf[7:11])
	case TypeNewMessage:
		if _, err := io.ReadFull(r, buf[:7]); err != nil {
			return Header{}, fmt.Errorf("chunk: short message header: %w", err)
		}
		h.Timestamp = bin.U24BE(buf[0:3])
		h.MessageLength = bin.U24BE(buf[3:6])
		h.MessageTypeID = buf[6]
		h.MessageStreamID = st.MessageStreamID
	case TypeSameLength:
		if _, err := io.ReadFull(r, buf[:3]); err != nil {
			return Header{}, fmt.Errorf("chunk: short message header: %w", err)
		}
		h.Timestamp = bin.U24BE(buf[0:3])
		h.MessageLength = st.MessageLength
		h.MessageTypeID = st.MessageTypeID
		h.MessageStreamID = st.MessageStreamID
	case TypeContinuation:
		// Repeats the previous timestamp or delta; an extended timestamp
		// field is present exactly when the previous one needed it.
		h.Timestamp = st.LastTimestamp
		h.MessageLength = st.MessageLength
		h.MessageTypeID = st.MessageTypeID
		h.MessageStreamID = st.MessageStreamID
	}

	if t == TypeContinuation {
		if st.LastTimestamp >= extendedMarker {
			if _, err := io.ReadFull(r, buf[:4]); err != nil {
				return Header{}, fmt.Errorf("chunk: short extended timestamp: %w", err)
			}
			h.Timestamp = bin.U32BE(buf[:4])
		}
	} else if h.Timestamp == extendedMarker {
		if _, err := io.ReadFull(r, buf[:4]); err != nil {
			return Header{}, fmt.Errorf("chunk: short extended timestamp: %w", err)
		}
		h.Timestamp = bin.U32BE(buf[:4])
	}

	states.update(h)
	return h, nil
}

package message

import "github.com/streamforge/rtmpwire/internal/bin"

// User control events (message type 4): a 16-bit event type followed by
// event data. Sent on the control stream; timestamps are ignored.

type EventType uint16

const (
	EventStreamBegin      EventType = 0
	EventStreamEOF        EventType = 1
	EventStreamDry        EventType = 2
	EventSetBufferLength  EventType = 3
	EventStreamIsRecorded EventType = 4
	EventPingRequest      EventType = 6
	EventPingResponse     EventType = 7
)

// Event is a user control event.
type Event interface {
	EventType() EventType
	appendData(dst []byte) []byte
}

// StreamBegin notifies the client that a stream has become functional.
type StreamBegin struct{ StreamID uint32 }

// StreamEOF notifies the client that playback on a stream has ended.
type StreamEOF struct{ StreamID uint32 }

// StreamDry notifies the client that there is no more data on the stream.
type StreamDry struct{ StreamID uint32 }

// SetBufferLength informs the server of the client's buffer size for a
// stream, in milliseconds.
type SetBufferLength struct {
	StreamID     uint32
	BufferLength uint32
}

// StreamIsRecorded marks the stream as a recorded stream.
type StreamIsRecorded struct{ StreamID uint32 }

// PingRequest carries the server's local time; the client answers with a
// PingResponse echoing it.
type PingRequest struct{ Timestamp uint32 }

// PingResponse echoes the timestamp of a PingRequest.
type PingResponse struct{ Timestamp uint32 }

func (StreamBegin) EventType() EventType      { return EventStreamBegin }
func (StreamEOF) EventType() EventType        { return EventStreamEOF }
func (StreamDry) EventType() EventType        { return EventStreamDry }
func (SetBufferLength) EventType() EventType  { return EventSetBufferLength }
func (StreamIsRecorded) EventType() EventType { return EventStreamIsRecorded }
func (PingRequest) EventType() EventType      { return EventPingRequest }
func (PingResponse) EventType() EventType     { return EventPingResponse }

func appendU32(dst []byte, v uint32) []byte {
	var b [4]byte
	bin.PutU32BE(b[:], v)
	return append(dst, b[:]...)
}

func (e StreamBegin) appendData(dst []byte) []byte      { return appendU32(dst, e.StreamID) }
func (e StreamEOF) appendData(dst []byte) []byte        { return appendU32(dst, e.StreamID) }
func (e StreamDry) appendData(dst []byte) []byte        { return appendU32(dst, e.StreamID) }
func (e StreamIsRecorded) appendData(dst []byte) []byte { return appendU32(dst, e.StreamID) }
func (e PingRequest) appendData(dst []byte) []byte      { return appendU32(dst, e.Timestamp) }
func (e PingResponse) appendData(dst []byte) []byte     { return appendU32(dst, e.Timestamp) }

func (e SetBufferLength) appendData(dst []byte) []byte {
	return appendU32(appendU32(dst, e.StreamID), e.BufferLength)
}

// EncodeEvent encodes a user control event payload, including the leading
// event type.
func EncodeEvent(e Event) []byte {
	var b [2]byte
	bin.PutU16BE(b[:], uint16(e.EventType()))
	return e.appendData(b[:])
}

// DecodeEvent decodes a user control message payload.
func DecodeEvent(payload []byte) (Event, error) {
	if len(payload) < 2 {
		return nil, ErrBadPayloadLen
	}
	et := EventType(bin.U16BE(payload[:2]))
	data := payload[2:]

	needU32 := func() (uint32, error) {
		if len(data) != 4 {
			return 0, ErrBadPayloadLen
		}
		return bin.U32BE(data), nil
	}

	switch et {
	case EventStreamBegin:
		v, err := needU32()
		if err != nil {
			return nil, err
		}
		return StreamBegin{StreamID: v}, nil
	case EventStreamEOF:
		v, err := needU32()
		if err != nil {
			return nil, err
		}
		return StreamEOF{StreamID: v}, nil
	case EventStreamDry:
		v, err := needU32()
		if err != nil {
			return nil, err
		}
		return StreamDry{StreamID: v}, nil
	case EventSetBufferLength:
		if len(data) != 8 {
			return nil, ErrBadPayloadLen
		}
		return SetBufferLength{
			StreamID:     bin.U32BE(data[:4]),
			BufferLength: bin.U32BE(data[4:8]),
		}, nil
	case EventStreamIsRecorded:
		v, err := needU32()
		if err != nil {
			return nil, err
		}
		return StreamIsRecorded{StreamID: v}, nil
	case EventPingRequest:
		v, err := needU32()
		if err != nil {
			return nil, err
		}
		return PingRequest{Timestamp: v}, nil
	case EventPingResponse:
		v, err := needU32()
		if err != nil {
			return nil, err
		}
		return PingResponse{Timestamp: v}, nil
	default:
		return nil, ErrUnknownEvent
	}
}

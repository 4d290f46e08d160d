package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRoundTrip(t *testing.T) {
	cases := []Event{
		StreamBegin{StreamID: 0},
		StreamEOF{StreamID: 1},
		StreamDry{StreamID: 2},
		SetBufferLength{StreamID: 1, BufferLength: 3000},
		StreamIsRecorded{StreamID: 1},
		PingRequest{Timestamp: 0xCAFEBABE},
		PingResponse{Timestamp: 0xCAFEBABE},
	}
	for _, e := range cases {
		payload := EncodeEvent(e)
		got, err := DecodeEvent(payload)
		require.NoError(t, err, "event %d", e.EventType())
		assert.Equal(t, e, got)
	}
}

func TestStreamBeginWire(t *testing.T) {
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x05}, EncodeEvent(StreamBegin{StreamID: 5}))
}

func TestSetBufferLengthWire(t *testing.T) {
	assert.Equal(t,
		[]byte{0x00, 0x03, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x0B, 0xB8},
		EncodeEvent(SetBufferLength{StreamID: 1, BufferLength: 3000}))
}

func TestDecodeEventValidation(t *testing.T) {
	_, err := DecodeEvent([]byte{0x00})
	assert.ErrorIs(t, err, ErrBadPayloadLen)

	_, err = DecodeEvent([]byte{0x00, 0x00, 0x00, 0x00, 0x00})
	assert.ErrorIs(t, err, ErrBadPayloadLen)

	_, err = DecodeEvent([]byte{0x00, 0x03, 0x00, 0x00, 0x00, 0x01})
	assert.ErrorIs(t, err, ErrBadPayloadLen)

	_, err = DecodeEvent([]byte{0x00, 0x05, 0x00, 0x00, 0x00, 0x01})
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderEncoding(t *testing.T) {
	h := Header{TypeID: TypeAudio, PayloadLength: 0x000102, Timestamp: 0x0A0B0C0D, StreamID: 0x030201}
	wire, err := h.Append(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		8,                // type
		0x00, 0x01, 0x02, // payload length
		0x0A, 0x0B, 0x0C, 0x0D, // timestamp
		0x03, 0x02, 0x01, // stream id
	}, wire)

	got, err := DecodeHeader(wire)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestHeaderValidation(t *testing.T) {
	_, err := Header{PayloadLength: 1 << 24}.Append(nil)
	assert.ErrorIs(t, err, ErrPayloadTooLong)

	_, err = Header{StreamID: 1 << 24}.Append(nil)
	assert.ErrorIs(t, err, ErrStreamIDTooBig)

	_, err = DecodeHeader(make([]byte, HeaderLen-1))
	assert.ErrorIs(t, err, ErrShortHeader)
}

package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControlRoundTrip(t *testing.T) {
	cases := []Control{
		SetChunkSize{ChunkSize: 4096},
		Abort{ChunkStreamID: 7},
		Acknowledgement{SequenceNumber: 123456},
		WindowAckSize{WindowSize: 2500000},
		SetPeerBandwidth{WindowSize: 2500000, Limit: LimitSoft},
	}
	for _, c := range cases {
		payload := EncodeControl(c)
		got, err := DecodeControl(c.TypeID(), payload)
		require.NoError(t, err, "type %d", c.TypeID())
		assert.Equal(t, c, got)
	}
}

func TestSetChunkSizeWire(t *testing.T) {
	assert.Equal(t, []byte{0x00, 0x00, 0x10, 0x00}, EncodeControl(SetChunkSize{ChunkSize: 4096}))
	// Encoding masks the reserved top bit.
	assert.Equal(t, []byte{0x7F, 0xFF, 0xFF, 0xFF}, EncodeControl(SetChunkSize{ChunkSize: 0xFFFFFFFF}))
}

func TestDecodeControlValidation(t *testing.T) {
	_, err := DecodeControl(TypeSetChunkSize, []byte{0x80, 0x00, 0x00, 0x01})
	assert.ErrorIs(t, err, ErrReservedBitSet)

	_, err = DecodeControl(TypeSetChunkSize, []byte{0x00, 0x00, 0x00, 0x00})
	assert.ErrorIs(t, err, ErrChunkSizeZero)

	_, err = DecodeControl(TypeSetChunkSize, []byte{0x00, 0x00, 0x01})
	assert.ErrorIs(t, err, ErrBadPayloadLen)

	_, err = DecodeControl(TypeSetPeerBandwidth, []byte{0x00, 0x00, 0x00, 0x01, 0x03})
	assert.ErrorIs(t, err, ErrUnknownLimit)

	_, err = DecodeControl(TypeSetPeerBandwidth, []byte{0x00, 0x00, 0x00, 0x01})
	assert.ErrorIs(t, err, ErrBadPayloadLen)

	_, err = DecodeControl(TypeAudio, nil)
	assert.ErrorIs(t, err, ErrUnknownControl)
}

func TestSetPeerBandwidthWire(t *testing.T) {
	payload := EncodeControl(SetPeerBandwidth{WindowSize: 0x002625A0, Limit: LimitDynamic})
	assert.Equal(t, []byte{0x00, 0x26, 0x25, 0xA0, 0x02}, payload)
}

package chunk

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicHeaderEncoding(t *testing.T) {
	cases := []struct {
		name string
		typ  HeaderType
		csid uint32
		want []byte
	}{
		{"one byte min", TypeNewStream, 2, []byte{0x02}},
		{"one byte max", TypeContinuation, 63, []byte{0xFF}},
		{"two bytes min", TypeNewStream, 64, []byte{0x00, 0x00}},
		{"two bytes max", TypeContinuation, 319, []byte{0xC0, 0xFF}},
		{"three bytes min", TypeNewStream, 320, []byte{0x01, 0x01, 0x00}},
		{"three bytes max", TypeNewStream, 65599, []byte{0x01, 0xFF, 0xFF}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := appendBasicHeader(nil, c.typ, c.csid)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)

			typ, csid, err := readBasicHeader(bytes.NewReader(got))
			require.NoError(t, err)
			assert.Equal(t, c.typ, typ)
			assert.Equal(t, c.csid, csid)
		})
	}
}

func TestBasicHeaderRejectsBadChunkStreamIDs(t *testing.T) {
	for _, csid := range []uint32{0, 1} {
		_, err := appendBasicHeader(nil, TypeNewStream, csid)
		assert.ErrorIs(t, err, ErrReservedChunkStreamID, "csid %d", csid)
	}
	for _, csid := range []uint32{65600, 1 << 31} {
		_, err := appendBasicHeader(nil, TypeNewStream, csid)
		assert.ErrorIs(t, err, ErrChunkStreamIDTooBig, "csid %d", csid)
	}
}

func TestHeaderRoundTripAllTypes(t *testing.T) {
	full, err := BeginStream(3, 1000, 307, 8, 12345)
	require.NoError(t, err)
	newMsg, err := BeginMessage(3, 40, 128, 9)
	require.NoError(t, err)
	sameLen, err := BeginFixedMessage(3, 40)
	require.NoError(t, err)
	cont, err := Continue(3)
	require.NoError(t, err)

	var wire []byte
	for _, h := range []Header{full, newMsg, sameLen, cont} {
		var err error
		wire, err = h.Append(wire)
		require.NoError(t, err)
	}

	r := bytes.NewReader(wire)
	states := NewStreamStates()

	got, err := ReadHeader(r, states)
	require.NoError(t, err)
	assert.Equal(t, full, got)

	got, err = ReadHeader(r, states)
	require.NoError(t, err)
	assert.Equal(t, TypeNewMessage, got.Type)
	assert.Equal(t, uint32(40), got.Timestamp)
	assert.Equal(t, uint32(128), got.MessageLength)
	assert.Equal(t, uint8(9), got.MessageTypeID)
	// Inherited from the full header.
	assert.Equal(t, uint32(12345), got.MessageStreamID)

	got, err = ReadHeader(r, states)
	require.NoError(t, err)
	assert.Equal(t, TypeSameLength, got.Type)
	assert.Equal(t, uint32(40), got.Timestamp)
	assert.Equal(t, uint32(128), got.MessageLength)
	assert.Equal(t, uint8(9), got.MessageTypeID)
	assert.Equal(t, uint32(12345), got.MessageStreamID)

	got, err = ReadHeader(r, states)
	require.NoError(t, err)
	assert.Equal(t, TypeContinuation, got.Type)
	assert.Equal(t, uint32(40), got.Timestamp)
	assert.Equal(t, uint32(128), got.MessageLength)

	assert.Zero(t, r.Len(), "trailing bytes after decoding all headers")
}

func TestHeaderExtendedTimestamp(t *testing.T) {
	const bigTS = 0x01000000

	full, err := BeginStream(4, bigTS, 10, 8, 1)
	require.NoError(t, err)
	assert.Equal(t, 1+11+4, full.Size())

	wire, err := full.Append(nil)
	require.NoError(t, err)
	assert.Len(t, wire, full.Size())
	// The 24-bit field holds the marker, the real value follows.
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF}, wire[1:4])

	cont, err := Continue(4)
	require.NoError(t, err)
	wire, err = cont.Append(wire)
	require.NoError(t, err)
	// A continuation after an extended timestamp re-sends the extended
	// field on the wire.
	wire = append(wire, 0x01, 0x00, 0x00, 0x00)

	r := bytes.NewReader(wire)
	states := NewStreamStates()

	got, err := ReadHeader(r, states)
	require.NoError(t, err)
	assert.Equal(t, uint32(bigTS), got.Timestamp)

	got, err = ReadHeader(r, states)
	require.NoError(t, err)
	assert.Equal(t, TypeContinuation, got.Type)
	assert.Equal(t, uint32(bigTS), got.Timestamp)
	assert.Zero(t, r.Len())
}

func TestHeaderSizeMatchesEncoding(t *testing.T) {
	headers := []Header{}
	h, err := BeginStream(65599, 5, 5, 20, 9)
	require.NoError(t, err)
	headers = append(headers, h)
	h, err = BeginMessage(64, 1, 2, 18)
	require.NoError(t, err)
	headers = append(headers, h)
	h, err = BeginFixedMessage(2, extendedMarker+5)
	require.NoError(t, err)
	headers = append(headers, h)
	h, err = Continue(2)
	require.NoError(t, err)
	headers = append(headers, h)

	for _, h := range headers {
		wire, err := h.Append(nil)
		require.NoError(t, err)
		assert.Len(t, wire, h.Size(), "type %d", h.Type)
	}
}

func TestHeaderValidation(t *testing.T) {
	_, err := BeginStream(3, 0, extendedMarker+1, 8, 0)
	assert.ErrorIs(t, err, ErrMessageTooLong)

	_, err = BeginMessage(1, 0, 10, 8)
	assert.ErrorIs(t, err, ErrReservedChunkStreamID)

	_, err = Continue(70000)
	assert.ErrorIs(t, err, ErrChunkStreamIDTooBig)
}

func TestReadHeaderRejectsContinuationWithoutPrior(t *testing.T) {
	cont, err := Continue(9)
	require.NoError(t, err)
	wire, err := cont.Append(nil)
	require.NoError(t, err)

	_, err = ReadHeader(bytes.NewReader(wire), NewStreamStates())
	assert.ErrorIs(t, err, ErrNoPriorChunk)
}

func TestStreamStatesAbort(t *testing.T) {
	full, err := BeginStream(5, 1, 1, 8, 1)
	require.NoError(t, err)
	wire, err := full.Append(nil)
	require.NoError(t, err)

	states := NewStreamStates()
	_, err = ReadHeader(bytes.NewReader(wire), states)
	require.NoError(t, err)
	_, ok := states.Lookup(5)
	require.True(t, ok)

	states.Abort(5)
	_, ok = states.Lookup(5)
	assert.False(t, ok)

	cont, err := Continue(5)
	require.NoError(t, err)
	wire, err = cont.Append(nil)
	require.NoError(t, err)
	_, err = ReadHeader(bytes.NewReader(wire), states)
	assert.ErrorIs(t, err, ErrNoPriorChunk)
}

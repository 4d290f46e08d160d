package chunk

// StreamState is the per-chunk-stream decode state that compressed header
// types inherit from.
type StreamState struct {
	// LastTimestamp is the most recent timestamp or delta, after extended
	// timestamp resolution. A value >= 0xFFFFFF means a continuation chunk
	// carries an extended timestamp field.
	LastTimestamp   uint32
	MessageLength   uint32
	MessageTypeID   uint8
	MessageStreamID uint32
}

// StreamStates tracks decode state for every chunk stream on a connection.
// One instance belongs to one connection direction; it is not safe for
// concurrent use.
type StreamStates struct {
	m map[uint32]StreamState
}

func NewStreamStates() *StreamStates {
	return &StreamStates{m: make(map[uint32]StreamState)}
}

// Lookup returns the recorded state for a chunk stream.
func (s *StreamStates) Lookup(csid uint32) (StreamState, bool) {
	st, ok := s.m[csid]
	return st, ok
}

func (s *StreamStates) update(h Header) {
	s.m[h.ChunkStreamID] = StreamState{
		LastTimestamp:   h.Timestamp,
		MessageLength:   h.MessageLength,
		MessageTypeID:   h.MessageTypeID,
		MessageStreamID: h.MessageStreamID,
	}
}

// Abort drops the state for a chunk stream, discarding any partially
// received message. Driven by the Abort Message protocol control.
func (s *StreamStates) Abort(csid uint32) {
	delete(s.m, csid)
}

package ipc

import (
	"encoding/binary"
	"fmt"
)

// Wire format of one frame: u32 size (little-endian), u8 encoding tag,
// then size-1 bytes of serialized payload.
const (
	frameHeaderSize = 4

	// MaxFrameSize bounds a single frame. A size prefix beyond this is
	// treated as stream corruption rather than an allocation request.
	MaxFrameSize = 256 << 20
)

// ProtocolError reports a violation of the framing or message protocol.
// A protocol error is not recoverable; the endpoint that observes one
// stops.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return "protocol error: " + e.Reason
}

func protocolErrorf(format string, args ...any) error {
	return &ProtocolError{Reason: fmt.Sprintf(format, args...)}
}

// Frame is one decoded message off the wire: the encoding its payload is
// serialized with, and the payload bytes.
type Frame struct {
	Encoding Encoding
	Payload  []byte
}

// Decode deserializes the frame's payload into v.
func (f *Frame) Decode(v any) error {
	if err := f.Encoding.Unmarshal(f.Payload, v); err != nil {
		return protocolErrorf("undecodable %s payload: %v", f.Encoding, err)
	}
	return nil
}

// EncodeFrame serializes v with the chosen encoding and wraps it in the
// frame header.
func EncodeFrame(encoding Encoding, v any) ([]byte, error) {
	payload, err := encoding.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s frame: %w", encoding, err)
	}

	frame := make([]byte, frameHeaderSize+1+len(payload))
	binary.LittleEndian.PutUint32(frame, uint32(1+len(payload)))
	frame[frameHeaderSize] = byte(encoding)
	copy(frame[frameHeaderSize+1:], payload)
	return frame, nil
}

// Codec incrementally reassembles frames from an append-only byte stream.
// It performs no I/O itself: Submit appends raw bytes, Next yields the next
// complete frame or nil when more bytes are needed. Partial frames are
// retained across calls.
type Codec struct {
	buf []byte
}

// Submit appends raw bytes received from the stream.
func (c *Codec) Submit(data []byte) {
	c.buf = append(c.buf, data...)
}

// Next returns the next complete frame, or nil if the buffer does not yet
// hold one. A corrupt size prefix or an out-of-range encoding tag is a
// ProtocolError and poisons the stream.
func (c *Codec) Next() (*Frame, error) {
	if len(c.buf) < frameHeaderSize {
		return nil, nil
	}

	size := binary.LittleEndian.Uint32(c.buf)
	if size == 0 {
		return nil, protocolErrorf("frame size 0")
	}
	if size > MaxFrameSize {
		return nil, protocolErrorf("frame size %d exceeds limit", size)
	}
	if uint32(len(c.buf)-frameHeaderSize) < size {
		return nil, nil
	}

	encoding, ok := EncodingFromByte(c.buf[frameHeaderSize])
	if !ok {
		return nil, protocolErrorf("unknown encoding tag %d", c.buf[frameHeaderSize])
	}

	payload := make([]byte, size-1)
	copy(payload, c.buf[frameHeaderSize+1:frameHeaderSize+size])
	c.buf = c.buf[frameHeaderSize+size:]

	return &Frame{Encoding: encoding, Payload: payload}, nil
}

// Package ipc implements the framed message protocol spoken between the
// build driver and external generator processes: a length-prefixed codec,
// the typed request/response/event envelopes, and a duplex endpoint that
// multiplexes concurrent requests over stdio pipes or a localhost TCP
// connection.
package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Encoding selects the payload serialization of a frame. The values are
// the on-wire tag bytes and are shared with every generator
// implementation. The type is int-kinded so encoding lists serialize as
// plain arrays rather than byte strings.
type Encoding int

const (
	// EncodingJSON is the default encoding and the one the handshake
	// itself is exchanged in.
	EncodingJSON Encoding = 0
	// EncodingMsgpack is a compact self-describing binary encoding.
	EncodingMsgpack Encoding = 1
	// EncodingCBOR is a compact binary encoding per RFC 8949.
	EncodingCBOR Encoding = 2
)

// SupportedEncodings lists every encoding this endpoint can speak, in
// preference order. Sent during the handshake.
func SupportedEncodings() []Encoding {
	return []Encoding{EncodingJSON, EncodingMsgpack, EncodingCBOR}
}

// EncodingFromByte maps a wire tag back to an Encoding.
func EncodingFromByte(b uint8) (Encoding, bool) {
	e := Encoding(b)
	if !e.Valid() {
		return 0, false
	}
	return e, true
}

// Valid reports whether e is one of the known encodings.
func (e Encoding) Valid() bool {
	switch e {
	case EncodingJSON, EncodingMsgpack, EncodingCBOR:
		return true
	default:
		return false
	}
}

func (e Encoding) String() string {
	switch e {
	case EncodingJSON:
		return "json"
	case EncodingMsgpack:
		return "msgpack"
	case EncodingCBOR:
		return "cbor"
	default:
		return fmt.Sprintf("encoding(%d)", int(e))
	}
}

// Marshal serializes v with the chosen codec.
func (e Encoding) Marshal(v any) ([]byte, error) {
	switch e {
	case EncodingJSON:
		return json.Marshal(v)
	case EncodingMsgpack:
		return msgpack.Marshal(v)
	case EncodingCBOR:
		return cbor.Marshal(v)
	default:
		return nil, fmt.Errorf("cannot marshal with unknown %s", e)
	}
}

// Unmarshal deserializes data into v with the chosen codec.
func (e Encoding) Unmarshal(data []byte, v any) error {
	switch e {
	case EncodingJSON:
		return json.Unmarshal(data, v)
	case EncodingMsgpack:
		return msgpack.Unmarshal(data, v)
	case EncodingCBOR:
		return cbor.Unmarshal(data, v)
	default:
		return fmt.Errorf("cannot unmarshal with unknown %s", e)
	}
}

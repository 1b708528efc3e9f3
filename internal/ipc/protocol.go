package ipc

import (
	"github.com/semio-ai/drydoc/internal/core/entities"
	"github.com/semio-ai/drydoc/internal/core/vfs"
)

// ProtocolVersion is sent in the handshake; generators reject versions
// they do not understand.
const ProtocolVersion uint32 = 1

// Unions on the wire are structs of optional variants: exactly one field is
// set. This shape round-trips identically under every negotiated encoding.

// --- driver -> generator ---

// InitializeRequest opens the handshake: it announces the protocol version
// and the encodings the driver can speak.
type InitializeRequest struct {
	Version            uint32     `json:"version" msgpack:"version"`
	SupportedEncodings []Encoding `json:"supported_encodings" msgpack:"supported_encodings"`
}

// OpenContextRequest opens a generation scope for generators that batch
// work across calls.
type OpenContextRequest struct {
	ID uint32 `json:"id" msgpack:"id"`
}

// CloseContextRequest closes a scope; the generator may return a final
// bundle for it.
type CloseContextRequest struct {
	ID uint32 `json:"id" msgpack:"id"`
}

// GenerateRequest asks the generator to produce a bundle for one
// declaration node.
type GenerateRequest struct {
	ContextID uint32            `json:"context_id" msgpack:"context_id"`
	Namespace string            `json:"namespace" msgpack:"namespace"`
	Params    map[string]string `json:"params" msgpack:"params"`
	Path      string            `json:"path" msgpack:"path"`
}

// RequestPayload is the union of driver-initiated requests.
type RequestPayload struct {
	Initialize   *InitializeRequest   `json:"initialize,omitempty" msgpack:"initialize,omitempty"`
	OpenContext  *OpenContextRequest  `json:"open_context,omitempty" msgpack:"open_context,omitempty"`
	CloseContext *CloseContextRequest `json:"close_context,omitempty" msgpack:"close_context,omitempty"`
	Generate     *GenerateRequest     `json:"generate,omitempty" msgpack:"generate,omitempty"`
}

// Request is a driver-initiated request with its correlation id.
type Request struct {
	ID   uint64         `json:"id" msgpack:"id"`
	Data RequestPayload `json:"data" msgpack:"data"`
}

// ErrorResponse is the negative arm for requests the receiving side cannot
// serve.
type ErrorResponse struct {
	Message string `json:"message" msgpack:"message"`
}

// OutboundResponsePayload is the union of responses the driver sends to
// generator-initiated requests. The driver serves no file-proxy requests,
// so the only populated arm is the error.
type OutboundResponsePayload struct {
	Error *ErrorResponse `json:"error,omitempty" msgpack:"error,omitempty"`
}

// OutboundResponse answers a generator-initiated request.
type OutboundResponse struct {
	ID   uint64                  `json:"id" msgpack:"id"`
	Data OutboundResponsePayload `json:"data" msgpack:"data"`
}

// OutboundMessage is the top-level envelope for driver-to-generator frames.
type OutboundMessage struct {
	Request  *Request          `json:"request,omitempty" msgpack:"request,omitempty"`
	Response *OutboundResponse `json:"response,omitempty" msgpack:"response,omitempty"`
}

// --- generator -> driver ---

// LogLevel grades generator log events.
type LogLevel uint8

const (
	LogVerbose LogLevel = iota
	LogDebug
	LogInfo
	LogWarning
	LogError
	LogFatal
)

func (l LogLevel) String() string {
	switch l {
	case LogVerbose:
		return "verbose"
	case LogDebug:
		return "debug"
	case LogInfo:
		return "info"
	case LogWarning:
		return "warning"
	case LogError:
		return "error"
	case LogFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// LogEvent carries a generator log line to the driver.
type LogEvent struct {
	Level   LogLevel `json:"level" msgpack:"level"`
	Message string   `json:"message" msgpack:"message"`
}

// ProgressEvent reports completion of a job within a context, in [0, 1].
type ProgressEvent struct {
	Context    uint32  `json:"context" msgpack:"context"`
	Job        uint32  `json:"job" msgpack:"job"`
	Completion float32 `json:"completion" msgpack:"completion"`
}

// EventPayload is the union of one-way generator events.
type EventPayload struct {
	Log      *LogEvent      `json:"log,omitempty" msgpack:"log,omitempty"`
	Progress *ProgressEvent `json:"progress,omitempty" msgpack:"progress,omitempty"`
}

// OpenRequest asks the driver to open a file on the generator's behalf,
// for generators without direct filesystem access.
type OpenRequest struct {
	Path string `json:"path" msgpack:"path"`
}

// ReleaseRequest relinquishes a previously opened handle.
type ReleaseRequest struct {
	Handle vfs.LinkedFileHandle `json:"handle" msgpack:"handle"`
}

// InboundRequestPayload is the union of generator-initiated requests.
type InboundRequestPayload struct {
	Open    *OpenRequest    `json:"open,omitempty" msgpack:"open,omitempty"`
	Release *ReleaseRequest `json:"release,omitempty" msgpack:"release,omitempty"`
}

// InboundRequest is a generator-initiated request with its correlation id.
type InboundRequest struct {
	ID   uint64                `json:"id" msgpack:"id"`
	Data InboundRequestPayload `json:"data" msgpack:"data"`
}

// InitializeResponse answers the handshake with the encoding the generator
// picked from the offered set.
type InitializeResponse struct {
	Encoding               Encoding `json:"encoding" msgpack:"encoding"`
	RequiresDirectFsAccess bool     `json:"requires_direct_fs_access" msgpack:"requires_direct_fs_access"`
}

// OpenContextResponse acknowledges an OpenContextRequest.
type OpenContextResponse struct{}

// CloseContextResponse acknowledges a CloseContextRequest, optionally
// carrying a final bundle for the context.
type CloseContextResponse struct {
	Bundle *entities.Bundle `json:"bundle,omitempty" msgpack:"bundle,omitempty"`
}

// GenerateResponse carries the bundle produced for one declaration node.
type GenerateResponse struct {
	Bundle entities.Bundle `json:"bundle" msgpack:"bundle"`
}

// ResponsePayload is the union of generator responses to driver requests.
type ResponsePayload struct {
	Initialize   *InitializeResponse   `json:"initialize,omitempty" msgpack:"initialize,omitempty"`
	OpenContext  *OpenContextResponse  `json:"open_context,omitempty" msgpack:"open_context,omitempty"`
	CloseContext *CloseContextResponse `json:"close_context,omitempty" msgpack:"close_context,omitempty"`
	Generate     *GenerateResponse     `json:"generate,omitempty" msgpack:"generate,omitempty"`
	Error        *ErrorResponse        `json:"error,omitempty" msgpack:"error,omitempty"`
}

// InboundResponse answers a driver request.
type InboundResponse struct {
	ID   uint64          `json:"id" msgpack:"id"`
	Data ResponsePayload `json:"data" msgpack:"data"`
}

// InboundMessage is the top-level envelope for generator-to-driver frames.
type InboundMessage struct {
	Event    *EventPayload    `json:"event,omitempty" msgpack:"event,omitempty"`
	Request  *InboundRequest  `json:"request,omitempty" msgpack:"request,omitempty"`
	Response *InboundResponse `json:"response,omitempty" msgpack:"response,omitempty"`
}

package ipc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semio-ai/drydoc/internal/core/entities"
	"github.com/semio-ai/drydoc/internal/core/vfs"
)

func sampleBundle(t *testing.T) entities.Bundle {
	t.Helper()

	root, err := entities.NewPage().
		ID("docs").
		Name("Docs").
		ContentType("text/markdown").
		URL("README.md.page").
		Meta("origin", "copy").
		Build()
	require.NoError(t, err)

	bundle := entities.NewBundle(entities.NewManifest(root))
	bundle, err = bundle.InsertEntry("README.md.page",
		vfs.FileEntry(vfs.FileOf(vfs.NewVirtualFile([]byte("# readme")))))
	require.NoError(t, err)
	return bundle
}

func TestOutboundMessage_RoundTripsUnderEveryEncoding(t *testing.T) {
	messages := []OutboundMessage{
		{Request: &Request{ID: 1, Data: RequestPayload{Initialize: &InitializeRequest{
			Version:            ProtocolVersion,
			SupportedEncodings: SupportedEncodings(),
		}}}},
		{Request: &Request{ID: 2, Data: RequestPayload{OpenContext: &OpenContextRequest{ID: 0}}}},
		{Request: &Request{ID: 3, Data: RequestPayload{CloseContext: &CloseContextRequest{ID: 0}}}},
		{Request: &Request{ID: 4, Data: RequestPayload{Generate: &GenerateRequest{
			ContextID: 0,
			Namespace: "root/docs",
			Params:    map[string]string{"path": "README.md"},
			Path:      "/tmp/drydoc.yaml",
		}}}},
		{Response: &OutboundResponse{ID: 9, Data: OutboundResponsePayload{Error: &ErrorResponse{Message: "nope"}}}},
	}

	for _, encoding := range SupportedEncodings() {
		for i, msg := range messages {
			raw, err := EncodeFrame(encoding, msg)
			require.NoError(t, err, "%s message %d", encoding, i)

			var codec Codec
			codec.Submit(raw)
			frame, err := codec.Next()
			require.NoError(t, err)
			require.NotNil(t, frame)

			var back OutboundMessage
			require.NoError(t, frame.Decode(&back))
			assert.Equal(t, msg, back, "%s message %d", encoding, i)
		}
	}
}

func TestInboundMessage_RoundTripsUnderEveryEncoding(t *testing.T) {
	bundle := sampleBundle(t)
	messages := []InboundMessage{
		{Response: &InboundResponse{ID: 1, Data: ResponsePayload{Initialize: &InitializeResponse{
			Encoding:               EncodingMsgpack,
			RequiresDirectFsAccess: true,
		}}}},
		{Response: &InboundResponse{ID: 2, Data: ResponsePayload{OpenContext: &OpenContextResponse{}}}},
		{Response: &InboundResponse{ID: 3, Data: ResponsePayload{CloseContext: &CloseContextResponse{}}}},
		{Response: &InboundResponse{ID: 4, Data: ResponsePayload{Generate: &GenerateResponse{Bundle: bundle}}}},
		{Request: &InboundRequest{ID: 5, Data: InboundRequestPayload{Open: &OpenRequest{Path: "src/a.md"}}}},
		{Request: &InboundRequest{ID: 6, Data: InboundRequestPayload{Release: &ReleaseRequest{Handle: 12}}}},
		{Event: &EventPayload{Log: &LogEvent{Level: LogWarning, Message: "careful"}}},
		{Event: &EventPayload{Progress: &ProgressEvent{Context: 0, Job: 2, Completion: 0.5}}},
	}

	for _, encoding := range SupportedEncodings() {
		for i, msg := range messages {
			raw, err := EncodeFrame(encoding, msg)
			require.NoError(t, err, "%s message %d", encoding, i)

			var codec Codec
			codec.Submit(raw)
			frame, err := codec.Next()
			require.NoError(t, err)
			require.NotNil(t, frame)

			var back InboundMessage
			require.NoError(t, frame.Decode(&back))
			assert.Equal(t, msg, back, "%s message %d", encoding, i)
		}
	}
}

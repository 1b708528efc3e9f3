package ipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrEndpointClosed is delivered to every caller still waiting on a
// response when the endpoint's stream closes.
var ErrEndpointClosed = errors.New("ipc endpoint closed")

// EventSink receives the one-way events a generator emits. Methods are
// called from the endpoint's read goroutine and must not block.
type EventSink interface {
	GeneratorLog(level LogLevel, message string)
	GeneratorProgress(contextID, job uint32, completion float32)
}

// Endpoint is a live duplex channel to one generator process. It owns the
// read and write halves of the stream, the negotiated encoding, and the
// table of outstanding requests. Requests may be issued concurrently from
// any goroutine; responses are routed back by correlation id and may arrive
// in any order.
type Endpoint struct {
	r       io.Reader
	w       io.Writer
	closers []io.Closer
	events  EventSink

	writeMu  sync.Mutex
	encoding Encoding

	mu          sync.Mutex
	pending     map[uint64]chan ResponsePayload
	nextID      uint64
	initialized bool
	closed      bool
	closeErr    error

	done     chan struct{}
	readDone chan struct{}
	started  bool
}

// EndpointOption configures an Endpoint.
type EndpointOption func(*Endpoint)

// WithEventSink routes generator events to sink.
func WithEventSink(sink EventSink) EndpointOption {
	return func(e *Endpoint) { e.events = sink }
}

// WithCloser registers a resource to close when the endpoint closes, e.g.
// the underlying connection or a hook that reaps the child process.
func WithCloser(c io.Closer) EndpointOption {
	return func(e *Endpoint) { e.closers = append(e.closers, c) }
}

// CloserFunc adapts a function to io.Closer.
type CloserFunc func() error

func (f CloserFunc) Close() error { return f() }

// NewEndpoint creates an endpoint over the given stream halves. Start must
// be called before any request is issued.
func NewEndpoint(r io.Reader, w io.Writer, opts ...EndpointOption) *Endpoint {
	e := &Endpoint{
		r:        r,
		w:        w,
		encoding: EncodingJSON,
		pending:  map[uint64]chan ResponsePayload{},
		done:     make(chan struct{}),
		readDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start launches the read loop.
func (e *Endpoint) Start() {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return
	}
	e.started = true
	e.mu.Unlock()
	go e.readLoop()
}

// Initialize runs the encoding handshake. It must complete before any
// other request; all subsequent frames in both directions use the encoding
// the generator picks.
func (e *Endpoint) Initialize(ctx context.Context) error {
	res, err := e.roundTrip(ctx, RequestPayload{Initialize: &InitializeRequest{
		Version:            ProtocolVersion,
		SupportedEncodings: SupportedEncodings(),
	}})
	if err != nil {
		return fmt.Errorf("handshake failed: %w", err)
	}
	if res.Initialize == nil {
		return protocolErrorf("handshake reply carried the wrong variant")
	}

	chosen := res.Initialize.Encoding
	if !chosen.Valid() {
		return protocolErrorf("generator picked unknown encoding %d", int(chosen))
	}

	e.writeMu.Lock()
	e.encoding = chosen
	e.writeMu.Unlock()

	e.mu.Lock()
	e.initialized = true
	e.mu.Unlock()
	return nil
}

// OpenContext opens a generation scope on the generator.
func (e *Endpoint) OpenContext(ctx context.Context, id uint32) error {
	res, err := e.roundTrip(ctx, RequestPayload{OpenContext: &OpenContextRequest{ID: id}})
	if err != nil {
		return err
	}
	if res.OpenContext == nil {
		return protocolErrorf("open-context reply carried the wrong variant")
	}
	return nil
}

// CloseContext closes a generation scope, returning the generator's final
// bundle for it, if any.
func (e *Endpoint) CloseContext(ctx context.Context, id uint32) (*CloseContextResponse, error) {
	res, err := e.roundTrip(ctx, RequestPayload{CloseContext: &CloseContextRequest{ID: id}})
	if err != nil {
		return nil, err
	}
	if res.CloseContext == nil {
		return nil, protocolErrorf("close-context reply carried the wrong variant")
	}
	return res.CloseContext, nil
}

// Generate asks the generator to produce a bundle for one declaration
// node.
func (e *Endpoint) Generate(ctx context.Context, contextID uint32, namespace string, params map[string]string, path string) (*GenerateResponse, error) {
	res, err := e.roundTrip(ctx, RequestPayload{Generate: &GenerateRequest{
		ContextID: contextID,
		Namespace: namespace,
		Params:    params,
		Path:      path,
	}})
	if err != nil {
		return nil, err
	}
	if res.Generate == nil {
		return nil, protocolErrorf("generate reply carried the wrong variant")
	}
	return res.Generate, nil
}

// Close tears the endpoint down: underlying resources close (which
// unblocks the read loop), and every pending request fails with
// ErrEndpointClosed.
func (e *Endpoint) Close() error {
	var firstErr error
	for _, c := range e.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	e.mu.Lock()
	started := e.started
	e.mu.Unlock()
	if started {
		<-e.readDone
	}
	return firstErr
}

// roundTrip issues one request and waits for its response. A cancelled
// caller abandons its reply; the response still arrives and is absorbed by
// the buffered channel.
func (e *Endpoint) roundTrip(ctx context.Context, payload RequestPayload) (ResponsePayload, error) {
	e.mu.Lock()
	if e.closed {
		err := e.closeErr
		e.mu.Unlock()
		return ResponsePayload{}, err
	}
	if !e.initialized && payload.Initialize == nil {
		e.mu.Unlock()
		return ResponsePayload{}, protocolErrorf("request issued before initialization")
	}
	e.nextID++
	id := e.nextID
	ch := make(chan ResponsePayload, 1)
	e.pending[id] = ch
	e.mu.Unlock()

	e.writeMu.Lock()
	frame, err := EncodeFrame(e.encoding, OutboundMessage{Request: &Request{ID: id, Data: payload}})
	if err == nil {
		_, err = e.w.Write(frame)
	}
	e.writeMu.Unlock()
	if err != nil {
		e.mu.Lock()
		delete(e.pending, id)
		e.mu.Unlock()
		return ResponsePayload{}, fmt.Errorf("failed to send request: %w", err)
	}

	select {
	case res := <-ch:
		return e.checkError(res)
	case <-ctx.Done():
		return ResponsePayload{}, ctx.Err()
	case <-e.done:
		// The response may have raced the shutdown.
		select {
		case res := <-ch:
			return e.checkError(res)
		default:
		}
		e.mu.Lock()
		err := e.closeErr
		e.mu.Unlock()
		return ResponsePayload{}, err
	}
}

func (e *Endpoint) checkError(res ResponsePayload) (ResponsePayload, error) {
	if res.Error != nil {
		return ResponsePayload{}, fmt.Errorf("generator error: %s", res.Error.Message)
	}
	return res, nil
}

func (e *Endpoint) readLoop() {
	defer close(e.readDone)

	var codec Codec
	buf := make([]byte, 32*1024)
	for {
		n, err := e.r.Read(buf)
		if n > 0 {
			codec.Submit(buf[:n])
			for {
				frame, ferr := codec.Next()
				if ferr != nil {
					e.shutdown(ferr)
					return
				}
				if frame == nil {
					break
				}
				if herr := e.handleFrame(frame); herr != nil {
					e.shutdown(herr)
					return
				}
			}
		}
		if err != nil {
			e.shutdown(ErrEndpointClosed)
			return
		}
	}
}

func (e *Endpoint) handleFrame(frame *Frame) error {
	var msg InboundMessage
	if err := frame.Decode(&msg); err != nil {
		return err
	}

	switch {
	case msg.Response != nil:
		return e.handleResponse(msg.Response)
	case msg.Request != nil:
		return e.handleRequest(msg.Request)
	case msg.Event != nil:
		e.handleEvent(msg.Event)
		return nil
	default:
		return protocolErrorf("frame carried no message variant")
	}
}

func (e *Endpoint) handleResponse(res *InboundResponse) error {
	e.mu.Lock()
	ch, ok := e.pending[res.ID]
	delete(e.pending, res.ID)
	e.mu.Unlock()

	if !ok {
		return protocolErrorf("response to unknown request id %d", res.ID)
	}
	ch <- res.Data
	return nil
}

// handleRequest answers generator-initiated requests. The driver serves no
// file-proxy feature, so Open and Release are acknowledged with an error
// rather than left hanging.
func (e *Endpoint) handleRequest(req *InboundRequest) error {
	var reason string
	switch {
	case req.Data.Open != nil:
		reason = "open is not supported; generators have direct filesystem access"
	case req.Data.Release != nil:
		reason = "release is not supported"
	default:
		return protocolErrorf("request %d carried no variant", req.ID)
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	frame, err := EncodeFrame(e.encoding, OutboundMessage{Response: &OutboundResponse{
		ID:   req.ID,
		Data: OutboundResponsePayload{Error: &ErrorResponse{Message: reason}},
	}})
	if err != nil {
		return err
	}
	if _, err := e.w.Write(frame); err != nil {
		return fmt.Errorf("failed to answer generator request: %w", err)
	}
	return nil
}

func (e *Endpoint) handleEvent(event *EventPayload) {
	if e.events == nil {
		return
	}
	switch {
	case event.Log != nil:
		e.events.GeneratorLog(event.Log.Level, event.Log.Message)
	case event.Progress != nil:
		e.events.GeneratorProgress(event.Progress.Context, event.Progress.Job, event.Progress.Completion)
	}
}

// shutdown marks the endpoint closed and wakes every pending caller.
func (e *Endpoint) shutdown(err error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.closeErr = err
	if e.closeErr == nil {
		e.closeErr = ErrEndpointClosed
	}
	for id := range e.pending {
		delete(e.pending, id)
	}
	e.mu.Unlock()
	close(e.done)
}

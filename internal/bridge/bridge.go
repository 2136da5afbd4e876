// Package bridge implements the host-side endpoint of the postMessage-
// equivalent RPC between the host and a sandboxed app: a framed, JSON
// wire format with request/response correlation and unidirectional
// events, carried over the sandboxed loader's stdio pipe.
package bridge

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// marker tags every frame so foreign traffic sharing the same pipe is
// ignored rather than misinterpreted.
const marker = "archbase-bridge/1"

// Kind distinguishes the three message shapes the wire format carries.
type Kind string

const (
	KindRequest  Kind = "req"
	KindResponse Kind = "res"
	KindEvent    Kind = "evt"
)

// Error is the bit-exact {code, message} shape carried on failed requests.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

// Message is the single envelope shape used for every frame. Method is a
// dotted SDK path (e.g. "storage.get"); ID correlates req/res pairs; only
// one of Payload/Err is meaningful on a response.
type Message struct {
	Marker  string          `json:"marker"`
	Kind    Kind            `json:"kind"`
	ID      string          `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Err     *Error          `json:"error,omitempty"`
}

// Handler answers a method call with a JSON-serializable result or an
// error; it is the sole point where the capability-checking SDK is
// consulted, so every bridge call — in-process or sandboxed — runs
// through the same enforcement path.
type Handler func(method string, payload json.RawMessage) (any, error)

// Transport is the minimal read/write surface a bridge needs: a pipe, a
// child process's stdio, or a websocket/webtransport adapter.
type Transport interface {
	io.ReadWriter
}

// Endpoint is one side of the bridge: it dispatches incoming requests to
// handler, tracks outstanding outgoing requests for correlation, and
// delivers events to subscribers. Origin/source policing for a
// transport backed by an actual iframe equivalent happens one layer up,
// at the loader that owns the Transport; Endpoint itself trusts every
// frame it is handed.
type Endpoint struct {
	w       io.Writer
	wMu     sync.Mutex
	handler Handler

	nextID  uint64
	pending sync.Map // id -> chan *Message

	events   []func(method string, payload json.RawMessage)
	eventsMu sync.Mutex
}

// NewEndpoint builds an endpoint writing frames to w and dispatching
// incoming requests to handler. handler may be nil for an endpoint that
// only issues requests and receives events (the iframe side).
func NewEndpoint(w io.Writer, handler Handler) *Endpoint {
	return &Endpoint{w: w, handler: handler}
}

// OnEvent registers a subscriber invoked for every incoming event.
func (e *Endpoint) OnEvent(fn func(method string, payload json.RawMessage)) {
	e.eventsMu.Lock()
	defer e.eventsMu.Unlock()
	e.events = append(e.events, fn)
}

// Call sends a request and blocks for its correlated response. The
// caller is responsible for running ReadLoop concurrently.
func (e *Endpoint) Call(method string, payload any) (json.RawMessage, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	id := fmt.Sprintf("%d", atomic.AddUint64(&e.nextID, 1))
	ch := make(chan *Message, 1)
	e.pending.Store(id, ch)
	defer e.pending.Delete(id)

	if err := e.write(&Message{Marker: marker, Kind: KindRequest, ID: id, Method: method, Payload: raw}); err != nil {
		return nil, err
	}

	resp := <-ch
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Payload, nil
}

// Emit sends a unidirectional event; there is no response to wait for.
func (e *Endpoint) Emit(method string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return e.write(&Message{Marker: marker, Kind: KindEvent, Method: method, Payload: raw})
}

// ReadLoop consumes framed messages from r until it closes or errors. It
// must run on its own goroutine; Call blocks until ReadLoop delivers the
// matching response.
func (e *Endpoint) ReadLoop(r io.Reader) error {
	for {
		msg, err := readFrame(r)
		if err != nil {
			return err
		}
		if msg.Marker != marker {
			continue // foreign traffic on a shared pipe
		}
		e.dispatch(msg)
	}
}

func (e *Endpoint) dispatch(msg *Message) {
	switch msg.Kind {
	case KindResponse:
		if ch, ok := e.pending.LoadAndDelete(msg.ID); ok {
			ch.(chan *Message) <- msg
		}
	case KindEvent:
		e.eventsMu.Lock()
		subs := append([]func(string, json.RawMessage){}, e.events...)
		e.eventsMu.Unlock()
		for _, fn := range subs {
			fn(msg.Method, msg.Payload)
		}
	case KindRequest:
		go e.serve(msg)
	}
}

func (e *Endpoint) serve(req *Message) {
	resp := &Message{Marker: marker, Kind: KindResponse, ID: req.ID}
	if e.handler == nil {
		resp.Err = &Error{Code: "unimplemented", Message: "endpoint has no handler"}
	} else {
		result, err := e.handler(req.Method, req.Payload)
		if err != nil {
			resp.Err = toBridgeError(err)
		} else {
			raw, merr := json.Marshal(result)
			if merr != nil {
				resp.Err = &Error{Code: "internal", Message: merr.Error()}
			} else {
				resp.Payload = raw
			}
		}
	}
	_ = e.write(resp)
}

func toBridgeError(err error) *Error {
	var be *Error
	if errors.As(err, &be) {
		return be
	}
	return &Error{Code: "internal", Message: err.Error()}
}

func (e *Endpoint) write(msg *Message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	frame := make([]byte, 4+len(raw))
	binary.BigEndian.PutUint32(frame[0:4], uint32(len(raw)))
	copy(frame[4:], raw)

	e.wMu.Lock()
	defer e.wMu.Unlock()
	_, err = e.w.Write(frame)
	return err
}

func readFrame(r io.Reader) (*Message, error) {
	lenBuf := make([]byte, 4)
	if _, err := io.ReadFull(r, lenBuf); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(lenBuf)
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	var msg Message
	if err := json.Unmarshal(buf, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

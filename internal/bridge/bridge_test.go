package bridge_test

import (
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/archbase/shell/internal/bridge"
)

// pipePair wires two endpoints together over in-memory pipes, each
// endpoint reading what the other writes.
func pipePair(t *testing.T, hostHandler, appHandler bridge.Handler) (host, app *bridge.Endpoint) {
	t.Helper()
	hostR, appW := io.Pipe()
	appR, hostW := io.Pipe()

	host = bridge.NewEndpoint(hostW, hostHandler)
	app = bridge.NewEndpoint(appW, appHandler)

	go host.ReadLoop(hostR)
	go app.ReadLoop(appR)
	return host, app
}

func TestCallRoundTripsResult(t *testing.T) {
	host, app := pipePair(t, func(method string, payload json.RawMessage) (any, error) {
		if method != "storage.get" {
			t.Fatalf("unexpected method: %s", method)
		}
		return map[string]string{"value": "hello"}, nil
	}, nil)
	_ = host

	raw, err := app.Call("storage.get", map[string]string{"key": "k"})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	var got struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Value != "hello" {
		t.Fatalf("expected value=hello, got %q", got.Value)
	}
}

func TestCallPropagatesHandlerError(t *testing.T) {
	_, app := pipePair(t, func(method string, payload json.RawMessage) (any, error) {
		return nil, &bridge.Error{Code: "denied", Message: "permission denied"}
	}, nil)

	_, err := app.Call("notifications.show", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	be, ok := err.(*bridge.Error)
	if !ok {
		t.Fatalf("expected *bridge.Error, got %T", err)
	}
	if be.Code != "denied" {
		t.Fatalf("expected code=denied, got %q", be.Code)
	}
}

func TestEmitDeliversEventToSubscriber(t *testing.T) {
	host, app := pipePair(t, nil, nil)

	received := make(chan string, 1)
	app.OnEvent(func(method string, payload json.RawMessage) {
		received <- method
	})

	if err := host.Emit("settings.changed", map[string]string{"theme": "dark"}); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	select {
	case method := <-received:
		if method != "settings.changed" {
			t.Fatalf("expected settings.changed, got %q", method)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered within timeout")
	}
}

func TestUnimplementedHandlerReturnsError(t *testing.T) {
	_, app := pipePair(t, nil, nil)

	_, err := app.Call("x.y", nil)
	if err == nil {
		t.Fatal("expected error from endpoint with nil handler")
	}
}

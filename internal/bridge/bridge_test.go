package bridge

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type mockCaller struct {
	initCode  int
	initHome  string
	initCalls int
	shutdowns int
	lastReq   []byte
	response  []byte
	errText   string
}

func (m *mockCaller) Initialize(pythonHome string) int {
	m.initHome = pythonHome
	m.initCalls++
	return m.initCode
}

func (m *mockCaller) Shutdown() { m.shutdowns++ }

func (m *mockCaller) Evaluate(request []byte) []byte {
	m.lastReq = append([]byte(nil), request...)
	return m.response
}

func (m *mockCaller) LastError() string { return m.errText }

func newTestBridge(call Caller) *Bridge {
	return New(call, zerolog.Nop())
}

func TestInitSuccess(t *testing.T) {
	mock := &mockCaller{}
	b := newTestBridge(mock)
	if err := b.Init(`C:\py_runtime`); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}
	if mock.initHome != `C:\py_runtime` {
		t.Fatalf("python home not forwarded, got %q", mock.initHome)
	}
}

func TestInitFailureCarriesNativeError(t *testing.T) {
	mock := &mockCaller{initCode: -1, errText: "Py_Initialize failed"}
	err := newTestBridge(mock).Init("py_runtime")
	if err == nil {
		t.Fatalf("expected init error")
	}
	if !strings.Contains(err.Error(), "Py_Initialize failed") {
		t.Fatalf("error missing native text: %v", err)
	}
}

func TestInitIdempotent(t *testing.T) {
	mock := &mockCaller{}
	b := newTestBridge(mock)
	if err := b.Init("py_runtime"); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}
	if err := b.Init("py_runtime"); err != nil {
		t.Fatalf("second init should be a no-op, got %v", err)
	}
	if mock.initCalls != 1 {
		t.Fatalf("expected one native initialize, got %d", mock.initCalls)
	}
}

func TestEvalBeforeInit(t *testing.T) {
	_, err := newTestBridge(&mockCaller{}).M1Bars("EURUSD", 10)
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestEvalAfterClose(t *testing.T) {
	mock := &mockCaller{response: []byte(`{}`)}
	b := newTestBridge(mock)
	if err := b.Init("py_runtime"); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if _, err := b.M1Bars("EURUSD", 10); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if mock.shutdowns != 1 {
		t.Fatalf("expected one native shutdown, got %d", mock.shutdowns)
	}
}

func TestCloseBeforeInit(t *testing.T) {
	if err := newTestBridge(&mockCaller{}).Close(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestEvalNullResponseUsesLastError(t *testing.T) {
	mock := &mockCaller{errText: "terminal not connected"}
	b := newTestBridge(mock)
	if err := b.Init("py_runtime"); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}
	_, err := b.M1Bars("EURUSD", 10)
	if err == nil {
		t.Fatalf("expected eval error for null response")
	}
	if !strings.Contains(err.Error(), "terminal not connected") {
		t.Fatalf("error missing native text: %v", err)
	}
}

func TestEvalNullResponseFallback(t *testing.T) {
	b := newTestBridge(&mockCaller{})
	if err := b.Init("py_runtime"); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}
	_, err := b.M1Bars("EURUSD", 10)
	if err == nil || !strings.Contains(err.Error(), "unknown error") {
		t.Fatalf("expected fallback error text, got %v", err)
	}
}

func TestEvalReturnsResponseVerbatim(t *testing.T) {
	payload := `{"bars":[{"open":1.1,"close":1.2}]}`
	mock := &mockCaller{response: []byte(payload)}
	b := newTestBridge(mock)
	if err := b.Init("py_runtime"); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}
	got, err := b.M1Bars("EURUSD", 10)
	if err != nil {
		t.Fatalf("unexpected eval error: %v", err)
	}
	if got != payload {
		t.Fatalf("response altered: %s", got)
	}
}

func TestBarsRequestSerialization(t *testing.T) {
	mock := &mockCaller{response: []byte(`{}`)}
	b := newTestBridge(mock)
	if err := b.Init("py_runtime"); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}
	if _, err := b.M1Bars("EURUSD", 10); err != nil {
		t.Fatalf("unexpected eval error: %v", err)
	}

	var sent map[string]any
	if err := json.Unmarshal(mock.lastReq, &sent); err != nil {
		t.Fatalf("request is not valid json: %v", err)
	}
	if len(sent) != 3 {
		t.Fatalf("unexpected request fields: %v", sent)
	}
	if sent["method"] != "get_m1_bars" || sent["symbol"] != "EURUSD" || sent["count"] != float64(10) {
		t.Fatalf("unexpected request content: %v", sent)
	}
}

func TestMarketBuyRequestSerialization(t *testing.T) {
	mock := &mockCaller{response: []byte(`{}`)}
	b := newTestBridge(mock)
	if err := b.Init("py_runtime"); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}
	if _, err := b.OpenMarketBuy("EURUSD", 0.1); err != nil {
		t.Fatalf("unexpected eval error: %v", err)
	}

	var sent map[string]any
	if err := json.Unmarshal(mock.lastReq, &sent); err != nil {
		t.Fatalf("request is not valid json: %v", err)
	}
	if sent["method"] != "open_market_buy" || sent["symbol"] != "EURUSD" || sent["volume"] != 0.1 {
		t.Fatalf("unexpected request content: %v", sent)
	}
}

// Package bridge exposes the native MetaTrader 5 bridge library to Go callers.
//
// The native side owns every buffer it returns and keeps a process-wide
// last-error string that is only valid until the next call, so adapters copy
// both into Go memory immediately. A Bridge is not safe for concurrent use;
// the native library serializes access to its embedded interpreter itself.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"mt5bridge-go/internal/metrics"
)

// Caller is the capability set the native bridge library exports. Adapters
// implement it against a concrete loading mechanism; tests substitute mocks.
type Caller interface {
	// Initialize boots the embedded runtime rooted at pythonHome and
	// returns the native status code, zero on success.
	Initialize(pythonHome string) int
	// Shutdown releases the native runtime. The native side tolerates a
	// shutdown without a prior initialize.
	Shutdown()
	// Evaluate forwards a serialized request and returns the serialized
	// response, or nil when the native side reports failure.
	Evaluate(request []byte) []byte
	// LastError returns the native last-error text, empty when unset.
	LastError() string
}

// fallbackError stands in when a failing call left no last-error text.
const fallbackError = "unknown error"

var (
	// ErrNotInitialized is returned when a call reaches a bridge before Init.
	ErrNotInitialized = errors.New("bridge not initialized")
	// ErrClosed is returned when a call reaches a bridge after Close.
	ErrClosed = errors.New("bridge closed")
)

type state int

const (
	stateNew state = iota
	stateReady
	stateClosed
)

// Bridge tracks the init/shutdown lifecycle around a Caller so that
// out-of-order calls fail client-side instead of crossing into native code.
type Bridge struct {
	call  Caller
	log   zerolog.Logger
	state state
}

// New wraps a Caller; the bridge must be Init-ed before evaluating requests.
func New(call Caller, log zerolog.Logger) *Bridge {
	return &Bridge{call: call, log: log}
}

// Init boots the native runtime from pythonHome. Init on an already
// initialized bridge is a no-op, matching the native library.
func (b *Bridge) Init(pythonHome string) error {
	switch b.state {
	case stateClosed:
		return ErrClosed
	case stateReady:
		return nil
	}
	if code := b.call.Initialize(pythonHome); code != 0 {
		return fmt.Errorf("initialize bridge: %s", b.nativeError())
	}
	b.state = stateReady
	b.log.Info().Str("python_home", pythonHome).Msg("bridge initialized")
	return nil
}

// Close shuts the native runtime down and releases its resources.
func (b *Bridge) Close() error {
	switch b.state {
	case stateNew:
		return ErrNotInitialized
	case stateClosed:
		return ErrClosed
	}
	b.call.Shutdown()
	b.state = stateClosed
	b.log.Info().Msg("bridge shut down")
	return nil
}

// Eval serializes req, forwards it to the native side, and returns the
// response payload as-is. No response schema is enforced.
func (b *Bridge) Eval(req Request) (string, error) {
	switch b.state {
	case stateNew:
		return "", ErrNotInitialized
	case stateClosed:
		return "", ErrClosed
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	metrics.BridgeCalls.WithLabelValues(req.Method()).Inc()
	resp := b.call.Evaluate(payload)
	if resp == nil {
		metrics.BridgeErrors.WithLabelValues(req.Method()).Inc()
		return "", fmt.Errorf("eval %s: %s", req.Method(), b.nativeError())
	}
	b.log.Debug().Str("method", req.Method()).Int("response_bytes", len(resp)).Msg("eval ok")
	return string(resp), nil
}

// M1Bars returns the latest count M1 bars for symbol as a JSON payload.
func (b *Bridge) M1Bars(symbol string, count int) (string, error) {
	return b.Eval(BarsRequest{Symbol: symbol, Count: count})
}

// OpenMarketBuy opens a market buy order for symbol with volume lots.
func (b *Bridge) OpenMarketBuy(symbol string, volume float64) (string, error) {
	return b.Eval(MarketBuyRequest{Symbol: symbol, Volume: volume})
}

func (b *Bridge) nativeError() string {
	if msg := b.call.LastError(); msg != "" {
		return msg
	}
	return fallbackError
}

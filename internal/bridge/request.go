package bridge

import "encoding/json"

// Request is a single operation forwarded through Eval. Each variant fixes
// the method discriminator the native dispatcher keys on.
type Request interface {
	json.Marshaler
	Method() string
}

// BarsRequest fetches the latest M1 bars for a symbol.
type BarsRequest struct {
	Symbol string
	Count  int
}

func (BarsRequest) Method() string { return "get_m1_bars" }

func (r BarsRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Method string `json:"method"`
		Symbol string `json:"symbol"`
		Count  int    `json:"count"`
	}{r.Method(), r.Symbol, r.Count})
}

// MarketBuyRequest opens a market buy order with a lot volume.
type MarketBuyRequest struct {
	Symbol string
	Volume float64
}

func (MarketBuyRequest) Method() string { return "open_market_buy" }

func (r MarketBuyRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Method string  `json:"method"`
		Symbol string  `json:"symbol"`
		Volume float64 `json:"volume"`
	}{r.Method(), r.Symbol, r.Volume})
}

// RawRequest forwards an arbitrary request for methods the binding does not
// model. The "method" member is still required by the native dispatcher.
type RawRequest map[string]any

func (r RawRequest) Method() string {
	method, _ := r["method"].(string)
	return method
}

func (r RawRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any(r))
}

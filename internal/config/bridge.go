// Package config also contains bridge-specific configuration surfaces.
package config

// Bridge locates the native trading library and the embedded runtime it boots.
type Bridge struct {
	Library    string `yaml:"library"`     // e.g. "mt5bridge.dll"
	PythonHome string `yaml:"python_home"` // runtime tree assembled by pyruntime
}

// Trade holds the demo trading parameters the trader feeds through the bridge.
type Trade struct {
	Symbol   string  `yaml:"symbol"`
	BarCount int     `yaml:"bar_count"`
	Volume   float64 `yaml:"volume"`
	PlaceBuy bool    `yaml:"place_buy"` // leave false unless the account is a demo
}

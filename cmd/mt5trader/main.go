// Binary mt5trader drives the native bridge end to end: initialize the
// embedded runtime, pull recent M1 bars, optionally place a market buy,
// then shut the bridge down.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"mt5bridge-go/internal/bridge"
	"mt5bridge-go/internal/config"
	"mt5bridge-go/internal/metrics"
	"mt5bridge-go/internal/util"
)

func main() {
	_ = godotenv.Load() // best-effort

	cfg, err := config.Load(getEnv("MT5BRIDGE_CONFIG", "internal/config/config.yaml"))
	if err != nil {
		fallback := util.NewLogger("info")
		fallback.Fatal().Err(err).Msg("load config")
	}
	log := util.NewLogger(cfg.App.LogLevel)

	_ = metrics.Serve(cfg.App.MetricsAddr)
	log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")

	caller, err := bridge.LoadLibrary(getEnv("MT5BRIDGE_LIBRARY", cfg.Bridge.Library))
	if err != nil {
		log.Fatal().Err(err).Msg("load bridge library")
	}

	br := bridge.New(caller, log)
	if err := br.Init(getEnv("MT5BRIDGE_PYTHON_HOME", cfg.Bridge.PythonHome)); err != nil {
		log.Fatal().Err(err).Msg("initialize bridge")
	}
	defer func() {
		if err := br.Close(); err != nil {
			log.Error().Err(err).Msg("shutdown bridge")
		}
	}()

	bars, err := br.M1Bars(cfg.Trade.Symbol, cfg.Trade.BarCount)
	if err != nil {
		log.Error().Err(err).Msg("fetch bars")
		return
	}
	log.Info().Str("symbol", cfg.Trade.Symbol).Int("bytes", len(bars)).Msg("fetched m1 bars")
	fmt.Println(bars)

	if !cfg.Trade.PlaceBuy {
		return
	}
	resp, err := br.OpenMarketBuy(cfg.Trade.Symbol, cfg.Trade.Volume)
	if err != nil {
		log.Error().Err(err).Msg("open market buy")
		return
	}
	log.Info().Str("symbol", cfg.Trade.Symbol).Float64("volume", cfg.Trade.Volume).Msg("order placed")
	fmt.Println(resp)
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

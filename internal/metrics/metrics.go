package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BridgeCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "bridge_calls_total", Help: "Requests forwarded to the native bridge"},
		[]string{"method"},
	)
	BridgeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "bridge_errors_total", Help: "Bridge requests that surfaced a native error"},
		[]string{"method"},
	)
	DownloadBytes = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "runtime_download_bytes_total", Help: "Bytes downloaded while assembling the runtime"},
	)
	ArchivesExtracted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "runtime_archives_total", Help: "Archives extracted into the runtime tree"},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(BridgeCalls, BridgeErrors, DownloadBytes, ArchivesExtracted)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}

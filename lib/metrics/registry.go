package metrics

import (
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-i2p/respool/version"
)

// DefaultLatencyBuckets are upper bounds suitable for in-process acquire
// latencies, from sub-millisecond up to multi-second stalls.
var DefaultLatencyBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// metric is the interface shared by all metric types.
type metric interface {
	prometheus() string
}

// Registry holds a set of named metrics.
type Registry struct {
	mu      sync.RWMutex
	metrics map[string]metric
}

// defaultRegistry receives every metric built with the New* constructors.
var defaultRegistry = &Registry{
	metrics: make(map[string]metric),
}

func (r *Registry) register(name string, m metric) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics[name] = m
}

// Expose returns all registered metrics in Prometheus exposition format,
// sorted by name for stable output.
func (r *Registry) Expose() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(r.metrics[name].prometheus())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Expose returns the default registry's metrics in exposition format.
func Expose() string {
	return defaultRegistry.Expose()
}

// Handler returns an http.Handler that exposes the default registry.
// Responses carry the build version so scrapes can tell deployments apart.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		w.Header().Set("X-Respool-Version", version.Full())
		w.Write([]byte(defaultRegistry.Expose()))
	})
}

package statsd

import (
	"sync"
	"time"
)

// Metric is one call recorded by Recorder.
type Metric struct {
	Kind  string // "count", "gauge" or "timing"
	Name  string
	Value float64
	Tags  map[string]string
}

// Recorder is an in-memory Sink for tests.
type Recorder struct {
	mu      sync.Mutex
	metrics []Metric
}

var _ Sink = (*Recorder)(nil)

func (r *Recorder) add(m Metric) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = append(r.metrics, m)
}

// Count records a counter.
func (r *Recorder) Count(name string, value int64, tags map[string]string) {
	r.add(Metric{Kind: "count", Name: name, Value: float64(value), Tags: cleanTags(tags)})
}

// Gauge records a gauge.
func (r *Recorder) Gauge(name string, value float64, tags map[string]string) {
	r.add(Metric{Kind: "gauge", Name: name, Value: value, Tags: cleanTags(tags)})
}

// Timing records a timing in milliseconds.
func (r *Recorder) Timing(name string, value time.Duration, tags map[string]string) {
	r.add(Metric{Kind: "timing", Name: name, Value: float64(value) / float64(time.Millisecond), Tags: cleanTags(tags)})
}

// Metrics returns a copy of everything recorded so far.
func (r *Recorder) Metrics() []Metric {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Metric(nil), r.metrics...)
}

// Find returns recorded metrics with the given name.
func (r *Recorder) Find(name string) []Metric {
	var out []Metric
	for _, m := range r.Metrics() {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

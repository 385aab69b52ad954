// Package metrics records worker run durations with an HDR histogram.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram bounds in milliseconds. A single course can take hours on
// the largest course size.
const (
	histogramMin     = 1
	histogramMax     = 24 * 60 * 60 * 1000
	histogramSigFigs = 3
)

// Timings collects worker durations per course size label.
//
// Timings is safe for concurrent use; HDR histograms are not, so every
// recording happens under mu.
type Timings struct {
	mu      sync.Mutex
	overall *hdrhistogram.Histogram
	byLabel map[string]*hdrhistogram.Histogram

	succeeded atomic.Int64
	failed    atomic.Int64
}

// NewTimings returns an empty recorder.
func NewTimings() *Timings {
	return &Timings{
		overall: hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
		byLabel: make(map[string]*hdrhistogram.Histogram),
	}
}

// Record adds one worker run.
func (t *Timings) Record(label string, d time.Duration, success bool) {
	ms := clamp(d.Milliseconds())

	t.mu.Lock()
	t.overall.RecordValue(ms)
	hist, ok := t.byLabel[label]
	if !ok {
		hist = hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs)
		t.byLabel[label] = hist
	}
	hist.RecordValue(ms)
	t.mu.Unlock()

	if success {
		t.succeeded.Add(1)
	} else {
		t.failed.Add(1)
	}
}

func clamp(ms int64) int64 {
	if ms < histogramMin {
		return histogramMin
	}
	if ms > histogramMax {
		return histogramMax
	}
	return ms
}

// Summary is a snapshot of recorded durations.
type Summary struct {
	Count     int64
	Succeeded int64
	Failed    int64
	Min       time.Duration
	Mean      time.Duration
	P50       time.Duration
	P95       time.Duration
	Max       time.Duration
}

// Summary returns the overall snapshot.
func (t *Timings) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := summarize(t.overall)
	s.Succeeded = t.succeeded.Load()
	s.Failed = t.failed.Load()
	return s
}

// SummaryFor returns the snapshot for one label, and false if nothing was
// recorded under it.
func (t *Timings) SummaryFor(label string) (Summary, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	hist, ok := t.byLabel[label]
	if !ok {
		return Summary{}, false
	}
	return summarize(hist), true
}

// Labels returns the labels that have recordings.
func (t *Timings) Labels() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	labels := make([]string, 0, len(t.byLabel))
	for label := range t.byLabel {
		labels = append(labels, label)
	}
	return labels
}

func summarize(h *hdrhistogram.Histogram) Summary {
	if h.TotalCount() == 0 {
		return Summary{}
	}
	return Summary{
		Count: h.TotalCount(),
		Min:   millis(h.Min()),
		Mean:  time.Duration(h.Mean() * float64(time.Millisecond)),
		P50:   millis(h.ValueAtQuantile(50)),
		P95:   millis(h.ValueAtQuantile(95)),
		Max:   millis(h.Max()),
	}
}

func millis(v int64) time.Duration {
	return time.Duration(v) * time.Millisecond
}

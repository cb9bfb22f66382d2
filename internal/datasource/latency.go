package datasource

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	minLatencyMicros = 1
	maxLatencyMicros = int64(5 * time.Minute / time.Microsecond)
	latencySigFigs   = 3
)

// LatencyRecorder tracks upstream round-trip times in microseconds.
type LatencyRecorder struct {
	mu       sync.Mutex
	hist     *hdrhistogram.Histogram
	failures int64
}

type LatencyStats struct {
	Requests int64         `json:"requests"`
	Failures int64         `json:"failures"`
	Mean     time.Duration `json:"mean"`
	P50      time.Duration `json:"p50"`
	P90      time.Duration `json:"p90"`
	P99      time.Duration `json:"p99"`
	Max      time.Duration `json:"max"`
}

func NewLatencyRecorder() *LatencyRecorder {
	return &LatencyRecorder{
		hist: hdrhistogram.New(minLatencyMicros, maxLatencyMicros, latencySigFigs),
	}
}

func (l *LatencyRecorder) Record(d time.Duration, err error) {
	micros := d.Microseconds()
	if micros < minLatencyMicros {
		micros = minLatencyMicros
	}
	if micros > maxLatencyMicros {
		micros = maxLatencyMicros
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// RecordValue only fails for values outside the trackable range,
	// which the clamp above rules out.
	_ = l.hist.RecordValue(micros)
	if err != nil {
		l.failures++
	}
}

func (l *LatencyRecorder) Snapshot() LatencyStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	micros := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }

	return LatencyStats{
		Requests: l.hist.TotalCount(),
		Failures: l.failures,
		Mean:     time.Duration(l.hist.Mean() * float64(time.Microsecond)),
		P50:      micros(l.hist.ValueAtQuantile(50)),
		P90:      micros(l.hist.ValueAtQuantile(90)),
		P99:      micros(l.hist.ValueAtQuantile(99)),
		Max:      micros(l.hist.Max()),
	}
}

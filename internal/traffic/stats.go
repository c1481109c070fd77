package traffic

import (
	"fmt"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeBadStatus
	OutcomeError
	OutcomeTimeout
)

// Latencies are tracked in microseconds up to a minute.
const (
	minLatencyMicros = 1
	maxLatencyMicros = int64(time.Minute / time.Microsecond)
	sigFigs          = 3
)

type Counts struct {
	Requests  int64
	OK        int64
	BadStatus int64
	Errors    int64
	Timeouts  int64
}

func (c *Counts) add(o Outcome) {
	c.Requests++
	switch o {
	case OutcomeOK:
		c.OK++
	case OutcomeBadStatus:
		c.BadStatus++
	case OutcomeTimeout:
		c.Timeouts++
		c.Errors++
	default:
		c.Errors++
	}
}

// Stats aggregates results for one target. A window restarts after every
// report; totals run for the whole session.
type Stats struct {
	mu          sync.Mutex
	started     time.Time
	windowStart time.Time
	total       Counts
	window      Counts
	latency     *hdrhistogram.Histogram
	windowLat   *hdrhistogram.Histogram
}

func NewStats(now time.Time) *Stats {
	return &Stats{
		started:     now,
		windowStart: now,
		latency:     hdrhistogram.New(minLatencyMicros, maxLatencyMicros, sigFigs),
		windowLat:   hdrhistogram.New(minLatencyMicros, maxLatencyMicros, sigFigs),
	}
}

func (s *Stats) Record(o Outcome, latency time.Duration) {
	micros := min(max(latency.Microseconds(), minLatencyMicros), maxLatencyMicros)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.total.add(o)
	s.window.add(o)
	// Values are clamped into range, so RecordValue cannot fail.
	_ = s.latency.RecordValue(micros)
	_ = s.windowLat.RecordValue(micros)
}

type Percentiles struct {
	P50 time.Duration
	P95 time.Duration
	P99 time.Duration
}

type Report struct {
	Target       string
	Window       Counts
	WindowLength time.Duration
	WindowLat    Percentiles
	Total        Counts
	TotalLength  time.Duration
	TotalLat     Percentiles
}

// Snapshot returns the current figures and starts a new window.
func (s *Stats) Snapshot(target string, now time.Time) Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := Report{
		Target:       target,
		Window:       s.window,
		WindowLength: now.Sub(s.windowStart),
		WindowLat:    percentiles(s.windowLat),
		Total:        s.total,
		TotalLength:  now.Sub(s.started),
		TotalLat:     percentiles(s.latency),
	}

	s.window = Counts{}
	s.windowStart = now
	s.windowLat.Reset()

	return r
}

func percentiles(h *hdrhistogram.Histogram) Percentiles {
	at := func(q float64) time.Duration {
		return time.Duration(h.ValueAtQuantile(q)) * time.Microsecond
	}
	return Percentiles{P50: at(50), P95: at(95), P99: at(99)}
}

func rate(n int64, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / d.Seconds()
}

func (r Report) String() string {
	return fmt.Sprintf(
		"target=%s window=%.1fs rps=%.2f ok=%d bad_status=%d err=%d timeouts=%d p50=%s p95=%s p99=%s | "+
			"total=%.1fs rps=%.2f req=%d ok=%d bad_status=%d err=%d timeouts=%d p50=%s p95=%s p99=%s",
		r.Target,
		r.WindowLength.Seconds(), rate(r.Window.Requests, r.WindowLength),
		r.Window.OK, r.Window.BadStatus, r.Window.Errors, r.Window.Timeouts,
		r.WindowLat.P50, r.WindowLat.P95, r.WindowLat.P99,
		r.TotalLength.Seconds(), rate(r.Total.Requests, r.TotalLength),
		r.Total.Requests, r.Total.OK, r.Total.BadStatus, r.Total.Errors, r.Total.Timeouts,
		r.TotalLat.P50, r.TotalLat.P95, r.TotalLat.P99,
	)
}

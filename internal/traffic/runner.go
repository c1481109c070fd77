package traffic

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nycnighthawk/otel-app-sample/internal/client"
)

var ProductQueries = []string{"", "a", "e", "lo", "ip", "alpha", "beta", "gamma"}

var productLimits = []int{10, 20, 50}

// Used when no product search has succeeded yet.
const fallbackMaxProductID = 5000

// Runner drives all workers for all targets.
type Runner struct {
	cfg     *Config
	clients []*client.ShopClient
	logf    func(format string, args ...any)
}

func NewRunner(cfg *Config, baseURLs []string, httpClient *http.Client) *Runner {
	clients := make([]*client.ShopClient, 0, len(baseURLs))
	for _, u := range baseURLs {
		clients = append(clients, client.NewShopClient(u, httpClient))
	}
	return &Runner{cfg: cfg, clients: clients, logf: log.Printf}
}

// Run generates traffic until ctx is done or cfg.Duration elapses, then
// returns a final report per target.
func (r *Runner) Run(ctx context.Context) ([]Report, error) {
	if len(r.clients) == 0 {
		return nil, errors.New("no targets")
	}

	if r.cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Duration)
		defer cancel()
	}

	g, ctx := errgroup.WithContext(ctx)
	targets := make([]*target, len(r.clients))
	for i, c := range r.clients {
		t := &target{
			cfg:    r.cfg,
			client: c,
			stats:  NewStats(time.Now()),
			logf:   r.logf,
		}
		targets[i] = t

		g.Go(func() error { return t.report(ctx) })
		if r.cfg.BadEvery > 0 {
			g.Go(func() error { return t.badLoop(ctx) })
		}
		for w := 0; w < r.cfg.WorkersPerTarget; w++ {
			seed := time.Now().UnixNano() + int64(i*r.cfg.WorkersPerTarget+w)
			g.Go(func() error { return t.work(ctx, rand.New(rand.NewSource(seed))) })
		}
	}

	err := g.Wait()

	reports := make([]Report, len(targets))
	for i, t := range targets {
		reports[i] = t.stats.Snapshot(t.client.BaseURL(), time.Now())
	}
	return reports, err
}

type target struct {
	cfg    *Config
	client *client.ShopClient
	stats  *Stats
	logf   func(format string, args ...any)

	mu         sync.Mutex
	productIDs []int64
}

func (t *target) report(ctx context.Context) error {
	ticker := time.NewTicker(t.cfg.ReportEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			t.logf("📊 %s", t.stats.Snapshot(t.client.BaseURL(), now))
		}
	}
}

func (t *target) badLoop(ctx context.Context) error {
	ticker := time.NewTicker(t.cfg.BadEvery)
	defer ticker.Stop()

	for {
		t.get(ctx, "/api/bad", t.cfg.TimeoutBad)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (t *target) work(ctx context.Context, rng *rand.Rand) error {
	for ctx.Err() == nil {
		t.step(ctx, rng)

		for i := 0; i < t.cfg.ExtraRandomHits && len(t.cfg.Paths) > 0; i++ {
			path := t.cfg.Paths[rng.Intn(len(t.cfg.Paths))]
			timeout := t.cfg.TimeoutNormal
			if strings.HasPrefix(path, "/api/bad") {
				timeout = t.cfg.TimeoutBad
			}
			t.get(ctx, path, timeout)
		}

		if !sleep(ctx, JitteredInterval(rng, t.cfg.QPSPerWorker)) {
			break
		}
	}
	return nil
}

// step issues one request of the main mix: mostly product searches, then
// order listings, then order placements.
func (t *target) step(ctx context.Context, rng *rand.Rand) {
	switch p := rng.Float64(); {
	case p < 0.6:
		q := ProductQueries[rng.Intn(len(ProductQueries))]
		limit := productLimits[rng.Intn(len(productLimits))]
		t.searchProducts(ctx, q, limit)
	case p < 0.85:
		t.get(ctx, "/api/orders", t.cfg.TimeoutNormal)
	default:
		email := fmt.Sprintf("user%d@example.com", 1+rng.Intn(999))
		t.placeOrder(ctx, email, t.pickProduct(rng), 1+rng.Intn(5))
	}
}

func (t *target) get(ctx context.Context, path string, timeout time.Duration) {
	t.timed(ctx, timeout, func(ctx context.Context) (int, error) {
		return t.client.Get(ctx, path)
	})
}

func (t *target) searchProducts(ctx context.Context, q string, limit int) {
	t.timed(ctx, t.cfg.TimeoutNormal, func(ctx context.Context) (int, error) {
		status, products, err := t.client.SearchProducts(ctx, q, limit)
		if err == nil && products != nil && len(products.Items) > 0 {
			ids := make([]int64, len(products.Items))
			for i, p := range products.Items {
				ids[i] = p.ID
			}
			t.mu.Lock()
			t.productIDs = ids
			t.mu.Unlock()
		}
		return status, err
	})
}

func (t *target) placeOrder(ctx context.Context, email string, productID int64, qty int) {
	t.timed(ctx, t.cfg.TimeoutNormal, func(ctx context.Context) (int, error) {
		return t.client.PlaceOrder(ctx, email, productID, qty)
	})
}

// pickProduct prefers ids seen in the latest search.
func (t *target) pickProduct(rng *rand.Rand) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.productIDs) == 0 {
		return 1 + rng.Int63n(fallbackMaxProductID)
	}
	return t.productIDs[rng.Intn(len(t.productIDs))]
}

// timed runs call under its own timeout and records the outcome. Requests
// cut short by shutdown are not counted.
func (t *target) timed(ctx context.Context, timeout time.Duration, call func(context.Context) (int, error)) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	status, err := call(reqCtx)
	elapsed := time.Since(start)

	if ctx.Err() != nil {
		return
	}
	t.stats.Record(Classify(status, err), elapsed)
}

// Classify maps a response to an outcome. 2xx and 3xx count as OK.
func Classify(status int, err error) Outcome {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	case err != nil:
		return OutcomeError
	case status >= 200 && status < 400:
		return OutcomeOK
	default:
		return OutcomeBadStatus
	}
}

// JitteredInterval is 1/qps scaled by a uniform factor in [0.7, 1.3).
func JitteredInterval(rng *rand.Rand, qps float64) time.Duration {
	if qps <= 0 {
		return 0
	}
	base := float64(time.Second) / qps
	return time.Duration(base * (0.7 + 0.6*rng.Float64()))
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

package scan

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/rmcnabb/farewatch/pkg/fare"
	"github.com/rmcnabb/farewatch/pkg/normalize"
	"github.com/rmcnabb/farewatch/pkg/observability"
	"github.com/rmcnabb/farewatch/pkg/provider"
)

// Runner executes scans against one provider.
//
// The Runner is stateless except for its collaborators - it doesn't store
// scan results. Multiple goroutines can safely share one Runner.
type Runner struct {
	Searcher   provider.Searcher
	Normalizer *normalize.Normalizer
	Logger     *log.Logger

	// Now overrides the scan start time, mainly for tests.
	Now func() time.Time
}

// NewRunner creates a runner over the given searcher. If normalizer is
// nil, one is built for the request currency at scan time.
func NewRunner(s provider.Searcher, n *normalize.Normalizer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Searcher: s, Normalizer: n, Logger: logger}
}

// Stats summarizes what one scan did.
type Stats struct {
	Queries    int            // queries planned
	Searched   int            // queries that reached the provider
	Failed     int            // queries that returned no payload
	Raw        int            // offers extracted before filtering
	Skipped    int            // payload items dropped during normalization
	Rejects    map[string]int // filter rejections by reason
	Duplicates int            // eligible offers removed by deduplication
}

// Result is the outcome of one scan.
type Result struct {
	RunID    string
	Started  time.Time
	Duration time.Duration
	Window   string

	// Offers are the surviving offers, deduplicated and ranked by price.
	Offers []fare.Offer

	// Months groups Offers into chronological month buckets.
	Months []fare.MonthBucket

	Stats Stats
}

// Run executes the full scan: expand, search, normalize, filter, dedupe,
// rank, group. Queries run concurrently up to req.Workers, but the result
// is deterministic for a given set of provider responses.
//
// An authentication failure on any query aborts the whole run; no partial
// result is returned for it.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	start := now()

	normalizer := r.Normalizer
	if normalizer == nil {
		normalizer = normalize.New(req.Currency, r.Logger)
	}
	filter := FilterFor(req)

	result := &Result{
		RunID:   uuid.NewString(),
		Started: start,
		Window:  req.Window(start),
		Stats:   Stats{Rejects: make(map[string]int)},
	}

	queries := req.Queries(start)
	result.Stats.Queries = len(queries)
	observability.Scan().OnScanStart(ctx, result.RunID, len(queries))
	r.Logger.Info("scan starting",
		"run", result.RunID,
		"routes", len(req.Routes),
		"queries", len(queries),
		"window", result.Window)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Per-query results are collected by enumeration index, not by
	// completion order, so downstream dedup ties and ranking never see
	// a worker-scheduling-dependent sequence.
	var (
		mu      sync.Mutex
		results = make([][]fare.Offer, len(queries))
		fatal   error
		wg      sync.WaitGroup
		jobs    = make(chan int)
	)

	worker := func() {
		defer wg.Done()
		for i := range jobs {
			if runCtx.Err() != nil {
				continue
			}
			offers, stats, err := r.execute(runCtx, normalizer, filter, queries[i])
			mu.Lock()
			result.Stats.merge(stats)
			if err != nil {
				if provider.IsAuth(err) && fatal == nil {
					fatal = err
					cancel()
				}
				mu.Unlock()
				continue
			}
			results[i] = offers
			mu.Unlock()
		}
	}

	wg.Add(req.Workers)
	for range req.Workers {
		go worker()
	}
	for i := range queries {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if fatal != nil {
		observability.Scan().OnScanComplete(ctx, result.RunID, 0, time.Since(start), fatal)
		return nil, fatal
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []fare.Offer
	for _, offers := range results {
		all = append(all, offers...)
	}

	deduped := fare.Dedupe(all)
	result.Stats.Duplicates = len(all) - len(deduped)
	fare.Rank(deduped)
	result.Offers = deduped
	result.Months = fare.GroupByMonth(deduped)
	result.Duration = time.Since(start)

	observability.Scan().OnScanComplete(ctx, result.RunID, len(deduped), result.Duration, nil)
	r.Logger.Info("scan complete",
		"run", result.RunID,
		"offers", len(deduped),
		"raw", result.Stats.Raw,
		"searched", result.Stats.Searched,
		"failed", result.Stats.Failed,
		"duration", result.Duration)
	return result, nil
}

// execute runs one query end to end: search, normalize, filter.
func (r *Runner) execute(ctx context.Context, n *normalize.Normalizer, f Filter, q provider.Query) ([]fare.Offer, Stats, error) {
	stats := Stats{Searched: 1, Rejects: make(map[string]int)}
	route := q.Origin + "-" + q.Destination

	observability.Scan().OnQueryStart(ctx, q.Origin, q.Destination)
	start := time.Now()

	payload, err := r.Searcher.Search(ctx, q)
	if err != nil {
		observability.Scan().OnQueryComplete(ctx, q.Origin, q.Destination, 0, time.Since(start), err)
		switch {
		case provider.IsAuth(err):
			r.Logger.Error("authentication failed, aborting scan", "route", route)
			return nil, stats, err
		case provider.IsNotFound(err):
			r.Logger.Debug("no fares", "route", route, "depart", q.DepartDate.Format(fare.DateLayout))
			return nil, stats, nil
		case provider.IsMalformed(err):
			stats.Failed = 1
			r.Logger.Warn("unparseable response", "route", route, "err", err)
			return nil, stats, nil
		default:
			stats.Failed = 1
			r.Logger.Warn("query failed", "route", route, "err", err)
			return nil, stats, nil
		}
	}

	offers, skipped := n.Normalize(q, payload)
	stats.Raw = len(offers)
	stats.Skipped = skipped

	var eligible []fare.Offer
	for _, o := range offers {
		ok, reason := f.Check(o)
		if !ok {
			stats.Rejects[reason]++
			continue
		}
		eligible = append(eligible, o)
	}

	observability.Scan().OnQueryComplete(ctx, q.Origin, q.Destination, len(eligible), time.Since(start), nil)
	if len(eligible) > 0 {
		r.Logger.Info("fares found",
			"route", route,
			"cabin", q.Cabin.Label(),
			"depart", q.DepartDate.Format(fare.DateLayout),
			"hits", len(eligible),
			"seen", len(offers))
	}
	return eligible, stats, nil
}

// merge folds one query's stats into the scan totals.
func (s *Stats) merge(other Stats) {
	s.Searched += other.Searched
	s.Failed += other.Failed
	s.Raw += other.Raw
	s.Skipped += other.Skipped
	for reason, n := range other.Rejects {
		s.Rejects[reason] += n
	}
}

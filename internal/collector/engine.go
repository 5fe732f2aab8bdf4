package collector

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Source is the full read surface the engine needs: name resolution plus
// per-host queries. *inventory.Client satisfies it.
type Source interface {
	Inventory
	Querier
}

// Engine resolves a selector into targets, fans out over them with a bounded
// worker pool and aggregates the per-host records into one collection per
// report kind. Hosts are independent; one host failing completely never
// affects another.
type Engine struct {
	src     Source
	fetcher *Fetcher
	workers int
}

func NewEngine(src Source, fetcher *Fetcher, workers int) *Engine {
	if workers <= 0 {
		workers = 1
	}
	return &Engine{src: src, fetcher: fetcher, workers: workers}
}

// Result is everything one run produced: collections per kind, the hosts
// that were skipped, and the selector names that matched nothing.
type Result struct {
	RunID       string                           `json:"run-id"`
	Collections map[ReportKind]*ReportCollection `json:"collections"`
	Skipped     []SkipEntry                      `json:"skipped,omitempty"`
	Warnings    []ResolutionWarning              `json:"warnings,omitempty"`
}

type hostResult struct {
	records []*Record
	skip    *SkipEntry
}

func (e *Engine) Run(ctx context.Context, sel Selector, kinds []ReportKind) (*Result, error) {
	for _, k := range kinds {
		if !k.Valid() {
			return nil, fmt.Errorf("unknown report kind %q", k)
		}
	}

	hosts, warnings, err := Resolve(ctx, sel, e.src)
	if err != nil {
		return nil, err
	}
	zap.S().Named("engine").Infof("resolved %d host(s), %d warning(s)", len(hosts), len(warnings))

	// Results land in a per-host slot, so output order always matches the
	// resolver's order no matter which worker finishes first.
	results := make([]hostResult, len(hosts))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				records, skip := e.fetcher.Fetch(ctx, hosts[i], kinds)
				results[i] = hostResult{records: records, skip: skip}
			}
		}()
	}

feed:
	for i := range hosts {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := aggregate(results, kinds)
	res.RunID = uuid.NewString()
	res.Warnings = warnings
	return res, nil
}

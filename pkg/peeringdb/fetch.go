package peeringdb

import (
	"context"
	"sync"

	"github.com/maxpfx-net/maxpfx/pkg/util"
)

// DefaultWorkers bounds concurrent registry lookups. PeeringDB rate-limits
// aggressive clients, so keep this modest.
const DefaultWorkers = 4

// FetchResult collects the outcome of a batch lookup. Lookups that failed
// (including not-found) land in Errors keyed by ASN; the caller decides
// which errors mean "skip" and which mean "abort".
type FetchResult struct {
	Counts map[uint32]Counts
	Errors map[uint32]error
}

// Fetch looks up every ASN with bounded concurrency. Peers are
// independent, so lookup order carries no meaning; the reconciliation
// engine preserves its own input order regardless.
func Fetch(ctx context.Context, src Source, asns []uint32, workers int) *FetchResult {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(asns) {
		workers = len(asns)
	}

	res := &FetchResult{
		Counts: make(map[uint32]Counts, len(asns)),
		Errors: make(map[uint32]error),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan uint32)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for asn := range jobs {
				counts, err := src.LookupASN(ctx, asn)
				mu.Lock()
				if err != nil {
					res.Errors[asn] = err
				} else {
					res.Counts[asn] = counts
				}
				mu.Unlock()
			}
		}()
	}

	for _, asn := range asns {
		select {
		case jobs <- asn:
		case <-ctx.Done():
			mu.Lock()
			res.Errors[asn] = ctx.Err()
			mu.Unlock()
		}
	}
	close(jobs)
	wg.Wait()

	util.Debugf("registry fetch: %d resolved, %d failed", len(res.Counts), len(res.Errors))
	return res
}

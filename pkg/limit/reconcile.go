package limit

import (
	"errors"
	"fmt"

	"github.com/maxpfx-net/maxpfx/pkg/util"
)

// Classification is the outcome of comparing a configured maximum with
// the registry-derived target. Exactly one applies per reconciled record.
type Classification string

const (
	// ClassUpdate — the registry implies a higher ceiling than configured.
	ClassUpdate Classification = "update"
	// ClassOK — configured maximum already equals the derived target.
	ClassOK Classification = "ok"
	// ClassException — the operator has deliberately configured a higher
	// maximum than the registry-derived figure. This happens when a peer
	// lets its registry entry go stale and the limit was raised by hand
	// to keep the session up. Never generate a command that would lower it.
	ClassException Classification = "exception"
)

// Result is one peer's reconciliation outcome.
type Result struct {
	Identity       PeerIdentity   `json:"identity"`
	Family         Family         `json:"family"`
	Current        CurrentLimit   `json:"current"`
	DeclaredCount  int            `json:"declared_count"`
	Derived        DerivedLimit   `json:"derived"`
	Classification Classification `json:"classification"`
}

// SkipReason explains why a record produced no reconciliation result.
type SkipReason string

const (
	SkipNoRegistryData SkipReason = "no registry data"
	SkipZeroDeclared   SkipReason = "zero declared count"
)

// Skip is a record excluded from reconciliation. Not an error — surfaced
// separately so peers are never silently dropped.
type Skip struct {
	Identity PeerIdentity `json:"identity"`
	Family   Family       `json:"family"`
	Reason   SkipReason   `json:"reason"`
}

// Reconcile applies the headroom model to every record and classifies
// each peer. Pure and order-preserving: results follow input order, one
// per record with registry data. Records without registry data (and,
// under ZeroSkip, records declaring zero routes) go to the skip list.
// Malformed input aborts the whole run.
func Reconcile(records []PeerRecord, model Model) ([]Result, []Skip, error) {
	if err := model.Validate(); err != nil {
		return nil, nil, fmt.Errorf("headroom model: %w", err)
	}

	var results []Result
	var skips []Skip
	for _, rec := range records {
		if err := rec.validate(); err != nil {
			return nil, nil, err
		}
		if rec.Registry == nil {
			skips = append(skips, Skip{Identity: rec.Identity, Family: rec.Family, Reason: SkipNoRegistryData})
			continue
		}

		derived, err := model.Derive(rec.Registry.DeclaredCount)
		if err != nil {
			if errors.Is(err, util.ErrZeroDeclared) {
				skips = append(skips, Skip{Identity: rec.Identity, Family: rec.Family, Reason: SkipZeroDeclared})
				continue
			}
			return nil, nil, fmt.Errorf("deriving limit for %s %s: %w", rec.Identity, rec.Family, err)
		}

		results = append(results, Result{
			Identity:       rec.Identity,
			Family:         rec.Family,
			Current:        rec.Current,
			DeclaredCount:  rec.Registry.DeclaredCount,
			Derived:        derived,
			Classification: classify(rec.Current.Maximum, derived.TargetMaximum),
		})
	}
	return results, skips, nil
}

// classify is a pure function of (configured maximum, derived target).
func classify(current, target int) Classification {
	switch {
	case current < target:
		return ClassUpdate
	case current > target:
		return ClassException
	default:
		return ClassOK
	}
}

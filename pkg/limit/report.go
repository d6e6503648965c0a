package limit

// Report groups reconciliation outcomes into the buckets an operator
// acts on. Peers already in sync are dropped — nothing to report.
type Report struct {
	// Changes are peers whose configured maximum must be raised.
	Changes []Result `json:"changes,omitempty"`
	// Exceptions are peers deliberately configured above the derived
	// target. Reported for visibility; never turned into statements.
	Exceptions []Result `json:"exceptions,omitempty"`
	// Skipped are peers with no usable registry data.
	Skipped []Skip `json:"skipped,omitempty"`
}

// Statement is the numeric payload for one configuration change.
// Rendering to vendor syntax is the presentation layer's concern.
type Statement struct {
	Identity        PeerIdentity `json:"identity"`
	Family          Family       `json:"family"`
	TargetMaximum   int          `json:"target_maximum"`
	TeardownPercent int          `json:"teardown_percent"`
}

// Assemble partitions results by classification, preserving order within
// each bucket.
func Assemble(results []Result, skips []Skip) *Report {
	r := &Report{Skipped: skips}
	for _, res := range results {
		switch res.Classification {
		case ClassUpdate:
			r.Changes = append(r.Changes, res)
		case ClassException:
			r.Exceptions = append(r.Exceptions, res)
		}
	}
	return r
}

// IsEmpty returns true when no bucket has entries.
func (r *Report) IsEmpty() bool {
	return len(r.Changes) == 0 && len(r.Exceptions) == 0 && len(r.Skipped) == 0
}

// Statements returns one change payload per entry in the changes bucket.
// Exceptions produce none: lowering a deliberately-raised limit is never
// suggested.
func (r *Report) Statements() []Statement {
	stmts := make([]Statement, 0, len(r.Changes))
	for _, c := range r.Changes {
		stmts = append(stmts, Statement{
			Identity:        c.Identity,
			Family:          c.Family,
			TargetMaximum:   c.Derived.TargetMaximum,
			TeardownPercent: c.Derived.TeardownPercent,
		})
	}
	return stmts
}

// Package limit implements the prefix-limit reconciliation core: the
// headroom model, peer records joining router config with registry data,
// the reconciliation engine, and the report assembler. Everything in this
// package is pure — no I/O, no state between calls.
package limit

import (
	"fmt"
	"math"
	"strconv"

	"github.com/maxpfx-net/maxpfx/pkg/util"
)

// DefaultTeardownPercent is the threshold at which the router starts
// logging warnings about a peer approaching its maximum. Teardown is
// disruptive, so the default leaves generous margin.
const DefaultTeardownPercent = 80

// ZeroPolicy decides what Derive does with a declared count of zero,
// where the digit-count scaling is undefined.
type ZeroPolicy string

const (
	// ZeroSkip refuses derivation; the caller routes the peer to the
	// skipped bucket.
	ZeroSkip ZeroPolicy = "skip"
	// ZeroAsOne treats a zero count as a single route (digit-count 1).
	ZeroAsOne ZeroPolicy = "as-one"
)

// Model holds the headroom policy knobs. The zero value is not usable;
// construct with DefaultModel and override fields as needed.
type Model struct {
	// TeardownPercent is emitted with every derived limit, in [1,100].
	TeardownPercent int
	// ClampMultiplier floors the multiplier at 1.0. Without the clamp,
	// declared counts above six digits derive a target below the declared
	// count itself.
	ClampMultiplier bool
	// ZeroPolicy selects the handling of declaredCount == 0.
	ZeroPolicy ZeroPolicy
}

// DefaultModel returns the standard policy: 80% teardown, clamped
// multiplier, zero counts skipped.
func DefaultModel() Model {
	return Model{
		TeardownPercent: DefaultTeardownPercent,
		ClampMultiplier: true,
		ZeroPolicy:      ZeroSkip,
	}
}

// Validate checks the model configuration.
func (m Model) Validate() error {
	var v util.ValidationBuilder
	v.Add(m.TeardownPercent >= 1 && m.TeardownPercent <= 100,
		fmt.Sprintf("teardown percent %d outside [1,100]", m.TeardownPercent))
	v.Add(m.ZeroPolicy == ZeroSkip || m.ZeroPolicy == ZeroAsOne,
		fmt.Sprintf("unknown zero policy %q", m.ZeroPolicy))
	return v.Build()
}

// DerivedLimit is the headroom-adjusted target for one declared count.
type DerivedLimit struct {
	TargetMaximum   int     `json:"target_maximum"`
	TeardownPercent int     `json:"teardown_percent"`
	Multiplier      float64 `json:"multiplier"`
}

// Derive computes the headroom-adjusted limit for a declared prefix count.
//
// The multiplier scales inversely with the magnitude of the count: a peer
// declaring 10 routes gets 40% headroom, a peer declaring 10000 gets 10%.
// m = (6 - digits)/10 + 1, targetMaximum = round-half-up(count * m).
//
// A zero count returns util.ErrZeroDeclared under ZeroSkip; a negative
// count is always an error.
func (m Model) Derive(declaredCount int) (DerivedLimit, error) {
	if declaredCount < 0 {
		return DerivedLimit{}, fmt.Errorf("declared count %d: %w", declaredCount, util.ErrInvalidInput)
	}
	if declaredCount == 0 {
		if m.ZeroPolicy == ZeroAsOne {
			// A zero-route network is treated as declaring one route.
			return m.derive(1, 1), nil
		}
		return DerivedLimit{}, util.ErrZeroDeclared
	}
	return m.derive(declaredCount, len(strconv.Itoa(declaredCount))), nil
}

func (m Model) derive(declaredCount, digits int) DerivedLimit {
	mult := float64(6-digits)/10 + 1
	if m.ClampMultiplier && mult < 1.0 {
		mult = 1.0
	}
	return DerivedLimit{
		TargetMaximum:   int(math.Floor(float64(declaredCount)*mult + 0.5)),
		TeardownPercent: m.TeardownPercent,
		Multiplier:      mult,
	}
}

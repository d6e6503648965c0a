package peeringdb

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/maxpfx-net/maxpfx/pkg/util"
)

// sourceFunc adapts a function to the Source interface.
type sourceFunc func(ctx context.Context, asn uint32) (Counts, error)

func (f sourceFunc) LookupASN(ctx context.Context, asn uint32) (Counts, error) {
	return f(ctx, asn)
}

func TestFetch(t *testing.T) {
	src := sourceFunc(func(ctx context.Context, asn uint32) (Counts, error) {
		switch asn {
		case 65501:
			return Counts{Prefixes4: 4000, Prefixes6: 200}, nil
		case 65502:
			return Counts{}, fmt.Errorf("AS%d: %w", asn, util.ErrASNNotFound)
		default:
			return Counts{Prefixes4: 10}, nil
		}
	})

	res := Fetch(context.Background(), src, []uint32{65501, 65502, 65503}, 2)
	if len(res.Counts) != 2 {
		t.Errorf("Counts = %v", res.Counts)
	}
	if res.Counts[65501].Prefixes4 != 4000 {
		t.Errorf("AS65501 counts = %+v", res.Counts[65501])
	}
	if !errors.Is(res.Errors[65502], util.ErrASNNotFound) {
		t.Errorf("AS65502 error = %v", res.Errors[65502])
	}
}

func TestFetchBoundedConcurrency(t *testing.T) {
	var inFlight, peak int32
	src := sourceFunc(func(ctx context.Context, asn uint32) (Counts, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		defer atomic.AddInt32(&inFlight, -1)
		return Counts{}, nil
	})

	asns := make([]uint32, 50)
	for i := range asns {
		asns[i] = uint32(64500 + i)
	}
	Fetch(context.Background(), src, asns, 3)

	if p := atomic.LoadInt32(&peak); p > 3 {
		t.Errorf("peak concurrency %d exceeds worker bound 3", p)
	}
}

func TestFetchEmpty(t *testing.T) {
	res := Fetch(context.Background(), sourceFunc(func(ctx context.Context, asn uint32) (Counts, error) {
		t.Error("source should not be called")
		return Counts{}, nil
	}), nil, 4)
	if len(res.Counts) != 0 || len(res.Errors) != 0 {
		t.Errorf("empty input: %+v", res)
	}
}

package limit

import (
	"errors"
	"testing"

	"github.com/maxpfx-net/maxpfx/pkg/util"
)

func TestDerive(t *testing.T) {
	model := DefaultModel()

	tests := []struct {
		name     string
		declared int
		wantMax  int
		wantMult float64
	}{
		{"two digits", 10, 14, 1.4},
		{"five digits", 10000, 11000, 1.1},
		{"one digit", 7, 11, 1.5}, // 7*1.5 = 10.5 rounds up
		{"three digits", 200, 260, 1.3},
		{"four digits", 4000, 4800, 1.2},
		{"six digits", 100000, 100000, 1.0},
		{"seven digits clamped", 1000000, 1000000, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.Derive(tt.declared)
			if err != nil {
				t.Fatalf("Derive(%d): %v", tt.declared, err)
			}
			if got.TargetMaximum != tt.wantMax {
				t.Errorf("Derive(%d).TargetMaximum = %d, want %d", tt.declared, got.TargetMaximum, tt.wantMax)
			}
			if got.Multiplier != tt.wantMult {
				t.Errorf("Derive(%d).Multiplier = %v, want %v", tt.declared, got.Multiplier, tt.wantMult)
			}
			if got.TeardownPercent != DefaultTeardownPercent {
				t.Errorf("Derive(%d).TeardownPercent = %d, want %d", tt.declared, got.TeardownPercent, DefaultTeardownPercent)
			}
		})
	}
}

func TestDeriveUnclamped(t *testing.T) {
	model := DefaultModel()
	model.ClampMultiplier = false

	// Seven digits: m = (6-7)/10 + 1 = 0.9 — literal formula yields a
	// target below the declared count.
	got, err := model.Derive(1000000)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if got.Multiplier != 0.9 {
		t.Errorf("Multiplier = %v, want 0.9", got.Multiplier)
	}
	if got.TargetMaximum != 900000 {
		t.Errorf("TargetMaximum = %d, want 900000", got.TargetMaximum)
	}
}

func TestDeriveHeadroomProperty(t *testing.T) {
	// For any count up to six digits the target must not be below the
	// declared count.
	model := DefaultModel()
	for _, count := range []int{1, 9, 10, 99, 500, 9999, 54321, 999999} {
		got, err := model.Derive(count)
		if err != nil {
			t.Fatalf("Derive(%d): %v", count, err)
		}
		if got.TargetMaximum < count {
			t.Errorf("Derive(%d).TargetMaximum = %d < declared count", count, got.TargetMaximum)
		}
	}
}

func TestDeriveClampedFloorProperty(t *testing.T) {
	// With the clamp, the headroom property extends to any magnitude.
	model := DefaultModel()
	for _, count := range []int{1000000, 12345678, 900000000} {
		got, err := model.Derive(count)
		if err != nil {
			t.Fatalf("Derive(%d): %v", count, err)
		}
		if got.TargetMaximum < count {
			t.Errorf("clamped Derive(%d).TargetMaximum = %d < declared count", count, got.TargetMaximum)
		}
	}
}

func TestDeriveZeroSkip(t *testing.T) {
	model := DefaultModel()
	_, err := model.Derive(0)
	if !errors.Is(err, util.ErrZeroDeclared) {
		t.Errorf("Derive(0) under ZeroSkip: got %v, want ErrZeroDeclared", err)
	}
}

func TestDeriveZeroAsOne(t *testing.T) {
	model := DefaultModel()
	model.ZeroPolicy = ZeroAsOne
	got, err := model.Derive(0)
	if err != nil {
		t.Fatalf("Derive(0) under ZeroAsOne: %v", err)
	}
	// Treated as one declared route: 1 * 1.5 = 1.5 → 2.
	if got.TargetMaximum != 2 {
		t.Errorf("TargetMaximum = %d, want 2", got.TargetMaximum)
	}
}

func TestDeriveNegative(t *testing.T) {
	model := DefaultModel()
	_, err := model.Derive(-1)
	if !errors.Is(err, util.ErrInvalidInput) {
		t.Errorf("Derive(-1): got %v, want ErrInvalidInput", err)
	}
}

func TestDeriveDeterministic(t *testing.T) {
	model := DefaultModel()
	first, err := model.Derive(4321)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := model.Derive(4321)
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("Derive not deterministic: %+v vs %+v", again, first)
		}
	}
}

func TestModelValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Model)
		wantErr bool
	}{
		{"default ok", func(m *Model) {}, false},
		{"teardown zero", func(m *Model) { m.TeardownPercent = 0 }, true},
		{"teardown over 100", func(m *Model) { m.TeardownPercent = 101 }, true},
		{"teardown boundary low", func(m *Model) { m.TeardownPercent = 1 }, false},
		{"teardown boundary high", func(m *Model) { m.TeardownPercent = 100 }, false},
		{"bad zero policy", func(m *Model) { m.ZeroPolicy = "explode" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DefaultModel()
			tt.mutate(&m)
			err := m.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

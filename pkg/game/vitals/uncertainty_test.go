package vitals

import (
	"errors"
	"math"
	"testing"

	"tokenvitals/pkg/engine/gamelog"
)

func silenceLog(t *testing.T) {
	t.Helper()
	prev := gamelog.SetSink(func(gamelog.Entry) {})
	t.Cleanup(func() { gamelog.SetSink(prev) })
}

// fixedProvider returns a fixed config, optionally failing.
type fixedProvider struct {
	cfg AcuityConfig
	err error
}

func (p *fixedProvider) AcuityConfig() (AcuityConfig, error) {
	return p.cfg, p.err
}

func TestDisplayValueDeterministic(t *testing.T) {
	c := NewUncertaintyCache(nil)

	first := c.DisplayValue("tok1", "userA", 7, 0.35, 10)
	for i := 0; i < 10; i++ {
		got := c.DisplayValue("tok1", "userA", 7, 0.35, 10)
		if got.Displayed != first.Displayed {
			t.Fatalf("call %d: Displayed = %v, want %v (stable across calls)", i, got.Displayed, first.Displayed)
		}
	}

	// Clearing and recomputing with identical inputs reproduces the same
	// value: the offset comes from the hash, not from stored state.
	c.ClearAll()
	got := c.DisplayValue("tok1", "userA", 7, 0.35, 10)
	if got.Displayed != first.Displayed {
		t.Errorf("Displayed after clear = %v, want %v", got.Displayed, first.Displayed)
	}
}

func TestStickyNoiseUntilActualChanges(t *testing.T) {
	c := NewUncertaintyCache(nil)

	first := c.DisplayValue("tok1", "userA", 7, 0.35, 10)

	// Same actual value: the cached record is reused even if the other
	// inputs drift (the noise stays stuck until the value changes).
	same := c.DisplayValue("tok1", "userA", 7, 0.9, 30)
	if same != first {
		t.Fatalf("record recomputed while actual unchanged: %+v vs %+v", same, first)
	}

	changed := c.DisplayValue("tok1", "userA", 6, 0.30, 10)
	if changed.Actual != 6 {
		t.Errorf("Actual = %v, want 6 after change", changed.Actual)
	}
	if changed == first {
		t.Error("record not recomputed after actual changed")
	}
}

func TestObserversAreIndependent(t *testing.T) {
	c := NewUncertaintyCache(nil)

	a := c.DisplayValue("tok1", "userA", 7, 0.35, 10)
	b := c.DisplayValue("tok1", "userB", 7, 0.35, 10)

	// Same token and value: the hash input is identical, so both see the
	// same displayed value, but through separate records.
	if a.Displayed != b.Displayed {
		t.Errorf("observers diverged on identical inputs: %v vs %v", a.Displayed, b.Displayed)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2 records", c.Len())
	}
}

func TestMonotonicAcuityEffect(t *testing.T) {
	cfg := DefaultAcuityConfig()

	prev := math.Inf(1)
	for _, acuity := range []float64{0, 5, 10, 15, 20, 25, 30} {
		m := uncertaintyMagnitude(cfg, acuity)
		if m > prev {
			t.Fatalf("magnitude increased with acuity: %v at acuity %v (prev %v)", m, acuity, prev)
		}
		if m < cfg.Floor || m > cfg.Ceiling {
			t.Fatalf("magnitude %v outside [%v, %v]", m, cfg.Floor, cfg.Ceiling)
		}
		prev = m
	}
}

func TestMagnitudeClamping(t *testing.T) {
	cfg := DefaultAcuityConfig()

	if m := uncertaintyMagnitude(cfg, cfg.BaseAcuity); m != cfg.Ceiling {
		t.Errorf("magnitude at base acuity = %v, want ceiling %v", m, cfg.Ceiling)
	}
	if m := uncertaintyMagnitude(cfg, 1e9); m != cfg.Floor {
		t.Errorf("magnitude at huge acuity = %v, want floor %v", m, cfg.Floor)
	}
	if m := uncertaintyMagnitude(cfg, -1e9); m != cfg.Ceiling {
		t.Errorf("magnitude at tiny acuity = %v, want ceiling %v", m, cfg.Ceiling)
	}
	if m := uncertaintyMagnitude(cfg, math.NaN()); m != cfg.Ceiling {
		t.Errorf("magnitude at NaN acuity = %v, want base behaviour %v", m, cfg.Ceiling)
	}
}

func TestDisplayValueRange(t *testing.T) {
	c := NewUncertaintyCache(nil)

	// Default config at base acuity gives magnitude 0.30, so the result
	// stays within base ± 0.30.
	rec := c.DisplayValue("tok1", "userA", 7, 0.35, 10)
	if rec.Displayed < 0.05 || rec.Displayed > 0.65 {
		t.Errorf("Displayed = %v, want within [0.05, 0.65]", rec.Displayed)
	}
	if rec.Actual != 7 {
		t.Errorf("Actual = %v, want 7", rec.Actual)
	}
}

func TestAliveFloor(t *testing.T) {
	c := NewUncertaintyCache(nil)

	// A positive actual value never displays at zero, whatever the hash
	// offset does to a near-zero base ratio.
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		rec := c.DisplayValue(id, "userA", 1, 0.0, 10)
		if rec.Displayed < minVisibleRatio {
			t.Errorf("token %s: Displayed = %v, want >= %v while alive", id, rec.Displayed, minVisibleRatio)
		}
	}

	// Zero actual has no floor.
	rec := c.DisplayValue("dead", "userA", 0, 0.0, 10)
	if rec.Displayed != 0 {
		t.Errorf("Displayed = %v for dead token, want 0", rec.Displayed)
	}
}

func TestDisplayValueClampedToUnit(t *testing.T) {
	c := NewUncertaintyCache(nil)

	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		high := c.DisplayValue(id, "u", 99, 0.99, 0)
		if high.Displayed > 1 {
			t.Errorf("token %s: Displayed = %v, want <= 1", id, high.Displayed)
		}
		low := c.DisplayValue(id+"-low", "u", 0, 0.01, 0)
		if low.Displayed < 0 {
			t.Errorf("token %s: Displayed = %v, want >= 0", id, low.Displayed)
		}
	}
}

func TestClearToken(t *testing.T) {
	c := NewUncertaintyCache(nil)

	c.DisplayValue("tok1", "userA", 7, 0.5, 10)
	c.DisplayValue("tok1", "userB", 7, 0.5, 10)
	c.DisplayValue("tok2", "userA", 3, 0.5, 10)

	c.ClearToken("tok1")

	if c.Len() != 1 {
		t.Errorf("Len = %d after ClearToken, want 1", c.Len())
	}

	// tok2 survives untouched.
	rec := c.DisplayValue("tok2", "userA", 3, 0.99, 30)
	if rec.Actual != 3 {
		t.Errorf("tok2 record lost: %+v", rec)
	}

	// Clearing an unknown token is a no-op.
	c.ClearToken("missing")
}

func TestClearAll(t *testing.T) {
	c := NewUncertaintyCache(nil)

	c.DisplayValue("tok1", "userA", 7, 0.5, 10)
	c.DisplayValue("tok2", "userA", 3, 0.5, 10)
	c.ClearAll()

	if c.Len() != 0 {
		t.Errorf("Len = %d after ClearAll, want 0", c.Len())
	}
}

func TestProviderErrorFallsBackToDefaults(t *testing.T) {
	silenceLog(t)

	failing := NewUncertaintyCache(&fixedProvider{err: errors.New("settings unavailable")})
	defaults := NewUncertaintyCache(nil)

	a := failing.DisplayValue("tok1", "userA", 7, 0.35, 10)
	b := defaults.DisplayValue("tok1", "userA", 7, 0.35, 10)
	if a != b {
		t.Errorf("failing provider produced %+v, want default behaviour %+v", a, b)
	}
}

func TestProviderBadNumbersFallBackToDefaults(t *testing.T) {
	silenceLog(t)

	bad := NewUncertaintyCache(&fixedProvider{cfg: AcuityConfig{
		BaseAcuity: math.NaN(),
		Ceiling:    -1,
	}})
	defaults := NewUncertaintyCache(nil)

	a := bad.DisplayValue("tok1", "userA", 7, 0.35, 10)
	b := defaults.DisplayValue("tok1", "userA", 7, 0.35, 10)
	if a != b {
		t.Errorf("bad provider produced %+v, want default behaviour %+v", a, b)
	}
}

func TestCustomProviderIsUsed(t *testing.T) {
	// Zero scale keeps the magnitude at the ceiling for any acuity.
	p := &fixedProvider{cfg: AcuityConfig{
		BaseAcuity: 0,
		MinAcuity:  0,
		MaxAcuity:  100,
		Scale:      0,
		Ceiling:    0.5,
		Floor:      0.5,
	}}
	c := NewUncertaintyCache(p)

	low := c.DisplayValue("tok1", "a", 7, 0.5, 0)
	high := c.DisplayValue("tok1", "b", 7, 0.5, 100)
	if low.Displayed != high.Displayed {
		t.Errorf("constant-magnitude config: %v vs %v, want equal", low.Displayed, high.Displayed)
	}
}

func TestHash01Properties(t *testing.T) {
	a := hash01("tok1", 7)
	b := hash01("tok1", 7)
	if a != b {
		t.Fatalf("hash01 not stable: %v vs %v", a, b)
	}
	if a < 0 || a >= 1 {
		t.Fatalf("hash01 = %v, want in [0,1)", a)
	}

	if hash01("tok1", 7) == hash01("tok2", 7) {
		t.Error("different tokens hashed identically")
	}
	if hash01("tok1", 7) == hash01("tok1", 8) {
		t.Error("different values hashed identically")
	}
}

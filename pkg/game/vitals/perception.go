// Package vitals computes what a health indicator should look like for a
// given observer: the obfuscated fill ratio (uncertainty cache) and the arc
// layout around the token (geometry cache).
package vitals

import (
	"math"

	"tokenvitals/pkg/engine/gamelog"
)

// AcuityConfig holds the perception thresholds used to size the
// uncertainty magnitude. All values are plain numeric reads; this
// subsystem never writes them back.
type AcuityConfig struct {
	BaseAcuity float64 // acuity at which uncertainty sits at its ceiling
	MinAcuity  float64
	MaxAcuity  float64
	Scale      float64 // uncertainty shed per acuity point above base
	Ceiling    float64 // maximum uncertainty magnitude
	Floor      float64 // minimum uncertainty magnitude
}

// AcuityProvider supplies the current perception configuration. Returning
// an error (or unusable numbers) makes the caches fall back to defaults.
type AcuityProvider interface {
	AcuityConfig() (AcuityConfig, error)
}

// DefaultAcuityConfig returns the hard-coded fallback thresholds used when
// no provider is available.
func DefaultAcuityConfig() AcuityConfig {
	return AcuityConfig{
		BaseAcuity: 10,
		MinAcuity:  0,
		MaxAcuity:  30,
		Scale:      0.01,
		Ceiling:    0.30,
		Floor:      0.05,
	}
}

// resolveConfig reads the provider, substituting defaults when it is
// absent, failing, or returning numbers that cannot drive the formula.
func resolveConfig(p AcuityProvider) AcuityConfig {
	if p == nil {
		return DefaultAcuityConfig()
	}
	cfg, err := p.AcuityConfig()
	if err != nil {
		gamelog.Log(gamelog.LevelWarn, "acuity provider unavailable, using defaults", map[string]any{"err": err.Error()})
		return DefaultAcuityConfig()
	}
	if !usableConfig(cfg) {
		gamelog.Log(gamelog.LevelWarn, "acuity provider returned unusable config, using defaults", nil)
		return DefaultAcuityConfig()
	}
	return cfg
}

func usableConfig(c AcuityConfig) bool {
	for _, v := range []float64{c.BaseAcuity, c.MinAcuity, c.MaxAcuity, c.Scale, c.Ceiling, c.Floor} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return c.Ceiling > 0 && c.Floor >= 0 && c.Floor <= c.Ceiling && c.Scale >= 0
}

// uncertaintyMagnitude shrinks linearly as acuity rises above the
// baseline, clamped to the configured floor and ceiling. Raising acuity
// never increases the result.
func uncertaintyMagnitude(cfg AcuityConfig, acuity float64) float64 {
	if math.IsNaN(acuity) {
		acuity = cfg.BaseAcuity
	}
	if acuity < cfg.MinAcuity {
		acuity = cfg.MinAcuity
	}
	if acuity > cfg.MaxAcuity {
		acuity = cfg.MaxAcuity
	}

	m := cfg.Ceiling - (acuity-cfg.BaseAcuity)*cfg.Scale
	if m < cfg.Floor {
		m = cfg.Floor
	}
	if m > cfg.Ceiling {
		m = cfg.Ceiling
	}
	return m
}

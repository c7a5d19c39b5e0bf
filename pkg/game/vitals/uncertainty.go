package vitals

import (
	"hash/fnv"
	"strconv"

	"github.com/zyedidia/generic/mapset"
)

// minVisibleRatio is the sliver floor: a token that is actually alive is
// never displayed at exactly zero.
const minVisibleRatio = 0.01

// UncertaintyRecord pairs the authoritative value with the obfuscated
// ratio shown to one observer.
type UncertaintyRecord struct {
	Actual    float64
	Displayed float64 // 0..1
}

// UncertaintyCache produces a stable obfuscated fill ratio per
// (token, observer) pair. The pseudo-random offset is derived from the
// token id and the authoritative value, so the displayed ratio only moves
// when the authoritative value does: redraws of an unchanged value never
// flicker, and the noise stays put until the value changes.
type UncertaintyCache struct {
	provider AcuityProvider
	records  map[string]UncertaintyRecord
	// observers tracks which cache keys belong to each token so a token
	// removal can drop all of its observer records without a full scan.
	observers map[string]mapset.Set[string]
}

// NewUncertaintyCache creates an empty cache. The provider may be nil, in
// which case hard-coded defaults apply.
func NewUncertaintyCache(p AcuityProvider) *UncertaintyCache {
	return &UncertaintyCache{
		provider:  p,
		records:   make(map[string]UncertaintyRecord),
		observers: make(map[string]mapset.Set[string]),
	}
}

// DisplayValue returns the record for the pair, reusing the previous
// output unless the authoritative value changed since the last call.
func (c *UncertaintyCache) DisplayValue(tokenID, observerID string, actual, baseRatio, acuity float64) UncertaintyRecord {
	key := tokenID + "\x00" + observerID
	if rec, ok := c.records[key]; ok && rec.Actual == actual {
		return rec
	}

	cfg := resolveConfig(c.provider)
	magnitude := uncertaintyMagnitude(cfg, acuity)
	offset := (2*hash01(tokenID, actual) - 1) * magnitude

	displayed := baseRatio + offset
	if displayed < 0 {
		displayed = 0
	}
	if displayed > 1 {
		displayed = 1
	}
	if actual > 0 && displayed < minVisibleRatio {
		displayed = minVisibleRatio
	}

	rec := UncertaintyRecord{Actual: actual, Displayed: displayed}
	c.records[key] = rec

	set, ok := c.observers[tokenID]
	if !ok {
		set = mapset.New[string]()
		c.observers[tokenID] = set
	}
	set.Put(key)

	return rec
}

// ClearToken removes all observer records for a token, e.g. when the
// token is destroyed.
func (c *UncertaintyCache) ClearToken(tokenID string) {
	set, ok := c.observers[tokenID]
	if !ok {
		return
	}
	set.Each(func(key string) {
		delete(c.records, key)
	})
	delete(c.observers, tokenID)
}

// ClearAll empties the cache, e.g. on a settings change that affects the
// acuity formula.
func (c *UncertaintyCache) ClearAll() {
	c.records = make(map[string]UncertaintyRecord)
	c.observers = make(map[string]mapset.Set[string])
}

// Len returns the number of cached (token, observer) records.
func (c *UncertaintyCache) Len() int {
	return len(c.records)
}

// hash01 maps (tokenID, actual) to a uniform value in [0,1). FNV-1a is
// fast and stable across calls within a session, which is all the noise
// needs; same inputs always yield the same offset.
func hash01(tokenID string, actual float64) float64 {
	h := fnv.New64a()
	h.Write([]byte(tokenID))
	h.Write([]byte{':'})
	h.Write([]byte(strconv.FormatFloat(actual, 'g', -1, 64)))
	// Top 53 bits give a full-precision float in [0,1).
	return float64(h.Sum64()>>11) / (1 << 53)
}

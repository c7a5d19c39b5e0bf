package vitals

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"tokenvitals/pkg/engine/gamelog"
)

// Arc layout constants. The indicator is a three-quarter ring opening
// downward, drawn just outside the token body.
const (
	arcStartAngle = 3 * math.Pi / 4 // 135 degrees
	arcSweep      = 3 * math.Pi / 2 // 270 degrees

	baseStrokeWidth = 6.0
	radiusOffset    = 4.0

	geometryTTL    = 30 * time.Second
	sweepThreshold = 128
	sweepChance    = 0.1
)

// ArcGeometry describes the indicator ring for one token.
type ArcGeometry struct {
	Radius      float64
	StrokeWidth float64
	AngleStart  float64
	AngleEnd    float64
}

// GeometryRecord is the cached spatial layout for a token.
type GeometryRecord struct {
	TokenID     string
	BaseWidth   float64
	BaseHeight  float64
	ScaleX      float64
	ScaleY      float64
	Arc         ArcGeometry
	LastUpdated time.Time
}

// Drawable is the geometry cache's view of a token: its display
// dimensions, which change rarely.
type Drawable interface {
	VitalsID() string
	TextureSize() (w, h float64)
	RenderScale() (sx, sy float64)
	RenderedSize() (w, h float64)
}

// GeometryCache memoizes per-token arc layout. Entries are reused
// unconditionally once computed; staleness is handled by an opportunistic
// TTL sweep that runs with low probability once the cache grows past a
// size threshold, keeping steady-state cost near O(1) per call.
type GeometryCache struct {
	records map[string]GeometryRecord

	// Injectable clock and sweep dice for deterministic tests.
	now  func() time.Time
	dice func() float64
}

// NewGeometryCache creates an empty cache on the wall clock.
func NewGeometryCache() *GeometryCache {
	return &GeometryCache{
		records: make(map[string]GeometryRecord),
		now:     time.Now,
		dice:    rand.Float64,
	}
}

// NewGeometryCacheWithClock creates a cache with an injectable clock and
// sweep dice. Tests use it to force or suppress the opportunistic sweep.
func NewGeometryCacheWithClock(now func() time.Time, dice func() float64) *GeometryCache {
	c := NewGeometryCache()
	if now != nil {
		c.now = now
	}
	if dice != nil {
		c.dice = dice
	}
	return c
}

// Get returns the cached record for the token, computing it on a miss.
// On any computation error it returns a deterministic fallback derived
// only from the token's raw bounding box; it never returns an error and
// never panics.
func (c *GeometryCache) Get(t Drawable) GeometryRecord {
	if t == nil {
		return fallbackRecord("", 0, 0, c.now())
	}

	id := t.VitalsID()
	if rec, ok := c.records[id]; ok {
		return rec
	}

	rec := c.compute(t, id)
	c.records[id] = rec

	// Opportunistic eviction: probabilistic sampling, not on every call.
	if len(c.records) > sweepThreshold && c.dice() < sweepChance {
		c.sweep()
	}

	return rec
}

// Clear empties all records.
func (c *GeometryCache) Clear() {
	c.records = make(map[string]GeometryRecord)
}

// Evict drops a single token's record, e.g. when its display dimensions
// change before the TTL would catch up.
func (c *GeometryCache) Evict(tokenID string) {
	delete(c.records, tokenID)
}

// Len returns the number of cached records.
func (c *GeometryCache) Len() int {
	return len(c.records)
}

// compute derives the arc layout from the token's display dimensions,
// falling back to the bounding-box record on bad inputs or a panic from
// the token's accessors.
func (c *GeometryCache) compute(t Drawable, id string) (rec GeometryRecord) {
	renderedW, renderedH := 0.0, 0.0

	defer func() {
		if r := recover(); r != nil {
			gamelog.Log(gamelog.LevelWarn, "geometry computation failed, using fallback", map[string]any{
				"token": id,
				"panic": fmt.Sprint(r),
			})
			rec = fallbackRecord(id, renderedW, renderedH, c.now())
		}
	}()

	renderedW, renderedH = t.RenderedSize()
	texW, texH := t.TextureSize()
	sx, sy := t.RenderScale()

	if !positiveFinite(texW) || !positiveFinite(texH) || !positiveFinite(sx) || !positiveFinite(sy) {
		gamelog.Log(gamelog.LevelWarn, "geometry inputs unusable, using fallback", map[string]any{"token": id})
		return fallbackRecord(id, renderedW, renderedH, c.now())
	}

	// Stroke width scales inversely with the horizontal render scale so
	// the on-screen thickness stays constant regardless of token scale.
	stroke := baseStrokeWidth / sx

	// The radius is the larger of the texture-derived ring and 75% of the
	// rendered width, so the ring clears the token body even for
	// oddly-scaled tokens.
	radius := texW/2 + stroke/2 + radiusOffset
	if alt := 0.75 * renderedW; alt > radius {
		radius = alt
	}

	return GeometryRecord{
		TokenID:    id,
		BaseWidth:  texW,
		BaseHeight: texH,
		ScaleX:     sx,
		ScaleY:     sy,
		Arc: ArcGeometry{
			Radius:      radius,
			StrokeWidth: stroke,
			AngleStart:  arcStartAngle,
			AngleEnd:    arcStartAngle + arcSweep,
		},
		LastUpdated: c.now(),
	}
}

// sweep removes records older than the TTL.
func (c *GeometryCache) sweep() {
	cutoff := c.now().Add(-geometryTTL)
	for id, rec := range c.records {
		if rec.LastUpdated.Before(cutoff) {
			delete(c.records, id)
		}
	}
}

// fallbackRecord builds the safe default layout from the raw bounding box
// alone. Deterministic for a given box.
func fallbackRecord(id string, renderedW, renderedH float64, now time.Time) GeometryRecord {
	if !positiveFinite(renderedW) {
		renderedW = 48
	}
	if !positiveFinite(renderedH) {
		renderedH = renderedW
	}

	return GeometryRecord{
		TokenID:    id,
		BaseWidth:  renderedW,
		BaseHeight: renderedH,
		ScaleX:     1,
		ScaleY:     1,
		Arc: ArcGeometry{
			Radius:      0.75 * renderedW,
			StrokeWidth: baseStrokeWidth,
			AngleStart:  arcStartAngle,
			AngleEnd:    arcStartAngle + arcSweep,
		},
		LastUpdated: now,
	}
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

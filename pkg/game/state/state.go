// Package state holds the board: the tokens under the overlay and the
// bookkeeping the demo UI reads.
package state

import (
	"fmt"
	"math/rand"

	"github.com/zyedidia/generic/mapset"
)

// Board is the demo world: a set of drifting tokens taking damage in
// combat rounds.
type Board struct {
	Width  float64
	Height float64

	Tokens []*Token
	byID   map[string]*Token

	// Selected mirrors the IsSelected flags for cheap membership checks.
	Selected mapset.Set[string]

	Messages []string

	Round  int
	Paused bool

	rng *rand.Rand
}

// NewBoard creates a board with count randomly placed tokens.
func NewBoard(width, height float64, count int, seed int64) *Board {
	b := &Board{
		Width:    width,
		Height:   height,
		byID:     make(map[string]*Token),
		Selected: mapset.New[string](),
		Messages: make([]string, 0),
		rng:      rand.New(rand.NewSource(seed)),
	}

	for i := 0; i < count; i++ {
		b.spawnToken(i)
	}

	return b
}

// spawnToken adds one token with randomized size, drift and hit points.
func (b *Board) spawnToken(i int) {
	maxHP := 20 + b.rng.Intn(80)

	// Occasional oddly-scaled token exercises the geometry clamps.
	sx := 0.5 + b.rng.Float64()*1.5
	sy := sx
	if b.rng.Intn(10) == 0 {
		sy = 0.5 + b.rng.Float64()*1.5
	}

	t := &Token{
		ID:     fmt.Sprintf("tok%d", i),
		Name:   fmt.Sprintf("Token %d", i),
		X:      40 + b.rng.Float64()*(b.Width-80),
		Y:      40 + b.rng.Float64()*(b.Height-80),
		VX:     -30 + b.rng.Float64()*60,
		VY:     -30 + b.rng.Float64()*60,
		TexW:   32,
		TexH:   32,
		ScaleX: sx,
		ScaleY: sy,
		HP:     maxHP,
		MaxHP:  maxHP,
	}

	b.Tokens = append(b.Tokens, t)
	b.byID[t.ID] = t
}

// Token returns the token with the given id, or nil.
func (b *Board) Token(id string) *Token {
	return b.byID[id]
}

// Remove takes a token off the board and returns it, or nil if the id is
// unknown. Removing twice is a no-op.
func (b *Board) Remove(id string) *Token {
	t, ok := b.byID[id]
	if !ok {
		return nil
	}
	delete(b.byID, id)
	b.Selected.Remove(id)

	for i, other := range b.Tokens {
		if other == t {
			b.Tokens = append(b.Tokens[:i], b.Tokens[i+1:]...)
			break
		}
	}

	b.AddMessage(t.Name + " removed")
	return t
}

// AddMessage adds a message to the board's message log
func (b *Board) AddMessage(msg string) {
	const maxMessages = 5
	b.Messages = append(b.Messages, msg)

	// Keep only the last maxMessages
	if len(b.Messages) > maxMessages {
		b.Messages = b.Messages[len(b.Messages)-maxMessages:]
	}
}

// ClearMessages clears all messages
func (b *Board) ClearMessages() {
	b.Messages = make([]string, 0)
}

// Step advances every token's drift.
func (b *Board) Step(dt float64) {
	if b.Paused {
		return
	}
	for _, t := range b.Tokens {
		t.Step(dt, b.Width, b.Height)
	}
}

// TokenAt returns the topmost token whose bounding box contains the
// point, or nil.
func (b *Board) TokenAt(x, y float64) *Token {
	for i := len(b.Tokens) - 1; i >= 0; i-- {
		if b.Tokens[i].Contains(x, y) {
			return b.Tokens[i]
		}
	}
	return nil
}

// ToggleSelect flips a token's selection and returns its new state.
func (b *Board) ToggleSelect(t *Token) bool {
	t.IsSelected = !t.IsSelected
	if t.IsSelected {
		b.Selected.Put(t.ID)
	} else {
		b.Selected.Remove(t.ID)
	}
	return t.IsSelected
}

// SetHover moves pointer hover to the given token (nil clears it) and
// returns the tokens whose hover state changed.
func (b *Board) SetHover(t *Token) []*Token {
	var changed []*Token
	for _, other := range b.Tokens {
		was := other.IsHovered
		other.IsHovered = other == t
		if other.IsHovered != was {
			changed = append(changed, other)
		}
	}
	return changed
}

// CombatRound marks every living token as in combat, deals a burst of
// damage to a random subset, and returns the tokens whose health changed.
// This is the mass simultaneous update the scheduler exists to absorb.
func (b *Board) CombatRound() []*Token {
	b.Round++

	var hit []*Token
	for _, t := range b.Tokens {
		if !t.Alive() {
			t.IsInCombat = false
			continue
		}
		t.IsInCombat = true

		if b.rng.Float64() < 0.7 {
			dmg := 1 + b.rng.Intn(12)
			t.HP -= dmg
			if t.HP < 0 {
				t.HP = 0
			}
			hit = append(hit, t)
		}
	}

	b.AddMessage(fmt.Sprintf("Round %d: %d of %d tokens hit", b.Round, len(hit), len(b.Tokens)))
	return hit
}

// HealAll restores every token to full health and returns the tokens that
// changed.
func (b *Board) HealAll() []*Token {
	var changed []*Token
	for _, t := range b.Tokens {
		if t.HP != t.MaxHP || t.IsInCombat {
			changed = append(changed, t)
		}
		t.HP = t.MaxHP
		t.IsInCombat = false
	}
	b.AddMessage("All tokens restored")
	return changed
}

package ebiten

import (
	"strings"
	"testing"

	"tokenvitals/pkg/engine/frametime"
	"tokenvitals/pkg/engine/gamelog"
	engineinput "tokenvitals/pkg/engine/input"
	"tokenvitals/pkg/engine/sched"
	"tokenvitals/pkg/game/state"
	"tokenvitals/pkg/game/vitals"
)

func silenceLog(t *testing.T) {
	t.Helper()
	prev := gamelog.SetSink(func(gamelog.Entry) {})
	t.Cleanup(func() { gamelog.SetSink(prev) })
}

func testRenderer(t *testing.T, count int) (*Renderer, *state.Board, *vitals.GeometryCache, *vitals.UncertaintyCache) {
	t.Helper()
	board := state.NewBoard(800, 600, count, 1)
	pump := frametime.NewPump()
	geom := vitals.NewGeometryCache()
	unc := vitals.NewUncertaintyCache(nil)
	r := New(board, pump, sched.New(pump), geom, unc)
	return r, board, geom, unc
}

func TestDropTokenForgetsVisualAndCaches(t *testing.T) {
	silenceLog(t)
	r, board, geom, unc := testRenderer(t, 3)

	// Switch to a non-GM observer so the uncertainty cache is consulted.
	r.CycleObserver()
	tok := board.Tokens[0]
	r.renderIndicator(tok)

	if _, ok := r.visuals[tok.ID]; !ok {
		t.Fatal("render callback left no prepared visual")
	}
	if geom.Len() != 1 || unc.Len() != 1 {
		t.Fatalf("cache sizes = (%d, %d) after render, want (1, 1)", geom.Len(), unc.Len())
	}

	r.DropToken(tok.ID)

	if _, ok := r.visuals[tok.ID]; ok {
		t.Error("prepared visual survived DropToken")
	}
	if geom.Len() != 0 {
		t.Errorf("geometry records = %d after DropToken, want 0", geom.Len())
	}
	if unc.Len() != 0 {
		t.Errorf("uncertainty records = %d after DropToken, want 0", unc.Len())
	}
}

func TestHelpLineListsEveryBoundAction(t *testing.T) {
	h := helpLine()

	for _, act := range engineinput.HelpOrder {
		if !strings.Contains(h, engineinput.ActionName(act)) {
			t.Errorf("help line missing %q: %q", engineinput.ActionName(act), h)
		}
	}
	if !strings.Contains(h, "r/space: "+engineinput.ActionName(engineinput.ActionCombatRound)) {
		t.Errorf("help line does not group codes per action: %q", h)
	}
	if !strings.Contains(h, "right-click") {
		t.Errorf("help line missing the mouse removal hint: %q", h)
	}
}

func TestNewDerivesHelpFromBindings(t *testing.T) {
	silenceLog(t)
	r, _, _, _ := testRenderer(t, 1)

	if r.help != helpLine() {
		t.Errorf("renderer help = %q, want the derived binding line", r.help)
	}
}

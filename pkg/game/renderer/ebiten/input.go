package ebiten

import (
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"tokenvitals/pkg/engine/gamelog"
	engineinput "tokenvitals/pkg/engine/input"
)

// keyCodes maps ebiten keys to the input package's raw codes.
var keyCodes = map[ebiten.Key]string{
	ebiten.KeySpace:  "space",
	ebiten.KeyR:      "r",
	ebiten.KeyF:      "f",
	ebiten.KeyP:      "p",
	ebiten.KeyTab:    "tab",
	ebiten.KeyO:      "o",
	ebiten.KeyQ:      "q",
	ebiten.KeyEscape: "escape",
	ebiten.KeyF12:    "f12",
	ebiten.KeyD:      "d",
}

// helpLine renders the current key bindings as one HUD line, so the HUD
// stays truthful when bindings change.
func helpLine() string {
	byAction := engineinput.GetBindingsByAction()

	var parts []string
	for _, act := range engineinput.HelpOrder {
		codes, ok := byAction[act]
		if !ok {
			continue
		}
		parts = append(parts, strings.Join(codes, "/")+": "+engineinput.ActionName(act))
	}
	parts = append(parts, "right-click: Remove Token")
	return strings.Join(parts, "  ")
}

// Update advances one frame: pump continuations first, then input, then
// the board simulation (Ebiten interface).
func (r *Renderer) Update() error {
	if !r.windowOpenedLogged {
		r.windowOpenedLogged = true
		w, h := ebiten.WindowSize()
		gamelog.Log(gamelog.LevelInfo, "board window opened", map[string]any{"w": w, "h": h})
	}

	// Timers and frame continuations run before new work is queued so a
	// debounce armed N frames ago fires at a predictable point.
	r.pump.Tick()

	if r.quit {
		return ebiten.Termination
	}

	r.handleKeys()
	r.handleMouse()

	// Fixed-step drift matching ebiten's default 60 TPS.
	r.board.Step(1.0 / 60.0)

	return nil
}

// handleKeys converts edge-triggered key presses to intents and acts on
// them.
func (r *Renderer) handleKeys() {
	for key, code := range keyCodes {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		raw := engineinput.RawInput{Device: engineinput.DeviceKeyboard, Code: code, Timestamp: time.Now()}
		intent := engineinput.MapToIntent(engineinput.NewDebouncedInput(raw))
		r.act(intent)
	}
}

// act applies one intent to the board and the overlay subsystem.
func (r *Renderer) act(intent engineinput.Intent) {
	switch intent.Action {
	case engineinput.ActionCombatRound:
		hit := r.board.CombatRound()
		for _, t := range hit {
			r.sched.Queue(t)
		}

	case engineinput.ActionHealAll:
		for _, t := range r.board.HealAll() {
			r.sched.Queue(t)
		}

	case engineinput.ActionTogglePause:
		r.board.Paused = !r.board.Paused

	case engineinput.ActionCycleObserver:
		obs := r.CycleObserver()
		r.board.AddMessage("Viewing as " + obs.Name)

	case engineinput.ActionScreenshot:
		// Captured inside Draw, where the screen image is available.
		r.screenshotPending = true

	case engineinput.ActionStateDump:
		r.dumpState()

	case engineinput.ActionQuit:
		r.sched.Clear()
		r.quit = true
	}
}

// handleMouse tracks hover and click selection, queueing redraws for the
// tokens whose state changed.
func (r *Renderer) handleMouse() {
	mx, my := ebiten.CursorPosition()
	target := r.board.TokenAt(float64(mx), float64(my))

	if target != r.hovered {
		r.hovered = target
		for _, t := range r.board.SetHover(target) {
			r.sched.Queue(t)
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && target != nil {
		r.board.ToggleSelect(target)
		r.sched.Queue(target)
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) && target != nil {
		r.board.Remove(target.ID)
		r.DropToken(target.ID)
		if r.hovered == target {
			r.hovered = nil
		}
	}
}

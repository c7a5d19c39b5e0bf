// Package input maps raw device events to the high-level intents the
// board demo reacts to.
package input

import (
	"sort"
	"time"
)

// Device represents a physical input source.
type Device int

const (
	DeviceUnknown Device = iota
	DeviceKeyboard
	DeviceMouse
)

// Action represents a high-level intent on the board.
type Action int

const (
	ActionNone Action = iota

	// Simulation
	ActionCombatRound // trigger a mass combat-round update
	ActionHealAll     // restore every token
	ActionTogglePause // pause/resume token drift

	// Observer
	ActionCycleObserver // switch whose perception the overlay renders

	// Meta / UI
	ActionQuit
	ActionScreenshot
	ActionStateDump // dump scheduler/cache statistics to the terminal
)

// Intent is the high-level description of what the user wants to do.
type Intent struct {
	Action Action
}

// RawInput is the event emitted directly from an input device.
// Code is a device-specific identifier (e.g. "space", "tab").
type RawInput struct {
	Device    Device
	Code      string
	Timestamp time.Time
}

// DebouncedInput is the representation after debouncing/deduplication.
// Ebiten's inpututil already gives edge-triggered events, but the distinct
// type keeps the layering explicit and extensible.
type DebouncedInput struct {
	Device Device
	Code   string
}

// NewDebouncedInput converts a raw event to a debounced event.
func NewDebouncedInput(raw RawInput) DebouncedInput {
	return DebouncedInput{
		Device: raw.Device,
		Code:   raw.Code,
	}
}

// bindings maps raw codes to actions. Multiple codes may point to the
// same Action.
var bindings = map[string]Action{
	// Simulation
	"space": ActionCombatRound,
	"r":     ActionCombatRound,
	"f":     ActionHealAll,
	"p":     ActionTogglePause,

	// Observer
	"tab": ActionCycleObserver,
	"o":   ActionCycleObserver,

	// Quit
	"q":      ActionQuit,
	"escape": ActionQuit,

	// Devtools
	"f12": ActionScreenshot,
	"d":   ActionStateDump,
}

// MapToIntent applies the current bindings to a debounced input and
// returns a high-level Intent.
func MapToIntent(ev DebouncedInput) Intent {
	if act, ok := bindings[ev.Code]; ok {
		return Intent{Action: act}
	}
	return Intent{Action: ActionNone}
}

// ActionName returns a human-friendly name for an action.
func ActionName(a Action) string {
	switch a {
	case ActionCombatRound:
		return "Combat Round"
	case ActionHealAll:
		return "Heal All"
	case ActionTogglePause:
		return "Toggle Pause"
	case ActionCycleObserver:
		return "Cycle Observer"
	case ActionQuit:
		return "Quit"
	case ActionScreenshot:
		return "Screenshot"
	case ActionStateDump:
		return "State Dump"
	default:
		return "None"
	}
}

// HelpOrder fixes the display order of actions in binding help text.
var HelpOrder = []Action{
	ActionCombatRound,
	ActionHealAll,
	ActionCycleObserver,
	ActionTogglePause,
	ActionStateDump,
	ActionScreenshot,
	ActionQuit,
}

// GetBindingsByAction returns the current bindings grouped by action.
func GetBindingsByAction() map[Action][]string {
	result := make(map[Action][]string)
	for code, act := range bindings {
		result[act] = append(result[act], code)
	}
	// Ensure stable ordering of codes within each action so UI doesn't flicker.
	for act, codes := range result {
		sort.Strings(codes)
		result[act] = codes
	}
	return result
}

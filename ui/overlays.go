package ui

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayControls      OverlayID = "controls"
	OverlayVehiclePanel  OverlayID = "vehicle_panel"
	OverlayPerfPanel     OverlayID = "perf_panel"
	OverlayWheelContacts OverlayID = "wheel_contacts"
	OverlayVelocity      OverlayID = "velocity"
	OverlayCameraGoal    OverlayID = "camera_goal"
)

// OverlayDescriptor describes a toggleable overlay and its key binding.
type OverlayDescriptor struct {
	ID          OverlayID
	Name        string
	Description string
	Key         int32  // raylib key code, 0 for none
	KeyLabel    string // shown in the controls panel
	Category    string // "panels" or "debug"
	Default     bool
}

type overlayEntry struct {
	desc OverlayDescriptor
	on   bool
}

// OverlayRegistry holds overlays in registration order with their on/off state.
type OverlayRegistry struct {
	entries []overlayEntry
	index   map[OverlayID]int
}

// NewOverlayRegistry returns a registry holding the standard overlays.
func NewOverlayRegistry() *OverlayRegistry {
	r := newOverlayRegistry()
	r.registerDefaults()
	return r
}

func newOverlayRegistry() *OverlayRegistry {
	return &OverlayRegistry{index: make(map[OverlayID]int)}
}

// registerDefaults adds standard overlays. Driving keys (arrows, WASD,
// space, shift) are never used as toggles.
func (r *OverlayRegistry) registerDefaults() {
	// Panels
	r.Register(OverlayDescriptor{
		ID:          OverlayControls,
		Name:        "Controls",
		Description: "List overlays and key bindings",
		Key:         rl.KeyF1,
		KeyLabel:    "F1",
		Category:    "panels",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayVehiclePanel,
		Name:        "Vehicle",
		Description: "Controller state and per-wheel contact",
		Key:         rl.KeyF2,
		KeyLabel:    "F2",
		Category:    "panels",
		Default:     true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayPerfPanel,
		Name:        "Performance",
		Description: "Per-stage tick timing",
		Key:         rl.KeyF3,
		KeyLabel:    "F3",
		Category:    "panels",
	})

	// Debug overlays
	r.Register(OverlayDescriptor{
		ID:          OverlayWheelContacts,
		Name:        "Wheel Contacts",
		Description: "Color wheels by terrain and slip, show load",
		Key:         rl.KeyF4,
		KeyLabel:    "F4",
		Category:    "debug",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayVelocity,
		Name:        "Velocity",
		Description: "Chassis velocity and heading vectors",
		Key:         rl.KeyF5,
		KeyLabel:    "F5",
		Category:    "debug",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayCameraGoal,
		Name:        "Camera Goal",
		Description: "Where the follow camera is settling",
		Key:         rl.KeyF6,
		KeyLabel:    "F6",
		Category:    "debug",
	})
}

// Register adds an overlay. Registering an existing ID replaces its
// descriptor and resets it to its default state.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	e := overlayEntry{desc: desc, on: desc.Default}
	if i, ok := r.index[desc.ID]; ok {
		r.entries[i] = e
		return
	}
	r.index[desc.ID] = len(r.entries)
	r.entries = append(r.entries, e)
}

// Toggle flips an overlay and returns its new state. Unknown IDs stay off.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	i, ok := r.index[id]
	if !ok {
		return false
	}
	r.entries[i].on = !r.entries[i].on
	return r.entries[i].on
}

// IsEnabled reports whether an overlay is on.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	i, ok := r.index[id]
	return ok && r.entries[i].on
}

// All returns every descriptor in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	out := make([]OverlayDescriptor, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.desc
	}
	return out
}

// ByCategory returns the descriptors of one category in registration order.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var out []OverlayDescriptor
	for _, e := range r.entries {
		if e.desc.Category == category {
			out = append(out, e.desc)
		}
	}
	return out
}

// Categories returns each category once, in order of first appearance.
func (r *OverlayRegistry) Categories() []string {
	var cats []string
	for _, e := range r.entries {
		if !slices.Contains(cats, e.desc.Category) {
			cats = append(cats, e.desc.Category)
		}
	}
	return cats
}

// HandleKeyPress toggles the overlay bound to key. It reports the overlay,
// its new state, and whether any overlay was bound.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	if key == 0 {
		return "", false, false
	}
	for _, e := range r.entries {
		if e.desc.Key == key {
			return e.desc.ID, r.Toggle(e.desc.ID), true
		}
	}
	return "", false, false
}

// EnabledOverlays returns the IDs of the overlays that are on, in registration order.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	var ids []OverlayID
	for _, e := range r.entries {
		if e.on {
			ids = append(ids, e.desc.ID)
		}
	}
	return ids
}

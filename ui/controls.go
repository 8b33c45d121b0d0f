package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// KeyBinding is one row of the driving key legend.
type KeyBinding struct {
	Keys   string
	Action string
}

// DrivingBindings lists the fixed driving and session keys.
var DrivingBindings = []KeyBinding{
	{"A/D or Left/Right", "Steer"},
	{"W / S", "Throttle / reverse"},
	{"Space", "Brake"},
	{"Left Shift", "Boost"},
	{"Mouse drag", "Steering wheel (touch mode)"},
	{"Tab", "Switch keyboard/touch"},
	{"R", "Reset car"},
	{"G", "Toggle input gate"},
	{"P", "Pause"},
	{"+/- or wheel", "Zoom"},
	{"F11", "Fullscreen"},
}

// ControlsPanel renders the left-side panel with key bindings and overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Height returns the panel height for the given overlays.
func (c *ControlsPanel) Height(overlays *OverlayRegistry) int32 {
	t := c.renderer.Theme
	rows := int32(len(DrivingBindings)) + 1
	for _, cat := range overlays.Categories() {
		rows += int32(len(overlays.ByCategory(cat))) + 1
	}
	return rows*t.LineHeight + t.Padding*3 + t.LineHeight
}

// Draw renders the controls panel and returns the Y below it.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	inner := c.width - padding*2

	r.DrawPanel(c.x, c.y, c.width, c.Height(overlays))

	y := c.y + padding
	rl.DrawText("Controls", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	y = r.DrawSectionHeader(c.x+padding, y, "Driving")
	for _, b := range DrivingBindings {
		rl.DrawText(b.Action, c.x+padding, y, r.Theme.FontSize, r.Theme.LabelColor)
		drawRightAligned(b.Keys, c.x+padding+inner, y, r.Theme.FontSize, rl.Gray)
		y += lineHeight
	}
	y += 4

	for _, category := range overlays.Categories() {
		y = r.DrawSectionHeader(c.x+padding, y, categoryLabel(category))
		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), inner)
			y += lineHeight
		}
		y += 4
	}

	return y
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := r.Theme.FlagOff
	nameColor := r.Theme.LabelColor
	if enabled {
		statusColor = r.Theme.FlagOn
		nameColor = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		drawRightAligned(fmt.Sprintf("[%s]", desc.KeyLabel), x+width, y, r.Theme.FontSize, rl.Gray)
	}
}

func drawRightAligned(text string, right, y, size int32, color rl.Color) {
	rl.DrawText(text, right-rl.MeasureText(text, size), y, size, color)
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "panels":
		return "Panels"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

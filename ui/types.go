// Package ui provides a descriptor-driven UI system for the driving view.
// Instead of hard-coding field names and layouts, panels are defined
// through metadata that can be updated alongside the vehicle state.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText        WidgetType = iota // Plain text with format string
	WidgetBar                           // Progress bar [0, 1]
	WidgetCenteredBar                   // Centered bar [-1, +1] or custom range
	WidgetGauge                         // Bar over Range with color thresholds
	WidgetFlag                          // On/off indicator
	WidgetSection                       // Section header
	WidgetSpacer                        // Vertical spacing
)

// FieldRange defines the value range for bar widgets.
type FieldRange struct {
	Min float32
	Max float32
}

// DefaultRange returns a [0, 1] range.
func DefaultRange() FieldRange {
	return FieldRange{Min: 0, Max: 1}
}

// CenteredRange returns a [-1, +1] range.
func CenteredRange() FieldRange {
	return FieldRange{Min: -1, Max: 1}
}

// FieldDescriptor defines how to display a single piece of data.
type FieldDescriptor struct {
	ID         string            // Unique identifier for the field
	Label      string            // Display label
	Widget     WidgetType        // How to render
	Format     string            // Printf format for text (e.g., "%.2f")
	Range      FieldRange        // Value range for bars
	Visible    func(any) bool    // Optional visibility check (nil = always visible)
	Getter     func(any) float32 // Value extractor (for numeric fields)
	TextGetter func(any) string  // Value extractor (for text fields)
	FlagGetter func(any) bool    // Value extractor (for flags)
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	ID      string            // Unique identifier
	Title   string            // Section header text
	Fields  []FieldDescriptor // Fields in this section
	Visible func(any) bool    // Optional visibility check for entire section
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg         rl.Color
	PanelBorder     rl.Color
	SectionHeader   rl.Color
	LabelColor      rl.Color
	ValueColor      rl.Color
	BarBg           rl.Color
	BarFill         rl.Color
	BarFillLow      rl.Color
	BarFillMedium   rl.Color
	BarFillHigh     rl.Color
	BarFillNegative rl.Color
	BarFillPositive rl.Color
	FlagOn          rl.Color
	FlagOff         rl.Color
	Padding         int32
	LineHeight      int32
	LabelWidth      int32
	BarHeight       int32
	FontSize        int32
	HeaderFontSize  int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:         rl.Color{R: 18, G: 20, B: 26, A: 230},
		PanelBorder:     rl.Color{R: 70, G: 75, B: 90, A: 255},
		SectionHeader:   rl.Gold,
		LabelColor:      rl.LightGray,
		ValueColor:      rl.RayWhite,
		BarBg:           rl.Color{R: 40, G: 40, B: 46, A: 255},
		BarFill:         rl.Color{R: 90, G: 160, B: 220, A: 255},
		BarFillLow:      rl.Color{R: 210, G: 90, B: 80, A: 255},
		BarFillMedium:   rl.Color{R: 220, G: 180, B: 90, A: 255},
		BarFillHigh:     rl.Color{R: 90, G: 200, B: 120, A: 255},
		BarFillNegative: rl.Color{R: 210, G: 110, B: 90, A: 255},
		BarFillPositive: rl.Color{R: 90, G: 200, B: 120, A: 255},
		FlagOn:          rl.Color{R: 100, G: 210, B: 110, A: 255},
		FlagOff:         rl.Color{R: 80, G: 80, B: 80, A: 255},
		Padding:         10,
		LineHeight:      16,
		LabelWidth:      84,
		BarHeight:       12,
		FontSize:        12,
		HeaderFontSize:  14,
	}
}

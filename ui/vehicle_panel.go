package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/fmxar/racer/vehicle"
)

// VehicleData is what the vehicle panel displays.
type VehicleData struct {
	State     vehicle.State
	InputMode string
	Enabled   bool // user input gate
}

func vehicleData(data any) VehicleData {
	d, _ := data.(VehicleData)
	return d
}

func wheelState(data any) vehicle.WheelState {
	w, _ := data.(vehicle.WheelState)
	return w
}

// VehicleSections describes the controller part of the vehicle panel.
var VehicleSections = []SectionDescriptor{
	{
		ID:    "controller",
		Title: "Controller",
		Fields: []FieldDescriptor{
			{ID: "speed", Label: "Speed", Widget: WidgetBar, Getter: func(d any) float32 { return float32(vehicleData(d).State.SpeedPercent) }},
			{ID: "boost", Label: "Boost", Widget: WidgetGauge, Range: FieldRange{Min: 0, Max: float32(vehicle.MaxBoost)}, Getter: func(d any) float32 { return float32(vehicleData(d).State.BoostReserve) }},
			{ID: "boosting", Label: "Boosting", Widget: WidgetFlag, FlagGetter: func(d any) bool { return vehicleData(d).State.IsBoosting }},
			{ID: "grounded", Label: "Grounded", Widget: WidgetFlag, FlagGetter: func(d any) bool { return vehicleData(d).State.AllWheelsGrounded }},
			{ID: "steer_angle", Label: "Steer deg", Widget: WidgetCenteredBar, Range: FieldRange{Min: -45, Max: 45}, Getter: func(d any) float32 { return float32(vehicleData(d).State.SteeringAngle) }},
			{ID: "steer_damp", Label: "Steer damp", Widget: WidgetBar, Getter: func(d any) float32 { return float32(vehicleData(d).State.SteeringDamp) }},
			{ID: "downforce", Label: "Downforce", Widget: WidgetText, Format: "%.0f N", Getter: func(d any) float32 { return float32(vehicleData(d).State.Downforce) }},
		},
	},
	{
		ID:    "input",
		Title: "Input",
		Fields: []FieldDescriptor{
			{ID: "mode", Label: "Mode", Widget: WidgetText, TextGetter: func(d any) string { return vehicleData(d).InputMode }},
			{ID: "enabled", Label: "Enabled", Widget: WidgetFlag, FlagGetter: func(d any) bool { return vehicleData(d).Enabled }},
			{ID: "steer", Label: "Steer", Widget: WidgetCenteredBar, Range: CenteredRange(), Getter: func(d any) float32 { return float32(vehicleData(d).State.EffectiveInput.Steer) }},
			{ID: "throttle", Label: "Throttle", Widget: WidgetCenteredBar, Range: CenteredRange(), Getter: func(d any) float32 { return float32(vehicleData(d).State.EffectiveInput.Throttle) }},
			{ID: "brake", Label: "Brake", Widget: WidgetBar, Getter: func(d any) float32 { return float32(vehicleData(d).State.EffectiveInput.Brake) }},
		},
	},
}

// WheelSection describes one wheel's rows; data is a vehicle.WheelState.
var WheelSection = SectionDescriptor{
	ID: "wheel",
	Fields: []FieldDescriptor{
		{ID: "status", Label: "Status", Widget: WidgetText, TextGetter: func(d any) string { return WheelStatus(wheelState(d)) }},
		{ID: "fwd_slip", Label: "Fwd slip", Widget: WidgetBar, Getter: func(d any) float32 { return float32(wheelState(d).ForwardSlip) }},
		{ID: "lat_slip", Label: "Lat slip", Widget: WidgetBar, Getter: func(d any) float32 { return float32(wheelState(d).LateralSlip) }},
	},
}

// WheelStatus summarises a wheel's contact in one word.
func WheelStatus(w vehicle.WheelState) string {
	switch {
	case !w.Enabled:
		return "disabled"
	case !w.IsGrounded:
		return "airborne"
	case w.IsSlipping:
		return "slipping"
	case !w.GoodTerrain:
		return "off track"
	default:
		return "grip"
	}
}

// VehiclePanel renders controller and wheel state.
type VehiclePanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewVehiclePanel creates a new vehicle panel.
func NewVehiclePanel(x, y, width int32) *VehiclePanel {
	return &VehiclePanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *VehiclePanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Height returns the panel height for data.
func (p *VehiclePanel) Height(data VehicleData) int32 {
	r := p.renderer
	h := r.Theme.Padding*2 + r.Theme.LineHeight + 4
	for _, sd := range VehicleSections {
		h += r.SectionHeight(sd, data)
	}
	for _, w := range data.State.Wheels {
		h += r.Theme.LineHeight + r.SectionHeight(WheelSection, w)
	}
	return h
}

// Draw renders the panel and returns the Y below it.
func (p *VehiclePanel) Draw(data VehicleData) int32 {
	r := p.renderer
	padding := r.Theme.Padding
	inner := p.width - padding*2

	r.DrawPanel(p.x, p.y, p.width, p.Height(data))

	y := p.y + padding
	rl.DrawText("Vehicle", p.x+padding, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	for _, sd := range VehicleSections {
		y = r.DrawSection(p.x+padding, y, sd, data, inner)
	}
	for _, w := range data.State.Wheels {
		y = r.DrawSectionHeader(p.x+padding, y, fmt.Sprintf("Wheel %s", w.Name))
		y = r.DrawSection(p.x+padding, y, WheelSection, w, inner)
	}
	return y
}

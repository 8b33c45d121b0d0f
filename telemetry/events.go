// Package telemetry provides driving statistics, event detection, bookmarks
// and performance tracking for a vehicle session.
package telemetry

import "github.com/fmxar/racer/vehicle"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventBoostStart EventType = iota
	EventBoostEmpty
	EventLeftTrack
	EventRejoinedTrack
	EventAirborne
	EventLanded
)

var eventNames = [...]string{
	EventBoostStart:    "boost_start",
	EventBoostEmpty:    "boost_empty",
	EventLeftTrack:     "left_track",
	EventRejoinedTrack: "rejoined_track",
	EventAirborne:      "airborne",
	EventLanded:        "landed",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event represents a single state transition observed between two ticks.
type Event struct {
	Type EventType
	Tick int32
}

// offTrack reports whether any grounded wheel is on bad terrain.
func offTrack(s vehicle.State) bool {
	for _, w := range s.Wheels {
		if w.IsGrounded && !w.GoodTerrain {
			return true
		}
	}
	return false
}

// EventDetector turns consecutive vehicle states into transition events.
type EventDetector struct {
	prev    vehicle.State
	hasPrev bool
}

// Observe compares s with the previously observed state and returns the
// transitions that happened at tick. The first call only primes the detector.
func (d *EventDetector) Observe(tick int32, s vehicle.State) []Event {
	if !d.hasPrev {
		d.prev = s
		d.hasPrev = true
		return nil
	}

	var events []Event
	emit := func(t EventType) {
		events = append(events, Event{Type: t, Tick: tick})
	}

	if s.IsBoosting && !d.prev.IsBoosting {
		emit(EventBoostStart)
	}
	if s.BoostReserve <= 0 && d.prev.BoostReserve > 0 {
		emit(EventBoostEmpty)
	}

	was, is := offTrack(d.prev), offTrack(s)
	if is && !was {
		emit(EventLeftTrack)
	} else if was && !is {
		emit(EventRejoinedTrack)
	}

	if !s.AllWheelsGrounded && d.prev.AllWheelsGrounded {
		emit(EventAirborne)
	} else if s.AllWheelsGrounded && !d.prev.AllWheelsGrounded {
		emit(EventLanded)
	}

	d.prev = s
	return events
}

// Reset forgets the previous state.
func (d *EventDetector) Reset() {
	d.prev = vehicle.State{}
	d.hasPrev = false
}

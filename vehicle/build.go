package vehicle

import (
	"log/slog"

	"github.com/fmxar/racer/config"
	"github.com/fmxar/racer/contact"
)

// New builds and configures a vehicle from config against a solver rig.
// Wheel configuration failures do not fail construction; they are available
// from ConfigErrors.
func New(cfg *config.Config, rig Rig, logger *slog.Logger) (*Controller, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var chassis Chassis
	if rig != nil {
		chassis = rig.Chassis()
	}

	axles := make([]*Axle, 0, len(cfg.Axles))
	for _, ac := range cfg.Axles {
		axle := &Axle{
			Name:     ac.Name,
			Driven:   ac.Driven,
			Steering: ac.Steering,
		}
		for _, wc := range ac.Wheels {
			var cp ContactPoint
			if rig != nil {
				cp = rig.ContactPoint(wc.Name)
			}
			props := PropertiesFromConfig(cfg.Properties(wc.Properties))
			axle.Wheels = append(axle.Wheels, NewWheel(wc.Name, cp, props))
		}
		axles = append(axles, axle)
	}

	ctrl, err := NewController(ParamsFromConfig(cfg.Vehicle), chassis, NewPowerPlant(cfg.PowerPlant), axles, logger)
	if err != nil {
		return nil, err
	}

	mapping := contact.MappingLegacy
	if cfg.Contact.CorrectedAsymptoteSlip {
		mapping = contact.MappingCorrected
	}
	ctrl.Configure(mapping)

	return ctrl, nil
}

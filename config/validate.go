package config

import (
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/lartpc/larnd-sim-go/simerr"
)

// validate rejects configurations §4.B would otherwise fail on mid-batch:
// an unknown recombination model is a load-time InvalidConfig, not a
// per-segment NumericFault discovered later.
func validate(cfg *Config) error {
	switch cfg.Physics.RecombModel {
	case RecombBox, RecombBirks:
	default:
		return simerr.NewInvalidConfig("unknown recomb_model: " + string(cfg.Physics.RecombModel))
	}
	if len(cfg.Geometry.Planes) == 0 {
		return simerr.NewInvalidConfig("geometry descriptor defines no planes")
	}
	if cfg.Physics.SamplingPeriod <= 0 {
		return simerr.NewInvalidConfig("physics.sampling_period must be positive")
	}
	if cfg.Electronics.TrackSlots <= 0 {
		return simerr.NewInvalidConfig("electronics.track_slots must be positive")
	}
	return nil
}

// warnUnknownKeys decodes both documents into generic maps and logs any
// top-level key present in the user override that the defaults document
// (and therefore the struct's yaml tags) does not know about.
func warnUnknownKeys(defaults, override []byte, name string) {
	var defaultKeys, overrideKeys map[string]interface{}
	if err := yaml.Unmarshal(defaults, &defaultKeys); err != nil {
		return
	}
	if err := yaml.Unmarshal(override, &overrideKeys); err != nil {
		return
	}
	for k := range overrideKeys {
		if _, ok := defaultKeys[k]; !ok {
			slog.Warn("config: unknown key ignored", "document", name, "key", k)
		}
	}
}

// Package config loads the three descriptor documents (geometry, physics,
// electronics) into an immutable, process-wide configuration value, the way
// the teacher's config package merges a single embedded-defaults document
// with a user override file. After Load returns, every other component reads
// the result read-only; nothing here is mutated once a batch starts.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lartpc/larnd-sim-go/simerr"
)

//go:embed geometry.yaml
var defaultGeometryYAML []byte

//go:embed physics.yaml
var defaultPhysicsYAML []byte

//go:embed electronics.yaml
var defaultElectronicsYAML []byte

// Config is the full immutable parameter set threaded into every stage.
type Config struct {
	Geometry    GeometryConfig    `yaml:"-"`
	Physics     PhysicsConfig     `yaml:"-"`
	Electronics ElectronicsConfig `yaml:"-"`
	Derived     DerivedConfig     `yaml:"-"`
}

// DerivedConfig holds values computed once after load, mirroring the
// teacher's computeDerived() (DT32, NumInputs).
type DerivedConfig struct {
	DeltaZ   float64 // Δt * v_d, the z quantization step for module F
	NumTicks int     // round((t1-t0)/Δt) + 1, the simulation window tick count
}

// global holds the loaded configuration for package-level access via Cfg().
var global *Config

// Init loads configuration from the three given descriptor paths (any of
// which may be empty to use embedded defaults only) and stores it as the
// package-global config. Must be called before Cfg().
func Init(geometryPath, physicsPath, electronicsPath string) error {
	cfg, err := Load(geometryPath, physicsPath, electronicsPath)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error, for tests and tools that do not
// expect a missing or malformed descriptor.
func MustInit(geometryPath, physicsPath, electronicsPath string) {
	if err := Init(geometryPath, physicsPath, electronicsPath); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads the three descriptors, merging each with its embedded defaults
// document the way the teacher's Load merges one defaults.yaml with one
// override file: unmarshal defaults first, then unmarshal the override into
// the same struct so only keys present in the file override it.
func Load(geometryPath, physicsPath, electronicsPath string) (*Config, error) {
	cfg := &Config{}

	if err := loadDocument(defaultGeometryYAML, geometryPath, &cfg.Geometry, "geometry"); err != nil {
		return nil, err
	}
	if err := loadDocument(defaultPhysicsYAML, physicsPath, &cfg.Physics, "physics"); err != nil {
		return nil, err
	}
	if err := loadDocument(defaultElectronicsYAML, electronicsPath, &cfg.Electronics, "electronics"); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	cfg.computeDerived()
	return cfg, nil
}

// loadDocument unmarshals embedded defaults into dst, then (if path is
// non-empty) re-unmarshals the user file on top, warning about any
// top-level key in the user file that the struct's yaml tags do not know
// about (§6: "unknown keys are ignored with a warning").
func loadDocument(defaults []byte, path string, dst interface{}, name string) error {
	if err := yaml.Unmarshal(defaults, dst); err != nil {
		return simerr.WrapInvalidConfig(fmt.Sprintf("parsing embedded %s defaults", name), err)
	}

	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return simerr.WrapInvalidConfig(fmt.Sprintf("reading %s descriptor %q", name, path), err)
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return simerr.WrapInvalidConfig(fmt.Sprintf("parsing %s descriptor %q", name, path), err)
	}

	warnUnknownKeys(defaults, data, name)
	return nil
}

// computeDerived calculates values derived from the loaded physics config.
func (c *Config) computeDerived() {
	c.Derived.DeltaZ = c.Physics.SamplingPeriod * c.Physics.DriftVelocity
	if c.Physics.SamplingPeriod > 0 {
		c.Derived.NumTicks = int(math.Round((c.Physics.T1-c.Physics.T0)/c.Physics.SamplingPeriod)) + 1
	}
}

// WriteYAML saves the current configuration as three YAML documents side by
// side in dir (geometry.yaml, physics.yaml, electronics.yaml), mirroring the
// teacher's Config.WriteYAML snapshot used by telemetry.OutputManager.
func (c *Config) WriteYAML(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return simerr.WrapIO("creating config snapshot directory", err)
	}
	docs := map[string]interface{}{
		"geometry.yaml":    c.Geometry,
		"physics.yaml":     c.Physics,
		"electronics.yaml": c.Electronics,
	}
	for file, doc := range docs {
		data, err := yaml.Marshal(doc)
		if err != nil {
			return simerr.WrapIO("marshaling "+file, err)
		}
		if err := os.WriteFile(dir+"/"+file, data, 0o644); err != nil {
			return simerr.WrapIO("writing "+file, err)
		}
	}
	return nil
}

package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", "", "")
	if err != nil {
		t.Fatalf("Load with embedded defaults failed: %v", err)
	}
	if len(cfg.Geometry.Planes) == 0 {
		t.Fatal("expected at least one plane from embedded geometry defaults")
	}
	if cfg.Physics.SamplingPeriod <= 0 {
		t.Fatal("expected positive sampling period from embedded physics defaults")
	}
	if cfg.Derived.DeltaZ <= 0 {
		t.Fatal("expected DeltaZ to be derived from sampling_period * drift_velocity")
	}
}

func TestLoad_UnknownRecombModel(t *testing.T) {
	cfg, err := Load("", "", "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.Physics.RecombModel = "unknown"
	if err := validate(cfg); err == nil {
		t.Fatal("expected validate to reject an unknown recomb_model")
	}
}

func TestCfg_PanicsBeforeInit(t *testing.T) {
	global = nil
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected Cfg() to panic before Init()")
		}
	}()
	Cfg()
}

func TestPlane_OutOfRange(t *testing.T) {
	cfg, err := Load("", "", "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := cfg.Geometry.Plane(int32(len(cfg.Geometry.Planes))); ok {
		t.Fatal("expected Plane() to report false for an out-of-range index")
	}
}

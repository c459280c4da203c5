package systems

import (
	"testing"

	"github.com/lartpc/larnd-sim-go/components"
	"github.com/lartpc/larnd-sim-go/config"
)

func testElectronicsConfig() *config.Config {
	return &config.Config{
		Physics: config.PhysicsConfig{SamplingPeriod: 0.1},
		Electronics: config.ElectronicsConfig{
			DiscriminationThreshold: 100.0,
			ADCHoldDelay:            2,
			ADCBusyDelay:            3,
			ResetCycles:             1,
			ClockCycle:              0.1,
			RolloverCycles:          1000,
			Gain:                    0.004,
			VCM:                     288.0,
			VRef:                    1300.0,
			VPedestal:               580.0,
			ADCCounts:               256,
			MaxADCValues:            10,
			TrackSlots:              2,
		},
	}
}

func constantSummation(u int, ttot int, value float64) *components.SummationBuffers {
	sum := components.NewSummationBuffers([]int64{int64(u)}, 2, ttot)
	for t := 0; t < ttot; t++ {
		sum.AddPixelsSignal(0, t, value)
	}
	return sum
}

func TestDigitizePixels_TriggersOnThresholdCrossing(t *testing.T) {
	cfg := testElectronicsConfig()
	sum := constantSummation(7, 200, 50.0)

	samples := DigitizePixels(cfg, 1, 0, sum, func(slot int) *WorkerRNG {
		return NewWorkerRNG(1, 1, 0, slot)
	}, nil, nil)

	if len(samples) == 0 {
		t.Fatal("expected at least one ADC sample once the integral crosses threshold")
	}
	for _, s := range samples {
		if s.ADCValue < 0 || s.ADCValue >= cfg.Electronics.ADCCounts {
			t.Errorf("ADC value %d out of range [0, %d)", s.ADCValue, cfg.Electronics.ADCCounts)
		}
	}
}

func TestDigitizePixels_RespectsMaxADCValues(t *testing.T) {
	cfg := testElectronicsConfig()
	cfg.Electronics.MaxADCValues = 2
	sum := constantSummation(7, 2000, 500.0)

	samples := DigitizePixels(cfg, 1, 0, sum, func(slot int) *WorkerRNG {
		return NewWorkerRNG(1, 1, 0, slot)
	}, nil, nil)

	if len(samples) > cfg.Electronics.MaxADCValues {
		t.Errorf("expected at most %d samples, got %d", cfg.Electronics.MaxADCValues, len(samples))
	}
}

func TestDigitizePixels_BadChannelIsSkipped(t *testing.T) {
	cfg := testElectronicsConfig()
	sum := constantSummation(7, 200, 50.0)
	sum.UniquePixels[0] = 42

	samples := DigitizePixels(cfg, 1, 0, sum, func(slot int) *WorkerRNG {
		return NewWorkerRNG(1, 1, 0, slot)
	}, map[int64]bool{42: true}, nil)

	if len(samples) != 0 {
		t.Errorf("expected no samples for a masked pixel, got %d", len(samples))
	}
}

// TestDigitizePixels_BusyEnforcement mirrors §8 scenario S4: a signal that
// would cross the discriminator threshold again well within ADC_BUSY_DELAY
// produces exactly one sample, since current is dropped (not integrated)
// while the pixel is busy.
func TestDigitizePixels_BusyEnforcement(t *testing.T) {
	cfg := testElectronicsConfig()
	cfg.Electronics.ADCBusyDelay = 50
	cfg.Electronics.ResetCycles = 10
	sum := constantSummation(7, 60, 2000.0)

	samples := DigitizePixels(cfg, 1, 0, sum, func(slot int) *WorkerRNG {
		return NewWorkerRNG(1, 1, 0, slot)
	}, nil, nil)

	if len(samples) != 1 {
		t.Fatalf("expected exactly one sample despite a sustained above-threshold signal, got %d", len(samples))
	}
}

func TestDigitizePixels_NoTriggerBelowThreshold(t *testing.T) {
	cfg := testElectronicsConfig()
	sum := constantSummation(7, 50, 0.0001)

	samples := DigitizePixels(cfg, 1, 0, sum, func(slot int) *WorkerRNG {
		return NewWorkerRNG(1, 1, 0, slot)
	}, nil, nil)

	if len(samples) != 0 {
		t.Errorf("expected no trigger for a near-zero signal, got %d samples", len(samples))
	}
}

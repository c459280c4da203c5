package systems

import (
	"github.com/lartpc/larnd-sim-go/components"
	"github.com/lartpc/larnd-sim-go/config"
)

// digitizerState is the self-triggered front-end's sweep state (§4.H).
type digitizerState int

const (
	stateIdle digitizerState = iota
	stateHolding
	stateBusy
)

// ADCSample is one emitted front-end reading: a pixel, its trigger tick
// (wrapped to the clock's rollover range), the quantized ADC code, and the
// per-contributing-track current fractions for MC-truth bookkeeping.
type ADCSample struct {
	PixelID  int64
	EventID  int64
	Tick     int // intra-event tick wrapped mod ROLLOVER_CYCLES (§6 timestamp_ticks)
	ADCValue int

	// Timestamp is the absolute sample time in microseconds, computed by
	// DigitizePixels from the event start time the orchestrator passes in:
	// event_start_time + trigger_clock_tick*CLOCK_CYCLE (§6).
	Timestamp float64

	TrackSegments  []int32
	TrackFractions []float64
}

// DigitizePixels sweeps every unique pixel's summed current through the
// Idle→Holding→Busy self-triggered state machine (§4.H), one independent
// state machine per pixel, run in parallel across pixels (each pixel's tick
// sweep is serial and has no cross-pixel dependency — "parallel across
// pixels" per DESIGN NOTES §9). badChannels and thresholds are the
// supplemented bad-channel mask and per-pixel threshold override. eventStartTime
// is this event's absolute start time in microseconds (§6: event_start_time
// advances by Exp(1/EVENT_RATE) per event, starting at zero), used to turn
// each sample's trigger tick into an absolute timestamp before it is wrapped
// to the clock's rollover range.
func DigitizePixels(cfg *config.Config, eventID int64, eventStartTime float64, sum *components.SummationBuffers, rngFor func(slot int) *WorkerRNG, badChannels map[int64]bool, thresholds map[int64]float64) []ADCSample {
	elec := &cfg.Electronics
	dt := cfg.Physics.SamplingPeriod

	results := make([][]ADCSample, len(sum.UniquePixels))

	parallelFor(len(sum.UniquePixels), func(u int) {
		pixelID := sum.UniquePixels[u]
		if badChannels != nil && badChannels[pixelID] {
			return
		}
		threshold := elec.DiscriminationThreshold
		if thresholds != nil {
			if v, ok := thresholds[pixelID]; ok {
				threshold = v
			}
		}

		rng := rngFor(u)
		state := stateIdle
		integral := 0.0
		trackIntegral := make([]float64, sum.K)
		holdStart := 0
		busyRemaining := 0
		triggerTick := 0
		emitted := 0

		maxValues := elec.MaxADCValues
		if maxValues <= 0 {
			maxValues = 10
		}

		var samples []ADCSample

		for t := 0; t < sum.Ttot && emitted < maxValues; t++ {
			current := sum.PixelsSignal(u, t)

			switch state {
			case stateIdle:
				integral += current*dt + rng.Normal(0, elec.UncorrelatedNoiseCharge)
				for slot := 0; slot < sum.K; slot++ {
					trackIntegral[slot] += sum.TrackSignal(u, t, slot) * dt
				}
				if integral > threshold+rng.Normal(0, elec.DiscriminatorNoise) {
					triggerTick = t
					holdStart = t
					state = stateHolding
					integral = 0
					for slot := range trackIntegral {
						trackIntegral[slot] = 0
					}
				}
			case stateHolding:
				integral += current*dt
				for slot := 0; slot < sum.K; slot++ {
					trackIntegral[slot] += sum.TrackSignal(u, t, slot) * dt
				}
				if t-holdStart >= elec.ADCHoldDelay {
					adc := quantize(elec.VPedestal+integral*elec.Gain-elec.VCM, elec.VCM, elec.VRef, elec.ADCCounts)

					var segs []int32
					var fracs []float64
					total := 0.0
					for slot := 0; slot < sum.K; slot++ {
						if trackIntegral[slot] != 0 {
							total += trackIntegral[slot]
						}
					}
					for slot := 0; slot < sum.K; slot++ {
						seg := sum.TrackPixelMap[u*sum.K+slot]
						if seg < 0 {
							continue
						}
						frac := 0.0
						if total != 0 {
							frac = trackIntegral[slot] / total
						}
						segs = append(segs, seg)
						fracs = append(fracs, frac)
					}

					clockTick := 0
					tick := triggerTick
					if elec.ClockCycle > 0 && elec.RolloverCycles > 0 {
						clockTick = int(float64(triggerTick)*dt/elec.ClockCycle + 0.5)
						tick = clockTick % elec.RolloverCycles
					}
					timestamp := eventStartTime + float64(clockTick)*elec.ClockCycle

					samples = append(samples, ADCSample{
						PixelID:        pixelID,
						EventID:        eventID,
						Tick:           tick,
						ADCValue:       adc,
						Timestamp:      timestamp,
						TrackSegments:  segs,
						TrackFractions: fracs,
					})
					emitted++

					integral = 0
					for slot := range trackIntegral {
						trackIntegral[slot] = 0
					}
					busyRemaining = elec.ADCBusyDelay + elec.ResetCycles
					state = stateBusy
				}
			case stateBusy:
				busyRemaining--
				if busyRemaining <= 0 {
					integral = rng.Normal(0, elec.ResetNoiseCharge)
					state = stateIdle
				}
			}
		}

		results[u] = samples
	})

	var all []ADCSample
	for _, s := range results {
		all = append(all, s...)
	}
	return all
}

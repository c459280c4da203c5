package config

// ResponseParam indexes the five polynomial-in-(Δx,Δy) parameters of the
// pixel current response function I(t, t0, Δx, Δy) = a*exp((t-t0)/b) +
// c*exp((t-t0)/d) for t<t0 (§4.F step 5).
type ResponseParam int

const (
	RespA ResponseParam = iota
	RespB
	RespC
	RespD
	RespT0
	numRespParams
)

// ResponseCoeffs holds, per response parameter, the six coefficients of a
// quadratic in (Δx, Δy): [1, Δx, Δy, Δx², Δx·Δy, Δy²]. Values are a pre-fit
// of a field-response simulation, loaded as data rather than derived.
type ResponseCoeffs [numRespParams][6]float64

// Eval evaluates one response parameter's quadratic at (dx, dy).
func (c ResponseCoeffs) Eval(p ResponseParam, dx, dy float64) float64 {
	k := c[p]
	return k[0] + k[1]*dx + k[2]*dy + k[3]*dx*dx + k[4]*dx*dy + k[5]*dy*dy
}

// ElectronicsConfig holds the front-end digitizer's state-machine constants
// (§4.H) plus the orchestrator's batching/event-rate parameters (§4.I, §6).
type ElectronicsConfig struct {
	DiscriminationThreshold float64 `yaml:"discrimination_threshold"` // electrons
	ADCHoldDelay            int     `yaml:"adc_hold_delay"`           // ticks
	ADCBusyDelay            int     `yaml:"adc_busy_delay"`           // ticks
	ResetCycles             int     `yaml:"reset_cycles"`             // ticks
	ClockCycle              float64 `yaml:"clock_cycle"`              // µs
	RolloverCycles          int     `yaml:"rollover_cycles"`

	Gain       float64 `yaml:"gain"` // mV/e-
	VCM        float64 `yaml:"v_cm"`
	VRef       float64 `yaml:"v_ref"`
	VPedestal  float64 `yaml:"v_pedestal"`
	ADCCounts  int     `yaml:"adc_counts"`

	BufferRisetime float64 `yaml:"buffer_risetime"` // µs, optional smoothing

	ResetNoiseCharge        float64 `yaml:"reset_noise_charge"`
	UncorrelatedNoiseCharge float64 `yaml:"uncorrelated_noise_charge"`
	DiscriminatorNoise      float64 `yaml:"discriminator_noise"`

	MaxADCValues int `yaml:"max_adc_values"`

	ResponseCoeffs ResponseCoeffs `yaml:"response_coeffs"`

	// Orchestrator batching (§4.I).
	BatchSize      int     `yaml:"batch_size"`
	EventBatchSize int     `yaml:"event_batch_size"`
	EventRate      float64 `yaml:"event_rate"` // events/sec, Exp(1/EventRate) inter-arrival

	// K bounds the number of contributing-track slots recorded per unique
	// pixel for MC-truth fraction reconstruction (§3).
	TrackSlots int `yaml:"track_slots"`
}

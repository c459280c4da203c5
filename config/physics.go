package config

// RecombModel selects the quenching recombination model of §4.B.
type RecombModel string

const (
	RecombBox   RecombModel = "box"
	RecombBirks RecombModel = "birks"
)

// PhysicsConfig holds drift, diffusion, sampling, and recombination physics
// constants (§4.A, §4.B, §4.C).
type PhysicsConfig struct {
	DriftVelocity  float64 `yaml:"drift_velocity"`  // v_d, cm/µs
	Lifetime       float64 `yaml:"lifetime"`        // τ, µs (0 or a very large value means no attenuation)
	LongDiff       float64 `yaml:"long_diff"`       // D_L, cm²/µs
	TranDiff       float64 `yaml:"tran_diff"`       // D_T, cm²/µs
	SamplingPeriod float64 `yaml:"sampling_period"` // Δt, µs
	T0             float64 `yaml:"t0"`              // simulation window start, µs
	T1             float64 `yaml:"t1"`              // simulation window end, µs
	Pad            float64 `yaml:"pad"`             // §4.E guard, µs

	RecombModel RecombModel `yaml:"recomb_model"`
	BoxAlpha    float64     `yaml:"box_alpha"`
	BoxBeta     float64     `yaml:"box_beta"`
	BirksAb     float64     `yaml:"birks_ab"`
	BirksKb     float64     `yaml:"birks_kb"`

	EField         float64 `yaml:"e_field"`          // kV/cm
	LArDensity     float64 `yaml:"lar_density"`       // g/cm^3
	MeVToElectrons float64 `yaml:"mev_to_electrons"` // electrons per MeV at R=1

	// NRadial is the number of radii sampled by the polar quadrature in
	// §4.F's slice contribution (2*NRadial angles are sampled per radius).
	NRadial int `yaml:"n_radial"`

	// EndcapSize resolves the §9 open question on Gaussian recentering: a
	// slice within EndcapSize of either segment end recomputes the Gaussian
	// center at that slice; elsewhere the cheaper midpoint weights are used.
	EndcapSize float64 `yaml:"endcap_size"`

	// LateSignalCutoff is the 5 µs cutoff in §4.F step 5.
	LateSignalCutoff float64 `yaml:"late_signal_cutoff"`

	// MinGaussianA is the clamp floor for the Gaussian integral's `a`
	// coefficient (DESIGN NOTES §9: "clamp a to a small positive minimum").
	MinGaussianA float64 `yaml:"min_gaussian_a"`
}

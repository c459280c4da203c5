package components

// AssociationBuffers holds the ragged-but-rectangular pixel lists described
// in §3: a cheap pass computes Pmax (the per-batch maximum number of active
// pixels any single segment needs), then a dense S*Pmax buffer is allocated
// with -1 padding, avoiding per-segment allocation (DESIGN NOTES §9).
type AssociationBuffers struct {
	S             int   // number of segments
	Pmax          int   // max active pixels per segment, this batch
	Radius        int   // Chebyshev neighbor radius, this batch
	NeighborWidth int   // (2*Radius+1)^2 * Pmax
	ActivePixels  []int64 // S*Pmax, -1 padded
	Neighboring   []int64 // S*NeighborWidth, -1 padded
}

// NewAssociationBuffers allocates sentinel-filled active/neighbor buffers.
func NewAssociationBuffers(s, pmax, radius int) *AssociationBuffers {
	width := (2*radius + 1) * (2*radius + 1) * pmax
	b := &AssociationBuffers{
		S:             s,
		Pmax:          pmax,
		Radius:        radius,
		NeighborWidth: width,
		ActivePixels:  make([]int64, s*pmax),
		Neighboring:   make([]int64, s*width),
	}
	for i := range b.ActivePixels {
		b.ActivePixels[i] = SentinelPixel
	}
	for i := range b.Neighboring {
		b.Neighboring[i] = SentinelPixel
	}
	return b
}

// Active returns the k-th active pixel ID of segment s.
func (b *AssociationBuffers) Active(s, k int) int64 {
	return b.ActivePixels[s*b.Pmax+k]
}

// SetActive sets the k-th active pixel ID of segment s.
func (b *AssociationBuffers) SetActive(s, k int, id int64) {
	b.ActivePixels[s*b.Pmax+k] = id
}

// Neighbor returns the k-th neighboring-pixel ID of segment s.
func (b *AssociationBuffers) Neighbor(s, k int) int64 {
	return b.Neighboring[s*b.NeighborWidth+k]
}

// SetNeighbor sets the k-th neighboring-pixel ID of segment s.
func (b *AssociationBuffers) SetNeighbor(s, k int, id int64) {
	b.Neighboring[s*b.NeighborWidth+k] = id
}

// SignalBuffers holds the per-(segment, neighbor, tick) induced current and
// each segment's signal-window start, rounded to the sampling grid (§4.E).
type SignalBuffers struct {
	T           int // per-batch tick count (T_batch), the middle axis width
	Signals     []float64 // S*NeighborWidth*T
	TrackStarts []float64 // S, in microseconds
}

// NewSignalBuffers allocates a zeroed signal buffer sized to the
// association buffers' neighbor width and the batch's tick count.
func NewSignalBuffers(assoc *AssociationBuffers, tBatch int) *SignalBuffers {
	return &SignalBuffers{
		T:           tBatch,
		Signals:     make([]float64, assoc.S*assoc.NeighborWidth*tBatch),
		TrackStarts: make([]float64, assoc.S),
	}
}

// At returns the induced current for (segment s, neighbor slot k, tick t).
func (sb *SignalBuffers) At(s, k, t int, neighborWidth int) float64 {
	return sb.Signals[(s*neighborWidth+k)*sb.T+t]
}

// Add accumulates a contribution into (segment s, neighbor slot k, tick t).
func (sb *SignalBuffers) Add(s, k, t int, neighborWidth int, v float64) {
	sb.Signals[(s*neighborWidth+k)*sb.T+t] += v
}

// SummationBuffers holds the unique-pixel dedup, its index map back into the
// ragged neighbor lists, the per-pixel contributing-track map (capped at K
// slots for MC truth), and the dense per-pixel summed-current grid.
type SummationBuffers struct {
	UniquePixels []int64 // U, sorted, deduplicated, no sentinel

	// PixelIndexMap[s*neighborWidth+k] is the column index into
	// UniquePixels for neighboring-pixel slot k of segment s, or -1.
	PixelIndexMap []int32

	K             int     // contributing-track slots per unique pixel
	TrackPixelMap []int32 // U*K, -1 padded: segment indices contributing to pixel u

	Ttot                int
	PixelsSignals       []float64 // U*Ttot
	PixelsTracksSignals []float64 // U*Ttot*K
}

// NewSummationBuffers allocates dense per-unique-pixel buffers.
func NewSummationBuffers(unique []int64, k, ttot int) *SummationBuffers {
	u := len(unique)
	sb := &SummationBuffers{
		UniquePixels:        unique,
		K:                   k,
		TrackPixelMap:       make([]int32, u*k),
		Ttot:                ttot,
		PixelsSignals:       make([]float64, u*ttot),
		PixelsTracksSignals: make([]float64, u*ttot*k),
	}
	for i := range sb.TrackPixelMap {
		sb.TrackPixelMap[i] = -1
	}
	return sb
}

// PixelsSignal returns the summed current for unique pixel u at global tick t.
func (sb *SummationBuffers) PixelsSignal(u, t int) float64 {
	return sb.PixelsSignals[u*sb.Ttot+t]
}

// AddPixelsSignal accumulates current into unique pixel u at global tick t.
func (sb *SummationBuffers) AddPixelsSignal(u, t int, v float64) {
	sb.PixelsSignals[u*sb.Ttot+t] += v
}

// TrackSignal returns the per-track-slot summed current for unique pixel u
// at global tick t, contributing-track slot.
func (sb *SummationBuffers) TrackSignal(u, t, slot int) float64 {
	return sb.PixelsTracksSignals[(u*sb.Ttot+t)*sb.K+slot]
}

// AddTrackSignal accumulates per-track current into unique pixel u at global
// tick t, contributing-track slot.
func (sb *SummationBuffers) AddTrackSignal(u, t, slot int, v float64) {
	sb.PixelsTracksSignals[(u*sb.Ttot+t)*sb.K+slot] += v
}

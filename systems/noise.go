package systems

import (
	"hash/fnv"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// WorkerRNG is one counter-based random stream per parallel worker, seeded
// from (global seed, event id, batch index, worker id) so the same input
// reproduces the same output on the same worker topology (§5, §9). This
// mirrors the teacher's NewPerlinNoise(seed int64), which likewise builds a
// fresh rand.New(rand.NewSource(seed)) per generator instance rather than
// sharing the package-global source.
type WorkerRNG struct {
	rng *rand.Rand
}

// NewWorkerRNG derives a worker-local RNG from the batch's seed components.
func NewWorkerRNG(globalSeed int64, eventID int64, batchIndex, workerID int) *WorkerRNG {
	h := fnv.New64a()
	writeInt64(h, globalSeed)
	writeInt64(h, eventID)
	writeInt64(h, int64(batchIndex))
	writeInt64(h, int64(workerID))
	seed := int64(h.Sum64())
	return &WorkerRNG{rng: rand.New(rand.NewSource(seed))}
}

func writeInt64(h interface{ Write([]byte) (int, error) }, v int64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	h.Write(buf[:])
}

// Normal draws one sample from N(mu, sigma^2) using this worker's stream.
func (w *WorkerRNG) Normal(mu, sigma float64) float64 {
	if sigma <= 0 {
		return mu
	}
	d := distuv.Normal{Mu: mu, Sigma: sigma, Src: w.rng}
	return d.Rand()
}

// Exponential draws one inter-arrival sample from Exp(rate) using this
// worker's stream (§9: event_times should be exponential at rate
// EVENT_RATE, resolving the spec's "fixed arithmetic vs. exponential" open
// question in favor of the documented intent).
func (w *WorkerRNG) Exponential(rate float64) float64 {
	d := distuv.Exponential{Rate: rate, Src: w.rng}
	return d.Rand()
}

package telemetry

import "github.com/lartpc/larnd-sim-go/systems"

// ADCBatch is one event's worth of front-end digitizer output, handed from
// the orchestrator to the output manager at the EVENT_BATCH_SIZE flush
// cadence (§4.I).
type ADCBatch struct {
	EventID int64
	Samples []systems.ADCSample
}

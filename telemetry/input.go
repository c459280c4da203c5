package telemetry

import (
	"os"
	"sort"

	"github.com/gocarina/gocsv"

	"github.com/lartpc/larnd-sim-go/components"
	"github.com/lartpc/larnd-sim-go/simerr"
)

// SegmentRecord is one row of the input segment CSV, the external reader's
// wire format for §3's Segment record.
type SegmentRecord struct {
	EventID    int64   `csv:"event_id"`
	XStart     float64 `csv:"x_start"`
	YStart     float64 `csv:"y_start"`
	ZStart     float64 `csv:"z_start"`
	XEnd       float64 `csv:"x_end"`
	YEnd       float64 `csv:"y_end"`
	ZEnd       float64 `csv:"z_end"`
	TStart     float64 `csv:"t_start"`
	TEnd       float64 `csv:"t_end"`
	DE         float64 `csv:"de"`
	DEdx       float64 `csv:"dedx"`
	PixelPlane int32   `csv:"pixel_plane"`
}

// ReadSegments loads an input segment CSV into a column-major SegmentBatch,
// sorted by event_id (components.SplitEvents requires contiguous event
// runs). limit caps the number of segments read; 0 means unlimited, the
// supplemented "-segment-limit" CLI knob.
func ReadSegments(path string, limit int) (*components.SegmentBatch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, simerr.WrapIO("opening segment input", err)
	}
	defer f.Close()

	var records []SegmentRecord
	if err := gocsv.Unmarshal(f, &records); err != nil {
		return nil, simerr.WrapIO("parsing segment input", err)
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].EventID < records[j].EventID })

	n := len(records)
	seg := components.NewSegmentBatch(n)
	for i, r := range records {
		seg.EventID[i] = r.EventID
		seg.XStart[i], seg.YStart[i], seg.ZStart[i] = r.XStart, r.YStart, r.ZStart
		seg.XEnd[i], seg.YEnd[i], seg.ZEnd[i] = r.XEnd, r.YEnd, r.ZEnd
		seg.X[i] = (r.XStart + r.XEnd) / 2
		seg.Y[i] = (r.YStart + r.YEnd) / 2
		seg.Z[i] = (r.ZStart + r.ZEnd) / 2
		seg.TStart[i], seg.TEnd[i] = r.TStart, r.TEnd
		seg.T[i] = (r.TStart + r.TEnd) / 2
		seg.T0Start[i], seg.T0End[i], seg.T0[i] = r.TStart, r.TEnd, seg.T[i]
		seg.DE[i], seg.DEdx[i] = r.DE, r.DEdx
		seg.PixelPlane[i] = r.PixelPlane
	}
	return seg, nil
}

// SwapXZ exchanges the x and z columns of every segment in place. §9's third
// open question: one entry point in the original implementation applies this
// swap unconditionally as a compatibility shim, not a physical transform.
// Here it is opt-in via the CLI's "-swap-xz" flag rather than silent, since
// an unconditional hidden coordinate swap would surprise any caller not
// expecting it.
func SwapXZ(seg *components.SegmentBatch) {
	for i := range seg.X {
		seg.XStart[i], seg.ZStart[i] = seg.ZStart[i], seg.XStart[i]
		seg.XEnd[i], seg.ZEnd[i] = seg.ZEnd[i], seg.XEnd[i]
		seg.X[i], seg.Z[i] = seg.Z[i], seg.X[i]
	}
}

// BadChannelRecord is one row of the optional bad-channel CSV: a pixel ID
// excluded from digitization outright (§4 supplemented features).
type BadChannelRecord struct {
	PixelID int64 `csv:"pixel_id"`
}

// ReadBadChannels loads a pixel-ID exclusion set, or nil if path is empty.
func ReadBadChannels(path string) (map[int64]bool, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, simerr.WrapIO("opening bad-channel list", err)
	}
	defer f.Close()

	var records []BadChannelRecord
	if err := gocsv.Unmarshal(f, &records); err != nil {
		return nil, simerr.WrapIO("parsing bad-channel list", err)
	}
	out := make(map[int64]bool, len(records))
	for _, r := range records {
		out[r.PixelID] = true
	}
	return out, nil
}

// ThresholdRecord is one row of the optional per-pixel discrimination
// threshold override CSV (§4 supplemented features).
type ThresholdRecord struct {
	PixelID   int64   `csv:"pixel_id"`
	Threshold float64 `csv:"threshold"`
}

// ReadThresholds loads a per-pixel discrimination threshold override map, or
// nil if path is empty.
func ReadThresholds(path string) (map[int64]float64, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, simerr.WrapIO("opening threshold lookup", err)
	}
	defer f.Close()

	var records []ThresholdRecord
	if err := gocsv.Unmarshal(f, &records); err != nil {
		return nil, simerr.WrapIO("parsing threshold lookup", err)
	}
	out := make(map[int64]float64, len(records))
	for _, r := range records {
		out[r.PixelID] = r.Threshold
	}
	return out, nil
}

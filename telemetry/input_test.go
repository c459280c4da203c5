package telemetry

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempCSV(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing temp CSV: %v", err)
	}
	return path
}

func TestReadSegments_BasicAndLimit(t *testing.T) {
	csv := "event_id,x_start,y_start,z_start,x_end,y_end,z_end,t_start,t_end,de,dedx,pixel_plane\n" +
		"1,0,0,10,0,0,11,0,1,1.0,2.0,0\n" +
		"1,1,0,10,1,0,11,0,1,1.0,2.0,0\n" +
		"2,0,0,10,0,0,11,0,1,1.0,2.0,0\n"
	path := writeTempCSV(t, "segments.csv", csv)

	seg, err := ReadSegments(path, 0)
	if err != nil {
		t.Fatalf("ReadSegments: %v", err)
	}
	if seg.Len() != 3 {
		t.Fatalf("expected 3 segments, got %d", seg.Len())
	}
	if seg.X[0] != 0 || seg.Z[0] != 10.5 {
		t.Errorf("expected midpoint columns to be derived from start/end, got X=%v Z=%v", seg.X[0], seg.Z[0])
	}

	limited, err := ReadSegments(path, 2)
	if err != nil {
		t.Fatalf("ReadSegments with limit: %v", err)
	}
	if limited.Len() != 2 {
		t.Fatalf("expected limit=2 to cap segment count, got %d", limited.Len())
	}
}

func TestSwapXZ_ExchangesColumns(t *testing.T) {
	csv := "event_id,x_start,y_start,z_start,x_end,y_end,z_end,t_start,t_end,de,dedx,pixel_plane\n" +
		"1,1,2,30,4,5,60,0,1,1.0,2.0,0\n"
	path := writeTempCSV(t, "segments.csv", csv)

	seg, err := ReadSegments(path, 0)
	if err != nil {
		t.Fatalf("ReadSegments: %v", err)
	}

	origX, origZ := seg.XStart[0], seg.ZStart[0]
	SwapXZ(seg)
	if seg.XStart[0] != origZ || seg.ZStart[0] != origX {
		t.Errorf("expected SwapXZ to exchange x_start/z_start, got x=%v z=%v", seg.XStart[0], seg.ZStart[0])
	}
}

func TestReadBadChannels_EmptyPathReturnsNil(t *testing.T) {
	m, err := ReadBadChannels("")
	if err != nil {
		t.Fatalf("ReadBadChannels(\"\"): %v", err)
	}
	if m != nil {
		t.Errorf("expected nil map for empty path, got %v", m)
	}
}

func TestReadThresholds_LoadsOverrides(t *testing.T) {
	csv := "pixel_id,threshold\n100,5000.0\n"
	path := writeTempCSV(t, "thresholds.csv", csv)

	m, err := ReadThresholds(path)
	if err != nil {
		t.Fatalf("ReadThresholds: %v", err)
	}
	if m[100] != 5000.0 {
		t.Errorf("expected threshold override for pixel 100, got %v", m[100])
	}
}

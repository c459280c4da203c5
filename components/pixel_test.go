package components

import "testing"

// TestPixelID_RoundTrip checks §8 invariant 7: DecodePixelID(PixelID(ix, iy,
// plane)) == (ix, iy, plane) for every in-range input.
func TestPixelID_RoundTrip(t *testing.T) {
	const nx, ny = 50, 50
	cases := []struct{ ix, iy, plane int32 }{
		{0, 0, 0},
		{49, 49, 0},
		{1, 1, 0},
		{25, 10, 2},
		{0, 49, 3},
	}
	for _, c := range cases {
		id := PixelID(c.ix, c.iy, c.plane, nx, ny)
		gotIX, gotIY, gotPlane := DecodePixelID(id, nx, ny)
		if gotIX != c.ix || gotIY != c.iy || gotPlane != c.plane {
			t.Errorf("PixelID(%d,%d,%d) -> %d -> DecodePixelID = (%d,%d,%d), want (%d,%d,%d)",
				c.ix, c.iy, c.plane, id, gotIX, gotIY, gotPlane, c.ix, c.iy, c.plane)
		}
	}
}

func TestPixelCenter_UsesOriginAndHalfPitch(t *testing.T) {
	x, y := PixelCenter(2, 3, 0.4, -10.0, -10.0)
	wantX := 2*0.4 + -10.0 + 0.2
	wantY := 3*0.4 + -10.0 + 0.2
	if x != wantX || y != wantY {
		t.Errorf("PixelCenter(2,3,...) = (%v,%v), want (%v,%v)", x, y, wantX, wantY)
	}
}

func TestSplitEvents_GroupsContiguousRuns(t *testing.T) {
	seg := NewSegmentBatch(5)
	seg.EventID[0], seg.EventID[1] = 1, 1
	seg.EventID[2], seg.EventID[3], seg.EventID[4] = 2, 2, 2

	ranges := SplitEvents(seg)
	if len(ranges) != 2 {
		t.Fatalf("expected 2 event ranges, got %d", len(ranges))
	}
	if ranges[0].EventID != 1 || ranges[0].Start != 0 || ranges[0].End != 2 {
		t.Errorf("unexpected first range: %+v", ranges[0])
	}
	if ranges[1].EventID != 2 || ranges[1].Start != 2 || ranges[1].End != 5 {
		t.Errorf("unexpected second range: %+v", ranges[1])
	}
}

func TestSplitEvents_EmptyBatch(t *testing.T) {
	seg := NewSegmentBatch(0)
	if ranges := SplitEvents(seg); ranges != nil {
		t.Errorf("expected nil ranges for an empty batch, got %v", ranges)
	}
}

package importer

import (
	"math"
	"strings"
	"testing"
)

func rectangleSegments(x, y, w, h float64) []segment {
	a, b, c, d := point{x, y}, point{x + w, y}, point{x + w, y + h}, point{x, y + h}
	// Out of order and with one reversed edge, as drawn by hand.
	return []segment{{a, b}, {c, d}, {c, b}, {d, a}}
}

func TestChainSegments_ClosesRectangles(t *testing.T) {
	segs := append(rectangleSegments(0, 0, 4000, 3000), rectangleSegments(5000, 0, 2000, 2000)...)

	outlines := chainSegments(segs, 0.01)

	if len(outlines) != 2 {
		t.Fatalf("expected 2 outlines, got %d", len(outlines))
	}
	if got := outlines[0].area(); math.Abs(got-12e6) > 1e-6 {
		t.Errorf("expected area 12e6, got %v", got)
	}
	if len(outlines[0]) != 4 {
		t.Errorf("expected 4 vertices without closing duplicate, got %d", len(outlines[0]))
	}
}

func TestChainSegments_DropsOpenChains(t *testing.T) {
	segs := []segment{
		{point{0, 0}, point{1, 0}},
		{point{1, 0}, point{1, 1}},
	}
	if outlines := chainSegments(segs, 0.01); len(outlines) != 0 {
		t.Errorf("expected no outlines for open chain, got %d", len(outlines))
	}
}

func TestOutlinesToRooms_ScalesAndNames(t *testing.T) {
	opts := DefaultOptions()
	opts.OutletVoltage = 220
	outlines := []outline{
		{{0, 0}, {4000, 0}, {4000, 3000}, {0, 3000}},
		{{0, 0}, {50, 0}, {50, 50}, {0, 50}},
		{{0, 0}, {2500, 0}, {2500, 1500}, {0, 1500}},
	}
	var warnings []string

	rooms := outlinesToRooms(outlines, 0.001, opts, &warnings)

	if len(rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(rooms))
	}
	if rooms[0].Name != "Room 1" || rooms[0].Width != 4 || rooms[0].Length != 3 {
		t.Errorf("unexpected first room %+v", rooms[0])
	}
	if rooms[1].Name != "Room 2" || rooms[1].Width != 2.5 || rooms[1].Length != 1.5 {
		t.Errorf("unexpected second room %+v", rooms[1])
	}
	if rooms[1].OutletVoltage != 220 || rooms[1].LightingVoltage != 127 {
		t.Errorf("expected option voltages, got %+v", rooms[1])
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "smaller than a room") {
		t.Errorf("expected one skipped-shape warning, got %v", warnings)
	}
}

func TestCircleToOutline_BoundingBox(t *testing.T) {
	o := circleToOutline(2, 2, 1, 64)

	lo, hi := o.boundingBox()
	if math.Abs(lo.X-1) > 1e-9 || math.Abs(hi.X-3) > 1e-9 {
		t.Errorf("expected x range [1,3], got [%v,%v]", lo.X, hi.X)
	}
	if math.Abs(hi.Y-lo.Y-2) > 0.01 {
		t.Errorf("expected height ~2, got %v", hi.Y-lo.Y)
	}
}

func TestArcPoints_Endpoints(t *testing.T) {
	pts := arcPoints(0, 0, 1, 0, 90, 8)

	if len(pts) != 9 {
		t.Fatalf("expected 9 points, got %d", len(pts))
	}
	if math.Abs(pts[0].X-1) > 1e-9 || math.Abs(pts[0].Y) > 1e-9 {
		t.Errorf("expected start (1,0), got %+v", pts[0])
	}
	if math.Abs(pts[8].X) > 1e-9 || math.Abs(pts[8].Y-1) > 1e-9 {
		t.Errorf("expected end (0,1), got %+v", pts[8])
	}
}

func TestBulgeArcPoints_Semicircle(t *testing.T) {
	// Bulge 1 is a half circle over the chord.
	pts := bulgeArcPoints(point{0, 0}, point{2, 0}, 1, 16)

	first, last := pts[0], pts[len(pts)-1]
	if math.Abs(first.X) > 1e-9 || math.Abs(last.X-2) > 1e-9 {
		t.Errorf("expected arc from x=0 to x=2, got %v..%v", first.X, last.X)
	}
	for _, p := range pts {
		if r := math.Hypot(p.X-1, p.Y); math.Abs(r-1) > 1e-9 {
			t.Fatalf("point %+v not on unit circle around (1,0)", p)
		}
	}
}

func TestImportDXF_FileNotFound(t *testing.T) {
	result := ImportDXF("/nonexistent/plan.dxf", DefaultOptions())

	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], "Cannot open DXF file") {
		t.Errorf("expected open error, got %v", result.Errors)
	}
}

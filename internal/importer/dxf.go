package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/CircuitSizer/internal/model"
)

// point is a 2D drawing coordinate.
type point struct {
	X, Y float64
}

// outline is a closed polygon traced from a floor plan.
type outline []point

// boundingBox returns the min and max corners of the outline.
func (o outline) boundingBox() (point, point) {
	lo := point{math.Inf(1), math.Inf(1)}
	hi := point{math.Inf(-1), math.Inf(-1)}
	for _, p := range o {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}
	return lo, hi
}

// area computes the absolute area with the shoelace formula.
func (o outline) area() float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var a float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a += o[i].X*o[j].Y - o[j].X*o[i].Y
	}
	return math.Abs(a) / 2
}

// segment is a line between two points, used to chain loose LINE and ARC
// entities into closed outlines.
type segment struct {
	start point
	end   point
}

// minRoomSide is the smallest side, in metres, accepted as a room.
const minRoomSide = 0.1

// ImportDXF reads a floor plan and turns each closed shape (LWPOLYLINE,
// CIRCLE, or chain of connected LINEs/ARCs) into a room whose width and
// length are the sides of its bounding box, scaled by opts.Scale. Rooms are
// named "Room N" in descending area order and take the default voltages.
func ImportDXF(path string, opts Options) ImportResult {
	result := ImportResult{}

	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines []outline
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			o := lwPolylineToOutline(e)
			if len(o) >= 3 {
				outlines = append(outlines, o)
			} else {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
			}
		case *entity.Circle:
			outlines = append(outlines, circleToOutline(e.Center[0], e.Center[1], e.Radius, 64))
		case *entity.Arc:
			pts := arcPoints(e.Circle.Center[0], e.Circle.Center[1], e.Circle.Radius, e.Angle[0], e.Angle[1], 32)
			segments = append(segments, pointsToSegments(pts)...)
		case *entity.Line:
			segments = append(segments, segment{
				start: point{e.Start[0], e.Start[1]},
				end:   point{e.End[0], e.End[1]},
			})
		}
	}

	outlines = append(outlines, chainSegments(segments, 0.01)...)
	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	sort.SliceStable(outlines, func(i, j int) bool {
		return outlines[i].area() > outlines[j].area()
	})

	result.Rooms = outlinesToRooms(outlines, scale, opts, &result.Warnings)
	if len(result.Rooms) == 0 {
		result.Errors = append(result.Errors, "No shape large enough to be a room")
	}
	return result
}

// outlinesToRooms converts outlines, already in room order, to rooms.
func outlinesToRooms(outlines []outline, scale float64, opts Options, warnings *[]string) []model.Room {
	var rooms []model.Room
	for _, o := range outlines {
		lo, hi := o.boundingBox()
		width := round3((hi.X - lo.X) * scale)
		length := round3((hi.Y - lo.Y) * scale)

		if width < minRoomSide || length < minRoomSide {
			*warnings = append(*warnings,
				fmt.Sprintf("Skipped shape smaller than a room (%.2f x %.2f m)", width, length))
			continue
		}

		name := fmt.Sprintf("Room %d", len(rooms)+1)
		rooms = append(rooms, model.NewRoom(name, width, length, opts.LightingVoltage, opts.OutletVoltage))
	}
	return rooms
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// lwPolylineToOutline converts a DXF LWPOLYLINE entity to an outline.
// Bulge values on vertices produce interpolated arc segments.
func lwPolylineToOutline(lw *entity.LwPolyline) outline {
	var o outline
	n := len(lw.Vertices)
	for i := 0; i < n; i++ {
		current := point{lw.Vertices[i][0], lw.Vertices[i][1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		if math.Abs(bulge) < 1e-9 {
			o = append(o, current)
			continue
		}

		nextIdx := (i + 1) % n
		next := point{lw.Vertices[nextIdx][0], lw.Vertices[nextIdx][1]}
		pts := bulgeArcPoints(current, next, bulge, 32)
		o = append(o, pts[:len(pts)-1]...)
	}
	return o
}

// bulgeArcPoints generates points along an arc defined by two endpoints and a
// DXF bulge factor, the tangent of a quarter of the included angle.
func bulgeArcPoints(p1, p2 point, bulge float64, n int) outline {
	mx, my := (p1.X+p2.X)/2, (p1.Y+p2.Y)/2
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	chord := math.Hypot(dx, dy)
	if chord < 1e-9 {
		return outline{p1, p2}
	}

	sagitta := math.Abs(bulge) * chord / 2
	radius := (chord*chord/(4*sagitta) + sagitta) / 2

	perpX, perpY := -dy/chord, dx/chord
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	dist := radius - sagitta
	cx, cy := mx+perpX*dist, my+perpY*dist

	start := math.Atan2(p1.Y-cy, p1.X-cx)
	end := math.Atan2(p2.Y-cy, p2.X-cx)
	if bulge < 0 && end > start {
		end -= 2 * math.Pi
	}
	if bulge > 0 && end < start {
		end += 2 * math.Pi
	}

	pts := make(outline, 0, n+1)
	for i := 0; i <= n; i++ {
		a := start + float64(i)/float64(n)*(end-start)
		pts = append(pts, point{cx + radius*math.Cos(a), cy + radius*math.Sin(a)})
	}
	return pts
}

// circleToOutline approximates a circle as a regular polygon.
func circleToOutline(cx, cy, r float64, n int) outline {
	o := make(outline, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		o[i] = point{cx + r*math.Cos(a), cy + r*math.Sin(a)}
	}
	return o
}

// arcPoints samples an arc given in degrees, counter-clockwise from start to end.
func arcPoints(cx, cy, r, startDeg, endDeg float64, n int) []point {
	start := startDeg * math.Pi / 180
	end := endDeg * math.Pi / 180
	if end <= start {
		end += 2 * math.Pi
	}

	pts := make([]point, n+1)
	for i := 0; i <= n; i++ {
		a := start + float64(i)/float64(n)*(end-start)
		pts[i] = point{cx + r*math.Cos(a), cy + r*math.Sin(a)}
	}
	return pts
}

func pointsToSegments(pts []point) []segment {
	if len(pts) < 2 {
		return nil
	}
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments joins segments end to end into closed outlines. Endpoints
// closer than tolerance are treated as connected; open chains are dropped.
func chainSegments(segs []segment, tolerance float64) []outline {
	used := make([]bool, len(segs))
	var outlines []outline

	for startIdx := range segs {
		if used[startIdx] {
			continue
		}
		used[startIdx] = true
		chain := []point{segs[startIdx].start, segs[startIdx].end}

		for extended := true; extended; {
			extended = false
			tail := chain[len(chain)-1]
			for i, seg := range segs {
				if used[i] {
					continue
				}
				switch {
				case pointsClose(tail, seg.start, tolerance):
					chain = append(chain, seg.end)
				case pointsClose(tail, seg.end, tolerance):
					chain = append(chain, seg.start)
				default:
					continue
				}
				used[i] = true
				extended = true
				break
			}
		}

		if len(chain) < 4 || !pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			continue
		}
		outlines = append(outlines, outline(chain[:len(chain)-1]))
	}

	return outlines
}

func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}

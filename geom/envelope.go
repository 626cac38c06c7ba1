package geom

import "math"

// Envelope is an axis aligned 3D extent. Unset axes are NaN.
type Envelope struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// EmptyEnvelope returns an envelope without any extent.
func EmptyEnvelope() Envelope {
	nan := math.NaN()
	return Envelope{nan, nan, nan, nan, nan, nan}
}

func (e Envelope) IsEmpty() bool {
	return math.IsNaN(e.MinX) || math.IsNaN(e.MaxX)
}

func (e Envelope) HasZ() bool {
	return !math.IsNaN(e.MinZ) && !math.IsNaN(e.MaxZ)
}

// NeedsBox reports whether a geometry with this envelope gets a bounding box
// in the serialized form. Envelopes without width or height do not.
func (e Envelope) NeedsBox() bool {
	return !math.IsNaN(e.MaxX) && e.MaxX != e.MinX && e.MaxY != e.MinY
}

// Extend grows e to include x/y. NaN ordinates are ignored.
func (e *Envelope) Extend(x, y float64) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return
	}
	if e.IsEmpty() {
		e.MinX, e.MaxX = x, x
		e.MinY, e.MaxY = y, y
		return
	}
	e.MinX = math.Min(e.MinX, x)
	e.MaxX = math.Max(e.MaxX, x)
	e.MinY = math.Min(e.MinY, y)
	e.MaxY = math.Max(e.MaxY, y)
}

func (e *Envelope) ExtendZ(z float64) {
	if math.IsNaN(z) {
		return
	}
	if !e.HasZ() {
		e.MinZ, e.MaxZ = z, z
		return
	}
	e.MinZ = math.Min(e.MinZ, z)
	e.MaxZ = math.Max(e.MaxZ, z)
}

// EnvelopeOf returns the extent of g. Circular arcs contribute their true
// extent, not only their control points.
func EnvelopeOf(g Geometry) Envelope {
	env := EmptyEnvelope()
	extendGeometry(&env, g)
	return env
}

func extendGeometry(env *Envelope, g Geometry) {
	switch g := g.(type) {
	case *Point:
		env.ExtendPoints(g.Coords)
	case *LineString:
		env.ExtendPoints(g.Coords)
	case *CircularString:
		extendArcs(env, g.Coords)
	case *Polygon:
		for _, ring := range g.Rings {
			env.ExtendPoints(ring)
		}
	case *Triangle:
		env.ExtendPoints(g.Ring)
	case *Collection:
		for _, child := range g.Geoms {
			extendGeometry(env, child)
		}
	}
}

// ExtendPoints grows e to include all points of pa.
func (e *Envelope) ExtendPoints(pa *PointArray) {
	hasZ := pa != nil && pa.Layout.HasZ()
	for i := 0; i < pa.NumPoints(); i++ {
		p := pa.Point(i)
		e.Extend(p[0], p[1])
		if hasZ {
			e.ExtendZ(p[2])
		}
	}
}

func extendArcs(env *Envelope, pa *PointArray) {
	// control points bound Z and cover the arc end points
	env.ExtendPoints(pa)
	for i := 0; i+2 < pa.NumPoints(); i += 2 {
		a, b, c := pa.Point(i), pa.Point(i+1), pa.Point(i+2)
		extendArc(env, a[0], a[1], b[0], b[1], c[0], c[1])
	}
}

// extendArc adds the axis extremes of the circle through a, b and c that
// lie on the arc running from a through b to c.
func extendArc(env *Envelope, ax, ay, bx, by, cx, cy float64) {
	if ax == cx && ay == cy {
		// full circle, a and b are diametrically opposed
		mx, my := (ax+bx)/2, (ay+by)/2
		r := math.Hypot(bx-ax, by-ay) / 2
		env.Extend(mx-r, my-r)
		env.Extend(mx+r, my+r)
		return
	}
	d := 2 * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
	if d == 0 {
		return // collinear, the control points are the extent
	}
	a2, b2, c2 := ax*ax+ay*ay, bx*bx+by*by, cx*cx+cy*cy
	ux := (a2*(by-cy) + b2*(cy-ay) + c2*(ay-by)) / d
	uy := (a2*(cx-bx) + b2*(ax-cx) + c2*(bx-ax)) / d
	r := math.Hypot(ax-ux, ay-uy)

	ccw := (bx-ax)*(cy-ay)-(by-ay)*(cx-ax) > 0
	start := math.Atan2(ay-uy, ax-ux)
	end := math.Atan2(cy-uy, cx-ux)

	extremes := [4][2]float64{{r, 0}, {0, r}, {-r, 0}, {0, -r}}
	for q, off := range extremes {
		angle := float64(q) * math.Pi / 2
		var onArc bool
		if ccw {
			onArc = angleDist(start, angle) <= angleDist(start, end)
		} else {
			onArc = angleDist(angle, start) <= angleDist(end, start)
		}
		if onArc {
			env.Extend(ux+off[0], uy+off[1])
		}
	}
}

// angleDist returns the counter clockwise distance from one angle to
// another in [0, 2*Pi).
func angleDist(from, to float64) float64 {
	d := math.Mod(to-from, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	return d
}

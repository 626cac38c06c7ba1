package gser

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/omniscale/dmgeo/geom"
)

// serialWriter fills a preallocated buffer. Writes past the end set a
// sticky ErrSizeMismatch instead of growing the buffer.
type serialWriter struct {
	buf []byte
	pos int
	err error
}

func (w *serialWriter) reserve(n int) bool {
	if w.err != nil {
		return false
	}
	if n > len(w.buf)-w.pos {
		w.err = errors.Wrapf(geom.ErrSizeMismatch, "writing %d bytes at %d of %d", n, w.pos, len(w.buf))
		return false
	}
	return true
}

func (w *serialWriter) uint32(v uint32) {
	if !w.reserve(4) {
		return
	}
	binary.LittleEndian.PutUint32(w.buf[w.pos:], v)
	w.pos += 4
}

func (w *serialWriter) floats(flat []float64) {
	if !w.reserve(len(flat) * 8) {
		return
	}
	for _, v := range flat {
		binary.LittleEndian.PutUint64(w.buf[w.pos:], math.Float64bits(v))
		w.pos += 8
	}
}

func (w *serialWriter) typeInfo(t geom.Type, n int) {
	w.uint32(t.Internal())
	w.uint32(uint32(n))
}

// writeGeometry serializes g and checks the structural rules the WKB
// parser does not enforce.
func writeGeometry(w *serialWriter, g geom.Geometry, depth int) error {
	switch g := g.(type) {
	case *geom.Point:
		w.typeInfo(geom.TypePoint, g.Coords.NumPoints())
		if !g.Empty() {
			w.floats(g.Coords.Flat)
		}

	case *geom.LineString:
		n := g.Coords.NumPoints()
		if n == 1 {
			return errors.Wrapf(geom.ErrLineTooShort, "%d point", n)
		}
		w.typeInfo(geom.TypeLineString, n)
		w.floats(g.Coords.Flat)

	case *geom.CircularString:
		n := g.Coords.NumPoints()
		if n != 0 && (n < 3 || n%2 == 0) {
			return errors.Wrapf(geom.ErrCircularStringArity, "%d points", n)
		}
		w.typeInfo(geom.TypeCircularString, n)
		w.floats(g.Coords.Flat)

	case *geom.Triangle:
		if g.Empty() {
			w.typeInfo(geom.TypeTriangle, 0)
			break
		}
		if err := checkRing(g.Ring, 0); err != nil {
			return errors.Wrap(err, "triangle")
		}
		w.typeInfo(geom.TypeTriangle, g.Ring.NumPoints())
		w.floats(g.Ring.Flat)

	case *geom.Polygon:
		for i, ring := range g.Rings {
			if err := checkRing(ring, i); err != nil {
				return errors.Wrap(err, "polygon")
			}
		}
		w.typeInfo(geom.TypePolygon, len(g.Rings))
		for _, ring := range g.Rings {
			w.uint32(uint32(ring.NumPoints()))
		}
		if len(g.Rings)%2 == 1 {
			w.uint32(0)
		}
		for _, ring := range g.Rings {
			w.floats(ring.Flat)
		}

	case *geom.Collection:
		depth++
		if depth > geom.MaxDepth {
			return errors.Wrapf(geom.ErrTooDeep, "depth %d", depth)
		}
		w.typeInfo(g.Kind, len(g.Geoms))
		for i, child := range g.Geoms {
			if !geom.AllowsMember(g.Kind, child.Type()) {
				return errors.Wrapf(geom.ErrDisallowedMember, "%s in %s at %d", child.Type(), g.Kind, i)
			}
			if err := writeGeometry(w, child, depth); err != nil {
				return err
			}
		}

	default:
		return errors.Wrapf(geom.ErrUnknownType, "%T", g)
	}
	return w.err
}

func checkRing(ring *geom.PointArray, i int) error {
	if n := ring.NumPoints(); n < 4 {
		return errors.Wrapf(geom.ErrRingTooShort, "ring %d has %d points", i, n)
	}
	if !ring.IsClosed() {
		return errors.Wrapf(geom.ErrRingNotClosed, "ring %d", i)
	}
	return nil
}

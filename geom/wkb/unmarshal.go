package wkb

import (
	"math"

	"github.com/pkg/errors"

	"github.com/omniscale/dmgeo/geom"
)

// minGeometrySize is the smallest possible WKB geometry: byte order, type
// and one count.
const minGeometrySize = 9

// Unmarshal parses data into a geometry tree. Only the structure is checked
// here: counts must fit into data, collections must not nest deeper than
// geom.MaxDepth and children must use the layout of their parent.
// A point with NaN X and Y is returned as an empty point.
func Unmarshal(data []byte) (geom.Geometry, Header, error) {
	r := NewReader(data)
	hdr, err := r.ReadHeader()
	if err != nil {
		return nil, hdr, err
	}
	g, err := ReadGeometry(r, hdr, 0)
	if err != nil {
		return nil, hdr, err
	}
	return g, hdr, nil
}

// ReadGeometry reads the body of a geometry whose header was already read.
// depth is the number of collections enclosing it.
func ReadGeometry(r *Reader, hdr Header, depth int) (geom.Geometry, error) {
	layout := hdr.Layout
	switch hdr.Type {
	case geom.TypePoint:
		pa, err := r.ReadPoints(layout, 1)
		if err != nil {
			return nil, errors.Wrap(err, "point")
		}
		if xy := pa.Point(0); math.IsNaN(xy[0]) && math.IsNaN(xy[1]) {
			pa = geom.NewPointArray(layout, 0)
		}
		return &geom.Point{Coords: pa}, nil
	case geom.TypeLineString, geom.TypeCircularString:
		n, err := r.Uint32()
		if err != nil {
			return nil, errors.Wrapf(err, "%s point count", hdr.Type)
		}
		pa, err := r.ReadPoints(layout, n)
		if err != nil {
			return nil, errors.Wrapf(err, "%s with %d points", hdr.Type, n)
		}
		if hdr.Type == geom.TypeLineString {
			return &geom.LineString{Coords: pa}, nil
		}
		return &geom.CircularString{Coords: pa}, nil
	case geom.TypePolygon:
		rings, err := readRings(r, layout)
		if err != nil {
			return nil, err
		}
		return geom.NewPolygon(layout, rings...), nil
	case geom.TypeTriangle:
		rings, err := readRings(r, layout)
		if err != nil {
			return nil, err
		}
		switch len(rings) {
		case 0:
			return geom.NewTriangle(layout, nil), nil
		case 1:
			return geom.NewTriangle(layout, rings[0]), nil
		}
		return nil, errors.Wrapf(geom.ErrTriangleRings, "got %d", len(rings))
	}

	if !hdr.Type.IsCollection() {
		return nil, errors.Wrapf(geom.ErrUnknownType, "%s", hdr.Type)
	}
	depth++
	if depth > geom.MaxDepth {
		return nil, errors.Wrapf(geom.ErrTooDeep, "depth %d", depth)
	}
	n, err := r.Uint32()
	if err != nil {
		return nil, errors.Wrapf(err, "%s member count", hdr.Type)
	}
	coll := geom.NewCollection(hdr.Type, layout)
	if n > 0 {
		coll.Geoms = make([]geom.Geometry, 0, capHint(n, r.Remaining()/minGeometrySize))
	}
	for i := uint32(0); i < n; i++ {
		sub, err := r.ReadHeader()
		if err != nil {
			return nil, errors.Wrapf(err, "%s member %d", hdr.Type, i)
		}
		if sub.Layout != layout {
			return nil, errors.Wrapf(geom.ErrMixedLayout, "%s member %d is %s, not %s", hdr.Type, i, sub.Layout, layout)
		}
		g, err := ReadGeometry(r, sub, depth)
		if err != nil {
			return nil, err
		}
		coll.Push(g)
	}
	return coll, nil
}

func readRings(r *Reader, layout geom.Layout) ([]*geom.PointArray, error) {
	nrings, err := r.Uint32()
	if err != nil {
		return nil, errors.Wrap(err, "ring count")
	}
	if nrings == 0 {
		return nil, nil
	}
	rings := make([]*geom.PointArray, 0, capHint(nrings, r.Remaining()/4))
	for i := uint32(0); i < nrings; i++ {
		n, err := r.Uint32()
		if err != nil {
			return nil, errors.Wrapf(err, "ring %d point count", i)
		}
		pa, err := r.ReadPoints(layout, n)
		if err != nil {
			return nil, errors.Wrapf(err, "ring %d with %d points", i, n)
		}
		rings = append(rings, pa)
	}
	return rings, nil
}

// capHint limits a preallocation from an untrusted count.
func capHint(n uint32, max int) int {
	if uint64(n) > uint64(max) {
		return max
	}
	return int(n)
}

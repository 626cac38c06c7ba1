package gser

import (
	"math"

	"github.com/pkg/errors"

	"github.com/omniscale/dmgeo/geom"
	"github.com/omniscale/dmgeo/geom/wkb"
)

// payloadSize returns the serialized payload size for the WKB geometry at r
// whose header was already read.
//
// Counts that can not be read fail. Coordinate blocks that extend past the
// end of the input are not counted, the strict parse rejects them later.
func payloadSize(r *wkb.Reader, hdr wkb.Header, depth int) (int, error) {
	stride := uint64(hdr.Layout.Stride())

	switch hdr.Type {
	case geom.TypePoint:
		if !r.Has(stride * 8) {
			return typeInfoSize, nil
		}
		x, _ := r.Float64()
		y, _ := r.Float64()
		if err := r.Skip((stride - 2) * 8); err != nil {
			return 0, err
		}
		if math.IsNaN(x) && math.IsNaN(y) {
			return typeInfoSize, nil
		}
		return typeInfoSize + int(stride)*8, nil

	case geom.TypeLineString, geom.TypeCircularString:
		n, err := r.Uint32()
		if err != nil {
			return 0, errors.Wrapf(err, "%s point count", hdr.Type)
		}
		return typeInfoSize + skipCoords(r, hdr.Layout, n), nil

	case geom.TypeTriangle:
		nrings, err := r.Uint32()
		if err != nil {
			return 0, errors.Wrap(err, "triangle ring count")
		}
		size := typeInfoSize
		for i := uint32(0); i < nrings; i++ {
			n, err := r.Uint32()
			if err != nil {
				return 0, errors.Wrapf(err, "triangle ring %d point count", i)
			}
			size += skipCoords(r, hdr.Layout, n)
		}
		return size, nil

	case geom.TypePolygon:
		nrings, err := r.Uint32()
		if err != nil {
			return 0, errors.Wrap(err, "polygon ring count")
		}
		size := typeInfoSize
		if nrings%2 == 1 {
			size += 4
		}
		for i := uint32(0); i < nrings; i++ {
			n, err := r.Uint32()
			if err != nil {
				return 0, errors.Wrapf(err, "polygon ring %d point count", i)
			}
			size += 4 + skipCoords(r, hdr.Layout, n)
		}
		return size, nil
	}

	if !hdr.Type.IsCollection() {
		return 0, errors.Wrapf(geom.ErrUnknownType, "%s", hdr.Type)
	}
	depth++
	if depth > geom.MaxDepth {
		return 0, errors.Wrapf(geom.ErrTooDeep, "depth %d", depth)
	}
	n, err := r.Uint32()
	if err != nil {
		return 0, errors.Wrapf(err, "%s member count", hdr.Type)
	}
	size := typeInfoSize
	for i := uint32(0); i < n; i++ {
		sub, err := r.ReadHeader()
		if err != nil {
			return 0, errors.Wrapf(err, "%s member %d", hdr.Type, i)
		}
		s, err := payloadSize(r, sub, depth)
		if err != nil {
			return 0, err
		}
		size += s
	}
	return size, nil
}

// skipCoords advances r past n tuples and returns their size, or returns 0
// if the input is too short.
func skipCoords(r *wkb.Reader, layout geom.Layout, n uint32) int {
	need := wkb.CoordsSize(layout, n)
	if r.Skip(need) != nil {
		return 0
	}
	return int(need)
}

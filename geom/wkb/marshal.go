package wkb

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/omniscale/dmgeo/geom"
)

// Marshal encodes g as WKB. The SRID is only written on the outermost
// geometry and only if it is not geom.SRIDUnknown.
func Marshal(g geom.Geometry, srid int32, order binary.ByteOrder, flavor Flavor) ([]byte, error) {
	b := NewBuffer(order, flavor, 64)
	if err := writeGeometry(b, g, srid); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func writeGeometry(b *Buffer, g geom.Geometry, srid int32) error {
	layout := g.Layout()
	if g.Empty() {
		b.WriteEmpty(g.Type(), layout, srid)
		return nil
	}
	b.WriteHeader(g.Type(), layout, srid)

	switch g := g.(type) {
	case *geom.Point:
		b.WriteFloats(g.Coords.Flat)
	case *geom.LineString:
		writePoints(b, g.Coords)
	case *geom.CircularString:
		writePoints(b, g.Coords)
	case *geom.Polygon:
		b.WriteUint32(uint32(len(g.Rings)))
		for _, ring := range g.Rings {
			writePoints(b, ring)
		}
	case *geom.Triangle:
		b.WriteUint32(1)
		writePoints(b, g.Ring)
	case *geom.Collection:
		b.WriteUint32(uint32(len(g.Geoms)))
		for _, child := range g.Geoms {
			if err := writeGeometry(b, child, geom.SRIDUnknown); err != nil {
				return err
			}
		}
	default:
		return errors.Wrapf(geom.ErrUnknownType, "%T", g)
	}
	return nil
}

func writePoints(b *Buffer, pa *geom.PointArray) {
	b.WriteUint32(uint32(pa.NumPoints()))
	b.WriteFloats(pa.Flat)
}

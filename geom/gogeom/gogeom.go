// Package gogeom converts between github.com/twpayne/go-geom geometries and
// the serialized database format.
//
// Only the kinds go-geom models are supported: points, linestrings, polygons,
// their multi variants and geometry collections of those.
package gogeom

import (
	"encoding/binary"

	"github.com/pkg/errors"
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"

	dm "github.com/omniscale/dmgeo/geom"
	"github.com/omniscale/dmgeo/geom/gser"
)

var ErrUnsupported = errors.New("geometry type not supported by go-geom")

// Decode serializes g. The bounding box is computed from the coordinates of
// g, the SRID of g is kept.
func Decode(g geom.T) ([]byte, error) {
	data, err := ewkb.Marshal(g, binary.LittleEndian)
	if err != nil {
		return nil, errors.Wrapf(err, "marshaling %T", g)
	}
	env := dm.EmptyEnvelope()
	extendEnvelope(&env, g)
	return gser.Decode(data, env)
}

// Encode parses a serialized geometry into a go-geom geometry.
func Encode(data []byte) (geom.T, error) {
	hdr, err := gser.ReadHeader(data)
	if err != nil {
		return nil, err
	}
	if !supported(hdr.Type) {
		return nil, errors.Wrapf(ErrUnsupported, "%s", hdr.Type)
	}
	buf, err := gser.Encode(data)
	if err != nil {
		return nil, err
	}
	g, err := ewkb.Unmarshal(buf)
	if err != nil {
		// nested curves and surfaces
		return nil, errors.Wrapf(ErrUnsupported, "%s: %v", hdr.Type, err)
	}
	return g, nil
}

func supported(t dm.Type) bool {
	switch t {
	case dm.TypePoint, dm.TypeLineString, dm.TypePolygon,
		dm.TypeMultiPoint, dm.TypeMultiLineString, dm.TypeMultiPolygon,
		dm.TypeGeometryCollection:
		return true
	}
	return false
}

func extendEnvelope(env *dm.Envelope, g geom.T) {
	if gc, ok := g.(*geom.GeometryCollection); ok {
		for _, child := range gc.Geoms() {
			extendEnvelope(env, child)
		}
		return
	}
	layout, ok := layouts[g.Layout()]
	if !ok {
		return
	}
	env.ExtendPoints(dm.WrapPointArray(layout, g.FlatCoords()))
}

var layouts = map[geom.Layout]dm.Layout{
	geom.XY:   dm.XY,
	geom.XYZ:  dm.XYZ,
	geom.XYM:  dm.XYM,
	geom.XYZM: dm.XYZM,
}

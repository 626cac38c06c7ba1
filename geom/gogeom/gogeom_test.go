package gogeom

import (
	"encoding/binary"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	geom "github.com/twpayne/go-geom"

	dm "github.com/omniscale/dmgeo/geom"
	"github.com/omniscale/dmgeo/geom/gser"
	"github.com/omniscale/dmgeo/geom/wkb"
	"github.com/omniscale/dmgeo/log"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	log.SetOutput(os.Stderr)
	os.Exit(code)
}

func TestDecodePoint(t *testing.T) {
	p := geom.NewPoint(geom.XY).MustSetCoords(geom.Coord{1, 2}).SetSRID(4326)
	ser, err := Decode(p)
	require.NoError(t, err)

	hdr, err := gser.ReadHeader(ser)
	require.NoError(t, err)
	assert.Equal(t, dm.TypePoint, hdr.Type)
	assert.Equal(t, int32(4326), hdr.SRID)
	assert.False(t, hdr.HasBBox)
}

func TestPolygonRoundTrip(t *testing.T) {
	poly := geom.NewPolygon(geom.XYZ).MustSetCoords([][]geom.Coord{
		{{0, 0, 1}, {10, 0, 2}, {10, 10, 3}, {0, 10, 4}, {0, 0, 1}},
		{{2, 2, 5}, {4, 2, 5}, {4, 4, 5}, {2, 2, 5}},
	}).SetSRID(3857)

	ser, err := Decode(poly)
	require.NoError(t, err)
	hdr, err := gser.ReadHeader(ser)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 10, 0, 10, 1, 5}, hdr.BBox)

	g, err := Encode(ser)
	require.NoError(t, err)
	out, ok := g.(*geom.Polygon)
	require.True(t, ok)
	assert.Equal(t, geom.XYZ, out.Layout())
	assert.Equal(t, 3857, out.SRID())
	assert.Equal(t, poly.FlatCoords(), out.FlatCoords())
	assert.Equal(t, poly.Ends(), out.Ends())
}

func TestMultiLineStringRoundTrip(t *testing.T) {
	mls := geom.NewMultiLineString(geom.XYM).MustSetCoords([][]geom.Coord{
		{{0, 0, 7}, {1, 1, 8}},
		{{5, 5, 9}, {6, 4, 10}, {7, 5, 11}},
	})
	ser, err := Decode(mls)
	require.NoError(t, err)

	g, err := Encode(ser)
	require.NoError(t, err)
	out, ok := g.(*geom.MultiLineString)
	require.True(t, ok)
	assert.Equal(t, geom.XYM, out.Layout())
	assert.Equal(t, mls.FlatCoords(), out.FlatCoords())
	assert.Equal(t, mls.Ends(), out.Ends())
}

func TestDecodeInvalid(t *testing.T) {
	open := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
	})
	_, err := Decode(open)
	assert.ErrorIs(t, err, dm.ErrRingNotClosed)
}

func serialize(t *testing.T, g dm.Geometry) []byte {
	in, err := wkb.Marshal(g, dm.SRIDUnknown, binary.LittleEndian, wkb.Extended)
	require.NoError(t, err)
	ser, err := gser.Decode(in, dm.EnvelopeOf(g))
	require.NoError(t, err)
	return ser
}

func TestEncodeCollection(t *testing.T) {
	ser := serialize(t, dm.NewCollection(dm.TypeGeometryCollection, dm.XY,
		dm.NewPoint(dm.XY, 1, 2),
		dm.NewLineString(dm.XY, 0, 0, 3, 3),
	))
	g, err := Encode(ser)
	require.NoError(t, err)
	gc, ok := g.(*geom.GeometryCollection)
	require.True(t, ok)
	assert.Equal(t, 2, gc.NumGeoms())
}

func TestEncodeUnsupported(t *testing.T) {
	arc := dm.NewCircularString(dm.XY, 0, 0, 1, 1, 2, 0)

	_, err := Encode(serialize(t, arc))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Encode(serialize(t, dm.NewCollection(dm.TypeGeometryCollection, dm.XY, arc)))
	assert.ErrorIs(t, err, ErrUnsupported)
}

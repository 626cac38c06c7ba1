package wkb

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gogeom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"

	"github.com/omniscale/dmgeo/geom"
	"github.com/omniscale/dmgeo/log"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	log.SetOutput(os.Stderr)
	os.Exit(code)
}

func mustHex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestReadHeader(t *testing.T) {
	for _, tc := range []struct {
		name   string
		wkb    string
		typ    geom.Type
		layout geom.Layout
		srid   int32
	}{
		{"ndr point", "0101000000", geom.TypePoint, geom.XY, 0},
		{"xdr linestring", "0000000002", geom.TypeLineString, geom.XY, 0},
		{"iso z polygon", "01EB030000", geom.TypePolygon, geom.XYZ, 0},
		{"iso m multipoint", "01D4070000", geom.TypeMultiPoint, geom.XYM, 0},
		{"iso zm tin", "01C80B0000", geom.TypeTIN, geom.XYZM, 0},
		{"iso triangle", "0111000000", geom.TypeTriangle, geom.XY, 0},
		{"ewkb z srid", "01010000A0E6100000", geom.TypePoint, geom.XYZ, 4326},
		{"ewkb zm", "01010000C0", geom.TypePoint, geom.XYZM, 0},
		{"ewkb m xdr", "0040000008", geom.TypeCircularString, geom.XYM, 0},
		{"ewkb clamped srid", "0101000020" + "40420F00", geom.TypePoint, geom.XY, 999001},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := NewReader(mustHex(t, tc.wkb))
			hdr, err := r.ReadHeader()
			require.NoError(t, err)
			assert.Equal(t, tc.typ, hdr.Type)
			assert.Equal(t, tc.layout, hdr.Layout)
			assert.Equal(t, tc.srid, hdr.SRID)
			assert.Equal(t, 0, r.Remaining())
		})
	}
}

func TestReadHeaderErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		wkb  string
		err  error
	}{
		{"empty", "", geom.ErrTruncated},
		{"no type", "0101", geom.ErrTruncated},
		{"bad marker", "0201000000", geom.ErrInvalidByteOrder},
		{"curve", "010D000000", geom.ErrUnknownType},
		{"surface", "010E000000", geom.ErrUnknownType},
		{"unknown", "0112000000", geom.ErrUnknownType},
		{"oracle", "01A20F0000", geom.ErrUnknownType},
		{"zero", "0100000000", geom.ErrUnknownType},
		{"missing srid", "0101000020E610", geom.ErrTruncated},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewReader(mustHex(t, tc.wkb)).ReadHeader()
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestUnmarshal(t *testing.T) {
	g, hdr, err := Unmarshal(mustHex(t, "01020000000200000000000000000000000000000000000000000000000000F03F000000000000F03F"))
	require.NoError(t, err)
	assert.Equal(t, geom.SRIDUnknown, hdr.SRID)
	assert.Equal(t, geom.NewLineString(geom.XY, 0, 0, 1, 1), g)

	g, _, err = Unmarshal(mustHex(t, "0101000000000000000000F87F000000000000F87F"))
	require.NoError(t, err)
	assert.True(t, g.Empty())

	// only one ordinate NaN is a regular point
	g, _, err = Unmarshal(mustHex(t, "0101000000000000000000F87F0000000000000000"))
	require.NoError(t, err)
	assert.False(t, g.Empty())
}

func TestUnmarshalErrors(t *testing.T) {
	// multipoint claiming a billion members
	data := mustHex(t, "010400000000CA9A3B0101000000")
	_, _, err := Unmarshal(data)
	assert.ErrorIs(t, err, geom.ErrTruncated)

	// point member with Z inside a 2D collection
	mixed := NewBuffer(binary.LittleEndian, Extended, 64)
	mixed.WriteHeader(geom.TypeGeometryCollection, geom.XY, geom.SRIDUnknown)
	mixed.WriteUint32(1)
	mixed.WriteHeader(geom.TypePoint, geom.XYZ, geom.SRIDUnknown)
	mixed.WriteFloats([]float64{1, 2, 3})
	_, _, err = Unmarshal(mixed.Bytes())
	assert.ErrorIs(t, err, geom.ErrMixedLayout)

	nested := NewBuffer(binary.BigEndian, ISO, 64)
	for i := 0; i <= geom.MaxDepth; i++ {
		nested.WriteHeader(geom.TypeGeometryCollection, geom.XY, geom.SRIDUnknown)
		nested.WriteUint32(1)
	}
	nested.WriteEmpty(geom.TypePoint, geom.XY, geom.SRIDUnknown)
	_, _, err = Unmarshal(nested.Bytes())
	assert.ErrorIs(t, err, geom.ErrTooDeep)
}

func TestMarshal(t *testing.T) {
	pt := geom.NewPoint(geom.XYZ, 1, 2, 3)

	buf, err := Marshal(pt, 4326, binary.LittleEndian, Extended)
	require.NoError(t, err)
	assert.Equal(t, "01010000A0E6100000000000000000F03F00000000000000400000000000000840", hexUpper(buf))

	buf, err = Marshal(pt, geom.SRIDUnknown, binary.BigEndian, ISO)
	require.NoError(t, err)
	assert.Equal(t, "00000003E93FF000000000000040000000000000004008000000000000", hexUpper(buf))

	buf, err = Marshal(geom.NewCollection(geom.TypeMultiPoint, geom.XY, geom.NewPoint(geom.XY)), 3857, binary.LittleEndian, Extended)
	require.NoError(t, err)
	g, hdr, err := Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, int32(3857), hdr.SRID)
	coll := g.(*geom.Collection)
	require.Len(t, coll.Geoms, 1)
	assert.True(t, coll.Geoms[0].Empty())
	// member headers carry no SRID
	assert.Equal(t, geom.TypePoint.WKBCode(), binary.LittleEndian.Uint32(buf[14:]))
}

func TestWriteLittleEndianFloats(t *testing.T) {
	raw := make([]byte, 16)
	binary.LittleEndian.PutUint64(raw, math.Float64bits(1.5))
	binary.LittleEndian.PutUint64(raw[8:], math.Float64bits(-2))

	le := NewBuffer(binary.LittleEndian, Extended, 0)
	le.WriteLittleEndianFloats(raw)
	assert.Equal(t, raw, le.Bytes())

	be := NewBuffer(binary.BigEndian, Extended, 0)
	be.WriteLittleEndianFloats(raw)
	assert.Equal(t, "3FF8000000000000C000000000000000", hexUpper(be.Bytes()))
}

func hexUpper(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

func TestMarshalMatchesGoGeom(t *testing.T) {
	coords := [][]float64{{0, 0, 1}, {4, 0, 2}, {4, 4, 3}, {0, 0, 1}}
	ref := gogeom.NewPolygon(gogeom.XYZ).MustSetCoords([][]gogeom.Coord{{
		coords[0], coords[1], coords[2], coords[3],
	}}).SetSRID(25832)

	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		expected, err := ewkb.Marshal(ref, order)
		require.NoError(t, err)

		var flat []float64
		for _, c := range coords {
			flat = append(flat, c...)
		}
		poly := geom.NewPolygon(geom.XYZ, geom.NewPointArrayFromFlat(geom.XYZ, flat))
		buf, err := Marshal(poly, 25832, order, Extended)
		require.NoError(t, err)
		assert.Equal(t, expected, buf)

		g, hdr, err := Unmarshal(expected)
		require.NoError(t, err)
		assert.Equal(t, int32(25832), hdr.SRID)
		assert.Equal(t, poly, g)
	}
}

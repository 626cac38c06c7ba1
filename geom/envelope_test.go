package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvelopeOf(t *testing.T) {
	env := EnvelopeOf(NewCollection(TypeGeometryCollection, XYZ,
		NewPoint(XYZ, 5, -3, 2),
		NewLineString(XYZ, 0, 0, 0, 1, 1, 10),
		NewPoint(XYZ),
	))
	assert.Equal(t, Envelope{0, 5, -3, 1, 0, 10}, env)
	assert.True(t, env.NeedsBox())

	env = EnvelopeOf(NewPoint(XY, 1, 2))
	assert.False(t, env.HasZ())
	assert.False(t, env.NeedsBox())

	assert.True(t, EnvelopeOf(NewPolygon(XY)).IsEmpty())
	assert.False(t, EmptyEnvelope().NeedsBox())
}

func TestEnvelopeOfArc(t *testing.T) {
	const eps = 1e-9

	// upper half circle around the origin
	env := EnvelopeOf(NewCircularString(XY, -1, 0, 0, 1, 1, 0))
	assert.InDelta(t, -1, env.MinX, eps)
	assert.InDelta(t, 1, env.MaxX, eps)
	assert.InDelta(t, 0, env.MinY, eps)
	assert.InDelta(t, 1, env.MaxY, eps)

	// lower half, clockwise from the other side
	env = EnvelopeOf(NewCircularString(XY, 1, 0, 0, -1, -1, 0))
	assert.InDelta(t, -1, env.MinY, eps)
	assert.InDelta(t, 0, env.MaxY, eps)

	// quarter arc through 45 degrees bulges past its control points
	s := math.Sqrt2 / 2
	env = EnvelopeOf(NewCircularString(XY, 1, 0, s, s, 0, 1))
	assert.InDelta(t, 1, env.MaxX, eps)
	assert.InDelta(t, 1, env.MaxY, eps)
	assert.InDelta(t, 0, env.MinX, eps)

	// three quarter arc covers three extremes
	env = EnvelopeOf(NewCircularString(XY, 1, 0, -1, 0, 0, -1))
	assert.InDelta(t, -1, env.MinX, eps)
	assert.InDelta(t, 1, env.MaxY, eps)
	assert.InDelta(t, -1, env.MinY, eps)

	// full circle
	env = EnvelopeOf(NewCircularString(XY, 0, 0, 2, 0, 0, 0))
	assert.InDelta(t, 0, env.MinX, eps)
	assert.InDelta(t, -1, env.MinY, eps)
	assert.InDelta(t, 1, env.MaxY, eps)
	assert.InDelta(t, 2, env.MaxX, eps)

	// collinear
	env = EnvelopeOf(NewCircularString(XY, 0, 0, 1, 1, 2, 2))
	assert.Equal(t, 2.0, env.MaxX)
	assert.Equal(t, 2.0, env.MaxY)
}

func TestExtendPointsWrapped(t *testing.T) {
	flat := []float64{1, 2, 3, 4, 5, 6}
	pa := WrapPointArray(XYZ, flat)
	assert.Equal(t, 2, pa.NumPoints())

	flat[3] = -4
	assert.Equal(t, []float64{-4, 5, 6}, pa.Point(1))

	env := EmptyEnvelope()
	env.ExtendPoints(pa)
	assert.Equal(t, Envelope{-4, 1, 2, 5, 3, 6}, env)

	copied := NewPointArrayFromFlat(XYZ, flat)
	flat[0] = 100
	assert.Equal(t, []float64{-4, 5, 6}, copied.Point(0))
}

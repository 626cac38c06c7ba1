package geom

import "math"

// Layout describes which ordinates a coordinate tuple carries.
type Layout uint8

const (
	XY Layout = iota
	XYZ
	XYM
	XYZM
)

func NewLayout(hasZ, hasM bool) Layout {
	l := XY
	if hasZ {
		l |= XYZ
	}
	if hasM {
		l |= XYM
	}
	return l
}

func (l Layout) HasZ() bool { return l&XYZ != 0 }
func (l Layout) HasM() bool { return l&XYM != 0 }

// Stride is the number of float64 values per coordinate tuple.
func (l Layout) Stride() int {
	n := 2
	if l.HasZ() {
		n++
	}
	if l.HasM() {
		n++
	}
	return n
}

func (l Layout) String() string {
	switch l {
	case XYZ:
		return "XYZ"
	case XYM:
		return "XYM"
	case XYZM:
		return "XYZM"
	}
	return "XY"
}

// PointArray is a list of coordinate tuples stored as one flat slice.
type PointArray struct {
	Layout Layout
	Flat   []float64
}

// NewPointArray allocates room for n tuples.
func NewPointArray(layout Layout, n int) *PointArray {
	return &PointArray{Layout: layout, Flat: make([]float64, n*layout.Stride())}
}

// NewPointArrayFromFlat copies flat into a new point array.
func NewPointArrayFromFlat(layout Layout, flat []float64) *PointArray {
	pa := &PointArray{Layout: layout, Flat: make([]float64, len(flat))}
	copy(pa.Flat, flat)
	return pa
}

// WrapPointArray uses flat without copying it. The caller must not modify
// flat while the point array is in use.
func WrapPointArray(layout Layout, flat []float64) *PointArray {
	return &PointArray{Layout: layout, Flat: flat}
}

func (pa *PointArray) NumPoints() int {
	if pa == nil {
		return 0
	}
	return len(pa.Flat) / pa.Layout.Stride()
}

// Point returns the i-th tuple. The returned slice shares storage with pa.
func (pa *PointArray) Point(i int) []float64 {
	stride := pa.Layout.Stride()
	return pa.Flat[i*stride : (i+1)*stride]
}

// IsClosed reports whether the first and the last tuple are bitwise equal.
// Z takes part in the comparison, M never does. Empty arrays are not closed,
// single points are.
func (pa *PointArray) IsClosed() bool {
	n := pa.NumPoints()
	if n == 0 {
		return false
	}
	if n == 1 {
		return true
	}
	dims := 2
	if pa.Layout.HasZ() {
		dims = 3
	}
	first, last := pa.Point(0), pa.Point(n-1)
	for i := 0; i < dims; i++ {
		if math.Float64bits(first[i]) != math.Float64bits(last[i]) {
			return false
		}
	}
	return true
}

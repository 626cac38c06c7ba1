package gser

import (
	"encoding/binary"
	"math"

	"github.com/omniscale/dmgeo/geom"
)

// boxFloats returns the number of float32 values in a bounding box.
// Geodetic boxes are always 3D.
func boxFloats(layout geom.Layout, geodetic bool) int {
	if geodetic {
		return 6
	}
	return 2 * layout.Stride()
}

func clampFloat32(d float64) float32 {
	if d >= math.MaxFloat32 {
		return math.MaxFloat32
	}
	if d <= -math.MaxFloat32 {
		return -math.MaxFloat32
	}
	return float32(d)
}

// nextFloatDown returns the largest float32 not greater than d.
func nextFloatDown(d float64) float32 {
	f := clampFloat32(d)
	if float64(f) <= d {
		return f
	}
	return math.Nextafter32(f, -math.MaxFloat32)
}

// nextFloatUp returns the smallest float32 not less than d.
func nextFloatUp(d float64) float32 {
	f := clampFloat32(d)
	if float64(f) >= d {
		return f
	}
	return math.Nextafter32(f, math.MaxFloat32)
}

// putBox writes the rounded out envelope and returns the bytes written.
// Axes the envelope has no extent for are written as zero, M always is.
func putBox(buf []byte, env geom.Envelope, layout geom.Layout) int {
	box := make([]float32, 0, boxFloats(layout, false))
	box = append(box,
		nextFloatDown(env.MinX), nextFloatUp(env.MaxX),
		nextFloatDown(env.MinY), nextFloatUp(env.MaxY),
	)
	if layout.HasZ() {
		if env.HasZ() {
			box = append(box, nextFloatDown(env.MinZ), nextFloatUp(env.MaxZ))
		} else {
			box = append(box, 0, 0)
		}
	}
	if layout.HasM() {
		box = append(box, 0, 0)
	}
	for i, f := range box {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return len(box) * 4
}

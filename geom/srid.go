package geom

import "github.com/omniscale/dmgeo/log"

const (
	SRIDUnknown     int32 = 0
	SRIDMaximum     int32 = 999999
	SRIDUserMaximum int32 = 998999
)

// ClampSRID maps srid into the range the serialized format can store.
// Non-positive values become SRIDUnknown, values above SRIDMaximum are folded
// into the reserved range above SRIDUserMaximum.
func ClampSRID(srid int32) int32 {
	if srid <= 0 {
		return SRIDUnknown
	}
	if srid > SRIDMaximum {
		clamped := SRIDUserMaximum + 1 + srid%(SRIDMaximum-SRIDUserMaximum-1)
		log.Printf("[warn] SRID value %d > %d converted to %d", srid, SRIDMaximum, clamped)
		return clamped
	}
	return srid
}

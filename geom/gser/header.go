// Package gser converts between WKB and the serialized geometry format of
// the database's spatial extension.
//
// A serialized geometry starts with an 8 byte header:
//
//	uint32  size << 2
//	[3]byte SRID, 21 bit signed, big endian
//	byte    flags (Z, M, BBOX, GEODETIC, EXTENDED, VERSION)
//
// followed by 8 bytes of extended flags if EXTENDED is set, an optional
// bounding box of float32 min/max pairs and the payload. All integers and
// ordinates in the payload are little endian. Payloads are tagged with the
// geom.Type value and an element count:
//
//	point, linestring, circularstring, triangle: type, npoints, ordinates
//	polygon: type, nrings, npoints per ring, padding if nrings is odd, ordinates
//	collections: type, ngeoms, payload of each member
package gser

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/omniscale/dmgeo/geom"
)

const (
	flagZ        = 0x01
	flagM        = 0x02
	flagBBox     = 0x04
	flagGeodetic = 0x08
	flagExtended = 0x10
	flagVersion  = 0x40
)

const (
	headerSize   = 8
	xflagsSize   = 8
	typeInfoSize = 8 // type tag and count
)

// Header describes a serialized geometry.
type Header struct {
	// Size is the total length declared by the buffer.
	Size     int
	SRID     int32
	HasZ     bool
	HasM     bool
	HasBBox  bool
	Geodetic bool
	Extended bool
	Version  bool
	// BBox holds min/max pairs, X, Y, then Z and M as present.
	BBox []float32
	// Type is the type of the outermost geometry.
	Type geom.Type

	payload int
}

func (h Header) Layout() geom.Layout {
	return geom.NewLayout(h.HasZ, h.HasM)
}

// ReadHeader parses the header, the bounding box and the type tag of data.
func ReadHeader(data []byte) (Header, error) {
	var h Header
	if len(data) < headerSize {
		return h, errors.Wrap(geom.ErrTruncated, "header")
	}
	h.Size = int(binary.LittleEndian.Uint32(data) >> 2)
	if h.Size > len(data) {
		return h, errors.Wrapf(geom.ErrTruncated, "declared size %d, got %d bytes", h.Size, len(data))
	}
	if h.Size == 0 {
		h.Size = len(data)
	}
	h.SRID = readSRID(data[4:7])

	flags := data[7]
	h.HasZ = flags&flagZ != 0
	h.HasM = flags&flagM != 0
	h.HasBBox = flags&flagBBox != 0
	h.Geodetic = flags&flagGeodetic != 0
	h.Extended = flags&flagExtended != 0
	h.Version = flags&flagVersion != 0

	off := headerSize
	if h.Extended {
		off += xflagsSize
	}
	if h.HasBBox {
		n := boxFloats(h.Layout(), h.Geodetic)
		if off+n*4 > h.Size {
			return h, errors.Wrap(geom.ErrTruncated, "bounding box")
		}
		h.BBox = make([]float32, n)
		for i := range h.BBox {
			h.BBox[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
	}
	if off+4 > h.Size {
		return h, errors.Wrap(geom.ErrTruncated, "type tag")
	}
	tag := binary.LittleEndian.Uint32(data[off:])
	t, ok := geom.TypeFromInternal(tag)
	if !ok {
		return h, errors.Wrapf(geom.ErrUnknownType, "type tag %d", tag)
	}
	h.Type = t
	h.payload = off
	return h, nil
}

// putHeader writes the header fields except the size.
func putHeader(buf []byte, srid int32, layout geom.Layout, withBox bool) {
	putSRID(buf[4:7], srid)
	var flags byte
	if layout.HasZ() {
		flags |= flagZ
	}
	if layout.HasM() {
		flags |= flagM
	}
	if withBox {
		flags |= flagBBox
	}
	flags |= flagVersion
	buf[7] = flags
}

func putSize(buf []byte, size int) {
	binary.LittleEndian.PutUint32(buf, uint32(size)<<2)
}

func putSRID(b []byte, srid int32) {
	b[0] = byte((srid & 0x001F0000) >> 16)
	b[1] = byte((srid & 0x0000FF00) >> 8)
	b[2] = byte(srid & 0x000000FF)
}

func readSRID(b []byte) int32 {
	srid := int32(b[0])<<16 | int32(b[1])<<8 | int32(b[2])
	// sign extend the 21 bit value
	return (srid << 11) >> 11
}

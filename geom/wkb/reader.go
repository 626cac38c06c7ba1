// Package wkb reads and writes Well-Known Binary geometries.
//
// Both flavors of Z/M signalling are understood when reading: the extended
// flag bits (0x80000000 Z, 0x40000000 M, 0x20000000 SRID) and the ISO offsets
// (1000 Z, 2000 M, 3000 ZM).
package wkb

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/omniscale/dmgeo/geom"
)

const (
	flagZ    = 0x80000000
	flagM    = 0x40000000
	flagSRID = 0x20000000

	flagMask = 0xF0000000
)

const (
	byteOrderXDR = 0
	byteOrderNDR = 1
)

// Header is the leading part of every WKB geometry.
type Header struct {
	Type    geom.Type
	Layout  geom.Layout
	HasSRID bool
	SRID    int32
}

// Reader is a bounds checked cursor over a WKB buffer. The byte order is
// taken from the last header read.
type Reader struct {
	data  []byte
	pos   int
	order binary.ByteOrder
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data, order: binary.LittleEndian}
}

// Clone returns an independent cursor at the same position.
func (r *Reader) Clone() *Reader {
	c := *r
	return &c
}

func (r *Reader) Pos() int       { return r.pos }
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// Has reports whether n more bytes can be read.
func (r *Reader) Has(n uint64) bool {
	return n <= uint64(r.Remaining())
}

func (r *Reader) Skip(n uint64) error {
	if !r.Has(n) {
		return geom.ErrTruncated
	}
	r.pos += int(n)
	return nil
}

func (r *Reader) Uint32() (uint32, error) {
	if !r.Has(4) {
		return 0, geom.ErrTruncated
	}
	v := r.order.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *Reader) Float64() (float64, error) {
	if !r.Has(8) {
		return 0, geom.ErrTruncated
	}
	v := math.Float64frombits(r.order.Uint64(r.data[r.pos:]))
	r.pos += 8
	return v, nil
}

// CoordsSize returns the byte size of n tuples.
func CoordsSize(layout geom.Layout, n uint32) uint64 {
	return uint64(n) * uint64(layout.Stride()) * 8
}

// ReadPoints reads n coordinate tuples.
func (r *Reader) ReadPoints(layout geom.Layout, n uint32) (*geom.PointArray, error) {
	if !r.Has(CoordsSize(layout, n)) {
		return nil, geom.ErrTruncated
	}
	pa := geom.NewPointArray(layout, int(n))
	for i := range pa.Flat {
		pa.Flat[i] = math.Float64frombits(r.order.Uint64(r.data[r.pos:]))
		r.pos += 8
	}
	return pa, nil
}

// ReadHeader reads the byte order marker, the type code and the optional
// SRID. Out of range SRIDs are clamped.
func (r *Reader) ReadHeader() (Header, error) {
	var hdr Header
	if !r.Has(1) {
		return hdr, errors.Wrap(geom.ErrTruncated, "byte order")
	}
	switch r.data[r.pos] {
	case byteOrderXDR:
		r.order = binary.BigEndian
	case byteOrderNDR:
		r.order = binary.LittleEndian
	default:
		return hdr, errors.Wrapf(geom.ErrInvalidByteOrder, "marker %d", r.data[r.pos])
	}
	r.pos++

	code, err := r.Uint32()
	if err != nil {
		return hdr, errors.Wrap(err, "type code")
	}

	var hasZ, hasM bool
	if code&flagMask != 0 {
		hasZ = code&flagZ != 0
		hasM = code&flagM != 0
		hdr.HasSRID = code&flagSRID != 0
	}
	code &^= flagMask

	// Oracle and other vendors use codes above 4000
	if code >= 4000 {
		return hdr, errors.Wrapf(geom.ErrUnknownType, "type code %d", code)
	}
	switch code / 1000 {
	case 1:
		hasZ = true
	case 2:
		hasM = true
	case 3:
		hasZ, hasM = true, true
	}
	t, ok := geom.TypeFromWKB(code % 1000)
	if !ok {
		return hdr, errors.Wrapf(geom.ErrUnknownType, "type code %d", code)
	}
	hdr.Type = t
	hdr.Layout = geom.NewLayout(hasZ, hasM)

	if hdr.HasSRID {
		srid, err := r.Uint32()
		if err != nil {
			return hdr, errors.Wrap(err, "srid")
		}
		hdr.SRID = geom.ClampSRID(int32(srid))
	}
	return hdr, nil
}

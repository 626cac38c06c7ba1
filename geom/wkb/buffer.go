package wkb

import (
	"encoding/binary"
	"math"

	"github.com/omniscale/dmgeo/geom"
)

// Flavor selects how Z/M are signalled in written type codes.
type Flavor int

const (
	// Extended sets the 0x80000000/0x40000000 flag bits.
	Extended Flavor = iota
	// ISO adds 1000/2000/3000 to the base type code.
	ISO
)

// Buffer is an append-only WKB writer.
type Buffer struct {
	order  binary.ByteOrder
	flavor Flavor
	buf    []byte
}

func NewBuffer(order binary.ByteOrder, flavor Flavor, capacity int) *Buffer {
	return &Buffer{order: order, flavor: flavor, buf: make([]byte, 0, capacity)}
}

func (b *Buffer) Bytes() []byte { return b.buf }

// TypeCode returns the WKB type code for t in the buffer's flavor.
func (b *Buffer) TypeCode(t geom.Type, layout geom.Layout, withSRID bool) uint32 {
	code := t.WKBCode()
	switch b.flavor {
	case ISO:
		if layout.HasZ() {
			code += 1000
		}
		if layout.HasM() {
			code += 2000
		}
	default:
		if layout.HasZ() {
			code |= flagZ
		}
		if layout.HasM() {
			code |= flagM
		}
	}
	if withSRID {
		code |= flagSRID
	}
	return code
}

// WriteHeader writes the byte order marker, the type code and the SRID
// unless it is geom.SRIDUnknown.
func (b *Buffer) WriteHeader(t geom.Type, layout geom.Layout, srid int32) {
	if b.order == binary.BigEndian {
		b.buf = append(b.buf, byteOrderXDR)
	} else {
		b.buf = append(b.buf, byteOrderNDR)
	}
	withSRID := srid != geom.SRIDUnknown
	b.WriteUint32(b.TypeCode(t, layout, withSRID))
	if withSRID {
		b.WriteUint32(uint32(srid))
	}
}

func (b *Buffer) WriteUint32(v uint32) {
	var tmp [4]byte
	b.order.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *Buffer) WriteFloat64(v float64) {
	var tmp [8]byte
	b.order.PutUint64(tmp[:], math.Float64bits(v))
	b.buf = append(b.buf, tmp[:]...)
}

// WriteFloats writes flat ordinates.
func (b *Buffer) WriteFloats(flat []float64) {
	for _, v := range flat {
		b.WriteFloat64(v)
	}
}

// WriteLittleEndianFloats copies ordinates that are already encoded as
// little endian doubles. len(raw) must be a multiple of 8.
func (b *Buffer) WriteLittleEndianFloats(raw []byte) {
	if b.order == binary.LittleEndian {
		b.buf = append(b.buf, raw...)
		return
	}
	for i := 0; i+8 <= len(raw); i += 8 {
		b.WriteFloat64(math.Float64frombits(binary.LittleEndian.Uint64(raw[i:])))
	}
}

// WriteEmpty writes the canonical empty form of t: NaN ordinates for points,
// a zero count for everything else.
func (b *Buffer) WriteEmpty(t geom.Type, layout geom.Layout, srid int32) {
	b.WriteHeader(t, layout, srid)
	if t == geom.TypePoint {
		for i := 0; i < layout.Stride(); i++ {
			b.WriteFloat64(math.NaN())
		}
		return
	}
	b.WriteUint32(0)
}

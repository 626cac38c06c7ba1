package gser

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/omniscale/dmgeo/geom"
	"github.com/omniscale/dmgeo/geom/wkb"
	"github.com/omniscale/dmgeo/log"
)

// Encode converts a serialized geometry to little endian EWKB. The SRID
// is written when it is set.
func Encode(data []byte) ([]byte, error) {
	return EncodeWithByteOrder(data, binary.LittleEndian)
}

func EncodeWithByteOrder(data []byte, order binary.ByteOrder) ([]byte, error) {
	buf, err := encode(data, order)
	if err != nil {
		log.Printf("[warn] converting serialized geometry to WKB: %v", err)
		return nil, err
	}
	return buf, nil
}

func encode(data []byte, order binary.ByteOrder) ([]byte, error) {
	hdr, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}
	p := &payloadReader{data: data[hdr.payload:hdr.Size]}
	b := wkb.NewBuffer(order, wkb.Extended, len(p.data)+16)
	if err := encodeGeometry(p, b, hdr.Layout(), hdr.SRID, 0); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// payloadReader is a bounds checked little endian cursor.
type payloadReader struct {
	data []byte
	pos  int
}

func (p *payloadReader) uint32() (uint32, error) {
	if len(p.data)-p.pos < 4 {
		return 0, errors.Wrapf(geom.ErrTruncated, "reading count at %d", p.pos)
	}
	v := binary.LittleEndian.Uint32(p.data[p.pos:])
	p.pos += 4
	return v, nil
}

func (p *payloadReader) peekUint32() (uint32, error) {
	v, err := p.uint32()
	if err == nil {
		p.pos -= 4
	}
	return v, err
}

func (p *payloadReader) coords(layout geom.Layout, n uint32) ([]byte, error) {
	size := wkb.CoordsSize(layout, n)
	if uint64(len(p.data)-p.pos) < size {
		return nil, errors.Wrapf(geom.ErrTruncated, "%d points at %d", n, p.pos)
	}
	raw := p.data[p.pos : p.pos+int(size)]
	p.pos += int(size)
	return raw, nil
}

func encodeGeometry(p *payloadReader, b *wkb.Buffer, layout geom.Layout, srid int32, depth int) error {
	tag, err := p.uint32()
	if err != nil {
		return err
	}
	t, ok := geom.TypeFromInternal(tag)
	if !ok {
		return errors.Wrapf(geom.ErrUnknownType, "type tag %d", tag)
	}
	n, err := p.uint32()
	if err != nil {
		return errors.Wrapf(err, "%s", t)
	}

	switch t {
	case geom.TypePoint:
		if n == 0 {
			b.WriteEmpty(t, layout, srid)
			return nil
		}
		if n != 1 {
			return errors.Errorf("point with %d coordinates", n)
		}
		raw, err := p.coords(layout, n)
		if err != nil {
			return errors.Wrap(err, "point")
		}
		b.WriteHeader(t, layout, srid)
		b.WriteLittleEndianFloats(raw)

	case geom.TypeLineString, geom.TypeCircularString, geom.TypeTriangle:
		raw, err := p.coords(layout, n)
		if err != nil {
			return errors.Wrapf(err, "%s", t)
		}
		if n == 0 {
			b.WriteEmpty(t, layout, srid)
			return nil
		}
		b.WriteHeader(t, layout, srid)
		if t == geom.TypeTriangle {
			b.WriteUint32(1)
		}
		b.WriteUint32(n)
		b.WriteLittleEndianFloats(raw)

	case geom.TypePolygon:
		counts := make([]uint32, 0, capHint(n, (len(p.data)-p.pos)/4))
		var total uint64
		for i := uint32(0); i < n; i++ {
			c, err := p.uint32()
			if err != nil {
				return errors.Wrapf(err, "polygon ring %d", i)
			}
			counts = append(counts, c)
			total += uint64(c)
		}
		if n%2 == 1 {
			if _, err := p.uint32(); err != nil {
				return errors.Wrap(err, "polygon padding")
			}
		}
		if total == 0 {
			b.WriteEmpty(t, layout, srid)
			return nil
		}
		b.WriteHeader(t, layout, srid)
		b.WriteUint32(n)
		for i, c := range counts {
			raw, err := p.coords(layout, c)
			if err != nil {
				return errors.Wrapf(err, "polygon ring %d", i)
			}
			b.WriteUint32(c)
			b.WriteLittleEndianFloats(raw)
		}

	default:
		depth++
		if depth > geom.MaxDepth {
			return errors.Wrapf(geom.ErrTooDeep, "depth %d", depth)
		}
		b.WriteHeader(t, layout, srid)
		b.WriteUint32(n)
		for i := uint32(0); i < n; i++ {
			tag, err := p.peekUint32()
			if err != nil {
				return errors.Wrapf(err, "%s member %d", t, i)
			}
			if member, ok := geom.TypeFromInternal(tag); ok && !geom.AllowsMember(t, member) {
				return errors.Wrapf(geom.ErrDisallowedMember, "%s in %s at %d", member, t, i)
			}
			if err := encodeGeometry(p, b, layout, geom.SRIDUnknown, depth); err != nil {
				return err
			}
		}
	}
	return nil
}

// capHint limits a preallocation from an untrusted count.
func capHint(n uint32, max int) int {
	if uint64(n) > uint64(max) {
		return max
	}
	return int(n)
}

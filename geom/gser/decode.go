package gser

import (
	"github.com/pkg/errors"

	"github.com/omniscale/dmgeo/geom"
	"github.com/omniscale/dmgeo/geom/wkb"
	"github.com/omniscale/dmgeo/log"
)

type Options struct {
	// DefaultSRID is used when the WKB carries no SRID.
	DefaultSRID int32
}

// Decode converts WKB or EWKB to the serialized form. env is the extent of
// the geometry, a bounding box is stored if it has a width and a height.
// Use geom.EmptyEnvelope to never store a box.
func Decode(data []byte, env geom.Envelope) ([]byte, error) {
	return DecodeWithOptions(data, env, Options{})
}

func DecodeWithOptions(data []byte, env geom.Envelope, opts Options) ([]byte, error) {
	buf, err := decode(data, env, opts)
	if err != nil {
		log.Printf("[warn] converting WKB to serialized geometry: %v", err)
		return nil, err
	}
	return buf, nil
}

func decode(data []byte, env geom.Envelope, opts Options) ([]byte, error) {
	r := wkb.NewReader(data)
	hdr, err := r.ReadHeader()
	if err != nil {
		return nil, err
	}
	srid := hdr.SRID
	if srid == geom.SRIDUnknown {
		srid = geom.ClampSRID(opts.DefaultSRID)
	}

	payload, err := payloadSize(r.Clone(), hdr, 0)
	if err != nil {
		return nil, err
	}
	withBox := env.NeedsBox()
	size := headerSize + payload
	if withBox {
		size += 4 * boxFloats(hdr.Layout, false)
	}

	g, err := wkb.ReadGeometry(r, hdr, 0)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, size)
	putHeader(buf, srid, hdr.Layout, withBox)
	w := &serialWriter{buf: buf, pos: headerSize}
	if withBox {
		w.pos += putBox(buf[headerSize:], env, hdr.Layout)
	}
	if err := writeGeometry(w, g, 0); err != nil {
		return nil, errors.Wrapf(err, "%s", hdr.Type)
	}
	if w.pos != size {
		log.Printf("[debug] serialized %s is %d bytes, expected %d", hdr.Type, w.pos, size)
		buf = buf[:w.pos]
	}
	putSize(buf, len(buf))
	return buf, nil
}

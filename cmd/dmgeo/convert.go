package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/omniscale/dmgeo/config"
	"github.com/omniscale/dmgeo/geom"
	"github.com/omniscale/dmgeo/geom/gser"
	"github.com/omniscale/dmgeo/geom/wkb"
	"github.com/omniscale/dmgeo/log"
)

const maxLineSize = 256 * 1024 * 1024

type lineFunc func(data []byte) (string, error)

// run converts every non-empty line of in. Failed lines are logged and
// skipped, an error is returned if any line failed.
func run(cmd string, opts *config.Base, in io.Reader, out io.Writer) error {
	var conv lineFunc
	switch cmd {
	case "decode":
		conv = decodeLine(opts)
	case "encode":
		conv = encodeLine(opts)
	case "info":
		conv = infoLine(opts)
	default:
		return errors.Errorf("invalid command: '%s'", cmd)
	}

	defer log.Step(cmd)()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	w := bufio.NewWriter(out)
	defer w.Flush()

	lines, failed := 0, 0
	var written uint64
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines++
		data, err := hex.DecodeString(line)
		if err == nil {
			var result string
			result, err = conv(data)
			if err == nil {
				fmt.Fprintln(w, result)
				written += uint64(len(result)) + 1
				continue
			}
		}
		failed++
		log.Printf("[warn] line %d: %v", lines, err)
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "reading input")
	}
	log.Printf("[info] converted %d of %d geometries, %s written", lines-failed, lines, humanize.Bytes(written))
	if failed > 0 {
		return errors.Errorf("%d of %d geometries failed", failed, lines)
	}
	return nil
}

func decodeLine(opts *config.Base) lineFunc {
	options := gser.Options{DefaultSRID: int32(opts.Srid)}
	class := opts.ColumnClass()
	return func(data []byte) (string, error) {
		if class != 0 {
			hdr, err := wkb.NewReader(data).ReadHeader()
			if err != nil {
				return "", err
			}
			if err := checkColumn(class, hdr.Type); err != nil {
				return "", err
			}
		}
		env := geom.EmptyEnvelope()
		if opts.WithBBox() {
			g, _, err := wkb.Unmarshal(data)
			if err != nil {
				return "", err
			}
			env = geom.EnvelopeOf(g)
		}
		buf, err := gser.DecodeWithOptions(data, env, options)
		if err != nil {
			return "", err
		}
		return strings.ToUpper(hex.EncodeToString(buf)), nil
	}
}

func encodeLine(opts *config.Base) lineFunc {
	order := opts.Order()
	return func(data []byte) (string, error) {
		buf, err := gser.EncodeWithByteOrder(data, order)
		if err != nil {
			return "", err
		}
		return strings.ToUpper(hex.EncodeToString(buf)), nil
	}
}

func infoLine(opts *config.Base) lineFunc {
	class := opts.ColumnClass()
	return func(data []byte) (string, error) {
		hdr, err := gser.ReadHeader(data)
		if err != nil {
			return "", err
		}
		s := fmt.Sprintf("%s %s srid=%d size=%d", hdr.Type, hdr.Layout(), hdr.SRID, hdr.Size)
		if hdr.HasBBox {
			s += fmt.Sprintf(" bbox=%v", hdr.BBox)
		}
		if hdr.Geodetic {
			s += " geodetic"
		}
		if class != 0 {
			s += " column=" + geom.ClassTypeName(class)
			if !geom.ColumnAccepts(class, hdr.Type) {
				s += " mismatch"
			}
		}
		return s, nil
	}
}

func checkColumn(class int32, t geom.Type) error {
	if !geom.ColumnAccepts(class, t) {
		return errors.Errorf("%s not allowed in %s column", t, geom.ClassTypeName(class))
	}
	return nil
}

package gser

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"

	"github.com/omniscale/dmgeo/geom"
)

// FromHexWKB decodes hex encoded (E)WKB. Upper and lower case digits are
// accepted.
func FromHexWKB(s string, env geom.Envelope) ([]byte, error) {
	data, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Wrap(err, "decoding hex WKB")
	}
	return Decode(data, env)
}

// ToHexWKB returns the little endian EWKB of data as upper case hex.
func ToHexWKB(data []byte) (string, error) {
	buf, err := Encode(data)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

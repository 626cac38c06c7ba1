package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniscale/dmgeo/config"
	"github.com/omniscale/dmgeo/geom"
	"github.com/omniscale/dmgeo/log"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	log.SetOutput(os.Stderr)
	os.Exit(code)
}

const (
	pointWKB = "0101000000000000000000F03F0000000000000040"
	// LINESTRING(0 0, 2 1)
	lineWKB = "010200000002000000" +
		"00000000000000000000000000000000" +
		"0000000000000040000000000000F03F"
)

func parse(t *testing.T, cmd string, args ...string) *config.Base {
	opts, err := config.Parse(cmd, args)
	require.NoError(t, err)
	return opts
}

func convert(t *testing.T, cmd string, opts *config.Base, input string) ([]string, error) {
	out := &bytes.Buffer{}
	err := run(cmd, opts, strings.NewReader(input), out)
	return strings.Fields(out.String()), err
}

func TestDecodeEncode(t *testing.T) {
	serialized, err := convert(t, "decode", parse(t, "decode", "-srid", "4326"), pointWKB+"\n\n"+lineWKB+"\n")
	require.NoError(t, err)
	require.Len(t, serialized, 2)

	info := &bytes.Buffer{}
	require.NoError(t, run("info", parse(t, "info"), strings.NewReader(strings.Join(serialized, "\n")), info))
	lines := strings.Split(strings.TrimSpace(info.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "POINT XY srid=4326 size=32", lines[0])
	assert.Equal(t, "LINESTRING XY srid=4326 size=64 bbox=[0 2 0 1]", lines[1])

	wkbs, err := convert(t, "encode", parse(t, "encode"), strings.Join(serialized, "\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"0101000020E6100000000000000000F03F0000000000000040",
		"0102000020E610000002000000" +
			"00000000000000000000000000000000" +
			"0000000000000040000000000000F03F",
	}, wkbs)
}

func TestDecodeWithoutBBox(t *testing.T) {
	serialized, err := convert(t, "decode", parse(t, "decode", "-bbox", "none"), lineWKB)
	require.NoError(t, err)
	require.Len(t, serialized, 1)

	info, err := convert(t, "info", parse(t, "info"), serialized[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"LINESTRING", "XY", "srid=0", "size=48"}, info)
}

func TestEncodeXDR(t *testing.T) {
	serialized, err := convert(t, "decode", parse(t, "decode"), pointWKB)
	require.NoError(t, err)

	wkbs, err := convert(t, "encode", parse(t, "encode", "-byteorder", "xdr"), serialized[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"00000000013FF00000000000004000000000000000"}, wkbs)
}

func TestFailedLines(t *testing.T) {
	out, err := convert(t, "decode", parse(t, "decode"), "zz\n"+pointWKB+"\n0101\n")
	assert.EqualError(t, err, "2 of 3 geometries failed")
	assert.Len(t, out, 1)
}

func TestColumnClass(t *testing.T) {
	class := fmt.Sprint(geom.ClassLine)
	serialized, err := convert(t, "decode", parse(t, "decode", "-class", class), pointWKB+"\n"+lineWKB+"\n")
	assert.EqualError(t, err, "1 of 2 geometries failed")
	require.Len(t, serialized, 1)

	info, err := convert(t, "info", parse(t, "info", "-class", class), serialized[0])
	require.NoError(t, err)
	assert.Contains(t, info, "column=LINESTRING")
	assert.NotContains(t, info, "mismatch")

	point, err := convert(t, "decode", parse(t, "decode"), pointWKB)
	require.NoError(t, err)
	info, err = convert(t, "info", parse(t, "info", "-class", class), point[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"POINT", "XY", "srid=0", "size=32", "column=LINESTRING", "mismatch"}, info)
}

func TestRunInput(t *testing.T) {
	_, err := os.Stat("missing.txt")
	require.True(t, os.IsNotExist(err))
	assert.Error(t, runInput("decode", parse(t, "decode", "missing.txt")))
}

package config

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/omniscale/dmgeo/geom"
	"github.com/omniscale/dmgeo/log"
)

// Config is the content of the optional YAML config file.
type Config struct {
	ByteOrder string `yaml:"byte_order"`
	Srid      int    `yaml:"srid"`
	LogLevel  string `yaml:"log_level"`
	BBox      string `yaml:"bbox"`
	Class     int    `yaml:"class"`
}

const defaultByteOrder = "ndr"
const defaultLogLevel = "info"
const defaultBBox = "auto"

type Base struct {
	ConfigFile string
	ByteOrder  string
	Srid       int
	LogLevel   string
	BBox       string
	// Class is the class id of the target column, 0 for none.
	Class int
	// Input is the file with one hex geometry per line, stdin if empty or "-".
	Input string
}

func addBaseFlags(opts *Base, flags *flag.FlagSet) {
	flags.StringVar(&opts.ConfigFile, "config", "", "config (yaml)")
	flags.StringVar(&opts.ByteOrder, "byteorder", defaultByteOrder, "byte order of written WKB (ndr|xdr)")
	flags.IntVar(&opts.Srid, "srid", 0, "srs id for geometries without SRID")
	flags.StringVar(&opts.LogLevel, "loglevel", defaultLogLevel, "minimal log level (debug|info|warn|error)")
	flags.StringVar(&opts.BBox, "bbox", defaultBBox, "store bounding boxes (auto|none)")
	flags.IntVar(&opts.Class, "class", 0, "class id of the target column, restricts geometry types")
}

// updateFromConfig fills all options that were not set on the command line
// from the config file.
func (o *Base) updateFromConfig(set map[string]bool) error {
	conf := &Config{}
	if o.ConfigFile != "" {
		b, err := ioutil.ReadFile(o.ConfigFile)
		if err != nil {
			return errors.Wrap(err, "reading config")
		}
		if err := yaml.UnmarshalStrict(b, conf); err != nil {
			return errors.Wrapf(err, "parsing config %s", o.ConfigFile)
		}
	}

	if !set["byteorder"] && conf.ByteOrder != "" {
		o.ByteOrder = conf.ByteOrder
	}
	if !set["srid"] && conf.Srid != 0 {
		o.Srid = conf.Srid
	}
	if !set["loglevel"] && conf.LogLevel != "" {
		o.LogLevel = conf.LogLevel
	}
	if !set["bbox"] && conf.BBox != "" {
		o.BBox = conf.BBox
	}
	if !set["class"] && conf.Class != 0 {
		o.Class = conf.Class
	}
	o.ByteOrder = strings.ToLower(o.ByteOrder)
	o.BBox = strings.ToLower(o.BBox)
	return nil
}

func (o *Base) check() []error {
	errs := []error{}
	if o.ByteOrder != "ndr" && o.ByteOrder != "xdr" {
		errs = append(errs, errors.Errorf("invalid byte order %q, only ndr or xdr are supported", o.ByteOrder))
	}
	if o.BBox != "auto" && o.BBox != "none" {
		errs = append(errs, errors.Errorf("invalid bbox %q, only auto or none are supported", o.BBox))
	}
	if o.Srid < 0 || o.Srid > int(geom.SRIDMaximum) {
		errs = append(errs, errors.Errorf("srid %d out of range [0, %d]", o.Srid, geom.SRIDMaximum))
	}
	if o.Class != 0 && geom.ClassTypeName(int32(o.Class)) == "UNKNOWN" {
		errs = append(errs, errors.Errorf("unknown column class id %d", o.Class))
	}
	if _, err := log.ParseLevel(o.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errs
}

// Order returns the byte order for written WKB.
func (o *Base) Order() binary.ByteOrder {
	if o.ByteOrder == "xdr" {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// WithBBox reports whether decoded geometries get a bounding box.
func (o *Base) WithBBox() bool {
	return o.BBox != "none"
}

// ColumnClass returns the class id of the target column, 0 for none.
func (o *Base) ColumnClass() int32 {
	return int32(o.Class)
}

func (o *Base) Level() log.Level {
	lvl, err := log.ParseLevel(o.LogLevel)
	if err != nil {
		return log.LInfo
	}
	return lvl
}

// ErrorList collects all problems found in the options.
type ErrorList []error

func (e ErrorList) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return "errors in config/options: " + strings.Join(msgs, "; ")
}

// Parse parses the options of a sub command. The first positional
// argument is the input file.
func Parse(cmd string, args []string) (*Base, error) {
	opts := &Base{}
	flags := flag.NewFlagSet(cmd, flag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: %s %s [args] [input]\n\n", os.Args[0], cmd)
		flags.PrintDefaults()
	}
	addBaseFlags(opts, flags)
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() > 1 {
		return nil, errors.Errorf("expected at most one input file, got %d", flags.NArg())
	}
	opts.Input = flags.Arg(0)

	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if err := opts.updateFromConfig(set); err != nil {
		return nil, err
	}
	if errs := opts.check(); len(errs) != 0 {
		return nil, ErrorList(errs)
	}
	return opts, nil
}

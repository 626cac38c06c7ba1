package main

import (
	"fmt"
	"io"
	"os"

	"github.com/omniscale/dmgeo"
	"github.com/omniscale/dmgeo/config"
	"github.com/omniscale/dmgeo/log"
)

func PrintCmds() {
	fmt.Fprintf(os.Stderr, "Usage: %s COMMAND [args] [input]\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Available commands:")
	fmt.Fprintln(os.Stderr, "\tdecode   hex WKB to hex serialized geometries")
	fmt.Fprintln(os.Stderr, "\tencode   hex serialized geometries to hex WKB")
	fmt.Fprintln(os.Stderr, "\tinfo     describe hex serialized geometries")
	fmt.Fprintln(os.Stderr, "\tversion")
}

func Main(usage func()) {
	if len(os.Args) <= 1 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "decode", "encode", "info":
		opts, err := config.Parse(os.Args[1], os.Args[2:])
		if err != nil {
			log.Fatal(err)
		}
		log.SetMinLevel(opts.Level())

		if err := runInput(os.Args[1], opts); err != nil {
			log.Fatal(err)
		}
	case "version":
		fmt.Println(dmgeo.Version)
	default:
		usage()
		log.Fatalf("invalid command: '%s'", os.Args[1])
	}
}

// runInput runs cmd on the configured input file or stdin.
func runInput(cmd string, opts *config.Base) error {
	var in io.Reader = os.Stdin
	if opts.Input != "" && opts.Input != "-" {
		f, err := os.Open(opts.Input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	return run(cmd, opts, in, os.Stdout)
}

func main() {
	Main(PrintCmds)
}

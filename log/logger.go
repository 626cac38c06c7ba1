// Package log writes leveled messages through the standard library logger.
//
// The level is part of the message: Printf("[warn] ring %d not closed", i).
// Messages below the minimum level are dropped by a filter in front of the
// output writer. Messages without a level tag are always written.
package log

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
)

type Level string

const (
	LDebug = Level("debug")
	LInfo  = Level("info")
	LStep  = Level("step")
	LWarn  = Level("warn")
	LError = Level("error")
	LFatal = Level("fatal")
)

var levels = []Level{LDebug, LInfo, LStep, LWarn, LError, LFatal}

var DefaultLogger *log.Logger
var defaultFilter *logFilter

func init() {
	defaultFilter = &logFilter{
		writer:   os.Stderr,
		minLevel: LInfo,
	}
	defaultFilter.init()
	DefaultLogger = log.New(defaultFilter, "", 0)
}

// ParseLevel returns the Level named s.
func ParseLevel(s string) (Level, error) {
	for _, l := range levels {
		if string(l) == s {
			return l, nil
		}
	}
	return "", errors.Errorf("unknown log level %q", s)
}

type logFilter struct {
	mu        sync.Mutex
	writer    io.Writer
	minLevel  Level
	badLevels map[Level]struct{}
}

func (f *logFilter) init() {
	badLevels := make(map[Level]struct{})
	for _, level := range levels {
		if level == f.minLevel {
			break
		}
		badLevels[level] = struct{}{}
	}
	f.badLevels = badLevels
}

func lineLevel(line []byte) Level {
	x := bytes.IndexByte(line, '[')
	if x < 0 {
		return ""
	}
	y := bytes.IndexByte(line[x:], ']')
	if y < 0 {
		return ""
	}
	return Level(line[x+1 : x+y])
}

func (f *logFilter) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, drop := f.badLevels[lineLevel(p)]; drop {
		// report the full length, log.Logger treats short writes as errors
		return len(p), nil
	}
	b := bytes.Buffer{}
	b.WriteString(time.Now().Format(time.RFC3339))
	b.WriteByte(' ')
	b.Write(p)
	if _, err := f.writer.Write(b.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}

// SetMinLevel drops all messages below lvl.
func SetMinLevel(lvl Level) {
	defaultFilter.mu.Lock()
	defaultFilter.minLevel = lvl
	defaultFilter.init()
	defaultFilter.mu.Unlock()
}

// SetOutput redirects all messages to w.
func SetOutput(w io.Writer) {
	defaultFilter.mu.Lock()
	defaultFilter.writer = w
	defaultFilter.mu.Unlock()
}

func Println(v ...interface{}) {
	DefaultLogger.Output(2, fmt.Sprintln(v...))
}

func Printf(format string, v ...interface{}) {
	DefaultLogger.Output(2, fmt.Sprintf(format, v...))
}

func Fatal(v ...interface{}) {
	DefaultLogger.Output(2, "[fatal] "+fmt.Sprint(v...))
	os.Exit(1)
}

func Fatalf(format string, v ...interface{}) {
	DefaultLogger.Output(2, "[fatal] "+fmt.Sprintf(format, v...))
	os.Exit(1)
}

// Step logs the start of name and returns a function that logs its end with
// the elapsed time.
func Step(name string) func() {
	start := time.Now()
	Println("[step] Starting:", name)
	return func() {
		Printf("[step] Finished: %s in %s", name, time.Since(start))
	}
}

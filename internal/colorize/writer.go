package colorize

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/muesli/termenv"
)

// Writer forwards output, optionally removing escape sequences and
// appending a reset after every write.
type Writer struct {
	w         io.Writer
	strip     bool
	autoReset bool
}

func NewWriter(w io.Writer, strip bool) *Writer {
	return &Writer{w: w, strip: strip}
}

// Wrap returns a Writer for f that strips escapes unless f is a terminal
// that accepts color. NO_COLOR and CLICOLOR_FORCE are honored.
func Wrap(w io.Writer, f *os.File) *Writer {
	out := termenv.NewOutput(f)
	strip := out.EnvColorProfile() == termenv.Ascii
	if w == nil {
		w = colorable.NewColorable(f)
	}
	return NewWriter(w, strip)
}

// Stripping reports whether escapes are removed.
func (cw *Writer) Stripping() bool { return cw.strip }

// SetAutoReset appends Style.ResetAll after every write when enabled.
func (cw *Writer) SetAutoReset(on bool) { cw.autoReset = on }

func (cw *Writer) Write(p []byte) (int, error) {
	s := string(p)
	if cw.strip {
		s = StripANSI(s)
	} else if cw.autoReset {
		s += Style.ResetAll
	}
	if _, err := io.WriteString(cw.w, s); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Stdout and Stderr are the process streams, wrapped while Init is active.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

var (
	mu               sync.Mutex
	wrapped          bool
	lastAutoReset    bool
	origOut, origErr io.Writer
)

// Init replaces Stdout and Stderr with wrapped writers. Call Deinit to
// restore them.
func Init(autoReset bool) {
	mu.Lock()
	defer mu.Unlock()
	if !wrapped {
		origOut, origErr = Stdout, Stderr
	}
	o := Wrap(nil, os.Stdout)
	e := Wrap(nil, os.Stderr)
	o.SetAutoReset(autoReset)
	e.SetAutoReset(autoReset)
	Stdout, Stderr = o, e
	wrapped, lastAutoReset = true, autoReset
}

func Deinit() {
	mu.Lock()
	defer mu.Unlock()
	if !wrapped {
		return
	}
	Stdout, Stderr = origOut, origErr
	wrapped = false
}

// Reinit repeats the last Init after a Deinit.
func Reinit() {
	mu.Lock()
	auto := lastAutoReset
	mu.Unlock()
	Init(auto)
}

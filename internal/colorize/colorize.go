// Package colorize produces ANSI terminal escape sequences for colored text,
// cursor movement and screen clearing, and strips them again for writers
// that are not terminals.
//
// [Fore], [Back] and [Style] hold ready-made sequences:
//
//	fmt.Println(colorize.Fore.Red + "error" + colorize.Style.ResetAll)
//	fmt.Println(colorize.Colorize("ok", colorize.Fore.Green, "", colorize.Style.Bright))
package colorize

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	csi = "\x1b["
	osc = "\x1b]"
	bel = "\a"
)

// CodeToChars renders an SGR parameter as an escape sequence.
func CodeToChars(code int) string {
	return csi + strconv.Itoa(code) + "m"
}

// SetTitle returns the sequence that sets the terminal window title.
func SetTitle(title string) string {
	return osc + "2;" + title + bel
}

// ClearScreen erases the screen: 0 from cursor to end, 1 to the start, 2
// everything.
func ClearScreen(mode int) string {
	return csi + strconv.Itoa(mode) + "J"
}

// ClearLine erases the current line with the same modes as ClearScreen.
func ClearLine(mode int) string {
	return csi + strconv.Itoa(mode) + "K"
}

type ForeColors struct {
	Black, Red, Green, Yellow, Blue, Magenta, Cyan, White, Reset string

	LightBlackEx, LightRedEx, LightGreenEx, LightYellowEx string
	LightBlueEx, LightMagentaEx, LightCyanEx, LightWhiteEx string
}

type BackColors ForeColors

type Styles struct {
	Bright, Dim, Normal, ResetAll string
}

func palette(base, light, reset int) ForeColors {
	c := func(i int) string { return CodeToChars(i) }
	return ForeColors{
		Black: c(base), Red: c(base + 1), Green: c(base + 2), Yellow: c(base + 3),
		Blue: c(base + 4), Magenta: c(base + 5), Cyan: c(base + 6), White: c(base + 7),
		Reset: c(reset),

		LightBlackEx: c(light), LightRedEx: c(light + 1), LightGreenEx: c(light + 2),
		LightYellowEx: c(light + 3), LightBlueEx: c(light + 4), LightMagentaEx: c(light + 5),
		LightCyanEx: c(light + 6), LightWhiteEx: c(light + 7),
	}
}

var (
	Fore  = palette(30, 90, 39)
	Back  = BackColors(palette(40, 100, 49))
	Style = Styles{
		Bright:   CodeToChars(1),
		Dim:      CodeToChars(2),
		Normal:   CodeToChars(22),
		ResetAll: CodeToChars(0),
	}
)

// Fore256 selects one of the 256 indexed foreground colors.
func Fore256(n uint8) string { return csi + "38;5;" + strconv.Itoa(int(n)) + "m" }

// Back256 selects one of the 256 indexed background colors.
func Back256(n uint8) string { return csi + "48;5;" + strconv.Itoa(int(n)) + "m" }

func ForeRGB(r, g, b uint8) string { return csi + "38;2;" + rgb(r, g, b) + "m" }
func BackRGB(r, g, b uint8) string { return csi + "48;2;" + rgb(r, g, b) + "m" }

func rgb(r, g, b uint8) string {
	return strconv.Itoa(int(r)) + ";" + strconv.Itoa(int(g)) + ";" + strconv.Itoa(int(b))
}

type cursor struct{}

// Cursor builds cursor movement sequences.
var Cursor cursor

func (cursor) Up(n int) string      { return csi + strconv.Itoa(n) + "A" }
func (cursor) Down(n int) string    { return csi + strconv.Itoa(n) + "B" }
func (cursor) Forward(n int) string { return csi + strconv.Itoa(n) + "C" }
func (cursor) Back(n int) string    { return csi + strconv.Itoa(n) + "D" }

// Pos moves the cursor to column x, row y, both starting at 1.
func (cursor) Pos(x, y int) string {
	return csi + strconv.Itoa(y) + ";" + strconv.Itoa(x) + "H"
}

// Colorize wraps text in the given sequences and a trailing reset. Empty
// arguments are skipped.
func Colorize(text, fore, back, style string) string {
	var sb strings.Builder
	sb.Grow(len(text) + len(fore) + len(back) + len(style) + 4)
	sb.WriteString(style)
	sb.WriteString(fore)
	sb.WriteString(back)
	sb.WriteString(text)
	sb.WriteString(Style.ResetAll)
	return sb.String()
}

var ansiRe = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]|\x1b\][^\a\x1b]*(?:\a|\x1b\\)`)

// StripANSI removes CSI and OSC sequences from s.
func StripANSI(s string) string {
	if !strings.Contains(s, "\x1b") {
		return s
	}
	return ansiRe.ReplaceAllString(s, "")
}

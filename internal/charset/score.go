package charset

import (
	"unicode"
	"unicode/utf8"
)

type script int

const (
	scriptNone script = iota
	scriptLatin
	scriptCyrillic
	scriptGreek
	scriptCJK
	scriptHangul
	scriptArabic
	scriptHebrew
	scriptThai
	scriptOther
)

func scriptOf(r rune) script {
	switch {
	case r < 0x80:
		return scriptLatin
	case unicode.Is(unicode.Latin, r):
		return scriptLatin
	case unicode.Is(unicode.Cyrillic, r):
		return scriptCyrillic
	case unicode.Is(unicode.Greek, r):
		return scriptGreek
	case unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana):
		return scriptCJK
	case unicode.Is(unicode.Hangul, r):
		return scriptHangul
	case unicode.Is(unicode.Arabic, r):
		return scriptArabic
	case unicode.Is(unicode.Hebrew, r):
		return scriptHebrew
	case unicode.Is(unicode.Thai, r):
		return scriptThai
	}
	return scriptOther
}

// textStats counts the signals that separate a correct decoding from a
// wrong one.
type textStats struct {
	runes       int
	printable   int
	replaced    int
	control     int
	suspicious  int
	mixedScript int
	caseFlips   int
	letters     int
	accented    int
	byScript    map[script]int
	japanese    bool
}

func suspiciousSymbol(r rune) bool {
	switch {
	case r >= 0x2500 && r <= 0x259F: // box drawing, blocks
		return true
	case r == 0xA4 || r == 0xA6 || r == 0xA8 || r == 0xAF || r == 0xB8:
		return true
	case unicode.Is(unicode.Co, r):
		return true
	}
	return false
}

func measure(text string) textStats {
	s := textStats{byScript: map[script]int{}}
	prevScript := scriptNone
	var prevLetter rune
	prevWasLetter := false

	for _, r := range text {
		s.runes++
		switch {
		case r == utf8.RuneError:
			s.replaced++
		case r == '\n' || r == '\r' || r == '\t':
			s.printable++
		case unicode.IsControl(r):
			s.control++
		case unicode.IsPrint(r):
			s.printable++
		}
		if suspiciousSymbol(r) {
			s.suspicious++
		}

		if !unicode.IsLetter(r) {
			if prevWasLetter && unicode.IsSymbol(r) && r > 0x7F {
				s.suspicious++
			}
			prevScript, prevLetter, prevWasLetter = scriptNone, 0, false
			continue
		}

		sc := scriptOf(r)
		s.letters++
		s.byScript[sc]++
		if sc == scriptLatin && r > 0x7F {
			s.accented++
		}
		if unicode.In(r, unicode.Hiragana, unicode.Katakana) {
			s.japanese = true
		}
		if prevScript != scriptNone && sc != prevScript {
			s.mixedScript++
		}
		if prevWasLetter && unicode.IsLower(prevLetter) && unicode.IsUpper(r) {
			s.caseFlips++
		}
		prevScript, prevLetter, prevWasLetter = sc, r, true
	}
	return s
}

// confidence scores decoded text between 0 and 1.
func confidence(raw []byte, text string) float64 {
	s := measure(text)
	if s.runes == 0 || s.replaced > 0 {
		return 0
	}
	score := 0.5 + 0.5*float64(s.printable)/float64(s.runes)

	ratio := float64(len(text)) / float64(max(1, len(raw)))
	if ratio < 0.5 || ratio > 2 {
		score *= 0.8
	}

	mess := float64(s.control+s.suspicious+s.mixedScript+s.caseFlips) / float64(s.runes)
	if s.letters > 0 {
		if acc := float64(s.accented) / float64(s.letters); acc > 0.35 {
			mess += acc
		}
	}
	score *= max(0, 1-2*mess)
	return min(1, score)
}

var scriptLanguages = map[script]string{
	scriptCyrillic: "Russian",
	scriptGreek:    "Greek",
	scriptCJK:      "Chinese",
	scriptHangul:   "Korean",
	scriptArabic:   "Arabic",
	scriptHebrew:   "Hebrew",
	scriptThai:     "Thai",
}

// guessLanguage names the language of the dominant script.
func guessLanguage(text string) string {
	s := measure(text)
	if s.letters == 0 {
		return "Unknown"
	}
	best, n := scriptNone, 0
	for sc, c := range s.byScript {
		if c > n || (c == n && sc < best) {
			best, n = sc, c
		}
	}
	switch {
	case best == scriptCJK && s.japanese:
		return "Japanese"
	case best == scriptLatin && s.accented == 0:
		return "English"
	case best == scriptLatin:
		return "Latin Based"
	}
	if lang, ok := scriptLanguages[best]; ok {
		return lang
	}
	return "Unknown"
}

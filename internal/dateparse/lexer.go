package dateparse

import "unicode"

type tokenKind int

const (
	tokSpace tokenKind = iota
	tokNumber
	tokWord
	tokPunct
)

type token struct {
	kind tokenKind
	text string
}

func classify(r rune) tokenKind {
	switch {
	case unicode.IsSpace(r):
		return tokSpace
	case r >= '0' && r <= '9':
		return tokNumber
	case unicode.IsLetter(r):
		return tokWord
	}
	return tokPunct
}

// lex splits s into runs of digits, letters and whitespace. Every other
// rune is its own punctuation token.
func lex(s string) []token {
	var toks []token
	runes := []rune(s)
	for i := 0; i < len(runes); {
		kind := classify(runes[i])
		j := i + 1
		if kind != tokPunct {
			for j < len(runes) && classify(runes[j]) == kind {
				j++
			}
		}
		toks = append(toks, token{kind: kind, text: string(runes[i:j])})
		i = j
	}
	return toks
}

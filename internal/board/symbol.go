package board

import "golang.org/x/text/unicode/norm"

// Symbol is the face of a tile. The engine only ever compares symbols for
// equality.
type Symbol string

// DefaultAlphabet is the fruit set of the classic 4x4 game.
var DefaultAlphabet = []Symbol{"🍎", "🍌", "🍓", "🍇", "🍍", "🥝", "🍒", "🥥"}

// Normalize returns s in Unicode NFC form, so that precomposed and
// decomposed spellings of the same glyph compare equal.
func Normalize(s Symbol) Symbol {
	return Symbol(norm.NFC.String(string(s)))
}

// Symbols converts strings to normalized symbols.
func Symbols(ss ...string) []Symbol {
	out := make([]Symbol, len(ss))
	for i, s := range ss {
		out[i] = Normalize(Symbol(s))
	}
	return out
}

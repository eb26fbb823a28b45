package board

// Source is the randomness a shuffle draws from. *math/rand/v2.Rand
// satisfies it.
type Source interface {
	// IntN returns a uniform value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// shuffle permutes tiles in place with the Fisher-Yates algorithm. Each of
// the n! orderings is produced with equal probability provided src is
// uniform.
func shuffle(tiles []Tile, src Source) {
	for i := len(tiles) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		tiles[i], tiles[j] = tiles[j], tiles[i]
	}
}

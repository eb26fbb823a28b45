package session

import "github.com/roach88/pairs/internal/board"

// Dealer produces the board for a new round. It is called once by New and
// once per Reset.
type Dealer func() (*board.Board, error)

// ShuffledDealer deals alphabet onto a width x height board, drawing each
// shuffle from src. Successive rounds continue the same random stream, so a
// seeded src makes a whole session reproducible.
func ShuffledDealer(alphabet []board.Symbol, width, height int, src board.Source) Dealer {
	return func() (*board.Board, error) {
		return board.New(alphabet, width, height, src)
	}
}

// LayoutDealer deals the same fixed layout every round.
func LayoutDealer(width, height int, layout []board.Symbol) Dealer {
	return func() (*board.Board, error) {
		return board.FromLayout(width, height, layout)
	}
}

package engine

import "github.com/roach88/pairs/internal/board"

// TileView is what a renderer may know about one tile: the symbol only
// when it is face up.
type TileView struct {
	Symbol  *board.Symbol `json:"symbol"`
	Status  board.Status  `json:"status"`
	Matched bool          `json:"matched"`
}

// Snapshot is the render state of the whole board.
type Snapshot struct {
	State  State      `json:"state"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Tiles  []TileView `json:"tiles"`
}

// Snapshot captures the current render state. Hidden symbols are withheld.
func (e *Engine) Snapshot() Snapshot {
	tiles := e.board.Tiles()
	views := make([]TileView, len(tiles))
	for i, t := range tiles {
		views[i] = TileView{Status: t.Status, Matched: t.Status == board.Matched}
		if t.Status != board.Hidden {
			s := t.Symbol
			views[i].Symbol = &s
		}
	}
	return Snapshot{
		State:  e.State(),
		Width:  e.board.Width(),
		Height: e.board.Height(),
		Tiles:  views,
	}
}

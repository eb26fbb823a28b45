package board

// Board is a fixed-size grid of tiles stored in row-major order.
//
// INVARIANTS:
//   - len(tiles) == width*height, and that product is even
//   - every symbol on the board occupies exactly two tiles
//   - a Matched tile never changes status again
type Board struct {
	width  int
	height int
	tiles  []Tile
}

// New deals every symbol of alphabet onto two tiles and shuffles them with
// src.
//
// Returns *ConfigurationError if the dimensions are not positive, the area
// is odd, the area is not twice the alphabet size, or the alphabet holds an
// empty or repeated symbol (after NFC normalization).
func New(alphabet []Symbol, width, height int, src Source) (*Board, error) {
	if err := checkShape(width, height); err != nil {
		return nil, err
	}

	normalized, err := checkAlphabet(alphabet)
	if err != nil {
		return nil, err
	}
	if area := width * height; area != 2*len(normalized) {
		return nil, configErr("alphabet",
			"%dx%d board needs %d distinct symbols, got %d", width, height, area/2, len(normalized))
	}

	tiles := make([]Tile, 0, width*height)
	for _, s := range normalized {
		tiles = append(tiles, Tile{Symbol: s}, Tile{Symbol: s})
	}
	shuffle(tiles, src)

	return &Board{width: width, height: height, tiles: tiles}, nil
}

// FromLayout builds a board whose tiles hold layout in order, unshuffled.
// The layout must satisfy the pairing invariant.
func FromLayout(width, height int, layout []Symbol) (*Board, error) {
	if err := checkShape(width, height); err != nil {
		return nil, err
	}
	if len(layout) != width*height {
		return nil, configErr("layout", "%dx%d board needs %d tiles, got %d",
			width, height, width*height, len(layout))
	}

	counts := make(map[Symbol]int, len(layout)/2)
	tiles := make([]Tile, len(layout))
	for i, s := range layout {
		s = Normalize(s)
		if s == "" {
			return nil, configErr("layout", "tile %d has an empty symbol", i)
		}
		counts[s]++
		tiles[i] = Tile{Symbol: s}
	}
	for s, n := range counts {
		if n != 2 {
			return nil, configErr("layout", "symbol %q appears %d times, want 2", s, n)
		}
	}

	return &Board{width: width, height: height, tiles: tiles}, nil
}

func checkShape(width, height int) error {
	if width <= 0 {
		return configErr("width", "must be positive, got %d", width)
	}
	if height <= 0 {
		return configErr("height", "must be positive, got %d", height)
	}
	if (width*height)%2 != 0 {
		return configErr("dimensions", "%dx%d has an odd number of tiles", width, height)
	}
	return nil
}

func checkAlphabet(alphabet []Symbol) ([]Symbol, error) {
	seen := make(map[Symbol]bool, len(alphabet))
	out := make([]Symbol, len(alphabet))
	for i, s := range alphabet {
		s = Normalize(s)
		if s == "" {
			return nil, configErr("alphabet", "symbol %d is empty", i)
		}
		if seen[s] {
			return nil, configErr("alphabet", "symbol %q is listed twice", s)
		}
		seen[s] = true
		out[i] = s
	}
	return out, nil
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

// Len returns the number of tiles.
func (b *Board) Len() int { return len(b.tiles) }

// TileAt returns a copy of the tile at index.
func (b *Board) TileAt(index int) (Tile, error) {
	if err := b.check(index); err != nil {
		return Tile{}, err
	}
	return b.tiles[index], nil
}

// Tiles returns a copy of every tile in index order.
func (b *Board) Tiles() []Tile {
	out := make([]Tile, len(b.tiles))
	copy(out, b.tiles)
	return out
}

// AllMatched reports whether every tile is Matched.
func (b *Board) AllMatched() bool {
	for _, t := range b.tiles {
		if t.Status != Matched {
			return false
		}
	}
	return true
}

// Reveal turns the tile at index face up.
func (b *Board) Reveal(index int) error {
	if err := b.check(index); err != nil {
		return err
	}
	return b.tiles[index].reveal(index)
}

// MarkMatched locks a revealed tile as paired.
func (b *Board) MarkMatched(index int) error {
	if err := b.check(index); err != nil {
		return err
	}
	return b.tiles[index].markMatched(index)
}

// Hide turns a revealed tile face down again.
func (b *Board) Hide(index int) error {
	if err := b.check(index); err != nil {
		return err
	}
	return b.tiles[index].hide(index)
}

func (b *Board) check(index int) error {
	if index < 0 || index >= len(b.tiles) {
		return &IndexError{Index: index, Len: len(b.tiles)}
	}
	return nil
}
